package main

import (
	"log/slog"
	"os"

	"github.com/chazu/csgkit/pkg/config"
	"github.com/chazu/csgkit/pkg/csg"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// env is the state shared by every subcommand once flags are parsed.
type env struct {
	configPath string
	kernelName string
	logLevel   string

	cfg *config.Config
	log *slog.Logger
}

func newRootCmd() *cobra.Command {
	e := &env{}
	root := &cobra.Command{
		Use:           "csgkit",
		Short:         "Constructive solid geometry from scripts",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return e.load(cmd)
		},
	}
	pf := root.PersistentFlags()
	pf.StringVarP(&e.configPath, "config", "c", "", "settings file (TOML)")
	pf.StringVar(&e.kernelName, "kernel", "", "geometry backend: bsp or sdfx")
	pf.StringVar(&e.logLevel, "log-level", "", "debug, info, warn or error")

	root.AddCommand(
		newEvalCmd(e),
		newBoolCmd(e),
		newHullCmd(e),
		newConfigCmd(e),
	)
	return root
}

// load reads the settings file, applies flag overrides and sets up
// logging on the command's error stream.
func (e *env) load(cmd *cobra.Command) error {
	cfg := config.Default()
	if e.configPath != "" {
		var err error
		if cfg, err = config.Open(e.configPath); err != nil {
			return err
		}
	}
	if e.kernelName != "" {
		cfg.CLI.Kernel = e.kernelName
	}
	if e.logLevel != "" {
		cfg.CLI.LogLevel = e.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	level, err := cfg.Level()
	if err != nil {
		return err
	}
	e.cfg = cfg
	e.log = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
	return nil
}

// kernelConfig returns the csg settings with diagnostics sent to the
// command logger.
func (e *env) kernelConfig() (*csg.Config, error) {
	return e.cfg.KernelConfigWithLogger(e.log)
}

func writeFile(path string, data []byte) error {
	return errors.Wrapf(os.WriteFile(path, data, 0o644), "write %s", path)
}
