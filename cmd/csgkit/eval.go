package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/chazu/csgkit/pkg/app"
	"github.com/chazu/csgkit/pkg/kernel/sdfx"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func newEvalCmd(e *env) *cobra.Command {
	var out, jsonOut string
	cmd := &cobra.Command{
		Use:   "eval SCRIPT",
		Short: "Evaluate a script and write its parts as STL",
		Long: `Evaluate a csgkit script, tessellate every part and write all of them
into one binary STL file. Use - to read the script from standard input.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source, err := readScript(cmd, args[0])
			if err != nil {
				return err
			}
			a, err := app.New(e.cfg, e.log)
			if err != nil {
				return err
			}
			b, err := a.Run(cmd.Context(), source)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			for _, warn := range b.Warnings {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s\n", warn.Message)
			}
			if !b.OK() {
				for _, ev := range b.Errors {
					fmt.Fprintf(cmd.ErrOrStderr(), "%s:%d:%d: %s\n", args[0], ev.Line, ev.Col, ev.Message)
				}
				return errors.Errorf("%d error(s) in %s", len(b.Errors), args[0])
			}

			for _, m := range b.Meshes {
				fmt.Fprintf(w, "%-24s %8d triangles\n", m.PartName, m.TriangleCount())
			}
			if jsonOut != "" {
				data, err := json.Marshal(b.Result())
				if err != nil {
					return errors.Wrap(err, "encode json")
				}
				if err := writeFile(jsonOut, data); err != nil {
					return err
				}
			}
			if out == "" {
				return nil
			}
			if len(b.Meshes) == 0 {
				return errors.New("script produced no geometry")
			}
			if err := sdfx.SaveSTL(out, b.Meshes...); err != nil {
				return err
			}
			e.log.Info("wrote stl", "path", out, "parts", len(b.Meshes))
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "output", "o", "", "STL file to write")
	cmd.Flags().StringVar(&jsonOut, "json", "", "also write the mesh data as JSON to this file")
	return cmd
}

func readScript(cmd *cobra.Command, path string) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		return string(data), errors.Wrap(err, "read script")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", errors.Wrap(err, "read script")
	}
	return string(data), nil
}
