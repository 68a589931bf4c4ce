package main

import (
	"fmt"

	"github.com/chazu/csgkit/pkg/csg"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func newBoolCmd(e *env) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "bool OP BASE OPERAND...",
		Short: "Combine built-in solids and print the result's metrics",
		Long: `Combine solids given as KIND:DIMS[@X,Y,Z] specs with union, difference
or intersect. Difference and intersect take BASE against the union of the
remaining operands.

  csgkit bool difference cube:20 sphere:13
  csgkit bool union cube:10 cube:10@5,5,5 -o out.stl`,
		Args: cobra.MinimumNArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := e.kernelConfig()
			if err != nil {
				return err
			}
			cfg.Progress = func(current, total int, stage string, _ *csg.CSG) {
				e.log.Debug("progress", "stage", stage, "current", current, "total", total)
			}

			solids := make([]*csg.CSG, 0, len(args)-1)
			for _, spec := range args[1:] {
				c, err := parseSolid(spec, e.cfg.CLI.Segments, cfg)
				if err != nil {
					return err
				}
				solids = append(solids, c)
			}

			res, err := combine(cmd, args[0], solids[0], solids[1:])
			if err != nil {
				return err
			}
			tri, err := summarize(cmd.Context(), cmd.OutOrStdout(), res)
			if err != nil {
				return err
			}
			if out == "" {
				return nil
			}
			if err := saveSTL(out, tri); err != nil {
				return err
			}
			e.log.Info("wrote stl", "path", out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "output", "o", "", "STL file to write")
	return cmd
}

// combine applies op. Two operands go through the Result form so that a
// fallback is reported on the command output; more go through the batch
// operations.
func combine(cmd *cobra.Command, op string, base *csg.CSG, others []*csg.CSG) (*csg.CSG, error) {
	if len(others) == 1 {
		var r csg.Result
		switch op {
		case "union":
			r = base.UnionResult(others[0])
		case "difference":
			r = base.DifferenceResult(others[0])
		case "intersect":
			r = base.IntersectResult(others[0])
		default:
			return nil, errors.Errorf("unknown operation %q (want union, difference or intersect)", op)
		}
		if !r.Ok() {
			fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v\n", r.Failure)
		}
		return r.CSG, nil
	}

	ctx := cmd.Context()
	switch op {
	case "union":
		return base.UnionAll(ctx, others...)
	case "difference":
		return base.DifferenceAll(ctx, others...)
	case "intersect":
		return base.IntersectAll(ctx, others...)
	}
	return nil, errors.Errorf("unknown operation %q (want union, difference or intersect)", op)
}
