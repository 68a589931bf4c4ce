package main

import (
	"github.com/chazu/csgkit/pkg/csg"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func newHullCmd(e *env) *cobra.Command {
	var out, points string
	cmd := &cobra.Command{
		Use:   "hull [SOLID...]",
		Short: "Convex hull of solids or of a point cloud",
		Long: `Print the convex hull of one or more KIND:DIMS[@X,Y,Z] solids, or of
the points given with --points.

  csgkit hull sphere:5 sphere:5@0,0,20
  csgkit hull --points "0,0,0 1,0,0 0,1,0 0,0,1"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := e.kernelConfig()
			if err != nil {
				return err
			}

			var h *csg.CSG
			switch {
			case points != "" && len(args) > 0:
				return errors.New("give either solids or --points, not both")
			case points != "":
				pts, err := parsePoints(points)
				if err != nil {
					return err
				}
				if h, err = csg.HullFromPoints(pts, cfg); err != nil {
					return err
				}
			case len(args) > 0:
				solids := make([]*csg.CSG, 0, len(args))
				for _, spec := range args {
					c, err := parseSolid(spec, e.cfg.CLI.Segments, cfg)
					if err != nil {
						return err
					}
					solids = append(solids, c)
				}
				if h = csg.HullAll(solids...); h.IsEmpty() {
					return csg.ErrEmptyHull
				}
			default:
				return errors.New("nothing to hull")
			}

			tri, err := summarize(cmd.Context(), cmd.OutOrStdout(), h)
			if err != nil {
				return err
			}
			if out == "" {
				return nil
			}
			return saveSTL(out, tri)
		},
	}
	cmd.Flags().StringVarP(&out, "output", "o", "", "STL file to write")
	cmd.Flags().StringVar(&points, "points", "", `space separated "x,y,z" points`)
	return cmd
}
