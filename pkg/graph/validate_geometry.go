package graph

import (
	"fmt"

	"github.com/chazu/csgkit/pkg/csg"
	"github.com/chazu/csgkit/pkg/shapes"
)

// ---------------------------------------------------------------------------
// Tier 2: geometric validation (errors and warnings)
// ---------------------------------------------------------------------------

// validateGeometry runs all Tier 2 geometric checks.
// Returns errors (blocking) and warnings (advisory) separately.
func validateGeometry(g *DesignGraph) ([]ValidationError, []ValidationWarning) {
	var errs []ValidationError
	var warnings []ValidationWarning

	errs = append(errs, validateDimensions(g)...)
	errs = append(errs, validateTransforms(g)...)
	errs = append(errs, validateOperators(g)...)
	errs = append(errs, validateColors(g)...)

	warnings = append(warnings, validateOverlap(g)...)

	return errs, warnings
}

func dimensionError(id NodeID, what string, v float64) ValidationError {
	return ValidationError{
		NodeID:   id,
		Message:  fmt.Sprintf("%s is %.4f, must be positive", what, v),
		Severity: SeverityError,
	}
}

func segmentsError(id NodeID, n int) []ValidationError {
	// Zero selects the default; one or two facets cannot close a solid.
	if n == 0 || n >= 3 {
		return nil
	}
	return []ValidationError{{
		NodeID:   id,
		Message:  fmt.Sprintf("segments is %d, need at least 3", n),
		Severity: SeverityError,
	}}
}

// validateDimensions checks that every primitive has positive sizes.
func validateDimensions(g *DesignGraph) []ValidationError {
	var errs []ValidationError

	for _, node := range g.Nodes {
		switch d := node.Data.(type) {
		case BoxData:
			if d.Size.X <= 0 {
				errs = append(errs, dimensionError(node.ID, "box size X", d.Size.X))
			}
			if d.Size.Y <= 0 {
				errs = append(errs, dimensionError(node.ID, "box size Y", d.Size.Y))
			}
			if d.Size.Z <= 0 {
				errs = append(errs, dimensionError(node.ID, "box size Z", d.Size.Z))
			}
		case SphereData:
			if d.Radius <= 0 {
				errs = append(errs, dimensionError(node.ID, "sphere radius", d.Radius))
			}
			errs = append(errs, segmentsError(node.ID, d.Segments)...)
		case CylinderData:
			if d.Height <= 0 {
				errs = append(errs, dimensionError(node.ID, "cylinder height", d.Height))
			}
			if d.Radius < 0 || d.TopRadius < 0 || d.Radius+d.TopRadius <= 0 {
				errs = append(errs, ValidationError{
					NodeID:   node.ID,
					Message:  fmt.Sprintf("cylinder radii %.4f and %.4f must be non-negative and not both zero", d.Radius, d.TopRadius),
					Severity: SeverityError,
				})
			}
			if d.Axis != AxisX && d.Axis != AxisY && d.Axis != AxisZ {
				errs = append(errs, ValidationError{
					NodeID:   node.ID,
					Message:  fmt.Sprintf("invalid cylinder axis %s", d.Axis),
					Severity: SeverityError,
				})
			}
			errs = append(errs, segmentsError(node.ID, d.Segments)...)
		case PolyhedronData:
			if _, err := shapes.ParseKind(d.Shape); err != nil {
				errs = append(errs, ValidationError{
					NodeID:   node.ID,
					Message:  fmt.Sprintf("unknown polyhedron %q", d.Shape),
					Severity: SeverityError,
				})
			}
			if d.Radius <= 0 {
				errs = append(errs, dimensionError(node.ID, "polyhedron radius", d.Radius))
			}
		}
	}

	return errs
}

// validateTransforms rejects scales that would flatten a solid.
func validateTransforms(g *DesignGraph) []ValidationError {
	var errs []ValidationError

	for _, node := range g.Nodes {
		d, ok := node.Data.(TransformData)
		if !ok || d.Scale == nil {
			continue
		}
		if d.Scale.X == 0 || d.Scale.Y == 0 || d.Scale.Z == 0 {
			errs = append(errs, ValidationError{
				NodeID:   node.ID,
				Message:  fmt.Sprintf("scale %s has a zero component", *d.Scale),
				Severity: SeverityError,
			})
		}
	}

	return errs
}

// validateOperators checks boolean operator names.
func validateOperators(g *DesignGraph) []ValidationError {
	var errs []ValidationError

	for _, node := range g.Nodes {
		d, ok := node.Data.(BooleanData)
		if !ok {
			continue
		}
		switch d.Op {
		case BoolUnion, BoolDifference, BoolIntersect:
		default:
			errs = append(errs, ValidationError{
				NodeID:   node.ID,
				Message:  fmt.Sprintf("unknown boolean operation %q", d.Op),
				Severity: SeverityError,
			})
		}
	}

	return errs
}

// validateColors checks that group colors parse as #rrggbb.
func validateColors(g *DesignGraph) []ValidationError {
	var errs []ValidationError

	for _, node := range g.Nodes {
		d, ok := node.Data.(GroupData)
		if !ok || d.Color == "" {
			continue
		}
		if _, err := csg.ParseHexColor(d.Color); err != nil {
			errs = append(errs, ValidationError{
				NodeID:   node.ID,
				Message:  fmt.Sprintf("invalid color %q", d.Color),
				Severity: SeverityError,
			})
		}
	}

	return errs
}

// validateOverlap warns about booleans whose operands cannot overlap: a
// difference tool that misses the base changes nothing, and an
// intersection of disjoint operands is empty.
func validateOverlap(g *DesignGraph) []ValidationWarning {
	var warnings []ValidationWarning

	for _, node := range g.Nodes {
		d, ok := node.Data.(BooleanData)
		if !ok || len(node.Children) < 2 {
			continue
		}
		switch d.Op {
		case BoolDifference:
			base, ok := EstimateBounds(g, node.Children[0])
			if !ok {
				continue
			}
			for i, tool := range node.Children[1:] {
				tb, ok := EstimateBounds(g, tool)
				if ok && !base.Intersects(tb) {
					warnings = append(warnings, ValidationWarning{
						NodeID:  node.ID,
						Message: fmt.Sprintf("difference tool %d does not overlap the base and has no effect", i+1),
					})
				}
			}
		case BoolIntersect:
			known := true
			for _, c := range node.Children {
				if _, ok := EstimateBounds(g, c); !ok {
					known = false
				}
			}
			if _, ok := EstimateBounds(g, node.ID); known && !ok {
				warnings = append(warnings, ValidationWarning{
					NodeID:  node.ID,
					Message: "intersect operands do not overlap; the result is empty",
				})
			}
		}
	}

	return warnings
}
