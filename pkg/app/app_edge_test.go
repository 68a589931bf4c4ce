package app

import (
	"strings"
	"testing"
)

// ---------------------------------------------------------------------------
// 1. Empty editor: empty string -> 0 meshes, 0 errors.
// ---------------------------------------------------------------------------

func TestE2EEmptySourceExtended(t *testing.T) {
	app := NewApp()
	result := app.Evaluate("")

	if len(result.Errors) != 0 {
		t.Errorf("expected 0 errors for empty source, got %d", len(result.Errors))
	}
	if len(result.Meshes) != 0 {
		t.Errorf("expected 0 meshes for empty source, got %d", len(result.Meshes))
	}
	if len(result.Warnings) != 0 {
		t.Errorf("expected 0 warnings for empty source, got %d", len(result.Warnings))
	}
	// Slices stay non-nil so JSON shows [] rather than null.
	if result.Meshes == nil {
		t.Error("Meshes should be non-nil empty slice, got nil")
	}
	if result.Errors == nil {
		t.Error("Errors should be non-nil empty slice, got nil")
	}
	if result.Warnings == nil {
		t.Error("Warnings should be non-nil empty slice, got nil")
	}
}

// ---------------------------------------------------------------------------
// 2. Syntax errors: unmatched parens -> eval error, 0 meshes.
// ---------------------------------------------------------------------------

func TestE2ESyntaxErrorWithLineInfo(t *testing.T) {
	app := NewApp()

	// Valid code on line 1, broken code on line 2 so line info is meaningful.
	source := "(+ 1 2)\n(defpart \"test\""
	result := app.Evaluate(source)

	if len(result.Errors) == 0 {
		t.Fatal("expected at least one eval error for unmatched parens")
	}
	if len(result.Meshes) != 0 {
		t.Errorf("expected 0 meshes on syntax error, got %d", len(result.Meshes))
	}

	e := result.Errors[0]
	if e.Message == "" {
		t.Error("syntax error should have a non-empty message")
	}
	t.Logf("syntax error: line=%d, col=%d, message=%q", e.Line, e.Col, e.Message)
}

func TestE2ESyntaxErrorSingleLineMissingParen(t *testing.T) {
	app := NewApp()

	result := app.Evaluate("(+ 1 2")

	if len(result.Errors) == 0 {
		t.Fatal("expected eval error for missing closing paren")
	}
	if len(result.Meshes) != 0 {
		t.Errorf("expected 0 meshes, got %d", len(result.Meshes))
	}
	if result.Errors[0].Message == "" {
		t.Error("error message should not be empty")
	}
}

// ---------------------------------------------------------------------------
// 3. Undefined part reference: (part "nonexistent") -> eval error.
// ---------------------------------------------------------------------------

func TestE2EUndefinedPartReference(t *testing.T) {
	app := NewApp()

	source := `
(defpart "shelf" (cube 600 300 18))

(assembly "unit"
  (place (part "nonexistent") :at (vec3 0 0 0)))
`
	result := app.Evaluate(source)

	if len(result.Errors) == 0 {
		t.Fatal("expected eval error for undefined part reference")
	}
	if !errorsMention(result, "nonexistent") {
		t.Errorf("expected error mentioning 'nonexistent', got: %v", result.Errors)
	}
	if len(result.Meshes) != 0 {
		t.Errorf("expected 0 meshes on error, got %d", len(result.Meshes))
	}
}

func TestE2EUndefinedPartReferenceStandalone(t *testing.T) {
	app := NewApp()

	result := app.Evaluate(`(part "ghost")`)

	if len(result.Errors) == 0 {
		t.Fatal("expected eval error for referencing undefined part")
	}
	if !errorsMention(result, "ghost") {
		t.Errorf("expected error mentioning 'ghost', got: %v", result.Errors)
	}
}

func errorsMention(result EvalResult, s string) bool {
	for _, e := range result.Errors {
		if strings.Contains(e.Message, s) {
			return true
		}
	}
	return false
}

// ---------------------------------------------------------------------------
// 4. Degenerate dimensions are rejected by validation.
// ---------------------------------------------------------------------------

func TestE2EDegenerateDimensions(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   string
	}{
		{"zero length", `(defpart "bad" (cube 0 100 19))`, "box size X"},
		{"all zero", `(defpart "void" (cube 0 0 0))`, "must be positive"},
		{"negative", `(defpart "negative" (cube -100 100 19))`, "box size X"},
		{"flat sphere", `(defpart "dot" (sphere 0))`, "radius"},
		{"zero scale", `(defpart "squashed" (scale (cube 10) 1 0 1))`, "zero component"},
		{"two segments", `(defpart "sliver" (cylinder :h 10 :r 2 :segments 2))`, "need at least 3"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := NewApp().Evaluate(tt.source)
			if len(result.Errors) == 0 {
				t.Fatalf("expected a validation error, got %d meshes", len(result.Meshes))
			}
			if !errorsMention(result, tt.want) {
				t.Errorf("expected an error mentioning %q, got %v", tt.want, result.Errors)
			}
			if len(result.Meshes) != 0 {
				t.Errorf("expected 0 meshes, got %d", len(result.Meshes))
			}
		})
	}
}

// ---------------------------------------------------------------------------
// 5. Rapid evaluation: no panics, no data races.
//    Run with `go test -race` to detect data races.
// ---------------------------------------------------------------------------

func TestE2ERapidEvaluation(t *testing.T) {
	// zygomys keeps global state that is not safe for concurrent sandbox
	// creation, so calls are sequential; the engine mutex serializes them
	// in production anyway.
	app := NewApp()

	sources := []string{
		`(defpart "a" (cube 100 50 10))`,
		`(defpart "b" (sphere 20))`,
		`(+ 1 2)`,
		``,
		`(defpart "c" (cylinder :h 30 :r 15))`,
		`(defpart "d" (difference (cube 40) (sphere 25)))`,
		`(+ 100 200)`,
		``,
		`(defpart "e" (hull (cube 5) (move (cube 5) :at (vec3 20 0 0))))`,
		`(defpart "f" (octahedron 12))`,
	}

	for i, source := range sources {
		func() {
			defer func() {
				if r := recover(); r != nil {
					t.Errorf("iteration %d panicked: %v", i, r)
				}
			}()
			_ = app.Evaluate(source)
		}()
	}
}

func TestE2ERapidEvaluationAlternating(t *testing.T) {
	// Alternates between valid and invalid sources so the engine has to
	// recover cleanly between error and success states.
	app := NewApp()

	sources := []string{
		`(defpart "ok" (cube 100 50 10))`,
		`(defpart "broken"`,
		``,
		`(part "missing")`,
		`(defpart "also-ok" (sphere 10))`,
		`(+ 1 2)`,
		`;; just a comment`,
		`(defpart "fine" (cube 300 150 30))`,
		`(undefined-func 1 2 3)`,
		`(defpart "last" (cube 400 200 18))`,
	}

	for i, source := range sources {
		func() {
			defer func() {
				if r := recover(); r != nil {
					t.Errorf("iteration %d panicked on source %q: %v", i, source, r)
				}
			}()
			_ = app.Evaluate(source)
		}()
	}

	// The last source is valid and must still evaluate normally.
	result := app.Evaluate(sources[len(sources)-1])
	if len(result.Errors) != 0 || len(result.Meshes) != 1 {
		t.Errorf("engine did not recover: %d errors, %d meshes", len(result.Errors), len(result.Meshes))
	}
}

// ---------------------------------------------------------------------------
// 6. Large dimensions: very large solids -> valid mesh without crash.
// ---------------------------------------------------------------------------

func TestE2ELargeDimensions(t *testing.T) {
	app := NewApp()

	result := app.Evaluate(`(defpart "huge" (cube 10000 10000 19))`)

	if len(result.Errors) > 0 {
		t.Fatalf("unexpected errors for large cube: %v", result.Errors)
	}
	if len(result.Meshes) != 1 {
		t.Fatalf("expected 1 mesh for large cube, got %d", len(result.Meshes))
	}

	m := result.Meshes[0]
	if len(m.Vertices) == 0 {
		t.Error("large mesh should have vertices")
	}
	if len(m.Normals) == 0 {
		t.Error("large mesh should have normals")
	}
	if len(m.Indices) == 0 {
		t.Error("large mesh should have indices")
	}
	if m.PartName != "huge" {
		t.Errorf("expected part name 'huge', got %q", m.PartName)
	}
}

func TestE2EVeryLargeDimensions(t *testing.T) {
	app := NewApp()

	// 100,000 mm = 100 meters.
	result := app.Evaluate(`(defpart "giant" (difference (cube 100000 50000 100) (move (cube 10) :at (vec3 50 50 50))))`)

	if len(result.Errors) > 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if len(result.Meshes) != 1 {
		t.Fatalf("expected 1 mesh, got %d", len(result.Meshes))
	}
	if len(result.Meshes[0].Vertices) == 0 {
		t.Error("mesh should have vertices")
	}
}

// ---------------------------------------------------------------------------
// 7. Multiple assemblies: two assemblies in one source -> meshes from both.
// ---------------------------------------------------------------------------

func TestE2EMultipleAssemblies(t *testing.T) {
	app := NewApp()

	source := `
(defpart "shelf-a" (cube 600 300 18))
(defpart "shelf-b" (cube 400 200 18))

(assembly "unit-a"
  (place (part "shelf-a") :at (vec3 0 0 0)))

(assembly "unit-b"
  (place (part "shelf-b") :at (vec3 700 0 0)))
`
	result := app.Evaluate(source)

	if len(result.Errors) > 0 {
		for _, e := range result.Errors {
			t.Errorf("eval error: %s", e.Message)
		}
		t.FailNow()
	}

	// Two assemblies, each with one part -> 2 meshes.
	if len(result.Meshes) != 2 {
		t.Fatalf("expected 2 meshes from two assemblies, got %d", len(result.Meshes))
	}

	names := make(map[string]bool)
	for _, m := range result.Meshes {
		names[m.PartName] = true
		if len(m.Vertices) == 0 {
			t.Errorf("mesh %q should have vertices", m.PartName)
		}
		if m.Color == "" {
			t.Errorf("mesh %q should have a color assigned", m.PartName)
		}
	}

	if !names["shelf-a"] {
		t.Error("missing mesh for shelf-a")
	}
	if !names["shelf-b"] {
		t.Error("missing mesh for shelf-b")
	}
}

func TestE2EMultipleAssembliesWithSharedParts(t *testing.T) {
	app := NewApp()

	source := `
(defpart "panel" (cube 300 200 18))
(defpart "rail" (cube 300 50 18))

(assembly "frame-a"
  (place (part "panel") :at (vec3 0 0 0))
  (place (part "rail")  :at (vec3 0 200 0)))

(assembly "frame-b"
  (place (part "panel") :at (vec3 500 0 0))
  (place (part "rail")  :at (vec3 500 200 0)))
`
	result := app.Evaluate(source)

	if len(result.Errors) > 0 {
		for _, e := range result.Errors {
			t.Errorf("eval error: %s", e.Message)
		}
		t.FailNow()
	}

	// Each assembly places 2 parts, so expect 4 meshes total.
	if len(result.Meshes) != 4 {
		t.Fatalf("expected 4 meshes from two assemblies sharing parts, got %d", len(result.Meshes))
	}
}

func TestE2EDuplicateAssembly(t *testing.T) {
	source := `
(defpart "panel" (cube 300 200 18))
(assembly "frame" (place (part "panel") :at (vec3 0 0 0)))
(assembly "frame" (place (part "panel") :at (vec3 0 0 100)))
`
	result := NewApp().Evaluate(source)
	if !errorsMention(result, "frame") {
		t.Errorf("expected an error about the duplicate assembly, got %v", result.Errors)
	}
}

// ---------------------------------------------------------------------------
// 8. Standalone defparts: no assembly -> one mesh per top-level part.
// ---------------------------------------------------------------------------

func TestE2EStandaloneDefpart(t *testing.T) {
	app := NewApp()

	result := app.Evaluate(`(defpart "shelf" (cube 600 300 18))`)

	if len(result.Errors) > 0 {
		for _, e := range result.Errors {
			t.Errorf("eval error: %s", e.Message)
		}
		t.FailNow()
	}
	if len(result.Meshes) != 1 {
		t.Fatalf("expected 1 mesh from standalone defpart, got %d", len(result.Meshes))
	}
	if result.Meshes[0].PartName != "shelf" {
		t.Errorf("expected part name 'shelf', got %q", result.Meshes[0].PartName)
	}
	if len(result.Meshes[0].Vertices) == 0 {
		t.Error("standalone defpart mesh should have vertices")
	}
}

func TestE2EMultipleStandaloneDefparts(t *testing.T) {
	app := NewApp()

	source := `
(defpart "top" (cube 600 300 18))
(defpart "bottom" (move (cube 600 300 18) :at (vec3 0 0 400)))
`
	result := app.Evaluate(source)

	if len(result.Errors) > 0 {
		for _, e := range result.Errors {
			t.Errorf("eval error: %s", e.Message)
		}
		t.FailNow()
	}
	if len(result.Meshes) != 2 {
		t.Fatalf("expected 2 meshes from two standalone defparts, got %d", len(result.Meshes))
	}

	// Parts without roots come out in name order.
	if result.Meshes[0].PartName != "bottom" || result.Meshes[1].PartName != "top" {
		t.Errorf("parts = %q, %q; want bottom, top", result.Meshes[0].PartName, result.Meshes[1].PartName)
	}
}

func TestE2ENestedPartsRenderOnce(t *testing.T) {
	source := `
(defpart "hole" (cylinder :h 20 :r 3))
(defpart "plate" (difference (cube 40 40 5) (move (part "hole") :at (vec3 20 20 0))))
`
	result := NewApp().Evaluate(source)
	if len(result.Errors) > 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	// "hole" is used by "plate" and does not render on its own.
	if len(result.Meshes) != 1 || result.Meshes[0].PartName != "plate" {
		t.Fatalf("expected only the plate mesh, got %d meshes", len(result.Meshes))
	}
}

// ---------------------------------------------------------------------------
// 9. Comments only: source that is only comments -> 0 meshes, 0 errors.
// ---------------------------------------------------------------------------

func TestE2ECommentsOnly(t *testing.T) {
	app := NewApp()

	source := `
;; This is a comment
;; Another comment
; And another
`
	result := app.Evaluate(source)

	if len(result.Errors) > 0 {
		t.Errorf("unexpected errors for comments-only source: %v", result.Errors)
	}
	if len(result.Meshes) != 0 {
		t.Errorf("expected 0 meshes for comments-only source, got %d", len(result.Meshes))
	}
}

func TestE2ECommentsWithWhitespace(t *testing.T) {
	app := NewApp()

	source := `
  ;; leading whitespace
  ;; trailing whitespace
  ; tabs	everywhere
`
	result := app.Evaluate(source)

	if len(result.Errors) > 0 {
		t.Errorf("unexpected errors for comments+whitespace source: %v", result.Errors)
	}
	if len(result.Meshes) != 0 {
		t.Errorf("expected 0 meshes, got %d", len(result.Meshes))
	}
}

// ---------------------------------------------------------------------------
// 10. Nested expressions: def with arithmetic, then use in a primitive.
// ---------------------------------------------------------------------------

func TestE2ENestedArithmeticDef(t *testing.T) {
	app := NewApp()

	source := `
(def w (* 2 150))
(defpart "wide-shelf" (cube w 200 18))
`
	result := app.Evaluate(source)

	if len(result.Errors) > 0 {
		for _, e := range result.Errors {
			t.Errorf("eval error: %s", e.Message)
		}
		t.FailNow()
	}
	if len(result.Meshes) != 1 {
		t.Fatalf("expected 1 mesh, got %d", len(result.Meshes))
	}
	if result.Meshes[0].PartName != "wide-shelf" {
		t.Errorf("expected part name 'wide-shelf', got %q", result.Meshes[0].PartName)
	}
}

func TestE2EComplexArithmeticExpressions(t *testing.T) {
	app := NewApp()

	source := `
(def base-length 400)
(def margin 19)
(def inner-length (- base-length (* 2 margin)))
(def thickness 19)

(defpart "inner-panel" (cube inner-length 200 thickness))
`
	result := app.Evaluate(source)

	if len(result.Errors) > 0 {
		for _, e := range result.Errors {
			t.Errorf("eval error: %s", e.Message)
		}
		t.FailNow()
	}
	if len(result.Meshes) != 1 {
		t.Fatalf("expected 1 mesh, got %d", len(result.Meshes))
	}

	// inner-length = 400 - 2*19 = 362.
	var maxX float32
	m := result.Meshes[0]
	for i := 0; i < len(m.Vertices); i += 3 {
		maxX = max(maxX, m.Vertices[i])
	}
	if maxX != 362 {
		t.Errorf("panel length = %v, want 362", maxX)
	}
}

// ---------------------------------------------------------------------------
// Additional edge cases
// ---------------------------------------------------------------------------

func TestE2EWhitespaceOnly(t *testing.T) {
	app := NewApp()
	result := app.Evaluate("   \n\t\n   \n")

	if len(result.Errors) != 0 {
		t.Errorf("expected 0 errors for whitespace-only source, got %d", len(result.Errors))
	}
	if len(result.Meshes) != 0 {
		t.Errorf("expected 0 meshes for whitespace-only source, got %d", len(result.Meshes))
	}
}

func TestE2EDefpartMissingBody(t *testing.T) {
	app := NewApp()

	result := app.Evaluate(`(defpart "oops")`)

	if len(result.Errors) == 0 {
		t.Fatal("expected eval error for defpart with no body")
	}
}

func TestE2EAssemblyNoChildren(t *testing.T) {
	app := NewApp()

	result := app.Evaluate(`(assembly "empty-asm")`)

	// Should not panic. May produce 0 meshes or an error.
	if len(result.Errors) > 0 {
		t.Logf("empty assembly produced error (acceptable): %s", result.Errors[0].Message)
		return
	}
	if len(result.Meshes) != 0 {
		t.Errorf("expected 0 meshes for empty assembly, got %d", len(result.Meshes))
	}
}

func TestE2EEmptyIntersectionWarns(t *testing.T) {
	result := NewApp().Evaluate(`(intersect (cube 10) (move (cube 10) :at (vec3 50 0 0)))`)

	if len(result.Errors) > 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if len(result.Meshes) != 0 {
		t.Errorf("expected the empty part to be skipped, got %d meshes", len(result.Meshes))
	}
	var overlap, empty bool
	for _, w := range result.Warnings {
		overlap = overlap || strings.Contains(w.Message, "do not overlap")
		empty = empty || strings.Contains(w.Message, "produced no geometry")
	}
	if !overlap || !empty {
		t.Errorf("expected overlap and empty-part warnings, got %v", result.Warnings)
	}
}

func TestE2EFloatingPointDimensions(t *testing.T) {
	app := NewApp()

	result := app.Evaluate(`(defpart "precise" (cube 123.456 78.9 12.7))`)

	if len(result.Errors) > 0 {
		for _, e := range result.Errors {
			t.Errorf("eval error: %s", e.Message)
		}
		t.FailNow()
	}
	if len(result.Meshes) != 1 {
		t.Fatalf("expected 1 mesh, got %d", len(result.Meshes))
	}
	if len(result.Meshes[0].Vertices) == 0 {
		t.Error("floating-point dimension mesh should have vertices")
	}
}

func TestE2EColorPaletteWrapping(t *testing.T) {
	app := NewApp()

	// More parts than the palette has colors.
	source := `
(defpart "p1" (cube 100 50 10))
(defpart "p2" (cube 100 50 10))
(defpart "p3" (cube 100 50 10))
(defpart "p4" (cube 100 50 10))
(defpart "p5" (cube 100 50 10))
(defpart "p6" (cube 100 50 10))
(defpart "p7" (cube 100 50 10))
(defpart "p8" (cube 100 50 10))
(defpart "p9" (cube 100 50 10))

(assembly "many"
  (place (part "p1") :at (vec3 0 0 0))
  (place (part "p2") :at (vec3 110 0 0))
  (place (part "p3") :at (vec3 220 0 0))
  (place (part "p4") :at (vec3 330 0 0))
  (place (part "p5") :at (vec3 440 0 0))
  (place (part "p6") :at (vec3 550 0 0))
  (place (part "p7") :at (vec3 660 0 0))
  (place (part "p8") :at (vec3 770 0 0))
  (place (part "p9") :at (vec3 880 0 0)))
`
	result := app.Evaluate(source)

	if len(result.Errors) > 0 {
		for _, e := range result.Errors {
			t.Errorf("eval error: %s", e.Message)
		}
		t.FailNow()
	}
	if len(result.Meshes) != 9 {
		t.Fatalf("expected 9 meshes, got %d", len(result.Meshes))
	}
	for i, m := range result.Meshes {
		if want := colorPalette[i%len(colorPalette)]; m.Color != want {
			t.Errorf("mesh %d color = %q, want %q", i, m.Color, want)
		}
	}
	if result.Meshes[8].Color != result.Meshes[0].Color {
		t.Errorf("palette should wrap: mesh 8 is %q, mesh 0 is %q", result.Meshes[8].Color, result.Meshes[0].Color)
	}
}
