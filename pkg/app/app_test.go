package app

import (
	"context"
	"os"
	"testing"

	"github.com/chazu/csgkit/pkg/config"
	"github.com/chazu/csgkit/pkg/kernel/sdfx"
)

// TestE2EBoxExample exercises the full pipeline: source → engine → graph
// → tessellate → meshes.
func TestE2EBoxExample(t *testing.T) {
	app := NewApp()

	source, err := os.ReadFile("../../examples/box.csg")
	if err != nil {
		t.Fatalf("failed to read box.csg: %v", err)
	}

	result := app.Evaluate(string(source))

	if len(result.Errors) > 0 {
		for _, e := range result.Errors {
			t.Errorf("eval error (line %d): %s", e.Line, e.Message)
		}
		t.FailNow()
	}

	// Expect 5 meshes: front, back, left, right, bottom.
	if len(result.Meshes) != 5 {
		t.Fatalf("expected 5 meshes, got %d", len(result.Meshes))
	}

	expectedParts := map[string]bool{
		"front":  false,
		"back":   false,
		"left":   false,
		"right":  false,
		"bottom": false,
	}

	for _, m := range result.Meshes {
		if _, ok := expectedParts[m.PartName]; !ok {
			t.Errorf("unexpected part name: %q", m.PartName)
			continue
		}
		expectedParts[m.PartName] = true

		if len(m.Vertices) == 0 {
			t.Errorf("part %q: no vertices", m.PartName)
		}
		if len(m.Normals) == 0 {
			t.Errorf("part %q: no normals", m.PartName)
		}
		if len(m.Indices) != 36 {
			t.Errorf("part %q: %d indices, want 36", m.PartName, len(m.Indices))
		}
		if m.Color == "" {
			t.Errorf("part %q: no color assigned", m.PartName)
		}
	}

	for name, found := range expectedParts {
		if !found {
			t.Errorf("missing mesh for part %q", name)
		}
	}
}

func TestE2EExampleScripts(t *testing.T) {
	tests := []struct {
		file  string
		parts []string
	}{
		{"bracket.csg", []string{"bracket"}},
		{"gems.csg", []string{"capsule", "d20", "die", "gem"}},
	}
	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			source, err := os.ReadFile("../../examples/" + tt.file)
			if err != nil {
				t.Fatal(err)
			}
			result := NewApp().Evaluate(string(source))
			if len(result.Errors) > 0 {
				t.Fatalf("unexpected errors: %v", result.Errors)
			}
			if len(result.Warnings) > 0 {
				t.Errorf("unexpected warnings: %v", result.Warnings)
			}
			if len(result.Meshes) != len(tt.parts) {
				t.Fatalf("expected %d meshes, got %d", len(tt.parts), len(result.Meshes))
			}
			for i, name := range tt.parts {
				if result.Meshes[i].PartName != name {
					t.Errorf("mesh %d is %q, want %q", i, result.Meshes[i].PartName, name)
				}
			}
		})
	}
}

func TestE2EScriptColors(t *testing.T) {
	source, err := os.ReadFile("../../examples/bracket.csg")
	if err != nil {
		t.Fatal(err)
	}
	result := NewApp().Evaluate(string(source))
	if len(result.Meshes) != 1 {
		t.Fatalf("expected 1 mesh, got %d (errors %v)", len(result.Meshes), result.Errors)
	}
	if got := result.Meshes[0].Color; got != "#8899aa" {
		t.Errorf("bracket color = %q, want #8899aa", got)
	}
}

// TestE2EEmptySource ensures the pipeline handles empty input gracefully.
func TestE2EEmptySource(t *testing.T) {
	app := NewApp()
	result := app.Evaluate("")

	if len(result.Errors) > 0 {
		t.Errorf("unexpected errors for empty source: %v", result.Errors)
	}
	if len(result.Meshes) != 0 {
		t.Errorf("expected 0 meshes for empty source, got %d", len(result.Meshes))
	}
}

// TestE2ESyntaxError ensures eval errors are reported, not fatal errors.
func TestE2ESyntaxError(t *testing.T) {
	app := NewApp()
	result := app.Evaluate("(defpart \"test\"")

	if len(result.Errors) == 0 {
		t.Fatal("expected eval errors for syntax error")
	}
	if len(result.Meshes) != 0 {
		t.Errorf("expected 0 meshes on error, got %d", len(result.Meshes))
	}
}

// TestE2ESinglePart ensures a minimal single-part source renders one mesh.
func TestE2ESinglePart(t *testing.T) {
	app := NewApp()
	result := app.Evaluate(`(defpart "shelf" (cube 600 300 18))`)

	if len(result.Errors) > 0 {
		for _, e := range result.Errors {
			t.Errorf("eval error: %s", e.Message)
		}
		t.FailNow()
	}
	if len(result.Meshes) != 1 {
		t.Fatalf("expected 1 mesh, got %d", len(result.Meshes))
	}
	if result.Meshes[0].PartName != "shelf" {
		t.Errorf("expected part name 'shelf', got %q", result.Meshes[0].PartName)
	}
}

func TestRunKeepsKernelMeshes(t *testing.T) {
	b, err := NewApp().Run(context.Background(), `(difference (cube 10) (move (cube 10) :at (vec3 5 5 5)))`)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if !b.OK() {
		t.Fatalf("unexpected errors: %v", b.Errors)
	}
	if b.Graph == nil || len(b.Graph.Roots) != 1 {
		t.Fatalf("expected a graph with one root")
	}
	if len(b.Meshes) != 1 {
		t.Fatalf("expected 1 mesh, got %d", len(b.Meshes))
	}
	min, max := b.Meshes[0].Bounds()
	if min != [3]float32{0, 0, 0} || max != [3]float32{10, 10, 10} {
		t.Errorf("bounds = %v %v, want [0 0 0] [10 10 10]", min, max)
	}
}

func TestNewFromConfig(t *testing.T) {
	cfg, err := config.ReadBytes([]byte("[cli]\nkernel = \"sdfx\"\nsdfx_cells = 16\ncolor = \"#123456\"\n"))
	if err != nil {
		t.Fatal(err)
	}
	app, err := New(cfg, nil)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	k, ok := app.Kernel().(*sdfx.SdfxKernel)
	if !ok {
		t.Fatalf("kernel is %T, want *sdfx.SdfxKernel", app.Kernel())
	}
	if k.Cells != 16 {
		t.Errorf("cells = %d, want 16", k.Cells)
	}

	result := app.Evaluate(`(defpart "block" (cube 10 10 10))`)
	if len(result.Errors) > 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if len(result.Meshes) != 1 {
		t.Fatalf("expected 1 mesh, got %d", len(result.Meshes))
	}
	if result.Meshes[0].Color != "#123456" {
		t.Errorf("color = %q, want the configured #123456", result.Meshes[0].Color)
	}
}

func TestNewRejectsBadKernelConfig(t *testing.T) {
	cfg := config.Default()
	cfg.CSG.Optimization = "sometimes"
	if _, err := New(cfg, nil); err == nil {
		t.Fatal("expected an error for an unknown optimization")
	}
}
