package config

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/chazu/csgkit/pkg/csg"
	"github.com/chazu/csgkit/pkg/kernel/bsp"
	"github.com/chazu/csgkit/pkg/kernel/sdfx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultMatchesKernel(t *testing.T) {
	c := Default()
	require.NoError(t, c.Validate())

	cfg, err := c.KernelConfig()
	require.NoError(t, err)
	def := csg.DefaultConfig()
	assert.Equal(t, def.Epsilon, cfg.Epsilon)
	assert.Equal(t, def.DuplicateEpsilon, cfg.DuplicateEpsilon)
	assert.Equal(t, def.ManifoldTolerance, cfg.ManifoldTolerance)
	assert.Equal(t, def.OptType, cfg.OptType)
	assert.Equal(t, def.ManifoldWorkers, cfg.ManifoldWorkers)
	assert.Equal(t, def.ManifoldBatch, cfg.ManifoldBatch)
	assert.Equal(t, def.DefaultColor, cfg.DefaultColor)
	assert.Equal(t, KernelBSP, c.CLI.Kernel)
	assert.Equal(t, "csg_bound", c.CSG.Optimization)
	assert.Equal(t, "#007956", c.CSG.DefaultColor)
}

func TestReadOverridesDefaults(t *testing.T) {
	c, err := ReadBytes([]byte(`
[csg]
epsilon = 1e-6
optimization = "polygon_bound"
prevent_non_manifold_triangles = true
manifold_workers = 2
default_color = "#ff8800"

[cli]
kernel = "sdfx"
timeout = "250ms"
segments = 48
sdfx_cells = 64
color = "#112233"
log_level = "debug"
`))
	require.NoError(t, err)

	// untouched keys keep their defaults
	assert.Equal(t, Default().CSG.DuplicateEpsilon, c.CSG.DuplicateEpsilon)
	assert.Equal(t, Default().CSG.ManifoldBatch, c.CSG.ManifoldBatch)

	cfg, err := c.KernelConfig()
	require.NoError(t, err)
	assert.Equal(t, 1e-6, cfg.Epsilon)
	assert.Equal(t, csg.OptPolygonBound, cfg.OptType)
	assert.True(t, cfg.PreventNonManifoldTriangles)
	assert.Equal(t, 2, cfg.ManifoldWorkers)
	assert.Equal(t, "#ff8800", csg.HexColor(cfg.DefaultColor))

	e := c.Engine()
	assert.Equal(t, 250*time.Millisecond, e.Timeout)
	assert.Equal(t, 48, e.Segments)
	assert.Equal(t, "#112233", e.Color)

	lvl, err := c.Level()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, lvl)

	k, ok := c.Backend(cfg).(*sdfx.SdfxKernel)
	require.True(t, ok)
	assert.Equal(t, 64, k.Cells)
}

func TestBackendDefaultsToBSP(t *testing.T) {
	cfg, err := Default().KernelConfig()
	require.NoError(t, err)
	k, ok := Default().Backend(cfg).(*bsp.Kernel)
	require.True(t, ok)
	assert.Same(t, cfg, k.Config())
}

func TestReadErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want string
	}{
		{"unknown key", "[csg]\nepsilom = 1e-9\n", "epsilom"},
		{"bad optimization", "[csg]\noptimization = \"fast\"\n", "unknown optimization"},
		{"zero epsilon", "[csg]\nepsilon = 0.0\n", "epsilon must be positive"},
		{"zero workers", "[csg]\nmanifold_workers = 0\n", "manifold workers"},
		{"bad kernel", "[cli]\nkernel = \"manifold\"\n", "unknown kernel"},
		{"bad timeout", "[cli]\ntimeout = \"soon\"\n", "soon"},
		{"negative timeout", "[cli]\ntimeout = \"-1s\"\n", "timeout must not be negative"},
		{"few segments", "[cli]\nsegments = 2\n", "need at least 3"},
		{"bad color", "[cli]\ncolor = \"blue\"\n", "cli color"},
		{"bad default color", "[csg]\ndefault_color = \"#12\"\n", "default color"},
		{"bad level", "[cli]\nlog_level = \"loud\"\n", "log level"},
		{"syntax", "[csg\n", "column"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadBytes([]byte(tt.doc))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestWriteRoundTrip(t *testing.T) {
	c := Default()
	c.CLI.Kernel = KernelSDFX
	c.CLI.Timeout = Duration(1500 * time.Millisecond)
	c.CSG.Optimization = "none"

	var buf bytes.Buffer
	require.NoError(t, c.Write(&buf))
	assert.Contains(t, buf.String(), "1.5s")

	back, err := Read(&buf)
	require.NoError(t, err)
	assert.Equal(t, c, back)
}

func TestOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "csgkit.toml")
	require.NoError(t, os.WriteFile(path, []byte("[cli]\nsegments = 12\n"), 0o644))

	c, err := Open(path)
	require.NoError(t, err)
	assert.Equal(t, 12, c.CLI.Segments)

	_, err = Open(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}

func TestDiagnosticsGoToLogger(t *testing.T) {
	var buf bytes.Buffer
	cfg, err := Default().KernelConfigWithLogger(slog.New(slog.NewTextHandler(&buf, nil)))
	require.NoError(t, err)
	cfg.Diagnostics.Report(csg.Diagnostic{Stage: csg.StageTriangulate, Message: "dropped", Polygons: 1})
	assert.Contains(t, buf.String(), "stage=triangulate")
}
