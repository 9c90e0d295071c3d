package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"scig/internal/descriptor"
	"scig/internal/logging"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const geometry = `# beamline
hall | root | 0*m 0*m 0*m | 0 0 0 | Box | 5*m 5*m 20*m | | material=G4_AIR
target | hall | 0 0 0 | 0 0 0 | Tube | 0*mm 10*mm 40*mm 0*deg 360*deg | target 1 | material=G4_lH2
shell | hall | 0 0 0 | 0 0 0 | Sphere | 0*cm 1*cm 0*deg 360*deg 0*deg 180*deg |
`

// resetGlobals puts every flag and package-level value back to its
// default, with the config file pointing into a temp dir.
func resetGlobals(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"SCIG_FACTORY", "SCIG_DSN", "SCIG_OUTPUT_DIR",
		"SCIG_S3_REGION", "SCIG_S3_ENDPOINT", "SCIG_S3_PATH_STYLE",
		"SCIG_LOG_LEVEL", "AWS_ACCESS_KEY_ID", "AWS_SECRET_ACCESS_KEY",
	} {
		t.Setenv(k, "")
	}

	verbose = false
	configPath = filepath.Join(t.TempDir(), "scig.yaml")
	system = ""
	variation = ""
	factoryKind = ""
	metricsFile = ""
	watchBuild = false
	solidsMarkdown = false
	cfg = nil
	recorder = nil
	logger = zap.NewNop()
	t.Cleanup(logging.Reset)
}

func newTestCmd() (*cobra.Command, *bytes.Buffer) {
	cmd := &cobra.Command{}
	cmd.SetContext(context.Background())
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	return cmd, &out
}

func writeGeometry(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "beamline.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestSetup_FlagOverrides(t *testing.T) {
	resetGlobals(t)
	system = "beamline"
	variation = "hot"
	factoryKind = "sqlite"

	cmd, _ := newTestCmd()
	require.NoError(t, setup(cmd, nil))

	assert.Equal(t, "beamline", cfg.System)
	assert.Equal(t, "hot", cfg.Variation)
	assert.Equal(t, "sqlite", cfg.Factory.Kind)
	assert.NotNil(t, recorder)
	assert.NotNil(t, logger)
}

func TestSetup_InvalidFactory(t *testing.T) {
	resetGlobals(t)
	factoryKind = "mysql"

	cmd, _ := newTestCmd()
	err := setup(cmd, nil)
	assert.ErrorContains(t, err, "invalid config")
}

func TestRunValidate(t *testing.T) {
	resetGlobals(t)
	cmd, out := newTestCmd()
	require.NoError(t, setup(cmd, nil))

	path := writeGeometry(t, geometry)
	require.NoError(t, runValidate(cmd, []string{path}))

	assert.Contains(t, out.String(), path+": 3 descriptors OK")
	assert.Contains(t, out.String(), "Sphere")
}

func TestRunBuild(t *testing.T) {
	resetGlobals(t)
	system = "beamline"
	cmd, out := newTestCmd()
	require.NoError(t, setup(cmd, nil))
	cfg.Factory.OutputDir = t.TempDir()

	require.NoError(t, runBuild(cmd, []string{writeGeometry(t, geometry)}))
	assert.Contains(t, out.String(), "published 3 volumes to text")

	data, err := os.ReadFile(filepath.Join(cfg.Factory.OutputDir, "beamline__geometry_default.txt"))
	require.NoError(t, err)
	assert.Equal(t, 3, bytes.Count(data, []byte("\n")))
}

func TestRunBuild_BadLine(t *testing.T) {
	resetGlobals(t)
	cmd, _ := newTestCmd()
	require.NoError(t, setup(cmd, nil))
	cfg.Factory.OutputDir = t.TempDir()

	path := writeGeometry(t, geometry+"bad | hall | 0*mm 0 0 | 0 0 0 | Box | 1 1 1 |\n")
	err := runBuild(cmd, []string{path})
	assert.ErrorIs(t, err, descriptor.ErrMixedUnits)
	assert.ErrorContains(t, err, path+":5:")
}

func TestMetricsFile(t *testing.T) {
	resetGlobals(t)
	metricsFile = filepath.Join(t.TempDir(), "scig.prom")
	cmd, _ := newTestCmd()
	require.NoError(t, setup(cmd, nil))

	require.NoError(t, runValidate(cmd, []string{writeGeometry(t, geometry)}))
	require.NoError(t, writeMetrics())

	data, err := os.ReadFile(metricsFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), "scig_runs_total")
	assert.Contains(t, string(data), "scig_descriptors_parsed_total")
}

func TestWatchHandler(t *testing.T) {
	resetGlobals(t)
	cmd, out := newTestCmd()
	require.NoError(t, setup(cmd, nil))
	handler := watchHandler(cmd)

	good := writeGeometry(t, geometry)
	require.NoError(t, handler(context.Background(), good))
	assert.Contains(t, out.String(), "3 descriptors OK")

	bad := writeGeometry(t, "x | root | 0 0 0 | 0 0 0 | Cone | 1 |\n")
	err := handler(context.Background(), bad)
	assert.ErrorIs(t, err, descriptor.ErrUnsupportedSolidType)
	assert.Contains(t, out.String(), "invalid:")
}

func TestWatchHandler_Build(t *testing.T) {
	resetGlobals(t)
	watchBuild = true
	cmd, out := newTestCmd()
	require.NoError(t, setup(cmd, nil))
	cfg.Factory.OutputDir = t.TempDir()

	require.NoError(t, watchHandler(cmd)(context.Background(), writeGeometry(t, geometry)))
	assert.Contains(t, out.String(), "published 3 volumes")
}

func TestRunSolids(t *testing.T) {
	resetGlobals(t)
	cmd, out := newTestCmd()

	require.NoError(t, runSolids(cmd, nil))
	assert.Contains(t, out.String(), "G4Polycone")
	assert.Contains(t, out.String(), "sci-g only")

	out.Reset()
	solidsMarkdown = true
	require.NoError(t, runSolids(cmd, nil))
	assert.Contains(t, out.String(), "G4Box")
}

func TestRunSolidsShow(t *testing.T) {
	resetGlobals(t)
	cmd, out := newTestCmd()

	require.NoError(t, runSolidsShow(cmd, []string{"g4tubs"}))
	assert.Contains(t, out.String(), "| Tube |")

	assert.ErrorContains(t, runSolidsShow(cmd, []string{"G4Cons"}), "not supported yet")
	assert.ErrorContains(t, runSolidsShow(cmd, []string{"Torus"}), "unknown solid")
}
