package injector

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeusync/vhtoolkit/internal/core/observability/log"
	"github.com/zeusync/vhtoolkit/internal/core/parameters"
)

func TestInitializeRunnerDefaults(t *testing.T) {
	r, err := InitializeRunner(log.LevelError, "")
	require.NoError(t, err)
	assert.Equal(t, parameters.Default(), r.Params)
	assert.NotNil(t, r.Log)
}

func TestInitializeRunnerFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "params.yaml")
	require.NoError(t, os.WriteFile(path, []byte("curvature_radius: 22.5\n"), 0o600))

	r, err := InitializeRunner(log.LevelError, ParametersPath(path))
	require.NoError(t, err)
	assert.InDelta(t, 22.5, r.Params.CurvatureRadius, 0)

	_, err = InitializeRunner(log.LevelError, ParametersPath(filepath.Join(t.TempDir(), "missing.yaml")))
	assert.Error(t, err)
}
