package plots

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadHistory(t *testing.T) {
	path := filepath.Join(t.TempDir(), HistoryFileName)
	content := `"Inner_Iter","rms[Rho]","CL","CD"
1,-1.5,0.40,0.120
2,-2.5,0.45,0.110
3,-3.5,0.50,0.105
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	h, err := LoadHistory(path)
	require.NoError(t, err)

	assert.Equal(t, 3, h.Len())
	assert.Equal(t, []float64{1, 2, 3}, h.Iterations)
	assert.Equal(t, []float64{-1.5, -2.5, -3.5}, h.Residuals)
	assert.InDelta(t, 0.50, h.FinalLift(), 1e-12)
	assert.InDelta(t, 0.105, h.FinalDrag(), 1e-12)
}

func TestLoadHistory_MissingColumnsFallBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), HistoryFileName)
	require.NoError(t, os.WriteFile(path, []byte("\"Time\"\n0.1\n0.2\n"), 0o644))

	h, err := LoadHistory(path)
	require.NoError(t, err)

	assert.Equal(t, []float64{0, 1}, h.Iterations)
	assert.Equal(t, []float64{1, 1}, h.Residuals)
	assert.Equal(t, []float64{0, 0}, h.Lift)
}

func TestLoadHistory_Missing(t *testing.T) {
	_, err := LoadHistory(filepath.Join(t.TempDir(), "absent.csv"))
	assert.Error(t, err)
}

func TestLoadHistory_HeaderOnly(t *testing.T) {
	path := filepath.Join(t.TempDir(), HistoryFileName)
	require.NoError(t, os.WriteFile(path, []byte("\"Inner_Iter\"\n"), 0o644))

	_, err := LoadHistory(path)
	assert.Error(t, err)
}

func TestLoadExperiment(t *testing.T) {
	path := filepath.Join(t.TempDir(), ExperimentFileName)
	content := "# x y\n0.0  -1.2\n0.5   0.8\n1.0  -0.4\nbad line\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	s, err := LoadExperiment(path)
	require.NoError(t, err)

	assert.Equal(t, []float64{0, 0.5, 1}, s.X)
	assert.Equal(t, []float64{-1.2, 0.8, -0.4}, s.Y)
}

func TestLoadExperiment_NoData(t *testing.T) {
	path := filepath.Join(t.TempDir(), ExperimentFileName)
	require.NoError(t, os.WriteFile(path, []byte("# only comments\n"), 0o644))

	_, err := LoadExperiment(path)
	assert.Error(t, err)
}

func TestSyntheticHistory_Deterministic(t *testing.T) {
	a := SyntheticHistory(100, 20, 1)
	b := SyntheticHistory(100, 20, 1)
	assert.Equal(t, a, b)

	c := SyntheticHistory(100, 20, 2)
	assert.NotEqual(t, a.Residuals, c.Residuals)

	for _, r := range a.Residuals {
		assert.Greater(t, r, 0.0)
	}
}

func TestSyntheticValidation_OffsetPerIndex(t *testing.T) {
	v0 := SyntheticValidation(50, 0)
	v1 := SyntheticValidation(50, 1)
	require.Len(t, v0.Y, 50)
	assert.InDelta(t, 0.05, v1.Y[0]-v0.Y[0], 1e-12)
}

func TestPlottableResiduals(t *testing.T) {
	positive := []float64{1, 0.1, 0.01}
	assert.Equal(t, positive, PlottableResiduals(positive))

	log10 := PlottableResiduals([]float64{0, -1, -2})
	assert.InDelta(t, 1.0, log10[0], 1e-12)
	assert.InDelta(t, 0.1, log10[1], 1e-12)
	assert.InDelta(t, 0.01, log10[2], 1e-12)
}
