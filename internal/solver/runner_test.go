package solver

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cfdworks/su2pipe/internal/casefs"
	"github.com/cfdworks/su2pipe/internal/testutil"
)

// fakeSolver writes a shell script that stands in for the solver binary.
func fakeSolver(t *testing.T, script string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake solver scripts require a POSIX shell")
	}
	path := filepath.Join(t.TempDir(), "fake-solver")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+script), 0o755))
	return path
}

func meshWithConfig(t *testing.T, caseDir, name string) {
	t.Helper()
	dir := filepath.Join(caseDir, name)
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, casefs.ConfigFileName), []byte("ITER= 1\n"), 0o644))
}

func TestRunAll_AllSucceed(t *testing.T) {
	caseDir := t.TempDir()
	meshWithConfig(t, caseDir, "Mesh1")
	meshWithConfig(t, caseDir, "Mesh2")

	bin := fakeSolver(t, `echo "converged: $1"`)
	r := NewRunner(bin, time.Minute, testutil.NewTestLogger(t))

	results, err := r.RunAll(context.Background(), caseDir)
	require.NoError(t, err)
	require.Len(t, results, 2)

	for _, res := range results {
		assert.Equal(t, StatusSucceeded, res.Status)
		assert.Contains(t, res.Output, "converged: "+casefs.ConfigFileName)
	}
	assert.Equal(t, 0, FailedCount(results))
}

func TestRunAll_MissingConfigIsolated(t *testing.T) {
	caseDir := t.TempDir()
	meshWithConfig(t, caseDir, "Mesh1")
	require.NoError(t, os.MkdirAll(filepath.Join(caseDir, "Mesh2"), 0o755)) // no config
	meshWithConfig(t, caseDir, "Mesh3")

	bin := fakeSolver(t, `exit 0`)
	r := NewRunner(bin, time.Minute, nil)

	results, err := r.RunAll(context.Background(), caseDir)
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Equal(t, "Mesh1", results[0].Folder)
	assert.Equal(t, StatusSucceeded, results[0].Status)
	assert.Equal(t, "Mesh2", results[1].Folder)
	assert.Equal(t, StatusSkipped, results[1].Status)
	assert.Equal(t, "Mesh3", results[2].Folder)
	assert.Equal(t, StatusSucceeded, results[2].Status)
	assert.Equal(t, 1, FailedCount(results))
}

func TestRunAll_NonZeroExitIsolated(t *testing.T) {
	caseDir := t.TempDir()
	meshWithConfig(t, caseDir, "Mesh1")
	meshWithConfig(t, caseDir, "Mesh2")

	bin := fakeSolver(t, `case "$(basename "$PWD")" in Mesh1) echo diverged >&2; exit 2;; *) exit 0;; esac`)
	r := NewRunner(bin, time.Minute, nil)

	results, err := r.RunAll(context.Background(), caseDir)
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, StatusFailed, results[0].Status)
	assert.Contains(t, results[0].Output, "diverged")
	assert.Equal(t, StatusSucceeded, results[1].Status)
}

func TestRunAll_Timeout(t *testing.T) {
	caseDir := t.TempDir()
	meshWithConfig(t, caseDir, "Mesh1")

	bin := fakeSolver(t, `sleep 30`)
	r := NewRunner(bin, 100*time.Millisecond, nil)

	results, err := r.RunAll(context.Background(), caseDir)
	require.NoError(t, err)
	require.Len(t, results, 1)

	assert.Equal(t, StatusFailed, results[0].Status)
	assert.Contains(t, results[0].Message, "timed out")
}

func TestRunAll_MissingCaseDir(t *testing.T) {
	r := NewRunner("", 0, nil)
	_, err := r.RunAll(context.Background(), filepath.Join(t.TempDir(), "absent"))
	assert.Error(t, err)
}

func TestNewRunner_Defaults(t *testing.T) {
	r := NewRunner("", 0, nil)
	assert.Equal(t, DefaultBinary, r.Binary)
	assert.Equal(t, DefaultTimeout, r.Timeout)
}
