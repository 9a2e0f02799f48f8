package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func TestRunCommandRequiresFlags(t *testing.T) {
	_, err := execute(t, NewRunCommand())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "required flag")
}

func TestCombineCommandRequiresFlags(t *testing.T) {
	_, err := execute(t, NewCombineCommand(), "--case-code", "2DML")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "required flag")
}

func TestListCommandShowsMeshFolders(t *testing.T) {
	caseDir := t.TempDir()
	meshDir := filepath.Join(caseDir, "Mesh1")
	require.NoError(t, os.MkdirAll(meshDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(meshDir, "Config.cfg"), []byte("ITER= 10\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(meshDir, "grid.su2"), []byte("mesh"), 0o644))

	_, err := execute(t, NewListCommand(), "--case-dir", caseDir)
	require.NoError(t, err)
}

func TestListCommandMissingDir(t *testing.T) {
	_, err := execute(t, NewListCommand(), "--case-dir", filepath.Join(t.TempDir(), "absent"))
	require.Error(t, err)
}

func TestWorkflowCommandWritesFile(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "template_config.cfg")
	require.NoError(t, os.WriteFile(cfgPath, []byte("MACH_NUMBER= 0.2\nAOA= 13.87\n"), 0o644))

	outPath := filepath.Join(dir, "workflows", "validation.yml")
	_, err := execute(t, NewWorkflowCommand(), "--config-template", cfgPath, "--output", outPath)
	require.NoError(t, err)

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "workflow_dispatch")
	assert.Contains(t, string(data), "MACH_NUMBER")
}

func TestWorkflowCommandMissingTemplate(t *testing.T) {
	_, err := execute(t, NewWorkflowCommand(), "--config-template", filepath.Join(t.TempDir(), "absent.cfg"))
	require.Error(t, err)
}

func TestDoctorCommandFailsOnMissingPath(t *testing.T) {
	_, err := execute(t, NewDoctorCommand(), "--main-path", filepath.Join(t.TempDir(), "absent"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "check(s) failed")
}

func TestVersionCommand(t *testing.T) {
	cmd := NewVersionCommand("1.2.3", "2026-01-01", "abc123")
	cmd.SetArgs(nil)
	require.NoError(t, cmd.Execute())
}
