package workflow

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/cfdworks/su2pipe/pkg/su2cfg"
)

func parseConfig(t *testing.T, content string) *su2cfg.File {
	t.Helper()
	f, err := su2cfg.Parse(strings.NewReader(content))
	require.NoError(t, err)
	return f
}

func TestGenerate_ValidYAML(t *testing.T) {
	cfg := parseConfig(t, "SOLVER= RANS\nMACH_NUMBER= 0.2\n")

	out, err := Generate(cfg, DefaultOptions())
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, yaml.Unmarshal(out, &doc))
	assert.Equal(t, "SU2 Validation Pipeline - Dynamic", doc["name"])
	assert.Contains(t, doc, "jobs")
}

func TestGenerate_ConfigOptionsBecomeInputs(t *testing.T) {
	cfg := parseConfig(t, "SOLVER= RANS\nMACH_NUMBER= 0.2\nAOA= 1.25\n")

	out, err := Generate(cfg, DefaultOptions())
	require.NoError(t, err)

	var doc struct {
		On struct {
			WorkflowDispatch struct {
				Inputs map[string]struct {
					Description string `yaml:"description"`
					Required    bool   `yaml:"required"`
					Type        string `yaml:"type"`
					Default     string `yaml:"default"`
				} `yaml:"inputs"`
			} `yaml:"workflow_dispatch"`
		} `yaml:"on"`
	}
	require.NoError(t, yaml.Unmarshal(out, &doc))

	inputs := doc.On.WorkflowDispatch.Inputs
	require.Contains(t, inputs, "category")
	assert.True(t, inputs["category"].Required)
	assert.Equal(t, "choice", inputs["category"].Type)

	for key, def := range map[string]string{"SOLVER": "RANS", "MACH_NUMBER": "0.2", "AOA": "1.25"} {
		require.Contains(t, inputs, key)
		assert.Equal(t, "string", inputs[key].Type)
		assert.Equal(t, def, inputs[key].Default)
		assert.False(t, inputs[key].Required)
	}
}

func TestGenerate_InputOrderFollowsConfig(t *testing.T) {
	cfg := parseConfig(t, "ZZZ= 1\nAAA= 2\nMMM= 3\n")

	out, err := Generate(cfg, DefaultOptions())
	require.NoError(t, err)

	text := string(out)
	zi := strings.Index(text, "ZZZ:")
	ai := strings.Index(text, "AAA:")
	mi := strings.Index(text, "MMM:")
	require.True(t, zi > 0 && ai > 0 && mi > 0)
	assert.Less(t, zi, ai)
	assert.Less(t, ai, mi)
}

func TestGenerate_UpdateScriptGuardsEveryOption(t *testing.T) {
	cfg := parseConfig(t, "SOLVER= RANS\nMESH_FILENAME= wing.su2\n")

	out, err := Generate(cfg, DefaultOptions())
	require.NoError(t, err)

	text := string(out)
	assert.Contains(t, text, "inputs.SOLVER")
	assert.Contains(t, text, "inputs.MESH_FILENAME")
	assert.Contains(t, text, "sed -i")
}

func TestGenerate_PipelineStepPresent(t *testing.T) {
	cfg := parseConfig(t, "SOLVER= RANS\n")

	out, err := Generate(cfg, DefaultOptions())
	require.NoError(t, err)

	assert.Contains(t, string(out), "su2pipe run")
	assert.Contains(t, string(out), "actions/upload-artifact@v4")
}
