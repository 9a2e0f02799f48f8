// Package workflow generates the GitHub Actions dispatch workflow for the
// validation suite from a solver configuration template. Every solver
// option becomes a workflow input so a case can be tuned from the Actions
// UI without editing the repository.
package workflow

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cfdworks/su2pipe/pkg/su2cfg"
)

// Options configures workflow generation.
type Options struct {
	// Name is the workflow's display name.
	Name string
	// Categories populate the category choice input.
	Categories []string
}

// DefaultOptions are the stock settings for the validation suite.
func DefaultOptions() Options {
	return Options{
		Name:       "SU2 Validation Pipeline - Dynamic",
		Categories: []string{"Basic", "Extended"},
	}
}

type step struct {
	Name string            `yaml:"name,omitempty"`
	Uses string            `yaml:"uses,omitempty"`
	If   string            `yaml:"if,omitempty"`
	With map[string]string `yaml:"with,omitempty"`
	Run  string            `yaml:"run,omitempty"`
}

type job struct {
	RunsOn string `yaml:"runs-on"`
	Steps  []step `yaml:"steps"`
}

type input struct {
	Description string   `yaml:"description"`
	Required    bool     `yaml:"required"`
	Type        string   `yaml:"type"`
	Options     []string `yaml:"options,omitempty"`
	Default     string   `yaml:"default,omitempty"`
}

// Generate renders the workflow YAML for the given configuration template.
// Input order follows the configuration file, which is why su2cfg
// preserves it.
func Generate(cfg *su2cfg.File, opts Options) ([]byte, error) {
	inputs, err := buildInputs(cfg, opts)
	if err != nil {
		return nil, err
	}

	doc := struct {
		Name string `yaml:"name"`
		On   struct {
			WorkflowDispatch struct {
				Inputs *yaml.Node `yaml:"inputs"`
			} `yaml:"workflow_dispatch"`
		} `yaml:"on"`
		Jobs map[string]job `yaml:"jobs"`
	}{Name: opts.Name}
	doc.On.WorkflowDispatch.Inputs = inputs
	doc.Jobs = map[string]job{"validate": buildJob(cfg)}

	out, err := yaml.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal workflow: %w", err)
	}
	return out, nil
}

// buildInputs returns the ordered workflow_dispatch inputs: the three case
// selectors followed by one input per configuration option.
func buildInputs(cfg *su2cfg.File, opts Options) (*yaml.Node, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}

	add := func(key string, in input) error {
		var value yaml.Node
		if err := value.Encode(in); err != nil {
			return fmt.Errorf("failed to encode input %s: %w", key, err)
		}
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: key},
			&value,
		)
		return nil
	}

	fixed := []struct {
		key string
		in  input
	}{
		{"category", input{Description: "Validation Case Category", Required: true, Type: "choice", Options: opts.Categories}},
		{"case_name", input{Description: "Validation Case Name (e.g., 2D Mixing Layer)", Required: true, Type: "string"}},
		{"case_code", input{Description: "Validation Case Code (e.g., 2DML)", Required: true, Type: "string"}},
	}
	for _, f := range fixed {
		if err := add(f.key, f.in); err != nil {
			return nil, err
		}
	}

	for _, opt := range cfg.Options() {
		in := input{Description: opt.Key, Type: "string", Default: opt.Value}
		if err := add(opt.Key, in); err != nil {
			return nil, err
		}
	}
	return node, nil
}

func buildJob(cfg *su2cfg.File) job {
	return job{
		RunsOn: "ubuntu-latest",
		Steps: []step{
			{
				Name: "Checkout SU2 Main Repo",
				Uses: "actions/checkout@v4",
				With: map[string]string{"path": "su2-main"},
			},
			{
				Name: "Checkout VandV Repo",
				Uses: "actions/checkout@v4",
				With: map[string]string{
					"repository": "${{ github.repository_owner }}/SU2-VandV",
					"path":       "su2-vandv",
					"token":      "${{ secrets.GITHUB_TOKEN }}",
				},
			},
			{
				Name: "Update Configuration File",
				Run:  updateConfigScript(cfg),
			},
			{
				Name: "Build SU2",
				Run: joinLines(
					"sudo apt-get update",
					"sudo apt-get install -y build-essential cmake libopenmpi-dev openmpi-bin",
					"cd su2-main",
					"mkdir -p build && cd build",
					"cmake .. -DCMAKE_BUILD_TYPE=Release",
					"make -j$(nproc)",
					"sudo make install",
				),
			},
			{
				Name: "Run Validation Pipeline",
				Run: joinLines(
					`CATEGORY="${{ inputs.category }}"`,
					`CASE_CODE="${{ inputs.case_code }}"`,
					`su2pipe run \`,
					`  --category "$CATEGORY" \`,
					`  --case-code "$CASE_CODE" \`,
					`  --turbulence-model SA \`,
					`  --configuration Configuration1 \`,
					`  --vandv-path "su2-vandv/VandV/$CATEGORY/$CASE_CODE/SA" \`,
					`  --main-path "su2-main/VandV/$CATEGORY/$CASE_CODE/SA" \`,
					`  --output-path results`,
				),
			},
			{
				Name: "Upload Results as Artifacts",
				Uses: "actions/upload-artifact@v4",
				With: map[string]string{
					"name": "su2-validation-results-${{ inputs.case_code }}",
					"path": "results/",
				},
			},
		},
	}
}

// updateConfigScript emits the shell that rewrites the case configuration
// from the workflow inputs, one guarded sed per option.
func updateConfigScript(cfg *su2cfg.File) string {
	var sb strings.Builder
	sb.WriteString(`CATEGORY="${{ inputs.category }}"` + "\n")
	sb.WriteString(`CASE_CODE="${{ inputs.case_code }}"` + "\n")
	sb.WriteString(`CONFIG_PATH="su2-main/VandV/$CATEGORY/$CASE_CODE/config.cfg"` + "\n")
	sb.WriteString("cp su2-main/template_config.cfg \"$CONFIG_PATH\"\n")
	for _, opt := range cfg.Options() {
		escaped := strings.ReplaceAll(opt.Key, "/", `\/`)
		fmt.Fprintf(&sb, "if [ -n \"${{ inputs.%s }}\" ]; then\n", opt.Key)
		fmt.Fprintf(&sb, "  sed -i \"s/^%s=.*/%s= ${{ inputs.%s }}/\" \"$CONFIG_PATH\"\n", escaped, escaped, opt.Key)
		sb.WriteString("fi\n")
	}
	return sb.String()
}

func joinLines(lines ...string) string {
	return strings.Join(lines, "\n") + "\n"
}
