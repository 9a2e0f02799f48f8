package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/cfdworks/su2pipe/internal/workflow"
	"github.com/cfdworks/su2pipe/pkg/su2cfg"
)

// NewWorkflowCommand creates the workflow command.
func NewWorkflowCommand() *cobra.Command {
	var (
		configPath string
		outputPath string
		name       string
	)

	cmd := &cobra.Command{
		Use:   "workflow",
		Short: "Generate a dispatch workflow from a solver configuration",
		Long: `Workflow reads a solver configuration template and generates a GitHub
Actions workflow whose dispatch inputs expose every option of the template,
defaulted to the template's values. Writing to - prints the YAML to stdout.`,
		Example: `  su2pipe workflow --config template_config.cfg --output .github/workflows/validation.yml`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := su2cfg.ParseFile(configPath)
			if err != nil {
				return err
			}

			opts := workflow.DefaultOptions()
			if name != "" {
				opts.Name = name
			}

			data, err := workflow.Generate(cfg, opts)
			if err != nil {
				return err
			}

			if outputPath == "-" {
				_, err = os.Stdout.Write(data)
				return err
			}
			if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
				return fmt.Errorf("failed to create workflow directory: %w", err)
			}
			if err := os.WriteFile(outputPath, data, 0o644); err != nil {
				return fmt.Errorf("failed to write workflow: %w", err)
			}
			fmt.Printf("Wrote workflow with %d configuration input(s) to %s\n", cfg.Len(), outputPath)
			return nil
		},
	}

	cmd.Flags().StringVar(&configPath, "config-template", "", "Solver configuration template to expose as inputs")
	cmd.Flags().StringVar(&outputPath, "output", "-", "Workflow file to write (- for stdout)")
	cmd.Flags().StringVar(&name, "name", "", "Workflow display name override")

	_ = cmd.MarkFlagRequired("config-template")

	return cmd
}
