package commands

import (
	"fmt"
	"os"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"github.com/cfdworks/su2pipe/internal/cli/config"
	"github.com/cfdworks/su2pipe/internal/pipeline"
	"github.com/cfdworks/su2pipe/internal/plots"
)

// NewRunCommand creates the run command.
func NewRunCommand() *cobra.Command {
	var (
		category        string
		caseCode        string
		turbulenceModel string
		configuration   string
		vandvPath       string
		mainPath        string
		outputPath      string
		noPlots         bool
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the validation pipeline for one case",
		Long: `Run stages mesh and restart files from the V&V results repository into the
case directory, distributes the case configuration into every mesh folder,
runs the solver per mesh, renders the comparison plots, and collects the
results into the output directory.

Solver and plotting failures degrade the run but do not stop it; whatever
succeeded is still collected. The exit code is non-zero unless every stage
completed cleanly.`,
		Example: `  su2pipe run --category Basic --case-code 2DML --turbulence-model SA \
    --configuration Configuration1 \
    --vandv-path ~/vandv/Basic/2DML/SA --main-path ~/su2/Basic/2DML/SA \
    --output-path ./results/2DML_SA_Configuration1`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.GetCurrentConfig()
			logger := newLogger(cfg.Verbose)

			opts := pipeline.Options{
				VandVPath:     vandvPath,
				MainPath:      mainPath,
				OutputPath:    outputPath,
				SolverBinary:  cfg.SolverBinary,
				SolverTimeout: cfg.Timeout,
				Logger:        logger,
			}
			if !noPlots {
				opts.Renderer = plots.NewCaseRenderer(logger)
			}

			driver := pipeline.NewDriver(opts)
			report, err := driver.Run(cmd.Context(), pipeline.Case{
				Category:        category,
				Code:            caseCode,
				TurbulenceModel: turbulenceModel,
				Configuration:   configuration,
			})
			if report != nil {
				printReport(report)
			}
			if err != nil {
				return err
			}
			if !report.OK() {
				return fmt.Errorf("run %s completed with degraded stages", report.RunID)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&category, "category", "", "Case category (e.g. Basic, Extended)")
	cmd.Flags().StringVar(&caseCode, "case-code", "", "Case code (e.g. 2DML)")
	cmd.Flags().StringVar(&turbulenceModel, "turbulence-model", "", "Turbulence model (e.g. SA, SST)")
	cmd.Flags().StringVar(&configuration, "configuration", "", "Configuration name (e.g. Configuration1)")
	cmd.Flags().StringVar(&vandvPath, "vandv-path", "", "Model-level directory of the V&V results repository")
	cmd.Flags().StringVar(&mainPath, "main-path", "", "Model-level directory of the main repository")
	cmd.Flags().StringVar(&outputPath, "output-path", "", "Directory the result bundle is written to")
	cmd.Flags().BoolVar(&noPlots, "no-plots", false, "Skip the plot rendering stage")

	for _, name := range []string{
		"category", "case-code", "turbulence-model", "configuration",
		"vandv-path", "main-path", "output-path",
	} {
		_ = cmd.MarkFlagRequired(name)
	}

	return cmd
}

func printReport(report *pipeline.Report) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetTitle("Run %s (%s)", report.RunID, report.Case.String())
	t.AppendHeader(table.Row{"Stage", "Status", "Detail"})
	for _, s := range report.Stages {
		status := string(s.Status)
		switch s.Status {
		case pipeline.StageOK:
			status = text.FgGreen.Sprint(status)
		case pipeline.StageDegraded:
			status = text.FgYellow.Sprint(status)
		case pipeline.StageFailed:
			status = text.FgRed.Sprint(status)
		}
		t.AppendRow(table.Row{s.Stage, status, s.Message})
	}
	t.Render()

	if len(report.Solver) > 0 {
		st := table.NewWriter()
		st.SetOutputMirror(os.Stdout)
		st.AppendHeader(table.Row{"Mesh", "Status", "Duration", "Detail"})
		for _, r := range report.Solver {
			st.AppendRow(table.Row{r.Folder, string(r.Status), r.Duration.Round(time.Second), r.Message})
		}
		st.Render()
	}

	fmt.Printf("Elapsed: %s\n", report.Finished.Sub(report.Started).Round(time.Millisecond))
}
