package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cfdworks/su2pipe/internal/cli/config"
	"github.com/cfdworks/su2pipe/internal/plots"
)

// NewCombineCommand creates the combine command.
func NewCombineCommand() *cobra.Command {
	var (
		caseCode  string
		inputDir  string
		outputDir string
	)

	cmd := &cobra.Command{
		Use:   "combine",
		Short: "Combine collected result bundles into comparison plots",
		Long: `Combine scans the input directory for collected result bundles of the given
case code, groups them by turbulence model and configuration, and writes
cross-configuration comparison plots plus an index and manifest into the
output directory.

Finding no matching bundles is not an error; the command reports it and
writes nothing.`,
		Example: `  su2pipe combine --case-code 2DML --input-dir ./results --output-dir ./results/2DML_combined`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.GetCurrentConfig()
			logger := newLogger(cfg.Verbose)

			agg := plots.NewAggregator(logger)
			res, err := agg.Combine(inputDir, caseCode, outputDir)
			if err != nil {
				return err
			}
			if res.Empty {
				fmt.Printf("No result bundles for case %s under %s; nothing to combine.\n", caseCode, inputDir)
				return nil
			}

			fmt.Printf("Combined %d group(s) across %d model(s):\n", res.Groups.Len(), len(res.Groups.Models()))
			for _, name := range res.Artifacts {
				fmt.Printf("  %s\n", name)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&caseCode, "case-code", "", "Case code to combine (e.g. 2DML)")
	cmd.Flags().StringVar(&inputDir, "input-dir", "", "Directory holding collected result bundles")
	cmd.Flags().StringVar(&outputDir, "output-dir", "", "Directory the comparison artifacts are written to")

	for _, name := range []string{"case-code", "input-dir", "output-dir"} {
		_ = cmd.MarkFlagRequired(name)
	}

	return cmd
}
