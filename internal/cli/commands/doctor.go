package commands

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/cfdworks/su2pipe/internal/casefs"
	"github.com/cfdworks/su2pipe/internal/cli/config"
)

// NewDoctorCommand creates the doctor command.
func NewDoctorCommand() *cobra.Command {
	var (
		vandvPath string
		mainPath  string
	)

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check that the environment can run the pipeline",
		Long: `Doctor verifies the pieces a pipeline run depends on: the solver binary is
resolvable, the configured timeout parses, and any repository paths given
exist. It exits non-zero when a check fails.`,
		Example: `  su2pipe doctor --vandv-path ~/vandv/Basic/2DML/SA --main-path ~/su2/Basic/2DML/SA`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.GetCurrentConfig()

			type check struct {
				name   string
				ok     bool
				detail string
			}
			var checks []check

			if path, err := exec.LookPath(cfg.SolverBinary); err == nil {
				checks = append(checks, check{"solver binary", true, path})
			} else {
				checks = append(checks, check{"solver binary", false, fmt.Sprintf("%s not found on PATH", cfg.SolverBinary)})
			}

			checks = append(checks, check{"solver timeout", true, cfg.Timeout.String()})

			if configFile := config.GetConfigFileUsed(); configFile != "" {
				checks = append(checks, check{"config file", true, configFile})
			} else {
				checks = append(checks, check{"config file", true, "none (defaults in effect)"})
			}

			for _, p := range []struct{ name, path string }{
				{"vandv path", vandvPath},
				{"main path", mainPath},
			} {
				if p.path == "" {
					continue
				}
				if casefs.DirExists(p.path) {
					checks = append(checks, check{p.name, true, p.path})
				} else {
					checks = append(checks, check{p.name, false, fmt.Sprintf("%s does not exist", p.path)})
				}
			}

			t := table.NewWriter()
			t.SetOutputMirror(os.Stdout)
			t.AppendHeader(table.Row{"Check", "Status", "Detail"})
			failed := 0
			for _, c := range checks {
				status := "ok"
				if !c.ok {
					status = "FAIL"
					failed++
				}
				t.AppendRow(table.Row{c.name, status, c.detail})
			}
			t.Render()

			if failed > 0 {
				return fmt.Errorf("%d check(s) failed", failed)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&vandvPath, "vandv-path", "", "V&V repository path to verify")
	cmd.Flags().StringVar(&mainPath, "main-path", "", "Main repository path to verify")

	return cmd
}
