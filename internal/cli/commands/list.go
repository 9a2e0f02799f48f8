package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/cfdworks/su2pipe/internal/casefs"
)

// NewListCommand creates the list command.
func NewListCommand() *cobra.Command {
	var caseDir string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the mesh folders of a case directory",
		Long: `List shows the mesh resolution folders the pipeline would operate on for a
case directory, together with whether each one holds a solver configuration,
a mesh file, and a restart file. Folders whose names only loosely match the
mesh naming convention are marked ambiguous.`,
		Example: `  su2pipe list --case-dir ~/su2/Basic/2DML/SA/Configuration1`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			folders, err := casefs.MeshFolders(caseDir)
			if err != nil {
				return err
			}
			if len(folders) == 0 {
				fmt.Printf("No mesh folders under %s.\n", caseDir)
				return nil
			}

			t := table.NewWriter()
			t.SetOutputMirror(os.Stdout)
			t.AppendHeader(table.Row{"Folder", "Config", "Mesh", "Restart", "Notes"})
			for _, folder := range folders {
				dir := filepath.Join(caseDir, folder)
				var notes []string
				if casefs.IsAmbiguousMeshName(folder) {
					notes = append(notes, "ambiguous name")
				}
				t.AppendRow(table.Row{
					folder,
					mark(casefs.FileExists(filepath.Join(dir, casefs.ConfigFileName))),
					mark(hasFileWithExt(dir, casefs.MeshExt)),
					mark(hasFileWithExt(dir, casefs.RestartExt)),
					strings.Join(notes, ", "),
				})
			}
			t.Render()
			return nil
		},
	}

	cmd.Flags().StringVar(&caseDir, "case-dir", "", "Case configuration directory holding the mesh folders")
	_ = cmd.MarkFlagRequired("case-dir")

	return cmd
}

func mark(ok bool) string {
	if ok {
		return "yes"
	}
	return "-"
}

func hasFileWithExt(dir, ext string) bool {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return false
	}
	for _, e := range entries {
		if !e.IsDir() && filepath.Ext(e.Name()) == ext {
			return true
		}
	}
	return false
}
