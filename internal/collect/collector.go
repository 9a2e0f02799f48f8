// Package collect harvests solver outputs from a case directory into a
// canonical result bundle tree.
package collect

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/cfdworks/su2pipe/internal/casefs"
)

// MeshBundle records what was harvested from one mesh folder.
type MeshBundle struct {
	// Source is the original mesh folder name. It exists only in this
	// report; the on-disk bundle keeps the renumbered name.
	Source string
	// Name is the renumbered bundle folder, Mesh1..MeshN in enumeration
	// order.
	Name string
	// Files are the result files copied, sorted by name.
	Files []string
}

// Bundle describes the output tree produced by a collection pass.
type Bundle struct {
	OutputDir  string
	Meshes     []MeshBundle
	PlotsTaken bool
}

// Empty reports whether nothing at all was collected. An empty bundle is a
// valid, if degenerate, outcome.
func (b *Bundle) Empty() bool {
	for _, m := range b.Meshes {
		if len(m.Files) > 0 {
			return false
		}
	}
	return !b.PlotsTaken
}

// Collector copies result artifacts out of a case directory.
type Collector struct {
	logger *slog.Logger
}

// NewCollector returns a Collector. A nil logger discards.
func NewCollector(logger *slog.Logger) *Collector {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Collector{logger: logger}
}

// Collect enumerates the mesh folders of caseDir and copies every file with
// a result extension into outputDir/Mesh{i}, renumbered in enumeration
// order. Provenance back to the original folder name survives only in the
// returned Bundle. A stale bundle at outputDir is destroyed first; every
// collection pass produces a fresh tree. A case-level plots directory, when
// present, is copied wholesale.
func (c *Collector) Collect(caseDir, outputDir string) (*Bundle, error) {
	if err := os.RemoveAll(outputDir); err != nil {
		return nil, fmt.Errorf("failed to remove stale bundle: %w", err)
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	folders, err := casefs.MeshFolders(caseDir)
	if err != nil {
		return nil, err
	}

	bundle := &Bundle{OutputDir: outputDir}
	for i, folder := range folders {
		name := fmt.Sprintf("Mesh%d", i+1)
		dst := filepath.Join(outputDir, name)
		if err := os.MkdirAll(dst, 0o755); err != nil {
			return bundle, fmt.Errorf("failed to create %s: %w", dst, err)
		}

		files, err := casefs.CopyMatching(filepath.Join(caseDir, folder), dst, casefs.HasResultExt)
		if err != nil {
			return bundle, fmt.Errorf("failed to collect %s: %w", folder, err)
		}

		bundle.Meshes = append(bundle.Meshes, MeshBundle{Source: folder, Name: name, Files: files})
		c.logger.Info("collected results", "from", folder, "to", name, "files", len(files))
	}

	plotsDir := filepath.Join(caseDir, casefs.PlotsDirName)
	if casefs.DirExists(plotsDir) {
		if err := casefs.CopyTree(plotsDir, filepath.Join(outputDir, casefs.PlotsDirName)); err != nil {
			return bundle, fmt.Errorf("failed to collect plots: %w", err)
		}
		bundle.PlotsTaken = true
		c.logger.Info("collected plots")
	}

	return bundle, nil
}
