// Package stage prepares a case directory for solver execution. It pulls
// mesh geometry and restart state from the external results repository and
// distributes the authoritative configuration to every mesh folder.
package stage

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/cfdworks/su2pipe/internal/casefs"
)

// Reconciler merges per-mesh input artifacts from a source case tree into a
// target case tree, matching subfolders by name.
type Reconciler struct {
	logger *slog.Logger
}

// NewReconciler returns a Reconciler. A nil logger discards.
func NewReconciler(logger *slog.Logger) *Reconciler {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Reconciler{logger: logger}
}

// Reconcile copies every restart (*.dat) and mesh geometry (*.su2) file from
// each source mesh subfolder into the same-named target subfolder. Folders
// present only in the source are skipped: the target defines which meshes
// are in scope. A missing source or target tree is a precondition failure.
//
// Copies are not transactional; an error partway through leaves the target
// partially updated.
func (r *Reconciler) Reconcile(sourceDir, targetDir string) error {
	if !casefs.DirExists(sourceDir) {
		return fmt.Errorf("source case directory not found: %s", sourceDir)
	}
	if !casefs.DirExists(targetDir) {
		return fmt.Errorf("target case directory not found: %s", targetDir)
	}

	entries, err := os.ReadDir(sourceDir)
	if err != nil {
		return fmt.Errorf("failed to read source directory: %w", err)
	}

	for _, e := range entries {
		if !e.IsDir() {
			continue
		}

		target := filepath.Join(targetDir, e.Name())
		if !casefs.DirExists(target) {
			r.logger.Debug("skipping source-only folder", "folder", e.Name())
			continue
		}

		copied, err := casefs.CopyMatching(filepath.Join(sourceDir, e.Name()), target, isStagedInput)
		if err != nil {
			return fmt.Errorf("failed to reconcile %s: %w", e.Name(), err)
		}
		r.logger.Info("reconciled mesh folder", "folder", e.Name(), "files", len(copied))
	}

	return nil
}

// isStagedInput matches the artifact types pulled from the results repo.
func isStagedInput(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	return ext == casefs.RestartExt || ext == casefs.MeshExt
}
