package stage

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/cfdworks/su2pipe/internal/casefs"
)

// Distributor propagates the case-level configuration file to every mesh
// folder of a case.
type Distributor struct {
	logger *slog.Logger
}

// NewDistributor returns a Distributor. A nil logger discards.
func NewDistributor(logger *slog.Logger) *Distributor {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Distributor{logger: logger}
}

// Distribute copies caseDir's Config.cfg into each mesh folder under
// caseDir as its canonical configuration file, unconditionally overwriting.
// A missing authoritative file is an error.
func (d *Distributor) Distribute(caseDir string) error {
	authoritative := filepath.Join(caseDir, casefs.ConfigFileName)
	if !casefs.FileExists(authoritative) {
		return fmt.Errorf("config file not found: %s", authoritative)
	}

	folders, err := casefs.MeshFolders(caseDir)
	if err != nil {
		return err
	}

	for _, folder := range folders {
		if casefs.IsAmbiguousMeshName(folder) {
			d.logger.Debug("folder name is ambiguous under the mesh naming rule", "folder", folder)
		}
		dst := filepath.Join(caseDir, folder, casefs.ConfigFileName)
		if err := casefs.CopyFile(authoritative, dst); err != nil {
			return fmt.Errorf("failed to distribute config to %s: %w", folder, err)
		}
		d.logger.Info("copied config", "folder", folder)
	}

	return nil
}
