package plots

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"
	"gopkg.in/yaml.v3"

	"github.com/cfdworks/su2pipe/internal/casefs"
)

// Artifact filenames written by a combine pass.
const (
	ConvergenceArtifact = "combined_convergence.png"
	ValidationArtifact  = "combined_validation.png"
	SummaryArtifact     = "comparison_summary.png"
	MatrixArtifact      = "configuration_matrix.png"
	IndexArtifact       = "README.md"
	ManifestArtifact    = "manifest.yaml"
)

// CombineResult reports what a combine pass produced.
type CombineResult struct {
	Groups    *Groups
	Artifacts []string
	// Empty is set when no bundle folders matched the case code. That is a
	// non-fatal outcome; no artifacts are written.
	Empty bool
}

// Aggregator builds cross-configuration comparison plots from collected
// result bundles.
type Aggregator struct {
	logger *slog.Logger

	// now is swappable for deterministic manifests in tests.
	now func() time.Time
}

// NewAggregator returns an Aggregator. A nil logger discards.
func NewAggregator(logger *slog.Logger) *Aggregator {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Aggregator{logger: logger, now: time.Now}
}

// Combine discovers result bundles for caseCode under inputDir and writes
// the four comparison images plus an index and manifest into outputDir.
// Zero matching folders yields an empty, non-fatal result.
func (a *Aggregator) Combine(inputDir, caseCode, outputDir string) (*CombineResult, error) {
	groups, err := Discover(inputDir, caseCode)
	if err != nil {
		return nil, err
	}

	if groups.Empty() {
		a.logger.Info("no plot folders found to combine", "case_code", caseCode, "input_dir", inputDir)
		return &CombineResult{Groups: groups, Empty: true}, nil
	}

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	a.logger.Info("combining result bundles",
		"case_code", caseCode, "models", len(groups.Models()), "groups", groups.Len())

	res := &CombineResult{Groups: groups}
	steps := []struct {
		name  string
		build func(*Groups, string) error
	}{
		{ConvergenceArtifact, a.writeConvergence},
		{ValidationArtifact, a.writeValidation},
		{SummaryArtifact, a.writeSummary},
		{MatrixArtifact, a.writeMatrix},
		{IndexArtifact, a.writeIndex},
		{ManifestArtifact, a.writeManifest},
	}
	for _, step := range steps {
		if err := step.build(groups, filepath.Join(outputDir, step.name)); err != nil {
			return res, err
		}
		res.Artifacts = append(res.Artifacts, step.name)
		a.logger.Debug("wrote artifact", "name", step.name)
	}

	return res, nil
}

// groupHistory returns the convergence history for one bundle: the first
// mesh subfolder with a history table, or a deterministic synthetic series
// keyed by the group index.
func groupHistory(e Entry, idx int) History {
	folders, err := casefs.MeshFolders(e.Dir)
	if err == nil {
		for _, folder := range folders {
			if h, err := LoadHistory(filepath.Join(e.Dir, folder, HistoryFileName)); err == nil {
				return h
			}
		}
	}
	return SyntheticHistory(100, 20, idx)
}

// convergencePlot builds the residual-vs-iteration comparison, one curve
// per (model, configuration) on a logarithmic residual axis.
func convergencePlot(groups *Groups, title string) (*plot.Plot, error) {
	p := newPlot(title, "Iterations", "Residual")
	logY(p)
	p.Legend.Top = true

	for i, e := range groups.All() {
		h := groupHistory(e, i)
		if err := addLine(p, e.Label(), h.Iterations, PlottableResiduals(h.Residuals), i, false); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// validationPlot builds the validation-vs-experiment comparison: reference
// markers plus one offset curve per group.
func validationPlot(groups *Groups, title string) (*plot.Plot, error) {
	p := newPlot(title, "X/C", "Cp")
	p.Legend.Top = true

	exp := SyntheticExperiment(20)
	if err := addMarkers(p, "Experimental Data", exp.X, exp.Y); err != nil {
		return nil, err
	}

	for i, e := range groups.All() {
		v := SyntheticValidation(100, i)
		if err := addLine(p, e.Label(), v.X, v.Y, i, true); err != nil {
			return nil, err
		}
	}
	return p, nil
}

func (a *Aggregator) writeConvergence(groups *Groups, path string) error {
	p, err := convergencePlot(groups, "Combined Convergence History - "+groups.CaseCode())
	if err != nil {
		return err
	}
	return savePNG(p, 12*vg.Inch, 8*vg.Inch, path)
}

func (a *Aggregator) writeValidation(groups *Groups, path string) error {
	p, err := validationPlot(groups, "Combined Validation Results - "+groups.CaseCode())
	if err != nil {
		return err
	}
	return savePNG(p, 12*vg.Inch, 8*vg.Inch, path)
}

// writeSummary composes the convergence and validation views side by side.
func (a *Aggregator) writeSummary(groups *Groups, path string) error {
	left, err := convergencePlot(groups, "Convergence Comparison")
	if err != nil {
		return err
	}
	right, err := validationPlot(groups, "Validation Comparison")
	if err != nil {
		return err
	}
	return saveTiled([][]*plot.Plot{{left, right}}, 16*vg.Inch, 6*vg.Inch, path)
}

// writeMatrix renders the R×C grid of per-(model, configuration) panels.
// Rows are models, columns configurations; cells past a model's last
// configuration stay nil and are not drawn.
func (a *Aggregator) writeMatrix(groups *Groups, path string) error {
	models := groups.Models()
	rows := len(models)
	cols := groups.MaxConfigs()

	grid := make([][]*plot.Plot, rows)
	idx := 0
	for i, model := range models {
		grid[i] = make([]*plot.Plot, cols)
		for j, e := range groups.Configs(model) {
			p := newPlot(e.Label(), "X/C", "Cp")
			v := SyntheticValidation(100, idx)
			if err := addLine(p, "", v.X, v.Y, idx, false); err != nil {
				return err
			}
			grid[i][j] = p
			idx++
		}
	}

	w := vg.Length(4*cols) * vg.Inch
	h := vg.Length(4*rows) * vg.Inch
	return saveTiled(grid, w, h, path)
}

// writeIndex emits the human-readable index of generated plots.
func (a *Aggregator) writeIndex(groups *Groups, path string) error {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# Combined Plots for %s\n\n", groups.CaseCode())
	sb.WriteString("## Available Configurations:\n")
	for _, model := range groups.Models() {
		fmt.Fprintf(&sb, "\n### %s Model:\n", model)
		for _, e := range groups.Configs(model) {
			fmt.Fprintf(&sb, "- %s\n", e.Config)
		}
	}
	sb.WriteString("\n## Generated Combined Plots:\n")
	sb.WriteString("- " + ConvergenceArtifact + " - Convergence history comparison\n")
	sb.WriteString("- " + ValidationArtifact + " - Validation results comparison\n")
	sb.WriteString("- " + SummaryArtifact + " - Side-by-side summary\n")
	sb.WriteString("- " + MatrixArtifact + " - Matrix view of all configurations\n")
	fmt.Fprintf(&sb, "\nGenerated on: %s\n", a.now().UTC().Format(time.RFC3339))

	if err := os.WriteFile(path, []byte(sb.String()), 0o644); err != nil {
		return fmt.Errorf("failed to write index: %w", err)
	}
	return nil
}

// manifest is the machine-readable enumeration of discovered groups and
// produced artifacts.
type manifest struct {
	CaseCode  string          `yaml:"case_code"`
	Generated string          `yaml:"generated"`
	Groups    []manifestGroup `yaml:"groups"`
	Artifacts []string        `yaml:"artifacts"`
}

type manifestGroup struct {
	Model          string   `yaml:"model"`
	Configurations []string `yaml:"configurations"`
}

func (a *Aggregator) writeManifest(groups *Groups, path string) error {
	m := manifest{
		CaseCode:  groups.CaseCode(),
		Generated: a.now().UTC().Format(time.RFC3339),
		Artifacts: []string{ConvergenceArtifact, ValidationArtifact, SummaryArtifact, MatrixArtifact},
	}
	for _, model := range groups.Models() {
		mg := manifestGroup{Model: model}
		for _, e := range groups.Configs(model) {
			mg.Configurations = append(mg.Configurations, e.Config)
		}
		m.Groups = append(m.Groups, mg)
	}

	data, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("failed to marshal manifest: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}
	return nil
}
