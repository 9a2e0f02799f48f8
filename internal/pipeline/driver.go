// Package pipeline sequences the stages of one validation case run:
// staging from the results repository, configuration distribution, solver
// execution, plot rendering and result collection.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/cfdworks/su2pipe/internal/collect"
	"github.com/cfdworks/su2pipe/internal/solver"
	"github.com/cfdworks/su2pipe/internal/stage"
)

// Case identifies one validation scenario.
type Case struct {
	Category        string
	Code            string
	TurbulenceModel string
	Configuration   string
}

// String returns the canonical slash-separated case identifier.
func (c Case) String() string {
	return c.Category + "/" + c.Code + "/" + c.TurbulenceModel + "/" + c.Configuration
}

// Renderer is the report-rendering collaborator: it consumes the case's
// numeric series and writes image artifacts. The driver treats it as
// opaque beyond that.
type Renderer interface {
	Render(caseDir string) error
}

// Stage names as reported.
const (
	StageReconcile  = "reconcile"
	StageDistribute = "distribute"
	StageSolve      = "solve"
	StageRender     = "render"
	StageCollect    = "collect"
)

// StageStatus classifies a stage outcome.
type StageStatus string

const (
	StageOK       StageStatus = "ok"
	StageDegraded StageStatus = "degraded"
	StageFailed   StageStatus = "failed"
)

// StageResult records one stage's outcome.
type StageResult struct {
	Stage   string
	Status  StageStatus
	Message string
}

// Report is the full inspectable outcome of a pipeline run.
type Report struct {
	RunID    string
	Case     Case
	Stages   []StageResult
	Solver   []solver.Result
	Bundle   *collect.Bundle
	Started  time.Time
	Finished time.Time
}

// OK reports whether every stage completed cleanly. The pipeline's exit
// signal is this single boolean; callers needing detail inspect Stages.
func (r *Report) OK() bool {
	for _, s := range r.Stages {
		if s.Status != StageOK {
			return false
		}
	}
	return true
}

// Options configures a Driver.
type Options struct {
	// VandVPath is the external results repository's model-level directory.
	VandVPath string
	// MainPath is the main repository's model-level directory.
	MainPath string
	// OutputPath is where the result bundle is written.
	OutputPath string
	// SolverBinary overrides the solver executable.
	SolverBinary string
	// SolverTimeout bounds each solver invocation.
	SolverTimeout time.Duration
	// Renderer generates the per-case plots. Optional; rendering is
	// skipped when nil.
	Renderer Renderer
	// Logger is the structured logger. A nil logger discards.
	Logger *slog.Logger
}

// Driver runs the validation pipeline for one case.
//
// The filesystem is the shared mutable resource: running two drivers
// against the same case concurrently is unsafe and must be prevented by
// the caller.
type Driver struct {
	opts       Options
	logger     *slog.Logger
	reconciler *stage.Reconciler
	distrib    *stage.Distributor
	runner     *solver.Runner
	collector  *collect.Collector
}

// NewDriver returns a Driver for the given options.
func NewDriver(opts Options) *Driver {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Driver{
		opts:       opts,
		logger:     logger,
		reconciler: stage.NewReconciler(logger),
		distrib:    stage.NewDistributor(logger),
		runner:     solver.NewRunner(opts.SolverBinary, opts.SolverTimeout, logger),
		collector:  collect.NewCollector(logger),
	}
}

// Run executes the pipeline for c. Only the two staging preconditions are
// fatal; solver and rendering failures degrade the run but collection is
// always attempted so whatever succeeded is still harvested. The returned
// error is non-nil only for fatal precondition failures.
func (d *Driver) Run(ctx context.Context, c Case) (*Report, error) {
	report := &Report{
		RunID:   uuid.NewString(),
		Case:    c,
		Started: time.Now(),
	}
	defer func() { report.Finished = time.Now() }()

	caseDir := filepath.Join(d.opts.MainPath, c.Configuration)
	sourceDir := filepath.Join(d.opts.VandVPath, c.Configuration)

	d.logger.Info("starting validation run", "run_id", report.RunID, "case", c.String())

	// Stage 1: pull mesh and restart files from the results repository.
	if err := d.reconciler.Reconcile(sourceDir, caseDir); err != nil {
		report.Stages = append(report.Stages, StageResult{StageReconcile, StageFailed, err.Error()})
		d.logger.Error("reconcile failed", "error", err)
		return report, fmt.Errorf("reconcile: %w", err)
	}
	report.Stages = append(report.Stages, StageResult{Stage: StageReconcile, Status: StageOK})

	// Stage 2: distribute the authoritative configuration.
	if err := d.distrib.Distribute(caseDir); err != nil {
		report.Stages = append(report.Stages, StageResult{StageDistribute, StageFailed, err.Error()})
		d.logger.Error("distribute failed", "error", err)
		return report, fmt.Errorf("distribute: %w", err)
	}
	report.Stages = append(report.Stages, StageResult{Stage: StageDistribute, Status: StageOK})

	// Stage 3: run the solver per mesh folder, failure tolerant.
	results, err := d.runner.RunAll(ctx, caseDir)
	report.Solver = results
	switch {
	case err != nil:
		report.Stages = append(report.Stages, StageResult{StageSolve, StageDegraded, err.Error()})
	case solver.FailedCount(results) > 0:
		msg := fmt.Sprintf("%d of %d mesh folders failed", solver.FailedCount(results), len(results))
		report.Stages = append(report.Stages, StageResult{StageSolve, StageDegraded, msg})
		d.logger.Warn("some solver runs failed, continuing", "failed", solver.FailedCount(results))
	default:
		report.Stages = append(report.Stages, StageResult{Stage: StageSolve, Status: StageOK})
	}

	// Stage 4: render case plots. Failures degrade, never abort.
	if d.opts.Renderer != nil {
		if err := d.opts.Renderer.Render(caseDir); err != nil {
			report.Stages = append(report.Stages, StageResult{StageRender, StageDegraded, err.Error()})
			d.logger.Warn("plot rendering failed, continuing", "error", err)
		} else {
			report.Stages = append(report.Stages, StageResult{Stage: StageRender, Status: StageOK})
		}
	}

	// Stage 5: always harvest whatever is there.
	bundle, err := d.collector.Collect(caseDir, d.opts.OutputPath)
	report.Bundle = bundle
	if err != nil {
		report.Stages = append(report.Stages, StageResult{StageCollect, StageDegraded, err.Error()})
		d.logger.Warn("collection incomplete", "error", err)
	} else {
		report.Stages = append(report.Stages, StageResult{Stage: StageCollect, Status: StageOK})
	}

	d.logger.Info("validation run finished", "run_id", report.RunID, "ok", report.OK(),
		"duration", time.Since(report.Started).Round(time.Millisecond))
	return report, nil
}
