// Package solver invokes the external CFD solver once per mesh folder.
// Each invocation is a blocking subprocess; failures are isolated per folder
// so one divergent mesh never blocks the others.
package solver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/cfdworks/su2pipe/internal/casefs"
)

// DefaultBinary is the solver executable looked up on PATH.
const DefaultBinary = "SU2_CFD"

// DefaultTimeout bounds a single solver invocation. The original automation
// waited indefinitely; an unresponsive solver would stall the whole pipeline.
const DefaultTimeout = 2 * time.Hour

// Status classifies the outcome of one mesh folder.
type Status string

const (
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
	StatusSkipped   Status = "skipped"
)

// Result records the outcome of one solver invocation. The full ordered set
// is returned so callers can inspect exactly what happened per folder.
type Result struct {
	Folder   string
	Status   Status
	Message  string
	Output   string
	Duration time.Duration
}

// Failed reports whether the folder did not complete successfully. Skipped
// folders count as failures for the aggregate pipeline outcome.
func (r Result) Failed() bool {
	return r.Status != StatusSucceeded
}

// Runner executes the solver across the mesh folders of a case.
type Runner struct {
	// Binary is the solver executable. Defaults to DefaultBinary.
	Binary string
	// Timeout bounds each invocation; a timed-out run is that folder's
	// failure. Zero means DefaultTimeout, negative disables the bound.
	Timeout time.Duration

	logger *slog.Logger
}

// NewRunner returns a Runner with defaults applied. A nil logger discards.
func NewRunner(binary string, timeout time.Duration, logger *slog.Logger) *Runner {
	if binary == "" {
		binary = DefaultBinary
	}
	if timeout == 0 {
		timeout = DefaultTimeout
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Runner{Binary: binary, Timeout: timeout, logger: logger}
}

// RunAll invokes the solver in every mesh folder under caseDir, strictly in
// enumeration order. Every folder is attempted regardless of earlier
// failures. The returned error covers only the inability to enumerate mesh
// folders; per-folder outcomes live in the results.
func (r *Runner) RunAll(ctx context.Context, caseDir string) ([]Result, error) {
	folders, err := casefs.MeshFolders(caseDir)
	if err != nil {
		return nil, err
	}

	results := make([]Result, 0, len(folders))
	for _, folder := range folders {
		res := r.runOne(ctx, filepath.Join(caseDir, folder))
		res.Folder = folder
		results = append(results, res)

		if res.Failed() {
			r.logger.Warn("solver run failed", "folder", folder, "status", res.Status, "message", res.Message)
		} else {
			r.logger.Info("solver run completed", "folder", folder, "duration", res.Duration.Round(time.Millisecond))
		}
	}

	return results, nil
}

// runOne executes a single solver invocation with the mesh folder as its
// working directory and the configuration filename as sole argument.
func (r *Runner) runOne(ctx context.Context, meshDir string) Result {
	if !casefs.FileExists(filepath.Join(meshDir, casefs.ConfigFileName)) {
		return Result{
			Status:  StatusSkipped,
			Message: fmt.Sprintf("config file not found in %s", meshDir),
		}
	}

	runCtx := ctx
	if r.Timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(runCtx, r.Binary, casefs.ConfigFileName)
	cmd.Dir = meshDir

	start := time.Now()
	out, err := cmd.CombinedOutput()
	elapsed := time.Since(start)

	res := Result{
		Status:   StatusSucceeded,
		Output:   string(out),
		Duration: elapsed,
	}

	switch {
	case err == nil:
	case errors.Is(runCtx.Err(), context.DeadlineExceeded):
		res.Status = StatusFailed
		res.Message = fmt.Sprintf("solver timed out after %s", r.Timeout)
	default:
		res.Status = StatusFailed
		res.Message = err.Error()
	}

	return res
}

// FailedCount returns how many results did not succeed.
func FailedCount(results []Result) int {
	n := 0
	for _, res := range results {
		if res.Failed() {
			n++
		}
	}
	return n
}
