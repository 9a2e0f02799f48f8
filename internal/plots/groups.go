// Package plots discovers result bundles across turbulence-model and
// configuration combinations, aggregates their numeric series, and renders
// the comparison images published for a validation case.
package plots

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Entry is one discovered result bundle for a (model, configuration) pair.
type Entry struct {
	Model  string
	Config string
	Dir    string
}

// Label is the display name used in legends and panel titles.
func (e Entry) Label() string {
	return e.Model + "_" + e.Config
}

// Groups holds discovered result bundles grouped by turbulence model, then
// configuration, both in discovery order.
type Groups struct {
	caseCode string
	models   []string
	byModel  map[string][]Entry
}

// ParseFolderName splits a result bundle folder name of the form
// <caseCode>_<model>_<configuration...> for the given case code. The
// configuration may itself contain underscores; everything after the second
// underscore is rejoined. The case code is an explicit parameter, never
// ambient state.
func ParseFolderName(caseCode, name string) (model, config string, ok bool) {
	if caseCode == "" || !strings.HasPrefix(name, caseCode+"_") {
		return "", "", false
	}
	parts := strings.Split(name, "_")
	if len(parts) < 3 {
		return "", "", false
	}
	return parts[1], strings.Join(parts[2:], "_"), true
}

// Discover scans inputDir for result bundle folders matching caseCode and
// groups them. Non-matching folders are ignored silently. An empty result
// is expected, not exceptional.
func Discover(inputDir, caseCode string) (*Groups, error) {
	entries, err := os.ReadDir(inputDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read input directory: %w", err)
	}

	g := &Groups{caseCode: caseCode, byModel: make(map[string][]Entry)}
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		model, config, ok := ParseFolderName(caseCode, e.Name())
		if !ok {
			continue
		}
		if _, seen := g.byModel[model]; !seen {
			g.models = append(g.models, model)
		}
		g.byModel[model] = append(g.byModel[model], Entry{
			Model:  model,
			Config: config,
			Dir:    filepath.Join(inputDir, e.Name()),
		})
	}
	return g, nil
}

// CaseCode returns the case code the groups were discovered for.
func (g *Groups) CaseCode() string { return g.caseCode }

// Empty reports whether no bundles matched.
func (g *Groups) Empty() bool { return len(g.models) == 0 }

// Models returns the turbulence models in discovery order.
func (g *Groups) Models() []string {
	out := make([]string, len(g.models))
	copy(out, g.models)
	return out
}

// Configs returns the entries for one model in discovery order.
func (g *Groups) Configs(model string) []Entry {
	entries := g.byModel[model]
	out := make([]Entry, len(entries))
	copy(out, entries)
	return out
}

// All returns every entry, model-major, in discovery order.
func (g *Groups) All() []Entry {
	var out []Entry
	for _, model := range g.models {
		out = append(out, g.byModel[model]...)
	}
	return out
}

// Len returns the total number of (model, configuration) pairs.
func (g *Groups) Len() int {
	n := 0
	for _, model := range g.models {
		n += len(g.byModel[model])
	}
	return n
}

// MaxConfigs returns the largest configuration count under any model. It
// sets the column count of the configuration matrix.
func (g *Groups) MaxConfigs() int {
	maxN := 0
	for _, model := range g.models {
		if n := len(g.byModel[model]); n > maxN {
			maxN = n
		}
	}
	return maxN
}
