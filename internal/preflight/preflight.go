package preflight

import (
	"context"

	"chapsplit/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes all applicable preflight checks for the given config.
// The journal directory is only checked when the journal is enabled.
func RunAll(ctx context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	var results []Result
	for _, status := range CheckSystemDeps(ctx, cfg, false) {
		result := Result{Name: status.Name, Passed: status.Available, Detail: status.Path}
		if !status.Available {
			result.Detail = status.Detail
		}
		results = append(results, result)
	}

	return append(results, PathChecks(cfg)...)
}

// PathChecks checks the directories a split writes to.
func PathChecks(cfg *config.Config) []Result {
	results := []Result{CheckOutputDirectory("Output directory", cfg.Output.Dir)}
	if cfg.Journal.Enabled && cfg.Journal.Path != "" {
		results = append(results, CheckOutputDirectory("Journal directory", parentDir(cfg.Journal.Path)))
	}
	return results
}

// Failed returns the results that did not pass.
func Failed(results []Result) []Result {
	var out []Result
	for _, r := range results {
		if !r.Passed {
			out = append(out, r)
		}
	}
	return out
}
