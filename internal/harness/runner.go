// Package harness drives the scan-compare pipeline: enumerate sources,
// analyze each file once, write the actual artifact, bootstrap or load the
// expected baseline, and compare.
package harness

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/yorozuya-cybersecurity/secbench/internal/analyzers"
	"github.com/yorozuya-cybersecurity/secbench/internal/artifacts"
	"github.com/yorozuya-cybersecurity/secbench/internal/compare"
	"github.com/yorozuya-cybersecurity/secbench/internal/schema"
	"github.com/yorozuya-cybersecurity/secbench/internal/sources"
)

// Runner executes one harness run. Files are processed sequentially: the
// analyzer invocation, baseline resolution and comparison of one file
// complete before the next file begins, because both strategies hit
// rate-limited external collaborators.
type Runner struct {
	Analyzer analyzers.Analyzer
	Kind     schema.Kind
	Root     string
	Ext      string    // source extension filter, e.g. ".java"
	Out      io.Writer // per-file progress; io.Discard in tests
}

// Run processes every enumerated file and returns the summary plus the
// persisted run record. A missing root aborts before any file is
// processed; per-file failures are recorded as errors and never stop the
// run.
func (r *Runner) Run(ctx context.Context) (*schema.Summary, *schema.RunReport, error) {
	files, err := sources.List(r.Root, r.Ext)
	if err != nil {
		return nil, nil, err
	}

	report := &schema.RunReport{
		Root:      r.Root,
		Kind:      r.Kind,
		Timestamp: time.Now(),
	}
	summary := &schema.Summary{}
	start := time.Now()

	for _, src := range files {
		fmt.Fprintf(r.Out, "\n=== Analyzing: %s ===\n", src)
		res := r.processFile(ctx, src)
		summary.Record(res.Path, res.Outcome)
		report.Files = append(report.Files, res)
		if res.Diagnostic != "" {
			fmt.Fprintln(r.Out, res.Diagnostic)
		}
		fmt.Fprintf(r.Out, "Result: %s\n", res.Outcome)
	}

	summary.Elapsed = time.Since(start)
	report.Summary = *summary
	return summary, report, nil
}

// processFile runs the per-file pipeline. Every analyzed file gets a
// fresh actual artifact; the expected artifact is written at most once,
// ever, on the run that first sees the file.
func (r *Runner) processFile(ctx context.Context, src string) schema.FileResult {
	body, aerr := r.Analyzer.Analyze(ctx, src)
	if body == nil && aerr != nil {
		return schema.FileResult{Path: src, Outcome: schema.OutcomeError, Diagnostic: aerr.Error()}
	}

	actualPath, expectedPath := artifacts.Paths(src, r.Kind)
	if err := artifacts.WriteActual(actualPath, body); err != nil {
		return schema.FileResult{Path: src, Outcome: schema.OutcomeError, Diagnostic: err.Error()}
	}
	fmt.Fprintf(r.Out, "Wrote actual result: %s\n", actualPath)

	// A malformed reply still produced an artifact above so the raw text
	// is preserved for inspection, but the file counts as an error.
	if aerr != nil {
		return schema.FileResult{Path: src, Outcome: schema.OutcomeError, Diagnostic: aerr.Error()}
	}

	expected, created, err := artifacts.ResolveBaseline(expectedPath, body)
	if err != nil {
		return schema.FileResult{Path: src, Outcome: schema.OutcomeError, Diagnostic: err.Error()}
	}
	if created {
		return schema.FileResult{
			Path:       src,
			Outcome:    schema.OutcomeCreated,
			Diagnostic: fmt.Sprintf("Expected missing: created from actual output (%s)", expectedPath),
		}
	}

	verdict, err := compare.Compare(r.Kind, body, expected)
	if err != nil {
		return schema.FileResult{Path: src, Outcome: schema.OutcomeError, Diagnostic: err.Error()}
	}
	if !verdict.Equal {
		return schema.FileResult{Path: src, Outcome: schema.OutcomeFailed, Diagnostic: verdict.Diff}
	}
	return schema.FileResult{Path: src, Outcome: schema.OutcomePassed}
}
