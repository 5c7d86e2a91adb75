// Package analyzers adapts external vulnerability analyzers behind one
// capability interface. Two strategies exist: a remote LLM classifier that
// returns a structured findings payload, and an external review tool whose
// SARIF output is flattened to basename:line entries.
package analyzers

import (
	"context"
	"errors"
	"fmt"
)

// Analyzer produces the serialized artifact body for one source file.
// Implementations are selected once per run and invoked at most once per
// file; transient failures surface as errors, never as silent skips.
type Analyzer interface {
	Analyze(ctx context.Context, path string) ([]byte, error)
}

// ErrMalformedResponse marks a remote reply that could not be decoded as
// the expected findings payload. Per-file, not fatal to the run.
var ErrMalformedResponse = errors.New("response is not a parseable findings payload")

// ErrMalformedToolOutput marks a missing or undecodable tool result
// document. Per-file, not fatal to the run.
var ErrMalformedToolOutput = errors.New("tool output is not a parseable results document")

// ProcessError reports a non-zero exit from the external review tool,
// keeping stderr for diagnostics.
type ProcessError struct {
	Tool     string
	ExitCode int
	Stderr   string
}

func (e *ProcessError) Error() string {
	if e.Stderr == "" {
		return fmt.Sprintf("%s exited with code %d", e.Tool, e.ExitCode)
	}
	return fmt.Sprintf("%s exited with code %d\nstderr:\n%s", e.Tool, e.ExitCode, e.Stderr)
}
