package analyzers

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
)

// DefaultResultFile is the document the review tool leaves in its result
// directory.
const DefaultResultFile = "security-review.sarif"

// ReviewToolOptions configures the location-list analyzer.
type ReviewToolOptions struct {
	Path       string // tool executable
	Token      string // passed as the first argument
	PromptPath string // absolute path of the review prompt
	ResultFile string // defaults to DefaultResultFile
	ExtraArgs  []string
}

// ReviewTool spawns one external review process per file and flattens the
// SARIF document it produces into basename:line entries.
type ReviewTool struct {
	opts ReviewToolOptions
}

// NewReviewTool builds the location-list analyzer.
func NewReviewTool(opts ReviewToolOptions) *ReviewTool {
	if opts.ResultFile == "" {
		opts.ResultFile = DefaultResultFile
	}
	return &ReviewTool{opts: opts}
}

// Analyze runs the tool against one file. The tool writes its SARIF
// result into a scratch directory which is removed on every exit path;
// tool stdout is discarded, stderr is kept for diagnostics.
func (a *ReviewTool) Analyze(ctx context.Context, path string) ([]byte, error) {
	src, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve source path: %w", err)
	}

	resultDir, err := os.MkdirTemp("", "secbench_")
	if err != nil {
		return nil, fmt.Errorf("create result dir: %w", err)
	}
	defer os.RemoveAll(resultDir)

	args := []string{
		a.opts.Token,
		"--repo=" + src,
		"--customPrompt=" + a.opts.PromptPath,
		"--result=" + resultDir,
		"--shouldProduceSarif=true",
	}
	args = append(args, a.opts.ExtraArgs...)

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, a.opts.Path, args...)
	cmd.Stdout = io.Discard
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return nil, &ProcessError{
				Tool:     filepath.Base(a.opts.Path),
				ExitCode: exitErr.ExitCode(),
				Stderr:   stderr.String(),
			}
		}
		return nil, fmt.Errorf("start review tool %s: %w", a.opts.Path, err)
	}

	data, err := os.ReadFile(filepath.Join(resultDir, a.opts.ResultFile))
	if err != nil {
		return nil, fmt.Errorf("%w: result document %s not found", ErrMalformedToolOutput, a.opts.ResultFile)
	}

	locations, err := ExtractLocations(data)
	if err != nil {
		return nil, err
	}
	return locations.Marshal(), nil
}
