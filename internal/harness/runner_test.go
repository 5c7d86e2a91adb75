package harness

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yorozuya-cybersecurity/secbench/internal/artifacts"
	"github.com/yorozuya-cybersecurity/secbench/internal/schema"
	"github.com/yorozuya-cybersecurity/secbench/internal/sources"
)

// analyzerFunc adapts a function to the analyzer interface.
type analyzerFunc func(ctx context.Context, path string) ([]byte, error)

func (f analyzerFunc) Analyze(ctx context.Context, path string) ([]byte, error) {
	return f(ctx, path)
}

// deterministic always reports one finding at line 1 of the given file.
func deterministic() analyzerFunc {
	return func(_ context.Context, path string) ([]byte, error) {
		base := filepath.Base(path)
		body := fmt.Sprintf(`{"file":%q,"issues":[{"type":"XSS","file":%q,"line":1}]}`, base, base)
		return []byte(body), nil
	}
}

func newTree(t *testing.T, names ...string) string {
	t.Helper()
	root := t.TempDir()
	for _, name := range names {
		path := filepath.Join(root, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte("class T {}\n"), 0644))
	}
	return root
}

func newRunner(root string, a analyzerFunc) *Runner {
	return &Runner{
		Analyzer: a,
		Kind:     schema.KindStructured,
		Root:     root,
		Ext:      ".java",
		Out:      io.Discard,
	}
}

func TestRunBootstrapsThenCompares(t *testing.T) {
	root := newTree(t, "A.java", "sub/B.java")
	r := newRunner(root, deterministic())

	// First run: no baselines exist, everything is created.
	first, _, err := r.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, first.Total)
	assert.Equal(t, 2, first.Created)
	assert.Zero(t, first.Failed)
	assert.Equal(t, 0, first.ExitCode(true), "a fully bootstrapped run exits zero")

	// Second run with a deterministic analyzer: everything passes,
	// nothing is ever created again.
	second, _, err := r.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, second.Passed)
	assert.Zero(t, second.Created)
	assert.Zero(t, second.Failed)
}

func TestRunDetectsRegression(t *testing.T) {
	root := newTree(t, "A.java")
	r := newRunner(root, deterministic())

	_, _, err := r.Run(context.Background())
	require.NoError(t, err)

	// The analyzer changes its mind: line 2 instead of line 1.
	r.Analyzer = analyzerFunc(func(_ context.Context, path string) ([]byte, error) {
		base := filepath.Base(path)
		return []byte(fmt.Sprintf(`{"file":%q,"issues":[{"type":"XSS","file":%q,"line":2}]}`, base, base)), nil
	})

	summary, rep, err := r.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Failed)
	assert.Equal(t, []string{filepath.Join(root, "A.java")}, summary.FailedFiles)
	assert.Equal(t, 1, summary.ExitCode(false))

	require.Len(t, rep.Files, 1)
	assert.Equal(t, schema.OutcomeFailed, rep.Files[0].Outcome)
	assert.NotEmpty(t, rep.Files[0].Diagnostic, "a failed comparison retains the diff")
}

func TestRunWritesActualEveryRunButExpectedOnce(t *testing.T) {
	root := newTree(t, "A.java")
	src := filepath.Join(root, "A.java")
	r := newRunner(root, deterministic())

	_, _, err := r.Run(context.Background())
	require.NoError(t, err)

	actualPath, expectedPath := artifacts.Paths(src, schema.KindStructured)
	firstExpected, err := os.ReadFile(expectedPath)
	require.NoError(t, err)

	r.Analyzer = analyzerFunc(func(_ context.Context, _ string) ([]byte, error) {
		return []byte(`{"file":"A.java","issues":[]}`), nil
	})
	_, _, err = r.Run(context.Background())
	require.NoError(t, err)

	actual, err := os.ReadFile(actualPath)
	require.NoError(t, err)
	assert.Equal(t, `{"file":"A.java","issues":[]}`, string(actual), "actual reflects the latest run")

	expectedNow, err := os.ReadFile(expectedPath)
	require.NoError(t, err)
	assert.Equal(t, firstExpected, expectedNow, "expected baseline is never silently rewritten")
}

func TestRunIsolatesPerFileFailures(t *testing.T) {
	root := newTree(t, "Bad.java", "Good.java")
	r := newRunner(root, analyzerFunc(func(ctx context.Context, path string) ([]byte, error) {
		if filepath.Base(path) == "Bad.java" {
			return nil, fmt.Errorf("tool exploded")
		}
		return deterministic()(ctx, path)
	}))

	summary, rep, err := r.Run(context.Background())
	require.NoError(t, err, "per-file failures never abort the run")
	assert.Equal(t, 1, summary.Errors)
	assert.Equal(t, 1, summary.Created)
	assert.Zero(t, summary.Failed)

	// Errors are counted apart from failures; only policy flips the exit code.
	assert.Equal(t, 0, summary.ExitCode(false))
	assert.Equal(t, 1, summary.ExitCode(true))

	byName := map[string]schema.Outcome{}
	for _, f := range rep.Files {
		byName[filepath.Base(f.Path)] = f.Outcome
	}
	assert.Equal(t, schema.OutcomeError, byName["Bad.java"])
	assert.Equal(t, schema.OutcomeCreated, byName["Good.java"])
}

func TestRunMalformedResponseStillWritesActual(t *testing.T) {
	root := newTree(t, "A.java")
	src := filepath.Join(root, "A.java")
	raw := `{"file":"A.java","issues":[],"raw":"no json today"}`
	r := newRunner(root, analyzerFunc(func(_ context.Context, _ string) ([]byte, error) {
		return []byte(raw), fmt.Errorf("reply not parseable")
	}))

	summary, _, err := r.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Errors)

	actualPath, expectedPath := artifacts.Paths(src, schema.KindStructured)
	data, err := os.ReadFile(actualPath)
	require.NoError(t, err)
	assert.Equal(t, raw, string(data), "raw reply is preserved for inspection")

	_, err = os.Stat(expectedPath)
	assert.True(t, os.IsNotExist(err), "an errored file must not bootstrap a baseline")
}

func TestRunMissingRootAbortsBeforeProcessing(t *testing.T) {
	called := false
	r := newRunner(filepath.Join(t.TempDir(), "absent"), analyzerFunc(func(_ context.Context, _ string) ([]byte, error) {
		called = true
		return nil, nil
	}))

	_, _, err := r.Run(context.Background())
	assert.ErrorIs(t, err, sources.ErrRootNotFound)
	assert.False(t, called, "no file may be processed after a fatal root error")
}

func TestRunLocationListPipeline(t *testing.T) {
	root := newTree(t, "A.java")
	r := &Runner{
		Analyzer: analyzerFunc(func(_ context.Context, _ string) ([]byte, error) {
			return schema.LocationList{"A.java:10", "A.java:20"}.Marshal(), nil
		}),
		Kind: schema.KindLocations,
		Root: root,
		Ext:  ".java",
		Out:  io.Discard,
	}

	_, _, err := r.Run(context.Background())
	require.NoError(t, err)

	// Later runs only compare the first line.
	r.Analyzer = analyzerFunc(func(_ context.Context, _ string) ([]byte, error) {
		return schema.LocationList{"A.java:10", "Other.java:99"}.Marshal(), nil
	})
	summary, _, err := r.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Passed)
}
