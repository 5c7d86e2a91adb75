package report

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yorozuya-cybersecurity/secbench/internal/schema"
)

func sampleReport() *schema.RunReport {
	return &schema.RunReport{
		Root:      "tests/java",
		Kind:      schema.KindStructured,
		Timestamp: time.Date(2026, 8, 31, 10, 15, 0, 0, time.UTC),
		Files: []schema.FileResult{
			{Path: "tests/java/A.java", Outcome: schema.OutcomePassed},
			{Path: "tests/java/B.java", Outcome: schema.OutcomeFailed, Diagnostic: "findings mismatch"},
			{Path: "tests/java/C.java", Outcome: schema.OutcomeCreated},
			{Path: "tests/java/D.java", Outcome: schema.OutcomeError, Diagnostic: "tool exploded"},
		},
		Summary: schema.Summary{
			Total: 4, Created: 1, Passed: 1, Failed: 1, Errors: 1,
			FailedFiles: []string{"tests/java/B.java"},
			Elapsed:     1500 * time.Millisecond,
		},
	}
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	out := t.TempDir()
	file, err := Save(sampleReport(), out)
	require.NoError(t, err)
	assert.Equal(t, "results.json", filepath.Base(file))

	loaded, err := Load(filepath.Dir(file))
	require.NoError(t, err)

	want := sampleReport()
	assert.Equal(t, want.Root, loaded.Root)
	assert.Equal(t, want.Kind, loaded.Kind)
	assert.True(t, want.Timestamp.Equal(loaded.Timestamp))
	assert.Equal(t, want.Files, loaded.Files)
	assert.Equal(t, want.Summary, loaded.Summary)
}

func TestGenerateHTML(t *testing.T) {
	out := t.TempDir()
	htmlPath, err := GenerateHTML(sampleReport(), out)
	require.NoError(t, err)

	data, err := os.ReadFile(htmlPath)
	require.NoError(t, err)
	html := string(data)

	assert.Contains(t, html, "tests/java/B.java")
	assert.Contains(t, html, "FAIL")
	assert.Contains(t, html, "Errors: 1")
	assert.Contains(t, html, "tool exploded")
	assert.Contains(t, html, "1.5s")
}

func TestTrimToKeepsValidUTF8(t *testing.T) {
	long := strings.Repeat("é", 600)
	got := trimTo(long, 500)
	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, strings.Repeat("é", 500)+"…", got)

	assert.Equal(t, "short", trimTo("  short  ", 500))
}

func TestLoadMissingRecord(t *testing.T) {
	_, err := Load(t.TempDir())
	assert.Error(t, err)
}

func TestWriteSummaryGolden(t *testing.T) {
	var buf bytes.Buffer
	s := sampleReport().Summary
	WriteSummary(&buf, &s)

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "summary", buf.Bytes())
}
