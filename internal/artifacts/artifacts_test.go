package artifacts

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yorozuya-cybersecurity/secbench/internal/schema"
)

func TestPathsAreStable(t *testing.T) {
	src := filepath.Join("tests", "java", "BenchmarkTest00001.java")

	actual, expected := Paths(src, schema.KindStructured)
	assert.Equal(t, filepath.Join("tests", "java", "BenchmarkTest00001-actual.json"), actual)
	assert.Equal(t, filepath.Join("tests", "java", "BenchmarkTest00001-expected.json"), expected)

	actual2, expected2 := Paths(src, schema.KindStructured)
	assert.Equal(t, actual, actual2)
	assert.Equal(t, expected, expected2)

	actualTxt, expectedTxt := Paths(src, schema.KindLocations)
	assert.Equal(t, filepath.Join("tests", "java", "BenchmarkTest00001-actual.txt"), actualTxt)
	assert.Equal(t, filepath.Join("tests", "java", "BenchmarkTest00001-expected.txt"), expectedTxt)
}

func TestWriteActualOverwritesPreviousRun(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Foo-actual.txt")
	require.NoError(t, WriteActual(path, []byte("old")))
	require.NoError(t, WriteActual(path, []byte("new")))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "new", string(data))
}

func TestResolveBaselineBootstrapsVerbatim(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Foo-expected.txt")
	body := []byte("Foo.java:10\nBar.java:20")

	expected, created, err := ResolveBaseline(path, body)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, body, expected)

	onDisk, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, body, onDisk, "bootstrap must write the actual content verbatim")
}

func TestResolveBaselineNeverOverwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Foo-expected.txt")
	require.NoError(t, os.WriteFile(path, []byte("original"), 0644))

	expected, created, err := ResolveBaseline(path, []byte("different"))
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, []byte("original"), expected)

	onDisk, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "original", string(onDisk))
}
