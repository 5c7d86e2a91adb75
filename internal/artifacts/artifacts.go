// Package artifacts manages the sidecar files a harness run reads and
// writes next to each source file: the per-run actual result and the
// persistent expected baseline.
package artifacts

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/yorozuya-cybersecurity/secbench/internal/schema"
)

// Paths derives the actual and expected sidecar paths for a source file.
// Pure: the same source and kind always map to the same pair, so re-runs
// locate the artifacts of earlier runs.
//
//	tests/java/Foo.java -> tests/java/Foo-actual.json, tests/java/Foo-expected.json
func Paths(src string, kind schema.Kind) (actual, expected string) {
	dir := filepath.Dir(src)
	base := strings.TrimSuffix(filepath.Base(src), filepath.Ext(src))
	actual = filepath.Join(dir, fmt.Sprintf("%s-actual.%s", base, kind.Ext()))
	expected = filepath.Join(dir, fmt.Sprintf("%s-expected.%s", base, kind.Ext()))
	return actual, expected
}

// WriteActual persists this run's result body, overwriting any previous
// run's actual artifact.
func WriteActual(path string, body []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create artifact dir: %w", err)
	}
	if err := os.WriteFile(path, body, 0644); err != nil {
		return fmt.Errorf("write actual artifact: %w", err)
	}
	return nil
}

// ResolveBaseline returns the expected artifact for comparison. When no
// baseline exists yet it is bootstrapped from the actual body verbatim and
// created is true; the caller reports the file as created and skips
// comparison. An existing baseline is only ever read, never rewritten.
func ResolveBaseline(expectedPath string, actual []byte) (expected []byte, created bool, err error) {
	data, err := os.ReadFile(expectedPath)
	if err == nil {
		return data, false, nil
	}
	if !os.IsNotExist(err) {
		return nil, false, fmt.Errorf("read expected artifact: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(expectedPath), 0755); err != nil {
		return nil, false, fmt.Errorf("create baseline dir: %w", err)
	}
	if err := os.WriteFile(expectedPath, actual, 0644); err != nil {
		return nil, false, fmt.Errorf("bootstrap expected artifact: %w", err)
	}
	return actual, true, nil
}
