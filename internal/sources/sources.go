// Package sources enumerates candidate input files for a harness run.
package sources

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// ErrRootNotFound is returned when the scan root does not exist. The run
// must abort before any file is processed.
var ErrRootNotFound = errors.New("scan root not found")

// List walks root recursively and returns every file whose name ends in
// ext (case-insensitive), in lexicographic walk order. Sidecar artifacts
// from previous runs are skipped. The result is a pure function of the
// tree, so repeated runs enumerate identically.
func List(root, ext string) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrRootNotFound, root)
		}
		return nil, fmt.Errorf("stat scan root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", ErrRootNotFound, root)
	}

	var files []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		name := d.Name()
		if IsSidecar(name) {
			return nil
		}
		if strings.HasSuffix(strings.ToLower(name), strings.ToLower(ext)) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}
	return files, nil
}

// IsSidecar reports whether a file name is a harness artifact rather than
// a scan candidate.
func IsSidecar(name string) bool {
	base := strings.TrimSuffix(name, filepath.Ext(name))
	return strings.HasSuffix(base, "-actual") || strings.HasSuffix(base, "-expected")
}
