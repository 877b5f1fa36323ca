package util

import (
	"bufio"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ListImageFiles walks dir recursively and returns every file ending in suffix.
//
// Arguments:
// - dir: Directory path containing image files.
// - suffix: Filename suffix to match, e.g. ".jpg".
//
// Returns:
// - []string: Paths relative to dir, sorted lexicographically.
// - error: Error if walking fails.
func ListImageFiles(dir, suffix string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), suffix) {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		files = append(files, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(files)

	return files, nil
}

// ReadSplitFile reads one entry per line, skipping blank lines.
//
// Arguments:
// - path: The split file.
//
// Returns:
// - []string: The trimmed entries in file order.
// - error: Error if reading fails.
func ReadSplitFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var names []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		names = append(names, line)
	}
	return names, scanner.Err()
}

// StripExt returns the base name of path without its final extension.
func StripExt(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
