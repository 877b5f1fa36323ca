package util

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListImageFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "sub"), 0o755))
	for _, name := range []string{"b.jpg", "a.jpg", "notes.txt", "sub/c.jpg", "d.png"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644))
	}

	files, err := ListImageFiles(dir, ".jpg")
	require.NoError(t, err)
	assert.Equal(t, []string{"a.jpg", "b.jpg", "sub/c.jpg"}, files)

	_, err = ListImageFiles(filepath.Join(dir, "missing"), ".jpg")
	assert.Error(t, err)
}

func TestReadSplitFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "val.txt")
	require.NoError(t, os.WriteFile(path, []byte("img002\n\n  img001 \n"), 0o644))

	names, err := ReadSplitFile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"img002", "img001"}, names)
}

func TestStripExt(t *testing.T) {
	tests := map[string]string{
		"img001.jpg":            "img001",
		"a/b/img001.jpg":        "img001",
		"archive.tar.gz":        "archive.tar",
		"noext":                 "noext",
		"dir.with.dots/img.jpg": "img",
	}
	for in, expected := range tests {
		assert.Equal(t, expected, StripExt(in), in)
	}
}
