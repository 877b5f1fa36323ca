package datasets

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nvr-ai/go-seg/datasets/dataset"
	"github.com/nvr-ai/go-seg/datasets/studienprojekt"
)

func TestDefaultRegistry_Build(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "img001.jpg"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "img002.jpg"), []byte("x"), 0o644))

	r := DefaultRegistry()
	assert.Equal(t, []dataset.Name{dataset.NameStudienprojekt}, r.Names())

	ds, err := r.Build(dataset.Config{Name: dataset.NameStudienprojekt, ImgDir: root})
	require.NoError(t, err)
	assert.Equal(t, 2, ds.Len())
	assert.Equal(t, studienprojekt.NumClasses, ds.Classes().Len())
	assert.True(t, ds.Config().ReduceZeroLabel)
}

func TestRegistry_Errors(t *testing.T) {
	r := DefaultRegistry()

	_, err := r.Build(dataset.Config{Name: "ade20k"})
	assert.Error(t, err)

	err = r.Register(dataset.NameStudienprojekt, func(cfg dataset.Config) (Adapter, error) {
		return studienprojekt.NewFromInfos(cfg, nil), nil
	})
	assert.Error(t, err, "duplicate registration")

	assert.ErrorIs(t, r.Register("", nil), dataset.ErrInvalidArgument)
	assert.ErrorIs(t, r.Register("other", nil), dataset.ErrInvalidArgument)
}

func TestRegistry_Isolated(t *testing.T) {
	a := NewRegistry()
	require.NoError(t, a.Register("memory", func(cfg dataset.Config) (Adapter, error) {
		return studienprojekt.NewFromInfos(cfg, []dataset.ImgInfo{{Filename: "x.jpg"}}), nil
	}))

	b := DefaultRegistry()
	assert.NotContains(t, b.Names(), dataset.Name("memory"), "registries do not share state")

	ds, err := a.Build(dataset.Config{Name: "memory"})
	require.NoError(t, err)
	assert.Equal(t, 1, ds.Len())
}
