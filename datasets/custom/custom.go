// Package custom - Base dataset that indexes an image directory and its
// segmentation annotations.
package custom

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"github.com/nvr-ai/go-seg/datasets/dataset"
	"github.com/nvr-ai/go-seg/images"
	"github.com/nvr-ai/go-seg/util"
)

// Dataset is an indexed list of image entries.
//
// Entries are fixed at construction and never mutated, so a Dataset is safe
// for concurrent readers.
type Dataset struct {
	config dataset.Config
	infos  []dataset.ImgInfo
}

// New indexes the dataset described by cfg.
//
// When cfg.Split is set, it lists one basename per line and cfg.ImgSuffix is
// appended to each. Otherwise cfg.ImgDir is scanned recursively for files
// ending in cfg.ImgSuffix.
//
// Arguments:
//   - cfg: The dataset config, with paths already resolved.
//
// Returns:
//   - *Dataset: The indexed dataset.
//   - error: An error if the split file or image directory cannot be read.
func New(cfg dataset.Config) (*Dataset, error) {
	var names []string
	if cfg.Split != "" {
		lines, err := util.ReadSplitFile(cfg.Split)
		if err != nil {
			return nil, errors.Wrapf(err, "read split %s", cfg.Split)
		}
		for _, line := range lines {
			names = append(names, line+cfg.ImgSuffix)
		}
	} else {
		files, err := util.ListImageFiles(cfg.ImgDir, cfg.ImgSuffix)
		if err != nil {
			return nil, errors.Wrapf(err, "scan image dir %s", cfg.ImgDir)
		}
		names = files
	}

	infos := make([]dataset.ImgInfo, len(names))
	for i, name := range names {
		infos[i] = dataset.ImgInfo{Filename: name}
		if cfg.AnnDir != "" {
			infos[i].Ann = &dataset.AnnInfo{
				SegMap: strings.TrimSuffix(name, cfg.ImgSuffix) + cfg.SegMapSuffix,
			}
		}
	}

	return NewFromInfos(cfg, infos), nil
}

// NewFromInfos builds a dataset from already known entries.
func NewFromInfos(cfg dataset.Config, infos []dataset.ImgInfo) *Dataset {
	return &Dataset{
		config: cfg,
		infos:  append([]dataset.ImgInfo(nil), infos...),
	}
}

// Config returns the construction config.
func (d *Dataset) Config() dataset.Config {
	return d.config
}

// Len returns the number of entries.
func (d *Dataset) Len() int {
	return len(d.infos)
}

// ImgInfo returns the entry at idx.
func (d *Dataset) ImgInfo(idx int) (dataset.ImgInfo, error) {
	if idx < 0 || idx >= len(d.infos) {
		return dataset.ImgInfo{}, fmt.Errorf("%w: %d not in [0, %d)", dataset.ErrIndexOutOfRange, idx, len(d.infos))
	}
	return d.infos[idx], nil
}

// ImagePath returns the on-disk path of the image at idx.
func (d *Dataset) ImagePath(idx int) (string, error) {
	info, err := d.ImgInfo(idx)
	if err != nil {
		return "", err
	}
	return filepath.Join(d.config.ImgDir, filepath.FromSlash(info.Filename)), nil
}

// GetGTSegMap loads the ground-truth segmentation map of the entry at idx.
//
// With ReduceZeroLabel, label 0 becomes the ignore index and every other
// label is shifted down by one; the ignore index itself is preserved.
func (d *Dataset) GetGTSegMap(idx int) (images.LabelMap, error) {
	info, err := d.ImgInfo(idx)
	if err != nil {
		return images.LabelMap{}, err
	}
	if info.Ann == nil {
		return images.LabelMap{}, fmt.Errorf("entry %d (%s) has no annotation", idx, info.Filename)
	}

	m, err := images.ReadLabelPNG(filepath.Join(d.config.AnnDir, filepath.FromSlash(info.Ann.SegMap)))
	if err != nil {
		return images.LabelMap{}, err
	}
	if d.config.ReduceZeroLabel {
		m = ReduceZeroLabel(m, d.config.IgnoreIndex)
	}
	return m, nil
}

// ReduceZeroLabel maps label 0 to ignore and shifts other labels down by one.
func ReduceZeroLabel(m images.LabelMap, ignore int) images.LabelMap {
	out := images.NewLabelMap(m.Width, m.Height)
	for i, v := range m.Pix {
		switch v {
		case 0, ignore:
			out.Pix[i] = ignore
		default:
			out.Pix[i] = v - 1
		}
	}
	return out
}
