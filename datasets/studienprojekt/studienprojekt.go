// Package studienprojekt - The Studienprojekt semantic segmentation dataset.
//
// The dataset is derived from ADE20K but uses its own 21 classes. Images are
// ".jpg", segmentation maps are ".png" and label 0 is reserved as background,
// so the dataset always runs with reduce-zero-label enabled: the model
// predicts in [0, 21) and written results are shifted back into [1, 22).
package studienprojekt

import (
	"fmt"
	"image"
	"log"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
	"github.com/pkg/errors"

	"github.com/nvr-ai/go-seg/datasets/custom"
	"github.com/nvr-ai/go-seg/datasets/dataset"
	"github.com/nvr-ai/go-seg/images"
	"github.com/nvr-ai/go-seg/util"
)

const (
	// ImgSuffix is the fixed image filename suffix.
	ImgSuffix = ".jpg"
	// SegMapSuffix is the fixed segmentation map filename suffix.
	SegMapSuffix = ".png"
	// LabelOffset is added to every predicted index before writing, undoing
	// the reduce-zero-label shift.
	LabelOffset = 1
)

// Dataset is the Studienprojekt adapter over a base custom dataset.
type Dataset struct {
	*custom.Dataset
	classes *dataset.ClassSet
}

// fixConfig forces the Studienprojekt file conventions onto cfg.
func fixConfig(cfg dataset.Config) dataset.Config {
	cfg.Name = dataset.NameStudienprojekt
	cfg.ImgSuffix = ImgSuffix
	cfg.SegMapSuffix = SegMapSuffix
	cfg.ReduceZeroLabel = true
	if cfg.IgnoreIndex == 0 {
		cfg.IgnoreIndex = dataset.DefaultIgnoreIndex
	}
	return cfg
}

// New indexes a Studienprojekt dataset.
//
// Suffixes and ReduceZeroLabel in cfg are overridden with the dataset's fixed
// values.
//
// Arguments:
//   - cfg: The dataset config.
//
// Returns:
//   - *Dataset: The dataset adapter.
//   - error: An error if the image index cannot be built.
func New(cfg dataset.Config) (*Dataset, error) {
	cfg = fixConfig(cfg)
	base, err := custom.New(cfg)
	if err != nil {
		return nil, err
	}

	log.Printf("✅ Studienprojekt dataset loaded: %d images from %s", base.Len(), cfg.ImgDir)

	return &Dataset{Dataset: base, classes: Classes()}, nil
}

// NewFromInfos builds an adapter over already known entries.
func NewFromInfos(cfg dataset.Config, infos []dataset.ImgInfo) *Dataset {
	return &Dataset{
		Dataset: custom.NewFromInfos(fixConfig(cfg), infos),
		classes: Classes(),
	}
}

// Classes returns the class names and palette of the dataset.
func (d *Dataset) Classes() *dataset.ClassSet {
	return d.classes
}

// resolveIndices defaults indices to every dataset position and checks that
// results and indices pair up one to one.
func (d *Dataset) resolveIndices(results []images.LabelMap, indices []int) ([]int, error) {
	if results == nil {
		return nil, fmt.Errorf("%w: results must be a list", dataset.ErrInvalidArgument)
	}
	if indices == nil {
		indices = make([]int, d.Len())
		for i := range indices {
			indices[i] = i
		}
	}
	if len(results) != len(indices) {
		return nil, fmt.Errorf("%w: %d results for %d indices", dataset.ErrInvalidArgument, len(results), len(indices))
	}
	for i, result := range results {
		if err := result.Validate(); err != nil {
			return nil, fmt.Errorf("%w: result %d: %w", dataset.ErrInvalidArgument, i, err)
		}
	}
	return indices, nil
}

// OutputLabels returns the label ids written to disk for a prediction.
func (d *Dataset) OutputLabels(result images.LabelMap) images.LabelMap {
	return result.Shift(LabelOffset)
}

// ResultsToImages writes each prediction as a single-channel PNG.
//
// For every (result, index) pair, in order, the prediction is shifted by
// LabelOffset, cast to 8 bits with wrap-around (255 becomes 0) and written to
// <prefix>/<basename>.png, where basename is the dataset filename at index
// without directory or extension. Existing files are overwritten. The first
// filesystem error aborts the loop; files already written are left in place.
//
// Arguments:
//   - results: The predictions, in reduced label space.
//   - prefix: The output directory, created if absent.
//   - toLabelID: Accepted for interface compatibility; it does not change the output.
//   - indices: The dataset position of each result; nil means 0..Len()-1.
//
// Returns:
//   - []string: The written paths, in input order.
//   - error: ErrInvalidArgument (including a result whose Pix does not match
//     its size), ErrIndexOutOfRange or a filesystem error.
func (d *Dataset) ResultsToImages(
	results []images.LabelMap,
	prefix string,
	toLabelID bool,
	indices []int,
) ([]string, error) {
	indices, err := d.resolveIndices(results, indices)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(prefix, 0o755); err != nil {
		return nil, errors.Wrapf(err, "create output dir %s", prefix)
	}

	files := make([]string, 0, len(results))
	for i, result := range results {
		info, err := d.ImgInfo(indices[i])
		if err != nil {
			return files, err
		}

		path := filepath.Join(prefix, util.StripExt(info.Filename)+".png")
		if err := images.WriteLabelPNG(path, d.OutputLabels(result)); err != nil {
			return files, err
		}
		files = append(files, path)
	}

	return files, nil
}

// FormatResults formats predictions into a directory of label images, the
// layout expected by ADE20K-style evaluation tooling.
//
// See ResultsToImages for the arguments.
func (d *Dataset) FormatResults(
	results []images.LabelMap,
	prefix string,
	toLabelID bool,
	indices []int,
) ([]string, error) {
	indices, err := d.resolveIndices(results, indices)
	if err != nil {
		return nil, err
	}
	return d.ResultsToImages(results, prefix, toLabelID, indices)
}

// ShowResult blends the colorized prediction on top of img.
func (d *Dataset) ShowResult(img image.Image, seg images.LabelMap, opacity float64) *image.NRGBA {
	return images.Overlay(img, seg, d.classes.Palette, opacity)
}

// SaveShowResult renders the prediction for the dataset entry at idx over its
// source image and saves it to outPath. The output format follows the
// extension of outPath.
func (d *Dataset) SaveShowResult(idx int, seg images.LabelMap, outPath string, opacity float64) error {
	src, err := d.ImagePath(idx)
	if err != nil {
		return err
	}

	img, err := imaging.Open(src)
	if err != nil {
		return errors.Wrapf(err, "open %s", src)
	}

	if err := imaging.Save(d.ShowResult(img, seg, opacity), outPath); err != nil {
		return errors.Wrapf(err, "save %s", outPath)
	}
	return nil
}
