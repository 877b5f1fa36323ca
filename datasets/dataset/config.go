package dataset

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// DefaultIgnoreIndex is the label value excluded from evaluation.
const DefaultIgnoreIndex = 255

// Config is the construction config of a dataset adapter.
type Config struct {
	// Name selects the adapter in the registry.
	Name Name `json:"name" yaml:"name"`
	// DataRoot is prepended to relative ImgDir, AnnDir and Split paths.
	DataRoot string `json:"data_root" yaml:"data_root"`
	// ImgDir is the image directory.
	ImgDir string `json:"img_dir" yaml:"img_dir"`
	// AnnDir is the annotation directory, empty for unlabeled data.
	AnnDir string `json:"ann_dir" yaml:"ann_dir"`
	// Split is an optional file listing one image basename per line.
	Split string `json:"split" yaml:"split"`
	// ImgSuffix is the image filename suffix, e.g. ".jpg".
	ImgSuffix string `json:"img_suffix" yaml:"img_suffix"`
	// SegMapSuffix is the annotation filename suffix, e.g. ".png".
	SegMapSuffix string `json:"seg_map_suffix" yaml:"seg_map_suffix"`
	// ReduceZeroLabel marks label 0 as ignored and shifts the rest down by one.
	ReduceZeroLabel bool `json:"reduce_zero_label" yaml:"reduce_zero_label"`
	// IgnoreIndex is the label value excluded from evaluation.
	IgnoreIndex int `json:"ignore_index" yaml:"ignore_index"`
}

// LoadConfig reads a YAML dataset config and resolves its paths against DataRoot.
//
// Arguments:
//   - path: The YAML file path.
//
// Returns:
//   - Config: The parsed config.
//   - error: An error if the file cannot be read or parsed.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrapf(err, "read dataset config %s", path)
	}

	cfg := Config{IgnoreIndex: DefaultIgnoreIndex}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, errors.Wrapf(err, "parse dataset config %s", path)
	}

	return cfg.Resolve(), nil
}

// Resolve joins relative directories with DataRoot.
func (c Config) Resolve() Config {
	if c.DataRoot == "" {
		return c
	}
	join := func(p string) string {
		if p == "" || filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(c.DataRoot, p)
	}
	c.ImgDir = join(c.ImgDir)
	c.AnnDir = join(c.AnnDir)
	c.Split = join(c.Split)
	return c
}
