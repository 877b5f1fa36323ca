// Package datasets - Registry of segmentation dataset adapters.
package datasets

import (
	"fmt"
	"image"
	"sort"

	"github.com/nvr-ai/go-seg/datasets/dataset"
	"github.com/nvr-ai/go-seg/datasets/studienprojekt"
	"github.com/nvr-ai/go-seg/images"
)

// Adapter is a dataset that can format model predictions for evaluation.
type Adapter interface {
	dataset.Dataset
	// Config returns the effective construction config.
	Config() dataset.Config
	// Classes returns the class names and palette.
	Classes() *dataset.ClassSet
	// ImagePath returns the on-disk path of the image at idx.
	ImagePath(idx int) (string, error)
	// FormatResults writes predictions as label images under prefix.
	FormatResults(results []images.LabelMap, prefix string, toLabelID bool, indices []int) ([]string, error)
	// OutputLabels returns the label ids written to disk for a prediction.
	OutputLabels(result images.LabelMap) images.LabelMap
	// ShowResult blends a colorized prediction over img.
	ShowResult(img image.Image, seg images.LabelMap, opacity float64) *image.NRGBA
	// SaveShowResult renders the prediction for entry idx to outPath.
	SaveShowResult(idx int, seg images.LabelMap, outPath string, opacity float64) error
}

// Factory constructs an adapter from its config.
type Factory func(cfg dataset.Config) (Adapter, error)

// Registry maps config names to adapter factories.
//
// A Registry is built and passed explicitly; there is no package-level
// instance.
type Registry struct {
	factories map[dataset.Name]Factory
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[dataset.Name]Factory)}
}

// DefaultRegistry returns a new registry holding every adapter in this module.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	// Registering into an empty registry cannot collide.
	_ = r.Register(dataset.NameStudienprojekt, func(cfg dataset.Config) (Adapter, error) {
		ds, err := studienprojekt.New(cfg)
		if err != nil {
			return nil, err
		}
		return ds, nil
	})
	return r
}

// Register adds a factory under name.
//
// Returns:
//   - error: An error if name is empty, factory is nil or name is taken.
func (r *Registry) Register(name dataset.Name, factory Factory) error {
	if name == "" {
		return fmt.Errorf("%w: empty dataset name", dataset.ErrInvalidArgument)
	}
	if factory == nil {
		return fmt.Errorf("%w: nil factory for dataset %q", dataset.ErrInvalidArgument, name)
	}
	if _, ok := r.factories[name]; ok {
		return fmt.Errorf("dataset %q already registered", name)
	}
	r.factories[name] = factory
	return nil
}

// Names returns the registered names, sorted.
func (r *Registry) Names() []dataset.Name {
	names := make([]dataset.Name, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })
	return names
}

// Build creates the adapter selected by cfg.Name.
//
// Example:
//
// ```go
//
//	cfg, err := dataset.LoadConfig("configs/studienprojekt.yaml")
//	if err != nil {
//	    log.Fatalf("Failed to load dataset config: %v", err)
//	}
//
//	ds, err := datasets.DefaultRegistry().Build(cfg)
//	if err != nil {
//	    log.Fatalf("Failed to build dataset: %v", err)
//	}
//
// ```
func (r *Registry) Build(cfg dataset.Config) (Adapter, error) {
	factory, ok := r.factories[cfg.Name]
	if !ok {
		return nil, fmt.Errorf("unsupported dataset name: %q", cfg.Name)
	}
	return factory(cfg)
}
