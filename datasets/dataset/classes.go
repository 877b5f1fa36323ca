package dataset

import (
	"fmt"

	"github.com/nvr-ai/go-seg/images"
)

// Class represents one segmentation label.
type Class struct {
	// The integer index predicted by the model, in reduced label space.
	Index int
	// The human-readable label.
	Name string
}

// ClassSet ties a dataset to its ordered labels and visualization palette.
type ClassSet struct {
	// Dataset identifier.
	Dataset string
	// Classes in training label order.
	Classes []Class
	// Palette holds one color per class, in the same order.
	Palette []images.RGB
	// nameToIdx for fast lookup by name
	nameToIdx map[string]int
}

// NewClassSet builds a class set from parallel name and color tables.
func NewClassSet(dataset string, names []string, palette []images.RGB) *ClassSet {
	classes := make([]Class, len(names))
	for i, name := range names {
		classes[i] = Class{Index: i, Name: name}
	}
	s := &ClassSet{Dataset: dataset, Classes: classes, Palette: palette}
	s.BuildNameIndexMap()
	return s
}

// BuildNameIndexMap builds or rebuilds the name->index map.
func (s *ClassSet) BuildNameIndexMap() {
	s.nameToIdx = make(map[string]int, len(s.Classes))
	for _, c := range s.Classes {
		s.nameToIdx[c.Name] = c.Index
	}
}

// Validate checks that names and colors line up one to one.
func (s *ClassSet) Validate() error {
	if len(s.Classes) != len(s.Palette) {
		return fmt.Errorf("dataset %q has %d classes but %d palette colors", s.Dataset, len(s.Classes), len(s.Palette))
	}
	for i, c := range s.Classes {
		if c.Index != i {
			return fmt.Errorf("dataset %q class %q has index %d at position %d", s.Dataset, c.Name, c.Index, i)
		}
	}
	return nil
}

// Len returns the number of classes.
func (s *ClassSet) Len() int {
	return len(s.Classes)
}

// Names returns the class names in label order.
func (s *ClassSet) Names() []string {
	names := make([]string, len(s.Classes))
	for i, c := range s.Classes {
		names[i] = c.Name
	}
	return names
}

// Name returns the class name for a given index.
func (s *ClassSet) Name(idx int) (string, error) {
	if idx < 0 || idx >= len(s.Classes) {
		return "", fmt.Errorf("index %d out of range for dataset %q", idx, s.Dataset)
	}
	return s.Classes[idx].Name, nil
}

// Index returns the class index for a given name.
func (s *ClassSet) Index(name string) (int, error) {
	if s.nameToIdx == nil {
		s.BuildNameIndexMap()
	}
	idx, ok := s.nameToIdx[name]
	if !ok {
		return -1, fmt.Errorf("name %q not found in dataset %q", name, s.Dataset)
	}
	return idx, nil
}

// Color returns the palette color for a given index.
func (s *ClassSet) Color(idx int) (images.RGB, error) {
	if idx < 0 || idx >= len(s.Palette) {
		return images.RGB{}, fmt.Errorf("index %d out of range for dataset %q", idx, s.Dataset)
	}
	return s.Palette[idx], nil
}
