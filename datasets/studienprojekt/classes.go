package studienprojekt

import (
	"github.com/nvr-ai/go-seg/datasets/dataset"
	"github.com/nvr-ai/go-seg/images"
)

// NumClasses is the number of trained classes, background excluded.
const NumClasses = 21

// classNames is the label order used in training. Index 0 here is label id 1
// on disk; label id 0 is the ignored background.
var classNames = [NumClasses]string{
	"environment",
	"wall_indoor",
	"window",
	"door",
	"ceiling",
	"floor",
	"building",
	"stairs",
	"roof",
	"balcony",
	"chimney",
	"column",
	"sink",
	"toilet",
	"bathtub",
	"shower",
	"outlet",
	"vents",
	"fire_extinguisher",
	"radiator",
	"railing",
}

var palette = [NumClasses]images.RGB{
	{R: 128, G: 128, B: 128},
	{R: 200, G: 200, B: 200},
	{R: 255, G: 0, B: 0},
	{R: 127, G: 0, B: 0},
	{R: 0, G: 255, B: 0},
	{R: 0, G: 0, B: 255},
	{R: 0, G: 128, B: 0},
	{R: 47, G: 79, B: 79},
	{R: 0, G: 0, B: 128},
	{R: 85, G: 107, B: 47},
	{R: 72, G: 61, B: 139},
	{R: 188, G: 143, B: 143},
	{R: 154, G: 205, B: 50},
	{R: 139, G: 0, B: 139},
	{R: 255, G: 165, B: 0},
	{R: 255, G: 255, B: 0},
	{R: 64, G: 224, B: 208},
	{R: 0, G: 250, B: 154},
	{R: 138, G: 43, B: 226},
	{R: 255, G: 127, B: 80},
	{R: 255, G: 0, B: 255},
}

// Classes returns a fresh copy of the 21-class Studienprojekt label set,
// derived from ADE20K.
func Classes() *dataset.ClassSet {
	p := palette
	return dataset.NewClassSet(string(dataset.NameStudienprojekt), classNames[:], p[:])
}
