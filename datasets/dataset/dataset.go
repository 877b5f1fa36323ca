// Package dataset - Definitions shared by every segmentation dataset adapter.
package dataset

import (
	"errors"
)

// Name is the unique registry key of a dataset adapter.
type Name string

const (
	// NameStudienprojekt is the 21-class Studienprojekt dataset.
	NameStudienprojekt Name = "studienprojekt"
)

var (
	// ErrInvalidArgument is returned when results or indices are not usable
	// as parallel sequences.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrIndexOutOfRange is returned when a dataset position does not exist.
	ErrIndexOutOfRange = errors.New("dataset index out of range")
)

// AnnInfo describes the annotation attached to an image entry.
type AnnInfo struct {
	// SegMap is the segmentation map filename, relative to the annotation directory.
	SegMap string `json:"seg_map" yaml:"seg_map"`
}

// ImgInfo is the metadata of one dataset entry.
type ImgInfo struct {
	// Filename is the image filename, relative to the image directory.
	Filename string `json:"filename" yaml:"filename"`
	// Ann is the annotation, nil when the dataset has no annotations.
	Ann *AnnInfo `json:"ann,omitempty" yaml:"ann,omitempty"`
}

// Dataset is the read-only view of an indexed dataset.
type Dataset interface {
	// Len returns the number of entries.
	Len() int
	// ImgInfo returns the metadata of the entry at idx.
	ImgInfo(idx int) (ImgInfo, error)
}
