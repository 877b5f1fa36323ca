// Package images - Label map containers and encoders for segmentation outputs.
package images

import (
	"errors"
	"fmt"
	"image"
)

// ErrInvalidLabelMap is returned when a label map's dimensions and pixel
// buffer disagree.
var ErrInvalidLabelMap = errors.New("invalid label map")

// LabelMap is a row-major 2D grid of class indices, one per pixel.
type LabelMap struct {
	// The width of the map in pixels.
	Width int `json:"width" yaml:"width"`
	// The height of the map in pixels.
	Height int `json:"height" yaml:"height"`
	// Pix holds Width*Height class indices, row by row.
	Pix []int `json:"pix" yaml:"pix"`
}

// NewLabelMap allocates a zero-filled label map.
func NewLabelMap(width, height int) LabelMap {
	return LabelMap{Width: width, Height: height, Pix: make([]int, width*height)}
}

// LabelMapFromRows builds a label map from a slice of equally sized rows.
//
// Arguments:
//   - rows: The rows of the grid, top to bottom.
//
// Returns:
//   - LabelMap: The label map.
//   - error: An error if the rows are ragged.
//
// Example:
//
// ```go
//
//	m, err := LabelMapFromRows([][]int{{0, 1}, {2, 3}})
//
// ```
func LabelMapFromRows(rows [][]int) (LabelMap, error) {
	if len(rows) == 0 {
		return LabelMap{}, nil
	}
	width := len(rows[0])
	m := NewLabelMap(width, len(rows))
	for y, row := range rows {
		if len(row) != width {
			return LabelMap{}, fmt.Errorf("row %d has %d columns, expected %d", y, len(row), width)
		}
		copy(m.Pix[y*width:(y+1)*width], row)
	}
	return m, nil
}

// Rows returns the grid as a slice of rows.
func (m LabelMap) Rows() [][]int {
	rows := make([][]int, m.Height)
	for y := range rows {
		rows[y] = append([]int(nil), m.Pix[y*m.Width:(y+1)*m.Width]...)
	}
	return rows
}

// Validate checks that the dimensions are non-negative and Pix holds exactly
// Width*Height elements.
func (m LabelMap) Validate() error {
	if m.Width < 0 || m.Height < 0 {
		return fmt.Errorf("%w: negative size %dx%d", ErrInvalidLabelMap, m.Width, m.Height)
	}
	if len(m.Pix) != m.Width*m.Height {
		return fmt.Errorf("%w: %d pixels for %dx%d", ErrInvalidLabelMap, len(m.Pix), m.Width, m.Height)
	}
	return nil
}

// At returns the class index at (x, y).
func (m LabelMap) At(x, y int) int {
	return m.Pix[y*m.Width+x]
}

// Set stores a class index at (x, y).
func (m LabelMap) Set(x, y, v int) {
	m.Pix[y*m.Width+x] = v
}

// Bounds returns the image rectangle covered by the map.
func (m LabelMap) Bounds() image.Rectangle {
	return image.Rect(0, 0, m.Width, m.Height)
}

// Shift returns a copy of the map with delta added to every element.
func (m LabelMap) Shift(delta int) LabelMap {
	out := LabelMap{Width: m.Width, Height: m.Height, Pix: make([]int, len(m.Pix))}
	for i, v := range m.Pix {
		out.Pix[i] = v + delta
	}
	return out
}

// ToGray casts every element to 8 bits and returns a grayscale image.
//
// The cast truncates like a C uint8 conversion: 256 becomes 0 and -1 becomes 255.
func ToGray(m LabelMap) *image.Gray {
	img := image.NewGray(m.Bounds())
	for y := 0; y < m.Height; y++ {
		row := img.Pix[y*img.Stride : y*img.Stride+m.Width]
		for x := range row {
			row[x] = uint8(m.Pix[y*m.Width+x])
		}
	}
	return img
}

// FromGray converts a grayscale image into a label map.
func FromGray(img *image.Gray) LabelMap {
	b := img.Bounds()
	m := NewLabelMap(b.Dx(), b.Dy())
	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			m.Pix[y*m.Width+x] = int(img.GrayAt(b.Min.X+x, b.Min.Y+y).Y)
		}
	}
	return m
}

// ResizeNearest rescales a label map with nearest-neighbor sampling.
//
// Class indices are categorical, so no interpolation happens between values.
func ResizeNearest(m LabelMap, width, height int) LabelMap {
	if width == m.Width && height == m.Height {
		return m.Shift(0)
	}
	out := NewLabelMap(width, height)
	if m.Width == 0 || m.Height == 0 {
		return out
	}
	for y := 0; y < height; y++ {
		sy := y * m.Height / height
		for x := 0; x < width; x++ {
			sx := x * m.Width / width
			out.Pix[y*width+x] = m.Pix[sy*m.Width+sx]
		}
	}
	return out
}
