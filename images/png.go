package images

import (
	"image"
	"image/color"
	"io"

	"github.com/disintegration/imaging"
	"github.com/pkg/errors"
)

// EncodeLabelPNG writes the map as a single-channel 8-bit PNG.
func EncodeLabelPNG(w io.Writer, m LabelMap) error {
	if err := m.Validate(); err != nil {
		return err
	}
	return imaging.Encode(w, ToGray(m), imaging.PNG)
}

// WriteLabelPNG writes the map to path as a single-channel 8-bit PNG,
// replacing any existing file.
//
// Arguments:
//   - path: The destination file, with a ".png" extension.
//   - m: The label map, cast to 8 bits with truncation.
//
// Returns:
//   - error: The validation, filesystem or encoder error, if any.
func WriteLabelPNG(path string, m LabelMap) error {
	if err := m.Validate(); err != nil {
		return err
	}
	if err := imaging.Save(ToGray(m), path); err != nil {
		return errors.Wrapf(err, "write %s", path)
	}
	return nil
}

// labelMapFromImage extracts class indices from a decoded label image.
//
// Paletted images yield their palette indices; anything else is reduced to
// its gray value.
func labelMapFromImage(img image.Image) LabelMap {
	switch src := img.(type) {
	case *image.Gray:
		return FromGray(src)
	case *image.Paletted:
		b := src.Bounds()
		m := NewLabelMap(b.Dx(), b.Dy())
		for y := 0; y < m.Height; y++ {
			for x := 0; x < m.Width; x++ {
				m.Pix[y*m.Width+x] = int(src.ColorIndexAt(b.Min.X+x, b.Min.Y+y))
			}
		}
		return m
	default:
		b := src.Bounds()
		m := NewLabelMap(b.Dx(), b.Dy())
		for y := 0; y < m.Height; y++ {
			for x := 0; x < m.Width; x++ {
				g := color.GrayModel.Convert(src.At(b.Min.X+x, b.Min.Y+y)).(color.Gray)
				m.Pix[y*m.Width+x] = int(g.Y)
			}
		}
		return m
	}
}

// DecodeLabelPNG decodes a label image.
func DecodeLabelPNG(r io.Reader) (LabelMap, error) {
	img, err := imaging.Decode(r)
	if err != nil {
		return LabelMap{}, errors.Wrap(err, "decode label png")
	}
	return labelMapFromImage(img), nil
}

// ReadLabelPNG reads a label image from disk.
func ReadLabelPNG(path string) (LabelMap, error) {
	img, err := imaging.Open(path)
	if err != nil {
		return LabelMap{}, errors.Wrapf(err, "read %s", path)
	}
	return labelMapFromImage(img), nil
}
