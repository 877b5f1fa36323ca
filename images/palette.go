package images

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"
)

// RGB is a palette entry.
type RGB struct {
	R uint8 `json:"r" yaml:"r"`
	G uint8 `json:"g" yaml:"g"`
	B uint8 `json:"b" yaml:"b"`
}

// Color converts the entry to an opaque color.RGBA.
func (c RGB) Color() color.RGBA {
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: 0xff}
}

// Colorize paints every pixel with its class color.
//
// Indices outside the palette, such as the 255 ignore label, are painted black.
func Colorize(m LabelMap, palette []RGB) *image.RGBA {
	img := image.NewRGBA(m.Bounds())
	black := color.RGBA{A: 0xff}
	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			c := black
			if v := m.Pix[y*m.Width+x]; v >= 0 && v < len(palette) {
				c = palette[v].Color()
			}
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

// Overlay blends the colorized map on top of base.
//
// Arguments:
//   - base: The input image the prediction was computed for.
//   - m: The label map, resized to base when the sizes differ.
//   - palette: The class colors.
//   - opacity: The weight of the segmentation layer, in [0, 1].
//
// Returns:
//   - *image.NRGBA: The blended visualization.
func Overlay(base image.Image, m LabelMap, palette []RGB, opacity float64) *image.NRGBA {
	b := base.Bounds()
	if m.Width != b.Dx() || m.Height != b.Dy() {
		m = ResizeNearest(m, b.Dx(), b.Dy())
	}
	bg := imaging.Clone(base)
	return imaging.Overlay(bg, Colorize(m, palette), image.Pt(0, 0), opacity)
}
