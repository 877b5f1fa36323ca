package images

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestColorize(t *testing.T) {
	palette := []RGB{{255, 0, 0}, {0, 255, 0}}
	m, err := LabelMapFromRows([][]int{{0, 1, 255}})
	require.NoError(t, err)

	img := Colorize(m, palette)
	assert.Equal(t, color.RGBA{R: 255, A: 255}, img.RGBAAt(0, 0))
	assert.Equal(t, color.RGBA{G: 255, A: 255}, img.RGBAAt(1, 0))
	assert.Equal(t, color.RGBA{A: 255}, img.RGBAAt(2, 0), "ignore label renders black")
}

func TestOverlay(t *testing.T) {
	base := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for i := range base.Pix {
		base.Pix[i] = 0xff
	}
	m, err := LabelMapFromRows([][]int{{0, 0}, {0, 0}})
	require.NoError(t, err)

	out := Overlay(base, m, []RGB{{0, 0, 0}}, 1.0)
	assert.Equal(t, base.Bounds(), out.Bounds(), "prediction is resized to the base image")
	assert.Equal(t, color.NRGBA{A: 255}, out.NRGBAAt(3, 3))

	half := Overlay(base, m, []RGB{{0, 0, 0}}, 0.5)
	px := half.NRGBAAt(0, 0)
	assert.InDelta(t, 128, int(px.R), 2)
}
