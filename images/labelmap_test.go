package images

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLabelMapFromRows(t *testing.T) {
	m, err := LabelMapFromRows([][]int{{0, 1}, {2, 3}})
	require.NoError(t, err)

	assert.Equal(t, 2, m.Width)
	assert.Equal(t, 2, m.Height)
	assert.Equal(t, []int{0, 1, 2, 3}, m.Pix)
	assert.Equal(t, 2, m.At(0, 1))
	assert.Equal(t, [][]int{{0, 1}, {2, 3}}, m.Rows())

	_, err = LabelMapFromRows([][]int{{0, 1}, {2}})
	assert.Error(t, err, "ragged rows should be rejected")

	empty, err := LabelMapFromRows(nil)
	require.NoError(t, err)
	assert.Equal(t, 0, empty.Width)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name  string
		m     LabelMap
		valid bool
	}{
		{"zero value", LabelMap{}, true},
		{"allocated", NewLabelMap(3, 2), true},
		{"pixels beyond size", LabelMap{Width: 2, Height: 1, Pix: []int{1, 2, 3}}, false},
		{"pixels short of size", LabelMap{Width: 2, Height: 2, Pix: []int{7}}, false},
		{"negative size", LabelMap{Width: -1, Height: -1, Pix: []int{1}}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.m.Validate()
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrInvalidLabelMap)
			}
		})
	}
}

func TestShift_MalformedDoesNotPanic(t *testing.T) {
	m := LabelMap{Width: 2, Height: 1, Pix: []int{1, 2, 3}}
	assert.NotPanics(t, func() {
		assert.Equal(t, []int{2, 3, 4}, m.Shift(1).Pix)
	})
}

func TestShift_DoesNotMutate(t *testing.T) {
	m, err := LabelMapFromRows([][]int{{0, 1}, {2, 3}})
	require.NoError(t, err)

	shifted := m.Shift(1)
	assert.Equal(t, []int{1, 2, 3, 4}, shifted.Pix)
	assert.Equal(t, []int{0, 1, 2, 3}, m.Pix)
}

func TestToGray_Truncates(t *testing.T) {
	tests := []struct {
		name     string
		in       int
		expected uint8
	}{
		{"zero", 0, 0},
		{"max", 255, 255},
		{"wraps past max", 256, 0},
		{"wraps twice", 513, 1},
		{"negative", -1, 255},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewLabelMap(1, 1)
			m.Set(0, 0, tt.in)
			assert.Equal(t, tt.expected, ToGray(m).GrayAt(0, 0).Y)
		})
	}
}

func TestWriteReadLabelPNG(t *testing.T) {
	m, err := LabelMapFromRows([][]int{{1, 2, 3}, {4, 5, 21}})
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "out.png")
	require.NoError(t, WriteLabelPNG(path, m))

	got, err := ReadLabelPNG(path)
	require.NoError(t, err)
	assert.Equal(t, m, got)
}

func TestWriteLabelPNG_SingleChannel(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, EncodeLabelPNG(&buf, NewLabelMap(4, 3)))

	cfg, err := png.DecodeConfig(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, color.GrayModel, cfg.ColorModel)
	assert.Equal(t, 4, cfg.Width)
	assert.Equal(t, 3, cfg.Height)
}

func TestEncodeLabelPNG_ShiftedBytes(t *testing.T) {
	m, err := LabelMapFromRows([][]int{{0, 1}, {2, 255}})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, EncodeLabelPNG(&buf, m.Shift(1)))

	img, err := png.Decode(&buf)
	require.NoError(t, err)
	gray, ok := img.(*image.Gray)
	require.True(t, ok, "decoded %T, want *image.Gray", img)
	assert.Equal(t, []uint8{1, 2, 3, 0}, gray.Pix)
}

func TestWriteLabelPNG_RejectsMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.png")
	err := WriteLabelPNG(path, LabelMap{Width: 2, Height: 2, Pix: []int{7}})
	assert.ErrorIs(t, err, ErrInvalidLabelMap)

	var buf bytes.Buffer
	assert.ErrorIs(t, EncodeLabelPNG(&buf, LabelMap{Width: 1, Height: 1}), ErrInvalidLabelMap)
}

func TestWriteLabelPNG_MissingDir(t *testing.T) {
	err := WriteLabelPNG(filepath.Join(t.TempDir(), "missing", "out.png"), NewLabelMap(1, 1))
	assert.Error(t, err)
}

func TestDecodeLabelPNG_Paletted(t *testing.T) {
	pal := color.Palette{color.Black, color.White, color.RGBA{R: 255, A: 255}}
	img := image.NewPaletted(image.Rect(0, 0, 2, 1), pal)
	img.SetColorIndex(0, 0, 2)
	img.SetColorIndex(1, 0, 1)

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))

	m, err := DecodeLabelPNG(&buf)
	require.NoError(t, err)
	assert.Equal(t, []int{2, 1}, m.Pix)
}

func TestResizeNearest(t *testing.T) {
	m, err := LabelMapFromRows([][]int{{0, 1}, {2, 3}})
	require.NoError(t, err)

	up := ResizeNearest(m, 4, 4)
	assert.Equal(t, [][]int{
		{0, 0, 1, 1},
		{0, 0, 1, 1},
		{2, 2, 3, 3},
		{2, 2, 3, 3},
	}, up.Rows())

	down := ResizeNearest(up, 2, 2)
	assert.Equal(t, m.Pix, down.Pix)
}
