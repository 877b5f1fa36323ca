package inference

import (
	"fmt"
	"image"

	"github.com/nfnt/resize"
)

// ImageNetMean and ImageNetStd are the per-channel normalization constants,
// in 0-255 scale, used by ADE20K-trained segmentation models.
var (
	ImageNetMean = [3]float32{123.675, 116.28, 103.53}
	ImageNetStd  = [3]float32{58.395, 57.12, 57.375}
)

// PrepareInput resizes img and writes it into dst in planar RGB order
// ([3, height, width]), normalized with mean and std.
//
// Arguments:
//   - img: The image to prepare.
//   - dst: The destination buffer, at least 3*width*height floats.
//   - width: The model input width.
//   - height: The model input height.
//   - mean: Per-channel mean, 0-255 scale.
//   - std: Per-channel standard deviation, 0-255 scale.
//
// Returns:
//   - error: An error if dst is too small.
func PrepareInput(img image.Image, dst []float32, width, height int, mean, std [3]float32) error {
	channelSize := width * height
	if len(dst) < channelSize*3 {
		return fmt.Errorf("destination tensor only holds %d floats, needs %d", len(dst), channelSize*3)
	}
	red := dst[0:channelSize]
	green := dst[channelSize : channelSize*2]
	blue := dst[channelSize*2 : channelSize*3]

	b := img.Bounds()
	if b.Dx() != width || b.Dy() != height {
		img = resize.Resize(uint(width), uint(height), img, resize.Bilinear)
		b = img.Bounds()
	}

	i := 0
	for y := b.Min.Y; y < b.Min.Y+height; y++ {
		for x := b.Min.X; x < b.Min.X+width; x++ {
			r, g, bl, _ := img.At(x, y).RGBA()
			red[i] = (float32(r>>8) - mean[0]) / std[0]
			green[i] = (float32(g>>8) - mean[1]) / std[1]
			blue[i] = (float32(bl>>8) - mean[2]) / std[2]
			i++
		}
	}
	return nil
}
