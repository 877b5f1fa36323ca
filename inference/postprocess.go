package inference

import (
	"fmt"

	"github.com/chewxy/math32"
	"gorgonia.org/tensor"

	"github.com/nvr-ai/go-seg/images"
)

// ArgmaxLogits reduces [classes, height, width] logits to a label map by
// picking the highest scoring class per pixel.
//
// Arguments:
//   - logits: The raw model output, class-major.
//   - classes: The number of classes.
//   - height: The output height.
//   - width: The output width.
//
// Returns:
//   - images.LabelMap: Class indices in reduced label space.
//   - error: An error if the buffer does not match the shape.
func ArgmaxLogits(logits []float32, classes, height, width int) (images.LabelMap, error) {
	if classes <= 0 || len(logits) != classes*height*width {
		return images.LabelMap{}, fmt.Errorf("logits hold %d values, expected %dx%dx%d", len(logits), classes, height, width)
	}

	t := tensor.New(tensor.WithShape(classes, height, width), tensor.WithBacking(logits))
	idx, err := t.Argmax(0)
	if err != nil {
		return images.LabelMap{}, fmt.Errorf("argmax over classes: %w", err)
	}

	pix, ok := idx.Data().([]int)
	if !ok {
		return images.LabelMap{}, fmt.Errorf("unexpected argmax type %T", idx.Data())
	}

	return images.LabelMap{Width: width, Height: height, Pix: append([]int(nil), pix...)}, nil
}

// Confidence returns the softmax probability of the winning class per pixel,
// row-major.
func Confidence(logits []float32, classes, height, width int) ([]float32, error) {
	if classes <= 0 || len(logits) != classes*height*width {
		return nil, fmt.Errorf("logits hold %d values, expected %dx%dx%d", len(logits), classes, height, width)
	}

	plane := height * width
	out := make([]float32, plane)
	for p := 0; p < plane; p++ {
		best := logits[p]
		for c := 1; c < classes; c++ {
			best = math32.Max(best, logits[c*plane+p])
		}
		var sum float32
		for c := 0; c < classes; c++ {
			sum += math32.Exp(logits[c*plane+p] - best)
		}
		out[p] = 1 / sum
	}
	return out, nil
}

// ConfidenceMap quantizes per-pixel probabilities to 0-255 so the plane can
// be written as an 8-bit image.
func ConfidenceMap(conf []float32, height, width int) (images.LabelMap, error) {
	if len(conf) != height*width {
		return images.LabelMap{}, fmt.Errorf("confidence holds %d values, expected %dx%d", len(conf), height, width)
	}
	m := images.NewLabelMap(width, height)
	for i, p := range conf {
		p = math32.Min(math32.Max(p, 0), 1)
		m.Pix[i] = int(math32.Round(p * 255))
	}
	return m, nil
}
