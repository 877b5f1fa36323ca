package inference

import (
	"context"
	"image"
	"image/color"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrepareInput(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 2, 1))
	img.SetRGBA(0, 0, color.RGBA{R: 255, A: 255})
	img.SetRGBA(1, 0, color.RGBA{B: 255, A: 255})

	dst := make([]float32, 6)
	require.NoError(t, PrepareInput(img, dst, 2, 1, [3]float32{0, 0, 0}, [3]float32{255, 255, 255}))

	assert.Equal(t, []float32{1, 0}, dst[0:2], "red plane")
	assert.Equal(t, []float32{0, 0}, dst[2:4], "green plane")
	assert.Equal(t, []float32{0, 1}, dst[4:6], "blue plane")
}

func TestPrepareInput_Resizes(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	dst := make([]float32, 3*4*4)
	require.NoError(t, PrepareInput(img, dst, 4, 4, ImageNetMean, ImageNetStd))
	assert.InDelta(t, -ImageNetMean[0]/ImageNetStd[0], dst[0], 1e-4)

	assert.Error(t, PrepareInput(img, make([]float32, 10), 4, 4, ImageNetMean, ImageNetStd))
}

func TestPredictorConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		config PredictorConfig
		valid  bool
	}{
		{"valid", PredictorConfig{ModelPath: "m.onnx", Width: 512, Height: 512, NumClasses: 21}, true},
		{"missing model", PredictorConfig{Width: 512, Height: 512, NumClasses: 21}, false},
		{"zero size", PredictorConfig{ModelPath: "m.onnx", NumClasses: 21}, false},
		{"zero classes", PredictorConfig{ModelPath: "m.onnx", Width: 512, Height: 512}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.withDefaults().Validate()
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}

	cfg := PredictorConfig{Width: 512, Height: 256}.withDefaults()
	assert.Equal(t, 512, cfg.OutputWidth)
	assert.Equal(t, 256, cfg.OutputHeight)
	assert.Equal(t, ImageNetStd, cfg.Std)
}

// TestPredictor runs a real model when one is provided through the environment.
func TestPredictor(t *testing.T) {
	modelPath := os.Getenv("SEG_TEST_MODEL")
	if modelPath == "" {
		t.Skip("SEG_TEST_MODEL not set")
	}
	if err := InitializeRuntime(); err != nil {
		t.Skipf("onnxruntime unavailable: %v", err)
	}

	p, err := NewPredictor(PredictorConfig{
		ModelPath:  modelPath,
		Width:      512,
		Height:     512,
		NumClasses: 21,
	})
	require.NoError(t, err)
	defer p.Close()

	img := image.NewRGBA(image.Rect(0, 0, 640, 480))
	seg, err := p.Predict(context.Background(), img)
	require.NoError(t, err)
	assert.Equal(t, 640, seg.Labels.Width)
	assert.Equal(t, 480, seg.Labels.Height)
	assert.Equal(t, seg.Labels.Bounds(), seg.Confidence.Bounds())
	for _, v := range seg.Labels.Pix {
		assert.True(t, v >= 0 && v < 21)
	}
	for _, v := range seg.Confidence.Pix {
		assert.True(t, v >= 0 && v <= 255)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = p.Predict(ctx, img)
	assert.ErrorIs(t, err, context.Canceled)
}
