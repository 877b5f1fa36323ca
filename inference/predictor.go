package inference

import (
	"context"
	"fmt"
	"image"
	"log"
	"sync"

	ort "github.com/yalue/onnxruntime_go"

	"github.com/nvr-ai/go-seg/images"
)

// PredictorConfig describes a segmentation model with fixed input and output shapes.
type PredictorConfig struct {
	// ModelPath is the ONNX model file.
	ModelPath string `json:"model_path" yaml:"model_path"`
	// InputName is the input node name.
	InputName string `json:"input_name" yaml:"input_name"`
	// OutputName is the logits node name.
	OutputName string `json:"output_name" yaml:"output_name"`
	// Width and Height are the model input size.
	Width  int `json:"width" yaml:"width"`
	Height int `json:"height" yaml:"height"`
	// OutputWidth and OutputHeight are the logits size; zero means the input size.
	OutputWidth  int `json:"output_width" yaml:"output_width"`
	OutputHeight int `json:"output_height" yaml:"output_height"`
	// NumClasses is the number of output channels.
	NumClasses int `json:"num_classes" yaml:"num_classes"`
	// Mean and Std normalize the input, 0-255 scale.
	Mean [3]float32 `json:"mean" yaml:"mean"`
	Std  [3]float32 `json:"std" yaml:"std"`
}

// withDefaults fills zero fields.
func (c PredictorConfig) withDefaults() PredictorConfig {
	if c.InputName == "" {
		c.InputName = "input"
	}
	if c.OutputName == "" {
		c.OutputName = "output"
	}
	if c.OutputWidth == 0 {
		c.OutputWidth = c.Width
	}
	if c.OutputHeight == 0 {
		c.OutputHeight = c.Height
	}
	if c.Std == [3]float32{} {
		c.Mean = ImageNetMean
		c.Std = ImageNetStd
	}
	return c
}

// Validate checks the shape fields.
func (c PredictorConfig) Validate() error {
	if c.ModelPath == "" {
		return fmt.Errorf("model path is required")
	}
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("invalid input size %dx%d", c.Width, c.Height)
	}
	if c.NumClasses <= 0 {
		return fmt.Errorf("invalid class count %d", c.NumClasses)
	}
	for i, s := range c.Std {
		if s == 0 {
			return fmt.Errorf("std channel %d is zero", i)
		}
	}
	return nil
}

// Predictor runs a semantic segmentation model.
//
// The input and output tensors are preallocated and reused, so Predict calls
// are serialized.
type Predictor struct {
	config  PredictorConfig
	session *ort.AdvancedSession
	input   *ort.Tensor[float32]
	output  *ort.Tensor[float32]
	mu      sync.Mutex
}

// NewPredictor loads the model and allocates its tensors.
//
// Arguments:
//   - config: The model description.
//
// Returns:
//   - *Predictor: The predictor; the caller must Close it.
//   - error: An error if the runtime or model cannot be loaded.
func NewPredictor(config PredictorConfig) (*Predictor, error) {
	config = config.withDefaults()
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if err := InitializeRuntime(); err != nil {
		return nil, err
	}

	input, err := ort.NewEmptyTensor[float32](
		ort.NewShape(1, 3, int64(config.Height), int64(config.Width)),
	)
	if err != nil {
		return nil, fmt.Errorf("error creating input tensor: %w", err)
	}

	output, err := ort.NewEmptyTensor[float32](
		ort.NewShape(1, int64(config.NumClasses), int64(config.OutputHeight), int64(config.OutputWidth)),
	)
	if err != nil {
		input.Destroy()
		return nil, fmt.Errorf("error creating output tensor: %w", err)
	}

	session, err := ort.NewAdvancedSession(
		config.ModelPath,
		[]string{config.InputName},
		[]string{config.OutputName},
		[]ort.ArbitraryTensor{input},
		[]ort.ArbitraryTensor{output},
		nil,
	)
	if err != nil {
		input.Destroy()
		output.Destroy()
		return nil, fmt.Errorf("error creating ORT session: %w", err)
	}

	log.Printf("✅ Segmentation model initialized: %s", config.ModelPath)
	log.Printf("📋 Input shape: %dx%d, classes: %d", config.Width, config.Height, config.NumClasses)

	return &Predictor{config: config, session: session, input: input, output: output}, nil
}

// Config returns the effective config.
func (p *Predictor) Config() PredictorConfig {
	return p.config
}

// Segmentation is the output of one Predict call, at the input image's resolution.
type Segmentation struct {
	// Labels holds class indices in reduced label space.
	Labels images.LabelMap
	// Confidence holds the winning class probability, quantized to 0-255.
	Confidence images.LabelMap
}

// Predict segments img.
//
// Arguments:
//   - ctx: Checked before inference starts; a running model is not interrupted.
//   - img: The input image.
//
// Returns:
//   - Segmentation: The per-pixel classes and their confidence.
//   - error: An error if the context is done or inference fails.
func (p *Predictor) Predict(ctx context.Context, img image.Image) (Segmentation, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return Segmentation{}, err
	}
	if p.session == nil {
		return Segmentation{}, fmt.Errorf("predictor is closed")
	}

	cfg := p.config
	if err := PrepareInput(img, p.input.GetData(), cfg.Width, cfg.Height, cfg.Mean, cfg.Std); err != nil {
		return Segmentation{}, err
	}

	if err := p.session.Run(); err != nil {
		return Segmentation{}, fmt.Errorf("error running segmentation model: %w", err)
	}

	return decodeLogits(p.output.GetData(), cfg, img.Bounds())
}

// decodeLogits turns raw logits into a Segmentation sized to bounds.
func decodeLogits(logits []float32, cfg PredictorConfig, bounds image.Rectangle) (Segmentation, error) {
	labels, err := ArgmaxLogits(logits, cfg.NumClasses, cfg.OutputHeight, cfg.OutputWidth)
	if err != nil {
		return Segmentation{}, err
	}

	conf, err := Confidence(logits, cfg.NumClasses, cfg.OutputHeight, cfg.OutputWidth)
	if err != nil {
		return Segmentation{}, err
	}
	confMap, err := ConfidenceMap(conf, cfg.OutputHeight, cfg.OutputWidth)
	if err != nil {
		return Segmentation{}, err
	}

	return Segmentation{
		Labels:     images.ResizeNearest(labels, bounds.Dx(), bounds.Dy()),
		Confidence: images.ResizeNearest(confMap, bounds.Dx(), bounds.Dy()),
	}, nil
}

// Close releases the session and its tensors.
func (p *Predictor) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.input != nil {
		p.input.Destroy()
		p.input = nil
	}
	if p.output != nil {
		p.output.Destroy()
		p.output = nil
	}
	if p.session != nil {
		err := p.session.Destroy()
		p.session = nil
		if err != nil {
			return fmt.Errorf("error destroying ORT session: %w", err)
		}
		log.Printf("🔒 Segmentation model closed")
	}
	return nil
}
