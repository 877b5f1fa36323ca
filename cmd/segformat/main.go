// Command segformat writes segmentation predictions for a dataset as label
// images, either from a predictions file or by running an ONNX model.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
	"github.com/pkg/errors"

	"github.com/nvr-ai/go-seg/datasets"
	"github.com/nvr-ai/go-seg/datasets/dataset"
	"github.com/nvr-ai/go-seg/images"
	"github.com/nvr-ai/go-seg/inference"
	"github.com/nvr-ai/go-seg/util"
)

// Prediction is one entry of a predictions file.
type Prediction struct {
	// Index is the dataset position the prediction belongs to.
	Index int `json:"index"`
	// Pred is the label grid, rows top to bottom.
	Pred [][]int `json:"pred"`
}

func main() {
	var (
		configPath = flag.String("config", "", "Dataset config (YAML)")
		predsPath  = flag.String("predictions", "", "Predictions file (JSON)")
		modelPath  = flag.String("model", "", "ONNX segmentation model, used instead of -predictions")
		width      = flag.Int("width", 512, "Model input width")
		height     = flag.Int("height", 512, "Model input height")
		outDir     = flag.String("out", "results", "Output directory for label images")
		showDir    = flag.String("show", "", "Optional output directory for palette overlays")
		confDir    = flag.String("confidence", "", "Optional output directory for confidence maps (with -model)")
		opacity    = flag.Float64("opacity", 0.5, "Overlay opacity")
		toLabelID  = flag.Bool("to-label-id", true, "Convert outputs to label ids")
		verify     = flag.Bool("verify", false, "Re-read written images and check them against the predictions")
	)
	flag.Parse()

	if *configPath == "" {
		log.Fatal("❌ -config is required")
	}

	cfg, err := dataset.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("❌ Failed to load dataset config: %v", err)
	}

	ds, err := datasets.DefaultRegistry().Build(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to build dataset: %v", err)
	}
	log.Printf("📋 Dataset %s: %d images, %d classes", cfg.Name, ds.Len(), ds.Classes().Len())

	var (
		results    []images.LabelMap
		confidence []images.LabelMap
		indices    []int
	)
	switch {
	case *modelPath != "":
		results, confidence, indices, err = predictDataset(ds, inference.PredictorConfig{
			ModelPath:  *modelPath,
			Width:      *width,
			Height:     *height,
			NumClasses: ds.Classes().Len(),
		})
	case *predsPath != "":
		results, indices, err = loadPredictions(*predsPath)
	default:
		err = fmt.Errorf("one of -model or -predictions is required")
	}
	if err != nil {
		log.Fatalf("❌ Failed to obtain predictions: %v", err)
	}

	files, err := ds.FormatResults(results, *outDir, *toLabelID, indices)
	if err != nil {
		log.Fatalf("❌ Failed to format results: %v", err)
	}
	log.Printf("✅ Wrote %d label images to %s", len(files), *outDir)

	if *verify {
		if err := verifyOutputs(ds, results, files); err != nil {
			log.Fatalf("❌ Verification failed: %v", err)
		}
		log.Printf("🔍 Verified %d label images", len(files))
	}

	if *confDir != "" {
		if confidence == nil {
			log.Printf("⚠️  -confidence needs -model; skipping confidence maps")
		} else {
			if err := writeConfidence(*confDir, files, confidence); err != nil {
				log.Fatalf("❌ Failed to write confidence maps: %v", err)
			}
			log.Printf("📊 Wrote confidence maps to %s", *confDir)
		}
	}

	if *showDir != "" {
		if err := os.MkdirAll(*showDir, 0o755); err != nil {
			log.Fatalf("❌ Failed to create %s: %v", *showDir, err)
		}
		for i, seg := range results {
			out := filepath.Join(*showDir, filepath.Base(files[i]))
			if err := ds.SaveShowResult(indices[i], seg, out, *opacity); err != nil {
				log.Printf("⚠️  Failed to render overlay for %s: %v", files[i], err)
			}
		}
		log.Printf("🎨 Wrote overlays to %s", *showDir)
	}
}

// loadPredictions reads a JSON predictions file.
func loadPredictions(path string) ([]images.LabelMap, []int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "read predictions %s", path)
	}

	var preds []Prediction
	if err := json.Unmarshal(data, &preds); err != nil {
		return nil, nil, errors.Wrapf(err, "parse predictions %s", path)
	}

	results := make([]images.LabelMap, len(preds))
	indices := make([]int, len(preds))
	for i, p := range preds {
		m, err := images.LabelMapFromRows(p.Pred)
		if err != nil {
			return nil, nil, errors.Wrapf(err, "prediction %d", i)
		}
		results[i] = m
		indices[i] = p.Index
	}
	return results, indices, nil
}

// predictDataset runs the model over every dataset image in order.
func predictDataset(
	ds datasets.Adapter,
	config inference.PredictorConfig,
) ([]images.LabelMap, []images.LabelMap, []int, error) {
	p, err := inference.NewPredictor(config)
	if err != nil {
		return nil, nil, nil, err
	}
	defer p.Close()

	ctx := context.Background()
	results := make([]images.LabelMap, 0, ds.Len())
	confidence := make([]images.LabelMap, 0, ds.Len())
	indices := make([]int, 0, ds.Len())
	for idx := 0; idx < ds.Len(); idx++ {
		path, err := ds.ImagePath(idx)
		if err != nil {
			return nil, nil, nil, err
		}
		img, err := imaging.Open(path)
		if err != nil {
			return nil, nil, nil, errors.Wrapf(err, "open %s", path)
		}
		seg, err := p.Predict(ctx, img)
		if err != nil {
			return nil, nil, nil, errors.Wrapf(err, "predict %s", util.StripExt(path))
		}
		results = append(results, seg.Labels)
		confidence = append(confidence, seg.Confidence)
		indices = append(indices, idx)
	}
	return results, confidence, indices, nil
}

// verifyOutputs checks every written file against the label ids the
// adapter produces for its prediction.
func verifyOutputs(ds datasets.Adapter, results []images.LabelMap, files []string) error {
	if len(results) != len(files) {
		return fmt.Errorf("%d results for %d files", len(results), len(files))
	}
	for i, f := range files {
		sum, err := images.VerifyLabelPNG(f, ds.OutputLabels(results[i]))
		if err != nil {
			return err
		}
		log.Printf("🔍 %s %s", sum, f)
	}
	return nil
}

// writeConfidence writes one confidence map per label image, named after it.
func writeConfidence(dir string, files []string, confidence []images.LabelMap) error {
	if len(confidence) != len(files) {
		return fmt.Errorf("%d confidence maps for %d files", len(confidence), len(files))
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrapf(err, "create %s", dir)
	}
	for i, f := range files {
		if err := images.WriteLabelPNG(filepath.Join(dir, filepath.Base(f)), confidence[i]); err != nil {
			return err
		}
	}
	return nil
}
