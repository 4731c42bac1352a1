// Package filmlook applies a deterministic film-emulation filter to raster
// images: white-point shift, color controls, tone curve, split-toning,
// bloom, grain and vignette, executed as a fixed pipeline of pure stages.
package filmlook

import (
	"context"
	"image"
	"log/slog"

	"github.com/imamik/filmlook/internal/border"
	"github.com/imamik/filmlook/internal/logging"
	"github.com/imamik/filmlook/internal/pipeline"
	"github.com/imamik/filmlook/internal/preset"
	"github.com/imamik/filmlook/internal/raster"
)

// Preset holds every numeric constant for one film look.
type Preset = preset.Preset

// RGB is a gamma-encoded color triple in [0,1].
type RGB = preset.RGB

// CPM35 returns the default film look.
func CPM35() Preset { return preset.CPM35() }

// Options configures one processing run.
type Options struct {
	Preset Preset
	// Seed pins the grain noise; 0 draws a fresh seed per image.
	Seed int64
	// Border adds the classic print border around the output.
	Border bool
}

func DefaultOptions() Options {
	return Options{
		Preset: preset.CPM35(),
	}
}

// SetLogger enables logging for the whole module. The default discards
// everything; pass nil to restore it.
func SetLogger(l *slog.Logger) { logging.SetLogger(l) }

// Process reads inputPath, applies the film look and writes outputPath.
// The output format follows the file extension.
func Process(ctx context.Context, inputPath, outputPath string, opts Options) error {
	return pipeline.Process(ctx, inputPath, outputPath, pipeline.Options{
		Preset: opts.Preset,
		Seed:   opts.Seed,
		Border: opts.Border,
	})
}

// ProcessImage applies the film look to an already decoded image and
// returns the result. Output dimensions match the input unless a border is
// requested.
func ProcessImage(ctx context.Context, img image.Image, opts Options) (image.Image, error) {
	src, err := raster.FromImage(img)
	if err != nil {
		return nil, err
	}

	seed := pipeline.FreshSeeds()
	if opts.Seed != 0 {
		seed = pipeline.FixedSeed(opts.Seed)
	}

	pl, err := pipeline.New(opts.Preset, seed)
	if err != nil {
		return nil, err
	}

	res, err := pl.Run(ctx, src)
	if err != nil {
		return nil, err
	}

	out := image.Image(res.Buffer.Image())
	if opts.Border {
		out, err = border.Add(out, border.Classic())
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}
