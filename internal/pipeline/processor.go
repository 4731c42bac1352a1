package pipeline

import (
	"context"
	"fmt"
	"image"
	"os"

	"github.com/disintegration/imaging"

	"github.com/imamik/filmlook/internal/border"
	"github.com/imamik/filmlook/internal/preset"
	"github.com/imamik/filmlook/internal/raster"
)

// Options configures a file-to-file processing run.
type Options struct {
	Preset preset.Preset
	Seed   int64 // 0 draws a fresh seed per run
	Border bool  // add the classic print border after filtering
}

// Processor drives one image through load, filter, optional border and
// save. It mirrors the step-by-step shape the CLI exposes; library callers
// that already hold a decoded image use the pipeline directly.
type Processor struct {
	inputPath string
	image     image.Image
	warnings  []string
}

func NewProcessor(inputPath string) *Processor {
	return &Processor{
		inputPath: inputPath,
	}
}

// Load decodes the input file.
func (p *Processor) Load() error {
	if _, err := os.Stat(p.inputPath); os.IsNotExist(err) {
		return fmt.Errorf("input file not found: %s", p.inputPath)
	}

	img, err := imaging.Open(p.inputPath)
	if err != nil {
		return fmt.Errorf("failed to load image: %w", err)
	}

	p.image = img
	return nil
}

// ApplyFilter runs the loaded image through the full film pipeline.
// Degraded stages are recorded as warnings, not errors.
func (p *Processor) ApplyFilter(ctx context.Context, opts Options) error {
	if p.image == nil {
		return fmt.Errorf("no image loaded")
	}

	seed := FreshSeeds()
	if opts.Seed != 0 {
		seed = FixedSeed(opts.Seed)
	}

	pl, err := New(opts.Preset, seed)
	if err != nil {
		return err
	}

	src, err := raster.FromImage(p.image)
	if err != nil {
		return err
	}

	res, err := pl.Run(ctx, src)
	if err != nil {
		return err
	}
	for _, name := range res.Degraded {
		p.warnings = append(p.warnings, fmt.Sprintf("stage %s degraded to identity", name))
	}

	p.image = res.Buffer.Image()
	return nil
}

// AddBorder frames the filtered image with the classic print border.
func (p *Processor) AddBorder() error {
	if p.image == nil {
		return fmt.Errorf("no image loaded")
	}

	framed, err := border.Add(p.image, border.Classic())
	if err != nil {
		return err
	}

	p.image = framed
	return nil
}

// Save encodes the current image to outputPath; the format follows the
// file extension. Encode failures report ErrRenderingFailed.
func (p *Processor) Save(outputPath string) error {
	if p.image == nil {
		return fmt.Errorf("no image to save")
	}

	if err := imaging.Save(p.image, outputPath); err != nil {
		return fmt.Errorf("%w: save image: %w", ErrRenderingFailed, err)
	}

	return nil
}

// Image returns the current image, nil before Load.
func (p *Processor) Image() image.Image {
	return p.image
}

// Warnings lists non-fatal issues collected so far, one per degraded
// stage.
func (p *Processor) Warnings() []string {
	return p.warnings
}

// Process is the one-call convenience: load inputPath, filter, optionally
// border, save to outputPath.
func Process(ctx context.Context, inputPath, outputPath string, opts Options) error {
	proc := NewProcessor(inputPath)

	if err := proc.Load(); err != nil {
		return fmt.Errorf("load: %w", err)
	}

	if err := proc.ApplyFilter(ctx, opts); err != nil {
		return fmt.Errorf("filter: %w", err)
	}

	if opts.Border {
		if err := proc.AddBorder(); err != nil {
			return fmt.Errorf("border: %w", err)
		}
	}

	if err := proc.Save(outputPath); err != nil {
		return fmt.Errorf("save: %w", err)
	}

	return nil
}
