package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/imamik/filmlook"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "filmlook",
	Short: "Apply a film-emulation look to images",
	Long: `filmlook runs images through a deterministic film-emulation pipeline:
white-point shift, color controls, tone curve, split-toning, bloom,
grain and vignette, in that order.`,
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
}

var processCmd = &cobra.Command{
	Use:   "process",
	Short: "Process a single image",
	RunE:  runProcess,
}

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Process all images in a directory",
	RunE:  runBatch,
}

var (
	inputPath  string
	outputPath string
	seed       int64
	addBorder  bool
	verbose    bool

	grainAlpha  float64
	vignetteInt float64
	targetTempK float64
)

func init() {
	for _, c := range []*cobra.Command{processCmd, batchCmd} {
		c.Flags().StringVarP(&inputPath, "input", "i", "", "Input image file or directory (required)")
		c.Flags().StringVarP(&outputPath, "output", "o", "", "Output image file or directory (required)")
		c.Flags().Int64Var(&seed, "seed", 0, "Grain seed; 0 draws a fresh seed per image")
		c.Flags().BoolVar(&addBorder, "border", false, "Add a classic print border")
		c.Flags().BoolVarP(&verbose, "verbose", "v", false, "Log pipeline details to stderr")
		c.Flags().Float64Var(&grainAlpha, "grain", -1, "Override grain alpha [0,1]")
		c.Flags().Float64Var(&vignetteInt, "vignette", -1, "Override vignette intensity [0,1]")
		c.Flags().Float64Var(&targetTempK, "temperature", 0, "Override target color temperature in Kelvin")
		_ = c.MarkFlagRequired("input")
		_ = c.MarkFlagRequired("output")
	}

	rootCmd.AddCommand(processCmd)
	rootCmd.AddCommand(batchCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func buildOptions() filmlook.Options {
	opts := filmlook.DefaultOptions()
	opts.Seed = seed
	opts.Border = addBorder
	if grainAlpha >= 0 {
		opts.Preset.GrainAlpha = grainAlpha
	}
	if vignetteInt >= 0 {
		opts.Preset.VignetteIntensity = vignetteInt
	}
	if targetTempK > 0 {
		opts.Preset.TemperatureTargetK = targetTempK
	}
	if verbose {
		filmlook.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})))
	}
	return opts
}

func runProcess(cmd *cobra.Command, args []string) error {
	opts := buildOptions()

	start := time.Now()
	fmt.Printf("Processing: %s\n", inputPath)

	if err := filmlook.Process(cmd.Context(), inputPath, outputPath, opts); err != nil {
		return fmt.Errorf("processing failed: %w", err)
	}

	fmt.Printf("Done: %s (%dms)\n", outputPath, time.Since(start).Milliseconds())
	return nil
}

func runBatch(cmd *cobra.Command, args []string) error {
	opts := buildOptions()

	if err := os.MkdirAll(outputPath, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	files, err := os.ReadDir(inputPath)
	if err != nil {
		return fmt.Errorf("failed to read input directory: %w", err)
	}

	processed := 0
	for _, f := range files {
		if f.IsDir() {
			continue
		}

		ext := strings.ToLower(filepath.Ext(f.Name()))
		if ext != ".jpg" && ext != ".jpeg" && ext != ".png" {
			continue
		}

		inPath := filepath.Join(inputPath, f.Name())
		baseName := strings.TrimSuffix(f.Name(), ext)
		outPath := filepath.Join(outputPath, fmt.Sprintf("%s_%s%s", baseName, opts.Preset.Name, ext))

		start := time.Now()
		fmt.Printf("[%d] Processing: %s ", processed+1, f.Name())

		if err := filmlook.Process(cmd.Context(), inPath, outPath, opts); err != nil {
			if cmd.Context().Err() != nil {
				return cmd.Context().Err()
			}
			fmt.Printf("FAILED: %v\n", err)
			continue
		}

		fmt.Printf("(%dms)\n", time.Since(start).Milliseconds())
		processed++
	}

	fmt.Printf("\nBatch complete: %d images processed\n", processed)
	return nil
}
