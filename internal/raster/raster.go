// Package raster holds the in-memory pixel buffer the filter pipeline
// operates on, plus the color-space math shared by every stage.
//
// All arithmetic happens on normalized float64 samples in [0,1]; buffers
// convert to and from 16-bit NRGBA only at the pipeline boundaries.
package raster

import (
	"errors"
	"fmt"
	"image"
	"image/color"
)

// ErrInvalidInput reports a buffer that cannot be interpreted as an image.
var ErrInvalidInput = errors.New("raster: invalid input image")

// ColorSpace tags the space the samples are encoded in. The pipeline works
// in gamma-encoded sRGB, matching what image decoders hand us.
type ColorSpace string

const (
	SpaceSRGB ColorSpace = "srgb"
)

// Buffer is an interleaved RGBA raster with normalized float64 samples.
// A stage owns the buffer it was handed; it never writes through to the
// buffer of another stage.
type Buffer struct {
	W, H  int
	Pix   []float64 // RGBA interleaved, length W*H*4, samples in [0,1]
	Space ColorSpace
}

// New allocates a zeroed buffer. Zero or negative dimensions are rejected
// before any allocation happens.
func New(w, h int) (*Buffer, error) {
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("%w: dimensions %dx%d", ErrInvalidInput, w, h)
	}
	return &Buffer{
		W:     w,
		H:     h,
		Pix:   make([]float64, w*h*4),
		Space: SpaceSRGB,
	}, nil
}

// NewGray allocates a buffer intended for single-value data (noise fields,
// masks). It is a plain RGBA buffer with R=G=B and opaque alpha so it can be
// fed straight into the blend functions.
func NewGray(w, h int) (*Buffer, error) {
	return New(w, h)
}

// FromImage converts any image.Image into a working buffer. Empty bounds
// yield ErrInvalidInput.
func FromImage(img image.Image) (*Buffer, error) {
	if img == nil {
		return nil, fmt.Errorf("%w: nil image", ErrInvalidInput)
	}
	b := img.Bounds()
	buf, err := New(b.Dx(), b.Dy())
	if err != nil {
		return nil, err
	}
	i := 0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.NRGBA64Model.Convert(img.At(x, y)).(color.NRGBA64)
			buf.Pix[i+0] = float64(c.R) / 65535.0
			buf.Pix[i+1] = float64(c.G) / 65535.0
			buf.Pix[i+2] = float64(c.B) / 65535.0
			buf.Pix[i+3] = float64(c.A) / 65535.0
			i += 4
		}
	}
	return buf, nil
}

// Validate checks the buffer invariants: positive dimensions and a pixel
// slice of exactly W*H*4 samples.
func (b *Buffer) Validate() error {
	if b == nil {
		return fmt.Errorf("%w: nil buffer", ErrInvalidInput)
	}
	if b.W <= 0 || b.H <= 0 {
		return fmt.Errorf("%w: dimensions %dx%d", ErrInvalidInput, b.W, b.H)
	}
	if len(b.Pix) != b.W*b.H*4 {
		return fmt.Errorf("%w: %d samples for %dx%d", ErrInvalidInput, len(b.Pix), b.W, b.H)
	}
	return nil
}

// Clone returns a deep copy sharing no storage with b.
func (b *Buffer) Clone() *Buffer {
	out := &Buffer{W: b.W, H: b.H, Pix: make([]float64, len(b.Pix)), Space: b.Space}
	copy(out.Pix, b.Pix)
	return out
}

// SameSize reports whether two buffers have identical dimensions.
func (b *Buffer) SameSize(o *Buffer) bool {
	return o != nil && b.W == o.W && b.H == o.H
}

func (b *Buffer) offset(x, y int) int {
	return (y*b.W + x) * 4
}

// At returns the RGBA sample at (x, y). Callers are expected to stay in
// bounds; the hot loops in the stages index Pix directly instead.
func (b *Buffer) At(x, y int) (r, g, bl, a float64) {
	i := b.offset(x, y)
	return b.Pix[i], b.Pix[i+1], b.Pix[i+2], b.Pix[i+3]
}

// Set writes a clamped RGBA sample at (x, y).
func (b *Buffer) Set(x, y int, r, g, bl, a float64) {
	i := b.offset(x, y)
	b.Pix[i+0] = Clamp01(r)
	b.Pix[i+1] = Clamp01(g)
	b.Pix[i+2] = Clamp01(bl)
	b.Pix[i+3] = Clamp01(a)
}

// Image materializes the buffer as a 16-bit NRGBA image for encoding or
// further processing with the imaging package.
func (b *Buffer) Image() *image.NRGBA64 {
	img := image.NewNRGBA64(image.Rect(0, 0, b.W, b.H))
	i := 0
	for y := 0; y < b.H; y++ {
		for x := 0; x < b.W; x++ {
			img.SetNRGBA64(x, y, color.NRGBA64{
				R: uint16(Clamp01(b.Pix[i+0])*65535.0 + 0.5),
				G: uint16(Clamp01(b.Pix[i+1])*65535.0 + 0.5),
				B: uint16(Clamp01(b.Pix[i+2])*65535.0 + 0.5),
				A: uint16(Clamp01(b.Pix[i+3])*65535.0 + 0.5),
			})
			i += 4
		}
	}
	return img
}
