// Package blend implements the per-pixel compositing math shared by the
// split-toning, bloom and grain stages. All functions require same-size
// buffers and return a new buffer; alpha passes through from the base.
package blend

import (
	"errors"
	"fmt"
	"math"

	"github.com/imamik/filmlook/internal/raster"
)

var errSizeMismatch = errors.New("blend: buffer dimensions differ")

func checkSizes(name string, a, b *raster.Buffer) error {
	if !a.SameSize(b) {
		return fmt.Errorf("%w: %s %dx%d vs %dx%d", errSizeMismatch, name, a.W, a.H, b.W, b.H)
	}
	return nil
}

// softLightChannel is the W3C soft-light formula for a single channel pair,
// top over bottom.
func softLightChannel(top, bottom float64) float64 {
	if top <= 0.5 {
		return bottom - (1-2*top)*bottom*(1-bottom)
	}
	var d float64
	if bottom <= 0.25 {
		d = ((16*bottom-12)*bottom + 4) * bottom
	} else {
		d = math.Sqrt(bottom)
	}
	return bottom + (2*top-1)*(d-bottom)
}

// SoftLight blends top over bottom with the photographic soft-light mode,
// per channel. Alpha comes from the bottom layer untouched.
func SoftLight(top, bottom *raster.Buffer) (*raster.Buffer, error) {
	if err := checkSizes("soft-light", top, bottom); err != nil {
		return nil, err
	}
	out := bottom.Clone()
	for i := 0; i < len(out.Pix); i += 4 {
		out.Pix[i+0] = raster.Clamp01(softLightChannel(top.Pix[i+0], bottom.Pix[i+0]))
		out.Pix[i+1] = raster.Clamp01(softLightChannel(top.Pix[i+1], bottom.Pix[i+1]))
		out.Pix[i+2] = raster.Clamp01(softLightChannel(top.Pix[i+2], bottom.Pix[i+2]))
	}
	return out, nil
}

// AlphaLerp composites overlay over base with a uniform mask alpha:
// base*(1-mask) + overlay*mask per channel. mask is clamped to [0,1].
func AlphaLerp(overlay, base *raster.Buffer, mask float64) (*raster.Buffer, error) {
	if err := checkSizes("alpha-lerp", overlay, base); err != nil {
		return nil, err
	}
	mask = raster.Clamp01(mask)
	out := base.Clone()
	for i := 0; i < len(out.Pix); i += 4 {
		out.Pix[i+0] = raster.Lerp(base.Pix[i+0], overlay.Pix[i+0], mask)
		out.Pix[i+1] = raster.Lerp(base.Pix[i+1], overlay.Pix[i+1], mask)
		out.Pix[i+2] = raster.Lerp(base.Pix[i+2], overlay.Pix[i+2], mask)
	}
	return out, nil
}

// AlphaMaskLerp composites overlay over base with a spatially varying mask
// buffer; the mask's red channel carries the per-pixel alpha.
func AlphaMaskLerp(overlay, base, mask *raster.Buffer) (*raster.Buffer, error) {
	if err := checkSizes("alpha-mask-lerp", overlay, base); err != nil {
		return nil, err
	}
	if err := checkSizes("alpha-mask-lerp mask", mask, base); err != nil {
		return nil, err
	}
	out := base.Clone()
	for i := 0; i < len(out.Pix); i += 4 {
		m := raster.Clamp01(mask.Pix[i])
		out.Pix[i+0] = raster.Lerp(base.Pix[i+0], overlay.Pix[i+0], m)
		out.Pix[i+1] = raster.Lerp(base.Pix[i+1], overlay.Pix[i+1], m)
		out.Pix[i+2] = raster.Lerp(base.Pix[i+2], overlay.Pix[i+2], m)
	}
	return out, nil
}

// Additive adds gain-scaled top onto base, clamping each channel.
func Additive(top, base *raster.Buffer, gain float64) (*raster.Buffer, error) {
	if err := checkSizes("additive", top, base); err != nil {
		return nil, err
	}
	out := base.Clone()
	for i := 0; i < len(out.Pix); i += 4 {
		out.Pix[i+0] = raster.Clamp01(base.Pix[i+0] + top.Pix[i+0]*gain)
		out.Pix[i+1] = raster.Clamp01(base.Pix[i+1] + top.Pix[i+1]*gain)
		out.Pix[i+2] = raster.Clamp01(base.Pix[i+2] + top.Pix[i+2]*gain)
	}
	return out, nil
}
