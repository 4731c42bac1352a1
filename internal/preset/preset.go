// Package preset defines the immutable constant set that drives every
// pipeline stage for one film look.
package preset

import (
	"errors"
	"fmt"

	"github.com/imamik/filmlook/internal/curve"
)

var errInvalid = errors.New("preset: invalid value")

// RGB is a plain gamma-encoded color triple in [0,1].
type RGB struct {
	R, G, B float64
}

// Preset is the full constant set for one film look. It is created once,
// validated, and shared read-only across stage invocations; stages never
// mutate it.
type Preset struct {
	Name string

	// White point shift, correlated color temperature in Kelvin.
	TemperatureNeutralK float64
	TemperatureTargetK  float64

	// Color controls, applied in saturation, brightness, contrast order.
	Saturation float64 // 1 = unchanged
	Brightness float64 // additive, 0 = unchanged
	Contrast   float64 // scale around 0.5, 1 = unchanged

	// Tone curve, five control points, strictly increasing x, anchored at
	// x=0 and x=1.
	ToneCurve [curve.NumPoints]curve.Point

	// Per-channel diagonal tint matrix. All ones disables the stage.
	TintScale RGB

	SplitShadow    RGB
	SplitHighlight RGB
	SplitIntensity float64

	BloomRadius    float64 // gaussian sigma in pixels
	BloomIntensity float64

	GrainAlpha float64

	VignetteIntensity float64
	VignetteRadius    float64 // fraction of the half-diagonal left untouched
}

// CPM35 is the default look: a warm 5200K white point, gentle s-curve with
// lifted blacks and rolled-off highlights, teal shadows against warm
// highlights, mild bloom, fine grain and a soft vignette.
func CPM35() Preset {
	return Preset{
		Name:                "cpm35",
		TemperatureNeutralK: 6500,
		TemperatureTargetK:  5200,
		Saturation:          0.85,
		Brightness:          0.0,
		Contrast:            1.08,
		ToneCurve: [curve.NumPoints]curve.Point{
			{X: 0.0, Y: 0.05},
			{X: 0.25, Y: 0.23},
			{X: 0.5, Y: 0.5},
			{X: 0.75, Y: 0.78},
			{X: 1.0, Y: 0.95},
		},
		TintScale:         RGB{R: 1.0, G: 1.01, B: 0.99},
		SplitShadow:       RGB{R: 0.10, G: 0.22, B: 0.28},
		SplitHighlight:    RGB{R: 0.95, G: 0.80, B: 0.55},
		SplitIntensity:    0.22,
		BloomRadius:       6.0,
		BloomIntensity:    0.25,
		GrainAlpha:        0.10,
		VignetteIntensity: 0.35,
		VignetteRadius:    0.55,
	}
}

// Identity is a preset under which every stage is a no-op apart from the
// tone curve, which maps through the identity diagonal. Used by tests.
func Identity() Preset {
	return Preset{
		Name:                "identity",
		TemperatureNeutralK: 6500,
		TemperatureTargetK:  6500,
		Saturation:          1.0,
		Brightness:          0.0,
		Contrast:            1.0,
		ToneCurve: [curve.NumPoints]curve.Point{
			{X: 0.0, Y: 0.0},
			{X: 0.25, Y: 0.25},
			{X: 0.5, Y: 0.5},
			{X: 0.75, Y: 0.75},
			{X: 1.0, Y: 1.0},
		},
		TintScale:         RGB{R: 1, G: 1, B: 1},
		SplitShadow:       RGB{},
		SplitHighlight:    RGB{R: 1, G: 1, B: 1},
		SplitIntensity:    0.0,
		BloomRadius:       0.0,
		BloomIntensity:    0.0,
		GrainAlpha:        0.0,
		VignetteIntensity: 0.0,
		VignetteRadius:    1.0,
	}
}

// Validate rejects constants the stages cannot work with. Curve point
// validation is delegated to the curve package so the rules live in one
// place.
func (p Preset) Validate() error {
	if p.TemperatureNeutralK < 1000 || p.TemperatureNeutralK > 40000 {
		return fmt.Errorf("%w: neutral temperature %.0fK", errInvalid, p.TemperatureNeutralK)
	}
	if p.TemperatureTargetK < 1000 || p.TemperatureTargetK > 40000 {
		return fmt.Errorf("%w: target temperature %.0fK", errInvalid, p.TemperatureTargetK)
	}
	if p.Saturation < 0 {
		return fmt.Errorf("%w: saturation %f", errInvalid, p.Saturation)
	}
	if p.Contrast < 0 {
		return fmt.Errorf("%w: contrast %f", errInvalid, p.Contrast)
	}
	if _, err := curve.New(p.ToneCurve); err != nil {
		return err
	}
	if p.SplitIntensity < 0 || p.SplitIntensity > 1 {
		return fmt.Errorf("%w: split-tone intensity %f", errInvalid, p.SplitIntensity)
	}
	if p.BloomRadius < 0 || p.BloomIntensity < 0 {
		return fmt.Errorf("%w: bloom radius %f intensity %f", errInvalid, p.BloomRadius, p.BloomIntensity)
	}
	if p.GrainAlpha < 0 || p.GrainAlpha > 1 {
		return fmt.Errorf("%w: grain alpha %f", errInvalid, p.GrainAlpha)
	}
	if p.VignetteIntensity < 0 || p.VignetteIntensity > 1 {
		return fmt.Errorf("%w: vignette intensity %f", errInvalid, p.VignetteIntensity)
	}
	if p.VignetteRadius <= 0 || p.VignetteRadius > 1 {
		return fmt.Errorf("%w: vignette radius %f", errInvalid, p.VignetteRadius)
	}
	return nil
}
