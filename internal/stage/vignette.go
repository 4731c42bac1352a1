package stage

import (
	"math"

	"github.com/imamik/filmlook/internal/blend"
	"github.com/imamik/filmlook/internal/preset"
	"github.com/imamik/filmlook/internal/raster"
)

// Vignette darkens pixels radially from the image center. Distances are
// normalized by the half-diagonal; inside the preset radius nothing
// changes, beyond it a smoothstep ramp lerps RGB toward black at the
// preset intensity, expressed as a mask-weighted blend against a black
// layer. The exact center has mask zero and is always untouched.
func Vignette() Stage {
	return Stage{
		Name: "vignette",
		Apply: func(buf *raster.Buffer, p *preset.Preset) (*raster.Buffer, error) {
			if p.VignetteIntensity <= 0 || p.VignetteRadius >= 1 {
				return buf, nil
			}

			cx := float64(buf.W-1) / 2
			cy := float64(buf.H-1) / 2
			maxR := math.Hypot(float64(buf.W)/2, float64(buf.H)/2)

			black, err := raster.New(buf.W, buf.H)
			if err != nil {
				return nil, err
			}
			mask, err := raster.New(buf.W, buf.H)
			if err != nil {
				return nil, err
			}
			i := 0
			for y := 0; y < buf.H; y++ {
				for x := 0; x < buf.W; x++ {
					d := math.Hypot(float64(x)-cx, float64(y)-cy) / maxR
					s := raster.Clamp01((d - p.VignetteRadius) / (1 - p.VignetteRadius))
					fall := s * s * (3 - 2*s) // smoothstep
					mask.Pix[i] = fall * p.VignetteIntensity
					i += 4
				}
			}
			return blend.AlphaMaskLerp(black, buf, mask)
		},
	}
}
