package stage

import (
	"fmt"

	"github.com/disintegration/imaging"

	"github.com/imamik/filmlook/internal/blend"
	"github.com/imamik/filmlook/internal/preset"
	"github.com/imamik/filmlook/internal/raster"
)

// Brightness above which pixels feed the bloom pass. The knee rescales so
// the glow ramps in smoothly instead of switching on at the threshold.
const bloomThreshold = 0.7

// Bloom adds a soft glow around bright regions: luma-threshold the image,
// gaussian-blur the bright pass at the preset radius, then add it back at
// the preset intensity. The blur itself runs through the imaging package on
// a 16-bit intermediate.
func Bloom() Stage {
	return Stage{
		Name: "bloom",
		Apply: func(buf *raster.Buffer, p *preset.Preset) (*raster.Buffer, error) {
			if p.BloomRadius <= 0 || p.BloomIntensity <= 0 {
				return buf, nil
			}

			bright := buf.Clone()
			for i := 0; i < len(bright.Pix); i += 4 {
				lum := raster.Luma(buf.Pix[i], buf.Pix[i+1], buf.Pix[i+2])
				knee := raster.Clamp01((lum - bloomThreshold) / (1 - bloomThreshold))
				bright.Pix[i+0] = buf.Pix[i+0] * knee
				bright.Pix[i+1] = buf.Pix[i+1] * knee
				bright.Pix[i+2] = buf.Pix[i+2] * knee
			}

			blurredImg := imaging.Blur(bright.Image(), p.BloomRadius)
			if blurredImg == nil {
				return nil, fmt.Errorf("%w: bloom blur produced no output", ErrDegraded)
			}
			blurred, err := raster.FromImage(blurredImg)
			if err != nil {
				return nil, fmt.Errorf("%w: bloom blur: %v", ErrDegraded, err)
			}
			if !blurred.SameSize(buf) {
				return nil, fmt.Errorf("%w: bloom blur resized %dx%d to %dx%d",
					ErrDegraded, buf.W, buf.H, blurred.W, blurred.H)
			}

			return blend.Additive(blurred, buf, p.BloomIntensity)
		},
	}
}
