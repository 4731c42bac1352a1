package stage

import (
	"fmt"

	"github.com/imamik/filmlook/internal/blend"
	"github.com/imamik/filmlook/internal/noise"
	"github.com/imamik/filmlook/internal/preset"
	"github.com/imamik/filmlook/internal/raster"
)

// Amplitude of the shaped grain field around mid-gray. Mid-gray is the
// soft-light neutral, so amplitude controls grain contrast and the
// preset's grain alpha controls how much of it reaches the image.
const grainAmplitude = 0.3

// Grain overlays procedural film grain: a uniform noise field, compressed
// to a low-amplitude band around mid-gray, soft-light blended and faded in
// at the preset's grain alpha.
//
// seed supplies the noise seed per invocation. Production wires a
// fresh-draw source; tests wire a constant for bit-identical output.
func Grain(seed func() int64) Stage {
	return Stage{
		Name: "grain",
		Apply: func(buf *raster.Buffer, p *preset.Preset) (*raster.Buffer, error) {
			if p.GrainAlpha <= 0 {
				return buf, nil
			}

			field, err := noise.Uniform(buf.W, buf.H, seed())
			if err != nil {
				return nil, fmt.Errorf("%w: grain noise: %v", ErrDegraded, err)
			}
			for i := 0; i < len(field.Pix); i += 4 {
				v := 0.5 + (field.Pix[i]-0.5)*grainAmplitude
				field.Pix[i+0] = v
				field.Pix[i+1] = v
				field.Pix[i+2] = v
			}

			grained, err := blend.SoftLight(field, buf)
			if err != nil {
				return nil, fmt.Errorf("%w: grain blend: %v", ErrDegraded, err)
			}
			return blend.AlphaLerp(grained, buf, p.GrainAlpha)
		},
	}
}
