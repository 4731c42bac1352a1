package stage

import (
	"fmt"

	"github.com/imamik/filmlook/internal/curve"
	"github.com/imamik/filmlook/internal/preset"
	"github.com/imamik/filmlook/internal/raster"
)

// ToneCurve remaps each RGB channel through the preset's five-point film
// curve. Curve construction failure is recoverable: the stage reports
// ErrDegraded and the orchestrator keeps the incoming buffer.
func ToneCurve() Stage {
	return Stage{
		Name: "tone-curve",
		Apply: func(buf *raster.Buffer, p *preset.Preset) (*raster.Buffer, error) {
			c, err := curve.New(p.ToneCurve)
			if err != nil {
				return nil, fmt.Errorf("%w: %v", ErrDegraded, err)
			}
			out := buf.Clone()
			for i := 0; i < len(out.Pix); i += 4 {
				out.Pix[i+0] = c.Eval(buf.Pix[i+0])
				out.Pix[i+1] = c.Eval(buf.Pix[i+1])
				out.Pix[i+2] = c.Eval(buf.Pix[i+2])
			}
			return out, nil
		},
	}
}

// ColorMatrix applies the preset's diagonal tint matrix, a per-channel
// linear scale used for subtle overall casts. An all-ones scale passes the
// buffer through untouched.
func ColorMatrix() Stage {
	return Stage{
		Name: "color-matrix",
		Apply: func(buf *raster.Buffer, p *preset.Preset) (*raster.Buffer, error) {
			s := p.TintScale
			if s.R == 1 && s.G == 1 && s.B == 1 {
				return buf, nil
			}
			out := buf.Clone()
			for i := 0; i < len(out.Pix); i += 4 {
				out.Pix[i+0] = raster.Clamp01(buf.Pix[i+0] * s.R)
				out.Pix[i+1] = raster.Clamp01(buf.Pix[i+1] * s.G)
				out.Pix[i+2] = raster.Clamp01(buf.Pix[i+2] * s.B)
			}
			return out, nil
		},
	}
}
