package stage

import (
	"fmt"

	"github.com/imamik/filmlook/internal/blend"
	"github.com/imamik/filmlook/internal/preset"
	"github.com/imamik/filmlook/internal/raster"
)

// SplitTone tints shadows and highlights with separate colors. A
// false-color map keyed by luma is soft-light blended over the image, then
// the result is faded in by the preset's split-tone intensity.
func SplitTone() Stage {
	return Stage{
		Name: "split-tone",
		Apply: func(buf *raster.Buffer, p *preset.Preset) (*raster.Buffer, error) {
			if p.SplitIntensity <= 0 {
				return buf, nil
			}

			overlay := buf.Clone()
			sh, hi := p.SplitShadow, p.SplitHighlight
			for i := 0; i < len(overlay.Pix); i += 4 {
				lum := raster.Luma(buf.Pix[i], buf.Pix[i+1], buf.Pix[i+2])
				r, g, b := raster.LerpColor(sh.R, sh.G, sh.B, hi.R, hi.G, hi.B, lum)
				overlay.Pix[i+0] = r
				overlay.Pix[i+1] = g
				overlay.Pix[i+2] = b
			}

			toned, err := blend.SoftLight(overlay, buf)
			if err != nil {
				return nil, fmt.Errorf("%w: split-tone blend: %v", ErrDegraded, err)
			}
			out, err := blend.AlphaLerp(toned, buf, p.SplitIntensity)
			if err != nil {
				return nil, fmt.Errorf("%w: split-tone fade: %v", ErrDegraded, err)
			}
			return out, nil
		},
	}
}
