package stage

import (
	"github.com/imamik/filmlook/internal/preset"
	"github.com/imamik/filmlook/internal/raster"
)

// ColorControls applies saturation, brightness and contrast in that fixed
// order. Saturation lerps each channel toward the pixel's luma, brightness
// is an additive offset, contrast scales around the 0.5 pivot. With the
// identity values (1, 0, 1) every pixel passes through unchanged.
func ColorControls() Stage {
	return Stage{
		Name: "color-controls",
		Apply: func(buf *raster.Buffer, p *preset.Preset) (*raster.Buffer, error) {
			out := buf.Clone()
			for i := 0; i < len(out.Pix); i += 4 {
				r, g, b := buf.Pix[i], buf.Pix[i+1], buf.Pix[i+2]

				lum := raster.Luma(r, g, b)
				r = raster.Lerp(lum, r, p.Saturation)
				g = raster.Lerp(lum, g, p.Saturation)
				b = raster.Lerp(lum, b, p.Saturation)

				r += p.Brightness
				g += p.Brightness
				b += p.Brightness

				r = (r-0.5)*p.Contrast + 0.5
				g = (g-0.5)*p.Contrast + 0.5
				b = (b-0.5)*p.Contrast + 0.5

				out.Pix[i+0] = raster.Clamp01(r)
				out.Pix[i+1] = raster.Clamp01(g)
				out.Pix[i+2] = raster.Clamp01(b)
			}
			return out, nil
		},
	}
}
