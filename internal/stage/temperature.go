package stage

import (
	"math"

	"github.com/imamik/filmlook/internal/preset"
	"github.com/imamik/filmlook/internal/raster"
)

// kelvinToRGB approximates the color of a Planckian radiator at the given
// correlated color temperature, normalized to [0,1] per channel. This is
// the well-known Tanner Helland curve fit, accurate enough for white-point
// gains in the 1000K-40000K range.
func kelvinToRGB(k float64) (r, g, b float64) {
	t := k / 100.0

	if t <= 66 {
		r = 255
	} else {
		r = 329.698727446 * math.Pow(t-60, -0.1332047592)
	}

	if t <= 66 {
		g = 99.4708025861*math.Log(t) - 161.1195681661
	} else {
		g = 288.1221695283 * math.Pow(t-60, -0.0755148492)
	}

	switch {
	case t >= 66:
		b = 255
	case t <= 19:
		b = 0
	default:
		b = 138.5177312231*math.Log(t-10) - 305.0447927307
	}

	clamp255 := func(v float64) float64 { return math.Max(0, math.Min(255, v)) }
	return clamp255(r) / 255, clamp255(g) / 255, clamp255(b) / 255
}

// temperatureGains derives von Kries style diagonal gains that move the
// white point from the neutral temperature to the target, normalized at
// green so overall exposure stays put. A warmer target raises the red gain
// and lowers blue.
func temperatureGains(neutralK, targetK float64) (gr, gg, gb float64) {
	nr, ng, nb := kelvinToRGB(neutralK)
	tr, tg, tb := kelvinToRGB(targetK)
	if nr == 0 || ng == 0 || nb == 0 || tg == 0 {
		return 1, 1, 1
	}
	gr = (tr / tg) / (nr / ng)
	gg = 1
	gb = (tb / tg) / (nb / ng)
	return gr, gg, gb
}

// Temperature shifts the white point from the preset's neutral temperature
// to its target. Gains apply in linear light so the shift behaves like
// re-lighting the scene rather than skewing the gamma curve.
func Temperature() Stage {
	return Stage{
		Name: "temperature",
		Apply: func(buf *raster.Buffer, p *preset.Preset) (*raster.Buffer, error) {
			if p.TemperatureTargetK == p.TemperatureNeutralK {
				return buf, nil
			}
			gr, gg, gb := temperatureGains(p.TemperatureNeutralK, p.TemperatureTargetK)
			out := buf.Clone()
			for i := 0; i < len(out.Pix); i += 4 {
				out.Pix[i+0] = raster.LinearToSRGB(raster.SRGBToLinear(buf.Pix[i+0]) * gr)
				out.Pix[i+1] = raster.LinearToSRGB(raster.SRGBToLinear(buf.Pix[i+1]) * gg)
				out.Pix[i+2] = raster.LinearToSRGB(raster.SRGBToLinear(buf.Pix[i+2]) * gb)
			}
			return out, nil
		},
	}
}
