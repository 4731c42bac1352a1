package raster

import "math"

// Clamp01 clamps v to [0,1]. NaN maps to 0 so a poisoned sample can never
// propagate through the pipeline.
func Clamp01(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// SRGBToLinear applies the IEC 61966-2-1 sRGB decoding curve.
func SRGBToLinear(v float64) float64 {
	v = Clamp01(v)
	if v <= 0.04045 {
		return v / 12.92
	}
	return math.Pow((v+0.055)/1.055, 2.4)
}

// LinearToSRGB applies the IEC 61966-2-1 sRGB encoding curve.
func LinearToSRGB(v float64) float64 {
	v = Clamp01(v)
	if v <= 0.0031308 {
		return 12.92 * v
	}
	return 1.055*math.Pow(v, 1.0/2.4) - 0.055
}

// Lerp linearly interpolates between a and b by t. The two-product form
// is exact at both endpoints, which the blend identities rely on.
func Lerp(a, b, t float64) float64 {
	return a*(1-t) + b*t
}

// LerpColor interpolates two RGB triples per channel.
func LerpColor(ar, ag, ab, br, bg, bb, t float64) (r, g, b float64) {
	return Lerp(ar, br, t), Lerp(ag, bg, t), Lerp(ab, bb, t)
}

// Luma returns the Rec.601 luma of a gamma-encoded RGB triple, the same
// weighting the saturation and shadow/highlight code has always used.
func Luma(r, g, b float64) float64 {
	return 0.299*r + 0.587*g + 0.114*b
}
