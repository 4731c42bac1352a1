// Package curve evaluates the film tone curve: a monotone piecewise-cubic
// interpolation through five control points.
package curve

import (
	"errors"
	"fmt"
	"math"

	"github.com/imamik/filmlook/internal/raster"
)

// NumPoints is the fixed number of tone-curve control points.
const NumPoints = 5

var errBadPoints = errors.New("curve: invalid control points")

// Point is a single tone-curve control point, both coordinates in [0,1].
type Point struct {
	X, Y float64
}

// Curve is a monotone cubic Hermite interpolant through five control
// points, built once per preset and evaluated per channel per pixel.
//
// Tangents follow the Fritsch-Carlson construction, so monotone control
// points yield a monotone non-decreasing curve with no overshoot between
// knots, and every control point is hit exactly.
type Curve struct {
	pts [NumPoints]Point
	m   [NumPoints]float64 // tangent at each control point
}

// New validates the control points and precomputes tangents. Points must be
// strictly increasing in x, anchored at x=0 and x=1.
func New(pts [NumPoints]Point) (*Curve, error) {
	if pts[0].X != 0 || pts[NumPoints-1].X != 1 {
		return nil, fmt.Errorf("%w: endpoints must sit at x=0 and x=1", errBadPoints)
	}
	for i, p := range pts {
		if p.X < 0 || p.X > 1 || p.Y < 0 || p.Y > 1 {
			return nil, fmt.Errorf("%w: point %d (%v,%v) outside [0,1]", errBadPoints, i, p.X, p.Y)
		}
		if i > 0 && p.X <= pts[i-1].X {
			return nil, fmt.Errorf("%w: x not strictly increasing at point %d", errBadPoints, i)
		}
	}

	c := &Curve{pts: pts}

	// Secant slopes between neighbors.
	var d [NumPoints - 1]float64
	for i := 0; i < NumPoints-1; i++ {
		d[i] = (pts[i+1].Y - pts[i].Y) / (pts[i+1].X - pts[i].X)
	}

	// Initial tangents: one-sided at the ends, averaged inside.
	c.m[0] = d[0]
	c.m[NumPoints-1] = d[NumPoints-2]
	for i := 1; i < NumPoints-1; i++ {
		if d[i-1]*d[i] <= 0 {
			c.m[i] = 0
		} else {
			c.m[i] = (d[i-1] + d[i]) / 2
		}
	}

	// Fritsch-Carlson limiting keeps the interpolant monotone.
	for i := 0; i < NumPoints-1; i++ {
		if d[i] == 0 {
			c.m[i] = 0
			c.m[i+1] = 0
			continue
		}
		a := c.m[i] / d[i]
		b := c.m[i+1] / d[i]
		s := a*a + b*b
		if s > 9 {
			t := 3 / math.Sqrt(s)
			c.m[i] = t * a * d[i]
			c.m[i+1] = t * b * d[i]
		}
	}

	return c, nil
}

// Eval returns the interpolated y for x, clamped to [0,1]. Inputs outside
// [0,1] clamp to the endpoint values.
func (c *Curve) Eval(x float64) float64 {
	x = raster.Clamp01(x)
	if x <= c.pts[0].X {
		return c.pts[0].Y
	}
	if x >= c.pts[NumPoints-1].X {
		return c.pts[NumPoints-1].Y
	}

	// Find the segment containing x. With five points a linear scan beats
	// anything fancier.
	i := 0
	for i < NumPoints-2 && x >= c.pts[i+1].X {
		i++
	}

	p0, p1 := c.pts[i], c.pts[i+1]
	h := p1.X - p0.X
	t := (x - p0.X) / h
	t2 := t * t
	t3 := t2 * t

	h00 := 2*t3 - 3*t2 + 1
	h10 := t3 - 2*t2 + t
	h01 := -2*t3 + 3*t2
	h11 := t3 - t2

	y := h00*p0.Y + h10*h*c.m[i] + h01*p1.Y + h11*h*c.m[i+1]
	return raster.Clamp01(y)
}
