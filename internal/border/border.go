// Package border draws a classic photographic print border around a
// finished image: rounded corners, a hairline edge and an off-white mat.
package border

import (
	"fmt"
	"image"
	"image/color"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"
)

// Style describes one border look. Margin is a fraction of the smaller
// image dimension.
type Style struct {
	Margin       float64
	CornerRadius float64
	MatColor     color.RGBA
	EdgeColor    color.RGBA
	EdgeWidth    float64
}

// Classic is the default white-mat print border.
func Classic() Style {
	return Style{
		Margin:       0.05,
		CornerRadius: 5.0,
		MatColor:     color.RGBA{252, 252, 250, 255},
		EdgeColor:    color.RGBA{60, 60, 60, 200},
		EdgeWidth:    1.5,
	}
}

// Add surrounds img with the given border style. The image itself keeps
// its dimensions; the mat grows the canvas by the margin on every side.
func Add(img image.Image, s Style) (image.Image, error) {
	if img == nil {
		return nil, fmt.Errorf("border: nil image")
	}
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 {
		return nil, fmt.Errorf("border: empty image %dx%d", w, h)
	}

	dc := gg.NewContext(w, h)
	dc.SetColor(color.Transparent)
	dc.Clear()

	dc.DrawRoundedRectangle(0, 0, float64(w), float64(h), s.CornerRadius)
	dc.Clip()
	dc.DrawImage(img, -b.Min.X, -b.Min.Y)
	dc.ResetClip()

	dc.DrawRoundedRectangle(0.5, 0.5, float64(w)-1.0, float64(h)-1.0, s.CornerRadius)
	dc.SetColor(s.EdgeColor)
	dc.SetLineWidth(s.EdgeWidth)
	dc.Stroke()

	margin := int(float64(min(w, h)) * s.Margin)
	if margin < 1 {
		margin = 1
	}
	mat := imaging.New(w+2*margin, h+2*margin, s.MatColor)
	return imaging.Overlay(mat, dc.Image(), image.Pt(margin, margin), 1.0), nil
}
