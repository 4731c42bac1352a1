// Package noise synthesizes the grayscale random fields used for film
// grain. The generator is seedable so tests can pin exact output; callers
// that want fresh grain per image draw a seed themselves.
package noise

import (
	"math/rand"

	"github.com/imamik/filmlook/internal/raster"
)

// Uniform returns a w×h grayscale buffer of uniformly distributed samples
// in [0,1), uncorrelated between adjacent pixels. The same seed and
// dimensions always produce bit-identical output.
func Uniform(w, h int, seed int64) (*raster.Buffer, error) {
	buf, err := raster.NewGray(w, h)
	if err != nil {
		return nil, err
	}
	rng := rand.New(rand.NewSource(seed))
	for i := 0; i < len(buf.Pix); i += 4 {
		v := rng.Float64()
		buf.Pix[i+0] = v
		buf.Pix[i+1] = v
		buf.Pix[i+2] = v
		buf.Pix[i+3] = 1
	}
	return buf, nil
}
