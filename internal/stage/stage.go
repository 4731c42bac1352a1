// Package stage implements the individual film-look operators. Each stage
// is a pure transformation from one pixel buffer to a new one, driven by
// the shared preset. Stages never mutate their input or the preset, so the
// orchestrator may run independent buffers through them concurrently.
package stage

import (
	"errors"

	"github.com/imamik/filmlook/internal/preset"
	"github.com/imamik/filmlook/internal/raster"
)

// ErrDegraded marks a recoverable stage failure. The orchestrator responds
// by keeping the previous buffer (identity fallback) and continuing; it is
// counted and logged rather than silently absorbed.
var ErrDegraded = errors.New("stage degraded to identity")

// Func transforms a buffer under a preset. It either returns a new buffer,
// an ErrDegraded-wrapped error (recoverable, caller falls back to its
// input) or any other error (fatal, aborts the pipeline run).
type Func func(buf *raster.Buffer, p *preset.Preset) (*raster.Buffer, error)

// Stage is a named operator in the pipeline.
type Stage struct {
	Name  string
	Apply Func
}
