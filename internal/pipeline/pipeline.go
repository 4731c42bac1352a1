// Package pipeline wires the film-look stages into one ordered,
// construct-once invoke-many unit and owns the run lifecycle: sequential
// stage execution, cancellation, and the degrade-to-identity policy for
// recoverable stage failures.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync/atomic"
	"time"

	"github.com/imamik/filmlook/internal/logging"
	"github.com/imamik/filmlook/internal/preset"
	"github.com/imamik/filmlook/internal/raster"
	"github.com/imamik/filmlook/internal/stage"
)

// ErrRenderingFailed reports that a stage produced an unusable buffer
// (nil or wrong dimensions). It aborts the run; no partial image is ever
// returned.
var ErrRenderingFailed = errors.New("pipeline: rendering failed")

// State tracks one run through the orchestrator.
type State int32

const (
	StateIdle State = iota
	StateRunning
	StateSucceeded
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateSucceeded:
		return "succeeded"
	case StateFailed:
		return "failed"
	}
	return "unknown"
}

// FreshSeeds returns a seed source that draws a new seed per grain
// invocation, the production default.
func FreshSeeds() func() int64 {
	return func() int64 { return time.Now().UnixNano() ^ rand.Int63() }
}

// FixedSeed returns a seed source that always yields s, for reproducible
// output.
func FixedSeed(s int64) func() int64 {
	return func() int64 { return s }
}

// Pipeline is the ordered stage list plus the preset. Construct once,
// invoke many times; concurrent Run calls are safe because each run owns
// its buffer chain exclusively and the preset is read-only.
type Pipeline struct {
	preset   preset.Preset
	stages   []stage.Stage
	degraded atomic.Int64 // total identity fallbacks across all runs
}

// New validates the preset and builds the fixed stage order: temperature,
// color controls, tone curve, color matrix, split-toning, bloom, grain,
// vignette. Reordering changes output, so the order lives only here.
func New(p preset.Preset, seed func() int64) (*Pipeline, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if seed == nil {
		seed = FreshSeeds()
	}
	return &Pipeline{
		preset: p,
		stages: []stage.Stage{
			stage.Temperature(),
			stage.ColorControls(),
			stage.ToneCurve(),
			stage.ColorMatrix(),
			stage.SplitTone(),
			stage.Bloom(),
			stage.Grain(seed),
			stage.Vignette(),
		},
	}, nil
}

// StageNames returns the pinned execution order.
func (pl *Pipeline) StageNames() []string {
	names := make([]string, len(pl.stages))
	for i, st := range pl.stages {
		names[i] = st.Name
	}
	return names
}

// DegradedTotal reports how many stage invocations have fallen back to
// identity since the pipeline was built.
func (pl *Pipeline) DegradedTotal() int64 {
	return pl.degraded.Load()
}

// Result is the outcome of one run. On failure State is StateFailed,
// Buffer is nil and Degraded lists whatever fallbacks happened before the
// abort.
type Result struct {
	Buffer   *raster.Buffer
	State    State
	Degraded []string // names of stages that fell back to identity
}

// Run executes the stages strictly sequentially over src and returns the
// final buffer. Cancellation between stages discards all intermediates and
// returns the context error. A fatal stage error aborts immediately with
// the failing stage named; recoverable failures degrade that stage to
// identity and the run continues. Aborted runs return a buffer-less Result
// in StateFailed alongside the error, never a partial image.
func (pl *Pipeline) Run(ctx context.Context, src *raster.Buffer) (*Result, error) {
	if err := src.Validate(); err != nil {
		return nil, err
	}

	log := logging.Logger()
	res := &Result{State: StateRunning}
	cur := src

	for _, st := range pl.stages {
		if err := ctx.Err(); err != nil {
			res.State = StateFailed
			return res, fmt.Errorf("pipeline canceled before stage %q: %w", st.Name, err)
		}

		start := time.Now()
		out, err := st.Apply(cur, &pl.preset)
		switch {
		case errors.Is(err, stage.ErrDegraded):
			pl.degraded.Add(1)
			res.Degraded = append(res.Degraded, st.Name)
			log.Warn("stage degraded to identity", "stage", st.Name, "err", err)
			continue
		case err != nil:
			res.State = StateFailed
			return res, fmt.Errorf("stage %q: %w", st.Name, err)
		case out == nil:
			res.State = StateFailed
			return res, fmt.Errorf("%w: stage %q returned no buffer", ErrRenderingFailed, st.Name)
		case !out.SameSize(cur):
			res.State = StateFailed
			return res, fmt.Errorf("%w: stage %q resized %dx%d to %dx%d",
				ErrRenderingFailed, st.Name, cur.W, cur.H, out.W, out.H)
		}
		log.Debug("stage done", "stage", st.Name, "elapsed", time.Since(start))
		cur = out
	}

	res.Buffer = cur
	res.State = StateSucceeded
	return res, nil
}
