package pipeline

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"hash/fnv"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"testing"

	"github.com/imamik/filmlook/internal/preset"
	"github.com/imamik/filmlook/internal/raster"
	"github.com/imamik/filmlook/internal/stage"
)

var updateGolden = flag.Bool("update", false, "rewrite golden fixtures")

func midGray(t *testing.T, w, h int) *raster.Buffer {
	t.Helper()
	buf, err := raster.New(w, h)
	if err != nil {
		t.Fatalf("raster.New() error = %v", err)
	}
	for i := 0; i < len(buf.Pix); i += 4 {
		buf.Pix[i+0] = 0.5
		buf.Pix[i+1] = 0.5
		buf.Pix[i+2] = 0.5
		buf.Pix[i+3] = 1
	}
	return buf
}

func bufferFingerprint(buf *raster.Buffer) uint64 {
	h := fnv.New64a()
	for _, v := range buf.Pix {
		bits := math.Float64bits(v)
		_, _ = h.Write([]byte{
			byte(bits), byte(bits >> 8), byte(bits >> 16), byte(bits >> 24),
			byte(bits >> 32), byte(bits >> 40), byte(bits >> 48), byte(bits >> 56),
		})
	}
	return h.Sum64()
}

func TestNewRejectsInvalidPreset(t *testing.T) {
	p := preset.CPM35()
	p.GrainAlpha = 5
	if _, err := New(p, nil); err == nil {
		t.Fatal("New() accepted an invalid preset")
	}
}

func TestStageOrderPinned(t *testing.T) {
	pl, err := New(preset.CPM35(), nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	want := []string{
		"temperature",
		"color-controls",
		"tone-curve",
		"color-matrix",
		"split-tone",
		"bloom",
		"grain",
		"vignette",
	}
	got := pl.StageNames()
	if len(got) != len(want) {
		t.Fatalf("StageNames() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("stage %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestRunPreservesDimensions(t *testing.T) {
	pl, err := New(preset.CPM35(), FixedSeed(1))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	for _, dims := range [][2]int{{1, 1}, {4, 4}, {33, 17}, {100, 100}} {
		src := midGray(t, dims[0], dims[1])
		res, err := pl.Run(context.Background(), src)
		if err != nil {
			t.Fatalf("Run(%dx%d) error = %v", dims[0], dims[1], err)
		}
		if res.Buffer.W != dims[0] || res.Buffer.H != dims[1] {
			t.Errorf("Run(%dx%d) output = %dx%d", dims[0], dims[1], res.Buffer.W, res.Buffer.H)
		}
		if res.State != StateSucceeded {
			t.Errorf("Run(%dx%d) state = %v, want succeeded", dims[0], dims[1], res.State)
		}
	}
}

func TestRunInvalidInput(t *testing.T) {
	pl, err := New(preset.CPM35(), FixedSeed(1))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	tests := []struct {
		name string
		buf  *raster.Buffer
	}{
		{"nil buffer", nil},
		{"zero width", &raster.Buffer{W: 0, H: 4}},
		{"zero height", &raster.Buffer{W: 4, H: 0}},
		{"short pix", &raster.Buffer{W: 4, H: 4, Pix: make([]float64, 8)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := pl.Run(context.Background(), tt.buf)
			if !errors.Is(err, raster.ErrInvalidInput) {
				t.Errorf("Run() error = %v, want ErrInvalidInput", err)
			}
			if res != nil {
				t.Error("Run() returned a result for invalid input")
			}
		})
	}
}

func TestRunDeterministicWithFixedSeed(t *testing.T) {
	pl, err := New(preset.CPM35(), FixedSeed(42))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	a, err := pl.Run(context.Background(), midGray(t, 24, 24))
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	b, err := pl.Run(context.Background(), midGray(t, 24, 24))
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if bufferFingerprint(a.Buffer) != bufferFingerprint(b.Buffer) {
		t.Fatal("same seed and preset produced different output")
	}
}

func TestRunSeedsVaryOutput(t *testing.T) {
	src := midGray(t, 24, 24)

	run := func(seed int64) uint64 {
		pl, err := New(preset.CPM35(), FixedSeed(seed))
		if err != nil {
			t.Fatalf("New() error = %v", err)
		}
		res, err := pl.Run(context.Background(), src.Clone())
		if err != nil {
			t.Fatalf("Run() error = %v", err)
		}
		return bufferFingerprint(res.Buffer)
	}

	if run(1) == run(2) {
		t.Fatal("different grain seeds produced identical output")
	}
}

func TestRunDoesNotMutateInput(t *testing.T) {
	pl, err := New(preset.CPM35(), FixedSeed(3))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	src := midGray(t, 8, 8)
	before := bufferFingerprint(src)
	if _, err := pl.Run(context.Background(), src); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if bufferFingerprint(src) != before {
		t.Fatal("Run() mutated the input buffer")
	}
}

func TestRunCanceledContext(t *testing.T) {
	pl, err := New(preset.CPM35(), FixedSeed(1))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := pl.Run(ctx, midGray(t, 16, 16))
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Run() error = %v, want context.Canceled", err)
	}
	if res == nil || res.State != StateFailed {
		t.Errorf("Run() result = %+v, want StateFailed", res)
	}
	if res != nil && res.Buffer != nil {
		t.Error("Run() returned a partial image after cancellation")
	}
}

func TestRunConcurrentInvocations(t *testing.T) {
	pl, err := New(preset.CPM35(), FixedSeed(11))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	want, err := pl.Run(context.Background(), midGray(t, 20, 20))
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	wantFP := bufferFingerprint(want.Buffer)

	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := pl.Run(context.Background(), midGray(t, 20, 20))
			if err != nil {
				errs <- err
				return
			}
			if bufferFingerprint(res.Buffer) != wantFP {
				errs <- fmt.Errorf("concurrent run diverged")
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}
}

func TestRunDegradeToIdentity(t *testing.T) {
	p := preset.CPM35()
	pl := &Pipeline{
		preset: p,
		stages: []stage.Stage{
			{
				Name: "broken",
				Apply: func(buf *raster.Buffer, _ *preset.Preset) (*raster.Buffer, error) {
					return nil, fmt.Errorf("%w: no output", stage.ErrDegraded)
				},
			},
			stage.Vignette(),
		},
	}

	src := midGray(t, 8, 8)
	res, err := pl.Run(context.Background(), src)
	if err != nil {
		t.Fatalf("Run() error = %v, degrade should not abort", err)
	}
	if len(res.Degraded) != 1 || res.Degraded[0] != "broken" {
		t.Errorf("Degraded = %v, want [broken]", res.Degraded)
	}
	if pl.DegradedTotal() != 1 {
		t.Errorf("DegradedTotal() = %d, want 1", pl.DegradedTotal())
	}
	if res.State != StateSucceeded {
		t.Errorf("State = %v, want succeeded", res.State)
	}
}

func TestRunFatalStageAborts(t *testing.T) {
	sentinel := errors.New("boom")
	pl := &Pipeline{
		preset: preset.CPM35(),
		stages: []stage.Stage{
			{
				Name: "exploding",
				Apply: func(buf *raster.Buffer, _ *preset.Preset) (*raster.Buffer, error) {
					return nil, sentinel
				},
			},
		},
	}

	res, err := pl.Run(context.Background(), midGray(t, 8, 8))
	if !errors.Is(err, sentinel) {
		t.Errorf("Run() error = %v, want the stage error", err)
	}
	if res == nil || res.State != StateFailed {
		t.Errorf("Run() result = %+v, want StateFailed", res)
	}
	if res != nil && res.Buffer != nil {
		t.Error("Run() returned an image after a fatal stage error")
	}
}

func TestRunResizingStageIsFatal(t *testing.T) {
	pl := &Pipeline{
		preset: preset.CPM35(),
		stages: []stage.Stage{
			{
				Name: "resizer",
				Apply: func(buf *raster.Buffer, _ *preset.Preset) (*raster.Buffer, error) {
					return raster.New(buf.W+1, buf.H)
				},
			},
		},
	}

	res, err := pl.Run(context.Background(), midGray(t, 8, 8))
	if !errors.Is(err, ErrRenderingFailed) {
		t.Errorf("Run() error = %v, want ErrRenderingFailed", err)
	}
	if res == nil || res.State != StateFailed {
		t.Errorf("Run() result = %+v, want StateFailed", res)
	}
}

// The 4x4 mid-gray scenario: the default look must warm the image
// (red up, blue down against the input) and the vignette must leave
// corners darker than the center.
func TestRunMidGrayScenario(t *testing.T) {
	pl, err := New(preset.CPM35(), FixedSeed(42))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	res, err := pl.Run(context.Background(), midGray(t, 4, 4))
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	cr, cg, cb, _ := res.Buffer.At(1, 1)
	if cr <= 0.5 {
		t.Errorf("center red = %v, want > 0.5 (warmer than input)", cr)
	}
	if cb >= 0.5 {
		t.Errorf("center blue = %v, want < 0.5 (warmer than input)", cb)
	}

	centerLum := raster.Luma(cr, cg, cb)
	cornerR, cornerG, cornerB, _ := res.Buffer.At(0, 0)
	cornerLum := raster.Luma(cornerR, cornerG, cornerB)
	if cornerLum >= centerLum {
		t.Errorf("corner luma %v should be below center luma %v (vignette)", cornerLum, centerLum)
	}
}

// goldenBytes renders every sample as an exact hex float, one per line, so
// the fixture pins the output bit for bit.
func goldenBytes(buf *raster.Buffer) []byte {
	var b bytes.Buffer
	for _, v := range buf.Pix {
		b.WriteString(strconv.FormatFloat(v, 'x', -1, 64))
		b.WriteByte('\n')
	}
	return b.Bytes()
}

func writeGolden(t *testing.T, path string, data []byte) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// The 4x4 mid-gray output under the default look with seed 42 is pinned
// against a committed fixture. The file is written on the first run and
// checked thereafter; after an intentional formula change, regenerate it
// with -update.
func TestRunMidGrayGoldenPinned(t *testing.T) {
	pl, err := New(preset.CPM35(), FixedSeed(42))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	res, err := pl.Run(context.Background(), midGray(t, 4, 4))
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	got := goldenBytes(res.Buffer)
	path := filepath.Join("testdata", "midgray_cpm35_seed42.golden")

	if *updateGolden {
		writeGolden(t, path, got)
		return
	}

	want, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		writeGolden(t, path, got)
		t.Logf("wrote %s; commit it to pin the output", path)
		return
	}
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	if !bytes.Equal(want, got) {
		t.Fatalf("output drifted from %s; rerun with -update only after an intentional change", path)
	}
}

func BenchmarkRun(b *testing.B) {
	pl, err := New(preset.CPM35(), FixedSeed(1))
	if err != nil {
		b.Fatalf("New() error = %v", err)
	}
	src, _ := raster.New(200, 200)
	for i := range src.Pix {
		src.Pix[i] = 0.5
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := pl.Run(context.Background(), src); err != nil {
			b.Fatal(err)
		}
	}
}
