package noise

import (
	"errors"
	"testing"

	"github.com/imamik/filmlook/internal/raster"
)

func TestUniformDeterministic(t *testing.T) {
	a, err := Uniform(32, 24, 42)
	if err != nil {
		t.Fatalf("Uniform() error = %v", err)
	}
	b, err := Uniform(32, 24, 42)
	if err != nil {
		t.Fatalf("Uniform() error = %v", err)
	}

	for i := range a.Pix {
		if a.Pix[i] != b.Pix[i] {
			t.Fatalf("same seed diverged at sample %d: %v vs %v", i, a.Pix[i], b.Pix[i])
		}
	}
}

func TestUniformSeedsDiffer(t *testing.T) {
	a, _ := Uniform(32, 24, 1)
	b, _ := Uniform(32, 24, 2)

	same := true
	for i := range a.Pix {
		if a.Pix[i] != b.Pix[i] {
			same = false
			break
		}
	}
	if same {
		t.Fatal("different seeds produced identical fields")
	}
}

func TestUniformRange(t *testing.T) {
	buf, err := Uniform(64, 64, 7)
	if err != nil {
		t.Fatalf("Uniform() error = %v", err)
	}
	for i := 0; i < len(buf.Pix); i += 4 {
		v := buf.Pix[i]
		if v < 0 || v >= 1 {
			t.Fatalf("sample %d = %v outside [0,1)", i/4, v)
		}
		if buf.Pix[i+1] != v || buf.Pix[i+2] != v {
			t.Fatalf("sample %d is not grayscale", i/4)
		}
		if buf.Pix[i+3] != 1 {
			t.Fatalf("sample %d alpha = %v, want 1", i/4, buf.Pix[i+3])
		}
	}
}

func TestUniformInvalidDimensions(t *testing.T) {
	if _, err := Uniform(0, 10, 1); !errors.Is(err, raster.ErrInvalidInput) {
		t.Errorf("Uniform(0,10) error = %v, want ErrInvalidInput", err)
	}
	if _, err := Uniform(10, -1, 1); !errors.Is(err, raster.ErrInvalidInput) {
		t.Errorf("Uniform(10,-1) error = %v, want ErrInvalidInput", err)
	}
}
