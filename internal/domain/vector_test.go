package domain

import (
	"errors"
	"math"
	"testing"

	"github.com/fitmatch-tech/catalog-backend/pkg/e"
)

func TestVectorNormalized(t *testing.T) {
	v := Vector{3, 4}

	got, err := v.Normalized()
	if err != nil {
		t.Fatalf("Normalized: %v", err)
	}

	if math.Abs(got.Norm()-1) > 1e-4 {
		t.Errorf("norm = %v, want 1", got.Norm())
	}

	if got[0] != 0.6 || got[1] != 0.8 {
		t.Errorf("got %v, want [0.6 0.8]", got)
	}

	// исходный вектор не должен меняться
	if v[0] != 3 || v[1] != 4 {
		t.Errorf("source vector mutated: %v", v)
	}
}

func TestVectorNormalizedDegenerate(t *testing.T) {
	tests := []struct {
		name string
		v    Vector
		want error
	}{
		{"nan component", Vector{1, float32(math.NaN())}, e.ErrDegenerateEmbedding},
		{"inf component", Vector{float32(math.Inf(1)), 0}, e.ErrDegenerateEmbedding},
		{"zero vector", Vector{0, 0, 0}, e.ErrDegenerateEmbedding},
		{"empty vector", Vector{}, e.ErrEmptyVectors},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := tt.v.Normalized(); !errors.Is(err, tt.want) {
				t.Errorf("Normalized() err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestPointIDNumericPassthrough(t *testing.T) {
	if got := PointID("8055879329874"); got != 8055879329874 {
		t.Errorf("PointID = %d, want passthrough", got)
	}
}

func TestPointIDHashed(t *testing.T) {
	a := PointID("terminalx:ABC123")
	b := PointID("terminalx:ABC123")
	c := PointID("terminalx:ABC124")

	if a != b {
		t.Errorf("PointID not deterministic: %d != %d", a, b)
	}

	if a == c {
		t.Errorf("distinct ids collided: %d", a)
	}

	if a >= 1<<63 {
		t.Errorf("PointID %d exceeds 63-bit range", a)
	}
}
