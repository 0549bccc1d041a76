package metrics

import (
	"math"
	"testing"

	"github.com/san-kum/physim/internal/body"
	"github.com/san-kum/physim/internal/constraints"
	"github.com/san-kum/physim/internal/vec"
)

func TestEnergyMean(t *testing.T) {
	m := NewEnergy()

	m.Observe(Sample{Energy: 2})
	m.Observe(Sample{Energy: 4})

	if math.Abs(m.Value()-3) > 1e-12 {
		t.Errorf("expected mean energy 3, got %f", m.Value())
	}
}

func TestEnergyReset(t *testing.T) {
	m := NewEnergy()

	m.Observe(Sample{Energy: 5})
	m.Reset()

	if m.Value() != 0 {
		t.Errorf("expected 0 after reset, got %f", m.Value())
	}
}

func TestEnergyDrift(t *testing.T) {
	m := NewEnergyDrift()

	for _, e := range []float64{10, 9, 11.5, 10} {
		m.Observe(Sample{Energy: e})
	}

	if math.Abs(m.Value()-0.15) > 1e-12 {
		t.Errorf("expected max drift 0.15, got %f", m.Value())
	}

	m.Reset()
	m.Observe(Sample{Energy: 0})
	m.Observe(Sample{Energy: 1})
	if m.Value() != 0 {
		t.Errorf("zero initial energy should not report drift, got %f", m.Value())
	}
}

func TestStability(t *testing.T) {
	p, err := body.NewParticle(body.Options{})
	if err != nil {
		t.Fatal(err)
	}
	m := NewStability(100)
	s := Sample{Entities: []body.Entity{p}}

	m.Observe(s)
	p.Position = vec.New(0, 150, 0)
	m.Observe(s)
	p.Position = vec.New(math.NaN(), 0, 0)
	m.Observe(s)
	p.Position = vec.Zero
	m.Observe(s)

	if math.Abs(m.Value()-0.5) > 1e-12 {
		t.Errorf("expected stability 0.5, got %f", m.Value())
	}
}

func TestCollisions(t *testing.T) {
	m := NewCollisions()
	m.Record(constraints.CollisionData{Overlap: -0.5})
	m.Record(constraints.CollisionData{Overlap: -2})
	m.Observe(Sample{})

	if m.Value() != 2 {
		t.Errorf("expected 2 collisions, got %f", m.Value())
	}
	if m.Deepest() != -2 {
		t.Errorf("expected deepest -2, got %f", m.Deepest())
	}
}
