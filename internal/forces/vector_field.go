package forces

import (
	"github.com/san-kum/physim/internal/body"
	"github.com/san-kum/physim/internal/dynamo"
	"github.com/san-kum/physim/internal/vec"
)

type Field int

const (
	Constant Field = iota
	LinearField
	Radial
	PointAttractor
	SphereAttractor
)

type VectorFieldOptions struct {
	Strength  float64     `mapstructure:"strength"`
	Field     Field       `mapstructure:"-"`
	Direction vec.Vector3 `mapstructure:"-"`
	Position  vec.Vector3 `mapstructure:"-"`
	Radius    float64     `mapstructure:"radius"`
}

func DefaultVectorFieldOptions() VectorFieldOptions {
	return VectorFieldOptions{
		Strength:  0.01,
		Field:     Constant,
		Direction: vec.UnitY,
		Radius:    1,
	}
}

// VectorField applies field(position)·strength·mass to every target.
type VectorField struct {
	base
	opts VectorFieldOptions
}

func NewVectorField(opts VectorFieldOptions) (*VectorField, error) {
	f := &VectorField{}
	if err := f.setOptions(opts); err != nil {
		return nil, err
	}
	return f, nil
}

func (f *VectorField) Options() VectorFieldOptions { return f.opts }

func (f *VectorField) SetOptions(opts VectorFieldOptions) error {
	if err := f.setOptions(opts); err != nil {
		return err
	}
	f.changed(f)
	return nil
}

func (f *VectorField) setOptions(opts VectorFieldOptions) error {
	if opts.Field < Constant || opts.Field > SphereAttractor {
		return dynamo.InvalidOption("vector_field", "field", float64(opts.Field))
	}
	if opts.Field == SphereAttractor && !(opts.Radius > 0) {
		return dynamo.InvalidOption("vector_field", "radius", opts.Radius)
	}
	f.opts = opts
	return nil
}

// Evaluate returns the unscaled field at x.
func (f *VectorField) Evaluate(x vec.Vector3) vec.Vector3 {
	switch f.opts.Field {
	case LinearField:
		return x
	case Radial:
		return x.Negate()
	case PointAttractor:
		return f.opts.Position.Sub(x)
	case SphereAttractor:
		n := x.Norm()
		if n == 0 {
			return vec.Zero
		}
		return x.Mult((f.opts.Radius - n) / n)
	default:
		return f.opts.Direction
	}
}

func (f *VectorField) ApplyForce(targets []body.Entity, _ body.Entity) {
	for _, t := range targets {
		p := t.Point()
		if p.InverseMass() == 0 {
			continue
		}
		p.ApplyForce(f.Evaluate(p.Position).Mult(f.opts.Strength * p.Mass()))
	}
}

// Energy is the field potential for the conservative fields; attractors
// toward a sphere report zero.
func (f *VectorField) Energy(targets []body.Entity, _ body.Entity) float64 {
	var energy float64
	s := f.opts.Strength
	for _, t := range targets {
		p := t.Point()
		if p.InverseMass() == 0 {
			continue
		}
		m, x := p.Mass(), p.Position
		switch f.opts.Field {
		case Constant:
			energy -= s * m * f.opts.Direction.Dot(x)
		case LinearField:
			energy -= 0.5 * s * m * x.NormSquared()
		case Radial:
			energy += 0.5 * s * m * x.NormSquared()
		case PointAttractor:
			energy += 0.5 * s * m * f.opts.Position.Sub(x).NormSquared()
		}
	}
	return energy
}
