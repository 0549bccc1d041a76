package constraints

import (
	"math"

	"github.com/san-kum/physim/internal/body"
	"github.com/san-kum/physim/internal/dynamo"
	"github.com/san-kum/physim/internal/vec"
)

type DistanceOptions struct {
	Anchor       *vec.Vector3 `mapstructure:"-"`
	Length       float64      `mapstructure:"length"`
	MinLength    float64      `mapstructure:"min_length"`
	Period       float64      `mapstructure:"period"`
	DampingRatio float64      `mapstructure:"damping_ratio"`
}

func DefaultDistanceOptions() DistanceOptions {
	return DistanceOptions{}
}

// Distance keeps each target at Length from the source, or from Anchor when
// there is no source. Deviations within MinLength are tolerated.
type Distance struct {
	base
	opts DistanceOptions
}

func NewDistance(opts DistanceOptions) (*Distance, error) {
	d := &Distance{}
	if err := validateDistance(opts); err != nil {
		return nil, err
	}
	d.opts = opts
	return d, nil
}

func validateDistance(opts DistanceOptions) error {
	if opts.Length < 0 || math.IsNaN(opts.Length) {
		return dynamo.InvalidOption("distance", "length", opts.Length)
	}
	if opts.MinLength < 0 || math.IsNaN(opts.MinLength) {
		return dynamo.InvalidOption("distance", "minLength", opts.MinLength)
	}
	return validateSoftness("distance", opts.Period, opts.DampingRatio)
}

func (d *Distance) Options() DistanceOptions { return d.opts }

func (d *Distance) SetOptions(opts DistanceOptions) error {
	if err := validateDistance(opts); err != nil {
		return err
	}
	d.opts = opts
	d.changed(d)
	return nil
}

func (d *Distance) SetAnchor(a vec.Vector3) {
	d.opts.Anchor = &a
	d.changed(d)
}

func (d *Distance) ApplyConstraint(targets []body.Entity, source body.Entity, dt float64) {
	var (
		p2, v2 vec.Vector3
		w2     float64
		s      *body.Particle
	)
	switch {
	case source != nil:
		s = source.Point()
		p2, v2, w2 = s.Position, s.Velocity, s.InverseMass()
	case d.opts.Anchor != nil:
		p2 = *d.opts.Anchor
	default:
		return
	}

	for _, t := range targets {
		if t == source {
			continue
		}
		p := t.Point()
		w := p.InverseMass() + w2
		if w == 0 {
			continue
		}

		diffP := p.Position.Sub(p2)
		dist := diffP.Norm() - d.opts.Length
		if math.Abs(dist) < d.opts.MinLength {
			continue
		}
		n := diffP.Unit()
		effMass := 1 / w
		gamma, beta := softness(d.opts.Period, d.opts.DampingRatio, effMass, dt)

		lambda := -(n.Dot(p.Velocity.Sub(v2)) + beta/dt*dist) / (gamma + dt/effMass)
		impulse := n.Mult(dt * lambda)
		p.ApplyImpulse(impulse)
		if s != nil {
			s.ApplyImpulse(impulse.Negate())
		}
	}
}

func (d *Distance) Energy(_ []body.Entity, _ body.Entity) float64 { return 0 }
