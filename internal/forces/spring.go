package forces

import (
	"math"

	"github.com/san-kum/physim/internal/body"
	"github.com/san-kum/physim/internal/dynamo"
	"github.com/san-kum/physim/internal/vec"
)

// MinPeriod is the shortest spring period in ms; shorter ones are clamped.
// Faster motion should use a snap constraint instead.
const MinPeriod = 150.0

// ForceFunction maps the spring extension to a force magnitude.
type ForceFunction int

const (
	Hook ForceFunction = iota
	FENE
)

func (f ForceFunction) eval(dist, maxLength float64) float64 {
	if f != FENE || math.IsInf(maxLength, 1) {
		return dist
	}
	rMaxSmall := maxLength * 0.99
	r := math.Max(math.Min(dist, rMaxSmall), -rMaxSmall)
	return r / (1 - r*r/(maxLength*maxLength))
}

type SpringOptions struct {
	Period        float64 `mapstructure:"period"`
	DampingRatio  float64 `mapstructure:"damping_ratio"`
	Length        float64 `mapstructure:"length"`
	MaxLength     float64 `mapstructure:"max_length"`
	Anchor        *vec.Vector3  `mapstructure:"-"`
	ForceFunction ForceFunction `mapstructure:"-"`
}

func DefaultSpringOptions() SpringOptions {
	return SpringOptions{
		Period:       300,
		DampingRatio: 0.1,
		MaxLength:    math.Inf(1),
	}
}

// Spring pulls each target toward the anchor (or the source body) with
// stiffness (2π/period)²·m and damping 4π·ζ/period·m. A source receives the
// opposite force.
type Spring struct {
	base
	opts      SpringOptions
	stiffness float64
	damping   float64
}

func NewSpring(opts SpringOptions) (*Spring, error) {
	s := &Spring{}
	if err := s.setOptions(opts); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Spring) Options() SpringOptions { return s.opts }

// PeriodClamped reports whether period would be raised to MinPeriod.
func PeriodClamped(period float64) bool { return period > 0 && period < MinPeriod }

func (s *Spring) SetOptions(opts SpringOptions) error {
	if err := s.setOptions(opts); err != nil {
		return err
	}
	s.changed(s)
	return nil
}

func (s *Spring) setOptions(opts SpringOptions) error {
	if err := validatePeriod("spring", opts.Period, opts.DampingRatio); err != nil {
		return err
	}
	if opts.Length < 0 {
		return dynamo.InvalidOption("spring", "length", opts.Length)
	}
	if opts.MaxLength == 0 {
		opts.MaxLength = math.Inf(1)
	}
	if opts.MaxLength < 0 {
		return dynamo.InvalidOption("spring", "maxLength", opts.MaxLength)
	}
	if opts.Period < MinPeriod {
		opts.Period = MinPeriod
	}
	s.opts = opts
	s.stiffness, s.damping = springConstants(opts.Period, opts.DampingRatio)
	return nil
}

func (s *Spring) SetAnchor(a vec.Vector3) {
	s.opts.Anchor = &a
	s.changed(s)
}

func (s *Spring) ApplyForce(targets []body.Entity, source body.Entity) {
	anchor, ok := anchorOf(s.opts.Anchor, source)
	if !ok {
		return
	}
	for _, t := range targets {
		p := t.Point()
		if p.InverseMass() == 0 {
			continue
		}
		disp := anchor.Sub(p.Position)
		dist := disp.Norm() - s.opts.Length
		if dist == 0 {
			continue
		}

		m := p.Mass()
		k := s.stiffness * m
		c := s.damping * m

		force := disp.Normalize(k * s.opts.ForceFunction.eval(dist, s.opts.MaxLength))
		if c != 0 {
			rel := p.Velocity
			if source != nil {
				rel = rel.Sub(source.Point().Velocity)
			}
			force = force.Add(rel.Mult(-c))
		}

		p.ApplyForce(force)
		if source != nil {
			source.Point().ApplyForce(force.Negate())
		}
	}
}

// Energy is the elastic energy ½·k·m·(|d| - length)² summed over targets.
func (s *Spring) Energy(targets []body.Entity, source body.Entity) float64 {
	anchor, ok := anchorOf(s.opts.Anchor, source)
	if !ok {
		return 0
	}
	var energy float64
	for _, t := range targets {
		p := t.Point()
		if p.InverseMass() == 0 {
			continue
		}
		dist := anchor.Sub(p.Position).Norm() - s.opts.Length
		energy += 0.5 * s.stiffness * p.Mass() * dist * dist
	}
	return energy
}
