package forces

import (
	"github.com/san-kum/physim/internal/body"
	"github.com/san-kum/physim/internal/dynamo"
	"github.com/san-kum/physim/internal/vec"
)

type RotationalSpringOptions struct {
	Period       float64 `mapstructure:"period"`
	DampingRatio float64 `mapstructure:"damping_ratio"`
	Length       float64 `mapstructure:"length"`
	// Anchor is the rest orientation; zero means the source orientation, or
	// identity without a rigid source.
	Anchor vec.Quaternion `mapstructure:"-"`
}

func DefaultRotationalSpringOptions() RotationalSpringOptions {
	return RotationalSpringOptions{Period: 300, DampingRatio: 0.1}
}

// RotationalSpring applies a torque turning rigid targets toward the anchor
// orientation. Point particles are ignored.
type RotationalSpring struct {
	base
	opts      RotationalSpringOptions
	stiffness float64
	damping   float64
}

func NewRotationalSpring(opts RotationalSpringOptions) (*RotationalSpring, error) {
	s := &RotationalSpring{}
	if err := s.setOptions(opts); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *RotationalSpring) Options() RotationalSpringOptions { return s.opts }

func (s *RotationalSpring) SetOptions(opts RotationalSpringOptions) error {
	if err := s.setOptions(opts); err != nil {
		return err
	}
	s.changed(s)
	return nil
}

func (s *RotationalSpring) setOptions(opts RotationalSpringOptions) error {
	if err := validatePeriod("rotational_spring", opts.Period, opts.DampingRatio); err != nil {
		return err
	}
	if opts.Length < 0 {
		return dynamo.InvalidOption("rotational_spring", "length", opts.Length)
	}
	if opts.Period < MinPeriod {
		opts.Period = MinPeriod
	}
	s.opts = opts
	s.stiffness, s.damping = springConstants(opts.Period, opts.DampingRatio)
	return nil
}

func (s *RotationalSpring) anchor(source body.Entity) vec.Quaternion {
	if !s.opts.Anchor.IsZero() {
		return s.opts.Anchor
	}
	if source != nil {
		if b, ok := rigidOf(source); ok {
			return b.Orientation
		}
	}
	return vec.IdentityQuaternion()
}

// displacement is twice the vector part of conj(q)⊗anchor, i.e. roughly
// angle·axis in the body frame, taken along the shorter arc.
func displacement(q, anchor vec.Quaternion) vec.Vector3 {
	rel := q.Conj().Multiply(anchor)
	if rel.W < 0 {
		rel = rel.Negate()
	}
	return rel.Vector().Mult(2)
}

func (s *RotationalSpring) ApplyForce(targets []body.Entity, source body.Entity) {
	anchor := s.anchor(source)
	for _, t := range targets {
		b, ok := rigidOf(t)
		if !ok || b.InverseMass() == 0 {
			continue
		}
		disp := displacement(b.Orientation, anchor)
		norm := disp.Norm()

		m := b.Mass()
		// no restoring axis at the anchor itself
		var torque vec.Vector3
		if norm >= vec.Epsilon {
			torque = disp.Normalize(s.stiffness * m * (norm - s.opts.Length))
		}
		if s.damping != 0 {
			torque = torque.Add(b.AngularVelocity.Mult(-s.damping * m))
		}
		if torque.IsZero() {
			continue
		}
		b.ApplyTorque(torque)
	}
}

func (s *RotationalSpring) Energy(targets []body.Entity, source body.Entity) float64 {
	anchor := s.anchor(source)
	var energy float64
	for _, t := range targets {
		b, ok := rigidOf(t)
		if !ok || b.InverseMass() == 0 {
			continue
		}
		dist := displacement(b.Orientation, anchor).Norm() - s.opts.Length
		energy += 0.5 * s.stiffness * b.Mass() * dist * dist
	}
	return energy
}
