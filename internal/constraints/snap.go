package constraints

import (
	"math"

	"github.com/san-kum/physim/internal/body"
	"github.com/san-kum/physim/internal/dynamo"
	"github.com/san-kum/physim/internal/vec"
)

type SnapOptions struct {
	Anchor       *vec.Vector3 `mapstructure:"-"`
	Length       float64      `mapstructure:"length"`
	Period       float64      `mapstructure:"period"`
	DampingRatio float64      `mapstructure:"damping_ratio"`
}

func DefaultSnapOptions() SnapOptions {
	return SnapOptions{Period: 300, DampingRatio: 0.1}
}

// Snap is a stiff spring solved at the velocity level. Unlike Distance it
// corrects the full relative velocity, which keeps it stable at periods far
// below what an explicit spring tolerates.
type Snap struct {
	base
	opts SnapOptions
}

func NewSnap(opts SnapOptions) (*Snap, error) {
	s := &Snap{}
	if err := validateSnap(opts); err != nil {
		return nil, err
	}
	s.opts = opts
	return s, nil
}

func validateSnap(opts SnapOptions) error {
	if opts.Length < 0 || math.IsNaN(opts.Length) {
		return dynamo.InvalidOption("snap", "length", opts.Length)
	}
	return validateSoftness("snap", opts.Period, opts.DampingRatio)
}

func (s *Snap) Options() SnapOptions { return s.opts }

func (s *Snap) SetOptions(opts SnapOptions) error {
	if err := validateSnap(opts); err != nil {
		return err
	}
	s.opts = opts
	s.changed(s)
	return nil
}

func (s *Snap) SetAnchor(a vec.Vector3) {
	s.opts.Anchor = &a
	s.changed(s)
}

func (s *Snap) anchor(source body.Entity) (vec.Vector3, bool) {
	if s.opts.Anchor != nil {
		return *s.opts.Anchor, true
	}
	if source != nil {
		return source.Point().Position, true
	}
	return vec.Zero, false
}

func (s *Snap) ApplyConstraint(targets []body.Entity, source body.Entity, dt float64) {
	anchor, ok := s.anchor(source)
	if !ok {
		return
	}
	var src *body.Particle
	if source != nil {
		src = source.Point()
	}

	for _, t := range targets {
		if t == source {
			continue
		}
		p := t.Point()
		w := p.InverseMass()
		vDiff := p.Velocity
		if src != nil {
			w += src.InverseMass()
			vDiff = vDiff.Sub(src.Velocity)
		}
		if w == 0 {
			continue
		}
		effMass := 1 / w
		gamma, beta := softness(s.opts.Period, s.opts.DampingRatio, effMass, dt)

		pDiff := p.Position.Sub(anchor)
		dist := pDiff.Norm() - s.opts.Length
		antiDrift := beta / dt * dist

		impulse := pDiff.Normalize(-antiDrift).Sub(vDiff).Mult(dt / (gamma + dt/effMass))
		p.ApplyImpulse(impulse)
		if src != nil {
			src.ApplyImpulse(impulse.Negate())
		}
	}
}

// Energy is the potential of the equivalent spring.
func (s *Snap) Energy(targets []body.Entity, source body.Entity) float64 {
	anchor, ok := s.anchor(source)
	if !ok || s.opts.Period == 0 {
		return 0
	}
	var e float64
	for _, t := range targets {
		if t == source {
			continue
		}
		p := t.Point()
		if p.InverseMass() == 0 {
			continue
		}
		k := 4 * p.Mass() * math.Pi * math.Pi / (s.opts.Period * s.opts.Period)
		dist := p.Position.Sub(anchor).Norm() - s.opts.Length
		e += 0.5 * k * dist * dist
	}
	return e
}
