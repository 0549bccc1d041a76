package constraints

import (
	"github.com/san-kum/physim/internal/body"
	"github.com/san-kum/physim/internal/event"
)

type CollisionOptions struct {
	Restitution float64 `mapstructure:"restitution"`
	Drift       float64 `mapstructure:"drift"`
	Slop        float64 `mapstructure:"slop"`
}

func DefaultCollisionOptions() CollisionOptions {
	return CollisionOptions{Restitution: 0.5, Drift: 0.5}
}

// Collision resolves sphere-sphere contact between the source and each
// target using body radii.
type Collision struct {
	base
	opts CollisionOptions
}

func NewCollision(opts CollisionOptions) (*Collision, error) {
	c := &Collision{}
	if err := validateContact("collision", opts.Restitution, opts.Drift, opts.Slop); err != nil {
		return nil, err
	}
	c.opts = opts
	return c, nil
}

func (c *Collision) Options() CollisionOptions { return c.opts }

func (c *Collision) SetOptions(opts CollisionOptions) error {
	if err := validateContact("collision", opts.Restitution, opts.Drift, opts.Slop); err != nil {
		return err
	}
	c.opts = opts
	c.changed(c)
	return nil
}

func (c *Collision) ApplyConstraint(targets []body.Entity, source body.Entity, dt float64) {
	if source == nil {
		return
	}
	s := source.Point()
	for _, t := range targets {
		if t == source {
			continue
		}
		p := t.Point()
		w := s.InverseMass() + p.InverseMass()
		if w == 0 {
			continue
		}

		pDiff := p.Position.Sub(s.Position)
		overlap := pDiff.Norm() - (s.Radius + p.Radius)
		if overlap >= 0 {
			continue
		}

		n := pDiff.Unit()
		data := CollisionData{Target: t, Source: source, Agent: c, Overlap: overlap, Normal: n}
		c.emitContact(data)

		// restitution only while approaching; a separating pair gets drift
		// correction alone
		var bounce, bias float64
		if nv := n.Dot(p.Velocity.Sub(s.Velocity)); nv < 0 {
			bounce = (1 + c.opts.Restitution) * nv
		}
		if overlap <= -c.opts.Slop {
			bias = c.opts.Drift / dt * (overlap + c.opts.Slop)
		}
		if bounce != 0 || bias != 0 {
			lambda := (bounce + bias) / (dt * w)
			impulse := n.Mult(dt * lambda)
			s.ApplyImpulse(impulse)
			p.ApplyImpulse(impulse.Negate())
		}

		c.Emit(event.PostCollision, data)
	}
}

func (c *Collision) Energy(_ []body.Entity, _ body.Entity) float64 { return 0 }
