package constraints

import (
	"github.com/san-kum/physim/internal/body"
	"github.com/san-kum/physim/internal/dynamo"
	"github.com/san-kum/physim/internal/event"
	"github.com/san-kum/physim/internal/vec"
)

// ContactAction selects what a wall does on contact.
type ContactAction int

const (
	// Reflect bounces the body and projects it back onto the plane.
	Reflect ContactAction = iota
	// Silent only emits collision events.
	Silent
)

type WallOptions struct {
	Restitution float64       `mapstructure:"restitution"`
	Drift       float64       `mapstructure:"drift"`
	Slop        float64       `mapstructure:"slop"`
	Normal      vec.Vector3   `mapstructure:"-"`
	Distance    float64       `mapstructure:"distance"`
	OnContact   ContactAction `mapstructure:"-"`
}

func DefaultWallOptions() WallOptions {
	return WallOptions{
		Restitution: 0.5,
		Drift:       0.5,
		Normal:      vec.UnitX,
	}
}

// Wall is the half-space {p : p·n + d ≥ 0}.
type Wall struct {
	base
	opts WallOptions
}

func NewWall(opts WallOptions) (*Wall, error) {
	w := &Wall{}
	if err := w.setOptions(opts); err != nil {
		return nil, err
	}
	return w, nil
}

func (w *Wall) Options() WallOptions { return w.opts }

func (w *Wall) SetOptions(opts WallOptions) error {
	if err := w.setOptions(opts); err != nil {
		return err
	}
	w.changed(w)
	return nil
}

func (w *Wall) setOptions(opts WallOptions) error {
	if err := validateContact("wall", opts.Restitution, opts.Drift, opts.Slop); err != nil {
		return err
	}
	if opts.Normal.Norm() < vec.Epsilon {
		return dynamo.InvalidOption("wall", "normal", opts.Normal.Norm())
	}
	opts.Normal = opts.Normal.Unit()
	w.opts = opts
	return nil
}

// SignedDistance of the particle surface from the plane; negative inside.
func (w *Wall) SignedDistance(p *body.Particle) float64 {
	n := w.opts.Normal
	return p.Position.Sub(n.Mult(p.Radius)).Dot(n) + w.opts.Distance
}

func (w *Wall) ApplyConstraint(targets []body.Entity, _ body.Entity, dt float64) {
	n := w.opts.Normal
	for _, t := range targets {
		p := t.Point()
		if p.InverseMass() == 0 {
			continue
		}
		overlap := w.SignedDistance(p)
		if overlap > 0 {
			continue
		}
		if p.Velocity.Dot(n) < 0 {
			w.onEnter(t, overlap, dt)
		} else {
			w.onExit(p, overlap)
		}
	}
}

func (w *Wall) onEnter(t body.Entity, overlap, dt float64) {
	p := t.Point()
	n := w.opts.Normal
	data := CollisionData{Target: t, Agent: w, Overlap: overlap, Normal: n}
	w.emitContact(data)

	if w.opts.OnContact == Reflect {
		var bias float64
		if overlap < -w.opts.Slop {
			bias = w.opts.Drift / dt * (overlap + w.opts.Slop)
		}
		lambda := -((1+w.opts.Restitution)*n.Dot(p.Velocity) + bias) / (dt * p.InverseMass())
		p.ApplyImpulse(n.Mult(dt * lambda))
		p.SetPosition(p.Position.Sub(n.Mult(overlap)))
	}

	w.Emit(event.PostCollision, data)
}

func (w *Wall) onExit(p *body.Particle, overlap float64) {
	if w.opts.OnContact == Reflect {
		p.SetPosition(p.Position.Sub(w.opts.Normal.Mult(overlap)))
	}
}

func (w *Wall) Energy(_ []body.Entity, _ body.Entity) float64 { return 0 }
