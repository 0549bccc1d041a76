package forces

import (
	"github.com/san-kum/physim/internal/body"
	"github.com/san-kum/physim/internal/dynamo"
)

type DragLaw int

const (
	LinearDrag DragLaw = iota
	QuadraticDrag
)

type DragOptions struct {
	Strength float64 `mapstructure:"strength"`
	Law      DragLaw `mapstructure:"-"`
}

func DefaultDragOptions() DragOptions {
	return DragOptions{Strength: 0.01}
}

// Drag opposes velocity: -k·v, or -k·v·|v| for the quadratic law.
type Drag struct {
	base
	opts DragOptions
}

func NewDrag(opts DragOptions) (*Drag, error) {
	d := &Drag{}
	if err := d.setOptions(opts); err != nil {
		return nil, err
	}
	return d, nil
}

func (d *Drag) Options() DragOptions { return d.opts }

func (d *Drag) SetOptions(opts DragOptions) error {
	if err := d.setOptions(opts); err != nil {
		return err
	}
	d.changed(d)
	return nil
}

func (d *Drag) setOptions(opts DragOptions) error {
	if opts.Strength < 0 {
		return dynamo.InvalidOption("drag", "strength", opts.Strength)
	}
	d.opts = opts
	return nil
}

func (d *Drag) ApplyForce(targets []body.Entity, _ body.Entity) {
	for _, t := range targets {
		p := t.Point()
		v := p.Velocity
		if d.opts.Law == QuadraticDrag {
			v = v.Mult(v.Norm())
		}
		p.ApplyForce(v.Mult(-d.opts.Strength))
	}
}

func (d *Drag) Energy([]body.Entity, body.Entity) float64 { return 0 }

// RotationalDrag applies torque -k·ω to rigid targets.
type RotationalDrag struct {
	base
	opts DragOptions
}

func NewRotationalDrag(opts DragOptions) (*RotationalDrag, error) {
	if opts.Strength < 0 {
		return nil, dynamo.InvalidOption("rotational_drag", "strength", opts.Strength)
	}
	return &RotationalDrag{opts: opts}, nil
}

func (d *RotationalDrag) Options() DragOptions { return d.opts }

func (d *RotationalDrag) ApplyForce(targets []body.Entity, _ body.Entity) {
	for _, t := range targets {
		b, ok := rigidOf(t)
		if !ok {
			continue
		}
		w := b.AngularVelocity
		if d.opts.Law == QuadraticDrag {
			w = w.Mult(w.Norm())
		}
		if w.IsZero() {
			continue
		}
		b.ApplyTorque(w.Mult(-d.opts.Strength))
	}
}

func (d *RotationalDrag) Energy([]body.Entity, body.Entity) float64 { return 0 }
