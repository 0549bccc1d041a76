package forces

import (
	"math"

	"github.com/san-kum/physim/internal/body"
	"github.com/san-kum/physim/internal/dynamo"
	"github.com/san-kum/physim/internal/vec"
)

// DecayFunction shapes repulsion strength over distance.
type DecayFunction int

const (
	Gravity DecayFunction = iota
	Inverse
	Linear
	Morse
)

func (d DecayFunction) eval(r, cutoff float64) float64 {
	switch d {
	case Linear:
		return math.Max(1-r/cutoff, 0)
	case Morse:
		r0 := cutoff
		if r0 == 0 {
			r0 = 100
		}
		shifted := r + r0*(1-math.Ln2)
		return math.Max(1-math.Pow(1-math.Exp(shifted/r0-1), 2), 0)
	case Inverse:
		return 1 / (1 - cutoff + r)
	default:
		return 1 / (1 - cutoff + r*r)
	}
}

type RepulsionOptions struct {
	Strength float64    `mapstructure:"strength"`
	Range    [2]float64 `mapstructure:"-"`
	Cutoff   float64    `mapstructure:"cutoff"`
	// Cap bounds the force magnitude; 0 means unbounded.
	Cap    float64       `mapstructure:"cap"`
	Anchor *vec.Vector3  `mapstructure:"-"`
	Decay  DecayFunction `mapstructure:"-"`
}

func DefaultRepulsionOptions() RepulsionOptions {
	return RepulsionOptions{
		Strength: 1,
		Range:    [2]float64{0, math.Inf(1)},
		Cap:      math.Inf(1),
	}
}

// Repulsion pushes targets away from the anchor or source with magnitude
// strength·m1·m2·decay(r). Only targets inside the open Range window are
// affected. Negative strength attracts.
type Repulsion struct {
	base
	opts RepulsionOptions
}

func NewRepulsion(opts RepulsionOptions) (*Repulsion, error) {
	r := &Repulsion{}
	if err := r.setOptions(opts); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *Repulsion) Options() RepulsionOptions { return r.opts }

func (r *Repulsion) SetOptions(opts RepulsionOptions) error {
	if err := r.setOptions(opts); err != nil {
		return err
	}
	r.changed(r)
	return nil
}

func (r *Repulsion) setOptions(opts RepulsionOptions) error {
	if opts.Range[1] == 0 {
		opts.Range[1] = math.Inf(1)
	}
	if opts.Range[0] < 0 || opts.Range[1] <= opts.Range[0] {
		return dynamo.InvalidOption("repulsion", "range", opts.Range[0])
	}
	if opts.Cap == 0 {
		opts.Cap = math.Inf(1)
	}
	if opts.Cap < 0 {
		return dynamo.InvalidOption("repulsion", "cap", opts.Cap)
	}
	if opts.Decay == Linear && !(opts.Cutoff > 0) {
		return dynamo.InvalidOption("repulsion", "cutoff", opts.Cutoff)
	}
	r.opts = opts
	return nil
}

func (r *Repulsion) ApplyForce(targets []body.Entity, source body.Entity) {
	k := r.opts.Strength
	if k == 0 {
		return
	}
	anchor, ok := anchorOf(r.opts.Anchor, source)
	if !ok {
		return
	}
	m1 := 1.0
	if r.opts.Anchor == nil && source != nil && source.Point().InverseMass() != 0 {
		m1 = source.Point().Mass()
	}

	lo, hi := r.opts.Range[0], r.opts.Range[1]
	for _, t := range targets {
		if t == source {
			continue
		}
		p := t.Point()
		if p.InverseMass() == 0 {
			continue
		}
		disp := p.Position.Sub(anchor)
		dist := disp.Norm()
		if dist <= lo || dist >= hi {
			continue
		}
		mag := k * m1 * p.Mass() * r.opts.Decay.eval(dist, r.opts.Cutoff)
		p.ApplyForce(disp.Normalize(mag).Cap(r.opts.Cap))
	}
}

func (r *Repulsion) Energy([]body.Entity, body.Entity) float64 { return 0 }
