package body

import (
	"math"

	"github.com/pkg/errors"
	"github.com/san-kum/physim/internal/dynamo"
	"github.com/san-kum/physim/internal/event"
	"github.com/san-kum/physim/internal/vec"
)

// Axis is a bitmask of the axes a particle may move along.
type Axis uint8

const (
	AxisX Axis = 1 << iota
	AxisY
	AxisZ

	AxisAll = AxisX | AxisY | AxisZ
)

// Entity is anything the engine can integrate.
type Entity interface {
	Point() *Particle
	Energy() float64
	Transform() [16]float64
}

// Rigid marks entities carrying rotational state.
type Rigid interface {
	Entity
	Rigid() *Body
}

// Options configures a new particle or body. Zero Mass means 1.
type Options struct {
	Position        vec.Vector3
	Velocity        vec.Vector3
	Mass            float64
	Radius          float64
	Axis            Axis
	Orientation     vec.Quaternion
	AngularVelocity vec.Vector3
}

type Particle struct {
	event.Emitter

	Position vec.Vector3
	Velocity vec.Vector3
	Force    vec.Vector3
	Radius   float64
	AxisMask Axis

	mass        float64
	inverseMass float64
	asleep      bool
}

func NewParticle(opts Options) (*Particle, error) {
	p := &Particle{}
	if err := p.init(opts); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Particle) init(opts Options) error {
	mass := opts.Mass
	if mass == 0 {
		mass = 1
	}
	if err := p.SetMass(mass); err != nil {
		return err
	}
	if opts.Radius < 0 {
		return dynamo.InvalidOption("particle", "radius", opts.Radius)
	}
	p.Position = opts.Position
	p.Velocity = opts.Velocity
	p.Radius = opts.Radius
	p.AxisMask = opts.Axis
	return nil
}

func (p *Particle) Point() *Particle { return p }

func (p *Particle) Mass() float64        { return p.mass }
func (p *Particle) InverseMass() float64 { return p.inverseMass }

// SetMass accepts any positive mass including +Inf, which pins the particle.
func (p *Particle) SetMass(m float64) error {
	if !(m > 0) {
		return errors.Wrapf(dynamo.ErrInvalidMass, "got %g", m)
	}
	p.mass = m
	if math.IsInf(m, 1) {
		p.inverseMass = 0
	} else {
		p.inverseMass = 1 / m
	}
	return nil
}

func (p *Particle) SetPosition(pos vec.Vector3) { p.Position = pos }

func (p *Particle) SetVelocity(v vec.Vector3) {
	p.Velocity = v
	if !v.IsZero() {
		p.Wake()
	}
}

func (p *Particle) SetForce(f vec.Vector3) {
	p.Force = f
	p.Wake()
}

// ApplyForce adds f into the accumulator.
func (p *Particle) ApplyForce(f vec.Vector3) {
	if f.IsZero() {
		return
	}
	p.Force = p.Force.Add(f)
	p.Wake()
}

// ApplyImpulse changes velocity by impulse/mass.
func (p *Particle) ApplyImpulse(impulse vec.Vector3) {
	if impulse.IsZero() {
		return
	}
	p.Velocity = p.Velocity.Add(impulse.Mult(p.inverseMass))
}

// Momentum is m·v; zero for pinned particles.
func (p *Particle) Momentum() vec.Vector3 {
	if p.inverseMass == 0 {
		return vec.Zero
	}
	return p.Velocity.Mult(p.mass)
}

// Energy is the kinetic energy ½·m·|v|².
func (p *Particle) Energy() float64 {
	if p.inverseMass == 0 {
		return 0
	}
	return 0.5 * p.mass * p.Velocity.NormSquared()
}

func (p *Particle) Reset(pos, v vec.Vector3) {
	p.SetPosition(pos)
	p.SetVelocity(v)
}

func (p *Particle) IsSleeping() bool { return p.asleep }

// Sleep emits event.End once when transitioning to asleep.
func (p *Particle) Sleep() {
	if p.asleep {
		return
	}
	p.asleep = true
	p.Emit(event.End, p)
}

// Wake emits event.Start once when transitioning to awake.
func (p *Particle) Wake() {
	if !p.asleep {
		return
	}
	p.asleep = false
	p.Emit(event.Start, p)
}

// Transform is a translation to Position in column-major layout.
func (p *Particle) Transform() [16]float64 {
	t := vec.IdentityQuaternion().Transform()
	t[12], t[13], t[14] = p.Position.X, p.Position.Y, p.Position.Z
	return t
}
