package engine

import (
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/san-kum/physim/internal/body"
	"github.com/san-kum/physim/internal/dynamo"
	"github.com/san-kum/physim/internal/event"
	"github.com/san-kum/physim/internal/integrators"
)

// Force adds into body accumulators. It is called exactly once per step.
type Force interface {
	ApplyForce(targets []body.Entity, source body.Entity)
	Energy(targets []body.Entity, source body.Entity) float64
}

// Constraint applies velocity-level impulses.
type Constraint interface {
	ApplyConstraint(targets []body.Entity, source body.Entity, dt float64)
	Energy(targets []body.Entity, source body.Entity) float64
}

type Engine struct {
	event.Emitter

	opts       Options
	integrator *integrators.SymplecticEuler
	log        *zap.Logger
	clock      Clock

	particles []body.Entity
	bodies    []body.Rigid
	wakeSubs  map[body.Entity]int

	arena

	asleep   bool
	prevTime float64
}

func New(opts Options, settings ...Option) (*Engine, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	e := &Engine{
		opts:       opts,
		integrator: integrators.NewSymplecticEuler(),
		log:        zap.NewNop(),
		clock:      WallClock(),
		wakeSubs:   make(map[body.Entity]int),
		arena:      newArena(),
	}
	for _, s := range settings {
		s(e)
	}
	e.applyCaps()
	e.prevTime = e.clock()
	return e, nil
}

func (e *Engine) Options() Options { return e.opts }

func (e *Engine) SetOptions(opts Options) error {
	if err := opts.validate(); err != nil {
		return err
	}
	e.opts = opts
	e.applyCaps()
	return nil
}

func (e *Engine) applyCaps() {
	e.integrator.VelocityCap = e.opts.VelocityCap
	e.integrator.AngularVelocityCap = e.opts.AngularVelocityCap
}

// AddBody registers a particle, or a rigid body when e implements body.Rigid,
// and wakes the engine. Adding a registered body is a no-op.
func (e *Engine) AddBody(b body.Entity) body.Entity {
	if _, ok := e.wakeSubs[b]; ok {
		return b
	}
	if r, ok := b.(body.Rigid); ok {
		e.bodies = append(e.bodies, r)
	} else {
		e.particles = append(e.particles, b)
	}
	e.wakeSubs[b] = b.Point().On(event.Start, func(any) { e.Wake() })
	e.log.Debug("body added",
		zap.Int("particles", len(e.particles)),
		zap.Int("bodies", len(e.bodies)))
	e.Wake()
	return b
}

// RemoveBody unregisters b and scrubs it from every binding. A binding whose
// source is b is detached.
func (e *Engine) RemoveBody(b body.Entity) error {
	sub, ok := e.wakeSubs[b]
	if !ok {
		return errors.Wrapf(dynamo.ErrBodyNotFound, "remove body")
	}
	b.Point().Off(event.Start, sub)
	delete(e.wakeSubs, b)

	if r, ok := b.(body.Rigid); ok {
		e.bodies = removeRigid(e.bodies, r)
	} else {
		e.particles = removeEntity(e.particles, b)
	}

	for _, id := range e.ids() {
		bd := e.bindings[id]
		if bd.source == b {
			e.detach(id)
			continue
		}
		bd.targets = removeEntity(bd.targets, b)
	}
	e.log.Debug("body removed",
		zap.Int("particles", len(e.particles)),
		zap.Int("bodies", len(e.bodies)))
	return nil
}

func removeEntity(list []body.Entity, b body.Entity) []body.Entity {
	out := list[:0]
	for _, x := range list {
		if x != b {
			out = append(out, x)
		}
	}
	return out
}

func removeRigid(list []body.Rigid, b body.Rigid) []body.Rigid {
	out := list[:0]
	for _, x := range list {
		if x != b {
			out = append(out, x)
		}
	}
	return out
}

func (e *Engine) Particles() []body.Entity {
	return append([]body.Entity(nil), e.particles...)
}

func (e *Engine) Bodies() []body.Rigid {
	return append([]body.Rigid(nil), e.bodies...)
}

// ParticlesAndBodies lists particles first, then rigid bodies.
func (e *Engine) ParticlesAndBodies() []body.Entity {
	all := make([]body.Entity, 0, len(e.particles)+len(e.bodies))
	all = append(all, e.particles...)
	for _, b := range e.bodies {
		all = append(all, b)
	}
	return all
}

// Energy is the kinetic energy of every body plus the potential reported by
// every agent.
func (e *Engine) Energy() float64 {
	total := e.KineticEnergy()
	for _, id := range e.order {
		total += e.bindings[id].energy()
	}
	return total
}

// KineticEnergy sums the kinetic energy of every body. Agent potentials are
// signed and relative to an arbitrary origin, so auto sleep gates on this.
func (e *Engine) KineticEnergy() float64 {
	var total float64
	for _, p := range e.particles {
		total += p.Energy()
	}
	for _, b := range e.bodies {
		total += b.Energy()
	}
	return total
}

func (e *Engine) IsSleeping() bool { return e.asleep }

// Sleep puts every body to sleep and emits event.End.
func (e *Engine) Sleep() {
	if e.asleep {
		return
	}
	e.asleep = true
	for _, p := range e.ParticlesAndBodies() {
		p.Point().Sleep()
	}
	e.log.Debug("engine asleep")
	e.Emit(event.End, e)
}

// Wake resets the frame clock baseline and emits event.Start.
func (e *Engine) Wake() {
	if !e.asleep {
		return
	}
	e.asleep = false
	e.prevTime = e.clock()
	e.log.Debug("engine awake")
	e.Emit(event.Start, e)
}
