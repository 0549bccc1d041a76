package engine

import (
	"fmt"

	"github.com/san-kum/physim/internal/event"
)

// Step advances one frame of the engine clock. Frames shorter than
// MinTimeStep are dropped and longer ones are clamped to MaxTimeStep.
func (e *Engine) Step() {
	if e.asleep {
		return
	}
	now := e.clock()
	dtFrame := now - e.prevTime
	e.prevTime = now
	if dtFrame < e.opts.MinTimeStep {
		return
	}
	if dtFrame > e.opts.MaxTimeStep {
		dtFrame = e.opts.MaxTimeStep
	}

	dt := e.opts.Timestep
	if e.opts.TimestepMode == Measured {
		dt = dtFrame
	}
	e.Integrate(dt)
	e.Emit(event.Update, e)

	if e.opts.AutoSleep && e.KineticEnergy() < e.opts.SleepTolerance {
		e.Sleep()
	}
}

// Integrate runs one pass of the pipeline with the given dt, regardless of
// sleep state.
func (e *Engine) Integrate(dt float64) {
	for _, id := range e.order {
		if b := e.bindings[id]; b.kind == kindForce {
			b.force.ApplyForce(b.targets, b.source)
		}
	}

	for _, p := range e.particles {
		e.integrator.IntegrateVelocity(p.Point(), dt)
	}
	for _, b := range e.bodies {
		e.integrator.IntegrateVelocity(b.Point(), dt)
	}

	for _, b := range e.bodies {
		r := b.Rigid()
		e.integrator.IntegrateAngularMomentum(r, dt)
		r.UpdateAngularVelocity()
	}

	for step := 0; step < e.opts.ConstraintSteps; step++ {
		for i := len(e.order) - 1; i >= 0; i-- {
			if b := e.bindings[e.order[i]]; b.kind == kindConstraint {
				b.constraint.ApplyConstraint(b.targets, b.source, dt)
			}
		}
	}

	for _, b := range e.bodies {
		e.integrator.IntegrateOrientation(b.Rigid(), dt)
	}

	for _, p := range e.particles {
		e.integrator.IntegratePosition(p.Point(), dt)
		p.Point().Emit(event.Update, p)
	}
	for _, b := range e.bodies {
		e.integrator.IntegratePosition(b.Point(), dt)
		b.Point().Emit(event.Update, b)
	}
}

func typeName(v any) string { return fmt.Sprintf("%T", v) }
