package forces

import (
	"math"

	"github.com/san-kum/physim/internal/body"
	"github.com/san-kum/physim/internal/dynamo"
	"github.com/san-kum/physim/internal/event"
	"github.com/san-kum/physim/internal/vec"
)

// base carries the change event every force emits from SetOptions.
type base struct {
	event.Emitter
}

func (b *base) changed(agent any) {
	b.Emit(event.Change, agent)
}

// anchorOf resolves a fixed anchor or falls back to the source position.
func anchorOf(anchor *vec.Vector3, source body.Entity) (vec.Vector3, bool) {
	if anchor != nil {
		return *anchor, true
	}
	if source != nil {
		return source.Point().Position, true
	}
	return vec.Zero, false
}

// springConstants returns the per-unit-mass stiffness and damping of a
// spring with the given period (ms) and damping ratio.
func springConstants(period, dampingRatio float64) (stiffness, damping float64) {
	stiffness = math.Pow(2*math.Pi/period, 2)
	damping = 4 * math.Pi * dampingRatio / period
	return stiffness, damping
}

func validatePeriod(agent string, period, dampingRatio float64) error {
	if !(period > 0) {
		return dynamo.InvalidOption(agent, "period", period)
	}
	if dampingRatio < 0 || math.IsNaN(dampingRatio) {
		return dynamo.InvalidOption(agent, "dampingRatio", dampingRatio)
	}
	return nil
}

func rigidOf(e body.Entity) (*body.Body, bool) {
	r, ok := e.(body.Rigid)
	if !ok {
		return nil, false
	}
	return r.Rigid(), true
}
