package constraints

import (
	"math"

	"github.com/san-kum/physim/internal/body"
	"github.com/san-kum/physim/internal/dynamo"
	"github.com/san-kum/physim/internal/event"
	"github.com/san-kum/physim/internal/vec"
)

// Epsilon is the finite-difference step for implicit constraints.
const Epsilon = 1e-7

// CollisionData is the payload of collision events. Source is nil for walls.
type CollisionData struct {
	Target  body.Entity
	Source  body.Entity
	Agent   any
	Overlap float64
	Normal  vec.Vector3
}

type base struct {
	event.Emitter
}

func (b *base) changed(agent any) {
	b.Emit(event.Change, agent)
}

func (b *base) emitContact(data CollisionData) {
	b.Emit(event.PreCollision, data)
	b.Emit(event.Collision, data)
}

// softness returns γ and β for the given period, damping ratio and effective
// mass.
func softness(period, dampingRatio, effMass, dt float64) (gamma, beta float64) {
	if period == 0 {
		return 0, 1
	}
	c := 4 * effMass * math.Pi * dampingRatio / period
	k := 4 * effMass * math.Pi * math.Pi / (period * period)
	gamma = 1 / (c + dt*k)
	beta = dt * k / (c + dt*k)
	return gamma, beta
}

func validateSoftness(agent string, period, dampingRatio float64) error {
	if period < 0 || math.IsNaN(period) {
		return dynamo.InvalidOption(agent, "period", period)
	}
	if dampingRatio < 0 || math.IsNaN(dampingRatio) {
		return dynamo.InvalidOption(agent, "dampingRatio", dampingRatio)
	}
	if period == 0 && dampingRatio != 0 {
		return dynamo.InvalidOption(agent, "dampingRatio", dampingRatio)
	}
	return nil
}

func validateContact(agent string, restitution, drift, slop float64) error {
	if restitution < 0 || math.IsNaN(restitution) {
		return dynamo.InvalidOption(agent, "restitution", restitution)
	}
	if drift < 0 || math.IsNaN(drift) {
		return dynamo.InvalidOption(agent, "drift", drift)
	}
	if slop < 0 || math.IsNaN(slop) {
		return dynamo.InvalidOption(agent, "slop", slop)
	}
	return nil
}
