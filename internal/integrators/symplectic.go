package integrators

import (
	"github.com/san-kum/physim/internal/body"
	"github.com/san-kum/physim/internal/vec"
)

// SymplecticEuler advances bodies with the semi-implicit Euler scheme: velocity
// from force first, then position from the updated velocity. Each pass skips
// work when its driving quantity is zero.
type SymplecticEuler struct {
	// VelocityCap bounds |v| before the position update; 0 disables it.
	VelocityCap float64
	// AngularVelocityCap bounds the torque before it feeds angular momentum; 0 disables it.
	AngularVelocityCap float64
}

func NewSymplecticEuler() *SymplecticEuler {
	return &SymplecticEuler{}
}

// IntegrateVelocity applies v += dt·f/m and clears the force accumulator.
func (s *SymplecticEuler) IntegrateVelocity(p *body.Particle, dt float64) {
	f := p.Force
	if f.IsZero() {
		return
	}
	p.Velocity = p.Velocity.Add(f.Mult(dt * p.InverseMass()))
	p.Force = vec.Zero
}

// IntegratePosition applies p += dt·v. Axes outside a non-zero AxisMask keep
// their coordinate and lose their velocity component.
func (s *SymplecticEuler) IntegratePosition(p *body.Particle, dt float64) {
	v := p.Velocity
	if v.IsZero() {
		return
	}
	if s.VelocityCap > 0 {
		v = v.Cap(s.VelocityCap)
	}
	if mask := p.AxisMask; mask != 0 {
		if mask&body.AxisX == 0 {
			v.X = 0
		}
		if mask&body.AxisY == 0 {
			v.Y = 0
		}
		if mask&body.AxisZ == 0 {
			v.Z = 0
		}
	}
	p.Velocity = v
	p.Position = p.Position.Add(v.Mult(dt))
}

// IntegrateAngularMomentum applies L += dt·τ and clears the torque accumulator.
func (s *SymplecticEuler) IntegrateAngularMomentum(b *body.Body, dt float64) {
	t := b.Torque
	if t.IsZero() {
		return
	}
	if s.AngularVelocityCap > 0 {
		t = t.Cap(s.AngularVelocityCap)
	}
	b.AngularMomentum = b.AngularMomentum.Add(t.Mult(dt))
	b.Torque = vec.Zero
}

// IntegrateOrientation applies q += (dt/2)·(q ⊗ ω). The result is not
// renormalized, so |q| drifts slowly over long runs.
func (s *SymplecticEuler) IntegrateOrientation(b *body.Body, dt float64) {
	w := b.AngularVelocity
	if w.IsZero() {
		return
	}
	q := b.Orientation
	b.Orientation = q.Add(q.MultiplyVector(w).Scale(0.5 * dt))
}
