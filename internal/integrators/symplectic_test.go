package integrators

import (
	"math"
	"testing"

	"github.com/san-kum/physim/internal/body"
	"github.com/san-kum/physim/internal/vec"
)

func TestSymplecticEuler_VelocityBeforePosition(t *testing.T) {
	p, _ := body.NewParticle(body.Options{Mass: 1})
	integ := NewSymplecticEuler()

	p.ApplyForce(vec.New(10, 0, 0))
	integ.IntegrateVelocity(p.Point(), 1)
	integ.IntegratePosition(p.Point(), 1)

	if p.Velocity != vec.New(10, 0, 0) {
		t.Errorf("velocity = %v, want [10 0 0]", p.Velocity)
	}
	if p.Position != vec.New(10, 0, 0) {
		t.Errorf("position = %v, want [10 0 0]", p.Position)
	}
	if !p.Force.IsZero() {
		t.Errorf("force not cleared: %v", p.Force)
	}
}

func TestSymplecticEuler_VelocityCap(t *testing.T) {
	p, _ := body.NewParticle(body.Options{Velocity: vec.New(30, 40, 0)})
	integ := &SymplecticEuler{VelocityCap: 5}

	integ.IntegratePosition(p, 1)
	if math.Abs(p.Position.Norm()-5) > 1e-12 {
		t.Errorf("capped displacement = %v, want 5", p.Position.Norm())
	}
}

func TestSymplecticEuler_AxisMask(t *testing.T) {
	p, _ := body.NewParticle(body.Options{
		Velocity: vec.New(1, 2, 3),
		Axis:     body.AxisX | body.AxisZ,
	})
	integ := NewSymplecticEuler()

	integ.IntegratePosition(p, 2)
	if p.Position != vec.New(2, 0, 6) {
		t.Errorf("position = %v, want [2 0 6]", p.Position)
	}
	if p.Velocity.Y != 0 {
		t.Errorf("masked velocity kept: %v", p.Velocity)
	}
}

func TestSymplecticEuler_Rotation(t *testing.T) {
	b, _ := body.NewBody(body.Options{})
	integ := NewSymplecticEuler()

	b.ApplyTorque(vec.New(0, 0, 0.1))
	integ.IntegrateAngularMomentum(b, 1)
	b.UpdateAngularVelocity()

	if b.AngularVelocity != vec.New(0, 0, 0.1) {
		t.Fatalf("angular velocity = %v", b.AngularVelocity)
	}
	if !b.Torque.IsZero() {
		t.Errorf("torque not cleared: %v", b.Torque)
	}

	integ.IntegrateOrientation(b, 1)
	q := b.Orientation
	if math.Abs(q.Z-0.05) > 1e-12 || q.W != 1 {
		t.Errorf("orientation = %v, want {1 0 0 0.05}", q)
	}
	if q.Norm() <= 1 {
		t.Errorf("first-order update should not renormalize, |q| = %v", q.Norm())
	}
}

func TestSymplecticEuler_ZeroAccumulatorsAreNoops(t *testing.T) {
	b, _ := body.NewBody(body.Options{Position: vec.New(1, 1, 1)})
	integ := NewSymplecticEuler()

	integ.IntegrateVelocity(b.Point(), 1)
	integ.IntegratePosition(b.Point(), 1)
	integ.IntegrateAngularMomentum(b, 1)
	integ.IntegrateOrientation(b, 1)

	if b.Position != vec.New(1, 1, 1) || b.Orientation != vec.IdentityQuaternion() {
		t.Errorf("state changed without input: %v %v", b.Position, b.Orientation)
	}
}
