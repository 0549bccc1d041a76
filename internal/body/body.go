package body

import (
	"github.com/san-kum/physim/internal/vec"
)

// InertiaFunc derives the inertia tensor and its inverse from a mass.
type InertiaFunc func(mass float64) (inertia, inverse vec.Matrix3)

func unitInertia(float64) (vec.Matrix3, vec.Matrix3) {
	return vec.Identity(), vec.Identity()
}

// Body is a rigid body. AngularVelocity is derived from AngularMomentum through
// the inverse inertia tensor; call UpdateAngularVelocity after changing either.
type Body struct {
	Particle

	Orientation     vec.Quaternion
	AngularVelocity vec.Vector3
	AngularMomentum vec.Vector3
	Torque          vec.Vector3

	inertia        vec.Matrix3
	inverseInertia vec.Matrix3
	inertiaFn      InertiaFunc
}

// NewBody creates a body with the identity inertia tensor.
func NewBody(opts Options) (*Body, error) {
	return newBody(opts, unitInertia)
}

func newBody(opts Options, fn InertiaFunc) (*Body, error) {
	b := &Body{}
	if err := b.init(opts, fn); err != nil {
		return nil, err
	}
	return b, nil
}

func (b *Body) init(opts Options, fn InertiaFunc) error {
	b.inertiaFn = fn
	if err := b.Particle.init(opts); err != nil {
		return err
	}
	b.Orientation = opts.Orientation
	if b.Orientation.IsZero() {
		b.Orientation = vec.IdentityQuaternion()
	}
	b.updateInertia()
	if !opts.AngularVelocity.IsZero() {
		b.SetAngularVelocity(opts.AngularVelocity)
	}
	return nil
}

func (b *Body) Rigid() *Body { return b }

func (b *Body) updateInertia() {
	b.inertia, b.inverseInertia = b.inertiaFn(b.mass)
}

// SetMass also refreshes the inertia tensor.
func (b *Body) SetMass(m float64) error {
	if err := b.Particle.SetMass(m); err != nil {
		return err
	}
	b.updateInertia()
	return nil
}

func (b *Body) Inertia() vec.Matrix3        { return b.inertia }
func (b *Body) InverseInertia() vec.Matrix3 { return b.inverseInertia }

// SetInertiaFunc replaces the tensor derivation and recomputes it.
func (b *Body) SetInertiaFunc(fn InertiaFunc) {
	b.inertiaFn = fn
	b.updateInertia()
}

func (b *Body) UpdateAngularVelocity() {
	b.AngularVelocity = b.inverseInertia.VectorMultiply(b.AngularMomentum)
}

func (b *Body) SetOrientation(q vec.Quaternion) { b.Orientation = q }

// SetAngularVelocity sets ω and the matching momentum L = I·ω.
func (b *Body) SetAngularVelocity(w vec.Vector3) {
	b.Wake()
	b.AngularVelocity = w
	b.AngularMomentum = b.inertia.VectorMultiply(w)
}

func (b *Body) SetAngularMomentum(l vec.Vector3) {
	b.Wake()
	b.AngularMomentum = l
	b.UpdateAngularVelocity()
}

func (b *Body) ApplyTorque(t vec.Vector3) {
	b.Wake()
	b.Torque = b.Torque.Add(t)
}

// ApplyForceAt applies f at a body-relative location, adding the induced torque.
func (b *Body) ApplyForceAt(f, location vec.Vector3) {
	b.ApplyForce(f)
	b.ApplyTorque(location.Cross(f))
}

func (b *Body) ToWorldCoordinates(local vec.Vector3) vec.Vector3 {
	return b.Orientation.RotateVector(local)
}

// Energy adds rotational energy ½·(I·ω)·ω to the kinetic term.
func (b *Body) Energy() float64 {
	if b.inverseMass == 0 {
		return 0
	}
	w := b.AngularVelocity
	return b.Particle.Energy() + 0.5*b.inertia.VectorMultiply(w).Dot(w)
}

func (b *Body) Reset(pos, v vec.Vector3, q vec.Quaternion, l vec.Vector3) {
	b.Particle.Reset(pos, v)
	if q.IsZero() {
		q = vec.IdentityQuaternion()
	}
	b.SetOrientation(q)
	b.SetAngularMomentum(l)
}

// Transform rotates by Orientation, then translates to Position.
func (b *Body) Transform() [16]float64 {
	t := b.Orientation.Transform()
	t[12], t[13], t[14] = b.Position.X, b.Position.Y, b.Position.Z
	return t
}
