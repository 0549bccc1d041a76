package vec

import "math"

// Epsilon is the length below which Normalize falls back to the x axis.
const Epsilon = 1e-7

// Vector3 is an immutable 3-D vector. Every method returns a new value.
type Vector3 struct {
	X, Y, Z float64
}

var (
	Zero  = Vector3{}
	UnitX = Vector3{1, 0, 0}
	UnitY = Vector3{0, 1, 0}
	UnitZ = Vector3{0, 0, 1}
)

func New(x, y, z float64) Vector3 { return Vector3{x, y, z} }

// FromSlice reads up to three components; missing ones are zero.
func FromSlice(s []float64) Vector3 {
	var v Vector3
	if len(s) > 0 {
		v.X = s[0]
	}
	if len(s) > 1 {
		v.Y = s[1]
	}
	if len(s) > 2 {
		v.Z = s[2]
	}
	return v
}

func (v Vector3) Add(o Vector3) Vector3 { return Vector3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }
func (v Vector3) Sub(o Vector3) Vector3 { return Vector3{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }
func (v Vector3) Mult(s float64) Vector3 {
	return Vector3{v.X * s, v.Y * s, v.Z * s}
}
func (v Vector3) Div(s float64) Vector3 { return v.Mult(1 / s) }
func (v Vector3) Negate() Vector3      { return Vector3{-v.X, -v.Y, -v.Z} }

func (v Vector3) Dot(o Vector3) float64 { return v.X*o.X + v.Y*o.Y + v.Z*o.Z }

func (v Vector3) Cross(o Vector3) Vector3 {
	return Vector3{
		v.Y*o.Z - v.Z*o.Y,
		v.Z*o.X - v.X*o.Z,
		v.X*o.Y - v.Y*o.X,
	}
}

func (v Vector3) NormSquared() float64 { return v.Dot(v) }
func (v Vector3) Norm() float64        { return math.Sqrt(v.NormSquared()) }

// Normalize returns v scaled to the given length. Vectors shorter than
// Epsilon yield {length, 0, 0} instead of NaN.
func (v Vector3) Normalize(length float64) Vector3 {
	n := v.Norm()
	if n > Epsilon {
		return v.Mult(length / n)
	}
	return Vector3{length, 0, 0}
}

// Unit is Normalize(1).
func (v Vector3) Unit() Vector3 { return v.Normalize(1) }

// Cap limits the magnitude of v. An infinite or non-positive cap is a no-op.
func (v Vector3) Cap(c float64) Vector3 {
	if c <= 0 || math.IsInf(c, 1) {
		return v
	}
	if v.Norm() > c {
		return v.Normalize(c)
	}
	return v
}

// Project returns the component of v along n. n is assumed to be unit length.
func (v Vector3) Project(n Vector3) Vector3 { return n.Mult(v.Dot(n)) }

// ReflectAcross mirrors v across the plane with normal n.
func (v Vector3) ReflectAcross(n Vector3) Vector3 {
	n = n.Unit()
	return v.Sub(v.Project(n).Mult(2))
}

func (v Vector3) RotateX(theta float64) Vector3 {
	s, c := math.Sincos(theta)
	return Vector3{v.X, v.Y*c - v.Z*s, v.Y*s + v.Z*c}
}

func (v Vector3) RotateY(theta float64) Vector3 {
	s, c := math.Sincos(theta)
	return Vector3{v.Z*s + v.X*c, v.Y, v.Z*c - v.X*s}
}

func (v Vector3) RotateZ(theta float64) Vector3 {
	s, c := math.Sincos(theta)
	return Vector3{v.X*c - v.Y*s, v.X*s + v.Y*c, v.Z}
}

func (v Vector3) IsZero() bool { return v.X == 0 && v.Y == 0 && v.Z == 0 }

// IsValid reports whether no component is NaN or infinite.
func (v Vector3) IsValid() bool {
	for _, c := range [3]float64{v.X, v.Y, v.Z} {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}

// Equals compares componentwise within tol.
func (v Vector3) Equals(o Vector3, tol float64) bool {
	return math.Abs(v.X-o.X) <= tol && math.Abs(v.Y-o.Y) <= tol && math.Abs(v.Z-o.Z) <= tol
}

// Component returns the i-th coordinate (0=x, 1=y, 2=z).
func (v Vector3) Component(i int) float64 {
	switch i {
	case 0:
		return v.X
	case 1:
		return v.Y
	default:
		return v.Z
	}
}

func (v Vector3) Slice() []float64 { return []float64{v.X, v.Y, v.Z} }
