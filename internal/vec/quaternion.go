package vec

import "math"

// Quaternion is a rotation {W, X, Y, Z}. The identity is {1, 0, 0, 0}.
//
// Matrix and Transform use the left-handed sign convention of the render
// layer: the off-diagonal rotation terms are the transpose of the usual
// right-handed formula. Keep it that way; downstream transforms depend on it.
type Quaternion struct {
	W, X, Y, Z float64
}

func IdentityQuaternion() Quaternion { return Quaternion{W: 1} }

// FromAngleAxis builds the rotation of angle radians about axis.
func FromAngleAxis(angle float64, axis Vector3) Quaternion {
	n := axis.Unit()
	s, c := math.Sincos(angle / 2)
	return Quaternion{W: c, X: s * n.X, Y: s * n.Y, Z: s * n.Z}
}

// FromEuler builds a quaternion from XYZ euler angles in radians.
func FromEuler(x, y, z float64) Quaternion {
	sx, cx := math.Sincos(x / 2)
	sy, cy := math.Sincos(y / 2)
	sz, cz := math.Sincos(z / 2)
	return Quaternion{
		W: cx*cy*cz - sx*sy*sz,
		X: sx*cy*cz + cx*sy*sz,
		Y: cx*sy*cz - sx*cy*sz,
		Z: cx*cy*sz + sx*sy*cz,
	}
}

// Vector returns the vector part.
func (q Quaternion) Vector() Vector3 { return Vector3{q.X, q.Y, q.Z} }

func (q Quaternion) Add(o Quaternion) Quaternion {
	return Quaternion{q.W + o.W, q.X + o.X, q.Y + o.Y, q.Z + o.Z}
}

func (q Quaternion) Sub(o Quaternion) Quaternion {
	return Quaternion{q.W - o.W, q.X - o.X, q.Y - o.Y, q.Z - o.Z}
}

func (q Quaternion) Scale(s float64) Quaternion {
	return Quaternion{q.W * s, q.X * s, q.Y * s, q.Z * s}
}

func (q Quaternion) Negate() Quaternion { return q.Scale(-1) }

// Multiply is the Hamilton product q ⊗ o.
func (q Quaternion) Multiply(o Quaternion) Quaternion {
	return Quaternion{
		W: q.W*o.W - q.X*o.X - q.Y*o.Y - q.Z*o.Z,
		X: q.W*o.X + q.X*o.W + q.Y*o.Z - q.Z*o.Y,
		Y: q.W*o.Y - q.X*o.Z + q.Y*o.W + q.Z*o.X,
		Z: q.W*o.Z + q.X*o.Y - q.Y*o.X + q.Z*o.W,
	}
}

// MultiplyVector treats v as the pure quaternion {0, v}.
func (q Quaternion) MultiplyVector(v Vector3) Quaternion {
	return q.Multiply(Quaternion{X: v.X, Y: v.Y, Z: v.Z})
}

func (q Quaternion) Conj() Quaternion { return Quaternion{q.W, -q.X, -q.Y, -q.Z} }

func (q Quaternion) Dot(o Quaternion) float64 {
	return q.W*o.W + q.X*o.X + q.Y*o.Y + q.Z*o.Z
}

func (q Quaternion) NormSquared() float64 { return q.Dot(q) }
func (q Quaternion) Norm() float64        { return math.Sqrt(q.NormSquared()) }

// Normalize returns a unit quaternion; the zero quaternion becomes identity.
func (q Quaternion) Normalize() Quaternion {
	n := q.Norm()
	if n < Epsilon {
		return IdentityQuaternion()
	}
	return q.Scale(1 / n)
}

func (q Quaternion) Inverse() Quaternion {
	n2 := q.NormSquared()
	if n2 < Epsilon {
		return IdentityQuaternion()
	}
	return q.Conj().Scale(1 / n2)
}

func (q Quaternion) IsZero() bool { return q.W == 0 && q.X == 0 && q.Y == 0 && q.Z == 0 }

// RotateVector applies the rotation to v.
func (q Quaternion) RotateVector(v Vector3) Vector3 {
	return q.MultiplyVector(v).Multiply(q.Inverse()).Vector()
}

// Slerp interpolates from q to o by t in [0,1] along the shorter arc.
func (q Quaternion) Slerp(o Quaternion, t float64) Quaternion {
	cos := q.Dot(o)
	if cos < 0 {
		cos = -cos
		o = o.Negate()
	}
	var s0, s1 float64
	if 1-cos > Epsilon {
		omega := math.Acos(cos)
		sin := math.Sin(omega)
		s0 = math.Sin((1-t)*omega) / sin
		s1 = math.Sin(t*omega) / sin
	} else {
		s0, s1 = 1-t, t
	}
	return q.Scale(s0).Add(o.Scale(s1))
}

// Euler returns XYZ euler angles in radians.
func (q Quaternion) Euler() Vector3 {
	x, y, z, w := q.X, q.Y, q.Z, q.W
	ty := 2 * (x*z + y*w)
	ty = math.Max(-1, math.Min(1, ty))
	return Vector3{
		X: math.Atan2(2*(x*w-y*z), 1-2*(x*x+y*y)),
		Y: math.Asin(ty),
		Z: math.Atan2(2*(z*w-x*y), 1-2*(y*y+z*z)),
	}
}

// Matrix returns the 3x3 rotation of the normalized quaternion.
func (q Quaternion) Matrix() Matrix3 {
	n := q.Normalize()
	w, x, y, z := n.W, n.X, n.Y, n.Z
	return Matrix3{
		{1 - 2*y*y - 2*z*z, 2*x*y + 2*z*w, 2*x*z - 2*y*w},
		{2*x*y - 2*z*w, 1 - 2*x*x - 2*z*z, 2*y*z + 2*x*w},
		{2*x*z + 2*y*w, 2*y*z - 2*x*w, 1 - 2*x*x - 2*y*y},
	}
}

// Transform returns the rotation as a column-major 4x4 matrix.
func (q Quaternion) Transform() [16]float64 {
	m := q.Matrix()
	return [16]float64{
		m[0][0], m[0][1], m[0][2], 0,
		m[1][0], m[1][1], m[1][2], 0,
		m[2][0], m[2][1], m[2][2], 0,
		0, 0, 0, 1,
	}
}
