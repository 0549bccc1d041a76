package vec

import (
	"math"
	"testing"
)

const tol = 1e-9

func TestVector_Arithmetic(t *testing.T) {
	a := New(1, 2, 3)
	b := New(4, 5, 6)

	if got := a.Add(b); got != New(5, 7, 9) {
		t.Errorf("Add failed: got %v", got)
	}
	if got := b.Sub(a); got != New(3, 3, 3) {
		t.Errorf("Sub failed: got %v", got)
	}
	if got := a.Mult(2); got != New(2, 4, 6) {
		t.Errorf("Mult failed: got %v", got)
	}
	if got := a.Dot(b); got != 32 {
		t.Errorf("Dot failed: got %v", got)
	}
	if got := UnitX.Cross(UnitY); got != UnitZ {
		t.Errorf("Cross failed: got %v", got)
	}
}

func TestVector_OperationsDoNotAlias(t *testing.T) {
	a := New(1, 0, 0)
	sum := a.Add(UnitY)
	diff := a.Sub(UnitY)

	if sum != New(1, 1, 0) || diff != New(1, -1, 0) {
		t.Errorf("results interfere: sum=%v diff=%v", sum, diff)
	}
	if a != New(1, 0, 0) {
		t.Errorf("receiver mutated: %v", a)
	}
}

func TestVector_Normalize(t *testing.T) {
	tests := []struct {
		name   string
		v      Vector3
		length float64
		want   Vector3
	}{
		{"unit x", New(5, 0, 0), 1, UnitX},
		{"scaled", New(0, 3, 4), 10, New(0, 6, 8)},
		{"zero falls back", Zero, 1, UnitX},
		{"tiny falls back", New(1e-9, 0, 0), 2, New(2, 0, 0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.v.Normalize(tt.length)
			if !got.Equals(tt.want, tol) {
				t.Errorf("Normalize(%v, %v) = %v, want %v", tt.v, tt.length, got, tt.want)
			}
			if !got.IsValid() {
				t.Errorf("Normalize produced invalid vector %v", got)
			}
		})
	}
}

func TestVector_Cap(t *testing.T) {
	v := New(3, 4, 0)
	if got := v.Cap(10); got != v {
		t.Errorf("Cap above norm changed vector: %v", got)
	}
	if got := v.Cap(1); math.Abs(got.Norm()-1) > tol {
		t.Errorf("Cap(1) norm = %v", got.Norm())
	}
	if got := v.Cap(math.Inf(1)); got != v {
		t.Errorf("Cap(Inf) changed vector: %v", got)
	}
}

func TestVector_Reflect(t *testing.T) {
	v := New(1, -1, 0)
	got := v.ReflectAcross(New(0, 2, 0))
	if !got.Equals(New(1, 1, 0), tol) {
		t.Errorf("ReflectAcross = %v", got)
	}
}

func TestVector_Rotate(t *testing.T) {
	if got := UnitX.RotateZ(math.Pi / 2); !got.Equals(UnitY, tol) {
		t.Errorf("RotateZ = %v", got)
	}
	if got := UnitY.RotateX(math.Pi / 2); !got.Equals(UnitZ, tol) {
		t.Errorf("RotateX = %v", got)
	}
	if got := UnitZ.RotateY(math.Pi / 2); !got.Equals(UnitX, tol) {
		t.Errorf("RotateY = %v", got)
	}
}

func TestVector_IsValid(t *testing.T) {
	tests := []struct {
		v     Vector3
		valid bool
	}{
		{New(1, 2, 3), true},
		{New(math.NaN(), 0, 0), false},
		{New(0, math.Inf(1), 0), false},
	}
	for _, tt := range tests {
		if got := tt.v.IsValid(); got != tt.valid {
			t.Errorf("IsValid(%v) = %v, want %v", tt.v, got, tt.valid)
		}
	}
}

func TestMatrix(t *testing.T) {
	m := Matrix3{{1, 2, 3}, {4, 5, 6}, {7, 8, 9}}

	if got := m.VectorMultiply(New(1, 0, -1)); got != New(-2, -2, -2) {
		t.Errorf("VectorMultiply = %v", got)
	}
	if got := m.Multiply(Identity()); got != m {
		t.Errorf("Multiply by identity = %v", got)
	}
	if got := m.Transpose(); got[0][1] != 4 || got[2][0] != 3 {
		t.Errorf("Transpose = %v", got)
	}
}
