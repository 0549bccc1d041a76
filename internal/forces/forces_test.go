package forces

import (
	"math"
	"testing"

	"github.com/pkg/errors"
	"github.com/san-kum/physim/internal/body"
	"github.com/san-kum/physim/internal/dynamo"
	"github.com/san-kum/physim/internal/integrators"
	"github.com/san-kum/physim/internal/vec"
)

type forceAgent interface {
	ApplyForce(targets []body.Entity, source body.Entity)
}

// run steps one particle under a single force with the engine's pipeline order.
func run(f forceAgent, p *body.Particle, dt float64, steps int, observe func(i int)) {
	integ := integrators.NewSymplecticEuler()
	targets := []body.Entity{p}
	for i := 0; i < steps; i++ {
		f.ApplyForce(targets, nil)
		integ.IntegrateVelocity(p, dt)
		integ.IntegratePosition(p, dt)
		if observe != nil {
			observe(i)
		}
	}
}

func newParticle(t *testing.T, opts body.Options) *body.Particle {
	t.Helper()
	p, err := body.NewParticle(opts)
	if err != nil {
		t.Fatalf("NewParticle: %v", err)
	}
	return p
}

func TestSpring_CriticallyDampedNoOvershoot(t *testing.T) {
	anchor := vec.Zero
	spring, err := NewSpring(SpringOptions{Period: 300, DampingRatio: 1, Anchor: &anchor})
	if err != nil {
		t.Fatalf("NewSpring: %v", err)
	}
	p := newParticle(t, body.Options{Position: vec.New(100, 0, 0)})

	prev := p.Position.X
	run(spring, p, 17, 300, func(i int) {
		x := p.Position.X
		// below vec.Epsilon the direction is undefined; allow jitter there
		if x < -1e-6 {
			t.Fatalf("step %d: overshoot to x=%v", i, x)
		}
		if x > prev+1e-6 {
			t.Fatalf("step %d: moved away from anchor %v -> %v", i, prev, x)
		}
		prev = x
	})

	if math.Abs(p.Position.X) > 1e-3 {
		t.Errorf("did not settle: x=%v", p.Position.X)
	}
}

func TestSpring_EqualAndOpposite(t *testing.T) {
	spring, _ := NewSpring(SpringOptions{Period: 300, DampingRatio: 0.5, Length: 10})
	src := newParticle(t, body.Options{Mass: 3, Velocity: vec.New(0, 1, 0)})
	dst := newParticle(t, body.Options{Mass: 2, Position: vec.New(50, 20, -5), Velocity: vec.New(-1, 0, 2)})

	spring.ApplyForce([]body.Entity{dst}, src)

	if dst.Force.IsZero() {
		t.Fatal("no force applied")
	}
	if sum := dst.Force.Add(src.Force); !sum.Equals(vec.Zero, 1e-12) {
		t.Errorf("forces not opposite: %v + %v", dst.Force, src.Force)
	}
}

func TestSpring_RestLengthNoForce(t *testing.T) {
	anchor := vec.Zero
	spring, _ := NewSpring(SpringOptions{Period: 300, Length: 5, Anchor: &anchor})
	p := newParticle(t, body.Options{Position: vec.New(0, 5, 0)})

	spring.ApplyForce([]body.Entity{p}, nil)
	if !p.Force.IsZero() {
		t.Errorf("force at rest length: %v", p.Force)
	}
	if e := spring.Energy([]body.Entity{p}, nil); e != 0 {
		t.Errorf("energy at rest length: %v", e)
	}
}

func TestSpring_Options(t *testing.T) {
	s, err := NewSpring(SpringOptions{Period: 50})
	if err != nil {
		t.Fatalf("NewSpring: %v", err)
	}
	if s.Options().Period != MinPeriod {
		t.Errorf("period = %v, want clamp to %v", s.Options().Period, MinPeriod)
	}
	if !PeriodClamped(50) || PeriodClamped(300) {
		t.Error("PeriodClamped disagrees with clamp")
	}

	tests := []struct {
		name string
		opts SpringOptions
	}{
		{"zero period", SpringOptions{}},
		{"negative damping", SpringOptions{Period: 300, DampingRatio: -1}},
		{"negative length", SpringOptions{Period: 300, Length: -1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewSpring(tt.opts); !errors.Is(err, dynamo.ErrInvalidOption) {
				t.Errorf("expected ErrInvalidOption, got %v", err)
			}
		})
	}
}

func TestFENE_BoundsExtension(t *testing.T) {
	f := FENE.eval(50, 10)
	if math.IsInf(f, 0) || math.IsNaN(f) {
		t.Fatalf("FENE diverged: %v", f)
	}
	if f <= Hook.eval(9.9, 10) {
		t.Errorf("FENE should stiffen near max length, got %v", f)
	}
	if Hook.eval(3, 10) != 3 {
		t.Error("Hook should be linear")
	}
}

func TestRotationalSpring_TurnsTowardAnchor(t *testing.T) {
	spring, err := NewRotationalSpring(RotationalSpringOptions{Period: 300, DampingRatio: 1})
	if err != nil {
		t.Fatalf("NewRotationalSpring: %v", err)
	}
	b, _ := body.NewBody(body.Options{Orientation: vec.FromAngleAxis(0.5, vec.UnitZ)})
	integ := integrators.NewSymplecticEuler()
	targets := []body.Entity{b}

	angle := func() float64 { return displacement(b.Orientation, vec.IdentityQuaternion()).Norm() }
	start := angle()

	for i := 0; i < 100; i++ {
		spring.ApplyForce(targets, nil)
		integ.IntegrateAngularMomentum(b, 17)
		b.UpdateAngularVelocity()
		integ.IntegrateOrientation(b, 17)
	}

	if end := angle(); end >= start*0.1 {
		t.Errorf("angle %v -> %v, expected strong decay", start, end)
	}
}

func TestRotationalSpring_AtAnchorWithLength(t *testing.T) {
	spring, err := NewRotationalSpring(RotationalSpringOptions{Period: 300, DampingRatio: 1, Length: 0.2})
	if err != nil {
		t.Fatalf("NewRotationalSpring: %v", err)
	}
	b, _ := body.NewBody(body.Options{})

	spring.ApplyForce([]body.Entity{b}, nil)

	if !b.Torque.IsZero() {
		t.Errorf("torque = %v at the anchor, want zero", b.Torque)
	}
}

func TestDrag_EnergyNonIncreasing(t *testing.T) {
	for _, law := range []DragLaw{LinearDrag, QuadraticDrag} {
		drag, _ := NewDrag(DragOptions{Strength: 0.01, Law: law})
		p := newParticle(t, body.Options{Velocity: vec.New(3, -4, 1)})

		prev := p.Energy()
		run(drag, p, 17, 200, func(i int) {
			e := p.Energy()
			if e > prev+1e-12 {
				t.Fatalf("law %d step %d: energy rose %v -> %v", law, i, prev, e)
			}
			prev = e
		})
	}
}

func TestRepulsion(t *testing.T) {
	anchor := vec.Zero
	rep, err := NewRepulsion(RepulsionOptions{Strength: 2, Anchor: &anchor, Range: [2]float64{0, 100}})
	if err != nil {
		t.Fatalf("NewRepulsion: %v", err)
	}
	near := newParticle(t, body.Options{Position: vec.New(2, 0, 0)})
	far := newParticle(t, body.Options{Position: vec.New(200, 0, 0)})

	rep.ApplyForce([]body.Entity{near, far}, nil)

	if near.Force.X <= 0 {
		t.Errorf("near particle not pushed away: %v", near.Force)
	}
	want := 2.0 / (1 + 4)
	if math.Abs(near.Force.X-want) > 1e-12 {
		t.Errorf("gravity decay force = %v, want %v", near.Force.X, want)
	}
	if !far.Force.IsZero() {
		t.Errorf("out of range particle affected: %v", far.Force)
	}

	attract, _ := NewRepulsion(RepulsionOptions{Strength: -1, Anchor: &anchor, Cap: 0.1})
	p := newParticle(t, body.Options{Position: vec.New(0, 1, 0)})
	attract.ApplyForce([]body.Entity{p}, nil)
	if p.Force.Y >= 0 || math.Abs(p.Force.Norm()-0.1) > 1e-12 {
		t.Errorf("attraction = %v, want capped pull of 0.1", p.Force)
	}
}

func TestRepulsion_SkipsSource(t *testing.T) {
	rep, _ := NewRepulsion(DefaultRepulsionOptions())
	src := newParticle(t, body.Options{})
	other := newParticle(t, body.Options{Position: vec.New(0, 0, 3)})

	rep.ApplyForce([]body.Entity{src, other}, src)
	if !src.Force.IsZero() {
		t.Errorf("source pushed itself: %v", src.Force)
	}
	if other.Force.Z <= 0 {
		t.Errorf("target not repelled: %v", other.Force)
	}
}

func TestRepulsion_DecayFunctions(t *testing.T) {
	tests := []struct {
		name  string
		decay DecayFunction
		r     float64
		cut   float64
		want  float64
	}{
		{"gravity", Gravity, 2, 0, 0.2},
		{"inverse", Inverse, 2, 0, 1.0 / 3},
		{"linear inside", Linear, 5, 10, 0.5},
		{"linear outside", Linear, 20, 10, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.decay.eval(tt.r, tt.cut); math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("eval = %v, want %v", got, tt.want)
			}
		})
	}
	if m := Morse.eval(0, 0); m < 0 || m > 1 {
		t.Errorf("morse out of [0,1]: %v", m)
	}
	if _, err := NewRepulsion(RepulsionOptions{Decay: Linear}); !errors.Is(err, dynamo.ErrInvalidOption) {
		t.Errorf("linear decay without cutoff should fail, got %v", err)
	}
}

func TestVectorField(t *testing.T) {
	tests := []struct {
		name string
		opts VectorFieldOptions
		pos  vec.Vector3
		want vec.Vector3
	}{
		{"constant", VectorFieldOptions{Strength: 2, Direction: vec.UnitY}, vec.New(5, 5, 5), vec.New(0, 4, 0)},
		{"linear", VectorFieldOptions{Strength: 1, Field: LinearField}, vec.New(1, 2, 3), vec.New(2, 4, 6)},
		{"radial", VectorFieldOptions{Strength: 1, Field: Radial}, vec.New(1, 0, 0), vec.New(-2, 0, 0)},
		{"point", VectorFieldOptions{Strength: 1, Field: PointAttractor, Position: vec.New(0, 10, 0)}, vec.Zero, vec.New(0, 20, 0)},
		{"sphere", VectorFieldOptions{Strength: 1, Field: SphereAttractor, Radius: 5}, vec.New(10, 0, 0), vec.New(-10, 0, 0)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := NewVectorField(tt.opts)
			if err != nil {
				t.Fatalf("NewVectorField: %v", err)
			}
			p := newParticle(t, body.Options{Mass: 2, Position: tt.pos})
			f.ApplyForce([]body.Entity{p}, nil)
			if !p.Force.Equals(tt.want, 1e-12) {
				t.Errorf("force = %v, want %v", p.Force, tt.want)
			}
		})
	}
}

func TestVectorField_ConstantEnergy(t *testing.T) {
	f, _ := NewVectorField(VectorFieldOptions{Strength: 1, Direction: vec.UnitY})
	p := newParticle(t, body.Options{Position: vec.New(0, 3, 0)})
	if e := f.Energy([]body.Entity{p}, nil); e != -3 {
		t.Errorf("Energy = %v, want -3", e)
	}
}

func TestRotationalDrag(t *testing.T) {
	d, _ := NewRotationalDrag(DragOptions{Strength: 0.5})
	b, _ := body.NewBody(body.Options{})
	b.SetAngularVelocity(vec.New(0, 0, 2))
	p := newParticle(t, body.Options{})

	d.ApplyForce([]body.Entity{b, p}, nil)
	if b.Torque != vec.New(0, 0, -1) {
		t.Errorf("torque = %v, want [0 0 -1]", b.Torque)
	}
}
