package constraints

import (
	"math"

	"github.com/san-kum/physim/internal/body"
	"github.com/san-kum/physim/internal/dynamo"
	"github.com/san-kum/physim/internal/vec"
)

// Equation is an implicit function whose zero set is the constrained region.
type Equation func(x, y, z float64) float64

// PlaneXY is z = 0.
func PlaneXY(_, _, z float64) float64 { return z }

// gradient estimates ∇f at p by finite differences and also returns f(p).
func gradient(f Equation, p vec.Vector3, central bool) (vec.Vector3, float64) {
	f0 := f(p.X, p.Y, p.Z)
	if central {
		h := 2 * Epsilon
		return vec.New(
			(f(p.X+Epsilon, p.Y, p.Z)-f(p.X-Epsilon, p.Y, p.Z))/h,
			(f(p.X, p.Y+Epsilon, p.Z)-f(p.X, p.Y-Epsilon, p.Z))/h,
			(f(p.X, p.Y, p.Z+Epsilon)-f(p.X, p.Y, p.Z-Epsilon))/h,
		), f0
	}
	return vec.New(
		(f(p.X+Epsilon, p.Y, p.Z)-f0)/Epsilon,
		(f(p.X, p.Y+Epsilon, p.Z)-f0)/Epsilon,
		(f(p.X, p.Y, p.Z+Epsilon)-f0)/Epsilon,
	), f0
}

// solveImplicit applies the impulse for one scalar constraint with value f0
// and Jacobian j to a particle.
func solveImplicit(p *body.Particle, j vec.Vector3, f0, period, dampingRatio, dt float64) {
	jj := j.NormSquared()
	if jj == 0 || math.IsNaN(jj) {
		return
	}
	m := p.Mass()
	gamma, beta := softness(period, dampingRatio, m, dt)
	lambda := -(j.Dot(p.Velocity) + beta/dt*f0) / (gamma + dt*jj/m)
	p.ApplyImpulse(j.Mult(dt * lambda))
}

type SurfaceOptions struct {
	Equation     Equation `mapstructure:"-"`
	Period       float64  `mapstructure:"period"`
	DampingRatio float64  `mapstructure:"damping_ratio"`
	Central      bool     `mapstructure:"central"`
}

// Surface keeps bodies on the zero set of Equation.
type Surface struct {
	base
	opts SurfaceOptions
}

func NewSurface(opts SurfaceOptions) (*Surface, error) {
	s := &Surface{}
	if err := validateSurface(opts); err != nil {
		return nil, err
	}
	s.opts = opts
	return s, nil
}

func validateSurface(opts SurfaceOptions) error {
	if opts.Equation == nil {
		return errNilEquation("surface")
	}
	return validateSoftness("surface", opts.Period, opts.DampingRatio)
}

func errNilEquation(agent string) error {
	return dynamo.InvalidOption(agent, "equation", math.NaN())
}

func (s *Surface) Options() SurfaceOptions { return s.opts }

func (s *Surface) SetOptions(opts SurfaceOptions) error {
	if err := validateSurface(opts); err != nil {
		return err
	}
	s.opts = opts
	s.changed(s)
	return nil
}

func (s *Surface) ApplyConstraint(targets []body.Entity, _ body.Entity, dt float64) {
	for _, t := range targets {
		p := t.Point()
		if p.InverseMass() == 0 {
			continue
		}
		j, f0 := gradient(s.opts.Equation, p.Position, s.opts.Central)
		solveImplicit(p, j, f0, s.opts.Period, s.opts.DampingRatio, dt)
	}
}

func (s *Surface) Energy(_ []body.Entity, _ body.Entity) float64 { return 0 }

type CurveOptions struct {
	Equation     Equation `mapstructure:"-"`
	Plane        Equation `mapstructure:"-"`
	Period       float64  `mapstructure:"period"`
	DampingRatio float64  `mapstructure:"damping_ratio"`
	Central      bool     `mapstructure:"central"`
}

// DefaultCurveOptions confines the curve to the xy plane.
func DefaultCurveOptions() CurveOptions {
	return CurveOptions{Plane: PlaneXY}
}

// Curve keeps bodies on the intersection of Equation and Plane. Both
// constraints are folded into one row by summing their Jacobians.
type Curve struct {
	base
	opts CurveOptions
}

func NewCurve(opts CurveOptions) (*Curve, error) {
	c := &Curve{}
	if err := validateCurve(&opts); err != nil {
		return nil, err
	}
	c.opts = opts
	return c, nil
}

func validateCurve(opts *CurveOptions) error {
	if opts.Equation == nil {
		return errNilEquation("curve")
	}
	if opts.Plane == nil {
		opts.Plane = PlaneXY
	}
	return validateSoftness("curve", opts.Period, opts.DampingRatio)
}

func (c *Curve) Options() CurveOptions { return c.opts }

func (c *Curve) SetOptions(opts CurveOptions) error {
	if err := validateCurve(&opts); err != nil {
		return err
	}
	c.opts = opts
	c.changed(c)
	return nil
}

func (c *Curve) ApplyConstraint(targets []body.Entity, _ body.Entity, dt float64) {
	for _, t := range targets {
		p := t.Point()
		if p.InverseMass() == 0 {
			continue
		}
		jf, f0 := gradient(c.opts.Equation, p.Position, c.opts.Central)
		jg, g0 := gradient(c.opts.Plane, p.Position, c.opts.Central)
		solveImplicit(p, jf.Add(jg), f0+g0, c.opts.Period, c.opts.DampingRatio, dt)
	}
}

func (c *Curve) Energy(_ []body.Entity, _ body.Entity) float64 { return 0 }
