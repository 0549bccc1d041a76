package engine

import (
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/san-kum/physim/internal/dynamo"
)

// TimestepMode selects the dt that Step integrates with.
type TimestepMode string

const (
	// Fixed integrates every accepted frame with Options.Timestep.
	Fixed TimestepMode = "fixed"
	// Measured integrates with the clamped wall-clock frame time.
	Measured TimestepMode = "measured"
)

const (
	DefaultTimestep    = 17.0
	DefaultMinTimeStep = 1000.0 / 120
	DefaultMaxTimeStep = 17.0
)

// Options are in milliseconds where they measure time.
type Options struct {
	ConstraintSteps    int          `yaml:"constraint_steps" mapstructure:"constraint_steps"`
	SleepTolerance     float64      `yaml:"sleep_tolerance" mapstructure:"sleep_tolerance"`
	VelocityCap        float64      `yaml:"velocity_cap" mapstructure:"velocity_cap"`
	AngularVelocityCap float64      `yaml:"angular_velocity_cap" mapstructure:"angular_velocity_cap"`
	Timestep           float64      `yaml:"timestep" mapstructure:"timestep"`
	MinTimeStep        float64      `yaml:"min_time_step" mapstructure:"min_time_step"`
	MaxTimeStep        float64      `yaml:"max_time_step" mapstructure:"max_time_step"`
	TimestepMode       TimestepMode `yaml:"timestep_mode" mapstructure:"timestep_mode"`
	AutoSleep          bool         `yaml:"auto_sleep" mapstructure:"auto_sleep"`
}

func DefaultOptions() Options {
	return Options{
		ConstraintSteps: 1,
		SleepTolerance:  1e-7,
		Timestep:        DefaultTimestep,
		MinTimeStep:     DefaultMinTimeStep,
		MaxTimeStep:     DefaultMaxTimeStep,
		TimestepMode:    Fixed,
	}
}

func (o Options) validate() error {
	nonNegative := map[string]float64{
		"sleepTolerance":     o.SleepTolerance,
		"velocityCap":        o.VelocityCap,
		"angularVelocityCap": o.AngularVelocityCap,
		"minTimeStep":        o.MinTimeStep,
	}
	for name, v := range nonNegative {
		if v < 0 || math.IsNaN(v) {
			return dynamo.InvalidOption("engine", name, v)
		}
	}
	if o.ConstraintSteps < 0 {
		return dynamo.InvalidOption("engine", "constraintSteps", float64(o.ConstraintSteps))
	}
	if !(o.Timestep > 0) {
		return dynamo.InvalidOption("engine", "timestep", o.Timestep)
	}
	if !(o.MaxTimeStep > 0) || o.MaxTimeStep < o.MinTimeStep {
		return dynamo.InvalidOption("engine", "maxTimeStep", o.MaxTimeStep)
	}
	switch o.TimestepMode {
	case Fixed, Measured:
	default:
		return dynamo.InvalidOption("engine", "timestepMode", math.NaN())
	}
	return nil
}

// Clock reports the current time in milliseconds.
type Clock func() float64

// WallClock is a monotonic millisecond clock starting at zero.
func WallClock() Clock {
	start := time.Now()
	return func() float64 {
		return float64(time.Since(start)) / float64(time.Millisecond)
	}
}

type Option func(*Engine)

func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.log = l
		}
	}
}

func WithClock(c Clock) Option {
	return func(e *Engine) {
		if c != nil {
			e.clock = c
		}
	}
}

// VirtualClock is a manually advanced Clock for deterministic frame drivers.
type VirtualClock struct {
	now float64
}

func (c *VirtualClock) Now() float64 { return c.now }

func (c *VirtualClock) Advance(ms float64) { c.now += ms }
