package experiment

import (
	"context"
	"fmt"
	"math"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/san-kum/physim/internal/config"
	"github.com/san-kum/physim/internal/constraints"
	"github.com/san-kum/physim/internal/engine"
	"github.com/san-kum/physim/internal/metrics"
	"github.com/san-kum/physim/internal/scene"
	"github.com/san-kum/physim/internal/vec"
)

type Observer interface {
	OnStep(s metrics.Sample)
}

// recorder is implemented by metrics that consume collision events.
type recorder interface {
	Record(constraints.CollisionData)
}

type Result struct {
	Scene       string
	Names       []string
	Positions   [][]vec.Vector3
	Energies    []float64
	Times       []float64
	Metrics     map[string]float64
	Collisions  int
	StepsTaken  int
	EnergyDrift float64
}

// SimError reports a frame that produced a non-finite state.
type SimError struct {
	Time    float64
	Step    int
	Message string
}

func (e SimError) Error() string {
	return fmt.Sprintf("t=%.2fms step %d: %s", e.Time, e.Step, e.Message)
}

// Experiment drives a scene frame by frame on a virtual clock, so every frame
// goes through Engine.Step with exactly one Timestep of elapsed time.
type Experiment struct {
	scene      *scene.Scene
	clock      *engine.VirtualClock
	metrics    []metrics.Metric
	observers  []Observer
	collisions int
}

func New(cfg *config.Config, log *zap.Logger) (*Experiment, error) {
	clock := &engine.VirtualClock{}
	s, err := scene.Build(cfg, log, engine.WithClock(clock.Now))
	if err != nil {
		return nil, err
	}
	e := &Experiment{scene: s, clock: clock}
	s.OnCollision(e.onCollision)
	return e, nil
}

func (e *Experiment) Scene() *scene.Scene { return e.scene }

func (e *Experiment) AddMetric(m metrics.Metric) { e.metrics = append(e.metrics, m) }
func (e *Experiment) AddObserver(o Observer)     { e.observers = append(e.observers, o) }

func (e *Experiment) onCollision(d constraints.CollisionData) {
	e.collisions++
	for _, m := range e.metrics {
		if r, ok := m.(recorder); ok {
			r.Record(d)
		}
	}
}

func (e *Experiment) sample(step int, t float64) metrics.Sample {
	return metrics.Sample{
		Step:     step,
		Time:     t,
		Energy:   e.scene.Engine.Energy(),
		Entities: e.scene.Entities(),
	}
}

func positions(s metrics.Sample) []vec.Vector3 {
	out := make([]vec.Vector3, len(s.Entities))
	for i, ent := range s.Entities {
		out[i] = ent.Point().Position
	}
	return out
}

// Run advances frames frames. On cancellation the partial result is returned
// with the context error.
func (e *Experiment) Run(ctx context.Context, frames int) (*Result, error) {
	if frames <= 0 {
		return nil, errors.Errorf("frames must be positive, got %d", frames)
	}
	eng := e.scene.Engine
	advance, dt := frameStep(eng.Options())

	result := &Result{
		Scene:     e.scene.Config.Scene,
		Names:     append([]string(nil), e.scene.Names...),
		Positions: make([][]vec.Vector3, 0, frames+1),
		Energies:  make([]float64, 0, frames+1),
		Times:     make([]float64, 0, frames+1),
		Metrics:   make(map[string]float64),
	}

	for _, m := range e.metrics {
		m.Reset()
	}
	e.collisions = 0

	t := 0.0
	s := e.sample(0, t)
	result.Positions = append(result.Positions, positions(s))
	result.Energies = append(result.Energies, s.Energy)
	result.Times = append(result.Times, t)
	initialEnergy := s.Energy

	var runErr error
	for i := 0; i < frames; i++ {
		select {
		case <-ctx.Done():
			runErr = ctx.Err()
		default:
		}
		if runErr != nil {
			break
		}

		e.clock.Advance(advance)
		eng.Step()
		t += dt
		result.StepsTaken++

		s = e.sample(i+1, t)
		for _, m := range e.metrics {
			m.Observe(s)
		}
		for _, o := range e.observers {
			o.OnStep(s)
		}

		pos := positions(s)
		result.Positions = append(result.Positions, pos)
		result.Energies = append(result.Energies, s.Energy)
		result.Times = append(result.Times, t)

		if !validState(pos, s.Energy) {
			runErr = SimError{Time: t, Step: i, Message: "invalid state (NaN/Inf)"}
			break
		}
	}

	if initialEnergy != 0 {
		result.EnergyDrift = math.Abs(s.Energy-initialEnergy) / math.Abs(initialEnergy)
	}
	for _, m := range e.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
	result.Collisions = e.collisions
	return result, runErr
}

// frameStep returns how far to advance the clock per frame so that no frame
// is dropped, and the dt the engine integrates with for that advance.
func frameStep(opts engine.Options) (advance, dt float64) {
	advance = math.Max(opts.Timestep, opts.MinTimeStep)
	if opts.TimestepMode == engine.Measured {
		return advance, math.Min(advance, opts.MaxTimeStep)
	}
	return advance, opts.Timestep
}

func validState(pos []vec.Vector3, energy float64) bool {
	if math.IsNaN(energy) || math.IsInf(energy, 0) {
		return false
	}
	for _, p := range pos {
		if !p.IsValid() {
			return false
		}
	}
	return true
}
