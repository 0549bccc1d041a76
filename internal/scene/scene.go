package scene

import (
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/san-kum/physim/internal/body"
	"github.com/san-kum/physim/internal/config"
	"github.com/san-kum/physim/internal/constraints"
	"github.com/san-kum/physim/internal/dynamo"
	"github.com/san-kum/physim/internal/engine"
	"github.com/san-kum/physim/internal/event"
	"github.com/san-kum/physim/internal/vec"
)

// Agent is one attached force or constraint.
type Agent struct {
	ID    int
	Type  string
	Agent any
}

// Scene is an engine populated from a config.
type Scene struct {
	Config *config.Config
	Engine *engine.Engine
	Names  []string
	Bodies map[string]body.Entity
	Agents []Agent

	log *zap.Logger
}

// Build creates the engine, its bodies and its agents. settings are passed to
// engine.New after the scene logger.
func Build(cfg *config.Config, log *zap.Logger, settings ...engine.Option) (*Scene, error) {
	if log == nil {
		log = zap.NewNop()
	}
	opts := append([]engine.Option{engine.WithLogger(log)}, settings...)
	eng, err := engine.New(cfg.Engine, opts...)
	if err != nil {
		return nil, errors.Wrap(err, "engine")
	}
	s := &Scene{
		Config: cfg,
		Engine: eng,
		Bodies: make(map[string]body.Entity, len(cfg.Bodies)),
		log:    log.With(zap.String("scene", cfg.Scene)),
	}
	for _, bc := range cfg.Bodies {
		if err := s.addBody(bc); err != nil {
			return nil, err
		}
	}
	for i, ac := range cfg.Agents {
		if err := s.addAgent(ac); err != nil {
			return nil, errors.Wrapf(err, "agent %d (%s)", i, ac.Type)
		}
	}
	s.log.Debug("scene built", zap.Int("bodies", len(s.Names)), zap.Int("agents", len(s.Agents)))
	return s, nil
}

// Entities lists bodies in declaration order.
func (s *Scene) Entities() []body.Entity {
	out := make([]body.Entity, len(s.Names))
	for i, n := range s.Names {
		out[i] = s.Bodies[n]
	}
	return out
}

// OnCollision subscribes fn to the collision events of every contact
// constraint in the scene.
func (s *Scene) OnCollision(fn func(constraints.CollisionData)) {
	for _, a := range s.Agents {
		em, ok := a.Agent.(interface {
			On(event.Type, event.Handler) int
		})
		if !ok {
			continue
		}
		em.On(event.Collision, func(p any) {
			if data, ok := p.(constraints.CollisionData); ok {
				fn(data)
			}
		})
	}
}

func (s *Scene) addBody(bc config.BodyConfig) error {
	if bc.Name == "" {
		return errors.Wrap(dynamo.ErrInvalidOption, "body without name")
	}
	if _, dup := s.Bodies[bc.Name]; dup {
		return errors.Wrapf(dynamo.ErrInvalidOption, "duplicate body %q", bc.Name)
	}
	e, err := newBody(bc)
	if err != nil {
		return errors.Wrapf(err, "body %q", bc.Name)
	}
	s.Engine.AddBody(e)
	s.Bodies[bc.Name] = e
	s.Names = append(s.Names, bc.Name)
	return nil
}

func newBody(bc config.BodyConfig) (body.Entity, error) {
	opts := body.Options{
		Position:        vec.FromSlice(bc.Position),
		Velocity:        vec.FromSlice(bc.Velocity),
		Mass:            bc.Mass,
		Radius:          bc.Radius,
		AngularVelocity: vec.FromSlice(bc.AngularVelocity),
	}
	axis, err := parseAxis(bc.Axis)
	if err != nil {
		return nil, err
	}
	opts.Axis = axis
	if opts.Orientation, err = orientation(bc.Orientation); err != nil {
		return nil, err
	}

	switch bc.Kind {
	case "", "particle":
		return body.NewParticle(opts)
	case "body":
		return body.NewBody(opts)
	case "rectangle":
		if len(bc.Size) != 2 {
			return nil, errors.Wrap(dynamo.ErrInvalidOption, "rectangle needs size [w, h]")
		}
		return body.NewRectangle(opts, bc.Size[0], bc.Size[1])
	case "circle":
		return body.NewCircle(opts, bc.Radius)
	case "sphere":
		return body.NewSphere(opts, bc.Radius)
	default:
		return nil, errors.Wrapf(dynamo.ErrUnknownKind, "body kind %q", bc.Kind)
	}
}

func parseAxis(s string) (body.Axis, error) {
	var a body.Axis
	for _, c := range strings.ToLower(s) {
		switch c {
		case 'x':
			a |= body.AxisX
		case 'y':
			a |= body.AxisY
		case 'z':
			a |= body.AxisZ
		default:
			return 0, errors.Wrapf(dynamo.ErrInvalidOption, "axis %q", s)
		}
	}
	return a, nil
}

// orientation reads Euler angles [x, y, z] or a quaternion [w, x, y, z].
func orientation(s []float64) (vec.Quaternion, error) {
	switch len(s) {
	case 0:
		return vec.Quaternion{}, nil
	case 3:
		return vec.FromEuler(s[0], s[1], s[2]), nil
	case 4:
		return vec.Quaternion{W: s[0], X: s[1], Y: s[2], Z: s[3]}.Normalize(), nil
	default:
		return vec.Quaternion{}, errors.Wrapf(dynamo.ErrInvalidOption, "orientation has %d components", len(s))
	}
}

func (s *Scene) lookup(name string) (body.Entity, error) {
	e, ok := s.Bodies[name]
	if !ok {
		return nil, errors.Wrapf(dynamo.ErrBodyNotFound, "%q", name)
	}
	return e, nil
}

func (s *Scene) addAgent(ac config.AgentConfig) error {
	agent, err := s.newAgent(ac)
	if err != nil {
		return err
	}

	var targets []body.Entity
	if len(ac.Targets) > 0 {
		targets = make([]body.Entity, 0, len(ac.Targets))
		for _, name := range ac.Targets {
			e, err := s.lookup(name)
			if err != nil {
				return err
			}
			targets = append(targets, e)
		}
	}
	var source body.Entity
	if ac.Source != "" {
		if source, err = s.lookup(ac.Source); err != nil {
			return err
		}
	}

	id, err := s.Engine.Attach(agent, targets, source)
	if err != nil {
		return err
	}
	s.Agents = append(s.Agents, Agent{ID: id, Type: ac.Type, Agent: agent})
	return nil
}
