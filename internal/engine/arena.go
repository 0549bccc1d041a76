package engine

import (
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/san-kum/physim/internal/body"
	"github.com/san-kum/physim/internal/dynamo"
	"github.com/san-kum/physim/internal/event"
)

type kind int

const (
	kindForce kind = iota
	kindConstraint
)

func (k kind) String() string {
	if k == kindForce {
		return "force"
	}
	return "constraint"
}

// emitter is implemented by agents that announce option changes.
type emitter interface {
	On(event.Type, event.Handler) int
	Off(event.Type, int) bool
}

type binding struct {
	kind       kind
	agent      any
	force      Force
	constraint Constraint
	targets    []body.Entity
	source     body.Entity
	changeSub  int
}

func (b *binding) energy() float64 {
	if b.kind == kindForce {
		return b.force.Energy(b.targets, b.source)
	}
	return b.constraint.Energy(b.targets, b.source)
}

// arena holds bindings by id; order keeps attach order.
type arena struct {
	bindings map[int]*binding
	order    []int
	nextID   int
}

func newArena() arena {
	return arena{bindings: make(map[int]*binding)}
}

func (a *arena) ids() []int {
	return append([]int(nil), a.order...)
}

func resolve(agent any) (*binding, error) {
	f, isForce := agent.(Force)
	c, isConstraint := agent.(Constraint)
	switch {
	case isForce && !isConstraint:
		return &binding{kind: kindForce, agent: agent, force: f}, nil
	case isConstraint && !isForce:
		return &binding{kind: kindConstraint, agent: agent, constraint: c}, nil
	default:
		return nil, errors.Wrapf(dynamo.ErrInvalidAgent, "%T", agent)
	}
}

// Attach binds agent to targets, or to every registered body when targets is
// nil, with an optional source, and wakes the engine.
func (e *Engine) Attach(agent any, targets []body.Entity, source body.Entity) (int, error) {
	b, err := resolve(agent)
	if err != nil {
		return 0, err
	}
	if targets == nil {
		targets = e.ParticlesAndBodies()
	} else {
		targets = append([]body.Entity(nil), targets...)
	}
	b.targets, b.source = targets, source
	if em, ok := agent.(emitter); ok {
		b.changeSub = em.On(event.Change, func(any) { e.Wake() })
	}

	id := e.nextID
	e.nextID++
	e.bindings[id] = b
	e.order = append(e.order, id)

	e.log.Debug("agent attached",
		zap.Int("id", id),
		zap.Stringer("kind", b.kind),
		zap.String("agent", typeName(agent)),
		zap.Int("targets", len(targets)))
	e.Wake()
	return id, nil
}

// AttachAll attaches each agent with the same targets and source. On error
// the agents attached so far stay attached.
func (e *Engine) AttachAll(agents []any, targets []body.Entity, source body.Entity) ([]int, error) {
	ids := make([]int, 0, len(agents))
	for _, a := range agents {
		id, err := e.Attach(a, targets, source)
		if err != nil {
			return ids, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func (e *Engine) binding(id int) (*binding, error) {
	b, ok := e.bindings[id]
	if !ok {
		return nil, errors.Wrapf(dynamo.ErrAgentNotFound, "agent %d", id)
	}
	return b, nil
}

// AttachTo adds one more target to an existing binding.
func (e *Engine) AttachTo(id int, target body.Entity) error {
	b, err := e.binding(id)
	if err != nil {
		return err
	}
	for _, t := range b.targets {
		if t == target {
			return nil
		}
	}
	b.targets = append(b.targets, target)
	e.Wake()
	return nil
}

func (e *Engine) Detach(id int) error {
	if _, err := e.binding(id); err != nil {
		return err
	}
	e.detach(id)
	return nil
}

func (e *Engine) detach(id int) {
	b := e.bindings[id]
	if em, ok := b.agent.(emitter); ok {
		em.Off(event.Change, b.changeSub)
	}
	delete(e.bindings, id)
	for i, x := range e.order {
		if x == id {
			e.order = append(e.order[:i], e.order[i+1:]...)
			break
		}
	}
	e.log.Debug("agent detached", zap.Int("id", id), zap.Stringer("kind", b.kind))
}

// DetachFrom removes one target from a binding. Detaching the source removes
// the whole binding.
func (e *Engine) DetachFrom(id int, target body.Entity) error {
	b, err := e.binding(id)
	if err != nil {
		return err
	}
	if target == b.source {
		e.detach(id)
		return nil
	}
	n := len(b.targets)
	b.targets = removeEntity(b.targets, target)
	if len(b.targets) == n {
		return errors.Wrapf(dynamo.ErrBodyNotFound, "agent %d", id)
	}
	return nil
}

func (e *Engine) DetachAll() {
	for _, id := range e.ids() {
		e.detach(id)
	}
}

// Agent returns the agent bound under id.
func (e *Engine) Agent(id int) (any, error) {
	b, err := e.binding(id)
	if err != nil {
		return nil, err
	}
	return b.agent, nil
}

// Targets returns a copy of the targets bound under id.
func (e *Engine) Targets(id int) ([]body.Entity, error) {
	b, err := e.binding(id)
	if err != nil {
		return nil, err
	}
	return append([]body.Entity(nil), b.targets...), nil
}

func (e *Engine) AgentEnergy(id int) (float64, error) {
	b, err := e.binding(id)
	if err != nil {
		return 0, err
	}
	return b.energy(), nil
}
