// Package event is the synchronous event stream shared by bodies, agents and
// the engine. Handlers run on the emitting goroutine, in subscription order.
package event

import "strings"

// Type identifies an event kind.
type Type int

const (
	Start Type = iota + 1
	End
	Update
	Change
	PreCollision
	Collision
	PostCollision
)

var typeToName = map[Type]string{
	Start:         "start",
	End:           "end",
	Update:        "update",
	Change:        "change",
	PreCollision:  "preCollision",
	Collision:     "collision",
	PostCollision: "postCollision",
}

func (t Type) String() string {
	if name, ok := typeToName[t]; ok {
		return name
	}
	return "unknown"
}

// Parse maps a name (case-insensitive) to its Type.
func Parse(name string) (Type, bool) {
	for t, n := range typeToName {
		if strings.EqualFold(n, name) {
			return t, true
		}
	}
	return 0, false
}

// Handler receives the event payload. Payload types are documented by emitters.
type Handler func(payload any)

type subscription struct {
	id int
	fn Handler
}

// Emitter is a zero-value-usable handler registry.
type Emitter struct {
	handlers map[Type][]subscription
	nextID   int
}

// On registers fn for t and returns a subscription id for Off.
func (e *Emitter) On(t Type, fn Handler) int {
	if e.handlers == nil {
		e.handlers = make(map[Type][]subscription)
	}
	e.nextID++
	e.handlers[t] = append(e.handlers[t], subscription{id: e.nextID, fn: fn})
	return e.nextID
}

// Off removes a subscription. It reports whether one was removed.
func (e *Emitter) Off(t Type, id int) bool {
	subs := e.handlers[t]
	for i, s := range subs {
		if s.id == id {
			e.handlers[t] = append(subs[:i:i], subs[i+1:]...)
			return true
		}
	}
	return false
}

// Emit calls every handler of t. Handlers added or removed during Emit take
// effect on the next call.
func (e *Emitter) Emit(t Type, payload any) {
	subs := e.handlers[t]
	if len(subs) == 0 {
		return
	}
	snapshot := make([]subscription, len(subs))
	copy(snapshot, subs)
	for _, s := range snapshot {
		s.fn(payload)
	}
}

func (e *Emitter) HasListeners(t Type) bool {
	return len(e.handlers[t]) > 0
}
