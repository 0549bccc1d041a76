package metrics

import "github.com/san-kum/physim/internal/body"

// Sample is the engine state after one frame.
type Sample struct {
	Step     int
	Time     float64
	Energy   float64
	Entities []body.Entity
}

type Metric interface {
	Name() string
	Observe(s Sample)
	Value() float64
	Reset()
}
