package metrics

import "github.com/san-kum/physim/internal/constraints"

// Collisions counts contact events. Feed it with Record from a collision
// subscription; Observe is a no-op.
type Collisions struct {
	name    string
	count   int
	deepest float64
}

func NewCollisions() *Collisions {
	return &Collisions{name: "collisions"}
}

func (c *Collisions) Name() string { return c.name }

func (c *Collisions) Record(d constraints.CollisionData) {
	c.count++
	if d.Overlap < c.deepest {
		c.deepest = d.Overlap
	}
}

func (c *Collisions) Observe(Sample) {}

func (c *Collisions) Value() float64 { return float64(c.count) }

// Deepest is the most negative overlap recorded.
func (c *Collisions) Deepest() float64 { return c.deepest }

func (c *Collisions) Reset() {
	c.count = 0
	c.deepest = 0
}
