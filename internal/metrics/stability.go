package metrics

import "math"

// Stability is the fraction of frames in which every body stayed finite and
// within threshold of the origin on each axis.
type Stability struct {
	name       string
	threshold  float64
	violations int
	samples    int
}

func NewStability(threshold float64) *Stability {
	return &Stability{
		name:      "stability",
		threshold: threshold,
	}
}

func (s *Stability) Name() string {
	return s.name
}

func (s *Stability) Observe(sample Sample) {
	s.samples++
	for _, e := range sample.Entities {
		p := e.Point().Position
		if !p.IsValid() || math.Abs(p.X) > s.threshold || math.Abs(p.Y) > s.threshold || math.Abs(p.Z) > s.threshold {
			s.violations++
			break
		}
	}
}

func (s *Stability) Value() float64 {
	if s.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(s.violations)/float64(s.samples)
}

func (s *Stability) Reset() {
	s.violations = 0
	s.samples = 0
}
