package experiment

import (
	"sort"

	"github.com/pkg/errors"

	"github.com/san-kum/physim/internal/dynamo"
	"github.com/san-kum/physim/internal/metrics"
)

// DefaultStabilityBound is the coordinate bound of the stability metric.
const DefaultStabilityBound = 1e5

type Registry struct {
	metrics map[string]func() metrics.Metric
}

func NewRegistry() *Registry {
	r := &Registry{metrics: make(map[string]func() metrics.Metric)}

	r.metrics["energy"] = func() metrics.Metric { return metrics.NewEnergy() }
	r.metrics["energy_drift"] = func() metrics.Metric { return metrics.NewEnergyDrift() }
	r.metrics["stability"] = func() metrics.Metric { return metrics.NewStability(DefaultStabilityBound) }
	r.metrics["collisions"] = func() metrics.Metric { return metrics.NewCollisions() }

	return r
}

func (r *Registry) GetMetric(name string) (metrics.Metric, error) {
	fn, ok := r.metrics[name]
	if !ok {
		return nil, errors.Wrapf(dynamo.ErrUnknownKind, "metric %q", name)
	}
	return fn(), nil
}

func (r *Registry) ListMetrics() []string {
	names := make([]string, 0, len(r.metrics))
	for name := range r.metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *Registry) DefaultMetrics() []metrics.Metric {
	out := make([]metrics.Metric, 0, len(r.metrics))
	for _, name := range r.ListMetrics() {
		m, _ := r.GetMetric(name)
		out = append(out, m)
	}
	return out
}
