package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/san-kum/physim/internal/constraints"
)

// Recorder exports frame statistics as Prometheus collectors registered on a
// caller-supplied registerer. It is itself a Metric whose value is the number
// of observed frames.
type Recorder struct {
	scene      string
	steps      *prometheus.CounterVec
	collisions *prometheus.CounterVec
	energy     *prometheus.GaugeVec
	bodies     *prometheus.GaugeVec
	simTime    *prometheus.GaugeVec
	frames     int
}

func NewRecorder(reg prometheus.Registerer, scene string) *Recorder {
	f := promauto.With(reg)
	return &Recorder{
		scene: scene,
		steps: f.NewCounterVec(prometheus.CounterOpts{
			Name: "physim_steps_total",
			Help: "Integrated frames",
		}, []string{"scene"}),
		collisions: f.NewCounterVec(prometheus.CounterOpts{
			Name: "physim_collisions_total",
			Help: "Contact events emitted by constraints",
		}, []string{"scene"}),
		energy: f.NewGaugeVec(prometheus.GaugeOpts{
			Name: "physim_energy",
			Help: "Total engine energy after the last frame",
		}, []string{"scene"}),
		bodies: f.NewGaugeVec(prometheus.GaugeOpts{
			Name: "physim_bodies",
			Help: "Bodies registered with the engine",
		}, []string{"scene"}),
		simTime: f.NewGaugeVec(prometheus.GaugeOpts{
			Name: "physim_sim_time_ms",
			Help: "Simulated time in milliseconds",
		}, []string{"scene"}),
	}
}

func (r *Recorder) Name() string { return "frames" }

func (r *Recorder) Observe(s Sample) {
	r.frames++
	r.steps.WithLabelValues(r.scene).Inc()
	r.energy.WithLabelValues(r.scene).Set(s.Energy)
	r.bodies.WithLabelValues(r.scene).Set(float64(len(s.Entities)))
	r.simTime.WithLabelValues(r.scene).Set(s.Time)
}

func (r *Recorder) Record(constraints.CollisionData) {
	r.collisions.WithLabelValues(r.scene).Inc()
}

func (r *Recorder) Value() float64 { return float64(r.frames) }

// Reset clears the frame count; Prometheus counters keep their totals.
func (r *Recorder) Reset() { r.frames = 0 }
