package config

import "github.com/san-kum/physim/internal/engine"

func preset(name string, frames int, bodies []BodyConfig, agents []AgentConfig) *Config {
	return &Config{
		Scene:  name,
		Frames: frames,
		Engine: engine.DefaultOptions(),
		Bodies: bodies,
		Agents: agents,
	}
}

var gravity = AgentConfig{
	Type:    "vector_field",
	Options: map[string]any{"field": "constant", "direction": []float64{0, 1, 0}, "strength": 0.002},
}

var Presets = map[string]*Config{
	"bounce": preset("bounce", 600,
		[]BodyConfig{
			{Name: "a", Kind: "circle", Position: []float64{-100, -100, 0}, Velocity: []float64{0.3, 0, 0}, Radius: 20},
			{Name: "b", Kind: "circle", Position: []float64{80, -50, 0}, Velocity: []float64{-0.2, 0.1, 0}, Radius: 30, Mass: 2},
		},
		[]AgentConfig{
			gravity,
			{Type: "walls", Options: map[string]any{"size": []float64{400, 300, 0}, "restitution": 0.8}},
			{Type: "collision", Targets: []string{"b"}, Source: "a", Options: map[string]any{"restitution": 0.9}},
		}),
	"pendulum": preset("pendulum", 900,
		[]BodyConfig{
			{Name: "bob", Kind: "particle", Position: []float64{100, 0, 0}, Radius: 10},
		},
		[]AgentConfig{
			gravity,
			{Type: "distance", Options: map[string]any{"anchor": []float64{0, 0, 0}, "length": 100}},
		}),
	"springs": preset("springs", 600,
		[]BodyConfig{
			{Name: "p1", Kind: "particle", Position: []float64{60, 0, 0}},
			{Name: "p2", Kind: "particle", Position: []float64{150, 40, 0}},
			{Name: "p3", Kind: "particle", Position: []float64{200, -40, 0}},
		},
		[]AgentConfig{
			{Type: "spring", Targets: []string{"p1"}, Options: map[string]any{"anchor": []float64{0, 0, 0}, "period": 400, "damping_ratio": 0.3, "length": 50}},
			{Type: "spring", Targets: []string{"p2"}, Source: "p1", Options: map[string]any{"period": 400, "damping_ratio": 0.3, "length": 50}},
			{Type: "spring", Targets: []string{"p3"}, Source: "p2", Options: map[string]any{"period": 400, "damping_ratio": 0.3, "length": 50, "force_function": "fene", "max_length": 120}},
			{Type: "drag", Options: map[string]any{"strength": 0.0005}},
		}),
	"orbit": preset("orbit", 1200,
		[]BodyConfig{
			{Name: "sun", Kind: "sphere", Mass: 1000, Radius: 20},
			{Name: "planet", Kind: "particle", Position: []float64{150, 0, 0}, Velocity: []float64{0, 0.2, 0}},
		},
		[]AgentConfig{
			{Type: "repulsion", Targets: []string{"planet"}, Source: "sun", Options: map[string]any{"strength": -0.004, "range": []float64{5, 1000}}},
		}),
	"bead": preset("bead", 900,
		[]BodyConfig{
			{Name: "bead", Kind: "particle", Position: []float64{100, 0, 0}, Velocity: []float64{0, 0.1, 0}},
		},
		[]AgentConfig{
			gravity,
			{Type: "curve", Options: map[string]any{"equation": "x*x + y*y - 10000", "period": 0}},
		}),
	"snap": preset("snap", 600,
		[]BodyConfig{
			{Name: "head", Kind: "rectangle", Position: []float64{0, 0, 0}, Size: []float64{40, 20}, Mass: 2},
			{Name: "tail", Kind: "particle", Position: []float64{120, 30, 0}, Velocity: []float64{0, -0.3, 0}},
		},
		[]AgentConfig{
			{Type: "snap", Targets: []string{"tail"}, Source: "head", Options: map[string]any{"period": 120, "damping_ratio": 0.4, "length": 60}},
			{Type: "rotational_drag", Targets: []string{"head"}, Options: map[string]any{"strength": 0.1}},
		}),
}
