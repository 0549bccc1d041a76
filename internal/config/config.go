package config

import (
	"os"
	"sort"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/physim/internal/engine"
)

const (
	DefaultFrames = 600
	DefaultScene  = "bounce"
)

// Config describes one scene: engine options, the bodies and the agents that
// act on them. Times are in milliseconds.
type Config struct {
	Scene  string         `yaml:"scene"`
	Frames int            `yaml:"frames"`
	Engine engine.Options `yaml:"engine"`
	Bodies []BodyConfig   `yaml:"bodies"`
	Agents []AgentConfig  `yaml:"agents"`
}

type BodyConfig struct {
	Name            string    `yaml:"name"`
	Kind            string    `yaml:"kind"`
	Position        []float64 `yaml:"position,omitempty"`
	Velocity        []float64 `yaml:"velocity,omitempty"`
	Mass            float64   `yaml:"mass,omitempty"`
	Radius          float64   `yaml:"radius,omitempty"`
	Axis            string    `yaml:"axis,omitempty"`
	Size            []float64 `yaml:"size,omitempty"`
	Orientation     []float64 `yaml:"orientation,omitempty"`
	AngularVelocity []float64 `yaml:"angular_velocity,omitempty"`
}

// AgentConfig binds one force or constraint. Empty Targets means every body.
// Options are decoded into the agent's option struct; vectors are written as
// three-element lists.
type AgentConfig struct {
	Type    string         `yaml:"type"`
	Targets []string       `yaml:"targets,omitempty"`
	Source  string         `yaml:"source,omitempty"`
	Options map[string]any `yaml:"options,omitempty"`
}

func DefaultConfig() *Config {
	return &Config{
		Scene:  DefaultScene,
		Frames: DefaultFrames,
		Engine: engine.DefaultOptions(),
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read scene")
	}
	return Parse(data)
}

func Parse(data []byte) (*Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrap(err, "parse scene")
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return errors.Wrap(err, "encode scene")
	}
	return os.WriteFile(path, data, 0644)
}

// Body returns the body declared under name.
func (c *Config) Body(name string) (BodyConfig, bool) {
	for _, b := range c.Bodies {
		if b.Name == name {
			return b, true
		}
	}
	return BodyConfig{}, false
}

// GetPreset returns a copy of the named preset, or nil. Top-level fields of
// the copy may be changed freely.
func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	c := *cfg
	return &c
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
