package config

import (
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/throwsim/internal/flight"
	"github.com/san-kum/throwsim/internal/integrators"
)

const (
	DefaultDt       = 0.001
	DefaultDuration = 1.5
	DefaultGravity  = 9.8
	DefaultFPS      = 30
)

type Config struct {
	Body       string             `yaml:"body"`
	Integrator string             `yaml:"integrator"`
	Dt         float64            `yaml:"dt"`
	Duration   float64            `yaml:"duration"`
	Adaptive   bool               `yaml:"adaptive"`
	Tolerance  float64            `yaml:"tolerance"`
	Throw      ThrowConfig        `yaml:"throw"`
	Params     map[string]float64 `yaml:"params,omitempty"`
	Output     OutputConfig       `yaml:"output"`
}

// ThrowConfig is the release: where the body leaves the hand, how fast
// it travels, and how fast it spins.
type ThrowConfig struct {
	X     float64 `yaml:"x"`
	Y     float64 `yaml:"y"`
	Theta float64 `yaml:"theta"`
	VX    float64 `yaml:"vx"`
	VY    float64 `yaml:"vy"`
	Omega float64 `yaml:"omega"`
}

type OutputConfig struct {
	Dir string `yaml:"dir"`
	FPS int    `yaml:"fps"`
}

// DefaultConfig is the demo throw: released at (0, 2) m with velocity
// (8, 4) m/s, two radians of initial tilt, and -7 rad/s of spin under
// g = 9.8.
func DefaultConfig() *Config {
	return &Config{
		Body:       "axe",
		Integrator: "rk4",
		Dt:         DefaultDt,
		Duration:   DefaultDuration,
		Tolerance:  1e-6,
		Throw: ThrowConfig{
			X: 0, Y: 2, Theta: 2,
			VX: 8, VY: 4, Omega: -7,
		},
		Output: OutputConfig{
			Dir: "runs",
			FPS: DefaultFPS,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// InitialState assembles the release state vector.
func (c *Config) InitialState() flight.State {
	return flight.NewState(
		c.Throw.X, c.Throw.Y, c.Throw.Theta,
		c.Throw.VX, c.Throw.VY, c.Throw.Omega,
	)
}

// SimConfig maps onto the simulation engine's knobs.
func (c *Config) SimConfig() flight.Config {
	sim := flight.DefaultConfig()
	sim.Dt = c.Dt
	sim.Duration = c.Duration
	sim.Adaptive = c.Adaptive
	if c.Tolerance > 0 {
		sim.Tolerance = c.Tolerance
	}
	return sim
}

func (c *Config) Validate() error {
	if c.Body == "" {
		return fmt.Errorf("config: body must be set")
	}
	if c.Dt <= 0 || math.IsNaN(c.Dt) || math.IsInf(c.Dt, 0) {
		return fmt.Errorf("%w: dt %v", flight.ErrBadTimeStep, c.Dt)
	}
	if c.Duration <= 0 {
		return fmt.Errorf("%w: duration %v", flight.ErrBadDuration, c.Duration)
	}
	if c.Adaptive && c.Tolerance <= 0 {
		return fmt.Errorf("%w: tolerance %v", flight.ErrBadTolerance, c.Tolerance)
	}
	if _, err := integrators.ByName(c.Integrator); err != nil {
		return err
	}
	if !c.InitialState().IsValid() {
		return fmt.Errorf("%w: throw contains NaN or Inf", flight.ErrInvalidState)
	}
	for name, v := range c.Params {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: param %s", flight.ErrInvalidState, name)
		}
	}
	return nil
}
