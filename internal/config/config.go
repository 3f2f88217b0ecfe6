package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultGravity          = -9.82
	DefaultFixedStep        = 1.0 / 60
	DefaultMaxSubsteps      = 3
	DefaultSolverIterations = 10
	DefaultFriction         = 0.1
	DefaultRestitution      = 0.7
	DefaultPaddleSpeed      = 0.1
	DefaultRadius           = 0.3
	DefaultSpawnHeight      = 3.0
	DefaultSpawnSpread      = 0.75
	DefaultImpactThreshold  = 1.5
	DefaultHoldTimeout      = 500 * time.Millisecond
)

var ErrInvalidConfig = errors.New("config: invalid value")

type Config struct {
	World    WorldConfig    `yaml:"world"`
	Material MaterialConfig `yaml:"material"`
	Paddle   PaddleConfig   `yaml:"paddle"`
	Spawn    SpawnConfig    `yaml:"spawn"`
	Audio    AudioConfig    `yaml:"audio"`
	Input    InputConfig    `yaml:"input"`
	Seed     int64          `yaml:"seed"`
}

type WorldConfig struct {
	Gravity          float64 `yaml:"gravity"`
	FixedStep        float64 `yaml:"fixed_step"`
	MaxSubsteps      int     `yaml:"max_substeps"`
	SolverIterations int     `yaml:"solver_iterations"`
	Broadphase       string  `yaml:"broadphase"`
	AllowSleep       bool    `yaml:"allow_sleep"`
}

type MaterialConfig struct {
	Friction    float64 `yaml:"friction"`
	Restitution float64 `yaml:"restitution"`
}

type PaddleConfig struct {
	// Model is a paddle model file; empty selects the built-in model.
	Model string  `yaml:"model"`
	Speed float64 `yaml:"speed"`
	// RestHeight overrides the model's rest height when non-zero.
	RestHeight float64 `yaml:"rest_height"`
}

type SpawnConfig struct {
	Radius  float64 `yaml:"radius"`
	Mass    float64 `yaml:"mass"`
	Height  float64 `yaml:"height"`
	Spread  float64 `yaml:"spread"`
	Initial int     `yaml:"initial"`
}

type AudioConfig struct {
	Enabled   bool    `yaml:"enabled"`
	Sound     string  `yaml:"sound"`
	Threshold float64 `yaml:"threshold"`
}

type InputConfig struct {
	HoldTimeout time.Duration `yaml:"hold_timeout"`
}

func DefaultConfig() *Config {
	return &Config{
		World: WorldConfig{
			Gravity:          DefaultGravity,
			FixedStep:        DefaultFixedStep,
			MaxSubsteps:      DefaultMaxSubsteps,
			SolverIterations: DefaultSolverIterations,
			Broadphase:       "sap",
			AllowSleep:       true,
		},
		Material: MaterialConfig{
			Friction:    DefaultFriction,
			Restitution: DefaultRestitution,
		},
		Paddle: PaddleConfig{
			Speed: DefaultPaddleSpeed,
		},
		Spawn: SpawnConfig{
			Radius:  DefaultRadius,
			Mass:    1,
			Height:  DefaultSpawnHeight,
			Spread:  DefaultSpawnSpread,
			Initial: 1,
		},
		Audio: AudioConfig{
			Enabled:   true,
			Threshold: DefaultImpactThreshold,
		},
		Input: InputConfig{
			HoldTimeout: DefaultHoldTimeout,
		},
	}
}

func (c *Config) Clone() *Config {
	cp := *c
	return &cp
}

// Validate reports the first invalid field.
func (c *Config) Validate() error {
	finite := func(name string, v float64) error {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: %s must be finite", ErrInvalidConfig, name)
		}
		return nil
	}
	positive := func(name string, v float64) error {
		if !(v > 0) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: %s must be positive, got %g", ErrInvalidConfig, name, v)
		}
		return nil
	}
	unit := func(name string, v float64) error {
		if !(v >= 0 && v <= 1) {
			return fmt.Errorf("%w: %s must be in [0, 1], got %g", ErrInvalidConfig, name, v)
		}
		return nil
	}

	checks := []error{
		finite("world.gravity", c.World.Gravity),
		positive("world.fixed_step", c.World.FixedStep),
		positive("spawn.radius", c.Spawn.Radius),
		positive("spawn.mass", c.Spawn.Mass),
		finite("spawn.height", c.Spawn.Height),
		finite("paddle.speed", c.Paddle.Speed),
		finite("paddle.rest_height", c.Paddle.RestHeight),
		unit("material.restitution", c.Material.Restitution),
		finite("audio.threshold", c.Audio.Threshold),
	}
	for _, err := range checks {
		if err != nil {
			return err
		}
	}
	if c.Material.Friction < 0 || math.IsInf(c.Material.Friction, 0) || math.IsNaN(c.Material.Friction) {
		return fmt.Errorf("%w: material.friction must be non-negative", ErrInvalidConfig)
	}
	if c.World.MaxSubsteps < 1 {
		return fmt.Errorf("%w: world.max_substeps must be at least 1", ErrInvalidConfig)
	}
	if c.World.SolverIterations < 1 {
		return fmt.Errorf("%w: world.solver_iterations must be at least 1", ErrInvalidConfig)
	}
	switch strings.ToLower(c.World.Broadphase) {
	case "", "sap", "naive":
	default:
		return fmt.Errorf("%w: unknown world.broadphase %q", ErrInvalidConfig, c.World.Broadphase)
	}
	if c.Spawn.Spread < 0 || math.IsNaN(c.Spawn.Spread) {
		return fmt.Errorf("%w: spawn.spread must be non-negative", ErrInvalidConfig)
	}
	if c.Spawn.Initial < 0 {
		return fmt.Errorf("%w: spawn.initial must be non-negative", ErrInvalidConfig)
	}
	if c.Spawn.Height-c.Spawn.Radius <= 0 {
		return fmt.Errorf("%w: spawn.height must keep spheres above the floor", ErrInvalidConfig)
	}
	if c.Input.HoldTimeout < 0 {
		return fmt.Errorf("%w: input.hold_timeout must be non-negative", ErrInvalidConfig)
	}
	return nil
}

// Load reads a YAML file over the defaults, so missing keys keep their
// default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

func Parse(data []byte) (*Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
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
