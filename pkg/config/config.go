// pkg/config/config.go
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
)

// SimulationConfig contains configuration for a cloth simulation run.
type SimulationConfig struct {
	Physics PhysicsConfig `json:"physics"`
	Cloth   ClothConfig   `json:"cloth"`
	Render  RenderConfig  `json:"render"`
	Spheres []SphereSpawn `json:"spheres"`
}

// PhysicsConfig contains the read-only scalars the collision core consumes.
type PhysicsConfig struct {
	DeltaTime     float32 `json:"deltaTime"`     // fixed step duration, seconds
	SphereDensity float32 `json:"sphereDensity"` // sphere mass = density × radius³
	FrictionCoef  float32 `json:"frictionCoef"`  // global Coulomb friction coefficient
	Gravity       float32 `json:"gravity"`       // downward acceleration magnitude
}

// ClothConfig contains configuration for the cloth body.
type ClothConfig struct {
	ParticlesPerEdge int     `json:"particlesPerEdge"`
	Size             float32 `json:"size"`
	Height           float32 `json:"height"`
	ParticleMass     float32 `json:"particleMass"`
	Stiffness        float32 `json:"stiffness"`
	Damping          float32 `json:"damping"`
	PinCorners       bool    `json:"pinCorners"`
}

// RenderConfig contains render-related configuration.
type RenderConfig struct {
	Mode   string  `json:"mode"` // "none", "terminal" or "engo"
	Width  int     `json:"width"`
	Height int     `json:"height"`
	Scale  float32 `json:"scale"` // world units per terminal cell
}

// SphereSpawn describes one sphere added to the scene at startup.
type SphereSpawn struct {
	X      float32 `json:"x"`
	Y      float32 `json:"y"`
	Z      float32 `json:"z"`
	Radius float32 `json:"radius"`
}

// LoadConfig loads a configuration from a file
func LoadConfig(path string) (*SimulationConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config SimulationConfig
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return &config, nil
}

// SaveConfig saves a configuration to a file
func SaveConfig(config *SimulationConfig, path string) error {
	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// DefaultConfig returns a configuration suitable for a small demo scene:
// a pinned cloth sheet with two spheres dropped onto it.
func DefaultConfig() *SimulationConfig {
	return &SimulationConfig{
		Physics: PhysicsConfig{
			DeltaTime:     1.0 / 60.0,
			SphereDensity: 10,
			FrictionCoef:  0.3,
			Gravity:       9.8,
		},
		Cloth: ClothConfig{
			ParticlesPerEdge: 16,
			Size:             4,
			Height:           2,
			ParticleMass:     0.1,
			Stiffness:        150,
			Damping:          1.5,
			PinCorners:       true,
		},
		Render: RenderConfig{
			Mode:   "none",
			Width:  80,
			Height: 24,
			Scale:  0.25,
		},
		Spheres: []SphereSpawn{
			{X: 0, Y: 4, Z: 0, Radius: 0.5},
			{X: 0.6, Y: 6, Z: 0.3, Radius: 0.4},
		},
	}
}

// Environment variable names recognized by ApplyEnvironmentOverrides.
const (
	EnvDeltaTime        = "CLOTHSIM_DELTA_TIME"
	EnvSphereDensity    = "CLOTHSIM_SPHERE_DENSITY"
	EnvFrictionCoef     = "CLOTHSIM_FRICTION_COEF"
	EnvGravity          = "CLOTHSIM_GRAVITY"
	EnvParticlesPerEdge = "CLOTHSIM_PARTICLES_PER_EDGE"
	EnvRenderMode       = "CLOTHSIM_RENDER_MODE"
)

// ApplyEnvironmentOverrides replaces configuration values with any set
// CLOTHSIM_* environment variables. Unset variables leave the file values
// untouched.
func ApplyEnvironmentOverrides(config *SimulationConfig) error {
	if err := overrideFloat(EnvDeltaTime, &config.Physics.DeltaTime); err != nil {
		return err
	}
	if err := overrideFloat(EnvSphereDensity, &config.Physics.SphereDensity); err != nil {
		return err
	}
	if err := overrideFloat(EnvFrictionCoef, &config.Physics.FrictionCoef); err != nil {
		return err
	}
	if err := overrideFloat(EnvGravity, &config.Physics.Gravity); err != nil {
		return err
	}
	if err := overrideInt(EnvParticlesPerEdge, &config.Cloth.ParticlesPerEdge); err != nil {
		return err
	}
	if value := os.Getenv(EnvRenderMode); value != "" {
		config.Render.Mode = value
	}
	return nil
}

func overrideFloat(key string, target *float32) error {
	value := os.Getenv(key)
	if value == "" {
		return nil
	}
	parsed, err := strconv.ParseFloat(value, 32)
	if err != nil {
		return fmt.Errorf("invalid value for %s: %w", key, err)
	}
	*target = float32(parsed)
	return nil
}

func overrideInt(key string, target *int) error {
	value := os.Getenv(key)
	if value == "" {
		return nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("invalid value for %s: %w", key, err)
	}
	*target = parsed
	return nil
}
