// Package validation enforces the numeric kernel's preconditions at the
// boundary. The resolvers themselves run over trusted inputs; everything
// entering the simulation from configuration or callers is checked here so
// the degenerate cases (coincident centers, non-finite state, non-positive
// scalars) never reach the hot loop.
package validation

import (
	"fmt"

	"github.com/chewxy/math32"

	"github.com/opd-ai/go-clothsim/pkg/config"
	"github.com/opd-ai/go-clothsim/pkg/physics"
)

// MinSphereSeparation is the smallest allowed center distance between two
// spawned spheres. Coincident centers have no defined contact normal, so
// spawns closer than this are rejected.
const MinSphereSeparation = 1e-4

// ValidatePositive checks that a named scalar is a finite positive number.
func ValidatePositive(name string, value float32) error {
	if math32.IsNaN(value) || math32.IsInf(value, 0) {
		return fmt.Errorf("%s must be finite, got %v", name, value)
	}
	if value <= 0 {
		return fmt.Errorf("%s must be positive, got %v", name, value)
	}
	return nil
}

// ValidateNonNegative checks that a named scalar is finite and not negative.
func ValidateNonNegative(name string, value float32) error {
	if math32.IsNaN(value) || math32.IsInf(value, 0) {
		return fmt.Errorf("%s must be finite, got %v", name, value)
	}
	if value < 0 {
		return fmt.Errorf("%s must not be negative, got %v", name, value)
	}
	return nil
}

// ValidatePosition checks that all position components are finite.
func ValidatePosition(position physics.Vector3) error {
	if !position.IsFinite() {
		return fmt.Errorf("position %v has non-finite components", position)
	}
	return nil
}

// ValidateSphereSpawn checks a new sphere against the kernel's
// preconditions: positive finite radius, finite position, and no center
// coincident with an already registered sphere.
func ValidateSphereSpawn(position physics.Vector3, radius float32, existing *physics.Spheres) error {
	if err := ValidatePositive("radius", radius); err != nil {
		return err
	}
	if err := ValidatePosition(position); err != nil {
		return err
	}

	for i := 0; i < existing.Count(); i++ {
		if position.Distance(existing.Position(i)) < MinSphereSeparation {
			return fmt.Errorf("sphere at %v coincides with sphere %d", position, i)
		}
	}
	return nil
}

// ValidateConfig checks every scalar the simulation consumes at startup.
func ValidateConfig(cfg *config.SimulationConfig) error {
	if err := ValidatePositive("physics.deltaTime", cfg.Physics.DeltaTime); err != nil {
		return err
	}
	if err := ValidatePositive("physics.sphereDensity", cfg.Physics.SphereDensity); err != nil {
		return err
	}
	if err := ValidateNonNegative("physics.frictionCoef", cfg.Physics.FrictionCoef); err != nil {
		return err
	}
	if err := ValidateNonNegative("physics.gravity", cfg.Physics.Gravity); err != nil {
		return err
	}

	if cfg.Cloth.ParticlesPerEdge < 2 {
		return fmt.Errorf("cloth.particlesPerEdge must be at least 2, got %d", cfg.Cloth.ParticlesPerEdge)
	}
	if err := ValidatePositive("cloth.size", cfg.Cloth.Size); err != nil {
		return err
	}
	if err := ValidatePositive("cloth.particleMass", cfg.Cloth.ParticleMass); err != nil {
		return err
	}
	if err := ValidateNonNegative("cloth.stiffness", cfg.Cloth.Stiffness); err != nil {
		return err
	}
	if err := ValidateNonNegative("cloth.damping", cfg.Cloth.Damping); err != nil {
		return err
	}

	if cfg.Render.Mode == "terminal" {
		if err := ValidatePositive("render.scale", cfg.Render.Scale); err != nil {
			return err
		}
		if cfg.Render.Width <= 0 {
			return fmt.Errorf("render.width must be positive, got %d", cfg.Render.Width)
		}
		if cfg.Render.Height <= 0 {
			return fmt.Errorf("render.height must be positive, got %d", cfg.Render.Height)
		}
	}

	for i, spawn := range cfg.Spheres {
		if err := ValidatePositive(fmt.Sprintf("spheres[%d].radius", i), spawn.Radius); err != nil {
			return err
		}
	}
	return nil
}
