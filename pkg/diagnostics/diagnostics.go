// Package diagnostics provides integrity checks over simulation state.
// The collision kernel has no recoverable-error taxonomy: a degenerate
// input silently corrupts particle state with NaN or Inf. These checks make
// that failure mode observable so a run can be stopped instead of rendering
// garbage.
package diagnostics

import (
	"context"
	"fmt"
	"sync"

	"github.com/chewxy/math32"

	"github.com/opd-ai/go-clothsim/pkg/physics"
)

// Check defines the interface for individual diagnostic checks.
type Check interface {
	// Name returns the unique name of this check
	Name() string
	// Check inspects the state and returns an error if it is unhealthy
	Check(ctx context.Context) error
}

// Status represents the aggregated result of all registered checks.
type Status struct {
	Healthy bool
	Results map[string]ComponentStatus
}

// ComponentStatus represents the result of one check.
type ComponentStatus struct {
	Healthy bool
	Message string
}

// Checker manages and executes diagnostic checks.
type Checker struct {
	checks map[string]Check
	mu     sync.RWMutex
}

// NewChecker creates a new checker instance.
func NewChecker() *Checker {
	return &Checker{
		checks: make(map[string]Check),
	}
}

// AddCheck registers a new check. A check with the same name replaces the
// previous one.
func (c *Checker) AddCheck(check Check) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.checks[check.Name()] = check
}

// RemoveCheck removes a check by name.
func (c *Checker) RemoveCheck(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.checks, name)
}

// Run executes all registered checks and returns the aggregated status.
// The status is healthy only if every individual check passes.
func (c *Checker) Run(ctx context.Context) Status {
	c.mu.RLock()
	defer c.mu.RUnlock()

	status := Status{
		Healthy: true,
		Results: make(map[string]ComponentStatus),
	}

	for name, check := range c.checks {
		if err := check.Check(ctx); err != nil {
			status.Healthy = false
			status.Results[name] = ComponentStatus{Healthy: false, Message: err.Error()}
		} else {
			status.Results[name] = ComponentStatus{Healthy: true}
		}
	}

	return status
}

// FiniteStateCheck verifies that every particle in a store holds finite
// position, velocity and angular velocity.
type FiniteStateCheck struct {
	name      string
	particles *physics.ParticleStore
	count     func() int
}

// NewFiniteStateCheck creates a finite-state check over the first count()
// particles of the given store.
func NewFiniteStateCheck(name string, particles *physics.ParticleStore, count func() int) *FiniteStateCheck {
	return &FiniteStateCheck{
		name:      name,
		particles: particles,
		count:     count,
	}
}

// Name returns the name of this check.
func (f *FiniteStateCheck) Name() string {
	return f.name
}

// Check sweeps the particle state for NaN or Inf components.
func (f *FiniteStateCheck) Check(ctx context.Context) error {
	for i := 0; i < f.count(); i++ {
		if !f.particles.Position(i).IsFinite() {
			return fmt.Errorf("%s: particle %d position %v is not finite", f.name, i, *f.particles.Position(i))
		}
		if !f.particles.Velocity(i).IsFinite() {
			return fmt.Errorf("%s: particle %d velocity %v is not finite", f.name, i, *f.particles.Velocity(i))
		}
		if !f.particles.Rotation(i).IsFinite() {
			return fmt.Errorf("%s: particle %d rotation %v is not finite", f.name, i, *f.particles.Rotation(i))
		}
		mass := *f.particles.Mass(i)
		if math32.IsNaN(mass) || math32.IsInf(mass, 0) {
			return fmt.Errorf("%s: particle %d mass %v is not finite", f.name, i, mass)
		}
	}
	return nil
}

// RegistryCheck verifies the sphere registry's structural invariants:
// the live count never exceeds capacity and every radius is positive.
type RegistryCheck struct {
	spheres *physics.Spheres
}

// NewRegistryCheck creates a registry invariant check.
func NewRegistryCheck(spheres *physics.Spheres) *RegistryCheck {
	return &RegistryCheck{spheres: spheres}
}

// Name returns the name of this check.
func (r *RegistryCheck) Name() string {
	return "sphere_registry"
}

// Check verifies the registry invariants.
func (r *RegistryCheck) Check(ctx context.Context) error {
	if r.spheres.Count() > r.spheres.Capacity() {
		return fmt.Errorf("sphere count %d exceeds capacity %d", r.spheres.Count(), r.spheres.Capacity())
	}
	for i := 0; i < r.spheres.Count(); i++ {
		if r.spheres.Radius(i) <= 0 {
			return fmt.Errorf("sphere %d has non-positive radius %v", i, r.spheres.Radius(i))
		}
	}
	return nil
}

// ProgressCheck verifies that the simulation tick is advancing between
// consecutive runs of the checker.
type ProgressCheck struct {
	tick     func() uint64
	lastSeen uint64
	ran      bool
}

// NewProgressCheck creates a progress check over a tick source.
func NewProgressCheck(tick func() uint64) *ProgressCheck {
	return &ProgressCheck{tick: tick}
}

// Name returns the name of this check.
func (p *ProgressCheck) Name() string {
	return "step_progress"
}

// Check fails when the tick has not advanced since the previous run.
func (p *ProgressCheck) Check(ctx context.Context) error {
	current := p.tick()
	if p.ran && current == p.lastSeen {
		return fmt.Errorf("simulation stalled at tick %d", current)
	}
	p.lastSeen = current
	p.ran = true
	return nil
}
