// pkg/engine/simulation.go
package engine

import (
	"context"
	"time"

	"github.com/opd-ai/go-clothsim/pkg/cloth"
	"github.com/opd-ai/go-clothsim/pkg/config"
	"github.com/opd-ai/go-clothsim/pkg/event"
	"github.com/opd-ai/go-clothsim/pkg/logging"
	"github.com/opd-ai/go-clothsim/pkg/physics"
	"github.com/opd-ai/go-clothsim/pkg/validation"
)

// Simulation owns the sphere registry, the cloth body and the contact
// resolver, and drives them through the fixed per-step order: cloth
// internal dynamics, sphere-cloth resolution, sphere-sphere resolution,
// integration. That order is part of the observable contract: swapping
// the two resolution passes yields different trajectories.
//
// All methods are single-threaded: a step runs to completion before
// control returns to the caller.
type Simulation struct {
	Config   *config.SimulationConfig
	Spheres  *physics.Spheres
	Cloth    *cloth.Cloth
	EventBus *event.Bus

	resolver *physics.ContactResolver
	gravity  physics.Vector3
	logger   *logging.Logger

	currentTick uint64
}

// NewSimulation validates the configuration and builds a simulation with
// the configured cloth and initial spheres.
func NewSimulation(cfg *config.SimulationConfig) (*Simulation, error) {
	if err := validation.ValidateConfig(cfg); err != nil {
		return nil, logging.WrapError(err, "invalid simulation config")
	}

	gravity := physics.Vector3{Y: -cfg.Physics.Gravity}

	sim := &Simulation{
		Config:   cfg,
		Spheres:  physics.NewSpheres(cfg.Physics.SphereDensity),
		EventBus: event.NewEventBus(),
		resolver: physics.NewContactResolver(cfg.Physics.DeltaTime, cfg.Physics.FrictionCoef),
		gravity:  gravity,
		logger:   logging.NewLogger(),
	}

	sim.Cloth = cloth.New(cloth.Params{
		ParticlesPerEdge: cfg.Cloth.ParticlesPerEdge,
		Size:             cfg.Cloth.Size,
		Height:           cfg.Cloth.Height,
		ParticleMass:     cfg.Cloth.ParticleMass,
		Stiffness:        cfg.Cloth.Stiffness,
		Damping:          cfg.Cloth.Damping,
		Gravity:          gravity,
		PinCorners:       cfg.Cloth.PinCorners,
	})

	for _, spawn := range cfg.Spheres {
		position := physics.Vector3{X: spawn.X, Y: spawn.Y, Z: spawn.Z}
		if _, err := sim.AddSphere(position, spawn.Radius); err != nil {
			return nil, logging.WrapError(err, "invalid sphere spawn")
		}
	}

	return sim, nil
}

// AddSphere validates and registers a new sphere, returning its index.
func (s *Simulation) AddSphere(position physics.Vector3, radius float32) (int, error) {
	if err := validation.ValidateSphereSpawn(position, radius, s.Spheres); err != nil {
		return 0, err
	}

	index := s.Spheres.AddSphere(position, radius)
	s.EventBus.Publish(event.NewSphereEvent(s, index, radius))
	s.logger.Debug(context.Background(), "sphere added",
		"index", index,
		"radius", radius,
	)
	return index, nil
}

// CurrentTick returns the number of completed steps.
func (s *Simulation) CurrentTick() uint64 {
	return s.currentTick
}

// Step advances the simulation by one fixed timestep.
func (s *Simulation) Step() {
	s.Cloth.ComputeForces()
	s.resolver.ResolveSphereCloth(s.Spheres, s.Cloth)
	s.resolver.ResolveSphereSphere(s.Spheres)
	s.integrate()

	s.currentTick++
	s.EventBus.Publish(event.NewStepEvent(s, s.currentTick))
}

// integrate advances velocities and positions with semi-implicit Euler.
// Spheres accelerate under gravity only; cloth particles carry the
// accelerations accumulated by ComputeForces. Particles with zero inverse
// mass never move.
func (s *Simulation) integrate() {
	dt := s.Config.Physics.DeltaTime

	sp := s.Spheres.Particles()
	for i := 0; i < s.Spheres.Count(); i++ {
		if *sp.InverseMass(i) == 0 {
			continue
		}
		*sp.Acceleration(i) = s.gravity
		*sp.Velocity(i) = sp.Velocity(i).Add(sp.Acceleration(i).Scale(dt))
		*sp.Position(i) = sp.Position(i).Add(sp.Velocity(i).Scale(dt))
	}

	cp := s.Cloth.Particles()
	for i := 0; i < s.Cloth.ParticleCount(); i++ {
		if *cp.InverseMass(i) == 0 {
			continue
		}
		*cp.Velocity(i) = cp.Velocity(i).Add(cp.Acceleration(i).Scale(dt))
		*cp.Position(i) = cp.Position(i).Add(cp.Velocity(i).Scale(dt))
	}
}

// Run steps the simulation at the configured fixed rate until the context
// is canceled.
func (s *Simulation) Run(ctx context.Context) {
	interval := time.Duration(float64(s.Config.Physics.DeltaTime) * float64(time.Second))
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	s.EventBus.Publish(event.NewLifecycleEvent(event.SimulationStarted, s, s.currentTick))
	s.logger.Info(ctx, "simulation started",
		"delta_time", s.Config.Physics.DeltaTime,
		"spheres", s.Spheres.Count(),
		"cloth_particles", s.Cloth.ParticleCount(),
	)

	for {
		select {
		case <-ctx.Done():
			s.EventBus.Publish(event.NewLifecycleEvent(event.SimulationStopped, s, s.currentTick))
			s.logger.Info(ctx, "simulation stopped", "tick", s.currentTick)
			return
		case <-ticker.C:
			s.Step()
		}
	}
}
