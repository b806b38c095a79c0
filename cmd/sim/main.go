// cmd/sim/main.go
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/opd-ai/go-clothsim/pkg/config"
	"github.com/opd-ai/go-clothsim/pkg/diagnostics"
	"github.com/opd-ai/go-clothsim/pkg/engine"
	"github.com/opd-ai/go-clothsim/pkg/event"
	"github.com/opd-ai/go-clothsim/pkg/logging"
	"github.com/opd-ai/go-clothsim/pkg/render"
)

func main() {
	logger := logging.NewLogger()
	ctx := context.Background()

	configPath := flag.String("config", "config.json", "Path to configuration file")
	createDefault := flag.Bool("default", false, "Create default configuration file")
	flag.Parse()

	// Create default configuration file if requested
	if *createDefault {
		defaultConfig := config.DefaultConfig()
		if err := config.SaveConfig(defaultConfig, *configPath); err != nil {
			logger.Error(ctx, "Failed to create default configuration", err,
				"config_path", *configPath,
			)
			os.Exit(1)
		}
		logger.Info(ctx, "Created default configuration file",
			"config_path", *configPath,
		)
		return
	}

	// Load configuration
	var simConfig *config.SimulationConfig

	if _, err := os.Stat(*configPath); os.IsNotExist(err) {
		logger.Info(ctx, "Configuration file not found, using default configuration",
			"config_path", *configPath,
		)
		simConfig = config.DefaultConfig()
	} else {
		simConfig, err = config.LoadConfig(*configPath)
		if err != nil {
			logger.Error(ctx, "Failed to load configuration", err,
				"config_path", *configPath,
			)
			os.Exit(1)
		}
	}

	// Apply environment variable overrides
	if err := config.ApplyEnvironmentOverrides(simConfig); err != nil {
		logger.Error(ctx, "Failed to apply environment configuration", err)
		os.Exit(1)
	}

	// Create simulation
	sim, err := engine.NewSimulation(simConfig)
	if err != nil {
		logger.Error(ctx, "Failed to create simulation", err)
		os.Exit(1)
	}

	// Setup state diagnostics
	checker := diagnostics.NewChecker()
	checker.AddCheck(diagnostics.NewFiniteStateCheck("spheres", sim.Spheres.Particles(), sim.Spheres.Count))
	checker.AddCheck(diagnostics.NewFiniteStateCheck("cloth", sim.Cloth.Particles(), sim.Cloth.ParticleCount))
	checker.AddCheck(diagnostics.NewRegistryCheck(sim.Spheres))
	checker.AddCheck(diagnostics.NewProgressCheck(sim.CurrentTick))

	// Setup rendering
	renderer := newRenderer(simConfig.Render)
	sim.EventBus.Subscribe(event.StepCompleted, func(e event.Event) {
		renderFrame(renderer, sim)
	})

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Run diagnostics periodically alongside the simulation loop
	go runDiagnostics(runCtx, checker, sim, logger, cancel)

	// Handle graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		logger.Info(ctx, "Shutting down simulation")
		cancel()
	}()

	sim.Run(runCtx)
}

// newRenderer selects the renderer for the configured mode. The Engo
// window mode has its own binary; everything else here is headless.
func newRenderer(cfg config.RenderConfig) render.Renderer {
	if cfg.Mode == "terminal" {
		return render.NewTerminalRenderer(cfg.Width, cfg.Height, cfg.Scale)
	}
	return render.NewNullRenderer()
}

// renderFrame draws the full scene state through the renderer.
func renderFrame(renderer render.Renderer, sim *engine.Simulation) {
	renderer.Clear()
	for i := 0; i < sim.Spheres.Count(); i++ {
		renderer.RenderSphere(sim.Spheres.Position(i), sim.Spheres.Radius(i))
	}
	particles := sim.Cloth.Particles()
	for i := 0; i < sim.Cloth.ParticleCount(); i++ {
		renderer.RenderClothParticle(*particles.Position(i))
	}
	renderer.Present()
}

// runDiagnostics sweeps the simulation state once per second and stops
// the run when corruption is detected.
func runDiagnostics(ctx context.Context, checker *diagnostics.Checker, sim *engine.Simulation, logger *logging.Logger, cancel context.CancelFunc) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			status := checker.Run(ctx)
			if status.Healthy {
				continue
			}
			for name, result := range status.Results {
				if !result.Healthy {
					logger.Error(ctx, "simulation state unhealthy", nil,
						"check", name,
						"message", result.Message,
						"tick", sim.CurrentTick(),
					)
					sim.EventBus.Publish(event.NewCorruptionEvent(sim, name, result.Message))
				}
			}
			cancel()
			return
		}
	}
}
