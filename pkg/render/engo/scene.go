// pkg/render/engo/scene.go
package engo

import (
	"image/color"

	"github.com/EngoEngine/ecs"
	"github.com/EngoEngine/engo"
	"github.com/EngoEngine/engo/common"

	"github.com/opd-ai/go-clothsim/pkg/engine"
)

// SimScene drives the simulation inside an Engo window: every frame it
// advances the fixed-step physics and syncs the sprites.
type SimScene struct {
	world    *ecs.World
	sim      *engine.Simulation
	renderer *SimRenderer

	pixelsPerUnit float32
}

// NewSimScene creates a scene around an existing simulation.
func NewSimScene(sim *engine.Simulation, pixelsPerUnit float32) *SimScene {
	return &SimScene{
		sim:           sim,
		pixelsPerUnit: pixelsPerUnit,
	}
}

// Type returns the scene type (required by Engo)
func (scene *SimScene) Type() string {
	return "SimScene"
}

// Preload is called before the scene starts (required by Engo)
func (scene *SimScene) Preload() {}

// Setup is called when the scene starts (required by Engo)
func (scene *SimScene) Setup(u engo.Updater) {
	scene.world = &ecs.World{}
	if world, ok := u.(*ecs.World); ok {
		scene.world = world
	}

	common.SetBackground(color.RGBA{18, 18, 24, 255})

	scene.renderer = NewSimRenderer(scene.world, scene.pixelsPerUnit)
	if err := scene.renderer.Initialize(); err != nil {
		panic("failed to initialize renderer: " + err.Error())
	}

	scene.world.AddSystem(&stepSystem{scene: scene})
}

// Exit is called when the scene is exiting (required by Engo)
func (scene *SimScene) Exit() {}

// stepSystem advances the simulation once per rendered frame and pushes
// the resulting state into the sprites. The physics step duration stays
// fixed regardless of the frame time.
type stepSystem struct {
	scene *SimScene
}

// Update implements ecs.System.
func (s *stepSystem) Update(dt float32) {
	sim := s.scene.sim
	sim.Step()

	s.scene.renderer.UpdateSpheres(sim.Spheres)
	s.scene.renderer.UpdateCloth(sim.Cloth.Particles(), sim.Cloth.ParticleCount())
}

// Remove implements ecs.System.
func (s *stepSystem) Remove(basic ecs.BasicEntity) {}
