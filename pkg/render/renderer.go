// pkg/render/renderer.go
package render

import (
	"context"

	"github.com/opd-ai/go-clothsim/pkg/logging"
	"github.com/opd-ai/go-clothsim/pkg/physics"
)

// Renderer draws one frame of simulation state. The renderer only reads
// positions and radii; it never writes back into the simulation.
type Renderer interface {
	// Clear erases the previous frame
	Clear()
	// RenderSphere draws one rigid sphere
	RenderSphere(position physics.Vector3, radius float32)
	// RenderClothParticle draws one cloth grid particle
	RenderClothParticle(position physics.Vector3)
	// Present flushes the frame to the output device
	Present()
}

// NullRenderer is a no-op implementation of Renderer for headless runs.
type NullRenderer struct {
	logger *logging.Logger
}

// NewNullRenderer creates a new NullRenderer with structured logging.
func NewNullRenderer() *NullRenderer {
	return &NullRenderer{
		logger: logging.NewLogger(),
	}
}

// Clear implements Renderer.
func (r *NullRenderer) Clear() {}

// RenderSphere implements Renderer.
func (r *NullRenderer) RenderSphere(position physics.Vector3, radius float32) {
	r.logger.Debug(context.Background(), "RenderSphere called",
		"x", position.X, "y", position.Y, "z", position.Z,
		"radius", radius,
	)
}

// RenderClothParticle implements Renderer.
func (r *NullRenderer) RenderClothParticle(position physics.Vector3) {}

// Present implements Renderer.
func (r *NullRenderer) Present() {}
