// pkg/render/engo/renderer.go
package engo

import (
	"image"
	"image/color"

	"github.com/EngoEngine/ecs"
	"github.com/EngoEngine/engo"
	"github.com/EngoEngine/engo/common"

	"github.com/opd-ai/go-clothsim/pkg/physics"
)

// SimRenderer draws the simulation with the Engo game engine. The 3D scene
// is projected orthographically onto the x-y plane; each sphere and cloth
// particle is one sprite entity whose screen position tracks its particle.
type SimRenderer struct {
	world        *ecs.World
	renderSystem *common.RenderSystem

	pixelsPerUnit float32

	sphereSprite common.Drawable
	clothSprite  common.Drawable

	sphereEntities []*spriteEntity
	clothEntities  []*spriteEntity
}

// spriteEntity bundles an ECS entity with its render and space components
// so position updates don't require component lookups.
type spriteEntity struct {
	basic  ecs.BasicEntity
	render common.RenderComponent
	space  common.SpaceComponent
}

// NewSimRenderer creates a new Engo-based renderer. pixelsPerUnit sets the
// orthographic projection scale.
func NewSimRenderer(world *ecs.World, pixelsPerUnit float32) *SimRenderer {
	return &SimRenderer{
		world:         world,
		pixelsPerUnit: pixelsPerUnit,
	}
}

// Initialize sets up the render system and builds the sprite textures.
func (r *SimRenderer) Initialize() error {
	r.renderSystem = &common.RenderSystem{}
	r.world.AddSystem(r.renderSystem)

	r.sphereSprite = createCircleSprite(32)
	r.clothSprite = createCircleSprite(4)
	return nil
}

// UpdateSpheres syncs one sprite per registered sphere, creating sprites
// for spheres added since the previous frame.
func (r *SimRenderer) UpdateSpheres(spheres *physics.Spheres) {
	for i := len(r.sphereEntities); i < spheres.Count(); i++ {
		size := 2 * spheres.Radius(i) * r.pixelsPerUnit
		r.sphereEntities = append(r.sphereEntities, r.newSprite(
			r.sphereSprite, size, color.RGBA{230, 80, 80, 255},
		))
	}

	for i, sprite := range r.sphereEntities {
		r.place(sprite, spheres.Position(i))
	}
}

// UpdateCloth syncs one sprite per cloth particle.
func (r *SimRenderer) UpdateCloth(particles *physics.ParticleStore, count int) {
	for i := len(r.clothEntities); i < count; i++ {
		r.clothEntities = append(r.clothEntities, r.newSprite(
			r.clothSprite, 3, color.RGBA{90, 140, 230, 255},
		))
	}

	for i, sprite := range r.clothEntities {
		r.place(sprite, *particles.Position(i))
	}
}

// newSprite creates an entity with the given drawable and registers it
// with the render system.
func (r *SimRenderer) newSprite(drawable common.Drawable, size float32, tint color.Color) *spriteEntity {
	sprite := &spriteEntity{
		basic: ecs.NewBasic(),
		render: common.RenderComponent{
			Drawable: drawable,
			Color:    tint,
		},
		space: common.SpaceComponent{
			Position: engo.Point{X: 0, Y: 0},
			Width:    size,
			Height:   size,
		},
	}
	r.renderSystem.Add(&sprite.basic, &sprite.render, &sprite.space)
	return sprite
}

// place moves a sprite so its center lands on the projected world position.
func (r *SimRenderer) place(sprite *spriteEntity, worldPos physics.Vector3) {
	screen := r.worldToScreen(worldPos)
	sprite.space.Position = engo.Point{
		X: screen.X - sprite.space.Width/2,
		Y: screen.Y - sprite.space.Height/2,
	}
}

// worldToScreen converts world coordinates to screen coordinates. World y
// grows upward, screen y grows downward.
func (r *SimRenderer) worldToScreen(worldPos physics.Vector3) engo.Point {
	return engo.Point{
		X: worldPos.X*r.pixelsPerUnit + engo.GameWidth()/2,
		Y: -worldPos.Y*r.pixelsPerUnit + engo.GameHeight()/2,
	}
}

// createCircleSprite builds a white filled-circle texture of the given
// pixel diameter. Tinting happens per entity through the render component.
func createCircleSprite(diameter int) common.Drawable {
	img := image.NewNRGBA(image.Rect(0, 0, diameter, diameter))

	radius := float64(diameter) / 2
	for y := 0; y < diameter; y++ {
		for x := 0; x < diameter; x++ {
			dx := float64(x) + 0.5 - radius
			dy := float64(y) + 0.5 - radius
			if dx*dx+dy*dy <= radius*radius {
				img.Set(x, y, color.NRGBA{255, 255, 255, 255})
			}
		}
	}

	texture := common.NewImageObject(img)
	return common.NewTextureSingle(texture)
}
