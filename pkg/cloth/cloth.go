// pkg/cloth/cloth.go

// Package cloth implements a deformable mass-spring cloth body over a fixed
// square particle grid. The cloth owns its particle store; the collision
// core borrows it for the duration of one resolution call.
package cloth

import (
	"github.com/opd-ai/go-clothsim/pkg/physics"
)

// springKind distinguishes the three classic cloth spring families.
type springKind int

const (
	structuralSpring springKind = iota
	shearSpring
	bendSpring
)

// spring connects two particle indices with a rest length.
type spring struct {
	a          int
	b          int
	restLength float32
	kind       springKind
}

// Params configures cloth construction.
type Params struct {
	ParticlesPerEdge int     // grid side length
	Size             float32 // world-space edge length
	Height           float32 // initial y of the whole sheet
	ParticleMass     float32
	Stiffness        float32
	Damping          float32
	Gravity          physics.Vector3
	PinCorners       bool // fix the four corner particles in place
}

// Cloth is a square grid of particles connected by structural, shear and
// bend springs, laid out flat in the x-z plane.
type Cloth struct {
	particles        *physics.ParticleStore
	particlesPerEdge int
	springs          []spring
	stiffness        float32
	damping          float32
	gravity          physics.Vector3
}

// New builds a cloth grid from the given parameters. Particle row r,
// column c maps to flat index r*particlesPerEdge + c.
func New(params Params) *Cloth {
	n := params.ParticlesPerEdge
	c := &Cloth{
		particles:        physics.NewParticleStore(n * n),
		particlesPerEdge: n,
		stiffness:        params.Stiffness,
		damping:          params.Damping,
		gravity:          params.Gravity,
	}

	spacing := params.Size / float32(n-1)
	half := params.Size / 2
	for row := 0; row < n; row++ {
		for col := 0; col < n; col++ {
			i := c.Index(row, col)
			*c.particles.Position(i) = physics.Vector3{
				X: -half + float32(col)*spacing,
				Y: params.Height,
				Z: -half + float32(row)*spacing,
			}
			*c.particles.Mass(i) = params.ParticleMass
			*c.particles.InverseMass(i) = 1 / params.ParticleMass
		}
	}

	c.buildSprings()

	if params.PinCorners {
		c.Pin(0, 0)
		c.Pin(0, n-1)
		c.Pin(n-1, 0)
		c.Pin(n-1, n-1)
	}

	return c
}

// buildSprings connects neighbors: structural to the next particle in the
// row and column, shear to both diagonals, bend to the particle two steps
// away. Each connection is created once, scanning toward increasing
// indices.
func (c *Cloth) buildSprings() {
	n := c.particlesPerEdge
	for row := 0; row < n; row++ {
		for col := 0; col < n; col++ {
			if col+1 < n {
				c.addSpring(row, col, row, col+1, structuralSpring)
			}
			if row+1 < n {
				c.addSpring(row, col, row+1, col, structuralSpring)
			}
			if row+1 < n && col+1 < n {
				c.addSpring(row, col, row+1, col+1, shearSpring)
			}
			if row+1 < n && col > 0 {
				c.addSpring(row, col, row+1, col-1, shearSpring)
			}
			if col+2 < n {
				c.addSpring(row, col, row, col+2, bendSpring)
			}
			if row+2 < n {
				c.addSpring(row, col, row+2, col, bendSpring)
			}
		}
	}
}

func (c *Cloth) addSpring(r1, c1, r2, c2 int, kind springKind) {
	a := c.Index(r1, c1)
	b := c.Index(r2, c2)
	rest := c.particles.Position(a).Distance(*c.particles.Position(b))
	c.springs = append(c.springs, spring{a: a, b: b, restLength: rest, kind: kind})
}

// Index maps a (row, col) grid coordinate to a flat particle index.
func (c *Cloth) Index(row, col int) int {
	return row*c.particlesPerEdge + col
}

// Particles exposes the cloth's particle store.
func (c *Cloth) Particles() *physics.ParticleStore {
	return c.particles
}

// ParticlesPerEdge returns the grid side length.
func (c *Cloth) ParticlesPerEdge() int {
	return c.particlesPerEdge
}

// ParticleCount returns the total number of cloth particles.
func (c *Cloth) ParticleCount() int {
	return c.particlesPerEdge * c.particlesPerEdge
}

// SpringCount returns the number of springs in the mesh.
func (c *Cloth) SpringCount() int {
	return len(c.springs)
}

// Pin fixes the particle at (row, col) in place by giving it infinite mass
// (inverse mass zero). Pinned particles ignore spring forces and gravity.
func (c *Cloth) Pin(row, col int) {
	i := c.Index(row, col)
	*c.particles.InverseMass(i) = 0
}

// ComputeForces runs the cloth's internal dynamics for one step: it resets
// every movable particle's acceleration to gravity and accumulates damped
// spring accelerations. Positions and velocities are left for the stepper
// to integrate after collision resolution.
func (c *Cloth) ComputeForces() {
	for i := 0; i < c.ParticleCount(); i++ {
		if *c.particles.InverseMass(i) == 0 {
			*c.particles.Acceleration(i) = physics.Vector3{}
			continue
		}
		*c.particles.Acceleration(i) = c.gravity
	}

	for _, s := range c.springs {
		displacement := c.particles.Position(s.b).Sub(*c.particles.Position(s.a))
		length := displacement.Length()
		if length == 0 {
			continue
		}
		direction := displacement.Scale(1 / length)

		relativeSpeed := c.particles.Velocity(s.b).Sub(*c.particles.Velocity(s.a)).Dot(direction)
		magnitude := c.stiffness*(length-s.restLength) + c.damping*relativeSpeed
		force := direction.Scale(magnitude)

		*c.particles.Acceleration(s.a) = c.particles.Acceleration(s.a).Add(force.Scale(*c.particles.InverseMass(s.a)))
		*c.particles.Acceleration(s.b) = c.particles.Acceleration(s.b).Sub(force.Scale(*c.particles.InverseMass(s.b)))
	}
}
