// pkg/physics/sphere.go
package physics

// Spheres manages the set of rigid sphere bodies. Each sphere is backed by
// one slot in a ParticleStore plus a scalar radius. Indices are assigned in
// insertion order and remain stable for the lifetime of the registry; there
// is no removal operation.
type Spheres struct {
	particles *ParticleStore
	radii     []float32
	density   float32
	count     int
}

// NewSpheres creates an empty registry. Sphere mass is derived from the
// material density as density × radius³ on insertion.
func NewSpheres(density float32) *Spheres {
	return &Spheres{
		particles: NewParticleStore(1),
		radii:     make([]float32, 1),
		density:   density,
	}
}

// AddSphere appends a sphere at the given position and returns its index,
// which always equals the pre-insertion count. Velocity, acceleration and
// angular velocity start at zero. When the backing store is full, capacity
// doubles and the particle and radius arrays grow in lock-step.
func (s *Spheres) AddSphere(position Vector3, radius float32) int {
	if s.count == s.particles.Capacity() {
		s.grow(s.count * 2)
	}

	i := s.count
	s.radii[i] = radius
	*s.particles.Position(i) = position
	*s.particles.Velocity(i) = Vector3{}
	*s.particles.Acceleration(i) = Vector3{}
	*s.particles.Rotation(i) = Vector3{}

	mass := s.density * radius * radius * radius
	*s.particles.Mass(i) = mass
	*s.particles.InverseMass(i) = 1 / mass

	s.count++
	return i
}

// Count returns the number of live spheres.
func (s *Spheres) Count() int {
	return s.count
}

// Capacity returns the number of sphere slots currently allocated.
func (s *Spheres) Capacity() int {
	return s.particles.Capacity()
}

// Particles exposes the backing particle store.
func (s *Spheres) Particles() *ParticleStore {
	return s.particles
}

// Radius returns sphere i's radius.
func (s *Spheres) Radius(i int) float32 {
	return s.radii[i]
}

// Position returns sphere i's position, for render-side consumers.
func (s *Spheres) Position(i int) Vector3 {
	return *s.particles.Position(i)
}

// grow resizes every parallel array to n slots, preserving existing entries.
func (s *Spheres) grow(n int) {
	s.particles.Resize(n)
	radii := make([]float32, n)
	copy(radii, s.radii)
	s.radii = radii
}
