// pkg/physics/particle.go
package physics

// ParticleStore is a growable structure-of-arrays container for particle
// state. Each index holds a position, velocity, acceleration, angular
// velocity ("rotation"), mass and inverse mass. All parallel arrays always
// have equal length.
//
// Accessors return pointers into the backing arrays so callers can mutate
// state in place. Indices are not bounds-checked; callers must stay within
// [0, Capacity()). Setting a mass does not derive the inverse mass; callers
// pair every mass write with the matching inverse-mass write (zero for
// immovable particles).
type ParticleStore struct {
	positions     []Vector3
	velocities    []Vector3
	accelerations []Vector3
	rotations     []Vector3
	masses        []float32
	inverseMasses []float32
}

// NewParticleStore creates a store with the given capacity.
// All slots are zero-initialized.
func NewParticleStore(capacity int) *ParticleStore {
	return &ParticleStore{
		positions:     make([]Vector3, capacity),
		velocities:    make([]Vector3, capacity),
		accelerations: make([]Vector3, capacity),
		rotations:     make([]Vector3, capacity),
		masses:        make([]float32, capacity),
		inverseMasses: make([]float32, capacity),
	}
}

// Capacity returns the number of particle slots in the store.
func (s *ParticleStore) Capacity() int {
	return len(s.positions)
}

// Resize grows or shrinks the store to n slots. Existing entries up to n are
// preserved; new slots are zero-initialized. All parallel arrays are resized
// in lock-step.
func (s *ParticleStore) Resize(n int) {
	s.positions = resizeVectors(s.positions, n)
	s.velocities = resizeVectors(s.velocities, n)
	s.accelerations = resizeVectors(s.accelerations, n)
	s.rotations = resizeVectors(s.rotations, n)
	s.masses = resizeScalars(s.masses, n)
	s.inverseMasses = resizeScalars(s.inverseMasses, n)
}

// Position returns a mutable reference to particle i's position.
func (s *ParticleStore) Position(i int) *Vector3 {
	return &s.positions[i]
}

// Velocity returns a mutable reference to particle i's velocity.
func (s *ParticleStore) Velocity(i int) *Vector3 {
	return &s.velocities[i]
}

// Acceleration returns a mutable reference to particle i's acceleration.
func (s *ParticleStore) Acceleration(i int) *Vector3 {
	return &s.accelerations[i]
}

// Rotation returns a mutable reference to particle i's angular velocity.
func (s *ParticleStore) Rotation(i int) *Vector3 {
	return &s.rotations[i]
}

// Mass returns a mutable reference to particle i's mass.
func (s *ParticleStore) Mass(i int) *float32 {
	return &s.masses[i]
}

// InverseMass returns a mutable reference to particle i's inverse mass.
func (s *ParticleStore) InverseMass(i int) *float32 {
	return &s.inverseMasses[i]
}

func resizeVectors(src []Vector3, n int) []Vector3 {
	dst := make([]Vector3, n)
	copy(dst, src)
	return dst
}

func resizeScalars(src []float32, n int) []float32 {
	dst := make([]float32, n)
	copy(dst, src)
	return dst
}
