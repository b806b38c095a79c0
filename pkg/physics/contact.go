// pkg/physics/contact.go
package physics

// Restitution coefficients for the two contact kinds. Sphere-sphere
// contacts bounce; cloth absorbs the entire normal component.
const (
	SphereRestitution float32 = 0.8
	ClothRestitution  float32 = 0.0
)

// correctionFactor is the fraction of the penetration depth resolved
// positionally per pass. A soft correction, not a hard constraint solve.
const correctionFactor float32 = 0.15

// ClothCollider is the view of a cloth body the resolver borrows for the
// duration of one resolution call: an indexable particle array plus its
// size. The resolver must not retain it across calls.
type ClothCollider interface {
	Particles() *ParticleStore
	ParticleCount() int
}

// ContactResolver detects and resolves sphere-sphere and sphere-cloth
// penetrations. Resolution is sequential: each pair is resolved against
// already-updated state from earlier pairs within the same pass, so pair
// ordering is part of the observable contract.
type ContactResolver struct {
	deltaTime float32
	friction  float32
}

// NewContactResolver creates a resolver for a fixed step duration and
// Coulomb friction coefficient.
func NewContactResolver(deltaTime, friction float32) *ContactResolver {
	return &ContactResolver{
		deltaTime: deltaTime,
		friction:  friction,
	}
}

// contactBody is one side of a contact: mutable references into a particle
// store plus the scalars the response needs. Point particles carry radius 0
// and receive no angular update.
type contactBody struct {
	position    *Vector3
	velocity    *Vector3
	rotation    *Vector3
	mass        float32
	inverseMass float32
	radius      float32
}

// ResolveSphereSphere resolves penetrations among all registered spheres.
// Every unordered pair (j, i) with j < i is visited exactly once, in index
// order.
func (r *ContactResolver) ResolveSphereSphere(spheres *Spheres) {
	p := spheres.Particles()
	for j := 0; j < spheres.Count(); j++ {
		for i := j + 1; i < spheres.Count(); i++ {
			distance := p.Position(i).Distance(*p.Position(j))
			if distance > spheres.Radius(j)+spheres.Radius(i) {
				continue
			}
			r.resolveContact(
				sphereBody(spheres, j),
				sphereBody(spheres, i),
				SphereRestitution,
			)
		}
	}
}

// ResolveSphereCloth resolves penetrations between every sphere and every
// cloth particle. Detection is asymmetric: the cloth particle is a point,
// only the sphere's radius bounds the contact.
func (r *ContactResolver) ResolveSphereCloth(spheres *Spheres, cloth ClothCollider) {
	cp := cloth.Particles()
	for j := 0; j < spheres.Count(); j++ {
		for i := 0; i < cloth.ParticleCount(); i++ {
			distance := cp.Position(i).Distance(spheres.Position(j))
			if distance > spheres.Radius(j) {
				continue
			}
			r.resolveContact(
				sphereBody(spheres, j),
				pointBody(cp, i),
				ClothRestitution,
			)
		}
	}
}

// resolveContact applies the shared impulse response to one penetrating
// pair: normal impulse with restitution, sliding friction, spin-induced
// friction, the angular update, and the soft positional correction.
//
// Degenerate pairs are guarded no-ops: coincident centers have no usable
// contact normal, and a pair with zero total inverse mass cannot respond.
// A body with zero inverse mass is immovable: it takes no velocity,
// position or angular update, and the other body responds as against
// infinite mass.
func (r *ContactResolver) resolveContact(a, b contactBody, restitution float32) {
	displacement := b.position.Sub(*a.position)
	distance := displacement.Length()
	if distance == 0 {
		return
	}
	if a.inverseMass+b.inverseMass == 0 {
		return
	}
	normal := displacement.Scale(1 / distance)
	aMovable := a.inverseMass != 0
	bMovable := b.inverseMass != 0

	// Normal impulse: project both velocities onto the contact normal and
	// apply the 1-D two-body collision-with-restitution formula. A body
	// with zero inverse mass counts as infinitely heavy regardless of its
	// scalar mass: it keeps its normal velocity and the other body
	// responds in full.
	v1 := normal.Scale(normal.Dot(*a.velocity))
	v2 := normal.Scale(normal.Dot(*b.velocity))
	m1, m2 := a.mass, b.mass
	var v1After, v2After Vector3
	switch {
	case !aMovable:
		v1After = v1
		v2After = v1.Add(v1.Sub(v2).Scale(restitution))
	case !bMovable:
		v1After = v2.Add(v2.Sub(v1).Scale(restitution))
		v2After = v2
	default:
		invTotal := 1 / (m1 + m2)
		v1After = v1.Scale(m1).Add(v2.Scale(m2)).Add(v2.Sub(v1).Scale(m2 * restitution)).Scale(invTotal)
		v2After = v1.Scale(m1).Add(v2.Scale(m2)).Add(v1.Sub(v2).Scale(m1 * restitution)).Scale(invTotal)
	}
	if aMovable {
		*a.velocity = a.velocity.Add(v1After.Sub(v1))
	}
	if bMovable {
		*b.velocity = b.velocity.Add(v2After.Sub(v2))
	}

	// Contact force magnitude from the rate of normal velocity change,
	// taken from a body that actually responded.
	normalForce := v1After.Sub(v1).Scale(m1 / r.deltaTime).Length()
	if !aMovable {
		normalForce = v2After.Sub(v2).Scale(m2 / r.deltaTime).Length()
	}

	// Sliding friction: oppose the post-impulse tangential relative motion.
	t1 := a.velocity.Sub(v1).Normalize()
	t2 := b.velocity.Sub(v2).Normalize()
	slideA := t2.Sub(t1).Scale(normalForce * r.friction)
	slideB := t1.Sub(t2).Scale(normalForce * r.friction)
	*a.velocity = a.velocity.Add(slideA.Scale(r.deltaTime * a.inverseMass))
	*b.velocity = b.velocity.Add(slideB.Scale(r.deltaTime * b.inverseMass))

	// Spin-induced friction along each body's surface motion direction.
	spinDirA := a.rotation.Cross(normal).Normalize()
	spinDirB := b.rotation.Cross(normal).Normalize()
	*a.velocity = a.velocity.Add(spinDirA.Scale(normalForce * r.friction * r.deltaTime * a.inverseMass))
	*b.velocity = b.velocity.Add(spinDirB.Scale(normalForce * r.friction * r.deltaTime * b.inverseMass))

	// Angular update from the frictional impulses, solid-sphere inertia
	// I = (2/5)mr². Point particles have no radius and no spin response;
	// immovable bodies have infinite inertia.
	if a.radius > 0 && aMovable {
		inertia := 0.4 * m1 * a.radius * a.radius
		*a.rotation = a.rotation.Add(normal.Cross(slideA.Add(spinDirA)).Scale(r.deltaTime / inertia))
	}
	if b.radius > 0 && bMovable {
		inertia := 0.4 * m2 * b.radius * b.radius
		*b.rotation = b.rotation.Add(normal.Cross(slideB.Add(spinDirB)).Scale(r.deltaTime / inertia))
	}

	// Soft positional correction: push the pair apart along the normal.
	// Immovable bodies stay put; the movable side still separates at the
	// same per-side rate.
	penetration := a.radius + b.radius - distance
	correction := normal.Scale(correctionFactor * penetration)
	if bMovable {
		*b.position = b.position.Add(correction)
	}
	if aMovable {
		*a.position = a.position.Sub(correction)
	}
}

func sphereBody(spheres *Spheres, i int) contactBody {
	p := spheres.Particles()
	return contactBody{
		position:    p.Position(i),
		velocity:    p.Velocity(i),
		rotation:    p.Rotation(i),
		mass:        *p.Mass(i),
		inverseMass: *p.InverseMass(i),
		radius:      spheres.Radius(i),
	}
}

func pointBody(p *ParticleStore, i int) contactBody {
	return contactBody{
		position:    p.Position(i),
		velocity:    p.Velocity(i),
		rotation:    p.Rotation(i),
		mass:        *p.Mass(i),
		inverseMass: *p.InverseMass(i),
	}
}
