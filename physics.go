package courtside

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

type ColliderShape int

const (
	ShapeBox ColliderShape = iota
	ShapeSphere
)

type RigidBodyComponent struct {
	Velocity     mgl32.Vec3
	Force        mgl32.Vec3 // accumulated until the next physics step
	Mass         float32
	GravityScale float32
	IsStatic     bool
	Sleeping     bool
	// Suspended bodies are skipped by the solver entirely. Held objects are
	// suspended.
	Suspended bool
	IdleTime  float32
}

func (rb *RigidBodyComponent) Wake() {
	rb.Sleeping = false
	rb.IdleTime = 0
}

func (rb *RigidBodyComponent) ApplyImpulse(impulse mgl32.Vec3) {
	rb.Wake()
	if rb.Mass > 0 {
		rb.Velocity = rb.Velocity.Add(impulse.Mul(1.0 / rb.Mass))
	} else {
		rb.Velocity = rb.Velocity.Add(impulse)
	}
}

func (rb *RigidBodyComponent) ApplyForce(force mgl32.Vec3) {
	rb.Wake()
	rb.Force = rb.Force.Add(force)
}

// Suspend takes the body out of simulation and drops its momentum.
func (rb *RigidBodyComponent) Suspend() {
	rb.Suspended = true
	rb.Velocity = mgl32.Vec3{}
	rb.Force = mgl32.Vec3{}
}

func (rb *RigidBodyComponent) Resume(mass float32) {
	rb.Suspended = false
	if mass > 0 {
		rb.Mass = mass
	}
	rb.Wake()
}

type ColliderComponent struct {
	Shape       ColliderShape
	HalfExtents mgl32.Vec3 // ShapeBox
	Radius      float32    // ShapeSphere
	Friction    float32
	Restitution float32
	// Sensors are seen by rays but not by the solver.
	Sensor bool
}

// AABB is an axis-aligned box in world space.
type AABB struct {
	Entity EntityId
	Min    mgl32.Vec3
	Max    mgl32.Vec3
}

type PhysicsWorld struct {
	Gravity        mgl32.Vec3
	SleepThreshold float32
	SleepTime      float32
	// MaxSubstep bounds the integration step in seconds.
	MaxSubstep float32
	// MaxDt drops frames longer than this (debugger pauses, window drags).
	MaxDt float32
}

func NewPhysicsWorld() *PhysicsWorld {
	return &PhysicsWorld{
		Gravity:        mgl32.Vec3{0, -9.81, 0},
		SleepThreshold: 0.05,
		SleepTime:      1.0,
		MaxSubstep:     1.0 / 120.0,
		MaxDt:          0.25,
	}
}

type PhysicsModule struct{}

func (m PhysicsModule) Install(app *App, cmd *Commands) {
	cmd.AddResources(NewPhysicsWorld())

	app.UseSystem(
		System(PhysicsSystem).
			InStage(Update).
			RunAlways(),
	)
}

type bodyInfo struct {
	eid EntityId
	tr  *TransformComponent
	rb  *RigidBodyComponent
	col *ColliderComponent
}

func PhysicsSystem(cmd *Commands, time *Time, physics *PhysicsWorld) {
	dt := time.Seconds()
	if dt <= 0 || dt > physics.MaxDt {
		return
	}

	statics := CollectStaticBoxes(cmd)

	var bodies []bodyInfo
	MakeQuery3[TransformComponent, RigidBodyComponent, ColliderComponent](cmd).Without(Parent{}).Map(func(eid EntityId, tr *TransformComponent, rb *RigidBodyComponent, col *ColliderComponent) bool {
		if rb.IsStatic || rb.Sleeping || rb.Suspended || col.Sensor {
			return true
		}
		bodies = append(bodies, bodyInfo{eid, tr, rb, col})
		return true
	})

	steps := int(math32.Ceil(dt / physics.MaxSubstep))
	if steps < 1 {
		steps = 1
	}
	h := dt / float32(steps)

	for i := range bodies {
		b := &bodies[i]
		forced := b.rb.Force.Len() > 0

		for s := 0; s < steps; s++ {
			stepBody(physics, statics, b, h)
		}
		b.rb.Force = mgl32.Vec3{}

		if math32.IsNaN(b.tr.Position.Len()) || math32.IsInf(b.tr.Position.Len(), 0) {
			cmd.Logger().Warnf("physics: entity %d diverged, freezing it", b.eid)
			b.rb.Velocity = mgl32.Vec3{}
			b.rb.Sleeping = true
			continue
		}

		if !forced && b.rb.Velocity.Len() < physics.SleepThreshold {
			b.rb.IdleTime += dt
			if b.rb.IdleTime > physics.SleepTime {
				b.rb.Sleeping = true
				b.rb.Velocity = mgl32.Vec3{}
			}
		} else {
			b.rb.IdleTime = 0
		}
	}
}

func stepBody(physics *PhysicsWorld, statics []AABB, b *bodyInfo, h float32) {
	accel := physics.Gravity.Mul(b.rb.GravityScale)
	if b.rb.Mass > 0 {
		accel = accel.Add(b.rb.Force.Mul(1 / b.rb.Mass))
	}
	b.rb.Velocity = b.rb.Velocity.Add(accel.Mul(h))
	pos := b.tr.Position.Add(b.rb.Velocity.Mul(h))

	switch b.col.Shape {
	case ShapeSphere:
		r := b.col.Radius * maxAbsComponent(b.tr.Scale)
		pos, b.rb.Velocity, _ = ResolveSphere(pos, b.rb.Velocity, r, statics, b.col.Restitution, b.col.Friction)
	case ShapeBox:
		half := absVec(mulVec(b.col.HalfExtents, b.tr.Scale))
		pos, b.rb.Velocity = resolveBox(pos, b.rb.Velocity, half, statics, b.col.Restitution, b.col.Friction)
	}
	b.tr.Position = pos
}

// CollectStaticBoxes returns the world AABBs of every solid collider that
// does not move on its own: static bodies and colliders without a body.
func CollectStaticBoxes(cmd *Commands) []AABB {
	var boxes []AABB
	MakeQuery3[TransformComponent, ColliderComponent, RigidBodyComponent](cmd).Map(func(eid EntityId, tr *TransformComponent, col *ColliderComponent, rb *RigidBodyComponent) bool {
		if col.Sensor || (rb != nil && !rb.IsStatic) {
			return true
		}
		var half mgl32.Vec3
		switch col.Shape {
		case ShapeBox:
			half = absVec(mulVec(col.HalfExtents, tr.Scale))
		case ShapeSphere:
			r := col.Radius * maxAbsComponent(tr.Scale)
			half = mgl32.Vec3{r, r, r}
		}
		boxes = append(boxes, AABB{Entity: eid, Min: tr.Position.Sub(half), Max: tr.Position.Add(half)})
		return true
	}, RigidBodyComponent{})
	return boxes
}

// ResolveSphere pushes a sphere out of every box it overlaps. Velocity into a
// contact is reflected with restitution; tangential velocity loses the
// friction fraction. grounded reports an upward-facing contact.
func ResolveSphere(center, vel mgl32.Vec3, radius float32, boxes []AABB, restitution, friction float32) (mgl32.Vec3, mgl32.Vec3, bool) {
	grounded := false
	for _, box := range boxes {
		closest := clampVec(center, box.Min, box.Max)
		d := center.Sub(closest)
		dist := d.Len()
		if dist >= radius {
			continue
		}

		var n mgl32.Vec3
		var depth float32
		if dist > 1e-6 {
			n = d.Mul(1 / dist)
			depth = radius - dist
		} else {
			// Center inside the box: leave through the nearest face.
			n, depth = nearestFace(center, box)
			depth += radius
		}

		center = center.Add(n.Mul(depth))
		vel = contactResponse(vel, n, restitution, friction)
		if n.Y() > 0.7 {
			grounded = true
		}
	}
	return center, vel, grounded
}

func resolveBox(center, vel, half mgl32.Vec3, boxes []AABB, restitution, friction float32) (mgl32.Vec3, mgl32.Vec3) {
	for _, box := range boxes {
		minA, maxA := center.Sub(half), center.Add(half)
		axis, depth, sign := -1, float32(0), float32(0)
		for a := 0; a < 3; a++ {
			overlap := math32.Min(maxA[a], box.Max[a]) - math32.Max(minA[a], box.Min[a])
			if overlap <= 0 {
				axis = -1
				break
			}
			if axis == -1 || overlap < depth {
				axis, depth = a, overlap
				sign = 1
				if center[a] < (box.Min[a]+box.Max[a])/2 {
					sign = -1
				}
			}
		}
		if axis == -1 {
			continue
		}

		var n mgl32.Vec3
		n[axis] = sign
		center = center.Add(n.Mul(depth))
		vel = contactResponse(vel, n, restitution, friction)
	}
	return center, vel
}

func contactResponse(vel, n mgl32.Vec3, restitution, friction float32) mgl32.Vec3 {
	vn := vel.Dot(n)
	if vn >= 0 {
		return vel
	}
	normal := n.Mul(vn)
	tangent := vel.Sub(normal)

	bounce := -vn * restitution
	if bounce < 0.1 {
		bounce = 0
	}
	tangent = tangent.Mul(1 - clamp01(friction))
	if tangent.Len() < 0.01 {
		tangent = mgl32.Vec3{}
	}
	return tangent.Add(n.Mul(bounce))
}

func nearestFace(p mgl32.Vec3, box AABB) (mgl32.Vec3, float32) {
	best := math32.Inf(1)
	var n mgl32.Vec3
	for a := 0; a < 3; a++ {
		if d := p[a] - box.Min[a]; d < best {
			best = d
			n = mgl32.Vec3{}
			n[a] = -1
		}
		if d := box.Max[a] - p[a]; d < best {
			best = d
			n = mgl32.Vec3{}
			n[a] = 1
		}
	}
	return n, best
}

func clampVec(v, lo, hi mgl32.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{
		math32.Max(lo[0], math32.Min(hi[0], v[0])),
		math32.Max(lo[1], math32.Min(hi[1], v[1])),
		math32.Max(lo[2], math32.Min(hi[2], v[2])),
	}
}

func mulVec(a, b mgl32.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{a[0] * b[0], a[1] * b[1], a[2] * b[2]}
}

func absVec(v mgl32.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{math32.Abs(v[0]), math32.Abs(v[1]), math32.Abs(v[2])}
}

func maxAbsComponent(v mgl32.Vec3) float32 {
	return math32.Max(math32.Abs(v[0]), math32.Max(math32.Abs(v[1]), math32.Abs(v[2])))
}

func clamp01(v float32) float32 {
	return math32.Max(0, math32.Min(1, v))
}
