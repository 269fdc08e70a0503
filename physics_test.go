package courtside

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBall(pos mgl32.Vec3, radius float32) []any {
	return []any{
		NewTransform(pos),
		RigidBodyComponent{Mass: 1, GravityScale: 1},
		ColliderComponent{Shape: ShapeSphere, Radius: radius, Restitution: 0.5, Friction: 1},
	}
}

func TestPhysicsIntegration(t *testing.T) {
	cmd := newTestCommands()
	physics := NewPhysicsWorld()
	physics.Gravity = mgl32.Vec3{0, -10, 0}

	eid := spawn(cmd, newBall(mgl32.Vec3{0, 10, 0}, 0.5)...)

	tm := &Time{Dt: frame}
	for i := 0; i < 30; i++ {
		PhysicsSystem(cmd, tm, physics)
	}

	tr, _ := GetComponent[TransformComponent](cmd, eid)
	rb, _ := GetComponent[RigidBodyComponent](cmd, eid)

	// Half a second of free fall: v = 5, d = 1.25 (semi-implicit Euler runs a little ahead).
	assert.InDelta(t, -5, rb.Velocity.Y(), 0.01)
	assert.InDelta(t, 10-1.25, tr.Position.Y(), 0.05)
}

func TestPhysics_BallSettlesOnGround(t *testing.T) {
	cmd := newTestCommands()
	physics := NewPhysicsWorld()

	spawn(cmd, staticBox(mgl32.Vec3{0, -1, 0}, mgl32.Vec3{10, 1, 10})...)
	ball := spawn(cmd, newBall(mgl32.Vec3{0, 3, 0}, 0.25)...)

	tm := &Time{Dt: frame}
	for i := 0; i < 600; i++ {
		PhysicsSystem(cmd, tm, physics)
	}

	tr, _ := GetComponent[TransformComponent](cmd, ball)
	rb, _ := GetComponent[RigidBodyComponent](cmd, ball)
	assert.InDelta(t, 0.25, tr.Position.Y(), 0.01)
	assert.True(t, rb.Sleeping, "ball should be asleep, velocity %v", rb.Velocity)
	assert.Equal(t, float32(0), tr.Position.X())
}

func TestPhysics_BounceLosesEnergy(t *testing.T) {
	cmd := newTestCommands()
	physics := NewPhysicsWorld()

	spawn(cmd, staticBox(mgl32.Vec3{0, -1, 0}, mgl32.Vec3{10, 1, 10})...)
	ball := spawn(cmd, newBall(mgl32.Vec3{0, 2, 0}, 0.25)...)

	tm := &Time{Dt: frame}
	peak := float32(0)
	bounced := false
	for i := 0; i < 120; i++ {
		PhysicsSystem(cmd, tm, physics)
		rb, _ := GetComponent[RigidBodyComponent](cmd, ball)
		tr, _ := GetComponent[TransformComponent](cmd, ball)
		if rb.Velocity.Y() > 0 {
			bounced = true
		}
		if bounced && tr.Position.Y() > peak {
			peak = tr.Position.Y()
		}
	}
	require.True(t, bounced)
	assert.Less(t, peak, float32(2))
	assert.Greater(t, peak, float32(0.25))
}

func TestPhysics_SuspendedAndParentedBodiesAreSkipped(t *testing.T) {
	cmd := newTestCommands()
	physics := NewPhysicsWorld()

	suspended := newBall(mgl32.Vec3{0, 5, 0}, 0.25)
	suspended[1] = RigidBodyComponent{Mass: 1, GravityScale: 1, Suspended: true}
	a := spawn(cmd, suspended...)

	holder := spawn(cmd, NewTransform(mgl32.Vec3{}))
	b := spawn(cmd, append(newBall(mgl32.Vec3{3, 5, 0}, 0.25), Parent{Entity: holder}, NewLocalTransform(mgl32.Vec3{}))...)

	tm := &Time{Dt: frame}
	for i := 0; i < 10; i++ {
		PhysicsSystem(cmd, tm, physics)
	}

	trA, _ := GetComponent[TransformComponent](cmd, a)
	trB, _ := GetComponent[TransformComponent](cmd, b)
	assert.Equal(t, float32(5), trA.Position.Y())
	assert.Equal(t, float32(5), trB.Position.Y())
}

func TestPhysics_ForceIsConsumedByOneStep(t *testing.T) {
	cmd := newTestCommands()
	physics := NewPhysicsWorld()
	physics.Gravity = mgl32.Vec3{}

	ball := spawn(cmd, newBall(mgl32.Vec3{}, 0.25)...)
	rb, _ := GetComponent[RigidBodyComponent](cmd, ball)
	rb.ApplyForce(mgl32.Vec3{0, 0, 60})

	tm := &Time{Dt: frame}
	PhysicsSystem(cmd, tm, physics)

	assert.InDelta(t, 1, rb.Velocity.Z(), 1e-4)
	assert.Equal(t, mgl32.Vec3{}, rb.Force)

	PhysicsSystem(cmd, tm, physics)
	assert.InDelta(t, 1, rb.Velocity.Z(), 1e-4, "no force, no further acceleration")
}

func TestPhysics_ImpulseScalesWithMass(t *testing.T) {
	rb := RigidBodyComponent{Mass: 2, Sleeping: true}
	rb.ApplyImpulse(mgl32.Vec3{0, 7, 7})

	assert.False(t, rb.Sleeping)
	assert.Equal(t, mgl32.Vec3{0, 3.5, 3.5}, rb.Velocity)
}

func TestPhysics_SuspendResume(t *testing.T) {
	rb := RigidBodyComponent{Mass: 1, Velocity: mgl32.Vec3{1, 2, 3}, Force: mgl32.Vec3{1, 0, 0}}
	rb.Suspend()
	assert.True(t, rb.Suspended)
	assert.Equal(t, mgl32.Vec3{}, rb.Velocity)
	assert.Equal(t, mgl32.Vec3{}, rb.Force)

	rb.Sleeping = true
	rb.Resume(3)
	assert.False(t, rb.Suspended)
	assert.False(t, rb.Sleeping)
	assert.Equal(t, float32(3), rb.Mass)

	rb.Resume(0)
	assert.Equal(t, float32(3), rb.Mass, "non-positive mass keeps the old one")
}

func TestPhysics_LongFramesAreDropped(t *testing.T) {
	cmd := newTestCommands()
	physics := NewPhysicsWorld()
	ball := spawn(cmd, newBall(mgl32.Vec3{0, 5, 0}, 0.25)...)

	PhysicsSystem(cmd, &Time{Dt: 10 * frame * 60}, physics)

	tr, _ := GetComponent[TransformComponent](cmd, ball)
	assert.Equal(t, float32(5), tr.Position.Y())
}

func TestResolveSphere_PushesOutOfBox(t *testing.T) {
	boxes := []AABB{{Min: mgl32.Vec3{-1, -1, -1}, Max: mgl32.Vec3{1, 0, 1}}}

	pos, vel, grounded := ResolveSphere(mgl32.Vec3{0, 0.1, 0}, mgl32.Vec3{0, -2, 0}, 0.5, boxes, 0.5, 0)
	assert.True(t, grounded)
	assert.InDelta(t, 0.5, pos.Y(), 1e-5)
	assert.InDelta(t, 1, vel.Y(), 1e-5)

	_, vel, _ = ResolveSphere(mgl32.Vec3{0, 0.4, 0}, mgl32.Vec3{0, -0.1, 0}, 0.5, boxes, 0.5, 0)
	assert.Equal(t, float32(0), vel.Y(), "tiny bounces are absorbed")

	pos, _, grounded = ResolveSphere(mgl32.Vec3{0, 2, 0}, mgl32.Vec3{}, 0.5, boxes, 0, 0)
	assert.False(t, grounded)
	assert.Equal(t, mgl32.Vec3{0, 2, 0}, pos)
}

func TestCollectStaticBoxes(t *testing.T) {
	cmd := newTestCommands()
	spawn(cmd, staticBox(mgl32.Vec3{0, -1, 0}, mgl32.Vec3{2, 1, 2})...)
	spawn(cmd, NewTransform(mgl32.Vec3{5, 0, 0}), ColliderComponent{Shape: ShapeBox, HalfExtents: mgl32.Vec3{1, 1, 1}})
	spawn(cmd, NewTransform(mgl32.Vec3{}), ColliderComponent{Shape: ShapeBox, HalfExtents: mgl32.Vec3{1, 1, 1}, Sensor: true})
	spawn(cmd, newBall(mgl32.Vec3{}, 1)...)

	boxes := CollectStaticBoxes(cmd)
	require.Len(t, boxes, 2)
	assert.Equal(t, mgl32.Vec3{-2, -2, -2}, boxes[0].Min)
	assert.Equal(t, mgl32.Vec3{2, 0, 2}, boxes[0].Max)
	assert.Equal(t, mgl32.Vec3{4, -1, -1}, boxes[1].Min)
}
