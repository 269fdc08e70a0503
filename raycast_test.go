package courtside

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pickableSphere(pos mgl32.Vec3, r float32) []any {
	return []any{NewTransform(pos), ColliderComponent{Shape: ShapeSphere, Radius: r}, PickableComponent{}}
}

func pickableBox(pos, half mgl32.Vec3) []any {
	return []any{NewTransform(pos), ColliderComponent{Shape: ShapeBox, HalfExtents: half}, PickableComponent{}}
}

func TestRaycast_NearestWins(t *testing.T) {
	cmd := newTestCommands()
	far := spawn(cmd, pickableSphere(mgl32.Vec3{0, 0, 10}, 1)...)
	near := spawn(cmd, pickableSphere(mgl32.Vec3{0, 0, 5}, 1)...)

	hit, ok := Raycast(cmd, mgl32.Vec3{}, mgl32.Vec3{0, 0, 1}, 0)
	require.True(t, ok)
	assert.Equal(t, near, hit.Entity)
	assert.NotEqual(t, far, hit.Entity)
	assert.InDelta(t, 4, hit.Distance, 1e-4)
	assert.True(t, vecInDelta(mgl32.Vec3{0, 0, -1}, hit.Normal, 1e-4))
}

func TestRaycast_OccluderBlocksTarget(t *testing.T) {
	cmd := newTestCommands()
	spawn(cmd, pickableSphere(mgl32.Vec3{0, 0, 10}, 1)...)
	wall := spawn(cmd, pickableBox(mgl32.Vec3{0, 0, 5}, mgl32.Vec3{2, 2, 0.1})...)

	hit, ok := Raycast(cmd, mgl32.Vec3{}, mgl32.Vec3{0, 0, 1}, 0)
	require.True(t, ok)
	assert.Equal(t, wall, hit.Entity)
	assert.InDelta(t, 4.9, hit.Distance, 1e-4)
}

func TestRaycast_NonPickableIsInvisible(t *testing.T) {
	cmd := newTestCommands()
	target := spawn(cmd, pickableSphere(mgl32.Vec3{0, 0, 10}, 1)...)
	spawn(cmd, NewTransform(mgl32.Vec3{0, 0, 5}), ColliderComponent{Shape: ShapeBox, HalfExtents: mgl32.Vec3{2, 2, 0.1}})

	hit, ok := Raycast(cmd, mgl32.Vec3{}, mgl32.Vec3{0, 0, 1}, 0)
	require.True(t, ok)
	assert.Equal(t, target, hit.Entity)
}

func TestRaycast_MaxDistance(t *testing.T) {
	cmd := newTestCommands()
	spawn(cmd, pickableSphere(mgl32.Vec3{0, 0, 10}, 1)...)

	_, ok := Raycast(cmd, mgl32.Vec3{}, mgl32.Vec3{0, 0, 1}, 8)
	assert.False(t, ok)
	_, ok = Raycast(cmd, mgl32.Vec3{}, mgl32.Vec3{0, 0, 1}, 9.5)
	assert.True(t, ok)
}

func TestRaycast_MissesAndDegenerateDirection(t *testing.T) {
	cmd := newTestCommands()
	spawn(cmd, pickableSphere(mgl32.Vec3{0, 0, 10}, 1)...)

	_, ok := Raycast(cmd, mgl32.Vec3{}, mgl32.Vec3{0, 0, -1}, 0)
	assert.False(t, ok, "behind the origin")
	_, ok = Raycast(cmd, mgl32.Vec3{}, mgl32.Vec3{0, 1, 0}, 0)
	assert.False(t, ok)
	_, ok = Raycast(cmd, mgl32.Vec3{}, mgl32.Vec3{}, 0)
	assert.False(t, ok)
}

func TestRaycast_OriginInsideShapeIsIgnored(t *testing.T) {
	cmd := newTestCommands()
	spawn(cmd, pickableSphere(mgl32.Vec3{}, 2)...)
	spawn(cmd, pickableBox(mgl32.Vec3{}, mgl32.Vec3{3, 3, 3})...)
	target := spawn(cmd, pickableSphere(mgl32.Vec3{0, 0, 10}, 1)...)

	hit, ok := Raycast(cmd, mgl32.Vec3{}, mgl32.Vec3{0, 0, 1}, 0)
	require.True(t, ok)
	assert.Equal(t, target, hit.Entity)
}

func TestRaycast_RotatedBox(t *testing.T) {
	cmd := newTestCommands()

	// A thin slab turned 90 degrees about Y faces the X axis.
	tr := NewTransform(mgl32.Vec3{0, 0, 5})
	tr.Rotation = mgl32.QuatRotate(mgl32.DegToRad(90), mgl32.Vec3{0, 1, 0})
	spawn(cmd, tr, ColliderComponent{Shape: ShapeBox, HalfExtents: mgl32.Vec3{2, 1, 0.1}}, PickableComponent{})

	hit, ok := Raycast(cmd, mgl32.Vec3{}, mgl32.Vec3{0, 0, 1}, 0)
	require.True(t, ok)
	assert.InDelta(t, 3, hit.Distance, 1e-4)

	_, ok = Raycast(cmd, mgl32.Vec3{0.5, 0, 0}, mgl32.Vec3{0, 0, 1}, 0)
	assert.False(t, ok, "slab is only 0.2 wide along X once rotated")
}

func TestRaycast_ScaleGrowsColliders(t *testing.T) {
	cmd := newTestCommands()
	tr := NewTransform(mgl32.Vec3{0, 0, 10})
	tr.Scale = mgl32.Vec3{3, 3, 3}
	spawn(cmd, tr, ColliderComponent{Shape: ShapeSphere, Radius: 1}, PickableComponent{})

	hit, ok := Raycast(cmd, mgl32.Vec3{}, mgl32.Vec3{0, 0, 1}, 0)
	require.True(t, ok)
	assert.InDelta(t, 7, hit.Distance, 1e-4)
}
