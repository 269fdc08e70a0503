package courtside

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransformHierarchy_ChildFollowsParent(t *testing.T) {
	cmd := newTestCommands()

	parentTr := NewTransform(mgl32.Vec3{10, 0, 0})
	parentTr.Rotation = mgl32.QuatRotate(mgl32.DegToRad(90), mgl32.Vec3{0, 1, 0})
	parent := spawn(cmd, parentTr)

	child := spawn(cmd,
		NewTransform(mgl32.Vec3{}),
		NewLocalTransform(mgl32.Vec3{0, 0, 2}),
		Parent{Entity: parent},
	)

	TransformHierarchySystem(cmd)

	tr, ok := GetComponent[TransformComponent](cmd, child)
	require.True(t, ok)
	// +Z rotated 90 degrees about Y is +X.
	assert.True(t, vecInDelta(mgl32.Vec3{12, 0, 0}, tr.Position, 1e-4), "got %v", tr.Position)
	assert.InDelta(t, 1, tr.Rotation.Dot(parentTr.Rotation), 1e-4)
}

func TestTransformHierarchy_ScaleAndDepth(t *testing.T) {
	cmd := newTestCommands()

	rootTr := NewTransform(mgl32.Vec3{0, 1, 0})
	rootTr.Scale = mgl32.Vec3{2, 2, 2}
	root := spawn(cmd, rootTr)

	// Spawned before its parent so one pass is not enough.
	grandchild := cmd.AddEntity(NewTransform(mgl32.Vec3{}), NewLocalTransform(mgl32.Vec3{1, 0, 0}))
	child := spawn(cmd, NewTransform(mgl32.Vec3{}), NewLocalTransform(mgl32.Vec3{0, 1, 0}), Parent{Entity: root})
	cmd.AddComponents(grandchild, Parent{Entity: child})
	cmd.app.FlushCommands()

	TransformHierarchySystem(cmd)

	childTr, _ := GetComponent[TransformComponent](cmd, child)
	assert.True(t, vecInDelta(mgl32.Vec3{0, 3, 0}, childTr.Position, 1e-4), "child at %v", childTr.Position)
	assert.Equal(t, mgl32.Vec3{2, 2, 2}, childTr.Scale)

	gcTr, _ := GetComponent[TransformComponent](cmd, grandchild)
	assert.True(t, vecInDelta(mgl32.Vec3{2, 3, 0}, gcTr.Position, 1e-4), "grandchild at %v", gcTr.Position)
}

func TestTransformHierarchy_RootsSyncLocal(t *testing.T) {
	cmd := newTestCommands()
	eid := spawn(cmd, NewTransform(mgl32.Vec3{1, 2, 3}), NewLocalTransform(mgl32.Vec3{}))

	TransformHierarchySystem(cmd)

	local, _ := GetComponent[LocalTransformComponent](cmd, eid)
	assert.Equal(t, mgl32.Vec3{1, 2, 3}, local.Position)
}

func TestTransformHierarchy_MissingParentLeavesChild(t *testing.T) {
	cmd := newTestCommands()
	child := spawn(cmd, NewTransform(mgl32.Vec3{5, 5, 5}), NewLocalTransform(mgl32.Vec3{}), Parent{Entity: 999})

	TransformHierarchySystem(cmd)

	tr, _ := GetComponent[TransformComponent](cmd, child)
	assert.Equal(t, mgl32.Vec3{5, 5, 5}, tr.Position)
}
