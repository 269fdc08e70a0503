package courtside

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
)

// TransformComponent is the world-space pose.
type TransformComponent struct {
	Position mgl32.Vec3
	Rotation mgl32.Quat
	Scale    mgl32.Vec3
}

// LocalTransformComponent is the pose relative to Parent. Entities without a
// Parent keep it in sync with their TransformComponent.
type LocalTransformComponent struct {
	Position mgl32.Vec3
	Rotation mgl32.Quat
	Scale    mgl32.Vec3
}

type Parent struct {
	Entity EntityId
}

// NameComponent gives an entity a stable identity outside the ECS.
type NameComponent struct {
	ID   uuid.UUID
	Name string
}

// PickableComponent marks colliders that rays can hit.
type PickableComponent struct{}

func NewTransform(position mgl32.Vec3) TransformComponent {
	return TransformComponent{
		Position: position,
		Rotation: mgl32.QuatIdent(),
		Scale:    mgl32.Vec3{1, 1, 1},
	}
}

func NewLocalTransform(position mgl32.Vec3) LocalTransformComponent {
	return LocalTransformComponent{
		Position: position,
		Rotation: mgl32.QuatIdent(),
		Scale:    mgl32.Vec3{1, 1, 1},
	}
}
