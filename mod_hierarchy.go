package courtside

import (
	"github.com/go-gl/mathgl/mgl32"
)

const maxHierarchyPasses = 8

type HierarchyModule struct{}

func (HierarchyModule) Install(app *App, cmd *Commands) {
	app.UseSystem(
		System(TransformHierarchySystem).
			InStage(PostUpdate).
			RunAlways(),
	)
}

func TransformHierarchySystem(cmd *Commands) {
	// Roots are authoritative in world space.
	MakeQuery2[LocalTransformComponent, TransformComponent](cmd).Without(Parent{}).Map(func(eid EntityId, local *LocalTransformComponent, tr *TransformComponent) bool {
		local.Position = tr.Position
		local.Rotation = tr.Rotation
		local.Scale = tr.Scale
		return true
	})

	// Deep hierarchies settle over several passes.
	for pass := 0; pass < maxHierarchyPasses; pass++ {
		changed := false
		MakeQuery3[LocalTransformComponent, Parent, TransformComponent](cmd).Map(func(eid EntityId, local *LocalTransformComponent, parent *Parent, world *TransformComponent) bool {
			parentWorld, ok := GetComponent[TransformComponent](cmd, parent.Entity)
			if !ok {
				return true
			}

			pos, rot, scale := composeTransform(parentWorld, local)
			if pos != world.Position || rot != world.Rotation || scale != world.Scale {
				world.Position = pos
				world.Rotation = rot
				world.Scale = scale
				changed = true
			}
			return true
		})
		if !changed {
			break
		}
	}
}

// composeTransform applies local under parent. Scale is componentwise so
// reflections survive.
func composeTransform(parent *TransformComponent, local *LocalTransformComponent) (mgl32.Vec3, mgl32.Quat, mgl32.Vec3) {
	scaledLocalPos := mgl32.Vec3{
		local.Position.X() * parent.Scale.X(),
		local.Position.Y() * parent.Scale.Y(),
		local.Position.Z() * parent.Scale.Z(),
	}
	pos := parent.Position.Add(parent.Rotation.Rotate(scaledLocalPos))
	rot := parent.Rotation.Mul(local.Rotation).Normalize()
	scale := mgl32.Vec3{
		parent.Scale.X() * local.Scale.X(),
		parent.Scale.Y() * local.Scale.Y(),
		parent.Scale.Z() * local.Scale.Z(),
	}
	return pos, rot, scale
}
