package courtside

import (
	"reflect"
	"time"

	"github.com/go-gl/mathgl/mgl32"
)

const frame = time.Second / 60

func newTestCommands() *Commands {
	ecs := MakeEcs()
	return &Commands{app: &App{ecs: &ecs, resources: make(map[reflect.Type]any)}}
}

func spawn(cmd *Commands, components ...any) EntityId {
	eid := cmd.AddEntity(components...)
	cmd.app.FlushCommands()
	return eid
}

func staticBox(pos, half mgl32.Vec3) []any {
	return []any{
		NewTransform(pos),
		ColliderComponent{Shape: ShapeBox, HalfExtents: half},
		RigidBodyComponent{IsStatic: true},
	}
}

func vecInDelta(a, b mgl32.Vec3, delta float32) bool {
	return a.Sub(b).Len() <= delta
}
