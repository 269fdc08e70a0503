package courtside

import (
	"github.com/gekko3d/courtside/interact"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
)

// EcsWorld exposes the ECS to the interaction controller. The viewer is the
// first entity carrying a CameraComponent.
type EcsWorld struct {
	cmd        *Commands
	viewer     EntityId
	objects    map[interact.ObjectID]EntityId
	offsets    map[interact.ObjectID]mgl32.Vec3
	attached   map[interact.ObjectID]bool
	affordance *Affordance

	// MaxDistance limits CastRay. Zero means unlimited.
	MaxDistance float32
}

func NewEcsWorld(app *App) *EcsWorld {
	w := &EcsWorld{
		cmd:      app.Commands(),
		objects:  make(map[interact.ObjectID]EntityId),
		offsets:  make(map[interact.ObjectID]mgl32.Vec3),
		attached: make(map[interact.ObjectID]bool),
	}
	affordance, ok := Resource[Affordance](app)
	if !ok {
		panic("EcsWorld needs AffordanceModule installed first")
	}
	w.affordance = affordance
	return w
}

// Register maps an object id onto its entity.
func (w *EcsWorld) Register(id interact.ObjectID, eid EntityId) {
	w.objects[id] = eid
}

func (w *EcsWorld) entity(id interact.ObjectID) (EntityId, bool) {
	eid, ok := w.objects[id]
	return eid, ok
}

func (w *EcsWorld) viewerEntity() (EntityId, bool) {
	if w.viewer != 0 && w.cmd.HasEntity(w.viewer) {
		return w.viewer, true
	}
	w.viewer = 0
	MakeQuery2[TransformComponent, CameraComponent](w.cmd).Map(func(eid EntityId, _ *TransformComponent, _ *CameraComponent) bool {
		w.viewer = eid
		return false
	})
	return w.viewer, w.viewer != 0
}

func (w *EcsWorld) CastRay(origin, direction mgl32.Vec3) (interact.Hit, bool) {
	hit, ok := Raycast(w.cmd, origin, direction, w.MaxDistance)
	if !ok {
		return interact.Hit{}, false
	}
	res := interact.Hit{Object: uuid.Nil, Distance: hit.Distance}
	if name, ok := GetComponent[NameComponent](w.cmd, hit.Entity); ok {
		res.Object = name.ID
	}
	return res, true
}

func (w *EcsWorld) ViewerPose() (mgl32.Vec3, mgl32.Vec3) {
	eid, ok := w.viewerEntity()
	if !ok {
		return mgl32.Vec3{}, mgl32.Vec3{}
	}
	tr, _ := GetComponent[TransformComponent](w.cmd, eid)
	cam, _ := GetComponent[CameraComponent](w.cmd, eid)
	return tr.Position, cam.Forward()
}

// SetParent attaches the object to the viewer at the last offset given to
// SetLocalOffset, or detaches it keeping its current world pose. The pose is
// applied right away; the component change lands at the end of the stage.
func (w *EcsWorld) SetParent(id interact.ObjectID, parent interact.Frame) {
	eid, ok := w.entity(id)
	if !ok {
		return
	}

	switch parent {
	case interact.ViewerFrame:
		if w.attach(id, eid) {
			w.attached[id] = true
		}
	case interact.NoFrame:
		delete(w.attached, id)
		w.cmd.RemoveComponents(eid, Parent{}, LocalTransformComponent{})
	}
}

// SetLocalOffset sets where an attached object sits in the viewer frame. It
// may come before or after SetParent, in the same stage or later.
func (w *EcsWorld) SetLocalOffset(id interact.ObjectID, offset mgl32.Vec3) {
	w.offsets[id] = offset
	if !w.attached[id] {
		return
	}
	if eid, ok := w.entity(id); ok {
		w.attach(id, eid)
	}
}

// attach poses eid at its offset from the viewer and queues the parent link.
// A later attach in the same stage replaces the queued components.
func (w *EcsWorld) attach(id interact.ObjectID, eid EntityId) bool {
	viewer, ok := w.viewerEntity()
	if !ok {
		w.cmd.Logger().Warnf("world: no viewer to attach %s to", id)
		return false
	}
	tr, ok := GetComponent[TransformComponent](w.cmd, eid)
	if !ok {
		return false
	}
	local := NewLocalTransform(w.offsets[id])
	local.Scale = tr.Scale
	if existing, ok := GetComponent[LocalTransformComponent](w.cmd, eid); ok {
		existing.Position = local.Position
	}
	if viewerTr, ok := GetComponent[TransformComponent](w.cmd, viewer); ok {
		tr.Position, tr.Rotation, tr.Scale = composeTransform(viewerTr, &local)
	}
	w.cmd.AddComponents(eid, Parent{Entity: viewer}, local)
	return true
}

func (w *EcsWorld) body(id interact.ObjectID) (*RigidBodyComponent, bool) {
	eid, ok := w.entity(id)
	if !ok {
		return nil, false
	}
	return GetComponent[RigidBodyComponent](w.cmd, eid)
}

func (w *EcsWorld) SuspendPhysics(id interact.ObjectID) {
	if rb, ok := w.body(id); ok {
		rb.Suspend()
	}
}

func (w *EcsWorld) ResumePhysics(id interact.ObjectID, body interact.BodyParams) {
	eid, ok := w.entity(id)
	if !ok {
		return
	}
	if rb, ok := GetComponent[RigidBodyComponent](w.cmd, eid); ok {
		rb.Resume(body.Mass)
	}
	if col, ok := GetComponent[ColliderComponent](w.cmd, eid); ok {
		col.Restitution = body.Restitution
		col.Friction = body.Friction
	}
}

// ApplyForce and ApplyImpulse act on the center of mass; bodies carry no
// angular state, so the application point only matters to the caller.
func (w *EcsWorld) ApplyForce(id interact.ObjectID, force, point mgl32.Vec3) {
	if rb, ok := w.body(id); ok {
		rb.ApplyForce(force)
	}
}

func (w *EcsWorld) ApplyImpulse(id interact.ObjectID, impulse, point mgl32.Vec3) {
	if rb, ok := w.body(id); ok {
		rb.ApplyImpulse(impulse)
	}
}

func (w *EcsWorld) ObjectPosition(id interact.ObjectID) (mgl32.Vec3, bool) {
	eid, ok := w.entity(id)
	if !ok {
		return mgl32.Vec3{}, false
	}
	tr, ok := GetComponent[TransformComponent](w.cmd, eid)
	if !ok {
		return mgl32.Vec3{}, false
	}
	return tr.Position, true
}

func (w *EcsWorld) SetAffordanceVisible(visible bool) {
	if w.affordance.SetVisible(visible) {
		w.cmd.Logger().Debugf("world: affordance visible=%t", visible)
	}
}
