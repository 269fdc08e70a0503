package interact

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// fakeWorld is a recording World. Rays hit whatever is configured in hits,
// nearest first, so tests can stage occluders in front of the object.
type fakeWorld struct {
	viewerPos mgl32.Vec3
	viewerFwd mgl32.Vec3

	hits []Hit
	rays int

	parent     map[ObjectID]Frame
	offset     map[ObjectID]mgl32.Vec3
	suspended  map[ObjectID]bool
	body       map[ObjectID]BodyParams
	position   map[ObjectID]mgl32.Vec3
	forces     []mgl32.Vec3
	impulses   []mgl32.Vec3
	points     []mgl32.Vec3
	affordance bool

	calls []string
}

func newFakeWorld() *fakeWorld {
	return &fakeWorld{
		viewerFwd: mgl32.Vec3{0, 0, 1},
		parent:    make(map[ObjectID]Frame),
		offset:    make(map[ObjectID]mgl32.Vec3),
		suspended: make(map[ObjectID]bool),
		body:      make(map[ObjectID]BodyParams),
		position:  make(map[ObjectID]mgl32.Vec3),
	}
}

func (w *fakeWorld) CastRay(origin, direction mgl32.Vec3) (Hit, bool) {
	w.rays++
	var best Hit
	found := false
	for _, h := range w.hits {
		if !found || h.Distance < best.Distance {
			best = h
			found = true
		}
	}
	return best, found
}

func (w *fakeWorld) ViewerPose() (mgl32.Vec3, mgl32.Vec3) {
	return w.viewerPos, w.viewerFwd
}

func (w *fakeWorld) SetParent(id ObjectID, parent Frame) {
	w.parent[id] = parent
	w.calls = append(w.calls, fmt.Sprintf("SetParent(%s)", parent))
}

func (w *fakeWorld) SetLocalOffset(id ObjectID, offset mgl32.Vec3) {
	w.offset[id] = offset
	w.calls = append(w.calls, "SetLocalOffset")
}

func (w *fakeWorld) SuspendPhysics(id ObjectID) {
	w.suspended[id] = true
	w.calls = append(w.calls, "SuspendPhysics")
}

func (w *fakeWorld) ResumePhysics(id ObjectID, body BodyParams) {
	w.suspended[id] = false
	w.body[id] = body
	w.calls = append(w.calls, "ResumePhysics")
}

func (w *fakeWorld) ApplyForce(id ObjectID, force, point mgl32.Vec3) {
	w.forces = append(w.forces, force)
	w.points = append(w.points, point)
	w.calls = append(w.calls, "ApplyForce")
}

func (w *fakeWorld) ApplyImpulse(id ObjectID, impulse, point mgl32.Vec3) {
	w.impulses = append(w.impulses, impulse)
	w.points = append(w.points, point)
	w.calls = append(w.calls, "ApplyImpulse")
}

func (w *fakeWorld) ObjectPosition(id ObjectID) (mgl32.Vec3, bool) {
	p, ok := w.position[id]
	return p, ok
}

func (w *fakeWorld) SetAffordanceVisible(visible bool) {
	w.affordance = visible
	w.calls = append(w.calls, fmt.Sprintf("SetAffordanceVisible(%t)", visible))
}

func (w *fakeWorld) count(call string) int {
	n := 0
	for _, c := range w.calls {
		if c == call {
			n++
		}
	}
	return n
}
