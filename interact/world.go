// Package interact holds the gaze-gated grab and throw logic for a single
// grabbable object. It never touches the engine directly: every query and
// mutation goes through the World port, which the scene bootstrap provides.
package interact

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
)

// ObjectID is the stable identity of a scene object as seen by the ray caster.
type ObjectID = uuid.UUID

// Object is a non-owning reference to the grabbable object.
type Object struct {
	ID   ObjectID
	Name string
}

// Hit is the nearest intersection reported by World.CastRay. Geometry that has
// no identity reports uuid.Nil.
type Hit struct {
	Object   ObjectID
	Distance float32
}

// Frame selects the pose source an object is attached to.
type Frame int

const (
	NoFrame Frame = iota
	ViewerFrame
)

func (f Frame) String() string {
	switch f {
	case NoFrame:
		return "none"
	case ViewerFrame:
		return "viewer"
	}
	return "unknown"
}

// BodyParams are the rigid-body settings used when a suspended body is put
// back into simulation.
type BodyParams struct {
	Mass        float32
	Restitution float32
	Friction    float32
}

// World is the engine surface the controller drives. Implementations run on
// the simulation thread; none of these calls may block.
type World interface {
	CastRay(origin, direction mgl32.Vec3) (Hit, bool)
	ViewerPose() (position, forward mgl32.Vec3)

	// SetParent and SetLocalOffset may be called in either order; an
	// attached object always sits at the latest offset.
	SetParent(id ObjectID, parent Frame)
	SetLocalOffset(id ObjectID, offset mgl32.Vec3)

	SuspendPhysics(id ObjectID)
	ResumePhysics(id ObjectID, body BodyParams)
	ApplyForce(id ObjectID, force, point mgl32.Vec3)
	ApplyImpulse(id ObjectID, impulse, point mgl32.Vec3)
	ObjectPosition(id ObjectID) (mgl32.Vec3, bool)

	SetAffordanceVisible(visible bool)
}

// Logger is the subset of the engine logger the controller uses.
type Logger interface {
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Debugf(string, ...any) {}
func (nopLogger) Infof(string, ...any)  {}
