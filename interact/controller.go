package interact

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
)

// Controller is the acquisition and release state machine for one
// grabbable object and one viewer. It is driven from the simulation thread
// and holds no locks.
type Controller struct {
	world  World
	gaze   GazeDetector
	tuning Tuning
	log    Logger

	obj   *Object
	state State

	affordance bool
	// The throw armed by the last secondary press. A reload mid-charge does
	// not change it.
	throwForce mgl32.Vec3
	throwMode  ThrowMode

	observers []func(from, to State)
}

func NewController(world World, tuning Tuning, log Logger) *Controller {
	if log == nil {
		log = nopLogger{}
	}
	return &Controller{
		world:  world,
		gaze:   GazeDetector{World: world, MaxDistance: tuning.MaxGazeDistance},
		tuning: tuning,
		log:    log,
		state:  Free,
	}
}

// Bind hands the controller its object once loading has finished. Only the
// first call takes effect.
func (c *Controller) Bind(obj Object) bool {
	if c.obj != nil {
		c.log.Debugf("interact: %s already bound, ignoring %s", c.obj.Name, obj.Name)
		return false
	}
	if obj.ID == uuid.Nil {
		c.log.Debugf("interact: refusing to bind %q without an id", obj.Name)
		return false
	}
	c.obj = &obj
	c.log.Infof("interact: bound %s (%s)", obj.Name, obj.ID)
	return true
}

func (c *Controller) Ready() bool { return c.obj != nil }

func (c *Controller) Object() (Object, bool) {
	if c.obj == nil {
		return Object{}, false
	}
	return *c.obj, true
}

func (c *Controller) State() State { return c.state }

func (c *Controller) Tuning() Tuning { return c.tuning }

// SetTuning swaps the tuning. A hold or charge in progress keeps running with
// the values it started with, except for the gaze range.
func (c *Controller) SetTuning(t Tuning) {
	c.tuning = t
	c.gaze.MaxDistance = t.MaxGazeDistance
}

// OnTransition registers fn to run after every state change.
func (c *Controller) OnTransition(fn func(from, to State)) {
	c.observers = append(c.observers, fn)
}

// OnGazeTick runs once per frame after viewer and object poses are final.
func (c *Controller) OnGazeTick() {
	if !c.ready("gaze tick") {
		return
	}

	switch c.state {
	case Free, Targeted:
		pos, fwd := c.world.ViewerPose()
		targeted := c.gaze.IsTargeted(pos, fwd, c.obj)
		if targeted && c.state == Free {
			c.setAffordance(true)
			c.transition(Targeted)
		} else if !targeted && c.state == Targeted {
			c.setAffordance(false)
			c.transition(Free)
		}
	case Charging:
		if c.throwMode == ThrowForce {
			c.push(c.throwForce, c.world.ApplyForce)
		}
	}
}

// OnPrimaryActionDown grabs the object if it is currently targeted.
func (c *Controller) OnPrimaryActionDown() {
	if !c.ready("primary action") || c.state != Targeted {
		return
	}

	c.setAffordance(false)
	c.world.SuspendPhysics(c.obj.ID)
	c.world.SetLocalOffset(c.obj.ID, c.tuning.HoldOffset)
	c.world.SetParent(c.obj.ID, ViewerFrame)
	c.transition(Held)
}

// OnSecondaryActionDown releases a held object and starts the throw.
func (c *Controller) OnSecondaryActionDown() {
	if !c.ready("secondary action down") || c.state != Held {
		return
	}

	c.world.SetParent(c.obj.ID, NoFrame)
	c.world.ResumePhysics(c.obj.ID, c.tuning.Body)

	_, fwd := c.world.ViewerPose()
	throw := c.tuning.ThrowVector(fwd)
	c.throwMode = c.tuning.ThrowMode
	switch c.throwMode {
	case ThrowImpulse:
		c.push(throw, c.world.ApplyImpulse)
		c.throwForce = mgl32.Vec3{}
	default:
		// Gaze ticks push the force, starting with this frame's.
		c.throwForce = throw
	}
	c.transition(Charging)
}

// OnSecondaryActionUp ends the throw; the object is left to the simulation.
func (c *Controller) OnSecondaryActionUp() {
	if !c.ready("secondary action up") || c.state != Charging {
		return
	}

	c.throwForce = mgl32.Vec3{}
	c.transition(Free)
}

func (c *Controller) ready(op string) bool {
	if c.obj == nil {
		c.log.Debugf("interact: %s ignored, object not ready", op)
		return false
	}
	return true
}

func (c *Controller) push(v mgl32.Vec3, apply func(ObjectID, mgl32.Vec3, mgl32.Vec3)) {
	if v.Len() == 0 {
		return
	}
	point, ok := c.world.ObjectPosition(c.obj.ID)
	if !ok {
		return
	}
	apply(c.obj.ID, v, point)
}

func (c *Controller) setAffordance(visible bool) {
	if c.affordance == visible {
		return
	}
	c.affordance = visible
	c.world.SetAffordanceVisible(visible)
}

func (c *Controller) transition(to State) {
	from := c.state
	c.state = to
	c.log.Debugf("interact: %s -> %s", from, to)
	for _, fn := range c.observers {
		fn(from, to)
	}
}
