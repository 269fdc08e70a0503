package courtside

import (
	"github.com/gekko3d/courtside/interact"
)

// GazeStage runs after PostUpdate, once physics and the hierarchy have
// settled every pose for the frame.
var GazeStage = Stage{Name: "Gaze"}

type Transition struct {
	Frame    uint64
	From, To interact.State
}

// GrabState wires the interaction controller to the ECS.
type GrabState struct {
	Controller *interact.Controller
	World      *EcsWorld
	Ball       EntityId

	PrimaryKey   int
	SecondaryKey int

	Transitions []Transition

	tuning chan interact.Tuning
}

// Bind registers the grabbable entity and hands it to the controller. Later
// calls are ignored.
func (g *GrabState) Bind(eid EntityId, obj interact.Object) bool {
	if g.Controller.Ready() {
		return false
	}
	g.World.Register(obj.ID, eid)
	if !g.Controller.Bind(obj) {
		return false
	}
	g.Ball = eid
	return true
}

// PushTuning queues new tuning for the main thread. Safe from any goroutine;
// when the queue is full the update is dropped and false is returned.
func (g *GrabState) PushTuning(t interact.Tuning) bool {
	select {
	case g.tuning <- t:
		return true
	default:
		return false
	}
}

// GrabModule wires the interaction controller into the frame. It needs
// AffordanceModule installed first.
type GrabModule struct {
	Tuning       interact.Tuning
	SecondaryKey int
}

func (m GrabModule) Install(app *App, cmd *Commands) {
	world := NewEcsWorld(app)
	world.MaxDistance = m.Tuning.MaxGazeDistance

	secondary := m.SecondaryKey
	if secondary == 0 {
		secondary = KeyR
	}

	g := &GrabState{
		Controller:   interact.NewController(world, m.Tuning, app.Logger()),
		World:        world,
		PrimaryKey:   MouseButtonLeft,
		SecondaryKey: secondary,
		tuning:       make(chan interact.Tuning, 4),
	}
	g.Controller.OnTransition(func(from, to interact.State) {
		app.Logger().Infof("grab: %s -> %s", from, to)
		g.Transitions = append(g.Transitions, Transition{Frame: app.Frame(), From: from, To: to})
	})
	cmd.AddResources(g)

	app.UseStage(GazeStage, AfterStage(PostUpdate))
	app.UseSystem(
		System(grabTuningSystem).
			InStage(PreUpdate).
			RunAlways(),
	)
	app.UseSystem(
		System(grabInputSystem).
			InStage(Update).
			RunAlways(),
	)
	app.UseSystem(
		System(grabGazeSystem).
			InStage(GazeStage).
			RunAlways(),
	)
}

func grabTuningSystem(g *GrabState, cmd *Commands) {
	for {
		select {
		case t := <-g.tuning:
			g.Controller.SetTuning(t)
			g.World.MaxDistance = t.MaxGazeDistance
			cmd.Logger().Infof("grab: tuning reloaded (mode %s, magnitude %.2f)", t.ThrowMode, t.ThrowMagnitude)
		default:
			return
		}
	}
}

func grabInputSystem(input *Input, g *GrabState) {
	if input.JustPressed[g.PrimaryKey] {
		g.Controller.OnPrimaryActionDown()
	}
	if input.JustPressed[g.SecondaryKey] {
		g.Controller.OnSecondaryActionDown()
	}
	if input.JustReleased[g.SecondaryKey] {
		g.Controller.OnSecondaryActionUp()
	}
}

func grabGazeSystem(g *GrabState) {
	g.Controller.OnGazeTick()
}
