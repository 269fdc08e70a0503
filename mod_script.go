package courtside

// ScriptStep is one beat of a scripted session. Its actions run on the frame
// the step starts; the step then lasts Frames frames, or until Until reports
// true when it is set.
type ScriptStep struct {
	Note string

	Press   []int
	Release []int
	// AimAt turns the camera toward the entity with this name.
	AimAt string
	Do    func(cmd *Commands)

	Frames  int
	Until   func(cmd *Commands) bool
	Timeout int
}

const defaultScriptTimeout = 600

// ScriptRunner is the progress of a scripted session.
type ScriptRunner struct {
	Steps []ScriptStep

	Done     bool
	TimedOut []string

	index   int
	started bool
	frames  int
}

// Current is the index of the running step.
func (s *ScriptRunner) Current() int {
	return s.index
}

// ScriptedInputModule drives Input from a fixed list of steps instead of a
// window. With ExitWhenDone the app exits after the last step.
type ScriptedInputModule struct {
	Steps        []ScriptStep
	ExitWhenDone bool
}

func (m ScriptedInputModule) Install(app *App, cmd *Commands) {
	cmd.AddResources(&ScriptRunner{Steps: m.Steps})
	app.UseStage(InputStage, AfterStage(Prelude))

	exit := m.ExitWhenDone
	app.UseSystem(
		System(func(runner *ScriptRunner, input *Input, cmd *Commands) {
			runScript(runner, input, cmd, exit)
		}).
			InStage(InputStage).
			RunAlways(),
	)
}

func runScript(runner *ScriptRunner, input *Input, cmd *Commands, exitWhenDone bool) {
	if runner.Done {
		return
	}

	if runner.started {
		// Script time stands still while models are streaming in.
		if server, ok := Resource[AssetServer](cmd.app); ok && server.Pending() > 0 {
			return
		}
		step := &runner.Steps[runner.index]
		runner.frames++
		if !stepFinished(runner, step, cmd) {
			return
		}
		runner.index++
		runner.started = false
	}

	if runner.index >= len(runner.Steps) {
		runner.Done = true
		cmd.Logger().Infof("script: finished %d steps", len(runner.Steps))
		if exitWhenDone {
			cmd.Exit()
		}
		return
	}

	step := &runner.Steps[runner.index]
	if step.Note != "" {
		cmd.Logger().Infof("script: %s", step.Note)
	}
	for _, key := range step.Release {
		input.Release(key)
	}
	for _, key := range step.Press {
		input.Press(key)
	}
	if step.AimAt != "" {
		aimCamera(cmd, step.AimAt)
	}
	if step.Do != nil {
		step.Do(cmd)
	}
	runner.started = true
	runner.frames = 0
}

func stepFinished(runner *ScriptRunner, step *ScriptStep, cmd *Commands) bool {
	if step.Until == nil {
		return runner.frames >= max(step.Frames, 1)
	}
	if step.Until(cmd) {
		return true
	}
	timeout := step.Timeout
	if timeout <= 0 {
		timeout = defaultScriptTimeout
	}
	if runner.frames >= timeout {
		cmd.Logger().Warnf("script: step %d (%s) timed out after %d frames", runner.index, step.Note, runner.frames)
		runner.TimedOut = append(runner.TimedOut, step.Note)
		return true
	}
	return false
}

// FindByName returns the first entity whose NameComponent has this name.
func FindByName(cmd *Commands, name string) (EntityId, bool) {
	var found EntityId
	MakeQuery1[NameComponent](cmd).Map(func(eid EntityId, n *NameComponent) bool {
		if n.Name == name {
			found = eid
			return false
		}
		return true
	})
	return found, found != 0
}

func aimCamera(cmd *Commands, name string) {
	target, ok := FindByName(cmd, name)
	if !ok {
		cmd.Logger().Warnf("script: nothing named %q to aim at", name)
		return
	}
	targetTr, ok := GetComponent[TransformComponent](cmd, target)
	if !ok {
		return
	}
	at := targetTr.Position

	MakeQuery2[TransformComponent, CameraComponent](cmd).Map(func(eid EntityId, tr *TransformComponent, cam *CameraComponent) bool {
		cam.LookAt(tr.Position, at)
		tr.Rotation = cam.Rotation()
		return false
	})
}

// Settled reports whether the named entity has a body that is asleep.
func Settled(name string) func(cmd *Commands) bool {
	return func(cmd *Commands) bool {
		eid, ok := FindByName(cmd, name)
		if !ok {
			return false
		}
		rb, ok := GetComponent[RigidBodyComponent](cmd, eid)
		return ok && rb.Sleeping
	}
}

// Below reports whether the named entity is under height y.
func Below(name string, y float32) func(cmd *Commands) bool {
	return func(cmd *Commands) bool {
		eid, ok := FindByName(cmd, name)
		if !ok {
			return false
		}
		tr, ok := GetComponent[TransformComponent](cmd, eid)
		return ok && tr.Position.Y() < y
	}
}

// Distance between two named entities, or -1 when either is missing.
func Distance(cmd *Commands, a, b string) float32 {
	ea, okA := FindByName(cmd, a)
	eb, okB := FindByName(cmd, b)
	if !okA || !okB {
		return -1
	}
	ta, _ := GetComponent[TransformComponent](cmd, ea)
	tb, _ := GetComponent[TransformComponent](cmd, eb)
	if ta == nil || tb == nil {
		return -1
	}
	return ta.Position.Sub(tb.Position).Len()
}
