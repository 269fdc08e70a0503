package courtside

import (
	"fmt"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type MockResource1 struct {
	name string
}
type MockResource2 struct {
	name string
}

func NewMockResource1(name string) *MockResource1 {
	return &MockResource1{name: name}
}
func NewMockResource2(name string) *MockResource2 {
	return &MockResource2{name: name}
}

type trace struct {
	calls []string
}

func (tr *trace) add(s string) { tr.calls = append(tr.calls, s) }

func TestApp_changeState(t *testing.T) {
	app := &App{
		stateful:     true,
		initialState: 1,
		state:        1,
		finalState:   2,
	}

	app.changeState(2)
	assert.Equal(t, State(2), app.nextState)
	assert.True(t, app.stateTransitioning)

	app.executeChangeState(2)
	assert.Equal(t, State(2), app.state)
}

func TestApp_addResources(t *testing.T) {
	app := &App{
		resources: make(map[reflect.Type]any),
	}

	resource1 := NewMockResource1("Resource1")
	app.addResources(resource1)
	assert.Contains(t, app.resources, reflect.TypeOf(resource1).Elem())

	require.PanicsWithValue(t, fmt.Sprintf("%s is already in resources", reflect.TypeOf(resource1)), func() {
		app.addResources(resource1)
	})

	resource2 := NewMockResource2("Resource2")
	app.addResources(resource2)
	assert.Contains(t, app.resources, reflect.TypeOf(resource2).Elem())

	got, ok := Resource[MockResource2](app)
	require.True(t, ok)
	assert.Same(t, resource2, got)

	assert.Panics(t, func() { app.addResources(MockResource1{}) }, "resources must be pointers")
}

func TestApp_StagesRunInOrder(t *testing.T) {
	tr := &trace{}
	late := Stage{Name: "Late"}
	early := Stage{Name: "Early"}

	app := NewAppBuilder().Build()
	app.addResources(tr)
	app.UseStage(late, AfterStage(Finale))
	app.UseStage(early, BeforeStage(Prelude))
	app.UseStage(early, AfterStage(Update)) // already there, ignored

	app.UseSystem(System(func(tr *trace) { tr.add("late") }).InStage(late))
	app.UseSystem(System(func(tr *trace) { tr.add("update") }).InStage(Update))
	app.UseSystem(System(func(tr *trace) { tr.add("early") }).InStage(early))

	require.True(t, app.Step())
	assert.Equal(t, []string{"early", "update", "late"}, tr.calls)
	assert.Equal(t, uint64(1), app.Frame())
}

func TestApp_CommandsFlushAtStageEnd(t *testing.T) {
	type marker struct{}
	var seenInUpdate, seenInPostUpdate int

	app := NewAppBuilder().Build()
	app.UseSystem(System(func(cmd *Commands) {
		cmd.AddEntity(marker{})
		seenInUpdate = MakeQuery1[marker](cmd).Count()
	}).InStage(Update))
	app.UseSystem(System(func(cmd *Commands) {
		seenInPostUpdate = MakeQuery1[marker](cmd).Count()
	}).InStage(PostUpdate))

	app.Step()
	assert.Equal(t, 0, seenInUpdate)
	assert.Equal(t, 1, seenInPostUpdate)
}

func TestApp_QueuedOpsApplyInOrder(t *testing.T) {
	type tag struct{ n int }

	app := NewAppBuilder().Build()
	cmd := app.Commands()
	eid := cmd.AddEntity(tag{n: 1})
	cmd.AddComponents(eid, tag{n: 2})
	cmd.RemoveComponents(eid, tag{})
	cmd.AddComponents(eid, tag{n: 3})
	app.FlushCommands()

	got, ok := GetComponent[tag](cmd, eid)
	require.True(t, ok)
	assert.Equal(t, 3, got.n)

	cmd.RemoveEntity(eid)
	app.FlushCommands()
	assert.False(t, cmd.HasEntity(eid))
}

func TestApp_StatefulLifecycle(t *testing.T) {
	const (
		stateA State = iota
		stateB
		stateDone
	)
	tr := &trace{}

	app := NewAppBuilder().UseStates(stateA, stateDone).Build()
	app.addResources(tr)

	app.UseSystem(System(func(tr *trace) { tr.add("enter A") }).InState(OnEnter(stateA)))
	app.UseSystem(System(func(tr *trace, cmd *Commands) {
		tr.add("exec A")
		cmd.ChangeState(stateB)
	}).InState(OnExecute(stateA)))
	app.UseSystem(System(func(tr *trace) { tr.add("exit A") }).InState(OnExit(stateA)))
	app.UseSystem(System(func(tr *trace) { tr.add("enter B") }).InState(OnEnter(stateB)))
	app.UseSystem(System(func(tr *trace, cmd *Commands) {
		tr.add("exec B")
		cmd.Exit()
	}).InState(OnExecute(stateB)))
	app.UseSystem(System(func(tr *trace) { tr.add("exit done") }).InState(OnExit(stateDone)))

	app.Run()

	assert.Equal(t, []string{
		"enter A", "exec A", "exit A", "enter B", "exec B", "exit done",
	}, tr.calls)
	assert.Equal(t, stateDone, app.State())
	assert.False(t, app.Step(), "a finished app does not step")
}

func TestApp_StatelessExit(t *testing.T) {
	frames := 0
	app := NewAppBuilder().Build()
	app.UseSystem(System(func(cmd *Commands) {
		frames++
		if frames == 3 {
			cmd.Exit()
		}
	}).RunAlways())

	app.Run()
	assert.Equal(t, 3, frames)
}

func TestApp_UnresolvedDependencyPanics(t *testing.T) {
	app := NewAppBuilder().Build()
	app.UseSystem(System(func(*MockResource1) {}))

	assert.Panics(t, func() { app.Step() })
}

func TestApp_StatefulSystemInStatelessAppPanics(t *testing.T) {
	app := NewAppBuilder().Build()
	assert.Panics(t, func() {
		app.UseSystem(System(func() {}).InState(OnEnter(0)))
	})
}
