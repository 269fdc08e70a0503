package courtside

import (
	"reflect"
	"sort"
)

// Commands is handed to every system. Structural changes (entities and
// components) are buffered and applied, in the order they were issued, when
// the current stage ends.
type Commands struct {
	app *App
}

type opKind int

const (
	opAddEntity opKind = iota
	opRemoveEntity
	opAddComponents
	opRemoveComponents
)

type pendingOp struct {
	kind       opKind
	eid        EntityId
	components []any
}

func (cmd *Commands) ChangeState(newState State) *Commands {
	cmd.app.changeState(newState)
	return cmd
}

// Exit asks the app to stop after the current frame.
func (cmd *Commands) Exit() {
	cmd.app.requestExit()
}

func (cmd *Commands) AddResources(resources ...any) *Commands {
	cmd.app.addResources(resources...)
	return cmd
}

func (cmd *Commands) Logger() Logger {
	return cmd.app.Logger()
}

// AddEntity reserves an id now; the entity becomes visible to queries after
// the flush.
func (cmd *Commands) AddEntity(components ...any) EntityId {
	eid := cmd.app.ecs.nextEntityId()
	cmd.app.pending = append(cmd.app.pending, pendingOp{kind: opAddEntity, eid: eid, components: components})
	return eid
}

func (cmd *Commands) AddComponents(entityId EntityId, components ...any) {
	cmd.app.pending = append(cmd.app.pending, pendingOp{kind: opAddComponents, eid: entityId, components: components})
}

func (cmd *Commands) RemoveComponents(entityId EntityId, components ...any) {
	cmd.app.pending = append(cmd.app.pending, pendingOp{kind: opRemoveComponents, eid: entityId, components: components})
}

func (cmd *Commands) RemoveEntity(entityId EntityId) {
	cmd.app.pending = append(cmd.app.pending, pendingOp{kind: opRemoveEntity, eid: entityId})
}

func (cmd *Commands) HasEntity(entityId EntityId) bool {
	return cmd.app.ecs.hasEntity(entityId)
}

// GetAllComponents returns copies of the entity's components ordered by type
// name.
func (cmd *Commands) GetAllComponents(entityId EntityId) []any {
	ecs := cmd.app.ecs

	var types []reflect.Type
	for t, s := range ecs.stores {
		if _, ok := s.rows[entityId]; ok {
			types = append(types, t)
		}
	}
	sort.Slice(types, func(i, j int) bool { return types[i].String() < types[j].String() })

	res := make([]any, 0, len(types))
	for _, t := range types {
		r, _ := ecs.component(entityId, t)
		res = append(res, reflect.ValueOf(r).Elem().Interface())
	}
	return res
}
