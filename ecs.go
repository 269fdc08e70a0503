package courtside

import (
	"fmt"
	"reflect"
	"slices"
	"sync"
)

type EntityId uint64

type set[T comparable] map[T]struct{}

// Ecs keeps one store per component type. Rows hold a *T so that pointers
// handed out by queries stay valid until the component is removed.
type Ecs struct {
	stores   map[reflect.Type]*componentStore
	entities set[EntityId]

	idGeneratorLock sync.Mutex
	entityIdCounter EntityId
}

type componentStore struct {
	typ  reflect.Type
	rows map[EntityId]any
}

func MakeEcs() Ecs {
	return Ecs{
		stores:   make(map[reflect.Type]*componentStore),
		entities: make(set[EntityId]),
		// 0 is never handed out so a zero EntityId means "no entity".
		entityIdCounter: 1,
	}
}

func (ecs *Ecs) addEntity(components ...any) EntityId {
	return ecs.insertEntity(ecs.nextEntityId(), components...)
}

func (ecs *Ecs) insertEntity(entityId EntityId, components ...any) EntityId {
	ecs.entities[entityId] = struct{}{}
	for _, component := range components {
		ecs.writeComponent(entityId, component)
	}
	return entityId
}

func (ecs *Ecs) removeEntity(entityId EntityId) {
	for _, store := range ecs.stores {
		delete(store.rows, entityId)
	}
	delete(ecs.entities, entityId)
}

func (ecs *Ecs) hasEntity(entityId EntityId) bool {
	_, ok := ecs.entities[entityId]
	return ok
}

func (ecs *Ecs) addComponents(entityId EntityId, components ...any) {
	if !ecs.hasEntity(entityId) {
		return
	}
	for _, component := range components {
		ecs.writeComponent(entityId, component)
	}
}

func (ecs *Ecs) removeComponents(entityId EntityId, components ...any) {
	for _, c := range components {
		if store, ok := ecs.stores[componentType(c)]; ok {
			delete(store.rows, entityId)
		}
	}
}

// writeComponent stores a private copy of component. Both values and
// pointers to structs are accepted; an existing component of the same type is
// overwritten.
func (ecs *Ecs) writeComponent(entityId EntityId, component any) {
	t := componentType(component)

	value := reflect.ValueOf(component)
	if value.Kind() == reflect.Pointer {
		value = value.Elem()
	}
	row := reflect.New(t)
	row.Elem().Set(value)

	ecs.store(t).rows[entityId] = row.Interface()
}

func (ecs *Ecs) store(t reflect.Type) *componentStore {
	if s, ok := ecs.stores[t]; ok {
		return s
	}
	s := &componentStore{typ: t, rows: make(map[EntityId]any)}
	ecs.stores[t] = s
	return s
}

func (ecs *Ecs) component(entityId EntityId, t reflect.Type) (any, bool) {
	s, ok := ecs.stores[t]
	if !ok {
		return nil, false
	}
	row, ok := s.rows[entityId]
	return row, ok
}

// match returns, in ascending order, the entities that carry every type in
// required and none of the types in without. Types listed in optional are
// dropped from required.
func (ecs *Ecs) match(required []reflect.Type, optional, without set[reflect.Type]) []EntityId {
	var must []*componentStore
	for _, t := range required {
		if _, ok := optional[t]; ok {
			continue
		}
		s, ok := ecs.stores[t]
		if !ok || len(s.rows) == 0 {
			return nil
		}
		must = append(must, s)
	}

	var candidates []EntityId
	if len(must) == 0 {
		candidates = make([]EntityId, 0, len(ecs.entities))
		for eid := range ecs.entities {
			candidates = append(candidates, eid)
		}
	} else {
		smallest := must[0]
		for _, s := range must[1:] {
			if len(s.rows) < len(smallest.rows) {
				smallest = s
			}
		}
		candidates = make([]EntityId, 0, len(smallest.rows))
		for eid := range smallest.rows {
			candidates = append(candidates, eid)
		}
	}

	res := candidates[:0]
Candidates:
	for _, eid := range candidates {
		for _, s := range must {
			if _, ok := s.rows[eid]; !ok {
				continue Candidates
			}
		}
		for t := range without {
			if _, ok := ecs.component(eid, t); ok {
				continue Candidates
			}
		}
		res = append(res, eid)
	}
	slices.Sort(res)
	return res
}

func (ecs *Ecs) nextEntityId() EntityId {
	ecs.idGeneratorLock.Lock()
	defer ecs.idGeneratorLock.Unlock()

	id := ecs.entityIdCounter
	ecs.entityIdCounter += 1

	return id
}

func componentType(component any) reflect.Type {
	t := reflect.TypeOf(component)
	if t == nil {
		panic("component is nil")
	}
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		panic(fmt.Errorf("expected component to be a struct or a pointer to a struct, got %s", t.Kind()))
	}
	return t
}

func typeSet(components ...any) set[reflect.Type] {
	res := make(set[reflect.Type], len(components))
	for _, c := range components {
		res[componentType(c)] = struct{}{}
	}
	return res
}

func typeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}
