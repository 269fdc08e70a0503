package courtside

import (
	"reflect"
)

// Queries visit matching entities in ascending EntityId order. Types passed
// as optionals to Map may be missing; the callback then receives nil for them.
// Returning false from the callback stops the iteration.
type Query1[A any] struct {
	ecs     *Ecs
	without set[reflect.Type]
}
type Query2[A, B any] struct {
	ecs     *Ecs
	without set[reflect.Type]
}
type Query3[A, B, C any] struct {
	ecs     *Ecs
	without set[reflect.Type]
}

func MakeQuery1[A any](cmd *Commands) Query1[A]       { return Query1[A]{ecs: cmd.app.ecs} }
func MakeQuery2[A, B any](cmd *Commands) Query2[A, B] { return Query2[A, B]{ecs: cmd.app.ecs} }
func MakeQuery3[A, B, C any](cmd *Commands) Query3[A, B, C] {
	return Query3[A, B, C]{ecs: cmd.app.ecs}
}

// Without excludes entities carrying any of the given component types.
func (q Query1[A]) Without(components ...any) Query1[A] {
	q.without = typeSet(components...)
	return q
}

func (q Query2[A, B]) Without(components ...any) Query2[A, B] {
	q.without = typeSet(components...)
	return q
}

func (q Query3[A, B, C]) Without(components ...any) Query3[A, B, C] {
	q.without = typeSet(components...)
	return q
}

func (q Query1[A]) Map(m func(EntityId, *A) bool, optionals ...any) {
	ta := typeOf[A]()
	for _, eid := range q.ecs.match([]reflect.Type{ta}, typeSet(optionals...), q.without) {
		if !m(eid, row[A](q.ecs, eid, ta)) {
			return
		}
	}
}

func (q Query2[A, B]) Map(m func(EntityId, *A, *B) bool, optionals ...any) {
	ta, tb := typeOf[A](), typeOf[B]()
	for _, eid := range q.ecs.match([]reflect.Type{ta, tb}, typeSet(optionals...), q.without) {
		if !m(eid, row[A](q.ecs, eid, ta), row[B](q.ecs, eid, tb)) {
			return
		}
	}
}

func (q Query3[A, B, C]) Map(m func(EntityId, *A, *B, *C) bool, optionals ...any) {
	ta, tb, tc := typeOf[A](), typeOf[B](), typeOf[C]()
	for _, eid := range q.ecs.match([]reflect.Type{ta, tb, tc}, typeSet(optionals...), q.without) {
		if !m(eid, row[A](q.ecs, eid, ta), row[B](q.ecs, eid, tb), row[C](q.ecs, eid, tc)) {
			return
		}
	}
}

// Count returns the number of entities the query would visit.
func (q Query1[A]) Count() int {
	return len(q.ecs.match([]reflect.Type{typeOf[A]()}, nil, q.without))
}

func row[T any](ecs *Ecs, eid EntityId, t reflect.Type) *T {
	r, ok := ecs.component(eid, t)
	if !ok {
		return nil
	}
	return r.(*T)
}

// GetComponent returns a live pointer to the entity's T component.
func GetComponent[T any](cmd *Commands, eid EntityId) (*T, bool) {
	c := row[T](cmd.app.ecs, eid, typeOf[T]())
	return c, c != nil
}
