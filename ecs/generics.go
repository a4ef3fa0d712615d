package ecs

import "github.com/milk9111/topdown/ecs/component"

// Add attaches a component to an entity, replacing any existing value.
func Add[T any](w *World, e Entity, handle component.ComponentHandle[T], value *T) error {
	if w == nil || value == nil {
		return component.ErrNilComponent
	}
	if !w.IsAlive(e) {
		return component.ErrEntityNotAlive
	}
	w.store(handle.ID()).Set(int(e.id()), value)
	return nil
}

// Remove detaches a component from an entity.
func Remove[T any](w *World, e Entity, handle component.ComponentHandle[T]) bool {
	if w == nil {
		return false
	}
	return w.store(handle.ID()).Remove(int(e.id()))
}

// Has reports whether an entity carries a component.
func Has[T any](w *World, e Entity, handle component.ComponentHandle[T]) bool {
	if w == nil {
		return false
	}
	return w.IsAlive(e) && w.store(handle.ID()).Has(int(e.id()))
}

// Get returns a pointer to the entity's component for in-place mutation.
func Get[T any](w *World, e Entity, handle component.ComponentHandle[T]) (*T, bool) {
	if w == nil || !w.IsAlive(e) {
		return nil, false
	}
	v := w.store(handle.ID()).Get(int(e.id()))
	if v == nil {
		return nil, false
	}
	cast, ok := v.(*T)
	return cast, ok
}

// ForEach visits every entity carrying the component.
func ForEach[T any](w *World, handle component.ComponentHandle[T], fn func(e Entity, c *T)) {
	if w == nil || fn == nil {
		return
	}
	s := w.store(handle.ID())
	ids := append([]int(nil), s.Entities()...)
	for _, id := range ids {
		v := s.Get(id)
		if v == nil {
			continue
		}
		c, ok := v.(*T)
		if !ok {
			continue
		}
		e := makeEntity(entityID(id), w.entities.gen[id-1])
		fn(e, c)
	}
}

// ForEach2 visits every entity carrying both components.
func ForEach2[A, B any](w *World, ha component.ComponentHandle[A], hb component.ComponentHandle[B], fn func(e Entity, a *A, b *B)) {
	if w == nil || fn == nil {
		return
	}
	sa := w.store(ha.ID())
	sb := w.store(hb.ID())
	for _, id := range IntersectEntities(sa, sb) {
		a, okA := sa.Get(id).(*A)
		b, okB := sb.Get(id).(*B)
		if !okA || !okB {
			continue
		}
		e := makeEntity(entityID(id), w.entities.gen[id-1])
		fn(e, a, b)
	}
}

// Query returns all entities carrying every listed component.
func (w *World) Query(ids ...component.ComponentID) []Entity {
	if w == nil || len(ids) == 0 {
		return nil
	}
	first := w.store(ids[0])
	out := make([]Entity, 0, first.Len())
outer:
	for _, id := range first.Entities() {
		for _, cid := range ids[1:] {
			if !w.store(cid).Has(id) {
				continue outer
			}
		}
		out = append(out, makeEntity(entityID(id), w.entities.gen[id-1]))
	}
	return out
}
