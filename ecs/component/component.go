package component

import (
	"errors"
	"sync/atomic"
)

var (
	ErrEntityNotAlive = errors.New("ecs: entity not alive")
	ErrNilComponent   = errors.New("ecs: component is nil")
)

type ComponentID uint32

var nextComponentID atomic.Uint32

// ComponentHandle is a typed registration token: one per component type,
// created at package init and passed to the generic world accessors.
type ComponentHandle[T any] struct {
	id ComponentID
}

func NewComponent[T any]() ComponentHandle[T] {
	return ComponentHandle[T]{id: ComponentID(nextComponentID.Add(1))}
}

func (h ComponentHandle[T]) ID() ComponentID {
	return h.id
}
