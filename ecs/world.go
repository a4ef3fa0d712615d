package ecs

import "github.com/milk9111/topdown/ecs/component"

// System updates a world each simulation tick.
type System interface {
	Update(w *World)
}

// World owns entities, components, the simulation clock, and system order.
type World struct {
	entities entityStore
	stores   map[component.ComponentID]*SparseSet
	systems  []System
	events   EventQueue
	alerts   []AlertRequest

	physicsWorld *PhysicsWorld

	tick int64
	dt   float64
}

// NewWorld creates an empty ECS world with a fixed tick duration in seconds.
func NewWorld(dt float64) *World {
	if dt <= 0 {
		dt = 1.0 / 60.0
	}
	return &World{
		stores: map[component.ComponentID]*SparseSet{},
		dt:     dt,
	}
}

// CreateEntity allocates a new entity.
func (w *World) CreateEntity() Entity {
	return w.entities.create()
}

// DestroyEntity invalidates an entity handle and drops its components.
func (w *World) DestroyEntity(e Entity) bool {
	if !w.entities.destroy(e) {
		return false
	}
	for _, s := range w.stores {
		s.Remove(int(e.id()))
	}
	if w.physicsWorld != nil {
		w.physicsWorld.RemoveBody(e)
	}
	return true
}

// IsAlive reports whether an entity handle is valid.
func (w *World) IsAlive(e Entity) bool {
	return w.entities.isAlive(e)
}

// AddSystem appends a system to the update order.
func (w *World) AddSystem(s System) {
	if s == nil {
		return
	}
	w.systems = append(w.systems, s)
}

// Update advances the clock by one tick and runs all systems once. Events
// pushed during a tick stay readable until the next Update begins.
func (w *World) Update() {
	if w == nil {
		return
	}
	w.events.flush()
	w.tick++
	for _, s := range w.systems {
		if s != nil {
			s.Update(w)
		}
	}
}

// Tick returns the current tick count.
func (w *World) Tick() int64 {
	return w.tick
}

// DT returns the fixed tick duration in seconds.
func (w *World) DT() float64 {
	return w.dt
}

// Now returns the current simulation time in seconds.
func (w *World) Now() float64 {
	return float64(w.tick) * w.dt
}

// Events returns the world event queue.
func (w *World) Events() *EventQueue {
	if w == nil {
		return nil
	}
	return &w.events
}

// SetPhysicsWorld attaches a physics world to this ECS world.
func (w *World) SetPhysicsWorld(pw *PhysicsWorld) {
	if w == nil {
		return
	}
	w.physicsWorld = pw
}

// PhysicsWorld returns the attached physics world, if any.
func (w *World) PhysicsWorld() *PhysicsWorld {
	if w == nil {
		return nil
	}
	return w.physicsWorld
}

func (w *World) store(id component.ComponentID) *SparseSet {
	s, ok := w.stores[id]
	if !ok {
		s = &SparseSet{}
		w.stores[id] = s
	}
	return s
}
