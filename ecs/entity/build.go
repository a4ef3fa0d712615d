package entity

import (
	"math"

	"github.com/milk9111/topdown/ecs"
	"github.com/milk9111/topdown/ecs/component"
	"github.com/milk9111/topdown/prefabs"
)

// BuildAgent spawns a behavior-driven agent from an archetype prefab at
// (x,y), which also becomes its home anchor. Agents with a non-empty route
// spawn patrolling; the rest spawn idle.
func BuildAgent(w *ecs.World, spec *prefabs.ArchetypeSpec, x, y float64, waypoints []component.Waypoint) ecs.Entity {
	e := w.CreateEntity()

	initial := component.StateIdle
	if len(waypoints) > 0 {
		initial = component.StatePatrol
		_ = ecs.Add(w, e, component.PatrolRouteComponent, &component.PatrolRoute{Waypoints: waypoints})
	}

	agent := spec.Agent()
	_ = ecs.Add(w, e, component.AgentTagComponent, &component.AgentTag{})
	_ = ecs.Add(w, e, component.AgentComponent, &agent)
	_ = ecs.Add(w, e, component.TransformComponent, &component.Transform{X: x, Y: y})
	_ = ecs.Add(w, e, component.AgentStateComponent, &component.AgentState{
		Current: initial,
		// fresh agents are never debounced
		LastTransition: math.Inf(-1),
		HomeX:          x,
		HomeY:          y,
		SpeedScale:     1,
	})

	percep := &component.Perception{}
	percep.Reset()
	_ = ecs.Add(w, e, component.PerceptionComponent, percep)

	_ = ecs.Add(w, e, component.RoutineComponent, &component.Routine{})
	_ = ecs.Add(w, e, component.MoveIntentComponent, &component.MoveIntent{})
	_ = ecs.Add(w, e, component.AttackStateComponent, component.NewAttackState())
	_ = ecs.Add(w, e, component.HealthComponent, component.NewHealth(spec.MaxHealth()))
	_ = ecs.Add(w, e, component.InterruptsComponent, &component.Interrupts{})

	if pw := w.PhysicsWorld(); pw != nil {
		pw.AddAgentBody(e, x, y)
	}

	return e
}

// BuildThreat spawns an entity agents perceive as hostile.
func BuildThreat(w *ecs.World, x, y, health float64) ecs.Entity {
	e := w.CreateEntity()
	_ = ecs.Add(w, e, component.ThreatTagComponent, &component.ThreatTag{})
	_ = ecs.Add(w, e, component.TransformComponent, &component.Transform{X: x, Y: y})
	_ = ecs.Add(w, e, component.HealthComponent, component.NewHealth(health))
	return e
}
