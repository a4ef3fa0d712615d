package system

import (
	"github.com/milk9111/topdown/common"
	"github.com/milk9111/topdown/ecs"
	"github.com/milk9111/topdown/ecs/component"
)

// tryAttack runs the combat state's attack logic: if the cooldown has
// elapsed, record the attack, emit the cue, and schedule the damage
// application after the windup delay. Damage is never applied here.
func tryAttack(ctx *tickContext) {
	if !ctx.Percep.Valid {
		return
	}
	a := ctx.Attack
	if !a.Ready(ctx.Now, ctx.Agent.AttackCooldown) {
		return
	}

	a.LastAttack = ctx.Now
	a.Pending = component.PendingHit{
		Active: true,
		At:     ctx.Now + ctx.Agent.AttackWindup,
		Amount: ctx.Agent.AttackDamage,
		Target: ctx.Percep.Threat,
	}
	ctx.World.Events().Push(ecs.Event{Type: ecs.EventAttackCue, Entity: ctx.Entity})
}

// shouldFlee reports whether flee behavior is enabled and health has fallen
// to the flee threshold. Only evaluated while in combat.
func shouldFlee(agent *component.Agent, health *component.Health) bool {
	if agent == nil || !agent.FleeEnabled {
		return false
	}
	return health.Fraction() <= agent.FleeThreshold
}

// CombatSystem fires windup hits that have come due. Every hit re-validates
// against the current world state before applying damage: the attacker must
// still be alive and the target must still be resolvable and within attack
// range. Stale hits are dropped, never applied.
type CombatSystem struct{}

func NewCombatSystem() *CombatSystem {
	return &CombatSystem{}
}

func (s *CombatSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	now := w.Now()

	ecs.ForEach2(w, component.AttackStateComponent, component.TransformComponent, func(e ecs.Entity, a *component.AttackState, t *component.Transform) {
		if !a.Pending.Active || now < a.Pending.At {
			return
		}
		hit := a.Pending
		a.Pending = component.PendingHit{}

		if st, ok := ecs.Get(w, e, component.AgentStateComponent); ok && !st.Alive() {
			return
		}

		target := ecs.Entity(hit.Target)
		if !w.IsAlive(target) {
			return
		}
		tt, ok := ecs.Get(w, target, component.TransformComponent)
		if !ok {
			return
		}
		agent, ok := ecs.Get(w, e, component.AgentComponent)
		if !ok {
			return
		}
		if common.Dist(t.X, t.Y, tt.X, tt.Y) > agent.AttackRange {
			return
		}

		if th, ok := ecs.Get(w, target, component.HealthComponent); ok {
			if !th.IsAlive() {
				return
			}
			// agents route damage through their interrupt queue so their
			// own state machine reacts; plain targets take it directly
			if _, isAgent := ecs.Get(w, target, component.AgentStateComponent); isAgent {
				NotifyDamageTaken(w, target, hit.Amount, t.X, t.Y)
			} else {
				th.ApplyDamage(hit.Amount)
			}
		}
	})
}
