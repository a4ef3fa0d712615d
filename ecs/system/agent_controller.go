package system

import (
	"github.com/milk9111/topdown/ecs"
	"github.com/milk9111/topdown/ecs/component"
)

// AgentSystem evaluates the behavior state machine for every agent each
// tick: drain external interrupts, run the guard table, then the current
// state's per-tick handler. It is the only writer of AgentState.
type AgentSystem struct {
	rules    []transitionRule
	handlers []StateDef
	scripts  *scriptRuntime
}

func NewAgentSystem() *AgentSystem {
	return &AgentSystem{
		rules:    behaviorRules(),
		handlers: behaviorHandlers(),
		scripts:  newScriptRuntime(),
	}
}

// InvalidateScripts drops compiled behavior scripts so edited files are
// recompiled the next time an agent transitions.
func (s *AgentSystem) InvalidateScripts() {
	s.scripts = newScriptRuntime()
}

func (s *AgentSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}

	now := w.Now()
	dt := w.DT()

	entities := w.Query(
		component.AgentTagComponent.ID(),
		component.AgentComponent.ID(),
		component.AgentStateComponent.ID(),
		component.TransformComponent.ID(),
	)
	for _, ent := range entities {
		ctx := s.buildContext(w, ent, now, dt)
		if ctx == nil {
			continue
		}

		// terminal state short-circuits all per-tick work
		if ctx.State.Current == component.StateDead {
			continue
		}

		s.drainInterrupts(ctx)
		if ctx.State.Current == component.StateDead {
			continue
		}

		// refresh last known position while the threat is visible
		if ctx.Percep.Visible {
			ctx.State.ThreatX = ctx.Percep.ThreatX
			ctx.State.ThreatY = ctx.Percep.ThreatY
			ctx.State.ThreatKnown = true
		}

		// stun suppresses the guard table; only expiry and kill get out
		if ctx.State.Current == component.StateStunned {
			if now >= ctx.State.StunUntil {
				s.transition(ctx, ctx.State.Resume, true)
			} else {
				s.handlers[component.StateStunned].While(ctx)
				continue
			}
			if ctx.State.Current == component.StateStunned {
				continue
			}
		} else {
			for _, rule := range s.rules {
				if !rule.appliesTo(ctx.State.Current) {
					continue
				}
				if rule.when(ctx) {
					s.transition(ctx, rule.to, rule.forced)
					break
				}
			}
		}

		if while := s.handlers[ctx.State.Current].While; while != nil {
			while(ctx)
		}
	}
}

func (s *AgentSystem) buildContext(w *ecs.World, ent ecs.Entity, now, dt float64) *tickContext {
	agent, ok := ecs.Get(w, ent, component.AgentComponent)
	if !ok {
		return nil
	}
	state, ok := ecs.Get(w, ent, component.AgentStateComponent)
	if !ok {
		return nil
	}
	transform, ok := ecs.Get(w, ent, component.TransformComponent)
	if !ok {
		return nil
	}
	percep, ok := ecs.Get(w, ent, component.PerceptionComponent)
	if !ok {
		return nil
	}
	routine, ok := ecs.Get(w, ent, component.RoutineComponent)
	if !ok {
		return nil
	}
	move, ok := ecs.Get(w, ent, component.MoveIntentComponent)
	if !ok {
		return nil
	}
	attack, ok := ecs.Get(w, ent, component.AttackStateComponent)
	if !ok {
		return nil
	}
	health, ok := ecs.Get(w, ent, component.HealthComponent)
	if !ok {
		return nil
	}
	route, _ := ecs.Get(w, ent, component.PatrolRouteComponent)

	return &tickContext{
		World:     w,
		Entity:    ent,
		Agent:     agent,
		State:     state,
		Percep:    percep,
		Health:    health,
		Routine:   routine,
		Route:     route,
		Move:      move,
		Attack:    attack,
		Transform: transform,
		Now:       now,
		DT:        dt,
	}
}

// drainInterrupts consumes external stimuli queued since the last tick.
func (s *AgentSystem) drainInterrupts(ctx *tickContext) {
	q, ok := ecs.Get(ctx.World, ctx.Entity, component.InterruptsComponent)
	if !ok {
		return
	}
	for _, irq := range q.Drain() {
		switch irq.Kind {
		case component.InterruptDamage:
			s.onDamage(ctx, irq)
		case component.InterruptStun:
			s.onStun(ctx, irq)
		case component.InterruptKill:
			s.onKill(ctx)
		case component.InterruptAlert:
			s.onAlert(ctx, irq)
		}
		if ctx.State.Current == component.StateDead {
			return
		}
	}
}

func (s *AgentSystem) onDamage(ctx *tickContext, irq component.Interrupt) {
	if !ctx.Health.ApplyDamage(irq.Amount) {
		return
	}
	if !ctx.Health.IsAlive() {
		s.onKill(ctx)
		return
	}

	// remember where the hit came from, even while stunned
	ctx.State.ThreatX = irq.X
	ctx.State.ThreatY = irq.Y
	ctx.State.ThreatKnown = true

	// a single damage event wakes the neighborhood exactly once
	ctx.World.PushAlert(ecs.AlertRequest{
		Origin:  ctx.Entity,
		X:       ctx.Transform.X,
		Y:       ctx.Transform.Y,
		ThreatX: irq.X,
		ThreatY: irq.Y,
		Radius:  ctx.Agent.AlertRadius,
	})

	if ctx.State.Current == component.StateIdle || ctx.State.Current == component.StatePatrol {
		s.transition(ctx, component.StateAlert, false)
	}
}

func (s *AgentSystem) onStun(ctx *tickContext, irq component.Interrupt) {
	if irq.Duration <= 0 {
		return
	}
	until := ctx.Now + irq.Duration
	if ctx.State.Current == component.StateStunned {
		// conflicting stuns refresh the timer rather than stacking
		if until > ctx.State.StunUntil {
			ctx.State.StunUntil = until
		}
		return
	}
	ctx.State.Resume = ctx.State.Current
	ctx.State.StunUntil = until
	s.transition(ctx, component.StateStunned, true)
}

func (s *AgentSystem) onKill(ctx *tickContext) {
	if ctx.Health.IsAlive() {
		ctx.Health.Current = 0
		ctx.Health.Dead = true
	}
	s.transition(ctx, component.StateDead, true)
}

func (s *AgentSystem) onAlert(ctx *tickContext, irq component.Interrupt) {
	if ctx.State.Current != component.StateIdle && ctx.State.Current != component.StatePatrol {
		return
	}
	ctx.State.ThreatX = irq.X
	ctx.State.ThreatY = irq.Y
	ctx.State.ThreatKnown = true
	s.transition(ctx, component.StateAlert, false)
}

// transition is the single entry point for state changes. It rejects
// same-state requests, anything out of the terminal state, and debounced
// requests; transitions into dead or stunned (and forced rules) always
// succeed. On acceptance it runs exit hooks, swaps state, refreshes the
// debounce anchor, and runs entry hooks.
func (s *AgentSystem) transition(ctx *tickContext, to component.BehaviorState, forced bool) bool {
	st := ctx.State

	// patrol without a route degrades to idle
	if to == component.StatePatrol {
		if ctx.Route == nil || len(ctx.Route.Waypoints) == 0 {
			to = component.StateIdle
		}
	}

	if st.Current == to {
		return false
	}
	if st.Current == component.StateDead {
		return false
	}

	if !forced && to != component.StateDead && to != component.StateStunned {
		if ctx.Now-st.LastTransition < ctx.Agent.MinTransitionInterval {
			return false
		}
	}

	from := st.Current
	if exit := s.handlers[from].OnExit; exit != nil {
		exit(ctx)
	}
	s.scripts.runHook(ctx, hookExit, from, to)

	st.Current = to
	st.LastTransition = ctx.Now
	if to == component.StateCombat {
		st.CombatElapsed = 0
	}

	if enter := s.handlers[to].OnEnter; enter != nil {
		enter(ctx)
	}
	s.scripts.runHook(ctx, hookEnter, from, to)

	ctx.World.Events().Push(ecs.Event{Type: ecs.EventStateChange, Entity: ctx.Entity, Data: to})
	return true
}

// NotifyDamageTaken queues a damage stimulus. Safe to call at any time: a
// dead agent ignores it, a stunned agent only updates its last known threat.
func NotifyDamageTaken(w *ecs.World, e ecs.Entity, amount, sourceX, sourceY float64) {
	pushInterrupt(w, e, component.Interrupt{Kind: component.InterruptDamage, Amount: amount, X: sourceX, Y: sourceY})
}

// RequestStun queues a stun stimulus. Stunning an already stunned agent
// refreshes the duration.
func RequestStun(w *ecs.World, e ecs.Entity, duration float64) {
	pushInterrupt(w, e, component.Interrupt{Kind: component.InterruptStun, Duration: duration})
}

// RequestKill queues a kill stimulus; the dead state is terminal.
func RequestKill(w *ecs.World, e ecs.Entity) {
	pushInterrupt(w, e, component.Interrupt{Kind: component.InterruptKill})
}

func pushInterrupt(w *ecs.World, e ecs.Entity, irq component.Interrupt) {
	if w == nil || !w.IsAlive(e) {
		return
	}
	// a dead agent never drains its queue, so stimuli would pile up forever
	if st, ok := ecs.Get(w, e, component.AgentStateComponent); ok && !st.Alive() {
		return
	}
	q, ok := ecs.Get(w, e, component.InterruptsComponent)
	if !ok {
		return
	}
	q.Push(irq)
}
