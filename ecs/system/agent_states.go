package system

import (
	"math"
	"math/rand"

	"github.com/milk9111/topdown/common"
	"github.com/milk9111/topdown/ecs"
	"github.com/milk9111/topdown/ecs/component"
)

// tickContext carries everything a state handler or transition guard may
// touch for one agent during one tick.
type tickContext struct {
	World     *ecs.World
	Entity    ecs.Entity
	Agent     *component.Agent
	State     *component.AgentState
	Percep    *component.Perception
	Health    *component.Health
	Routine   *component.Routine
	Route     *component.PatrolRoute // nil when no route is authored
	Move      *component.MoveIntent
	Attack    *component.AttackState
	Transform *component.Transform
	Now       float64
	DT        float64
}

// ElapsedInState returns seconds since the last accepted transition.
func (ctx *tickContext) ElapsedInState() float64 {
	return ctx.Now - ctx.State.LastTransition
}

// MoveTo commands pathing toward a point. Speed is scaled by the agent's
// script-adjustable multiplier.
func (ctx *tickContext) MoveTo(x, y, speed float64) {
	m := ctx.Move
	scale := ctx.State.SpeedScale
	if scale <= 0 {
		scale = 1
	}
	const retarget = 1.0
	if !m.Active || common.Dist(m.TargetX, m.TargetY, x, y) > retarget {
		m.Arrived = false
		m.Failed = false
	}
	m.Active = true
	m.TargetX = x
	m.TargetY = y
	m.Speed = speed * scale
	m.Tolerance = ctx.Agent.ArrivalEpsilon
}

// Stop halts movement immediately.
func (ctx *tickContext) Stop() {
	ctx.Move.Clear()
}

// AtDestination reports whether the last move command has completed.
func (ctx *tickContext) AtDestination() bool {
	return ctx.Move.Arrived
}

// PathFailed reports whether the pathfinder gave up on the last command.
func (ctx *tickContext) PathFailed() bool {
	return ctx.Move.Failed
}

// FaceToward rotates the agent's heading toward a point at the tuned rate.
func (ctx *tickContext) FaceToward(x, y float64) {
	target := common.HeadingTo(ctx.Transform.X, ctx.Transform.Y, x, y)
	ctx.Transform.Heading = common.TurnToward(ctx.Transform.Heading, target, ctx.Agent.TurnRate*ctx.DT)
}

// routineDeadline bounds a wait-for-arrival leg: generous travel time plus
// slack, so an unreachable destination forces progression instead of a stall.
func (ctx *tickContext) routineDeadline(x, y, speed float64) float64 {
	if speed <= 0 {
		speed = 1
	}
	travel := common.Dist(ctx.Transform.X, ctx.Transform.Y, x, y) / speed
	return ctx.Now + travel*3 + 2
}

// StateDef holds the per-state lifecycle hooks. OnExit must cancel any
// sub-routine the state owns.
type StateDef struct {
	OnEnter func(ctx *tickContext)
	While   func(ctx *tickContext)
	OnExit  func(ctx *tickContext)
}

// transitionRule is one row of the guard table. Rules are evaluated in
// order; the first whose guard passes wins. Forced rules bypass the
// transition debounce.
type transitionRule struct {
	from   []component.BehaviorState
	to     component.BehaviorState
	forced bool
	when   func(ctx *tickContext) bool
}

func (r transitionRule) appliesTo(s component.BehaviorState) bool {
	for _, f := range r.from {
		if f == s {
			return true
		}
	}
	return false
}

// behaviorRules builds the guard table. Order matters: within a state the
// earlier row wins the tick.
func behaviorRules() []transitionRule {
	idlePatrol := []component.BehaviorState{component.StateIdle, component.StatePatrol}
	alert := []component.BehaviorState{component.StateAlert}
	chase := []component.BehaviorState{component.StateChase}
	combat := []component.BehaviorState{component.StateCombat}
	search := []component.BehaviorState{component.StateSearch}
	ret := []component.BehaviorState{component.StateReturn}

	return []transitionRule{
		{from: idlePatrol, to: component.StateAlert, when: func(ctx *tickContext) bool {
			return ctx.Percep.Visible && ctx.Percep.Distance <= ctx.Agent.DetectionRange
		}},

		{from: alert, to: component.StateSearch, when: func(ctx *tickContext) bool {
			return !ctx.Percep.Visible || ctx.Percep.Distance > ctx.Agent.DetectionRange
		}},
		{from: alert, to: component.StateCombat, when: func(ctx *tickContext) bool {
			return ctx.Percep.Visible && ctx.Percep.Distance <= ctx.Agent.AttackRange
		}},
		{from: alert, to: component.StateChase, when: func(ctx *tickContext) bool {
			return ctx.Percep.Visible && ctx.Percep.Distance <= ctx.Agent.FollowRange
		}},
		{from: alert, to: component.StateChase, when: func(ctx *tickContext) bool {
			return ctx.ElapsedInState() > ctx.Agent.AlertReactionDelay
		}},

		{from: chase, to: component.StateSearch, when: func(ctx *tickContext) bool {
			return !ctx.Percep.Visible && ctx.Percep.Distance > ctx.Agent.FollowRange
		}},
		{from: chase, to: component.StateCombat, when: func(ctx *tickContext) bool {
			return ctx.Percep.Distance <= ctx.Agent.AttackRange
		}},
		{from: chase, to: component.StateReturn, when: func(ctx *tickContext) bool {
			return ctx.Percep.Distance > ctx.Agent.FollowRange
		}},

		{from: combat, to: component.StateChase, when: func(ctx *tickContext) bool {
			return ctx.Percep.Distance > 1.5*ctx.Agent.AttackRange &&
				ctx.Percep.Visible && ctx.Percep.Distance <= ctx.Agent.FollowRange
		}},
		{from: combat, to: component.StateSearch, when: func(ctx *tickContext) bool {
			return ctx.Percep.Distance > 1.5*ctx.Agent.AttackRange &&
				(!ctx.Percep.Visible || ctx.Percep.Distance > ctx.Agent.FollowRange)
		}},
		{from: combat, to: component.StateReturn, when: func(ctx *tickContext) bool {
			return shouldFlee(ctx.Agent, ctx.Health)
		}},
		// timeout-forced disengage is exempt from the debounce, like the
		// dead/stunned overrides
		{from: combat, to: component.StateSearch, forced: true, when: func(ctx *tickContext) bool {
			return ctx.State.CombatElapsed >= ctx.Agent.CombatTimeout
		}},

		{from: search, to: component.StateAlert, when: func(ctx *tickContext) bool {
			return ctx.Percep.Visible && ctx.Percep.Distance <= ctx.Agent.DetectionRange
		}},
		{from: search, to: component.StateReturn, when: func(ctx *tickContext) bool {
			return ctx.Routine.Kind == component.RoutineSearch && ctx.Routine.Done
		}},

		// unreachable home counts as arrival so the agent never stalls
		{from: ret, to: component.StatePatrol, when: func(ctx *tickContext) bool {
			home := common.Dist(ctx.Transform.X, ctx.Transform.Y, ctx.State.HomeX, ctx.State.HomeY)
			return home < ctx.Agent.ArrivalEpsilon || ctx.PathFailed()
		}},
	}
}

const statePhaseTravel = 0
const statePhaseWait = 1

// behaviorHandlers builds the per-state dispatch table, indexed by state.
func behaviorHandlers() []StateDef {
	h := make([]StateDef, int(component.StateStunned)+1)

	h[component.StateIdle] = StateDef{
		While: func(ctx *tickContext) { ctx.Stop() },
	}

	h[component.StatePatrol] = StateDef{
		While:  patrolWhile,
		OnExit: cancelRoutine,
	}

	h[component.StateAlert] = StateDef{
		OnEnter: func(ctx *tickContext) { ctx.Stop() },
		While: func(ctx *tickContext) {
			if ctx.State.ThreatKnown {
				ctx.FaceToward(ctx.State.ThreatX, ctx.State.ThreatY)
			}
		},
	}

	h[component.StateChase] = StateDef{
		While: func(ctx *tickContext) {
			if ctx.Percep.Valid {
				ctx.MoveTo(ctx.Percep.ThreatX, ctx.Percep.ThreatY, ctx.Agent.ChaseSpeed)
			}
		},
		OnExit: func(ctx *tickContext) { ctx.Stop() },
	}

	h[component.StateCombat] = StateDef{
		OnEnter: func(ctx *tickContext) {
			ctx.Stop()
			tx, ty := ctx.Transform.X, ctx.Transform.Y
			thx, thy := ctx.State.ThreatX, ctx.State.ThreatY
			if ctx.Percep.Valid {
				thx, thy = ctx.Percep.ThreatX, ctx.Percep.ThreatY
			}
			ctx.World.PushAlert(ecs.AlertRequest{
				Origin:  ctx.Entity,
				X:       tx,
				Y:       ty,
				ThreatX: thx,
				ThreatY: thy,
				Radius:  ctx.Agent.AlertRadius,
			})
		},
		While: func(ctx *tickContext) {
			ctx.State.CombatElapsed += ctx.DT
			ctx.Stop()
			if ctx.Percep.Valid {
				ctx.FaceToward(ctx.Percep.ThreatX, ctx.Percep.ThreatY)
			}
			tryAttack(ctx)
		},
	}

	h[component.StateSearch] = StateDef{
		While:  searchWhile,
		OnExit: cancelRoutine,
	}

	h[component.StateReturn] = StateDef{
		While: func(ctx *tickContext) {
			ctx.MoveTo(ctx.State.HomeX, ctx.State.HomeY, ctx.Agent.MoveSpeed)
		},
		OnExit: func(ctx *tickContext) { ctx.Stop() },
	}

	h[component.StateDead] = StateDef{
		OnEnter: func(ctx *tickContext) {
			cancelRoutine(ctx)
			ctx.Stop()
			ctx.Attack.Pending.Active = false
			ctx.World.Events().Push(ecs.Event{Type: ecs.EventDeath, Entity: ctx.Entity})
		},
	}

	h[component.StateStunned] = StateDef{
		OnEnter: func(ctx *tickContext) {
			cancelRoutine(ctx)
			ctx.Stop()
		},
		While: func(ctx *tickContext) { ctx.Stop() },
	}

	return h
}

func cancelRoutine(ctx *tickContext) {
	ctx.Routine.Cancel()
	ctx.Stop()
}

// patrolWhile drives the patrol loop: travel to the cursor waypoint, dwell,
// advance, repeat. Travel legs are bounded so a blocked waypoint cannot
// stall the loop.
func patrolWhile(ctx *tickContext) {
	r := ctx.Routine
	wp, ok := ctx.Route.Current()
	if !ok {
		ctx.Stop()
		return
	}

	if !r.Running(component.RoutinePatrol) {
		*r = component.Routine{Kind: component.RoutinePatrol, Phase: statePhaseTravel}
		ctx.MoveTo(wp.X, wp.Y, ctx.Agent.MoveSpeed)
		r.Deadline = ctx.routineDeadline(wp.X, wp.Y, ctx.Agent.MoveSpeed)
		return
	}

	switch r.Phase {
	case statePhaseTravel:
		if ctx.AtDestination() || ctx.PathFailed() || ctx.Now > r.Deadline {
			ctx.Stop()
			r.Phase = statePhaseWait
			r.WaitUntil = ctx.Now + ctx.Agent.PatrolDwell
		}
	case statePhaseWait:
		if ctx.Now < r.WaitUntil {
			return
		}
		next := -1
		if ctx.Agent.PatrolRandom && len(ctx.Route.Waypoints) > 1 {
			next = rand.Intn(len(ctx.Route.Waypoints))
		}
		ctx.Route.Advance(next)
		nwp, _ := ctx.Route.Current()
		ctx.MoveTo(nwp.X, nwp.Y, ctx.Agent.MoveSpeed)
		r.Phase = statePhaseTravel
		r.Deadline = ctx.routineDeadline(nwp.X, nwp.Y, ctx.Agent.MoveSpeed)
	}
}

// searchWhile drives the sweep: travel to the last known threat position,
// then a fixed number of discrete look rotations with pauses. Completion
// sets Done; the guard table converts that into the exit transition.
func searchWhile(ctx *tickContext) {
	r := ctx.Routine

	if r.Kind != component.RoutineSearch {
		*r = component.Routine{Kind: component.RoutineSearch, Phase: statePhaseTravel}
		if !ctx.State.ThreatKnown {
			r.Done = true
			return
		}
		ctx.MoveTo(ctx.State.ThreatX, ctx.State.ThreatY, ctx.Agent.MoveSpeed)
		r.Deadline = ctx.routineDeadline(ctx.State.ThreatX, ctx.State.ThreatY, ctx.Agent.MoveSpeed)
		return
	}
	if r.Done {
		return
	}

	switch r.Phase {
	case statePhaseTravel:
		if ctx.AtDestination() || ctx.PathFailed() || ctx.Now > r.Deadline {
			ctx.Stop()
			r.Phase = statePhaseWait
			r.WaitUntil = ctx.Now + ctx.Agent.SearchPause
		}
	case statePhaseWait:
		if ctx.Now < r.WaitUntil {
			return
		}
		sweeps := ctx.Agent.SearchSweeps
		if sweeps <= 0 {
			sweeps = 1
		}
		if r.SweepsDone >= sweeps {
			r.Done = true
			return
		}
		step := 2 * math.Pi / float64(sweeps)
		ctx.Transform.Heading = common.NormalizeAngle(ctx.Transform.Heading + step)
		r.SweepsDone++
		r.WaitUntil = ctx.Now + ctx.Agent.SearchPause
	}
}
