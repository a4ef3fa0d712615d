package system

import (
	"math"

	"github.com/milk9111/topdown/common"
	"github.com/milk9111/topdown/ecs"
	"github.com/milk9111/topdown/ecs/component"
)

// PerceptionSystem recomputes each agent's threat snapshot every tick:
// nearest resolvable threat, distance, and straight-line occlusion check.
// It is a pure query pass; it never mutates agent behavior state.
type PerceptionSystem struct{}

func NewPerceptionSystem() *PerceptionSystem {
	return &PerceptionSystem{}
}

func (s *PerceptionSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}

	type threat struct {
		entity ecs.Entity
		x, y   float64
	}

	// Resolve all live threat candidates once per tick. A destroyed or dead
	// threat simply drops out of this list, so agents re-acquire the nearest
	// remaining candidate on a later tick instead of failing permanently.
	var threats []threat
	ecs.ForEach2(w, component.ThreatTagComponent, component.TransformComponent, func(e ecs.Entity, _ *component.ThreatTag, t *component.Transform) {
		if h, ok := ecs.Get(w, e, component.HealthComponent); ok && !h.IsAlive() {
			return
		}
		threats = append(threats, threat{entity: e, x: t.X, y: t.Y})
	})

	pw := w.PhysicsWorld()

	ecs.ForEach2(w, component.PerceptionComponent, component.TransformComponent, func(e ecs.Entity, p *component.Perception, t *component.Transform) {
		if st, ok := ecs.Get(w, e, component.AgentStateComponent); ok && !st.Alive() {
			return
		}

		p.Reset()

		// an agent that carries the threat tag must not resolve itself
		var best threat
		bestDist := math.Inf(1)
		found := false
		for _, cand := range threats {
			if cand.entity == e {
				continue
			}
			if d := common.Dist(t.X, t.Y, cand.x, cand.y); d < bestDist {
				best = cand
				bestDist = d
				found = true
			}
		}
		if !found {
			return
		}

		p.Threat = component.Entity(best.entity)
		p.ThreatX = best.x
		p.ThreatY = best.y
		p.Distance = bestDist
		p.Valid = true
		if pw != nil {
			p.Visible = pw.LineOfSight(t.X, t.Y, best.x, best.y)
		} else {
			// no occlusion geometry registered; distance is the only gate
			p.Visible = !math.IsInf(bestDist, 1)
		}
	})
}
