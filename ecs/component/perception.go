package component

import "math"

// Perception is the per-tick threat snapshot. It is recomputed from scratch
// every tick and never persisted.
type Perception struct {
	Threat           Entity
	ThreatX, ThreatY float64
	Distance         float64
	Visible          bool
	Valid            bool
}

// Entity mirrors ecs.Entity to avoid an import cycle; the agent system
// converts at the boundary.
type Entity uint64

// Reset clears the snapshot to "no resolvable threat".
func (p *Perception) Reset() {
	if p == nil {
		return
	}
	p.Threat = 0
	p.ThreatX = 0
	p.ThreatY = 0
	p.Distance = math.Inf(1)
	p.Visible = false
	p.Valid = false
}

var PerceptionComponent = NewComponent[Perception]()
