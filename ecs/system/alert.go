package system

import (
	"github.com/milk9111/topdown/ecs"
	"github.com/milk9111/topdown/ecs/component"
)

// AlertSystem drains pending wake-up broadcasts and forwards them to idle
// and patrolling agents inside the radius through the interrupt queue,
// never by writing sibling state directly. Woken agents do not re-broadcast,
// so a single damage event produces exactly one propagation pass.
type AlertSystem struct{}

func NewAlertSystem() *AlertSystem {
	return &AlertSystem{}
}

func (s *AlertSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	pw := w.PhysicsWorld()
	if pw == nil {
		return
	}

	for _, req := range w.DrainAlerts() {
		for _, sibling := range pw.AgentsWithin(req.X, req.Y, req.Radius, req.Origin) {
			st, ok := ecs.Get(w, sibling, component.AgentStateComponent)
			if !ok {
				continue
			}
			if st.Current != component.StateIdle && st.Current != component.StatePatrol {
				continue
			}
			pushInterrupt(w, sibling, component.Interrupt{
				Kind: component.InterruptAlert,
				X:    req.ThreatX,
				Y:    req.ThreatY,
			})
		}
	}
}
