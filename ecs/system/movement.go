package system

import (
	"github.com/milk9111/topdown/common"
	"github.com/milk9111/topdown/ecs"
	"github.com/milk9111/topdown/ecs/component"
)

// MovementSystem is the command/query boundary between state handlers and
// the navigation backend. Handlers only ever write MoveIntent; this system
// resolves paths through the Pathfinder, integrates positions along them,
// and reports arrival or failure back onto the intent. Swapping the
// navigation backend never touches state logic.
type MovementSystem struct {
	pf Pathfinder
}

func NewMovementSystem(pf Pathfinder) *MovementSystem {
	return &MovementSystem{pf: pf}
}

func (s *MovementSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	dt := w.DT()
	pw := w.PhysicsWorld()

	ecs.ForEach2(w, component.MoveIntentComponent, component.TransformComponent, func(e ecs.Entity, m *component.MoveIntent, t *component.Transform) {
		m.VelX, m.VelY = 0, 0
		if !m.Active || m.Arrived || m.Failed {
			return
		}

		tol := m.Tolerance
		if tol <= 0 {
			tol = 4
		}
		if common.Dist(t.X, t.Y, m.TargetX, m.TargetY) <= tol {
			m.Arrived = true
			m.Active = false
			m.Path = nil
			return
		}

		if !s.ensurePath(m, t) {
			m.Failed = true
			m.Path = nil
			return
		}

		s.follow(m, t, dt, tol)

		if pw != nil {
			pw.MoveBody(e, t.X, t.Y)
		}
	})
}

// ensurePath computes or refreshes the path when the intent has none or the
// target has drifted away from the path's end (a chased threat moving).
func (s *MovementSystem) ensurePath(m *component.MoveIntent, t *component.Transform) bool {
	const repathDist = 16.0

	if len(m.Path) > 0 {
		end := m.Path[len(m.Path)-1]
		if common.Dist(end.X, end.Y, m.TargetX, m.TargetY) <= repathDist {
			return true
		}
	}

	if s.pf == nil {
		// no backend: straight-line fallback
		m.Path = []component.PathNode{{X: m.TargetX, Y: m.TargetY}}
		m.PathIndex = 0
		return true
	}

	path, ok := s.pf.FindPath(t.X, t.Y, m.TargetX, m.TargetY)
	if !ok || len(path) == 0 {
		return false
	}
	m.Path = path
	m.PathIndex = 0
	return true
}

func (s *MovementSystem) follow(m *component.MoveIntent, t *component.Transform, dt, tol float64) {
	if m.PathIndex >= len(m.Path) {
		return
	}

	step := m.Speed * dt
	for step > 0 && m.PathIndex < len(m.Path) {
		node := m.Path[m.PathIndex]
		d := common.Dist(t.X, t.Y, node.X, node.Y)
		if d <= step {
			t.X = node.X
			t.Y = node.Y
			step -= d
			m.PathIndex++
			continue
		}
		nx := t.X + (node.X-t.X)/d*step
		ny := t.Y + (node.Y-t.Y)/d*step
		m.VelX = (nx - t.X) / dt
		m.VelY = (ny - t.Y) / dt
		t.Heading = common.HeadingTo(t.X, t.Y, node.X, node.Y)
		t.X = nx
		t.Y = ny
		return
	}

	if common.Dist(t.X, t.Y, m.TargetX, m.TargetY) <= tol {
		m.Arrived = true
		m.Active = false
		m.Path = nil
	}
}
