package ecs

import (
	"testing"
)

func TestPhysicsWorldLineOfSight(t *testing.T) {
	pw := NewPhysicsWorld(400, 400)
	// vertical wall splitting the arena
	pw.AddWall(190, 0, 20, 400)

	cases := []struct {
		name           string
		x0, y0, x1, y1 float64
		want           bool
	}{
		{"clear_same_side", 20, 200, 150, 200, true},
		{"blocked_through_wall", 20, 200, 380, 200, false},
		{"clear_vertical", 100, 20, 100, 380, true},
		{"blocked_diagonal", 50, 50, 350, 350, false},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := pw.LineOfSight(c.x0, c.y0, c.x1, c.y1)
			if got != c.want {
				t.Fatalf("LineOfSight(%v,%v -> %v,%v) = %v, want %v", c.x0, c.y0, c.x1, c.y1, got, c.want)
			}
		})
	}
}

func TestPhysicsWorldAgentsWithin(t *testing.T) {
	w := NewWorld(1.0 / 60.0)
	pw := NewPhysicsWorld(400, 400)
	w.SetPhysicsWorld(pw)

	origin := w.CreateEntity()
	near := w.CreateEntity()
	far := w.CreateEntity()

	pw.AddAgentBody(origin, 100, 100)
	pw.AddAgentBody(near, 150, 100)
	pw.AddAgentBody(far, 390, 390)

	got := pw.AgentsWithin(100, 100, 120, origin)
	if len(got) != 1 || got[0] != near {
		t.Fatalf("expected only the near agent, got %v", got)
	}

	// excluded origin never appears even at zero distance
	for _, e := range pw.AgentsWithin(100, 100, 500, origin) {
		if e == origin {
			t.Fatalf("origin must be excluded from its own query")
		}
	}
}

func TestPhysicsWorldRemoveBody(t *testing.T) {
	w := NewWorld(1.0 / 60.0)
	pw := NewPhysicsWorld(400, 400)
	w.SetPhysicsWorld(pw)

	a := w.CreateEntity()
	b := w.CreateEntity()
	pw.AddAgentBody(a, 100, 100)
	pw.AddAgentBody(b, 120, 100)

	pw.RemoveBody(b)
	got := pw.AgentsWithin(100, 100, 200, a)
	if len(got) != 0 {
		t.Fatalf("removed body should not be queryable, got %v", got)
	}
}

func TestPhysicsWorldBlocked(t *testing.T) {
	pw := NewPhysicsWorld(400, 400)
	pw.AddWall(100, 100, 50, 50)

	if !pw.Blocked(125, 125, 2) {
		t.Fatalf("point inside wall should be blocked")
	}
	if pw.Blocked(300, 300, 2) {
		t.Fatalf("open point should not be blocked")
	}
}

func TestPhysicsWorldMoveBodyTracksQueries(t *testing.T) {
	w := NewWorld(1.0 / 60.0)
	pw := NewPhysicsWorld(400, 400)
	w.SetPhysicsWorld(pw)

	a := w.CreateEntity()
	probe := w.CreateEntity()
	pw.AddAgentBody(a, 50, 50)
	pw.AddAgentBody(probe, 350, 350)

	if got := pw.AgentsWithin(350, 350, 60, probe); len(got) != 0 {
		t.Fatalf("agent should start outside the probe radius, got %v", got)
	}

	pw.MoveBody(a, 340, 340)
	got := pw.AgentsWithin(350, 350, 60, probe)
	if len(got) != 1 || got[0] != a {
		t.Fatalf("moved agent should be inside the probe radius, got %v", got)
	}

	// the stale origin must not report the body anymore
	if got := pw.AgentsWithin(50, 50, 60, probe); len(got) != 0 {
		t.Fatalf("agent should have left its old neighborhood, got %v", got)
	}
}
