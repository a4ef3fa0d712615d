package system

import (
	"testing"

	"github.com/milk9111/topdown/common"
	"github.com/milk9111/topdown/ecs"
	"github.com/milk9111/topdown/ecs/component"
)

func newMover(w *ecs.World, x, y float64) (ecs.Entity, *component.MoveIntent, *component.Transform) {
	e := w.CreateEntity()
	m := &component.MoveIntent{}
	tr := &component.Transform{X: x, Y: y}
	_ = ecs.Add(w, e, component.MoveIntentComponent, m)
	_ = ecs.Add(w, e, component.TransformComponent, tr)
	return e, m, tr
}

func command(m *component.MoveIntent, x, y, speed float64) {
	m.Active = true
	m.TargetX = x
	m.TargetY = y
	m.Speed = speed
	m.Tolerance = 4
}

func TestMovementStraightLineArrival(t *testing.T) {
	w := ecs.NewWorld(1.0 / 60.0)
	w.AddSystem(NewMovementSystem(nil))

	_, m, tr := newMover(w, 0, 0)
	command(m, 100, 0, 50)

	// 100 units at 50/s: exactly two seconds
	for i := 0; i < 60*2+5; i++ {
		w.Update()
	}
	if !m.Arrived {
		t.Fatalf("expected arrival, at (%v,%v)", tr.X, tr.Y)
	}
	if common.Dist(tr.X, tr.Y, 100, 0) > 4 {
		t.Fatalf("arrived too far from target: (%v,%v)", tr.X, tr.Y)
	}
}

func TestMovementReportsVelocityWhileTraveling(t *testing.T) {
	w := ecs.NewWorld(1.0 / 60.0)
	w.AddSystem(NewMovementSystem(nil))

	_, m, _ := newMover(w, 0, 0)
	command(m, 100, 0, 50)

	w.Update()
	if m.VelX <= 0 {
		t.Fatalf("expected positive x velocity mid-travel, got %v", m.VelX)
	}

	for i := 0; i < 60*3; i++ {
		w.Update()
	}
	if m.VelX != 0 || m.VelY != 0 {
		t.Fatalf("velocity should clear after arrival, got (%v,%v)", m.VelX, m.VelY)
	}
}

func TestMovementUnreachableTargetFails(t *testing.T) {
	w := ecs.NewWorld(1.0 / 60.0)
	pw := ecs.NewPhysicsWorld(320, 320)
	w.SetPhysicsWorld(pw)
	pw.AddWall(100, 100, 64, 64)
	w.AddSystem(NewMovementSystem(NewGridPathfinder(pw, 32)))

	_, m, _ := newMover(w, 20, 20)
	// target inside the wall
	command(m, 132, 132, 50)

	w.Update()
	if !m.Failed {
		t.Fatalf("expected path failure for a target inside a wall")
	}
}

func TestMovementRoutesAroundWall(t *testing.T) {
	w := ecs.NewWorld(1.0 / 60.0)
	pw := ecs.NewPhysicsWorld(320, 320)
	w.SetPhysicsWorld(pw)
	// vertical wall with a gap at the bottom
	pw.AddWall(144, 0, 32, 224)
	w.AddSystem(NewMovementSystem(NewGridPathfinder(pw, 32)))

	_, m, tr := newMover(w, 50, 160)
	command(m, 270, 160, 100)

	for i := 0; i < 60*10 && !m.Arrived && !m.Failed; i++ {
		w.Update()
	}
	if m.Failed {
		t.Fatalf("expected a detour, got failure")
	}
	if !m.Arrived {
		t.Fatalf("never arrived, stuck at (%v,%v)", tr.X, tr.Y)
	}
	if common.Dist(tr.X, tr.Y, 270, 160) > 4 {
		t.Fatalf("arrived too far from target: (%v,%v)", tr.X, tr.Y)
	}
}

func TestGridPathfinderShortcutsClearLine(t *testing.T) {
	pw := ecs.NewPhysicsWorld(320, 320)
	pf := NewGridPathfinder(pw, 32)

	path, ok := pf.FindPath(20, 20, 300, 300)
	if !ok {
		t.Fatalf("open arena should always path")
	}
	if len(path) != 1 {
		t.Fatalf("clear line should shortcut to a single node, got %d", len(path))
	}
}

func TestGridPathfinderDetourHasIntermediateNodes(t *testing.T) {
	pw := ecs.NewPhysicsWorld(320, 320)
	pw.AddWall(144, 0, 32, 224)
	pf := NewGridPathfinder(pw, 32)

	path, ok := pf.FindPath(50, 160, 270, 160)
	if !ok {
		t.Fatalf("expected a path around the wall")
	}
	if len(path) < 2 {
		t.Fatalf("detour should have intermediate nodes, got %v", path)
	}
	if last := path[len(path)-1]; last.X != 270 || last.Y != 160 {
		t.Fatalf("path should end exactly on the target, got %v", last)
	}
}
