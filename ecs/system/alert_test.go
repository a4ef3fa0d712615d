package system

import (
	"testing"

	"github.com/milk9111/topdown/ecs"
	"github.com/milk9111/topdown/ecs/component"
)

// obliviousTuning is an agent that cannot notice anything on its own, so
// only propagation can wake it.
func obliviousTuning() component.Agent {
	tuning := testTuning()
	tuning.DetectionRange = 1
	return tuning
}

func TestCombatEntryWakesNeighborsInRadius(t *testing.T) {
	s := newSim()
	a := s.spawnAgent(testTuning(), 100, 100)
	b := s.spawnAgent(obliviousTuning(), 150, 100) // inside the 120 radius
	c := s.spawnAgent(obliviousTuning(), 500, 500) // far outside
	s.spawnThreat(105, 100, 5000)

	// tick 1: A alerts; tick 2: A enters combat and the entry broadcast is
	// delivered; tick 3: B consumes its wake-up interrupt
	s.run(3)
	s.assertState(t, a, component.StateCombat)
	s.assertState(t, b, component.StateAlert)
	s.assertState(t, c, component.StateIdle)

	// the woken agent learned where the trouble is
	st, _ := ecs.Get(s.w, b, component.AgentStateComponent)
	if !st.ThreatKnown || st.ThreatX != 105 || st.ThreatY != 100 {
		t.Fatalf("woken agent should carry the reported threat position, got (%v,%v) known=%v", st.ThreatX, st.ThreatY, st.ThreatKnown)
	}
}

func TestDamageWakesNeighbors(t *testing.T) {
	s := newSim()
	a := s.spawnAgent(obliviousTuning(), 100, 100)
	b := s.spawnAgent(obliviousTuning(), 150, 100)

	NotifyDamageTaken(s.w, a, 5, 300, 100)
	s.run(1)
	s.assertState(t, a, component.StateAlert)
	s.run(1)
	s.assertState(t, b, component.StateAlert)
}

func TestWokenAgentsDoNotRebroadcast(t *testing.T) {
	s := newSim()
	a := s.spawnAgent(obliviousTuning(), 100, 100)
	s.spawnAgent(obliviousTuning(), 210, 100) // 110 from A: woken directly
	c := s.spawnAgent(obliviousTuning(), 320, 100)

	// C is 220 from A (outside its radius) but 110 from B. If woken agents
	// re-broadcast, C would be dragged in through B.
	NotifyDamageTaken(s.w, a, 5, 50, 100)
	s.run(10)
	s.assertState(t, c, component.StateIdle)
}

func TestBusyAgentsIgnoreAlerts(t *testing.T) {
	s := newSim()
	a := s.spawnAgent(obliviousTuning(), 100, 100)
	b := s.spawnAgent(obliviousTuning(), 150, 100)
	s.forceState(t, b, component.StateChase)
	st, _ := ecs.Get(s.w, b, component.AgentStateComponent)
	st.ThreatKnown = true
	st.ThreatX, st.ThreatY = 150, 400

	NotifyDamageTaken(s.w, a, 5, 300, 100)
	s.run(2)

	// propagation is idempotent for agents already beyond idle/patrol: B
	// keeps its own pursuit and its own threat position
	if got := s.state(t, b); got == component.StateAlert {
		t.Fatalf("busy agent should ignore the wake-up broadcast")
	}
	if st.ThreatX != 150 || st.ThreatY != 400 {
		t.Fatalf("busy agent's threat position must not be overwritten, got (%v,%v)", st.ThreatX, st.ThreatY)
	}
}

func TestDeadAgentsStayDown(t *testing.T) {
	s := newSim()
	a := s.spawnAgent(obliviousTuning(), 100, 100)
	b := s.spawnAgent(obliviousTuning(), 150, 100)

	RequestKill(s.w, b)
	s.run(1)
	s.assertState(t, b, component.StateDead)

	NotifyDamageTaken(s.w, a, 5, 300, 100)
	s.run(3)
	s.assertState(t, b, component.StateDead)
}
