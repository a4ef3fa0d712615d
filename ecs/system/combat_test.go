package system

import (
	"testing"

	"github.com/milk9111/topdown/ecs"
	"github.com/milk9111/topdown/ecs/component"
)

func TestAttackAppliesAfterWindup(t *testing.T) {
	s := newSim()
	s.spawnAgent(testTuning(), 100, 100)
	th := s.spawnThreat(110, 100, 100)

	// tick 1 alert, tick 2 combat + attack cue; the hit lands one windup
	// (0.2s = 12 ticks) later
	s.run(2)
	if got := s.health(t, th); got != 100 {
		t.Fatalf("damage must not apply during windup, health %v", got)
	}

	s.run(13)
	if got := s.health(t, th); got != 90 {
		t.Fatalf("expected one hit for 10, health %v", got)
	}

	// cooldown is a full second; no second hit yet
	s.run(10)
	if got := s.health(t, th); got != 90 {
		t.Fatalf("cooldown should gate the second hit, health %v", got)
	}
}

func TestAttackCueEmitted(t *testing.T) {
	s := newSim()
	a := s.spawnAgent(testTuning(), 100, 100)
	s.spawnThreat(110, 100, 100)

	s.run(2)
	cues := 0
	for _, evt := range s.w.Events().Drain() {
		if evt.Type == ecs.EventAttackCue && evt.Entity == a {
			cues++
		}
	}
	if cues != 1 {
		t.Fatalf("expected one attack cue, got %d", cues)
	}
}

func TestPendingHitDroppedWhenTargetEscapes(t *testing.T) {
	s := newSim()
	s.spawnAgent(testTuning(), 100, 100)
	th := s.spawnThreat(110, 100, 100)

	s.run(3)

	// target blinks out of range mid-windup; the scheduled hit re-validates
	// and is dropped
	s.teleport(t, th, 600, 100)
	s.run(30)
	if got := s.health(t, th); got != 100 {
		t.Fatalf("stale hit must be dropped, health %v", got)
	}
}

func TestPendingHitDroppedWhenTargetDies(t *testing.T) {
	s := newSim()
	s.spawnAgent(testTuning(), 100, 100)
	th := s.spawnThreat(110, 100, 100)

	s.run(3)
	h, _ := ecs.Get(s.w, th, component.HealthComponent)
	h.ApplyDamage(1000)

	before := h.Current
	s.run(30)
	if h.Current != before {
		t.Fatalf("dead target must not take the delayed hit")
	}
}

func TestPendingHitDroppedWhenAttackerDies(t *testing.T) {
	s := newSim()
	a := s.spawnAgent(testTuning(), 100, 100)
	th := s.spawnThreat(110, 100, 100)

	s.run(3)
	RequestKill(s.w, a)
	s.run(30)
	if got := s.health(t, th); got != 100 {
		t.Fatalf("a dead attacker's hit must be dropped, health %v", got)
	}
}

func TestCombatTimeoutForcesDisengage(t *testing.T) {
	tuning := testTuning()
	// debounce so large that only the forced timeout exit can fire
	tuning.MinTransitionInterval = 60

	s := newSim()
	a := s.spawnAgent(tuning, 100, 100)
	s.spawnThreat(110, 100, 5000)
	s.forceState(t, a, component.StateCombat)

	s.run(295)
	s.assertState(t, a, component.StateCombat)

	s.run(10)
	s.assertState(t, a, component.StateSearch)
}

func TestFleeAtLowHealth(t *testing.T) {
	tuning := testTuning()
	tuning.FleeEnabled = true

	s := newSim()
	a := s.spawnAgent(tuning, 100, 100)
	s.spawnThreat(110, 100, 5000)

	s.run(2)
	s.assertState(t, a, component.StateCombat)

	// drop to 25% of 40: below the 0.3 threshold
	NotifyDamageTaken(s.w, a, 30, 110, 100)
	s.run(1)
	s.assertState(t, a, component.StateReturn)
}

func TestFleeDisabledStaysInCombat(t *testing.T) {
	s := newSim()
	a := s.spawnAgent(testTuning(), 100, 100)
	s.spawnThreat(110, 100, 5000)

	s.run(2)
	NotifyDamageTaken(s.w, a, 30, 110, 100)
	s.run(10)
	s.assertState(t, a, component.StateCombat)
}

func TestAgentVersusAgentDamageRoutesInterrupt(t *testing.T) {
	s := newSim()

	// the victim doubles as a threat so the attacker's perception resolves it
	attackerTuning := testTuning()
	a := s.spawnAgent(attackerTuning, 100, 100)

	victimTuning := testTuning()
	victimTuning.DetectionRange = 1
	v := s.spawnAgent(victimTuning, 115, 100)
	_ = ecs.Add(s.w, v, component.ThreatTagComponent, &component.ThreatTag{})

	s.run(2)
	s.assertState(t, a, component.StateCombat)

	// the windup hit lands through the victim's interrupt queue, so the
	// victim's own state machine reacts to being hit
	if !s.runUntil(func() bool { return s.health(t, v) < 40 }, 60) {
		t.Fatalf("victim never took the hit")
	}
	if !s.runUntil(func() bool { return s.state(t, v) == component.StateAlert }, 10) {
		t.Fatalf("victim should wake into alert after being hit")
	}
}
