package component

import "math"

// PendingHit is a scheduled damage application awaiting its windup delay.
// It is re-validated when it fires; stale hits are dropped.
type PendingHit struct {
	Active bool
	At     float64
	Amount float64
	Target Entity
}

// AttackState owns the attack cooldown and the single in-flight windup hit.
type AttackState struct {
	LastAttack float64
	Pending    PendingHit
}

// NewAttackState returns an attack state whose cooldown is ready immediately.
func NewAttackState() *AttackState {
	return &AttackState{LastAttack: math.Inf(-1)}
}

// Ready reports whether the cooldown has elapsed at time now.
func (a *AttackState) Ready(now, cooldown float64) bool {
	if a == nil {
		return false
	}
	return now-a.LastAttack >= cooldown
}

var AttackStateComponent = NewComponent[AttackState]()
