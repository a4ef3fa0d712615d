package component

// BehaviorState identifies an agent's current behavior. Exactly one is
// active at a time.
type BehaviorState int

const (
	StateIdle BehaviorState = iota
	StatePatrol
	StateAlert
	StateChase
	StateCombat
	StateSearch
	StateReturn
	StateDead
	StateStunned
)

var stateNames = [...]string{
	StateIdle:    "idle",
	StatePatrol:  "patrol",
	StateAlert:   "alert",
	StateChase:   "chase",
	StateCombat:  "combat",
	StateSearch:  "search",
	StateReturn:  "return",
	StateDead:    "dead",
	StateStunned: "stunned",
}

func (s BehaviorState) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "unknown"
	}
	return stateNames[s]
}

// AgentState is the per-agent behavior record. It is mutated only by the
// agent system; external stimuli arrive through the interrupt queue.
type AgentState struct {
	Current BehaviorState

	// LastTransition is the world time of the most recent accepted
	// transition. It doubles as the elapsed-in-state reference and the
	// debounce anchor.
	LastTransition float64

	// CombatElapsed accumulates continuous time in combat; reset on every
	// combat entry.
	CombatElapsed float64

	// Last observed threat position. Written only while the threat is
	// visible; meaningful to readers in alert, chase, and search.
	ThreatX, ThreatY float64
	ThreatKnown      bool

	// Home anchor captured at spawn, used by the return state.
	HomeX, HomeY float64

	// Stun bookkeeping: the state to resume and when.
	Resume    BehaviorState
	StunUntil float64

	// SpeedScale is a script-adjustable movement multiplier, default 1.
	SpeedScale float64
}

// Alive reports whether the agent has not reached the terminal dead state.
func (s *AgentState) Alive() bool {
	return s != nil && s.Current != StateDead
}

var AgentStateComponent = NewComponent[AgentState]()
