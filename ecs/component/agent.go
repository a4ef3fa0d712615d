package component

// Agent holds per-archetype behavior tuning. Distances are world units,
// durations are seconds.
type Agent struct {
	Name string

	MoveSpeed  float64
	ChaseSpeed float64
	TurnRate   float64 // radians per second

	DetectionRange float64
	FollowRange    float64
	AttackRange    float64

	AttackCooldown float64
	AttackWindup   float64
	AttackDamage   float64

	CombatTimeout         float64
	MinTransitionInterval float64
	AlertReactionDelay    float64
	AlertRadius           float64
	ArrivalEpsilon        float64

	FleeEnabled   bool
	FleeThreshold float64

	PatrolDwell  float64
	PatrolRandom bool

	SearchSweeps int
	SearchPause  float64

	// Script names an optional tengo behavior script shipped in prefabs.
	Script string
}

var AgentComponent = NewComponent[Agent]()
