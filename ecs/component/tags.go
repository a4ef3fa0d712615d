package component

// AgentTag marks an entity as a behavior-driven agent.
type AgentTag struct{}

// ThreatTag marks an entity agents may perceive as a threat.
type ThreatTag struct{}

var (
	AgentTagComponent  = NewComponent[AgentTag]()
	ThreatTagComponent = NewComponent[ThreatTag]()
)
