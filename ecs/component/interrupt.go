package component

// InterruptKind identifies an external stimulus.
type InterruptKind int

const (
	InterruptDamage InterruptKind = iota
	InterruptStun
	InterruptKill
	InterruptAlert
)

// Interrupt is a one-shot external stimulus for the agent system to consume.
// Producers (combat pipeline, alert propagation, scripted triggers) append;
// the agent system drains the queue at the top of the agent's tick.
type Interrupt struct {
	Kind InterruptKind

	// Amount is the damage for InterruptDamage.
	Amount float64
	// Duration is the stun length for InterruptStun.
	Duration float64
	// X/Y is the stimulus source position (damage source, reported threat).
	X, Y float64
}

// Interrupts is the per-agent pending stimulus queue.
type Interrupts struct {
	Items []Interrupt
}

// Push appends a stimulus.
func (q *Interrupts) Push(i Interrupt) {
	if q == nil {
		return
	}
	q.Items = append(q.Items, i)
}

// Drain returns all pending stimuli and clears the queue.
func (q *Interrupts) Drain() []Interrupt {
	if q == nil || len(q.Items) == 0 {
		return nil
	}
	out := q.Items
	q.Items = nil
	return out
}

var InterruptsComponent = NewComponent[Interrupts]()
