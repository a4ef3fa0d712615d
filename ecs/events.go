package ecs

// Event is a generic ECS event payload (attack cues, deaths, state changes).
// Events live for one tick; the world flushes the queue as the next update
// begins, so observers may drain between ticks.
type Event struct {
	Type   string
	Entity Entity
	Data   any
}

const (
	EventAttackCue   = "attack_cue"
	EventDeath       = "death"
	EventStateChange = "state_change"
)

// EventQueue is a simple FIFO queue.
type EventQueue struct {
	items []Event
}

// Push adds an event.
func (q *EventQueue) Push(evt Event) {
	if q == nil {
		return
	}
	q.items = append(q.items, evt)
}

// Drain returns all events and clears the queue.
func (q *EventQueue) Drain() []Event {
	if q == nil || len(q.items) == 0 {
		return nil
	}
	out := q.items
	q.items = nil
	return out
}

func (q *EventQueue) flush() {
	if q == nil {
		return
	}
	q.items = nil
}

// AlertRequest asks for a one-shot wake-up broadcast around an origin point.
// A damage event or a combat entry enqueues exactly one request; woken agents
// never enqueue requests of their own.
type AlertRequest struct {
	Origin           Entity
	X, Y             float64
	ThreatX, ThreatY float64
	Radius           float64
}

// PushAlert enqueues a propagation request for the alert system.
func (w *World) PushAlert(req AlertRequest) {
	if w == nil || req.Radius <= 0 {
		return
	}
	w.alerts = append(w.alerts, req)
}

// DrainAlerts returns all pending propagation requests and clears the queue.
func (w *World) DrainAlerts() []AlertRequest {
	if w == nil || len(w.alerts) == 0 {
		return nil
	}
	out := w.alerts
	w.alerts = nil
	return out
}
