package component

// RoutineKind identifies which state owns the running sub-routine.
type RoutineKind int

const (
	RoutineNone RoutineKind = iota
	RoutinePatrol
	RoutineSearch
)

// Routine is the single cooperative sub-routine handle an agent owns. A
// state's entry handler may start one; the exit handler must cancel it.
// Routines yield by recording wait deadlines and resume on later ticks.
type Routine struct {
	Kind  RoutineKind
	Phase int

	// WaitUntil gates dwell/pause phases.
	WaitUntil float64
	// Deadline bounds wait-for-arrival phases so unreachable destinations
	// force progression instead of stalling.
	Deadline float64

	// SweepsDone counts completed look-around rotations in a search sweep.
	SweepsDone int
	// Done marks the routine finished without being cancelled.
	Done bool
}

// Cancel explicitly releases the handle.
func (r *Routine) Cancel() {
	if r == nil {
		return
	}
	*r = Routine{}
}

// Running reports whether a sub-routine of the given kind is active.
func (r *Routine) Running(kind RoutineKind) bool {
	return r != nil && r.Kind == kind && !r.Done
}

var RoutineComponent = NewComponent[Routine]()
