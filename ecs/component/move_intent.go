package component

// PathNode is a world-space point along a computed path.
type PathNode struct {
	X float64
	Y float64
}

// MoveIntent is the command surface between state handlers and the movement
// system. Handlers write targets; the movement system resolves paths and
// reports arrival or failure back through it.
type MoveIntent struct {
	Active  bool
	TargetX float64
	TargetY float64
	Speed   float64

	// Tolerance is the arrival radius for this command.
	Tolerance float64

	Path      []PathNode
	PathIndex int

	Arrived bool
	// Failed is set when the pathfinder reports the target unreachable.
	Failed bool

	// VelX/VelY is the velocity applied last tick, for queries.
	VelX, VelY float64
}

// Clear stops the current command.
func (m *MoveIntent) Clear() {
	if m == nil {
		return
	}
	*m = MoveIntent{}
}

var MoveIntentComponent = NewComponent[MoveIntent]()
