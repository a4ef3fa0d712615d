package component

// Waypoint is a world-space patrol point.
type Waypoint struct {
	X float64
	Y float64
}

// PatrolRoute is an ordered waypoint sequence. The cursor persists across
// patrol re-entries.
type PatrolRoute struct {
	Waypoints []Waypoint
	Cursor    int
}

// Current returns the waypoint under the cursor.
func (r *PatrolRoute) Current() (Waypoint, bool) {
	if r == nil || len(r.Waypoints) == 0 {
		return Waypoint{}, false
	}
	if r.Cursor < 0 || r.Cursor >= len(r.Waypoints) {
		r.Cursor = 0
	}
	return r.Waypoints[r.Cursor], true
}

// Advance moves the cursor to the next waypoint; nextIndex overrides the
// sequential order when >= 0 (randomized patrols).
func (r *PatrolRoute) Advance(nextIndex int) {
	if r == nil || len(r.Waypoints) == 0 {
		return
	}
	if nextIndex >= 0 && nextIndex < len(r.Waypoints) {
		r.Cursor = nextIndex
		return
	}
	r.Cursor = (r.Cursor + 1) % len(r.Waypoints)
}

var PatrolRouteComponent = NewComponent[PatrolRoute]()
