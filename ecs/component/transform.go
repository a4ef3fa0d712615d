package component

// Transform stores world-space position and facing in radians.
type Transform struct {
	X       float64
	Y       float64
	Heading float64
}

var TransformComponent = NewComponent[Transform]()
