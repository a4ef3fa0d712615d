package ecs

import (
	"math"

	"github.com/jakecoffman/cp"
)

const categoryWall uint = 1 << 0

var (
	wallFilter = cp.NewShapeFilter(cp.NO_GROUP, categoryWall, cp.ALL_CATEGORIES)
	// queries that should only see opaque static geometry
	occluderFilter = cp.NewShapeFilter(cp.NO_GROUP, cp.ALL_CATEGORIES, categoryWall)
)

// PhysicsWorld owns the Chipmunk space, static occluder shapes, and the
// mapping between agent bodies and entities. It is the spatial query service
// for perception (line of sight) and alert propagation (radius queries).
type PhysicsWorld struct {
	space  *cp.Space
	width  float64
	height float64

	bodies map[Entity]*cp.Body
}

// NewPhysicsWorld creates a space bounded by width x height world units.
func NewPhysicsWorld(width, height float64) *PhysicsWorld {
	space := cp.NewSpace()
	space.Iterations = 10

	return &PhysicsWorld{
		space:  space,
		width:  width,
		height: height,
		bodies: map[Entity]*cp.Body{},
	}
}

// Bounds returns the world dimensions.
func (pw *PhysicsWorld) Bounds() (width, height float64) {
	if pw == nil {
		return 0, 0
	}
	return pw.width, pw.height
}

// AddWall adds an opaque static box occluder.
func (pw *PhysicsWorld) AddWall(x, y, w, h float64) {
	if pw == nil || w <= 0 || h <= 0 {
		return
	}
	bb := cp.BB{L: x, B: y, R: x + w, T: y + h}
	shape := cp.NewBox2(pw.space.StaticBody, bb, 0)
	shape.SetFilter(wallFilter)
	pw.space.AddShape(shape)
}

// AddAgentBody registers a kinematic body for an entity. Agent bodies carry
// no shapes: only walls occlude sight lines or block points.
func (pw *PhysicsWorld) AddAgentBody(e Entity, x, y float64) {
	if pw == nil || !e.Valid() {
		return
	}
	body := cp.NewKinematicBody()
	body.SetPosition(cp.Vector{X: x, Y: y})
	pw.space.AddBody(body)
	pw.bodies[e] = body
}

// RemoveBody drops the entity's body from the space.
func (pw *PhysicsWorld) RemoveBody(e Entity) {
	if pw == nil {
		return
	}
	body, ok := pw.bodies[e]
	if !ok {
		return
	}
	pw.space.RemoveBody(body)
	delete(pw.bodies, e)
}

// MoveBody repositions the entity's body.
func (pw *PhysicsWorld) MoveBody(e Entity, x, y float64) {
	if pw == nil {
		return
	}
	body, ok := pw.bodies[e]
	if !ok {
		return
	}
	body.SetPosition(cp.Vector{X: x, Y: y})
}

// LineOfSight reports whether the segment from (x0,y0) to (x1,y1) reaches its
// end without hitting an opaque occluder.
func (pw *PhysicsWorld) LineOfSight(x0, y0, x1, y1 float64) bool {
	if pw == nil {
		return false
	}
	info := pw.space.SegmentQueryFirst(cp.Vector{X: x0, Y: y0}, cp.Vector{X: x1, Y: y1}, 0, occluderFilter)
	return info.Shape == nil
}

// AgentsWithin returns entities whose bodies lie within radius of (x,y),
// excluding the given entity. It scans the tracked bodies directly: cp only
// refreshes its spatial index inside Space.Step, which this world never runs,
// so an index query would miss any body moved since registration.
func (pw *PhysicsWorld) AgentsWithin(x, y, radius float64, exclude Entity) []Entity {
	if pw == nil || radius <= 0 {
		return nil
	}
	var out []Entity
	for e, body := range pw.bodies {
		if e == exclude {
			continue
		}
		pos := body.Position()
		if math.Hypot(pos.X-x, pos.Y-y) > radius {
			continue
		}
		out = append(out, e)
	}
	return out
}

// Blocked reports whether the point lies inside (or within pad of) a wall.
func (pw *PhysicsWorld) Blocked(x, y, pad float64) bool {
	if pw == nil {
		return false
	}
	info := pw.space.PointQueryNearest(cp.Vector{X: x, Y: y}, pad, occluderFilter)
	return info.Shape != nil
}
