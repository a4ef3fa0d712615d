package system

import (
	"math"

	"github.com/milk9111/topdown/ecs"
	"github.com/milk9111/topdown/ecs/component"
)

// Pathfinder computes a traversable path between two world points. The
// second return is false when no path exists.
type Pathfinder interface {
	FindPath(fromX, fromY, toX, toY float64) ([]component.PathNode, bool)
}

const (
	defaultPathCellSize = 32.0
	defaultPathMaxNodes = 4000
)

// GridPathfinder is the default navigation backend: 4-way A* over a grid
// rasterized from the physics world's static occluders, with a direct-line
// shortcut when nothing blocks the segment.
type GridPathfinder struct {
	pw       *ecs.PhysicsWorld
	cellSize float64
	maxNodes int
}

func NewGridPathfinder(pw *ecs.PhysicsWorld, cellSize float64) *GridPathfinder {
	if cellSize <= 0 {
		cellSize = defaultPathCellSize
	}
	return &GridPathfinder{pw: pw, cellSize: cellSize, maxNodes: defaultPathMaxNodes}
}

func (g *GridPathfinder) FindPath(fromX, fromY, toX, toY float64) ([]component.PathNode, bool) {
	if g == nil || g.pw == nil {
		return []component.PathNode{{X: toX, Y: toY}}, true
	}

	if g.pw.Blocked(toX, toY, 0) {
		return nil, false
	}
	if g.pw.LineOfSight(fromX, fromY, toX, toY) {
		return []component.PathNode{{X: toX, Y: toY}}, true
	}

	width, height := g.pw.Bounds()
	gridW := int(math.Ceil(width / g.cellSize))
	gridH := int(math.Ceil(height / g.cellSize))
	if gridW <= 0 || gridH <= 0 {
		return nil, false
	}

	sx, sy := g.cell(fromX, fromY, gridW, gridH)
	gx, gy := g.cell(toX, toY, gridW, gridH)

	cells := astar(sx, sy, gx, gy, gridW, gridH, func(x, y int) bool {
		cx := (float64(x) + 0.5) * g.cellSize
		cy := (float64(y) + 0.5) * g.cellSize
		return g.pw.Blocked(cx, cy, g.cellSize*0.45)
	}, g.maxNodes)
	if cells == nil {
		return nil, false
	}

	path := make([]component.PathNode, 0, len(cells)+1)
	for _, c := range cells[1:] { // skip the start cell
		path = append(path, component.PathNode{
			X: (float64(c.x) + 0.5) * g.cellSize,
			Y: (float64(c.y) + 0.5) * g.cellSize,
		})
	}
	path = append(path, component.PathNode{X: toX, Y: toY})
	return path, true
}

func (g *GridPathfinder) cell(x, y float64, gridW, gridH int) (int, int) {
	cx := int(x / g.cellSize)
	cy := int(y / g.cellSize)
	if cx < 0 {
		cx = 0
	}
	if cy < 0 {
		cy = 0
	}
	if cx >= gridW {
		cx = gridW - 1
	}
	if cy >= gridH {
		cy = gridH - 1
	}
	return cx, cy
}

type gridCell struct {
	x int
	y int
}

// astar finds a path from start to goal on a 4-way grid. isBlocked reports
// untraversable cells; maxNodes bounds the search to avoid runaway work.
func astar(startX, startY, goalX, goalY, width, height int, isBlocked func(x, y int) bool, maxNodes int) []gridCell {
	if width <= 0 || height <= 0 {
		return nil
	}
	if startX == goalX && startY == goalY {
		return []gridCell{{x: startX, y: startY}}
	}
	if goalX < 0 || goalY < 0 || goalX >= width || goalY >= height {
		return nil
	}
	if isBlocked != nil && isBlocked(goalX, goalY) {
		return nil
	}

	startIdx := startY*width + startX
	goalIdx := goalY*width + goalX

	open := make([]gridCell, 0, 64)
	open = append(open, gridCell{x: startX, y: startY})
	openSet := map[int]bool{startIdx: true}

	cameFrom := make(map[int]int, 128)
	gScore := make(map[int]float64, 128)
	fScore := make(map[int]float64, 128)
	gScore[startIdx] = 0
	fScore[startIdx] = heuristic(startX, startY, goalX, goalY)

	iterations := 0
	for len(open) > 0 && iterations < maxNodes {
		iterations++
		// find node with lowest fScore
		bestIdx := 0
		bestScore := math.MaxFloat64
		for i, n := range open {
			idx := n.y*width + n.x
			if f, ok := fScore[idx]; ok && f < bestScore {
				bestScore = f
				bestIdx = i
			}
		}
		current := open[bestIdx]
		currentIdx := current.y*width + current.x
		// remove from open
		open = append(open[:bestIdx], open[bestIdx+1:]...)
		delete(openSet, currentIdx)

		if currentIdx == goalIdx {
			return reconstructPath(cameFrom, currentIdx, startIdx, width)
		}

		neighbors := [][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}
		for _, d := range neighbors {
			nx := current.x + d[0]
			ny := current.y + d[1]
			if nx < 0 || ny < 0 || nx >= width || ny >= height {
				continue
			}
			if isBlocked != nil && isBlocked(nx, ny) {
				continue
			}
			neighborIdx := ny*width + nx
			tentative := gScore[currentIdx] + 1
			prev, seen := gScore[neighborIdx]
			if !seen || tentative < prev {
				cameFrom[neighborIdx] = currentIdx
				gScore[neighborIdx] = tentative
				fScore[neighborIdx] = tentative + heuristic(nx, ny, goalX, goalY)
				if !openSet[neighborIdx] {
					open = append(open, gridCell{x: nx, y: ny})
					openSet[neighborIdx] = true
				}
			}
		}
	}

	return nil
}

func reconstructPath(cameFrom map[int]int, currentIdx, startIdx, width int) []gridCell {
	path := make([]gridCell, 0, 32)
	for {
		path = append(path, gridCell{x: currentIdx % width, y: currentIdx / width})
		if currentIdx == startIdx {
			break
		}
		prev, ok := cameFrom[currentIdx]
		if !ok {
			return nil
		}
		currentIdx = prev
	}
	// reverse
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

func heuristic(x1, y1, x2, y2 int) float64 {
	return math.Abs(float64(x1-x2)) + math.Abs(float64(y1-y2))
}
