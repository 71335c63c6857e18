package navigation

import "github.com/djefts/pacmanAI/core"

// Unreachable is the distance reported for cells with no route to the target
const Unreachable = -1

// WallChecker is a function that returns true if cell blocks navigation
type WallChecker func(x, y int) bool

// 4-connected neighbourhood, N S E W
var neighbours = [4][2]int{{0, -1}, {0, 1}, {1, 0}, {-1, 0}}

// DistanceField stores BFS step counts from a single target cell
type DistanceField struct {
	Width, Height int
	Distances     []int // Steps to target, Unreachable if blocked or cut off

	Target core.Point
	Valid  bool

	// Reusable queue buffer across recomputes
	queue []int
}

// NewDistanceField creates an empty field for the given dimensions
func NewDistanceField(width, height int) *DistanceField {
	size := width * height
	return &DistanceField{
		Width:     width,
		Height:    height,
		Distances: make([]int, size),
		Target:    core.Point{X: -1, Y: -1},
		queue:     make([]int, 0, size/4+1),
	}
}

// Compute runs a unit-cost BFS outward from target
func (f *DistanceField) Compute(target core.Point, isBlocked WallChecker) {
	f.Target = target
	for i := range f.Distances {
		f.Distances[i] = Unreachable
	}

	if target.X < 0 || target.Y < 0 || target.X >= f.Width || target.Y >= f.Height || isBlocked(target.X, target.Y) {
		// Everything stays unreachable, but the field is still a valid answer
		f.Valid = true
		return
	}

	w := f.Width
	start := target.Y*w + target.X
	f.Distances[start] = 0
	f.queue = append(f.queue[:0], start)

	for head := 0; head < len(f.queue); head++ {
		idx := f.queue[head]
		cx, cy := idx%w, idx/w
		next := f.Distances[idx] + 1

		for _, n := range neighbours {
			nx, ny := cx+n[0], cy+n[1]
			if nx < 0 || ny < 0 || nx >= f.Width || ny >= f.Height {
				continue
			}
			nIdx := ny*w + nx
			if f.Distances[nIdx] != Unreachable || isBlocked(nx, ny) {
				continue
			}
			f.Distances[nIdx] = next
			f.queue = append(f.queue, nIdx)
		}
	}

	f.Valid = true
}

// GetDistance returns steps from (x, y) to the target, Unreachable if none
func (f *DistanceField) GetDistance(x, y int) int {
	if !f.Valid || x < 0 || y < 0 || x >= f.Width || y >= f.Height {
		return Unreachable
	}
	return f.Distances[y*f.Width+x]
}

// ShortestPath returns the cell sequence from start to end inclusive, nil if unreachable
func ShortestPath(width, height int, start, end core.Point, isBlocked WallChecker) []core.Point {
	f := NewDistanceField(width, height)
	f.Compute(end, isBlocked)

	d := f.GetDistance(start.X, start.Y)
	if d == Unreachable {
		return nil
	}

	// Steepest descent toward the target
	path := make([]core.Point, 0, d+1)
	curr := start
	path = append(path, curr)
	for d > 0 {
		for _, n := range neighbours {
			nx, ny := curr.X+n[0], curr.Y+n[1]
			if f.GetDistance(nx, ny) == d-1 {
				curr = core.Point{X: nx, Y: ny}
				break
			}
		}
		d--
		path = append(path, curr)
	}
	return path
}
