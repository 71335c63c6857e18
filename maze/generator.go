package maze

import (
	"math/rand/v2"

	"github.com/djefts/pacmanAI/core"
	"github.com/djefts/pacmanAI/navigation"
	"github.com/djefts/pacmanAI/parameter"
)

// GenConfig controls random layout generation
type GenConfig struct {
	Width, Height int

	// Braiding: 0.0 (perfect maze, single route) to 1.0 (no dead ends).
	// Higher values add cycles, which gives the search alternative routes.
	Braiding float64

	Seed uint64 // 0 = random
}

// Generated is a random layout with its shortest start-goal route
type Generated struct {
	Layout   *Layout
	Solution []core.Point // nil when goal is unreachable
}

// Generate carves a maze with a recursive backtracker, start top-left, goal bottom-right
func Generate(cfg GenConfig) Generated {
	rows := ensureOdd(cfg.Height)
	cols := ensureOdd(cfg.Width)

	l := NewLayout(cols, rows)
	for y := range l.Walls {
		for x := range l.Walls[y] {
			l.Walls[y][x] = true
		}
	}

	var rng *rand.Rand
	if cfg.Seed == 0 {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	} else {
		rng = rand.New(rand.NewPCG(cfg.Seed, cfg.Seed))
	}

	l.Start = core.Point{X: 1, Y: 1}
	l.Goal = core.Point{X: cols - 2, Y: rows - 2}

	carve(l, l.Start, rng)
	if cfg.Braiding > 0 {
		braid(l, cfg.Braiding, rng)
	}

	l.Walls[l.Start.Y][l.Start.X] = false
	l.Walls[l.Goal.Y][l.Goal.X] = false

	return Generated{
		Layout:   l,
		Solution: navigation.ShortestPath(cols, rows, l.Start, l.Goal, l.IsWall),
	}
}

// Two-cell jumps between rooms on odd coordinates
var jumps = [4]core.Point{{X: 0, Y: -2}, {X: 0, Y: 2}, {X: -2, Y: 0}, {X: 2, Y: 0}}

func carve(l *Layout, start core.Point, rng *rand.Rand) {
	stack := []core.Point{start}
	l.Walls[start.Y][start.X] = false

	candidates := make([]core.Point, 0, 4)
	for len(stack) > 0 {
		curr := stack[len(stack)-1]
		candidates = candidates[:0]

		for _, d := range jumps {
			nx, ny := curr.X+d.X, curr.Y+d.Y
			// Outer ring stays solid
			if nx > 0 && nx < l.Width-1 && ny > 0 && ny < l.Height-1 && l.Walls[ny][nx] {
				candidates = append(candidates, d)
			}
		}

		if len(candidates) == 0 {
			stack = stack[:len(stack)-1]
			continue
		}

		d := candidates[rng.IntN(len(candidates))]
		l.Walls[curr.Y+d.Y/2][curr.X+d.X/2] = false
		next := core.Point{X: curr.X + d.X, Y: curr.Y + d.Y}
		l.Walls[next.Y][next.X] = false
		stack = append(stack, next)
	}
}

// braid opens a wall next to dead-end rooms with the given probability
func braid(l *Layout, probability float64, rng *rand.Rand) {
	walls := make([]core.Point, 0, 4)
	for y := 1; y < l.Height-1; y += 2 {
		for x := 1; x < l.Width-1; x += 2 {
			if l.Walls[y][x] || exits(l, x, y) != 1 || rng.Float64() >= probability {
				continue
			}

			walls = walls[:0]
			for _, d := range jumps {
				nx, ny := x+d.X, y+d.Y
				wx, wy := x+d.X/2, y+d.Y/2
				if nx <= 0 || ny <= 0 || nx >= l.Width-1 || ny >= l.Height-1 {
					continue
				}
				if !l.Walls[ny][nx] && l.Walls[wy][wx] && !opensPlaza(l, wx, wy) {
					walls = append(walls, core.Point{X: wx, Y: wy})
				}
			}

			if len(walls) > 0 {
				w := walls[rng.IntN(len(walls))]
				l.Walls[w.Y][w.X] = false
			}
		}
	}
}

func exits(l *Layout, x, y int) int {
	n := 0
	for _, d := range core.Cardinals {
		v := d.Vector()
		if !l.IsWall(x+v.X, y+v.Y) {
			n++
		}
	}
	return n
}

// opensPlaza reports whether clearing (x, y) would complete a 2x2 open block
func opensPlaza(l *Layout, x, y int) bool {
	open := func(tx, ty int) bool { return !l.IsWall(tx, ty) }
	for _, q := range [4][2]int{{-1, -1}, {0, -1}, {-1, 0}, {0, 0}} {
		ox, oy := x+q[0], y+q[1]
		cells := 0
		for _, c := range [4][2]int{{0, 0}, {1, 0}, {0, 1}, {1, 1}} {
			cx, cy := ox+c[0], oy+c[1]
			if (cx == x && cy == y) || open(cx, cy) {
				cells++
			}
		}
		if cells == 4 {
			return true
		}
	}
	return false
}

func ensureOdd(n int) int {
	if n < parameter.MazeMinSize {
		return parameter.MazeMinSize
	}
	if n%2 == 0 {
		return n - 1
	}
	return n
}
