package problem

import (
	"sort"

	"github.com/djefts/pacmanAI/core"
	"github.com/djefts/pacmanAI/maze"
	"github.com/djefts/pacmanAI/navigation"
	"github.com/djefts/pacmanAI/parameter"
)

// CostFunc prices stepping onto a cell
type CostFunc func(p core.Point) float64

// UnitCost charges 1 for every step
func UnitCost(core.Point) float64 { return 1 }

// PositionProblem searches for a route from the layout's start cell to its goal cell
type PositionProblem struct {
	layout  *maze.Layout
	costFn  CostFunc
	dist    *navigation.DistanceCache
	start   core.Point
	goal    core.Point
	visited map[core.Point]struct{}

	expanded int
	// BaseScore is the game score before any move is made
	BaseScore float64
}

// Option customises a PositionProblem
type Option func(*PositionProblem)

// WithCost replaces the per-step cost function
func WithCost(fn CostFunc) Option {
	return func(p *PositionProblem) { p.costFn = fn }
}

// WithStart overrides the layout's start cell
func WithStart(s core.Point) Option {
	return func(p *PositionProblem) { p.start = s }
}

// WithGoal overrides the layout's goal cell
func WithGoal(g core.Point) Option {
	return func(p *PositionProblem) { p.goal = g }
}

// NewPositionProblem binds a problem to a layout
func NewPositionProblem(l *maze.Layout, opts ...Option) *PositionProblem {
	p := &PositionProblem{
		layout:  l,
		costFn:  UnitCost,
		dist:    navigation.NewDistanceCache(l.Width, l.Height, l.IsWall),
		start:   l.Start,
		goal:    l.Goal,
		visited: make(map[core.Point]struct{}),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Layout returns the underlying grid
func (p *PositionProblem) Layout() *maze.Layout { return p.layout }

func (p *PositionProblem) StartState() core.Point { return p.start }

func (p *PositionProblem) Goal() core.Point { return p.goal }

func (p *PositionProblem) IsGoal(state core.Point) bool { return state == p.goal }

// Successors lists open neighbours in N, S, E, W order and counts the expansion
func (p *PositionProblem) Successors(state core.Point) []Successor {
	succ := make([]Successor, 0, 4)
	for _, d := range core.Cardinals {
		next := state.Add(d)
		if p.layout.IsWall(next.X, next.Y) {
			continue
		}
		succ = append(succ, Successor{State: next, Move: d, Cost: p.costFn(next)})
	}

	p.expanded++
	p.visited[state] = struct{}{}
	return succ
}

func (p *PositionProblem) CostOfActions(moves []core.Direction) float64 {
	curr := p.start
	cost := 0.0
	for _, m := range moves {
		if m == core.Stop {
			continue
		}
		next := curr.Add(m)
		if !m.IsCardinal() || p.layout.IsWall(next.X, next.Y) {
			return IllegalCost
		}
		curr = next
		cost += p.costFn(curr)
	}
	return cost
}

func (p *PositionProblem) Distance(a, b core.Point) float64 {
	d := p.dist.Distance(a, b)
	if d == navigation.Unreachable {
		return 0
	}
	return float64(d)
}

// Score follows the arcade rules: each executed move costs a point,
// finishing on the goal pays the win bonus. Walls end the walk early.
func (p *PositionProblem) Score(path []core.Direction) float64 {
	score := p.BaseScore
	curr := p.start
	for _, m := range path {
		next := curr.Add(m)
		if !m.IsCardinal() || p.layout.IsWall(next.X, next.Y) {
			break
		}
		curr = next
		score -= parameter.ScoreTimePenalty
	}
	if curr == p.goal {
		score += parameter.ScoreWinBonus
	}
	return score
}

// Expanded returns how many states had their successors generated
func (p *PositionProblem) Expanded() int { return p.expanded }

// Visited returns the distinct states expanded so far in row-major order
func (p *PositionProblem) Visited() []core.Point {
	out := make([]core.Point, 0, len(p.visited))
	for s := range p.visited {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Y != out[j].Y {
			return out[i].Y < out[j].Y
		}
		return out[i].X < out[j].X
	})
	return out
}
