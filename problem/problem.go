// Package problem defines the environment contract consumed by the search
// strategies and a grid position problem that implements it.
package problem

import "github.com/djefts/pacmanAI/core"

// Successor is one legal transition out of a state
type Successor struct {
	State core.Point
	Move  core.Direction // Always cardinal, never Stop
	Cost  float64
}

// Environment is the game world as seen by a search strategy
type Environment interface {
	StartState() core.Point
	Successors(state core.Point) []Successor
	IsGoal(state core.Point) bool

	// CostOfActions returns the total step cost of moves walked from the start.
	// Sequences that hit a wall cost IllegalCost.
	CostOfActions(moves []core.Direction) float64

	Goal() core.Point

	// Distance returns the maze distance between two states, 0 when disconnected
	Distance(a, b core.Point) float64

	// Score returns the game score held after walking path from the start
	Score(path []core.Direction) float64
}

// IllegalCost marks an action sequence that cannot be executed
const IllegalCost = 999999
