package genetic

import (
	"math/rand/v2"

	"github.com/djefts/pacmanAI/core"
	"github.com/djefts/pacmanAI/problem"
)

// Simulator replays chromosomes against an environment from its start state
type Simulator struct {
	env problem.Environment
	rng *rand.Rand
}

// NewSimulator binds a simulator to an environment and the engine's rng
func NewSimulator(env problem.Environment, rng *rand.Rand) *Simulator {
	return &Simulator{env: env, rng: rng}
}

// Simulate walks c from the start state and refreshes its metrics.
//
// A gene with no matching successor counts one collision and is resampled in
// place; the walk continues from the same state. A walk that ends short of
// the goal gets exactly one extra random move and resumes once.
// Cost is the environment's cost of the realized path.
// Returns the final state and the realized legal path.
func (s *Simulator) Simulate(c *Chromosome) (core.Point, []core.Direction) {
	c.resetMetrics()

	start := s.env.StartState()
	path := make([]core.Direction, 0, len(c.Moves))

	state, path := s.replay(c, start, path, 0)
	if !s.env.IsGoal(state) {
		from := c.Extend(s.rng)
		state, path = s.replay(c, state, path, from)
	}

	c.Path = path
	c.End = state
	c.Cost = s.env.CostOfActions(path)
	c.DistStart = s.env.Distance(state, start)
	c.DistGoal = s.env.Distance(state, s.env.Goal())
	c.Score = s.env.Score(path)
	return state, path
}

func (s *Simulator) replay(c *Chromosome, state core.Point, path []core.Direction, from int) (core.Point, []core.Direction) {
	for i := from; i < len(c.Moves); i++ {
		if s.env.IsGoal(state) {
			break
		}
		move := c.Moves[i]
		if move == core.Stop {
			break
		}

		taken := false
		for _, succ := range s.env.Successors(state) {
			if succ.Move != move {
				continue
			}
			state = succ.State
			path = append(path, succ.Move)
			c.Record(i, succ.Move)
			taken = true
			break
		}

		if !taken {
			// Walked into a wall
			c.Penalty++
			c.Moves[i] = randomCardinal(s.rng)
		}
	}
	return state, path
}
