package agent

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/djefts/pacmanAI/core"
	"github.com/djefts/pacmanAI/problem"
	"github.com/djefts/pacmanAI/search"
)

// Report describes the plan computed at registration
type Report struct {
	Strategy search.Strategy
	Moves    int
	Cost     float64
	Elapsed  time.Duration
	Expanded int  // -1 when the environment does not count expansions
	Reached  bool // walking the plan ends on the goal
}

// expansionCounter is implemented by environments that count node expansions
type expansionCounter interface {
	Expanded() int
}

// SearchAgent plans once when registered, then hands out one move per call
type SearchAgent struct {
	strategy search.Strategy
	solver   search.Solver
	log      *slog.Logger

	actions []core.Direction
	index   int
	outcome *search.Outcome
	report  Report
}

// New resolves the solver for strategy up front
func New(strategy search.Strategy, opts search.Options, logger *slog.Logger) (*SearchAgent, error) {
	solver, err := search.NewSolver(strategy, opts)
	if err != nil {
		return nil, err
	}
	return NewWithSolver(strategy, solver, logger), nil
}

// NewWithSolver wraps an already built solver
func NewWithSolver(strategy search.Strategy, solver search.Solver, logger *slog.Logger) *SearchAgent {
	if logger == nil {
		logger = slog.Default()
	}
	return &SearchAgent{
		strategy: strategy,
		solver:   solver,
		log:      logger.With("strategy", strategy.String()),
	}
}

// Register computes the plan for env and rewinds the action cursor
func (a *SearchAgent) Register(ctx context.Context, env problem.Environment) (Report, error) {
	started := time.Now()

	out, err := a.solver.Solve(ctx, env)
	if err != nil {
		return Report{}, fmt.Errorf("agent: %s search: %w", a.strategy, err)
	}

	elapsed := time.Since(started)
	expanded := -1
	if ec, ok := env.(expansionCounter); ok {
		expanded = ec.Expanded()
	}

	a.outcome = out
	a.actions = out.Path
	a.index = 0

	a.report = Report{
		Strategy: a.strategy,
		Moves:    len(a.actions),
		Cost:     env.CostOfActions(a.actions),
		Elapsed:  elapsed,
		Expanded: expanded,
		Reached:  Reaches(env, a.actions),
	}

	a.log.Info("path found",
		"cost", a.report.Cost,
		"moves", a.report.Moves,
		"elapsed", a.report.Elapsed.Round(time.Millisecond),
		"reached", a.report.Reached)
	if a.report.Expanded >= 0 {
		a.log.Info("search nodes expanded", "expanded", a.report.Expanded)
	}
	return a.report, nil
}

// Action returns the next planned move, Stop once the plan is exhausted
func (a *SearchAgent) Action() core.Direction {
	i := a.index
	a.index++
	if i < len(a.actions) {
		return a.actions[i]
	}
	return core.Stop
}

// Remaining returns how many planned moves have not been handed out
func (a *SearchAgent) Remaining() int {
	return max(len(a.actions)-a.index, 0)
}

// Rewind restarts the plan from its first move
func (a *SearchAgent) Rewind() { a.index = 0 }

// Plan returns a copy of the planned moves
func (a *SearchAgent) Plan() []core.Direction {
	return append([]core.Direction(nil), a.actions...)
}

// Outcome returns the raw solver output of the last registration
func (a *SearchAgent) Outcome() *search.Outcome { return a.outcome }

// Report returns the summary of the last registration
func (a *SearchAgent) Report() Report { return a.report }

// Reaches walks moves through env's successor relation and reports whether
// the walk is legal and ends on the goal
func Reaches(env problem.Environment, moves []core.Direction) bool {
	state := env.StartState()
	for _, m := range moves {
		next, ok := step(env, state, m)
		if !ok {
			return false
		}
		state = next
	}
	return env.IsGoal(state)
}

func step(env problem.Environment, state core.Point, move core.Direction) (core.Point, bool) {
	for _, s := range env.Successors(state) {
		if s.Move == move {
			return s.State, true
		}
	}
	return state, false
}
