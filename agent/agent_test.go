package agent

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/djefts/pacmanAI/core"
	"github.com/djefts/pacmanAI/maze"
	"github.com/djefts/pacmanAI/problem"
	"github.com/djefts/pacmanAI/search"
)

const tinyMaze = `%%%%%%%
%    P%
% %%% %
%  %  %
%%   %%
%. %%%%
%%%%%%%
`

func tinyProblem(t *testing.T) *problem.PositionProblem {
	t.Helper()
	l, err := maze.ParseString(tinyMaze)
	require.NoError(t, err)
	return problem.NewPositionProblem(l)
}

func TestSearchAgent_DepthFirst(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))

	a, err := New(search.DFS, search.DefaultOptions(), logger)
	require.NoError(t, err)

	env := tinyProblem(t)
	report, err := a.Register(context.Background(), env)
	require.NoError(t, err)

	assert.True(t, report.Reached)
	assert.Equal(t, search.DFS, report.Strategy)
	assert.Equal(t, env.CostOfActions(a.Plan()), report.Cost)
	assert.Positive(t, report.Expanded)
	assert.Equal(t, report.Moves, a.Remaining())

	assert.Contains(t, logs.String(), "path found")
	assert.Contains(t, logs.String(), "strategy=dfs")
	assert.Contains(t, logs.String(), "search nodes expanded")

	plan := a.Plan()
	for i, want := range plan {
		assert.Equal(t, want, a.Action(), "action %d", i)
	}
	assert.Equal(t, core.Stop, a.Action())
	assert.Equal(t, core.Stop, a.Action())
	assert.Zero(t, a.Remaining())

	a.Rewind()
	assert.Equal(t, plan[0], a.Action())
}

func TestSearchAgent_Genetic(t *testing.T) {
	opts := search.DefaultOptions()
	opts.Genetic.Seed = 12
	a, err := New(search.GA, opts, slog.New(slog.DiscardHandler))
	require.NoError(t, err)

	env := tinyProblem(t)
	report, err := a.Register(context.Background(), env)
	require.NoError(t, err)

	require.NotNil(t, a.Outcome())
	require.NotNil(t, a.Outcome().Genetic)
	assert.Equal(t, a.Outcome().Genetic.Reached, report.Reached)

	// The executed plan is the realized legal path, never a wall bump
	assert.Less(t, report.Cost, float64(problem.IllegalCost))
	assert.Equal(t, a.Outcome().Genetic.Path, a.Plan())
}

func TestSearchAgent_NoPathActsStop(t *testing.T) {
	empty := search.SolverFunc(func(context.Context, problem.Environment) (*search.Outcome, error) {
		return &search.Outcome{}, nil
	})
	a := NewWithSolver(search.DFS, empty, nil)

	report, err := a.Register(context.Background(), tinyProblem(t))
	require.NoError(t, err)
	assert.False(t, report.Reached)
	assert.Zero(t, report.Moves)
	assert.Equal(t, core.Stop, a.Action())
}

func TestSearchAgent_SolverError(t *testing.T) {
	boom := errors.New("boom")
	failing := search.SolverFunc(func(context.Context, problem.Environment) (*search.Outcome, error) {
		return nil, boom
	})
	a := NewWithSolver(search.GA, failing, slog.New(slog.DiscardHandler))

	_, err := a.Register(context.Background(), tinyProblem(t))
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "ga search")
}

func TestNew_UnknownStrategy(t *testing.T) {
	_, err := New(search.Strategy(0), search.DefaultOptions(), nil)
	assert.ErrorIs(t, err, search.ErrUnknownStrategy)
}

func TestReaches(t *testing.T) {
	env := tinyProblem(t)
	assert.False(t, Reaches(env, nil))
	assert.False(t, Reaches(env, []core.Direction{core.East}), "wall")
	assert.False(t, Reaches(env, []core.Direction{core.West}), "legal but short")
}
