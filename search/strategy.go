package search

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/djefts/pacmanAI/core"
	"github.com/djefts/pacmanAI/genetic"
	"github.com/djefts/pacmanAI/problem"
)

// ErrUnknownStrategy is returned when a strategy name does not resolve
var ErrUnknownStrategy = errors.New("search: unknown strategy")

// Strategy identifies one of the closed set of search implementations
type Strategy uint8

const (
	DFS Strategy = iota + 1
	GA
)

var strategyInfo = map[Strategy]struct {
	name  string
	about string
}{
	DFS: {"dfs", "stack-based depth-first graph search"},
	GA:  {"ga", "genetic algorithm over move sequences"},
}

// strategyNames maps accepted names and aliases to strategies
var strategyNames = map[string]Strategy{
	"dfs":               DFS,
	"depth-first":       DFS,
	"depthfirstsearch":  DFS,
	"ga":                GA,
	"genetic":           GA,
	"genalgsearch":      GA,
	"genetic-algorithm": GA,
}

func (s Strategy) String() string {
	if info, ok := strategyInfo[s]; ok {
		return info.name
	}
	return fmt.Sprintf("Strategy(%d)", uint8(s))
}

// Description is a one-line summary for listings
func (s Strategy) Description() string {
	return strategyInfo[s].about
}

// ParseStrategy resolves a name or alias, case-insensitively
func ParseStrategy(name string) (Strategy, error) {
	if s, ok := strategyNames[strings.ToLower(strings.TrimSpace(name))]; ok {
		return s, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownStrategy, name)
}

// Strategies lists every strategy in declaration order
func Strategies() []Strategy {
	out := make([]Strategy, 0, len(strategyInfo))
	for s := range strategyInfo {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Outcome is what a solver hands back to the agent
type Outcome struct {
	Path []core.Direction
	// Genetic holds the full GA result, nil for other strategies
	Genetic *genetic.Result
}

// Solver computes a plan for an environment
type Solver interface {
	Solve(ctx context.Context, env problem.Environment) (*Outcome, error)
}

// SolverFunc adapts a plain function to Solver
type SolverFunc func(ctx context.Context, env problem.Environment) (*Outcome, error)

func (f SolverFunc) Solve(ctx context.Context, env problem.Environment) (*Outcome, error) {
	return f(ctx, env)
}

// Options carries per-strategy settings
type Options struct {
	Genetic        genetic.EngineConfig
	GeneticOptions []genetic.Option
}

// DefaultOptions returns options with the default engine config
func DefaultOptions() Options {
	return Options{Genetic: genetic.DefaultConfig()}
}

// NewSolver builds the implementation for s
func NewSolver(s Strategy, opts Options) (Solver, error) {
	switch s {
	case DFS:
		return SolverFunc(func(ctx context.Context, env problem.Environment) (*Outcome, error) {
			path, err := DepthFirst(ctx, env)
			if err != nil {
				return nil, err
			}
			return &Outcome{Path: path}, nil
		}), nil

	case GA:
		if err := opts.Genetic.Validate(); err != nil {
			return nil, err
		}
		return SolverFunc(func(ctx context.Context, env problem.Environment) (*Outcome, error) {
			ga, err := genetic.NewSearch(env, opts.Genetic, opts.GeneticOptions...)
			if err != nil {
				return nil, err
			}
			res, err := ga.Run(ctx)
			if err != nil {
				return nil, err
			}
			return &Outcome{Path: res.Path, Genetic: res}, nil
		}), nil
	}
	return nil, fmt.Errorf("%w: %v", ErrUnknownStrategy, s)
}
