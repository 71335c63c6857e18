package search

import (
	"context"
	"sort"

	"github.com/djefts/pacmanAI/core"
	"github.com/djefts/pacmanAI/problem"
)

// frontierNode is a stacked state with the moves that reached it
type frontierNode struct {
	state core.Point
	path  []core.Direction
}

// DepthFirst runs a stack-based graph search from the start state.
// Successors are pushed cheapest first, so the costliest is expanded next.
// Returns nil when the goal is unreachable.
func DepthFirst(ctx context.Context, env problem.Environment) ([]core.Direction, error) {
	stack := []frontierNode{{state: env.StartState()}}
	closed := make(map[core.Point]struct{})

	for len(stack) > 0 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if env.IsGoal(node.state) {
			if node.path == nil {
				return []core.Direction{}, nil
			}
			return node.path, nil
		}
		if _, seen := closed[node.state]; seen {
			continue
		}
		closed[node.state] = struct{}{}

		succ := env.Successors(node.state)
		sort.SliceStable(succ, func(i, j int) bool { return succ[i].Cost < succ[j].Cost })

		for _, s := range succ {
			if _, seen := closed[s.State]; seen {
				continue
			}
			path := make([]core.Direction, len(node.path), len(node.path)+1)
			copy(path, node.path)
			stack = append(stack, frontierNode{state: s.State, path: append(path, s.Move)})
		}
	}
	return nil, nil
}
