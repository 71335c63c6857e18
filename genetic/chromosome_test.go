package genetic

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/djefts/pacmanAI/core"
)

const (
	N = core.North
	S = core.South
	E = core.East
	W = core.West
	X = core.Stop
)

func TestNewChromosome(t *testing.T) {
	rng := NewRand(1)
	c := NewChromosome(rng, 100)

	require.Len(t, c.Moves, 100)
	for i, m := range c.Moves {
		assert.True(t, m.IsCardinal(), "move %d is %v", i, m)
	}
	assert.True(t, c.VerifyLegal())
	assert.Len(t, c.Moves, 100, "no stop, nothing truncated")
}

func TestChromosome_VerifyLegal(t *testing.T) {
	c := &Chromosome{Moves: []core.Direction{N, E, X, W, S}}
	assert.True(t, c.VerifyLegal())
	assert.Equal(t, []core.Direction{N, E, X}, c.Moves, "moves after stop are cut")

	bad := &Chromosome{Moves: []core.Direction{N, core.Direction(7), E}}
	assert.False(t, bad.VerifyLegal())

	negative := &Chromosome{Moves: []core.Direction{core.Direction(-1)}}
	assert.False(t, negative.VerifyLegal())

	// An invalid move behind the stop is never looked at
	hidden := &Chromosome{Moves: []core.Direction{X, core.Direction(7)}}
	assert.True(t, hidden.VerifyLegal())
	assert.Equal(t, []core.Direction{X}, hidden.Moves)
}

func TestChromosome_CloneIsDeep(t *testing.T) {
	src := &Chromosome{
		Moves:     []core.Direction{N, S, E, W},
		Cost:      3,
		DistStart: 2,
		DistGoal:  1,
		Score:     10,
		Penalty:   1,
		Path:      []core.Direction{N, S, E},
	}
	clone := src.Clone()

	assert.Equal(t, src.Fitness(), clone.Fitness())
	assert.Equal(t, src.Cost, clone.Cost)

	clone.Moves[0] = W
	clone.Path[0] = W
	clone.Mutate(NewRand(3), true)
	clone.Record(1, E)

	assert.Equal(t, []core.Direction{N, S, E, W}, src.Moves)
	assert.Equal(t, []core.Direction{N, S, E}, src.Path)
	assert.Len(t, clone.Moves, 5)
}

func TestChromosome_Fitness(t *testing.T) {
	c := &Chromosome{DistStart: 4, Score: 496, Cost: 4, DistGoal: 0, Penalty: 2}
	assert.Equal(t, 4.0+496-4+0-2, c.Fitness())

	// Goal distance is added, not subtracted
	far := &Chromosome{DistGoal: 10}
	near := &Chromosome{DistGoal: 1}
	assert.Greater(t, far.Fitness(), near.Fitness())

	assert.Equal(t, -300.0, NewPlaceholder(300).Fitness())
}

func TestChromosome_CrossoverAlternatesChunks(t *testing.T) {
	p1 := &Chromosome{Moves: []core.Direction{N, S, E, W}}
	p2 := &Chromosome{Moves: []core.Direction{S, N, W, E}}

	c1, c2, err := p1.Crossover(p2, 2)
	require.NoError(t, err)
	require.Len(t, c1.Moves, 4)
	require.Len(t, c2.Moves, 4)

	// Chunk k of child one comes from p1 when k is even, p2 when odd; child two mirrors it
	for k := 0; k < 2; k++ {
		lo, hi := 2*k, 2*k+2
		from1, from2 := p1, p2
		if k%2 == 1 {
			from1, from2 = p2, p1
		}
		assert.Equal(t, from1.Moves[lo:hi], c1.Moves[lo:hi], "child1 chunk %d", k)
		assert.Equal(t, from2.Moves[lo:hi], c2.Moves[lo:hi], "child2 chunk %d", k)
	}

	// Parents are left untouched
	assert.Equal(t, []core.Direction{N, S, E, W}, p1.Moves)
	assert.Equal(t, []core.Direction{S, N, W, E}, p2.Moves)
}

func TestChromosome_CrossoverPreservesTotalLength(t *testing.T) {
	rng := NewRand(5)
	cases := []struct {
		name       string
		len1, len2 int
		chunk      int
	}{
		{"equal aligned", 8, 8, 2},
		{"equal odd", 7, 7, 2},
		{"first longer", 11, 4, 2},
		{"second longer", 3, 10, 2},
		{"one empty", 0, 6, 2},
		{"chunk three", 9, 5, 3},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p1 := NewChromosome(rng, tc.len1)
			p2 := NewChromosome(rng, tc.len2)

			c1, c2, err := p1.Crossover(p2, tc.chunk)
			require.NoError(t, err)
			assert.Equal(t, tc.len1+tc.len2, c1.Len()+c2.Len())
			assert.True(t, c1.VerifyLegal())
			assert.True(t, c2.VerifyLegal())
		})
	}
}

func TestChromosome_CrossoverStopTruncates(t *testing.T) {
	// A stop inherited by a child cuts that child short, so total length shrinks
	p1 := &Chromosome{Moves: []core.Direction{N, X, E, W}}
	p2 := &Chromosome{Moves: []core.Direction{S, N, W, E}}

	c1, c2, err := p1.Crossover(p2, 2)
	require.NoError(t, err)
	assert.Equal(t, []core.Direction{N, X}, c1.Moves)
	assert.Equal(t, []core.Direction{S, N, E, W}, c2.Moves)
	assert.Less(t, c1.Len()+c2.Len(), p1.Len()+p2.Len())
}

func TestChromosome_CrossoverMalformed(t *testing.T) {
	p1 := &Chromosome{Moves: []core.Direction{N, S, core.Direction(9), W}}
	p2 := &Chromosome{Moves: []core.Direction{S, N, W, E}}

	c1, c2, err := p1.Crossover(p2, 2)
	assert.Nil(t, c1)
	assert.Nil(t, c2)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMalformedChromosome))
}

func TestChromosome_Mutate(t *testing.T) {
	rng := NewRand(9)
	c := &Chromosome{Moves: []core.Direction{N, N, N, N}}

	c.Mutate(rng, false)
	assert.Len(t, c.Moves, 4)

	c.Mutate(rng, true)
	require.Len(t, c.Moves, 5)
	for _, m := range c.Moves {
		assert.True(t, m.IsCardinal())
	}

	empty := &Chromosome{}
	empty.Mutate(rng, false)
	assert.Empty(t, empty.Moves)
	empty.Mutate(rng, true)
	assert.Len(t, empty.Moves, 1)
}

func TestChromosome_RecordAndExtend(t *testing.T) {
	c := &Chromosome{Moves: []core.Direction{N, S, X}}

	c.Record(1, E)
	c.Record(7, W) // out of range, ignored
	assert.Equal(t, []core.Direction{N, E, X}, c.Moves)

	idx := c.Extend(NewRand(2))
	assert.Equal(t, 2, idx)
	require.Len(t, c.Moves, 3)
	assert.True(t, c.Moves[2].IsCardinal(), "trailing stop replaced by a move")

	assert.Equal(t, []core.Direction{N}, (&Chromosome{Moves: []core.Direction{N, X, E}}).Effective())
	assert.Equal(t, "[NEX]", (&Chromosome{Moves: []core.Direction{N, E, X}}).String())
}
