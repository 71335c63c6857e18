package genetic

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/djefts/pacmanAI/core"
)

// ErrMalformedChromosome is returned when recombination yields a move outside the alphabet
var ErrMalformedChromosome = errors.New("genetic: malformed chromosome")

// Chromosome is a candidate move sequence plus the metrics of its last simulation
type Chromosome struct {
	// Moves is the genome; a Stop ends the executable prefix
	Moves []core.Direction

	// Simulation metrics, reset on every pass
	Cost      float64
	DistStart float64
	DistGoal  float64
	Score     float64
	Penalty   int

	// Path is the realized legal path of the last simulation, End its final state
	Path []core.Direction
	End  core.Point
}

// NewChromosome draws length uniform cardinal moves
func NewChromosome(rng *rand.Rand, length int) *Chromosome {
	moves := make([]core.Direction, length)
	for i := range moves {
		moves[i] = randomCardinal(rng)
	}
	return &Chromosome{Moves: moves}
}

// NewPlaceholder returns a stop-only chromosome carrying a penalty sentinel.
// It only outranks candidates that score even worse.
func NewPlaceholder(penalty int) *Chromosome {
	return &Chromosome{
		Moves:   []core.Direction{core.Stop},
		Penalty: penalty,
	}
}

// Clone returns an independent copy, metrics included
func (c *Chromosome) Clone() *Chromosome {
	clone := *c
	clone.Moves = append([]core.Direction(nil), c.Moves...)
	if c.Path != nil {
		clone.Path = append([]core.Direction(nil), c.Path...)
	}
	return &clone
}

// Len returns the raw genome length
func (c *Chromosome) Len() int { return len(c.Moves) }

// Effective returns the executable prefix, everything before the first Stop
func (c *Chromosome) Effective() []core.Direction {
	for i, m := range c.Moves {
		if m == core.Stop {
			return c.Moves[:i]
		}
	}
	return c.Moves
}

// VerifyLegal reports whether every move is in the alphabet.
// Moves after the first Stop are cut, the Stop itself is kept.
func (c *Chromosome) VerifyLegal() bool {
	for i, m := range c.Moves {
		if m == core.Stop {
			c.Moves = c.Moves[:i+1]
			return true
		}
		if !m.IsCardinal() {
			return false
		}
	}
	return true
}

// Fitness rewards distance covered, goal distance and game score,
// and charges path cost and wall collisions
func (c *Chromosome) Fitness() float64 {
	return c.DistStart + c.Score - c.Cost + c.DistGoal - float64(c.Penalty)
}

// Crossover splits both parents into aligned chunks of the given size and
// alternates them: child one takes even chunks from c and odd chunks from
// other, child two the reverse. Combined child length equals combined parent length.
func (c *Chromosome) Crossover(other *Chromosome, chunk int) (*Chromosome, *Chromosome, error) {
	if chunk < 1 {
		chunk = 1
	}

	n := max(len(c.Moves), len(other.Moves))
	x := make([]core.Direction, 0, n)
	y := make([]core.Direction, 0, n)

	for k, lo := 0, 0; lo < n; k, lo = k+1, lo+chunk {
		mine := segment(c.Moves, lo, chunk)
		theirs := segment(other.Moves, lo, chunk)
		if k%2 == 0 {
			x = append(x, mine...)
			y = append(y, theirs...)
		} else {
			x = append(x, theirs...)
			y = append(y, mine...)
		}
	}

	child1 := &Chromosome{Moves: x}
	child2 := &Chromosome{Moves: y}
	if !child1.VerifyLegal() || !child2.VerifyLegal() {
		return nil, nil, fmt.Errorf("%w: crossover of %s and %s", ErrMalformedChromosome, c, other)
	}
	return child1, child2, nil
}

// segment returns moves[lo:lo+size] clipped to the slice, empty past the end
func segment(moves []core.Direction, lo, size int) []core.Direction {
	if lo >= len(moves) {
		return nil
	}
	return moves[lo:min(lo+size, len(moves))]
}

// Mutate overwrites one random position with a fresh cardinal move and,
// when grow is set, appends one more random move
func (c *Chromosome) Mutate(rng *rand.Rand, grow bool) {
	if n := len(c.Moves); n > 0 {
		c.Moves[rng.IntN(n)] = randomCardinal(rng)
	}
	if grow {
		c.Moves = append(c.Moves, randomCardinal(rng))
	}
}

// Record stores the move actually executed at position i
func (c *Chromosome) Record(i int, d core.Direction) {
	if i >= 0 && i < len(c.Moves) {
		c.Moves[i] = d
	}
}

// Extend drops anything from the first Stop on and appends one random move.
// Returns the index of the appended move.
func (c *Chromosome) Extend(rng *rand.Rand) int {
	c.Moves = append(c.Effective(), randomCardinal(rng))
	return len(c.Moves) - 1
}

func (c *Chromosome) resetMetrics() {
	c.Cost = 0
	c.DistStart = 0
	c.DistGoal = 0
	c.Score = 0
	c.Penalty = 0
	c.Path = nil
}

func (c *Chromosome) String() string {
	return "[" + core.FormatPath(c.Moves) + "]"
}

func randomCardinal(rng *rand.Rand) core.Direction {
	return core.Cardinals[rng.IntN(len(core.Cardinals))]
}
