package genetic

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sort"

	"github.com/djefts/pacmanAI/parameter"
)

// ErrInvalidConfig reports an unusable engine configuration
var ErrInvalidConfig = errors.New("genetic: invalid config")

// ErrEmptyPopulation is returned when selection runs before a population exists
var ErrEmptyPopulation = errors.New("genetic: empty population")

// --- Algorithm Engine ---

// EngineConfig holds configuration parameters for the algorithm
type EngineConfig struct {
	// PopulationSize is the number of chromosomes per generation, must be even
	PopulationSize int `json:"population_size"`
	// Generations is the fixed number of generations a search runs
	Generations int `json:"generations"`
	// CrossoverProb is the chance a selected pair is recombined (0-1)
	CrossoverProb float64 `json:"crossover_prob"`
	// MutationProb is the chance both offspring of a pair are mutated (0-1)
	MutationProb float64 `json:"mutation_prob"`
	// ChromosomeLength is the move count of random chromosomes
	ChromosomeLength int `json:"chromosome_length"`
	// EliteCount is the number of seed clones placed at the front of each population
	EliteCount int `json:"elite_count"`
	// CrossoverChunk is the segment size used by crossover
	CrossoverChunk int `json:"crossover_chunk"`
	// CrossoverRetries caps parent reselection after a malformed child
	CrossoverRetries int `json:"crossover_retries"`
	// Seed for random number generation (0 for random seed)
	Seed uint64 `json:"seed"`
}

// DefaultConfig returns a reasonable default configuration.
func DefaultConfig() EngineConfig {
	return EngineConfig{
		PopulationSize:   parameter.GAPopulationSize,
		Generations:      parameter.GAGenerations,
		CrossoverProb:    parameter.GACrossoverProbability,
		MutationProb:     parameter.GAMutationProbability,
		ChromosomeLength: parameter.GAChromosomeLength,
		EliteCount:       parameter.GAEliteCount,
		CrossoverChunk:   parameter.GACrossoverChunk,
		CrossoverRetries: parameter.GACrossoverRetries,
		Seed:             0,
	}
}

// Validate rejects configurations the engine cannot run
func (c EngineConfig) Validate() error {
	switch {
	case c.PopulationSize < 2 || c.PopulationSize%2 != 0:
		return fmt.Errorf("%w: population size %d must be even and at least 2", ErrInvalidConfig, c.PopulationSize)
	case c.Generations < 1:
		return fmt.Errorf("%w: generations %d must be positive", ErrInvalidConfig, c.Generations)
	case c.CrossoverProb < 0 || c.CrossoverProb > 1:
		return fmt.Errorf("%w: crossover probability %v outside [0,1]", ErrInvalidConfig, c.CrossoverProb)
	case c.MutationProb < 0 || c.MutationProb > 1:
		return fmt.Errorf("%w: mutation probability %v outside [0,1]", ErrInvalidConfig, c.MutationProb)
	case c.ChromosomeLength < 1:
		return fmt.Errorf("%w: chromosome length %d must be positive", ErrInvalidConfig, c.ChromosomeLength)
	case c.EliteCount < 0:
		return fmt.Errorf("%w: elite count %d is negative", ErrInvalidConfig, c.EliteCount)
	case c.CrossoverChunk < 1:
		return fmt.Errorf("%w: crossover chunk %d must be positive", ErrInvalidConfig, c.CrossoverChunk)
	case c.CrossoverRetries < 0:
		return fmt.Errorf("%w: crossover retries %d is negative", ErrInvalidConfig, c.CrossoverRetries)
	}
	return nil
}

// NewRand builds the engine rng, PCG seeded from seed or from the global source when 0
func NewRand(seed uint64) *rand.Rand {
	if seed == 0 {
		return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return rand.New(rand.NewPCG(seed, seed))
}

// Interval is a half-open [Lo, Hi) slice of the roulette wheel
type Interval struct {
	Lo, Hi float64
}

// Population is one generation of chromosomes with its selection wheel
type Population struct {
	Members  []*Chromosome
	Roulette []Interval
}

// Engine owns the population and applies selection, crossover and mutation
type Engine struct {
	config EngineConfig
	rng    *rand.Rand
	pop    *Population
	log    *slog.Logger

	crossoverFailures int
}

// NewEngine creates an engine; config is assumed validated
func NewEngine(config EngineConfig, rng *rand.Rand, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		config: config,
		rng:    rng,
		pop:    &Population{},
		log:    logger,
	}
}

// Population returns the current generation
func (e *Engine) Population() *Population { return e.pop }

// CrossoverFailures returns the malformed-child count since the engine was created
func (e *Engine) CrossoverFailures() int { return e.crossoverFailures }

// BuildPopulation lays out the next generation: EliteCount clones of seed,
// then offspring carried over from the last EvolveGeneration, then random fill
func (e *Engine) BuildPopulation(seed *Chromosome) *Population {
	size := e.config.PopulationSize
	members := make([]*Chromosome, 0, size)

	elite := min(e.config.EliteCount, size)
	for i := 0; i < elite && seed != nil; i++ {
		members = append(members, seed.Clone())
	}

	for _, c := range e.pop.Members {
		if len(members) == size {
			break
		}
		members = append(members, c)
	}

	for len(members) < size {
		members = append(members, NewChromosome(e.rng, e.config.ChromosomeLength))
	}

	e.pop = &Population{Members: members}
	return e.pop
}

// ComputeRoulette lays fitness-proportional intervals over [0,1).
// When any fitness is <= 0 all weights are shifted so the smallest becomes 1.
func (e *Engine) ComputeRoulette() error {
	n := len(e.pop.Members)
	if n == 0 {
		return ErrEmptyPopulation
	}

	weights := make([]float64, n)
	lowest := e.pop.Members[0].Fitness()
	for i, c := range e.pop.Members {
		weights[i] = c.Fitness()
		lowest = min(lowest, weights[i])
	}

	shift := 0.0
	if lowest <= 0 {
		shift = 1 - lowest
	}

	total := 0.0
	for i := range weights {
		weights[i] += shift
		total += weights[i]
	}

	wheel := make([]Interval, n)
	lo := 0.0
	for i, w := range weights {
		hi := lo + w/total
		wheel[i] = Interval{Lo: lo, Hi: hi}
		lo = hi
	}
	// Close rounding drift so the wheel covers all of [0,1)
	wheel[n-1].Hi = 1

	e.pop.Roulette = wheel
	return nil
}

// SelectParent spins the wheel and returns a member index
func (e *Engine) SelectParent() int {
	wheel := e.pop.Roulette
	n := len(wheel)
	if n == 0 {
		return 0
	}

	spin := e.rng.Float64()
	i := sort.Search(n, func(i int) bool { return wheel[i].Hi > spin })
	if i >= n {
		return n - 1
	}
	return i
}

// EvolveGeneration breeds PopulationSize offspring and replaces the population with them
func (e *Engine) EvolveGeneration() error {
	if err := e.ComputeRoulette(); err != nil {
		return err
	}

	size := e.config.PopulationSize
	next := make([]*Chromosome, 0, size)
	for pair := 0; pair < size/2; pair++ {
		x, y, err := e.breed()
		if err != nil {
			return fmt.Errorf("genetic: breeding pair %d: %w", pair, err)
		}
		next = append(next, x, y)
	}

	e.pop = &Population{Members: next}
	return nil
}

// breed selects two parents with replacement and produces two offspring
func (e *Engine) breed() (*Chromosome, *Chromosome, error) {
	for attempt := 0; ; attempt++ {
		x := e.pop.Members[e.SelectParent()].Clone()
		y := e.pop.Members[e.SelectParent()].Clone()

		if e.rng.Float64() < e.config.CrossoverProb {
			cx, cy, err := x.Crossover(y, e.config.CrossoverChunk)
			if err != nil {
				e.crossoverFailures++
				if attempt >= e.config.CrossoverRetries {
					return nil, nil, err
				}
				e.log.Warn("crossover produced malformed child, reselecting parents",
					"attempt", attempt+1, "error", err)
				continue
			}
			x, y = cx, cy
		}

		if e.rng.Float64() < e.config.MutationProb {
			x.Mutate(e.rng, true)
			y.Mutate(e.rng, true)
		}
		return x, y, nil
	}
}
