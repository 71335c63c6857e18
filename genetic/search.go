package genetic

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/djefts/pacmanAI/core"
	"github.com/djefts/pacmanAI/parameter"
	"github.com/djefts/pacmanAI/problem"
)

const tracerName = "github.com/djefts/pacmanAI/genetic"

// GenerationStats summarises one finished generation
type GenerationStats struct {
	Generation        int
	Best              float64 // Best fitness within the generation
	Average           float64
	BestOverall       float64 // Best fitness seen so far, never decreases
	Collisions        int     // Wall hits across all members
	Simulations       int
	CrossoverFailures int // Cumulative
	Duration          time.Duration
}

// Recorder receives per-generation statistics
type Recorder interface {
	RecordGeneration(stats GenerationStats)
}

// Result is the outcome of a full search
type Result struct {
	// Moves is the best-overall genome, Path the legal moves it realized
	Moves []core.Direction
	Path  []core.Direction

	Fitness    float64
	Generation int // Generation index the best was found in
	Collisions int
	Reached    bool
	History    []GenerationStats
}

// Search drives the generational loop and owns the best-overall record
type Search struct {
	env    problem.Environment
	config EngineConfig
	engine *Engine
	sim    *Simulator

	log      *slog.Logger
	recorder Recorder
	tracer   trace.Tracer

	best           *Chromosome
	bestGeneration int
}

// Option customises a Search
type Option func(*Search)

// WithLogger sets the structured logger
func WithLogger(l *slog.Logger) Option {
	return func(s *Search) { s.log = l }
}

// WithRecorder attaches a metrics sink
func WithRecorder(r Recorder) Option {
	return func(s *Search) { s.recorder = r }
}

// WithTracer overrides the tracer taken from the global provider
func WithTracer(t trace.Tracer) Option {
	return func(s *Search) { s.tracer = t }
}

// NewSearch validates config and wires engine and simulator around one rng
func NewSearch(env problem.Environment, config EngineConfig, opts ...Option) (*Search, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	s := &Search{
		env:    env,
		config: config,
		log:    slog.Default(),
		tracer: otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(s)
	}

	rng := NewRand(config.Seed)
	s.engine = NewEngine(config, rng, s.log)
	s.sim = NewSimulator(env, rng)
	return s, nil
}

// Engine exposes the underlying GA engine
func (s *Search) Engine() *Engine { return s.engine }

// Run evolves the configured number of generations and returns the best-overall candidate
func (s *Search) Run(ctx context.Context) (*Result, error) {
	ctx, span := s.tracer.Start(ctx, "genetic.Search.Run", trace.WithAttributes(
		attribute.Int("ga.population_size", s.config.PopulationSize),
		attribute.Int("ga.generations", s.config.Generations),
	))
	defer span.End()

	s.best = NewPlaceholder(parameter.GAOverallBestPenalty)
	s.bestGeneration = 0

	seed := NewPlaceholder(parameter.GAGenerationBestPenalty)
	history := make([]GenerationStats, 0, s.config.Generations)

	for gen := 0; gen < s.config.Generations; gen++ {
		// Check context cancellation
		if err := ctx.Err(); err != nil {
			span.SetStatus(codes.Error, "cancelled")
			return nil, err
		}

		genBest, stats, err := s.generation(ctx, gen, seed)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return nil, err
		}

		history = append(history, stats)
		if s.recorder != nil {
			s.recorder.RecordGeneration(stats)
		}
		s.log.Debug("generation complete",
			"generation", gen+1,
			"of", s.config.Generations,
			"best", stats.Best,
			"average", stats.Average,
			"best_overall", stats.BestOverall,
			"chromosome", genBest.String())

		seed = genBest
	}

	result := &Result{
		Moves:      append([]core.Direction(nil), s.best.Moves...),
		Path:       append([]core.Direction(nil), s.best.Path...),
		Fitness:    s.best.Fitness(),
		Generation: s.bestGeneration,
		Collisions: s.best.Penalty,
		Reached:    s.best.Path != nil && s.env.IsGoal(s.best.End),
		History:    history,
	}

	span.SetAttributes(
		attribute.Float64("ga.best_fitness", result.Fitness),
		attribute.Int("ga.best_generation", result.Generation),
		attribute.Bool("ga.reached", result.Reached),
	)
	s.log.Info("genetic search finished",
		"best_generation", result.Generation+1,
		"generations", s.config.Generations,
		"fitness", result.Fitness,
		"path_length", len(result.Path),
		"collisions", result.Collisions,
		"reached", result.Reached)
	return result, nil
}

// generation runs one build-simulate-track-evolve cycle
func (s *Search) generation(ctx context.Context, gen int, seed *Chromosome) (*Chromosome, GenerationStats, error) {
	_, span := s.tracer.Start(ctx, "genetic.generation", trace.WithAttributes(attribute.Int("ga.generation", gen)))
	defer span.End()

	started := time.Now()
	genBest := NewPlaceholder(parameter.GAGenerationBestPenalty)
	pop := s.engine.BuildPopulation(seed)

	total := 0.0
	collisions := 0
	for _, c := range pop.Members {
		s.sim.Simulate(c)
		f := c.Fitness()
		total += f
		collisions += c.Penalty
		if f > genBest.Fitness() {
			genBest = c.Clone()
		}
	}

	if genBest.Fitness() > s.best.Fitness() {
		s.best = genBest.Clone()
		s.bestGeneration = gen
	}

	stats := GenerationStats{
		Generation:  gen,
		Best:        genBest.Fitness(),
		Average:     total / float64(len(pop.Members)),
		BestOverall: s.best.Fitness(),
		Collisions:  collisions,
		Simulations: len(pop.Members),
	}

	if err := s.engine.EvolveGeneration(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, stats, fmt.Errorf("generation %d: %w", gen, err)
	}

	stats.CrossoverFailures = s.engine.CrossoverFailures()
	stats.Duration = time.Since(started)
	span.SetAttributes(
		attribute.Float64("ga.best", stats.Best),
		attribute.Float64("ga.average", stats.Average),
		attribute.Int("ga.collisions", stats.Collisions),
	)
	return genBest, stats, nil
}

// Best returns the best-overall chromosome and the generation it was found in
func (s *Search) Best() (*Chromosome, int) {
	if s.best == nil {
		return nil, 0
	}
	return s.best.Clone(), s.bestGeneration
}
