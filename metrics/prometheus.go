package metrics

import (
	"fmt"
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/common/expfmt"

	"github.com/djefts/pacmanAI/agent"
	"github.com/djefts/pacmanAI/genetic"
)

// Search holds the collectors for search runs on one registry
type Search struct {
	GenerationsTotal      prometheus.Counter
	CollisionsTotal       prometheus.Counter
	CrossoverFailures     prometheus.Gauge
	GenerationBestFitness prometheus.Gauge
	GenerationAvgFitness  prometheus.Gauge
	BestOverallFitness    prometheus.Gauge
	GenerationDuration    prometheus.Histogram

	SolvesTotal   *prometheus.CounterVec
	PathLength    *prometheus.GaugeVec
	PathCost      *prometheus.GaugeVec
	NodesExpanded *prometheus.GaugeVec
	SolveDuration *prometheus.HistogramVec
}

// NewSearch registers the collectors on reg
func NewSearch(reg prometheus.Registerer) *Search {
	f := promauto.With(reg)
	return &Search{
		GenerationsTotal: f.NewCounter(prometheus.CounterOpts{
			Name: "pacman_ga_generations_total",
			Help: "Total generations evolved",
		}),
		CollisionsTotal: f.NewCounter(prometheus.CounterOpts{
			Name: "pacman_ga_collisions_total",
			Help: "Wall collisions repaired during simulation",
		}),
		CrossoverFailures: f.NewGauge(prometheus.GaugeOpts{
			Name: "pacman_ga_crossover_failures",
			Help: "Malformed crossover children in the current run",
		}),
		GenerationBestFitness: f.NewGauge(prometheus.GaugeOpts{
			Name: "pacman_ga_generation_best_fitness",
			Help: "Best fitness of the last generation",
		}),
		GenerationAvgFitness: f.NewGauge(prometheus.GaugeOpts{
			Name: "pacman_ga_generation_average_fitness",
			Help: "Average fitness of the last generation",
		}),
		BestOverallFitness: f.NewGauge(prometheus.GaugeOpts{
			Name: "pacman_ga_best_overall_fitness",
			Help: "Best fitness seen so far in the run",
		}),
		GenerationDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "pacman_ga_generation_duration_seconds",
			Help:    "Time to simulate and evolve one generation",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
		}),

		SolvesTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "pacman_solves_total",
			Help: "Completed plans by strategy and outcome",
		}, []string{"strategy", "reached"}),
		PathLength: f.NewGaugeVec(prometheus.GaugeOpts{
			Name: "pacman_path_length",
			Help: "Moves in the last plan",
		}, []string{"strategy"}),
		PathCost: f.NewGaugeVec(prometheus.GaugeOpts{
			Name: "pacman_path_cost",
			Help: "Cost of the last plan",
		}, []string{"strategy"}),
		NodesExpanded: f.NewGaugeVec(prometheus.GaugeOpts{
			Name: "pacman_nodes_expanded",
			Help: "Search nodes expanded by the last plan",
		}, []string{"strategy"}),
		SolveDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "pacman_solve_duration_seconds",
			Help:    "Time to compute a plan",
			Buckets: prometheus.DefBuckets,
		}, []string{"strategy"}),
	}
}

// RecordGeneration implements genetic.Recorder
func (m *Search) RecordGeneration(s genetic.GenerationStats) {
	m.GenerationsTotal.Inc()
	m.CollisionsTotal.Add(float64(s.Collisions))
	m.CrossoverFailures.Set(float64(s.CrossoverFailures))
	m.GenerationBestFitness.Set(s.Best)
	m.GenerationAvgFitness.Set(s.Average)
	m.BestOverallFitness.Set(s.BestOverall)
	m.GenerationDuration.Observe(s.Duration.Seconds())
}

// ObserveSolve records an agent registration report
func (m *Search) ObserveSolve(r agent.Report) {
	strategy := r.Strategy.String()
	m.SolvesTotal.WithLabelValues(strategy, fmt.Sprint(r.Reached)).Inc()
	m.PathLength.WithLabelValues(strategy).Set(float64(r.Moves))
	m.PathCost.WithLabelValues(strategy).Set(r.Cost)
	if r.Expanded >= 0 {
		m.NodesExpanded.WithLabelValues(strategy).Set(float64(r.Expanded))
	}
	m.SolveDuration.WithLabelValues(strategy).Observe(r.Elapsed.Seconds())
}

// WriteText gathers g and writes it in the text exposition format
func WriteText(w io.Writer, g prometheus.Gatherer) error {
	families, err := g.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}
	enc := expfmt.NewEncoder(w, expfmt.NewFormat(expfmt.TypeTextPlain))
	for _, mf := range families {
		if err := enc.Encode(mf); err != nil {
			return fmt.Errorf("encode %s: %w", mf.GetName(), err)
		}
	}
	return nil
}
