package persistence

import (
	"fmt"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"

	"github.com/djefts/pacmanAI/core"
	"github.com/djefts/pacmanAI/genetic"
)

// RunIDPrefix tags every run record id
const RunIDPrefix = "run"

// RunRecord is the serializable outcome of one solve
type RunRecord struct {
	ID        string    `msgpack:"id"`
	Layout    string    `msgpack:"layout"`
	Grid      string    `msgpack:"grid,omitempty"` // Layout text, so a replay needs no layout file
	Strategy  string    `msgpack:"strategy"`
	Seed      uint64    `msgpack:"seed,omitempty"`
	CreatedAt time.Time `msgpack:"created_at"`

	Moves      []core.Direction `msgpack:"moves,omitempty"`
	Path       []core.Direction `msgpack:"path"`
	Fitness    float64          `msgpack:"fitness,omitempty"`
	Generation int              `msgpack:"generation,omitempty"`
	Collisions int              `msgpack:"collisions,omitempty"`
	Reached    bool             `msgpack:"reached"`

	History []GenerationDTO `msgpack:"history,omitempty"`
}

// GenerationDTO is one serializable generation summary
type GenerationDTO struct {
	Best        float64 `msgpack:"best"`
	Average     float64 `msgpack:"average"`
	BestOverall float64 `msgpack:"best_overall"`
	Collisions  int     `msgpack:"collisions"`
}

// NewID returns a fresh prefixed run id
func NewID() (string, error) {
	id, err := gonanoid.New(21)
	if err != nil {
		return "", fmt.Errorf("generate run id: %w", err)
	}
	return RunIDPrefix + "_" + id, nil
}

// FromResult converts a genetic search result to a record
func FromResult(layout string, seed uint64, res *genetic.Result) RunRecord {
	rec := RunRecord{
		Layout:    layout,
		Strategy:  "ga",
		Seed:      seed,
		CreatedAt: time.Now().UTC(),
	}
	if res == nil {
		return rec
	}

	rec.Moves = res.Moves
	rec.Path = res.Path
	rec.Fitness = res.Fitness
	rec.Generation = res.Generation
	rec.Collisions = res.Collisions
	rec.Reached = res.Reached

	rec.History = make([]GenerationDTO, len(res.History))
	for i, h := range res.History {
		rec.History[i] = GenerationDTO{
			Best:        h.Best,
			Average:     h.Average,
			BestOverall: h.BestOverall,
			Collisions:  h.Collisions,
		}
	}
	return rec
}

// FromPath records a plain path produced by a non-genetic strategy
func FromPath(layout, strategy string, path []core.Direction, reached bool) RunRecord {
	return RunRecord{
		Layout:    layout,
		Strategy:  strategy,
		CreatedAt: time.Now().UTC(),
		Path:      path,
		Reached:   reached,
	}
}
