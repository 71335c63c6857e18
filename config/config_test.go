package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/djefts/pacmanAI/parameter"
	"github.com/djefts/pacmanAI/search"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "ga", cfg.Strategy)
	assert.Equal(t, parameter.GAPopulationSize, cfg.Genetic.PopulationSize)
	assert.Equal(t, parameter.GAGenerations, cfg.Genetic.Generations)
	assert.Equal(t, parameter.MazeDefaultWidth, cfg.Maze.Width)
	assert.Equal(t, parameter.GeneticRecordPath, cfg.Output.RecordDir)

	id, err := cfg.StrategyID()
	require.NoError(t, err)
	assert.Equal(t, search.GA, id)
}

func TestLoad_NoFile(t *testing.T) {
	t.Setenv(EnvPrefix+"CONFIG", filepath.Join(t.TempDir(), "absent.json"))

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoad_ExplicitMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.json"))
	require.Error(t, err)
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `{
		"strategy": "dfs",
		"genetic": {"population_size": 40, "generations": 30, "seed": 9},
		"maze": {"layout": "mazes/tiny.lay"},
		"log": {"level": "debug"}
	}`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "dfs", cfg.Strategy)
	assert.Equal(t, 40, cfg.Genetic.PopulationSize)
	assert.Equal(t, 30, cfg.Genetic.Generations)
	assert.Equal(t, uint64(9), cfg.Genetic.Seed)
	assert.Equal(t, parameter.GACrossoverProbability, cfg.Genetic.CrossoverProb, "unset fields keep defaults")
	assert.Equal(t, "mazes/tiny.lay", cfg.Maze.Layout)

	level, err := cfg.Log.SlogLevel()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, level)
}

func TestLoad_ConfigFromEnvPath(t *testing.T) {
	t.Setenv(EnvPrefix+"CONFIG", writeConfig(t, `{"strategy": "genetic"}`))

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "genetic", cfg.Strategy)
}

func TestLoad_MalformedFile(t *testing.T) {
	_, err := Load(writeConfig(t, `{"strategy": `))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse config file")
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, `{"genetic": {"population_size": 40}}`)

	t.Setenv(EnvPrefix+"POPULATION_SIZE", "60")
	t.Setenv(EnvPrefix+"MUTATION_PROB", "0.25")
	t.Setenv(EnvPrefix+"SEED", "77")
	t.Setenv(EnvPrefix+"STRATEGY", "dfs")
	t.Setenv(EnvPrefix+"LOG_FORMAT", "json")
	t.Setenv(EnvPrefix+"MAZE_WIDTH", "31")
	t.Setenv(EnvPrefix+"GENERATIONS", "not-a-number")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 60, cfg.Genetic.PopulationSize)
	assert.Equal(t, 0.25, cfg.Genetic.MutationProb)
	assert.Equal(t, uint64(77), cfg.Genetic.Seed)
	assert.Equal(t, "dfs", cfg.Strategy)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, 31, cfg.Maze.Width)
	assert.Equal(t, parameter.GAGenerations, cfg.Genetic.Generations, "unparsable values are ignored")
}

func TestValidate(t *testing.T) {
	cases := map[string]func(*Config){
		"odd population":   func(c *Config) { c.Genetic.PopulationSize = 7 },
		"probability":      func(c *Config) { c.Genetic.CrossoverProb = 2 },
		"generations":      func(c *Config) { c.Genetic.Generations = 0 },
		"unknown strategy": func(c *Config) { c.Strategy = "bfs" },
		"tiny maze":        func(c *Config) { c.Maze.Width = 2 },
		"short maze":       func(c *Config) { c.Maze.Height = 4 },
		"braiding":         func(c *Config) { c.Maze.Braiding = 1.5 },
		"log level":        func(c *Config) { c.Log.Level = "loud" },
		"log format":       func(c *Config) { c.Log.Format = "xml" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := DefaultConfig()
			mutate(cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
		})
	}

	// Maze dimensions are irrelevant when a layout file is given
	cfg := DefaultConfig()
	cfg.Maze.Layout = "x.lay"
	cfg.Maze.Width = 0
	assert.NoError(t, cfg.Validate())
}

func TestValidate_CollectsAllErrors(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Strategy = "bfs"
	cfg.Log.Format = "xml"

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "strategy")
	assert.Contains(t, err.Error(), "log format")
}

func TestLoad_InvalidFromEnv(t *testing.T) {
	t.Setenv(EnvPrefix+"CONFIG", "")
	t.Setenv(EnvPrefix+"POPULATION_SIZE", "3")

	_, err := Load("")
	assert.ErrorIs(t, err, ErrInvalidConfig)
}
