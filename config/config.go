package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/djefts/pacmanAI/genetic"
	"github.com/djefts/pacmanAI/maze"
	"github.com/djefts/pacmanAI/parameter"
	"github.com/djefts/pacmanAI/search"
)

// ErrInvalidConfig wraps every validation failure
var ErrInvalidConfig = errors.New("config: invalid configuration")

// EnvPrefix is prepended to every environment override
const EnvPrefix = "PACMAN_GA_"

// Config holds all configuration for a solve
type Config struct {
	Strategy string               `json:"strategy"`
	Genetic  genetic.EngineConfig `json:"genetic"`
	Maze     MazeConfig           `json:"maze"`
	Log      LogConfig            `json:"log"`
	Output   OutputConfig         `json:"output"`
}

// MazeConfig selects a layout file or a generated maze
type MazeConfig struct {
	Layout   string  `json:"layout"` // Path to a layout file; empty means generate
	Width    int     `json:"width"`
	Height   int     `json:"height"`
	Braiding float64 `json:"braiding"`
	Seed     uint64  `json:"seed"`
}

// LogConfig controls the slog handler built by the CLI
type LogConfig struct {
	Level  string `json:"level"`  // debug, info, warn, error
	Format string `json:"format"` // text or json
	File   string `json:"file"`   // Optional log file, stderr when empty
}

// OutputConfig holds where artifacts are written
type OutputConfig struct {
	RecordDir string `json:"record_dir"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Strategy: search.GA.String(),
		Genetic:  genetic.DefaultConfig(),
		Maze: MazeConfig{
			Width:    parameter.MazeDefaultWidth,
			Height:   parameter.MazeDefaultHeight,
			Braiding: parameter.MazeDefaultBraiding,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Output: OutputConfig{
			RecordDir: parameter.GeneticRecordPath,
		},
	}
}

// envString loads a string environment variable into the target pointer if set
func envString(key string, target *string) {
	if v := os.Getenv(EnvPrefix + key); v != "" {
		*target = v
	}
}

// envInt loads an integer environment variable into the target pointer if set and valid
func envInt(key string, target *int) {
	if v := os.Getenv(EnvPrefix + key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			*target = i
		}
	}
}

// envUint loads an unsigned environment variable into the target pointer if set and valid
func envUint(key string, target *uint64) {
	if v := os.Getenv(EnvPrefix + key); v != "" {
		if u, err := strconv.ParseUint(v, 10, 64); err == nil {
			*target = u
		}
	}
}

// envFloat loads a float64 environment variable into the target pointer if set and valid
func envFloat(key string, target *float64) {
	if v := os.Getenv(EnvPrefix + key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			*target = f
		}
	}
}

// Load applies defaults, then the JSON file at path, then environment overrides, then validates.
// An empty path falls back to PACMAN_GA_CONFIG; a missing fallback file is not an error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	explicit := path != ""
	if !explicit {
		path = os.Getenv(EnvPrefix + "CONFIG")
	}
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := json.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config file %s: %w", path, err)
			}
		case explicit || !errors.Is(err, os.ErrNotExist):
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	envString("STRATEGY", &c.Strategy)

	envInt("POPULATION_SIZE", &c.Genetic.PopulationSize)
	envInt("GENERATIONS", &c.Genetic.Generations)
	envFloat("CROSSOVER_PROB", &c.Genetic.CrossoverProb)
	envFloat("MUTATION_PROB", &c.Genetic.MutationProb)
	envInt("CHROMOSOME_LENGTH", &c.Genetic.ChromosomeLength)
	envInt("ELITE_COUNT", &c.Genetic.EliteCount)
	envInt("CROSSOVER_CHUNK", &c.Genetic.CrossoverChunk)
	envInt("CROSSOVER_RETRIES", &c.Genetic.CrossoverRetries)
	envUint("SEED", &c.Genetic.Seed)

	envString("LAYOUT", &c.Maze.Layout)
	envInt("MAZE_WIDTH", &c.Maze.Width)
	envInt("MAZE_HEIGHT", &c.Maze.Height)
	envFloat("MAZE_BRAIDING", &c.Maze.Braiding)
	envUint("MAZE_SEED", &c.Maze.Seed)

	envString("LOG_LEVEL", &c.Log.Level)
	envString("LOG_FORMAT", &c.Log.Format)
	envString("LOG_FILE", &c.Log.File)

	envString("RECORD_DIR", &c.Output.RecordDir)
}

// Validate checks that the configuration has valid values
func (c *Config) Validate() error {
	var errs []string

	if _, err := search.ParseStrategy(c.Strategy); err != nil {
		errs = append(errs, fmt.Sprintf("strategy %q is not one of dfs, ga", c.Strategy))
	}
	if err := c.Genetic.Validate(); err != nil {
		errs = append(errs, strings.TrimPrefix(err.Error(), genetic.ErrInvalidConfig.Error()+": "))
	}

	if c.Maze.Layout == "" {
		if c.Maze.Width < parameter.MazeMinSize || c.Maze.Height < parameter.MazeMinSize {
			errs = append(errs, fmt.Sprintf("maze width and height must be at least %d", parameter.MazeMinSize))
		}
		if c.Maze.Braiding < 0 || c.Maze.Braiding > 1 {
			errs = append(errs, "maze braiding must be between 0 and 1")
		}
	}

	if _, err := c.Log.SlogLevel(); err != nil {
		errs = append(errs, err.Error())
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		errs = append(errs, "log format must be 'text' or 'json'")
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(errs, "; "))
	}
	return nil
}

// SlogLevel parses the configured level name
func (l LogConfig) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(l.Level)); err != nil {
		return slog.LevelInfo, fmt.Errorf("log level %q is not one of debug, info, warn, error", l.Level)
	}
	return level, nil
}

// StrategyID resolves the configured strategy name
func (c *Config) StrategyID() (search.Strategy, error) {
	return search.ParseStrategy(c.Strategy)
}

// GenConfig converts the maze section for the generator
func (m MazeConfig) GenConfig() maze.GenConfig {
	return maze.GenConfig{
		Width:    m.Width,
		Height:   m.Height,
		Braiding: m.Braiding,
		Seed:     m.Seed,
	}
}
