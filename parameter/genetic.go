package parameter

// Run Records
const (
	// GeneticRecordPath is the directory for saved run records
	GeneticRecordPath = "./runs"

	// GeneticRecordExt is the file extension for msgpack run records
	GeneticRecordExt = ".msgpack"
)

// Genetic Algorithm - Engine Configuration
const (
	// GAPopulationSize is the number of chromosomes per generation, must be even
	GAPopulationSize = 20

	// GAGenerations is the fixed generation budget of one search
	GAGenerations = 15

	// GACrossoverProbability is the chance a parent pair is recombined (0.0-1.0)
	GACrossoverProbability = 0.8

	// GAMutationProbability is the chance both offspring of a pair are mutated (0.0-1.0)
	GAMutationProbability = 0.1

	// GAChromosomeLength is the move count of a freshly random chromosome
	GAChromosomeLength = 100

	// GAEliteCount is how many clones of the previous generation-best seed a population
	GAEliteCount = 5

	// GACrossoverChunk is the move count of one crossover segment
	GACrossoverChunk = 2

	// GACrossoverRetries caps reselection after a malformed crossover child
	GACrossoverRetries = 3
)

// Genetic Algorithm - Driver Sentinels
const (
	// GAGenerationBestPenalty marks the per-generation placeholder best
	GAGenerationBestPenalty = 300

	// GAOverallBestPenalty marks the placeholder best-overall before any generation runs
	GAOverallBestPenalty = 500
)
