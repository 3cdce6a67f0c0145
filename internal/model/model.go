package model

// Algorithm names a partition topology searched by an engine.
type Algorithm string

const (
	AlgorithmXCut Algorithm = "xcut" // four sequential vertical cuts
	AlgorithmYCut Algorithm = "ycut" // four sequential horizontal cuts
	AlgorithmRect Algorithm = "rect" // point cut, then a point cut of the top-right quadrant
	AlgorithmX3Y2 Algorithm = "x3y2" // three columns, each split once horizontally
	AlgorithmX3Y3 Algorithm = "x3y3" // three columns, each split twice horizontally
)

// Algorithms lists every topology in the order they are documented.
var Algorithms = []Algorithm{AlgorithmXCut, AlgorithmYCut, AlgorithmRect, AlgorithmX3Y2, AlgorithmX3Y3}

// Strategy selects how a topology's parameter space is explored.
type Strategy string

const (
	StrategyExhaustive Strategy = "exhaustive" // Enumerate every coordinate combination
	StrategyGenetic    Strategy = "genetic"    // Genetic search over the same coordinates (faster, partial)
)

// SamplerMode selects how a region's representative color is chosen.
type SamplerMode string

const (
	SampleMostFrequent SamplerMode = "most-frequent"
	SampleMean         SamplerMode = "mean"
)

// GeneticConfig holds parameters for the genetic strategy.
type GeneticConfig struct {
	PopulationSize int     `json:"population_size" toml:"population_size"`
	Generations    int     `json:"generations" toml:"generations"`
	MutationRate   float64 `json:"mutation_rate" toml:"mutation_rate"`
	TournamentSize int     `json:"tournament_size" toml:"tournament_size"`
	EliteCount     int     `json:"elite_count" toml:"elite_count"`
	Seed           int64   `json:"seed" toml:"seed"`
}

// DefaultGeneticConfig returns sensible default parameters.
func DefaultGeneticConfig() GeneticConfig {
	return GeneticConfig{
		PopulationSize: 40,
		Generations:    60,
		MutationRate:   0.2,
		TournamentSize: 3,
		EliteCount:     2,
		Seed:           42,
	}
}

// SearchSettings holds the parameters of one search run.
type SearchSettings struct {
	Algorithm Algorithm `json:"algorithm"`
	Strategy  Strategy  `json:"strategy"`
	Step      int       `json:"step"`    // Coordinate step; 0 uses the topology default
	Workers   int       `json:"workers"` // Parallel workers; 1 searches in generation order

	Sampler      SamplerMode `json:"sampler"`
	SampleStride int         `json:"sample_stride"` // Sub-sampling stride for representative colors

	Genetic GeneticConfig `json:"genetic"`
}

// DefaultSampleStride is the sub-sampling stride of representative colors.
const DefaultSampleStride = 5

func DefaultSettings() SearchSettings {
	return SearchSettings{
		Algorithm:    AlgorithmXCut,
		Strategy:     StrategyExhaustive,
		Step:         0,
		Workers:      1,
		Sampler:      SampleMostFrequent,
		SampleStride: DefaultSampleStride,
		Genetic:      DefaultGeneticConfig(),
	}
}

// Result is one scored candidate log.
type Result struct {
	Score      int64 `json:"score"`
	Cost       int64 `json:"cost"`
	Similarity int64 `json:"similarity"`
	Log        Log   `json:"-"`
}

// Operations returns the serialized operations of the result's log.
func (r Result) Operations() []string {
	return r.Log.Strings()
}
