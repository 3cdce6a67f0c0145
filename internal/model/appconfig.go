package model

// AppConfig holds user preferences and default search settings.
type AppConfig struct {
	// Where problems are read from and artifacts written to
	ResourcesDir string `json:"resources_dir" toml:"resources_dir"` // <id>.png target images
	InitialDir   string `json:"initial_dir" toml:"initial_dir"`     // <id>.initial.json starting canvases
	OutputDir    string `json:"output_dir" toml:"output_dir"`       // saved solutions and reports

	// Default search settings applied to every run
	DefaultWorkers      int         `json:"default_workers" toml:"default_workers"`
	DefaultSampler      SamplerMode `json:"default_sampler" toml:"default_sampler"`
	DefaultSampleStride int         `json:"default_sample_stride" toml:"default_sample_stride"`
	DefaultStrategy     Strategy    `json:"default_strategy" toml:"default_strategy"`

	Genetic GeneticConfig `json:"genetic" toml:"genetic"`

	RecentRuns []string `json:"recent_runs" toml:"recent_runs"`
}

// maxRecentRuns bounds the RecentRuns history.
const maxRecentRuns = 10

// DefaultAppConfig returns an AppConfig populated with defaults matching
// DefaultSettings().
func DefaultAppConfig() AppConfig {
	defaults := DefaultSettings()
	return AppConfig{
		ResourcesDir:        "../resources",
		InitialDir:          "..",
		OutputDir:           "out",
		DefaultWorkers:      defaults.Workers,
		DefaultSampler:      defaults.Sampler,
		DefaultSampleStride: defaults.SampleStride,
		DefaultStrategy:     defaults.Strategy,
		Genetic:             defaults.Genetic,
		RecentRuns:          []string{},
	}
}

// ApplyToSettings copies the configured defaults into s. Zero values in the
// config leave the corresponding setting untouched.
func (c AppConfig) ApplyToSettings(s *SearchSettings) {
	if c.DefaultWorkers > 0 {
		s.Workers = c.DefaultWorkers
	}
	if c.DefaultSampler != "" {
		s.Sampler = c.DefaultSampler
	}
	if c.DefaultSampleStride > 0 {
		s.SampleStride = c.DefaultSampleStride
	}
	if c.DefaultStrategy != "" {
		s.Strategy = c.DefaultStrategy
	}
	if c.Genetic.PopulationSize > 0 {
		s.Genetic = c.Genetic
	}
}

// AddRecentRun records a run id, most recent first, without duplicates.
func (c *AppConfig) AddRecentRun(runID string) {
	runs := []string{runID}
	for _, r := range c.RecentRuns {
		if r != runID && len(runs) < maxRecentRuns {
			runs = append(runs, r)
		}
	}
	c.RecentRuns = runs
}
