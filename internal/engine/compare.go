package engine

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/piwi3910/BlockPaint/internal/model"
)

// ComparisonScenario defines a named set of settings to compare.
type ComparisonScenario struct {
	Name     string
	Settings model.SearchSettings
}

// ComparisonResult holds the statistics of one scenario's run.
type ComparisonResult struct {
	Scenario ComparisonScenario
	Stats    Stats
	Err      error
}

// EvaluatorFactory builds the evaluator a scenario is scored with, so
// scenarios may differ in how the target is sampled.
type EvaluatorFactory func(model.SearchSettings) *Evaluator

// CompareScenarios runs a search for each scenario and returns the results
// in scenario order. A failing scenario records its error and does not stop
// the others; cancelling ctx does.
func CompareScenarios(ctx context.Context, scenarios []ComparisonScenario, newEval EvaluatorFactory, logger *slog.Logger) ([]ComparisonResult, error) {
	if logger == nil {
		logger = slog.Default()
	}
	results := make([]ComparisonResult, 0, len(scenarios))

	for _, scenario := range scenarios {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		e := &Engine{Settings: scenario.Settings, Logger: logger.With("scenario", scenario.Name)}
		stats, err := e.Run(ctx, newEval(scenario.Settings), nil)
		if err != nil && ctx.Err() != nil {
			return results, ctx.Err()
		}
		results = append(results, ComparisonResult{Scenario: scenario, Stats: stats, Err: err})
	}

	return results, nil
}

// BuildAlgorithmScenarios returns one scenario per algorithm, each using
// the base settings. An empty list selects every registered topology.
func BuildAlgorithmScenarios(base model.SearchSettings, algorithms []model.Algorithm) []ComparisonScenario {
	if len(algorithms) == 0 {
		algorithms = model.Algorithms
	}
	scenarios := make([]ComparisonScenario, 0, len(algorithms))
	for _, a := range algorithms {
		s := base
		s.Algorithm = a
		scenarios = append(scenarios, ComparisonScenario{Name: string(a), Settings: s})
	}
	return scenarios
}

// BuildDefaultScenarios generates what-if alternatives around the base
// settings: the other strategy and the other sampler mode.
func BuildDefaultScenarios(base model.SearchSettings) []ComparisonScenario {
	scenarios := []ComparisonScenario{
		{
			Name:     "Current Settings",
			Settings: base,
		},
	}

	alt := base
	if base.Strategy == model.StrategyGenetic {
		alt.Strategy = model.StrategyExhaustive
		scenarios = append(scenarios, ComparisonScenario{Name: "Exhaustive Search", Settings: alt})
	} else {
		alt.Strategy = model.StrategyGenetic
		scenarios = append(scenarios, ComparisonScenario{Name: "Genetic Search", Settings: alt})
	}

	sampler := base
	if base.Sampler == model.SampleMean {
		sampler.Sampler = model.SampleMostFrequent
	} else {
		sampler.Sampler = model.SampleMean
	}
	scenarios = append(scenarios, ComparisonScenario{
		Name:     fmt.Sprintf("Sampler %s", sampler.Sampler),
		Settings: sampler,
	})

	return scenarios
}
