package project

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/piwi3910/BlockPaint/internal/model"
	"github.com/piwi3910/BlockPaint/internal/oplog"
)

// SolutionVersion is the format version written by SaveSolution.
const SolutionVersion = "1.0.0"

// Solution is the persisted outcome of a search run.
type Solution struct {
	Version    string               `json:"version"`
	RunID      string               `json:"run_id"`
	CreatedAt  string               `json:"created_at"`
	ProblemID  string               `json:"problem_id"`
	Settings   model.SearchSettings `json:"settings"`
	Score      int64                `json:"score"`
	Cost       int64                `json:"cost"`
	Similarity int64                `json:"similarity"`
	Operations []string             `json:"operations"`
}

// NewSolution records result as the solution of problemID.
func NewSolution(problemID string, settings model.SearchSettings, result model.Result) Solution {
	return Solution{
		Version:    SolutionVersion,
		RunID:      uuid.NewString(),
		CreatedAt:  time.Now().UTC().Format(time.RFC3339),
		ProblemID:  problemID,
		Settings:   settings,
		Score:      result.Score,
		Cost:       result.Cost,
		Similarity: result.Similarity,
		Operations: result.Operations(),
	}
}

// Log parses the solution's operations.
func (s Solution) Log() (model.Log, error) {
	log := make(model.Log, 0, len(s.Operations))
	for i, text := range s.Operations {
		op, err := oplog.ParseOperation(text)
		if err != nil {
			return nil, fmt.Errorf("operation %d: %w", i, err)
		}
		log = append(log, op)
	}
	return log, nil
}

// SaveSolution writes s as JSON. A path ending in .isl gets the plain
// one-operation-per-line form instead.
func SaveSolution(path string, s Solution) error {
	var data []byte
	if strings.EqualFold(filepath.Ext(path), ".isl") {
		data = []byte(strings.Join(s.Operations, "\n") + "\n")
	} else {
		var err error
		data, err = json.MarshalIndent(s, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal solution: %w", err)
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create solution directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write solution file: %w", err)
	}
	return nil
}

// LoadSolution reads a solution written by SaveSolution. Files that are
// not JSON are parsed as operation text, which also accepts the output of
// a search.
func LoadSolution(path string) (Solution, model.Log, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Solution{}, nil, fmt.Errorf("failed to read solution file: %w", err)
	}

	if strings.EqualFold(filepath.Ext(path), ".json") {
		var s Solution
		if err := json.Unmarshal(data, &s); err != nil {
			return Solution{}, nil, fmt.Errorf("failed to parse solution file: %w", err)
		}
		if s.Version == "" {
			return Solution{}, nil, fmt.Errorf("invalid solution file: missing version field")
		}
		log, err := s.Log()
		if err != nil {
			return Solution{}, nil, err
		}
		return s, log, nil
	}

	log, err := oplog.ParseSolution(string(data))
	if err != nil {
		return Solution{}, nil, fmt.Errorf("failed to parse solution file: %w", err)
	}
	return Solution{Operations: log.Strings()}, log, nil
}
