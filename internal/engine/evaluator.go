package engine

import (
	"fmt"

	"github.com/piwi3910/BlockPaint/internal/model"
)

// Sampler is the view of the target image the engines need.
type Sampler interface {
	// RepresentativeColor returns the color chosen to paint region r.
	RepresentativeColor(r model.Rect) model.Color
	// Similarity returns the dissimilarity between the canvas and the image.
	Similarity(c *model.Canvas) (int64, error)
}

// Evaluator scores operation logs by replaying them on a copy of the
// initial canvas.
type Evaluator struct {
	initial *model.Canvas
	target  Sampler
}

// NewEvaluator returns an evaluator replaying logs from initial. The
// initial canvas is copied and never mutated.
func NewEvaluator(initial *model.Canvas, target Sampler) *Evaluator {
	return &Evaluator{initial: initial.Clone(), target: target}
}

// Initial returns a fresh copy of the starting canvas.
func (e *Evaluator) Initial() *model.Canvas { return e.initial.Clone() }

// Target returns the sampler logs are scored against.
func (e *Evaluator) Target() Sampler { return e.target }

// Evaluate replays log and returns its score: the sum of every
// operation's cost, each priced before it is applied, plus the similarity
// of the final canvas.
func (e *Evaluator) Evaluate(log model.Log) (model.Result, error) {
	res, _, err := e.Replay(log)
	return res, err
}

// Replay is Evaluate that also returns the final canvas.
func (e *Evaluator) Replay(log model.Log) (model.Result, *model.Canvas, error) {
	canvas := e.initial.Clone()
	var cost int64
	for i, op := range log {
		c, err := canvas.Cost(op)
		if err != nil {
			return model.Result{}, nil, fmt.Errorf("operation %d: %w", i, err)
		}
		if err := canvas.Apply(op); err != nil {
			return model.Result{}, nil, fmt.Errorf("operation %d: %w", i, err)
		}
		cost += c
	}
	similarity, err := e.target.Similarity(canvas)
	if err != nil {
		return model.Result{}, nil, fmt.Errorf("failed to score canvas: %w", err)
	}
	return model.Result{
		Score:      cost + similarity,
		Cost:       cost,
		Similarity: similarity,
		Log:        log,
	}, canvas, nil
}
