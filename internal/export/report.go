package export

import (
	"fmt"
	"image"
	"sync"
	"time"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/piwi3910/BlockPaint/internal/engine"
	"github.com/piwi3910/BlockPaint/internal/model"
)

// Improvement is one reported watermark of a run.
type Improvement struct {
	Elapsed time.Duration
	Result  model.Result
}

// Report collects everything the document exporters need about a run.
type Report struct {
	ProblemID string
	RunID     string
	Settings  model.SearchSettings
	Stats     engine.Stats
	History   []Improvement

	Initial *model.Canvas // canvas the winning log starts from
	Final   *model.Canvas // canvas after the winning log
	Target  image.Image   // optional; shown next to the result in the PDF
}

// OperationCost pairs a logged operation with the cost it was charged.
type OperationCost struct {
	Operation model.Operation
	Cost      int64
}

// OperationCosts replays the winning log on the initial canvas and returns
// the cost of each operation in order.
func (r Report) OperationCosts() ([]OperationCost, error) {
	if r.Initial == nil {
		return nil, fmt.Errorf("report has no initial canvas")
	}
	canvas := r.Initial.Clone()
	costs := make([]OperationCost, 0, len(r.Stats.Best.Log))
	for i, op := range r.Stats.Best.Log {
		cost, err := canvas.Cost(op)
		if err != nil {
			return nil, fmt.Errorf("operation %d: %w", i, err)
		}
		if err := canvas.Apply(op); err != nil {
			return nil, fmt.Errorf("operation %d: %w", i, err)
		}
		costs = append(costs, OperationCost{Operation: op, Cost: cost})
	}
	return costs, nil
}

// History records improvements as they are reported by a search. It is safe
// for concurrent use and satisfies engine.Reporter.
type History struct {
	mu    sync.Mutex
	start time.Time
	items []Improvement
	now   func() time.Time
}

// NewHistory starts a history clock at the current time.
func NewHistory() *History {
	return &History{start: time.Now(), now: time.Now}
}

// Improved records r with the time elapsed since the history was created.
func (h *History) Improved(r model.Result) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.items = append(h.items, Improvement{Elapsed: h.now().Sub(h.start), Result: r})
}

// Improvements returns a copy of the recorded improvements in report order.
func (h *History) Improvements() []Improvement {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]Improvement(nil), h.items...)
}

// HexColor formats c as "#rrggbb", with a trailing alpha byte when c is not
// fully opaque.
func HexColor(c model.Color) string {
	hex := colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}.Hex()
	if c.A != 255 {
		hex += fmt.Sprintf("%02x", c.A)
	}
	return hex
}
