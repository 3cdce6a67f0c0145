package engine

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/piwi3910/BlockPaint/internal/model"
)

// Reporter receives every new best result as soon as it is found.
type Reporter interface {
	Improved(r model.Result)
}

// ReporterFunc adapts a function to the Reporter interface.
type ReporterFunc func(model.Result)

func (f ReporterFunc) Improved(r model.Result) { f(r) }

// Tee returns a Reporter that forwards every result to each non-nil
// reporter in order.
func Tee(reporters ...Reporter) Reporter {
	var live []Reporter
	for _, r := range reporters {
		if r != nil {
			live = append(live, r)
		}
	}
	return ReporterFunc(func(res model.Result) {
		for _, r := range live {
			r.Improved(res)
		}
	})
}

// Watermark tracks the best score found so far. Offers are serialized, so
// reported results always strictly improve on every earlier report.
type Watermark struct {
	mu     sync.Mutex
	best   model.Result
	set    bool
	report Reporter
}

// NewWatermark returns an empty watermark. report may be nil.
func NewWatermark(report Reporter) *Watermark {
	return &Watermark{report: report}
}

// Offer records r if its score is strictly lower than the current best, or
// if there is no best yet, and reports it.
func (w *Watermark) Offer(r model.Result) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.set && r.Score >= w.best.Score {
		return false
	}
	w.best, w.set = r, true
	if w.report != nil {
		w.report.Improved(r)
	}
	return true
}

// Best returns the best result and whether one has been recorded.
func (w *Watermark) Best() (model.Result, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.best, w.set
}

// Stats summarizes one search run.
type Stats struct {
	Algorithm    model.Algorithm
	Strategy     model.Strategy
	Candidates   int // size of the coordinate space
	Evaluated    int64
	Skipped      int64
	Improvements int64
	Best         model.Result
	Found        bool
	Duration     time.Duration
}

// Engine runs topology searches.
type Engine struct {
	Settings model.SearchSettings
	Logger   *slog.Logger
}

func New(settings model.SearchSettings) *Engine {
	return &Engine{Settings: settings, Logger: slog.Default()}
}

// Run searches the configured topology for logs approximating the
// evaluator's target and reports every new watermark to report.
//
// The search stops early only when ctx is cancelled, in which case the
// statistics gathered so far are returned with ctx's error.
func (e *Engine) Run(ctx context.Context, eval *Evaluator, report Reporter) (Stats, error) {
	topo, err := Lookup(e.Settings.Algorithm)
	if err != nil {
		return Stats{}, err
	}
	canvas := eval.Initial()
	space := topo.Space(canvas.Width, canvas.Height, e.Settings.Step)

	r := &run{
		engine: e,
		topo:   topo,
		space:  space,
		eval:   eval,
		width:  canvas.Width,
		height: canvas.Height,
		mark:   NewWatermark(report),
	}

	strategy := e.Settings.Strategy
	if strategy == "" {
		strategy = model.StrategyExhaustive
	}
	e.logger().Info("search started",
		"algorithm", topo.Name,
		"strategy", strategy,
		"step", space.Step,
		"workers", max(e.Settings.Workers, 1))

	start := time.Now()
	switch {
	case strategy == model.StrategyGenetic:
		err = r.genetic(ctx, e.Settings.Genetic)
	case e.Settings.Workers > 1:
		err = r.parallel(ctx, e.Settings.Workers)
	default:
		err = r.sequential(ctx)
	}

	stats := Stats{
		Algorithm:    topo.Name,
		Strategy:     strategy,
		Evaluated:    r.evaluated.Load(),
		Skipped:      r.skipped.Load(),
		Improvements: r.improvements.Load(),
		Duration:     time.Since(start),
	}
	if strategy == model.StrategyExhaustive {
		stats.Candidates = space.Count()
	}
	stats.Best, stats.Found = r.mark.Best()

	e.logger().Info("search finished",
		"algorithm", topo.Name,
		"evaluated", stats.Evaluated,
		"skipped", stats.Skipped,
		"improvements", stats.Improvements,
		"best", stats.Best.Score,
		"duration", stats.Duration)
	return stats, err
}

func (e *Engine) logger() *slog.Logger {
	if e.Logger == nil {
		return slog.Default()
	}
	return e.Logger
}

// run is the state shared by the workers of one search.
type run struct {
	engine *Engine
	topo   Topology
	space  Space
	eval   *Evaluator
	width  int
	height int
	mark   *Watermark

	evaluated    atomic.Int64
	skipped      atomic.Int64
	improvements atomic.Int64
}

// try builds and scores one coordinate vector. Failing candidates are
// skipped. It returns the result and whether the candidate could be scored.
func (r *run) try(values []int) (model.Result, bool) {
	log := r.topo.Build(values, r.width, r.height, r.eval.Target())
	res, err := r.eval.Evaluate(log)
	r.evaluated.Add(1)
	if err != nil {
		r.skipped.Add(1)
		r.engine.logger().Debug("candidate skipped", "algorithm", r.topo.Name, "params", values, "err", err)
		return model.Result{}, false
	}
	return res, true
}

func (r *run) offer(res model.Result) {
	if r.mark.Offer(res) {
		r.improvements.Add(1)
		r.engine.logger().Info("new best", "algorithm", r.topo.Name, "score", res.Score,
			"cost", res.Cost, "similarity", res.Similarity)
	}
}

// sequential evaluates the space in generation order.
func (r *run) sequential(ctx context.Context) error {
	for values := range r.space.All() {
		if err := ctx.Err(); err != nil {
			return err
		}
		if res, ok := r.try(values); ok {
			r.offer(res)
		}
	}
	return nil
}

// parallel partitions the space by its first coordinate. Each worker keeps
// a private best score and only consults the shared watermark when it
// improves on it.
func (r *run) parallel(ctx context.Context, workers int) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for _, first := range r.space.Firsts() {
		g.Go(func() error {
			r.engine.logger().Debug("partition started", "algorithm", r.topo.Name, "first", first)
			var local int64
			seen := false
			for values := range r.space.From(first) {
				if err := ctx.Err(); err != nil {
					return err
				}
				res, ok := r.try(values)
				if !ok || (seen && res.Score >= local) {
					continue
				}
				local, seen = res.Score, true
				r.offer(res)
			}
			return nil
		})
	}
	return g.Wait()
}
