package engine

import (
	"context"
	"image"
	"image/color"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/BlockPaint/internal/model"
	"github.com/piwi3910/BlockPaint/internal/target"
)

var (
	red  = color.NRGBA{R: 255, A: 255}
	blue = color.NRGBA{B: 255, A: 255}
)

// halves returns a size x size image whose columns left of split are
// left-colored and the rest right-colored.
func halves(size, split int, left, right color.NRGBA) *target.Image {
	img := image.NewNRGBA(image.Rect(0, 0, size, size))
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			if x < split {
				img.SetNRGBA(x, y, left)
			} else {
				img.SetNRGBA(x, y, right)
			}
		}
	}
	return target.New(img, model.SampleMostFrequent, 1)
}

// collector records every reported result.
type collector struct {
	mu     sync.Mutex
	scores []int64
}

func (c *collector) Improved(r model.Result) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.scores = append(c.scores, r.Score)
}

func settings(algo model.Algorithm, step, workers int) model.SearchSettings {
	s := model.DefaultSettings()
	s.Algorithm = algo
	s.Step = step
	s.Workers = workers
	return s
}

func TestEvaluate_SingleRecolor(t *testing.T) {
	tgt := halves(40, 40, red, red)
	eval := NewEvaluator(model.NewCanvas(40, 40), tgt)

	res, err := eval.Evaluate(model.Log{model.Recolor("0", model.FromStd(red))})
	require.NoError(t, err)
	assert.Equal(t, int64(5), res.Cost)
	assert.Equal(t, int64(0), res.Similarity)
	assert.Equal(t, int64(5), res.Score)
}

func TestEvaluate_CostBeforeApply(t *testing.T) {
	tgt := halves(40, 40, red, red)
	eval := NewEvaluator(model.NewCanvas(40, 40), tgt)

	res, err := eval.Evaluate(model.Log{
		model.Recolor("0", model.FromStd(red)),
		model.VerticalCut("0", 20),
		model.Recolor("0.1", model.FromStd(red)),
	})
	require.NoError(t, err)
	// 5 on the whole canvas, 7 for the cut, 5 * 1600 / 800 on the half.
	assert.Equal(t, int64(22), res.Cost)
	assert.Equal(t, int64(22), res.Score)
}

func TestEvaluate_DoesNotMutateInitial(t *testing.T) {
	initial := model.NewCanvas(40, 40)
	eval := NewEvaluator(initial, halves(40, 20, red, blue))

	_, err := eval.Evaluate(model.Log{model.VerticalCut("0", 20)})
	require.NoError(t, err)
	assert.Equal(t, 1, initial.Len())
	assert.Equal(t, 1, eval.Initial().Len())
}

func TestEvaluate_FailingCandidate(t *testing.T) {
	eval := NewEvaluator(model.NewCanvas(40, 40), halves(40, 20, red, blue))

	_, err := eval.Evaluate(model.Log{model.VerticalCut("0", 20), model.Recolor("0", model.Black)})
	assert.ErrorIs(t, err, model.ErrBlockNotFound)

	_, err = eval.Evaluate(model.Log{model.VerticalCut("0", 40)})
	assert.ErrorIs(t, err, model.ErrInvalidCut)
}

func TestRun_SolidTargetNeverBeatsSingleRecolor(t *testing.T) {
	tgt := halves(40, 40, red, red)
	eval := NewEvaluator(model.NewCanvas(40, 40), tgt)

	single, err := eval.Evaluate(model.Log{model.Recolor("0", model.FromStd(red))})
	require.NoError(t, err)

	for _, algo := range model.Algorithms {
		e := New(settings(algo, 5, 1))
		stats, err := e.Run(context.Background(), eval, nil)
		require.NoError(t, err)
		require.True(t, stats.Found, algo)

		assert.Equal(t, int64(0), stats.Best.Similarity, algo)
		assert.GreaterOrEqual(t, stats.Best.Score, single.Score, algo)
		assert.Equal(t, stats.Best.Cost, stats.Best.Score, algo)
	}
}

func TestRun_ReportsStrictImprovements(t *testing.T) {
	tgt := halves(40, 20, red, blue)
	eval := NewEvaluator(model.NewCanvas(40, 40), tgt)

	for _, workers := range []int{1, 4} {
		c := &collector{}
		stats, err := New(settings(model.AlgorithmXCut, 5, workers)).Run(context.Background(), eval, c)
		require.NoError(t, err)

		require.NotEmpty(t, c.scores)
		for i := 1; i < len(c.scores); i++ {
			assert.Less(t, c.scores[i], c.scores[i-1], "workers=%d report %d", workers, i)
		}
		assert.Equal(t, c.scores[len(c.scores)-1], stats.Best.Score)
		assert.Equal(t, int64(len(c.scores)), stats.Improvements)
		assert.Equal(t, int64(0), stats.Best.Similarity, "a cut at the color boundary reproduces the image")
		assert.Equal(t, int64(stats.Candidates), stats.Evaluated)
	}
}

func TestRun_ParallelFindsSameBest(t *testing.T) {
	tgt := halves(40, 15, red, blue)
	eval := NewEvaluator(model.NewCanvas(40, 40), tgt)

	for _, algo := range model.Algorithms {
		seq, err := New(settings(algo, 5, 1)).Run(context.Background(), eval, nil)
		require.NoError(t, err)
		par, err := New(settings(algo, 5, 3)).Run(context.Background(), eval, nil)
		require.NoError(t, err)

		assert.Equal(t, seq.Best.Score, par.Best.Score, algo)
		assert.Equal(t, seq.Evaluated, par.Evaluated, algo)
	}
}

func TestRun_SkipsFailingCandidates(t *testing.T) {
	// Without a block "0" every generated log fails on its first operation.
	initial, err := model.CanvasFromData(model.CanvasData{
		Width: 40, Height: 40,
		Blocks: []model.BlockData{{BlockID: "1", TopRight: [2]int{40, 40}, Color: [4]uint8{255, 255, 255, 255}}},
	})
	require.NoError(t, err)
	eval := NewEvaluator(initial, halves(40, 20, red, blue))

	stats, err := New(settings(model.AlgorithmYCut, 5, 1)).Run(context.Background(), eval, nil)
	require.NoError(t, err)
	assert.False(t, stats.Found)
	assert.Equal(t, stats.Evaluated, stats.Skipped)
	assert.Positive(t, stats.Skipped)
}

func TestRun_UnknownAlgorithm(t *testing.T) {
	eval := NewEvaluator(model.NewCanvas(40, 40), halves(40, 20, red, blue))
	_, err := New(settings("zigzag", 5, 1)).Run(context.Background(), eval, nil)
	assert.ErrorIs(t, err, ErrUnknownAlgorithm)
}

func TestRun_Cancelled(t *testing.T) {
	eval := NewEvaluator(model.NewCanvas(40, 40), halves(40, 20, red, blue))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	for _, workers := range []int{1, 2} {
		stats, err := New(settings(model.AlgorithmXCut, 5, workers)).Run(ctx, eval, nil)
		assert.ErrorIs(t, err, context.Canceled)
		assert.Zero(t, stats.Evaluated)
	}
}

func TestRun_Genetic(t *testing.T) {
	tgt := halves(40, 15, red, blue)
	eval := NewEvaluator(model.NewCanvas(40, 40), tgt)

	exhaustive, err := New(settings(model.AlgorithmRect, 5, 1)).Run(context.Background(), eval, nil)
	require.NoError(t, err)

	s := settings(model.AlgorithmRect, 5, 1)
	s.Strategy = model.StrategyGenetic
	s.Genetic.PopulationSize = 12
	s.Genetic.Generations = 8

	first, err := New(s).Run(context.Background(), eval, nil)
	require.NoError(t, err)
	second, err := New(s).Run(context.Background(), eval, nil)
	require.NoError(t, err)

	require.True(t, first.Found)
	assert.Equal(t, model.StrategyGenetic, first.Strategy)
	assert.GreaterOrEqual(t, first.Best.Score, exhaustive.Best.Score, "exhaustive search is optimal on its grid")
	assert.Equal(t, first.Best.Score, second.Best.Score, "a fixed seed makes the search reproducible")
	assert.LessOrEqual(t, first.Evaluated, int64(12*9))
}

func TestWatermark(t *testing.T) {
	c := &collector{}
	w := NewWatermark(c)

	assert.True(t, w.Offer(model.Result{Score: 10}))
	assert.False(t, w.Offer(model.Result{Score: 10}), "ties are not improvements")
	assert.False(t, w.Offer(model.Result{Score: 11}))
	assert.True(t, w.Offer(model.Result{Score: 3}))

	best, ok := w.Best()
	require.True(t, ok)
	assert.Equal(t, int64(3), best.Score)
	assert.Equal(t, []int64{10, 3}, c.scores)
}

func TestTeeForwardsToEveryReporter(t *testing.T) {
	a, b := &collector{}, &collector{}
	tee := Tee(a, nil, b)

	tee.Improved(model.Result{Score: 9})
	tee.Improved(model.Result{Score: 4})

	assert.Equal(t, []int64{9, 4}, a.scores)
	assert.Equal(t, []int64{9, 4}, b.scores)
}
