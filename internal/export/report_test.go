package export

import (
	"image"
	"image/color"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/BlockPaint/internal/engine"
	"github.com/piwi3910/BlockPaint/internal/model"
)

// buildTestReport creates a 40x40 run whose winning log paints the bottom
// quarter black.
func buildTestReport(t *testing.T) Report {
	t.Helper()
	initial := model.NewCanvas(40, 40)
	log := model.Log{
		model.HorizontalCut("0", 10),
		model.Recolor("0.0", model.Black),
	}
	final := initial.Clone()
	for _, op := range log {
		require.NoError(t, final.Apply(op))
	}

	best := model.Result{Score: 427, Cost: 27, Similarity: 400, Log: log}
	return Report{
		ProblemID: "7",
		RunID:     "run-1",
		Settings:  model.DefaultSettings(),
		Stats: engine.Stats{
			Algorithm:    model.AlgorithmYCut,
			Strategy:     model.StrategyExhaustive,
			Candidates:   100,
			Evaluated:    98,
			Skipped:      2,
			Improvements: 2,
			Best:         best,
			Found:        true,
			Duration:     1500 * time.Millisecond,
		},
		History: []Improvement{
			{Elapsed: 10 * time.Millisecond, Result: model.Result{Score: 900, Cost: 5, Similarity: 895, Log: model.Log{model.Recolor("0", model.White)}}},
			{Elapsed: 40 * time.Millisecond, Result: best},
		},
		Initial: initial,
		Final:   final,
		Target:  quarterTarget(40),
	}
}

// quarterTarget is a size x size image whose bottom quarter is black.
func quarterTarget(size int) image.Image {
	img := image.NewNRGBA(image.Rect(0, 0, size, size))
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			c := color.NRGBA{R: 255, G: 255, B: 255, A: 255}
			if y >= size*3/4 {
				c = color.NRGBA{A: 255}
			}
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

func TestOperationCosts(t *testing.T) {
	report := buildTestReport(t)

	costs, err := report.OperationCosts()
	require.NoError(t, err)
	require.Len(t, costs, 2)

	assert.Equal(t, int64(7), costs[0].Cost)
	assert.Equal(t, int64(20), costs[1].Cost, "recolor of a quarter block costs four times the base")
	assert.Equal(t, report.Stats.Best.Cost, costs[0].Cost+costs[1].Cost)
	assert.Equal(t, 1, report.Initial.Len(), "pricing must not mutate the initial canvas")
}

func TestOperationCosts_Errors(t *testing.T) {
	report := buildTestReport(t)
	report.Stats.Best.Log = model.Log{model.Recolor("9", model.Black)}

	_, err := report.OperationCosts()
	assert.ErrorIs(t, err, model.ErrBlockNotFound)

	report.Initial = nil
	_, err = report.OperationCosts()
	assert.Error(t, err)
}

func TestHistoryRecordsElapsed(t *testing.T) {
	h := NewHistory()
	clock := h.start
	h.now = func() time.Time { return clock }

	clock = clock.Add(250 * time.Millisecond)
	h.Improved(model.Result{Score: 10})
	clock = clock.Add(time.Second)
	h.Improved(model.Result{Score: 8})

	got := h.Improvements()
	require.Len(t, got, 2)
	assert.Equal(t, 250*time.Millisecond, got[0].Elapsed)
	assert.Equal(t, 1250*time.Millisecond, got[1].Elapsed)
	assert.Equal(t, int64(8), got[1].Result.Score)

	// Returned slice is a copy
	got[0].Result.Score = 0
	assert.Equal(t, int64(10), h.Improvements()[0].Result.Score)
}

func TestHistoryIsReporter(t *testing.T) {
	var _ engine.Reporter = NewHistory()
}

func TestHexColor(t *testing.T) {
	tests := []struct {
		c    model.Color
		want string
	}{
		{model.White, "#ffffff"},
		{model.Black, "#000000"},
		{model.RGBA(18, 52, 86, 255), "#123456"},
		{model.RGBA(255, 128, 0, 128), "#ff800080"},
	}
	for _, tt := range tests {
		if got := HexColor(tt.c); got != tt.want {
			t.Errorf("HexColor(%v) = %q, want %q", tt.c, got, tt.want)
		}
	}
}
