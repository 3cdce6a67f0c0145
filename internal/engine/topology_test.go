package engine

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/BlockPaint/internal/model"
)

// recordingSampler paints every region with a color derived from its
// bounds and remembers the regions it was asked about.
type recordingSampler struct {
	regions []model.Rect
}

func (s *recordingSampler) RepresentativeColor(r model.Rect) model.Color {
	s.regions = append(s.regions, r)
	return model.RGBA(uint8(r.Left), uint8(r.Bottom), uint8(r.Right), 255)
}

func (s *recordingSampler) Similarity(*model.Canvas) (int64, error) { return 0, nil }

func TestLookup(t *testing.T) {
	for _, a := range model.Algorithms {
		topo, err := Lookup(a)
		require.NoError(t, err)
		assert.Equal(t, a, topo.Name)
	}

	_, err := Lookup("spiral")
	assert.ErrorIs(t, err, ErrUnknownAlgorithm)
}

func TestBuild_ReplaysToValidTiling(t *testing.T) {
	regions := map[model.Algorithm]int{
		model.AlgorithmXCut: 5,
		model.AlgorithmYCut: 5,
		model.AlgorithmRect: 7,
		model.AlgorithmX3Y2: 6,
		model.AlgorithmX3Y3: 9,
	}
	rng := rand.New(rand.NewSource(3))

	for _, topo := range Topologies() {
		space := topo.Space(400, 400, 0)
		var vectors [][]int
		for v := range space.All() {
			vectors = append(vectors, append([]int(nil), v...))
			break
		}
		for i := 0; i < 10; i++ {
			v, ok := space.Random(rng)
			require.True(t, ok)
			vectors = append(vectors, v)
		}

		for _, v := range vectors {
			canvas := model.NewCanvas(400, 400)
			log := topo.Build(v, 400, 400, &recordingSampler{})
			for _, op := range log {
				require.NoError(t, canvas.Apply(op), "%s %v: %s", topo.Name, v, op)
			}
			assert.NoError(t, canvas.Validate())
			assert.Equal(t, regions[topo.Name], canvas.Len(), "%s %v", topo.Name, v)
		}
	}
}

func TestBuild_RegionsMatchFinalBlocks(t *testing.T) {
	// Every leaf of the final canvas must carry the color sampled for
	// exactly its own rectangle.
	for _, topo := range Topologies() {
		space := topo.Space(400, 400, 0)
		v, ok := space.Random(rand.New(rand.NewSource(11)))
		require.True(t, ok)

		sampler := &recordingSampler{}
		canvas := model.NewCanvas(400, 400)
		for _, op := range topo.Build(v, 400, 400, sampler) {
			require.NoError(t, canvas.Apply(op))
		}
		canvas.Each(func(id string, b model.Block) {
			leaf := b.(*model.Leaf)
			assert.Equal(t, sampler.RepresentativeColor(leaf.Rect), leaf.Color,
				"%s %v: block %s %s", topo.Name, v, id, leaf.Rect)
		})
	}
}

func TestBuildX3Y3_UsesEachColumnsOwnCuts(t *testing.T) {
	topo, _ := Lookup(model.AlgorithmX3Y3)
	sampler := &recordingSampler{}
	topo.Build([]int{100, 200, 50, 100, 150, 250, 300, 350}, 400, 400, sampler)

	assert.Contains(t, sampler.regions, model.R(100, 150, 200, 250), "middle column centre cell")
	assert.Contains(t, sampler.regions, model.R(200, 300, 400, 350), "right column centre cell")
	assert.NotContains(t, sampler.regions, model.R(100, 50, 200, 100))
}

func TestBuildXCut_Log(t *testing.T) {
	topo, _ := Lookup(model.AlgorithmXCut)
	log := topo.Build([]int{10, 20, 30, 40}, 50, 50, &recordingSampler{})

	assert.Equal(t, []string{
		"color [0] [0, 0, 10, 255]",
		"cut [0] [X] [10]",
		"color [0.1] [10, 0, 20, 255]",
		"cut [0.1] [X] [20]",
		"color [0.1.1] [20, 0, 30, 255]",
		"cut [0.1.1] [X] [30]",
		"color [0.1.1.1] [30, 0, 40, 255]",
		"cut [0.1.1.1] [X] [40]",
		"color [0.1.1.1.1] [40, 0, 50, 255]",
	}, log.Strings())
}
