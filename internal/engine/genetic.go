package engine

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"sort"

	"github.com/piwi3910/BlockPaint/internal/model"
)

// chromosome is a candidate coordinate vector of a topology.
type chromosome struct {
	genes   []int
	fitness int64 // score of the built log; lower is better
}

// unfit is the fitness of candidates that could not be scored.
const unfit = math.MaxInt64

// geneticSearch explores a topology's space with a genetic algorithm.
// Every scored candidate is offered to the run's watermark.
type geneticSearch struct {
	run    *run
	config model.GeneticConfig
	rng    *rand.Rand
	cache  map[string]int64
}

func newGeneticSearch(r *run, config model.GeneticConfig) *geneticSearch {
	defaults := model.DefaultGeneticConfig()
	if config.PopulationSize <= 0 {
		config.PopulationSize = defaults.PopulationSize
	}
	if config.Generations <= 0 {
		config.Generations = defaults.Generations
	}
	if config.TournamentSize <= 0 {
		config.TournamentSize = defaults.TournamentSize
	}
	if config.EliteCount < 0 {
		config.EliteCount = 0
	}
	return &geneticSearch{
		run:    r,
		config: config,
		rng:    rand.New(rand.NewSource(config.Seed)),
		cache:  make(map[string]int64),
	}
}

// genetic runs the genetic strategy on the run's space.
func (r *run) genetic(ctx context.Context, config model.GeneticConfig) error {
	return newGeneticSearch(r, config).optimize(ctx)
}

// optimize evolves the population for the configured number of generations.
func (g *geneticSearch) optimize(ctx context.Context) error {
	population := g.initPopulation()
	if len(population) == 0 {
		return nil
	}

	for i := range population {
		population[i].fitness = g.evaluate(population[i])
	}

	for gen := 0; gen < g.config.Generations; gen++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		sortByFitness(population)

		newPop := make([]chromosome, 0, g.config.PopulationSize)

		// Elitism: carry over the best individuals unchanged
		eliteCount := min(g.config.EliteCount, len(population))
		for i := 0; i < eliteCount; i++ {
			newPop = append(newPop, copyChromosome(population[i]))
		}

		for len(newPop) < g.config.PopulationSize {
			parent1 := g.tournamentSelect(population)
			parent2 := g.tournamentSelect(population)

			child := g.uniformCrossover(parent1, parent2)
			g.mutate(&child)

			if !g.run.space.Repair(child.genes) {
				child = copyChromosome(parent1)
			}
			child.fitness = g.evaluate(child)
			newPop = append(newPop, child)
		}

		population = newPop
		best, _ := g.run.mark.Best()
		g.run.engine.logger().Debug("generation done",
			"algorithm", g.run.topo.Name, "generation", gen, "best", best.Score)
	}
	return nil
}

// initPopulation draws random vectors from the space. The first individual
// is the first vector in generation order, which is what an exhaustive
// search would score first.
func (g *geneticSearch) initPopulation() []chromosome {
	population := make([]chromosome, 0, g.config.PopulationSize)
	for values := range g.run.space.All() {
		genes := make([]int, len(values))
		copy(genes, values)
		population = append(population, chromosome{genes: genes})
		break
	}
	if len(population) == 0 {
		return nil
	}
	for len(population) < g.config.PopulationSize {
		genes, ok := g.run.space.Random(g.rng)
		if !ok {
			break
		}
		population = append(population, chromosome{genes: genes})
	}
	return population
}

// evaluate scores a chromosome, remembering scores of vectors already seen.
func (g *geneticSearch) evaluate(c chromosome) int64 {
	key := fmt.Sprint(c.genes)
	if f, ok := g.cache[key]; ok {
		return f
	}
	fitness := int64(unfit)
	if res, ok := g.run.try(c.genes); ok {
		fitness = res.Score
		g.run.offer(res)
	}
	g.cache[key] = fitness
	return fitness
}

// tournamentSelect picks the best individual from a random tournament.
func (g *geneticSearch) tournamentSelect(population []chromosome) chromosome {
	best := population[g.rng.Intn(len(population))]
	for i := 1; i < g.config.TournamentSize; i++ {
		candidate := population[g.rng.Intn(len(population))]
		if candidate.fitness < best.fitness {
			best = candidate
		}
	}
	return copyChromosome(best)
}

// uniformCrossover takes each coordinate from either parent with equal
// probability. The child may violate ordering constraints until repaired.
func (g *geneticSearch) uniformCrossover(parent1, parent2 chromosome) chromosome {
	child := chromosome{genes: make([]int, len(parent1.genes))}
	for i := range child.genes {
		if g.rng.Intn(2) == 0 {
			child.genes[i] = parent1.genes[i]
		} else {
			child.genes[i] = parent2.genes[i]
		}
	}
	return child
}

// mutate applies random mutations to a chromosome.
func (g *geneticSearch) mutate(c *chromosome) {
	n := len(c.genes)
	if n == 0 {
		return
	}
	step := g.run.space.Step

	// Resample mutation: redraw one coordinate within its admissible range
	if g.rng.Float64() < g.config.MutationRate {
		i := g.rng.Intn(n)
		if v, ok := g.run.space.randomAt(g.rng, i, c.genes); ok {
			c.genes[i] = v
		}
	}

	// Nudge mutation: move one coordinate a single step
	if g.rng.Float64() < g.config.MutationRate {
		i := g.rng.Intn(n)
		if g.rng.Intn(2) == 0 {
			c.genes[i] += step
		} else {
			c.genes[i] -= step
		}
	}
}

func sortByFitness(population []chromosome) {
	sort.SliceStable(population, func(i, j int) bool {
		return population[i].fitness < population[j].fitness
	})
}

// copyChromosome creates a deep copy of a chromosome.
func copyChromosome(c chromosome) chromosome {
	genes := make([]int, len(c.genes))
	copy(genes, c.genes)
	return chromosome{genes: genes, fitness: c.fitness}
}
