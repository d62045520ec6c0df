package engine

import (
	"math/rand"
	"sort"

	"github.com/piwi3910/treepack/internal/model"
	"github.com/piwi3910/treepack/internal/order"
)

// SearchOrderName is recorded in PackResult.Order for searched layouts.
const SearchOrderName = "search"

// GeneticConfig holds parameters for the genetic order search.
type GeneticConfig struct {
	PopulationSize int
	Generations    int
	MutationRate   float64
	TournamentSize int
	EliteCount     int
	Seed           int64
}

// DefaultGeneticConfig returns sensible default parameters.
func DefaultGeneticConfig() GeneticConfig {
	return GeneticConfig{
		PopulationSize: 50,
		Generations:    100,
		MutationRate:   0.15,
		TournamentSize: 3,
		EliteCount:     2,
		Seed:           42,
	}
}

// ScaledGeneticConfig returns the default config with more generations and a
// larger population for long block lists.
func ScaledGeneticConfig(blockCount int) GeneticConfig {
	config := DefaultGeneticConfig()
	if blockCount > 20 {
		config.Generations = 150
	}
	if blockCount > 50 {
		config.Generations = 200
		config.PopulationSize = 80
	}
	return config
}

// chromosome is a candidate packing order: a permutation of block indices.
type chromosome struct {
	genes   []int
	fitness float64
}

type geneticSearch struct {
	opt    *Optimizer
	config GeneticConfig
	blocks []model.Block
	rng    *rand.Rand
	err    error
}

func newGeneticSearch(opt *Optimizer, config GeneticConfig, blocks []model.Block) *geneticSearch {
	if config.PopulationSize < 1 {
		config.PopulationSize = 1
	}
	if config.TournamentSize < 1 {
		config.TournamentSize = 1
	}
	return &geneticSearch{
		opt:    opt,
		config: config,
		blocks: blocks,
		rng:    rand.New(rand.NewSource(config.Seed)),
	}
}

// run evolves the population and returns the best chromosome found.
func (g *geneticSearch) run() (chromosome, error) {
	population := g.initPopulation()
	for i := range population {
		population[i].fitness = g.evaluate(population[i])
		if g.err != nil {
			return chromosome{}, g.err
		}
	}

	for gen := 0; gen < g.config.Generations; gen++ {
		// Stable so equal fitness keeps the seeded order ahead
		sort.SliceStable(population, func(i, j int) bool {
			return population[i].fitness > population[j].fitness
		})

		next := make([]chromosome, 0, g.config.PopulationSize)

		eliteCount := g.config.EliteCount
		if eliteCount > len(population) {
			eliteCount = len(population)
		}
		for i := 0; i < eliteCount; i++ {
			next = append(next, copyChromosome(population[i]))
		}

		for len(next) < g.config.PopulationSize {
			parent1 := g.tournamentSelect(population)
			parent2 := g.tournamentSelect(population)

			child := g.orderCrossover(parent1, parent2)
			g.mutate(&child)

			child.fitness = g.evaluate(child)
			if g.err != nil {
				return chromosome{}, g.err
			}
			next = append(next, child)
		}

		population = next
	}

	sort.SliceStable(population, func(i, j int) bool {
		return population[i].fitness > population[j].fitness
	})
	return population[0], nil
}

// initPopulation fills the population with random permutations, with the
// maxside order in slot 0 so the search never does worse than it.
func (g *geneticSearch) initPopulation() []chromosome {
	n := len(g.blocks)
	population := make([]chromosome, g.config.PopulationSize)
	for i := range population {
		population[i] = chromosome{genes: g.rng.Perm(n)}
	}
	population[0] = g.seedChromosome()
	return population
}

func (g *geneticSearch) seedChromosome() chromosome {
	genes := make([]int, len(g.blocks))
	for i := range genes {
		genes[i] = i
	}
	cmp := order.Multi(order.ByType, order.ByMax, order.ByMin, order.ByHeight, order.ByWidth)
	sort.SliceStable(genes, func(i, j int) bool {
		return cmp(g.blocks[genes[i]], g.blocks[genes[j]]) < 0
	})
	return chromosome{genes: genes}
}

// evaluate packs the chromosome's order and scores the fraction of the
// container covered by placed blocks. For a growing container every block
// is placed, so this rewards the smallest final container.
func (g *geneticSearch) evaluate(c chromosome) float64 {
	result, err := g.decode(c)
	if err != nil {
		if g.err == nil {
			g.err = err
		}
		return 0
	}
	return result.FillRatio() / 100.0
}

// decode packs copies of the blocks in chromosome order.
func (g *geneticSearch) decode(c chromosome) (model.PackResult, error) {
	ordered := make([]model.Block, len(c.genes))
	for i, idx := range c.genes {
		ordered[i] = g.blocks[idx]
		ordered[i].Fit = nil
	}
	return g.opt.Pack(ordered)
}

// tournamentSelect picks the best individual from a random tournament.
func (g *geneticSearch) tournamentSelect(population []chromosome) chromosome {
	best := population[g.rng.Intn(len(population))]
	for i := 1; i < g.config.TournamentSize; i++ {
		candidate := population[g.rng.Intn(len(population))]
		if candidate.fitness > best.fitness {
			best = candidate
		}
	}
	return copyChromosome(best)
}

// orderCrossover implements Order Crossover (OX1): a segment of parent1 is
// kept in place and the rest is filled in parent2's relative order.
func (g *geneticSearch) orderCrossover(parent1, parent2 chromosome) chromosome {
	n := len(parent1.genes)
	if n <= 2 {
		return copyChromosome(parent1)
	}

	point1 := g.rng.Intn(n)
	point2 := g.rng.Intn(n)
	if point1 > point2 {
		point1, point2 = point2, point1
	}

	child := chromosome{genes: make([]int, n)}
	inSegment := make(map[int]bool)
	for i := point1; i <= point2; i++ {
		child.genes[i] = parent1.genes[i]
		inSegment[parent1.genes[i]] = true
	}

	childIdx := (point2 + 1) % n
	for _, gene := range parent2.genes {
		if !inSegment[gene] {
			child.genes[childIdx] = gene
			childIdx = (childIdx + 1) % n
		}
	}
	return child
}

// mutate applies swap and inversion mutations.
func (g *geneticSearch) mutate(c *chromosome) {
	n := len(c.genes)
	if n < 2 {
		return
	}

	if g.rng.Float64() < g.config.MutationRate {
		i := g.rng.Intn(n)
		j := g.rng.Intn(n)
		c.genes[i], c.genes[j] = c.genes[j], c.genes[i]
	}

	// Inversion is half as likely as a swap
	if g.rng.Float64() < g.config.MutationRate*0.5 {
		i := g.rng.Intn(n)
		j := g.rng.Intn(n)
		if i > j {
			i, j = j, i
		}
		for i < j {
			c.genes[i], c.genes[j] = c.genes[j], c.genes[i]
			i++
			j--
		}
	}
}

func copyChromosome(c chromosome) chromosome {
	genes := make([]int, len(c.genes))
	copy(genes, c.genes)
	return chromosome{genes: genes, fitness: c.fitness}
}

// SearchOrder looks for a block order that packs better than any fixed sort
// order. Every candidate is an ordinary single greedy pass; the search only
// changes the input order. The returned result uses fresh copies of the
// expanded blocks.
func SearchOrder(settings model.PackSettings, specs []model.BlockSpec, config GeneticConfig, opts ...Option) (model.PackResult, error) {
	blocks := model.Expand(specs)

	searchSettings := settings
	searchSettings.Order = SearchOrderName
	opt := New(searchSettings, opts...)

	if len(blocks) == 0 {
		return opt.Pack(blocks)
	}

	// Validate once up front; every later pass uses the same dimensions.
	quiet := New(searchSettings)
	if _, err := quiet.Pack(append([]model.Block(nil), blocks...)); err != nil {
		return model.PackResult{}, err
	}

	best, err := newGeneticSearch(quiet, config, blocks).run()
	if err != nil {
		return model.PackResult{}, err
	}

	opt.logger.Debug("order search finished",
		"generations", config.Generations,
		"population", config.PopulationSize,
		"fitness", best.fitness)

	ordered := make([]model.Block, len(best.genes))
	for i, idx := range best.genes {
		ordered[i] = blocks[idx]
	}
	return opt.Pack(ordered)
}
