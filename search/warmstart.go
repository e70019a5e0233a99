package search

import (
	"fmt"
	"math"
	"math/rand"
	"runtime"

	"github.com/tomcraven/goga"
	priorityqueue "gopkg.in/dnaeon/go-priorityqueue.v1"

	"mipsolve/model"
)

// GreedyRepair sets binary variables to 1 in increasing order of
// cost-per-degree ratio until every enabled constraint is satisfied,
// generalizing the teacher's greedyRepair unit-cost-over-coverage
// priority queue from one set-cover row to any constraint. Returns an
// error if the candidate pool is exhausted while constraints remain
// violated.
func GreedyRepair(inst *model.Instance) error {
	pq := priorityqueue.New[model.VariableIndex, float64](priorityqueue.MinHeap)
	for _, v := range inst.Variables {
		if !v.IsBinaryLike() || v.IsFixed() || v.Value() == 1 {
			continue
		}
		degree := float64(v.RelatedConstraints.Cardinality())
		if degree == 0 {
			degree = 1
		}
		pq.Put(v.Index, v.ObjectiveSensitivity/degree)
	}

	for !inst.IsFeasible() {
		if pq.Len() == 0 {
			return fmt.Errorf("greedy repair: infeasible, no candidates left")
		}
		item := pq.Get()
		v := inst.Variables[item.Value]
		move := &model.Move{Alterations: []model.Alteration{{Variable: v.Index, NewValue: 1}}}
		inst.ApplyMove(move)
	}
	return nil
}

// GeneticWarmStart runs a bitset-genome genetic algorithm over every
// unfixed binary variable to produce an initial incumbent before tabu
// search proper, the same role the teacher gives its genetic heuristic
// ahead of its branch-and-bound/Lagrangian loop.
func GeneticWarmStart(inst *model.Instance, populationSize, maxStallRounds int, seed int64) {
	var targets []model.VariableIndex
	for _, v := range inst.Variables {
		if v.IsBinaryLike() && !v.IsFixed() {
			targets = append(targets, v.Index)
		}
	}
	if len(targets) == 0 {
		return
	}

	rng := rand.New(rand.NewSource(seed))
	simulator := &warmStartSimulator{inst: inst, targets: targets}
	bitsetCreate := &warmStartBitsetCreate{targets: targets, rng: rng}
	eliteConsumer := &warmStartEliteConsumer{}

	genAlgo := goga.NewGeneticAlgorithm()
	genAlgo.Simulator = simulator
	genAlgo.BitsetCreate = bitsetCreate
	genAlgo.EliteConsumer = eliteConsumer
	genAlgo.Mater = goga.NewMater([]goga.MaterFunctionProbability{
		{P: 0.9, F: goga.TwoPointCrossover, UseElite: true},
		{P: 0.9, F: goga.TwoPointCrossover},
		{P: 0.9, F: goga.UniformCrossover},
	})
	genAlgo.Selector = goga.NewSelector([]goga.SelectorFunctionProbability{
		{P: 0.9, F: goga.Roulette},
	})
	genAlgo.Init(populationSize, runtime.NumCPU())

	stallRounds := 0
	lastFitness := math.MinInt
	genAlgo.SimulateUntil(func(g goga.Genome) bool {
		if g.GetFitness() == lastFitness {
			stallRounds++
		} else {
			stallRounds = 0
			lastFitness = g.GetFitness()
		}
		return stallRounds >= maxStallRounds
	})

	if eliteConsumer.best == nil {
		return
	}
	applyGenome(inst, targets, eliteConsumer.best)
}

type warmStartSimulator struct {
	inst    *model.Instance
	targets []model.VariableIndex
}

func (s *warmStartSimulator) OnBeginSimulation() {}
func (s *warmStartSimulator) OnEndSimulation()   {}

func (s *warmStartSimulator) Simulate(g goga.Genome) {
	bits := g.GetBits().GetAll()
	for i, vi := range s.targets {
		s.inst.Variables[vi].SetValue(bits[i])
	}
	if s.inst.Objective != nil {
		s.inst.Objective.Expression.Update()
	}
	for _, c := range s.inst.Constraints {
		c.Expression.Update()
		c.Refresh()
	}

	if s.inst.IsFeasible() {
		reported := 0.0
		if s.inst.Objective != nil {
			reported = s.inst.Objective.Reported()
		}
		g.SetFitness(-int(reported))
	} else {
		g.SetFitness(math.MinInt)
	}
}

func (s *warmStartSimulator) ExitFunc(g goga.Genome) bool { return true }

type warmStartBitsetCreate struct {
	targets []model.VariableIndex
	rng     *rand.Rand
}

func (bc *warmStartBitsetCreate) Go() goga.Bitset {
	b := goga.Bitset{}
	b.Create(len(bc.targets))
	for i := range bc.targets {
		b.Set(i, bc.rng.Intn(2))
	}
	return b
}

type warmStartEliteConsumer struct {
	best goga.Genome
}

func (ec *warmStartEliteConsumer) OnElite(g goga.Genome) {
	if ec.best == nil || ec.best.GetFitness() < g.GetFitness() {
		ec.best = g
	}
}

func applyGenome(inst *model.Instance, targets []model.VariableIndex, g goga.Genome) {
	bits := g.GetBits().GetAll()
	for i, vi := range targets {
		inst.Variables[vi].SetValue(bits[i])
	}
	if inst.Objective != nil {
		inst.Objective.Expression.Update()
	}
	for _, c := range inst.Constraints {
		c.Expression.Update()
		c.Refresh()
	}
}
