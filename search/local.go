package search

import (
	"time"

	"mipsolve/model"
	"mipsolve/neighborhood"
)

// LocalSearchCore is the stripped-down "first-improvement" variant of
// TabuSearchCore spec §4.H describes: scan candidates in order, commit the
// first whose local-augmented objective improves the current by more than
// model.EPSILON, stop at a local optimum. No tabu list, no penalty
// adaptation.
type LocalSearchCore struct {
	inst       *model.Instance
	generators *neighborhood.GeneratorSet
	incumbents *IncumbentHolder
	options    Options
	logger     *Logger

	globalPenaltyCoefficient float64
	iteration                int
}

func NewLocalSearchCore(inst *model.Instance, generators *neighborhood.GeneratorSet, options Options, globalPenaltyCoefficient float64) *LocalSearchCore {
	return &LocalSearchCore{
		inst:                     inst,
		generators:               generators,
		incumbents:               NewIncumbentHolder(),
		options:                  options,
		logger:                   NewLogger(options.Verbose),
		globalPenaltyCoefficient: globalPenaltyCoefficient,
	}
}

func (d *LocalSearchCore) Incumbents() *IncumbentHolder { return d.incumbents }

func (d *LocalSearchCore) Run() Result {
	start := time.Now()
	RefreshAllObjectiveImprovable(d.inst)
	RefreshFeasibilityImprovability(d.inst)

	score := ScoreSolution(d.inst, d.globalPenaltyCoefficient)
	d.incumbents.TryUpdate(d.inst, score)

	for {
		if d.options.LocalSearch.TimeMax > 0 && time.Since(start) >= d.options.LocalSearch.TimeMax {
			return Result{Status: StatusTimeOver, Iterations: d.iteration, Elapsed: time.Since(start), Incumbents: d.incumbents}
		}
		if d.options.LocalSearch.IterationMax > 0 && d.iteration >= d.options.LocalSearch.IterationMax {
			return Result{Status: StatusIterationOver, Iterations: d.iteration, Elapsed: time.Since(start), Incumbents: d.incumbents}
		}

		hints := neighborhood.AcceptanceHints{
			AcceptObjectiveImprovable:   score.IsFeasible,
			AcceptFeasibilityImprovable: !score.IsFeasible,
		}
		d.generators.UpdateAll(d.inst, hints, d.options.IsEnabledParallelNeighborhoodUpdate)
		candidates := d.generators.AvailableMoves()
		if len(candidates) == 0 {
			return Result{Status: StatusNoMove, Iterations: d.iteration, Elapsed: time.Since(start), Incumbents: d.incumbents}
		}

		improved := false
		for _, move := range candidates {
			candidateScore := ScoreMove(d.inst, move, score, d.globalPenaltyCoefficient)
			if candidateScore.LocalAugmentedObjective < score.LocalAugmentedObjective-model.EPSILON {
				d.inst.ApplyMove(move)
				d.incumbents.TryUpdate(d.inst, candidateScore)
				score = candidateScore
				improved = true
				break
			}
		}

		d.iteration++
		if d.iteration%max(1, d.options.LocalSearch.LogInterval) == 0 {
			d.logger.Full("local-search iteration=%d objective=%.4f violation=%.4f", d.iteration, score.Objective, score.TotalViolation)
		}

		if !improved {
			return Result{Status: StatusLocalOptimal, Iterations: d.iteration, Elapsed: time.Since(start), Incumbents: d.incumbents}
		}
	}
}
