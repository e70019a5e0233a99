package search

import (
	"math/rand"
	"time"

	"mipsolve/model"
	"mipsolve/neighborhood"
)

// LagrangianPenaltyFunc scores a move's contribution from a warm-started
// Lagrangian dual, if one ran before the tabu-search core. Optional: a nil
// func is treated as always returning zero.
type LagrangianPenaltyFunc func(move *model.Move) float64

// TabuSearchCore is the primary search core of spec §4.H: a tabu-search
// driver over an Instance's neighborhood generators, with an adaptive
// penalty coefficient, an adaptive tabu tenure, and the three-incumbent
// bookkeeping IncumbentHolder provides.
type TabuSearchCore struct {
	inst       *model.Instance
	generators *neighborhood.GeneratorSet
	incumbents *IncumbentHolder
	memory     *Memory
	options    Options
	logger     *Logger
	rng        *rand.Rand

	lagrangianPenalty LagrangianPenaltyFunc

	tabuTenure               int
	globalPenaltyCoefficient float64
	iteration                int
	noImprovementIterations  int
	lastTouched              []model.VariableIndex
}

func NewTabuSearchCore(inst *model.Instance, generators *neighborhood.GeneratorSet, options Options) *TabuSearchCore {
	return &TabuSearchCore{
		inst:                     inst,
		generators:               generators,
		incumbents:               NewIncumbentHolder(),
		memory:                   NewMemory(inst),
		options:                  options,
		logger:                   NewLogger(options.Verbose),
		rng:                      rand.New(rand.NewSource(options.Seed)),
		tabuTenure:               options.TabuSearch.InitialTabuTenure,
		globalPenaltyCoefficient: options.Penalty.InitialPenaltyCoefficient,
	}
}

// SetLagrangianPenalty installs the per-move Lagrangian penalty a warm-start
// LagrangeDualCore run produced, folded into the effective cost at step 5.
func (d *TabuSearchCore) SetLagrangianPenalty(f LagrangianPenaltyFunc) {
	d.lagrangianPenalty = f
}

func (d *TabuSearchCore) Incumbents() *IncumbentHolder { return d.incumbents }

// Run executes the per-iteration loop of spec §4.H until a termination
// status is reached.
func (d *TabuSearchCore) Run() Result {
	start := time.Now()
	RefreshAllObjectiveImprovable(d.inst)
	RefreshFeasibilityImprovability(d.inst)

	score := ScoreSolution(d.inst, d.globalPenaltyCoefficient)
	d.incumbents.TryUpdate(d.inst, score)

	for {
		if status, done := d.checkTermination(start); done {
			return Result{Status: status, Iterations: d.iteration, Elapsed: time.Since(start), Incumbents: d.incumbents}
		}

		d.incumbents.ResetLocalAugmentedIncumbent()

		if d.lastTouched != nil {
			RefreshImprovability(d.inst, d.lastTouched)
		}

		hints, softFallback := d.acceptanceHints(score)
		d.generators.UpdateAll(d.inst, hints, d.options.IsEnabledParallelNeighborhoodUpdate)
		candidates := d.generators.AvailableMoves()

		if len(candidates) == 0 && softFallback {
			d.generators.UpdateAll(d.inst, neighborhood.AcceptanceHints{AcceptAll: true}, d.options.IsEnabledParallelNeighborhoodUpdate)
			candidates = d.generators.AvailableMoves()
		}

		if len(candidates) == 0 {
			status := d.checkOptimalOrNoMove(score)
			return Result{Status: status, Iterations: d.iteration, Elapsed: time.Since(start), Incumbents: d.incumbents}
		}

		if d.options.Seed != 0 {
			d.rng.Shuffle(len(candidates), func(i, j int) { candidates[i], candidates[j] = candidates[j], candidates[i] })
		}

		best, bestScore, bestTabu, bestTabuScore, anyPermissible := d.selectBest(candidates, score)

		var chosen *model.Move
		var chosenScore SolutionScore
		switch {
		case anyPermissible:
			chosen, chosenScore = best, bestScore
		case bestTabu != nil:
			chosen, chosenScore = bestTabu, bestTabuScore
		default:
			return Result{Status: StatusLocalOptimal, Iterations: d.iteration, Elapsed: time.Since(start), Incumbents: d.incumbents}
		}

		d.generators.RecordAcceptedMove(d.inst, chosen)
		d.inst.ApplyMove(chosen)
		d.memory.StampMove(chosen, d.iteration)
		d.lastTouched = touchedVariables(chosen)

		status := d.incumbents.TryUpdate(d.inst, chosenScore)
		if status&(GlobalAugmentedUpdate|FeasibleUpdate) != 0 {
			d.noImprovementIterations = 0
		} else {
			d.noImprovementIterations++
		}

		d.adapt()

		score = chosenScore
		d.iteration++

		if d.iteration%max(1, d.options.TabuSearch.LogInterval) == 0 {
			d.logger.Outer("iteration=%d objective=%.4f violation=%.4f tenure=%d penalty=%.4f",
				d.iteration, score.Objective, score.TotalViolation, d.tabuTenure, d.globalPenaltyCoefficient)
		}

		if d.options.TargetObjectiveValue != nil && score.IsFeasible && score.Objective <= *d.options.TargetObjectiveValue {
			return Result{Status: StatusReachTarget, Iterations: d.iteration, Elapsed: time.Since(start), Incumbents: d.incumbents}
		}
	}
}

// acceptanceHints derives the per-iteration AcceptanceHints from
// ImprovabilityScreeningMode. It returns the primary (screened) hints plus
// whether, should those hints yield zero candidates, the driver should
// retry unscreened rather than treat the iteration as a dead end:
//
//   - Off never screens: candidates pass regardless of improvability, so
//     no retry is needed.
//   - Soft screens first but falls back to every candidate once the
//     screened set comes up empty.
//   - Aggressive never falls back: only improvable moves are ever
//     considered, so an empty screened set is a genuine dead end.
//   - Automatic behaves like Soft until the first feasible incumbent is
//     found, then behaves like Aggressive.
func (d *TabuSearchCore) acceptanceHints(score SolutionScore) (neighborhood.AcceptanceHints, bool) {
	screened := neighborhood.AcceptanceHints{
		AcceptObjectiveImprovable:   score.IsFeasible,
		AcceptFeasibilityImprovable: !score.IsFeasible,
	}
	switch d.options.ImprovabilityScreeningMode {
	case ScreeningOff:
		return neighborhood.AcceptanceHints{AcceptAll: true}, false
	case ScreeningSoft:
		return screened, true
	case ScreeningAutomatic:
		return screened, d.incumbents.Feasible == nil
	default: // ScreeningAggressive
		return screened, false
	}
}

func (d *TabuSearchCore) checkTermination(start time.Time) (TerminationStatus, bool) {
	if d.options.TabuSearch.TimeMax > 0 && time.Since(start) >= d.options.TabuSearch.TimeMax {
		return StatusTimeOver, true
	}
	if d.options.TabuSearch.IterationMax > 0 && d.iteration >= d.options.TabuSearch.IterationMax {
		return StatusIterationOver, true
	}
	return StatusOptimal, false
}

// checkOptimalOrNoMove distinguishes a genuine optimum from a dead end once
// the neighborhood generators offer no candidate at all: per spec §4.H step
// 1, a feasible solution with no remaining objective-improvable variable is
// OPTIMAL; anything else with no candidates is NO_MOVE. Every expression in
// this model is linear, so the original's accompanying is_linear() check is
// unconditionally true here.
func (d *TabuSearchCore) checkOptimalOrNoMove(score SolutionScore) TerminationStatus {
	if score.IsFeasible && !AnyObjectiveImprovable(d.inst) {
		return StatusOptimal
	}
	return StatusNoMove
}

// candidateScoreResult is one candidate move's evaluation, computed in the
// parallel scoring pass and consumed by the sequential selection pass.
type candidateScoreResult struct {
	score         SolutionScore
	effectiveCost float64
	tabu          bool
}

// selectBest scores every candidate and returns the best permissible move
// (non-tabu, or tabu but passing aspiration), plus the best tabu move as a
// fallback per spec §4.H step 6. Scoring runs data-parallel across
// candidates per IsEnabledParallelEvaluation (spec §4.H step 5 / §5); the
// actual best-of selection stays a single sequential pass since it folds
// results together.
func (d *TabuSearchCore) selectBest(candidates []*model.Move, current SolutionScore) (best *model.Move, bestScore SolutionScore, bestTabu *model.Move, bestTabuScore SolutionScore, found bool) {
	results := make([]candidateScoreResult, len(candidates))
	parallelFor(len(candidates), d.options.IsEnabledParallelEvaluation, func(i int) {
		move := candidates[i]
		candidateScore := ScoreMove(d.inst, move, current, d.globalPenaltyCoefficient)
		frequencyPenalty := d.memory.FrequencyPenalty(move, d.iteration)
		lagrangianPenalty := 0.0
		if d.lagrangianPenalty != nil {
			lagrangianPenalty = d.lagrangianPenalty(move)
		}
		results[i] = candidateScoreResult{
			score:         candidateScore,
			effectiveCost: candidateScore.LocalAugmentedObjective + frequencyPenalty + lagrangianPenalty,
			tabu:          d.memory.MoveIsTabu(move, d.iteration, d.tabuTenure),
		}
	})

	bestCost := 0.0
	bestTabuCost := 0.0

	for i, move := range candidates {
		result := results[i]
		aspires := d.incumbents.GlobalAugmented == nil || result.score.GlobalAugmentedObjective < d.incumbents.GlobalAugmented.Score.GlobalAugmentedObjective
		permissible := !result.tabu || aspires

		if permissible && (!found || result.effectiveCost < bestCost) {
			best, bestScore, bestCost, found = move, result.score, result.effectiveCost, true
		}
		if result.tabu && (bestTabu == nil || result.effectiveCost < bestTabuCost) {
			bestTabu, bestTabuScore, bestTabuCost = move, result.score, result.effectiveCost
		}
	}
	return
}

// adapt implements spec §4.H step 8: tighten the penalty and lengthen the
// tenure after a stall, relax the penalty while the incumbent keeps
// improving.
func (d *TabuSearchCore) adapt() {
	threshold := d.options.TabuSearch.NoImprovementIterationsForAdaptation
	if threshold <= 0 {
		return
	}
	if d.noImprovementIterations > 0 && d.noImprovementIterations%threshold == 0 {
		d.globalPenaltyCoefficient *= d.options.Penalty.PenaltyCoefficientTighteningRate
		if d.tabuTenure < d.options.TabuSearch.TabuTenureMax {
			d.tabuTenure++
		}
		return
	}
	if d.noImprovementIterations == 0 {
		d.globalPenaltyCoefficient *= d.options.Penalty.PenaltyCoefficientRelaxingRate
		if d.tabuTenure > d.options.TabuSearch.TabuTenureMin {
			d.tabuTenure--
		}
	}
}

func touchedVariables(move *model.Move) []model.VariableIndex {
	out := make([]model.VariableIndex, len(move.Alterations))
	for i, alt := range move.Alterations {
		out[i] = alt.Variable
	}
	return out
}
