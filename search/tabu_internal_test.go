package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mipsolve/model"
	"mipsolve/neighborhood"
)

func newCardinalityInstance(t *testing.T) (*model.Instance, []*model.Variable) {
	t.Helper()
	inst := model.NewInstance()
	vars := make([]*model.Variable, 5)
	var err error
	for i := range vars {
		vars[i], err = inst.AddVariable("x"+string(rune('0'+i)), 0, 1, model.Binary)
		require.NoError(t, err)
		vars[i].SetValue(1)
	}

	sum := model.NewExpression(inst)
	for _, v := range vars {
		sum.SetCoefficient(v.Index, 1)
	}
	sum.SetConstant(-1)
	_, err = inst.AddConstraint("exactly_one", sum, model.Equal)
	require.NoError(t, err)

	obj := model.NewExpression(inst)
	for _, v := range vars {
		obj.SetCoefficient(v.Index, 1)
	}
	inst.SetObjective(obj, false)

	require.NoError(t, inst.Finalize())
	return inst, vars
}

// TestAdaptTightensPenaltyAfterStall is the penalty-adaptation boundary
// scenario: with an infeasible start and a tightening rate above 1, the
// global penalty coefficient must strictly increase once the stall counter
// crosses the adaptation threshold, and the tabu tenure must grow with it.
func TestAdaptTightensPenaltyAfterStall(t *testing.T) {
	inst, _ := newCardinalityInstance(t)
	options := DefaultOptions()
	options.Penalty.InitialPenaltyCoefficient = 1.0
	options.Penalty.PenaltyCoefficientTighteningRate = 1.5
	options.TabuSearch.NoImprovementIterationsForAdaptation = 3
	options.TabuSearch.InitialTabuTenure = 5
	options.TabuSearch.TabuTenureMax = 20

	core := NewTabuSearchCore(inst, neighborhood.NewGeneratorSet(inst, neighborhood.ChainReductionOverlapRate, 0.2, 100), options)
	initialPenalty := core.globalPenaltyCoefficient
	initialTenure := core.tabuTenure

	core.noImprovementIterations = 3
	core.adapt()

	assert.InDelta(t, initialPenalty*1.5, core.globalPenaltyCoefficient, model.EPSILON)
	assert.Equal(t, initialTenure+1, core.tabuTenure)
}

// TestAdaptRelaxesPenaltyOnImprovement complements the stall case: a zeroed
// stall counter (the iteration just improved the incumbent) relaxes the
// penalty and shortens the tenure instead.
func TestAdaptRelaxesPenaltyOnImprovement(t *testing.T) {
	inst, _ := newCardinalityInstance(t)
	options := DefaultOptions()
	options.Penalty.InitialPenaltyCoefficient = 2.0
	options.Penalty.PenaltyCoefficientRelaxingRate = 0.5
	options.TabuSearch.NoImprovementIterationsForAdaptation = 3
	options.TabuSearch.InitialTabuTenure = 10
	options.TabuSearch.TabuTenureMin = 1

	core := NewTabuSearchCore(inst, neighborhood.NewGeneratorSet(inst, neighborhood.ChainReductionOverlapRate, 0.2, 100), options)
	initialPenalty := core.globalPenaltyCoefficient
	initialTenure := core.tabuTenure

	core.noImprovementIterations = 0
	core.adapt()

	assert.InDelta(t, initialPenalty*0.5, core.globalPenaltyCoefficient, model.EPSILON)
	assert.Equal(t, initialTenure-1, core.tabuTenure)
}

// TestAcceptanceHintsScreeningModes covers the four
// ImprovabilityScreeningMode behaviors: Off never screens and never asks
// for a fallback; Aggressive screens and never falls back; Soft screens but
// asks for a fallback; Automatic mirrors Soft before any feasible
// incumbent is recorded and Aggressive after one is.
func TestAcceptanceHintsScreeningModes(t *testing.T) {
	inst, vars := newCardinalityInstance(t)
	options := DefaultOptions()
	core := NewTabuSearchCore(inst, neighborhood.NewGeneratorSet(inst, neighborhood.ChainReductionOverlapRate, 0.2, 100), options)

	// newCardinalityInstance starts every variable selected, which violates
	// its own exactly-one constraint; deselect all but one to reach a
	// feasible score for the "incumbent found" half of this test.
	for _, v := range vars[1:] {
		v.SetValue(0)
	}
	score := ScoreSolution(inst, core.globalPenaltyCoefficient)
	require.True(t, score.IsFeasible)

	core.options.ImprovabilityScreeningMode = ScreeningOff
	hints, fallback := core.acceptanceHints(score)
	assert.True(t, hints.AcceptAll)
	assert.False(t, fallback)

	core.options.ImprovabilityScreeningMode = ScreeningAggressive
	hints, fallback = core.acceptanceHints(score)
	assert.False(t, hints.AcceptAll)
	assert.False(t, fallback)

	core.options.ImprovabilityScreeningMode = ScreeningSoft
	hints, fallback = core.acceptanceHints(score)
	assert.False(t, hints.AcceptAll)
	assert.True(t, fallback)

	core.options.ImprovabilityScreeningMode = ScreeningAutomatic
	require.Nil(t, core.incumbents.Feasible)
	_, fallback = core.acceptanceHints(score)
	assert.True(t, fallback, "Automatic behaves like Soft before any feasible incumbent is found")

	core.incumbents.TryUpdate(inst, score)
	require.NotNil(t, core.incumbents.Feasible)
	_, fallback = core.acceptanceHints(score)
	assert.False(t, fallback, "Automatic behaves like Aggressive once a feasible incumbent is found")
}

// TestSelectBestAspirationBypassesTabu is the aspiration-bypasses-tabu
// boundary scenario: a move touching a currently-tabu variable must still
// be selected as the permissible best when it improves on the best known
// globally-augmented incumbent.
func TestSelectBestAspirationBypassesTabu(t *testing.T) {
	inst, vars := newCardinalityInstance(t)
	options := DefaultOptions()
	core := NewTabuSearchCore(inst, neighborhood.NewGeneratorSet(inst, neighborhood.ChainReductionOverlapRate, 0.2, 100), options)

	current := ScoreSolution(inst, core.globalPenaltyCoefficient)
	core.incumbents.TryUpdate(inst, current)

	// Mark x0 tabu as of iteration 0; evaluate at iteration 1 with a tenure
	// that keeps it tabu.
	core.memory.Stamp(vars[0].Index, 0)
	core.iteration = 1
	core.tabuTenure = 10
	require.True(t, core.memory.IsTabu(vars[0].Index, core.iteration, core.tabuTenure))

	// Flipping x0 from 1 to 0 reduces the constraint violation from 4 (all
	// five set) to 3, strictly improving the globally-augmented objective
	// recorded as the incumbent, so it must aspire past the tabu status.
	tabooMove := &model.Move{Alterations: []model.Alteration{{Variable: vars[0].Index, NewValue: 0}}}
	candidates := []*model.Move{tabooMove}

	best, bestScore, bestTabu, _, found := core.selectBest(candidates, current)

	assert.True(t, found, "an aspiring tabu move must be reported as permissible")
	require.NotNil(t, best)
	assert.Same(t, tabooMove, best)
	assert.Less(t, bestScore.GlobalAugmentedObjective, current.GlobalAugmentedObjective)
	assert.Same(t, tabooMove, bestTabu, "the move is still reported as the best tabu candidate too")
}
