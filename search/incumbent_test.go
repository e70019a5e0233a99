package search_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mipsolve/model"
	"mipsolve/search"
)

// TestFeasibleIncumbentNeverWorsens is the incumbent-monotonicity invariant:
// once a feasible incumbent is recorded, later TryUpdate calls with a worse
// feasible score must never replace it.
func TestFeasibleIncumbentNeverWorsens(t *testing.T) {
	inst, vars := buildIntegerKnapsackInstance(t)
	holder := search.NewIncumbentHolder()

	vars[0].SetValue(5)
	inst.Objective.Expression.Update()
	for _, c := range inst.Constraints {
		c.Expression.Update()
		c.Refresh()
	}
	best := search.ScoreSolution(inst, 1.0)
	holder.TryUpdate(inst, best)
	require.NotNil(t, holder.Feasible)
	bestObjective := holder.Feasible.Score.Objective

	vars[0].SetValue(1)
	inst.Objective.Expression.Update()
	for _, c := range inst.Constraints {
		c.Expression.Update()
		c.Refresh()
	}
	worse := search.ScoreSolution(inst, 1.0)
	holder.TryUpdate(inst, worse)

	assert.InDelta(t, bestObjective, holder.Feasible.Score.Objective, model.EPSILON)
	assert.LessOrEqual(t, holder.Feasible.Score.Objective, worse.Objective+model.EPSILON)
}

func TestInfeasibleScoreNeverUpdatesFeasibleIncumbent(t *testing.T) {
	inst, vars := buildIntegerKnapsackInstance(t)
	holder := search.NewIncumbentHolder()

	for _, v := range vars {
		v.SetValue(5)
	}
	inst.Objective.Expression.Update()
	for _, c := range inst.Constraints {
		c.Expression.Update()
		c.Refresh()
	}
	score := search.ScoreSolution(inst, 1.0)
	require.False(t, score.IsFeasible)

	status := holder.TryUpdate(inst, score)
	assert.Zero(t, status&search.FeasibleUpdate)
	assert.Nil(t, holder.Feasible)
}

func TestResetLocalAugmentedIncumbentClearsOnlyThatSlot(t *testing.T) {
	inst, _ := buildIntegerKnapsackInstance(t)
	holder := search.NewIncumbentHolder()
	score := search.ScoreSolution(inst, 1.0)
	holder.TryUpdate(inst, score)

	require.NotNil(t, holder.LocalAugmented)
	require.NotNil(t, holder.GlobalAugmented)

	holder.ResetLocalAugmentedIncumbent()
	assert.Nil(t, holder.LocalAugmented)
	assert.NotNil(t, holder.GlobalAugmented)
}
