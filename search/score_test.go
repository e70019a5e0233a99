package search_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"mipsolve/model"
	"mipsolve/search"
)

func TestScoreSolutionMatchesInstanceState(t *testing.T) {
	inst, _ := buildIntegerKnapsackInstance(t)
	score := search.ScoreSolution(inst, 1.0)

	assert.True(t, score.IsFeasible)
	assert.InDelta(t, 0, score.Objective, model.EPSILON)
	assert.InDelta(t, 0, score.TotalViolation, model.EPSILON)
}

func TestScoreMoveSingleAlterationMatchesScoreSolutionAfterApply(t *testing.T) {
	inst, vars := buildIntegerKnapsackInstance(t)
	current := search.ScoreSolution(inst, 2.0)

	move := &model.Move{Alterations: []model.Alteration{{Variable: vars[0].Index, NewValue: 1}}}
	predicted := search.ScoreMove(inst, move, current, 2.0)

	inst.ApplyMove(move)
	actual := search.ScoreSolution(inst, 2.0)

	assert.InDelta(t, actual.Objective, predicted.Objective, model.EPSILON)
	assert.InDelta(t, actual.TotalViolation, predicted.TotalViolation, model.EPSILON)
	assert.InDelta(t, actual.GlobalAugmentedObjective, predicted.GlobalAugmentedObjective, model.EPSILON)
	assert.Equal(t, actual.IsFeasible, predicted.IsFeasible)
}

func TestScoreMoveMultiAlterationMatchesScoreSolutionAfterApply(t *testing.T) {
	inst, vars := buildPartitionInstance(t)
	current := search.ScoreSolution(inst, 3.0)

	move := &model.Move{Alterations: []model.Alteration{
		{Variable: vars[0].Index, NewValue: 0},
		{Variable: vars[2].Index, NewValue: 1},
	}}
	predicted := search.ScoreMove(inst, move, current, 3.0)

	inst.ApplyMove(move)
	actual := search.ScoreSolution(inst, 3.0)

	assert.InDelta(t, actual.Objective, predicted.Objective, model.EPSILON)
	assert.InDelta(t, actual.TotalViolation, predicted.TotalViolation, model.EPSILON)
	assert.Equal(t, actual.IsFeasible, predicted.IsFeasible)
}
