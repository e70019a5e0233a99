package model_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mipsolve/model"
)

func TestCategorizeConstraintsTagsSetPartitioning(t *testing.T) {
	inst, _ := buildPartition(t)
	assert.True(t, inst.Constraints[0].HasTag(model.TagSetPartitioning))
}

func TestCategorizeConstraintsTagsKnapsack(t *testing.T) {
	inst, _ := buildKnapsack(t)
	assert.True(t, inst.Constraints[0].HasTag(model.TagKnapsack))
}

func TestCategorizeConstraintsTagsCardinality(t *testing.T) {
	inst := model.NewInstance()
	a, err := inst.AddVariable("a", 0, 1, model.Binary)
	require.NoError(t, err)
	b, err := inst.AddVariable("b", 0, 1, model.Binary)
	require.NoError(t, err)
	c, err := inst.AddVariable("c", 0, 1, model.Binary)
	require.NoError(t, err)

	expr := model.NewExpression(inst)
	expr.SetCoefficient(a.Index, 1)
	expr.SetCoefficient(b.Index, 1)
	expr.SetCoefficient(c.Index, 1)
	expr.SetConstant(-2)
	_, err = inst.AddConstraint("atmost2", expr, model.LessEqual)
	require.NoError(t, err)
	require.NoError(t, inst.Finalize())

	assert.True(t, inst.Constraints[0].HasTag(model.TagCardinality))
	assert.False(t, inst.Constraints[0].HasTag(model.TagSetPartitioning))
}
