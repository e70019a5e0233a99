package ioformat_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mipsolve/ioformat"
	"mipsolve/model"
)

func buildSampleKnapsack(t *testing.T) *model.Instance {
	t.Helper()
	inst := model.NewInstance()
	weights := []int{2, 3, 4}
	values := []float64{3, 5, 4}
	vars := make([]*model.Variable, len(weights))
	var err error
	for i := range vars {
		vars[i], err = inst.AddVariable("item"+string(rune('0'+i)), 0, 1, model.Binary)
		require.NoError(t, err)
	}

	capacity := model.NewExpression(inst)
	for i, v := range vars {
		capacity.SetCoefficient(v.Index, float64(weights[i]))
	}
	capacity.SetConstant(-5)
	_, err = inst.AddConstraint("capacity", capacity, model.LessEqual)
	require.NoError(t, err)

	obj := model.NewExpression(inst)
	for i, v := range vars {
		obj.SetCoefficient(v.Index, values[i])
	}
	inst.SetObjective(obj, true)

	vars[0].SetValue(1)
	require.NoError(t, inst.Finalize())
	return inst
}

func TestJSONRoundTripPreservesModelStructure(t *testing.T) {
	original := buildSampleKnapsack(t)

	var buf bytes.Buffer
	require.NoError(t, ioformat.WriteJSON(&buf, original))

	roundTripped, err := ioformat.ReadJSON(&buf)
	require.NoError(t, err)

	require.Len(t, roundTripped.Variables, len(original.Variables))
	for i, v := range original.Variables {
		rt := roundTripped.Variables[i]
		assert.Equal(t, v.Name, rt.Name)
		assert.Equal(t, v.LowerBound(), rt.LowerBound())
		assert.Equal(t, v.UpperBound(), rt.UpperBound())
		assert.Equal(t, v.Value(), rt.Value())
	}

	require.NotNil(t, roundTripped.Objective)
	assert.Equal(t, original.Objective.Maximize, roundTripped.Objective.Maximize)
	assert.InDelta(t, original.Objective.Reported(), roundTripped.Objective.Reported(), model.EPSILON)

	require.Len(t, roundTripped.Constraints, len(original.Constraints))
	assert.Equal(t, original.Constraints[0].Sense, roundTripped.Constraints[0].Sense)
	assert.InDelta(t, original.Constraints[0].Value(), roundTripped.Constraints[0].Value(), model.EPSILON)
}

func TestJSONRoundTripPreservesFixedVariable(t *testing.T) {
	inst := model.NewInstance()
	v, err := inst.AddVariable("x", 0, 5, model.Integer)
	require.NoError(t, err)
	v.Fix(3)
	obj := model.NewExpression(inst)
	obj.SetCoefficient(v.Index, 1)
	inst.SetObjective(obj, false)
	require.NoError(t, inst.Finalize())

	var buf bytes.Buffer
	require.NoError(t, ioformat.WriteJSON(&buf, inst))

	roundTripped, err := ioformat.ReadJSON(&buf)
	require.NoError(t, err)

	assert.True(t, roundTripped.Variables[0].IsFixed())
	assert.Equal(t, 3, roundTripped.Variables[0].Value())
}

func TestWriteSolutionJSONReportsFeasibilityAndViolation(t *testing.T) {
	inst := buildSampleKnapsack(t)

	var buf bytes.Buffer
	require.NoError(t, ioformat.WriteSolutionJSON(&buf, inst))
	assert.Contains(t, buf.String(), `"is_feasible": true`)
	assert.Contains(t, buf.String(), `"violation": 0`)
}
