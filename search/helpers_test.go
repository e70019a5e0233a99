package search_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"mipsolve/model"
	"mipsolve/neighborhood"
)

// buildPartitionInstance mirrors the four-variable set-partitioning
// boundary scenario: x0..x3 in {0,1}, x0+x1+x2+x3=1, minimize x1+2x2+3x3,
// initial assignment (1,0,0,0).
func buildPartitionInstance(t *testing.T) (*model.Instance, []*model.Variable) {
	t.Helper()
	inst := model.NewInstance()
	vars := make([]*model.Variable, 4)
	var err error
	for i := range vars {
		vars[i], err = inst.AddVariable("x"+string(rune('0'+i)), 0, 1, model.Binary)
		require.NoError(t, err)
	}

	partition := model.NewExpression(inst)
	for _, v := range vars {
		partition.SetCoefficient(v.Index, 1)
	}
	partition.SetConstant(-1)
	_, err = inst.AddConstraint("partition", partition, model.Equal)
	require.NoError(t, err)

	obj := model.NewExpression(inst)
	obj.SetCoefficient(vars[1].Index, 1)
	obj.SetCoefficient(vars[2].Index, 2)
	obj.SetCoefficient(vars[3].Index, 3)
	inst.SetObjective(obj, false)

	vars[0].SetValue(1)
	require.NoError(t, inst.Finalize())
	return inst, vars
}

// buildIntegerKnapsackInstance mirrors the integer-knapsack boundary
// scenario: 5 vars in [0,5], sum(w_i*x_i) <= 10 with w=(2,3,4,5,6),
// minimize -sum(x_i).
func buildIntegerKnapsackInstance(t *testing.T) (*model.Instance, []*model.Variable) {
	t.Helper()
	inst := model.NewInstance()
	weights := []int{2, 3, 4, 5, 6}
	vars := make([]*model.Variable, len(weights))
	var err error
	for i := range vars {
		vars[i], err = inst.AddVariable("item"+string(rune('0'+i)), 0, 5, model.Integer)
		require.NoError(t, err)
	}

	capacity := model.NewExpression(inst)
	for i, v := range vars {
		capacity.SetCoefficient(v.Index, float64(weights[i]))
	}
	capacity.SetConstant(-10)
	_, err = inst.AddConstraint("capacity", capacity, model.LessEqual)
	require.NoError(t, err)

	obj := model.NewExpression(inst)
	for _, v := range vars {
		obj.SetCoefficient(v.Index, -1)
	}
	inst.SetObjective(obj, false)

	require.NoError(t, inst.Finalize())
	return inst, vars
}

func newGeneratorsForTest(inst *model.Instance) *neighborhood.GeneratorSet {
	return neighborhood.NewGeneratorSet(inst, neighborhood.ChainReductionOverlapRate, 0.2, 100)
}
