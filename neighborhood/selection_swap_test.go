package neighborhood_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mipsolve/model"
	"mipsolve/neighborhood"
)

func buildFourVariablePartition(t *testing.T) (*model.Instance, []*model.Variable) {
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

func TestSelectionSwapGeneratorProposesOneMovePerOtherMember(t *testing.T) {
	inst, _ := buildFourVariablePartition(t)

	g := neighborhood.NewSelectionSwapGenerator(inst)
	g.UpdateMoves(inst, neighborhood.AcceptanceHints{AcceptAll: true}, false)

	available := 0
	for _, ok := range g.Flags() {
		if ok {
			available++
		}
	}
	// With x0 selected, swapping to any of the other three members is a
	// distinct available move; the slot that would swap x0 into itself is
	// filtered out by UpdateMoves' selected==candidate guard.
	assert.Equal(t, 3, available)

	for i, move := range g.Moves() {
		if !g.Flags()[i] {
			continue
		}
		require.Len(t, move.Alterations, 2)
		assert.Equal(t, 0, move.Alterations[0].NewValue)
		assert.Equal(t, 1, move.Alterations[1].NewValue)
	}
}
