package neighborhood_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mipsolve/model"
	"mipsolve/neighborhood"
)

func buildTwoBinaryInstance(t *testing.T) (*model.Instance, *model.Variable, *model.Variable) {
	t.Helper()
	inst := model.NewInstance()
	x, err := inst.AddVariable("x", 0, 1, model.Binary)
	require.NoError(t, err)
	y, err := inst.AddVariable("y", 0, 1, model.Binary)
	require.NoError(t, err)

	obj := model.NewExpression(inst)
	obj.SetCoefficient(x.Index, 1)
	inst.SetObjective(obj, false)

	x.SetValue(0)
	y.SetValue(1)
	require.NoError(t, inst.Finalize())
	return inst, x, y
}

// TestTwoFlipGeneratorEmitsBothCrossAssignments checks the two complementary
// swap moves spec §4.D names: (x→1, y→0) and (x→0, y→1), from a
// caller-supplied pair list rather than any auto-derived one.
func TestTwoFlipGeneratorEmitsBothCrossAssignments(t *testing.T) {
	inst, x, y := buildTwoBinaryInstance(t)

	g := neighborhood.NewTwoFlipGenerator([][2]model.VariableIndex{{x.Index, y.Index}})
	require.Len(t, g.Moves(), 2)

	g.UpdateMoves(inst, neighborhood.AcceptanceHints{AcceptAll: true}, false)

	moves := g.Moves()
	assert.Equal(t, 1, moves[0].Alterations[0].NewValue)
	assert.Equal(t, 0, moves[0].Alterations[1].NewValue)
	assert.Equal(t, 0, moves[1].Alterations[0].NewValue)
	assert.Equal(t, 1, moves[1].Alterations[1].NewValue)
	assert.True(t, g.Flags()[0])
	// (x→0, y→1) is the current assignment, so the shared filter drops it
	// as a no-op.
	assert.False(t, g.Flags()[1])
}

func TestDeriveSharedConstraintPairsFindsCoMembers(t *testing.T) {
	inst := model.NewInstance()
	vars := make([]*model.Variable, 3)
	var err error
	for i := range vars {
		vars[i], err = inst.AddVariable("x"+string(rune('0'+i)), 0, 1, model.Binary)
		require.NoError(t, err)
	}
	expr := model.NewExpression(inst)
	expr.SetCoefficient(vars[0].Index, 1)
	expr.SetCoefficient(vars[1].Index, 1)
	expr.SetConstant(-1)
	_, err = inst.AddConstraint("c", expr, model.LessEqual)
	require.NoError(t, err)

	obj := model.NewExpression(inst)
	obj.SetCoefficient(vars[0].Index, 1)
	inst.SetObjective(obj, false)
	require.NoError(t, inst.Finalize())

	pairs := neighborhood.DeriveSharedConstraintPairs(inst, 10)
	require.Len(t, pairs, 1)
	assert.Equal(t, vars[0].Index, pairs[0][0])
	assert.Equal(t, vars[1].Index, pairs[0][1])
}
