package neighborhood_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mipsolve/model"
	"mipsolve/neighborhood"
)

// buildCapacityInstance builds n binary variables under a single
// sum(x) <= capacity constraint, tagged SetPacking+Cardinality by
// CategorizeConstraints, with the given initial selection.
func buildCapacityInstance(t *testing.T, n, capacity int, initiallySelected []int) (*model.Instance, []*model.Variable) {
	t.Helper()
	inst := model.NewInstance()
	vars := make([]*model.Variable, n)
	var err error
	for i := range vars {
		vars[i], err = inst.AddVariable("x"+string(rune('0'+i)), 0, 1, model.Binary)
		require.NoError(t, err)
	}

	capExpr := model.NewExpression(inst)
	for _, v := range vars {
		capExpr.SetCoefficient(v.Index, 1)
	}
	capExpr.SetConstant(float64(-capacity))
	_, err = inst.AddConstraint("cap", capExpr, model.LessEqual)
	require.NoError(t, err)

	obj := model.NewExpression(inst)
	obj.SetCoefficient(vars[0].Index, 1)
	inst.SetObjective(obj, false)

	for _, i := range initiallySelected {
		vars[i].SetValue(1)
	}
	require.NoError(t, inst.Finalize())
	return inst, vars
}

// TestChainMoveGeneratorLearnsFeasibilityPreservingPair drives a swap
// (deselect x0, then select x2) through RecordAcceptedMove and checks the
// merged pair survives into the cache and is offered as a candidate, since
// the capacity constraint stays satisfied throughout. selectX2 is recorded
// but not applied, so the learned pair still changes x2 and is not dropped
// as a no-op.
func TestChainMoveGeneratorLearnsFeasibilityPreservingPair(t *testing.T) {
	inst, vars := buildCapacityInstance(t, 4, 2, []int{0})

	g := neighborhood.NewChainMoveGenerator(neighborhood.ChainReductionOverlapRate, 1.0, 10, 10)

	deselectX0 := &model.Move{Alterations: []model.Alteration{{Variable: vars[0].Index, NewValue: 0}}}
	g.RecordAcceptedMove(inst, deselectX0)
	inst.ApplyMove(deselectX0)

	selectX2 := &model.Move{Alterations: []model.Alteration{{Variable: vars[2].Index, NewValue: 1}}}
	g.RecordAcceptedMove(inst, selectX2)

	g.UpdateMoves(inst, neighborhood.AcceptanceHints{AcceptAll: true}, false)

	require.Len(t, g.Moves(), 1)
	assert.True(t, g.Flags()[0])
	move := g.Moves()[0]
	require.Len(t, move.Alterations, 2)
	assert.Equal(t, vars[0].Index, move.Alterations[0].Variable)
	assert.Equal(t, 0, move.Alterations[0].NewValue)
	assert.Equal(t, vars[2].Index, move.Alterations[1].Variable)
	assert.Equal(t, 1, move.Alterations[1].NewValue)
}

// TestChainMoveGeneratorRejectsPairThatViolatesTaggedConstraint checks the
// opposite: selecting a third variable on top of two already selected would
// push the capacity constraint over its limit, so the pair must never reach
// the cache.
func TestChainMoveGeneratorRejectsPairThatViolatesTaggedConstraint(t *testing.T) {
	inst, vars := buildCapacityInstance(t, 3, 2, []int{0})

	g := neighborhood.NewChainMoveGenerator(neighborhood.ChainReductionOverlapRate, 1.0, 10, 10)

	selectX1 := &model.Move{Alterations: []model.Alteration{{Variable: vars[1].Index, NewValue: 1}}}
	g.RecordAcceptedMove(inst, selectX1)
	inst.ApplyMove(selectX1)

	selectX2 := &model.Move{Alterations: []model.Alteration{{Variable: vars[2].Index, NewValue: 1}}}
	g.RecordAcceptedMove(inst, selectX2)
	vars[2].SetValue(1)

	g.UpdateMoves(inst, neighborhood.AcceptanceHints{AcceptAll: true}, false)
	assert.Empty(t, g.Moves())
}

// TestChainMoveGeneratorOnlyChainsWithinRecentWindow checks the sliding
// window eviction: once more than recentWindow moves have been recorded,
// the oldest no longer participates in new pairings.
func TestChainMoveGeneratorOnlyChainsWithinRecentWindow(t *testing.T) {
	inst, vars := buildCapacityInstance(t, 4, 3, []int{0})

	g := neighborhood.NewChainMoveGenerator(neighborhood.ChainReductionOverlapRate, 1.0, 1, 10)

	deselectX0 := &model.Move{Alterations: []model.Alteration{{Variable: vars[0].Index, NewValue: 0}}}
	g.RecordAcceptedMove(inst, deselectX0)
	vars[0].SetValue(0)

	selectX1 := &model.Move{Alterations: []model.Alteration{{Variable: vars[1].Index, NewValue: 1}}}
	g.RecordAcceptedMove(inst, selectX1)
	vars[1].SetValue(1)

	// deselectX0 and selectX1 were both in-window when selectX1 was
	// recorded, so that pair is cached. With a window of 1, deselectX0 is
	// evicted before selectX2 is recorded, so it must never pair with
	// selectX2.
	selectX2 := &model.Move{Alterations: []model.Alteration{{Variable: vars[2].Index, NewValue: 1}}}
	g.RecordAcceptedMove(inst, selectX2)

	g.UpdateMoves(inst, neighborhood.AcceptanceHints{AcceptAll: true}, false)
	for _, move := range g.Moves() {
		touchesX0, touchesX2 := false, false
		for _, alt := range move.Alterations {
			if alt.Variable == vars[0].Index {
				touchesX0 = true
			}
			if alt.Variable == vars[2].Index {
				touchesX2 = true
			}
		}
		assert.False(t, touchesX0 && touchesX2, "deselectX0 should have been evicted before selectX2 was recorded")
	}
}
