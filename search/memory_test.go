package search_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"mipsolve/model"
	"mipsolve/search"
)

func TestMemoryTabuTenureExpires(t *testing.T) {
	inst, vars := buildPartitionInstance(t)
	m := search.NewMemory(inst)

	m.Stamp(vars[0].Index, 10)
	assert.True(t, m.IsTabu(vars[0].Index, 11, 5))
	assert.True(t, m.IsTabu(vars[0].Index, 15, 5))
	assert.False(t, m.IsTabu(vars[0].Index, 16, 5))
}

// TestMemoryUntouchedVariableIsNeverTabu is the warm-up-window boundary case:
// a variable no accepted move has ever stamped must not register as tabu
// just because currentIteration happens to sit within tabuTenure of zero.
func TestMemoryUntouchedVariableIsNeverTabu(t *testing.T) {
	inst, vars := buildPartitionInstance(t)
	m := search.NewMemory(inst)

	for iteration := 0; iteration <= 10; iteration++ {
		assert.False(t, m.IsTabu(vars[0].Index, iteration, 10))
	}
}

func TestMemoryMoveIsTabuIfAnyAlterationIsTabu(t *testing.T) {
	inst, vars := buildPartitionInstance(t)
	m := search.NewMemory(inst)
	m.Stamp(vars[1].Index, 0)

	move := &model.Move{Alterations: []model.Alteration{
		{Variable: vars[0].Index, NewValue: 0},
		{Variable: vars[1].Index, NewValue: 1},
	}}
	assert.True(t, m.MoveIsTabu(move, 2, 10))
}

func TestMemoryFrequencyPenaltyGrowsWithUpdateCount(t *testing.T) {
	inst, vars := buildPartitionInstance(t)
	m := search.NewMemory(inst)
	move := &model.Move{Alterations: []model.Alteration{{Variable: vars[0].Index, NewValue: 1}}}

	for i := 1; i <= 5; i++ {
		m.StampMove(move, i)
	}
	assert.Equal(t, 5, m.UpdateCount(vars[0].Index))
	assert.Greater(t, m.FrequencyPenalty(move, 10), 0.0)
}
