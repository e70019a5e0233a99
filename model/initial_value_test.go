package model_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCorrectInitialValuesClampsOutOfBoundValue(t *testing.T) {
	inst, vars := buildKnapsack(t)
	vars[0].SetValue(9)

	warnings, err := inst.CorrectInitialValues(true)
	require.NoError(t, err)
	require.Len(t, warnings, 1)
	assert.Equal(t, 5, vars[0].Value())
}

func TestCorrectInitialValuesAbortsWhenNotCorrecting(t *testing.T) {
	inst, vars := buildKnapsack(t)
	vars[0].SetValue(9)

	_, err := inst.CorrectInitialValues(false)
	assert.Error(t, err)
	assert.Equal(t, 9, vars[0].Value(), "an aborted correction pass must not mutate the model")
}

func TestCorrectInitialValuesRepairsSelectionGroupInvariant(t *testing.T) {
	inst, vars := buildPartition(t)
	// Force a second member to 1 too, breaking the exactly-one invariant.
	vars[1].SetValue(1)

	warnings, err := inst.CorrectInitialValues(true)
	require.NoError(t, err)
	require.NotEmpty(t, warnings)

	selected := 0
	for _, v := range vars {
		if v.Value() == 1 {
			selected++
		}
	}
	assert.Equal(t, 1, selected)
}
