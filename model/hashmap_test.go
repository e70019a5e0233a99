package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFixedCapacityHashMapMatchesSourceEntries(t *testing.T) {
	entries := map[VariableIndex]float64{
		0: 1, 1: -1, 2: 3.5, 7: -2, 15: 100,
	}
	h := NewFixedCapacityHashMap(entries, 1)

	for k, v := range entries {
		assert.Equal(t, v, h.At(k))
	}
	assert.Equal(t, 0.0, h.At(999))
}

func TestFixedCapacityHashMapLoadFactorMargin(t *testing.T) {
	entries := map[VariableIndex]float64{0: 1, 1: 1, 2: 1}
	h := NewFixedCapacityHashMap(entries, 1)
	assert.GreaterOrEqual(t, h.BucketSize(), len(entries)*int(loadMargin))
}

// TestExpressionFixedSensitivitiesMatchSensitivitiesAfterSetup exercises the
// invariant that SetupFixedSensitivities' lookup path agrees with the
// mutable sensitivities map it was built from.
func TestExpressionFixedSensitivitiesMatchSensitivitiesAfterSetup(t *testing.T) {
	store := &fakeValueSource{}
	e := NewExpression(store)
	e.SetCoefficient(0, 2)
	e.SetCoefficient(1, -3)
	e.SetCoefficient(2, 0.5)

	e.SetupFixedSensitivities()

	for _, v := range e.order {
		assert.Equal(t, e.sensitivities[v], e.lookupCoefficient(v))
	}
}

type fakeValueSource struct {
	values map[VariableIndex]int
}

func (f *fakeValueSource) ValueOf(v VariableIndex) int {
	if f.values == nil {
		return 0
	}
	return f.values[v]
}
