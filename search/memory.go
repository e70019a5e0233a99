package search

import (
	"math"

	"mipsolve/model"
)

// neverUpdated is the sentinel lastUpdateIteration value for a variable no
// accepted move has ever touched. It sits far enough in the past that
// currentIteration-neverUpdated can never fall within any tabuTenure, so an
// untouched variable can never register as tabu.
const neverUpdated = math.MinInt / 2

// Memory is the tabu list and frequency-penalty bookkeeping of spec §4.F:
// a last-update-iteration stamp and an update count per variable, indexed
// densely by VariableIndex the same way the model arenas are.
type Memory struct {
	lastUpdateIteration []int
	updateCount         []int
}

func NewMemory(inst *model.Instance) *Memory {
	m := &Memory{
		lastUpdateIteration: make([]int, len(inst.Variables)),
		updateCount:         make([]int, len(inst.Variables)),
	}
	for i := range m.lastUpdateIteration {
		m.lastUpdateIteration[i] = neverUpdated
	}
	return m
}

// Stamp records that variable v was touched by an accepted move at
// currentIteration: its tabu clock resets and its update count increments.
func (m *Memory) Stamp(v model.VariableIndex, currentIteration int) {
	m.lastUpdateIteration[v] = currentIteration
	m.updateCount[v]++
}

// StampMove stamps every variable an accepted move touched.
func (m *Memory) StampMove(move *model.Move, currentIteration int) {
	for _, alt := range move.Alterations {
		m.Stamp(alt.Variable, currentIteration)
	}
}

// IsTabu reports whether v is still within tabuTenure iterations of its
// last update.
func (m *Memory) IsTabu(v model.VariableIndex, currentIteration, tabuTenure int) bool {
	return currentIteration-m.lastUpdateIteration[v] <= tabuTenure
}

// MoveIsTabu reports whether any alteration in move touches a
// currently-tabu variable.
func (m *Memory) MoveIsTabu(move *model.Move, currentIteration, tabuTenure int) bool {
	for _, alt := range move.Alterations {
		if m.IsTabu(alt.Variable, currentIteration, tabuTenure) {
			return true
		}
	}
	return false
}

// FrequencyPenalty is proportional to update_count/current_iteration,
// summed over every variable the move touches, added to the effective cost
// when comparing candidates.
func (m *Memory) FrequencyPenalty(move *model.Move, currentIteration int) float64 {
	if currentIteration == 0 {
		return 0
	}
	penalty := 0.0
	for _, alt := range move.Alterations {
		penalty += float64(m.updateCount[alt.Variable]) / float64(currentIteration)
	}
	return penalty
}

func (m *Memory) UpdateCount(v model.VariableIndex) int { return m.updateCount[v] }
