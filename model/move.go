package model

// MoveSense classifies the structural origin of a Move, mirroring the
// neighborhood generator that produced it.
type MoveSense int

const (
	MoveBinary MoveSense = iota
	MoveInteger
	MoveSelection
	MoveAggregation
	MovePrecedence
	MoveVariableBound
	MoveExclusiveOr
	MoveExclusiveNor
	MoveTrinomialExclusiveNor
	MoveInvertedIntegers
	MoveBalancedIntegers
	MoveConstantSumIntegers
	MoveConstantDifferenceIntegers
	MoveConstantRatioIntegers
	MoveSoftSelection
	MoveChain
	MoveTwoFlip
	MoveUserDefined
)

// Alteration is a single (variable, new value) pair within a Move.
type Alteration struct {
	Variable VariableIndex
	NewValue int
}

// Move is an ordered list of alterations plus the bookkeeping the tabu-search
// driver needs to evaluate and apply it in O(affected variables) time.
type Move struct {
	Alterations []Alteration
	Sense       MoveSense

	// RelatedConstraints lists every constraint touched by any alteration,
	// deduplicated; the driver iterates only these, never the whole model.
	RelatedConstraints []ConstraintIndex

	IsUnivariable bool

	// Available is the filter flag the generator pipeline (spec §4.D) sets:
	// true means the move survived every check and is a candidate this
	// iteration.
	Available bool

	// ObjectiveImprovable/FeasibilityImprovable record which acceptance
	// hint this move satisfied, for the driver's candidate bookkeeping.
	ObjectiveImprovable    bool
	FeasibilityImprovable  bool
}

// SingleAlteration reports whether this is the common single-variable case
// the scorer's hot path is specialized for.
func (m *Move) SingleAlteration() bool {
	return len(m.Alterations) == 1
}
