package model

import mapset "github.com/deckarep/golang-set/v2"

// ConstraintSensitivity pairs a constraint with the coefficient this
// variable carries in that constraint's expression.
type ConstraintSensitivity struct {
	Constraint  ConstraintIndex
	Coefficient float64
}

// SelectionGroup is a promoted set-partitioning constraint: its member
// variables become Selection-sense and carry a back pointer here. Exactly
// one member holds value 1 at all times.
type SelectionGroup struct {
	Index   int
	Members []VariableIndex
}

// Variable is a bounded integer decision variable. Identity is its
// VariableIndex (the arena handle); Name is for I/O and error messages only.
type Variable struct {
	Index VariableIndex
	Name  string

	value int
	lower int
	upper int
	fixed bool

	Sense VariableSense

	ObjectiveSensitivity    float64
	ConstraintSensitivities []ConstraintSensitivity

	// RelatedConstraints is the set of constraints this variable appears in,
	// used to bound move evaluation to O(degree).
	RelatedConstraints mapset.Set[ConstraintIndex]

	SelectionGroup *SelectionGroup

	UpdateCount int

	ObjectiveImprovable   bool
	FeasibilityImprovable bool
}

// NewVariable creates a variable with the given bounds, clamping neither:
// callers must satisfy lower<=upper themselves; neither this constructor nor
// Instance.AddVariable rejects lower>upper.
func NewVariable(index VariableIndex, name string, lower, upper int, sense VariableSense) *Variable {
	return &Variable{
		Index:              index,
		Name:               name,
		lower:              lower,
		upper:              upper,
		Sense:              sense,
		RelatedConstraints: mapset.NewThreadUnsafeSet[ConstraintIndex](),
	}
}

func (v *Variable) Value() int { return v.value }

// SetValue sets the current value, without bounds or fixed checks — callers
// (move application, initial-value correction) are responsible for
// validating first; this mirrors the original's unchecked setter paired with
// checked move filters upstream.
func (v *Variable) SetValue(value int) { v.value = value }

func (v *Variable) LowerBound() int { return v.lower }
func (v *Variable) UpperBound() int { return v.upper }

func (v *Variable) SetBounds(lower, upper int) {
	v.lower = lower
	v.upper = upper
}

func (v *Variable) IsFixed() bool { return v.fixed }

// Fix pins the variable to a single admissible value.
func (v *Variable) Fix(value int) {
	v.fixed = true
	v.value = value
	v.lower = value
	v.upper = value
}

func (v *Variable) Unfix() { v.fixed = false }

// IsFeasibleValue reports whether value respects the variable's bounds (and,
// if fixed, equals the single admissible value).
func (v *Variable) IsFeasibleValue(value int) bool {
	if v.fixed {
		return value == v.value
	}
	return value >= v.lower && value <= v.upper
}

func (v *Variable) AddConstraintSensitivity(c ConstraintIndex, coefficient float64) {
	v.ConstraintSensitivities = append(v.ConstraintSensitivities, ConstraintSensitivity{
		Constraint:  c,
		Coefficient: coefficient,
	})
	v.RelatedConstraints.Add(c)
}

// IsBinaryLike reports whether the variable's sense is one of the two
// binary categories (plain or selection-promoted).
func (v *Variable) IsBinaryLike() bool {
	return v.Sense == Binary || v.Sense == Selection || v.Sense == DependentBinary
}
