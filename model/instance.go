package model

import (
	"strings"
)

// Instance is the variable/constraint/objective model: built once, then
// handed to a search core. Variables and constraints are stored in stable
// arenas (slices indexed by VariableIndex/ConstraintIndex) and never
// reallocated during search, so every cached reference (sensitivities,
// related-constraint sets, selection group back pointers) stays valid.
type Instance struct {
	Variables   []*Variable
	Constraints []*Constraint
	Objective   *Objective

	SelectionGroups []*SelectionGroup

	names map[string]struct{}
}

// NewInstance creates an empty model. Call AddVariable/AddConstraint/
// SetObjective to build it up, then Finalize.
func NewInstance() *Instance {
	return &Instance{names: make(map[string]struct{})}
}

// ValueOf implements ValueSource for expressions bound to this instance.
func (inst *Instance) ValueOf(v VariableIndex) int {
	return inst.Variables[v].Value()
}

// AddVariable creates and registers a new variable. Names must not contain
// whitespace or repeat, per spec §7's model-build error list.
func (inst *Instance) AddVariable(name string, lower, upper int, sense VariableSense) (*Variable, error) {
	if strings.ContainsAny(name, " \t\n\r") {
		return nil, newBuildError(ErrWhitespaceInName, "variable name %q contains whitespace", name)
	}
	if _, dup := inst.names[name]; dup {
		return nil, newBuildError(ErrWhitespaceInName, "duplicate entity name %q", name)
	}
	if sense != Selection && sense != DependentBinary && sense != DependentInteger && lower == minInt() && upper == maxInt() {
		return nil, newBuildError(ErrUnboundedVariable, "variable %q has no bounds", name)
	}
	index := VariableIndex(len(inst.Variables))
	v := NewVariable(index, name, lower, upper, sense)
	inst.Variables = append(inst.Variables, v)
	inst.names[name] = struct{}{}
	return v, nil
}

// AddConstraint registers a constraint over an already-built Expression
// (RHS folded into the expression's constant). It records each touched
// variable's constraint-sensitivity entry.
func (inst *Instance) AddConstraint(name string, expression *Expression, sense ConstraintSense) (*Constraint, error) {
	if strings.ContainsAny(name, " \t\n\r") {
		return nil, newBuildError(ErrWhitespaceInName, "constraint name %q contains whitespace", name)
	}
	if _, dup := inst.names[name]; dup {
		return nil, newBuildError(ErrWhitespaceInName, "duplicate entity name %q", name)
	}
	index := ConstraintIndex(len(inst.Constraints))
	c := NewConstraint(index, name, expression, sense)
	inst.Constraints = append(inst.Constraints, c)
	inst.names[name] = struct{}{}

	for _, vi := range expression.Terms() {
		coeff := expression.Coefficient(vi)
		inst.Variables[vi].AddConstraintSensitivity(index, coeff)
	}
	return c, nil
}

// SetObjective installs the model's objective expression.
func (inst *Instance) SetObjective(expression *Expression, maximize bool) {
	inst.Objective = NewObjective(expression, maximize)
	for _, vi := range expression.Terms() {
		inst.Variables[vi].ObjectiveSensitivity = expression.Coefficient(vi) * inst.Objective.Sign
	}
}

// Finalize freezes expression structures (sensitivities + masks), runs
// categorization and selection-group promotion, and validates the
// remaining model-build invariants. Must be called exactly once, after the
// model is structurally complete and before any search core runs.
func (inst *Instance) Finalize() error {
	if inst.Objective == nil && len(inst.Constraints) == 0 {
		return newBuildError(ErrUndefinedObjective, "model has neither an objective nor any constraints")
	}

	if inst.Objective != nil {
		inst.Objective.Expression.SetupFixedSensitivities()
		inst.Objective.Expression.SetupMask()
		inst.Objective.Expression.Update()
	}
	for _, c := range inst.Constraints {
		c.Expression.SetupFixedSensitivities()
		c.Expression.SetupMask()
		c.Expression.Update()
		c.Refresh()
	}

	CategorizeConstraints(inst)
	PromoteSelectionGroups(inst)
	return nil
}

// TotalViolation sums the violation of every enabled constraint.
func (inst *Instance) TotalViolation() float64 {
	total := 0.0
	for _, c := range inst.Constraints {
		total += c.Violation()
	}
	return total
}

// IsFeasible reports whether every enabled constraint is satisfied.
func (inst *Instance) IsFeasible() bool {
	return inst.TotalViolation() < EPSILON
}

// RelatedConstraintsOf unions the related-constraint sets of every variable
// touched by move's alterations, the set the driver iterates instead of
// scanning the whole model.
func (inst *Instance) RelatedConstraintsOf(move *Move) []ConstraintIndex {
	seen := make(map[ConstraintIndex]struct{})
	var result []ConstraintIndex
	for _, alt := range move.Alterations {
		inst.Variables[alt.Variable].RelatedConstraints.Each(func(ci ConstraintIndex) bool {
			if _, ok := seen[ci]; !ok {
				seen[ci] = struct{}{}
				result = append(result, ci)
			}
			return false
		})
	}
	return result
}

// ApplyMove commits move to the model: expression caches are refreshed
// using the pre-mutation variable values (as EvaluateMove/UpdateMove
// require), then the variables themselves are mutated, then constraint
// violations are recomputed from the refreshed expression values.
func (inst *Instance) ApplyMove(move *Move) {
	if len(move.RelatedConstraints) == 0 {
		move.RelatedConstraints = inst.RelatedConstraintsOf(move)
	}

	if inst.Objective != nil {
		inst.Objective.Expression.UpdateMove(move)
	}
	for _, ci := range move.RelatedConstraints {
		inst.Constraints[ci].Expression.UpdateMove(move)
	}

	for _, alt := range move.Alterations {
		v := inst.Variables[alt.Variable]
		v.SetValue(alt.NewValue)
		v.UpdateCount++
	}

	for _, ci := range move.RelatedConstraints {
		inst.Constraints[ci].Refresh()
	}
}

// String renders the model like the teacher's Instance.String(): one line
// per variable (name and sense), then one line per constraint (name and
// sense against its folded-in zero right-hand side). Coefficients are not
// printed.
func (inst *Instance) String() string {
	s := new(strings.Builder)
	s.WriteString("Variables:\n")
	for _, v := range inst.Variables {
		s.WriteString(v.Name)
		s.WriteString(": ")
		s.WriteString(v.Sense.String())
		s.WriteRune('\n')
	}
	s.WriteString("Constraints:\n")
	for _, c := range inst.Constraints {
		s.WriteString(c.Name)
		s.WriteString(" ")
		s.WriteString(c.Sense.String())
		s.WriteString(" 0\n")
	}
	return s.String()
}

func minInt() int { return -1 << 62 }
func maxInt() int { return 1<<62 - 1 }
