package model

import "fmt"

// InitialValueViolation describes one out-of-bound or selection-invariant
// violation found by CorrectInitialValues.
type InitialValueViolation struct {
	Variable VariableIndex
	Message  string
}

// CorrectInitialValues verifies every variable's initial value against its
// bounds and every selection group's exactly-one invariant, in a single
// pass covering both binary and bounded-integer categories. (The original
// calls the integer-variant check twice in a row where the second call was
// most likely meant to be the binary variant; this single pass checks both
// categories once.)
//
// If correct is true, violations are clamped/repaired in place and
// returned as warnings. If correct is false, the first violation found
// aborts with an error and nothing is mutated beyond that point.
func (inst *Instance) CorrectInitialValues(correct bool) ([]InitialValueViolation, error) {
	var warnings []InitialValueViolation

	for _, v := range inst.Variables {
		if v.IsFixed() || v.IsFeasibleValue(v.Value()) {
			continue
		}
		msg := fmt.Sprintf("variable %q value %d outside [%d,%d]", v.Name, v.Value(), v.LowerBound(), v.UpperBound())
		if !correct {
			return warnings, fmt.Errorf("initial value violation: %s", msg)
		}
		warnings = append(warnings, InitialValueViolation{Variable: v.Index, Message: msg})
		v.SetValue(clampInt(v.Value(), v.LowerBound(), v.UpperBound()))
	}

	for _, g := range inst.SelectionGroups {
		selectedCount := 0
		for _, vi := range g.Members {
			if inst.Variables[vi].Value() == 1 {
				selectedCount++
			}
		}
		if selectedCount == 1 {
			continue
		}
		msg := fmt.Sprintf("selection group %d has %d selected members, expected exactly 1", g.Index, selectedCount)
		if !correct {
			return warnings, fmt.Errorf("initial value violation: %s", msg)
		}
		warnings = append(warnings, InitialValueViolation{Variable: g.Members[0], Message: msg})
		for i, vi := range g.Members {
			if i == 0 {
				inst.Variables[vi].SetValue(1)
			} else {
				inst.Variables[vi].SetValue(0)
			}
		}
	}

	if inst.Objective != nil {
		inst.Objective.Expression.Update()
	}
	for _, c := range inst.Constraints {
		c.Expression.Update()
		c.Refresh()
	}

	return warnings, nil
}

func clampInt(value, lower, upper int) int {
	if value < lower {
		return lower
	}
	if value > upper {
		return upper
	}
	return value
}
