package search

import "mipsolve/model"

// RefreshObjectiveImprovable recomputes ObjectiveImprovable for v: whether
// moving v one step toward reducing its (already sign-adjusted)
// objective contribution is still possible given its current bounds.
func RefreshObjectiveImprovable(inst *model.Instance, v model.VariableIndex) {
	variable := inst.Variables[v]
	if variable.IsFixed() || variable.ObjectiveSensitivity == 0 {
		variable.ObjectiveImprovable = false
		return
	}
	value := variable.Value()
	if variable.ObjectiveSensitivity > 0 {
		variable.ObjectiveImprovable = value > variable.LowerBound()
	} else {
		variable.ObjectiveImprovable = value < variable.UpperBound()
	}
}

// RefreshFeasibilityImprovability recomputes FeasibilityImprovable for
// every variable in inst: true only for variables participating in at
// least one currently-violated enabled constraint, per spec §4.H step 2.
func RefreshFeasibilityImprovability(inst *model.Instance) {
	for _, v := range inst.Variables {
		v.FeasibilityImprovable = false
	}
	for _, c := range inst.Constraints {
		if !c.IsEnabled() || c.IsSatisfied() {
			continue
		}
		for _, vi := range c.Expression.Terms() {
			inst.Variables[vi].FeasibilityImprovable = true
		}
	}
}

// RefreshImprovability is the full update spec §4.H step 2 describes: if the
// previous iteration's move touched a set of variables, refresh their
// objective-improvability, then refresh feasibility-improvability for
// every variable in a currently-violated constraint (a model-wide scan,
// since violated constraints can change anywhere after a move).
func RefreshImprovability(inst *model.Instance, touched []model.VariableIndex) {
	for _, vi := range touched {
		RefreshObjectiveImprovable(inst, vi)
	}
	RefreshFeasibilityImprovability(inst)
}

// RefreshAllObjectiveImprovable initializes every variable's
// ObjectiveImprovable flag, used once before the first iteration.
func RefreshAllObjectiveImprovable(inst *model.Instance) {
	for _, v := range inst.Variables {
		RefreshObjectiveImprovable(inst, v.Index)
	}
}

// AnyObjectiveImprovable reports whether at least one variable could still
// reduce the objective by moving one step within its bounds.
func AnyObjectiveImprovable(inst *model.Instance) bool {
	for _, v := range inst.Variables {
		if v.ObjectiveImprovable {
			return true
		}
	}
	return false
}
