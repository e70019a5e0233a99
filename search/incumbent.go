package search

import "mipsolve/model"

// UpdateStatus bits are OR-ed together by IncumbentHolder.TryUpdate,
// reporting which of the three incumbents a candidate solution improved.
type UpdateStatus int

const (
	LocalAugmentedUpdate UpdateStatus = 1 << iota
	GlobalAugmentedUpdate
	FeasibleUpdate
)

// Snapshot is a frozen copy of every variable's value plus the score that
// produced it, the unit an IncumbentHolder stores and an archive records.
type Snapshot struct {
	Values []int
	Score  SolutionScore
}

// CaptureSnapshot copies every variable's current value out of inst.
func CaptureSnapshot(inst *model.Instance, score SolutionScore) Snapshot {
	values := make([]int, len(inst.Variables))
	for i, v := range inst.Variables {
		values[i] = v.Value()
	}
	return Snapshot{Values: values, Score: score}
}

// Restore writes a snapshot's values back onto inst's variables and
// refreshes every expression/constraint cache from scratch.
func (s Snapshot) Restore(inst *model.Instance) {
	for i, v := range inst.Variables {
		v.SetValue(s.Values[i])
	}
	if inst.Objective != nil {
		inst.Objective.Expression.Update()
	}
	for _, c := range inst.Constraints {
		c.Expression.Update()
		c.Refresh()
	}
}

// IncumbentHolder tracks the three named incumbents of spec §4.E: the best
// feasible solution seen, the best globally-augmented solution (objective +
// global penalty * violation), and the best locally-augmented solution
// within the current outer iteration's local-penalty landscape.
type IncumbentHolder struct {
	Feasible         *Snapshot
	GlobalAugmented  *Snapshot
	LocalAugmented   *Snapshot
}

func NewIncumbentHolder() *IncumbentHolder {
	return &IncumbentHolder{}
}

// ResetLocalAugmentedIncumbent is called at the start of each outer tabu
// iteration, per spec §4.E: the local-augmented incumbent is only valid
// within one local-penalty landscape and must not leak across iterations
// where the local penalty coefficients have moved.
func (h *IncumbentHolder) ResetLocalAugmentedIncumbent() {
	h.LocalAugmented = nil
}

// TryUpdate checks candidate against all three incumbents in order
// local -> global -> feasible, updating whichever it improves, and returns
// the OR of every status bit that fired. Feasibility gates the feasible
// incumbent only; the other two are pure score comparisons.
func (h *IncumbentHolder) TryUpdate(inst *model.Instance, score SolutionScore) UpdateStatus {
	var status UpdateStatus

	if h.LocalAugmented == nil || score.LocalAugmentedObjective < h.LocalAugmented.Score.LocalAugmentedObjective {
		snap := CaptureSnapshot(inst, score)
		h.LocalAugmented = &snap
		status |= LocalAugmentedUpdate
	}

	if h.GlobalAugmented == nil || score.GlobalAugmentedObjective < h.GlobalAugmented.Score.GlobalAugmentedObjective {
		snap := CaptureSnapshot(inst, score)
		h.GlobalAugmented = &snap
		status |= GlobalAugmentedUpdate
	}

	if score.IsFeasible && (h.Feasible == nil || score.Objective < h.Feasible.Score.Objective) {
		snap := CaptureSnapshot(inst, score)
		h.Feasible = &snap
		status |= FeasibleUpdate
	}

	return status
}
