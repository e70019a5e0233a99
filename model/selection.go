package model

// PromoteSelectionGroups scans every constraint tagged TagSetPartitioning
// with unit coefficients and promotes it to a SelectionGroup: its member
// variables become Selection-sense and gain a back pointer. Call after
// CategorizeConstraints. Idempotent: already-promoted groups are skipped.
//
// Constraints are visited in declaration order and the first one to claim a
// variable wins, so this is the Defined selection mode's behavior by
// construction — there is no separate code path for it.
func PromoteSelectionGroups(inst *Instance) {
	for _, c := range inst.Constraints {
		if !c.HasTag(TagSetPartitioning) {
			continue
		}
		if alreadyPromoted(inst, c) {
			continue
		}

		terms := c.Expression.Terms()
		group := &SelectionGroup{
			Index:   len(inst.SelectionGroups),
			Members: append([]VariableIndex(nil), terms...),
		}
		inst.SelectionGroups = append(inst.SelectionGroups, group)

		for _, vi := range terms {
			v := inst.Variables[vi]
			if v.Sense == Binary {
				v.Sense = Selection
			}
			v.SelectionGroup = group
		}
	}
}

// DemoteSelectionGroups reverses PromoteSelectionGroups: every promoted
// group's members fall back to Binary sense and lose their group back
// pointer, and inst.SelectionGroups is cleared. This is the Off selection
// mode's behavior — it must run after Finalize, since promotion itself
// happens there.
func DemoteSelectionGroups(inst *Instance) {
	for _, group := range inst.SelectionGroups {
		for _, vi := range group.Members {
			v := inst.Variables[vi]
			if v.Sense == Selection {
				v.Sense = Binary
			}
			v.SelectionGroup = nil
		}
	}
	inst.SelectionGroups = nil
}

func alreadyPromoted(inst *Instance, c *Constraint) bool {
	for _, vi := range c.Expression.Terms() {
		if inst.Variables[vi].SelectionGroup != nil {
			return true
		}
	}
	return false
}

// SelectedMember returns the currently-selected variable of the group
// (value 1), or -1 if none (a transient, invariant-violating state that
// initial-value correction repairs).
func (g *SelectionGroup) SelectedMember(inst *Instance) VariableIndex {
	for _, vi := range g.Members {
		if inst.Variables[vi].Value() == 1 {
			return vi
		}
	}
	return VariableIndex(^uint32(0))
}
