package neighborhood

import "mipsolve/model"

// SelectionSwapGenerator proposes, for each SelectionGroup, one move per
// non-selected member: deselect the currently-selected member and select
// that member instead, as a single two-alteration move so the group's
// exactly-one invariant never transiently breaks.
type SelectionSwapGenerator struct {
	// slotGroup[i]/slotMember[i] identify which group/candidate-member a
	// move slot belongs to.
	slotGroup  []int
	slotMember []model.VariableIndex
	moves      []*model.Move
	flags      []bool
}

func NewSelectionSwapGenerator(inst *model.Instance) *SelectionSwapGenerator {
	g := &SelectionSwapGenerator{}
	for gi, group := range inst.SelectionGroups {
		for _, vi := range group.Members {
			g.slotGroup = append(g.slotGroup, gi)
			g.slotMember = append(g.slotMember, vi)
		}
	}
	n := len(g.slotGroup)
	g.moves = ensureCapacity(g.moves, n)
	g.flags = ensureFlags(g.flags, n)
	for i := range g.moves {
		m := g.moves[i]
		m.Sense = model.MoveSelection
		m.IsUnivariable = false
		if len(m.Alterations) != 2 {
			m.Alterations = []model.Alteration{{}, {}}
		}
	}
	return g
}

func (g *SelectionSwapGenerator) UpdateMoves(inst *model.Instance, hints AcceptanceHints, parallel bool) {
	parallelFor(len(g.slotGroup), parallel, func(i int) {
		group := inst.SelectionGroups[g.slotGroup[i]]
		candidate := g.slotMember[i]
		selected := group.SelectedMember(inst)

		move := g.moves[i]
		move.RelatedConstraints = nil
		if selected == candidate || selected == model.VariableIndex(^uint32(0)) {
			move.Available = false
			g.flags[i] = false
			return
		}
		move.Alterations[0] = model.Alteration{Variable: selected, NewValue: 0}
		move.Alterations[1] = model.Alteration{Variable: candidate, NewValue: 1}
		ok := checkMove(inst, move, hints)
		move.Available = ok
		g.flags[i] = ok
	})
}

func (g *SelectionSwapGenerator) Moves() []*model.Move { return g.moves }
func (g *SelectionSwapGenerator) Flags() []bool        { return g.flags }
