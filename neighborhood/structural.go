package neighborhood

import "mipsolve/model"

// EqualityBinomialGenerator targets the family of two-variable equality
// constraints that express a fixed arithmetic relationship between two
// integers rather than a genuine resource aggregation: constant-sum,
// constant-difference, balanced, inverted, and constant-ratio integers. The
// repair step is a coordinated a*dx+b*dy=0 move (dx=b/g, dy=-a/g with
// g=gcd(|a|,|b|)) in both directions, which keeps the equality exact, unlike
// AggregationGenerator's nudge-and-solve moves; these constraints get their
// own generator (rather than folding into Aggregation) so the
// driver can subscribe/weight them independently per constraint tag.
type EqualityBinomialGenerator struct {
	varA, varB   []model.VariableIndex
	stepA, stepB []int
	senses       []model.MoveSense
	moves        []*model.Move
	flags        []bool
}

var equalityBinomialTags = []model.ConstraintTag{
	model.TagConstantSumIntegers,
	model.TagConstantDifferenceIntegers,
	model.TagBalancedIntegers,
	model.TagInvertedIntegers,
	model.TagConstantRatioIntegers,
}

func tagToMoveSense(tag model.ConstraintTag) model.MoveSense {
	switch tag {
	case model.TagConstantSumIntegers:
		return model.MoveConstantSumIntegers
	case model.TagConstantDifferenceIntegers:
		return model.MoveConstantDifferenceIntegers
	case model.TagBalancedIntegers:
		return model.MoveBalancedIntegers
	case model.TagInvertedIntegers:
		return model.MoveInvertedIntegers
	default:
		return model.MoveConstantRatioIntegers
	}
}

func NewEqualityBinomialGenerator(inst *model.Instance) *EqualityBinomialGenerator {
	g := &EqualityBinomialGenerator{}
	for _, c := range inst.Constraints {
		var matched model.ConstraintTag
		found := false
		for _, tag := range equalityBinomialTags {
			if c.HasTag(tag) {
				matched, found = tag, true
				break
			}
		}
		if !found {
			continue
		}
		terms := c.Expression.Terms()
		if len(terms) != 2 {
			continue
		}
		a := int(roundHalfAway(c.Expression.Coefficient(terms[0])))
		b := int(roundHalfAway(c.Expression.Coefficient(terms[1])))
		if a == 0 || b == 0 {
			continue
		}
		gcd := gcdInt(absInt(a), absInt(b))
		if gcd == 0 {
			continue
		}
		g.varA = append(g.varA, terms[0])
		g.varB = append(g.varB, terms[1])
		g.stepA = append(g.stepA, b/gcd)
		g.stepB = append(g.stepB, -a/gcd)
		g.senses = append(g.senses, tagToMoveSense(matched))
	}

	n := len(g.varA) * 2
	g.moves = ensureCapacity(g.moves, n)
	g.flags = ensureFlags(g.flags, n)
	for i := range g.varA {
		for k := 0; k < 2; k++ {
			m := g.moves[i*2+k]
			m.Sense = g.senses[i]
			m.IsUnivariable = false
			if len(m.Alterations) != 2 {
				m.Alterations = []model.Alteration{{}, {}}
			}
		}
	}
	return g
}

func (g *EqualityBinomialGenerator) UpdateMoves(inst *model.Instance, hints AcceptanceHints, parallel bool) {
	parallelFor(len(g.varA), parallel, func(i int) {
		va, vb := inst.Variables[g.varA[i]], inst.Variables[g.varB[i]]
		for dir := 0; dir < 2; dir++ {
			sign := 1
			if dir == 1 {
				sign = -1
			}
			move := g.moves[i*2+dir]
			move.RelatedConstraints = nil
			move.Alterations[0] = model.Alteration{Variable: va.Index, NewValue: va.Value() + sign*g.stepA[i]}
			move.Alterations[1] = model.Alteration{Variable: vb.Index, NewValue: vb.Value() + sign*g.stepB[i]}
			ok := checkMove(inst, move, hints)
			move.Available = ok
			g.flags[i*2+dir] = ok
		}
	})
}

func (g *EqualityBinomialGenerator) Moves() []*model.Move { return g.moves }
func (g *EqualityBinomialGenerator) Flags() []bool        { return g.flags }

// PrecedenceGenerator targets TagPrecedence and TagVariableBound inequality
// constraints (x-y<=/>=0, or one variable's magnitude gating another's) with
// independent univariate steps on each pair member: unlike the equality
// family there is no single coordinated step that keeps the constraint
// exactly tight, so the generator proposes the repair moves individually and
// lets the scorer pick whichever reduces violation.
type PrecedenceGenerator struct {
	vars   []model.VariableIndex
	senses []model.MoveSense
	moves  []*model.Move
	flags  []bool
}

func NewPrecedenceGenerator(inst *model.Instance) *PrecedenceGenerator {
	g := &PrecedenceGenerator{}
	seen := make(map[model.VariableIndex]bool)
	for _, c := range inst.Constraints {
		var sense model.MoveSense
		switch {
		case c.HasTag(model.TagPrecedence):
			sense = model.MovePrecedence
		case c.HasTag(model.TagVariableBound):
			sense = model.MoveVariableBound
		default:
			continue
		}
		for _, vi := range c.Expression.Terms() {
			if seen[vi] {
				continue
			}
			if inst.Variables[vi].Sense != model.Integer && !inst.Variables[vi].IsBinaryLike() {
				continue
			}
			seen[vi] = true
			g.vars = append(g.vars, vi)
			g.senses = append(g.senses, sense)
		}
	}

	n := len(g.vars) * 2
	g.moves = ensureCapacity(g.moves, n)
	g.flags = ensureFlags(g.flags, n)
	for i, vi := range g.vars {
		for k := 0; k < 2; k++ {
			m := g.moves[i*2+k]
			m.Sense = g.senses[i]
			m.IsUnivariable = true
			if len(m.Alterations) != 1 {
				m.Alterations = []model.Alteration{{}}
			}
			m.Alterations[0].Variable = vi
		}
	}
	return g
}

func (g *PrecedenceGenerator) UpdateMoves(inst *model.Instance, hints AcceptanceHints, parallel bool) {
	parallelFor(len(g.vars), parallel, func(i int) {
		v := inst.Variables[g.vars[i]]
		if v.IsBinaryLike() {
			flip := g.moves[i*2+0]
			flip.Alterations[0].NewValue = 1 - v.Value()
			flip.RelatedConstraints = nil
			ok := checkMove(inst, flip, hints)
			flip.Available = ok
			g.flags[i*2+0] = ok

			unflip := g.moves[i*2+1]
			unflip.Available = false
			g.flags[i*2+1] = false
			return
		}

		down := g.moves[i*2+0]
		down.Alterations[0].NewValue = v.Value() - 1
		down.RelatedConstraints = nil
		downOK := checkMove(inst, down, hints)
		down.Available = downOK
		g.flags[i*2+0] = downOK

		up := g.moves[i*2+1]
		up.Alterations[0].NewValue = v.Value() + 1
		up.RelatedConstraints = nil
		upOK := checkMove(inst, up, hints)
		up.Available = upOK
		g.flags[i*2+1] = upOK
	})
}

func (g *PrecedenceGenerator) Moves() []*model.Move { return g.moves }
func (g *PrecedenceGenerator) Flags() []bool        { return g.flags }

// ParityGroupGenerator targets TagExclusiveNor and TagTrinomialExclusiveNor
// constraints (all members equal, typically all-zero or all-one) by
// proposing the single move that toggles every member in lockstep.
type ParityGroupGenerator struct {
	groups [][]model.VariableIndex
	senses []model.MoveSense
	moves  []*model.Move
	flags  []bool
}

func NewParityGroupGenerator(inst *model.Instance) *ParityGroupGenerator {
	g := &ParityGroupGenerator{}
	for _, c := range inst.Constraints {
		var sense model.MoveSense
		switch {
		case c.HasTag(model.TagTrinomialExclusiveNor):
			sense = model.MoveTrinomialExclusiveNor
		case c.HasTag(model.TagExclusiveNor):
			sense = model.MoveExclusiveNor
		default:
			continue
		}
		terms := append([]model.VariableIndex(nil), c.Expression.Terms()...)
		if len(terms) < 2 {
			continue
		}
		g.groups = append(g.groups, terms)
		g.senses = append(g.senses, sense)
	}

	g.moves = ensureCapacity(g.moves, len(g.groups))
	g.flags = ensureFlags(g.flags, len(g.groups))
	for i, terms := range g.groups {
		m := g.moves[i]
		m.Sense = g.senses[i]
		m.IsUnivariable = false
		if len(m.Alterations) != len(terms) {
			m.Alterations = make([]model.Alteration, len(terms))
		}
		for k, vi := range terms {
			m.Alterations[k].Variable = vi
		}
	}
	return g
}

func (g *ParityGroupGenerator) UpdateMoves(inst *model.Instance, hints AcceptanceHints, parallel bool) {
	parallelFor(len(g.groups), parallel, func(i int) {
		terms := g.groups[i]
		move := g.moves[i]
		move.RelatedConstraints = nil
		for k, vi := range terms {
			v := inst.Variables[vi]
			move.Alterations[k].NewValue = 1 - v.Value()
		}
		ok := checkMove(inst, move, hints)
		move.Available = ok
		g.flags[i] = ok
	})
}

func (g *ParityGroupGenerator) Moves() []*model.Move { return g.moves }
func (g *ParityGroupGenerator) Flags() []bool        { return g.flags }

// SoftSelectionGenerator targets TagSoftSelection groups: like a
// SelectionGroup but without a strict exactly-one invariant (at most one,
// or a slack-bearing "soft" covering of one). It proposes independent
// select and deselect moves per member instead of the hard swap
// SelectionSwapGenerator requires.
type SoftSelectionGenerator struct {
	members []model.VariableIndex
	moves   []*model.Move
	flags   []bool
}

func NewSoftSelectionGenerator(inst *model.Instance) *SoftSelectionGenerator {
	g := &SoftSelectionGenerator{}
	seen := make(map[model.VariableIndex]bool)
	for _, c := range inst.Constraints {
		if !c.HasTag(model.TagSoftSelection) {
			continue
		}
		for _, vi := range c.Expression.Terms() {
			if seen[vi] || !inst.Variables[vi].IsBinaryLike() {
				continue
			}
			seen[vi] = true
			g.members = append(g.members, vi)
		}
	}

	n := len(g.members) * 2
	g.moves = ensureCapacity(g.moves, n)
	g.flags = ensureFlags(g.flags, n)
	for i, vi := range g.members {
		for k := 0; k < 2; k++ {
			m := g.moves[i*2+k]
			m.Sense = model.MoveSoftSelection
			m.IsUnivariable = true
			if len(m.Alterations) != 1 {
				m.Alterations = []model.Alteration{{}}
			}
			m.Alterations[0].Variable = vi
		}
	}
	return g
}

func (g *SoftSelectionGenerator) UpdateMoves(inst *model.Instance, hints AcceptanceHints, parallel bool) {
	parallelFor(len(g.members), parallel, func(i int) {
		v := inst.Variables[g.members[i]]

		sel := g.moves[i*2+0]
		sel.Alterations[0].NewValue = 1
		sel.RelatedConstraints = nil
		selOK := v.Value() != 1 && checkMove(inst, sel, hints)
		sel.Available = selOK
		g.flags[i*2+0] = selOK

		desel := g.moves[i*2+1]
		desel.Alterations[0].NewValue = 0
		desel.RelatedConstraints = nil
		deselOK := v.Value() != 0 && checkMove(inst, desel, hints)
		desel.Available = deselOK
		g.flags[i*2+1] = deselOK
	})
}

func (g *SoftSelectionGenerator) Moves() []*model.Move { return g.moves }
func (g *SoftSelectionGenerator) Flags() []bool        { return g.flags }
