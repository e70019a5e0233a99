package neighborhood

import "mipsolve/model"

// IntegerStepGenerator proposes, for every unfixed bounded-integer variable,
// four slots: a -1 step, a +1 step, and two midpoint jumps that bisect the
// remaining distance to each bound from the variable's current value
// (⌊(x+upper)/2⌋ and ⌊(x+lower)/2⌋). Unlike the unit steps, the midpoint
// targets move with the variable's current value each call, so repeated
// jumps toward the same bound halve the remaining distance every time —
// the mechanism that lets a variable stuck against one bound cross a wide
// bounded-integer domain in O(log range) moves instead of walking there one
// step at a time.
type IntegerStepGenerator struct {
	targets []model.VariableIndex
	// four slots per target: down, up, midpoint-toward-upper, midpoint-toward-lower.
	moves []*model.Move
	flags []bool
}

const integerStepSlotsPerTarget = 4

func NewIntegerStepGenerator(inst *model.Instance) *IntegerStepGenerator {
	g := &IntegerStepGenerator{}
	for _, v := range inst.Variables {
		if v.Sense == model.Integer || v.Sense == model.DependentInteger {
			g.targets = append(g.targets, v.Index)
		}
	}
	n := len(g.targets) * integerStepSlotsPerTarget
	g.moves = ensureCapacity(g.moves, n)
	g.flags = ensureFlags(g.flags, n)
	for i, vi := range g.targets {
		for k := 0; k < integerStepSlotsPerTarget; k++ {
			m := g.moves[i*integerStepSlotsPerTarget+k]
			m.Sense = model.MoveInteger
			m.IsUnivariable = true
			if len(m.Alterations) != 1 {
				m.Alterations = []model.Alteration{{}}
			}
			m.Alterations[0].Variable = vi
		}
	}
	return g
}

func (g *IntegerStepGenerator) UpdateMoves(inst *model.Instance, hints AcceptanceHints, parallel bool) {
	parallelFor(len(g.targets), parallel, func(i int) {
		vi := g.targets[i]
		v := inst.Variables[vi]
		current := v.Value()
		base := i * integerStepSlotsPerTarget

		down := g.moves[base+0]
		down.Alterations[0].NewValue = current - 1
		down.RelatedConstraints = nil
		downOK := checkMove(inst, down, hints)
		down.Available = downOK
		g.flags[base+0] = downOK

		up := g.moves[base+1]
		up.Alterations[0].NewValue = current + 1
		up.RelatedConstraints = nil
		upOK := checkMove(inst, up, hints)
		up.Available = upOK
		g.flags[base+1] = upOK

		midUp := g.moves[base+2]
		midUpValue := floorDiv(current+v.UpperBound(), 2)
		midUp.Alterations[0].NewValue = midUpValue
		midUp.RelatedConstraints = nil
		midUpOK := midUpValue != current && midUpValue != current-1 && midUpValue != current+1 && checkMove(inst, midUp, hints)
		midUp.Available = midUpOK
		g.flags[base+2] = midUpOK

		midDown := g.moves[base+3]
		midDownValue := floorDiv(current+v.LowerBound(), 2)
		midDown.Alterations[0].NewValue = midDownValue
		midDown.RelatedConstraints = nil
		midDownOK := midDownValue != current && midDownValue != current-1 && midDownValue != current+1 &&
			midDownValue != midUpValue && checkMove(inst, midDown, hints)
		midDown.Available = midDownOK
		g.flags[base+3] = midDownOK
	})
}

// floorDiv is integer division rounded toward negative infinity, matching
// the ⌊⌋ in the midpoint formula for negative sums too (bounded-integer
// domains may have negative lower bounds).
func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func (g *IntegerStepGenerator) Moves() []*model.Move { return g.moves }
func (g *IntegerStepGenerator) Flags() []bool        { return g.flags }
