package neighborhood

import "mipsolve/model"

// TwoFlipGenerator proposes, for each caller-supplied (x, y) pair, the two
// complementary cross-assignment moves (x→1, y→0) and (x→0, y→1) — a move
// a single flip cannot express but that can escape local optima single-flip
// moves cannot reach (e.g. two variables whose individual flips both worsen
// feasibility but whose joint cross-assignment cancels out in every shared
// row). The pair list is entirely caller-supplied, the same contract
// UserDefinedGenerator uses for its moves.
type TwoFlipGenerator struct {
	pairA, pairB []model.VariableIndex
	moves        []*model.Move
	flags        []bool
}

// NewTwoFlipGenerator builds two move slots per entry in pairs.
func NewTwoFlipGenerator(pairs [][2]model.VariableIndex) *TwoFlipGenerator {
	g := &TwoFlipGenerator{}
	for _, p := range pairs {
		g.pairA = append(g.pairA, p[0])
		g.pairB = append(g.pairB, p[1])
	}

	n := len(g.pairA) * 2
	g.moves = ensureCapacity(g.moves, n)
	g.flags = ensureFlags(g.flags, n)
	for i := range g.pairA {
		for k := 0; k < 2; k++ {
			m := g.moves[i*2+k]
			m.Sense = model.MoveTwoFlip
			m.IsUnivariable = false
			if len(m.Alterations) != 2 {
				m.Alterations = []model.Alteration{{}, {}}
			}
		}
	}
	return g
}

func (g *TwoFlipGenerator) UpdateMoves(inst *model.Instance, hints AcceptanceHints, parallel bool) {
	parallelFor(len(g.pairA), parallel, func(i int) {
		va, vb := inst.Variables[g.pairA[i]], inst.Variables[g.pairB[i]]

		up := g.moves[i*2]
		up.RelatedConstraints = nil
		up.Alterations[0] = model.Alteration{Variable: va.Index, NewValue: 1}
		up.Alterations[1] = model.Alteration{Variable: vb.Index, NewValue: 0}
		upOK := checkMove(inst, up, hints)
		up.Available = upOK
		g.flags[i*2] = upOK

		down := g.moves[i*2+1]
		down.RelatedConstraints = nil
		down.Alterations[0] = model.Alteration{Variable: va.Index, NewValue: 0}
		down.Alterations[1] = model.Alteration{Variable: vb.Index, NewValue: 1}
		downOK := checkMove(inst, down, hints)
		down.Available = downOK
		g.flags[i*2+1] = downOK
	})
}

func (g *TwoFlipGenerator) Moves() []*model.Move { return g.moves }
func (g *TwoFlipGenerator) Flags() []bool        { return g.flags }

// DeriveSharedConstraintPairs builds a default pair list for callers (like
// GeneratorSet) that have no externally-supplied list of their own: every
// distinct pair of binary-like variables that share at least one
// constraint, up to maxPairs.
func DeriveSharedConstraintPairs(inst *model.Instance, maxPairs int) [][2]model.VariableIndex {
	var pairs [][2]model.VariableIndex
	seen := make(map[[2]model.VariableIndex]bool)

	for _, c := range inst.Constraints {
		terms := c.Expression.Terms()
		for i := 0; i < len(terms) && len(pairs) < maxPairs; i++ {
			vi := terms[i]
			if !inst.Variables[vi].IsBinaryLike() {
				continue
			}
			for j := i + 1; j < len(terms) && len(pairs) < maxPairs; j++ {
				vj := terms[j]
				if !inst.Variables[vj].IsBinaryLike() {
					continue
				}
				key := [2]model.VariableIndex{vi, vj}
				if vi > vj {
					key = [2]model.VariableIndex{vj, vi}
				}
				if seen[key] {
					continue
				}
				seen[key] = true
				pairs = append(pairs, key)
			}
		}
	}
	return pairs
}
