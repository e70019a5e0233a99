package neighborhood

import "mipsolve/model"

// BinaryFlipGenerator proposes, for every unfixed binary-like variable, the
// single move that flips it to its complementary value. This is the
// workhorse neighborhood for set-partitioning/covering/packing models,
// grounded on the teacher's per-slot bit toggling in its greedy repair pass.
type BinaryFlipGenerator struct {
	targets []model.VariableIndex
	moves   []*model.Move
	flags   []bool
}

// NewBinaryFlipGenerator scans the instance once for binary-like,
// non-selection variables (selection variables get their own swap
// generator) and allocates one reused slot per candidate.
func NewBinaryFlipGenerator(inst *model.Instance) *BinaryFlipGenerator {
	g := &BinaryFlipGenerator{}
	for _, v := range inst.Variables {
		if v.IsBinaryLike() && v.Sense != model.Selection {
			g.targets = append(g.targets, v.Index)
		}
	}
	g.moves = ensureCapacity(g.moves, len(g.targets))
	g.flags = ensureFlags(g.flags, len(g.targets))
	for i, vi := range g.targets {
		g.moves[i].Sense = model.MoveBinary
		g.moves[i].IsUnivariable = true
		if len(g.moves[i].Alterations) != 1 {
			g.moves[i].Alterations = []model.Alteration{{}}
		}
		g.moves[i].Alterations[0].Variable = vi
	}
	return g
}

func (g *BinaryFlipGenerator) UpdateMoves(inst *model.Instance, hints AcceptanceHints, parallel bool) {
	parallelFor(len(g.targets), parallel, func(i int) {
		vi := g.targets[i]
		v := inst.Variables[vi]
		flipped := 1 - v.Value()
		move := g.moves[i]
		move.Alterations[0].NewValue = flipped
		move.RelatedConstraints = nil
		ok := checkMove(inst, move, hints)
		move.Available = ok
		g.flags[i] = ok
	})
}

func (g *BinaryFlipGenerator) Moves() []*model.Move { return g.moves }
func (g *BinaryFlipGenerator) Flags() []bool        { return g.flags }
