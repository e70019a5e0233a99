package neighborhood

import "mipsolve/model"

// MoveProposer is a caller-supplied function that appends its candidate
// moves' alterations to dst and returns the extended slice, letting a user
// wire in domain-specific neighborhoods (e.g. a TSP 2-opt move, a
// scheduling swap) without touching the generator pipeline itself.
type MoveProposer func(inst *model.Instance, dst [][]model.Alteration) [][]model.Alteration

// UserDefinedGenerator wraps a MoveProposer in the shared Generator
// contract so the driver can mix caller-supplied moves into the same
// candidate pool as the built-in neighborhoods.
type UserDefinedGenerator struct {
	proposer MoveProposer
	moves    []*model.Move
	flags    []bool
}

func NewUserDefinedGenerator(proposer MoveProposer) *UserDefinedGenerator {
	return &UserDefinedGenerator{proposer: proposer}
}

func (g *UserDefinedGenerator) UpdateMoves(inst *model.Instance, hints AcceptanceHints, parallel bool) {
	proposed := g.proposer(inst, nil)
	n := len(proposed)
	g.moves = ensureCapacity(g.moves, n)
	g.flags = ensureFlags(g.flags, n)
	parallelFor(n, parallel, func(i int) {
		move := g.moves[i]
		move.Alterations = proposed[i]
		move.Sense = model.MoveUserDefined
		move.IsUnivariable = len(proposed[i]) == 1
		move.RelatedConstraints = nil
		ok := checkMove(inst, move, hints)
		move.Available = ok
		g.flags[i] = ok
	})
}

func (g *UserDefinedGenerator) Moves() []*model.Move { return g.moves }
func (g *UserDefinedGenerator) Flags() []bool        { return g.flags }
