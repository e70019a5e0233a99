package neighborhood

import "mipsolve/model"

// GeneratorSet is the full battery of generators the driver cycles through
// each iteration. Construction inspects the instance's post-categorization
// tags and selection groups, so only generators with at least one matching
// structural target are kept active.
type GeneratorSet struct {
	Generators []Generator

	// chain is the chain-move generator, if the instance had any other
	// generator to learn chains from; kept separately so the driver can feed
	// it accepted moves via RecordAcceptedMove without type-switching
	// Generators.
	chain *ChainMoveGenerator
}

// NewGeneratorSet builds every applicable generator for inst. Call after
// Instance.Finalize (categorization and selection-group promotion must have
// already run).
func NewGeneratorSet(inst *model.Instance, chainMode ChainReductionMode, chainOverlapRate float64, chainCacheCapacity int) *GeneratorSet {
	set := &GeneratorSet{}

	if g := NewBinaryFlipGenerator(inst); len(g.targets) > 0 {
		set.Generators = append(set.Generators, g)
	}
	if g := NewIntegerStepGenerator(inst); len(g.targets) > 0 {
		set.Generators = append(set.Generators, g)
	}
	if g := NewSelectionSwapGenerator(inst); len(g.slotGroup) > 0 {
		set.Generators = append(set.Generators, g)
	}
	if g := NewAggregationGenerator(inst); len(g.constraints) > 0 {
		set.Generators = append(set.Generators, g)
	}
	if g := NewEqualityBinomialGenerator(inst); len(g.varA) > 0 {
		set.Generators = append(set.Generators, g)
	}
	if g := NewPrecedenceGenerator(inst); len(g.vars) > 0 {
		set.Generators = append(set.Generators, g)
	}
	if g := NewParityGroupGenerator(inst); len(g.groups) > 0 {
		set.Generators = append(set.Generators, g)
	}
	if g := NewSoftSelectionGenerator(inst); len(g.members) > 0 {
		set.Generators = append(set.Generators, g)
	}
	if pairs := DeriveSharedConstraintPairs(inst, 4*len(inst.Variables)); len(pairs) > 0 {
		set.Generators = append(set.Generators, NewTwoFlipGenerator(pairs))
	}

	if len(set.Generators) > 0 {
		// The recent-moves window shares its size with the cache capacity:
		// one knob controls both how far back the generator looks for a
		// chaining partner and how many learned chains it retains.
		set.chain = NewChainMoveGenerator(chainMode, chainOverlapRate, chainCacheCapacity, chainCacheCapacity)
		set.Generators = append(set.Generators, set.chain)
	}

	return set
}

// RecordAcceptedMove forwards an accepted move to the chain-move generator,
// if the instance has one, so future iterations can learn composite moves
// from it.
func (s *GeneratorSet) RecordAcceptedMove(inst *model.Instance, move *model.Move) {
	if s.chain != nil {
		s.chain.RecordAcceptedMove(inst, move)
	}
}

// AddUserDefined registers a caller-supplied proposer alongside the built-in
// generators.
func (s *GeneratorSet) AddUserDefined(proposer MoveProposer) {
	s.Generators = append(s.Generators, NewUserDefinedGenerator(proposer))
}

// UpdateAll rewrites every generator's move slots for the current variable
// values under the given acceptance hints.
func (s *GeneratorSet) UpdateAll(inst *model.Instance, hints AcceptanceHints, parallel bool) {
	for _, g := range s.Generators {
		g.UpdateMoves(inst, hints, parallel)
	}
}

// AvailableMoves flattens every generator's surviving candidates into one
// slice, the pool the tabu-search scorer ranks each iteration.
func (s *GeneratorSet) AvailableMoves() []*model.Move {
	var out []*model.Move
	for _, g := range s.Generators {
		moves, flags := g.Moves(), g.Flags()
		for i, ok := range flags {
			if ok {
				out = append(out, moves[i])
			}
		}
	}
	return out
}
