package neighborhood

import (
	mapset "github.com/deckarep/golang-set/v2"

	"mipsolve/model"
)

// ChainReductionMode selects how ChainMoveGenerator trims the combinatorial
// space of move sequences down to a bounded candidate set.
type ChainReductionMode int

const (
	// ChainReductionOverlapRate: RecordAcceptedMove trims the recent-moves
	// window to recentWindow entries by dropping the oldest ones.
	ChainReductionOverlapRate ChainReductionMode = iota
	// ChainReductionShuffle trims the recent-moves window exactly as
	// ChainReductionOverlapRate does; no randomness is involved. In both
	// modes tryChain rejects pairs whose overlap rate exceeds the threshold,
	// and a full ChainMoveCache overwrites its oldest entry.
	ChainReductionShuffle
)

// chainFeasibilityTags are the constraint classes spec §4.D names as the
// ones a chain move is learned to jointly keep feasible: set-packing,
// set-covering, set-partitioning, cardinality, invariant-knapsack, and
// multiple-covering.
var chainFeasibilityTags = []model.ConstraintTag{
	model.TagSetPacking,
	model.TagSetCovering,
	model.TagSetPartitioning,
	model.TagCardinality,
	model.TagInvariantKnapsack,
	model.TagMultipleCovering,
}

// ChainMoveCache bounds how many learned chain moves are retained across
// iterations, evicting the oldest entry once full — a small fixed-size FIFO
// ring (reading entries does not change the eviction order) rather than
// letting candidate chains accumulate without bound.
type ChainMoveCache struct {
	capacity int
	entries  []*model.Move
	next     int
}

func NewChainMoveCache(capacity int) *ChainMoveCache {
	if capacity < 1 {
		capacity = 1
	}
	return &ChainMoveCache{capacity: capacity}
}

func (c *ChainMoveCache) Put(m *model.Move) {
	if len(c.entries) < c.capacity {
		c.entries = append(c.entries, m)
		return
	}
	c.entries[c.next] = m
	c.next = (c.next + 1) % c.capacity
}

func (c *ChainMoveCache) Entries() []*model.Move { return c.entries }

// ChainMoveGenerator learns composite moves from the sequence of accepted
// single-variable moves the driver feeds it via RecordAcceptedMove: every
// newly accepted move is paired against a window of recently accepted
// moves, and any pair whose combined alterations touch at least one
// chainFeasibilityTags constraint and leave every such touched constraint
// feasible is cached. UpdateMoves never
// recomputes chains from the current iteration's candidates — it only
// re-validates the cache's learned moves against the model's present state
// (bounds, fixed variables) and exposes the survivors.
type ChainMoveGenerator struct {
	mode         ChainReductionMode
	overlapRate  float64
	recentWindow int
	cache        *ChainMoveCache
	recentMoves  []*model.Move
	moves        []*model.Move
	flags        []bool
}

func NewChainMoveGenerator(mode ChainReductionMode, overlapRate float64, recentWindow, cacheCapacity int) *ChainMoveGenerator {
	if recentWindow < 1 {
		recentWindow = 1
	}
	return &ChainMoveGenerator{
		mode:         mode,
		overlapRate:  overlapRate,
		recentWindow: recentWindow,
		cache:        NewChainMoveCache(cacheCapacity),
	}
}

// RecordAcceptedMove must be called with inst still in the state it was in
// right before move was applied (mirrors Expression.EvaluateMove's
// pre-mutation requirement): move is copied (the generator that produced it
// reuses its Move slots in place, so the original pointer isn't safe to
// retain), tried for chaining against every move in the recent-moves
// window, then itself joins that window.
func (g *ChainMoveGenerator) RecordAcceptedMove(inst *model.Instance, move *model.Move) {
	if len(move.Alterations) == 0 {
		return
	}
	recorded := copyMove(move)

	for _, other := range g.recentMoves {
		if chained := g.tryChain(inst, other, recorded); chained != nil {
			g.cache.Put(chained)
		}
	}

	g.recentMoves = append(g.recentMoves, recorded)
	if len(g.recentMoves) > g.recentWindow {
		switch g.mode {
		case ChainReductionShuffle:
			drop := len(g.recentMoves) - g.recentWindow
			g.recentMoves = g.recentMoves[drop:]
		default: // ChainReductionOverlapRate
			g.recentMoves = g.recentMoves[1:]
		}
	}
}

func (g *ChainMoveGenerator) UpdateMoves(inst *model.Instance, hints AcceptanceHints, parallel bool) {
	cached := g.cache.Entries()
	n := len(cached)
	g.moves = ensureCapacity(g.moves, n)
	g.flags = ensureFlags(g.flags, n)
	parallelFor(n, parallel, func(i int) {
		move := g.moves[i]
		move.Alterations = cached[i].Alterations
		move.Sense = model.MoveChain
		move.IsUnivariable = false
		move.RelatedConstraints = nil
		ok := checkMove(inst, move, hints)
		move.Available = ok
		g.flags[i] = ok
	})
}

// tryChain merges a and b if their touched-variable sets don't overlap past
// overlapRate and preservesFeasibilityTags accepts the merged alterations;
// nil otherwise. a is an earlier
// accepted move (its variables already sit at a.Alterations' values) and b
// is the move just accepted (inst still holds its pre-move values), so the
// merge evaluates "what if b's variables also moved to their new values,
// given a's variables already have".
func (g *ChainMoveGenerator) tryChain(inst *model.Instance, a, b *model.Move) *model.Move {
	setA := touchedSet(a)
	setB := touchedSet(b)
	overlap := setA.Intersect(setB)
	rate := 0.0
	if union := setA.Union(setB).Cardinality(); union > 0 {
		rate = float64(overlap.Cardinality()) / float64(union)
	}
	if rate > g.overlapRate {
		return nil
	}

	merged := &model.Move{Alterations: append(append([]model.Alteration(nil), a.Alterations...), b.Alterations...)}
	if !preservesFeasibilityTags(inst, merged) {
		return nil
	}
	return merged
}

// preservesFeasibilityTags reports whether every enabled constraint tagged
// with a chainFeasibilityTags entry and touched by merged would be
// satisfied after applying it. It reports false when merged touches no such
// constraint.
func preservesFeasibilityTags(inst *model.Instance, merged *model.Move) bool {
	touchedConstraints := mapset.NewThreadUnsafeSet[model.ConstraintIndex]()
	any := false
	for _, alt := range merged.Alterations {
		for _, sens := range inst.Variables[alt.Variable].ConstraintSensitivities {
			c := inst.Constraints[sens.Constraint]
			if !c.IsEnabled() {
				continue
			}
			for _, tag := range chainFeasibilityTags {
				if c.HasTag(tag) {
					touchedConstraints.Add(sens.Constraint)
					any = true
					break
				}
			}
		}
	}
	if !any {
		return false
	}
	for c := range touchedConstraints.Iter() {
		if !inst.Constraints[c].WouldBeSatisfied(merged) {
			return false
		}
	}
	return true
}

func copyMove(m *model.Move) *model.Move {
	return &model.Move{
		Alterations: append([]model.Alteration(nil), m.Alterations...),
		Sense:       m.Sense,
	}
}

func touchedSet(m *model.Move) mapset.Set[model.VariableIndex] {
	s := mapset.NewThreadUnsafeSet[model.VariableIndex]()
	for _, alt := range m.Alterations {
		s.Add(alt.Variable)
	}
	return s
}

func (g *ChainMoveGenerator) Moves() []*model.Move { return g.moves }
func (g *ChainMoveGenerator) Flags() []bool        { return g.flags }
