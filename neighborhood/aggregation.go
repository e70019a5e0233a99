package neighborhood

import "mipsolve/model"

// AggregationGenerator targets constraints tagged TagAggregation (a binomial
// a*x + b*y + k = 0 with neither coefficient trivial) and proposes four
// nudge-and-solve moves per constraint: nudge x up or down by one and solve
// for the y that comes closest to keeping the constraint satisfied, and
// symmetrically nudge y up or down and solve for x. The solved variable is
// rounded to the nearest integer, so unlike an exact simultaneous step these
// moves do not generally preserve equality — that slack is what lets the
// pair explore states a gcd-exact step could never reach.
type AggregationGenerator struct {
	constraints []model.ConstraintIndex
	varA, varB  []model.VariableIndex
	coeffA      []float64
	coeffB      []float64
	constant    []float64
	// four slots per constraint: x+1/solve y, x-1/solve y, y+1/solve x, y-1/solve x.
	moves []*model.Move
	flags []bool
}

func NewAggregationGenerator(inst *model.Instance) *AggregationGenerator {
	g := &AggregationGenerator{}
	for _, c := range inst.Constraints {
		if !c.HasTag(model.TagAggregation) {
			continue
		}
		terms := c.Expression.Terms()
		if len(terms) != 2 {
			continue
		}
		a := c.Expression.Coefficient(terms[0])
		b := c.Expression.Coefficient(terms[1])
		if a == 0 || b == 0 {
			continue
		}
		g.constraints = append(g.constraints, c.Index)
		g.varA = append(g.varA, terms[0])
		g.varB = append(g.varB, terms[1])
		g.coeffA = append(g.coeffA, a)
		g.coeffB = append(g.coeffB, b)
		g.constant = append(g.constant, c.Expression.Constant())
	}

	n := len(g.constraints) * 4
	g.moves = ensureCapacity(g.moves, n)
	g.flags = ensureFlags(g.flags, n)
	for i := range g.constraints {
		for k := 0; k < 4; k++ {
			m := g.moves[i*4+k]
			m.Sense = model.MoveAggregation
			m.IsUnivariable = false
			if len(m.Alterations) != 2 {
				m.Alterations = []model.Alteration{{}, {}}
			}
		}
	}
	return g
}

func (g *AggregationGenerator) UpdateMoves(inst *model.Instance, hints AcceptanceHints, parallel bool) {
	parallelFor(len(g.constraints), parallel, func(i int) {
		va, vb := inst.Variables[g.varA[i]], inst.Variables[g.varB[i]]
		a, b, k := g.coeffA[i], g.coeffB[i], g.constant[i]
		x, y := va.Value(), vb.Value()

		set := func(slot int, xNew, yNew int) {
			move := g.moves[i*4+slot]
			move.RelatedConstraints = nil
			move.Alterations[0] = model.Alteration{Variable: va.Index, NewValue: xNew}
			move.Alterations[1] = model.Alteration{Variable: vb.Index, NewValue: yNew}
			ok := checkMove(inst, move, hints)
			move.Available = ok
			g.flags[i*4+slot] = ok
		}

		solveForY := func(xNew int) int { return roundNearest((-k - a*float64(xNew)) / b) }
		solveForX := func(yNew int) int { return roundNearest((-k - b*float64(yNew)) / a) }

		set(0, x+1, solveForY(x+1))
		set(1, x-1, solveForY(x-1))
		set(2, solveForX(y+1), y+1)
		set(3, solveForX(y-1), y-1)
	})
}

func (g *AggregationGenerator) Moves() []*model.Move { return g.moves }
func (g *AggregationGenerator) Flags() []bool        { return g.flags }

// roundNearest matches the original's floor(z + 0.5) rounding: ties round up.
func roundNearest(z float64) int {
	const half = 0.5
	shifted := z + half
	floor := int(shifted)
	if shifted < 0 && float64(floor) != shifted {
		floor--
	}
	return floor
}
