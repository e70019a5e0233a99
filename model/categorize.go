package model

import "math"

// CategorizeConstraints walks every constraint and tags it with every
// applicable structural type. Tags are not disjoint — a constraint can be
// both set-partitioning and cardinality — and this is the authoritative
// step neighborhood generators subscribe to (spec §4.C: "re-categorization
// is the authoritative step that determines which move generators are
// active"). Call after the model structure (coefficients, bounds, senses)
// is final and before the first search iteration; call again after any
// structural change (e.g. presolve rewriting the model in place).
func CategorizeConstraints(inst *Instance) {
	for _, c := range inst.Constraints {
		c.Tags.Clear()
		categorizeOne(inst, c)
	}
}

func categorizeOne(inst *Instance, c *Constraint) {
	terms := c.Expression.Terms()
	n := len(terms)
	if n == 0 {
		return
	}

	allBinary := true
	allCoeffOne := true
	allCoeffEqualPositive := true
	var firstCoeff float64
	hasPositive, hasNegative := false, false

	for i, vi := range terms {
		coeff := c.Expression.Coefficient(vi)
		v := inst.Variables[vi]
		if !v.IsBinaryLike() {
			allBinary = false
		}
		if !almostEqual(coeff, 1) {
			allCoeffOne = false
		}
		if i == 0 {
			firstCoeff = coeff
		} else if !almostEqual(coeff, firstCoeff) {
			allCoeffEqualPositive = false
		}
		if coeff > 0 {
			hasPositive = true
		} else if coeff < 0 {
			hasNegative = true
		}
	}
	if firstCoeff <= 0 {
		allCoeffEqualPositive = false
	}

	rhs := -c.Expression.Constant()

	if n == 1 {
		c.AddTag(TagSingleton)
	}

	switch {
	case c.Sense == Equal && allCoeffOne && almostEqual(rhs, 1) && allBinary:
		c.AddTag(TagSetPartitioning)
		if n == 2 {
			c.AddTag(TagExclusiveOr)
		}
	case c.Sense == GreaterEqual && allCoeffOne && rhs >= 1-EPSILON && allBinary:
		c.AddTag(TagSetCovering)
		if rhs > 1+EPSILON {
			c.AddTag(TagMultipleCovering)
		}
	case c.Sense == LessEqual && allCoeffOne && rhs >= 1-EPSILON && allBinary:
		c.AddTag(TagSetPacking)
	}

	if allCoeffOne && allBinary && !almostEqual(rhs, 1) {
		c.AddTag(TagCardinality)
	}

	if allCoeffEqualPositive && allBinary && c.Sense == LessEqual {
		c.AddTag(TagInvariantKnapsack)
	}
	if !allCoeffOne && !allCoeffEqualPositive && hasPositive && c.Sense == LessEqual && rhs > EPSILON {
		c.AddTag(TagKnapsack)
	}

	if n == 2 {
		categorizeBinomial(c, terms, inst)
	}

	if c.Sense == Equal && n > 2 && hasPositive && hasNegative {
		c.AddTag(TagFlow)
	}
}

func categorizeBinomial(c *Constraint, terms []VariableIndex, inst *Instance) {
	a := c.Expression.Coefficient(terms[0])
	b := c.Expression.Coefficient(terms[1])

	switch {
	case c.Sense == Equal && almostEqual(a, 1) && almostEqual(b, 1):
		c.AddTag(TagConstantSumIntegers)
		c.AddTag(TagBalancedIntegers)
	case c.Sense == Equal && almostEqual(a, 1) && almostEqual(b, -1):
		c.AddTag(TagConstantDifferenceIntegers)
		c.AddTag(TagInvertedIntegers)
	case (c.Sense == LessEqual || c.Sense == GreaterEqual) &&
		almostEqual(a, 1) && almostEqual(b, -1):
		c.AddTag(TagPrecedence)
	case (c.Sense == LessEqual || c.Sense == GreaterEqual) &&
		math.Abs(a) > 1+EPSILON != (math.Abs(b) > 1+EPSILON):
		c.AddTag(TagVariableBound)
	}

	if c.Sense == Equal && !almostEqual(a, 0) && !almostEqual(b, 0) &&
		!(almostEqual(a, 1) && almostEqual(math.Abs(b), 1)) {
		c.AddTag(TagAggregation)
	}

	va, vb := inst.Variables[terms[0]], inst.Variables[terms[1]]
	if va.IsBinaryLike() && vb.IsBinaryLike() {
		switch {
		case c.Sense == Equal && almostEqual(a, 1) && almostEqual(b, -1) && almostEqual(-c.Expression.Constant(), 0):
			c.AddTag(TagExclusiveNor)
		}
	}
}
