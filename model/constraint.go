package model

import mapset "github.com/deckarep/golang-set/v2"

// Constraint wraps one linear Expression plus a relational sense. The
// expression already has the right-hand side folded into its constant, so
// "satisfied" means expression.Value() <= 0 / == 0 / >= 0 according to
// Sense.
type Constraint struct {
	Index      ConstraintIndex
	Name       string
	Expression *Expression
	Sense      ConstraintSense

	violation float64

	// PositivePart/NegativePart cache max(lhs,0) and max(-lhs,0) so the
	// single-variable delta formula (spec §4.D) can update them
	// incrementally instead of recomputing violation from scratch.
	PositivePart float64
	NegativePart float64

	Tags mapset.Set[ConstraintTag]

	enabled bool

	// LocalPenaltyPositive/LocalPenaltyNegative are the two per-constraint
	// local penalty coefficients used by the local-augmented objective.
	LocalPenaltyPositive float64
	LocalPenaltyNegative float64

	// EvaluationIgnorable, per spec §9's open question, is consulted by the
	// single-variable fast path but never set to true anywhere in this tree.
	EvaluationIgnorable bool
}

// NewConstraint wraps expression (RHS already folded in) under sense.
func NewConstraint(index ConstraintIndex, name string, expression *Expression, sense ConstraintSense) *Constraint {
	return &Constraint{
		Index:      index,
		Name:       name,
		Expression: expression,
		Sense:      sense,
		Tags:       mapset.NewThreadUnsafeSet[ConstraintTag](),
		enabled:    true,
	}
}

func (c *Constraint) IsEnabled() bool { return c.enabled }
func (c *Constraint) Enable()         { c.enabled = true; c.Expression.Enable() }
func (c *Constraint) Disable()        { c.enabled = false; c.Expression.Disable() }

// Violation returns the cached, non-negative violation amount. A disabled
// constraint always reports zero violation, though it remains visible for
// reporting via Constraint.Value().
func (c *Constraint) Violation() float64 {
	if !c.enabled {
		return 0
	}
	return c.violation
}

func (c *Constraint) Value() float64 { return c.Expression.Value() }

// IsSatisfied reports violation == 0 within EPSILON.
func (c *Constraint) IsSatisfied() bool {
	return c.Violation() < EPSILON
}

// Refresh recomputes PositivePart/NegativePart/violation from the
// expression's current cached value. Call after Expression.Update()/
// UpdateMove() so lhs reflects the post-move state.
func (c *Constraint) Refresh() {
	lhs := c.Expression.Value()
	c.PositivePart = positivePart(lhs)
	c.NegativePart = positivePart(-lhs)
	c.violation = c.computeViolation(lhs)
}

func (c *Constraint) computeViolation(lhs float64) float64 {
	switch c.Sense {
	case LessEqual:
		return positivePart(lhs)
	case GreaterEqual:
		return positivePart(-lhs)
	default: // Equal
		return absFloat(lhs)
	}
}

func positivePart(x float64) float64 {
	if x > 0 {
		return x
	}
	return 0
}

func absFloat(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}

func (c *Constraint) HasTag(tag ConstraintTag) bool { return c.Tags.Contains(tag) }
func (c *Constraint) AddTag(tag ConstraintTag)       { c.Tags.Add(tag) }

// WouldBeSatisfied reports whether applying move (without mutating anything)
// would leave c satisfied, per the same sense-dependent violation formula
// Refresh uses.
func (c *Constraint) WouldBeSatisfied(move *Move) bool {
	return c.computeViolation(c.Expression.EvaluateMove(move)) < EPSILON
}
