package model

// Objective wraps one Expression plus a minimize/maximize flag. The engine
// always minimizes internally; Sign is +1 for minimization and -1 for
// maximization, applied only at the reporting boundary.
type Objective struct {
	Expression *Expression
	Maximize   bool
	Sign       float64
}

func NewObjective(expression *Expression, maximize bool) *Objective {
	sign := 1.0
	if maximize {
		sign = -1.0
	}
	return &Objective{
		Expression: expression,
		Maximize:   maximize,
		Sign:       sign,
	}
}

// Value returns the internally-minimized value (already signed so that a
// smaller Value is always better, regardless of Maximize).
func (o *Objective) Value() float64 { return o.Sign * o.Expression.Value() }

// Reported returns the value in the user's original sense (undoing Sign).
func (o *Objective) Reported() float64 { return o.Sign * o.Value() }

// EvaluateMove mirrors Expression.EvaluateMove but applies Sign, matching
// spec §4.D's "objective_new = objective.evaluate(move) * sign".
func (o *Objective) EvaluateMove(move *Move) float64 {
	return o.Sign * o.Expression.EvaluateMove(move)
}
