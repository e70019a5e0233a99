package search

import (
	"math"
	"time"

	"gonum.org/v1/gonum/mat"

	"mipsolve/model"
)

const (
	lagrangeExtendRate = 1.05
	lagrangeReduceRate = 0.95
	lagrangeQueueSize  = 30
)

// LagrangeDualCore is the warm-start component of spec §4.H: it relaxes
// every constraint into the objective via a multiplier vector λ, repeatedly
// resolves the variable assignment that minimizes the Lagrangian given the
// current λ, and takes a subgradient step, mirroring the teacher's
// subgradient.go/lagrangian.go step-size adaptation (extend/reduce rate,
// circular queue of recent Lagrangian values) generalized from one SCP cost
// vector to an arbitrary Instance.
type LagrangeDualCore struct {
	inst    *model.Instance
	options Options
	logger  *Logger

	lambda *mat.VecDense

	queue      [lagrangeQueueSize]float64
	queueLen   int
	queueNext  int
	queueSum   float64
	queueMax   float64

	iteration int
}

func NewLagrangeDualCore(inst *model.Instance, options Options) *LagrangeDualCore {
	lambda := mat.NewVecDense(len(inst.Constraints), nil)
	return &LagrangeDualCore{
		inst:    inst,
		options: options,
		logger:  NewLogger(options.Verbose),
		lambda:  lambda,
	}
}

// Run executes the subgradient loop until convergence, the iteration cap,
// or the time budget, whichever comes first.
func (d *LagrangeDualCore) Run() Result {
	start := time.Now()
	stepSize := 1.0 / math.Max(1, float64(len(d.inst.Variables)))
	incumbents := NewIncumbentHolder()

	for {
		if d.options.LagrangeDual.TimeMax > 0 && time.Since(start) >= d.options.LagrangeDual.TimeMax {
			return Result{Status: StatusTimeOver, Iterations: d.iteration, Elapsed: time.Since(start), Incumbents: incumbents}
		}
		if d.options.LagrangeDual.IterationMax > 0 && d.iteration >= d.options.LagrangeDual.IterationMax {
			return Result{Status: StatusIterationOver, Iterations: d.iteration, Elapsed: time.Since(start), Incumbents: incumbents}
		}

		d.minimizeGivenLambda()

		if d.inst.Objective != nil {
			d.inst.Objective.Expression.Update()
		}
		for _, c := range d.inst.Constraints {
			c.Expression.Update()
			c.Refresh()
		}

		lagrangianValue := d.lagrangianValue()
		score := ScoreSolution(d.inst, d.options.Penalty.InitialPenaltyCoefficient)
		incumbents.TryUpdate(d.inst, score)

		if d.converged(lagrangianValue) {
			return Result{Status: StatusConverge, Iterations: d.iteration, Elapsed: time.Since(start), Incumbents: incumbents}
		}

		stepSize = d.adaptStepSize(stepSize, lagrangianValue)
		d.subgradientStep(stepSize)
		d.pushQueue(lagrangianValue)

		d.iteration++
		if d.iteration%max(1, d.options.LagrangeDual.LogInterval) == 0 {
			d.logger.Full("lagrange iteration=%d value=%.4f step=%.6f", d.iteration, lagrangianValue, stepSize)
		}
	}
}

// minimizeGivenLambda sets every unfixed variable to the bound that
// minimizes its contribution to the Lagrangian c^T x + λ^T(Ax-b) given the
// current multipliers: the reduced cost is the variable's (sign-adjusted)
// objective sensitivity plus the λ-weighted sum of its constraint
// coefficients.
func (d *LagrangeDualCore) minimizeGivenLambda() {
	for _, v := range d.inst.Variables {
		if v.IsFixed() {
			continue
		}
		reducedCost := v.ObjectiveSensitivity
		for _, cs := range v.ConstraintSensitivities {
			reducedCost += d.lambda.AtVec(int(cs.Constraint)) * cs.Coefficient
		}
		if reducedCost >= 0 {
			v.SetValue(v.LowerBound())
		} else {
			v.SetValue(v.UpperBound())
		}
	}
}

// lagrangianValue computes objective(x) + Σ λ_c * lhs_c(x), where lhs_c
// already has the right-hand side folded into the expression's constant.
func (d *LagrangeDualCore) lagrangianValue() float64 {
	value := 0.0
	if d.inst.Objective != nil {
		value = d.inst.Objective.Value()
	}
	for _, c := range d.inst.Constraints {
		value += d.lambda.AtVec(int(c.Index)) * c.Expression.Value()
	}
	return value
}

// subgradientStep updates λ by the violation subgradient, scaled by
// stepSize, then clamps each multiplier by its constraint's sense: <= keeps
// λ>=0, >= keeps λ<=0, = stays free.
func (d *LagrangeDualCore) subgradientStep(stepSize float64) {
	for _, c := range d.inst.Constraints {
		lhs := c.Expression.Value()
		updated := d.lambda.AtVec(int(c.Index)) + stepSize*lhs
		switch c.Sense {
		case model.LessEqual:
			updated = math.Max(0, updated)
		case model.GreaterEqual:
			updated = math.Min(0, updated)
		}
		d.lambda.SetVec(int(c.Index), updated)
	}
}

// adaptStepSize multiplies by extendRate when the Lagrangian exceeds the
// queue's moving average (still climbing) and by reduceRate when it falls
// below the queue's maximum (backtracking), per spec §4.H.
func (d *LagrangeDualCore) adaptStepSize(stepSize, lagrangianValue float64) float64 {
	if d.queueLen == 0 {
		return stepSize
	}
	average := d.queueSum / float64(d.queueLen)
	if lagrangianValue > average {
		return stepSize * lagrangeExtendRate
	}
	if lagrangianValue < d.queueMax {
		return stepSize * lagrangeReduceRate
	}
	return stepSize
}

func (d *LagrangeDualCore) pushQueue(value float64) {
	if d.queueLen == lagrangeQueueSize {
		d.queueSum -= d.queue[d.queueNext]
	} else {
		d.queueLen++
	}
	d.queue[d.queueNext] = value
	d.queueSum += value
	d.queueNext = (d.queueNext + 1) % lagrangeQueueSize

	d.queueMax = d.queue[0]
	for i := 1; i < d.queueLen; i++ {
		if d.queue[i] > d.queueMax {
			d.queueMax = d.queue[i]
		}
	}
}

func (d *LagrangeDualCore) converged(lagrangianValue float64) bool {
	if d.queueLen < lagrangeQueueSize {
		return false
	}
	return math.Abs(lagrangianValue-d.queueSum/float64(d.queueLen)) < model.EPSILON
}

// PenaltyFor returns a per-move Lagrangian penalty usable as a
// LagrangianPenaltyFunc: the λ-weighted change in constraint left-hand
// sides the move would cause, letting TabuSearchCore fold the dual
// information into its effective cost without re-running the relaxation.
func (d *LagrangeDualCore) PenaltyFor(move *model.Move) float64 {
	penalty := 0.0
	for _, ci := range d.inst.RelatedConstraintsOf(move) {
		c := d.inst.Constraints[ci]
		before := c.Expression.Value()
		after := c.Expression.EvaluateMove(move)
		penalty += d.lambda.AtVec(int(ci)) * (after - before)
	}
	return penalty
}
