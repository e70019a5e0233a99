package ioformat

import (
	"fmt"

	"github.com/lanl/highs"
	"github.com/lukpank/go-glpk/glpk"
	"gonum.org/v1/gonum/mat"

	"mipsolve/model"
)

// denseConstraintMatrix builds the dense A matrix (enabled constraints by
// variables) gonum needs, the same row-per-constraint layout the teacher's
// highs.go builds from its subset-incidence matrix.
func denseConstraintMatrix(inst *model.Instance) (*mat.Dense, []model.ConstraintIndex) {
	var rows []model.ConstraintIndex
	for _, c := range inst.Constraints {
		if c.IsEnabled() {
			rows = append(rows, c.Index)
		}
	}
	a := mat.NewDense(len(rows), len(inst.Variables), nil)
	for r, ci := range rows {
		c := inst.Constraints[ci]
		for _, vi := range c.Expression.Terms() {
			a.Set(r, int(vi), c.Expression.Coefficient(vi))
		}
	}
	return a, rows
}

// NaiveLPBound solves the continuous relaxation of inst (integrality
// dropped, bounds kept) with glpk's simplex, the "naive LP relaxation
// bound" spec §1 allows as an external collaborator to the tabu-search
// core. It returns the relaxed objective value in reported (user-facing)
// sense.
func NaiveLPBound(inst *model.Instance) (float64, error) {
	prob := glpk.New()
	defer prob.Delete()
	prob.SetObjDir(glpk.MIN)

	n := len(inst.Variables)
	prob.AddCols(n)
	for j, v := range inst.Variables {
		prob.SetColKind(j+1, glpk.CV)
		lo, hi := float64(v.LowerBound()), float64(v.UpperBound())
		if v.IsFixed() {
			prob.SetColBnds(j+1, glpk.FX, lo, hi)
		} else {
			prob.SetColBnds(j+1, glpk.DB, lo, hi)
		}
		coeff := 0.0
		if inst.Objective != nil {
			coeff = inst.Objective.Expression.Coefficient(v.Index) * inst.Objective.Sign
		}
		prob.SetObjCoef(j+1, coeff)
	}

	a, rows := denseConstraintMatrix(inst)
	prob.AddRows(len(rows))
	indices := make([]int32, n+1)
	for j := range indices {
		indices[j] = int32(j)
	}
	for r, ci := range rows {
		c := inst.Constraints[ci]
		values := make([]float64, n+1)
		for j := 0; j < n; j++ {
			values[j+1] = a.At(r, j)
		}
		prob.SetMatRow(r+1, indices, values)

		rhs := -c.Expression.Constant()
		switch c.Sense {
		case model.LessEqual:
			prob.SetRowBnds(r+1, glpk.UP, 0, rhs)
		case model.GreaterEqual:
			prob.SetRowBnds(r+1, glpk.LO, rhs, 0)
		default:
			prob.SetRowBnds(r+1, glpk.FX, rhs, rhs)
		}
	}

	if err := prob.Simplex(nil); err != nil {
		return 0, fmt.Errorf("naive LP bound: %w", err)
	}

	internal := prob.ObjVal()
	if inst.Objective == nil {
		return 0, nil
	}
	return inst.Objective.Sign * internal, nil
}

// ExactRelaxationBound solves inst's full integer model with highs,
// mirroring the teacher's runHighsSolver, for use as an exact-compare
// check against the tabu-search incumbent in test/benchmark tooling.
func ExactRelaxationBound(inst *model.Instance) (float64, error) {
	lp := new(highs.Model)

	n := len(inst.Variables)
	lp.VarTypes = make([]highs.VariableType, n)
	lp.ColLower = make([]float64, n)
	lp.ColUpper = make([]float64, n)
	lp.ColCosts = make([]float64, n)
	for j, v := range inst.Variables {
		lp.VarTypes[j] = highs.IntegerType
		lp.ColLower[j] = float64(v.LowerBound())
		lp.ColUpper[j] = float64(v.UpperBound())
		if inst.Objective != nil {
			lp.ColCosts[j] = inst.Objective.Expression.Coefficient(v.Index) * inst.Objective.Sign
		}
	}

	a, rows := denseConstraintMatrix(inst)
	for r, ci := range rows {
		c := inst.Constraints[ci]
		rhs := -c.Expression.Constant()
		switch c.Sense {
		case model.LessEqual:
			lp.AddDenseRow(0, a.RawRowView(r), rhs)
		case model.GreaterEqual:
			lp.AddDenseRow(rhs, a.RawRowView(r), 0)
		default:
			lp.AddDenseRow(rhs, a.RawRowView(r), rhs)
		}
	}

	solution, err := lp.Solve()
	if err != nil {
		return 0, err
	}
	if solution.Status != highs.Optimal {
		return 0, fmt.Errorf("exact relaxation bound: status %v", solution.Status.String())
	}
	if inst.Objective == nil {
		return 0, nil
	}
	return inst.Objective.Sign * solution.Objective, nil
}
