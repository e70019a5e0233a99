package ioformat_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mipsolve/ioformat"
	"mipsolve/model"
)

func TestReadOPBParsesObjectiveAndHardConstraint(t *testing.T) {
	src := "min: 2 x1 -1 x2;\nx1 +x2 <= 1;\n"
	inst, err := ioformat.ReadOPB(strings.NewReader(src))
	require.NoError(t, err)

	require.Len(t, inst.Variables, 2)
	require.NotNil(t, inst.Objective)
	assert.False(t, inst.Objective.Maximize)

	require.Len(t, inst.Constraints, 1)
	assert.Equal(t, model.LessEqual, inst.Constraints[0].Sense)
}

func TestReadOPBNegatedLiteralAddsLinkingEquality(t *testing.T) {
	src := "min: 1 x1;\n1 ~x1 >= 1;\n"
	inst, err := ioformat.ReadOPB(strings.NewReader(src))
	require.NoError(t, err)

	// x1, its negation, and the linking equality constraint plus the
	// explicit hard constraint.
	require.Len(t, inst.Variables, 2)
	require.Len(t, inst.Constraints, 2)

	var link *model.Constraint
	for _, c := range inst.Constraints {
		if c.Sense == model.Equal {
			link = c
		}
	}
	require.NotNil(t, link, "expected a linking equality constraint for the negated literal")
	assert.InDelta(t, 1, -link.Expression.Constant(), model.EPSILON)
}

func TestReadOPBProductLiteralAddsANDLinearization(t *testing.T) {
	src := "min: 1 x1*x2;\nx1*x2 <= 1;\n"
	inst, err := ioformat.ReadOPB(strings.NewReader(src))
	require.NoError(t, err)

	// x1, x2, and the product variable.
	require.Len(t, inst.Variables, 3)
	// Two per-factor linking constraints, one AND-closure constraint, and
	// the explicit hard constraint over the product literal.
	require.Len(t, inst.Constraints, 4)
}

func TestReadOPBSoftConstraintAddsSlackAndPenalty(t *testing.T) {
	src := "min: 1 x1;\n[5] x1 +x2 >= 1;\n"
	inst, err := ioformat.ReadOPB(strings.NewReader(src))
	require.NoError(t, err)

	require.Len(t, inst.Constraints, 1)
	// x1, x2, and the slack variable.
	require.Len(t, inst.Variables, 3)

	var slack *model.Variable
	for _, v := range inst.Variables {
		if strings.HasPrefix(v.Name, "slack_") {
			slack = v
		}
	}
	require.NotNil(t, slack)
	assert.InDelta(t, 5, inst.Objective.Expression.Coefficient(slack.Index), model.EPSILON)
}

func TestReadOPBTopCostAddsUpperBoundConstraint(t *testing.T) {
	src := "min: 1 x1;\nsoft: 10;\n[5] x1 +x2 >= 1;\n"
	inst, err := ioformat.ReadOPB(strings.NewReader(src))
	require.NoError(t, err)

	var foundTop bool
	for _, c := range inst.Constraints {
		if strings.HasPrefix(c.Name, "top_") {
			foundTop = true
			assert.Equal(t, model.LessEqual, c.Sense)
			assert.InDelta(t, 10, -c.Expression.Constant(), model.EPSILON)
		}
	}
	assert.True(t, foundTop, "expected a top_ constraint bounding the penalty objective")
}

func TestWriteOPBEmitsObjectiveAndConstraintLines(t *testing.T) {
	inst := model.NewInstance()
	x1, err := inst.AddVariable("x1", 0, 1, model.Binary)
	require.NoError(t, err)
	x2, err := inst.AddVariable("x2", 0, 1, model.Binary)
	require.NoError(t, err)

	obj := model.NewExpression(inst)
	obj.SetCoefficient(x1.Index, 1)
	inst.SetObjective(obj, false)

	expr := model.NewExpression(inst)
	expr.SetCoefficient(x1.Index, 1)
	expr.SetCoefficient(x2.Index, 1)
	expr.SetConstant(-1)
	_, err = inst.AddConstraint("c", expr, model.LessEqual)
	require.NoError(t, err)
	require.NoError(t, inst.Finalize())

	var buf strings.Builder
	require.NoError(t, ioformat.WriteOPB(&buf, inst))
	assert.Contains(t, buf.String(), "min:")
	assert.Contains(t, buf.String(), "<= 1;")
}
