package ioformat

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"mipsolve/model"
)

// opbTerm is one coefficient*literal entry from a constraint or objective
// line. variable may name a product of literals joined by "*", and a "~"
// prefix on a literal marks it negated.
type opbTerm struct {
	coeff    float64
	variable string
}

// ReadOPB parses OPB (and its WBO superset) pseudo-Boolean text into a
// binary-variable Instance. Negated literals get a linking equality
// x + x̄ = 1; product literals ("x1*x2") get the AND-linking inequalities;
// WBO soft constraints ("[cost] terms sense rhs;") get a slack variable
// folded into a penalty objective, and a WBO top-cost line becomes an
// upper bound on that penalty objective.
func ReadOPB(r io.Reader) (*model.Instance, error) {
	scanner := bufio.NewScanner(r)
	inst := model.NewInstance()
	variables := make(map[string]*model.Variable)
	negatedLinks := make(map[string]*model.Variable)
	productLinks := make(map[string]*model.Variable)

	var objTerms []opbTerm
	hasObjective := false
	var penaltyVars []*model.Variable
	var penaltyCoeffs []float64
	var topCost float64
	topDefined := false

	constraintIdx := 0
	lineNo := 0

	getVariable := func(name string) (*model.Variable, error) {
		if v, ok := variables[name]; ok {
			return v, nil
		}
		v, err := inst.AddVariable(name, 0, 1, model.Binary)
		if err != nil {
			return nil, err
		}
		variables[name] = v
		return v, nil
	}

	getNegation := func(base *model.Variable) (*model.Variable, error) {
		if neg, ok := negatedLinks[base.Name]; ok {
			return neg, nil
		}
		neg, err := inst.AddVariable("~"+base.Name, 0, 1, model.Binary)
		if err != nil {
			return nil, err
		}
		expr := model.NewExpression(inst)
		expr.SetCoefficient(base.Index, 1)
		expr.SetCoefficient(neg.Index, 1)
		expr.SetConstant(-1)
		constraintIdx++
		if _, err := inst.AddConstraint(fmt.Sprintf("link_%d", constraintIdx), expr, model.Equal); err != nil {
			return nil, err
		}
		negatedLinks[base.Name] = neg
		return neg, nil
	}

	getProduct := func(factors []*model.Variable) (*model.Variable, error) {
		names := make([]string, len(factors))
		for i, f := range factors {
			names[i] = f.Name
		}
		key := strings.Join(names, "*")
		if p, ok := productLinks[key]; ok {
			return p, nil
		}
		p, err := inst.AddVariable("prod_"+key, 0, 1, model.Binary)
		if err != nil {
			return nil, err
		}
		for _, f := range factors {
			e := model.NewExpression(inst)
			e.SetCoefficient(p.Index, 1)
			e.SetCoefficient(f.Index, -1)
			constraintIdx++
			if _, err := inst.AddConstraint(fmt.Sprintf("link_%d", constraintIdx), e, model.LessEqual); err != nil {
				return nil, err
			}
		}
		e := model.NewExpression(inst)
		e.SetCoefficient(p.Index, -1)
		for _, f := range factors {
			e.AddToCoefficient(f.Index, 1)
		}
		e.SetConstant(-float64(len(factors) - 1))
		constraintIdx++
		if _, err := inst.AddConstraint(fmt.Sprintf("link_%d", constraintIdx), e, model.LessEqual); err != nil {
			return nil, err
		}
		productLinks[key] = p
		return p, nil
	}

	resolveTerm := func(t opbTerm) (*model.Variable, error) {
		factorNames := strings.Split(t.variable, "*")
		factors := make([]*model.Variable, len(factorNames))
		for i, fn := range factorNames {
			name, negated := fn, false
			if strings.HasPrefix(fn, "~") {
				name, negated = fn[1:], true
			}
			base, err := getVariable(name)
			if err != nil {
				return nil, err
			}
			if negated {
				base, err = getNegation(base)
				if err != nil {
					return nil, err
				}
			}
			factors[i] = base
		}
		if len(factors) == 1 {
			return factors[0], nil
		}
		return getProduct(factors)
	}

	addConstraintFromTerms := func(prefix string, terms []opbTerm, sense model.ConstraintSense, rhs float64, extra func(*model.Expression) error) error {
		expr := model.NewExpression(inst)
		expr.SetConstant(-rhs)
		for _, t := range terms {
			v, err := resolveTerm(t)
			if err != nil {
				return err
			}
			expr.AddToCoefficient(v.Index, t.coeff)
		}
		if extra != nil {
			if err := extra(expr); err != nil {
				return err
			}
		}
		constraintIdx++
		_, err := inst.AddConstraint(fmt.Sprintf("%s_%d", prefix, constraintIdx), expr, sense)
		return err
	}

	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "*") {
			continue
		}
		line = strings.TrimSuffix(line, ";")

		switch {
		case strings.HasPrefix(line, "min:"), strings.HasPrefix(line, "max:"):
			hasObjective = true
			terms, err := parseOPBTerms(strings.TrimSpace(line[4:]), lineNo)
			if err != nil {
				return nil, err
			}
			objTerms = terms
			continue

		case strings.HasPrefix(line, "soft:"):
			val, err := strconv.ParseFloat(strings.TrimSpace(line[5:]), 64)
			if err != nil {
				return nil, newInputFileError(ErrMalformedSyntax, lineNo, "bad top cost %q", line)
			}
			topCost, topDefined = val, true
			continue
		}

		cost, hasCost := 0.0, false
		if strings.HasPrefix(line, "[") {
			end := strings.Index(line, "]")
			if end < 0 {
				return nil, newInputFileError(ErrMalformedSyntax, lineNo, "unterminated soft-cost bracket")
			}
			val, err := strconv.ParseFloat(strings.TrimSpace(line[1:end]), 64)
			if err != nil {
				return nil, newInputFileError(ErrMalformedSyntax, lineNo, "bad soft cost %q", line[1:end])
			}
			cost, hasCost = val, true
			line = strings.TrimSpace(line[end+1:])
		}

		sense, rhsStr, err := splitOPBRelation(line, lineNo)
		if err != nil {
			return nil, err
		}
		terms, err := parseOPBTerms(strings.TrimSpace(rhsRelationLHS(line, sense)), lineNo)
		if err != nil {
			return nil, err
		}
		rhs, err := strconv.ParseFloat(strings.TrimSpace(rhsStr), 64)
		if err != nil {
			return nil, newInputFileError(ErrMalformedSyntax, lineNo, "bad RHS %q", rhsStr)
		}

		if hasCost {
			margin := 0.0
			for _, t := range terms {
				if t.coeff > 0 {
					margin += t.coeff
				} else {
					margin -= t.coeff
				}
			}
			if margin == 0 {
				margin = 1
			}
			constraintIdx++
			slack, err := inst.AddVariable(fmt.Sprintf("slack_%d", constraintIdx), 0, 1, model.Binary)
			if err != nil {
				return nil, err
			}
			relaxSign := -margin
			if sense == model.GreaterEqual {
				relaxSign = margin
			}
			if err := addConstraintFromTerms("soft", terms, sense, rhs, func(e *model.Expression) error {
				e.SetCoefficient(slack.Index, relaxSign)
				return nil
			}); err != nil {
				return nil, err
			}
			penaltyVars = append(penaltyVars, slack)
			penaltyCoeffs = append(penaltyCoeffs, cost)
			continue
		}

		if err := addConstraintFromTerms("c", terms, sense, rhs, nil); err != nil {
			return nil, err
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, newInputFileError(ErrMalformedSyntax, lineNo, "%v", err)
	}

	if hasObjective || len(penaltyVars) > 0 {
		buildObjectiveExpr := func() (*model.Expression, error) {
			expr := model.NewExpression(inst)
			for _, t := range objTerms {
				v, err := resolveTerm(t)
				if err != nil {
					return nil, err
				}
				expr.AddToCoefficient(v.Index, t.coeff)
			}
			for i, pv := range penaltyVars {
				expr.AddToCoefficient(pv.Index, penaltyCoeffs[i])
			}
			return expr, nil
		}

		if topDefined {
			bound, err := buildObjectiveExpr()
			if err != nil {
				return nil, err
			}
			bound.AddConstant(-topCost)
			constraintIdx++
			if _, err := inst.AddConstraint(fmt.Sprintf("top_%d", constraintIdx), bound, model.LessEqual); err != nil {
				return nil, err
			}
		}
		expr, err := buildObjectiveExpr()
		if err != nil {
			return nil, err
		}
		inst.SetObjective(expr, false)
	}

	if err := inst.Finalize(); err != nil {
		return nil, err
	}
	return inst, nil
}

func parseOPBTerms(s string, lineNo int) ([]opbTerm, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	fields := strings.Fields(s)
	var terms []opbTerm
	pending, hasPending := 1.0, false
	for _, f := range fields {
		if f == "+" {
			continue
		}
		negative := false
		rest := f
		if strings.HasPrefix(rest, "-") {
			negative = true
			rest = rest[1:]
		} else if strings.HasPrefix(rest, "+") {
			rest = rest[1:]
		}

		i := 0
		for i < len(rest) && (rest[i] >= '0' && rest[i] <= '9' || rest[i] == '.') {
			i++
		}
		coeff := 1.0
		if i > 0 {
			v, err := strconv.ParseFloat(rest[:i], 64)
			if err != nil {
				return nil, newInputFileError(ErrMalformedSyntax, lineNo, "bad coefficient %q", rest[:i])
			}
			coeff = v
		}
		varPart := rest[i:]
		if negative {
			coeff = -coeff
		}
		if varPart == "" {
			// A bare coefficient ("+2 x1") applies to the literal in the next field.
			pending, hasPending = coeff, true
			continue
		}
		if hasPending && i == 0 {
			coeff *= pending
		}
		hasPending = false
		terms = append(terms, opbTerm{coeff: coeff, variable: varPart})
	}
	return terms, nil
}

func splitOPBRelation(line string, lineNo int) (model.ConstraintSense, string, error) {
	for _, op := range []struct {
		tag   string
		sense model.ConstraintSense
	}{
		{">=", model.GreaterEqual},
		{"<=", model.LessEqual},
		{"=", model.Equal},
	} {
		if idx := strings.Index(line, op.tag); idx >= 0 {
			return op.sense, line[idx+len(op.tag):], nil
		}
	}
	return 0, "", newInputFileError(ErrMalformedSyntax, lineNo, "no relational operator in %q", line)
}

func rhsRelationLHS(line string, sense model.ConstraintSense) string {
	tag := "="
	switch sense {
	case model.GreaterEqual:
		tag = ">="
	case model.LessEqual:
		tag = "<="
	}
	idx := strings.Index(line, tag)
	if idx < 0 {
		return line
	}
	return line[:idx]
}

// WriteOPB writes inst's binary part as OPB text: a minimize objective
// line followed by one constraint line per constraint, deterministic in
// build order. Non-binary variables are out of scope for this writer since
// OPB itself has no integer-variable syntax.
func WriteOPB(w io.Writer, inst *model.Instance) error {
	bw := bufio.NewWriter(w)
	if inst.Objective != nil {
		fmt.Fprint(bw, "min:")
		for _, vi := range inst.Objective.Expression.Terms() {
			fmt.Fprintf(bw, " %+g %s", inst.Objective.Expression.Coefficient(vi), inst.Variables[vi].Name)
		}
		fmt.Fprintln(bw, ";")
	}
	for _, c := range inst.Constraints {
		for _, vi := range c.Expression.Terms() {
			fmt.Fprintf(bw, "%+g %s ", c.Expression.Coefficient(vi), inst.Variables[vi].Name)
		}
		fmt.Fprintf(bw, "%s %g;\n", c.Sense.String(), -c.Expression.Constant())
	}
	return bw.Flush()
}
