package ioformat

import (
	"encoding/json"
	"io"

	"mipsolve/model"
)

// jsonVariable mirrors the internal model's variable fields for the native
// roundtrip format of spec §6: name/value/bounds/fixed/sense.
type jsonVariable struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
	Lower int    `json:"lower"`
	Upper int    `json:"upper"`
	Fixed bool   `json:"fixed"`
	Sense string `json:"sense"`
}

type jsonSensitivity struct {
	Variable string  `json:"variable"`
	Coeff    float64 `json:"coefficient"`
}

type jsonObjective struct {
	Maximize      bool              `json:"maximize"`
	Constant      float64           `json:"constant"`
	Sensitivities []jsonSensitivity `json:"sensitivities"`
}

type jsonConstraint struct {
	Name          string            `json:"name"`
	Sense         string            `json:"sense"`
	RHS           float64           `json:"rhs"`
	Enabled       bool              `json:"enabled"`
	Sensitivities []jsonSensitivity `json:"sensitivities"`
}

type jsonModel struct {
	Variables   []jsonVariable   `json:"variables"`
	Objective   *jsonObjective   `json:"objective,omitempty"`
	Constraints []jsonConstraint `json:"constraints"`
}

func senseToString(s model.VariableSense) string { return s.String() }

func senseFromString(s string) model.VariableSense {
	switch s {
	case "Binary":
		return model.Binary
	case "Selection":
		return model.Selection
	case "DependentBinary":
		return model.DependentBinary
	case "DependentInteger":
		return model.DependentInteger
	default:
		return model.Integer
	}
}

func constraintSenseToString(s model.ConstraintSense) string { return s.String() }

func constraintSenseFromString(s string) model.ConstraintSense {
	switch s {
	case "<=":
		return model.LessEqual
	case ">=":
		return model.GreaterEqual
	default:
		return model.Equal
	}
}

// WriteJSON writes inst in the native roundtrip format, deterministic in
// variable/constraint order since both arenas are already stored in
// build order.
func WriteJSON(w io.Writer, inst *model.Instance) error {
	doc := jsonModel{}
	for _, v := range inst.Variables {
		doc.Variables = append(doc.Variables, jsonVariable{
			Name:  v.Name,
			Value: v.Value(),
			Lower: v.LowerBound(),
			Upper: v.UpperBound(),
			Fixed: v.IsFixed(),
			Sense: senseToString(v.Sense),
		})
	}
	if inst.Objective != nil {
		obj := &jsonObjective{Maximize: inst.Objective.Maximize, Constant: inst.Objective.Expression.Constant()}
		for _, vi := range inst.Objective.Expression.Terms() {
			obj.Sensitivities = append(obj.Sensitivities, jsonSensitivity{
				Variable: inst.Variables[vi].Name,
				Coeff:    inst.Objective.Expression.Coefficient(vi),
			})
		}
		doc.Objective = obj
	}
	for _, c := range inst.Constraints {
		jc := jsonConstraint{
			Name:    c.Name,
			Sense:   constraintSenseToString(c.Sense),
			RHS:     -c.Expression.Constant(),
			Enabled: c.IsEnabled(),
		}
		for _, vi := range c.Expression.Terms() {
			jc.Sensitivities = append(jc.Sensitivities, jsonSensitivity{
				Variable: inst.Variables[vi].Name,
				Coeff:    c.Expression.Coefficient(vi),
			})
		}
		doc.Constraints = append(doc.Constraints, jc)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

// ReadJSON parses the native roundtrip format into a fresh Instance.
func ReadJSON(r io.Reader) (*model.Instance, error) {
	var doc jsonModel
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, newInputFileError(ErrMalformedSyntax, 0, "json: %v", err)
	}

	inst := model.NewInstance()
	byName := make(map[string]*model.Variable, len(doc.Variables))
	for _, jv := range doc.Variables {
		v, err := inst.AddVariable(jv.Name, jv.Lower, jv.Upper, senseFromString(jv.Sense))
		if err != nil {
			return nil, err
		}
		v.SetValue(jv.Value)
		if jv.Fixed {
			v.Fix(jv.Value)
		}
		byName[jv.Name] = v
	}

	if doc.Objective != nil {
		expr := model.NewExpression(inst)
		expr.SetConstant(doc.Objective.Constant)
		for _, s := range doc.Objective.Sensitivities {
			v, ok := byName[s.Variable]
			if !ok {
				return nil, newInputFileError(ErrMalformedSyntax, 0, "objective references unknown variable %q", s.Variable)
			}
			expr.SetCoefficient(v.Index, s.Coeff)
		}
		inst.SetObjective(expr, doc.Objective.Maximize)
	}

	for _, jc := range doc.Constraints {
		expr := model.NewExpression(inst)
		expr.SetConstant(-jc.RHS)
		for _, s := range jc.Sensitivities {
			v, ok := byName[s.Variable]
			if !ok {
				return nil, newInputFileError(ErrMalformedSyntax, 0, "constraint %q references unknown variable %q", jc.Name, s.Variable)
			}
			expr.SetCoefficient(v.Index, s.Coeff)
		}
		c, err := inst.AddConstraint(jc.Name, expr, constraintSenseFromString(jc.Sense))
		if err != nil {
			return nil, err
		}
		if !jc.Enabled {
			c.Disable()
		}
	}

	if err := inst.Finalize(); err != nil {
		return nil, err
	}
	return inst, nil
}

// solutionJSON is the output document: per-variable and per-constraint
// values, violations, and an is_feasible flag.
type solutionJSON struct {
	IsFeasible  bool                   `json:"is_feasible"`
	Objective   float64                `json:"objective"`
	Variables   []solutionVariableJSON `json:"variables"`
	Constraints []solutionConstraintJSON `json:"constraints"`
}

type solutionVariableJSON struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

type solutionConstraintJSON struct {
	Name      string  `json:"name"`
	Value     float64 `json:"value"`
	Violation float64 `json:"violation"`
}

// WriteSolutionJSON writes inst's current assignment as a solution
// document, the format the CLI surface writes on every termination.
func WriteSolutionJSON(w io.Writer, inst *model.Instance) error {
	doc := solutionJSON{IsFeasible: inst.IsFeasible()}
	if inst.Objective != nil {
		doc.Objective = inst.Objective.Reported()
	}
	for _, v := range inst.Variables {
		doc.Variables = append(doc.Variables, solutionVariableJSON{Name: v.Name, Value: v.Value()})
	}
	for _, c := range inst.Constraints {
		doc.Constraints = append(doc.Constraints, solutionConstraintJSON{
			Name:      c.Name,
			Value:     c.Value(),
			Violation: c.Violation(),
		})
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}
