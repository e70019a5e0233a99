package ioformat

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"mipsolve/model"
)

// mpsDefaultIntegerUpperBound is the fallback upper bound for an INTORG
// column with no explicit UP/FX bound line; plain MPS leaves integer
// columns without an upper bound as binary, but this format's model always
// needs a finite bound, so unbounded integer columns get a generous cap
// instead of being rejected.
const mpsDefaultIntegerUpperBound = 1 << 20

// mpsColumn accumulates one COLUMNS-section variable's entries before the
// RHS/BOUNDS sections are known, since MPS lists rows before bounds.
type mpsColumn struct {
	name    string
	integer bool
	coeffs  map[string]float64 // row name -> coefficient
	lower   *int
	upper   *int
	fixed   *int
}

type mpsRow struct {
	name  string
	sense model.ConstraintSense
	isObj bool
}

// ReadMPS parses fixed-column MPS text: NAME, ROWS, COLUMNS (with MARKER
// lines delimiting integer sub-ranges), RHS, BOUNDS, ENDATA. Continuous
// columns (outside any MARKER range) are coerced to integer with a warning
// unless strict is true, in which case they're rejected.
func ReadMPS(r io.Reader, strict bool) (*model.Instance, []string, error) {
	scanner := bufio.NewScanner(r)
	var warnings []string

	section := ""
	var rows []mpsRow
	rowIndex := make(map[string]int)
	objRow := ""
	columnOrder := []string{}
	columns := make(map[string]*mpsColumn)
	rhs := make(map[string]float64)
	inIntegerMarker := false

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if len(line) == 0 || line[0] == '*' {
			continue
		}
		if line[0] != ' ' && line[0] != '\t' {
			fields := strings.Fields(line)
			section = strings.ToUpper(fields[0])
			continue
		}

		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}

		switch section {
		case "NAME":
			// no fields carry model data

		case "ROWS":
			if len(fields) < 2 {
				return nil, warnings, newInputFileError(ErrMalformedSyntax, lineNo, "ROWS: expected sense and name")
			}
			sense, isObj, err := mpsRowSense(fields[0])
			if err != nil {
				return nil, warnings, newInputFileError(ErrMalformedSyntax, lineNo, "%v", err)
			}
			name := fields[1]
			if isObj {
				objRow = name
			} else {
				rowIndex[name] = len(rows)
				rows = append(rows, mpsRow{name: name, sense: sense})
			}

		case "COLUMNS":
			if len(fields) >= 3 && strings.EqualFold(fields[1], "'MARKER'") {
				if strings.Contains(strings.ToUpper(fields[2]), "INTORG") {
					inIntegerMarker = true
				} else if strings.Contains(strings.ToUpper(fields[2]), "INTEND") {
					inIntegerMarker = false
				}
				continue
			}
			if len(fields)%2 != 1 {
				return nil, warnings, newInputFileError(ErrMalformedSyntax, lineNo, "COLUMNS: odd field count %q", line)
			}
			colName := fields[0]
			col, ok := columns[colName]
			if !ok {
				col = &mpsColumn{name: colName, integer: inIntegerMarker, coeffs: make(map[string]float64)}
				columns[colName] = col
				columnOrder = append(columnOrder, colName)
			}
			for i := 1; i+1 < len(fields); i += 2 {
				rowName := fields[i]
				val, err := strconv.ParseFloat(fields[i+1], 64)
				if err != nil {
					return nil, warnings, newInputFileError(ErrMalformedSyntax, lineNo, "COLUMNS: bad coefficient %q", fields[i+1])
				}
				col.coeffs[rowName] = val
			}

		case "RHS":
			for i := 1; i+1 < len(fields); i += 2 {
				val, err := strconv.ParseFloat(fields[i+1], 64)
				if err != nil {
					return nil, warnings, newInputFileError(ErrMalformedSyntax, lineNo, "RHS: bad value %q", fields[i+1])
				}
				rhs[fields[i]] = val
			}

		case "BOUNDS":
			if len(fields) < 3 {
				return nil, warnings, newInputFileError(ErrMalformedSyntax, lineNo, "BOUNDS: expected type, column, value")
			}
			boundType := strings.ToUpper(fields[0])
			colName := fields[2]
			col, ok := columns[colName]
			if !ok {
				return nil, warnings, newInputFileError(ErrMalformedSyntax, lineNo, "BOUNDS: unknown column %q", colName)
			}
			var val int
			if len(fields) >= 4 {
				f, err := strconv.ParseFloat(fields[3], 64)
				if err != nil {
					return nil, warnings, newInputFileError(ErrMalformedSyntax, lineNo, "BOUNDS: bad value %q", fields[3])
				}
				val = int(f)
			}
			switch boundType {
			case "LO":
				col.lower = &val
			case "UP":
				col.upper = &val
			case "FX":
				col.fixed = &val
			default:
				return nil, warnings, newInputFileError(ErrMalformedSyntax, lineNo, "BOUNDS: unsupported bound type %q", boundType)
			}

		case "ENDATA":
			// terminal marker, nothing to do

		default:
			return nil, warnings, newInputFileError(ErrUnsupportedSection, lineNo, "unrecognized section %q", section)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, warnings, newInputFileError(ErrMalformedSyntax, lineNo, "%v", err)
	}

	inst := model.NewInstance()
	byName := make(map[string]*model.Variable, len(columnOrder))
	for _, name := range columnOrder {
		col := columns[name]
		lower, upper := 0, 1
		if col.integer {
			lower, upper = 0, mpsDefaultIntegerUpperBound
		}
		if col.lower != nil {
			lower = *col.lower
		}
		if col.upper != nil {
			upper = *col.upper
		}
		if col.fixed != nil {
			lower, upper = *col.fixed, *col.fixed
		}
		if !col.integer {
			if strict {
				return nil, warnings, &InputFileError{Kind: ErrContinuousInStrictMode, Msg: fmt.Sprintf("column %q is continuous", name)}
			}
			warnings = append(warnings, fmt.Sprintf("column %q is continuous, coerced to integer", name))
		}

		sense := model.Integer
		if lower == 0 && upper == 1 {
			sense = model.Binary
		}
		v, err := inst.AddVariable(name, lower, upper, sense)
		if err != nil {
			return nil, warnings, err
		}
		byName[name] = v
	}

	if objRow != "" {
		expr := model.NewExpression(inst)
		expr.SetConstant(-rhs[objRow])
		for _, name := range columnOrder {
			if c, ok := columns[name].coeffs[objRow]; ok {
				expr.SetCoefficient(byName[name].Index, c)
			}
		}
		inst.SetObjective(expr, false)
	}

	for _, row := range rows {
		expr := model.NewExpression(inst)
		expr.SetConstant(-rhs[row.name])
		for _, name := range columnOrder {
			if c, ok := columns[name].coeffs[row.name]; ok {
				expr.SetCoefficient(byName[name].Index, c)
			}
		}
		if _, err := inst.AddConstraint(row.name, expr, row.sense); err != nil {
			return nil, warnings, err
		}
	}

	if err := inst.Finalize(); err != nil {
		return nil, warnings, err
	}
	return inst, warnings, nil
}

func mpsRowSense(tag string) (model.ConstraintSense, bool, error) {
	switch strings.ToUpper(tag) {
	case "N":
		return model.Equal, true, nil
	case "L":
		return model.LessEqual, false, nil
	case "E":
		return model.Equal, false, nil
	case "G":
		return model.GreaterEqual, false, nil
	default:
		return 0, false, fmt.Errorf("ROWS: unsupported sense %q", tag)
	}
}

// WriteMPS writes inst as fixed-column MPS text, always declaring every
// variable integer (MARKER-bracketed) per spec §6's "MPS writer (always
// integer)" requirement, deterministic in the instance's build order.
func WriteMPS(w io.Writer, inst *model.Instance, name string) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "NAME          %s\n", name)

	fmt.Fprintln(bw, "ROWS")
	if inst.Objective != nil {
		fmt.Fprintln(bw, " N  COST")
	}
	for _, c := range inst.Constraints {
		fmt.Fprintf(bw, " %s  %s\n", mpsSenseTag(c.Sense), c.Name)
	}

	fmt.Fprintln(bw, "COLUMNS")
	fmt.Fprintln(bw, "    MARKER                 'MARKER'                 'INTORG'")
	for _, v := range inst.Variables {
		if inst.Objective != nil {
			if coeff := inst.Objective.Expression.Coefficient(v.Index); coeff != 0 {
				fmt.Fprintf(bw, "    %-10s%-10s%12g\n", v.Name, "COST", coeff)
			}
		}
		for _, c := range inst.Constraints {
			if coeff := c.Expression.Coefficient(v.Index); coeff != 0 {
				fmt.Fprintf(bw, "    %-10s%-10s%12g\n", v.Name, c.Name, coeff)
			}
		}
	}
	fmt.Fprintln(bw, "    MARKER                 'MARKER'                 'INTEND'")

	fmt.Fprintln(bw, "RHS")
	if inst.Objective != nil {
		if k := -inst.Objective.Expression.Constant(); k != 0 {
			fmt.Fprintf(bw, "    RHS       %-10s%12g\n", "COST", k)
		}
	}
	for _, c := range inst.Constraints {
		if k := -c.Expression.Constant(); k != 0 {
			fmt.Fprintf(bw, "    RHS       %-10s%12g\n", c.Name, k)
		}
	}

	fmt.Fprintln(bw, "BOUNDS")
	for _, v := range inst.Variables {
		if v.IsFixed() {
			fmt.Fprintf(bw, " FX BND       %-10s%12d\n", v.Name, v.Value())
			continue
		}
		fmt.Fprintf(bw, " LO BND       %-10s%12d\n", v.Name, v.LowerBound())
		fmt.Fprintf(bw, " UP BND       %-10s%12d\n", v.Name, v.UpperBound())
	}

	fmt.Fprintln(bw, "ENDATA")
	return bw.Flush()
}

func mpsSenseTag(s model.ConstraintSense) string {
	switch s {
	case model.LessEqual:
		return "L"
	case model.GreaterEqual:
		return "G"
	default:
		return "E"
	}
}
