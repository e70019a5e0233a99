package model

// ValueSource is anything that can report the current integer value of a
// variable by index. *Instance satisfies it; tests may use a bare map.
type ValueSource interface {
	ValueOf(VariableIndex) int
}

// Expression is a linear form Σ cᵢ·xᵢ + k over variables in a ValueSource,
// with a cached evaluated value and the two acceleration structures spec
// §4.B describes: a frozen FixedCapacityHashMap for O(1) sensitivity lookup,
// and ±1-coefficient bitmasks for a lookup-free single-variable fast path.
type Expression struct {
	sensitivities map[VariableIndex]float64
	order         []VariableIndex
	constant      float64
	cachedValue   float64
	enabled       bool

	fixed *FixedCapacityHashMap

	plusOneMask       uint64
	minusOneMask      uint64
	plusOneEffective  bool
	minusOneEffective bool

	store ValueSource
}

// NewExpression creates an empty, enabled expression bound to store. Terms
// are added with SetCoefficient until the model structure is final, then
// SetupFixedSensitivities() and SetupMask() materialize the fast-path
// structures.
func NewExpression(store ValueSource) *Expression {
	return &Expression{
		sensitivities: make(map[VariableIndex]float64),
		enabled:       true,
		store:         store,
	}
}

// SetCoefficient sets cᵢ for variable i, adding it to the term order on
// first use. Only valid before SetupFixedSensitivities/SetupMask.
func (e *Expression) SetCoefficient(v VariableIndex, coefficient float64) {
	if _, ok := e.sensitivities[v]; !ok {
		e.order = append(e.order, v)
	}
	e.sensitivities[v] = coefficient
}

// AddToCoefficient accumulates onto the existing coefficient (zero if
// absent), matching the original's Expression::operator+= merge semantics.
func (e *Expression) AddToCoefficient(v VariableIndex, delta float64) {
	e.SetCoefficient(v, e.sensitivities[v]+delta)
}

func (e *Expression) Coefficient(v VariableIndex) float64 {
	return e.sensitivities[v]
}

func (e *Expression) SetConstant(k float64)    { e.constant = k }
func (e *Expression) Constant() float64        { return e.constant }
func (e *Expression) AddConstant(delta float64) { e.constant += delta }

func (e *Expression) Terms() []VariableIndex { return e.order }

func (e *Expression) IsEnabled() bool { return e.enabled }
func (e *Expression) Enable()         { e.enabled = true }
func (e *Expression) Disable()        { e.enabled = false }

// Value returns the cached value without recomputing it.
func (e *Expression) Value() float64 { return e.cachedValue }

// Evaluate recomputes Σ cᵢ·xᵢ + k from scratch, without touching the cache.
func (e *Expression) Evaluate() float64 {
	value := e.constant
	for _, v := range e.order {
		value += e.sensitivities[v] * float64(e.store.ValueOf(v))
	}
	return value
}

// EvaluateMove returns the value the expression would take after applying
// move, computed as the cached value plus the sensitivity-weighted delta of
// every touched variable. Must be called before the move's alterations are
// committed to the variables themselves, since it reads each variable's
// pre-move value to form the delta — exactly like the original's
// evaluate(move), which reads alteration.first->value() before mutation.
func (e *Expression) EvaluateMove(move *Move) float64 {
	if len(move.Alterations) == 0 {
		return e.Evaluate()
	}
	newValue := e.cachedValue
	for _, alt := range move.Alterations {
		coefficient := e.lookupCoefficient(alt.Variable)
		if coefficient == 0 {
			continue
		}
		newValue += coefficient * float64(alt.NewValue-e.store.ValueOf(alt.Variable))
	}
	return newValue
}

// EvaluateWithMask is the single-variable fast path: if the variable's mask
// bit is set in an effective ±1 mask, the delta is a pure add/subtract with
// no hash lookup at all; otherwise it falls back to one fixed-sensitivity
// lookup.
func (e *Expression) EvaluateWithMask(v VariableIndex, newValue int) float64 {
	bit := maskBit(v)
	delta := float64(newValue - e.store.ValueOf(v))
	if e.plusOneEffective && e.plusOneMask&bit != 0 {
		return e.cachedValue + delta
	}
	if e.minusOneEffective && e.minusOneMask&bit != 0 {
		return e.cachedValue - delta
	}
	return e.cachedValue + e.lookupCoefficient(v)*delta
}

func (e *Expression) lookupCoefficient(v VariableIndex) float64 {
	if e.fixed != nil {
		return e.fixed.At(v)
	}
	return e.sensitivities[v]
}

// Update refreshes the cached value from scratch.
func (e *Expression) Update() { e.cachedValue = e.Evaluate() }

// UpdateMove refreshes the cached value via the incremental move formula.
// Same pre-mutation ordering requirement as EvaluateMove.
func (e *Expression) UpdateMove(move *Move) { e.cachedValue = e.EvaluateMove(move) }

// SetupFixedSensitivities materializes the sensitivity map into a
// FixedCapacityHashMap. Only valid once the model structure (which variables
// this expression touches) is final.
func (e *Expression) SetupFixedSensitivities() {
	e.fixed = NewFixedCapacityHashMap(e.sensitivities, 1)
}

// maskBit derives a mask bit from a variable index instead of from a raw
// pointer address, per the spec's arena+index rewrite of the original's
// pointer-as-key bitmask trick.
func maskBit(v VariableIndex) uint64 {
	return uint64(1) << (uint(v) % 64)
}

// SetupMask builds the ±1-coefficient bitmasks. Each mask is the bitwise
// complement of the OR of every *non*-matching variable's bit, so a bit
// position only ever reads as "safe" when no variable with a different
// coefficient shares it — a variable's own bit can never falsely satisfy the
// mask of a coefficient it doesn't hold. A mask is "effective" when at least
// half of all variables in the expression are fast-computable under it.
func (e *Expression) SetupMask() {
	var notPlusOneMask, notMinusOneMask uint64
	for _, v := range e.order {
		c := e.sensitivities[v]
		if !almostEqual(c, 1) {
			notPlusOneMask |= maskBit(v)
		}
		if !almostEqual(c, -1) {
			notMinusOneMask |= maskBit(v)
		}
	}
	e.plusOneMask = ^notPlusOneMask
	e.minusOneMask = ^notMinusOneMask

	plusOneFastComputable, minusOneFastComputable := 0, 0
	for _, v := range e.order {
		c := e.sensitivities[v]
		if almostEqual(c, 1) && e.plusOneMask&maskBit(v) != 0 {
			plusOneFastComputable++
		}
		if almostEqual(c, -1) && e.minusOneMask&maskBit(v) != 0 {
			minusOneFastComputable++
		}
	}

	n := len(e.order)
	e.plusOneEffective = n > 0 && 2*plusOneFastComputable >= n
	e.minusOneEffective = n > 0 && 2*minusOneFastComputable >= n
}
