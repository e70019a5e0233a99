// Package neighborhood implements the typed move producers of spec §4.D:
// each generator owns a reused slot of candidate Moves and a parallel flag
// vector, rewritten in place on every UpdateMoves call instead of
// reallocating.
package neighborhood

import (
	"sync"

	"mipsolve/model"
)

// AcceptanceHints mirrors the per-call acceptance flags the tabu-search
// driver passes to every generator's UpdateMoves (spec §4.D steps 4-5).
type AcceptanceHints struct {
	AcceptObjectiveImprovable   bool
	AcceptFeasibilityImprovable bool
	AcceptAll                   bool
}

// Generator is the shared contract every neighborhood generator satisfies.
type Generator interface {
	// UpdateMoves rewrites every slot's alterations from the current
	// variable values and recomputes the survive-filtering flag per slot.
	UpdateMoves(inst *model.Instance, hints AcceptanceHints, parallel bool)
	// Moves returns the generator's move slots (always the same
	// backing slice across calls).
	Moves() []*model.Move
	// Flags returns the per-slot survive flags, parallel to Moves().
	Flags() []bool
}

// checkMove runs the shared filter pipeline of spec §4.D against a single
// candidate, short-circuiting on the first failing check.
func checkMove(inst *model.Instance, move *model.Move, hints AcceptanceHints) bool {
	if len(move.Alterations) == 0 {
		return false
	}

	allNoop := true
	for _, alt := range move.Alterations {
		v := inst.Variables[alt.Variable]
		if v.IsFixed() {
			return false
		}
		if !v.IsFeasibleValue(alt.NewValue) {
			return false
		}
		if alt.NewValue != v.Value() {
			allNoop = false
		}
	}
	if allNoop {
		return false
	}

	if hints.AcceptAll {
		return true
	}
	if !hints.AcceptObjectiveImprovable && !hints.AcceptFeasibilityImprovable {
		return true
	}

	for _, alt := range move.Alterations {
		v := inst.Variables[alt.Variable]
		if hints.AcceptObjectiveImprovable && v.ObjectiveImprovable {
			return true
		}
		if hints.AcceptFeasibilityImprovable && v.FeasibilityImprovable {
			return true
		}
	}
	return false
}

// parallelFor runs body(i) for i in [0,n), either sequentially (moves are
// scored in index order for determinism when parallelism is disabled, per
// spec §5) or via a fixed-size worker pool of goroutines over independent
// indices. body must not mutate any shared state beyond its own slot.
func parallelFor(n int, parallel bool, body func(i int)) {
	if !parallel || n == 0 {
		for i := 0; i < n; i++ {
			body(i)
		}
		return
	}

	var wg sync.WaitGroup
	workers := 8
	if n < workers {
		workers = n
	}
	chunk := (n + workers - 1) / workers
	for w := 0; w < workers; w++ {
		start := w * chunk
		end := start + chunk
		if start >= n {
			break
		}
		if end > n {
			end = n
		}
		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			for i := start; i < end; i++ {
				body(i)
			}
		}(start, end)
	}
	wg.Wait()
}

func ensureCapacity(moves []*model.Move, n int) []*model.Move {
	for len(moves) < n {
		moves = append(moves, &model.Move{})
	}
	return moves[:n]
}

func ensureFlags(flags []bool, n int) []bool {
	if cap(flags) < n {
		flags = make([]bool, n)
	}
	return flags[:n]
}

func gcdInt(a, b int) int {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

func absInt(a int) int {
	if a < 0 {
		return -a
	}
	return a
}

// roundHalfAway rounds to the nearest integer, ties away from zero.
func roundHalfAway(x float64) float64 {
	if x >= 0 {
		return float64(int(x + 0.5))
	}
	return float64(int(x - 0.5))
}
