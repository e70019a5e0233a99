package search

import "time"

// TerminationStatus is the single enumerated set of reasons a search core
// can stop, shared across the tabu-search, local-search, and
// Lagrangian-dual cores.
type TerminationStatus int

const (
	StatusOptimal TerminationStatus = iota
	StatusLocalOptimal
	StatusNoMove
	StatusTimeOver
	StatusIterationOver
	StatusReachTarget
	StatusConverge
)

func (s TerminationStatus) String() string {
	switch s {
	case StatusOptimal:
		return "OPTIMAL"
	case StatusLocalOptimal:
		return "LOCAL_OPTIMAL"
	case StatusNoMove:
		return "NO_MOVE"
	case StatusTimeOver:
		return "TIME_OVER"
	case StatusIterationOver:
		return "ITERATION_OVER"
	case StatusReachTarget:
		return "REACH_TARGET"
	case StatusConverge:
		return "CONVERGE"
	default:
		return "UNKNOWN"
	}
}

// Result summarizes one search core's run: the termination reason, the
// iteration/time spent, and the incumbents reached.
type Result struct {
	Status     TerminationStatus
	Iterations int
	Elapsed    time.Duration
	Incumbents *IncumbentHolder
}
