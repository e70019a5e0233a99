package search

import "time"

// Verbosity controls how much the driver logs per iteration.
type Verbosity int

const (
	VerboseNone Verbosity = iota
	VerboseWarning
	VerboseOuter
	VerboseFull
)

// SelectionMode controls how selection-group moves are weighted against the
// rest of the candidate pool.
type SelectionMode int

const (
	SelectionOff SelectionMode = iota
	SelectionDefined
	SelectionSmaller
	SelectionLarger
	SelectionIndependent
)

// ImprovabilityScreeningMode controls how aggressively candidate moves are
// filtered by the objective/feasibility improvability flags before scoring.
type ImprovabilityScreeningMode int

const (
	ScreeningOff ImprovabilityScreeningMode = iota
	ScreeningSoft
	ScreeningAggressive
	ScreeningAutomatic
)

// ChainMoveReduceMode mirrors neighborhood.ChainReductionMode at the option
// layer so callers configuring a Driver don't need to import neighborhood
// just to pick a mode.
type ChainMoveReduceMode int

const (
	ChainMoveOverlapRate ChainMoveReduceMode = iota
	ChainMoveShuffle
)

// PenaltyOptions groups the adaptive-penalty-coefficient knobs.
type PenaltyOptions struct {
	InitialPenaltyCoefficient      float64
	PenaltyCoefficientRelaxingRate float64
	PenaltyCoefficientTighteningRate float64
}

// SubcoreOptions is the nested iteration/time/interval/tenure block shared
// by tabu_search, local_search, and lagrange_dual.
type SubcoreOptions struct {
	IterationMax int
	TimeMax      time.Duration
	LogInterval  int

	InitialTabuTenure int
	TabuTenureMin     int
	TabuTenureMax     int

	NoImprovementIterationsForAdaptation int
}

// Options is the abridged option set of the recognized keys: iteration and
// time budgets, feature toggles, neighborhood weighting, and the nested
// per-core blocks.
type Options struct {
	IterationMax          int
	TimeMax               time.Duration
	TargetObjectiveValue  *float64
	Seed                  int64
	Verbose               Verbosity

	IsEnabledLagrangeDual               bool
	IsEnabledLocalSearch                bool
	IsEnabledPresolve                   bool
	IsEnabledInitialValueCorrection     bool
	IsEnabledParallelEvaluation         bool
	IsEnabledParallelNeighborhoodUpdate bool

	ChainMoveCapacity              int
	ChainMoveReduceMode            ChainMoveReduceMode
	ChainMoveOverlapRateThreshold  float64

	SelectionMode                SelectionMode
	ImprovabilityScreeningMode   ImprovabilityScreeningMode

	Penalty PenaltyOptions

	TabuSearch    SubcoreOptions
	LocalSearch   SubcoreOptions
	LagrangeDual  SubcoreOptions
}

// DefaultOptions returns the documented defaults for every numeric key.
func DefaultOptions() Options {
	return Options{
		IterationMax:                         100000,
		TimeMax:                              10 * time.Second,
		Seed:                                 0,
		Verbose:                              VerboseWarning,
		IsEnabledLagrangeDual:                true,
		IsEnabledLocalSearch:                 true,
		IsEnabledPresolve:                    true,
		IsEnabledInitialValueCorrection:      true,
		IsEnabledParallelEvaluation:          true,
		IsEnabledParallelNeighborhoodUpdate:  true,
		ChainMoveCapacity:                    1000,
		ChainMoveReduceMode:                  ChainMoveOverlapRate,
		ChainMoveOverlapRateThreshold:        0.2,
		SelectionMode:                        SelectionDefined,
		ImprovabilityScreeningMode:           ScreeningAutomatic,
		Penalty: PenaltyOptions{
			InitialPenaltyCoefficient:        1.0,
			PenaltyCoefficientRelaxingRate:   0.9,
			PenaltyCoefficientTighteningRate: 1.1,
		},
		TabuSearch: SubcoreOptions{
			IterationMax:                          100000,
			TimeMax:                               10 * time.Second,
			LogInterval:                           100,
			InitialTabuTenure:                     10,
			TabuTenureMin:                          5,
			TabuTenureMax:                          100,
			NoImprovementIterationsForAdaptation:  1000,
		},
		LocalSearch: SubcoreOptions{
			IterationMax: 10000,
			TimeMax:      5 * time.Second,
			LogInterval:  100,
		},
		LagrangeDual: SubcoreOptions{
			IterationMax: 500,
			TimeMax:      5 * time.Second,
			LogInterval:  10,
		},
	}
}
