package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"

	"mipsolve/ioformat"
	"mipsolve/model"
	"mipsolve/neighborhood"
	"mipsolve/search"
)

func loadInstance(path string, strictContinuous bool) (*model.Instance, []string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	switch {
	case strings.HasSuffix(path, ".mps"):
		return ioformat.ReadMPS(f, strictContinuous)
	case strings.HasSuffix(path, ".opb"), strings.HasSuffix(path, ".wbo"):
		inst, err := ioformat.ReadOPB(f)
		return inst, nil, err
	default:
		inst, err := ioformat.ReadJSON(f)
		return inst, nil, err
	}
}

func loadOptions(path string) (search.Options, error) {
	opts := search.DefaultOptions()
	if path == "" {
		return opts, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return opts, err
	}
	defer f.Close()
	if err := json.NewDecoder(f).Decode(&opts); err != nil {
		return opts, fmt.Errorf("option file: %w", err)
	}
	return opts, nil
}

func main() {
	var modelPath, optionPath, outPath string
	var strictContinuous bool

	flag.StringVar(&modelPath, "model", "", "path to the model file (.mps, .opb/.wbo, or native JSON)")
	flag.StringVar(&optionPath, "options", "", "path to a JSON option file overriding the defaults")
	flag.StringVar(&outPath, "out", "", "path to write the solution JSON (stdout if empty)")
	flag.BoolVar(&strictContinuous, "strict", false, "reject continuous MPS columns instead of coercing them")
	flag.Parse()

	if modelPath == "" {
		fmt.Fprintln(os.Stderr, "Must specify -model")
		os.Exit(1)
	}

	inst, warnings, err := loadInstance(modelPath, strictContinuous)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading model %q: %v\n", modelPath, err)
		os.Exit(1)
	}
	for _, w := range warnings {
		fmt.Fprintf(os.Stderr, "warning: %s\n", w)
	}

	options, err := loadOptions(optionPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading options %q: %v\n", optionPath, err)
		os.Exit(1)
	}

	initialWarnings, err := inst.CorrectInitialValues(options.IsEnabledInitialValueCorrection)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error checking initial values: %v\n", err)
		os.Exit(1)
	}
	for _, w := range initialWarnings {
		fmt.Fprintf(os.Stderr, "warning: %s\n", w.Message)
	}

	result := solve(inst, options)
	fmt.Fprintf(os.Stderr, "Solving %v: %v in %d iterations (%v)\n", modelPath, result.Status, result.Iterations, result.Elapsed)

	if result.Incumbents.Feasible != nil {
		result.Incumbents.Feasible.Restore(inst)
	}

	out := os.Stdout
	if outPath != "" {
		f, err := os.Create(outPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating %q: %v\n", outPath, err)
			os.Exit(1)
		}
		defer f.Close()
		out = f
	}
	if err := ioformat.WriteSolutionJSON(out, inst); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing solution: %v\n", err)
		os.Exit(1)
	}
}

// solve runs the Lagrangian dual (its penalty is later fed into the
// tabu-search driver), then the genetic/greedy warm-start heuristics, then
// tabu search, and finally a local-search polish.
func solve(inst *model.Instance, options search.Options) search.Result {
	var dual *search.LagrangeDualCore
	if options.IsEnabledLagrangeDual {
		dual = search.NewLagrangeDualCore(inst, options)
		dual.Run()
	}

	if options.SelectionMode == search.SelectionOff {
		model.DemoteSelectionGroups(inst)
	}

	search.GeneticWarmStart(inst, 50, 20, options.Seed)
	if !inst.IsFeasible() {
		if err := search.GreedyRepair(inst); err != nil {
			fmt.Fprintf(os.Stderr, "warning: warm start could not reach feasibility: %v\n", err)
		}
	}

	generators := neighborhood.NewGeneratorSet(
		inst,
		neighborhood.ChainReductionMode(options.ChainMoveReduceMode),
		options.ChainMoveOverlapRateThreshold,
		options.ChainMoveCapacity,
	)

	tabu := search.NewTabuSearchCore(inst, generators, options)
	if dual != nil {
		tabu.SetLagrangianPenalty(dual.PenaltyFor)
	}
	result := tabu.Run()

	if options.IsEnabledLocalSearch {
		if result.Incumbents.Feasible != nil {
			result.Incumbents.Feasible.Restore(inst)
		}
		local := search.NewLocalSearchCore(inst, generators, options, 0)
		localResult := local.Run()
		if localResult.Incumbents.Feasible != nil {
			result.Incumbents.Feasible = localResult.Incumbents.Feasible
		}
	}

	return result
}
