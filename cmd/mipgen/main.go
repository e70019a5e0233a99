package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"

	"mipsolve/ioformat"
	"mipsolve/model"
)

// generateKnapsackInstance builds a random bounded-knapsack model: n binary
// item variables, one capacity constraint, and a maximize-value objective,
// the generalization of the teacher's GenerateSCPInstance random-subset
// generator to this spec's arbitrary-constraint model.
func generateKnapsackInstance(numItems int, meanWeight, stdDevWeight, capacityFraction float64, rng *rand.Rand) (*model.Instance, error) {
	inst := model.NewInstance()

	weights := make([]int, numItems)
	totalWeight := 0
	for i := range numItems {
		w := int(maxFloat(1, meanWeight+stdDevWeight*rng.NormFloat64()))
		weights[i] = w
		totalWeight += w
	}
	capacity := int(float64(totalWeight) * capacityFraction)
	if capacity < 1 {
		capacity = 1
	}

	objective := model.NewExpression(inst)
	capacityExpr := model.NewExpression(inst)
	capacityExpr.SetConstant(-float64(capacity))

	for i := range numItems {
		v, err := inst.AddVariable(fmt.Sprintf("item_%d", i), 0, 1, model.Binary)
		if err != nil {
			return nil, err
		}
		value := float64(1 + rng.Intn(20))
		objective.SetCoefficient(v.Index, value)
		capacityExpr.SetCoefficient(v.Index, float64(weights[i]))
	}

	inst.SetObjective(objective, true)
	if _, err := inst.AddConstraint("capacity", capacityExpr, model.LessEqual); err != nil {
		return nil, err
	}

	if err := inst.Finalize(); err != nil {
		return nil, err
	}
	return inst, nil
}

func maxFloat(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

func main() {
	var outPath string
	var numItems int
	var meanWeight, stdDevWeight, capacityFraction float64
	var seed int64

	flag.StringVar(&outPath, "out", "out.json", "the output file")
	flag.IntVar(&numItems, "items", 0, "the number of items")
	flag.Float64Var(&meanWeight, "meanw", 0, "the item weight mean")
	flag.Float64Var(&stdDevWeight, "stddevw", 0, "the item weight standard deviation")
	flag.Float64Var(&capacityFraction, "capfrac", 0.5, "capacity as a fraction of total item weight")
	flag.Int64Var(&seed, "seed", 0, "random seed")
	flag.Parse()

	fail := false
	if numItems == 0 {
		fmt.Fprintln(os.Stderr, "Must specify the number of items")
		fail = true
	}
	if meanWeight == 0 {
		fmt.Fprintln(os.Stderr, "Must specify the item weight mean")
		fail = true
	}
	if stdDevWeight == 0 {
		fmt.Fprintln(os.Stderr, "Must specify the item weight standard deviation")
		fail = true
	}
	if fail {
		os.Exit(1)
	}

	inst, err := generateKnapsackInstance(numItems, meanWeight, stdDevWeight, capacityFraction, rand.New(rand.NewSource(seed)))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error generating instance: %v\n", err)
		os.Exit(1)
	}

	f, err := os.Create(outPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating %q: %v\n", outPath, err)
		os.Exit(1)
	}
	defer f.Close()

	if err := ioformat.WriteJSON(f, inst); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing instance: %v\n", err)
		os.Exit(1)
	}
}
