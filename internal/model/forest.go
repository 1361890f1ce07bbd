package model

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/shotafuji/cartml/internal/parallel"
)

// RandomForest bags bootstrap-sampled decision trees and averages their
// positive-class probabilities.
type RandomForest struct {
	NEstimators     int
	MaxDepth        int
	MinSamplesSplit int
	MinSamplesLeaf  int
	MaxFeatures     int // 0 = sqrt of the feature count
	Bootstrap       bool
	Seed            int64

	Trees []*DecisionTree
}

// NewRandomForest returns a forest with default hyperparameters.
func NewRandomForest() *RandomForest {
	return &RandomForest{
		NEstimators:     50,
		MinSamplesSplit: 2,
		MinSamplesLeaf:  1,
		Bootstrap:       true,
		Seed:            1,
	}
}

// Fit trains all trees across the worker pool. Each tree gets its own
// bootstrap sample and a seed derived from its position, so fitting is
// deterministic regardless of scheduling.
func (rf *RandomForest) Fit(x [][]float64, y []int) error {
	if err := validateTrainingData(x, y); err != nil {
		return err
	}
	if rf.NEstimators <= 0 {
		return fmt.Errorf("model: NEstimators must be positive, got %d", rf.NEstimators)
	}

	n := len(x)
	maxFeatures := rf.MaxFeatures
	if maxFeatures <= 0 {
		maxFeatures = int(math.Sqrt(float64(len(x[0]))))
		if maxFeatures < 1 {
			maxFeatures = 1
		}
	}

	wp := parallel.NewWorkerPool(0)
	defer wp.Close()

	slots := make([]int, rf.NEstimators)
	type fitResult struct {
		tree *DecisionTree
		err  error
	}

	results := parallel.ProcessIndexed(wp, slots, func(treeIdx, _ int) fitResult {
		treeSeed := rf.Seed + int64(treeIdx)
		rnd := rand.New(rand.NewSource(treeSeed))

		sampleX := make([][]float64, n)
		sampleY := make([]int, n)
		for j := 0; j < n; j++ {
			src := j
			if rf.Bootstrap {
				src = rnd.Intn(n)
			}
			sampleX[j] = x[src]
			sampleY[j] = y[src]
		}

		tree := &DecisionTree{
			MaxDepth:        rf.MaxDepth,
			MinSamplesSplit: rf.MinSamplesSplit,
			MinSamplesLeaf:  rf.MinSamplesLeaf,
			MaxFeatures:     maxFeatures,
			Criterion:       CriterionGini,
			Seed:            treeSeed,
		}
		if err := tree.Fit(sampleX, sampleY); err != nil {
			return fitResult{err: err}
		}
		return fitResult{tree: tree}
	})

	rf.Trees = make([]*DecisionTree, 0, rf.NEstimators)
	for _, r := range results {
		if r.err != nil {
			return r.err
		}
		rf.Trees = append(rf.Trees, r.tree)
	}
	return nil
}

// PredictProba averages tree probabilities per row.
func (rf *RandomForest) PredictProba(x [][]float64) []float64 {
	out := make([]float64, len(x))
	if len(rf.Trees) == 0 {
		return out
	}

	for _, tree := range rf.Trees {
		proba := tree.PredictProba(x)
		for i, p := range proba {
			out[i] += p
		}
	}
	for i := range out {
		out[i] /= float64(len(rf.Trees))
	}
	return out
}

// Predict returns 0/1 labels at a 0.5 probability threshold.
func (rf *RandomForest) Predict(x [][]float64) []int {
	return probaToLabels(rf.PredictProba(x))
}
