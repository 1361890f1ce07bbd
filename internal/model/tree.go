package model

import (
	"math"
	"math/rand"
	"sort"
)

// Split quality criteria.
const (
	CriterionGini    = "gini"
	CriterionEntropy = "entropy"
)

// DecisionTree is a CART-style binary classifier with numeric midpoint
// thresholds.
type DecisionTree struct {
	MaxDepth        int    // 0 = unlimited
	MinSamplesSplit int    // minimum samples to attempt a split
	MinSamplesLeaf  int    // minimum samples required in each leaf
	MaxFeatures     int    // 0 = all features, >0 = sampled per split
	Criterion       string // "gini" (default) or "entropy"
	Seed            int64

	Root *TreeNode
}

// TreeNode is one node of a fitted tree. Fields are exported for gob.
type TreeNode struct {
	Leaf      bool
	Feature   int
	Threshold float64 // x <= Threshold goes left
	Left      *TreeNode
	Right     *TreeNode

	N     int     // training samples that reached this node
	Proba float64 // positive-class fraction at this node
}

// NewDecisionTree returns a tree with default hyperparameters.
func NewDecisionTree() *DecisionTree {
	return &DecisionTree{
		MinSamplesSplit: 2,
		MinSamplesLeaf:  1,
		Criterion:       CriterionGini,
		Seed:            1,
	}
}

// Fit grows the tree on x and 0/1 labels y.
func (t *DecisionTree) Fit(x [][]float64, y []int) error {
	if err := validateTrainingData(x, y); err != nil {
		return err
	}

	idx := make([]int, len(x))
	for i := range idx {
		idx[i] = i
	}

	rnd := rand.New(rand.NewSource(t.Seed))
	t.Root = t.grow(x, y, idx, 0, rnd)
	return nil
}

// PredictProba returns the positive-class probability for each row.
func (t *DecisionTree) PredictProba(x [][]float64) []float64 {
	out := make([]float64, len(x))
	for i, row := range x {
		out[i] = t.probaOne(row)
	}
	return out
}

// Predict returns 0/1 labels at a 0.5 probability threshold.
func (t *DecisionTree) Predict(x [][]float64) []int {
	return probaToLabels(t.PredictProba(x))
}

func (t *DecisionTree) probaOne(row []float64) float64 {
	node := t.Root
	if node == nil {
		return 0.5
	}
	for !node.Leaf {
		if row[node.Feature] <= node.Threshold {
			node = node.Left
		} else {
			node = node.Right
		}
	}
	return node.Proba
}

func (t *DecisionTree) impurity(pos, total int) float64 {
	if total == 0 {
		return 0
	}
	p := float64(pos) / float64(total)
	if t.Criterion == CriterionEntropy {
		q := 1 - p
		e := 0.0
		if p > 0 {
			e -= p * math.Log2(p)
		}
		if q > 0 {
			e -= q * math.Log2(q)
		}
		return e
	}
	return 2 * p * (1 - p) // binary gini
}

func (t *DecisionTree) grow(x [][]float64, y []int, idx []int, depth int, rnd *rand.Rand) *TreeNode {
	pos := 0
	for _, i := range idx {
		pos += y[i]
	}

	node := &TreeNode{
		N:     len(idx),
		Proba: float64(pos) / float64(len(idx)),
	}

	pure := pos == 0 || pos == len(idx)
	if pure || len(idx) < t.MinSamplesSplit || (t.MaxDepth > 0 && depth >= t.MaxDepth) {
		node.Leaf = true
		return node
	}

	feature, threshold, leftIdx, rightIdx, ok := t.bestSplit(x, y, idx, pos, rnd)
	if !ok {
		node.Leaf = true
		return node
	}

	node.Feature = feature
	node.Threshold = threshold
	node.Left = t.grow(x, y, leftIdx, depth+1, rnd)
	node.Right = t.grow(x, y, rightIdx, depth+1, rnd)
	return node
}

// bestSplit scans candidate features for the numeric threshold with the
// largest impurity decrease.
func (t *DecisionTree) bestSplit(x [][]float64, y []int, idx []int, pos int, rnd *rand.Rand) (feature int, threshold float64, left, right []int, ok bool) {
	p := len(x[0])
	features := make([]int, p)
	for j := range features {
		features[j] = j
	}
	if t.MaxFeatures > 0 && t.MaxFeatures < p {
		rnd.Shuffle(p, func(a, b int) { features[a], features[b] = features[b], features[a] })
		features = features[:t.MaxFeatures]
	}

	parent := t.impurity(pos, len(idx))
	total := len(idx)
	minLeaf := max(t.MinSamplesLeaf, 1)

	bestGain := 0.0
	bestFeature := -1
	bestThreshold := 0.0
	bestSplitAt := 0
	var bestOrder []int

	type pair struct {
		v   float64
		i   int
		lab int
	}

	for _, f := range features {
		pairs := make([]pair, 0, total)
		for _, i := range idx {
			pairs = append(pairs, pair{v: x[i][f], i: i, lab: y[i]})
		}
		sort.Slice(pairs, func(a, b int) bool { return pairs[a].v < pairs[b].v })

		leftPos := 0
		for s := 1; s < total; s++ {
			leftPos += pairs[s-1].lab
			if pairs[s].v == pairs[s-1].v {
				continue
			}
			if s < minLeaf || total-s < minLeaf {
				continue
			}

			weighted := (float64(s)/float64(total))*t.impurity(leftPos, s) +
				(float64(total-s)/float64(total))*t.impurity(pos-leftPos, total-s)
			gain := parent - weighted
			if gain > bestGain {
				bestGain = gain
				bestFeature = f
				bestThreshold = (pairs[s-1].v + pairs[s].v) / 2.0
				bestSplitAt = s
				bestOrder = bestOrder[:0]
				for _, pr := range pairs {
					bestOrder = append(bestOrder, pr.i)
				}
			}
		}
	}

	if bestFeature < 0 {
		return 0, 0, nil, nil, false
	}

	left = append([]int(nil), bestOrder[:bestSplitAt]...)
	right = append([]int(nil), bestOrder[bestSplitAt:]...)
	return bestFeature, bestThreshold, left, right, true
}
