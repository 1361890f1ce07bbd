// Package eval provides train/test splitting, k-fold cross-validation with
// hyperparameter grids, and binary classification metrics.
package eval

// Confusion holds binary confusion counts for positive label 1.
type Confusion struct {
	TP, FP, TN, FN int
}

// Confuse tallies confusion counts between true and predicted labels.
func Confuse(yTrue, yPred []int) Confusion {
	var c Confusion
	for i := range yTrue {
		switch {
		case yPred[i] == 1 && yTrue[i] == 1:
			c.TP++
		case yPred[i] == 1 && yTrue[i] == 0:
			c.FP++
		case yPred[i] == 0 && yTrue[i] == 1:
			c.FN++
		default:
			c.TN++
		}
	}
	return c
}

// Accuracy returns the fraction of matching labels.
func Accuracy(yTrue, yPred []int) float64 {
	if len(yTrue) == 0 {
		return 0
	}
	correct := 0
	for i := range yTrue {
		if yTrue[i] == yPred[i] {
			correct++
		}
	}
	return float64(correct) / float64(len(yTrue))
}

// PrecisionRecallF1 computes binary precision, recall, and F1 with positive
// label 1. Undefined ratios (empty denominators) come back as 0.
func PrecisionRecallF1(yTrue, yPred []int) (precision, recall, f1 float64) {
	c := Confuse(yTrue, yPred)
	if c.TP+c.FP > 0 {
		precision = float64(c.TP) / float64(c.TP+c.FP)
	}
	if c.TP+c.FN > 0 {
		recall = float64(c.TP) / float64(c.TP+c.FN)
	}
	if precision+recall > 0 {
		f1 = 2 * precision * recall / (precision + recall)
	}
	return precision, recall, f1
}
