// Package model implements the binary classifiers the pipeline trains:
// logistic regression, decision tree, and random forest.
package model

import (
	"fmt"
)

// Classifier is the common interface for binary classifiers. Labels are
// 0/1; PredictProba returns the positive-class probability per row.
type Classifier interface {
	Fit(x [][]float64, y []int) error
	Predict(x [][]float64) []int
	PredictProba(x [][]float64) []float64
}

// Family identifies a classifier family.
type Family string

const (
	LogisticRegressionFamily Family = "logistic_regression"
	DecisionTreeFamily       Family = "decision_tree"
	RandomForestFamily       Family = "random_forest"
)

// Families lists all classifier families in training order.
func Families() []Family {
	return []Family{LogisticRegressionFamily, DecisionTreeFamily, RandomForestFamily}
}

// Params holds one hyperparameter assignment for a classifier family.
type Params map[string]float64

// Float returns the named parameter or def when absent.
func (p Params) Float(name string, def float64) float64 {
	if v, ok := p[name]; ok {
		return v
	}
	return def
}

// Int returns the named parameter as an int or def when absent.
func (p Params) Int(name string, def int) int {
	if v, ok := p[name]; ok {
		return int(v)
	}
	return def
}

// New constructs a classifier of the given family from params. The seed
// makes training deterministic.
func New(family Family, params Params, seed int64) (Classifier, error) {
	switch family {
	case LogisticRegressionFamily:
		return &LogisticRegression{
			LearningRate: params.Float("learning_rate", 0.1),
			Epochs:       params.Int("epochs", 100),
			BatchSize:    params.Int("batch_size", 32),
			L2:           params.Float("l2", 0.0),
			Seed:         seed,
		}, nil
	case DecisionTreeFamily:
		return &DecisionTree{
			MaxDepth:        params.Int("max_depth", 0),
			MinSamplesSplit: params.Int("min_samples_split", 2),
			MinSamplesLeaf:  params.Int("min_samples_leaf", 1),
			MaxFeatures:     params.Int("max_features", 0),
			Criterion:       CriterionGini,
			Seed:            seed,
		}, nil
	case RandomForestFamily:
		return &RandomForest{
			NEstimators:     params.Int("n_estimators", 50),
			MaxDepth:        params.Int("max_depth", 0),
			MinSamplesSplit: params.Int("min_samples_split", 2),
			MinSamplesLeaf:  params.Int("min_samples_leaf", 1),
			MaxFeatures:     params.Int("max_features", 0),
			Bootstrap:       true,
			Seed:            seed,
		}, nil
	default:
		return nil, fmt.Errorf("model: unknown family %q", family)
	}
}

func validateTrainingData(x [][]float64, y []int) error {
	if len(x) == 0 {
		return fmt.Errorf("model: empty training data")
	}
	if len(x) != len(y) {
		return fmt.Errorf("model: feature rows (%d) and labels (%d) differ", len(x), len(y))
	}
	width := len(x[0])
	for i := range x {
		if len(x[i]) != width {
			return fmt.Errorf("model: inconsistent feature width at row %d", i)
		}
	}
	for i, label := range y {
		if label != 0 && label != 1 {
			return fmt.Errorf("model: label at row %d is %d, want 0 or 1", i, label)
		}
	}
	return nil
}

func probaToLabels(proba []float64) []int {
	out := make([]int, len(proba))
	for i, p := range proba {
		if p >= 0.5 {
			out[i] = 1
		}
	}
	return out
}
