package eval

import (
	"github.com/shotafuji/cartml/internal/errors"
	"github.com/shotafuji/cartml/internal/model"
	"github.com/shotafuji/cartml/internal/parallel"
)

// Score is the evaluated quality of one fitted classifier.
type Score struct {
	Family    model.Family
	Params    model.Params
	Accuracy  float64
	Precision float64
	Recall    float64
	F1        float64
}

// CrossValidate estimates mean F1 for one parameter set by k-fold
// cross-validation. Folds are fitted in parallel across the pool.
func CrossValidate(
	wp *parallel.WorkerPool,
	family model.Family,
	params model.Params,
	x [][]float64,
	y []int,
	k int,
	seed int64,
) (float64, error) {
	folds, err := KFold(len(x), k, seed)
	if err != nil {
		return 0, err
	}

	type foldResult struct {
		f1  float64
		err error
	}

	results := parallel.ProcessIndexed(wp, folds, func(foldIdx int, holdout []int) foldResult {
		holdoutSet := make(map[int]bool, len(holdout))
		for _, idx := range holdout {
			holdoutSet[idx] = true
		}
		train := make([]int, 0, len(x)-len(holdout))
		for i := range x {
			if !holdoutSet[i] {
				train = append(train, i)
			}
		}

		clf, err := model.New(family, params, seed+int64(foldIdx))
		if err != nil {
			return foldResult{err: err}
		}

		trainX, trainY := Gather(x, y, train)
		if err := clf.Fit(trainX, trainY); err != nil {
			return foldResult{err: err}
		}

		testX, testY := Gather(x, y, holdout)
		_, _, f1 := PrecisionRecallF1(testY, clf.Predict(testX))
		return foldResult{f1: f1}
	})

	total := 0.0
	for _, r := range results {
		if r.err != nil {
			return 0, errors.NewStageError("train", "CrossValidate", r.err)
		}
		total += r.f1
	}
	return total / float64(len(results)), nil
}

// GridSearch cross-validates every parameter set in the grid and returns
// the best one with its mean F1.
func GridSearch(
	wp *parallel.WorkerPool,
	family model.Family,
	grid Grid,
	x [][]float64,
	y []int,
	k int,
	seed int64,
) (model.Params, float64, error) {
	combos := grid.Expand()
	if len(combos) == 0 {
		return nil, 0, errors.NewInvalidInputError("GridSearch", "empty parameter grid")
	}

	var best model.Params
	bestScore := -1.0
	for _, params := range combos {
		score, err := CrossValidate(wp, family, params, x, y, k, seed)
		if err != nil {
			return nil, 0, err
		}
		if score > bestScore {
			bestScore = score
			best = params
		}
	}
	return best, bestScore, nil
}

// Evaluate fits a fresh classifier on the training rows and scores it on
// the test rows.
func Evaluate(
	family model.Family,
	params model.Params,
	trainX [][]float64, trainY []int,
	testX [][]float64, testY []int,
	seed int64,
) (Score, model.Classifier, error) {
	clf, err := model.New(family, params, seed)
	if err != nil {
		return Score{}, nil, err
	}
	if err := clf.Fit(trainX, trainY); err != nil {
		return Score{}, nil, errors.NewStageError("train", "Evaluate", err)
	}

	pred := clf.Predict(testX)
	precision, recall, f1 := PrecisionRecallF1(testY, pred)

	return Score{
		Family:    family,
		Params:    params,
		Accuracy:  Accuracy(testY, pred),
		Precision: precision,
		Recall:    recall,
		F1:        f1,
	}, clf, nil
}
