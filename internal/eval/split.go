package eval

import (
	"math/rand"

	"github.com/shotafuji/cartml/internal/errors"
)

// SplitIndices shuffles row indices 0..n-1 and splits them into train and
// test sets, with roughly testRatio of rows in the test set.
func SplitIndices(n int, testRatio float64, seed int64) (train, test []int, err error) {
	if n <= 1 {
		return nil, nil, errors.NewInvalidInputError("SplitIndices", "need at least two rows")
	}
	if testRatio <= 0 || testRatio >= 1 {
		return nil, nil, errors.NewInvalidInputError("SplitIndices", "test ratio must be in (0, 1)")
	}

	rnd := rand.New(rand.NewSource(seed))
	perm := rnd.Perm(n)

	nTest := int(float64(n) * testRatio)
	if nTest == 0 {
		nTest = 1
	}
	if nTest == n {
		nTest = n - 1
	}

	test = append(test, perm[:nTest]...)
	train = append(train, perm[nTest:]...)
	return train, test, nil
}

// KFold partitions row indices 0..n-1 into k shuffled folds. Fold sizes
// differ by at most one.
func KFold(n, k int, seed int64) ([][]int, error) {
	if k < 2 {
		return nil, errors.NewInvalidInputError("KFold", "k must be at least 2")
	}
	if n < k {
		return nil, errors.NewInvalidInputError("KFold", "more folds than rows")
	}

	rnd := rand.New(rand.NewSource(seed))
	perm := rnd.Perm(n)

	folds := make([][]int, k)
	for i, idx := range perm {
		folds[i%k] = append(folds[i%k], idx)
	}
	return folds, nil
}

// Gather selects rows of x and y at the given indices.
func Gather(x [][]float64, y []int, indices []int) ([][]float64, []int) {
	gx := make([][]float64, len(indices))
	gy := make([]int, len(indices))
	for i, idx := range indices {
		gx[i] = x[idx]
		gy[i] = y[idx]
	}
	return gx, gy
}
