package eval

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitIndices(t *testing.T) {
	train, test, err := SplitIndices(10, 0.2, 42)
	require.NoError(t, err)

	assert.Len(t, test, 2)
	assert.Len(t, train, 8)

	// Together they cover 0..9 exactly once.
	all := append(append([]int{}, train...), test...)
	sort.Ints(all)
	for i, v := range all {
		assert.Equal(t, i, v)
	}
}

func TestSplitIndicesDeterministic(t *testing.T) {
	trainA, testA, err := SplitIndices(50, 0.3, 7)
	require.NoError(t, err)
	trainB, testB, err := SplitIndices(50, 0.3, 7)
	require.NoError(t, err)

	assert.Equal(t, trainA, trainB)
	assert.Equal(t, testA, testB)
}

func TestSplitIndicesClampsTestSize(t *testing.T) {
	// Tiny ratios still put at least one row in the test set.
	train, test, err := SplitIndices(5, 0.01, 1)
	require.NoError(t, err)
	assert.Len(t, test, 1)
	assert.Len(t, train, 4)
}

func TestSplitIndicesErrors(t *testing.T) {
	_, _, err := SplitIndices(1, 0.2, 1)
	assert.Error(t, err)

	_, _, err = SplitIndices(10, 0, 1)
	assert.Error(t, err)

	_, _, err = SplitIndices(10, 1.0, 1)
	assert.Error(t, err)
}

func TestKFold(t *testing.T) {
	folds, err := KFold(10, 3, 42)
	require.NoError(t, err)
	require.Len(t, folds, 3)

	var all []int
	for _, fold := range folds {
		// Fold sizes differ by at most one.
		assert.InDelta(t, 10.0/3.0, float64(len(fold)), 1)
		all = append(all, fold...)
	}

	sort.Ints(all)
	require.Len(t, all, 10)
	for i, v := range all {
		assert.Equal(t, i, v)
	}
}

func TestKFoldErrors(t *testing.T) {
	_, err := KFold(10, 1, 1)
	assert.Error(t, err)

	_, err = KFold(2, 5, 1)
	assert.Error(t, err)
}

func TestGather(t *testing.T) {
	x := [][]float64{{0}, {1}, {2}, {3}}
	y := []int{0, 1, 0, 1}

	gx, gy := Gather(x, y, []int{3, 0})
	assert.Equal(t, [][]float64{{3}, {0}}, gx)
	assert.Equal(t, []int{1, 0}, gy)
}
