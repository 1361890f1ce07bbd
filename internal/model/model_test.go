package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// separable returns a two-feature dataset split cleanly by the first
// feature's sign.
func separable() (x [][]float64, y []int) {
	for i := 0; i < 20; i++ {
		x = append(x, []float64{-1.0 - 0.1*float64(i), 0.3 * float64(i%5)})
		y = append(y, 0)
		x = append(x, []float64{1.0 + 0.1*float64(i), -0.3 * float64(i%5)})
		y = append(y, 1)
	}
	return x, y
}

func TestFamilies(t *testing.T) {
	assert.Equal(t, []Family{
		LogisticRegressionFamily,
		DecisionTreeFamily,
		RandomForestFamily,
	}, Families())
}

func TestParamsAccessors(t *testing.T) {
	p := Params{"learning_rate": 0.05, "epochs": 80}

	assert.Equal(t, 0.05, p.Float("learning_rate", 0.1))
	assert.Equal(t, 0.1, p.Float("l2", 0.1))
	assert.Equal(t, 80, p.Int("epochs", 100))
	assert.Equal(t, 32, p.Int("batch_size", 32))
}

func TestNewFactory(t *testing.T) {
	for _, family := range Families() {
		t.Run(string(family), func(t *testing.T) {
			clf, err := New(family, Params{}, 42)
			require.NoError(t, err)
			require.NotNil(t, clf)
		})
	}

	t.Run("unknown family", func(t *testing.T) {
		_, err := New("gradient_boosting", Params{}, 42)
		require.Error(t, err)
	})

	t.Run("params reach the model", func(t *testing.T) {
		clf, err := New(DecisionTreeFamily, Params{"max_depth": 3}, 42)
		require.NoError(t, err)
		assert.Equal(t, 3, clf.(*DecisionTree).MaxDepth)
	})
}

func TestValidateTrainingData(t *testing.T) {
	tests := []struct {
		name string
		x    [][]float64
		y    []int
	}{
		{"empty", nil, nil},
		{"length mismatch", [][]float64{{1}}, []int{0, 1}},
		{"ragged rows", [][]float64{{1, 2}, {1}}, []int{0, 1}},
		{"non-binary label", [][]float64{{1}, {2}}, []int{0, 2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, validateTrainingData(tt.x, tt.y))
		})
	}
}

func TestLogisticRegressionSeparable(t *testing.T) {
	x, y := separable()
	m := &LogisticRegression{LearningRate: 0.5, Epochs: 200, BatchSize: 16, Seed: 42}

	require.NoError(t, m.Fit(x, y))

	pred := m.Predict(x)
	assert.Equal(t, y, pred)

	proba := m.PredictProba([][]float64{{3.0, 0}, {-3.0, 0}})
	assert.Greater(t, proba[0], 0.9)
	assert.Less(t, proba[1], 0.1)
}

func TestLogisticRegressionDeterministic(t *testing.T) {
	x, y := separable()

	a := &LogisticRegression{LearningRate: 0.1, Epochs: 50, BatchSize: 8, Seed: 7}
	b := &LogisticRegression{LearningRate: 0.1, Epochs: 50, BatchSize: 8, Seed: 7}
	require.NoError(t, a.Fit(x, y))
	require.NoError(t, b.Fit(x, y))

	assert.Equal(t, a.Weights, b.Weights)
	assert.Equal(t, a.Bias, b.Bias)
}

func TestDecisionTreeSeparable(t *testing.T) {
	x, y := separable()
	tree := NewDecisionTree()

	require.NoError(t, tree.Fit(x, y))
	assert.Equal(t, y, tree.Predict(x))

	require.NotNil(t, tree.Root)
	assert.False(t, tree.Root.Leaf)
	// The first feature separates the classes; the root must split on it.
	assert.Equal(t, 0, tree.Root.Feature)
}

func TestDecisionTreeMaxDepth(t *testing.T) {
	x, y := separable()
	tree := &DecisionTree{MaxDepth: 1, MinSamplesSplit: 2, MinSamplesLeaf: 1, Criterion: CriterionGini, Seed: 1}

	require.NoError(t, tree.Fit(x, y))
	require.NotNil(t, tree.Root)
	if !tree.Root.Leaf {
		assert.True(t, tree.Root.Left.Leaf)
		assert.True(t, tree.Root.Right.Leaf)
	}
}

func TestDecisionTreePureNodeIsLeaf(t *testing.T) {
	x := [][]float64{{1}, {2}, {3}}
	y := []int{1, 1, 1}

	tree := NewDecisionTree()
	require.NoError(t, tree.Fit(x, y))

	require.True(t, tree.Root.Leaf)
	assert.Equal(t, 1.0, tree.Root.Proba)
}

func TestDecisionTreeEntropyCriterion(t *testing.T) {
	x, y := separable()
	tree := &DecisionTree{MinSamplesSplit: 2, MinSamplesLeaf: 1, Criterion: CriterionEntropy, Seed: 1}

	require.NoError(t, tree.Fit(x, y))
	assert.Equal(t, y, tree.Predict(x))
}

func TestRandomForestSeparable(t *testing.T) {
	x, y := separable()
	rf := &RandomForest{NEstimators: 15, MinSamplesSplit: 2, MinSamplesLeaf: 1, Bootstrap: true, Seed: 42}

	require.NoError(t, rf.Fit(x, y))
	require.Len(t, rf.Trees, 15)
	assert.Equal(t, y, rf.Predict(x))
}

func TestRandomForestDeterministic(t *testing.T) {
	x, y := separable()

	a := &RandomForest{NEstimators: 10, Bootstrap: true, MinSamplesSplit: 2, MinSamplesLeaf: 1, Seed: 3}
	b := &RandomForest{NEstimators: 10, Bootstrap: true, MinSamplesSplit: 2, MinSamplesLeaf: 1, Seed: 3}
	require.NoError(t, a.Fit(x, y))
	require.NoError(t, b.Fit(x, y))

	assert.Equal(t, a.PredictProba(x), b.PredictProba(x))
}

func TestRandomForestInvalidEstimators(t *testing.T) {
	x, y := separable()
	rf := &RandomForest{NEstimators: 0, Seed: 1}
	assert.Error(t, rf.Fit(x, y))
}

func TestProbaToLabels(t *testing.T) {
	assert.Equal(t, []int{0, 1, 1, 0}, probaToLabels([]float64{0.2, 0.5, 0.9, 0.49}))
}
