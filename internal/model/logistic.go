package model

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/floats"
)

// LogisticRegression is a binary classifier trained with mini-batch
// gradient descent on binary cross-entropy loss.
type LogisticRegression struct {
	Weights []float64
	Bias    float64

	LearningRate float64
	Epochs       int
	BatchSize    int
	L2           float64 // L2 regularization strength
	Seed         int64
}

// NewLogisticRegression returns a model with default hyperparameters.
func NewLogisticRegression() *LogisticRegression {
	return &LogisticRegression{
		LearningRate: 0.1,
		Epochs:       100,
		BatchSize:    32,
		Seed:         1,
	}
}

func sigmoid(z float64) float64 {
	return 1.0 / (1.0 + math.Exp(-z))
}

// Fit trains the model. Weights start at small random values to break
// symmetry; samples are reshuffled every epoch.
func (m *LogisticRegression) Fit(x [][]float64, y []int) error {
	if err := validateTrainingData(x, y); err != nil {
		return err
	}

	n := len(x)
	p := len(x[0])
	rnd := rand.New(rand.NewSource(m.Seed))

	m.Weights = make([]float64, p)
	for j := range m.Weights {
		m.Weights[j] = rnd.NormFloat64() * 0.01
	}
	m.Bias = 0

	batchSize := m.BatchSize
	if batchSize <= 0 || batchSize > n {
		batchSize = n
	}

	grad := make([]float64, p)
	for epoch := 0; epoch < m.Epochs; epoch++ {
		order := rnd.Perm(n)
		for start := 0; start < n; start += batchSize {
			end := min(start+batchSize, n)
			batch := order[start:end]

			for j := range grad {
				grad[j] = 0
			}
			gradBias := 0.0

			for _, i := range batch {
				pred := sigmoid(floats.Dot(m.Weights, x[i]) + m.Bias)
				d := pred - float64(y[i]) // dBCE/dz
				floats.AddScaled(grad, d, x[i])
				gradBias += d
			}

			scale := m.LearningRate / float64(len(batch))
			floats.AddScaled(m.Weights, -scale, grad)
			if m.L2 > 0 {
				floats.AddScaled(m.Weights, -m.LearningRate*m.L2, m.Weights)
			}
			m.Bias -= scale * gradBias
		}
	}
	return nil
}

// PredictProba returns the positive-class probability for each row.
func (m *LogisticRegression) PredictProba(x [][]float64) []float64 {
	out := make([]float64, len(x))
	for i, row := range x {
		out[i] = sigmoid(floats.Dot(m.Weights, row) + m.Bias)
	}
	return out
}

// Predict returns 0/1 labels at a 0.5 probability threshold.
func (m *LogisticRegression) Predict(x [][]float64) []int {
	return probaToLabels(m.PredictProba(x))
}
