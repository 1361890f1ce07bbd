package eval

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfuse(t *testing.T) {
	yTrue := []int{1, 1, 0, 0, 1, 0}
	yPred := []int{1, 0, 1, 0, 1, 0}

	c := Confuse(yTrue, yPred)
	assert.Equal(t, Confusion{TP: 2, FP: 1, TN: 2, FN: 1}, c)
}

func TestAccuracy(t *testing.T) {
	assert.Equal(t, 1.0, Accuracy([]int{1, 0}, []int{1, 0}))
	assert.Equal(t, 0.5, Accuracy([]int{1, 0}, []int{1, 1}))
	assert.Equal(t, 0.0, Accuracy(nil, nil))
}

func TestPrecisionRecallF1(t *testing.T) {
	tests := []struct {
		name                        string
		yTrue, yPred                []int
		precision, recall, f1       float64
	}{
		{
			name:  "perfect",
			yTrue: []int{1, 0, 1}, yPred: []int{1, 0, 1},
			precision: 1, recall: 1, f1: 1,
		},
		{
			name:  "half precision full recall",
			yTrue: []int{1, 0, 0, 1}, yPred: []int{1, 1, 1, 1},
			precision: 0.5, recall: 1, f1: 2.0 / 3.0,
		},
		{
			name:  "no positive predictions",
			yTrue: []int{1, 1}, yPred: []int{0, 0},
			precision: 0, recall: 0, f1: 0,
		},
		{
			name:  "no positive truth",
			yTrue: []int{0, 0}, yPred: []int{1, 0},
			precision: 0, recall: 0, f1: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, r, f1 := PrecisionRecallF1(tt.yTrue, tt.yPred)
			assert.InDelta(t, tt.precision, p, 1e-9)
			assert.InDelta(t, tt.recall, r, 1e-9)
			assert.InDelta(t, tt.f1, f1, 1e-9)
		})
	}
}
