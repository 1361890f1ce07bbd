package feature

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/shotafuji/cartml/internal/errors"
)

// StandardScaler standardizes each column to zero mean and unit variance.
// Columns with zero spread pass through centered only.
type StandardScaler struct {
	Mean []float64 `yaml:"mean"`
	Std  []float64 `yaml:"std"`
}

// NewStandardScaler creates an unfitted scaler.
func NewStandardScaler() *StandardScaler {
	return &StandardScaler{}
}

// Fit computes per-column mean and standard deviation.
func (s *StandardScaler) Fit(x [][]float64) error {
	if len(x) == 0 {
		return errors.NewInvalidInputError("StandardScaler.Fit", "empty matrix")
	}

	cols := len(x[0])
	s.Mean = make([]float64, cols)
	s.Std = make([]float64, cols)

	col := make([]float64, len(x))
	for j := 0; j < cols; j++ {
		for i := range x {
			col[i] = x[i][j]
		}
		mean, std := stat.MeanStdDev(col, nil)
		if std == 0 || math.IsNaN(std) {
			std = 1
		}
		s.Mean[j] = mean
		s.Std[j] = std
	}
	return nil
}

// Transform standardizes x using the fitted statistics.
func (s *StandardScaler) Transform(x [][]float64) ([][]float64, error) {
	if len(s.Mean) == 0 {
		return nil, errors.ErrNotFitted
	}

	out := make([][]float64, len(x))
	for i, row := range x {
		if len(row) != len(s.Mean) {
			return nil, errors.ErrMismatchedLength
		}
		scaled := make([]float64, len(row))
		for j, v := range row {
			scaled[j] = (v - s.Mean[j]) / s.Std[j]
		}
		out[i] = scaled
	}
	return out, nil
}

// FitTransform fits the scaler and returns the standardized matrix.
func (s *StandardScaler) FitTransform(x [][]float64) ([][]float64, error) {
	if err := s.Fit(x); err != nil {
		return nil, err
	}
	return s.Transform(x)
}
