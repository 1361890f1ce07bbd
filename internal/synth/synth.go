// Package synth generates the synthetic columns the pipeline merges into
// the customer table: a contiguous row identifier and a random BMI value
// per identifier.
package synth

import (
	"math/rand"

	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/shotafuji/cartml/internal/dataframe"
	"github.com/shotafuji/cartml/internal/errors"
	"github.com/shotafuji/cartml/internal/series"
)

// IDColumn is the identifier column name shared by the customer and BMI
// tables.
const IDColumn = "customer_id"

// WithSequentialID returns a copy of df with an int64 identifier column
// appended, contiguous and starting at 1.
func WithSequentialID(df *dataframe.DataFrame) (*dataframe.DataFrame, error) {
	if df.Len() == 0 {
		return nil, errors.ErrEmptyFrame
	}

	ids := make([]int64, df.Len())
	for i := range ids {
		ids[i] = int64(i + 1)
	}

	idSeries := series.New(IDColumn, ids, memory.NewGoAllocator())
	out, err := df.WithColumn(idSeries)
	if err != nil {
		return nil, errors.NewStageError("prepare", "WithSequentialID", err)
	}
	return out, nil
}

// BMITable builds a two-column table of n rows: the identifier sequence
// 1..n and a BMI value uniformly distributed in [minBMI, maxBMI).
func BMITable(n int, minBMI, maxBMI float64, seed int64) (*dataframe.DataFrame, error) {
	if n <= 0 {
		return nil, errors.NewInvalidInputError("BMITable", "row count must be positive")
	}
	if maxBMI <= minBMI {
		return nil, errors.NewInvalidInputError("BMITable", "max BMI must exceed min BMI")
	}

	rnd := rand.New(rand.NewSource(seed))

	ids := make([]int64, n)
	bmis := make([]float64, n)
	for i := 0; i < n; i++ {
		ids[i] = int64(i + 1)
		bmis[i] = minBMI + rnd.Float64()*(maxBMI-minBMI)
	}

	mem := memory.NewGoAllocator()
	return dataframe.New(
		series.New(IDColumn, ids, mem),
		series.New("bmi", bmis, mem),
	), nil
}
