package synth

import (
	"testing"

	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shotafuji/cartml/internal/dataframe"
	"github.com/shotafuji/cartml/internal/errors"
	"github.com/shotafuji/cartml/internal/series"
)

func TestWithSequentialID(t *testing.T) {
	mem := memory.NewGoAllocator()
	df := dataframe.New(
		series.New("age", []int64{23, 31, 45}, mem),
	)
	defer df.Release()

	out, err := WithSequentialID(df)
	require.NoError(t, err)

	require.True(t, out.HasColumn(IDColumn))
	col, _ := out.Column(IDColumn)
	ids := col.(*series.Series[int64]).Values()
	// Contiguous, starting at 1.
	assert.Equal(t, []int64{1, 2, 3}, ids)
	assert.Equal(t, []string{"age", IDColumn}, out.Columns())
}

func TestWithSequentialIDEmptyFrame(t *testing.T) {
	df := dataframe.New()
	_, err := WithSequentialID(df)
	assert.ErrorIs(t, err, errors.ErrEmptyFrame)
}

func TestBMITable(t *testing.T) {
	df, err := BMITable(100, 18.5, 35.0, 42)
	require.NoError(t, err)
	defer df.Release()

	require.Equal(t, 100, df.Len())
	require.Equal(t, []string{IDColumn, "bmi"}, df.Columns())

	idCol, _ := df.Column(IDColumn)
	ids := idCol.(*series.Series[int64]).Values()
	for i, id := range ids {
		assert.Equal(t, int64(i+1), id)
	}

	bmiCol, _ := df.Column("bmi")
	for _, v := range bmiCol.(*series.Series[float64]).Values() {
		assert.GreaterOrEqual(t, v, 18.5)
		assert.Less(t, v, 35.0)
	}
}

func TestBMITableDeterministic(t *testing.T) {
	a, err := BMITable(10, 18.5, 35.0, 7)
	require.NoError(t, err)
	defer a.Release()
	b, err := BMITable(10, 18.5, 35.0, 7)
	require.NoError(t, err)
	defer b.Release()

	colA, _ := a.Column("bmi")
	colB, _ := b.Column("bmi")
	assert.Equal(t,
		colA.(*series.Series[float64]).Values(),
		colB.(*series.Series[float64]).Values())
}

func TestBMITableInvalidInput(t *testing.T) {
	_, err := BMITable(0, 18.5, 35.0, 1)
	assert.Error(t, err)

	_, err = BMITable(5, 30.0, 20.0, 1)
	assert.Error(t, err)
}
