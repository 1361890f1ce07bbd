package feature

import (
	"github.com/apache/arrow-go/v18/arrow/array"

	"github.com/shotafuji/cartml/internal/dataframe"
	"github.com/shotafuji/cartml/internal/errors"
)

// FloatColumn extracts a numeric column (int64 or float64) as float64.
func FloatColumn(df *dataframe.DataFrame, name string) ([]float64, error) {
	col, ok := df.Column(name)
	if !ok {
		return nil, errors.NewColumnNotFoundError("FloatColumn", name)
	}

	arr := col.Array()
	defer arr.Release()

	out := make([]float64, arr.Len())
	switch typed := arr.(type) {
	case *array.Float64:
		for i := 0; i < typed.Len(); i++ {
			out[i] = typed.Value(i)
		}
	case *array.Int64:
		for i := 0; i < typed.Len(); i++ {
			out[i] = float64(typed.Value(i))
		}
	default:
		return nil, errors.NewUnsupportedTypeError("FloatColumn", arr.DataType().String())
	}
	return out, nil
}

// StringColumn extracts a string column.
func StringColumn(df *dataframe.DataFrame, name string) ([]string, error) {
	col, ok := df.Column(name)
	if !ok {
		return nil, errors.NewColumnNotFoundError("StringColumn", name)
	}

	arr := col.Array()
	defer arr.Release()

	typed, ok := arr.(*array.String)
	if !ok {
		return nil, errors.NewUnsupportedTypeError("StringColumn", arr.DataType().String())
	}

	out := make([]string, typed.Len())
	for i := 0; i < typed.Len(); i++ {
		out[i] = typed.Value(i)
	}
	return out, nil
}

// IntLabels extracts a 0/1 label column as ints.
func IntLabels(df *dataframe.DataFrame, name string) ([]int, error) {
	values, err := FloatColumn(df, name)
	if err != nil {
		return nil, err
	}

	out := make([]int, len(values))
	for i, v := range values {
		if v != 0 && v != 1 {
			return nil, &errors.PipelineError{
				Op:      "IntLabels",
				Column:  name,
				Message: "label values must be 0 or 1",
			}
		}
		out[i] = int(v)
	}
	return out, nil
}

// assemble stacks the named float columns into a row-major matrix.
func assemble(columns [][]float64) [][]float64 {
	if len(columns) == 0 || len(columns[0]) == 0 {
		return nil
	}

	rows := len(columns[0])
	out := make([][]float64, rows)
	for i := 0; i < rows; i++ {
		row := make([]float64, len(columns))
		for j, col := range columns {
			row[j] = col[i]
		}
		out[i] = row
	}
	return out
}
