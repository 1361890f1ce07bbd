// Package dataframe provides the columnar table the pipeline operates on.
package dataframe

import (
	"fmt"
	"sort"
	"strings"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/shotafuji/cartml/internal/errors"
	"github.com/shotafuji/cartml/internal/series"
)

// ISeries is the type-erased interface all typed series satisfy.
type ISeries interface {
	Name() string
	Len() int
	DataType() arrow.DataType
	IsNull(index int) bool
	String() string
	Array() arrow.Array
	Release()
}

// DataFrame represents a table of data with typed columns.
type DataFrame struct {
	columns map[string]ISeries
	order   []string // maintains column order
}

// New creates a DataFrame from a list of series.
func New(cols ...ISeries) *DataFrame {
	columns := make(map[string]ISeries)
	order := make([]string, 0, len(cols))

	for _, s := range cols {
		name := s.Name()
		columns[name] = s
		order = append(order, name)
	}

	return &DataFrame{columns: columns, order: order}
}

// Columns returns the names of all columns in order.
func (df *DataFrame) Columns() []string {
	if len(df.order) == 0 {
		return []string{}
	}
	return append([]string(nil), df.order...)
}

// Len returns the number of rows.
func (df *DataFrame) Len() int {
	if len(df.order) == 0 {
		return 0
	}
	if s, ok := df.columns[df.order[0]]; ok {
		return s.Len()
	}
	return 0
}

// Width returns the number of columns.
func (df *DataFrame) Width() int {
	return len(df.columns)
}

// Column returns the series for the given column name.
func (df *DataFrame) Column(name string) (ISeries, bool) {
	s, ok := df.columns[name]
	return s, ok
}

// HasColumn reports whether a column exists.
func (df *DataFrame) HasColumn(name string) bool {
	_, ok := df.columns[name]
	return ok
}

// Select returns a new DataFrame with only the specified columns.
func (df *DataFrame) Select(names ...string) *DataFrame {
	newColumns := make(map[string]ISeries)
	newOrder := make([]string, 0, len(names))

	for _, name := range names {
		if s, ok := df.columns[name]; ok {
			newColumns[name] = s
			newOrder = append(newOrder, name)
		}
	}

	return &DataFrame{columns: newColumns, order: newOrder}
}

// Drop returns a new DataFrame without the specified columns.
func (df *DataFrame) Drop(names ...string) *DataFrame {
	dropSet := make(map[string]bool, len(names))
	for _, name := range names {
		dropSet[name] = true
	}

	newColumns := make(map[string]ISeries)
	newOrder := make([]string, 0, len(df.order))

	for _, name := range df.order {
		if !dropSet[name] {
			newColumns[name] = df.columns[name]
			newOrder = append(newOrder, name)
		}
	}

	return &DataFrame{columns: newColumns, order: newOrder}
}

// WithColumn returns a new DataFrame with the given series appended, or
// replacing an existing column of the same name. The new column must match
// the row count of a non-empty frame.
func (df *DataFrame) WithColumn(col ISeries) (*DataFrame, error) {
	if df.Len() > 0 && col.Len() != df.Len() {
		return nil, fmt.Errorf("WithColumn %q: length %d does not match frame length %d",
			col.Name(), col.Len(), df.Len())
	}

	newColumns := make(map[string]ISeries, len(df.columns)+1)
	newOrder := make([]string, 0, len(df.order)+1)
	for _, name := range df.order {
		newColumns[name] = df.columns[name]
		newOrder = append(newOrder, name)
	}
	if _, exists := newColumns[col.Name()]; !exists {
		newOrder = append(newOrder, col.Name())
	}
	newColumns[col.Name()] = col

	return &DataFrame{columns: newColumns, order: newOrder}, nil
}

// String returns a schema-style description of the DataFrame.
func (df *DataFrame) String() string {
	if len(df.columns) == 0 {
		return "DataFrame[empty]"
	}

	parts := []string{fmt.Sprintf("DataFrame[%dx%d]", df.Len(), df.Width())}
	for _, name := range df.order {
		parts = append(parts, fmt.Sprintf("  %s: %s", name, df.columns[name].DataType().String()))
	}
	return strings.Join(parts, "\n")
}

// Slice returns rows from start (inclusive) to end (exclusive) as a new
// DataFrame with independent storage.
func (df *DataFrame) Slice(start, end int) *DataFrame {
	length := df.Len()
	if start < 0 || end < 0 || start >= end || start >= length {
		return New()
	}
	if end > length {
		end = length
	}

	indices := make([]int, 0, end-start)
	for i := start; i < end; i++ {
		indices = append(indices, i)
	}
	return df.Take(indices)
}

// Take returns a new DataFrame containing the given row indices, in order.
// Indices may repeat. Out-of-range indices produce zero values.
func (df *DataFrame) Take(indices []int) *DataFrame {
	taken := make([]ISeries, 0, len(df.order))
	for _, name := range df.order {
		taken = append(taken, takeSeries(df.columns[name], indices))
	}
	return New(taken...)
}

// Sort returns a new DataFrame with rows ordered by the named column. The
// sort is stable, so ties keep their original order.
func (df *DataFrame) Sort(name string, ascending bool) (*DataFrame, error) {
	col, ok := df.columns[name]
	if !ok {
		return nil, errors.NewColumnNotFoundError("Sort", name)
	}

	indices := make([]int, df.Len())
	for i := range indices {
		indices[i] = i
	}

	arr := col.Array()
	defer arr.Release()

	var less func(a, b int) bool
	switch typed := arr.(type) {
	case *array.String:
		less = func(a, b int) bool { return typed.Value(a) < typed.Value(b) }
	case *array.Int64:
		less = func(a, b int) bool { return typed.Value(a) < typed.Value(b) }
	case *array.Float64:
		less = func(a, b int) bool { return typed.Value(a) < typed.Value(b) }
	case *array.Boolean:
		less = func(a, b int) bool { return !typed.Value(a) && typed.Value(b) }
	default:
		return nil, errors.NewUnsupportedTypeError("Sort", arr.DataType().String())
	}

	sort.SliceStable(indices, func(a, b int) bool {
		if ascending {
			return less(indices[a], indices[b])
		}
		return less(indices[b], indices[a])
	})

	return df.Take(indices), nil
}

// Concat concatenates DataFrames vertically. All frames must share the same
// column names, order, and types; incompatible input yields an empty frame.
func (df *DataFrame) Concat(others ...*DataFrame) *DataFrame {
	if len(others) == 0 {
		return df
	}

	for _, other := range others {
		if !df.hasSameSchema(other) {
			return New()
		}
	}

	cols := make([]ISeries, 0, len(df.order))
	for _, name := range df.order {
		group := []ISeries{df.columns[name]}
		for _, other := range others {
			group = append(group, other.columns[name])
		}
		cols = append(cols, concatSeries(name, group))
	}
	return New(cols...)
}

// Release releases all underlying Arrow memory.
func (df *DataFrame) Release() {
	for _, s := range df.columns {
		s.Release()
	}
}

func (df *DataFrame) hasSameSchema(other *DataFrame) bool {
	if len(df.order) != len(other.order) {
		return false
	}
	for i, name := range df.order {
		if other.order[i] != name {
			return false
		}
		left, lok := df.columns[name]
		right, rok := other.columns[name]
		if !lok || !rok {
			return false
		}
		lt, rt := safeDataType(left), safeDataType(right)
		if lt == nil || rt == nil || lt.ID() != rt.ID() {
			return false
		}
	}
	return true
}

// takeSeries gathers rows of a series by index into a new series.
func takeSeries(s ISeries, indices []int) ISeries {
	arr := s.Array()
	if arr == nil {
		return series.New(s.Name(), []string{}, memory.NewGoAllocator())
	}
	defer arr.Release()

	mem := memory.NewGoAllocator()

	switch typed := arr.(type) {
	case *array.String:
		return gather(s.Name(), typed.Len(), indices, mem, typed.IsNull, typed.Value)
	case *array.Int64:
		return gather(s.Name(), typed.Len(), indices, mem, typed.IsNull, typed.Value)
	case *array.Float64:
		return gather(s.Name(), typed.Len(), indices, mem, typed.IsNull, typed.Value)
	case *array.Boolean:
		return gather(s.Name(), typed.Len(), indices, mem, typed.IsNull, typed.Value)
	default:
		return series.New(s.Name(), []string{}, mem)
	}
}

// gather builds a typed series from source values at the given indices.
func gather[T any](
	name string, srcLen int, indices []int, mem memory.Allocator,
	isNull func(int) bool, value func(int) T,
) ISeries {
	values := make([]T, len(indices))
	for i, idx := range indices {
		if idx >= 0 && idx < srcLen && !isNull(idx) {
			values[i] = value(idx)
		}
	}
	return series.New(name, values, mem)
}

// concatSeries concatenates same-typed series into one.
func concatSeries(name string, group []ISeries) ISeries {
	mem := memory.NewGoAllocator()
	if len(group) == 0 {
		return series.New(name, []string{}, mem)
	}

	first := group[0].Array()
	defer first.Release()

	switch first.(type) {
	case *array.String:
		return appendAll(name, group, mem, func(arr arrow.Array, i int) string {
			return arr.(*array.String).Value(i)
		})
	case *array.Int64:
		return appendAll(name, group, mem, func(arr arrow.Array, i int) int64 {
			return arr.(*array.Int64).Value(i)
		})
	case *array.Float64:
		return appendAll(name, group, mem, func(arr arrow.Array, i int) float64 {
			return arr.(*array.Float64).Value(i)
		})
	case *array.Boolean:
		return appendAll(name, group, mem, func(arr arrow.Array, i int) bool {
			return arr.(*array.Boolean).Value(i)
		})
	default:
		return series.New(name, []string{}, mem)
	}
}

func appendAll[T any](
	name string, group []ISeries, mem memory.Allocator,
	value func(arrow.Array, int) T,
) ISeries {
	total := 0
	for _, s := range group {
		total += s.Len()
	}

	values := make([]T, 0, total)
	for _, s := range group {
		arr := s.Array()
		for i := 0; i < arr.Len(); i++ {
			if arr.IsNull(i) {
				var zero T
				values = append(values, zero)
				continue
			}
			values = append(values, value(arr, i))
		}
		arr.Release()
	}
	return series.New(name, values, mem)
}

// renameSeries copies a series under a new name and releases the original.
func renameSeries(s ISeries, name string) ISeries {
	arr := s.Array()
	defer arr.Release()
	defer s.Release()

	indices := make([]int, arr.Len())
	for i := range indices {
		indices[i] = i
	}

	mem := memory.NewGoAllocator()
	switch typed := arr.(type) {
	case *array.String:
		return gather(name, typed.Len(), indices, mem, typed.IsNull, typed.Value)
	case *array.Int64:
		return gather(name, typed.Len(), indices, mem, typed.IsNull, typed.Value)
	case *array.Float64:
		return gather(name, typed.Len(), indices, mem, typed.IsNull, typed.Value)
	case *array.Boolean:
		return gather(name, typed.Len(), indices, mem, typed.IsNull, typed.Value)
	default:
		return series.New(name, []string{}, mem)
	}
}

// safeDataType gets a series data type, returning nil when the series has a
// nil backing array.
func safeDataType(s ISeries) (result arrow.DataType) {
	if s == nil {
		return nil
	}
	defer func() {
		if r := recover(); r != nil {
			result = nil
		}
	}()
	return s.DataType()
}
