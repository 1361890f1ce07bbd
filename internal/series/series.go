// Package series provides typed column storage backed by Apache Arrow.
package series

import (
	"fmt"
	"reflect"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
)

// Series is a named, typed data column stored as an Arrow array.
// Supported element types: string, int64, float64, bool.
type Series[T any] struct {
	name  string
	array arrow.Array
}

// New creates a Series from a slice of values. It panics on unsupported
// element types; use NewSafe when the type is not statically known.
func New[T any](name string, values []T, mem memory.Allocator) *Series[T] {
	s, err := NewSafe(name, values, mem)
	if err != nil {
		panic(err)
	}
	return s
}

// NewSafe creates a Series from a slice of values, returning an error for
// unsupported element types.
func NewSafe[T any](name string, values []T, mem memory.Allocator) (*Series[T], error) {
	if mem == nil {
		mem = memory.NewGoAllocator()
	}

	var arr arrow.Array

	switch v := any(values).(type) {
	case []string:
		builder := array.NewStringBuilder(mem)
		defer builder.Release()
		builder.AppendValues(v, nil)
		arr = builder.NewArray()
	case []int64:
		builder := array.NewInt64Builder(mem)
		defer builder.Release()
		builder.AppendValues(v, nil)
		arr = builder.NewArray()
	case []float64:
		builder := array.NewFloat64Builder(mem)
		defer builder.Release()
		builder.AppendValues(v, nil)
		arr = builder.NewArray()
	case []bool:
		builder := array.NewBooleanBuilder(mem)
		defer builder.Release()
		builder.AppendValues(v, nil)
		arr = builder.NewArray()
	default:
		return nil, fmt.Errorf("series: unsupported element type %T", values)
	}

	return &Series[T]{name: name, array: arr}, nil
}

// Name returns the column name.
func (s *Series[T]) Name() string {
	return s.name
}

// Len returns the number of elements in the series.
func (s *Series[T]) Len() int {
	return s.array.Len()
}

// Values copies the column data out as a Go slice.
func (s *Series[T]) Values() []T {
	result := make([]T, s.array.Len())

	switch arr := s.array.(type) {
	case *array.String:
		values := any(result).([]string)
		for i := 0; i < arr.Len(); i++ {
			values[i] = arr.Value(i)
		}
	case *array.Int64:
		values := any(result).([]int64)
		for i := 0; i < arr.Len(); i++ {
			values[i] = arr.Value(i)
		}
	case *array.Float64:
		values := any(result).([]float64)
		for i := 0; i < arr.Len(); i++ {
			values[i] = arr.Value(i)
		}
	case *array.Boolean:
		values := any(result).([]bool)
		for i := 0; i < arr.Len(); i++ {
			values[i] = arr.Value(i)
		}
	default:
		panic(fmt.Sprintf("series: unsupported array type %T", arr))
	}

	return result
}

// Value returns the element at index, or the zero value when out of range.
func (s *Series[T]) Value(index int) T {
	var result T
	if index < 0 || index >= s.array.Len() {
		return result
	}

	switch arr := s.array.(type) {
	case *array.String:
		if v, ok := any(&result).(*string); ok {
			*v = arr.Value(index)
		}
	case *array.Int64:
		if v, ok := any(&result).(*int64); ok {
			*v = arr.Value(index)
		}
	case *array.Float64:
		if v, ok := any(&result).(*float64); ok {
			*v = arr.Value(index)
		}
	case *array.Boolean:
		if v, ok := any(&result).(*bool); ok {
			*v = arr.Value(index)
		}
	}

	return result
}

// DataType returns the Arrow data type of the column.
func (s *Series[T]) DataType() arrow.DataType {
	return s.array.DataType()
}

// IsNull reports whether the value at index is null.
func (s *Series[T]) IsNull(index int) bool {
	return s.array.IsNull(index)
}

// String returns a short description of the series.
func (s *Series[T]) String() string {
	return fmt.Sprintf("Series[%s]: %s (len=%d)",
		reflect.TypeOf(new(T)).Elem().Name(), s.name, s.Len())
}

// Array returns the underlying Arrow array (retains a reference).
func (s *Series[T]) Array() arrow.Array {
	if s.array != nil {
		s.array.Retain()
		return s.array
	}
	return nil
}

// Release releases the underlying Arrow memory.
func (s *Series[T]) Release() {
	if s.array != nil {
		s.array.Release()
	}
}
