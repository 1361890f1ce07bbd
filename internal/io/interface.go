// Package io reads and writes DataFrame data as CSV.
//
// The reader infers a column type (bool, int64, float64, string) from the
// data and builds typed series; the writer renders values back to text.
// All operations integrate with Arrow memory management and expect the
// usual defer-Release discipline from callers.
package io

import (
	"io"

	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/shotafuji/cartml/internal/dataframe"
)

// DataReader reads tabular data from a source into a DataFrame.
type DataReader interface {
	Read() (*dataframe.DataFrame, error)
}

// DataWriter writes a DataFrame to a destination.
type DataWriter interface {
	Write(df *dataframe.DataFrame) error
}

// CSVOptions contains configuration options for CSV operations.
type CSVOptions struct {
	// Delimiter is the field delimiter (default: comma)
	Delimiter rune
	// Comment is the comment character (default: 0 = disabled)
	Comment rune
	// Header indicates whether the first row contains headers
	Header bool
	// SkipInitialSpace indicates whether to skip initial whitespace
	SkipInitialSpace bool
}

// DefaultCSVOptions returns default CSV options.
func DefaultCSVOptions() CSVOptions {
	return CSVOptions{
		Delimiter: ',',
		Comment:   0,
		Header:    true,
	}
}

// CSVReader reads CSV data and converts it to DataFrames.
type CSVReader struct {
	reader  io.Reader
	options CSVOptions
	mem     memory.Allocator
}

// NewCSVReader creates a new CSV reader with the specified options.
func NewCSVReader(reader io.Reader, options CSVOptions, mem memory.Allocator) *CSVReader {
	return &CSVReader{
		reader:  reader,
		options: options,
		mem:     mem,
	}
}

// CSVWriter writes DataFrames to CSV format.
type CSVWriter struct {
	writer  io.Writer
	options CSVOptions
}

// NewCSVWriter creates a new CSV writer with the specified options.
func NewCSVWriter(writer io.Writer, options CSVOptions) *CSVWriter {
	return &CSVWriter{
		writer:  writer,
		options: options,
	}
}
