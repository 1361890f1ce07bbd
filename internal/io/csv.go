package io

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/shotafuji/cartml/internal/dataframe"
	"github.com/shotafuji/cartml/internal/series"
)

const (
	trueStr  = "true"
	falseStr = "false"
)

// inferred column types
const (
	typeBool   = "bool"
	typeInt    = "int"
	typeFloat  = "float"
	typeString = "string"
)

// ReadFile reads a CSV file from path with default options.
func ReadFile(path string) (*dataframe.DataFrame, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	return NewCSVReader(f, DefaultCSVOptions(), memory.NewGoAllocator()).Read()
}

// WriteFile writes a DataFrame to a CSV file at path with default options.
func WriteFile(path string, df *dataframe.DataFrame) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	return NewCSVWriter(f, DefaultCSVOptions()).Write(df)
}

// Read reads CSV data and returns a DataFrame.
func (r *CSVReader) Read() (*dataframe.DataFrame, error) {
	csvReader := csv.NewReader(r.reader)
	csvReader.Comma = r.options.Delimiter
	csvReader.Comment = r.options.Comment
	csvReader.TrimLeadingSpace = r.options.SkipInitialSpace

	records, err := csvReader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading CSV: %w", err)
	}

	if len(records) == 0 {
		return dataframe.New(), nil
	}

	var headers []string
	var dataRows [][]string

	if r.options.Header {
		headers = records[0]
		if len(records) > 1 {
			dataRows = records[1:]
		}
	} else {
		numCols := len(records[0])
		headers = make([]string, numCols)
		for i := 0; i < numCols; i++ {
			headers[i] = fmt.Sprintf("column_%d", i)
		}
		dataRows = records
	}

	if len(dataRows) == 0 {
		var empty []dataframe.ISeries
		for _, header := range headers {
			s, err := series.NewSafe(header, []string{}, r.mem)
			if err != nil {
				return nil, fmt.Errorf("creating empty series for column %s: %w", header, err)
			}
			empty = append(empty, s)
		}
		return dataframe.New(empty...), nil
	}

	// Transpose rows into columns.
	numCols := len(headers)
	columns := make([][]string, numCols)
	for i := 0; i < numCols; i++ {
		columns[i] = make([]string, len(dataRows))
		for j, row := range dataRows {
			if i < len(row) {
				columns[i][j] = row[i]
			}
		}
	}

	var cols []dataframe.ISeries
	for i, header := range headers {
		s, err := r.createSeriesFromStrings(header, columns[i])
		if err != nil {
			return nil, fmt.Errorf("creating series for column %s: %w", header, err)
		}
		cols = append(cols, s)
	}

	return dataframe.New(cols...), nil
}

// createSeriesFromStrings creates a series from string data, inferring the type.
func (r *CSVReader) createSeriesFromStrings(name string, data []string) (dataframe.ISeries, error) {
	switch inferDataType(data) {
	case typeBool:
		boolData := make([]bool, len(data))
		for i, value := range data {
			boolData[i] = strings.EqualFold(value, trueStr)
		}
		return series.NewSafe(name, boolData, r.mem)
	case typeInt:
		intData := make([]int64, len(data))
		for i, value := range data {
			if value != "" {
				v, _ := strconv.ParseInt(value, 10, 64)
				intData[i] = v
			}
		}
		return series.NewSafe(name, intData, r.mem)
	case typeFloat:
		floatData := make([]float64, len(data))
		for i, value := range data {
			if value != "" {
				v, _ := strconv.ParseFloat(value, 64)
				floatData[i] = v
			}
		}
		return series.NewSafe(name, floatData, r.mem)
	default:
		return series.NewSafe(name, data, r.mem)
	}
}

// inferDataType determines the most specific type the string data fits.
func inferDataType(data []string) string {
	canBeInt := true
	canBeFloat := true
	canBeBool := true
	hasNonEmptyValue := false

	for _, value := range data {
		if value == "" {
			continue // empty values do not constrain the type
		}
		hasNonEmptyValue = true

		if canBeBool {
			lower := strings.ToLower(value)
			if lower != trueStr && lower != falseStr {
				canBeBool = false
			}
		}
		if canBeInt {
			if _, err := strconv.ParseInt(value, 10, 64); err != nil {
				canBeInt = false
			}
		}
		if canBeFloat {
			if _, err := strconv.ParseFloat(value, 64); err != nil {
				canBeFloat = false
			}
		}
	}

	if !hasNonEmptyValue {
		return typeString
	}
	if canBeBool {
		return typeBool
	}
	if canBeInt {
		return typeInt
	}
	if canBeFloat {
		return typeFloat
	}
	return typeString
}

// Write writes the DataFrame as CSV.
func (w *CSVWriter) Write(df *dataframe.DataFrame) error {
	csvWriter := csv.NewWriter(w.writer)
	csvWriter.Comma = w.options.Delimiter
	defer csvWriter.Flush()

	if w.options.Header {
		if err := csvWriter.Write(df.Columns()); err != nil {
			return fmt.Errorf("writing headers: %w", err)
		}
	}

	names := df.Columns()
	for i := 0; i < df.Len(); i++ {
		row := make([]string, df.Width())
		for j, name := range names {
			column, ok := df.Column(name)
			if !ok {
				continue
			}
			row[j] = valueAsString(column, i)
		}
		if err := csvWriter.Write(row); err != nil {
			return fmt.Errorf("writing row %d: %w", i, err)
		}
	}

	return csvWriter.Error()
}

// valueAsString renders the value of a column at index as CSV text.
func valueAsString(column dataframe.ISeries, index int) string {
	arr := column.Array()
	defer arr.Release()

	if arr.IsNull(index) {
		return ""
	}

	switch typed := arr.(type) {
	case *array.String:
		return typed.Value(index)
	case *array.Int64:
		return strconv.FormatInt(typed.Value(index), 10)
	case *array.Float64:
		return strconv.FormatFloat(typed.Value(index), 'g', -1, 64)
	case *array.Boolean:
		return strconv.FormatBool(typed.Value(index))
	default:
		return ""
	}
}
