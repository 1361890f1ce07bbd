// Package feature turns the merged customer table into the numeric matrix
// the classifiers consume: categorical indexing, column assembly, and
// standardization, chained behind a fit/transform Featurizer.
package feature

import (
	"fmt"

	"github.com/shotafuji/cartml/internal/errors"
)

// StringIndexer maps string categories to float64 codes in first-seen order.
type StringIndexer struct {
	Column string   `yaml:"column"`
	Labels []string `yaml:"labels"` // code i maps to Labels[i]

	index map[string]int
}

// NewStringIndexer creates an indexer for the named column.
func NewStringIndexer(column string) *StringIndexer {
	return &StringIndexer{Column: column}
}

// Fit learns the category set from values.
func (si *StringIndexer) Fit(values []string) {
	si.Labels = si.Labels[:0]
	si.index = make(map[string]int)
	for _, v := range values {
		if _, ok := si.index[v]; !ok {
			si.index[v] = len(si.Labels)
			si.Labels = append(si.Labels, v)
		}
	}
}

// Transform maps values to their codes. Unseen categories are an error.
func (si *StringIndexer) Transform(values []string) ([]float64, error) {
	if si.index == nil {
		si.rebuildIndex()
	}
	if len(si.Labels) == 0 {
		return nil, errors.ErrNotFitted
	}

	out := make([]float64, len(values))
	for i, v := range values {
		code, ok := si.index[v]
		if !ok {
			return nil, &errors.PipelineError{
				Op:      "StringIndexer.Transform",
				Column:  si.Column,
				Message: fmt.Sprintf("unseen category %q", v),
			}
		}
		out[i] = float64(code)
	}
	return out, nil
}

// rebuildIndex restores the lookup map after deserialization, where only
// Labels survives.
func (si *StringIndexer) rebuildIndex() {
	si.index = make(map[string]int, len(si.Labels))
	for i, label := range si.Labels {
		si.index[label] = i
	}
}
