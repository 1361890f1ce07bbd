package feature

import (
	"github.com/shotafuji/cartml/internal/dataframe"
	"github.com/shotafuji/cartml/internal/errors"
)

// Spec names one input column and whether it is categorical.
type Spec struct {
	Column      string `yaml:"column"`
	Categorical bool   `yaml:"categorical"`
}

// Featurizer converts a DataFrame into a standardized feature matrix. It
// chains string indexing, column assembly, and scaling, in declared column
// order.
type Featurizer struct {
	Specs    []Spec                    `yaml:"specs"`
	Indexers map[string]*StringIndexer `yaml:"indexers"`
	Scaler   *StandardScaler           `yaml:"scaler"`
}

// NewFeaturizer creates a featurizer for the given column specs.
func NewFeaturizer(specs []Spec) *Featurizer {
	return &Featurizer{
		Specs:    specs,
		Indexers: make(map[string]*StringIndexer),
		Scaler:   NewStandardScaler(),
	}
}

// Columns returns the feature column names in order.
func (f *Featurizer) Columns() []string {
	names := make([]string, len(f.Specs))
	for i, spec := range f.Specs {
		names[i] = spec.Column
	}
	return names
}

// Fit learns indexers and scaling statistics from df and returns the
// standardized feature matrix.
func (f *Featurizer) Fit(df *dataframe.DataFrame) ([][]float64, error) {
	if df.Len() == 0 {
		return nil, errors.ErrEmptyFrame
	}
	if f.Indexers == nil {
		f.Indexers = make(map[string]*StringIndexer)
	}

	raw, err := f.assembleRaw(df, true)
	if err != nil {
		return nil, err
	}
	return f.Scaler.FitTransform(raw)
}

// Transform applies the fitted featurizer to df.
func (f *Featurizer) Transform(df *dataframe.DataFrame) ([][]float64, error) {
	raw, err := f.assembleRaw(df, false)
	if err != nil {
		return nil, err
	}
	return f.Scaler.Transform(raw)
}

func (f *Featurizer) assembleRaw(df *dataframe.DataFrame, fit bool) ([][]float64, error) {
	columns := make([][]float64, 0, len(f.Specs))
	for _, spec := range f.Specs {
		if !spec.Categorical {
			col, err := FloatColumn(df, spec.Column)
			if err != nil {
				return nil, err
			}
			columns = append(columns, col)
			continue
		}

		values, err := StringColumn(df, spec.Column)
		if err != nil {
			return nil, err
		}
		indexer, ok := f.Indexers[spec.Column]
		if !ok {
			if !fit {
				return nil, errors.ErrNotFitted
			}
			indexer = NewStringIndexer(spec.Column)
			f.Indexers[spec.Column] = indexer
		}
		if fit {
			indexer.Fit(values)
		}
		codes, err := indexer.Transform(values)
		if err != nil {
			return nil, err
		}
		columns = append(columns, codes)
	}
	return assemble(columns), nil
}
