package eval

import (
	"sort"

	"github.com/shotafuji/cartml/internal/model"
)

// Grid maps hyperparameter names to the candidate values to try.
type Grid map[string][]float64

// Expand returns the cartesian product of the grid as parameter sets, in a
// deterministic order (parameter names sorted, values in declared order).
func (g Grid) Expand() []model.Params {
	names := make([]string, 0, len(g))
	for name := range g {
		names = append(names, name)
	}
	sort.Strings(names)

	combos := []model.Params{{}}
	for _, name := range names {
		values := g[name]
		if len(values) == 0 {
			continue
		}
		next := make([]model.Params, 0, len(combos)*len(values))
		for _, combo := range combos {
			for _, v := range values {
				expanded := make(model.Params, len(combo)+1)
				for k, cv := range combo {
					expanded[k] = cv
				}
				expanded[name] = v
				next = append(next, expanded)
			}
		}
		combos = next
	}
	return combos
}

// DefaultGrids returns the hyperparameter search space per classifier
// family.
func DefaultGrids() map[model.Family]Grid {
	return map[model.Family]Grid{
		model.LogisticRegressionFamily: {
			"learning_rate": {0.01, 0.1},
			"epochs":        {50, 150},
		},
		model.DecisionTreeFamily: {
			"max_depth":         {3, 5, 10},
			"min_samples_split": {2, 10},
		},
		model.RandomForestFamily: {
			"n_estimators": {20, 50},
			"max_depth":    {5, 10},
		},
	}
}
