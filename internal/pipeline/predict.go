package pipeline

import (
	"fmt"
	"io"

	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/shotafuji/cartml/internal/dataframe"
	"github.com/shotafuji/cartml/internal/errors"
	"github.com/shotafuji/cartml/internal/persist"
	"github.com/shotafuji/cartml/internal/series"
)

// Customer is one inference row for the demo prediction step.
type Customer struct {
	Age    int64
	Income float64
	Gender string
	BMI    float64
}

// DemoCustomers returns the ten fixed rows the predict stage scores.
func DemoCustomers() []Customer {
	return []Customer{
		{Age: 23, Income: 21000, Gender: "male", BMI: 22.1},
		{Age: 31, Income: 48000, Gender: "female", BMI: 27.4},
		{Age: 45, Income: 86000, Gender: "male", BMI: 30.2},
		{Age: 28, Income: 35000, Gender: "female", BMI: 19.8},
		{Age: 52, Income: 99000, Gender: "male", BMI: 33.6},
		{Age: 37, Income: 62000, Gender: "female", BMI: 24.9},
		{Age: 19, Income: 15000, Gender: "male", BMI: 21.3},
		{Age: 60, Income: 74000, Gender: "female", BMI: 28.7},
		{Age: 41, Income: 57000, Gender: "male", BMI: 26.5},
		{Age: 34, Income: 44000, Gender: "female", BMI: 23.0},
	}
}

// Predict reloads the saved pipeline and scores the given rows, writing
// predictions to out.
func (r *Runner) Predict(customers []Customer, out io.Writer) error {
	art, err := persist.Load(r.cfg.PipelineDir())
	if err != nil {
		return errors.NewStageError("predict", "LoadPipeline", err)
	}
	r.log.Info("loaded pipeline", "run_id", art.RunID, "family", art.Family)

	df := customersFrame(customers)
	defer df.Release()

	x, err := art.Featurizer.Transform(df)
	if err != nil {
		return errors.NewStageError("predict", "Featurize", err)
	}

	labels := art.Model.Predict(x)
	proba := art.Model.PredictProba(x)

	fmt.Fprintf(out, "predictions (%s)\n", art.Family)
	for i, c := range customers {
		verdict := "no purchase"
		if labels[i] == 1 {
			verdict = "purchase"
		}
		fmt.Fprintf(out, "  age=%-3d income=%-8.0f gender=%-6s bmi=%-5.1f -> %s (p=%.3f)\n",
			c.Age, c.Income, c.Gender, c.BMI, verdict, proba[i])
	}
	return nil
}

// customersFrame builds a DataFrame matching the training feature columns.
func customersFrame(customers []Customer) *dataframe.DataFrame {
	n := len(customers)
	ages := make([]int64, n)
	incomes := make([]float64, n)
	genders := make([]string, n)
	bmis := make([]float64, n)
	for i, c := range customers {
		ages[i] = c.Age
		incomes[i] = c.Income
		genders[i] = c.Gender
		bmis[i] = c.BMI
	}

	mem := memory.NewGoAllocator()
	return dataframe.New(
		series.New("age", ages, mem),
		series.New("income", incomes, mem),
		series.New("gender", genders, mem),
		series.New("bmi", bmis, mem),
	)
}
