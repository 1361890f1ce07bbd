// Package pipeline orchestrates the end-to-end run: data preparation and
// merging, featurization, model selection with cross-validation, metric
// reporting, and persistence of the winning pipeline.
package pipeline

import (
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/google/uuid"

	"github.com/shotafuji/cartml/internal/chart"
	"github.com/shotafuji/cartml/internal/config"
	"github.com/shotafuji/cartml/internal/dataframe"
	"github.com/shotafuji/cartml/internal/errors"
	"github.com/shotafuji/cartml/internal/eval"
	"github.com/shotafuji/cartml/internal/feature"
	csvio "github.com/shotafuji/cartml/internal/io"
	"github.com/shotafuji/cartml/internal/model"
	"github.com/shotafuji/cartml/internal/parallel"
	"github.com/shotafuji/cartml/internal/persist"
	"github.com/shotafuji/cartml/internal/synth"
)

// Runner drives the pipeline stages for one configuration.
type Runner struct {
	cfg config.Config
	log *slog.Logger
}

// NewRunner creates a Runner. A nil logger falls back to slog.Default.
func NewRunner(cfg config.Config, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{cfg: cfg, log: logger}
}

// Prepare loads the customer table, appends the sequential identifier,
// synthesizes the BMI table, writes both as intermediate CSVs, then reloads
// and joins them into the merged table.
func (r *Runner) Prepare() error {
	if err := os.MkdirAll(r.cfg.WorkDir, 0o755); err != nil {
		return errors.NewStageError("prepare", "MkdirAll", err)
	}

	customers, err := csvio.ReadFile(r.cfg.CustomerCSV)
	if err != nil {
		return errors.NewStageError("prepare", "ReadCustomers", err)
	}
	defer customers.Release()
	r.log.Info("loaded customer table", "rows", customers.Len(), "columns", customers.Width())

	withID, err := synth.WithSequentialID(customers)
	if err != nil {
		return err
	}
	if err := csvio.WriteFile(r.cfg.CustomersWithIDPath(), withID); err != nil {
		return errors.NewStageError("prepare", "WriteCustomersWithID", err)
	}

	bmi, err := synth.BMITable(withID.Len(), r.cfg.BMIMin, r.cfg.BMIMax, r.cfg.Seed)
	if err != nil {
		return err
	}
	defer bmi.Release()
	if err := csvio.WriteFile(r.cfg.BMIPath(), bmi); err != nil {
		return errors.NewStageError("prepare", "WriteBMI", err)
	}
	r.log.Info("synthesized BMI table", "rows", bmi.Len(), "min", r.cfg.BMIMin, "max", r.cfg.BMIMax)

	// Round-trip through the intermediate files, as downstream stages do.
	left, err := csvio.ReadFile(r.cfg.CustomersWithIDPath())
	if err != nil {
		return errors.NewStageError("prepare", "ReadCustomersWithID", err)
	}
	defer left.Release()
	right, err := csvio.ReadFile(r.cfg.BMIPath())
	if err != nil {
		return errors.NewStageError("prepare", "ReadBMI", err)
	}
	defer right.Release()

	merged, err := left.Join(right, &dataframe.JoinOptions{
		Type:     dataframe.InnerJoin,
		LeftKey:  synth.IDColumn,
		RightKey: synth.IDColumn,
	})
	if err != nil {
		return errors.NewStageError("prepare", "Join", err)
	}
	defer merged.Release()

	if err := csvio.WriteFile(r.cfg.MergedPath(), merged); err != nil {
		return errors.NewStageError("prepare", "WriteMerged", err)
	}
	r.log.Info("merged tables", "rows", merged.Len(), "path", r.cfg.MergedPath())
	return nil
}

// TrainResult summarizes a training run.
type TrainResult struct {
	RunID  string
	Scores []eval.Score
	Best   *persist.Artifact
}

// Train featurizes the merged table, grid-searches each classifier family
// with k-fold cross-validation, evaluates the winners on the held-out test
// split, and persists the best pipeline. Report, chart, and persistence
// failures are logged and skipped, not fatal.
func (r *Runner) Train() (*TrainResult, error) {
	df, err := csvio.ReadFile(r.cfg.MergedPath())
	if err != nil {
		return nil, errors.NewStageError("train", "ReadMerged", err)
	}
	defer df.Release()

	specs, err := featureSpecs(df, r.cfg.LabelColumn)
	if err != nil {
		return nil, err
	}

	trainIdx, testIdx, err := eval.SplitIndices(df.Len(), r.cfg.TestRatio, r.cfg.Seed)
	if err != nil {
		return nil, errors.NewStageError("train", "Split", err)
	}
	trainDF := df.Take(trainIdx)
	defer trainDF.Release()
	testDF := df.Take(testIdx)
	defer testDF.Release()

	featurizer := feature.NewFeaturizer(specs)
	trainX, err := featurizer.Fit(trainDF)
	if err != nil {
		return nil, errors.NewStageError("train", "Featurize", err)
	}
	testX, err := featurizer.Transform(testDF)
	if err != nil {
		return nil, errors.NewStageError("train", "Featurize", err)
	}
	trainY, err := feature.IntLabels(trainDF, r.cfg.LabelColumn)
	if err != nil {
		return nil, err
	}
	testY, err := feature.IntLabels(testDF, r.cfg.LabelColumn)
	if err != nil {
		return nil, err
	}

	r.log.Info("featurized", "features", featurizer.Columns(),
		"train_rows", len(trainX), "test_rows", len(testX))

	wp := parallel.NewWorkerPool(r.cfg.WorkerPoolSize)
	defer wp.Close()

	result := &TrainResult{RunID: uuid.NewString()}
	grids := eval.DefaultGrids()
	bestScore := -1.0

	for _, family := range model.Families() {
		params, cvScore, err := eval.GridSearch(wp, family, grids[family], trainX, trainY, r.cfg.Folds, r.cfg.Seed)
		if err != nil {
			return nil, err
		}
		r.log.Info("grid search done", "family", family, "cv_f1", cvScore, "params", params)

		score, clf, err := eval.Evaluate(family, params, trainX, trainY, testX, testY, r.cfg.Seed)
		if err != nil {
			return nil, err
		}
		r.log.Info("evaluated", "family", family,
			"precision", score.Precision, "recall", score.Recall, "f1", score.F1)
		result.Scores = append(result.Scores, score)

		if score.F1 > bestScore {
			bestScore = score.F1
			result.Best = &persist.Artifact{
				RunID:      result.RunID,
				CreatedAt:  time.Now().UTC(),
				Family:     family,
				Params:     params,
				Featurizer: featurizer,
				Model:      clf,
			}
		}
	}

	if err := r.writeReport(result); err != nil {
		r.log.Error("writing metrics report failed", "error", err)
	}
	if err := chart.RenderScores(r.cfg.ChartPath(), result.Scores); err != nil {
		r.log.Error("rendering chart failed", "error", err)
	}
	if err := persist.Save(r.cfg.PipelineDir(), result.Best); err != nil {
		r.log.Error("saving best pipeline failed", "error", err)
	} else {
		r.log.Info("saved best pipeline", "dir", r.cfg.PipelineDir(),
			"family", result.Best.Family)
	}

	return result, nil
}

// writeReport renders the metrics text file.
func (r *Runner) writeReport(result *TrainResult) error {
	var b strings.Builder
	fmt.Fprintf(&b, "run %s\n", result.RunID)
	fmt.Fprintf(&b, "generated %s\n\n", time.Now().UTC().Format(time.RFC3339))
	fmt.Fprintf(&b, "%-22s %9s %9s %9s %9s\n", "model", "precision", "recall", "f1", "accuracy")
	for _, s := range result.Scores {
		fmt.Fprintf(&b, "%-22s %9.4f %9.4f %9.4f %9.4f\n",
			s.Family, s.Precision, s.Recall, s.F1, s.Accuracy)
	}
	if result.Best != nil {
		fmt.Fprintf(&b, "\nbest: %s %s\n", result.Best.Family, formatParams(result.Best.Params))
	}
	return os.WriteFile(r.cfg.ReportPath(), []byte(b.String()), 0o644)
}

func formatParams(params map[string]float64) string {
	names := make([]string, 0, len(params))
	for name := range params {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s=%g", name, params[name]))
	}
	return strings.Join(parts, " ")
}

// featureSpecs derives the feature columns from the merged table: every
// column except the identifier and the label, categorical when the column
// holds strings.
func featureSpecs(df *dataframe.DataFrame, label string) ([]feature.Spec, error) {
	if !df.HasColumn(label) {
		return nil, errors.NewColumnNotFoundError("featureSpecs", label)
	}

	var specs []feature.Spec
	for _, name := range df.Columns() {
		if name == label || name == synth.IDColumn {
			continue
		}
		col, _ := df.Column(name)
		specs = append(specs, feature.Spec{
			Column:      name,
			Categorical: col.DataType().ID() == arrow.STRING,
		})
	}
	if len(specs) == 0 {
		return nil, errors.NewInvalidInputError("featureSpecs", "no feature columns found")
	}
	return specs, nil
}
