package persist

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shotafuji/cartml/internal/dataframe"
	"github.com/shotafuji/cartml/internal/feature"
	"github.com/shotafuji/cartml/internal/model"
	"github.com/shotafuji/cartml/internal/series"
)

func fittedArtifact(t *testing.T) (*Artifact, *dataframe.DataFrame) {
	t.Helper()

	mem := memory.NewGoAllocator()
	df := dataframe.New(
		series.New("age", []int64{20, 30, 40, 50}, mem),
		series.New("gender", []string{"male", "female", "male", "female"}, mem),
	)

	featurizer := feature.NewFeaturizer([]feature.Spec{
		{Column: "age"},
		{Column: "gender", Categorical: true},
	})
	x, err := featurizer.Fit(df)
	require.NoError(t, err)

	clf, err := model.New(model.LogisticRegressionFamily, model.Params{"epochs": 50}, 42)
	require.NoError(t, err)
	require.NoError(t, clf.Fit(x, []int{0, 0, 1, 1}))

	return &Artifact{
		RunID:      "run-123",
		CreatedAt:  time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
		Family:     model.LogisticRegressionFamily,
		Params:     model.Params{"epochs": 50},
		Featurizer: featurizer,
		Model:      clf,
	}, df
}

func TestSaveLoadRoundTrip(t *testing.T) {
	art, df := fittedArtifact(t)
	defer df.Release()

	dir := filepath.Join(t.TempDir(), "best_pipeline")
	require.NoError(t, Save(dir, art))

	// Both artifact files exist.
	_, err := os.Stat(filepath.Join(dir, "pipeline.yaml"))
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, "model.bin"))
	require.NoError(t, err)

	back, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, art.RunID, back.RunID)
	assert.Equal(t, art.Family, back.Family)
	assert.Equal(t, art.Params, back.Params)
	assert.True(t, art.CreatedAt.Equal(back.CreatedAt))

	// The reloaded pipeline scores identically to the original.
	x, err := art.Featurizer.Transform(df)
	require.NoError(t, err)
	xBack, err := back.Featurizer.Transform(df)
	require.NoError(t, err)
	assert.Equal(t, x, xBack)
	assert.Equal(t, art.Model.PredictProba(x), back.Model.PredictProba(xBack))
}

func TestSaveLoadEachFamily(t *testing.T) {
	x := [][]float64{{-2, 0}, {-1, 1}, {1, 0}, {2, 1}, {-1.5, 0}, {1.5, 1}}
	y := []int{0, 0, 1, 1, 0, 1}

	featurizer := feature.NewFeaturizer([]feature.Spec{{Column: "a"}, {Column: "b"}})
	featurizer.Scaler = feature.NewStandardScaler()
	_, err := featurizer.Scaler.FitTransform(x)
	require.NoError(t, err)

	for _, family := range model.Families() {
		t.Run(string(family), func(t *testing.T) {
			clf, err := model.New(family, model.Params{"n_estimators": 5, "epochs": 30}, 1)
			require.NoError(t, err)
			require.NoError(t, clf.Fit(x, y))

			dir := t.TempDir()
			require.NoError(t, Save(dir, &Artifact{
				RunID:      "r",
				CreatedAt:  time.Now().UTC(),
				Family:     family,
				Featurizer: featurizer,
				Model:      clf,
			}))

			back, err := Load(dir)
			require.NoError(t, err)
			assert.Equal(t, clf.Predict(x), back.Model.Predict(x))
		})
	}
}

func TestSaveIncompleteArtifact(t *testing.T) {
	dir := t.TempDir()

	assert.Error(t, Save(dir, nil))
	assert.Error(t, Save(dir, &Artifact{}))
}

func TestLoadMissingDir(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope"))
	require.Error(t, err)
}
