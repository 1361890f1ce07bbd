package pipeline

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shotafuji/cartml/internal/config"
	csvio "github.com/shotafuji/cartml/internal/io"
	"github.com/shotafuji/cartml/internal/series"
)

// writeCustomersCSV writes a learnable customer table: purchase follows
// income with a clean threshold.
func writeCustomersCSV(t *testing.T, path string, rows int) {
	t.Helper()

	var b strings.Builder
	b.WriteString("age,income,gender,purchased\n")
	for i := 0; i < rows; i++ {
		gender := "male"
		if i%2 == 1 {
			gender = "female"
		}
		income := 20000 + 1000*i
		purchased := 0
		if income > 20000+1000*rows/2 {
			purchased = 1
		}
		fmt.Fprintf(&b, "%d,%d,%s,%d\n", 20+i%40, income, gender, purchased)
	}
	require.NoError(t, os.WriteFile(path, []byte(b.String()), 0o644))
}

func testConfig(t *testing.T, rows int) config.Config {
	t.Helper()

	dir := t.TempDir()
	cfg := config.New()
	cfg.CustomerCSV = filepath.Join(dir, "customers.csv")
	cfg.WorkDir = filepath.Join(dir, "out")
	cfg.Folds = 3
	cfg.TestRatio = 0.25
	writeCustomersCSV(t, cfg.CustomerCSV, rows)
	return cfg
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestPrepare(t *testing.T) {
	cfg := testConfig(t, 20)
	r := NewRunner(cfg, quietLogger())

	require.NoError(t, r.Prepare())

	for _, path := range []string{cfg.CustomersWithIDPath(), cfg.BMIPath(), cfg.MergedPath()} {
		_, err := os.Stat(path)
		require.NoError(t, err, path)
	}

	merged, err := csvio.ReadFile(cfg.MergedPath())
	require.NoError(t, err)
	defer merged.Release()

	require.Equal(t, 20, merged.Len())
	require.True(t, merged.HasColumn("customer_id"))
	require.True(t, merged.HasColumn("bmi"))

	idCol, _ := merged.Column("customer_id")
	ids := idCol.(*series.Series[int64]).Values()
	seen := make(map[int64]bool, len(ids))
	for _, id := range ids {
		assert.GreaterOrEqual(t, id, int64(1))
		assert.LessOrEqual(t, id, int64(20))
		assert.False(t, seen[id], "duplicate id %d", id)
		seen[id] = true
	}

	bmiCol, _ := merged.Column("bmi")
	for _, v := range bmiCol.(*series.Series[float64]).Values() {
		assert.GreaterOrEqual(t, v, cfg.BMIMin)
		assert.Less(t, v, cfg.BMIMax)
	}
}

func TestPrepareMissingInput(t *testing.T) {
	cfg := config.New()
	cfg.CustomerCSV = filepath.Join(t.TempDir(), "nope.csv")
	cfg.WorkDir = t.TempDir()

	err := NewRunner(cfg, quietLogger()).Prepare()
	require.Error(t, err)
}

func TestTrainAndPredict(t *testing.T) {
	if testing.Short() {
		t.Skip("full training run")
	}

	cfg := testConfig(t, 60)
	r := NewRunner(cfg, quietLogger())

	require.NoError(t, r.Prepare())

	result, err := r.Train()
	require.NoError(t, err)
	require.NotNil(t, result.Best)
	require.Len(t, result.Scores, 3)
	assert.NotEmpty(t, result.RunID)

	// Income cleanly determines the label, so the winner should do well.
	best := result.Best
	for _, s := range result.Scores {
		if s.Family == best.Family {
			assert.Greater(t, s.F1, 0.6)
		}
	}

	// Report and saved pipeline are on disk.
	report, err := os.ReadFile(cfg.ReportPath())
	require.NoError(t, err)
	assert.Contains(t, string(report), "best:")
	assert.Contains(t, string(report), string(best.Family))

	_, err = os.Stat(cfg.ChartPath())
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(cfg.PipelineDir(), "pipeline.yaml"))
	require.NoError(t, err)

	t.Run("predict from saved pipeline", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, r.Predict(DemoCustomers(), &buf))

		out := buf.String()
		assert.Contains(t, out, string(best.Family))
		assert.Equal(t, 10, strings.Count(out, "p="))
	})
}

func TestPredictWithoutSavedPipeline(t *testing.T) {
	cfg := config.New()
	cfg.WorkDir = t.TempDir()

	var buf bytes.Buffer
	err := NewRunner(cfg, quietLogger()).Predict(DemoCustomers(), &buf)
	require.Error(t, err)
}

func TestDemoCustomers(t *testing.T) {
	customers := DemoCustomers()
	require.Len(t, customers, 10)
	for _, c := range customers {
		assert.Contains(t, []string{"male", "female"}, c.Gender)
		assert.Greater(t, c.BMI, 0.0)
	}
}
