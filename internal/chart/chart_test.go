package chart

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shotafuji/cartml/internal/eval"
	"github.com/shotafuji/cartml/internal/model"
)

func TestRenderScores(t *testing.T) {
	scores := []eval.Score{
		{Family: model.LogisticRegressionFamily, Precision: 0.9, Recall: 0.8, F1: 0.85},
		{Family: model.DecisionTreeFamily, Precision: 0.7, Recall: 0.9, F1: 0.79},
		{Family: model.RandomForestFamily, Precision: 0.88, Recall: 0.86, F1: 0.87},
	}

	path := filepath.Join(t.TempDir(), "metrics.png")
	require.NoError(t, RenderScores(path, scores))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

func TestRenderScoresEmpty(t *testing.T) {
	err := RenderScores(filepath.Join(t.TempDir(), "metrics.png"), nil)
	require.Error(t, err)
}
