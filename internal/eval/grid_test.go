package eval

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shotafuji/cartml/internal/model"
)

func TestGridExpand(t *testing.T) {
	g := Grid{
		"learning_rate": {0.01, 0.1},
		"epochs":        {50, 150},
	}

	combos := g.Expand()
	require.Len(t, combos, 4)

	// Deterministic order: names sorted, values in declared order.
	assert.Equal(t, model.Params{"epochs": 50, "learning_rate": 0.01}, combos[0])
	assert.Equal(t, model.Params{"epochs": 50, "learning_rate": 0.1}, combos[1])
	assert.Equal(t, model.Params{"epochs": 150, "learning_rate": 0.01}, combos[2])
	assert.Equal(t, model.Params{"epochs": 150, "learning_rate": 0.1}, combos[3])
}

func TestGridExpandEmpty(t *testing.T) {
	combos := Grid{}.Expand()
	require.Len(t, combos, 1)
	assert.Empty(t, combos[0])
}

func TestGridExpandSkipsEmptyValueList(t *testing.T) {
	g := Grid{"max_depth": {3, 5}, "unused": {}}
	assert.Len(t, g.Expand(), 2)
}

func TestDefaultGridsCoverAllFamilies(t *testing.T) {
	grids := DefaultGrids()
	for _, family := range model.Families() {
		grid, ok := grids[family]
		require.True(t, ok, "missing grid for %s", family)
		assert.NotEmpty(t, grid.Expand())
	}
}
