package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/treepack/internal/model"
)

func placedAt(w, h, x, y float64) model.Block {
	return model.Block{W: w, H: h, Fit: &model.Point{X: x, Y: y}}
}

func TestVerify_ValidLayout(t *testing.T) {
	result := model.PackResult{
		Container: model.Rect{W: 100, H: 100},
		Blocks: []model.Block{
			placedAt(50, 50, 0, 0),
			placedAt(50, 50, 50, 0), // touches the first along an edge
			{W: 500, H: 500},        // unfit blocks are ignored
		},
	}
	assert.Empty(t, Verify(result))
}

func TestVerify_ReportsOverlapAndOutOfArea(t *testing.T) {
	result := model.PackResult{
		Container: model.Rect{W: 100, H: 100},
		Blocks: []model.Block{
			placedAt(60, 60, 0, 0),
			placedAt(60, 60, 50, 50),
		},
	}

	v := Verify(result)
	require.Len(t, v, 2)
	assert.Equal(t, Overlap, v[0].Kind)
	assert.Equal(t, 0, v[0].Index)
	assert.Equal(t, 1, v[0].Other)
	assert.Equal(t, OutOfArea, v[1].Kind)
	assert.Equal(t, 1, v[1].Index)
	assert.Equal(t, -1, v[1].Other)

	msgs := FormatViolations(result, v)
	require.Len(t, msgs, 2)
	assert.Contains(t, msgs[0], "block 0 (60x60 at 0,0) overlaps block 1 (60x60 at 50,50)")
	assert.Contains(t, msgs[1], "extends past the 100x100 container")
}

func TestVerify_PackerOutput(t *testing.T) {
	for _, size := range []model.ContainerSize{model.Automatic, {W: 400, H: 300}} {
		settings := model.PackSettings{Size: size, Order: "random", Seed: 3}
		specs := []model.BlockSpec{
			{W: 40, H: 70, Num: 6},
			{W: 90, H: 20, Num: 5},
			{W: 33, H: 33, Num: 8},
			{W: 120, H: 60, Num: 2},
		}

		result, err := New(settings).Optimize(specs)
		require.NoError(t, err)
		assert.Empty(t, Verify(result), "size %s", size)
	}
}
