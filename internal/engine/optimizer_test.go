package engine

import (
	"bytes"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/treepack/internal/model"
	"github.com/piwi3910/treepack/internal/packerr"
)

func fixedSettings(w, h float64, ord string) model.PackSettings {
	s := model.DefaultSettings()
	s.Size = model.ContainerSize{W: w, H: h}
	s.Order = ord
	return s
}

func TestOptimize_FixedContainer(t *testing.T) {
	opt := New(fixedSettings(300, 300, "none"))
	specs := []model.BlockSpec{{Label: "sq", W: 100, H: 100, Num: 3}}

	result, err := opt.Optimize(specs)
	require.NoError(t, err)

	assert.Equal(t, model.Rect{W: 300, H: 300}, result.Container)
	assert.False(t, result.Growing)
	assert.Equal(t, "none", result.Order)
	require.Len(t, result.Blocks, 3)
	for i, b := range result.Blocks {
		require.True(t, b.Placed())
		assert.Equal(t, float64(i*100), b.Fit.X)
		assert.Equal(t, 0.0, b.Fit.Y)
		assert.Equal(t, "sq", b.Label)
	}
	assert.Len(t, result.Regions, 7)
	assert.InDelta(t, 100.0/3.0, result.FillRatio(), 1e-9)
}

func TestOptimize_GrowingContainer(t *testing.T) {
	opt := New(model.DefaultSettings())
	specs := []model.BlockSpec{
		{W: 100, H: 100, Num: 4},
		{W: 50, H: 50, Num: 4},
	}

	result, err := opt.Optimize(specs)
	require.NoError(t, err)

	assert.True(t, result.Growing)
	assert.Empty(t, result.Unfit())
	assert.Len(t, result.Placed(), 8)
	assert.LessOrEqual(t, result.UsedArea(), result.Container.Area())
}

func TestOptimize_AppliesOrderBeforePacking(t *testing.T) {
	specs := []model.BlockSpec{
		{Label: "small", W: 10, H: 10, Num: 1},
		{Label: "big", W: 90, H: 90, Num: 1},
	}

	result, err := New(fixedSettings(100, 100, "maxside")).Optimize(specs)
	require.NoError(t, err)

	require.Len(t, result.Blocks, 2)
	assert.Equal(t, "big", result.Blocks[0].Label)
	assert.Equal(t, model.Point{}, *result.Blocks[0].Fit)
	assert.Empty(t, result.Unfit())
}

func TestOptimize_UnfitInFixedContainer(t *testing.T) {
	specs := []model.BlockSpec{{W: 60, H: 60, Num: 2}}
	result, err := New(fixedSettings(100, 100, "none")).Optimize(specs)
	require.NoError(t, err)

	assert.Len(t, result.Placed(), 1)
	assert.Len(t, result.Unfit(), 1)
}

func TestOptimize_Errors(t *testing.T) {
	_, err := New(fixedSettings(100, 100, "sideways")).Optimize([]model.BlockSpec{{W: 1, H: 1, Num: 1}})
	assert.True(t, packerr.Is(err, packerr.ErrCodeInvalidOrder))

	_, err = New(fixedSettings(0, 100, "none")).Optimize(nil)
	assert.True(t, packerr.Is(err, packerr.ErrCodeInvalidDimension))

	_, err = New(model.DefaultSettings()).Optimize([]model.BlockSpec{{W: -1, H: 1, Num: 1}})
	assert.True(t, packerr.Is(err, packerr.ErrCodeInvalidDimension))
}

func TestOptimize_EmptyInput(t *testing.T) {
	result, err := New(model.DefaultSettings()).Optimize(nil)
	require.NoError(t, err)
	assert.Empty(t, result.Blocks)
	assert.Equal(t, model.Rect{}, result.Container)
	assert.Equal(t, 0.0, result.FillRatio())
}

func TestOptimize_LogsAtDebug(t *testing.T) {
	var buf bytes.Buffer
	logger := log.NewWithOptions(&buf, log.Options{Level: log.DebugLevel})

	_, err := New(model.DefaultSettings(), WithLogger(logger)).Optimize([]model.BlockSpec{{W: 10, H: 10, Num: 2}})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "grew container")
	assert.Contains(t, out, "packed")
}
