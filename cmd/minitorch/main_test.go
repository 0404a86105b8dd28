package main

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/minitorch/autodiff"
	"github.com/born-ml/minitorch/tensor"
)

func TestTrain(t *testing.T) {
	tests := []struct {
		name   string
		modify func(cfg *fitConfig)
	}{
		{name: "sgd", modify: func(*fitConfig) {}},
		{name: "sgd momentum topological", modify: func(cfg *fitConfig) {
			cfg.Momentum = 0.5
			cfg.Order = autodiff.Topological
		}},
		{name: "adam float32", modify: func(cfg *fitConfig) {
			cfg.Optimizer = "adam"
			cfg.DType = tensor.Float32
			cfg.Steps = 1000
			cfg.LR = 0.05
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultFitConfig()
			tt.modify(&cfg)

			res, err := train(cfg)
			require.NoError(t, err)
			assert.InDelta(t, cfg.TrueW, res.W, 0.05)
			assert.InDelta(t, cfg.TrueB, res.B, 0.05)
			assert.Less(t, res.Loss, 1e-3)
		})
	}
}

func TestTrain_UnknownOptimizer(t *testing.T) {
	cfg := defaultFitConfig()
	cfg.Optimizer = "rmsprop"
	_, err := train(cfg)
	assert.Error(t, err)
}

var errStepFailed = errors.New("step failed")

type failingOptimizer struct{}

func (failingOptimizer) Step() error { return errStepFailed }
func (failingOptimizer) ZeroGrad() {}
func (failingOptimizer) GetLR() float64 { return 0 }

func TestFitStep(t *testing.T) {
	cfg := defaultFitConfig()
	x, y, err := syntheticData(cfg)
	require.NoError(t, err)
	w, err := tensor.Zeros(tensor.Float64, tensor.Shape{2, 1}, true)
	require.NoError(t, err)
	engine := autodiff.NewEngine(autodiff.Config{})

	opt, err := newOptimizer(cfg, w)
	require.NoError(t, err)
	stats, loss, err := fitStep(engine, opt, x, y, w)
	require.NoError(t, err)
	assert.Greater(t, loss, 0.0)
	assert.Equal(t, 2, stats.Dispatched)

	// A failed update still returns the traversal stats and leaves the
	// caller's tensors usable.
	stats, _, err = fitStep(engine, failingOptimizer{}, x, y, w)
	assert.True(t, errors.Is(err, errStepFailed))
	assert.Equal(t, 2, stats.Dispatched)
	assert.False(t, x.Released())
	assert.False(t, y.Released())
	assert.False(t, w.Released())

	// Mismatched targets fail in the forward pass.
	short, err := tensor.Zeros(tensor.Float64, tensor.Shape{3, 1}, false)
	require.NoError(t, err)
	_, _, err = fitStep(engine, opt, x, short, w)
	assert.True(t, errors.Is(err, tensor.ErrShapeMismatch))
}

func TestRun(t *testing.T) {
	require.NoError(t, run([]string{"version"}))
	require.NoError(t, run([]string{"fit", "-steps", "20", "-order", "topological", "-dtype", "float32"}))
	assert.Error(t, run([]string{"serve"}))
	assert.Error(t, run([]string{"fit", "-dtype", "int32"}))
	assert.Error(t, run([]string{"fit", "-order", "breadth-first"}))
}
