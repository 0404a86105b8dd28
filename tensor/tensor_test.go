// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor_test

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/minitorch/autodiff"
	"github.com/born-ml/minitorch/optim"
	"github.com/born-ml/minitorch/tensor"
)

// TestPublicAPI_Gradient exercises the documented package example.
func TestPublicAPI_Gradient(t *testing.T) {
	x, err := tensor.FromSlice([]float64{1, 2, 3, 4}, tensor.Shape{2, 2}, true)
	require.NoError(t, err)
	w, err := tensor.Ones(tensor.Float64, tensor.Shape{2, 1}, true)
	require.NoError(t, err)

	y, err := tensor.MatMul(x, w)
	require.NoError(t, err)
	loss, err := tensor.Sum(y)
	require.NoError(t, err)

	require.NoError(t, autodiff.Backward(loss))
	assert.Equal(t, []float64{4, 6}, tensor.Grad[float64](w))
	assert.Equal(t, []float64{1, 1, 1, 1}, tensor.Grad[float64](x))
	assert.Contains(t, tensor.Format(w), "grads: [[4.0000e+00],")

	autodiff.ZeroGrad(loss)
	assert.Equal(t, []float64{0, 0}, tensor.Grad[float64](w))
}

// TestPublicAPI_Errors verifies the re-exported sentinels match internal errors.
func TestPublicAPI_Errors(t *testing.T) {
	_, err := tensor.Zeros(tensor.Float32, tensor.Shape{0}, false)
	assert.True(t, errors.Is(err, tensor.ErrInvalidShape))

	i, err := tensor.FromSlice([]int32{1, 2}, tensor.Shape{2}, false)
	require.NoError(t, err)
	_, err = tensor.Softmax(i)
	assert.True(t, errors.Is(err, tensor.ErrUnsupportedType))

	a, err := tensor.Zeros(tensor.Float32, tensor.Shape{2, 3}, false)
	require.NoError(t, err)
	_, err = tensor.MatMul(a, a)
	assert.True(t, errors.Is(err, tensor.ErrShapeMismatch))
}

// TestPublicAPI_Training runs a short optimization through every facade.
func TestPublicAPI_Training(t *testing.T) {
	r := tensor.NewRand(3)
	w, err := tensor.RandnFrom(r, tensor.Float32, tensor.Shape{3}, true)
	require.NoError(t, err)
	target, err := tensor.Full(tensor.Float32, tensor.Shape{3}, 0.5, false)
	require.NoError(t, err)

	opt, err := optim.NewSGD([]*tensor.Tensor{w}, optim.SGDConfig{LR: 1})
	require.NoError(t, err)
	engine := autodiff.NewEngine(autodiff.Config{Order: autodiff.Topological})

	for i := 0; i < 100; i++ {
		opt.ZeroGrad()
		loss, err := tensor.MSE(target, w)
		require.NoError(t, err)
		_, err = engine.Backward(loss)
		require.NoError(t, err)
		require.NoError(t, opt.Step())
	}
	assert.InDeltaSlice(t, []float32{0.5, 0.5, 0.5}, tensor.Data[float32](w), 1e-4)
}
