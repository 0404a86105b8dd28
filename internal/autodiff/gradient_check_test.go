package autodiff_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/minitorch/internal/autodiff"
	"github.com/born-ml/minitorch/internal/autodiff/ops"
	"github.com/born-ml/minitorch/internal/tensor"
)

const epsilon = 1e-6

// numericalGradient computes d loss / d param[i] by centered finite differences.
func numericalGradient(t *testing.T, loss func() *tensor.Tensor, param *tensor.Tensor) []float64 {
	t.Helper()
	data := param.AsFloat64()
	grad := make([]float64, len(data))
	for i := range data {
		orig := data[i]
		data[i] = orig + epsilon
		plus := loss().AsFloat64()[0]
		data[i] = orig - epsilon
		minus := loss().AsFloat64()[0]
		data[i] = orig
		grad[i] = (plus - minus) / (2 * epsilon)
	}
	return grad
}

func matrix(t *testing.T, requiresGrad bool, rows, cols int, data ...float64) *tensor.Tensor {
	t.Helper()
	x, err := tensor.FromSlice(data, tensor.Shape{rows, cols}, requiresGrad)
	require.NoError(t, err)
	return x
}

// TestGradientCheck_MLP checks a two-layer network with an MSE loss.
// The graph is a tree above the leaves, so both orders agree.
func TestGradientCheck_MLP(t *testing.T) {
	input := matrix(t, false, 4, 2, 0.1, -0.4, 0.7, 0.2, -0.9, 0.5, 0.3, 0.8)
	target := matrix(t, false, 4, 1, 0.5, -0.2, 0.1, 0.9)
	w1 := matrix(t, true, 2, 3, 0.2, -0.5, 0.7, 0.4, 0.1, -0.3)
	w2 := matrix(t, true, 3, 1, 0.6, -0.8, 0.25)

	loss := func() *tensor.Tensor {
		h := must(t)(ops.MatMul(input, w1))
		a := must(t)(ops.Tanh(h))
		pred := must(t)(ops.MatMul(a, w2))
		return must(t)(ops.MSE(target, pred))
	}

	for _, order := range []autodiff.Order{autodiff.DepthFirst, autodiff.Topological} {
		t.Run(order.String(), func(t *testing.T) {
			w1.ZeroGrad()
			w2.ZeroGrad()
			_, err := autodiff.NewEngine(autodiff.Config{Order: order}).Backward(loss())
			require.NoError(t, err)

			assert.InDeltaSlice(t, numericalGradient(t, loss, w1), w1.GradFloat64(), 1e-4)
			assert.InDeltaSlice(t, numericalGradient(t, loss, w2), w2.GradFloat64(), 1e-4)
		})
	}
}

// TestGradientCheck_SharedIntermediate reuses a non-leaf tensor twice.
// Only the topological order produces the exact gradient. Depth-first enters
// the shared node twice: the first pass propagates g, the second re-propagates
// the accumulated 2g, so the weights receive 3g.
func TestGradientCheck_SharedIntermediate(t *testing.T) {
	x := matrix(t, false, 2, 2, 0.3, -0.6, 1.2, 0.4)
	w := matrix(t, true, 2, 2, 0.5, -0.25, 0.75, 0.1)

	loss := func() *tensor.Tensor {
		h := must(t)(ops.Sigmoid(must(t)(ops.MatMul(x, w))))
		sq := must(t)(ops.Mul(h, h))
		return must(t)(ops.Mean(sq))
	}

	_, err := autodiff.NewEngine(autodiff.Config{Order: autodiff.Topological}).Backward(loss())
	require.NoError(t, err)
	exact := append([]float64(nil), w.GradFloat64()...)
	assert.InDeltaSlice(t, numericalGradient(t, loss, w), exact, 1e-4)

	w.ZeroGrad()
	require.NoError(t, autodiff.Backward(loss()))
	for i, g := range w.GradFloat64() {
		assert.InDelta(t, 3*exact[i], g, 1e-12)
	}
}

// TestGradientCheck_Softmax checks softmax followed by a weighted MSE.
func TestGradientCheck_Softmax(t *testing.T) {
	logits := matrix(t, true, 2, 3, 1, 2, 0.5, -1, 0, 3)
	target := matrix(t, false, 2, 3, 0, 1, 0, 0, 0, 1)
	scale := matrix(t, false, 2, 3, 1, 2, 3, 4, 5, 6)

	loss := func() *tensor.Tensor {
		p := must(t)(ops.Softmax(logits))
		scaled := must(t)(ops.Mul(p, scale))
		return must(t)(ops.MSE(target, scaled))
	}

	require.NoError(t, autodiff.Backward(loss()))
	assert.InDeltaSlice(t, numericalGradient(t, loss, logits), logits.GradFloat64(), 1e-4)
}

// TestGradientCheck_LeakyPowDiv composes the remaining element-wise rules.
func TestGradientCheck_LeakyPowDiv(t *testing.T) {
	a := matrix(t, true, 1, 4, -1.5, 0.5, 2, -0.3)
	b := matrix(t, true, 1, 4, 1.2, 0.8, 2.5, 1.7)

	loss := func() *tensor.Tensor {
		l := must(t)(ops.LeakyReLU(0.2, a))
		p := must(t)(ops.Pow(b, 2))
		q := must(t)(ops.Div(l, p))
		r := must(t)(ops.Sub(q, must(t)(ops.ReLU(b))))
		return must(t)(ops.Sum(r))
	}

	require.NoError(t, autodiff.Backward(loss()))
	assert.InDeltaSlice(t, numericalGradient(t, loss, a), a.GradFloat64(), 1e-4)
	assert.InDeltaSlice(t, numericalGradient(t, loss, b), b.GradFloat64(), 1e-4)
}
