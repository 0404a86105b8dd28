package ops

import "github.com/born-ml/minitorch/internal/tensor"

// Tanh computes the hyperbolic tangent element-wise.
// Integer inputs produce a floating-point result.
//
// Backward pass:
//   - d(tanh(x))/dx = 1 - y², where y is the forward output
func Tanh(x *tensor.Tensor) (*tensor.Tensor, error) {
	return activation(tensor.OpTanh, x, mathFor[float32]().tanh, mathFor[float64]().tanh)
}

// TanhBackward adds (1-y²)*upstream into x.
func TanhBackward(out *tensor.Tensor) error {
	return dispatchFloat(out, tanhBackward[float32], tanhBackward[float64])
}

func tanhBackward[T tensor.Float](out *tensor.Tensor) {
	x := out.Operands()[0]
	if !tracks(x, dtypeOf[T]()) {
		return
	}
	y := tensor.Data[T](out)
	upstream := tensor.Grad[T](out)
	rows, cols := x.Shape().Matrix()
	accumulate(tensor.Grad[T](x), rows, cols, func(idx int) T {
		return (1 - y[idx]*y[idx]) * upstream[idx]
	})
}
