package ops

import "github.com/born-ml/minitorch/internal/tensor"

// ReLU computes max(0, x) element-wise.
//
// Backward pass:
//   - d(ReLU(x))/dx = 1 if x > 0, else 0
func ReLU(x *tensor.Tensor) (*tensor.Tensor, error) {
	if err := checkOperands(tensor.OpReLU, x); err != nil {
		return nil, err
	}
	out, err := unaryResult(tensor.OpReLU, x, x.DType())
	if err != nil {
		return nil, err
	}
	unaryKernels(out, x, relu[float32], relu[float64], relu[int32], relu[int64])
	out.SetOrigin(tensor.OpReLU, 0, x)
	return out, nil
}

func relu[T tensor.DType](v T) T {
	if v < 0 {
		return 0
	}
	return v
}

// ReLUBackward passes the upstream gradient where the input was positive.
func ReLUBackward(out *tensor.Tensor) error {
	return dispatchFloat(out, reluBackward[float32], reluBackward[float64])
}

func reluBackward[T tensor.Float](out *tensor.Tensor) {
	x := out.Operands()[0]
	if !tracks(x, dtypeOf[T]()) {
		return
	}
	upstream := tensor.Grad[T](out)
	xData := tensor.Data[T](x)
	rows, cols := x.Shape().Matrix()
	accumulate(tensor.Grad[T](x), rows, cols, func(idx int) T {
		if xData[idx] > 0 {
			return upstream[idx]
		}
		return 0
	})
}

// LeakyReLU computes x for x >= 0 and slope*x otherwise. The slope is stored
// as the result's auxiliary scalar. Integer inputs are rejected.
//
// Backward pass:
//   - d/dx = 1 where the result is >= 0, else slope
//
// The gate reads the result, so with a negative slope a negative input
// (positive result) passes the upstream gradient unscaled.
func LeakyReLU(slope float64, x *tensor.Tensor) (*tensor.Tensor, error) {
	if err := checkOperands(tensor.OpLeakyReLU, x); err != nil {
		return nil, err
	}
	if err := requireFloat(tensor.OpLeakyReLU, x); err != nil {
		return nil, err
	}
	out, err := unaryResult(tensor.OpLeakyReLU, x, x.DType())
	if err != nil {
		return nil, err
	}

	s32 := float32(slope)
	unaryKernels(out, x,
		func(v float32) float32 { return leaky(v, s32) },
		func(v float64) float64 { return leaky(v, slope) },
		nil, nil,
	)
	out.SetOrigin(tensor.OpLeakyReLU, slope, x)
	return out, nil
}

func leaky[T tensor.Float](v, slope T) T {
	if v < 0 {
		return slope * v
	}
	return v
}

// LeakyReLUBackward passes the upstream gradient where the result is >= 0 and slope*upstream otherwise.
func LeakyReLUBackward(out *tensor.Tensor) error {
	return dispatchFloat(out, leakyReLUBackward[float32], leakyReLUBackward[float64])
}

func leakyReLUBackward[T tensor.Float](out *tensor.Tensor) {
	x := out.Operands()[0]
	if !tracks(x, dtypeOf[T]()) {
		return
	}
	slope := T(out.Aux())
	upstream := tensor.Grad[T](out)
	y := tensor.Data[T](out)
	rows, cols := x.Shape().Matrix()
	accumulate(tensor.Grad[T](x), rows, cols, func(idx int) T {
		if y[idx] >= 0 {
			return upstream[idx]
		}
		return slope * upstream[idx]
	})
}
