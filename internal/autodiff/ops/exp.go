package ops

import (
	"math"

	"github.com/born-ml/minitorch/internal/tensor"
)

// Exp computes exp(x) element-wise. Integer inputs are computed in float64
// and truncated back to the integer type.
//
// Backward pass:
//   - d(exp(x))/dx = exp(x), recomputed from the input
func Exp(x *tensor.Tensor) (*tensor.Tensor, error) {
	if err := checkOperands(tensor.OpExp, x); err != nil {
		return nil, err
	}
	out, err := unaryResult(tensor.OpExp, x, x.DType())
	if err != nil {
		return nil, err
	}

	unaryKernels(out, x,
		mathFor[float32]().exp,
		math.Exp,
		func(v int32) int32 { return int32(math.Exp(float64(v))) },
		func(v int64) int64 { return int64(math.Exp(float64(v))) },
	)
	out.SetOrigin(tensor.OpExp, 0, x)
	return out, nil
}

// ExpBackward adds exp(x) * upstream into x.
func ExpBackward(out *tensor.Tensor) error {
	return dispatchFloat(out, expBackward[float32], expBackward[float64])
}

func expBackward[T tensor.Float](out *tensor.Tensor) {
	x := out.Operands()[0]
	if !tracks(x, dtypeOf[T]()) {
		return
	}
	fm := mathFor[T]()
	upstream := tensor.Grad[T](out)
	xData := tensor.Data[T](x)
	rows, cols := x.Shape().Matrix()
	accumulate(tensor.Grad[T](x), rows, cols, func(idx int) T {
		return fm.exp(xData[idx]) * upstream[idx]
	})
}
