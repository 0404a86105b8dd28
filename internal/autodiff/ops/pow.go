package ops

import (
	"math"

	"github.com/born-ml/minitorch/internal/tensor"
)

// Pow raises every element of x to exponent. The exponent is stored as the
// result's auxiliary scalar. Integer inputs are computed in float64 and
// truncated back to the integer type.
//
// Backward pass:
//   - d(x^e)/dx = e * x^(e-1)
func Pow(x *tensor.Tensor, exponent float64) (*tensor.Tensor, error) {
	if err := checkOperands(tensor.OpPow, x); err != nil {
		return nil, err
	}
	out, err := unaryResult(tensor.OpPow, x, x.DType())
	if err != nil {
		return nil, err
	}

	e32 := float32(exponent)
	m32 := mathFor[float32]()
	unaryKernels(out, x,
		func(v float32) float32 { return m32.pow(v, e32) },
		func(v float64) float64 { return math.Pow(v, exponent) },
		func(v int32) int32 { return int32(math.Pow(float64(v), exponent)) },
		func(v int64) int64 { return int64(math.Pow(float64(v), exponent)) },
	)
	out.SetOrigin(tensor.OpPow, exponent, x)
	return out, nil
}

// PowBackward adds e * x^(e-1) * upstream into x.
func PowBackward(out *tensor.Tensor) error {
	return dispatchFloat(out, powBackward[float32], powBackward[float64])
}

func powBackward[T tensor.Float](out *tensor.Tensor) {
	x := out.Operands()[0]
	if !tracks(x, dtypeOf[T]()) {
		return
	}
	fm := mathFor[T]()
	e := T(out.Aux())
	upstream := tensor.Grad[T](out)
	xData := tensor.Data[T](x)
	rows, cols := x.Shape().Matrix()
	accumulate(tensor.Grad[T](x), rows, cols, func(idx int) T {
		return e * fm.pow(xData[idx], e-1) * upstream[idx]
	})
}
