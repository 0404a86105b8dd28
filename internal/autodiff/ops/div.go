package ops

import "github.com/born-ml/minitorch/internal/tensor"

// Div computes the element-wise quotient a / b.
// There is no divide-by-zero guard: float division follows IEEE 754 and
// integer division by zero panics, so callers must ensure b is non-zero.
//
// Backward pass:
//   - d(a/b)/da = 1/b
//   - d(a/b)/db = -a/b²
func Div(a, b *tensor.Tensor) (*tensor.Tensor, error) {
	out, err := binaryResult(tensor.OpDiv, a, b)
	if err != nil {
		return nil, err
	}
	binaryKernels(out, a, b, div[float32], div[float64], div[int32], div[int64])
	out.SetOrigin(tensor.OpDiv, 0, a, b)
	return out, nil
}

func div[T tensor.DType](x, y T) T { return x / y }

// DivBackward adds upstream/b into a and -a*upstream/b² into b.
func DivBackward(out *tensor.Tensor) error {
	return dispatchFloat(out, divBackward[float32], divBackward[float64])
}

func divBackward[T tensor.Float](out *tensor.Tensor) {
	upstream := tensor.Grad[T](out)
	rows, cols := out.Shape().Matrix()
	dtype := dtypeOf[T]()
	a, b := out.Operands()[0], out.Operands()[1]
	aData, bData := tensor.Data[T](a), tensor.Data[T](b)

	if tracks(a, dtype) {
		accumulate(tensor.Grad[T](a), rows, cols, func(idx int) T {
			return upstream[idx] / bData[idx]
		})
	}
	if tracks(b, dtype) {
		accumulate(tensor.Grad[T](b), rows, cols, func(idx int) T {
			return -aData[idx] / (bData[idx] * bData[idx]) * upstream[idx]
		})
	}
}
