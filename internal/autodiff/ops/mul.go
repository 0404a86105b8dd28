package ops

import "github.com/born-ml/minitorch/internal/tensor"

// Mul computes the element-wise (Hadamard) product a * b.
//
// Backward pass:
//   - d(a*b)/da = b
//   - d(a*b)/db = a
func Mul(a, b *tensor.Tensor) (*tensor.Tensor, error) {
	out, err := binaryResult(tensor.OpMul, a, b)
	if err != nil {
		return nil, err
	}
	binaryKernels(out, a, b, mul[float32], mul[float64], mul[int32], mul[int64])
	out.SetOrigin(tensor.OpMul, 0, a, b)
	return out, nil
}

func mul[T tensor.DType](x, y T) T { return x * y }

// MulBackward adds b*upstream into a and a*upstream into b.
// Squaring (Mul(x, x)) correctly receives both contributions.
func MulBackward(out *tensor.Tensor) error {
	return dispatchFloat(out, mulBackward[float32], mulBackward[float64])
}

func mulBackward[T tensor.Float](out *tensor.Tensor) {
	upstream := tensor.Grad[T](out)
	rows, cols := out.Shape().Matrix()
	dtype := dtypeOf[T]()
	a, b := out.Operands()[0], out.Operands()[1]
	aData, bData := tensor.Data[T](a), tensor.Data[T](b)

	if tracks(a, dtype) {
		accumulate(tensor.Grad[T](a), rows, cols, func(idx int) T {
			return bData[idx] * upstream[idx]
		})
	}
	if tracks(b, dtype) {
		accumulate(tensor.Grad[T](b), rows, cols, func(idx int) T {
			return aData[idx] * upstream[idx]
		})
	}
}
