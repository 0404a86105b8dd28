package ops

import "github.com/born-ml/minitorch/internal/tensor"

// Sub computes the element-wise difference a - b.
//
// Backward pass:
//   - d(a-b)/da = 1
//   - d(a-b)/db = -1
func Sub(a, b *tensor.Tensor) (*tensor.Tensor, error) {
	out, err := binaryResult(tensor.OpSub, a, b)
	if err != nil {
		return nil, err
	}
	binaryKernels(out, a, b, sub[float32], sub[float64], sub[int32], sub[int64])
	out.SetOrigin(tensor.OpSub, 0, a, b)
	return out, nil
}

func sub[T tensor.DType](x, y T) T { return x - y }

// SubBackward adds the upstream gradient to a and subtracts it from b.
func SubBackward(out *tensor.Tensor) error {
	return dispatchFloat(out, subBackward[float32], subBackward[float64])
}

func subBackward[T tensor.Float](out *tensor.Tensor) {
	upstream := tensor.Grad[T](out)
	rows, cols := out.Shape().Matrix()
	dtype := dtypeOf[T]()
	a, b := out.Operands()[0], out.Operands()[1]

	if tracks(a, dtype) {
		accumulate(tensor.Grad[T](a), rows, cols, func(idx int) T {
			return upstream[idx]
		})
	}
	if tracks(b, dtype) {
		accumulate(tensor.Grad[T](b), rows, cols, func(idx int) T {
			return -upstream[idx]
		})
	}
}
