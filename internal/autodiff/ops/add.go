package ops

import "github.com/born-ml/minitorch/internal/tensor"

// Add computes the element-wise sum a + b.
// Both operands must have the same dtype and shape.
//
// Backward pass:
//   - d(a+b)/da = 1, so grad_a += outputGrad
//   - d(a+b)/db = 1, so grad_b += outputGrad
func Add(a, b *tensor.Tensor) (*tensor.Tensor, error) {
	out, err := binaryResult(tensor.OpAdd, a, b)
	if err != nil {
		return nil, err
	}
	binaryKernels(out, a, b, add[float32], add[float64], add[int32], add[int64])
	out.SetOrigin(tensor.OpAdd, 0, a, b)
	return out, nil
}

func add[T tensor.DType](x, y T) T { return x + y }

// AddBackward routes the upstream gradient unchanged to both operands.
func AddBackward(out *tensor.Tensor) error {
	return dispatchFloat(out, addBackward[float32], addBackward[float64])
}

func addBackward[T tensor.Float](out *tensor.Tensor) {
	upstream := tensor.Grad[T](out)
	rows, cols := out.Shape().Matrix()
	dtype := dtypeOf[T]()
	for _, operand := range out.Operands() {
		if !tracks(operand, dtype) {
			continue
		}
		accumulate(tensor.Grad[T](operand), rows, cols, func(idx int) T {
			return upstream[idx]
		})
	}
}
