package ops

import (
	"github.com/born-ml/minitorch/internal/parallel"
	"github.com/born-ml/minitorch/internal/tensor"
)

// Softmax normalizes x along its last dimension. A rank-1 tensor is a single
// row; higher ranks are treated as rows of the last dimension.
//
// Forward (for each row):
//
//	softmax(x)_i = exp(x_i - max(x)) / Σ_j exp(x_j - max(x))
//
// The max-shifting ensures numerical stability (prevents overflow).
// Integer inputs are rejected.
//
// Backward:
//
//	∂softmax_i/∂x_j = y_i(1 - y_i)  if i == j
//	                = -y_i * y_j     otherwise
func Softmax(x *tensor.Tensor) (*tensor.Tensor, error) {
	if err := checkOperands(tensor.OpSoftmax, x); err != nil {
		return nil, err
	}
	if err := requireFloat(tensor.OpSoftmax, x); err != nil {
		return nil, err
	}
	out, err := unaryResult(tensor.OpSoftmax, x, x.DType())
	if err != nil {
		return nil, err
	}

	rows, cols := x.Shape().Matrix()
	switch x.DType() {
	case tensor.Float32:
		softmaxRows(out.AsFloat32(), x.AsFloat32(), rows, cols)
	case tensor.Float64:
		softmaxRows(out.AsFloat64(), x.AsFloat64(), rows, cols)
	}
	out.SetOrigin(tensor.OpSoftmax, 0, x)
	return out, nil
}

func softmaxRows[T tensor.Float](dst, src []T, rows, cols int) {
	exp := mathFor[T]().exp
	parallel.For(rows, func(start, end int) {
		for r := start; r < end; r++ {
			row := src[r*cols : (r+1)*cols]
			outRow := dst[r*cols : (r+1)*cols]

			// Find max for numerical stability
			maxVal := row[0]
			for _, v := range row[1:] {
				if v > maxVal {
					maxVal = v
				}
			}

			var sum T
			for j, v := range row {
				outRow[j] = exp(v - maxVal)
				sum += outRow[j]
			}
			for j := range outRow {
				outRow[j] /= sum
			}
		}
	})
}

// SoftmaxBackward applies the full per-row Jacobian to the upstream gradient:
//
//	grad_x[j] += Σ_i upstream[i] * ∂softmax_i/∂x_j
func SoftmaxBackward(out *tensor.Tensor) error {
	return dispatchFloat(out, softmaxBackward[float32], softmaxBackward[float64])
}

func softmaxBackward[T tensor.Float](out *tensor.Tensor) {
	x := out.Operands()[0]
	if !tracks(x, dtypeOf[T]()) {
		return
	}
	y := tensor.Data[T](out)
	upstream := tensor.Grad[T](out)
	grad := tensor.Grad[T](x)
	rows, cols := x.Shape().Matrix()

	parallel.For(rows, func(start, end int) {
		for r := start; r < end; r++ {
			off := r * cols
			for j := 0; j < cols; j++ {
				var acc T
				for i := 0; i < cols; i++ {
					var jac T
					if i == j {
						jac = y[off+i] * (1 - y[off+i])
					} else {
						jac = -y[off+i] * y[off+j]
					}
					acc += upstream[off+i] * jac
				}
				grad[off+j] += acc
			}
		}
	})
}
