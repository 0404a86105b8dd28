package ops

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"

	"github.com/born-ml/minitorch/internal/parallel"
	"github.com/born-ml/minitorch/internal/tensor"
)

// MatMul computes the matrix product a @ b of shapes (m,l) x (l,n) -> (m,n).
// Products accumulate in the result type. float64 runs through gonum;
// the other types use a row-parallel triple loop.
//
// Backward pass:
//   - d(A@B)/dA = outputGrad @ B^T
//   - d(A@B)/dB = A^T @ outputGrad
func MatMul(a, b *tensor.Tensor) (*tensor.Tensor, error) {
	if err := checkOperands(tensor.OpMatMul, a, b); err != nil {
		return nil, err
	}
	if a.DType() != b.DType() {
		return nil, errors.Wrapf(tensor.ErrShapeMismatch, "matmul: dtype %s vs %s", a.DType(), b.DType())
	}
	as, bs := a.Shape(), b.Shape()
	if len(as) != 2 || len(bs) != 2 {
		return nil, errors.Wrapf(tensor.ErrShapeMismatch, "matmul: rank %d x %d, want 2 x 2", len(as), len(bs))
	}
	if as[1] != bs[0] {
		return nil, errors.Wrapf(tensor.ErrShapeMismatch, "matmul: inner dimensions %v x %v", as, bs)
	}

	m, l, n := as[0], as[1], bs[1]
	out, err := tensor.Result(a.DType(), tensor.Shape{m, n}, a.RequiresGrad() || b.RequiresGrad())
	if err != nil {
		return nil, errors.Wrap(err, "matmul")
	}

	switch a.DType() {
	case tensor.Float32:
		matmulLoop(out.AsFloat32(), a.AsFloat32(), b.AsFloat32(), m, l, n)
	case tensor.Float64:
		om := mat.NewDense(m, n, out.AsFloat64())
		om.Mul(mat.NewDense(m, l, a.AsFloat64()), mat.NewDense(l, n, b.AsFloat64()))
	case tensor.Int32:
		matmulLoop(out.AsInt32(), a.AsInt32(), b.AsInt32(), m, l, n)
	case tensor.Int64:
		matmulLoop(out.AsInt64(), a.AsInt64(), b.AsInt64(), m, l, n)
	}

	out.SetOrigin(tensor.OpMatMul, 0, a, b)
	return out, nil
}

// matmulLoop computes dst (m,n) = a (m,l) @ b (l,n), parallel over output rows.
func matmulLoop[T tensor.DType](dst, a, b []T, m, l, n int) {
	parallel.For(m, func(start, end int) {
		for i := start; i < end; i++ {
			for j := 0; j < n; j++ {
				var acc T
				for k := 0; k < l; k++ {
					acc += a[i*l+k] * b[k*n+j]
				}
				dst[i*n+j] = acc
			}
		}
	})
}

// MatMulBackward adds dOut @ B^T into A and A^T @ dOut into B.
func MatMulBackward(out *tensor.Tensor) error {
	return dispatchFloat(out, matmulBackwardLoop[float32], matmulBackward64)
}

func matmulBackwardLoop[T tensor.Float](out *tensor.Tensor) {
	a, b := out.Operands()[0], out.Operands()[1]
	m, l, n := a.Shape()[0], a.Shape()[1], b.Shape()[1]
	upstream := tensor.Grad[T](out)
	aData, bData := tensor.Data[T](a), tensor.Data[T](b)
	dtype := dtypeOf[T]()

	if tracks(a, dtype) {
		// grad_a[i,k] += Σ_j upstream[i,j] * b[k,j]
		gradA := tensor.Grad[T](a)
		parallel.For(m, func(start, end int) {
			for i := start; i < end; i++ {
				for k := 0; k < l; k++ {
					var acc T
					for j := 0; j < n; j++ {
						acc += upstream[i*n+j] * bData[k*n+j]
					}
					gradA[i*l+k] += acc
				}
			}
		})
	}
	if tracks(b, dtype) {
		// grad_b[k,j] += Σ_i a[i,k] * upstream[i,j]
		gradB := tensor.Grad[T](b)
		parallel.For(l, func(start, end int) {
			for k := start; k < end; k++ {
				for j := 0; j < n; j++ {
					var acc T
					for i := 0; i < m; i++ {
						acc += aData[i*l+k] * upstream[i*n+j]
					}
					gradB[k*n+j] += acc
				}
			}
		})
	}
}

func matmulBackward64(out *tensor.Tensor) {
	a, b := out.Operands()[0], out.Operands()[1]
	m, l, n := a.Shape()[0], a.Shape()[1], b.Shape()[1]
	upstream := mat.NewDense(m, n, out.GradFloat64())

	if tracks(a, tensor.Float64) {
		var contrib mat.Dense
		contrib.Mul(upstream, mat.NewDense(l, n, b.AsFloat64()).T())
		gradA := mat.NewDense(m, l, a.GradFloat64())
		gradA.Add(gradA, &contrib)
	}
	if tracks(b, tensor.Float64) {
		var contrib mat.Dense
		contrib.Mul(mat.NewDense(m, l, a.AsFloat64()).T(), upstream)
		gradB := mat.NewDense(l, n, b.GradFloat64())
		gradB.Add(gradB, &contrib)
	}
}
