package ops

import (
	"math"

	"github.com/chewxy/math32"
	"github.com/pkg/errors"

	"github.com/born-ml/minitorch/internal/parallel"
	"github.com/born-ml/minitorch/internal/tensor"
)

// checkOperands rejects nil or released operands before any validation that reads them.
func checkOperands(op tensor.Op, operands ...*tensor.Tensor) error {
	for i, t := range operands {
		if t == nil {
			return errors.Wrapf(tensor.ErrInvalidShape, "%s: operand %d is nil", op, i)
		}
		if t.Released() {
			return errors.Wrapf(tensor.ErrInvalidShape, "%s: operand %d was released", op, i)
		}
	}
	return nil
}

// binaryResult validates an element-wise pair and allocates its result.
func binaryResult(op tensor.Op, a, b *tensor.Tensor) (*tensor.Tensor, error) {
	if err := checkOperands(op, a, b); err != nil {
		return nil, err
	}
	if err := tensor.CheckSameShape(op.String(), a, b); err != nil {
		return nil, err
	}
	out, err := tensor.Result(a.DType(), a.Shape(), a.RequiresGrad() || b.RequiresGrad())
	if err != nil {
		return nil, errors.Wrap(err, op.String())
	}
	return out, nil
}

// unaryResult allocates the result of a shape-preserving unary op with the given dtype.
func unaryResult(op tensor.Op, x *tensor.Tensor, dtype tensor.DataType) (*tensor.Tensor, error) {
	out, err := tensor.Result(dtype, x.Shape(), x.RequiresGrad())
	if err != nil {
		return nil, errors.Wrap(err, op.String())
	}
	return out, nil
}

// scalarResult allocates the single-element result of a reduction.
func scalarResult(op tensor.Op, dtype tensor.DataType, requiresGrad bool) (*tensor.Tensor, error) {
	out, err := tensor.Result(dtype, tensor.Shape{1}, requiresGrad)
	if err != nil {
		return nil, errors.Wrap(err, op.String())
	}
	return out, nil
}

// requireFloat fails with ErrUnsupportedType for integer operands.
func requireFloat(op tensor.Op, x *tensor.Tensor) error {
	if !x.DType().IsFloat() {
		return tensor.Unsupported(op.String(), x.DType())
	}
	return nil
}

// mapBinary computes dst[i] = fn(a[i], b[i]) over a rows x cols layout.
func mapBinary[T tensor.DType](dst, a, b []T, rows, cols int, fn func(x, y T) T) {
	parallel.For(len(dst), func(start, end int) {
		for i := start; i < end; i++ {
			idx := tensor.LinearIndex(i, rows, cols)
			dst[idx] = fn(a[idx], b[idx])
		}
	})
}

// mapUnary computes dst[i] = fn(src[i]); dst and src may differ in type.
func mapUnary[S, D tensor.DType](dst []D, src []S, rows, cols int, fn func(x S) D) {
	parallel.For(len(dst), func(start, end int) {
		for i := start; i < end; i++ {
			idx := tensor.LinearIndex(i, rows, cols)
			dst[idx] = fn(src[idx])
		}
	})
}

// accumulate adds contrib(idx) into grad[idx] for every element.
func accumulate[T tensor.Float](grad []T, rows, cols int, contrib func(idx int) T) {
	parallel.For(len(grad), func(start, end int) {
		for i := start; i < end; i++ {
			idx := tensor.LinearIndex(i, rows, cols)
			grad[idx] += contrib(idx)
		}
	})
}

// binaryKernels runs the instantiation of an element-wise kernel matching the operands' dtype.
func binaryKernels(
	out, a, b *tensor.Tensor,
	f32 func(x, y float32) float32,
	f64 func(x, y float64) float64,
	i32 func(x, y int32) int32,
	i64 func(x, y int64) int64,
) {
	rows, cols := out.Shape().Matrix()
	switch out.DType() {
	case tensor.Float32:
		mapBinary(out.AsFloat32(), a.AsFloat32(), b.AsFloat32(), rows, cols, f32)
	case tensor.Float64:
		mapBinary(out.AsFloat64(), a.AsFloat64(), b.AsFloat64(), rows, cols, f64)
	case tensor.Int32:
		mapBinary(out.AsInt32(), a.AsInt32(), b.AsInt32(), rows, cols, i32)
	case tensor.Int64:
		mapBinary(out.AsInt64(), a.AsInt64(), b.AsInt64(), rows, cols, i64)
	}
}

// unaryKernels is binaryKernels for same-type unary operations.
func unaryKernels(
	out, x *tensor.Tensor,
	f32 func(float32) float32,
	f64 func(float64) float64,
	i32 func(int32) int32,
	i64 func(int64) int64,
) {
	rows, cols := out.Shape().Matrix()
	switch x.DType() {
	case tensor.Float32:
		mapUnary(out.AsFloat32(), x.AsFloat32(), rows, cols, f32)
	case tensor.Float64:
		mapUnary(out.AsFloat64(), x.AsFloat64(), rows, cols, f64)
	case tensor.Int32:
		mapUnary(out.AsInt32(), x.AsInt32(), rows, cols, i32)
	case tensor.Int64:
		mapUnary(out.AsInt64(), x.AsInt64(), rows, cols, i64)
	}
}

// dispatchFloat runs the float32 or float64 instantiation of a backward rule.
// Results that do not track gradients carry no upstream gradient and are skipped.
func dispatchFloat(out *tensor.Tensor, f32, f64 func(out *tensor.Tensor)) error {
	if !out.DType().IsFloat() {
		return tensor.Unsupported(out.Op().String()+" backward", out.DType())
	}
	if !out.HasGrad() {
		return nil
	}
	switch out.DType() {
	case tensor.Float32:
		f32(out)
	case tensor.Float64:
		f64(out)
	}
	return nil
}

// tracks reports whether operand t should receive a contribution of type dtype.
func tracks(t *tensor.Tensor, dtype tensor.DataType) bool {
	return t.RequiresGrad() && t.HasGrad() && t.DType() == dtype
}

// floatMath bundles the transcendental functions for one float type,
// chosen once per operation call.
type floatMath[T tensor.Float] struct {
	exp  func(T) T
	tanh func(T) T
	pow  func(x, y T) T
}

func mathFor[T tensor.Float]() floatMath[T] {
	var zero T
	if _, ok := any(zero).(float32); ok {
		return any(floatMath[float32]{exp: math32.Exp, tanh: math32.Tanh, pow: math32.Pow}).(floatMath[T])
	}
	return any(floatMath[float64]{exp: math.Exp, tanh: math.Tanh, pow: math.Pow}).(floatMath[T])
}

func dtypeOf[T tensor.DType]() tensor.DataType {
	return tensor.TypeOf[T]()
}
