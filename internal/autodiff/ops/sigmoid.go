package ops

import "github.com/born-ml/minitorch/internal/tensor"

// promotedType is the floating result type of sigmoid and tanh.
// int32 promotes to float32 and int64 to float64.
func promotedType(dt tensor.DataType) tensor.DataType {
	switch dt {
	case tensor.Int32:
		return tensor.Float32
	case tensor.Int64:
		return tensor.Float64
	default:
		return dt
	}
}

// activation runs a closed-form float activation, promoting integer inputs.
func activation(op tensor.Op, x *tensor.Tensor, f32 func(float32) float32, f64 func(float64) float64) (*tensor.Tensor, error) {
	if err := checkOperands(op, x); err != nil {
		return nil, err
	}
	out, err := unaryResult(op, x, promotedType(x.DType()))
	if err != nil {
		return nil, err
	}

	rows, cols := x.Shape().Matrix()
	switch x.DType() {
	case tensor.Float32:
		mapUnary(out.AsFloat32(), x.AsFloat32(), rows, cols, f32)
	case tensor.Float64:
		mapUnary(out.AsFloat64(), x.AsFloat64(), rows, cols, f64)
	case tensor.Int32:
		mapUnary(out.AsFloat32(), x.AsInt32(), rows, cols, func(v int32) float32 { return f32(float32(v)) })
	case tensor.Int64:
		mapUnary(out.AsFloat64(), x.AsInt64(), rows, cols, func(v int64) float64 { return f64(float64(v)) })
	}
	out.SetOrigin(op, 0, x)
	return out, nil
}

// Sigmoid computes 1 / (1 + exp(-x)) element-wise.
// Integer inputs produce a floating-point result.
//
// Backward pass:
//   - d(sigmoid(x))/dx = y * (1 - y), where y is the forward output
func Sigmoid(x *tensor.Tensor) (*tensor.Tensor, error) {
	return activation(tensor.OpSigmoid, x, sigmoidFn[float32](), sigmoidFn[float64]())
}

func sigmoidFn[T tensor.Float]() func(T) T {
	exp := mathFor[T]().exp
	return func(v T) T {
		return 1 / (1 + exp(-v))
	}
}

// SigmoidBackward adds y*(1-y)*upstream into x.
func SigmoidBackward(out *tensor.Tensor) error {
	return dispatchFloat(out, sigmoidBackward[float32], sigmoidBackward[float64])
}

func sigmoidBackward[T tensor.Float](out *tensor.Tensor) {
	x := out.Operands()[0]
	if !tracks(x, dtypeOf[T]()) {
		return
	}
	y := tensor.Data[T](out)
	upstream := tensor.Grad[T](out)
	rows, cols := x.Shape().Matrix()
	accumulate(tensor.Grad[T](x), rows, cols, func(idx int) T {
		return y[idx] * (1 - y[idx]) * upstream[idx]
	})
}
