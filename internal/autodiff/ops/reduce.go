package ops

import "github.com/born-ml/minitorch/internal/tensor"

// Sum reduces x to a single-element tensor of shape [1] holding the sum of all elements.
//
// Backward pass:
//   - d(sum)/dx_i = 1, the upstream scalar is broadcast to every element
func Sum(x *tensor.Tensor) (*tensor.Tensor, error) {
	if err := checkOperands(tensor.OpSum, x); err != nil {
		return nil, err
	}
	out, err := scalarResult(tensor.OpSum, x.DType(), x.RequiresGrad())
	if err != nil {
		return nil, err
	}

	rows, cols := x.Shape().Matrix()
	switch x.DType() {
	case tensor.Float32:
		out.AsFloat32()[0] = total(x.AsFloat32(), rows, cols)
	case tensor.Float64:
		out.AsFloat64()[0] = total(x.AsFloat64(), rows, cols)
	case tensor.Int32:
		out.AsInt32()[0] = total(x.AsInt32(), rows, cols)
	case tensor.Int64:
		out.AsInt64()[0] = total(x.AsInt64(), rows, cols)
	}
	out.SetOrigin(tensor.OpSum, 0, x)
	return out, nil
}

func total[T tensor.DType](data []T, rows, cols int) T {
	var acc T
	for i := range data {
		acc += data[tensor.LinearIndex(i, rows, cols)]
	}
	return acc
}

// SumBackward broadcasts the upstream scalar into every element of x.
func SumBackward(out *tensor.Tensor) error {
	return dispatchFloat(out, broadcastBackward[float32](false), broadcastBackward[float64](false))
}

// Mean reduces x to a single-element tensor of shape [1] holding the mean of
// all elements. Integer inputs are rejected.
//
// Backward pass:
//   - d(mean)/dx_i = 1/N
func Mean(x *tensor.Tensor) (*tensor.Tensor, error) {
	if err := checkOperands(tensor.OpMean, x); err != nil {
		return nil, err
	}
	if err := requireFloat(tensor.OpMean, x); err != nil {
		return nil, err
	}
	out, err := scalarResult(tensor.OpMean, x.DType(), x.RequiresGrad())
	if err != nil {
		return nil, err
	}

	rows, cols := x.Shape().Matrix()
	n := x.NumElements()
	switch x.DType() {
	case tensor.Float32:
		out.AsFloat32()[0] = total(x.AsFloat32(), rows, cols) / float32(n)
	case tensor.Float64:
		out.AsFloat64()[0] = total(x.AsFloat64(), rows, cols) / float64(n)
	}
	out.SetOrigin(tensor.OpMean, 0, x)
	return out, nil
}

// MeanBackward broadcasts upstream/N into every element of x.
func MeanBackward(out *tensor.Tensor) error {
	return dispatchFloat(out, broadcastBackward[float32](true), broadcastBackward[float64](true))
}

// broadcastBackward spreads a scalar upstream gradient over the operand,
// divided by the element count when averaging.
func broadcastBackward[T tensor.Float](average bool) func(out *tensor.Tensor) {
	return func(out *tensor.Tensor) {
		x := out.Operands()[0]
		if !tracks(x, dtypeOf[T]()) {
			return
		}
		g := tensor.Grad[T](out)[0]
		if average {
			g /= T(x.NumElements())
		}
		rows, cols := x.Shape().Matrix()
		accumulate(tensor.Grad[T](x), rows, cols, func(int) T {
			return g
		})
	}
}
