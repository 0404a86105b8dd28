package tensor

import (
	"math"
	"time"

	"golang.org/x/exp/rand"
)

// Zeros creates a tensor filled with zeros.
//
// Example:
//
//	t, err := tensor.Zeros(tensor.Float32, tensor.Shape{3, 4}, false)
func Zeros(dtype DataType, shape Shape, requiresGrad bool) (*Tensor, error) {
	// Data is already zero-initialized by make()
	return New(nil, dtype, shape, requiresGrad)
}

// Ones creates a tensor filled with ones.
func Ones(dtype DataType, shape Shape, requiresGrad bool) (*Tensor, error) {
	return Full(dtype, shape, 1, requiresGrad)
}

// Full creates a tensor filled with value, converted to the element type.
//
// Example:
//
//	t, err := tensor.Full(tensor.Float64, tensor.Shape{3, 3}, 3.14, false)
func Full(dtype DataType, shape Shape, value float64, requiresGrad bool) (*Tensor, error) {
	t, err := Zeros(dtype, shape, requiresGrad)
	if err != nil {
		return nil, err
	}
	switch dtype {
	case Float32:
		fill(t.AsFloat32(), float32(value))
	case Float64:
		fill(t.AsFloat64(), value)
	case Int32:
		fill(t.AsInt32(), int32(value))
	case Int64:
		fill(t.AsInt64(), int64(value))
	}
	return t, nil
}

func fill[T DType](data []T, v T) {
	for i := range data {
		data[i] = v
	}
}

// Eye creates a 2D identity matrix.
//
// Example:
//
//	t, err := tensor.Eye(tensor.Float32, 3, false) // 3x3 identity matrix
func Eye(dtype DataType, n int, requiresGrad bool) (*Tensor, error) {
	t, err := Zeros(dtype, Shape{n, n}, requiresGrad)
	if err != nil {
		return nil, err
	}
	switch dtype {
	case Float32:
		diagonal(t.AsFloat32(), n)
	case Float64:
		diagonal(t.AsFloat64(), n)
	case Int32:
		diagonal(t.AsInt32(), n)
	case Int64:
		diagonal(t.AsInt64(), n)
	}
	return t, nil
}

func diagonal[T DType](data []T, n int) {
	for i := range data {
		if i/n == i%n {
			data[LinearIndex(i, n, n)] = 1
		}
	}
}

var defaultRand = rand.New(rand.NewSource(uint64(time.Now().UnixNano())))

// Randn creates a tensor with values from a standard normal distribution.
// Uses the Box-Muller transform. Only works with float types.
// Note: Not safe for concurrent use; call RandnFrom with a private source instead.
func Randn(dtype DataType, shape Shape, requiresGrad bool) (*Tensor, error) {
	return RandnFrom(defaultRand, dtype, shape, requiresGrad)
}

// RandnFrom is Randn drawing from r, for reproducible initialization.
func RandnFrom(r *rand.Rand, dtype DataType, shape Shape, requiresGrad bool) (*Tensor, error) {
	if !dtype.IsFloat() {
		return nil, unsupported("randn", dtype)
	}
	t, err := Zeros(dtype, shape, requiresGrad)
	if err != nil {
		return nil, err
	}
	normal := func() float64 {
		u1 := 1 - r.Float64() // (0, 1], keeps the log finite
		u2 := r.Float64()
		return math.Sqrt(-2.0*math.Log(u1)) * math.Cos(2.0*math.Pi*u2)
	}
	switch dtype {
	case Float32:
		data := t.AsFloat32()
		for i := range data {
			data[i] = float32(normal())
		}
	case Float64:
		data := t.AsFloat64()
		for i := range data {
			data[i] = normal()
		}
	}
	return t, nil
}

// Rand creates a tensor with values uniformly distributed in [0, 1).
// Only works with float types.
func Rand(dtype DataType, shape Shape, requiresGrad bool) (*Tensor, error) {
	return RandFrom(defaultRand, dtype, shape, requiresGrad)
}

// RandFrom is Rand drawing from r.
func RandFrom(r *rand.Rand, dtype DataType, shape Shape, requiresGrad bool) (*Tensor, error) {
	if !dtype.IsFloat() {
		return nil, unsupported("rand", dtype)
	}
	t, err := Zeros(dtype, shape, requiresGrad)
	if err != nil {
		return nil, err
	}
	switch dtype {
	case Float32:
		data := t.AsFloat32()
		for i := range data {
			data[i] = float32(r.Float64())
		}
	case Float64:
		data := t.AsFloat64()
		for i := range data {
			data[i] = r.Float64()
		}
	}
	return t, nil
}
