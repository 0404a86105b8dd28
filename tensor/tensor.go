// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor

import (
	"github.com/born-ml/minitorch/internal/tensor"
)

// Type aliases for public API

// DType is a constraint for tensor element types: float32, float64, int32, int64.
type DType = tensor.DType

// Float is the constraint for element types that can carry gradients.
type Float = tensor.Float

// DataType represents the underlying data type of a tensor.
type DataType = tensor.DataType

// Data type constants.
const (
	Float32 DataType = tensor.Float32
	Float64 DataType = tensor.Float64
	Int32   DataType = tensor.Int32
	Int64   DataType = tensor.Int64
)

// Shape represents the dimensions of a tensor.
// Example: Shape{2, 3, 4} represents a 3D tensor with dimensions 2×3×4.
type Shape = tensor.Shape

// Op identifies the operation that produced a tensor.
type Op = tensor.Op

// Tensor is a dense, row-major tensor with an optional gradient buffer.
type Tensor = tensor.Tensor

// Errors returned by constructors and operations. Match them with errors.Is.
var (
	ErrAllocation      = tensor.ErrAllocation
	ErrUnsupportedType = tensor.ErrUnsupportedType
	ErrShapeMismatch   = tensor.ErrShapeMismatch
	ErrInvalidShape    = tensor.ErrInvalidShape
)

// Creation functions

// New creates a tensor of the given type and shape. If raw is non-nil it must
// be a []float32, []float64, []int32 or []int64 of matching type and length.
//
// Example:
//
//	x, err := tensor.New([]float32{1, 2, 3, 4}, tensor.Float32, tensor.Shape{2, 2}, true)
func New(raw any, dtype DataType, shape Shape, requiresGrad bool) (*Tensor, error) {
	return tensor.New(raw, dtype, shape, requiresGrad)
}

// FromSlice creates a tensor from a Go slice, inferring the data type.
//
// Example:
//
//	data := []float32{1, 2, 3, 4, 5, 6}
//	x, err := tensor.FromSlice(data, tensor.Shape{2, 3}, false)
func FromSlice[T DType](data []T, shape Shape, requiresGrad bool) (*Tensor, error) {
	return tensor.FromSlice(data, shape, requiresGrad)
}

// Zeros creates a tensor filled with zeros.
func Zeros(dtype DataType, shape Shape, requiresGrad bool) (*Tensor, error) {
	return tensor.Zeros(dtype, shape, requiresGrad)
}

// Ones creates a tensor filled with ones.
func Ones(dtype DataType, shape Shape, requiresGrad bool) (*Tensor, error) {
	return tensor.Ones(dtype, shape, requiresGrad)
}

// Full creates a tensor filled with value, converted to the element type.
func Full(dtype DataType, shape Shape, value float64, requiresGrad bool) (*Tensor, error) {
	return tensor.Full(dtype, shape, value, requiresGrad)
}

// Eye creates an n×n identity matrix.
func Eye(dtype DataType, n int, requiresGrad bool) (*Tensor, error) {
	return tensor.Eye(dtype, n, requiresGrad)
}

// Randn creates a floating-point tensor of standard normal samples N(0, 1).
func Randn(dtype DataType, shape Shape, requiresGrad bool) (*Tensor, error) {
	return tensor.Randn(dtype, shape, requiresGrad)
}

// Rand creates a floating-point tensor of uniform samples in [0, 1).
func Rand(dtype DataType, shape Shape, requiresGrad bool) (*Tensor, error) {
	return tensor.Rand(dtype, shape, requiresGrad)
}

// Manipulation functions

// Transpose returns a new leaf holding the transpose of a rank-2 tensor.
// The gradient buffer is transposed alongside the values.
func Transpose(t *Tensor) (*Tensor, error) {
	return tensor.Transpose(t)
}

// Reshape returns a new leaf with the same elements in a new shape.
func Reshape(t *Tensor, shape Shape) (*Tensor, error) {
	return tensor.Reshape(t, shape)
}

// Flatten returns a new rank-1 leaf with the same elements.
func Flatten(t *Tensor) (*Tensor, error) {
	return tensor.Flatten(t)
}

// Format renders a multi-line description of the tensor: type, dimensions,
// data and gradients.
func Format(t *Tensor) string {
	return tensor.Format(t)
}

// Release drops the buffers of every tensor. Nil and already released
// tensors are ignored.
func Release(tensors ...*Tensor) {
	tensor.Release(tensors...)
}
