// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor provides dense, runtime-typed tensors with reverse-mode
// automatic differentiation.
//
// # Overview
//
// A Tensor owns a contiguous row-major buffer of one of four element types
// and, when it tracks gradients, a gradient buffer of the same size. Every
// operation in this package allocates a new tensor and records on it the
// operation that produced it, so the result can be differentiated with
// autodiff.Backward.
//
// # Basic Usage
//
//	import (
//	    "github.com/born-ml/minitorch/autodiff"
//	    "github.com/born-ml/minitorch/tensor"
//	)
//
//	func main() {
//	    x, _ := tensor.FromSlice([]float64{1, 2, 3, 4}, tensor.Shape{2, 2}, true)
//	    w, _ := tensor.Ones(tensor.Float64, tensor.Shape{2, 1}, true)
//
//	    y, _ := tensor.MatMul(x, w)
//	    loss, _ := tensor.Sum(y)
//
//	    _ = autodiff.Backward(loss)
//	    fmt.Println(tensor.Format(w)) // grads: [4 6]
//	}
//
// # Supported Data Types
//
//   - float32, float64 (floating-point, may track gradients)
//   - int32, int64 (signed integers, never track gradients)
//
// Operands of binary operations must agree on element type and on every
// dimension; there is no broadcasting. Integer sigmoid and tanh promote to
// float32 and float64 respectively; softmax, mean, leaky ReLU and MSE reject
// integers with ErrUnsupportedType.
//
// # Memory Management
//
// Buffers are ordinary Go memory. Release drops a tensor's buffers early; it
// is idempotent and never touches the tensor's operands. A single buffer is
// limited to AllocationLimit bytes, and larger requests fail with
// ErrAllocation.
package tensor
