// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor

import (
	"github.com/born-ml/minitorch/internal/autodiff/ops"
)

// Element-wise arithmetic. Operands must share data type and shape.

// Add returns a + b.
func Add(a, b *Tensor) (*Tensor, error) {
	return ops.Add(a, b)
}

// Sub returns a - b.
func Sub(a, b *Tensor) (*Tensor, error) {
	return ops.Sub(a, b)
}

// Mul returns the element-wise product a * b.
func Mul(a, b *Tensor) (*Tensor, error) {
	return ops.Mul(a, b)
}

// Div returns a / b. Integer division truncates toward zero.
func Div(a, b *Tensor) (*Tensor, error) {
	return ops.Div(a, b)
}

// MatMul returns the matrix product of a (m×l) and b (l×n).
//
// Example:
//
//	a, _ := tensor.FromSlice([]float32{1, 2, 3, 4}, tensor.Shape{2, 2}, false)
//	b, _ := tensor.FromSlice([]float32{5, 6, 7, 8}, tensor.Shape{2, 2}, false)
//	c, _ := tensor.MatMul(a, b) // [[19 22] [43 50]]
func MatMul(a, b *Tensor) (*Tensor, error) {
	return ops.MatMul(a, b)
}

// Pow raises every element to exponent.
func Pow(x *Tensor, exponent float64) (*Tensor, error) {
	return ops.Pow(x, exponent)
}

// Exp returns e^x element-wise.
func Exp(x *Tensor) (*Tensor, error) {
	return ops.Exp(x)
}

// Activations

// ReLU returns max(0, x) element-wise.
func ReLU(x *Tensor) (*Tensor, error) {
	return ops.ReLU(x)
}

// LeakyReLU returns x for x >= 0 and slope*x otherwise.
func LeakyReLU(slope float64, x *Tensor) (*Tensor, error) {
	return ops.LeakyReLU(slope, x)
}

// Sigmoid returns 1 / (1 + e^-x) element-wise.
func Sigmoid(x *Tensor) (*Tensor, error) {
	return ops.Sigmoid(x)
}

// Tanh returns the hyperbolic tangent element-wise.
func Tanh(x *Tensor) (*Tensor, error) {
	return ops.Tanh(x)
}

// Softmax normalizes each row of the last dimension to sum to one.
func Softmax(x *Tensor) (*Tensor, error) {
	return ops.Softmax(x)
}

// Reductions. Results have shape [1].

// Sum returns the sum of all elements.
func Sum(x *Tensor) (*Tensor, error) {
	return ops.Sum(x)
}

// Mean returns the mean of all elements.
func Mean(x *Tensor) (*Tensor, error) {
	return ops.Mean(x)
}

// MSE returns the loss Σ(yPred - yTrue)² / (2N). Only yPred receives a gradient.
func MSE(yTrue, yPred *Tensor) (*Tensor, error) {
	return ops.MSE(yTrue, yPred)
}
