// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor

import (
	"golang.org/x/exp/rand"

	"github.com/born-ml/minitorch/internal/tensor"
)

// Data returns a zero-copy typed view of the tensor's values.
// Panics if T does not match the tensor's data type.
//
// Example:
//
//	values := tensor.Data[float32](x)
//	values[0] = 1
func Data[T DType](t *Tensor) []T {
	return tensor.Data[T](t)
}

// Grad returns a zero-copy typed view of the tensor's gradient, or nil when
// the tensor does not track gradients.
func Grad[T Float](t *Tensor) []T {
	return tensor.Grad[T](t)
}

// SetAllocationLimit sets the largest single buffer, in bytes, a tensor may
// allocate. Non-positive values restore DefaultAllocationLimit.
func SetAllocationLimit(maxBytes int64) {
	tensor.SetAllocationLimit(maxBytes)
}

// AllocationLimit returns the current per-buffer allocation limit in bytes.
func AllocationLimit() int64 {
	return tensor.AllocationLimit()
}

// DefaultAllocationLimit is the per-buffer limit in effect at startup.
const DefaultAllocationLimit = tensor.DefaultAllocationLimit

// NewRand returns a deterministic random source for RandnFrom and RandFrom.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

// RandnFrom is Randn drawing from r.
func RandnFrom(r *rand.Rand, dtype DataType, shape Shape, requiresGrad bool) (*Tensor, error) {
	return tensor.RandnFrom(r, dtype, shape, requiresGrad)
}

// RandFrom is Rand drawing from r.
func RandFrom(r *rand.Rand, dtype DataType, shape Shape, requiresGrad bool) (*Tensor, error) {
	return tensor.RandFrom(r, dtype, shape, requiresGrad)
}
