package tensor

import (
	"fmt"
	"math"
	"sync/atomic"
	"unsafe"

	"github.com/pkg/errors"
)

// DefaultAllocationLimit is the largest single buffer, in bytes, a tensor may request.
const DefaultAllocationLimit = 1 << 30

var allocationLimit atomic.Int64

func init() {
	allocationLimit.Store(DefaultAllocationLimit)
}

// SetAllocationLimit sets the largest buffer, in bytes, that New will allocate.
// Requests above it fail with ErrAllocation. Non-positive values restore the default.
func SetAllocationLimit(maxBytes int64) {
	if maxBytes <= 0 {
		maxBytes = DefaultAllocationLimit
	}
	allocationLimit.Store(maxBytes)
}

// AllocationLimit returns the current per-buffer allocation limit in bytes.
func AllocationLimit() int64 {
	return allocationLimit.Load()
}

// allocate returns a zeroed buffer for n elements of dtype.
func allocate(n int, dtype DataType) ([]byte, error) {
	size := dtype.Size()
	if n <= 0 {
		return nil, errors.Wrapf(ErrAllocation, "invalid element count %d", n)
	}
	if n > math.MaxInt/size {
		return nil, errors.Wrapf(ErrAllocation, "%d elements of %s overflow", n, dtype)
	}
	if int64(n*size) > allocationLimit.Load() {
		return nil, errors.Wrapf(ErrAllocation, "%d bytes exceeds limit of %d", n*size, allocationLimit.Load())
	}
	return make([]byte, n*size), nil
}

// AsFloat32 interprets the data as []float32.
// Panics if the tensor's dtype is not Float32.
func (t *Tensor) AsFloat32() []float32 {
	t.mustBe(Float32)
	return view[float32](t.data, t.size)
}

// AsFloat64 interprets the data as []float64.
// Panics if the tensor's dtype is not Float64.
func (t *Tensor) AsFloat64() []float64 {
	t.mustBe(Float64)
	return view[float64](t.data, t.size)
}

// AsInt32 interprets the data as []int32.
// Panics if the tensor's dtype is not Int32.
func (t *Tensor) AsInt32() []int32 {
	t.mustBe(Int32)
	return view[int32](t.data, t.size)
}

// AsInt64 interprets the data as []int64.
// Panics if the tensor's dtype is not Int64.
func (t *Tensor) AsInt64() []int64 {
	t.mustBe(Int64)
	return view[int64](t.data, t.size)
}

// GradFloat32 interprets the gradient buffer as []float32, nil when absent.
func (t *Tensor) GradFloat32() []float32 {
	t.mustBe(Float32)
	return view[float32](t.grad, t.size)
}

// GradFloat64 interprets the gradient buffer as []float64, nil when absent.
func (t *Tensor) GradFloat64() []float64 {
	t.mustBe(Float64)
	return view[float64](t.grad, t.size)
}

// Data returns a typed slice view of the tensor's data.
// The slice directly accesses the underlying memory (zero-copy).
// Panics if T does not match the tensor's dtype.
func Data[T DType](t *Tensor) []T {
	t.mustBe(inferDataType[T]())
	return view[T](t.data, t.size)
}

// Grad returns a typed view of the gradient buffer, nil when the tensor has none.
func Grad[T Float](t *Tensor) []T {
	t.mustBe(inferDataType[T]())
	return view[T](t.grad, t.size)
}

func (t *Tensor) mustBe(dtype DataType) {
	if t.dtype != dtype {
		panic(fmt.Sprintf("tensor dtype is %s, not %s", t.dtype, dtype))
	}
}

func view[T DType](buf []byte, n int) []T {
	if len(buf) == 0 {
		return nil
	}
	//nolint:gosec // unsafe.Slice for zero-copy access, length fixed at allocation
	return unsafe.Slice((*T)(unsafe.Pointer(&buf[0])), n)
}
