package tensor

import (
	"fmt"
	"sync/atomic"

	"github.com/pkg/errors"
)

var nextID atomic.Uint64

// Tensor is a dense row-major array of one of the four supported element
// types, with an optional gradient buffer and the graph linkage recorded by
// the forward operation that produced it.
//
// Operands are non-owning back-references: a tensor never releases them.
type Tensor struct {
	id           uint64
	dtype        DataType
	shape        Shape
	size         int
	data         []byte // exclusively owned
	grad         []byte // nil unless float and requiresGrad
	requiresGrad bool

	op       Op
	operands []*Tensor
	aux      float64
}

// New creates a tensor of the given type and shape.
//
// The data buffer is zero-initialized; if raw is non-nil it must be a []T slice
// of matching type and length and is copied in. Floating-point tensors that
// require gradients also get a zeroed gradient buffer. Integer tensors never
// track gradients.
//
// Example:
//
//	x, err := tensor.New([]float64{1, 2, 3, 4}, tensor.Float64, tensor.Shape{2, 2}, true)
func New(raw any, dtype DataType, shape Shape, requiresGrad bool) (*Tensor, error) {
	if err := dtype.Validate(); err != nil {
		return nil, err
	}
	if err := shape.Validate(); err != nil {
		return nil, err
	}

	t, err := alloc(dtype, shape, requiresGrad)
	if err != nil {
		return nil, err
	}

	if raw != nil {
		if err := t.copyFrom(raw); err != nil {
			t.Release()
			return nil, err
		}
	}
	return t, nil
}

// FromSlice creates a tensor from a Go slice.
// The slice is copied into the tensor's memory.
func FromSlice[T DType](data []T, shape Shape, requiresGrad bool) (*Tensor, error) {
	return New(data, inferDataType[T](), shape, requiresGrad)
}

// alloc builds a zeroed tensor without validating dtype or shape.
func alloc(dtype DataType, shape Shape, requiresGrad bool) (*Tensor, error) {
	n := shape.NumElements()
	data, err := allocate(n, dtype)
	if err != nil {
		return nil, err
	}

	t := &Tensor{
		id:           nextID.Add(1),
		dtype:        dtype,
		shape:        shape.Clone(),
		size:         n,
		data:         data,
		requiresGrad: requiresGrad && dtype.IsFloat(),
	}
	if t.requiresGrad {
		if t.grad, err = allocate(n, dtype); err != nil {
			t.Release()
			return nil, err
		}
	}
	return t, nil
}

func (t *Tensor) copyFrom(raw any) error {
	var (
		srcType DataType
		n       int
	)
	switch src := raw.(type) {
	case []float32:
		srcType, n = Float32, len(src)
	case []float64:
		srcType, n = Float64, len(src)
	case []int32:
		srcType, n = Int32, len(src)
	case []int64:
		srcType, n = Int64, len(src)
	default:
		return errors.Wrapf(ErrUnsupportedType, "raw data of type %T", raw)
	}
	if srcType != t.dtype {
		return errors.Wrapf(ErrShapeMismatch, "raw data is %s, tensor is %s", srcType, t.dtype)
	}
	if n != t.size {
		return errors.Wrapf(ErrShapeMismatch, "shape %v requires %d elements, but got %d", t.shape, t.size, n)
	}

	switch src := raw.(type) {
	case []float32:
		copy(t.AsFloat32(), src)
	case []float64:
		copy(t.AsFloat64(), src)
	case []int32:
		copy(t.AsInt32(), src)
	case []int64:
		copy(t.AsInt64(), src)
	}
	return nil
}

// Result allocates the output tensor of a forward operation.
// The shape must already be validated by the caller.
func Result(dtype DataType, shape Shape, requiresGrad bool) (*Tensor, error) {
	return alloc(dtype, shape, requiresGrad)
}

// ID returns a process-unique identifier for the tensor.
func (t *Tensor) ID() uint64 {
	return t.id
}

// DType returns the tensor's data type.
func (t *Tensor) DType() DataType {
	return t.dtype
}

// Shape returns the tensor's shape.
func (t *Tensor) Shape() Shape {
	return t.shape
}

// NumElements returns the total number of elements.
func (t *Tensor) NumElements() int {
	return t.size
}

// RequiresGrad returns true if this tensor participates in gradient accumulation.
func (t *Tensor) RequiresGrad() bool {
	return t.requiresGrad
}

// HasGrad reports whether a gradient buffer is allocated.
func (t *Tensor) HasGrad() bool {
	return t.grad != nil
}

// Op returns the operation that produced this tensor, Leaf for caller-created tensors.
func (t *Tensor) Op() Op {
	return t.op
}

// IsLeaf reports whether the tensor was created directly rather than computed.
func (t *Tensor) IsLeaf() bool {
	return t.op == Leaf
}

// Operands returns the tensors consumed by the producing operation, in declared order.
func (t *Tensor) Operands() []*Tensor {
	return t.operands
}

// Aux returns the operation-specific scalar (exponent for pow, slope for leaky relu).
func (t *Tensor) Aux() float64 {
	return t.aux
}

// SetOrigin records the producing operation on a freshly computed tensor.
// Used by the operation catalogue; panics on more than MaxOperands operands.
func (t *Tensor) SetOrigin(op Op, aux float64, operands ...*Tensor) {
	if len(operands) > MaxOperands {
		panic(fmt.Sprintf("%s: %d operands exceeds maximum of %d", op, len(operands), MaxOperands))
	}
	t.op = op
	t.aux = aux
	t.operands = append(t.operands[:0], operands...)
}

// ZeroGrad clears the gradient buffer. No-op for tensors without one.
func (t *Tensor) ZeroGrad() {
	clear(t.grad)
}

// FillGrad sets every gradient element to v. No-op for tensors without a gradient.
func (t *Tensor) FillGrad(v float64) {
	if t.grad == nil {
		return
	}
	switch t.dtype {
	case Float32:
		g := t.GradFloat32()
		for i := range g {
			g[i] = float32(v)
		}
	case Float64:
		g := t.GradFloat64()
		for i := range g {
			g[i] = v
		}
	}
}

// Detach returns a new leaf tensor holding a copy of the data that does not track gradients.
func (t *Tensor) Detach() *Tensor {
	out := &Tensor{
		id:    nextID.Add(1),
		dtype: t.dtype,
		shape: t.shape.Clone(),
		size:  t.size,
		data:  append([]byte(nil), t.data...),
	}
	return out
}

// Clone creates a deep copy of the tensor as a leaf with the same tracking flag.
// The gradient buffer is copied too.
func (t *Tensor) Clone() *Tensor {
	out := t.Detach()
	out.requiresGrad = t.requiresGrad
	if t.grad != nil {
		out.grad = append([]byte(nil), t.grad...)
	}
	return out
}

// Released reports whether Release has been called.
func (t *Tensor) Released() bool {
	return t.data == nil
}

// Release drops the data and gradient buffers and the shape.
// Operands are not owned and are never touched. Safe on nil and on repeat.
func (t *Tensor) Release() {
	if t == nil {
		return
	}
	t.data = nil
	t.grad = nil
	t.shape = nil
	t.size = 0
}

// Release is the nil-safe function form of (*Tensor).Release.
func Release(tensors ...*Tensor) {
	for _, t := range tensors {
		t.Release()
	}
}

// String returns a one-line summary of the tensor.
func (t *Tensor) String() string {
	if t == nil {
		return "Tensor(nil)"
	}
	return fmt.Sprintf("Tensor[%s]%v op=%s grad=%t", t.dtype, t.shape, t.op, t.requiresGrad)
}
