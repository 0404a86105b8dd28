package tensor

import "github.com/pkg/errors"

// Transpose returns a new leaf tensor holding the transpose of a rank-2 tensor.
// When the input tracks gradients its gradient is remapped alongside the values.
func Transpose(t *Tensor) (*Tensor, error) {
	if err := checkLive("transpose", t); err != nil {
		return nil, err
	}
	if len(t.shape) != 2 {
		return nil, errors.Wrapf(ErrShapeMismatch, "transpose: rank %d, want 2", len(t.shape))
	}
	rows, cols := t.shape[0], t.shape[1]
	out, err := alloc(t.dtype, Shape{cols, rows}, t.requiresGrad)
	if err != nil {
		return nil, err
	}

	switch t.dtype {
	case Float32:
		transposeInto(out.AsFloat32(), t.AsFloat32(), rows, cols)
		transposeInto(out.GradFloat32(), t.GradFloat32(), rows, cols)
	case Float64:
		transposeInto(out.AsFloat64(), t.AsFloat64(), rows, cols)
		transposeInto(out.GradFloat64(), t.GradFloat64(), rows, cols)
	case Int32:
		transposeInto(out.AsInt32(), t.AsInt32(), rows, cols)
	case Int64:
		transposeInto(out.AsInt64(), t.AsInt64(), rows, cols)
	}
	return out, nil
}

func transposeInto[T DType](dst, src []T, rows, cols int) {
	if dst == nil || src == nil {
		return
	}
	for i := range src {
		dst[TransposedIndex(i, rows, cols)] = src[LinearIndex(i, rows, cols)]
	}
}

// Reshape returns a new leaf tensor with the same elements in row-major order
// and the given shape. The element count must be preserved.
func Reshape(t *Tensor, shape Shape) (*Tensor, error) {
	if err := checkLive("reshape", t); err != nil {
		return nil, err
	}
	if err := shape.Validate(); err != nil {
		return nil, err
	}
	if shape.NumElements() != t.size {
		return nil, errors.Wrapf(ErrShapeMismatch, "reshape: cannot reshape %v (%d elements) to %v", t.shape, t.size, shape)
	}
	out, err := alloc(t.dtype, shape, t.requiresGrad)
	if err != nil {
		return nil, err
	}
	copy(out.data, t.data)
	if out.grad != nil && t.grad != nil {
		copy(out.grad, t.grad)
	}
	return out, nil
}

func checkLive(op string, t *Tensor) error {
	if t == nil || t.Released() {
		return errors.Wrapf(ErrInvalidShape, "%s: tensor is nil or released", op)
	}
	return nil
}

// Flatten reshapes a tensor to rank 1.
func Flatten(t *Tensor) (*Tensor, error) {
	if err := checkLive("flatten", t); err != nil {
		return nil, err
	}
	return Reshape(t, Shape{t.size})
}
