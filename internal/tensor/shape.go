package tensor

import (
	"fmt"
	"math"

	"github.com/pkg/errors"
)

// Shape represents the dimensions of a tensor.
type Shape []int

// NumElements returns the total number of elements in the tensor.
func (s Shape) NumElements() int {
	n := 1
	for _, dim := range s {
		n *= dim
	}
	return n
}

// Validate checks that the shape is non-empty, all dimensions are > 0, and
// the element count fits in an int. An overflowing count is an ErrAllocation.
func (s Shape) Validate() error {
	if len(s) == 0 {
		return errors.Wrap(ErrInvalidShape, "shape has no dimensions")
	}
	n := 1
	for i, dim := range s {
		if dim <= 0 {
			return errors.Wrapf(ErrInvalidShape, "dimension %d is %d (must be > 0)", i, dim)
		}
		if n > math.MaxInt/dim {
			return errors.Wrapf(ErrAllocation, "element count of shape %v overflows", s)
		}
		n *= dim
	}
	return nil
}

// Equal checks if two shapes are equal.
func (s Shape) Equal(other Shape) bool {
	if len(s) != len(other) {
		return false
	}
	for i := range s {
		if s[i] != other[i] {
			return false
		}
	}
	return true
}

// Clone returns a copy of the shape.
func (s Shape) Clone() Shape {
	clone := make(Shape, len(s))
	copy(clone, s)
	return clone
}

// Matrix returns the (rows, cols) decomposition used by every element loop.
// Rank 1 is a single row; higher ranks fold all leading dimensions into rows.
func (s Shape) Matrix() (rows, cols int) {
	if len(s) == 0 {
		return 1, 1
	}
	cols = s[len(s)-1]
	if cols == 0 {
		return 0, 0
	}
	return s.NumElements() / cols, cols
}

// LinearIndex maps a row-major flat position through an explicit row/column
// decomposition over a rows x cols layout.
// Panics if the position falls outside the layout.
func LinearIndex(flat, rows, cols int) int {
	row := flat / cols
	col := flat % cols
	if row >= rows {
		panic(fmt.Sprintf("flat index %d out of bounds for %dx%d layout", flat, rows, cols))
	}
	return row*cols + col
}

// TransposedIndex maps a flat position of a rows x cols matrix to its
// position in the cols x rows transpose.
func TransposedIndex(flat, rows, cols int) int {
	row := flat / cols
	col := flat % cols
	return col*rows + row
}

// CheckSameShape fails with ErrShapeMismatch unless a and b agree on
// element type, rank and every dimension.
func CheckSameShape(op string, a, b *Tensor) error {
	if a.dtype != b.dtype {
		return errors.Wrapf(ErrShapeMismatch, "%s: dtype %s vs %s", op, a.dtype, b.dtype)
	}
	if len(a.shape) != len(b.shape) {
		return errors.Wrapf(ErrShapeMismatch, "%s: rank %d vs %d", op, len(a.shape), len(b.shape))
	}
	for i := range a.shape {
		if a.shape[i] != b.shape[i] {
			return errors.Wrapf(ErrShapeMismatch, "%s: shapes %v vs %v (dimension %d)", op, a.shape, b.shape, i)
		}
	}
	return nil
}
