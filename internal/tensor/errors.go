package tensor

import "github.com/pkg/errors"

// Error taxonomy shared by constructors, forward operations and backward rules.
// Callers match with errors.Is; every returned error wraps exactly one of these.
var (
	// ErrAllocation reports a buffer request that could not be satisfied.
	ErrAllocation = errors.New("allocation failed")
	// ErrUnsupportedType reports an operation invoked on a type outside its supported set.
	ErrUnsupportedType = errors.New("unsupported type")
	// ErrShapeMismatch reports a type, rank or dimension mismatch between operands.
	ErrShapeMismatch = errors.New("shape mismatch")
	// ErrInvalidShape reports an empty shape or a non-positive dimension.
	ErrInvalidShape = errors.New("invalid shape")
)

// unsupported wraps ErrUnsupportedType with the operation name and offending type.
func unsupported(op string, dt DataType) error {
	return errors.Wrapf(ErrUnsupportedType, "%s: %s", op, dt)
}

// Unsupported is the exported form of unsupported, used by operation packages.
func Unsupported(op string, dt DataType) error {
	return unsupported(op, dt)
}
