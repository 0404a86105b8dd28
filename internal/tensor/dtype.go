// Package tensor provides the core tensor value of the minitorch engine: a
// runtime-typed dense array with an optional gradient buffer and the graph
// linkage recorded by forward operations.
package tensor

import "golang.org/x/exp/constraints"

// DType is a constraint for supported element types.
// It uses Go generics to select a typed kernel once per operation call.
type DType interface {
	constraints.Float | ~int32 | ~int64
}

// Float is the subset of DType that can carry gradients.
type Float interface {
	constraints.Float
}

// DataType represents runtime type information for tensors.
type DataType int

// Supported data types for tensors.
const (
	Float32 DataType = iota
	Float64
	Int32
	Int64
)

// Size returns the byte size of the data type.
func (dt DataType) Size() int {
	switch dt {
	case Float32, Int32:
		return 4
	case Float64, Int64:
		return 8
	default:
		return 0
	}
}

// String returns a human-readable name for the data type.
func (dt DataType) String() string {
	switch dt {
	case Float32:
		return "float32"
	case Float64:
		return "float64"
	case Int32:
		return "int32"
	case Int64:
		return "int64"
	default:
		return "unknown"
	}
}

// IsFloat reports whether the type is floating-point and can hold gradients.
func (dt DataType) IsFloat() bool {
	return dt == Float32 || dt == Float64
}

// Validate returns ErrUnsupportedType for anything outside the four kinds.
func (dt DataType) Validate() error {
	if dt.Size() == 0 {
		return unsupported("tensor", dt)
	}
	return nil
}

// inferDataType infers DataType from a generic type T.
func inferDataType[T DType]() DataType {
	var dummy T
	switch any(dummy).(type) {
	case float32:
		return Float32
	case float64:
		return Float64
	case int32:
		return Int32
	case int64:
		return Int64
	default:
		panic("unsupported type")
	}
}

// TypeOf returns the DataType matching T.
func TypeOf[T DType]() DataType {
	return inferDataType[T]()
}
