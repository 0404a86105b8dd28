package tensor

import (
	"fmt"
	"strings"
)

// Format renders the tensor's dtype, dims, data and gradient as a multi-line
// block. Tensors without a gradient buffer print "grads: None".
// The tensor is never mutated.
func Format(t *Tensor) string {
	if t == nil {
		return "Tensor(nil)\n"
	}
	var sb strings.Builder
	sb.WriteString("Tensor {\n")
	fmt.Fprintf(&sb, "  dtype: %s\n", t.dtype)
	fmt.Fprintf(&sb, "  dims:  %v\n", []int(t.shape))
	if t.Released() {
		sb.WriteString("  data:  released\n}\n")
		return sb.String()
	}

	rows, cols := t.shape.Matrix()
	sb.WriteString("  data:  ")
	switch t.dtype {
	case Float32:
		writeMatrix(&sb, t.AsFloat32(), rows, cols, "%.4f")
	case Float64:
		writeMatrix(&sb, t.AsFloat64(), rows, cols, "%.4f")
	case Int32:
		writeMatrix(&sb, t.AsInt32(), rows, cols, "%d")
	case Int64:
		writeMatrix(&sb, t.AsInt64(), rows, cols, "%d")
	}
	sb.WriteString("\n")

	sb.WriteString("  grads: ")
	switch {
	case t.grad == nil:
		sb.WriteString("None")
	case t.dtype == Float32:
		writeMatrix(&sb, t.GradFloat32(), rows, cols, "%.4e")
	case t.dtype == Float64:
		writeMatrix(&sb, t.GradFloat64(), rows, cols, "%.4e")
	}
	sb.WriteString("\n}\n")
	return sb.String()
}

func writeMatrix[T DType](sb *strings.Builder, data []T, rows, cols int, verb string) {
	nested := rows > 1
	if nested {
		sb.WriteString("[")
	}
	for r := 0; r < rows; r++ {
		if r > 0 {
			sb.WriteString(",\n          ")
		}
		sb.WriteString("[")
		for c := 0; c < cols; c++ {
			if c > 0 {
				sb.WriteString(", ")
			}
			fmt.Fprintf(sb, verb, data[r*cols+c])
		}
		sb.WriteString("]")
	}
	if nested {
		sb.WriteString("]")
	}
}
