package tensor

// Op identifies the forward operation that produced a tensor.
// The zero value Leaf marks tensors created directly by the caller.
type Op int

// Producing operations.
const (
	Leaf Op = iota
	OpAdd
	OpSub
	OpMul
	OpMatMul
	OpDiv
	OpPow
	OpExp
	OpReLU
	OpLeakyReLU
	OpSigmoid
	OpTanh
	OpSoftmax
	OpSum
	OpMean
	OpMSE
)

// MaxOperands bounds the number of operands a single operation may record.
const MaxOperands = 3

var opNames = [...]string{
	Leaf:        "leaf",
	OpAdd:       "add",
	OpSub:       "sub",
	OpMul:       "mul",
	OpMatMul:    "matmul",
	OpDiv:       "div",
	OpPow:       "pow",
	OpExp:       "exp",
	OpReLU:      "relu",
	OpLeakyReLU: "leaky_relu",
	OpSigmoid:   "sigmoid",
	OpTanh:      "tanh",
	OpSoftmax:   "softmax",
	OpSum:       "sum",
	OpMean:      "mean",
	OpMSE:       "mse",
}

// String returns the operation name.
func (op Op) String() string {
	if op < 0 || int(op) >= len(opNames) {
		return "unknown"
	}
	return opNames[op]
}
