// Package ops implements the forward operations and backward rules of the
// automatic differentiation engine.
//
// Every forward operation validates its operands, allocates a result tensor,
// computes each element with the element type's arithmetic and records the
// operation tag, operands and auxiliary scalar on the result. The matching
// backward rule reads the result's gradient (the upstream gradient) and adds
// local derivative × upstream into every operand that tracks gradients:
//   - Add: d(a+b)/da = 1, d(a+b)/db = 1
//   - Sub: d(a-b)/da = 1, d(a-b)/db = -1
//   - Mul: d(a*b)/da = b, d(a*b)/db = a
//   - MatMul: dA = dOut @ B^T, dB = A^T @ dOut
//   - Div: d(a/b)/da = 1/b, d(a/b)/db = -a/b²
//   - Pow: d(x^e)/dx = e*x^(e-1)
//   - Exp: d(exp(x))/dx = exp(x)
//   - ReLU, LeakyReLU, Sigmoid, Tanh, Softmax, Sum, Mean, MSE
//
// Rules never overwrite gradients; a tensor consumed by several operations
// receives the sum of their contributions.
package ops

import "github.com/born-ml/minitorch/internal/tensor"

// BackwardFunc accumulates the gradient contributions of out's producing
// operation into its operands. out must have been built by the matching
// forward operation; rules do not re-validate shapes.
type BackwardFunc func(out *tensor.Tensor) error

var rules = map[tensor.Op]BackwardFunc{
	tensor.OpAdd:       AddBackward,
	tensor.OpSub:       SubBackward,
	tensor.OpMul:       MulBackward,
	tensor.OpMatMul:    MatMulBackward,
	tensor.OpDiv:       DivBackward,
	tensor.OpPow:       PowBackward,
	tensor.OpExp:       ExpBackward,
	tensor.OpReLU:      ReLUBackward,
	tensor.OpLeakyReLU: LeakyReLUBackward,
	tensor.OpSigmoid:   SigmoidBackward,
	tensor.OpTanh:      TanhBackward,
	tensor.OpSoftmax:   SoftmaxBackward,
	tensor.OpSum:       SumBackward,
	tensor.OpMean:      MeanBackward,
	tensor.OpMSE:       MSEBackward,
}

// Rule returns the backward rule for op. Leaf and unknown ops have none.
func Rule(op tensor.Op) (BackwardFunc, bool) {
	fn, ok := rules[op]
	return fn, ok
}
