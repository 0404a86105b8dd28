package ops

import "github.com/born-ml/minitorch/internal/tensor"

// MSE computes the mean squared error loss Σ(pred - true)² / (2N) as a
// single-element tensor. yTrue and yPred must share dtype and shape; integer
// inputs are rejected. The result records its operands as [yPred, yTrue].
//
// Backward pass:
//   - d(loss)/d(pred_i) = (pred_i - true_i) / N
//   - the target receives no gradient
func MSE(yTrue, yPred *tensor.Tensor) (*tensor.Tensor, error) {
	if err := checkOperands(tensor.OpMSE, yTrue, yPred); err != nil {
		return nil, err
	}
	if err := tensor.CheckSameShape(tensor.OpMSE.String(), yTrue, yPred); err != nil {
		return nil, err
	}
	if err := requireFloat(tensor.OpMSE, yPred); err != nil {
		return nil, err
	}
	out, err := scalarResult(tensor.OpMSE, yPred.DType(), yPred.RequiresGrad() || yTrue.RequiresGrad())
	if err != nil {
		return nil, err
	}

	rows, cols := yPred.Shape().Matrix()
	switch yPred.DType() {
	case tensor.Float32:
		out.AsFloat32()[0] = squaredError(yPred.AsFloat32(), yTrue.AsFloat32(), rows, cols)
	case tensor.Float64:
		out.AsFloat64()[0] = squaredError(yPred.AsFloat64(), yTrue.AsFloat64(), rows, cols)
	}
	out.SetOrigin(tensor.OpMSE, 0, yPred, yTrue)
	return out, nil
}

func squaredError[T tensor.Float](pred, target []T, rows, cols int) T {
	var acc T
	for i := range pred {
		idx := tensor.LinearIndex(i, rows, cols)
		d := pred[idx] - target[idx]
		acc += d * d
	}
	return acc / T(2*len(pred))
}

// MSEBackward adds (pred - true) * upstream / N into the prediction.
func MSEBackward(out *tensor.Tensor) error {
	return dispatchFloat(out, mseBackward[float32], mseBackward[float64])
}

func mseBackward[T tensor.Float](out *tensor.Tensor) {
	pred, target := out.Operands()[0], out.Operands()[1]
	if !tracks(pred, dtypeOf[T]()) {
		return
	}
	g := tensor.Grad[T](out)[0]
	n := T(pred.NumElements())
	predData, targetData := tensor.Data[T](pred), tensor.Data[T](target)
	rows, cols := pred.Shape().Matrix()
	accumulate(tensor.Grad[T](pred), rows, cols, func(idx int) T {
		return (predData[idx] - targetData[idx]) * g / n
	})
}
