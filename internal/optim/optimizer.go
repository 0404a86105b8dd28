// Package optim implements optimization algorithms that update tensors in
// place from the gradients accumulated by a backward traversal.
//
// This package provides:
//   - Optimizer interface: Base interface for all optimizers
//   - SGD: Stochastic Gradient Descent with momentum
//   - Adam: Adaptive Moment Estimation
//
// Example usage:
//
//	optimizer, err := optim.NewAdam([]*tensor.Tensor{w, b}, optim.AdamConfig{
//	    LR: 0.001,
//	})
//
//	for step := range steps {
//	    optimizer.ZeroGrad()
//	    loss := computeLoss(w, b)
//	    if err := autodiff.Backward(loss); err != nil {
//	        return err
//	    }
//	    if err := optimizer.Step(); err != nil {
//	        return err
//	    }
//	}
package optim

import (
	"github.com/pkg/errors"

	"github.com/born-ml/minitorch/internal/tensor"
)

// Optimizer is the base interface for all optimization algorithms.
//
// All optimizers must implement:
//   - Step: Apply gradient updates to parameters
//   - ZeroGrad: Clear gradients before next iteration
//   - GetLR: Get current learning rate (for monitoring/scheduling)
type Optimizer interface {
	// Step applies one update to every parameter from its gradient buffer.
	Step() error

	// ZeroGrad clears all parameter gradients.
	//
	// Gradients accumulate across backward passes, so call this before each
	// new one.
	ZeroGrad()

	// GetLR returns the current learning rate.
	GetLR() float64
}

// checkParams rejects parameters that cannot be optimized: nil or released
// tensors, integer tensors and tensors that do not track gradients.
func checkParams(name string, params []*tensor.Tensor) error {
	for i, p := range params {
		if p == nil || p.Released() {
			return errors.Wrapf(tensor.ErrInvalidShape, "%s: parameter %d is nil or released", name, i)
		}
		if !p.DType().IsFloat() {
			return tensor.Unsupported(name, p.DType())
		}
		if !p.RequiresGrad() {
			return errors.Wrapf(tensor.ErrUnsupportedType, "%s: parameter %d does not track gradients", name, i)
		}
	}
	return nil
}

// checkLive fails when a parameter was released after the optimizer was built.
func checkLive(name string, i int, p *tensor.Tensor) error {
	if p.Released() {
		return errors.Wrapf(tensor.ErrInvalidShape, "%s: parameter %d was released", name, i)
	}
	return nil
}

// zeroGrad clears the gradient buffer of every parameter.
func zeroGrad(params []*tensor.Tensor) {
	for _, p := range params {
		p.ZeroGrad()
	}
}

// state allocates a zeroed non-tracking buffer shaped like p.
func state(p *tensor.Tensor) (*tensor.Tensor, error) {
	return tensor.Zeros(p.DType(), p.Shape(), false)
}
