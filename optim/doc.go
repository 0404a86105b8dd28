// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package optim provides optimization algorithms that update tensors in place
// from their accumulated gradients.
//
// # Overview
//
// This package contains:
//   - SGD: Stochastic Gradient Descent with momentum
//   - Adam: Adaptive Moment Estimation with bias correction
//   - Optimizer interface for custom optimizers
//
// Parameters are float32 or float64 tensors created with requiresGrad set.
// Integer or non-tracking parameters are rejected with
// tensor.ErrUnsupportedType.
//
// # Training Loop Pattern
//
//	w, _ := tensor.Randn(tensor.Float64, tensor.Shape{2, 1}, true)
//	optimizer, err := optim.NewAdam([]*tensor.Tensor{w}, optim.AdamConfig{LR: 0.01})
//	if err != nil {
//	    return err
//	}
//
//	for step := range numSteps {
//	    // 1. Zero gradients
//	    optimizer.ZeroGrad()
//
//	    // 2. Forward pass
//	    pred, _ := tensor.MatMul(x, w)
//	    loss, _ := tensor.MSE(y, pred)
//
//	    // 3. Backward pass
//	    if err := autodiff.Backward(loss); err != nil {
//	        return err
//	    }
//
//	    // 4. Update parameters
//	    if err := optimizer.Step(); err != nil {
//	        return err
//	    }
//	}
package optim
