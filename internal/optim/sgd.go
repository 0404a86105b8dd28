package optim

import (
	"fmt"

	"github.com/pkg/errors"
	"k8s.io/klog/v2"

	"github.com/born-ml/minitorch/internal/tensor"
)

// SGD implements Stochastic Gradient Descent optimizer with optional momentum.
//
// Update rule without momentum:
//
//	param = param - lr * gradient
//
// Update rule with momentum:
//
//	velocity = momentum * velocity + gradient
//	param = param - lr * velocity
//
// Example:
//
//	optimizer, err := optim.NewSGD(params, optim.SGDConfig{
//	    LR:       0.01,
//	    Momentum: 0.9,
//	})
type SGD struct {
	params     []*tensor.Tensor
	lr         float64
	momentum   float64
	velocities map[*tensor.Tensor]*tensor.Tensor
}

// SGDConfig holds configuration for SGD optimizer.
type SGDConfig struct {
	LR       float64 // Learning rate (default: 0.01)
	Momentum float64 // Momentum factor (default: 0.0, range: [0, 1))
}

// NewSGD creates a new SGD optimizer over params.
//
// Every parameter must be a floating-point tensor that tracks gradients;
// anything else fails with ErrUnsupportedType.
func NewSGD(params []*tensor.Tensor, config SGDConfig) (*SGD, error) {
	if err := checkParams("sgd", params); err != nil {
		return nil, err
	}
	if config.LR == 0 {
		config.LR = 0.01
	}

	return &SGD{
		params:     params,
		lr:         config.LR,
		momentum:   config.Momentum,
		velocities: make(map[*tensor.Tensor]*tensor.Tensor),
	}, nil
}

// Step performs a single optimization step.
//
// Applies gradient descent update to all parameters:
//   - Without momentum: param -= lr * grad
//   - With momentum: velocity = momentum * velocity + grad, param -= lr * velocity
func (s *SGD) Step() error {
	for i, param := range s.params {
		if err := checkLive("sgd", i, param); err != nil {
			return err
		}

		var velocity *tensor.Tensor
		if s.momentum != 0 {
			v, err := s.velocity(param)
			if err != nil {
				return err
			}
			velocity = v
		}

		switch param.DType() {
		case tensor.Float32:
			sgdUpdate[float32](param, velocity, s.lr, s.momentum)
		case tensor.Float64:
			sgdUpdate[float64](param, velocity, s.lr, s.momentum)
		}
	}
	klog.V(3).Infof("optim: sgd step lr=%g momentum=%g params=%d", s.lr, s.momentum, len(s.params))
	return nil
}

// velocity returns the velocity buffer for param, allocating it on first use.
func (s *SGD) velocity(param *tensor.Tensor) (*tensor.Tensor, error) {
	if v, ok := s.velocities[param]; ok {
		return v, nil
	}
	v, err := state(param)
	if err != nil {
		return nil, errors.Wrap(err, "sgd: velocity")
	}
	s.velocities[param] = v
	return v, nil
}

func sgdUpdate[T tensor.Float](param, velocity *tensor.Tensor, lr, momentum float64) {
	data := tensor.Data[T](param)
	grad := tensor.Grad[T](param)
	rate := T(lr)

	if velocity == nil {
		for i, g := range grad {
			data[i] -= rate * g
		}
		return
	}

	mom := T(momentum)
	vel := tensor.Data[T](velocity)
	for i, g := range grad {
		vel[i] = mom*vel[i] + g
		data[i] -= rate * vel[i]
	}
}

// ZeroGrad clears gradients for all parameters.
func (s *SGD) ZeroGrad() {
	zeroGrad(s.params)
}

// GetLR returns the current learning rate.
func (s *SGD) GetLR() float64 {
	return s.lr
}

// SetLR updates the learning rate.
//
// Useful for learning rate scheduling during training.
func (s *SGD) SetLR(lr float64) {
	s.lr = lr
}

// StateDict returns the optimizer state.
//
// For SGD with momentum, this exports velocity buffers for each parameter.
// Without momentum, returns an empty map.
//
// State keys: "velocity.{param_index}" -> velocity tensor.
func (s *SGD) StateDict() map[string]*tensor.Tensor {
	stateDict := make(map[string]*tensor.Tensor)
	if s.momentum == 0 {
		return stateDict
	}

	for i, param := range s.params {
		velocity, exists := s.velocities[param]
		if !exists {
			continue // No velocity yet (hasn't been used in training)
		}
		stateDict[fmt.Sprintf("velocity.%d", i)] = velocity
	}
	return stateDict
}

// LoadStateDict restores velocity buffers saved by StateDict. The buffers are
// copied. If momentum is 0 the state is ignored.
//
// Returns ErrShapeMismatch if a velocity does not match its parameter.
func (s *SGD) LoadStateDict(stateDict map[string]*tensor.Tensor) error {
	if s.momentum == 0 {
		return nil
	}

	velocities := make(map[*tensor.Tensor]*tensor.Tensor)
	for i, param := range s.params {
		key := fmt.Sprintf("velocity.%d", i)
		velocity, exists := stateDict[key]
		if !exists {
			// Initialized on first step
			continue
		}
		if err := tensor.CheckSameShape("sgd: "+key, param, velocity); err != nil {
			return err
		}
		velocities[param] = velocity.Detach()
	}
	s.velocities = velocities
	return nil
}
