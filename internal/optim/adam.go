package optim

import (
	"math"

	"github.com/pkg/errors"
	"k8s.io/klog/v2"

	"github.com/born-ml/minitorch/internal/tensor"
)

// Adam implements the Adam (Adaptive Moment Estimation) optimizer.
//
// Update rule:
//
//	m_t = beta1 * m_{t-1} + (1-beta1) * gradient       // First moment
//	v_t = beta2 * v_{t-1} + (1-beta2) * gradient²      // Second moment
//	m_hat = m_t / (1 - beta1^t)                        // Bias correction
//	v_hat = v_t / (1 - beta2^t)                        // Bias correction
//	param = param - lr * m_hat / (sqrt(v_hat) + eps)  // Parameter update
//
// Reference: "Adam: A Method for Stochastic Optimization" (Kingma & Ba, 2014)
type Adam struct {
	params []*tensor.Tensor
	lr     float64
	beta1  float64
	beta2  float64
	eps    float64
	t      int                               // Timestep for bias correction
	m      map[*tensor.Tensor]*tensor.Tensor // First moment estimates
	v      map[*tensor.Tensor]*tensor.Tensor // Second moment estimates
}

// AdamConfig holds configuration for Adam optimizer.
type AdamConfig struct {
	LR    float64    // Learning rate (default: 0.001)
	Betas [2]float64 // Coefficients for computing running averages (default: [0.9, 0.999])
	Eps   float64    // Term for numerical stability (default: 1e-8)
}

// NewAdam creates a new Adam optimizer over params.
//
// Default hyperparameters:
//   - LR: 0.001
//   - Beta1: 0.9
//   - Beta2: 0.999
//   - Eps: 1e-8
func NewAdam(params []*tensor.Tensor, config AdamConfig) (*Adam, error) {
	if err := checkParams("adam", params); err != nil {
		return nil, err
	}
	if config.LR == 0 {
		config.LR = 0.001
	}
	if config.Betas[0] == 0 {
		config.Betas[0] = 0.9
	}
	if config.Betas[1] == 0 {
		config.Betas[1] = 0.999
	}
	if config.Eps == 0 {
		config.Eps = 1e-8
	}

	return &Adam{
		params: params,
		lr:     config.LR,
		beta1:  config.Betas[0],
		beta2:  config.Betas[1],
		eps:    config.Eps,
		m:      make(map[*tensor.Tensor]*tensor.Tensor),
		v:      make(map[*tensor.Tensor]*tensor.Tensor),
	}, nil
}

// Step performs a single optimization step using Adam algorithm.
func (a *Adam) Step() error {
	a.t++

	step := adamStep{
		lr:    a.lr,
		beta1: a.beta1,
		beta2: a.beta2,
		eps:   a.eps,
		bc1:   1.0 - math.Pow(a.beta1, float64(a.t)),
		bc2:   1.0 - math.Pow(a.beta2, float64(a.t)),
	}

	for i, param := range a.params {
		if err := checkLive("adam", i, param); err != nil {
			return err
		}
		m, v, err := a.moments(param)
		if err != nil {
			return err
		}

		switch param.DType() {
		case tensor.Float32:
			adamUpdate[float32](param, m, v, step)
		case tensor.Float64:
			adamUpdate[float64](param, m, v, step)
		}
	}
	klog.V(3).Infof("optim: adam step t=%d lr=%g params=%d", a.t, a.lr, len(a.params))
	return nil
}

// moments returns the moment buffers for param, allocating them on first use.
func (a *Adam) moments(param *tensor.Tensor) (m, v *tensor.Tensor, err error) {
	m, mExists := a.m[param]
	if !mExists {
		if m, err = state(param); err != nil {
			return nil, nil, errors.Wrap(err, "adam: first moment")
		}
		a.m[param] = m
	}
	v, vExists := a.v[param]
	if !vExists {
		if v, err = state(param); err != nil {
			return nil, nil, errors.Wrap(err, "adam: second moment")
		}
		a.v[param] = v
	}
	return m, v, nil
}

// adamStep carries the hyperparameters and bias corrections of one step.
type adamStep struct {
	lr, beta1, beta2, eps float64
	bc1, bc2              float64
}

func adamUpdate[T tensor.Float](param, m, v *tensor.Tensor, s adamStep) {
	data := tensor.Data[T](param)
	grad := tensor.Grad[T](param)
	mData := tensor.Data[T](m)
	vData := tensor.Data[T](v)

	beta1, beta2 := T(s.beta1), T(s.beta2)
	bc1, bc2 := T(s.bc1), T(s.bc2)
	lr, eps := T(s.lr), T(s.eps)

	for i, g := range grad {
		mData[i] = beta1*mData[i] + (1-beta1)*g
		vData[i] = beta2*vData[i] + (1-beta2)*g*g

		mHat := mData[i] / bc1
		vHat := vData[i] / bc2
		data[i] -= lr * mHat / (T(math.Sqrt(float64(vHat))) + eps)
	}
}

// ZeroGrad clears gradients for all parameters.
func (a *Adam) ZeroGrad() {
	zeroGrad(a.params)
}

// GetLR returns the current learning rate.
func (a *Adam) GetLR() float64 {
	return a.lr
}

// SetLR updates the learning rate.
func (a *Adam) SetLR(lr float64) {
	a.lr = lr
}

// GetTimestep returns the current timestep.
func (a *Adam) GetTimestep() int {
	return a.t
}
