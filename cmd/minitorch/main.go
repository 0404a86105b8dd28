// Package main provides the minitorch CLI.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/pkg/errors"
	"k8s.io/klog/v2"

	"github.com/born-ml/minitorch/autodiff"
	"github.com/born-ml/minitorch/internal/parallel"
	"github.com/born-ml/minitorch/optim"
	"github.com/born-ml/minitorch/tensor"
)

const version = "v0.1.0-dev"

func main() {
	klog.InitFlags(nil)
	flag.Usage = usage
	flag.Parse()
	defer klog.Flush()

	if err := run(flag.Args()); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		klog.Flush()
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, "minitorch %s - reverse-mode autodiff over dense tensors\n\n", version)
	fmt.Fprintln(os.Stderr, "Usage: minitorch [klog flags] <command> [flags]")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "Commands:")
	fmt.Fprintln(os.Stderr, "  version    Show version")
	fmt.Fprintln(os.Stderr, "  fit        Fit y = w·x + b to synthetic data by gradient descent")
}

func run(args []string) error {
	if len(args) == 0 {
		usage()
		return nil
	}
	switch args[0] {
	case "version":
		fmt.Printf("minitorch %s\n", version)
		return nil
	case "fit":
		return fit(args[1:])
	default:
		usage()
		return errors.Errorf("unknown command %q", args[0])
	}
}

func fit(args []string) error {
	cfg := defaultFitConfig()
	var order, dtype string

	fs := flag.NewFlagSet("fit", flag.ContinueOnError)
	fs.IntVar(&cfg.Steps, "steps", cfg.Steps, "number of optimization steps")
	fs.IntVar(&cfg.Samples, "samples", cfg.Samples, "number of synthetic samples")
	fs.Float64Var(&cfg.LR, "lr", cfg.LR, "learning rate")
	fs.Float64Var(&cfg.Momentum, "momentum", cfg.Momentum, "SGD momentum factor")
	fs.StringVar(&cfg.Optimizer, "optim", cfg.Optimizer, "optimizer: sgd or adam")
	fs.StringVar(&order, "order", cfg.Order.String(), "traversal order: depth-first or topological")
	fs.StringVar(&dtype, "dtype", cfg.DType.String(), "element type: float32 or float64")
	fs.Uint64Var(&cfg.Seed, "seed", cfg.Seed, "random seed for the synthetic data")
	fs.Float64Var(&cfg.TrueW, "true-w", cfg.TrueW, "slope of the generating line")
	fs.Float64Var(&cfg.TrueB, "true-b", cfg.TrueB, "intercept of the generating line")
	fs.IntVar(&cfg.Workers, "workers", cfg.Workers, "kernel worker goroutines (0: GOMAXPROCS)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var err error
	if cfg.Order, err = autodiff.ParseOrder(order); err != nil {
		return err
	}
	if cfg.DType, err = parseDType(dtype); err != nil {
		return err
	}

	res, err := train(cfg)
	if err != nil {
		return err
	}
	fmt.Printf("fitted y = %.4f·x + %.4f (true %.4f·x + %.4f), final loss %.6g\n",
		res.W, res.B, cfg.TrueW, cfg.TrueB, res.Loss)
	return nil
}

func parseDType(s string) (tensor.DataType, error) {
	switch s {
	case "float32":
		return tensor.Float32, nil
	case "float64":
		return tensor.Float64, nil
	default:
		return 0, errors.Errorf("unsupported dtype %q (want float32 or float64)", s)
	}
}

// fitConfig holds the parameters of the fit command.
type fitConfig struct {
	Steps     int
	Samples   int
	LR        float64
	Momentum  float64
	Optimizer string
	Order     autodiff.Order
	DType     tensor.DataType
	Seed      uint64
	TrueW     float64
	TrueB     float64
	Workers   int
}

func defaultFitConfig() fitConfig {
	return fitConfig{
		Steps:     200,
		Samples:   64,
		LR:        0.1,
		Optimizer: "sgd",
		Order:     autodiff.DepthFirst,
		DType:     tensor.Float64,
		Seed:      1,
		TrueW:     3,
		TrueB:     -1,
	}
}

// fitResult is the learned line and the loss of the last step.
type fitResult struct {
	W, B float64
	Loss float64
}

// train fits the weight matrix W (2×1) so that X·W ≈ y, where each row of X
// is [x, 1] and the second weight acts as the bias.
func train(cfg fitConfig) (fitResult, error) {
	parallel.Configure(parallel.Config{Workers: cfg.Workers})

	x, y, err := syntheticData(cfg)
	if err != nil {
		return fitResult{}, err
	}
	defer tensor.Release(x, y)

	w, err := tensor.Zeros(cfg.DType, tensor.Shape{2, 1}, true)
	if err != nil {
		return fitResult{}, err
	}

	opt, err := newOptimizer(cfg, w)
	if err != nil {
		return fitResult{}, err
	}
	engine := autodiff.NewEngine(autodiff.Config{Order: cfg.Order})

	klog.Infof("fitting %d samples with %s (lr=%g, order=%s, dtype=%s)",
		cfg.Samples, cfg.Optimizer, cfg.LR, engine.Config().Order, cfg.DType)

	logEvery := max(cfg.Steps/10, 1)
	var res fitResult
	for step := 1; step <= cfg.Steps; step++ {
		opt.ZeroGrad()

		stats, loss, err := fitStep(engine, opt, x, y, w)
		if err != nil {
			return fitResult{}, errors.Wrapf(err, "step %d", step)
		}
		res.Loss = loss
		if step%logEvery == 0 || step == cfg.Steps {
			klog.Infof("step %d/%d loss=%.6g dispatched=%d", step, cfg.Steps, res.Loss, stats.Dispatched)
		}
	}

	klog.V(1).Infof("weights:\n%s", tensor.Format(w))
	params := values(w)
	res.W, res.B = params[0], params[1]
	return res, nil
}

// fitStep runs one forward, backward and update pass and releases the
// step's intermediates on every path.
func fitStep(engine *autodiff.Engine, opt optim.Optimizer, x, y, w *tensor.Tensor) (autodiff.Stats, float64, error) {
	pred, err := tensor.MatMul(x, w)
	if err != nil {
		return autodiff.Stats{}, 0, err
	}
	defer tensor.Release(pred)

	loss, err := tensor.MSE(y, pred)
	if err != nil {
		return autodiff.Stats{}, 0, err
	}
	defer tensor.Release(loss)

	stats, err := engine.Backward(loss)
	if err != nil {
		return stats, 0, err
	}
	if err := opt.Step(); err != nil {
		return stats, 0, err
	}
	return stats, values(loss)[0], nil
}

func newOptimizer(cfg fitConfig, params ...*tensor.Tensor) (optim.Optimizer, error) {
	switch cfg.Optimizer {
	case "sgd":
		return optim.NewSGD(params, optim.SGDConfig{LR: cfg.LR, Momentum: cfg.Momentum})
	case "adam":
		return optim.NewAdam(params, optim.AdamConfig{LR: cfg.LR})
	default:
		return nil, errors.Errorf("unknown optimizer %q (want sgd or adam)", cfg.Optimizer)
	}
}

// syntheticData draws x uniformly from [-2, 2) and returns the design matrix
// [x, 1] and targets trueW·x + trueB plus small Gaussian noise.
func syntheticData(cfg fitConfig) (x, y *tensor.Tensor, err error) {
	rng := tensor.NewRand(cfg.Seed)
	u, err := tensor.RandFrom(rng, tensor.Float64, tensor.Shape{cfg.Samples}, false)
	if err != nil {
		return nil, nil, err
	}
	noise, err := tensor.RandnFrom(rng, tensor.Float64, tensor.Shape{cfg.Samples}, false)
	if err != nil {
		return nil, nil, err
	}
	defer tensor.Release(u, noise)

	us, ns := tensor.Data[float64](u), tensor.Data[float64](noise)
	design := make([]float64, 0, 2*cfg.Samples)
	target := make([]float64, cfg.Samples)
	for i := range us {
		xi := 4*us[i] - 2
		design = append(design, xi, 1)
		target[i] = cfg.TrueW*xi + cfg.TrueB + 0.01*ns[i]
	}

	if x, err = fromFloat64(design, cfg.DType, tensor.Shape{cfg.Samples, 2}); err != nil {
		return nil, nil, err
	}
	if y, err = fromFloat64(target, cfg.DType, tensor.Shape{cfg.Samples, 1}); err != nil {
		x.Release()
		return nil, nil, err
	}
	return x, y, nil
}

func fromFloat64(data []float64, dtype tensor.DataType, shape tensor.Shape) (*tensor.Tensor, error) {
	if dtype == tensor.Float32 {
		converted := make([]float32, len(data))
		for i, v := range data {
			converted[i] = float32(v)
		}
		return tensor.New(converted, dtype, shape, false)
	}
	return tensor.New(data, dtype, shape, false)
}

// values copies a float tensor's data as float64.
func values(t *tensor.Tensor) []float64 {
	if t.DType() == tensor.Float32 {
		src := tensor.Data[float32](t)
		out := make([]float64, len(src))
		for i, v := range src {
			out[i] = float64(v)
		}
		return out
	}
	return append([]float64(nil), tensor.Data[float64](t)...)
}
