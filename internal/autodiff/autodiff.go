// Package autodiff drives reverse-mode automatic differentiation over the
// graphs recorded on tensors by the operations in package ops.
//
// Every forward operation stores its operator tag and operands on the result
// tensor. Backward walks those back-references from a root and dispatches the
// matching backward rule at every non-leaf tensor, accumulating gradients
// into each operand that tracks them.
//
// Usage:
//
//	x, _ := tensor.FromSlice([]float64{2}, tensor.Shape{1}, true)
//	y, _ := ops.Mul(x, x) // y = x²
//
//	if err := autodiff.Backward(y); err != nil {
//		return err
//	}
//	fmt.Println(x.GradFloat64()) // dy/dx = 2x = [4]
//
// Two traversal orders are available. DepthFirst (the default) re-runs a
// shared intermediate's rule once per incoming path, so gradients through
// diamond-shaped graphs are multiplied by the path count. Topological visits
// every reachable tensor exactly once, after all of its consumers, and yields
// mathematically exact gradients for any DAG.
package autodiff

import (
	"github.com/pkg/errors"
	"k8s.io/klog/v2"

	"github.com/born-ml/minitorch/internal/tensor"
)

// Order selects how the engine walks the recorded graph.
type Order int

const (
	// DepthFirst dispatches the root's rule and then recurses into its
	// operands in recorded order, with no visited set.
	DepthFirst Order = iota
	// Topological dispatches each reachable rule once, in reverse topological order.
	Topological
)

// String returns the flag spelling of the order.
func (o Order) String() string {
	switch o {
	case DepthFirst:
		return "depth-first"
	case Topological:
		return "topological"
	default:
		return "unknown"
	}
}

// ParseOrder parses the flag spelling produced by Order.String.
func ParseOrder(s string) (Order, error) {
	switch s {
	case "depth-first", "":
		return DepthFirst, nil
	case "topological":
		return Topological, nil
	default:
		return 0, errors.Errorf("unknown traversal order %q (want depth-first or topological)", s)
	}
}

// Config holds engine configuration.
type Config struct {
	Order Order // Traversal order (default: DepthFirst)
}

// DefaultConfig returns the default engine configuration.
func DefaultConfig() Config {
	return Config{Order: DepthFirst}
}

// Stats summarizes one traversal.
type Stats struct {
	Visited    int // tensors entered, counting repeat visits in DepthFirst order
	Dispatched int // backward rules run
}

// Engine runs backward traversals. It holds no per-graph state; a single
// engine may be reused across graphs but not for concurrent traversals of
// graphs that share tensors.
type Engine struct {
	config Config
}

// NewEngine creates an engine with the given configuration.
func NewEngine(config Config) *Engine {
	return &Engine{config: config}
}

// Config returns the engine configuration.
func (e *Engine) Config() Config {
	return e.config
}

// Backward seeds the root's gradient with ones and propagates it to every
// reachable tensor that tracks gradients.
//
// Gradients accumulate: call ZeroGrad between iterations to start fresh.
// A root that does not track gradients is a no-op; an integer root fails with
// ErrUnsupportedType.
func (e *Engine) Backward(root *tensor.Tensor) (Stats, error) {
	if err := checkRoot(root); err != nil {
		return Stats{}, err
	}
	if !root.RequiresGrad() {
		return Stats{}, nil
	}
	root.FillGrad(1)
	return e.traverse(root)
}

// Traverse propagates the root's current gradient without seeding it.
// Callers that need an upstream gradient other than ones fill it first.
func (e *Engine) Traverse(root *tensor.Tensor) (Stats, error) {
	if err := checkRoot(root); err != nil {
		return Stats{}, err
	}
	if !root.RequiresGrad() {
		return Stats{}, nil
	}
	return e.traverse(root)
}

func (e *Engine) traverse(root *tensor.Tensor) (Stats, error) {
	var (
		stats Stats
		err   error
	)
	switch e.config.Order {
	case Topological:
		err = topological(root, &stats)
	default:
		err = depthFirst(root, &stats)
	}
	if err != nil {
		return stats, err
	}
	klog.V(2).Infof("autodiff: %s backward from tensor %d: visited=%d dispatched=%d",
		e.config.Order, root.ID(), stats.Visited, stats.Dispatched)
	return stats, nil
}

func checkRoot(root *tensor.Tensor) error {
	if root == nil {
		return errors.Wrap(tensor.ErrInvalidShape, "backward: root is nil")
	}
	if root.Released() {
		return errors.Wrapf(tensor.ErrInvalidShape, "backward: root tensor %d was released", root.ID())
	}
	if !root.DType().IsFloat() {
		return tensor.Unsupported("backward", root.DType())
	}
	return nil
}

var defaultEngine = NewEngine(DefaultConfig())

// Backward runs the default depth-first engine from root.
func Backward(root *tensor.Tensor) error {
	_, err := defaultEngine.Backward(root)
	return err
}

// ZeroGrad clears the gradient buffer of every tensor reachable from root.
func ZeroGrad(root *tensor.Tensor) {
	if root == nil {
		return
	}
	walk(root, func(t *tensor.Tensor) {
		t.ZeroGrad()
	})
}
