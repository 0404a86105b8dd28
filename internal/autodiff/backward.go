package autodiff

import (
	"github.com/pkg/errors"
	"k8s.io/klog/v2"

	"github.com/born-ml/minitorch/internal/autodiff/ops"
	"github.com/born-ml/minitorch/internal/tensor"
)

// depthFirst dispatches t's rule, then recurses into every tracking operand
// in recorded order. Shared subgraphs are entered once per path.
//
// Operands that do not track gradients carry no upstream gradient, so their
// subgraphs are not entered.
func depthFirst(t *tensor.Tensor, stats *Stats) error {
	stats.Visited++
	if t.IsLeaf() {
		return nil
	}
	if err := dispatch(t, stats); err != nil {
		return err
	}
	for _, operand := range t.Operands() {
		if !operand.RequiresGrad() {
			continue
		}
		if err := depthFirst(operand, stats); err != nil {
			return err
		}
	}
	return nil
}

// topological replays the recorded tape, dispatching each rule exactly once.
func topological(root *tensor.Tensor, stats *Stats) error {
	tp := record(root)
	stats.Visited += tp.Len()
	for _, t := range tp.nodes {
		if t.IsLeaf() {
			continue
		}
		if err := dispatch(t, stats); err != nil {
			return err
		}
	}
	return nil
}

// dispatch runs the backward rule recorded on t.
func dispatch(t *tensor.Tensor, stats *Stats) error {
	rule, ok := ops.Rule(t.Op())
	if !ok {
		return errors.Errorf("backward: no rule for op %s on tensor %d", t.Op(), t.ID())
	}
	if t.Released() {
		return errors.Wrapf(tensor.ErrInvalidShape, "backward %s: tensor %d was released", t.Op(), t.ID())
	}
	for i, operand := range t.Operands() {
		if operand.Released() {
			return errors.Wrapf(tensor.ErrInvalidShape, "backward %s: operand %d of tensor %d was released", t.Op(), i, t.ID())
		}
	}
	klog.V(4).Infof("autodiff: dispatch %s on tensor %d %v", t.Op(), t.ID(), t.Shape())
	if err := rule(t); err != nil {
		return errors.Wrapf(err, "backward %s (tensor %d)", t.Op(), t.ID())
	}
	stats.Dispatched++
	return nil
}
