package autodiff

import "github.com/born-ml/minitorch/internal/tensor"

// tape is the reverse topological order of the tracking tensors reachable
// from a root: every tensor appears after all of the tensors that consume it.
// Replaying it front to back runs each rule once, after its upstream gradient
// is complete.
type tape struct {
	nodes []*tensor.Tensor
}

// record builds the tape for root with a post-order DFS over tracking operands.
func record(root *tensor.Tensor) *tape {
	var (
		order   []*tensor.Tensor
		visited = make(map[*tensor.Tensor]struct{})
		visit   func(t *tensor.Tensor)
	)
	visit = func(t *tensor.Tensor) {
		if _, ok := visited[t]; ok {
			return
		}
		visited[t] = struct{}{}
		for _, operand := range t.Operands() {
			if operand.RequiresGrad() {
				visit(operand)
			}
		}
		order = append(order, t)
	}
	visit(root)

	// Post-order puts operands first; reverse so consumers come first.
	for i, j := 0, len(order)-1; i < j; i, j = i+1, j-1 {
		order[i], order[j] = order[j], order[i]
	}
	return &tape{nodes: order}
}

// Len returns the number of recorded tensors.
func (t *tape) Len() int {
	return len(t.nodes)
}

// walk calls fn once for every tensor reachable from root, tracking or not.
func walk(root *tensor.Tensor, fn func(t *tensor.Tensor)) {
	visited := make(map[*tensor.Tensor]struct{})
	stack := []*tensor.Tensor{root}
	for len(stack) > 0 {
		t := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if _, ok := visited[t]; ok {
			continue
		}
		visited[t] = struct{}{}
		fn(t)
		stack = append(stack, t.Operands()...)
	}
}
