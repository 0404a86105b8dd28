// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package autodiff computes gradients of tensors built with package tensor.
//
// Example:
//
//	import (
//	    "github.com/born-ml/minitorch/autodiff"
//	    "github.com/born-ml/minitorch/tensor"
//	)
//
//	func main() {
//	    x, _ := tensor.FromSlice([]float32{2}, tensor.Shape{1}, true)
//	    y, _ := tensor.Mul(x, x) // y = x²
//
//	    if err := autodiff.Backward(y); err != nil {
//	        log.Fatal(err)
//	    }
//	    fmt.Println(tensor.Grad[float32](x)) // [4]
//	}
//
// Gradients accumulate across calls; clear them with ZeroGrad or
// Tensor.ZeroGrad before the next backward pass.
package autodiff

import (
	"github.com/born-ml/minitorch/internal/autodiff"
	"github.com/born-ml/minitorch/internal/tensor"
)

// Engine runs backward traversals with a fixed configuration.
type Engine = autodiff.Engine

// Config holds engine configuration.
type Config = autodiff.Config

// Order selects the traversal order.
type Order = autodiff.Order

// Traversal orders.
const (
	// DepthFirst re-enters shared subgraphs once per path.
	DepthFirst Order = autodiff.DepthFirst
	// Topological runs each backward rule exactly once.
	Topological Order = autodiff.Topological
)

// Stats summarizes one traversal.
type Stats = autodiff.Stats

// NewEngine creates an engine.
//
// Example:
//
//	engine := autodiff.NewEngine(autodiff.Config{Order: autodiff.Topological})
//	stats, err := engine.Backward(loss)
func NewEngine(config Config) *Engine {
	return autodiff.NewEngine(config)
}

// ParseOrder parses "depth-first" or "topological".
func ParseOrder(s string) (Order, error) {
	return autodiff.ParseOrder(s)
}

// Backward seeds root's gradient with ones and propagates it depth-first.
func Backward(root *tensor.Tensor) error {
	return autodiff.Backward(root)
}

// ZeroGrad clears the gradient of every tensor reachable from root.
func ZeroGrad(root *tensor.Tensor) {
	autodiff.ZeroGrad(root)
}
