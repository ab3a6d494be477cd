// Package analysis summarizes integration results.
//
//   - [Summarize]: min/max/mean/final and, given a closed form, error norms
//   - [PairwiseOrders]: observed order between successive step sizes
//   - [ConvergenceOrder]: least-squares order over a step-size sweep
//
// # Order of Accuracy
//
// Forward Euler is first order, so halving h should roughly halve the
// global error:
//
//	order, _ := analysis.ConvergenceOrder(hs, errs)
//	// order ≈ 1 for euler, 2 for heun, 4 for rk4
package analysis
