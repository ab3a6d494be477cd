// Package dynamo provides the core primitives for fixed-step integration of
// scalar ordinary differential equations dy/dt = f(t, y).
//
//   - [Problem]: initial value problem (t0, y0, f, h, steps)
//   - [Trajectory]: the steps+1 samples produced by one run
//   - [Stepper]: single-step method interface
//   - [Solver]: drives a Stepper over a Problem
//
// # Example
//
//	solver := dynamo.New(integrators.NewEuler())
//	tr, err := solver.Integrate(ctx, dynamo.Problem{
//		T0: 0, Y0: 1, H: 0.01, Steps: 1000,
//		RHS: func(t, y float64) float64 { return -2 * y },
//	})
//
// # Errors
//
// Bad inputs fail with [ErrInvalidParameter] before any step is taken. A
// NaN or Inf derivative or value fails with a [*NumericalError] naming the
// step index; nothing past that step is computed.
//
// # Thread Safety
//
// The recurrence is sequential, so a single trajectory is always computed on
// one goroutine. Independent problems may be integrated concurrently with the
// same Solver.
package dynamo
