// Package compute provides execution backends for batches of independent
// integration problems.
//
//   - Serial: problems run one after another on the calling goroutine
//   - CPU: problems run on a bounded worker pool
//
// The Euler recurrence is sequential, so no backend parallelizes within a
// trajectory; speedup comes only from running many problems at once, as in a
// step-size convergence study:
//
//	backend := compute.Select(len(problems))
//	results := backend.IntegrateBatch(ctx, solver, problems)
package compute
