package compute

import (
	"context"

	"github.com/san-kum/eulersim/internal/dynamo"
)

// serialThreshold is the batch size below which goroutine fan-out costs more
// than it saves.
const serialThreshold = 4

// Result pairs a problem's trajectory with its error. Index i of a batch
// result always belongs to problem i. FinalBatch leaves Trajectory nil and
// fills only Final.
type Result struct {
	Trajectory *dynamo.Trajectory
	Final      dynamo.Point
	Err        error
}

// Backend integrates batches of independent problems. A backend never splits
// a single trajectory; each problem runs start to finish on one goroutine.
type Backend interface {
	Name() string
	Available() bool
	IntegrateBatch(ctx context.Context, solver *dynamo.Solver, problems []dynamo.Problem) []Result
	FinalBatch(ctx context.Context, solver *dynamo.Solver, problems []dynamo.Problem) []Result
}

type job func(ctx context.Context, p dynamo.Problem) Result

func integrateJob(solver *dynamo.Solver) job {
	return func(ctx context.Context, p dynamo.Problem) Result {
		tr, err := solver.Integrate(ctx, p)
		r := Result{Trajectory: tr, Err: err}
		if tr != nil {
			r.Final = tr.Final()
		}
		return r
	}
}

func finalJob(solver *dynamo.Solver) job {
	return func(ctx context.Context, p dynamo.Problem) Result {
		final, _, err := solver.Final(ctx, p)
		return Result{Final: final, Err: err}
	}
}

// Select picks a backend for a batch of n problems.
func Select(n int) Backend {
	if n < serialThreshold {
		return NewSerialBackend()
	}
	return NewCPUBackend(0)
}

// FirstError returns the first non-nil error in results, in problem order.
func FirstError(results []Result) error {
	for _, r := range results {
		if r.Err != nil {
			return r.Err
		}
	}
	return nil
}
