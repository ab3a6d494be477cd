package compute

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/san-kum/eulersim/internal/dynamo"
)

type SerialBackend struct{}

func NewSerialBackend() *SerialBackend { return &SerialBackend{} }

func (s *SerialBackend) Name() string    { return "serial" }
func (s *SerialBackend) Available() bool { return true }

func (s *SerialBackend) IntegrateBatch(ctx context.Context, solver *dynamo.Solver, problems []dynamo.Problem) []Result {
	return s.run(ctx, problems, integrateJob(solver))
}

func (s *SerialBackend) FinalBatch(ctx context.Context, solver *dynamo.Solver, problems []dynamo.Problem) []Result {
	return s.run(ctx, problems, finalJob(solver))
}

func (s *SerialBackend) run(ctx context.Context, problems []dynamo.Problem, do job) []Result {
	results := make([]Result, len(problems))
	for i, p := range problems {
		results[i] = do(ctx, p)
	}
	return results
}

// CPUBackend runs independent problems on a bounded pool of goroutines.
type CPUBackend struct {
	workers int
}

// NewCPUBackend returns a pool of the given size; workers <= 0 means one per CPU.
func NewCPUBackend(workers int) *CPUBackend {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &CPUBackend{workers: workers}
}

func (c *CPUBackend) Name() string    { return fmt.Sprintf("cpu (%d workers)", c.workers) }
func (c *CPUBackend) Available() bool { return true }
func (c *CPUBackend) Workers() int    { return c.workers }

func (c *CPUBackend) IntegrateBatch(ctx context.Context, solver *dynamo.Solver, problems []dynamo.Problem) []Result {
	return c.run(ctx, problems, integrateJob(solver))
}

func (c *CPUBackend) FinalBatch(ctx context.Context, solver *dynamo.Solver, problems []dynamo.Problem) []Result {
	return c.run(ctx, problems, finalJob(solver))
}

func (c *CPUBackend) run(ctx context.Context, problems []dynamo.Problem, do job) []Result {
	results := make([]Result, len(problems))

	// Problems are independent: one failure must not cancel the others, so
	// workers always return nil and errors travel in results.
	var g errgroup.Group
	g.SetLimit(c.workers)
	for i, p := range problems {
		g.Go(func() error {
			results[i] = do(ctx, p)
			return nil
		})
	}
	_ = g.Wait()

	return results
}
