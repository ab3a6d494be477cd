package dynamo

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"log/slog"
)

// Solver drives a Stepper over a Problem. It keeps no state between calls,
// so one Solver may serve concurrent Integrate calls on different problems.
type Solver struct {
	stepper Stepper
	logger  *slog.Logger
}

func New(stepper Stepper) *Solver {
	return &Solver{
		stepper: stepper,
		logger:  slog.New(slog.DiscardHandler),
	}
}

// WithLogger returns a copy of s that logs run boundaries to l.
func (s *Solver) WithLogger(l *slog.Logger) *Solver {
	if l == nil {
		return s
	}
	c := *s
	c.logger = l
	return &c
}

func (s *Solver) Method() string { return s.stepper.Name() }

// Integrate computes the full trajectory of p.
//
// If ctx is done before the last step, the points computed so far are
// returned with Incomplete set, together with ctx.Err(). A non-finite
// derivative or value aborts the run with a *NumericalError and no trajectory.
func (s *Solver) Integrate(ctx context.Context, p Problem) (*Trajectory, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	tr := &Trajectory{
		Points: make([]Point, 0, p.Steps+1),
		Stats:  Stats{Method: s.stepper.Name()},
	}

	evals, err := s.run(ctx, p, func(pt Point) bool {
		tr.Points = append(tr.Points, pt)
		return true
	})
	tr.Stats.Evaluations = evals

	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(err, ctxErr) {
			tr.Incomplete = true
			s.logger.Warn("integration canceled", "method", tr.Stats.Method, "points", len(tr.Points), "steps", p.Steps)
			return tr, err
		}
		s.logger.Debug("integration failed", "method", tr.Stats.Method, "err", err)
		return nil, err
	}

	s.logger.Debug("integration complete",
		"method", tr.Stats.Method,
		"steps", p.Steps,
		"evaluations", evals,
		"final", tr.Final().Y,
	)
	return tr, nil
}

// Final integrates p without keeping the trajectory and returns its last
// point, so memory use does not grow with p.Steps. Errors follow Integrate:
// on cancellation the last point reached is returned with ctx.Err().
func (s *Solver) Final(ctx context.Context, p Problem) (Point, Stats, error) {
	stats := Stats{Method: s.stepper.Name()}
	if err := p.Validate(); err != nil {
		return Point{}, stats, err
	}

	var last Point
	evals, err := s.run(ctx, p, func(pt Point) bool {
		last = pt
		return true
	})
	stats.Evaluations = evals
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(err, ctxErr) {
			return last, stats, err
		}
		return Point{}, stats, err
	}
	return last, stats, nil
}

// Stream yields each point of the trajectory lazily. Iteration stops after
// the first error; to start over, call Stream again.
func (s *Solver) Stream(ctx context.Context, p Problem) iter.Seq2[Point, error] {
	return func(yield func(Point, error) bool) {
		if err := p.Validate(); err != nil {
			yield(Point{}, err)
			return
		}
		stopped := false
		_, err := s.run(ctx, p, func(pt Point) bool {
			if !yield(pt, nil) {
				stopped = true
				return false
			}
			return true
		})
		if err != nil && !stopped {
			yield(Point{}, err)
		}
	}
}

// run emits every point of p in order until emit returns false. It returns
// the number of right-hand-side evaluations spent.
func (s *Solver) run(ctx context.Context, p Problem, emit func(Point) bool) (int, error) {
	cur := Point{T: p.T0, Y: p.Y0}
	if !emit(cur) {
		return 0, nil
	}

	evals := 0
	for i := 0; i < p.Steps; i++ {
		select {
		case <-ctx.Done():
			return evals, ctx.Err()
		default:
		}

		next, n, err := s.stepper.Step(p.RHS, cur.T, cur.Y, p.H)
		evals += n
		if err != nil {
			return evals, stepFailed(i, cur, err)
		}

		cur = Point{T: p.TimeAt(i + 1), Y: next}
		if !emit(cur) {
			return evals, nil
		}
	}
	return evals, nil
}

func stepFailed(step int, at Point, err error) error {
	var numErr *NumericalError
	if errors.As(err, &numErr) {
		numErr.Step = step
		return numErr
	}
	return fmt.Errorf("step %d (t=%g, y=%g): %w", step, at.T, at.Y, err)
}
