package integrators

import "github.com/san-kum/eulersim/internal/dynamo"

// Euler is the explicit (forward) Euler method: y(t+h) = y + h*f(t, y).
type Euler struct{}

func NewEuler() *Euler {
	return &Euler{}
}

func (e *Euler) Name() string { return "euler" }

func (e *Euler) Step(f dynamo.RightHandSide, t, y, h float64) (float64, int, error) {
	d := f(t, y)
	if !dynamo.IsFinite(d) {
		return 0, 1, &dynamo.NumericalError{Time: t, Value: y, Derivative: d, Reason: "non-finite derivative"}
	}
	next := y + h*d
	if !dynamo.IsFinite(next) {
		return 0, 1, &dynamo.NumericalError{Time: t, Value: y, Derivative: d, Reason: "non-finite value"}
	}
	return next, 1, nil
}
