package integrators

import (
	"fmt"

	"github.com/san-kum/eulersim/internal/dynamo"
)

// Heun is the explicit trapezoidal rule: an Euler predictor followed by an
// averaged-slope corrector.
type Heun struct{}

func NewHeun() *Heun {
	return &Heun{}
}

func (hn *Heun) Name() string { return "heun" }

func (hn *Heun) Step(f dynamo.RightHandSide, t, y, h float64) (float64, int, error) {
	k1 := f(t, y)
	if err := checkStage(t, y, k1, 1); err != nil {
		return 0, 1, err
	}

	k2 := f(t+h, y+h*k1)
	if err := checkStage(t, y, k2, 2); err != nil {
		return 0, 2, err
	}

	next := y + 0.5*h*(k1+k2)
	if !dynamo.IsFinite(next) {
		return 0, 2, &dynamo.NumericalError{Time: t, Value: y, Derivative: k1, Reason: "non-finite value"}
	}
	return next, 2, nil
}

func checkStage(t, y, k float64, stage int) error {
	if dynamo.IsFinite(k) {
		return nil
	}
	reason := "non-finite derivative"
	if stage > 1 {
		reason = fmt.Sprintf("non-finite derivative at stage %d", stage)
	}
	return &dynamo.NumericalError{Time: t, Value: y, Derivative: k, Reason: reason}
}
