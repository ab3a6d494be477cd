package integrators

import "github.com/san-kum/eulersim/internal/dynamo"

// RK4 is the classic fourth-order Runge-Kutta method.
type RK4 struct{}

func NewRK4() *RK4 {
	return &RK4{}
}

func (r *RK4) Name() string { return "rk4" }

func (r *RK4) Step(f dynamo.RightHandSide, t, y, h float64) (float64, int, error) {
	halfH := h * 0.5

	k1 := f(t, y)
	if err := checkStage(t, y, k1, 1); err != nil {
		return 0, 1, err
	}

	k2 := f(t+halfH, y+halfH*k1)
	if err := checkStage(t, y, k2, 2); err != nil {
		return 0, 2, err
	}

	k3 := f(t+halfH, y+halfH*k2)
	if err := checkStage(t, y, k3, 3); err != nil {
		return 0, 3, err
	}

	k4 := f(t+h, y+h*k3)
	if err := checkStage(t, y, k4, 4); err != nil {
		return 0, 4, err
	}

	next := y + h/6.0*(k1+2*k2+2*k3+k4)
	if !dynamo.IsFinite(next) {
		return 0, 4, &dynamo.NumericalError{Time: t, Value: y, Derivative: k1, Reason: "non-finite value"}
	}
	return next, 4, nil
}
