package dynamo

import "math"

// RightHandSide is f in dy/dt = f(t, y).
type RightHandSide func(t, y float64) float64

// Problem is a scalar initial value problem integrated with a fixed step.
type Problem struct {
	T0    float64
	Y0    float64
	RHS   RightHandSide
	H     float64
	Steps int
}

// Validate reports the first invalid field as a *ParameterError.
func (p Problem) Validate() error {
	if p.RHS == nil {
		return &ParameterError{Field: "rhs", Reason: "right-hand side is nil"}
	}
	if !(p.H > 0) || math.IsInf(p.H, 0) {
		return &ParameterError{Field: "h", Value: p.H, Reason: "step size must be positive and finite"}
	}
	if p.Steps < 0 {
		return &ParameterError{Field: "steps", Value: float64(p.Steps), Reason: "step count must be non-negative"}
	}
	if !IsFinite(p.T0) {
		return &ParameterError{Field: "t0", Value: p.T0, Reason: "initial time must be finite"}
	}
	if !IsFinite(p.Y0) {
		return &ParameterError{Field: "y0", Value: p.Y0, Reason: "initial value must be finite"}
	}
	return nil
}

// TimeAt returns T0 + i*H.
func (p Problem) TimeAt(i int) float64 {
	return p.T0 + float64(i)*p.H
}

// End is the time of the last sample.
func (p Problem) End() float64 {
	return p.TimeAt(p.Steps)
}

type Point struct {
	T float64 `json:"t"`
	Y float64 `json:"y"`
}

type Stats struct {
	Method      string `json:"method"`
	Evaluations int    `json:"evaluations"`
}

type Trajectory struct {
	Points     []Point
	Incomplete bool
	Stats      Stats
}

func (tr *Trajectory) Len() int { return len(tr.Points) }

// Final returns the last point, or the zero Point for an empty trajectory.
func (tr *Trajectory) Final() Point {
	if len(tr.Points) == 0 {
		return Point{}
	}
	return tr.Points[len(tr.Points)-1]
}

func (tr *Trajectory) Times() []float64 {
	ts := make([]float64, len(tr.Points))
	for i, p := range tr.Points {
		ts[i] = p.T
	}
	return ts
}

func (tr *Trajectory) Values() []float64 {
	ys := make([]float64, len(tr.Points))
	for i, p := range tr.Points {
		ys[i] = p.Y
	}
	return ys
}

// Head returns at most n leading points.
func (tr *Trajectory) Head(n int) []Point {
	if n > len(tr.Points) {
		n = len(tr.Points)
	}
	if n < 0 {
		n = 0
	}
	return tr.Points[:n]
}

// Stepper advances a scalar ODE by one step of size h. It returns the next
// value and the number of right-hand-side evaluations it spent. A non-finite
// stage is reported as a *NumericalError; the Step field is filled by the caller.
type Stepper interface {
	Name() string
	Step(f RightHandSide, t, y, h float64) (float64, int, error)
}

// IsFinite reports whether v is neither NaN nor an infinity.
func IsFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
