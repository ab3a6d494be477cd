package equations

import (
	"math"
	"sort"

	"github.com/san-kum/eulersim/internal/dynamo"
)

// Solution is a closed-form y(t) for a given initial condition.
type Solution func(t float64) float64

// Equation is a named family of right-hand sides parameterized by a rate.
type Equation struct {
	Name        string
	Description string
	DefaultRate float64
	RHS         func(rate float64) dynamo.RightHandSide
	// Exact is nil when no closed form is known.
	Exact func(rate, t0, y0 float64) Solution
}

// HasExact reports whether e carries a closed-form solution.
func (e Equation) HasExact() bool { return e.Exact != nil }

// Problem builds a Problem for e with the given rate and initial condition.
func (e Equation) Problem(rate, t0, y0, h float64, steps int) dynamo.Problem {
	return dynamo.Problem{T0: t0, Y0: y0, H: h, Steps: steps, RHS: e.RHS(rate)}
}

const logisticCapacity = 1.0

var registry = map[string]Equation{
	"decay": {
		Name:        "decay",
		Description: "exponential decay dy/dt = -k*y",
		DefaultRate: 2,
		RHS: func(k float64) dynamo.RightHandSide {
			return func(t, y float64) float64 { return -k * y }
		},
		Exact: func(k, t0, y0 float64) Solution {
			return func(t float64) float64 { return y0 * math.Exp(-k*(t-t0)) }
		},
	},
	"growth": {
		Name:        "growth",
		Description: "exponential growth dy/dt = k*y",
		DefaultRate: 1,
		RHS: func(k float64) dynamo.RightHandSide {
			return func(t, y float64) float64 { return k * y }
		},
		Exact: func(k, t0, y0 float64) Solution {
			return func(t float64) float64 { return y0 * math.Exp(k*(t-t0)) }
		},
	},
	"logistic": {
		Name:        "logistic",
		Description: "logistic growth dy/dt = r*y*(1-y)",
		DefaultRate: 1,
		RHS: func(r float64) dynamo.RightHandSide {
			return func(t, y float64) float64 { return r * y * (1 - y/logisticCapacity) }
		},
		Exact: func(r, t0, y0 float64) Solution {
			return func(t float64) float64 {
				e := math.Exp(r * (t - t0))
				return logisticCapacity * y0 * e / (logisticCapacity + y0*(e-1))
			}
		},
	},
	"cooling": {
		Name:        "cooling",
		Description: "Newton cooling toward 20: dy/dt = -k*(y-20)",
		DefaultRate: 0.1,
		RHS: func(k float64) dynamo.RightHandSide {
			return func(t, y float64) float64 { return -k * (y - 20) }
		},
		Exact: func(k, t0, y0 float64) Solution {
			return func(t float64) float64 { return 20 + (y0-20)*math.Exp(-k*(t-t0)) }
		},
	},
	"forced": {
		Name:        "forced",
		Description: "driven relaxation dy/dt = k*(cos(t) - y)",
		DefaultRate: 1,
		RHS: func(k float64) dynamo.RightHandSide {
			return func(t, y float64) float64 { return k * (math.Cos(t) - y) }
		},
		Exact: func(k, t0, y0 float64) Solution {
			// particular solution k/(k^2+1) * (k*cos t + sin t)
			part := func(t float64) float64 { return k / (k*k + 1) * (k*math.Cos(t) + math.Sin(t)) }
			c := y0 - part(t0)
			return func(t float64) float64 { return part(t) + c*math.Exp(-k*(t-t0)) }
		},
	},
	"stiff": {
		Name:        "stiff",
		Description: "stiff relaxation dy/dt = -k*(y - sin(t)) + cos(t)",
		DefaultRate: 50,
		RHS: func(k float64) dynamo.RightHandSide {
			return func(t, y float64) float64 { return -k*(y-math.Sin(t)) + math.Cos(t) }
		},
		Exact: func(k, t0, y0 float64) Solution {
			c := y0 - math.Sin(t0)
			return func(t float64) float64 { return math.Sin(t) + c*math.Exp(-k*(t-t0)) }
		},
	},
	"riccati": {
		Name:        "riccati",
		Description: "dy/dt = y^2 + k*t, blows up in finite time",
		DefaultRate: 0,
		RHS: func(k float64) dynamo.RightHandSide {
			return func(t, y float64) float64 { return y*y + k*t }
		},
	},
}

// Lookup returns the named equation.
func Lookup(name string) (Equation, error) {
	eq, ok := registry[name]
	if !ok {
		return Equation{}, dynamo.InvalidParameter("unknown equation: %s (available: %v)", name, Names())
	}
	return eq, nil
}

func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
