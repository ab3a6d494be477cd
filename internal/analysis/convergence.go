package analysis

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/san-kum/eulersim/internal/dynamo"
)

// PairwiseOrders estimates the observed order of accuracy between each pair
// of consecutive runs: log(e[i]/e[i+1]) / log(h[i]/h[i+1]).
func PairwiseOrders(hs, errs []float64) ([]float64, error) {
	if err := checkSeries(hs, errs); err != nil {
		return nil, err
	}
	orders := make([]float64, len(hs)-1)
	for i := range orders {
		orders[i] = math.Log(errs[i]/errs[i+1]) / math.Log(hs[i]/hs[i+1])
	}
	return orders, nil
}

// ConvergenceOrder fits log(error) = order*log(h) + c by least squares and
// returns the slope.
func ConvergenceOrder(hs, errs []float64) (float64, error) {
	if err := checkSeries(hs, errs); err != nil {
		return 0, err
	}
	logH := make([]float64, len(hs))
	logE := make([]float64, len(errs))
	for i := range hs {
		logH[i] = math.Log(hs[i])
		logE[i] = math.Log(errs[i])
	}
	_, slope := stat.LinearRegression(logH, logE, nil, false)
	return slope, nil
}

func checkSeries(hs, errs []float64) error {
	if len(hs) != len(errs) {
		return dynamo.InvalidParameter("step sizes and errors differ in length (%d vs %d)", len(hs), len(errs))
	}
	if len(hs) < 2 {
		return dynamo.InvalidParameter("need at least two runs to estimate an order, got %d", len(hs))
	}
	for i := range hs {
		if !(hs[i] > 0) || !(errs[i] > 0) || !dynamo.IsFinite(errs[i]) {
			return dynamo.InvalidParameter("run %d: step size and error must be positive and finite (h=%g, err=%g)", i, hs[i], errs[i])
		}
	}
	return nil
}
