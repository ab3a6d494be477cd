package analysis

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/san-kum/eulersim/internal/dynamo"
	"github.com/san-kum/eulersim/internal/equations"
)

type Summary struct {
	Points     int     `json:"points"`
	Start      float64 `json:"start"`
	End        float64 `json:"end"`
	Final      float64 `json:"final"`
	Min        float64 `json:"min"`
	Max        float64 `json:"max"`
	Mean       float64 `json:"mean"`
	StdDev     float64 `json:"std_dev"`
	Incomplete bool    `json:"incomplete,omitempty"`

	HasExact    bool    `json:"has_exact"`
	MaxAbsError float64 `json:"max_abs_error,omitempty"`
	RMSError    float64 `json:"rms_error,omitempty"`
	FinalError  float64 `json:"final_error,omitempty"`

	// NonFinite names the statistics that overflowed and were cleared by
	// Finite.
	NonFinite []string `json:"non_finite,omitempty"`
}

// Summarize reduces a trajectory to descriptive statistics. When exact is
// non-nil the errors against it are filled in as well.
func Summarize(tr *dynamo.Trajectory, exact equations.Solution) Summary {
	if tr == nil || tr.Len() == 0 {
		return Summary{}
	}

	ys := tr.Values()
	first, last := tr.Points[0], tr.Final()
	s := Summary{
		Points:     len(ys),
		Start:      first.T,
		End:        last.T,
		Final:      last.Y,
		Min:        floats.Min(ys),
		Max:        floats.Max(ys),
		Incomplete: tr.Incomplete,
	}

	if len(ys) > 1 {
		s.Mean, s.StdDev = stat.MeanStdDev(ys, nil)
	} else {
		s.Mean = ys[0]
	}

	if exact != nil {
		ref := make([]float64, len(ys))
		for i, p := range tr.Points {
			ref[i] = exact(p.T)
		}
		s.HasExact = true
		s.MaxAbsError = floats.Distance(ys, ref, math.Inf(1))
		s.RMSError = floats.Distance(ys, ref, 2) / math.Sqrt(float64(len(ys)))
		s.FinalError = math.Abs(last.Y - ref[len(ref)-1])
	}

	return s
}

// Finite returns a copy of s with every NaN or Inf statistic zeroed and
// listed in NonFinite. An exact solution can overflow long before the
// numerical one does, and JSON has no encoding for either.
func (s Summary) Finite() Summary {
	fields := []struct {
		name string
		v    *float64
	}{
		{"start", &s.Start},
		{"end", &s.End},
		{"final", &s.Final},
		{"min", &s.Min},
		{"max", &s.Max},
		{"mean", &s.Mean},
		{"std_dev", &s.StdDev},
		{"max_abs_error", &s.MaxAbsError},
		{"rms_error", &s.RMSError},
		{"final_error", &s.FinalError},
	}
	s.NonFinite = append([]string(nil), s.NonFinite...)
	for _, f := range fields {
		if !dynamo.IsFinite(*f.v) {
			*f.v = 0
			s.NonFinite = append(s.NonFinite, f.name)
		}
	}
	return s
}
