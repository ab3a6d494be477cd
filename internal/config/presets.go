package config

import "sort"

var Presets = map[string]map[string]*Config{
	"decay": {
		"reference": {
			Equation: "decay", Method: "euler", Rate: RateOf(2), T0: 0, Y0: 1, H: 0.01, Steps: 1000, Print: 10,
		},
		"coarse": {
			Equation: "decay", Method: "euler", Rate: RateOf(2), T0: 0, Y0: 1, H: 0.1, Steps: 100, Print: 10,
		},
		"unstable": {
			Equation: "decay", Method: "euler", Rate: RateOf(2), T0: 0, Y0: 1, H: 1.1, Steps: 40, Print: 10,
		},
	},
	"logistic": {
		"seed": {
			Equation: "logistic", Method: "euler", Rate: RateOf(1), T0: 0, Y0: 0.01, H: 0.05, Steps: 300, Print: 10,
		},
	},
	"cooling": {
		"coffee": {
			Equation: "cooling", Method: "euler", Rate: RateOf(0.1), T0: 0, Y0: 90, H: 0.5, Steps: 120, Print: 10,
		},
	},
	"stiff": {
		"explicit_limit": {
			Equation: "stiff", Method: "euler", Rate: RateOf(50), T0: 0, Y0: 1, H: 0.05, Steps: 60, Print: 10,
		},
		"resolved": {
			Equation: "stiff", Method: "euler", Rate: RateOf(50), T0: 0, Y0: 1, H: 0.001, Steps: 3000, Print: 10,
		},
	},
	"riccati": {
		"blowup": {
			Equation: "riccati", Method: "euler", Rate: RateOf(0), T0: 0, Y0: 1, H: 0.01, Steps: 2000, Print: 10,
		},
	},
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(equation, preset string) *Config {
	eqPresets, ok := Presets[equation]
	if !ok {
		return nil
	}
	cfg, ok := eqPresets[preset]
	if !ok {
		return nil
	}
	return cfg.Clone()
}

func ListPresets(equation string) []string {
	eqPresets, ok := Presets[equation]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(eqPresets))
	for name := range eqPresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
