package integrators

import (
	"sort"

	"github.com/san-kum/eulersim/internal/dynamo"
)

var methods = map[string]func() dynamo.Stepper{
	"euler": func() dynamo.Stepper { return NewEuler() },
	"heun":  func() dynamo.Stepper { return NewHeun() },
	"rk4":   func() dynamo.Stepper { return NewRK4() },
}

// Lookup returns a fresh stepper by name.
func Lookup(name string) (dynamo.Stepper, error) {
	fn, ok := methods[name]
	if !ok {
		return nil, dynamo.InvalidParameter("unknown method: %s (available: %v)", name, Names())
	}
	return fn(), nil
}

func Names() []string {
	names := make([]string, 0, len(methods))
	for name := range methods {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
