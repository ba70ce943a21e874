package integrators

import (
	"sort"

	"github.com/san-kum/dpend/internal/dynamo"
)

const DefaultMethod = "dopri5"

var steppers = map[string]func() Stepper{
	"dopri5": func() Stepper { return NewDormandPrince() },
	"bs23":   func() Stepper { return NewBogackiShampine() },
	"rk4":    func() Stepper { return NewStepDoubling() },
}

// New returns a fresh stepper by name.
func New(name string) (Stepper, error) {
	fn, ok := steppers[name]
	if !ok {
		return nil, &dynamo.ConfigError{Field: "method", Value: name, Reason: "unknown integrator"}
	}
	return fn(), nil
}

// NewSolver returns an adaptive solver around the named stepper.
func NewSolver(name string) (*Adaptive, error) {
	s, err := New(name)
	if err != nil {
		return nil, err
	}
	return NewAdaptive(s), nil
}

func Names() []string {
	names := make([]string, 0, len(steppers))
	for name := range steppers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
