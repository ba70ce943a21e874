package experiment

import (
	"sort"

	"github.com/samber/lo"

	"github.com/san-kum/dpend/internal/dynamo"
	"github.com/san-kum/dpend/internal/integrators"
	"github.com/san-kum/dpend/internal/metrics"
	"github.com/san-kum/dpend/internal/physics"
)

const DefaultEquations = "derived"

// Registry names the interchangeable parts of a run: where the equations
// of motion come from and which integration method steps them.
type Registry struct {
	equations map[string]func() (dynamo.Accelerations, error)
}

func NewRegistry() *Registry {
	r := &Registry{
		equations: make(map[string]func() (dynamo.Accelerations, error)),
	}

	r.equations["derived"] = physics.Derive
	r.equations["closed-form"] = func() (dynamo.Accelerations, error) { return physics.ClosedForm(), nil }

	return r
}

func (r *Registry) GetEquations(name string) (dynamo.Accelerations, error) {
	fn, ok := r.equations[name]
	if !ok {
		return dynamo.Accelerations{}, &dynamo.ConfigError{Field: "equations", Value: name, Reason: "unknown equation source"}
	}
	return fn()
}

func (r *Registry) ListEquations() []string {
	names := lo.Keys(r.equations)
	sort.Strings(names)
	return names
}

func (r *Registry) ListMethods() []string {
	return integrators.Names()
}

// DefaultMetrics is the metric set stored with every run.
func (r *Registry) DefaultMetrics(acc dynamo.Accelerations, p dynamo.Params) []metrics.Metric {
	return metrics.Defaults(physics.NewDoublePendulum(acc, p))
}
