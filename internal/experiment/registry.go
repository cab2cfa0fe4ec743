package experiment

import (
	"fmt"
	"sort"

	"github.com/san-kum/dopri/internal/dynamo"
	"github.com/san-kum/dopri/internal/integrators"
	"github.com/san-kum/dopri/internal/metrics"
	"github.com/san-kum/dopri/internal/physics"
)

// stabilityBound flags trajectories that leave any sane range.
const stabilityBound = 1e12

type Registry struct {
	models map[string]func() physics.Model
}

func NewRegistry() *Registry {
	r := &Registry{
		models: make(map[string]func() physics.Model),
	}

	r.models["decay"] = func() physics.Model { return physics.NewDecay() }
	r.models["harmonic"] = func() physics.Model { return physics.NewHarmonic() }
	r.models["lorenz"] = func() physics.Model { return physics.NewLorenz() }
	r.models["rossler"] = func() physics.Model { return physics.NewRossler() }
	r.models["vanderpol"] = func() physics.Model { return physics.NewVanDerPol() }
	r.models["duffing"] = func() physics.Model { return physics.NewDuffing() }
	r.models["pendulum"] = func() physics.Model { return physics.NewPendulum() }
	r.models["doublewell"] = func() physics.Model { return physics.NewDoubleWell() }
	r.models["spring_chain"] = func() physics.Model { return physics.NewSpringMassChain(3) }
	r.models["threebody"] = func() physics.Model { return physics.NewThreeBody() }
	r.models["kepler"] = func() physics.Model { return physics.NewKepler() }
	r.models["cr3bp"] = func() physics.Model { return physics.NewRestrictedThreeBody() }
	r.models["robertson"] = func() physics.Model { return physics.NewRobertson() }

	return r
}

// Register adds or replaces a model constructor.
func (r *Registry) Register(name string, fn func() physics.Model) {
	r.models[name] = fn
}

func (r *Registry) GetModel(name string) (physics.Model, error) {
	fn, ok := r.models[name]
	if !ok {
		return nil, fmt.Errorf("unknown model: %s", name)
	}
	return fn(), nil
}

func (r *Registry) GetMethod(name string) (integrators.Method, error) {
	return integrators.LookupMethod(name)
}

func (r *Registry) ListModels() []string {
	names := make([]string, 0, len(r.models))
	for name := range r.models {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *Registry) ListMethods() []string {
	ms := integrators.Methods()
	names := make([]string, len(ms))
	for i, m := range ms {
		names[i] = m.Name
	}
	return names
}

func (r *Registry) DefaultMetrics(sys dynamo.System) []metrics.Metric {
	return metrics.ForSystem(sys, stabilityBound)
}
