package config

import (
	"math"
	"sort"
)

// keplerPeriod is the period of the default Kepler orbit (a = 20000 km).
var keplerPeriod = 2 * math.Pi * math.Sqrt(20000*20000*20000/398600.435436)

var Presets = map[string]*Config{
	"kepler_orbit": {
		Model: "kepler", Method: "dopri5", X0: 0, XEnd: 5 * keplerPeriod, Dx: 60,
		RTol: 1e-10, ATol: 1e-10, Output: "dense",
		Stop: &StopConfig{Index: 0, Op: ">", Value: 25500},
	},
	"lorenz": {
		Model: "lorenz", Method: "dop853", X0: 0, XEnd: 100, Dx: 1e-3,
		RTol: 1e-4, ATol: 1e-4, Output: "dense",
		InitState: []float64{1, 1, 1},
	},
	"three_body": {
		Model: "cr3bp", Method: "dop853", X0: 0, XEnd: 150, Dx: 0.002,
		RTol: 1e-14, ATol: 1e-14, Output: "dense",
		InitState: []float64{-0.271, -0.42, 0.0, 0.3, -1.0, 0.0},
	},
	"chemical_reaction": {
		Model: "robertson", Method: "dop853", X0: 0, XEnd: 0.3, Dx: 0.3,
		RTol: 1e-2, ATol: 1e-6, Output: "dense",
		InitState: []float64{1, 0, 0},
	},
	"decay": {
		Model: "decay", Method: "dopri5", X0: 0, XEnd: 5, Dx: 0.1,
		RTol: 1e-8, ATol: 1e-8, Output: "dense",
	},
	"figure_eight": {
		Model: "threebody", Method: "dop853", X0: 0, XEnd: 20, Dx: 0.05,
		RTol: 1e-10, ATol: 1e-10, Output: "dense",
	},
	"vanderpol_stiff": {
		Model: "vanderpol", Method: "dopri5", X0: 0, XEnd: 3000, Dx: 1,
		RTol: 1e-6, ATol: 1e-6, Output: "sparse",
		Params: map[string]float64{"mu": 1000},
	},
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	return cfg.Clone()
}

// ListPresets returns the preset names in sorted order.
func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
