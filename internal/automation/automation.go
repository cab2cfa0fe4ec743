package automation

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/stat"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/dopri/internal/config"
	"github.com/san-kum/dopri/internal/dynamo"
	"github.com/san-kum/dopri/internal/experiment"
)

// Scenario is a scripted sequence of runs.
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep is one run of a scenario. Preset, when set, supplies the
// base configuration and the inline fields override it.
type ScenarioStep struct {
	Preset        string `yaml:"preset,omitempty"`
	config.Config `yaml:",inline"`
	Save          bool `yaml:"save,omitempty"`
}

// LoadScenario loads a scenario from a YAML file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, fmt.Errorf("parse scenario: %w", err)
	}
	if len(scenario.Steps) == 0 {
		return nil, fmt.Errorf("%w: scenario %q has no steps", config.ErrInvalidConfig, scenario.Name)
	}
	return &scenario, nil
}

// Resolve returns the configuration of one step.
func (s ScenarioStep) Resolve() (*config.Config, error) {
	cfg := config.DefaultConfig()
	if s.Preset != "" {
		p := config.GetPreset(s.Preset)
		if p == nil {
			return nil, fmt.Errorf("%w: unknown preset %q", config.ErrInvalidConfig, s.Preset)
		}
		cfg = p
	}
	merge(cfg, &s.Config)
	return cfg, cfg.Validate()
}

// merge copies the fields of over that were set in the scenario file.
func merge(dst, over *config.Config) {
	if over.Model != "" {
		dst.Model = over.Model
	}
	if over.Method != "" {
		dst.Method = over.Method
	}
	if over.X0 != 0 {
		dst.X0 = over.X0
	}
	if over.XEnd != 0 {
		dst.XEnd = over.XEnd
	}
	if over.Dx != 0 {
		dst.Dx = over.Dx
	}
	if over.RTol != 0 {
		dst.RTol = over.RTol
	}
	if over.ATol != 0 {
		dst.ATol = over.ATol
	}
	if over.InitState != nil {
		dst.InitState = append([]float64(nil), over.InitState...)
	}
	for k, v := range over.Params {
		if dst.Params == nil {
			dst.Params = make(map[string]float64)
		}
		dst.Params[k] = v
	}
	if over.Output != "" {
		dst.Output = over.Output
	}
	if over.Stop != nil {
		s := *over.Stop
		dst.Stop = &s
	}
	if over.Tuning != (config.TuningConfig{}) {
		dst.Tuning = over.Tuning
	}
}

// SaveFunc stores the result of a step marked for saving.
type SaveFunc func(cfg *config.Config, res *experiment.Result) error

// RunScenario executes all steps in order. It stops at the first step that
// fails and returns the results gathered so far.
func RunScenario(ctx context.Context, scenario *Scenario, reg *experiment.Registry, log *logrus.Logger, save SaveFunc) ([]*experiment.Result, error) {
	results := make([]*experiment.Result, 0, len(scenario.Steps))

	for i, step := range scenario.Steps {
		cfg, err := step.Resolve()
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}
		log.WithFields(logrus.Fields{"scenario": scenario.Name, "step": i + 1, "of": len(scenario.Steps), "model": cfg.Model}).
			Info("scenario step")

		exp := experiment.New(cfg, reg, log)
		if err := exp.Setup(); err != nil {
			return results, fmt.Errorf("step %d setup: %w", i+1, err)
		}

		result, err := exp.Run(ctx)
		if result != nil {
			results = append(results, result)
		}
		if err != nil {
			return results, fmt.Errorf("step %d run: %w", i+1, err)
		}

		if step.Save && save != nil {
			if err := save(cfg, result); err != nil {
				return results, fmt.Errorf("step %d save: %w", i+1, err)
			}
		}
	}

	return results, nil
}

// MonteCarloConfig perturbs the initial state of Base uniformly by up to
// ±Perturbation in every component.
type MonteCarloConfig struct {
	Base         *config.Config
	Perturbation float64
	NumTrials    int
	Seed         int64
	Bound        float64 // final states beyond this magnitude count as unbounded
}

// MonteCarloResult is the outcome of one trial.
type MonteCarloResult struct {
	TrialID    int
	InitState  dynamo.State
	FinalState dynamo.State
	Stats      dynamo.Stats
	Stable     bool
	Err        error
}

// RunMonteCarlo runs the trials concurrently through the ensemble runner.
func RunMonteCarlo(ctx context.Context, cfg *MonteCarloConfig, reg *experiment.Registry, log *logrus.Logger) ([]MonteCarloResult, error) {
	if cfg.NumTrials <= 0 {
		return nil, fmt.Errorf("%w: need at least one trial", config.ErrInvalidConfig)
	}
	base := cfg.InitState(reg)
	if base == nil {
		return nil, fmt.Errorf("%w: unknown model %q", config.ErrInvalidConfig, cfg.Base.Model)
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	cfgs := make([]*config.Config, cfg.NumTrials)
	for trial := range cfgs {
		y0 := make([]float64, len(base))
		for i, v := range base {
			y0[i] = v + (rng.Float64()-0.5)*2*cfg.Perturbation
		}
		c := cfg.Base.Clone()
		c.InitState = y0
		cfgs[trial] = c
	}

	runs, _ := experiment.RunEnsemble(ctx, reg, cfgs, log)

	bound := cfg.Bound
	if bound <= 0 {
		bound = 1e6
	}
	results := make([]MonteCarloResult, len(cfgs))
	for trial, res := range runs {
		r := MonteCarloResult{TrialID: trial, InitState: cfgs[trial].InitState}
		if res == nil {
			r.Err = fmt.Errorf("trial %d did not start", trial)
			results[trial] = r
			continue
		}
		r.Stats = res.Stats
		if res.ErrorMsg != "" {
			r.Err = fmt.Errorf("trial %d: %s", trial, res.ErrorMsg)
		}
		if n := len(res.States); n > 0 {
			r.FinalState = res.States[n-1]
			r.Stable = r.Err == nil && bounded(r.FinalState, bound)
		}
		results[trial] = r
	}
	return results, ctx.Err()
}

// InitState returns the unperturbed initial state of the configured model.
func (c *MonteCarloConfig) InitState(reg *experiment.Registry) dynamo.State {
	if c.Base.InitState != nil {
		return dynamo.State(c.Base.InitState).Clone()
	}
	m, err := reg.GetModel(c.Base.Model)
	if err != nil {
		return nil
	}
	return m.DefaultState()
}

func bounded(y dynamo.State, bound float64) bool {
	if !y.IsValid() {
		return false
	}
	for _, v := range y {
		if math.Abs(v) > bound {
			return false
		}
	}
	return true
}

// MonteCarloSummary aggregates trial outcomes.
type MonteCarloSummary struct {
	Stable, Unstable, Failed int
	// mean and standard deviation of each final state component over
	// stable trials
	Mean, StdDev []float64
}

// Summarize computes summary statistics from Monte Carlo results.
func Summarize(results []MonteCarloResult) MonteCarloSummary {
	var s MonteCarloSummary
	var finals []dynamo.State
	for _, r := range results {
		switch {
		case r.Err != nil:
			s.Failed++
		case r.Stable:
			s.Stable++
			finals = append(finals, r.FinalState)
		default:
			s.Unstable++
		}
	}
	if len(finals) == 0 {
		return s
	}

	dim := len(finals[0])
	s.Mean = make([]float64, dim)
	s.StdDev = make([]float64, dim)
	col := make([]float64, len(finals))
	for i := 0; i < dim; i++ {
		for j, y := range finals {
			col[j] = y[i]
		}
		s.Mean[i], s.StdDev[i] = stat.MeanStdDev(col, nil)
	}
	return s
}
