package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/dopri/internal/dynamo"
)

const (
	DefaultModel  = "decay"
	DefaultMethod = "dopri5"
	DefaultXEnd   = 10.0
	DefaultDx     = 0.1
	DefaultTol    = 1e-8
)

var ErrInvalidConfig = errors.New("config: invalid configuration")

// Config describes one integration run.
type Config struct {
	Model     string             `yaml:"model"`
	Method    string             `yaml:"method"`
	X0        float64            `yaml:"x0"`
	XEnd      float64            `yaml:"x_end"`
	Dx        float64            `yaml:"dx"`
	RTol      float64            `yaml:"rtol"`
	ATol      float64            `yaml:"atol"`
	InitState []float64          `yaml:"init_state,omitempty"`
	Params    map[string]float64 `yaml:"params,omitempty"`
	Tuning    TuningConfig       `yaml:"tuning,omitempty"`
	Output    string             `yaml:"output"`
	Stop      *StopConfig        `yaml:"stop,omitempty"`
}

// TuningConfig overrides controller and budget defaults. Unset fields keep
// the defaults of the chosen method.
type TuningConfig struct {
	Safety *float64 `yaml:"safety,omitempty"`
	Beta   *float64 `yaml:"beta,omitempty"`
	FacMin *float64 `yaml:"fac_min,omitempty"`
	FacMax *float64 `yaml:"fac_max,omitempty"`
	HMax   *float64 `yaml:"h_max,omitempty"`
	H      *float64 `yaml:"h,omitempty"`
	NMax   int      `yaml:"n_max,omitempty"`
	NStiff int      `yaml:"n_stiff,omitempty"`
}

// StopConfig ends the run once state component Index crosses Value.
type StopConfig struct {
	Index int     `yaml:"index"`
	Op    string  `yaml:"op"`
	Value float64 `yaml:"value"`
}

func DefaultConfig() *Config {
	return &Config{
		Model:  DefaultModel,
		Method: DefaultMethod,
		X0:     0,
		XEnd:   DefaultXEnd,
		Dx:     DefaultDx,
		RTol:   DefaultTol,
		ATol:   DefaultTol,
		Output: dynamo.Dense.String(),
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks the fields that do not depend on the model registry.
func (c *Config) Validate() error {
	if c.Model == "" {
		return fmt.Errorf("%w: model is required", ErrInvalidConfig)
	}
	if c.Method == "" {
		return fmt.Errorf("%w: method is required", ErrInvalidConfig)
	}
	if !(c.RTol >= 0) || !(c.ATol >= 0) || c.RTol+c.ATol == 0 {
		return fmt.Errorf("%w: tolerances must be non-negative and not both zero", ErrInvalidConfig)
	}
	out, err := c.OutputType()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if out == dynamo.Dense && c.Dx == 0 && c.X0 != c.XEnd {
		return fmt.Errorf("%w: dense output needs dx != 0", ErrInvalidConfig)
	}
	if c.Tuning.NMax < 0 || c.Tuning.NStiff < 0 {
		return fmt.Errorf("%w: step budgets must be non-negative", ErrInvalidConfig)
	}
	if c.Stop != nil {
		if c.Stop.Op != ">" && c.Stop.Op != "<" {
			return fmt.Errorf("%w: stop op must be > or <, got %q", ErrInvalidConfig, c.Stop.Op)
		}
		if c.Stop.Index < 0 {
			return fmt.Errorf("%w: stop index must be non-negative", ErrInvalidConfig)
		}
		if c.InitState != nil && c.Stop.Index >= len(c.InitState) {
			return fmt.Errorf("%w: stop index %d out of range", ErrInvalidConfig, c.Stop.Index)
		}
	}
	return nil
}

func (c *Config) OutputType() (dynamo.OutputType, error) {
	if c.Output == "" {
		return dynamo.Dense, nil
	}
	return dynamo.ParseOutputType(c.Output)
}

// Solout turns the stop condition into a solout callback; nil without one.
func (c *Config) Solout() dynamo.SoloutFunc {
	if c.Stop == nil {
		return nil
	}
	s := *c.Stop
	return func(_ float64, y, _ dynamo.State) bool {
		if s.Index >= len(y) {
			return false
		}
		if s.Op == "<" {
			return y[s.Index] < s.Value
		}
		return y[s.Index] > s.Value
	}
}

// Clone returns a deep copy.
func (c *Config) Clone() *Config {
	cp := *c
	if c.InitState != nil {
		cp.InitState = append([]float64(nil), c.InitState...)
	}
	if c.Params != nil {
		cp.Params = make(map[string]float64, len(c.Params))
		for k, v := range c.Params {
			cp.Params[k] = v
		}
	}
	if c.Stop != nil {
		s := *c.Stop
		cp.Stop = &s
	}
	cp.Tuning = c.Tuning.clone()
	return &cp
}

func (t TuningConfig) clone() TuningConfig {
	cp := t
	for _, p := range []**float64{&cp.Safety, &cp.Beta, &cp.FacMin, &cp.FacMax, &cp.HMax, &cp.H} {
		if *p != nil {
			v := **p
			*p = &v
		}
	}
	return cp
}

// Float is a helper for filling optional tuning fields.
func Float(v float64) *float64 { return &v }
