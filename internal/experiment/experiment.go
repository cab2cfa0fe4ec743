package experiment

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/san-kum/dopri/internal/config"
	"github.com/san-kum/dopri/internal/dynamo"
	"github.com/san-kum/dopri/internal/integrators"
	"github.com/san-kum/dopri/internal/metrics"
	"github.com/san-kum/dopri/internal/physics"
)

// Result is the outcome of one run. It is returned alongside integration
// errors, holding everything recorded before the failure.
type Result struct {
	Model    string
	Method   string
	Times    []float64
	States   []dynamo.State
	Stats    dynamo.Stats
	Metrics  map[string]float64
	Elapsed  time.Duration
	Stopped  bool
	ErrorMsg string
}

type Experiment struct {
	cfg     *config.Config
	reg     *Registry
	log     *logrus.Logger
	model   physics.Model
	stepper *integrators.Stepper
	metrics []metrics.Metric
}

func New(cfg *config.Config, reg *Registry, log *logrus.Logger) *Experiment {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Experiment{cfg: cfg, reg: reg, log: log}
}

// Setup resolves the model and method and builds the stepper.
func (e *Experiment) Setup() error {
	cfg := e.cfg
	if err := cfg.Validate(); err != nil {
		return err
	}

	model, err := e.reg.GetModel(cfg.Model)
	if err != nil {
		return err
	}
	for name, v := range cfg.Params {
		if err := model.SetParam(name, v); err != nil {
			return fmt.Errorf("model %s: %w", cfg.Model, err)
		}
	}

	method, err := e.reg.GetMethod(cfg.Method)
	if err != nil {
		return err
	}

	y0 := model.DefaultState()
	if cfg.InitState != nil {
		y0 = dynamo.State(cfg.InitState).Clone()
	}

	p, err := Params(method, cfg)
	if err != nil {
		return err
	}

	e.model = model
	e.stepper = method.New(model, cfg.X0, cfg.XEnd, cfg.Dx, y0, cfg.RTol, cfg.ATol, p)
	e.stepper.SetLogger(e.log)
	e.metrics = e.reg.DefaultMetrics(model)
	return nil
}

// Params merges the tuning overrides of cfg into the defaults of method.
func Params(method integrators.Method, cfg *config.Config) (integrators.Params, error) {
	p := method.DefaultParams(cfg.X0, cfg.XEnd)
	t := cfg.Tuning
	for _, o := range []struct {
		src *float64
		dst *float64
	}{
		{t.Safety, &p.Safety},
		{t.Beta, &p.Beta},
		{t.FacMin, &p.FacMin},
		{t.FacMax, &p.FacMax},
		{t.HMax, &p.HMax},
		{t.H, &p.H},
	} {
		if o.src != nil {
			*o.dst = *o.src
		}
	}
	if t.NMax > 0 {
		p.NMax = t.NMax
	}
	if t.NStiff > 0 {
		p.NStiff = t.NStiff
	}

	out, err := cfg.OutputType()
	if err != nil {
		return p, err
	}
	p.OutType = out
	return p, nil
}

// Run integrates the configured problem. Cancelling ctx stops the
// integration after the current step.
func (e *Experiment) Run(ctx context.Context) (*Result, error) {
	if e.stepper == nil {
		return nil, fmt.Errorf("experiment not setup")
	}

	fields := logrus.Fields{"model": e.cfg.Model, "method": e.cfg.Method}
	e.log.WithFields(fields).WithFields(logrus.Fields{
		"x0": e.cfg.X0, "x_end": e.cfg.XEnd, "rtol": e.cfg.RTol, "atol": e.cfg.ATol,
	}).Info("run started")

	stop := e.cfg.Solout()
	stopped := false
	e.stepper.SetSolout(func(x float64, y, dy dynamo.State) bool {
		if ctx.Err() != nil {
			return true
		}
		if stop != nil && stop(x, y, dy) {
			stopped = true
			return true
		}
		return false
	})

	start := time.Now()
	stats, err := e.stepper.Integrate()
	if err == nil {
		err = ctx.Err()
	}

	res := &Result{
		Model:   e.cfg.Model,
		Method:  e.stepper.Method(),
		Times:   e.stepper.XOut(),
		States:  e.stepper.YOut(),
		Stats:   stats,
		Elapsed: time.Since(start),
		Stopped: stopped,
	}
	res.Metrics = metrics.Evaluate(res.Times, res.States, e.metrics...)

	entry := e.log.WithFields(fields).WithFields(logrus.Fields{
		"evals":    stats.NumEval,
		"accepted": stats.AcceptedSteps,
		"rejected": stats.RejectedSteps,
		"elapsed":  res.Elapsed,
	})
	if err != nil {
		res.ErrorMsg = err.Error()
		entry.WithError(err).Warn("run failed")
		return res, err
	}
	entry.Info("run finished")
	return res, nil
}

// Model returns the system built by Setup.
func (e *Experiment) Model() physics.Model {
	return e.model
}
