package optim

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/sirupsen/logrus"

	"github.com/san-kum/dopri/internal/config"
	"github.com/san-kum/dopri/internal/experiment"
)

var ErrNoFeasibleRun = errors.New("optim: no run completed")

// Objective scores a finished run; lower is better.
type Objective func(res *experiment.Result) float64

// Evals scores a run by its number of function evaluations.
func Evals(res *experiment.Result) float64 { return float64(res.Stats.NumEval) }

// Metric scores a run by one of its metrics.
func Metric(name string) Objective {
	return func(res *experiment.Result) float64 {
		v, ok := res.Metrics[name]
		if !ok {
			return math.Inf(1)
		}
		return v
	}
}

type GridSearch struct {
	paramNames []string
	ranges     [][]float64
}

func NewGridSearch(params []string, ranges [][]float64) *GridSearch {
	return &GridSearch{paramNames: params, ranges: ranges}
}

// Search runs every point of the grid and returns the one with the lowest
// objective. Points whose setup or run fails are skipped.
func (g *GridSearch) Search(
	ctx context.Context,
	buildExperiment func(params map[string]float64) (*experiment.Experiment, error),
	objective Objective,
) (map[string]float64, float64, error) {
	if len(g.paramNames) != len(g.ranges) {
		return nil, 0, fmt.Errorf("optim: %d names for %d ranges", len(g.paramNames), len(g.ranges))
	}

	best := math.Inf(1)
	var bestParams map[string]float64

	g.searchRecursive(ctx, 0, make(map[string]float64), buildExperiment, objective, &best, &bestParams)

	if err := ctx.Err(); err != nil {
		return bestParams, best, err
	}
	if bestParams == nil {
		return nil, best, ErrNoFeasibleRun
	}
	return bestParams, best, nil
}

func (g *GridSearch) searchRecursive(
	ctx context.Context,
	depth int,
	current map[string]float64,
	buildExperiment func(map[string]float64) (*experiment.Experiment, error),
	objective Objective,
	best *float64,
	bestParams *map[string]float64,
) {
	if ctx.Err() != nil {
		return
	}
	if depth == len(g.paramNames) {
		exp, err := buildExperiment(current)
		if err != nil {
			return
		}

		result, err := exp.Run(ctx)
		if err != nil {
			return
		}

		val := objective(result)
		if val < *best {
			*best = val
			*bestParams = make(map[string]float64)
			for k, v := range current {
				(*bestParams)[k] = v
			}
		}
		return
	}

	paramName := g.paramNames[depth]
	for _, val := range g.ranges[depth] {
		newParams := make(map[string]float64)
		for k, v := range current {
			newParams[k] = v
		}
		newParams[paramName] = val

		g.searchRecursive(ctx, depth+1, newParams, buildExperiment, objective, best, bestParams)
	}
}

// TuningBuilder returns a builder that applies grid points to the step
// size controller settings of base. Recognized names: safety, beta,
// fac_min, fac_max, h_max, h.
func TuningBuilder(base *config.Config, reg *experiment.Registry, log *logrus.Logger) func(map[string]float64) (*experiment.Experiment, error) {
	return func(params map[string]float64) (*experiment.Experiment, error) {
		cfg := base.Clone()
		for name, v := range params {
			if err := setTuning(&cfg.Tuning, name, v); err != nil {
				return nil, err
			}
		}
		exp := experiment.New(cfg, reg, log)
		if err := exp.Setup(); err != nil {
			return nil, err
		}
		return exp, nil
	}
}

func setTuning(t *config.TuningConfig, name string, v float64) error {
	switch name {
	case "safety":
		t.Safety = config.Float(v)
	case "beta":
		t.Beta = config.Float(v)
	case "fac_min":
		t.FacMin = config.Float(v)
	case "fac_max":
		t.FacMax = config.Float(v)
	case "h_max":
		t.HMax = config.Float(v)
	case "h":
		t.H = config.Float(v)
	default:
		return fmt.Errorf("%w: unknown tuning param %q", config.ErrInvalidConfig, name)
	}
	return nil
}
