package experiment

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/san-kum/dopri/internal/config"
)

// RunEnsemble runs every configuration concurrently. Results keep the order
// of cfgs; a failed run leaves its partial result in place and its error in
// the joined error.
func RunEnsemble(ctx context.Context, reg *Registry, cfgs []*config.Config, log *logrus.Logger) ([]*Result, error) {
	results := make([]*Result, len(cfgs))
	errs := make([]error, len(cfgs))

	var wg sync.WaitGroup
	for i, cfg := range cfgs {
		wg.Add(1)
		go func(idx int, cfg *config.Config) {
			defer wg.Done()

			exp := New(cfg, reg, log)
			if err := exp.Setup(); err != nil {
				errs[idx] = fmt.Errorf("run %d: %w", idx, err)
				return
			}
			res, err := exp.Run(ctx)
			results[idx] = res
			if err != nil {
				errs[idx] = fmt.Errorf("run %d: %w", idx, err)
			}
		}(i, cfg)
	}

	wg.Wait()

	return results, errors.Join(errs...)
}

// ToleranceSweep clones base once per tolerance, setting rtol and atol.
func ToleranceSweep(base *config.Config, tols []float64) []*config.Config {
	cfgs := make([]*config.Config, len(tols))
	for i, tol := range tols {
		cfg := base.Clone()
		cfg.RTol, cfg.ATol = tol, tol
		cfgs[i] = cfg
	}
	return cfgs
}
