package automation

import (
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/dopri/internal/config"
	"github.com/san-kum/dopri/internal/dynamo"
	"github.com/san-kum/dopri/internal/experiment"
)

const scenarioYAML = `
name: warmup
description: two short runs
steps:
  - preset: decay
    x_end: 2
  - model: harmonic
    method: dop853
    x_end: 1
    dx: 0.25
    rtol: 1e-10
    atol: 1e-10
    params:
      omega: 2
    save: true
`

func writeScenario(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestRunScenario(t *testing.T) {
	sc, err := LoadScenario(writeScenario(t, scenarioYAML))
	require.NoError(t, err)
	assert.Equal(t, "warmup", sc.Name)
	require.Len(t, sc.Steps, 2)

	log, hook := test.NewNullLogger()
	log.SetLevel(logrus.InfoLevel)

	var saved []*config.Config
	save := func(cfg *config.Config, res *experiment.Result) error {
		saved = append(saved, cfg)
		return nil
	}

	results, err := RunScenario(context.Background(), sc, experiment.NewRegistry(), log, save)
	require.NoError(t, err)
	require.Len(t, results, 2)

	decay := results[0]
	assert.Equal(t, "decay", decay.Model)
	assert.InDelta(t, 2.0, decay.Times[len(decay.Times)-1], 1e-12)

	osc := results[1]
	assert.Equal(t, "dop853", osc.Method)
	assert.Len(t, osc.Times, 5)
	assert.InDelta(t, math.Cos(2), osc.States[4][0], 1e-8)

	require.Len(t, saved, 1)
	assert.Equal(t, "harmonic", saved[0].Model)

	steps := 0
	for _, e := range hook.AllEntries() {
		if e.Message == "scenario step" {
			steps++
		}
	}
	assert.Equal(t, 2, steps)
}

func TestRunScenarioStopsAtFailure(t *testing.T) {
	body := `
name: broken
steps:
  - model: decay
    x_end: 1
  - model: nope
  - model: decay
`
	sc, err := LoadScenario(writeScenario(t, body))
	require.NoError(t, err)

	log, _ := test.NewNullLogger()
	results, err := RunScenario(context.Background(), sc, experiment.NewRegistry(), log, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "step 2")
	assert.Len(t, results, 1)
}

func TestLoadScenarioErrors(t *testing.T) {
	_, err := LoadScenario(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = LoadScenario(writeScenario(t, "name: empty\n"))
	assert.True(t, errors.Is(err, config.ErrInvalidConfig))

	sc := ScenarioStep{Preset: "nope"}
	_, err = sc.Resolve()
	assert.True(t, errors.Is(err, config.ErrInvalidConfig))
}

func TestRunMonteCarlo(t *testing.T) {
	base := config.DefaultConfig()
	base.XEnd = 1
	base.Output = dynamo.Sparse.String()

	log, _ := test.NewNullLogger()
	results, err := RunMonteCarlo(context.Background(), &MonteCarloConfig{
		Base:         base,
		Perturbation: 0.1,
		NumTrials:    8,
		Seed:         42,
	}, experiment.NewRegistry(), log)
	require.NoError(t, err)
	require.Len(t, results, 8)

	for _, r := range results {
		require.NoError(t, r.Err)
		assert.True(t, r.Stable)
		assert.InDelta(t, 1.0, r.InitState[0], 0.1)
		assert.InDelta(t, r.InitState[0]*math.Exp(-1), r.FinalState[0], 1e-7)
	}

	summary := Summarize(results)
	assert.Equal(t, 8, summary.Stable)
	assert.Zero(t, summary.Unstable+summary.Failed)
	require.Len(t, summary.Mean, 1)
	assert.InDelta(t, math.Exp(-1), summary.Mean[0], 0.04)
	assert.Less(t, summary.StdDev[0], 0.1)
}

func TestRunMonteCarloSeedIsReproducible(t *testing.T) {
	base := config.DefaultConfig()
	base.XEnd = 0.5
	cfg := &MonteCarloConfig{Base: base, Perturbation: 0.5, NumTrials: 3, Seed: 7}

	log, _ := test.NewNullLogger()
	a, err := RunMonteCarlo(context.Background(), cfg, experiment.NewRegistry(), log)
	require.NoError(t, err)
	b, err := RunMonteCarlo(context.Background(), cfg, experiment.NewRegistry(), log)
	require.NoError(t, err)

	for i := range a {
		assert.Equal(t, a[i].InitState, b[i].InitState)
	}
}

func TestSummarize(t *testing.T) {
	results := []MonteCarloResult{
		{Stable: true, FinalState: dynamo.State{1, 10}},
		{Stable: true, FinalState: dynamo.State{3, 10}},
		{Stable: false, FinalState: dynamo.State{1e9, 0}},
		{Err: errors.New("boom")},
	}

	s := Summarize(results)
	assert.Equal(t, 2, s.Stable)
	assert.Equal(t, 1, s.Unstable)
	assert.Equal(t, 1, s.Failed)
	assert.Equal(t, []float64{2, 10}, s.Mean)
	assert.InDelta(t, math.Sqrt2, s.StdDev[0], 1e-12)
	assert.Zero(t, s.StdDev[1])
}

func TestBounded(t *testing.T) {
	assert.True(t, bounded(dynamo.State{1, -1e5}, 1e6))
	assert.False(t, bounded(dynamo.State{1, 2e6}, 1e6))
	assert.False(t, bounded(dynamo.State{math.NaN()}, 1e6))
	assert.False(t, bounded(dynamo.State{math.Inf(1)}, math.Inf(1)))
}
