package main

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/san-kum/dopri/internal/automation"
	"github.com/san-kum/dopri/internal/config"
	"github.com/san-kum/dopri/internal/experiment"
	"github.com/san-kum/dopri/internal/optim"
	"github.com/san-kum/dopri/internal/storage"
)

var (
	trials     int
	perturb    float64
	seed       int64
	tuneSafety string
	tuneBeta   string
	tuneFacMax string
	tuneMetric string
)

func batchCmds() []*cobra.Command {
	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "run a yaml scenario",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}

	mcCmd := &cobra.Command{
		Use:   "montecarlo [preset]",
		Short: "perturb the initial state of a preset and run the trials concurrently",
		Args:  cobra.ExactArgs(1),
		RunE:  monteCarlo,
	}
	mcCmd.Flags().IntVar(&trials, "trials", 20, "number of trials")
	mcCmd.Flags().Float64Var(&perturb, "perturb", 1e-3, "uniform perturbation half width")
	mcCmd.Flags().Int64Var(&seed, "seed", 0, "random seed (0 for time based)")

	tuneCmd := &cobra.Command{
		Use:   "tune [preset]",
		Short: "grid search over step size controller settings",
		Args:  cobra.ExactArgs(1),
		RunE:  tune,
	}
	tuneCmd.Flags().StringVar(&tuneSafety, "safety", "0.8,0.9", "safety factors")
	tuneCmd.Flags().StringVar(&tuneBeta, "beta", "0,0.04", "pi controller beta values")
	tuneCmd.Flags().StringVar(&tuneFacMax, "fac-max", "", "maximal growth factors")
	tuneCmd.Flags().StringVar(&tuneMetric, "metric", "", "minimize this metric instead of evaluations")

	return []*cobra.Command{scenarioCmd, mcCmd, tuneCmd}
}

func runScenario(cmd *cobra.Command, args []string) error {
	sc, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}
	save := func(cfg *config.Config, res *experiment.Result) error {
		id, err := st.Save(runMetadata(cfg, res, nil), res.Times, res.States)
		if err == nil {
			row("saved", id)
		}
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	fmt.Println(title.Render(sc.Name))
	if sc.Description != "" {
		fmt.Println(label.Render(sc.Description))
	}
	results, err := automation.RunScenario(ctx, sc, experiment.NewRegistry(), log, save)
	for i, res := range results {
		row(fmt.Sprintf("step %d", i+1), fmt.Sprintf("%s/%s  evals %d  samples %d",
			res.Model, res.Method, res.Stats.NumEval, len(res.Times)))
	}
	return err
}

func monteCarlo(cmd *cobra.Command, args []string) error {
	base := config.GetPreset(args[0])
	if base == nil {
		return fmt.Errorf("unknown preset: %s", args[0])
	}

	ctx, cancel := signalContext()
	defer cancel()

	results, err := automation.RunMonteCarlo(ctx, &automation.MonteCarloConfig{
		Base:         base,
		Perturbation: perturb,
		NumTrials:    trials,
		Seed:         seed,
	}, experiment.NewRegistry(), log)
	if err != nil {
		return err
	}

	s := automation.Summarize(results)
	fmt.Println(title.Render(fmt.Sprintf("%s: %d trials", args[0], len(results))))
	row("stable", success.Render(strconv.Itoa(s.Stable)))
	row("unstable", warning.Render(strconv.Itoa(s.Unstable)))
	row("failed", failure.Render(strconv.Itoa(s.Failed)))
	for i := range s.Mean {
		row(fmt.Sprintf("final y%d", i), fmt.Sprintf("%.6g ± %.3g", s.Mean[i], s.StdDev[i]))
	}
	return nil
}

func tune(cmd *cobra.Command, args []string) error {
	base := config.GetPreset(args[0])
	if base == nil {
		return fmt.Errorf("unknown preset: %s", args[0])
	}

	var names []string
	var ranges [][]float64
	for _, axis := range []struct{ name, values string }{
		{"safety", tuneSafety}, {"beta", tuneBeta}, {"fac_max", tuneFacMax},
	} {
		if axis.values == "" {
			continue
		}
		vals, err := parseFloats(axis.values)
		if err != nil {
			return fmt.Errorf("--%s: %w", strings.ReplaceAll(axis.name, "_", "-"), err)
		}
		names = append(names, axis.name)
		ranges = append(ranges, vals)
	}

	objective := optim.Evals
	if tuneMetric != "" {
		objective = optim.Metric(tuneMetric)
	}

	ctx, cancel := signalContext()
	defer cancel()

	g := optim.NewGridSearch(names, ranges)
	params, best, err := g.Search(ctx, optim.TuningBuilder(base, experiment.NewRegistry(), log), objective)
	if err != nil {
		return err
	}

	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PARAM\tBEST")
	for _, k := range keys {
		fmt.Fprintf(w, "%s\t%g\n", k, params[k])
	}
	fmt.Fprintf(w, "objective\t%g\n", best)
	return w.Flush()
}

func parseFloats(s string) ([]float64, error) {
	var out []float64
	for _, part := range strings.Split(s, ",") {
		v, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid number %q: %w", part, err)
		}
		out = append(out, v)
	}
	return out, nil
}
