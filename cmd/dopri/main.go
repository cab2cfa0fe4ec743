package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/san-kum/dopri/internal/analysis"
	"github.com/san-kum/dopri/internal/config"
	"github.com/san-kum/dopri/internal/experiment"
	"github.com/san-kum/dopri/internal/export"
	"github.com/san-kum/dopri/internal/integrators"
	"github.com/san-kum/dopri/internal/storage"
)

var (
	dataDir    string
	verbose    bool
	method     string
	x0         float64
	xEnd       float64
	dx         float64
	rtol       float64
	atol       float64
	output     string
	configFile string
	preset     string
	save       bool
	plotIndex  int
	outFile    string
	sweepTols  string
	svgPhase   bool
	svgX       int
	svgY       int
)

var log = logrus.New()

func main() {
	rootCmd := &cobra.Command{
		Use:   "dopri",
		Short: "adaptive runge-kutta integration lab",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			log.SetOutput(os.Stderr)
			log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
			log.SetLevel(logrus.WarnLevel)
			if verbose {
				log.SetLevel(logrus.DebugLevel)
			}
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".dopri", "data directory")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log step decisions")

	runCmd := &cobra.Command{
		Use:   "run [model]",
		Short: "integrate a model",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runIntegration,
	}
	runCmd.Flags().StringVar(&method, "method", config.DefaultMethod, "integration method (dopri5, dop853)")
	runCmd.Flags().Float64Var(&x0, "x0", 0, "initial time")
	runCmd.Flags().Float64Var(&xEnd, "x-end", config.DefaultXEnd, "final time")
	runCmd.Flags().Float64Var(&dx, "dx", config.DefaultDx, "dense output spacing")
	runCmd.Flags().Float64Var(&rtol, "rtol", config.DefaultTol, "relative tolerance")
	runCmd.Flags().Float64Var(&atol, "atol", config.DefaultTol, "absolute tolerance")
	runCmd.Flags().StringVar(&output, "output", "dense", "output mode (dense, sparse)")
	runCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	runCmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	runCmd.Flags().BoolVar(&save, "save", true, "store the run in the data directory")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	showCmd := &cobra.Command{
		Use:   "show [run_id]",
		Short: "show run summary",
		Args:  cobra.ExactArgs(1),
		RunE:  showRun,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot run results",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().IntVar(&plotIndex, "index", -1, "state component to plot (-1 for all)")

	csvCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export trajectory as t, y0, y1 lines",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}
	csvCmd.Flags().StringVar(&outFile, "out", "", "output file (stdout if empty)")

	jsonCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run metadata and trajectory as json",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	jsonCmd.Flags().StringVar(&outFile, "out", "", "output file (stdout if empty)")

	svgCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "export time series or phase plot as svg",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	svgCmd.Flags().StringVar(&outFile, "out", "", "output file (stdout if empty)")
	svgCmd.Flags().BoolVar(&svgPhase, "phase", false, "plot y[x] against y[y] instead of time series")
	svgCmd.Flags().IntVar(&svgX, "x", 0, "state index for phase x axis")
	svgCmd.Flags().IntVar(&svgY, "y", 1, "state index for phase y axis")

	deleteCmd := &cobra.Command{
		Use:   "delete [run_id]",
		Short: "delete a stored run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return storage.New(dataDir).Delete(args[0])
		},
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list presets",
		Run: func(cmd *cobra.Command, args []string) {
			for _, name := range config.ListPresets() {
				p := config.GetPreset(name)
				fmt.Printf("%-20s %s (%s, %g..%g)\n", name, p.Model, p.Method, p.X0, p.XEnd)
			}
		},
	}

	methodsCmd := &cobra.Command{
		Use:   "methods",
		Short: "list integration methods",
		Run: func(cmd *cobra.Command, args []string) {
			for _, m := range integrators.Methods() {
				fmt.Printf("%-10s %s\n", m.Name, m.Description)
			}
		},
	}

	modelsCmd := &cobra.Command{
		Use:   "models",
		Short: "list models",
		RunE:  listModels,
	}

	sweepCmd := &cobra.Command{
		Use:   "sweep [preset]",
		Short: "run a preset at several tolerances concurrently",
		Args:  cobra.ExactArgs(1),
		RunE:  sweepPreset,
	}
	sweepCmd.Flags().StringVar(&sweepTols, "tols", "1e-4,1e-6,1e-8,1e-10", "comma separated tolerances")

	rootCmd.AddCommand(runCmd, listCmd, showCmd, plotCmd, csvCmd, jsonCmd, svgCmd, deleteCmd,
		presetsCmd, methodsCmd, modelsCmd, sweepCmd, analyzeCmd())
	rootCmd.AddCommand(batchCmds()...)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// resolveConfig layers preset, config file and explicit flags, in that order.
func resolveConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		p := config.GetPreset(preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %s)", preset, strings.Join(config.ListPresets(), ", "))
		}
		cfg = p
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	if len(args) == 1 {
		if preset != "" && args[0] != cfg.Model {
			// a different model invalidates the preset's state and parameters
			cfg.InitState = nil
			cfg.Params = nil
			cfg.Stop = nil
		}
		cfg.Model = args[0]
	}

	flags := cmd.Flags()
	if flags.Changed("method") {
		cfg.Method = method
	}
	if flags.Changed("x0") {
		cfg.X0 = x0
	}
	if flags.Changed("x-end") {
		cfg.XEnd = xEnd
	}
	if flags.Changed("dx") {
		cfg.Dx = dx
	}
	if flags.Changed("rtol") {
		cfg.RTol = rtol
	}
	if flags.Changed("atol") {
		cfg.ATol = atol
	}
	if flags.Changed("output") {
		cfg.Output = output
	}

	return cfg, cfg.Validate()
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

func runIntegration(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}

	registry := experiment.NewRegistry()
	exp := experiment.New(cfg, registry, log)
	if err := exp.Setup(); err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	result, runErr := exp.Run(ctx)
	if result == nil {
		return runErr
	}

	printSummary(cfg, result)

	if save {
		st := storage.New(dataDir)
		if err := st.Init(); err != nil {
			return err
		}
		meta := runMetadata(cfg, result, exp.Model().GetParams())
		runID, err := st.Save(meta, result.Times, result.States)
		if err != nil {
			return err
		}
		fmt.Println(label.Render("run id:  ") + value.Render(runID))
	}

	return runErr
}

// runMetadata describes a finished run for storage. params defaults to the
// configured overrides.
func runMetadata(cfg *config.Config, res *experiment.Result, params map[string]float64) *storage.RunMetadata {
	if params == nil {
		params = cfg.Params
	}
	return &storage.RunMetadata{
		Model:   cfg.Model,
		Method:  res.Method,
		X0:      cfg.X0,
		XEnd:    cfg.XEnd,
		Dx:      cfg.Dx,
		RTol:    cfg.RTol,
		ATol:    cfg.ATol,
		Output:  cfg.Output,
		Params:  params,
		Stats:   res.Stats,
		Metrics: res.Metrics,
		Error:   res.ErrorMsg,
	}
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tMODEL\tMETHOD\tTIME\tSPAN\tRTOL\tEVALS\tSTATUS")

	for _, run := range runs {
		status := "ok"
		if run.Error != "" {
			status = "failed"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%g..%g\t%.0e\t%d\t%s\n",
			run.ID,
			run.Model,
			run.Method,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.X0, run.XEnd,
			run.RTol,
			run.Stats.NumEval,
			status,
		)
	}

	return w.Flush()
}

func showRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	times, states, err := st.LoadStates(args[0])
	if err != nil {
		return err
	}

	fmt.Println(title.Render(meta.ID))
	row("model", meta.Model)
	row("method", meta.Method)
	row("created", meta.Timestamp.Format("2006-01-02 15:04:05"))
	row("interval", fmt.Sprintf("%g .. %g", meta.X0, meta.XEnd))
	row("tolerances", fmt.Sprintf("rtol %.1e  atol %.1e", meta.RTol, meta.ATol))
	row("output", meta.Output)
	row("samples", strconv.Itoa(len(times)))
	if len(states) > 0 {
		row("final", fmt.Sprintf("t=%g  y=%v", times[len(times)-1], states[len(states)-1]))
	}
	for _, name := range sortedKeys(meta.Params) {
		row("param "+name, strconv.FormatFloat(meta.Params[name], 'g', -1, 64))
	}
	for _, name := range sortedKeys(meta.Metrics) {
		row(name, fmt.Sprintf("%.6e", meta.Metrics[name]))
	}
	if meta.Error != "" {
		fmt.Println(failure.Render("error: " + meta.Error))
	}
	fmt.Println()
	fmt.Println(meta.Stats)
	return nil
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	times, states, err := st.LoadStates(runID)
	if err != nil {
		return err
	}

	if len(states) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("model: %s\n", meta.Model)
	fmt.Printf("samples: %d (t = %g .. %g)\n\n", len(states), times[0], times[len(times)-1])

	numVars := len(states[0])
	first, last := 0, numVars
	if numVars > maxPlots {
		last = maxPlots
	}
	if plotIndex >= 0 {
		if plotIndex >= numVars {
			return fmt.Errorf("index %d out of range for %d components", plotIndex, numVars)
		}
		first, last = plotIndex, plotIndex+1
	}

	for varIdx := first; varIdx < last; varIdx++ {
		data := make([]float64, len(states))
		for i := range states {
			data[i] = states[i][varIdx]
		}

		graph := asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(fmt.Sprintf("y%d vs t", varIdx)),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	return nil
}

const maxPlots = 6

func openOut() (*os.File, func() error, error) {
	if outFile == "" {
		return os.Stdout, func() error { return nil }, nil
	}
	f, err := os.Create(outFile)
	if err != nil {
		return nil, nil, err
	}
	return f, f.Close, nil
}

func exportCSV(cmd *cobra.Command, args []string) error {
	times, states, err := storage.New(dataDir).LoadStates(args[0])
	if err != nil {
		return err
	}

	f, closeFn, err := openOut()
	if err != nil {
		return err
	}
	if err := storage.WriteTrajectory(f, times, states); err != nil {
		closeFn()
		return err
	}
	return closeFn()
}

func exportJSON(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	times, states, err := st.LoadStates(args[0])
	if err != nil {
		return err
	}

	f, closeFn, err := openOut()
	if err != nil {
		return err
	}
	if err := storage.ExportJSON(f, meta, times, states); err != nil {
		closeFn()
		return err
	}
	return closeFn()
}

func exportSVG(cmd *cobra.Command, args []string) error {
	times, states, err := storage.New(dataDir).LoadStates(args[0])
	if err != nil {
		return err
	}

	series := export.TimeSeries(times, states)
	if svgPhase {
		p, err := analysis.NewPhasePortrait(states, svgX, svgY)
		if err != nil {
			return err
		}
		series = export.Phase(p)
	}

	f, closeFn, err := openOut()
	if err != nil {
		return err
	}
	if err := export.WriteSVG(f, series, 800, 600); err != nil {
		closeFn()
		return err
	}
	return closeFn()
}

func listModels(cmd *cobra.Command, args []string) error {
	registry := experiment.NewRegistry()

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "MODEL\tDIM\tPARAMS")
	for _, name := range registry.ListModels() {
		m, err := registry.GetModel(name)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s\t%d\t%s\n", name, m.Dim(), strings.Join(sortedKeys(m.GetParams()), ", "))
	}
	return w.Flush()
}

func sweepPreset(cmd *cobra.Command, args []string) error {
	base := config.GetPreset(args[0])
	if base == nil {
		return fmt.Errorf("unknown preset: %s", args[0])
	}

	tols, err := parseFloats(sweepTols)
	if err != nil {
		return fmt.Errorf("--tols: %w", err)
	}

	ctx, cancel := signalContext()
	defer cancel()

	cfgs := experiment.ToleranceSweep(base, tols)
	results, err := experiment.RunEnsemble(ctx, experiment.NewRegistry(), cfgs, log)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TOL\tEVALS\tACCEPTED\tREJECTED\tELAPSED\tFINAL\tSTATUS")
	for i, res := range results {
		if res == nil {
			fmt.Fprintf(w, "%.0e\t-\t-\t-\t-\t-\tsetup failed\n", tols[i])
			continue
		}
		status := "ok"
		if res.ErrorMsg != "" {
			status = res.ErrorMsg
		} else if res.Stopped {
			status = "stopped"
		}
		final := "-"
		if n := len(res.States); n > 0 {
			final = fmt.Sprintf("%.10g", res.States[n-1][0])
		}
		fmt.Fprintf(w, "%.0e\t%d\t%d\t%d\t%s\t%s\t%s\n",
			tols[i], res.Stats.NumEval, res.Stats.AcceptedSteps, res.Stats.RejectedSteps,
			res.Elapsed.Round(time.Microsecond), final, status)
	}
	if ferr := w.Flush(); ferr != nil {
		return ferr
	}
	return err
}
