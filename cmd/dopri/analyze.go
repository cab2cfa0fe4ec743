package main

import (
	"fmt"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/dopri/internal/analysis"
	"github.com/san-kum/dopri/internal/experiment"
	"github.com/san-kum/dopri/internal/physics"
	"github.com/san-kum/dopri/internal/storage"
)

var (
	analysisMethod string
	analysisTol    float64
	xAxis          int
	yAxis          int
	poinX          int
	poinY          int
	crossIndex     int
	crossValue     float64
	lyapSpan       float64
	poinSpan       float64
	bifSpan        float64
	bifDx          float64
	component      int
	segment        float64
	paramName      string
	paramFrom      float64
	paramTo        float64
	paramSteps     int
	transient      float64
)

func analyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "trajectory analysis",
	}
	cmd.PersistentFlags().StringVar(&analysisMethod, "method", "dop853", "integration method")
	cmd.PersistentFlags().Float64Var(&analysisTol, "tol", 1e-10, "relative and absolute tolerance")

	phaseCmd := &cobra.Command{
		Use:   "phase [run_id]",
		Short: "phase portrait of a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  phasePortrait,
	}
	phaseCmd.Flags().IntVar(&xAxis, "x", 0, "state index for x axis")
	phaseCmd.Flags().IntVar(&yAxis, "y", 1, "state index for y axis")

	spectrumCmd := &cobra.Command{
		Use:   "spectrum [run_id]",
		Short: "power spectrum of a stored dense run",
		Args:  cobra.ExactArgs(1),
		RunE:  spectrum,
	}
	spectrumCmd.Flags().IntVar(&component, "index", 0, "state component")

	lyapunovCmd := &cobra.Command{
		Use:   "lyapunov [model]",
		Short: "estimate the largest lyapunov exponent",
		Args:  cobra.ExactArgs(1),
		RunE:  lyapunov,
	}
	lyapunovCmd.Flags().Float64Var(&lyapSpan, "span", 100, "integration time")
	lyapunovCmd.Flags().Float64Var(&segment, "segment", 1, "renormalization interval")

	poincareCmd := &cobra.Command{
		Use:   "poincare [model]",
		Short: "poincare section of a model",
		Args:  cobra.ExactArgs(1),
		RunE:  poincare,
	}
	poincareCmd.Flags().Float64Var(&poinSpan, "span", 200, "integration time")
	poincareCmd.Flags().IntVar(&crossIndex, "cross-index", 0, "component defining the plane")
	poincareCmd.Flags().Float64Var(&crossValue, "cross-value", 0, "plane position")
	poincareCmd.Flags().IntVar(&poinX, "x", 1, "state index for x axis")
	poincareCmd.Flags().IntVar(&poinY, "y", 2, "state index for y axis")

	bifurcationCmd := &cobra.Command{
		Use:   "bifurcation [model]",
		Short: "sweep a parameter and plot local maxima",
		Args:  cobra.ExactArgs(1),
		RunE:  bifurcation,
	}
	bifurcationCmd.Flags().StringVar(&paramName, "param", "", "parameter to sweep")
	bifurcationCmd.Flags().Float64Var(&paramFrom, "from", 0, "first value")
	bifurcationCmd.Flags().Float64Var(&paramTo, "to", 1, "last value")
	bifurcationCmd.Flags().IntVar(&paramSteps, "steps", 40, "number of values")
	bifurcationCmd.Flags().IntVar(&component, "index", 0, "state component")
	bifurcationCmd.Flags().Float64Var(&transient, "transient", 100, "discarded integration time")
	bifurcationCmd.Flags().Float64Var(&bifSpan, "span", 100, "recorded integration time")
	bifurcationCmd.Flags().Float64Var(&bifDx, "dx", 0.01, "sample spacing")
	_ = bifurcationCmd.MarkFlagRequired("param")

	cmd.AddCommand(phaseCmd, spectrumCmd, lyapunovCmd, poincareCmd, bifurcationCmd)
	return cmd
}

func analysisOptions(reg *experiment.Registry) (analysis.Options, error) {
	m, err := reg.GetMethod(analysisMethod)
	if err != nil {
		return analysis.Options{}, err
	}
	return analysis.Options{Method: m, RTol: analysisTol, ATol: analysisTol}, nil
}

func phasePortrait(cmd *cobra.Command, args []string) error {
	_, states, err := storage.New(dataDir).LoadStates(args[0])
	if err != nil {
		return err
	}
	p, err := analysis.NewPhasePortrait(states, xAxis, yAxis)
	if err != nil {
		return err
	}
	fmt.Printf("y%d vs y%d\n", yAxis, xAxis)
	fmt.Print(p.ASCII(80, 24))
	return nil
}

func spectrum(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	if meta.Output == "sparse" {
		return fmt.Errorf("run %s has sparse output; spectrum needs evenly spaced samples", meta.ID)
	}
	_, states, err := st.LoadStates(args[0])
	if err != nil {
		return err
	}
	data, err := analysis.Column(states, component)
	if err != nil {
		return err
	}

	f, err := analysis.DominantFrequency(data, meta.Dx)
	if err != nil {
		return err
	}
	ps := analysis.PowerSpectrum(data)
	fmt.Println(asciigraph.Plot(ps,
		asciigraph.Height(15),
		asciigraph.Width(80),
		asciigraph.Caption(fmt.Sprintf("power spectrum (y%d)", component)),
	))
	row("dominant", fmt.Sprintf("%.6g cycles per unit (period %.6g)", f, 1/f))
	return nil
}

func modelAndOptions(name string) (physics.Model, analysis.Options, error) {
	reg := experiment.NewRegistry()
	model, err := reg.GetModel(name)
	if err != nil {
		return nil, analysis.Options{}, err
	}
	opts, err := analysisOptions(reg)
	return model, opts, err
}

func lyapunov(cmd *cobra.Command, args []string) error {
	model, opts, err := modelAndOptions(args[0])
	if err != nil {
		return err
	}
	lambda, err := analysis.LargestLyapunov(opts, model, model.DefaultState(), 0, lyapSpan, segment, 1e-8)
	if err != nil {
		return err
	}
	row("lambda", fmt.Sprintf("%.6f", lambda))
	if lambda > 0.01 {
		fmt.Println(warning.Render("chaotic"))
	} else {
		fmt.Println(success.Render("regular"))
	}
	return nil
}

func poincare(cmd *cobra.Command, args []string) error {
	model, opts, err := modelAndOptions(args[0])
	if err != nil {
		return err
	}
	section, err := analysis.PoincareSectionOf(opts, model, 0, poinSpan, model.DefaultState(),
		analysis.Crossing{Index: crossIndex, Value: crossValue}, poinX, poinY)
	if err != nil {
		return err
	}
	fmt.Printf("%d crossings of y%d = %g\n", len(section.Points), crossIndex, crossValue)
	fmt.Print(section.ASCII(80, 24))
	return nil
}

func bifurcation(cmd *cobra.Command, args []string) error {
	reg := experiment.NewRegistry()
	if _, err := reg.GetModel(args[0]); err != nil {
		return err
	}
	opts, err := analysisOptions(reg)
	if err != nil {
		return err
	}
	if paramSteps < 2 {
		paramSteps = 2
	}

	values := make([]float64, paramSteps)
	for i := range values {
		values[i] = paramFrom + float64(i)*(paramTo-paramFrom)/float64(paramSteps-1)
	}

	newModel := func() physics.Model {
		m, _ := reg.GetModel(args[0])
		return m
	}
	points, err := analysis.BifurcationDiagram(opts, newModel, analysis.Sweep{
		Param:     paramName,
		Values:    values,
		Index:     component,
		Transient: transient,
		Record:    bifSpan,
		Dx:        bifDx,
	})
	if err != nil {
		return err
	}
	fmt.Printf("%s: %g .. %g\n", paramName, paramFrom, paramTo)
	fmt.Print(analysis.BifurcationASCII(points, 80, 24))
	return nil
}
