package main

import (
	"fmt"
	"sort"

	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/dopri/internal/config"
	"github.com/san-kum/dopri/internal/experiment"
)

var (
	title   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
	label   = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
	value   = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	success = lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
	warning = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	failure = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

func row(name, v string) {
	fmt.Println(label.Render(fmt.Sprintf("%-14s", name)) + value.Render(v))
}

func printSummary(cfg *config.Config, res *experiment.Result) {
	fmt.Println(title.Render(fmt.Sprintf("%s / %s", res.Model, res.Method)))
	row("interval", fmt.Sprintf("%g .. %g", cfg.X0, cfg.XEnd))
	row("tolerances", fmt.Sprintf("rtol %.1e  atol %.1e", cfg.RTol, cfg.ATol))
	row("samples", fmt.Sprintf("%d", len(res.Times)))
	if n := len(res.States); n > 0 {
		row("final", fmt.Sprintf("t=%g  y=%v", res.Times[n-1], res.States[n-1]))
	}
	for _, name := range sortedKeys(res.Metrics) {
		row(name, fmt.Sprintf("%.6e", res.Metrics[name]))
	}
	row("elapsed", res.Elapsed.String())

	switch {
	case res.ErrorMsg != "":
		fmt.Println(failure.Render("failed: " + res.ErrorMsg))
	case res.Stopped:
		fmt.Println(warning.Render("stopped by condition"))
	default:
		fmt.Println(success.Render("done"))
	}
	fmt.Println()
	fmt.Println(res.Stats)
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
