// Package analysis characterizes trajectories produced by the adaptive
// integrators.
//
//   - [NewPhasePortrait]: 2D projection of a recorded trajectory
//   - [PoincareSectionOf]: upward crossings of a plane, located on the dense
//     output of each step
//   - [PowerSpectrum], [DominantFrequency]: spectra of evenly spaced dense
//     output
//   - [LargestLyapunov]: separation growth of two nearby trajectories
//   - [BifurcationDiagram]: distinct local maxima over a parameter sweep
//
// # Chaos Detection
//
// A positive largest Lyapunov exponent indicates chaotic dynamics:
//
//	opts := analysis.Options{Method: integrators.Dop853, RTol: 1e-10, ATol: 1e-10}
//	lambda, err := analysis.LargestLyapunov(opts, physics.NewLorenz(), y0, 0, 200, 1, 1e-8)
//	if lambda > 0 {
//	    // system is chaotic
//	}
package analysis
