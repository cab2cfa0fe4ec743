// Package integrators implements the adaptive Dormand-Prince steppers.
//
// One generic [Stepper] drives every method; the method is described by a
// [tableau.Tableau] and a [Method] entry which pairs it with its controller
// defaults:
//
//   - [Dopri5]: order 5 with an order 4 estimator, dense output of order 4
//   - [Dop853]: order 8 with order 5 and 3 estimators, dense output of order 7
//
// A stepper is built once, consumed by a single call to Integrate and then
// exposes the recorded trajectory through XOut and YOut.
//
//	stepper := integrators.NewDopri5(sys, 0, 10, 0.1, y0, 1e-8, 1e-8)
//	stats, err := stepper.Integrate()
//	if errors.Is(err, dynamo.ErrStiffnessDetected) {
//	    // switch to an implicit method
//	}
//
// Every accepted step is also tested for stiffness. The NStiff parameter is
// accepted for configuration but does not gate the test.
package integrators
