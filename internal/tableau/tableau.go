// Package tableau holds the Butcher tableaus of the Dormand-Prince family.
//
// A [Tableau] is pure data. Stage indices in the accessors start at 1, as in
// the usual Butcher notation; the exported slices are indexed from 0.
//
// Stage layout shared by every tableau:
//
//	0 .. Stages-1           stages evaluated on every step attempt
//	FinalStage()            derivative at (x+h, y_next); equals Stages-1 when FSAL
//	FinalStage()+1 ..       extra stages evaluated for dense output only
package tableau

// Tableau is an immutable explicit Runge-Kutta coefficient set with an
// embedded error estimator and a continuous extension.
type Tableau struct {
	Name string

	// Order is the order of the propagated solution. The initial step
	// heuristic uses 1/Order as its exponent.
	Order int

	// Stages is the number of stages evaluated on every attempt, including
	// the first one, which is reused from the previous step.
	Stages int

	// FSAL is set when the last attempt stage is evaluated at (x+h, y_next).
	FSAL bool

	// AStage holds the stage coefficients. Row s has length s.
	AStage [][]float64
	CNode  []float64

	// B holds the solution weights over the attempt stages. Nil when FSAL,
	// in which case the last row of AStage defines the solution.
	B []float64

	// EWeights holds the error estimator weights over the attempt stages.
	EWeights []float64

	// BHH holds the weights of a secondary low-order estimator. When set,
	// the error norm blends both estimates.
	BHH []float64

	// DRows holds one weight row per extra dense-output coefficient. Each
	// row spans every stage including the dense-only ones.
	DRows [][]float64

	// DenseStages is the number of extra evaluations done after an
	// accepted step when dense output is requested.
	DenseStages int

	// StiffThreshold bounds h*lambda before a step counts as stiff.
	StiffThreshold float64
}

// A returns the coefficient a(stage, j), both indices starting at 1.
func (t *Tableau) A(stage, j int) float64 {
	row := t.AStage[stage-1]
	if j-1 >= len(row) {
		return 0
	}
	return row[j-1]
}

// C returns the node c(stage).
func (t *Tableau) C(stage int) float64 {
	return t.CNode[stage-1]
}

// E returns the error estimator weight e(stage).
func (t *Tableau) E(stage int) float64 {
	if stage-1 >= len(t.EWeights) {
		return 0
	}
	return t.EWeights[stage-1]
}

// D returns the weight of stage in the extra dense-output row (from 1).
func (t *Tableau) D(row, stage int) float64 {
	r := t.DRows[row-1]
	if stage-1 >= len(r) {
		return 0
	}
	return r[stage-1]
}

// TotalStages counts every stage, dense-only ones included.
func (t *Tableau) TotalStages() int {
	return len(t.CNode)
}

// FinalStage is the 0-based index of the derivative at (x+h, y_next).
func (t *Tableau) FinalStage() int {
	if t.FSAL {
		return t.Stages - 1
	}
	return t.Stages
}

// DenseRows is the number of rows of the dense-output coefficient matrix.
func (t *Tableau) DenseRows() int {
	return 4 + len(t.DRows)
}

// Weights returns the solution weights over the attempt stages.
func (t *Tableau) Weights() []float64 {
	if t.FSAL {
		return t.AStage[t.Stages-1]
	}
	return t.B
}
