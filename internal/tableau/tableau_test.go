package tableau

import (
	"math"
	"testing"
)

func sum(xs []float64) float64 {
	s := 0.0
	for _, x := range xs {
		s += x
	}
	return s
}

func TestTableauConsistency(t *testing.T) {
	tests := []struct {
		tab         *Tableau
		totalStages int
		denseRows   int
		finalStage  int
	}{
		{DormandPrince54(), 7, 5, 6},
		{DormandPrince853(), 16, 8, 12},
	}

	for _, tt := range tests {
		tab := tt.tab
		t.Run(tab.Name, func(t *testing.T) {
			if got := tab.TotalStages(); got != tt.totalStages {
				t.Errorf("TotalStages() = %d, want %d", got, tt.totalStages)
			}
			if got := tab.DenseRows(); got != tt.denseRows {
				t.Errorf("DenseRows() = %d, want %d", got, tt.denseRows)
			}
			if got := tab.FinalStage(); got != tt.finalStage {
				t.Errorf("FinalStage() = %d, want %d", got, tt.finalStage)
			}
			if len(tab.AStage) != tab.TotalStages() {
				t.Fatalf("AStage has %d rows, want %d", len(tab.AStage), tab.TotalStages())
			}

			for s, row := range tab.AStage {
				if len(row) != s {
					t.Errorf("row %d has %d coefficients", s, len(row))
				}
				if s == 0 {
					continue
				}
				if got := sum(row); math.Abs(got-tab.CNode[s]) > 1e-12 {
					t.Errorf("row %d sums to %.16f, node is %.16f", s, got, tab.CNode[s])
				}
			}

			if got := sum(tab.Weights()); math.Abs(got-1) > 1e-12 {
				t.Errorf("solution weights sum to %.16f", got)
			}
			if len(tab.EWeights) != tab.Stages {
				t.Errorf("EWeights has %d entries, want %d", len(tab.EWeights), tab.Stages)
			}
			if got := sum(tab.EWeights); math.Abs(got) > 1e-12 {
				t.Errorf("error weights sum to %g", got)
			}
			if tab.BHH != nil {
				if got := sum(tab.BHH); math.Abs(got-1) > 1e-12 {
					t.Errorf("BHH sums to %.16f", got)
				}
			}
			for r, row := range tab.DRows {
				if len(row) != tab.TotalStages() {
					t.Errorf("dense row %d has %d weights", r, len(row))
				}
				if got := sum(row); math.Abs(got) > 1e-10 {
					t.Errorf("dense row %d sums to %g", r, got)
				}
			}
			if tab.StiffThreshold <= 0 {
				t.Error("StiffThreshold must be positive")
			}
		})
	}
}

func TestAccessors(t *testing.T) {
	tab := DormandPrince54()

	if got := tab.A(2, 1); got != 1.0/5.0 {
		t.Errorf("A(2,1) = %v", got)
	}
	if got := tab.A(7, 6); got != 11.0/84.0 {
		t.Errorf("A(7,6) = %v", got)
	}
	if got := tab.A(3, 5); got != 0 {
		t.Errorf("A(3,5) out of row = %v, want 0", got)
	}
	if got := tab.C(5); got != 8.0/9.0 {
		t.Errorf("C(5) = %v", got)
	}
	if got := tab.E(7); got != -1.0/40.0 {
		t.Errorf("E(7) = %v", got)
	}
	if got := tab.D(1, 2); got != 0 {
		t.Errorf("D(1,2) = %v, want 0", got)
	}
	if got := tab.D(1, 7); got != 69997945.0/29380423.0 {
		t.Errorf("D(1,7) = %v", got)
	}

	hp := DormandPrince853()
	if got := hp.C(16); math.Abs(got-7.0/9.0) > 1e-15 {
		t.Errorf("C(16) = %v", got)
	}
	if got := hp.A(14, 13); got != -8.298e-3 {
		t.Errorf("A(14,13) = %v", got)
	}
}

func TestTableauInstancesAreIndependent(t *testing.T) {
	a := DormandPrince853()
	a.B[0] = 42
	a.AStage[1][0] = 42

	b := DormandPrince853()
	if b.B[0] == 42 || b.AStage[1][0] == 42 {
		t.Error("tableau instances share coefficient storage")
	}
}
