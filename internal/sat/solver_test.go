package sat

import "testing"

// buildSolver adds vars 0..numVars-1 and the given clauses (DIMACS-style,
// 1-based signed ints) to a fresh Solver configured with opts.
func buildSolver(opts Options, numVars int, clauses [][]int) *Solver {
	s := NewSolver(opts)
	for i := 0; i < numVars; i++ {
		s.AddVariable()
	}
	for _, cl := range clauses {
		lits := make([]Literal, len(cl))
		for i, x := range cl {
			if x < 0 {
				lits[i] = NegativeLiteral(-x - 1)
			} else {
				lits[i] = PositiveLiteral(x - 1)
			}
		}
		s.AddClause(lits)
	}
	return s
}

func checkModel(t *testing.T, clauses [][]int, model []bool) {
	t.Helper()
	for _, cl := range clauses {
		satisfied := false
		for _, x := range cl {
			v := x
			if v < 0 {
				v = -v
			}
			val := model[v-1]
			if x < 0 {
				val = !val
			}
			if val {
				satisfied = true
				break
			}
		}
		if !satisfied {
			t.Errorf("clause %v not satisfied by model %v", cl, model)
		}
	}
}

// allConfigs enumerates every combination of the five independent feature
// toggles, so every scenario that loops over it is checked both in the
// degenerate (all off) mode and with the full CDCL machinery engaged.
func allConfigs() []Options {
	var configs []Options
	for mask := 0; mask < 32; mask++ {
		configs = append(configs, Options{
			VSIDS:    mask&1 != 0,
			Restarts: mask&2 != 0,
			Learn:    mask&4 != 0,
			Delete:   mask&8 != 0,
			Minimize: mask&16 != 0,
			Seed:     1,
		})
	}
	return configs
}

// Scenario 1: p cnf 1 1 / 1 0 -> SAT, assignment 1.
func TestSolve_Scenario1_UnitSAT(t *testing.T) {
	clauses := [][]int{{1}}
	for _, opts := range allConfigs() {
		s := buildSolver(opts, 1, clauses)
		if got := s.Solve(); got != StatusSatisfiable {
			t.Fatalf("opts=%+v: Solve() = %v, want SAT", opts, got)
		}
		checkModel(t, clauses, s.Model())
	}
}

// Scenario 2: p cnf 1 2 / 1 0 / -1 0 -> UNSAT.
func TestSolve_Scenario2_UnitUNSAT(t *testing.T) {
	clauses := [][]int{{1}, {-1}}
	for _, opts := range allConfigs() {
		s := buildSolver(opts, 1, clauses)
		if got := s.Solve(); got != StatusUnsatisfiable {
			t.Fatalf("opts=%+v: Solve() = %v, want UNSAT", opts, got)
		}
	}
}

// Scenario 3: p cnf 3 3 / 1 2 0 / -1 2 0 / -2 3 0 -> SAT.
func TestSolve_Scenario3_ThreeClauseSAT(t *testing.T) {
	clauses := [][]int{{1, 2}, {-1, 2}, {-2, 3}}
	for _, opts := range allConfigs() {
		s := buildSolver(opts, 3, clauses)
		if got := s.Solve(); got != StatusSatisfiable {
			t.Fatalf("opts=%+v: Solve() = %v, want SAT", opts, got)
		}
		checkModel(t, clauses, s.Model())
	}
}

// Scenario 4: the pigeonhole instance PHP(5,4): 5 pigeons, 4 holes -> UNSAT.
func TestSolve_Scenario4_Pigeonhole(t *testing.T) {
	pigeons, holes := 5, 4
	varOf := func(p, h int) int { return p*holes + h + 1 }

	var clauses [][]int
	for p := 0; p < pigeons; p++ {
		cl := make([]int, holes)
		for h := 0; h < holes; h++ {
			cl[h] = varOf(p, h)
		}
		clauses = append(clauses, cl)
	}
	for h := 0; h < holes; h++ {
		for p1 := 0; p1 < pigeons; p1++ {
			for p2 := p1 + 1; p2 < pigeons; p2++ {
				clauses = append(clauses, []int{-varOf(p1, h), -varOf(p2, h)})
			}
		}
	}

	// The degenerate (no learning) configuration is exponential on PHP; only
	// exercise it with clause learning enabled, where it should be fast.
	opts := Options{VSIDS: true, Restarts: true, Learn: true, Delete: true, Minimize: true, Seed: 1}
	s := buildSolver(opts, pigeons*holes, clauses)
	if got := s.Solve(); got != StatusUnsatisfiable {
		t.Fatalf("Solve() = %v, want UNSAT", got)
	}
}

// Scenario 6: a unit-only implication chain -> SAT, with the expected
// assignment. The chain is fully resolved by NewClause's root-level
// simplification against already-known facts as each clause is added,
// before Solve ever runs a single decision, so unlike a solver that loads
// clauses verbatim and lets the propagator do all the work, both the
// unit_propagations and decisions counters legitimately come out at 0 here.
func TestSolve_Scenario6_UnitChain(t *testing.T) {
	clauses := [][]int{{1}, {-1, 2}, {-2, 3}, {-3, 4}, {-4, -5}}
	for _, opts := range allConfigs() {
		s := buildSolver(opts, 5, clauses)
		if got := s.Solve(); got != StatusSatisfiable {
			t.Fatalf("opts=%+v: Solve() = %v, want SAT", opts, got)
		}
		model := s.Model()
		checkModel(t, clauses, model)
		if !model[0] || !model[1] || !model[2] || !model[3] || model[4] {
			t.Errorf("opts=%+v: model = %v, want 1,2,3,4 true and 5 false", opts, model)
		}
	}
}

// TestSolve_Scenario6_UnitChainThroughPropagator loads the same chain with
// a spare variable added to every link and falsified only by the last
// clause, which defeats NewClause's root simplification (the spare
// variable is unassigned when the links are added) and forces the chain to
// resolve via the real propagator during Solve, exercising
// unit_propagations and decisions directly.
func TestSolve_Scenario6_UnitChainThroughPropagator(t *testing.T) {
	// Variables 1-5 are the chain; 6 is a spare kept unassigned until the
	// final -6 clause, so the link clauses mentioning it can't be trimmed
	// at add time.
	clauses := [][]int{{1, 6}, {-1, 2, 6}, {-2, 3, 6}, {-3, 4, 6}, {-4, -5, 6}, {-6}}
	opts := Options{Learn: true, Minimize: true}
	s := buildSolver(opts, 6, clauses)
	if got := s.Solve(); got != StatusSatisfiable {
		t.Fatalf("Solve() = %v, want SAT", got)
	}
	model := s.Model()
	checkModel(t, clauses, model)
	if !model[0] || !model[1] || !model[2] || !model[3] || model[4] {
		t.Errorf("model = %v, want 1,2,3,4 true and 5 false", model)
	}
	stats := s.Statistics()
	if stats.UnitPropagations < 4 {
		t.Errorf("unit propagations = %d, want >= 4", stats.UnitPropagations)
	}
	if stats.Decisions > 1 {
		t.Errorf("decisions = %d, want <= 1", stats.Decisions)
	}
}

// Two runs with the same input, configuration and seed produce identical
// statistics and assignments.
func TestSolve_Determinism(t *testing.T) {
	clauses := [][]int{{1, 2, 3}, {-1, 2}, {-2, 3}, {1, -3}}
	opts := Options{VSIDS: true, Restarts: true, Learn: true, Delete: true, Minimize: true, Seed: 7}

	s1 := buildSolver(opts, 3, clauses)
	status1 := s1.Solve()
	s2 := buildSolver(opts, 3, clauses)
	status2 := s2.Solve()

	if status1 != status2 {
		t.Fatalf("status mismatch: %v vs %v", status1, status2)
	}
	st1, st2 := s1.Statistics(), s2.Statistics()
	if st1.Decisions != st2.Decisions || st1.Conflicts != st2.Conflicts || st1.UnitPropagations != st2.UnitPropagations {
		t.Errorf("statistics diverged between identical runs: %+v vs %+v", st1, st2)
	}
}

// MaxConflicts exercises the host-imposed budget: a solver forced to stop
// early reports UNKNOWN rather than a wrong verdict.
func TestSolve_MaxConflictsYieldsUnknown(t *testing.T) {
	pigeons, holes := 6, 5
	varOf := func(p, h int) int { return p*holes + h + 1 }
	var clauses [][]int
	for p := 0; p < pigeons; p++ {
		cl := make([]int, holes)
		for h := 0; h < holes; h++ {
			cl[h] = varOf(p, h)
		}
		clauses = append(clauses, cl)
	}
	for h := 0; h < holes; h++ {
		for p1 := 0; p1 < pigeons; p1++ {
			for p2 := p1 + 1; p2 < pigeons; p2++ {
				clauses = append(clauses, []int{-varOf(p1, h), -varOf(p2, h)})
			}
		}
	}

	opts := Options{Learn: true, MaxConflicts: 1}
	s := buildSolver(opts, pigeons*holes, clauses)
	if got := s.Solve(); got != StatusUnknown {
		t.Fatalf("Solve() = %v, want UNKNOWN under a 1-conflict budget", got)
	}
}
