// Package parsers loads DIMACS CNF input into a sat.Solver. This package
// exists to adapt github.com/rhartert/dimacs's incremental reader onto the
// solver's AddVariable/AddClause API.
package parsers

import (
	"compress/gzip"
	"fmt"
	"io"
	"os"

	"github.com/rhartert/dimacs"

	"github.com/satkit/cdcl/internal/sat"
)

// Solver is the subset of *sat.Solver's API the parser depends on.
type Solver interface {
	AddVariable() int
	AddClause(literals []sat.Literal)
}

// VarMapping records the DIMACS variable renumbering: original (1-based)
// DIMACS ids are mapped to the solver's contiguous 0-based internal ids in
// the order they're first observed, so that output can be reported in the
// original numbering.
type VarMapping struct {
	toInternal map[int]int
	toOriginal []int
}

func newVarMapping() *VarMapping {
	return &VarMapping{toInternal: map[int]int{}}
}

// internal returns original's internal variable id, registering it with
// solver on first sight.
func (m *VarMapping) internal(solver Solver, original int) int {
	if id, ok := m.toInternal[original]; ok {
		return id
	}
	id := solver.AddVariable()
	m.toInternal[original] = id
	m.toOriginal = append(m.toOriginal, original)
	return id
}

// Original returns the original DIMACS variable id for internal id v.
func (m *VarMapping) Original(v int) int { return m.toOriginal[v] }

// NumVars returns the number of distinct variables observed.
func (m *VarMapping) NumVars() int { return len(m.toOriginal) }

func openReader(path string, gzipped bool) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	rc := io.ReadCloser(f)
	if gzipped {
		rc, err = gzip.NewReader(rc)
		if err != nil {
			return nil, err
		}
	}
	return rc, nil
}

// LoadDIMACS reads a DIMACS CNF file from path into solver. The
// "p cnf n m" header line is accepted but not required: when absent,
// variables are registered lazily, the first time each is seen in a
// clause, instead of all up front in Problem.
func LoadDIMACS(path string, gzipped bool, solver Solver) (*VarMapping, error) {
	r, err := openReader(path, gzipped)
	if err != nil {
		return nil, fmt.Errorf("parsers: opening %q: %w", path, err)
	}
	defer r.Close()

	m := newVarMapping()
	b := &builder{solver: solver, mapping: m}
	if err := dimacs.ReadBuilder(r, b); err != nil {
		return nil, fmt.Errorf("parsers: parsing %q: %w", path, err)
	}
	return m, nil
}

// builder adapts a Solver and a VarMapping to dimacs.Builder.
type builder struct {
	solver  Solver
	mapping *VarMapping
}

func (b *builder) Problem(problem string, nVars int, nClauses int) error {
	if problem != "cnf" {
		return fmt.Errorf("parsers: unsupported problem type %q", problem)
	}
	for v := 1; v <= nVars; v++ {
		b.mapping.internal(b.solver, v)
	}
	return nil
}

func (b *builder) Clause(tmpClause []int) error {
	literals := make([]sat.Literal, len(tmpClause))
	for i, l := range tmpClause {
		if l == 0 {
			return fmt.Errorf("parsers: literal 0 inside a clause")
		}
		v := l
		if v < 0 {
			v = -v
		}
		id := b.mapping.internal(b.solver, v)
		if l < 0 {
			literals[i] = sat.NegativeLiteral(id)
		} else {
			literals[i] = sat.PositiveLiteral(id)
		}
	}
	b.solver.AddClause(literals)
	return nil
}

func (b *builder) Comment(_ string) error {
	return nil // ignore comments
}
