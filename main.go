package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"runtime"

	"github.com/satkit/cdcl/internal/parsers"
	"github.com/satkit/cdcl/internal/sat"
)

var (
	flagInput        = flag.String("input", "input.cnf", "path to the DIMACS CNF instance")
	flagGzip         = flag.Bool("gzip", false, "the input file is gzip-compressed")
	flagVSIDS        = flag.Bool("vsids", false, "use the VSIDS decision heuristic instead of random")
	flagRestarts     = flag.Bool("restarts", false, "enable Luby-sequence restarts")
	flagLearn        = flag.Bool("learn", false, "enable 1-UIP clause learning (off: chronological backtracking)")
	flagDelete       = flag.Bool("delete", false, "enable LBD-based learned clause deletion at restarts")
	flagMinimize     = flag.Bool("minimize", false, "enable single-pass learned clause minimization")
	flagSeed         = flag.Int64("seed", 1, "PRNG seed for the random heuristic")
	flagMaxConflicts = flag.Int64("max-conflicts", 0, "abort with UNKNOWN after this many conflicts (0 = unlimited)")
	flagTimeout      = flag.Duration("timeout", 0, "abort with UNKNOWN after this wall-clock duration (0 = unlimited)")
)

// Exit codes: 10 SAT, 20 UNSAT, other nonzero on error or an inconclusive run.
const (
	exitSAT     = 10
	exitUNSAT   = 20
	exitError   = 1
	exitUnknown = 3
)

func main() {
	flag.Parse()

	opts := sat.Options{
		VSIDS:        *flagVSIDS,
		Restarts:     *flagRestarts,
		Learn:        *flagLearn,
		Delete:       *flagDelete,
		Minimize:     *flagMinimize,
		Seed:         *flagSeed,
		MaxConflicts: *flagMaxConflicts,
		Timeout:      *flagTimeout,
	}

	solver := sat.NewSolver(opts)
	mapping, err := parsers.LoadDIMACS(*flagInput, *flagGzip, solver)
	if err != nil {
		log.Print(err)
		os.Exit(exitError)
	}

	status := solver.Solve()
	printStats(mapping, solver.Statistics())

	switch status {
	case sat.StatusSatisfiable:
		fmt.Println("s SATISFIABLE")
		printModel(mapping, solver.Model())
		os.Exit(exitSAT)
	case sat.StatusUnsatisfiable:
		fmt.Println("s UNSATISFIABLE")
		if err := writeProof(solver); err != nil {
			log.Print(err)
			os.Exit(exitError)
		}
		os.Exit(exitUNSAT)
	default:
		fmt.Println("s UNKNOWN")
		os.Exit(exitUnknown)
	}
}

func printModel(m *parsers.VarMapping, model []bool) {
	fmt.Print("v")
	for v, val := range model {
		lit := m.Original(v)
		if !val {
			lit = -lit
		}
		fmt.Printf(" %d", lit)
	}
	fmt.Println(" 0")
}

// printStats prints the "c ..." statistics lines. Peak RSS is approximated
// with runtime.MemStats.Sys (total memory obtained from the OS), avoiding a
// syscall.Getrusage dependency that would tie the binary to one platform.
func printStats(m *parsers.VarMapping, stats sat.Statistics) {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	fmt.Printf("c variables:          %d\n", m.NumVars())
	fmt.Printf("c time (sec):         %f\n", stats.Elapsed().Seconds())
	fmt.Printf("c peak RSS (MB):      %.2f\n", float64(mem.Sys)/(1<<20))
	fmt.Printf("c unit propagations:  %d\n", stats.UnitPropagations)
	fmt.Printf("c decisions:          %d\n", stats.Decisions)
	fmt.Printf("c conflicts:          %d\n", stats.Conflicts)
	fmt.Printf("c restarts:           %d\n", stats.Restarts)
	fmt.Printf("c learned clauses:    %d\n", stats.LearnedClauses)
	fmt.Printf("c deleted clauses:    %d\n", stats.DeletedClauses)
	fmt.Printf("c minimizations:      %d\n", stats.Minimizations)
	fmt.Printf("c max learned length: %d\n", stats.MaxLearnedClauseLen)
}

func writeProof(solver *sat.Solver) error {
	f, err := os.Create("unsat.drat")
	if err != nil {
		return fmt.Errorf("writing proof: %w", err)
	}
	defer f.Close()
	return solver.WriteProof(f)
}
