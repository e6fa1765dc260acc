package sat

import (
	"io"
	"time"
)

// lubyScale is the multiplier u applied to the Luby sequence term when
// deciding whether a restart is due: restart once conflictsSinceRestart
// exceeds u * L(restartCount+1).
const lubyScale = 100

// Options configures a Solver's behavior. With every toggle false, Solve
// degenerates to chronological backtracking with uniformly random decisions
// and no learned clauses at all.
type Options struct {
	VSIDS    bool
	Restarts bool
	Learn    bool
	Delete   bool
	Minimize bool

	Seed int64 // PRNG seed for the random heuristic, so runs are reproducible

	MaxConflicts int64         // <= 0 means unlimited
	Timeout      time.Duration // <= 0 means unlimited
}

// Status is a solve's terminal (or host-imposed) outcome.
type Status int

const (
	StatusUnknown Status = iota
	StatusSatisfiable
	StatusUnsatisfiable
)

func (st Status) String() string {
	switch st {
	case StatusSatisfiable:
		return "SATISFIABLE"
	case StatusUnsatisfiable:
		return "UNSATISFIABLE"
	default:
		return "UNKNOWN"
	}
}

// Solver drives the search loop and exclusively owns every piece of search
// state: the trail, variable records, clause store, watch lists, and
// activity scores all live on this instance, never behind package-level
// variables.
type Solver struct {
	options Options

	trail     *trail
	heuristic heuristic

	watchers    [][]watcher
	tmpWatchers []watcher
	propQueue   *Queue[Literal]

	constraints []*Clause // original clauses, indices [0, m0)
	learnts     []*Clause // learned clauses, indices [m0, ...)

	numVars   int
	rootUnsat bool

	restart  *restartPolicy
	deletion *deletionPolicy

	proof *proofLogger
	stats Statistics

	// Scratch buffers reused across analyze()/minimize()/lbdOf() calls to
	// avoid per-conflict allocation.
	seenVar    *ResetSet
	seenLevel  []bool
	tmpLearnts []Literal
	tmpReason  []Literal
}

// NewSolver returns an empty Solver configured per options. Variables are
// added one at a time with AddVariable.
func NewSolver(options Options) *Solver {
	var h heuristic
	if options.VSIDS {
		h = newVSIDSHeuristic()
	} else {
		h = newRandomHeuristic(options.Seed)
	}
	return &Solver{
		options:   options,
		trail:     newTrail(),
		heuristic: h,
		propQueue: NewQueue[Literal](64),
		restart:   newRestartPolicy(lubyScale),
		deletion:  newDeletionPolicy(),
		proof:     newProofLogger(),
		seenVar:   &ResetSet{},
		seenLevel: []bool{false},
	}
}

// AddVariable registers a new variable and returns its internal id (0-based;
// callers that need a different external numbering scheme translate at
// their own boundary).
func (s *Solver) AddVariable() int {
	v := s.numVars
	s.numVars++
	s.trail.growTo(s.numVars)
	s.watchers = append(s.watchers, nil, nil)
	s.heuristic.addVar()
	s.seenVar.Expand()
	s.seenLevel = append(s.seenLevel, false)
	return v
}

// NumVars returns the number of variables registered so far.
func (s *Solver) NumVars() int { return s.numVars }

// AddClause adds an original (non-learnt) clause. literals is copied; the
// caller may reuse its backing array. A clause that reduces
// to the empty clause, or whose forced unit assignment conflicts with an
// earlier one, marks the formula unsatisfiable at the root: Solve will
// report UNSAT without searching.
func (s *Solver) AddClause(literals []Literal) {
	if s.rootUnsat {
		return
	}
	tmp := append([]Literal(nil), literals...)
	c, ok := NewClause(s, tmp, false)
	if !ok {
		s.rootUnsat = true
		return
	}
	if c != nil {
		s.constraints = append(s.constraints, c)
	}
}

// Model returns the satisfying assignment as a boolean per variable id,
// valid only after Solve returned StatusSatisfiable.
func (s *Solver) Model() []bool {
	model := make([]bool, s.numVars)
	for v := 0; v < s.numVars; v++ {
		model[v] = s.trail.value(PositiveLiteral(v)) == True
	}
	return model
}

// Statistics returns a snapshot of this solver's own run counters.
func (s *Solver) Statistics() Statistics { return s.stats }

// WriteProof writes the DRAT proof log to w; valid only after Solve
// returned StatusUnsatisfiable.
func (s *Solver) WriteProof(w io.Writer) error {
	return s.proof.writeUnsat(w)
}

func (s *Solver) shouldStop() bool {
	if s.options.MaxConflicts > 0 && s.stats.Conflicts >= s.options.MaxConflicts {
		return true
	}
	if s.options.Timeout > 0 && time.Since(s.stats.StartTime) > s.options.Timeout {
		return true
	}
	return false
}

// Solve runs the core search loop: propagate to quiescence, on conflict
// analyze and backjump (or backtrack one level, chronologically, if
// learning is disabled), otherwise check for a restart and make a decision.
// It returns once the formula is decided or a configured budget is hit.
func (s *Solver) Solve() Status {
	s.stats.StartTime = time.Now()
	defer func() { s.stats.EndTime = time.Now() }()

	if s.rootUnsat {
		return StatusUnsatisfiable
	}

	for {
		if s.shouldStop() {
			return StatusUnknown
		}

		if confl := s.propagate(); confl != nil {
			s.stats.Conflicts++
			if s.options.Restarts {
				s.restart.recordConflict()
			}
			if s.trail.decisionLevel() == 0 {
				return StatusUnsatisfiable
			}
			s.resolveConflict(confl)
			continue
		}

		if s.trail.numAssigned() == s.numVars {
			return StatusSatisfiable
		}

		if s.options.Restarts && s.restart.due() {
			s.trail.unassignBackTo(0, s.onUnassign)
			s.restart.reset()
			s.stats.Restarts++
			if s.options.Delete {
				s.deletion.sweep(s)
			}
		}

		s.decide()
	}
}

// onUnassign is passed to trail.unassignBackTo: every popped literal's
// variable becomes a candidate again for the decision heuristic.
func (s *Solver) onUnassign(l Literal) {
	s.heuristic.reinsert(l.VarID())
}

func (s *Solver) decide() {
	s.trail.pushDecisionLevel()
	lit := s.heuristic.decide(s.trail)
	s.stats.Decisions++
	s.enqueue(lit, nil)
}

// resolveConflict responds to a conflicting clause. When clause learning is
// enabled it runs the full 1-UIP analyzer and stores the learned clause;
// otherwise it degenerates to negating the current decision literal and
// backtracking one level.
func (s *Solver) resolveConflict(confl *Clause) {
	if s.options.Learn {
		learned, level := s.analyze(confl)
		s.learnAndAssert(learned, level)
		return
	}

	level := s.trail.decisionLevel()
	flipped := s.trail.decisionLiteral(level).Opposite()
	s.trail.unassignBackTo(level-1, s.onUnassign)
	if !s.enqueue(flipped, nil) {
		panic("sat: chronological backtracking re-asserted a conflicting literal")
	}
}

// learnAndAssert unassigns back to level, then adds learned as a new
// clause, records it in the proof log and statistics, and asserts its
// watched literal. A unit learned clause is asserted directly by NewClause
// without being stored as a *Clause, but it is still a learned clause: it
// is counted and proof-logged the same as any other.
func (s *Solver) learnAndAssert(learned []Literal, level int) {
	s.trail.unassignBackTo(level, s.onUnassign)

	s.stats.LearnedClauses++
	s.proof.record(learned)

	c, ok := NewClause(s, learned, true)
	if !ok {
		panic("sat: learned clause construction conflicted at its own backjump level")
	}
	if c == nil {
		return // unit clause: NewClause already asserted it directly
	}

	s.learnts = append(s.learnts, c)
	if !s.enqueue(c.literals[0], c) {
		panic("sat: learned clause's asserting literal conflicted immediately")
	}
}
