package sat

import "time"

// Statistics is owned by a single Solver instance, never package-level
// state, so that concurrent solves never share or clobber each other's
// counters. It is populated as search proceeds and read by the CLI for the
// final "c ..." report lines.
type Statistics struct {
	UnitPropagations    int64
	Decisions           int64
	Conflicts           int64
	Restarts            int64
	LearnedClauses      int64
	DeletedClauses      int64
	Minimizations       int64
	MaxLearnedClauseLen int

	StartTime time.Time
	EndTime   time.Time
}

// Elapsed returns the wall-clock duration of the search, valid once EndTime
// has been set by Solver.Solve.
func (s *Statistics) Elapsed() time.Duration {
	return s.EndTime.Sub(s.StartTime)
}
