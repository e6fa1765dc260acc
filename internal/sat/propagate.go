package sat

// watcher is an entry in a literal's watch list: a clause to revisit once
// that literal is asserted true (which falsifies the clause's occurrence of
// its negation), plus a guard literal (the clause's other watch) that lets
// propagate skip loading the clause entirely when the guard is already true.
type watcher struct {
	clause *Clause
	guard  Literal
}

// watch registers c to be revisited once wake is assigned true.
func (s *Solver) watch(c *Clause, wake Literal, guard Literal) {
	s.watchers[wake] = append(s.watchers[wake], watcher{clause: c, guard: guard})
}

func (s *Solver) unwatch(c *Clause, wake Literal) {
	ws := s.watchers[wake]
	j := 0
	for i := range ws {
		if ws[i].clause != c {
			ws[j] = ws[i]
			j++
		}
	}
	s.watchers[wake] = ws[:j]
}

// enqueue asserts l with the given antecedent (nil for a decision). It
// returns false if l's variable is already assigned to the opposite value
// (a conflict), true otherwise — including when l was already assigned to
// the same value, which is not itself a conflict.
func (s *Solver) enqueue(l Literal, antecedent *Clause) bool {
	switch s.trail.value(l) {
	case False:
		return false
	case True:
		return true
	default:
		s.trail.assign(l, antecedent)
		s.heuristic.recordPhase(l)
		s.propQueue.Push(l)
		if antecedent != nil {
			s.stats.UnitPropagations++
		}
		return true
	}
}

// propagate runs unit propagation to fixpoint: it always drains its queue
// completely before returning, rather than stopping after the first forced
// literal. It returns the conflicting clause, or nil at quiescence.
//
// This is the two-watched-literal algorithm: when literal l becomes true,
// every clause watching ¬l is revisited; each either keeps its watch
// (already satisfied via its guard or other watched literal), finds a new
// literal to watch, forces a unit assignment, or is found falsified (a
// conflict, which empties the queue and returns immediately).
func (s *Solver) propagate() *Clause {
	for s.propQueue.Size() > 0 {
		l := s.propQueue.Pop()

		ws := s.tmpWatchers[:0]
		ws = append(ws, s.watchers[l]...)
		s.watchers[l] = s.watchers[l][:0]

		for i, w := range ws {
			if s.trail.value(w.guard) == True {
				s.watchers[l] = append(s.watchers[l], w)
				continue
			}
			if w.clause.propagate(s, l) {
				continue
			}

			// Conflict: restore the untouched remainder of this watch list
			// and drop every other pending propagation.
			s.watchers[l] = append(s.watchers[l], ws[i+1:]...)
			s.propQueue.Clear()
			s.tmpWatchers = ws
			return w.clause
		}
		s.tmpWatchers = ws
	}
	return nil
}
