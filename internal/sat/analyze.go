package sat

// analyze implements 1-UIP conflict analysis: starting from the conflicting
// clause confl, it walks the trail backwards, resolving the "current
// reason" against the antecedent of each current-level literal it touches,
// until exactly one current-level literal remains unresolved (the 1-UIP).
// It returns the learned clause (asserting literal first) and the backjump
// level, and bumps the heuristic's activity for every literal visited along
// the way.
func (s *Solver) analyze(confl *Clause) (learned []Literal, backjumpLevel int) {
	t := s.trail
	curLevel := t.decisionLevel()

	s.seenVar.Clear()
	s.tmpLearnts = s.tmpLearnts[:0]
	s.tmpLearnts = append(s.tmpLearnts, 0) // placeholder for the UIP literal

	pending := 0 // number of not-yet-resolved literals at curLevel
	reasonBuf := s.tmpReason

	reason := confl.explainConflict(reasonBuf)
	idx := len(t.history()) - 1
	var uip Literal

	for {
		for _, q := range reason {
			v := q.VarID()
			if s.seenVar.Contains(v) {
				continue
			}
			s.seenVar.Add(v)
			s.heuristic.bumpVar(v)

			lvl := t.levelOf(v)
			if lvl == curLevel {
				pending++
				continue
			}
			s.tmpLearnts = append(s.tmpLearnts, q.Opposite())
			if lvl > backjumpLevel {
				backjumpLevel = lvl
			}
		}

		// Advance to the next seen literal on the trail.
		hist := t.history()
		var v int
		for {
			uip = hist[idx]
			idx--
			v = uip.VarID()
			if s.seenVar.Contains(v) {
				break
			}
		}

		pending--
		if pending <= 0 {
			break
		}
		if ante := t.antecedent(v); ante != nil {
			reason = ante.explainAssign(reasonBuf)
		} else {
			reason = reasonBuf[:0]
		}
	}

	s.tmpLearnts[0] = uip.Opposite()
	s.tmpReason = reasonBuf

	if s.options.Minimize {
		s.tmpLearnts = s.minimize(s.tmpLearnts)
	}

	s.heuristic.decay()

	learned = s.tmpLearnts
	if len(learned) > s.stats.MaxLearnedClauseLen {
		s.stats.MaxLearnedClauseLen = len(learned)
	}
	return learned, backjumpLevel
}

// minimize implements single-pass self-subsuming resolution: a non-UIP
// literal x is dropped from the learned clause if every literal in x's
// antecedent (other than x itself) is already negated in the learned
// clause. This runs exactly one pass over the clause rather than iterating
// to a fixpoint.
func (s *Solver) minimize(learned []Literal) []Literal {
	inClause := s.seenVar // reuse: already marks every var(learned[i])

	j := 1
	for i := 1; i < len(learned); i++ {
		if !s.isRedundant(learned[i], inClause) {
			learned[j] = learned[i]
			j++
		} else {
			s.stats.Minimizations++
		}
	}
	return learned[:j]
}

// isRedundant reports whether lit can be dropped from the clause being
// minimized: it has an antecedent, and every literal of that antecedent
// (besides lit itself) is already negated by some literal in the clause.
func (s *Solver) isRedundant(lit Literal, inClause *ResetSet) bool {
	v := lit.VarID()
	ante := s.trail.antecedent(v)
	if ante == nil {
		return false
	}
	for _, m := range ante.explainAssign(s.tmpReason) {
		if !inClause.Contains(m.VarID()) {
			return false
		}
	}
	s.tmpReason = s.tmpReason[:0]
	return true
}
