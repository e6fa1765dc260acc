package sat

import (
	"math/rand"

	"github.com/rhartert/yagh"
)

// heuristic picks the next decision literal. Callers must check that some
// variable is still unassigned before calling decide; it panics if every
// variable already has a value.
type heuristic interface {
	addVar()
	// bumpVar bumps variable v's activity by the current bump amount. A
	// no-op for heuristics without activity.
	bumpVar(v int)
	// decay grows the bump amount applied on the next conflict. Called
	// once per analyzed conflict, after that conflict's bumpVar calls;
	// with clause learning off, conflicts are not analyzed and decay is
	// not called.
	decay()
	decide(t *trail) Literal
	// reinsert makes v a candidate again after it was unassigned by a
	// backjump or restart.
	reinsert(v int)
	// recordPhase remembers the polarity l was last assigned with, so a
	// future decision on var(l) can default to it. A no-op for heuristics
	// that don't do phase saving.
	recordPhase(l Literal)
}

// vsidsHeuristic picks the unassigned variable of maximum activity, with
// polarity defaulting to the last assigned one (positive on first visit).
//
// The priority queue is github.com/rhartert/yagh; activity scores grow by
// an additive bump that itself grows multiplicatively after each conflict,
// and are periodically rescaled to keep the running bump amount bounded.
type vsidsHeuristic struct {
	queue *yagh.IntMap[float64]

	activity []float64
	bump     float64 // b, grows by *c after every conflict
	growth   float64 // c

	phase []LBool // last assigned polarity per variable
}

const (
	vsidsInitialBump     = 2.0
	vsidsGrowth          = 1.05
	vsidsRescaleThresold = 1e30
)

func newVSIDSHeuristic() *vsidsHeuristic {
	return &vsidsHeuristic{
		queue:  yagh.New[float64](0),
		bump:   vsidsInitialBump,
		growth: vsidsGrowth,
	}
}

func (h *vsidsHeuristic) addVar() {
	v := len(h.activity)
	h.activity = append(h.activity, 0)
	h.phase = append(h.phase, Unknown)
	h.queue.GrowBy(1)
	h.queue.Put(v, 0)
}

func (h *vsidsHeuristic) bumpVar(v int) {
	newScore := h.activity[v] + h.bump
	h.activity[v] = newScore
	if h.queue.Contains(v) {
		h.queue.Put(v, -newScore)
	}
	if newScore > vsidsRescaleThresold {
		h.rescale()
	}
}

// decay grows the bump amount by the growth factor, applied after every
// conflict so that more recently bumped variables dominate.
func (h *vsidsHeuristic) decay() {
	h.bump *= h.growth
}

// rescale divides every activity (and the bump amount) by the bump amount,
// then resets the bump amount to 1, keeping every score's relative order
// while preventing unbounded float growth.
func (h *vsidsHeuristic) rescale() {
	scale := 1.0 / h.bump
	for v, a := range h.activity {
		h.activity[v] = a * scale
		if h.queue.Contains(v) {
			h.queue.Put(v, -h.activity[v])
		}
	}
	h.bump = 1
}

func (h *vsidsHeuristic) decide(t *trail) Literal {
	for {
		v, ok := h.queue.Pop()
		if !ok {
			panic("sat: vsidsHeuristic.decide called with no unassigned variable left")
		}
		if t.isAssigned(v.Elem) {
			continue
		}
		switch h.phase[v.Elem] {
		case False:
			return NegativeLiteral(v.Elem)
		default:
			return PositiveLiteral(v.Elem)
		}
	}
}

func (h *vsidsHeuristic) reinsert(v int) {
	h.queue.Put(v, -h.activity[v])
}

func (h *vsidsHeuristic) recordPhase(l Literal) {
	h.phase[l.VarID()] = Lift(l.IsPositive())
}

// randomHeuristic picks a uniformly random unassigned variable and a
// uniformly random polarity, drawn from a seedable source so that a run is
// reproducible given its seed.
type randomHeuristic struct {
	rng     *rand.Rand
	nextVar []int // candidate variable ids, reused across decide() calls
	numVars int
}

func newRandomHeuristic(seed int64) *randomHeuristic {
	return &randomHeuristic{rng: rand.New(rand.NewSource(seed))}
}

func (h *randomHeuristic) addVar() {
	h.nextVar = append(h.nextVar, h.numVars)
	h.numVars++
}

func (h *randomHeuristic) bumpVar(v int) {}

func (h *randomHeuristic) decay() {}

func (h *randomHeuristic) reinsert(v int) {}

func (h *randomHeuristic) recordPhase(l Literal) {}

func (h *randomHeuristic) decide(t *trail) Literal {
	candidates := h.nextVar[:0]
	for v := 0; v < h.numVars; v++ {
		if !t.isAssigned(v) {
			candidates = append(candidates, v)
		}
	}
	h.nextVar = candidates
	if len(candidates) == 0 {
		panic("sat: randomHeuristic.decide called with no unassigned variable left")
	}
	v := candidates[h.rng.Intn(len(candidates))]
	if h.rng.Intn(2) == 0 {
		return NegativeLiteral(v)
	}
	return PositiveLiteral(v)
}
