// Package knapsack implements a fully polynomial-time approximation scheme
// (FPTAS) for the multiple-choice knapsack problem: pick exactly one option
// per decision so that net value is maximized subject to net burden staying
// within a capacity. It is generic over the burden algebra (economy.Scalar
// or economy.Normal) so the same solver code serves both a plain-real
// burden and a probabilistic one.
package knapsack

import (
	"math"
	"sort"

	"github.com/haskel/goblin/internal/economy"
)

// noChoice marks a choice index or minimum entry as unset.
const noChoice = -1

// MinPrecision is the smallest score-space precision Decide will use,
// regardless of what's requested — too coarse a score space collapses
// distinct options onto the same score and degrades the approximation
// past usefulness.
const MinPrecision = 4

// Option is one alternative for a Decision: a burden it would cost and a
// value it would deliver if chosen.
type Option[B any] struct {
	Burden B
	Value  float64
}

// Decision is a caller-owned set of mutually exclusive options. Decide
// updates Choice (and, as a side effect of preparation, ChoiceEasy and
// ChoiceHigh) in place; Options itself is never reordered or mutated.
type Decision[B any] struct {
	Options []Option[B]

	// Choice is the option index Decide settled on. Valid after Decide
	// returns, whether or not it returned true.
	Choice int

	// ChoiceEasy is the minimum-burden option, computed by Decide during
	// preparation. Used as the fallback when even the lightest complete
	// assignment doesn't fit the capacity.
	ChoiceEasy int

	// ChoiceHigh is the maximum-value option among options.Options that
	// are possible, or ChoiceEasy if none are possible.
	ChoiceHigh int
}

// Chosen returns the option Decide settled on.
func (d *Decision[B]) Chosen() Option[B] { return d.Options[d.Choice] }

// OptionEasy returns the minimum-burden option.
func (d *Decision[B]) OptionEasy() Option[B] { return d.Options[d.ChoiceEasy] }

// OptionHigh returns the option ChoiceHigh points at.
func (d *Decision[B]) OptionHigh() Option[B] { return d.Options[d.ChoiceHigh] }

// Stats summarizes an assignment of choices across every decision: the
// burden and value it nets out to, and its quantized score.
type Stats[B any] struct {
	NetBurden B
	NetValue  float64
	NetScore  int64
}

// ProblemStats is what a solved (or attempted) problem reports about
// itself: the actual chosen assignment plus the two shortcut assignments
// (lightest-possible, highest-value-possible) it checked along the way.
type ProblemStats[B any] struct {
	Chosen, Highest, Lightest Stats[B]

	// ValueToScoreScale is the value→score quantization factor computed
	// during preparation, exposed for diagnostics.
	ValueToScoreScale float64

	// Iterations counts the (option, previous-frontier-entry) pairs
	// considered by the main dynamic-programming pass; 0 if a shortcut
	// resolved the problem without running it.
	Iterations int
}

// minimum is one entry of a per-score frontier: the lowest burden known to
// reach a given net score, and the option index that achieved it.
type minimum[B any] struct {
	netScore  int64
	netBurden B
	choice    int
}

func (m minimum[B]) valid() bool { return m.choice != noChoice }

// decisionState is the solver's working wrapper around a caller's
// *Decision: quantized scores live here, not on the Option itself, since
// they are recomputed by every Decide call and depend on the whole
// problem's value range.
type decisionState[B any] struct {
	decision *Decision[B]
	scores   []int64
}

// Solver holds a set of decisions and the buffers used to solve them.
// Buffers are reused across calls to Decide to keep repeated solves
// (one per controller tick) allocation-light. A Solver is not safe for
// concurrent use.
type Solver[B any, C any] struct {
	alg    economy.Algebra[B, C]
	states []*decisionState[B]

	Stats ProblemStats[B]

	store  []minimum[B]
	rowEnd []int

	previous []minimum[B]
	current  []minimum[B]
}

// NewSolver creates a Solver instantiated over the given burden algebra.
func NewSolver[B any, C any](alg economy.Algebra[B, C]) *Solver[B, C] {
	return &Solver[B, C]{alg: alg}
}

// Clear removes all decisions and resets Stats, retaining buffer capacity.
func (s *Solver[B, C]) Clear() {
	s.states = s.states[:0]
	s.store = s.store[:0]
	s.rowEnd = s.rowEnd[:0]
	s.Stats = ProblemStats[B]{}
}

// AddDecision registers a decision to be solved by the next call to
// Decide. d must have at least one option; an empty option list is a
// contract violation and panics.
func (s *Solver[B, C]) AddDecision(d *Decision[B]) {
	if len(d.Options) == 0 {
		panic("knapsack: decision has no options")
	}
	s.states = append(s.states, &decisionState[B]{decision: d})
}

// Decide chooses one option per registered decision so that net value is
// approximately maximized subject to fitting within capacity, to within a
// factor governed by precision (quantization steps in the value→score
// mapping; higher is more accurate and slower). It returns false if even
// the lightest possible assignment doesn't fit capacity, in which case
// every decision is set to its lightest option anyway — there is no
// better answer to give. It returns true otherwise, including when the
// highest-value assignment happens to fit outright.
func (s *Solver[B, C]) Decide(capacity C, precision int) bool {
	if precision < MinPrecision {
		precision = MinPrecision
	}
	s.Stats.Iterations = 0
	s.prepare(precision)

	if !s.alg.Acceptable(s.Stats.Lightest.NetBurden, capacity) {
		for _, st := range s.states {
			st.decision.Choice = st.decision.ChoiceEasy
		}
		s.Stats.Chosen = s.Stats.Lightest
		return false
	}

	if s.alg.Acceptable(s.Stats.Highest.NetBurden, capacity) {
		for _, st := range s.states {
			st.decision.Choice = st.decision.ChoiceHigh
		}
		s.Stats.Chosen = s.Stats.Highest
		return true
	}

	sort.Slice(s.states, func(i, j int) bool {
		li := s.states[i]
		lj := s.states[j]
		return li.scores[li.decision.ChoiceHigh] < lj.scores[lj.decision.ChoiceHigh]
	})

	s.computeMinimums(capacity)
	s.reconstruct(capacity)
	return true
}

// prepare computes, for every decision, the lightest option (ChoiceEasy),
// the highest-value possible option (ChoiceHigh), and a per-option
// quantized score. Scores are shared across all decisions via a single
// value→score scale derived from the widest per-decision value range, so
// that scores from different decisions can be summed meaningfully.
func (s *Solver[B, C]) prepare(precision int) {
	s.Stats.Lightest = Stats[B]{NetBurden: s.alg.Zero()}
	s.Stats.Highest = Stats[B]{NetBurden: s.alg.Zero()}

	var maxValueRange float64

	for _, st := range s.states {
		d := st.decision
		d.ChoiceEasy = 0
		lightBurden := d.Options[0].Burden
		lightValue := d.Options[0].Value

		for i := 1; i < len(d.Options); i++ {
			opt := d.Options[i]
			if s.alg.Lesser(opt.Burden, lightBurden) {
				lightBurden = opt.Burden
				lightValue = opt.Value
				d.ChoiceEasy = i
			}
		}

		d.ChoiceHigh = d.ChoiceEasy
		highValue := lightValue
		foundPossible := false
		for i, opt := range d.Options {
			if !s.alg.IsPossible(opt.Burden) {
				continue
			}
			if !foundPossible || opt.Value > highValue {
				highValue = opt.Value
				d.ChoiceHigh = i
				foundPossible = true
			}
		}

		s.Stats.Lightest.NetBurden = s.alg.Add(s.Stats.Lightest.NetBurden, lightBurden)
		s.Stats.Lightest.NetValue += lightValue

		if r := highValue - lightValue; r > maxValueRange {
			maxValueRange = r
		}
	}

	if maxValueRange <= 0 {
		maxValueRange = 1
	}
	scale := float64(precision) / maxValueRange
	s.Stats.ValueToScoreScale = scale

	for _, st := range s.states {
		d := st.decision
		valueMin := d.Options[d.ChoiceEasy].Value

		if cap(st.scores) < len(d.Options) {
			st.scores = make([]int64, len(d.Options))
		} else {
			st.scores = st.scores[:len(d.Options)]
		}
		for i, opt := range d.Options {
			st.scores[i] = int64(math.Ceil((opt.Value - valueMin) * scale))
		}

		high := d.Options[d.ChoiceHigh]
		s.Stats.Highest.NetBurden = s.alg.Add(s.Stats.Highest.NetBurden, high.Burden)
		s.Stats.Highest.NetValue += high.Value
		s.Stats.Highest.NetScore += st.scores[d.ChoiceHigh]
	}
}

// computeMinimums runs the main dynamic-programming pass, building one
// dense per-score frontier row per decision (in the post-sort order) and
// spilling valid entries into s.store, delimited by s.rowEnd.
func (s *Solver[B, C]) computeMinimums(capacity C) {
	s.store = s.store[:0]
	s.rowEnd = s.rowEnd[:0]
	s.previous = s.previous[:0]
	s.current = s.current[:0]

	consider := func(candidate minimum[B]) {
		if !s.alg.Acceptable(candidate.netBurden, capacity) {
			return
		}
		idx := int(candidate.netScore)
		for idx >= len(s.current) {
			s.current = append(s.current, minimum[B]{choice: noChoice})
		}
		if !s.current[idx].valid() || s.alg.Lesser(candidate.netBurden, s.current[idx].netBurden) {
			s.current[idx] = candidate
		}
	}

	for i, st := range s.states {
		d := st.decision
		for choiceIdx, opt := range d.Options {
			score := st.scores[choiceIdx]
			if score < 0 || !s.alg.IsPossible(opt.Burden) {
				continue
			}

			if i == 0 {
				consider(minimum[B]{netScore: score, netBurden: opt.Burden, choice: choiceIdx})
				s.Stats.Iterations++
				continue
			}
			for _, base := range s.previous {
				consider(minimum[B]{
					netScore:  base.netScore + score,
					netBurden: s.alg.Add(base.netBurden, opt.Burden),
					choice:    choiceIdx,
				})
				s.Stats.Iterations++
			}
		}

		s.previous = s.previous[:0]
		for _, m := range s.current {
			if m.valid() {
				s.previous = append(s.previous, m)
				s.store = append(s.store, m)
			}
		}
		s.rowEnd = append(s.rowEnd, len(s.store))
		s.current = s.current[:0]
	}
}

// row returns the slice of s.store belonging to decision index i. Rows are
// sorted by ascending net score, since s.current is spilled in score order.
func (s *Solver[B, C]) row(i int) []minimum[B] {
	begin := 0
	if i > 0 {
		begin = s.rowEnd[i-1]
	}
	return s.store[begin:s.rowEnd[i]]
}

// queryRow finds the frontier entry in row i with exactly the given net
// score, or an invalid minimum if none matches.
func (s *Solver[B, C]) queryRow(i int, score int64) minimum[B] {
	row := s.row(i)
	lo, hi := 0, len(row)
	for lo < hi {
		mid := (lo + hi) / 2
		if row[mid].netScore < score {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	if lo < len(row) && row[lo].netScore == score {
		return row[lo]
	}
	return minimum[B]{choice: noChoice}
}

// decideLastRow scans the final decision's frontier from the highest score
// down, returning the first entry whose burden fits capacity. Because the
// entries were only ever admitted into the frontier if they were already
// acceptable, this is really just "pick the highest-scoring entry" — the
// backward scan is a defensive, cheap way to skip anything that slipped
// through with a since-invalidated burden.
func (s *Solver[B, C]) decideLastRow(capacity C) minimum[B] {
	row := s.row(len(s.states) - 1)
	for i := len(row) - 1; i >= 0; i-- {
		if s.alg.Acceptable(row[i].netBurden, capacity) {
			return row[i]
		}
	}
	return minimum[B]{choice: noChoice}
}

// reconstruct walks the frontier backward from the last decision to the
// first, recovering the choice that produced each row's winning entry.
func (s *Solver[B, C]) reconstruct(capacity C) {
	best := s.decideLastRow(capacity)
	if !best.valid() {
		// The main pass found nothing acceptable even though the highest
		// shortcut failed and the lightest shortcut succeeded — this can't
		// happen with a correctly built frontier.
		panic("knapsack: no acceptable assignment found in a nonempty frontier")
	}

	s.Stats.Chosen = Stats[B]{NetBurden: s.alg.Zero()}
	current := best
	for i := len(s.states) - 1; i >= 0; i-- {
		st := s.states[i]
		st.decision.Choice = current.choice
		opt := st.decision.Chosen()

		s.Stats.Chosen.NetBurden = s.alg.Add(s.Stats.Chosen.NetBurden, opt.Burden)
		s.Stats.Chosen.NetValue += opt.Value
		s.Stats.Chosen.NetScore += st.scores[current.choice]

		if i == 0 {
			break
		}
		nextScore := current.netScore - st.scores[current.choice]
		current = s.queryRow(i-1, nextScore)
		if !current.valid() {
			panic("knapsack: broken frontier chain during reconstruction")
		}
	}
}
