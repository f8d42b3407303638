// Package controller implements the goblin: a per-tick controller that
// harvests measurements from a set of registered settings, maintains
// rolling burden statistics for each, and drives a knapsack solver to
// pick the option for each setting that maximizes total value subject to
// a capacity — recalibrating itself online as it learns how much each
// option actually costs.
package controller

import (
	"math"

	"github.com/haskel/goblin/internal/burdenstat"
	"github.com/haskel/goblin/internal/economy"
	"github.com/haskel/goblin/internal/knapsack"
	"github.com/haskel/goblin/internal/profile"
	"github.com/haskel/goblin/internal/setting"
)

// Config holds the knobs that shape how aggressively the controller
// trusts fresh data over history and how hard it pushes to explore
// under-measured options.
type Config struct {
	// RecentAlpha ages each option's recent burden window every tick;
	// closer to 1 means a longer effective memory.
	RecentAlpha float64

	// AnomalyAlpha smooths the anomaly signal tick to tick.
	AnomalyAlpha float64

	// MeasureQuota is how many of our own samples an option needs before
	// its recent window is trusted on its own, without blending in a
	// past-run estimate.
	MeasureQuota int

	// ExploreValue is the value bonus added to every under-measured
	// option (combined past and current samples below MeasureQuota), to
	// give the solver a reason to pick it
	// occasionally instead of only ever picking well-known options.
	ExploreValue float64

	// PessimismSD is the sigma multiplier folded into a scalar economy's
	// burden estimate (mean + PessimismSD*stddev); normal economies fold
	// the same pessimism into the capacity's margin instead, so this is
	// ignored there.
	PessimismSD float64
}

// DefaultConfig mirrors the documented external defaults: recent/anomaly
// decay of roughly 1-1/30, a 30-sample measure quota, no exploration bonus,
// and a 3-sigma pessimism margin.
func DefaultConfig() Config {
	return Config{
		RecentAlpha:  1 - 1.0/30,
		AnomalyAlpha: 1 - 1.0/30,
		MeasureQuota: 30,
		ExploreValue: 0,
		PessimismSD:  3.0,
	}
}

// BurdenFromStat converts a raw (mean, variance) burden estimate into the
// controller's burden type. Scalar economies typically fold pessimism in
// here (mean + k*stddev); normal economies just carry the pair through.
type BurdenFromStat[B any] func(mean, variance float64) B

// Anomaly tracks how far current measured burden is running from what
// history says is typical, as a ratio (1.0 = typical, >1 = running hot).
type Anomaly struct {
	Latest float64
	Recent float64
}

type entry[B any] struct {
	setting  setting.Setting
	decision *knapsack.Decision[B]
}

// Controller is the goblin: it owns a live profile, an optional past-run
// profile fused in at a scale determined online, and drives one knapsack
// solve per tick across every registered setting. It is not safe for
// concurrent use; callers that need that (an HTTP status endpoint reading
// state while a scheduler goroutine ticks) must add their own locking
// around it, the same way the ambient layer does for everything else.
type Controller[B any, C any] struct {
	config Config

	alg      economy.Algebra[B, C]
	fromStat BurdenFromStat[B]
	solver   *knapsack.Solver[B, C]

	current *profile.Profile
	past    *profile.Profile

	entries []*entry[B]

	Anomaly Anomaly

	// ratio is the last computed past/present scale factor, or -1 if the
	// last tick had insufficient matching data to compute one. See
	// pastPresentRatio.
	ratio float64
}

// New creates a Controller instantiated over the given burden algebra.
func New[B any, C any](alg economy.Algebra[B, C], fromStat BurdenFromStat[B], config Config) *Controller[B, C] {
	return &Controller[B, C]{
		config:   config,
		alg:      alg,
		fromStat: fromStat,
		solver:   knapsack.NewSolver[B, C](alg),
		current:  profile.New(),
		Anomaly:  Anomaly{Latest: 1, Recent: 1},
		ratio:    -1,
	}
}

// Register adds s to the set of settings this controller drives. A
// setting already registered to a different controller panics; one
// already registered to this controller is a no-op.
func (c *Controller[B, C]) Register(s setting.Setting) {
	if !setting.Register(s, c) {
		return
	}
	c.entries = append(c.entries, &entry[B]{setting: s, decision: &knapsack.Decision[B]{}})
}

// Unregister removes s from this controller.
func (c *Controller[B, C]) Unregister(s setting.Setting) {
	setting.Unregister(s, c)
	for i, e := range c.entries {
		if e.setting == s {
			c.entries = append(c.entries[:i], c.entries[i+1:]...)
			return
		}
	}
}

// Profile exposes the live, in-memory profile being built up this run.
func (c *Controller[B, C]) Profile() *profile.Profile { return c.current }

// Settings returns every setting currently registered to this controller,
// for read-only inspection (an HTTP status endpoint, a TUI). The returned
// slice is a copy; mutating it does not affect the controller.
func (c *Controller[B, C]) Settings() []setting.Setting {
	out := make([]setting.Setting, len(c.entries))
	for i, e := range c.entries {
		out[i] = e.setting
	}
	return out
}

// SetPastProfile fuses in an optional profile recorded by a previous run
// (typically loaded from disk at startup). Its estimates are scaled by an
// online-computed ratio before being trusted, so a past run recorded on
// different hardware or under different load doesn't mislead this one.
func (c *Controller[B, C]) SetPastProfile(p *profile.Profile) { c.past = p }

// SolverStats reports the last Update's knapsack solve, for diagnostics.
func (c *Controller[B, C]) SolverStats() knapsack.ProblemStats[B] { return c.solver.Stats }

// Update runs one full tick: harvest pending measurements from every
// registered setting, then decide and apply a choice for each. It
// returns false if even the lightest possible assignment doesn't fit
// capacity — settings are still all given a (least-bad) choice in that
// case, there is simply no way to make everything fit.
func (c *Controller[B, C]) Update(capacity C, precision int) bool {
	c.harvest()
	return c.decide(capacity, precision)
}

// harvest drains every setting's pending measurements into the live
// profile and updates the anomaly signal from what came in. The
// past/present ratio is computed separately in decide, since it needs the
// full harvested state of every setting, not just the one being drained.
func (c *Controller[B, C]) harvest() {
	c.current.DecayRecent(c.config.RecentAlpha)

	var sumCurrent, sumTypical float64

	for _, e := range c.entries {
		optionCount := len(e.setting.Options())

		for {
			m := e.setting.Measurement()
			if !m.Valid() {
				break
			}

			burden := m.Burden
			if burden < 0 {
				burden = 0
			}

			var typical float64
			var hasTypical bool
			if task := c.current.Find(e.setting.ID()); task != nil && m.Choice < task.OptionCount() {
				full := task.Estimates[m.Choice].Full
				hasTypical = full.HasData()
				typical = full.Mean()
			}

			c.current.Collect(e.setting.ID(), optionCount, profile.Measurement{Choice: m.Choice, Burden: burden})

			if hasTypical {
				sumCurrent += burden
				sumTypical += typical
			}
		}
	}

	if sumTypical > 0 {
		latest := sumCurrent / sumTypical
		c.Anomaly.Latest = latest
		c.Anomaly.Recent = c.Anomaly.Recent*c.config.AnomalyAlpha + latest*(1-c.config.AnomalyAlpha)
	}
}

// pastPresentRatio computes a weighted geometric-style mean of
// cest.mean/pest.mean over every matching (setting, option) pair that has
// both a recent current-run estimate and a lifetime past-run one, weighted
// by sqrt(cest.count*pest.count*cest.mean*pest.mean). It returns -1 when
// there isn't enough overlapping data to trust a ratio at all — callers
// must treat -1 as "no past data available this tick", not as a literal
// scale factor.
func (c *Controller[B, C]) pastPresentRatio() float64 {
	if c.past == nil {
		return -1
	}

	var weightedSum, weightSum float64

	for _, e := range c.entries {
		curTask := c.current.Find(e.setting.ID())
		pastTask := c.past.Find(e.setting.ID())
		if curTask == nil || pastTask == nil {
			continue
		}

		n := curTask.OptionCount()
		if pastTask.OptionCount() < n {
			n = pastTask.OptionCount()
		}
		for i := 0; i < n; i++ {
			cest := curTask.Estimates[i].Recent
			pest := pastTask.Estimates[i].Full
			if !cest.HasData() || !pest.HasData() {
				continue
			}
			cMean, pMean := cest.Mean(), pest.Mean()
			if cMean <= 0 || pMean <= 0 {
				continue
			}

			weight := math.Sqrt(cest.Count() * pest.Count() * cMean * pMean)
			weightedSum += weight * (cMean / pMean)
			weightSum += weight
		}
	}

	if weightSum <= 0 {
		return -1
	}
	return weightedSum / weightSum
}

// hasAnyData reports whether we know anything at all about a setting,
// from this run or a fused-in past one.
func hasAnyData(task, pastTask *profile.Task) bool {
	return (task != nil && task.DataCount > 0) || (pastTask != nil && pastTask.DataCount > 0)
}

// decide estimates a burden and value for every option of every setting
// with some data, runs the solver over them, and applies the resulting
// choices. Settings with no data anywhere — not this run, not a fused
// past run — are skipped entirely and forced to their declared default,
// since there is nothing to estimate from and no reason to believe any
// other option is safe.
func (c *Controller[B, C]) decide(capacity C, precision int) bool {
	c.solver.Clear()

	ratio := c.pastPresentRatio()
	c.ratio = ratio
	ratioValid := ratio >= 0

	quota := c.config.MeasureQuota
	quotaF := float64(quota)
	if quotaF <= 0 {
		quotaF = 1
	}

	var active []*entry[B]

	for _, e := range c.entries {
		task := c.current.Find(e.setting.ID())
		var pastTask *profile.Task
		if c.past != nil && ratioValid {
			pastTask = c.past.Find(e.setting.ID())
		}

		if !hasAnyData(task, pastTask) {
			e.setting.ChoiceSet(e.setting.ChoiceDefault(), 0)
			continue
		}

		options := e.setting.Options()

		// A setting whose every option already meets quota needs no more
		// exploring: skip the blind guess and damping-factor machinery
		// entirely rather than compute values that would end up unused.
		meetsQuota := quota <= 0 || (task != nil && task.MeetsQuota(quota))

		var blindMean, blindVariance, mod float64
		mod = 1
		if !meetsQuota {
			blindMean, blindVariance = c.blindGuess(task, pastTask, ratio, len(options))
			mod = c.unexploredBurdenMod(task, pastTask, len(options), quotaF)
		}

		decisionOptions := make([]knapsack.Option[B], len(options))
		for i, opt := range options {
			mean, variance, belowQuota := c.estimateOption(task, pastTask, i, ratio, blindMean, blindVariance, quotaF)

			value := opt.Value
			if belowQuota {
				value += c.config.ExploreValue
				mean *= mod
				variance *= mod * mod
			}

			decisionOptions[i] = knapsack.Option[B]{
				Burden: c.fromStat(mean, variance),
				Value:  value,
			}
		}

		e.decision.Options = decisionOptions
		c.solver.AddDecision(e.decision)
		active = append(active, e)
	}

	if len(active) == 0 {
		return true
	}

	ok := c.solver.Decide(capacity, precision)
	for _, e := range active {
		e.setting.ChoiceSet(e.decision.Choice, 0)
	}
	return ok
}

// blindGuess is a setting's optimistic estimate for an option it has never
// measured at all: the lightest of every available estimate across that
// setting's own options, present estimates scaled by anomaly.Recent and
// past ones scaled by ratio. It gives an unexplored option the benefit of
// the doubt rather than assuming it's expensive.
func (c *Controller[B, C]) blindGuess(task, pastTask *profile.Task, ratio float64, optionCount int) (mean, variance float64) {
	best := math.Inf(1)

	for i := 0; i < optionCount; i++ {
		if task != nil && i < task.OptionCount() {
			r := task.Estimates[i].Recent
			if r.HasData() {
				if m := r.Mean() * c.Anomaly.Recent; m < best {
					best = m
					mean = m
					variance = r.Variance() * c.Anomaly.Recent * c.Anomaly.Recent
				}
			}
		}
		if pastTask != nil && i < pastTask.OptionCount() {
			p := pastTask.Estimates[i].Full
			if p.HasData() {
				if m := p.Mean() * ratio; m < best {
					best = m
					mean = m
					variance = p.Variance() * ratio * ratio
				}
			}
		}
	}

	return mean, variance
}

// unexploredBurdenMod is the per-setting damping factor applied to any
// option that is still below quota: data_missing / max(data_missing,
// data_total), where data_missing sums, over every option, how many more
// samples it would take to reach quota (never negative), and data_total
// sums the samples actually collected so far (current and past). The less
// a setting knows about itself overall, the more this reduces its
// estimated burdens, biasing the solver toward picking under-explored
// options so they get measured.
func (c *Controller[B, C]) unexploredBurdenMod(task, pastTask *profile.Task, optionCount int, quota float64) float64 {
	var missing, total float64

	for i := 0; i < optionCount; i++ {
		var currCount, prevCount float64
		if task != nil && i < task.OptionCount() && task.Estimates[i].Full.HasData() {
			currCount = task.Estimates[i].Full.Count()
		}
		if pastTask != nil && i < pastTask.OptionCount() && pastTask.Estimates[i].Full.HasData() {
			prevCount = pastTask.Estimates[i].Full.Count()
		}

		if need := quota - currCount - prevCount; need > 0 {
			missing += need
		}
		total += currCount + prevCount
	}

	denom := missing
	if total > denom {
		denom = total
	}
	if denom <= 0 {
		return 1
	}
	return missing / denom
}

// estimateOption picks the burden estimate for one option: its own recent
// data once quota is met, a blend of recent own data and a prior estimate
// while still below quota, or the prior estimate alone with no own data at
// all. The prior is the option's own scaled past-run estimate if one
// exists, falling back to the setting-wide blind guess otherwise.
// belowQuota reports whether this option's combined past+current sample
// count is still under quota, which decide uses to apply the exploration
// value bonus and burden damping.
func (c *Controller[B, C]) estimateOption(task, pastTask *profile.Task, i int, ratio, blindMean, blindVariance, quota float64) (mean, variance float64, belowQuota bool) {
	var currFull, currRecent burdenstat.Stat
	hasCurr := false
	if task != nil && i < task.OptionCount() {
		currFull = task.Estimates[i].Full
		currRecent = task.Estimates[i].Recent
		hasCurr = currFull.HasData()
	}

	var prevStat burdenstat.Stat
	hasPrev := false
	if pastTask != nil && i < pastTask.OptionCount() {
		prevStat = pastTask.Estimates[i].Full
		hasPrev = prevStat.HasData()
	}

	prior := func() (float64, float64) {
		if hasPrev {
			return prevStat.Mean() * ratio, prevStat.Variance() * ratio * ratio
		}
		return blindMean, blindVariance
	}

	var currCount, prevCount float64
	if hasCurr {
		currCount = currFull.Count()
	}
	if hasPrev {
		prevCount = prevStat.Count()
	}
	belowQuota = prevCount+currCount < quota

	switch {
	case hasCurr && currCount >= quota:
		mean, variance = currRecent.Mean(), currRecent.Variance()
	case hasCurr:
		mix := currCount / quota
		priorMean, priorVariance := prior()
		mean = currRecent.Mean()*c.Anomaly.Recent*mix + priorMean*(1-mix)
		variance = currRecent.Variance()*c.Anomaly.Recent*c.Anomaly.Recent*mix + priorVariance*(1-mix)
	default:
		mean, variance = prior()
	}

	return mean, variance, belowQuota
}

// ScalarBurdenFromStat builds a BurdenFromStat for economy.Scalar that
// folds pessimism directly into the point estimate, since a plain real
// burden has no separate margin concept the way NormalCapacity does.
func ScalarBurdenFromStat(pessimismSD float64) BurdenFromStat[float64] {
	return func(mean, variance float64) float64 {
		if variance <= 0 {
			return mean
		}
		return mean + pessimismSD*math.Sqrt(variance)
	}
}

// NormalBurdenFromStat builds a BurdenFromStat for economy.Normal, which
// carries the mean/variance pair through unchanged and leaves pessimism
// to the capacity's Sigmas margin.
func NormalBurdenFromStat() BurdenFromStat[economy.NormalBurden] {
	return func(mean, variance float64) economy.NormalBurden {
		return economy.NormalBurden{Mean: mean, Var: variance}
	}
}
