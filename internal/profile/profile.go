// Package profile tracks, per task and per option, how much burden was
// actually observed each time that option was chosen. It is the goblin
// controller's memory: a lifetime ("full") view for slow-moving estimates
// and a decayed ("recent") view that reacts to the last few frames.
package profile

import "github.com/haskel/goblin/internal/burdenstat"

// Measurement is one frame's observed outcome for a task: which option was
// in effect and the burden it actually cost. A Measurement with Choice < 0
// is invalid and signals "nothing to report this frame"; the zero value
// (Choice 0) is valid.
type Measurement struct {
	Choice int
	Burden float64
}

// Valid reports whether m carries a real observation.
func (m Measurement) Valid() bool { return m.Choice >= 0 }

// Estimate pairs the lifetime and recently-decayed views of one option's
// burden.
type Estimate struct {
	Full   burdenstat.Stat
	Recent burdenstat.Stat
}

// Task is the per-task profile entry: one Estimate per option, plus
// bookkeeping about how much has been observed overall.
type Task struct {
	Estimates []Estimate

	// DataCount is the number of measurements ever collected for this
	// task, across all of its options.
	DataCount int

	// FullyExplored is set once every option has received at least one
	// measurement.
	FullyExplored bool
}

func newTask(optionCount int) *Task {
	return &Task{Estimates: make([]Estimate, optionCount)}
}

// OptionCount returns how many options this task's estimates cover.
func (t *Task) OptionCount() int { return len(t.Estimates) }

// MeetsQuota reports whether every option of this task has accumulated at
// least q lifetime measurements. The goblin controller uses this to decide
// whether a setting still needs exploration incentives at all, or whether
// every option is already well enough known.
func (t *Task) MeetsQuota(q int) bool {
	quota := float64(q)
	for i := range t.Estimates {
		if t.Estimates[i].Full.Count() < quota {
			return false
		}
	}
	return true
}

// collect folds a measurement into both the full and recent accumulators
// for the chosen option, and updates FullyExplored.
func (t *Task) collect(m Measurement) {
	e := &t.Estimates[m.Choice]
	e.Full.Push(m.Burden)
	e.Recent.Push(m.Burden)
	t.DataCount++

	if !t.FullyExplored {
		explored := true
		for i := range t.Estimates {
			if !t.Estimates[i].Full.HasData() {
				explored = false
				break
			}
		}
		t.FullyExplored = explored
	}
}

// decayRecent ages every option's recent accumulator by alpha, without
// adding a new sample. Called once per tick for every known task so that
// options that weren't measured this frame still lose relevance over
// time relative to ones that were.
func (t *Task) decayRecent(alpha float64) {
	for i := range t.Estimates {
		t.Estimates[i].Recent.Decay(alpha)
	}
}

// clone deep-copies a task (Estimates is a slice and must not be shared).
func (t *Task) clone() *Task {
	c := &Task{
		Estimates:     make([]Estimate, len(t.Estimates)),
		DataCount:     t.DataCount,
		FullyExplored: t.FullyExplored,
	}
	copy(c.Estimates, t.Estimates)
	return c
}

// Profile is a lazily-populated map from task ID to Task.
type Profile struct {
	tasks map[string]*Task
}

// New returns an empty profile.
func New() *Profile {
	return &Profile{tasks: make(map[string]*Task)}
}

// Find returns the task for id, or nil if it has never been seen.
func (p *Profile) Find(id string) *Task {
	return p.tasks[id]
}

// MeetsQuota reports whether the task with the given id meets q, per
// Task.MeetsQuota. A task that has never been seen meets only the trivial
// quota q <= 0.
func (p *Profile) MeetsQuota(id string, q int) bool {
	task := p.tasks[id]
	if task == nil {
		return q <= 0
	}
	return task.MeetsQuota(q)
}

// Tasks exposes the underlying id→Task map for iteration. Callers must
// not mutate the returned map or its Task values directly; use Collect.
func (p *Profile) Tasks() map[string]*Task {
	return p.tasks
}

// Collect records a measurement for id, creating the task (sized to
// optionCount) on first use. optionCount must match across calls for the
// same id; a mismatch is a contract violation.
func (p *Profile) Collect(id string, optionCount int, m Measurement) {
	if !m.Valid() {
		return
	}
	task, ok := p.tasks[id]
	if !ok {
		task = newTask(optionCount)
		p.tasks[id] = task
	} else if task.OptionCount() != optionCount {
		panic("profile: option count mismatch for task " + id)
	}
	if m.Choice < 0 || m.Choice >= optionCount {
		panic("profile: measurement choice out of range for task " + id)
	}
	task.collect(m)
}

// DecayRecent ages the recent accumulator of every known task's every
// option by alpha. Called once per controller tick, before harvesting new
// measurements.
func (p *Profile) DecayRecent(alpha float64) {
	for _, task := range p.tasks {
		task.decayRecent(alpha)
	}
}

// SetTaskFull overwrites (or creates) a task's lifetime accumulators
// directly from previously computed stats, without replaying individual
// samples. This is how profileio reconstructs a profile from disk: the
// persisted form only ever stores the lifetime moments, not the samples
// that produced them.
func (p *Profile) SetTaskFull(id string, stats []burdenstat.Stat) {
	task, ok := p.tasks[id]
	if !ok || task.OptionCount() != len(stats) {
		task = newTask(len(stats))
		p.tasks[id] = task
	}

	dataCount := 0
	explored := true
	for i, s := range stats {
		task.Estimates[i].Full = s
		dataCount += int(s.Count())
		if !s.HasData() {
			explored = false
		}
	}
	task.DataCount = dataCount
	task.FullyExplored = explored
}

// Clear removes every task, keeping the underlying map allocation.
func (p *Profile) Clear() {
	for id := range p.tasks {
		delete(p.tasks, id)
	}
}

// Clone deep-copies the whole profile.
func (p *Profile) Clone() *Profile {
	c := New()
	for id, task := range p.tasks {
		c.tasks[id] = task.clone()
	}
	return c
}

// Assimilate pools another profile's full-lifetime stats into this one,
// scaling each incoming stat by scaleFactor first. The factor scales the
// burden values (mean by scaleFactor, variance by scaleFactor^2), not the
// sample counts: incoming samples are pooled at full weight.
func (p *Profile) Assimilate(other *Profile, scaleFactor float64) {
	for id, otherTask := range other.tasks {
		task, ok := p.tasks[id]
		if !ok {
			task = newTask(otherTask.OptionCount())
			p.tasks[id] = task
		}
		n := otherTask.OptionCount()
		if task.OptionCount() < n {
			n = task.OptionCount()
		}
		for i := 0; i < n; i++ {
			scaled := otherTask.Estimates[i].Full
			scaled.Scale(scaleFactor)
			task.Estimates[i].Full = task.Estimates[i].Full.Pool(scaled)
		}
	}
}
