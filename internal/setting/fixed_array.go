package setting

import "github.com/haskel/goblin/internal/profile"

// FixedArray is a Setting over a small, fixed number of plain-value
// options — the general-purpose adapter for turning "N discrete presets"
// into a Setting without writing a bespoke type for each one.
type FixedArray struct {
	Base
	NoStrategy

	choice      int
	measurement profile.Measurement
}

// NewFixed creates a FixedArray Setting with one option per entry in
// values, defaulting to choiceDefault.
func NewFixed(id string, values []float64, choiceDefault int) *FixedArray {
	options := make([]Option, len(values))
	for i, v := range values {
		options[i] = Option{Value: v}
	}
	return &FixedArray{
		Base:        NewBase(id, options, choiceDefault),
		choice:      choiceDefault,
		measurement: profile.Measurement{Choice: -1},
	}
}

// NewOnOff creates a two-option Setting: off (value 0) and on (value
// onValue), defaulting to off.
func NewOnOff(id string, onValue float64) *FixedArray {
	return NewFixed(id, []float64{0, onValue}, 0)
}

// Choice returns the option index currently in effect.
func (f *FixedArray) Choice() int { return f.choice }

// Report queues one measurement to be returned by the next call to
// Measurement, standing in for a real timing source in demos and tests.
func (f *FixedArray) Report(burden float64) {
	f.measurement = profile.Measurement{Choice: f.choice, Burden: burden}
}

// Measurement returns and clears the queued measurement, or an invalid
// one if nothing has been reported since the last call.
func (f *FixedArray) Measurement() profile.Measurement {
	m := f.measurement
	f.measurement = profile.Measurement{Choice: -1}
	return m
}

// ChoiceSet applies the controller's decision.
func (f *FixedArray) ChoiceSet(choice int, strategy int) {
	if choice < 0 || choice >= len(f.Options()) {
		panic("setting: choice index out of range for " + f.ID())
	}
	f.choice = choice
	f.SetStrategy(strategy)
}

var _ Setting = (*FixedArray)(nil)
