// Package setting defines the contract between the goblin controller and
// the quality knobs it drives: something with a small number of discrete
// options, a default choice, and a way to report back what it actually
// cost when a particular option was in effect.
package setting

import "github.com/haskel/goblin/internal/profile"

// Option is one alternative a Setting can be switched to. Value is the
// quality benefit of picking it; burden is not part of Option because the
// controller estimates burden itself from measured history, not from
// anything the Setting declares up front.
type Option struct {
	Value float64
}

// Setting is implemented by anything the controller can choose an option
// for. Implementations embed Base (for ID/Options/ChoiceDefault storage
// and single-owner bookkeeping) and typically NoStrategy as well, and
// only need to write ChoiceSet and Measurement themselves.
//
// Measurement is a pull iterator: the controller calls it repeatedly each
// tick until it returns an invalid Measurement, which signals "nothing
// further to report right now". A Setting that only ever measures once
// per tick can just alternate between one real value and one invalid one.
type Setting interface {
	ID() string
	Options() []Option
	ChoiceDefault() int
	Measurement() profile.Measurement
	ChoiceSet(choice int, strategy int)
	SetStrategy(idx int)

	// owner and setOwner are unexported so that only types embedding Base
	// (necessarily from this package) can satisfy Setting — the same
	// "sealed interface" trick used to enforce single ownership at
	// registration time rather than at every call site.
	owner() any
	setOwner(o any)
}

// Base supplies the bookkeeping every Setting implementation needs:
// identity, its option table, its default choice, and the owner pointer
// that lets a controller detect a Setting already registered elsewhere.
type Base struct {
	id            string
	options       []Option
	choiceDefault int
	ownedBy       any
}

// NewBase constructs a Base. choiceDefault must be a valid index into
// options.
func NewBase(id string, options []Option, choiceDefault int) Base {
	if choiceDefault < 0 || choiceDefault >= len(options) {
		panic("setting: choice_default out of range for " + id)
	}
	return Base{id: id, options: options, choiceDefault: choiceDefault}
}

func (b *Base) ID() string         { return b.id }
func (b *Base) Options() []Option  { return b.options }
func (b *Base) ChoiceDefault() int { return b.choiceDefault }

func (b *Base) owner() any     { return b.ownedBy }
func (b *Base) setOwner(o any) { b.ownedBy = o }

// ChoiceReader is an optional capability: Settings that can report which
// option is currently in effect implement it, so read-only inspection (an
// HTTP status endpoint, a TUI) doesn't need to know the concrete type.
type ChoiceReader interface {
	Choice() int
}

// NoStrategy is embedded by Setting implementations that have no concept
// of a selection strategy; SetStrategy is a no-op, mirroring the original
// interface's forward-compatibility hook that was never given a second
// implementation.
type NoStrategy struct{}

func (NoStrategy) SetStrategy(idx int) {}

// Register attaches s to owner, panicking if s is already registered to
// a different owner. It returns false without changing anything if s is
// already registered to this same owner (a harmless re-registration).
func Register(s Setting, owner any) bool {
	if current := s.owner(); current != nil {
		if current == owner {
			return false
		}
		panic("setting: " + s.ID() + " is already registered to another controller")
	}
	s.setOwner(owner)
	return true
}

// Unregister detaches s from owner so it may be registered elsewhere. It
// is a no-op if s isn't currently registered to owner.
func Unregister(s Setting, owner any) {
	if s.owner() == owner {
		s.setOwner(nil)
	}
}
