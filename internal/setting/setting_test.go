package setting

import "testing"

func TestNewOnOffDefaultsToOff(t *testing.T) {
	s := NewOnOff("background-sync", 5)
	if s.ChoiceDefault() != 0 {
		t.Errorf("ChoiceDefault() = %d, want 0", s.ChoiceDefault())
	}
	if s.Choice() != 0 {
		t.Errorf("Choice() = %d, want 0", s.Choice())
	}
	if len(s.Options()) != 2 {
		t.Fatalf("expected 2 options, got %d", len(s.Options()))
	}
	if s.Options()[1].Value != 5 {
		t.Errorf("on-value = %v, want 5", s.Options()[1].Value)
	}
}

func TestChoiceSetOutOfRangePanics(t *testing.T) {
	s := NewOnOff("x", 1)
	defer func() {
		if recover() == nil {
			t.Error("expected panic on out-of-range choice")
		}
	}()
	s.ChoiceSet(9, 0)
}

func TestMeasurementIsPullOnce(t *testing.T) {
	s := NewFixed("quality", []float64{1, 2, 3}, 0)

	if m := s.Measurement(); m.Valid() {
		t.Fatal("expected no measurement before Report is called")
	}

	s.Report(4.2)
	m := s.Measurement()
	if !m.Valid() || m.Burden != 4.2 {
		t.Fatalf("expected a valid measurement of 4.2, got %+v", m)
	}

	if m2 := s.Measurement(); m2.Valid() {
		t.Error("measurement should be consumed after one pull")
	}
}

func TestRegisterEnforcesSingleOwner(t *testing.T) {
	s := NewOnOff("x", 1)
	ownerA := "controller-a"
	ownerB := "controller-b"

	if !Register(s, ownerA) {
		t.Fatal("first registration should succeed")
	}
	if Register(s, ownerA) {
		t.Error("re-registering to the same owner should report no change, not succeed as new")
	}

	defer func() {
		if recover() == nil {
			t.Error("expected panic when registering to a second owner")
		}
	}()
	Register(s, ownerB)
}

func TestUnregisterThenReregisterElsewhere(t *testing.T) {
	s := NewOnOff("x", 1)
	ownerA := "controller-a"
	ownerB := "controller-b"

	Register(s, ownerA)
	Unregister(s, ownerA)
	if !Register(s, ownerB) {
		t.Error("should be able to register to a new owner after unregistering")
	}
}
