// Package gamepad provides unit tests for types.go
package gamepad

import (
	"math"
	"testing"
)

func TestParseButton(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    Button
		wantErr bool
	}{
		{"face button", "a", ButtonA, false},
		{"case insensitive", "DpadUp", ButtonDpadUp, false},
		{"bumper", "leftBumper", ButtonLeftBumper, false},
		{"trigger", "rightTrigger", ButtonRightTrigger, false},
		{"guide", "guide", ButtonGuide, false},
		{"unknown", "pedal", 0, true},
		{"empty", "", 0, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseButton(tc.in)
			if tc.wantErr {
				if err == nil {
					t.Errorf("ParseButton(%q) expected error", tc.in)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseButton(%q) failed: %v", tc.in, err)
			}
			if got != tc.want {
				t.Errorf("ParseButton(%q) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}
}

func TestButton_StringRoundTrip(t *testing.T) {
	for b := Button(0); b < ButtonCount; b++ {
		parsed, err := ParseButton(b.String())
		if err != nil {
			t.Fatalf("ParseButton(%q) failed: %v", b.String(), err)
		}
		if parsed != b {
			t.Errorf("round trip for %v gave %v", b, parsed)
		}
	}
}

func TestButtons_SetOperations(t *testing.T) {
	var bs Buttons
	bs = bs.With(ButtonA).With(ButtonDpadLeft)

	if !bs.Has(ButtonA) || !bs.Has(ButtonDpadLeft) {
		t.Error("added buttons should be present")
	}
	if bs.Has(ButtonB) {
		t.Error("unadded button should be absent")
	}

	bs = bs.Without(ButtonA)
	if bs.Has(ButtonA) {
		t.Error("removed button should be absent")
	}
	if !bs.Has(ButtonDpadLeft) {
		t.Error("other button should survive removal")
	}
}

func TestButtons_Names(t *testing.T) {
	bs := Buttons(0).With(ButtonY).With(ButtonStart)
	names := bs.Names()
	if len(names) != 2 || names[0] != "y" || names[1] != "start" {
		t.Errorf("Names = %v, want [y start]", names)
	}
}

func TestSnapshot_NeutralDefaults(t *testing.T) {
	var s Snapshot
	if s.Pressed(ButtonA) {
		t.Error("zero snapshot should have no pressed buttons")
	}
	if s.Axis(AxisLeftX) != 0 {
		t.Error("zero snapshot axes should read 0")
	}
	if s.Axis(AxisCount+3) != 0 {
		t.Error("unknown axis should read neutral 0")
	}
}

func TestSnapshot_Sanitized(t *testing.T) {
	tests := []struct {
		name string
		in   float64
		want float64
	}{
		{"nan becomes neutral", math.NaN(), 0},
		{"positive inf clamped to neutral", math.Inf(1), 0},
		{"negative inf clamped to neutral", math.Inf(-1), 0},
		{"overrange clamped", 1.8, 1},
		{"underrange clamped", -2.3, -1},
		{"deadzone snapped", 0.05, 0},
		{"negative deadzone snapped", -0.07, 0},
		{"valid preserved", 0.42, 0.42},
		{"edge of range preserved", -1, -1},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := Snapshot{}
			s.Axes[AxisLeftX] = tc.in
			got := s.Sanitized(0.08).Axis(AxisLeftX)
			if got != tc.want {
				t.Errorf("Sanitized(%f) = %f, want %f", tc.in, got, tc.want)
			}
		})
	}
}

func TestSnapshot_SanitizedPreservesButtons(t *testing.T) {
	s := Snapshot{Buttons: Buttons(0).With(ButtonB)}
	if !s.Sanitized(0.08).Pressed(ButtonB) {
		t.Error("sanitizing should not touch the button set")
	}
}
