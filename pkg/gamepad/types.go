// Package gamepad provides the logical controller vocabulary and the input
// bridge. The bridge polls a Source for normalized controller state, guards
// the device reads with a circuit breaker, and hands out immutable snapshots
// to observers. Consumers never see raw hardware values: axes arrive in
// [-1, 1] and buttons as platform-independent logical identifiers.
package gamepad

import (
	"fmt"
	"math"
	"strings"
)

// Button is an abstracted, platform-independent button identifier.
type Button uint8

// Logical button vocabulary. Face buttons follow the primary..quaternary
// convention (A/B/X/Y on an Xbox-layout pad).
const (
	ButtonA Button = iota
	ButtonB
	ButtonX
	ButtonY
	ButtonLeftBumper
	ButtonRightBumper
	ButtonLeftTrigger
	ButtonRightTrigger
	ButtonLeftThumb
	ButtonRightThumb
	ButtonDpadUp
	ButtonDpadDown
	ButtonDpadLeft
	ButtonDpadRight
	ButtonStart
	ButtonBack
	ButtonGuide

	ButtonCount
)

var buttonNames = [ButtonCount]string{
	"a", "b", "x", "y",
	"leftBumper", "rightBumper",
	"leftTrigger", "rightTrigger",
	"leftThumb", "rightThumb",
	"dpadUp", "dpadDown", "dpadLeft", "dpadRight",
	"start", "back", "guide",
}

// String returns the canonical logical name of the button.
func (b Button) String() string {
	if b >= ButtonCount {
		return fmt.Sprintf("button(%d)", uint8(b))
	}
	return buttonNames[b]
}

// ParseButton resolves a logical button name (case-insensitive) to its
// Button value. Used to resolve config bindings.
func ParseButton(name string) (Button, error) {
	for b, canonical := range buttonNames {
		if strings.EqualFold(name, canonical) {
			return Button(b), nil
		}
	}
	return 0, fmt.Errorf("unknown button name %q", name)
}

// Buttons is a pressed-button set represented as a bitmask.
type Buttons uint32

// Has reports whether the button is in the set.
func (bs Buttons) Has(b Button) bool {
	if b >= ButtonCount {
		return false
	}
	return bs&(1<<b) != 0
}

// With returns a copy of the set with the button added.
func (bs Buttons) With(b Button) Buttons {
	if b >= ButtonCount {
		return bs
	}
	return bs | (1 << b)
}

// Without returns a copy of the set with the button removed.
func (bs Buttons) Without(b Button) Buttons {
	if b >= ButtonCount {
		return bs
	}
	return bs &^ (1 << b)
}

// Names returns the logical names of all pressed buttons, in vocabulary order.
func (bs Buttons) Names() []string {
	var names []string
	for b := Button(0); b < ButtonCount; b++ {
		if bs.Has(b) {
			names = append(names, b.String())
		}
	}
	return names
}

// Axis is a continuous analog input channel normalized to [-1, 1].
type Axis uint8

// Named axes. Triggers are exposed both as buttons (digital threshold)
// and as axes (analog travel); the simulation only reads the sticks.
const (
	AxisLeftX Axis = iota
	AxisLeftY
	AxisRightX
	AxisRightY
	AxisLeftTrigger
	AxisRightTrigger

	AxisCount
)

var axisNames = [AxisCount]string{
	"leftX", "leftY", "rightX", "rightY", "leftTrigger", "rightTrigger",
}

// String returns the canonical name of the axis.
func (a Axis) String() string {
	if a >= AxisCount {
		return fmt.Sprintf("axis(%d)", uint8(a))
	}
	return axisNames[a]
}

// Snapshot is an immutable view of controller state at one hardware poll.
// The zero value is fully neutral: no buttons pressed, all axes at zero.
type Snapshot struct {
	Buttons Buttons
	Axes    [AxisCount]float64
}

// Pressed reports whether the logical button is held in this snapshot.
func (s Snapshot) Pressed(b Button) bool {
	return s.Buttons.Has(b)
}

// Axis returns the value of the named axis, or 0 for unknown axes.
func (s Snapshot) Axis(a Axis) float64 {
	if a >= AxisCount {
		return 0
	}
	return s.Axes[a]
}

// Sanitized returns a copy with every axis forced into [-1, 1], NaN and
// infinities replaced by neutral zero, and values inside the deadzone
// snapped to zero. Sources are expected to deliver normalized values
// already; this is the boundary that makes it true.
func (s Snapshot) Sanitized(deadzone float64) Snapshot {
	out := s
	for i := range out.Axes {
		v := out.Axes[i]
		if math.IsNaN(v) || math.IsInf(v, 0) {
			out.Axes[i] = 0
			continue
		}
		if math.Abs(v) < deadzone {
			out.Axes[i] = 0
			continue
		}
		out.Axes[i] = math.Max(-1, math.Min(1, v))
	}
	return out
}
