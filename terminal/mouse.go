package terminal

import (
	"fmt"
	"strings"
)

// MouseFlags is the set of button, wheel, motion and modifier bits of a mouse event
type MouseFlags uint32

const (
	Button1Pressed MouseFlags = 1 << iota
	Button1Released
	Button1Clicked
	Button1DoubleClicked
	Button2Pressed
	Button2Released
	Button2Clicked
	Button2DoubleClicked
	Button3Pressed
	Button3Released
	Button3Clicked
	Button3DoubleClicked
	WheeledUp
	WheeledDown
	ReportMousePosition
	ButtonShift
	ButtonCtrl
	ButtonAlt

	// Synthesized by the controller, never reported by drivers
	MouseEnter
	MouseLeave
)

const (
	// AnyPressed matches a press of any button
	AnyPressed = Button1Pressed | Button2Pressed | Button3Pressed
	// AnyReleased matches a release of any button
	AnyReleased = Button1Released | Button2Released | Button3Released
	// AnyClicked matches single and double clicks of any button
	AnyClicked = Button1Clicked | Button2Clicked | Button3Clicked |
		Button1DoubleClicked | Button2DoubleClicked | Button3DoubleClicked
	// ModifierFlags are the keyboard modifiers held during the event
	ModifierFlags = ButtonShift | ButtonCtrl | ButtonAlt
)

var mouseFlagNames = []struct {
	flag MouseFlags
	name string
}{
	{Button1Pressed, "b1-pressed"},
	{Button1Released, "b1-released"},
	{Button1Clicked, "b1-clicked"},
	{Button1DoubleClicked, "b1-double"},
	{Button2Pressed, "b2-pressed"},
	{Button2Released, "b2-released"},
	{Button2Clicked, "b2-clicked"},
	{Button2DoubleClicked, "b2-double"},
	{Button3Pressed, "b3-pressed"},
	{Button3Released, "b3-released"},
	{Button3Clicked, "b3-clicked"},
	{Button3DoubleClicked, "b3-double"},
	{WheeledUp, "wheel-up"},
	{WheeledDown, "wheel-down"},
	{ReportMousePosition, "motion"},
	{ButtonShift, "shift"},
	{ButtonCtrl, "ctrl"},
	{ButtonAlt, "alt"},
	{MouseEnter, "enter"},
	{MouseLeave, "leave"},
}

// Has reports whether any bit of mask is set
func (f MouseFlags) Has(mask MouseFlags) bool {
	return f&mask != 0
}

func (f MouseFlags) String() string {
	if f == 0 {
		return "none"
	}
	var parts []string
	for _, n := range mouseFlagNames {
		if f&n.flag != 0 {
			parts = append(parts, n.name)
		}
	}
	return strings.Join(parts, "|")
}

// MouseEvent is a raw mouse report in screen coordinates
type MouseEvent struct {
	X, Y  int
	Flags MouseFlags
}

func (e MouseEvent) String() string {
	return fmt.Sprintf("mouse(%d,%d %s)", e.X, e.Y, e.Flags)
}
