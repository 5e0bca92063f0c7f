package flowsync

// Rect is an axis-aligned rectangle in widget style units. The coordinate
// system has its origin at the top-left, with Y increasing downward.
type Rect struct {
	X, Y, Width, Height float64
}

// Contains reports whether the point (x, y) lies inside the rectangle.
// Points on the edge are considered inside.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width &&
		y >= r.Y && y <= r.Y+r.Height
}

// StyleProp selects a styled property of a widget's main part.
type StyleProp uint8

const (
	StyleX       StyleProp = iota // horizontal offset from the parent
	StyleY                        // vertical offset from the parent
	StyleWidth                    // width in style units
	StyleHeight                   // height in style units
	StyleOpacity                  // 0 (transparent) .. 255 (opaque)
	StyleScale                    // transform zoom, 256 = 1x
	StyleRotate                   // transform angle in 0.1 degree units

	numStyleProps
)

// OpacityCover is the StyleOpacity value of a fully opaque widget.
const OpacityCover = 255

// ScaleNone is the StyleScale value of an unscaled widget.
const ScaleNone = 256

// TextField selects a bindable string value of a widget.
type TextField uint8

const (
	TextLabel    TextField = iota // text shown by a label
	TextTextarea                  // editable text of a textarea

	numTextFields
)

// IntField selects a bindable integer value of a widget.
type IntField uint8

const (
	IntSliderValue      IntField = iota // slider value (right knob in range mode)
	IntSliderLeftValue                  // slider left knob in range mode
	IntArcValue                         // arc value
	IntBarValue                         // bar value
	IntBarStartValue                    // bar start value in range mode
	IntDropdownSelected                 // selected dropdown option index
	IntRollerSelected                   // selected roller option index

	numIntFields
)

// State is a bitmask of widget states.
type State uint16

const (
	StateChecked  State = 1 << iota // toggled on (checkbox, switch, button)
	StateDisabled                   // input is ignored
	StatePressed                    // pointer is down on the widget
	StateFocused                    // widget has keyboard focus
)

// Flag is a bitmask of widget behaviour flags.
type Flag uint16

const (
	FlagHidden    Flag = 1 << iota // widget and its subtree are not drawn or hit
	FlagClickable                  // widget receives pointer input
	FlagCheckable                  // clicks toggle StateChecked
)

// EventKind identifies a widget event delivered to subscribers.
type EventKind uint8

const (
	EventValueChanged EventKind = iota // a bindable value or the checked state changed
	EventClicked                       // press then release over the same widget
	EventPressed                       // pointer went down on the widget
	EventReleased                      // pointer went up after a press
)

// ChangeEvent is delivered synchronously to widget subscribers.
type ChangeEvent struct {
	Kind   EventKind
	Source Handle
}

// WidgetKind distinguishes the behaviour of a widget in the in-memory Tree.
type WidgetKind uint8

const (
	KindPanel WidgetKind = iota // plain container
	KindLabel
	KindTextarea
	KindButton
	KindCheckbox
	KindSwitch
	KindSlider
	KindArc
	KindBar
	KindDropdown
	KindRoller
)

var widgetKindNames = [...]string{
	KindPanel:    "panel",
	KindLabel:    "label",
	KindTextarea: "textarea",
	KindButton:   "button",
	KindCheckbox: "checkbox",
	KindSwitch:   "switch",
	KindSlider:   "slider",
	KindArc:      "arc",
	KindBar:      "bar",
	KindDropdown: "dropdown",
	KindRoller:   "roller",
}

func (k WidgetKind) String() string {
	if int(k) < len(widgetKindNames) {
		return widgetKindNames[k]
	}
	return "unknown"
}

// ParseWidgetKind returns the WidgetKind with the given name.
func ParseWidgetKind(name string) (WidgetKind, bool) {
	for i, n := range widgetKindNames {
		if n == name {
			return WidgetKind(i), true
		}
	}
	return 0, false
}
