package flowsync

// Widget is one element of an in-memory Tree. A single flat struct is used for
// every widget kind; fields that a kind does not use stay zero.
//
// Widgets are addressed through Handles. A *Widget obtained from Tree.Widget
// must not be retained across a Dispose.
type Widget struct {
	// Identity
	Name string
	Kind WidgetKind

	// Hierarchy
	parent   Handle
	children []Handle

	style  [numStyleProps]int32
	text   [numTextFields]string
	ints   [numIntFields]int32
	states State
	flags  Flag

	// Range of slider, arc and bar values.
	Min, Max int32
	// Options of a dropdown or roller; selection indices refer to it.
	Options []string

	// Metadata
	UserData any

	listeners []listener
	emitting  int  // nested emit depth
	deadSubs  bool // unsubscribed listeners awaiting removal
	layouts   int
}

type listener struct {
	id uint32
	fn func(ChangeEvent) // nil once unsubscribed during delivery
}

// compactListeners drops unsubscribed listeners, preserving order.
func (w *Widget) compactListeners() {
	live := w.listeners[:0]
	for _, l := range w.listeners {
		if l.fn != nil {
			live = append(live, l)
		}
	}
	for i := len(live); i < len(w.listeners); i++ {
		w.listeners[i] = listener{}
	}
	w.listeners = live
	w.deadSubs = false
}

// widgetDefaults sets the field values shared by every kind.
func widgetDefaults(w *Widget) {
	w.style[StyleOpacity] = OpacityCover
	w.style[StyleScale] = ScaleNone
	w.Max = 100
	switch w.Kind {
	case KindButton:
		w.flags |= FlagClickable
	case KindCheckbox, KindSwitch:
		w.flags |= FlagClickable | FlagCheckable
	case KindSlider, KindArc, KindTextarea, KindDropdown, KindRoller:
		w.flags |= FlagClickable
	}
}

// Parent returns the parent handle, zero for a root widget.
func (w *Widget) Parent() Handle {
	return w.parent
}

// Children returns the child list. The returned slice MUST NOT be mutated by
// the caller.
func (w *Widget) Children() []Handle {
	return w.children
}

// Style returns a styled property value.
func (w *Widget) Style(p StyleProp) int32 {
	return w.style[p]
}

// Bounds returns the widget rectangle relative to its parent.
func (w *Widget) Bounds() Rect {
	return Rect{
		X:      float64(w.style[StyleX]),
		Y:      float64(w.style[StyleY]),
		Width:  float64(w.style[StyleWidth]),
		Height: float64(w.style[StyleHeight]),
	}
}

// Opacity returns the widget opacity in 0..1.
func (w *Widget) Opacity() float64 {
	return float64(w.style[StyleOpacity]) / OpacityCover
}

// TextValue returns a bindable string value.
func (w *Widget) TextValue(f TextField) string {
	return w.text[f]
}

// IntValue returns a bindable integer value.
func (w *Widget) IntValue(f IntField) int32 {
	return w.ints[f]
}

// States returns the state bitmask.
func (w *Widget) States() State {
	return w.states
}

// Flags returns the flag bitmask.
func (w *Widget) Flags() Flag {
	return w.flags
}

// LayoutCount returns how many times layout was recomputed for this widget.
func (w *Widget) LayoutCount() int {
	return w.layouts
}

// clampInt bounds v to the widget's value range.
func (w *Widget) clampInt(f IntField, v int32) int32 {
	switch f {
	case IntDropdownSelected, IntRollerSelected:
		if v < 0 {
			return 0
		}
		if n := int32(len(w.Options)); n > 0 && v >= n {
			return n - 1
		}
		return v
	}
	if w.Min < w.Max {
		if v < w.Min {
			return w.Min
		}
		if v > w.Max {
			return w.Max
		}
	}
	return v
}
