package flowsync

// Toolkit is the capability surface flowsync needs from a retained-mode widget
// toolkit. Every method takes a Handle; callers check Alive before any other
// call, and implementations may panic on a dead handle.
//
// Setters may fire change events synchronously through subscribers registered
// with Subscribe. That re-entrancy is what WriteGuard exists for.
type Toolkit interface {
	// Alive reports whether h still refers to an existing widget.
	Alive(h Handle) bool

	StyleProp(h Handle, p StyleProp) int32
	SetStyleProp(h Handle, p StyleProp, v int32)
	// UpdateLayout recomputes the widget's layout after style changes.
	UpdateLayout(h Handle)

	Text(h Handle, f TextField) string
	SetText(h Handle, f TextField, v string)

	Int(h Handle, f IntField) int32
	SetInt(h Handle, f IntField, v int32)

	HasState(h Handle, s State) bool
	AddState(h Handle, s State)
	ClearState(h Handle, s State)

	HasFlag(h Handle, f Flag) bool
	AddFlag(h Handle, f Flag)
	ClearFlag(h Handle, f Flag)

	// Subscribe registers fn for events whose source is h. The returned
	// function removes the subscription and is safe to call more than once.
	Subscribe(h Handle, fn func(ChangeEvent)) (unsubscribe func())
}
