package flowsync

// Handle is an opaque reference to a widget in a Tree. It packs a slot index
// and the slot's generation, so a handle to a disposed widget never resolves
// to a widget later created in the same slot. The zero Handle is never valid.
type Handle uint64

func makeHandle(index, gen uint32) Handle {
	return Handle(uint64(gen)<<32 | uint64(index+1))
}

func (h Handle) index() uint32 {
	return uint32(h) - 1
}

func (h Handle) gen() uint32 {
	return uint32(h >> 32)
}

// IsZero reports whether h is the zero Handle.
func (h Handle) IsZero() bool {
	return h == 0
}

type slot struct {
	w   *Widget
	gen uint32
}

// Tree is an in-memory retained-mode widget toolkit. It implements Toolkit
// and behaves like an embedded GUI library: programmatic value setters fire
// EventValueChanged synchronously, exactly as user interaction does.
//
// Tree is single-threaded, like the rest of flowsync.
type Tree struct {
	slots []slot
	free  []uint32
	roots []Handle

	pointer pointerState

	nextListenerID uint32
	debug          bool
}

// NewTree creates an empty widget tree.
func NewTree() *Tree {
	return &Tree{}
}

// SetDebugMode enables or disables debug checks. When enabled, operations on
// dead handles panic with a descriptive message instead of being ignored.
func (t *Tree) SetDebugMode(enabled bool) {
	t.debug = enabled
}

// NewWidget creates a widget of the given kind. A zero parent creates a root
// widget. Panics if parent is non-zero and dead.
func (t *Tree) NewWidget(kind WidgetKind, name string, parent Handle) Handle {
	var p *Widget
	if !parent.IsZero() {
		p = t.lookup(parent)
		if p == nil {
			panic("flowsync: cannot add widget to a disposed parent")
		}
	}

	w := &Widget{Name: name, Kind: kind, parent: parent}
	widgetDefaults(w)

	var idx uint32
	if n := len(t.free); n > 0 {
		idx = t.free[n-1]
		t.free = t.free[:n-1]
		t.slots[idx].w = w
	} else {
		idx = uint32(len(t.slots))
		t.slots = append(t.slots, slot{w: w})
	}
	h := makeHandle(idx, t.slots[idx].gen)

	if p != nil {
		p.children = append(p.children, h)
	} else {
		t.roots = append(t.roots, h)
	}
	return h
}

// Widget returns the widget behind h, or nil if h is dead.
func (t *Tree) Widget(h Handle) *Widget {
	return t.lookup(h)
}

// Roots returns the root widgets. The returned slice MUST NOT be mutated.
func (t *Tree) Roots() []Handle {
	return t.roots
}

// Len returns the number of live widgets.
func (t *Tree) Len() int {
	return len(t.slots) - len(t.free)
}

// Find returns the first live widget with the given name, searching depth
// first from the roots.
func (t *Tree) Find(name string) (Handle, bool) {
	for _, r := range t.roots {
		if h, ok := t.find(r, name); ok {
			return h, true
		}
	}
	return 0, false
}

func (t *Tree) find(h Handle, name string) (Handle, bool) {
	w := t.lookup(h)
	if w == nil {
		return 0, false
	}
	if w.Name == name {
		return h, true
	}
	for _, c := range w.children {
		if found, ok := t.find(c, name); ok {
			return found, true
		}
	}
	return 0, false
}

// Dispose removes the widget from its parent and destroys it together with
// its descendants. Subscriptions are dropped; outstanding handles become dead.
func (t *Tree) Dispose(h Handle) {
	w := t.lookup(h)
	if w == nil {
		return
	}
	if p := t.lookup(w.parent); p != nil {
		p.children = removeHandle(p.children, h)
	} else {
		t.roots = removeHandle(t.roots, h)
	}
	t.dispose(h, w)
}

func (t *Tree) dispose(h Handle, w *Widget) {
	for _, c := range w.children {
		if cw := t.lookup(c); cw != nil {
			t.dispose(c, cw)
		}
	}
	w.children = nil
	w.listeners = nil
	w.UserData = nil

	idx := h.index()
	t.slots[idx].w = nil
	t.slots[idx].gen++
	t.free = append(t.free, idx)
}

func (t *Tree) lookup(h Handle) *Widget {
	if h.IsZero() {
		return nil
	}
	idx := h.index()
	if int(idx) >= len(t.slots) {
		return nil
	}
	s := &t.slots[idx]
	if s.gen != h.gen() {
		return nil
	}
	return s.w
}

// must resolves h for a Toolkit call. Dead handles are ignored in release
// mode and panic in debug mode.
func (t *Tree) must(h Handle, op string) *Widget {
	w := t.lookup(h)
	if w == nil && t.debug {
		panic("flowsync debug: " + op + " on dead widget handle")
	}
	return w
}

// --- Toolkit ---

// Alive reports whether h refers to a live widget.
func (t *Tree) Alive(h Handle) bool {
	return t.lookup(h) != nil
}

// StyleProp returns a styled property value.
func (t *Tree) StyleProp(h Handle, p StyleProp) int32 {
	if w := t.must(h, "StyleProp"); w != nil {
		return w.style[p]
	}
	return 0
}

// SetStyleProp sets a styled property value. Style changes do not fire
// change events.
func (t *Tree) SetStyleProp(h Handle, p StyleProp, v int32) {
	if w := t.must(h, "SetStyleProp"); w != nil {
		w.style[p] = v
	}
}

// UpdateLayout recomputes layout for the widget.
func (t *Tree) UpdateLayout(h Handle) {
	if w := t.must(h, "UpdateLayout"); w != nil {
		w.layouts++
	}
}

// Text returns a bindable string value.
func (t *Tree) Text(h Handle, f TextField) string {
	if w := t.must(h, "Text"); w != nil {
		return w.text[f]
	}
	return ""
}

// SetText sets a bindable string value and fires EventValueChanged.
func (t *Tree) SetText(h Handle, f TextField, v string) {
	w := t.must(h, "SetText")
	if w == nil {
		return
	}
	w.text[f] = v
	t.emit(h, EventValueChanged)
}

// Int returns a bindable integer value.
func (t *Tree) Int(h Handle, f IntField) int32 {
	if w := t.must(h, "Int"); w != nil {
		return w.ints[f]
	}
	return 0
}

// SetInt sets a bindable integer value, clamped to the widget's range, and
// fires EventValueChanged.
func (t *Tree) SetInt(h Handle, f IntField, v int32) {
	w := t.must(h, "SetInt")
	if w == nil {
		return
	}
	w.ints[f] = w.clampInt(f, v)
	t.emit(h, EventValueChanged)
}

// HasState reports whether all bits of s are set.
func (t *Tree) HasState(h Handle, s State) bool {
	if w := t.must(h, "HasState"); w != nil {
		return w.states&s == s
	}
	return false
}

// AddState sets state bits. Changing StateChecked fires EventValueChanged.
func (t *Tree) AddState(h Handle, s State) {
	w := t.must(h, "AddState")
	if w == nil {
		return
	}
	prev := w.states
	w.states |= s
	if (prev^w.states)&StateChecked != 0 {
		t.emit(h, EventValueChanged)
	}
}

// ClearState clears state bits. Changing StateChecked fires EventValueChanged.
func (t *Tree) ClearState(h Handle, s State) {
	w := t.must(h, "ClearState")
	if w == nil {
		return
	}
	prev := w.states
	w.states &^= s
	if (prev^w.states)&StateChecked != 0 {
		t.emit(h, EventValueChanged)
	}
}

// HasFlag reports whether all bits of f are set.
func (t *Tree) HasFlag(h Handle, f Flag) bool {
	if w := t.must(h, "HasFlag"); w != nil {
		return w.flags&f == f
	}
	return false
}

// AddFlag sets flag bits.
func (t *Tree) AddFlag(h Handle, f Flag) {
	if w := t.must(h, "AddFlag"); w != nil {
		w.flags |= f
	}
}

// ClearFlag clears flag bits.
func (t *Tree) ClearFlag(h Handle, f Flag) {
	if w := t.must(h, "ClearFlag"); w != nil {
		w.flags &^= f
	}
}

// Subscribe registers fn for events whose source is h. Subscribing to a dead
// handle returns a no-op unsubscribe.
func (t *Tree) Subscribe(h Handle, fn func(ChangeEvent)) func() {
	w := t.lookup(h)
	if w == nil {
		return func() {}
	}
	t.nextListenerID++
	id := t.nextListenerID
	w.listeners = append(w.listeners, listener{id: id, fn: fn})
	return func() {
		w := t.lookup(h)
		if w == nil {
			return
		}
		for i, l := range w.listeners {
			if l.id != id || l.fn == nil {
				continue
			}
			// emit walks the slice by index; removal waits until delivery ends.
			w.listeners[i].fn = nil
			w.deadSubs = true
			if w.emitting == 0 {
				w.compactListeners()
			}
			return
		}
	}
}

// emit delivers an event to the widget's listeners synchronously. Listeners
// may unsubscribe themselves or others, or dispose the widget; delivery stops
// when the widget is disposed. Listeners unsubscribed before their turn are
// not called.
func (t *Tree) emit(h Handle, kind EventKind) {
	w := t.lookup(h)
	if w == nil || len(w.listeners) == 0 {
		return
	}
	ev := ChangeEvent{Kind: kind, Source: h}
	w.emitting++
	for i := 0; i < len(w.listeners); i++ {
		fn := w.listeners[i].fn
		if fn == nil {
			continue
		}
		fn(ev)
		if t.lookup(h) == nil {
			return
		}
	}
	w.emitting--
	if w.emitting == 0 && w.deadSubs {
		w.compactListeners()
	}
}

// --- Helpers ---

// removeHandle removes h from list preserving order.
func removeHandle(list []Handle, h Handle) []Handle {
	for i, c := range list {
		if c == h {
			copy(list[i:], list[i+1:])
			list[len(list)-1] = 0
			return list[:len(list)-1]
		}
	}
	return list
}
