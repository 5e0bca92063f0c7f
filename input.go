package flowsync

// pointerState tracks the single pointer driving a Tree.
type pointerState struct {
	down     bool
	captured Handle // widget hit at press time
}

// AbsoluteBounds returns the widget rectangle in tree coordinates, summing
// the offsets of all ancestors.
func (t *Tree) AbsoluteBounds(h Handle) Rect {
	w := t.lookup(h)
	if w == nil {
		return Rect{}
	}
	r := w.Bounds()
	for p := t.lookup(w.parent); p != nil; p = t.lookup(p.parent) {
		r.X += float64(p.style[StyleX])
		r.Y += float64(p.style[StyleY])
	}
	return r
}

// WidgetAt returns the topmost clickable widget under (x, y). Hidden subtrees
// and disabled widgets are skipped. Later siblings are on top.
func (t *Tree) WidgetAt(x, y float64) (Handle, bool) {
	for i := len(t.roots) - 1; i >= 0; i-- {
		if h, ok := t.hit(t.roots[i], x, y, 0, 0); ok {
			return h, true
		}
	}
	return 0, false
}

func (t *Tree) hit(h Handle, x, y, ox, oy float64) (Handle, bool) {
	w := t.lookup(h)
	if w == nil || w.flags&FlagHidden != 0 {
		return 0, false
	}
	r := w.Bounds()
	r.X += ox
	r.Y += oy
	for i := len(w.children) - 1; i >= 0; i-- {
		if c, ok := t.hit(w.children[i], x, y, r.X, r.Y); ok {
			return c, true
		}
	}
	if w.flags&FlagClickable == 0 || w.states&StateDisabled != 0 {
		return 0, false
	}
	if r.Contains(x, y) {
		return h, true
	}
	return 0, false
}

// PointerDown presses the pointer at (x, y). The hit widget enters
// StatePressed, receives EventPressed, and sliders, arcs and bars jump to the
// pointer position.
func (t *Tree) PointerDown(x, y float64) {
	t.pointer.down = true
	h, ok := t.WidgetAt(x, y)
	if !ok {
		t.pointer.captured = 0
		return
	}
	t.pointer.captured = h
	w := t.lookup(h)
	w.states |= StatePressed
	t.emit(h, EventPressed)
	t.dragTo(h, x)
}

// PointerMove moves a pressed pointer, dragging the captured widget's value.
func (t *Tree) PointerMove(x, y float64) {
	if !t.pointer.down || t.pointer.captured.IsZero() {
		return
	}
	t.dragTo(t.pointer.captured, x)
}

// PointerUp releases the pointer. A release over the captured widget is a
// click; clicking a checkable widget toggles StateChecked.
func (t *Tree) PointerUp(x, y float64) {
	if !t.pointer.down {
		return
	}
	t.pointer.down = false
	h := t.pointer.captured
	t.pointer.captured = 0
	w := t.lookup(h)
	if w == nil {
		return
	}
	w.states &^= StatePressed
	t.emit(h, EventReleased)
	if t.lookup(h) == nil {
		return
	}
	if hit, ok := t.WidgetAt(x, y); ok && hit == h {
		t.click(h)
	}
}

// Click simulates a full press and release on the widget, regardless of
// pointer position.
func (t *Tree) Click(h Handle) {
	w := t.lookup(h)
	if w == nil || w.flags&FlagClickable == 0 || w.states&StateDisabled != 0 {
		return
	}
	t.emit(h, EventPressed)
	if t.lookup(h) == nil {
		return
	}
	t.emit(h, EventReleased)
	if t.lookup(h) == nil {
		return
	}
	t.click(h)
}

func (t *Tree) click(h Handle) {
	w := t.lookup(h)
	if w.flags&FlagCheckable != 0 {
		if w.states&StateChecked != 0 {
			t.ClearState(h, StateChecked)
		} else {
			t.AddState(h, StateChecked)
		}
		if t.lookup(h) == nil {
			return
		}
	}
	t.emit(h, EventClicked)
}

// dragTo maps a pointer x coordinate onto the value of a slider, arc or bar.
func (t *Tree) dragTo(h Handle, x float64) {
	w := t.lookup(h)
	if w == nil || w.Max <= w.Min {
		return
	}
	var f IntField
	switch w.Kind {
	case KindSlider:
		f = IntSliderValue
	case KindArc:
		f = IntArcValue
	case KindBar:
		f = IntBarValue
	default:
		return
	}
	r := t.AbsoluteBounds(h)
	if r.Width <= 0 {
		return
	}
	frac := (x - r.X) / r.Width
	if frac < 0 {
		frac = 0
	} else if frac > 1 {
		frac = 1
	}
	v := w.Min + int32(frac*float64(w.Max-w.Min)+0.5)
	if v != w.ints[f] {
		t.SetInt(h, f, v)
	}
}
