package flowsync

import "log/slog"

// UpdateKind identifies the widget property an UpdateTask writes.
type UpdateKind uint8

const (
	UpdateLabelText UpdateKind = iota
	UpdateTextareaText
	UpdateSliderValue
	UpdateSliderLeftValue
	UpdateArcValue
	UpdateBarValue
	UpdateBarStartValue
	UpdateCheckedState
	UpdateDisabledState
	UpdateHiddenFlag
	UpdateClickableFlag
	UpdateDropdownSelected
	UpdateRollerSelected

	numUpdateKinds
)

// UpdateTask binds a flow property to a widget property.
type UpdateTask struct {
	Kind   UpdateKind
	Widget Handle
	Ref    PropertyRef
}

// binder is one row of the dispatch table: how to evaluate the flow side,
// read the widget side, and write the widget side for a kind.
type binder struct {
	name  string // config name
	label string // human-readable target, used in log messages
	typ   ValueType
	get   func(tk Toolkit, h Handle) Value
	set   func(tk Toolkit, h Handle, v Value)
}

func textBinder(name, label string, f TextField) binder {
	return binder{
		name: name, label: label, typ: TypeText,
		get: func(tk Toolkit, h Handle) Value { return TextValue(tk.Text(h, f)) },
		set: func(tk Toolkit, h Handle, v Value) { tk.SetText(h, f, v.Text) },
	}
}

func intBinder(name, label string, f IntField) binder {
	return binder{
		name: name, label: label, typ: TypeInteger,
		get: func(tk Toolkit, h Handle) Value { return IntValue(tk.Int(h, f)) },
		set: func(tk Toolkit, h Handle, v Value) { tk.SetInt(h, f, v.Int) },
	}
}

func stateBinder(name, label string, s State) binder {
	return binder{
		name: name, label: label, typ: TypeBoolean,
		get: func(tk Toolkit, h Handle) Value { return BoolValue(tk.HasState(h, s)) },
		set: func(tk Toolkit, h Handle, v Value) {
			if v.Bool {
				tk.AddState(h, s)
			} else {
				tk.ClearState(h, s)
			}
		},
	}
}

func flagBinder(name, label string, f Flag) binder {
	return binder{
		name: name, label: label, typ: TypeBoolean,
		get: func(tk Toolkit, h Handle) Value { return BoolValue(tk.HasFlag(h, f)) },
		set: func(tk Toolkit, h Handle, v Value) {
			if v.Bool {
				tk.AddFlag(h, f)
			} else {
				tk.ClearFlag(h, f)
			}
		},
	}
}

// binders is the dispatch table. Adding a bindable property is a row here.
var binders = [numUpdateKinds]binder{
	UpdateLabelText:        textBinder("label_text", "Text in Label widget", TextLabel),
	UpdateTextareaText:     textBinder("textarea_text", "Text in Textarea widget", TextTextarea),
	UpdateSliderValue:      intBinder("slider_value", "Value in Slider widget", IntSliderValue),
	UpdateSliderLeftValue:  intBinder("slider_value_left", "Value Left in Slider widget", IntSliderLeftValue),
	UpdateArcValue:         intBinder("arc_value", "Value in Arc widget", IntArcValue),
	UpdateBarValue:         intBinder("bar_value", "Value in Bar widget", IntBarValue),
	UpdateBarStartValue:    intBinder("bar_value_start", "Value Start in Bar widget", IntBarStartValue),
	UpdateCheckedState:     stateBinder("checked_state", "Checked state", StateChecked),
	UpdateDisabledState:    stateBinder("disabled_state", "Disabled state", StateDisabled),
	UpdateHiddenFlag:       flagBinder("hidden_flag", "Hidden flag", FlagHidden),
	UpdateClickableFlag:    flagBinder("clickable_flag", "Clickable flag", FlagClickable),
	UpdateDropdownSelected: intBinder("dropdown_selected", "Selected in Dropdown widget", IntDropdownSelected),
	UpdateRollerSelected:   intBinder("roller_selected", "Selected in Roller widget", IntRollerSelected),
}

func (k UpdateKind) String() string {
	if k >= numUpdateKinds {
		return "unknown"
	}
	return binders[k].name
}

// ValueType returns the type of value the kind binds.
func (k UpdateKind) ValueType() ValueType {
	if k >= numUpdateKinds {
		return TypeUndefined
	}
	return binders[k].typ
}

// ParseUpdateKind returns the UpdateKind with the given config name
// ("slider_value", "checked_state", ...).
func ParseUpdateKind(name string) (UpdateKind, bool) {
	for i := range binders {
		if binders[i].name == name {
			return UpdateKind(i), true
		}
	}
	return 0, false
}

// evaluate reads the flow side of a binding as a typed Value.
func evaluate(ev Evaluator, typ ValueType, ref PropertyRef) (Value, error) {
	switch typ {
	case TypeText:
		s, err := ev.EvaluateText(ref)
		return TextValue(s), err
	case TypeInteger:
		i, err := ev.EvaluateInteger(ref)
		return IntValue(i), err
	default:
		b, err := ev.EvaluateBoolean(ref)
		return BoolValue(b), err
	}
}

// assign writes a typed Value into the flow side of a binding.
func assign(ev Evaluator, ref PropertyRef, v Value) error {
	switch v.Type {
	case TypeText:
		return ev.AssignText(ref, v.Text)
	case TypeInteger:
		return ev.AssignInteger(ref, v.Int)
	default:
		return ev.AssignBoolean(ref, v.Bool)
	}
}

// DrainStats counts what a drain did.
type DrainStats struct {
	Tasks       int // tasks examined
	Writes      int // widget writes performed
	Unchanged   int // tasks whose value already matched
	EvalErrors  int // tasks skipped on EvaluationError
	Stale       int // tasks skipped because the widget was gone
	NestedWrite int // tasks skipped because the guard was occupied
}

// lastWrite remembers a binding's previous write: the flow value written and
// the widget value read back afterwards. They differ when the toolkit clamps.
type lastWrite struct {
	written  Value
	observed Value
	ok       bool
}

// UpdateQueue holds recurring bindings and one-shot update tasks.
type UpdateQueue struct {
	bindings []UpdateTask
	written  []lastWrite // parallel to bindings
	pending  []UpdateTask
	log      *slog.Logger
}

// NewUpdateQueue returns an empty queue logging to log.
func NewUpdateQueue(log *slog.Logger) *UpdateQueue {
	if log == nil {
		log = slog.Default()
	}
	return &UpdateQueue{log: log}
}

// Enqueue appends a one-shot task applied by the next Drain.
func (q *UpdateQueue) Enqueue(kind UpdateKind, widget Handle, ref PropertyRef) {
	q.pending = append(q.pending, UpdateTask{Kind: kind, Widget: widget, Ref: ref})
}

// Bind registers a recurring binding applied by every Drain until its widget
// is destroyed or the queue is cleared.
func (q *UpdateQueue) Bind(kind UpdateKind, widget Handle, ref PropertyRef) {
	q.bindings = append(q.bindings, UpdateTask{Kind: kind, Widget: widget, Ref: ref})
	q.written = append(q.written, lastWrite{})
}

// Bindings returns the recurring bindings. The returned slice MUST NOT be
// mutated by the caller.
func (q *UpdateQueue) Bindings() []UpdateTask {
	return q.bindings
}

// Pending returns the number of one-shot tasks waiting for the next Drain.
func (q *UpdateQueue) Pending() int {
	return len(q.pending)
}

// Clear drops all bindings and pending tasks.
func (q *UpdateQueue) Clear() {
	q.bindings = q.bindings[:0]
	q.written = q.written[:0]
	q.pending = q.pending[:0]
}

// Drain applies recurring bindings in registration order, then one-shot tasks
// in enqueue order. Each write happens under guard and only when the flow
// value differs from the widget value. A later task for the same property
// wins. Pending tasks are discarded afterwards; bindings to destroyed widgets
// are dropped.
//
// A binding whose last write was clamped by the toolkit is not rewritten
// while the flow value and the clamped widget value both stay the same.
func (q *UpdateQueue) Drain(tk Toolkit, ev Evaluator, guard *WriteGuard) DrainStats {
	var stats DrainStats

	n := len(q.bindings)
	live := q.bindings[:0]
	liveWritten := q.written[:0]
	for i := 0; i < n; i++ {
		task := q.bindings[i]
		if !tk.Alive(task.Widget) {
			stats.Tasks++
			stats.Stale++
			continue
		}
		last := q.written[i]
		q.apply(tk, ev, guard, task, &last, &stats)
		live = append(live, task)
		liveWritten = append(liveWritten, last)
	}
	// Keep bindings registered by change handlers during the drain.
	q.bindings = append(live, q.bindings[n:]...)
	q.written = append(liveWritten, q.written[n:]...)

	// Tasks enqueued by change handlers during this drain run in this drain.
	for i := 0; i < len(q.pending); i++ {
		task := q.pending[i]
		if !tk.Alive(task.Widget) {
			stats.Tasks++
			stats.Stale++
			continue
		}
		q.apply(tk, ev, guard, task, nil, &stats)
	}
	q.pending = q.pending[:0]

	return stats
}

// apply runs one task. last is nil for one-shot tasks.
func (q *UpdateQueue) apply(tk Toolkit, ev Evaluator, guard *WriteGuard, task UpdateTask, last *lastWrite, stats *DrainStats) {
	stats.Tasks++
	if task.Kind >= numUpdateKinds {
		q.log.Warn("unknown update task kind", "kind", int(task.Kind))
		return
	}
	b := &binders[task.Kind]

	if err := guard.Begin(task); err != nil {
		stats.NestedWrite++
		cur, _ := guard.Current()
		q.log.Error("update task skipped", "kind", task.Kind.String(), "ref", task.Ref.String(),
			"in_progress", cur.Kind.String(), "error", err)
		return
	}
	defer guard.End()

	want, err := evaluate(ev, b.typ, task.Ref)
	if err != nil {
		stats.EvalErrors++
		q.log.Warn("failed to evaluate "+b.label, "ref", task.Ref.String(), "error", err)
		return
	}
	cur := b.get(tk, task.Widget)
	if want == cur || (last != nil && last.ok && want == last.written && cur == last.observed) {
		stats.Unchanged++
		return
	}
	b.set(tk, task.Widget, want)
	stats.Writes++
	if last != nil {
		*last = lastWrite{written: want, observed: b.get(tk, task.Widget), ok: true}
	}
}
