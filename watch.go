package flowsync

// Trigger selects which widget events fire a flow output.
type Trigger uint8

const (
	TriggerValueChanged Trigger = iota // any value or checked-state change
	TriggerClicked
	TriggerPressed
	TriggerReleased
	TriggerChecked   // value changed and the widget is now checked
	TriggerUnchecked // value changed and the widget is now unchecked
)

var triggerNames = [...]string{
	TriggerValueChanged: "value_changed",
	TriggerClicked:      "clicked",
	TriggerPressed:      "pressed",
	TriggerReleased:     "released",
	TriggerChecked:      "checked",
	TriggerUnchecked:    "unchecked",
}

func (t Trigger) String() string {
	if int(t) < len(triggerNames) {
		return triggerNames[t]
	}
	return "unknown"
}

// ParseTrigger returns the Trigger with the given name.
func ParseTrigger(name string) (Trigger, bool) {
	for i, n := range triggerNames {
		if n == name {
			return Trigger(i), true
		}
	}
	return 0, false
}

// UserEvent describes a widget change that was forwarded into the flow.
type UserEvent struct {
	Widget Handle
	Event  EventKind

	// Set for watched values.
	Kind  UpdateKind
	Value Value
	Ref   PropertyRef

	// Set for triggers.
	Trigger Trigger
	Output  OutputRef
}

// EventSink receives every user-originated change forwarded into the flow.
type EventSink interface {
	EmitEvent(event UserEvent)
}

type watch struct {
	widget      Handle
	unsubscribe func()
}

// Watch forwards user changes of the widget's kind property into ref. Changes
// caused by the runtime's own update tasks are suppressed by the guard.
func (r *Runtime) Watch(kind UpdateKind, widget Handle, ref PropertyRef) {
	if kind >= numUpdateKinds || !r.tk.Alive(widget) {
		return
	}
	b := &binders[kind]
	unsub := r.tk.Subscribe(widget, func(ev ChangeEvent) {
		if ev.Kind != EventValueChanged {
			return
		}
		if r.guard.Suppresses(ev.Source) {
			r.suppressed++
			return
		}
		v := b.get(r.tk, ev.Source)
		if err := assign(r.flow, ref, v); err != nil {
			r.log.Warn("failed to assign "+b.label, "ref", ref.String(), "error", err)
			return
		}
		r.forwarded++
		if r.sink != nil {
			r.sink.EmitEvent(UserEvent{Widget: ev.Source, Event: ev.Kind, Kind: kind, Value: v, Ref: ref})
		}
	})
	r.watches = append(r.watches, watch{widget: widget, unsubscribe: unsub})
}

// Trigger propagates into out whenever the widget fires the trigger's event.
// Value-change triggers are suppressed while the runtime writes the widget.
func (r *Runtime) Trigger(widget Handle, trig Trigger, out OutputRef) {
	if !r.tk.Alive(widget) {
		return
	}
	unsub := r.tk.Subscribe(widget, func(ev ChangeEvent) {
		if !r.matches(trig, ev) {
			return
		}
		if ev.Kind == EventValueChanged && r.guard.Suppresses(ev.Source) {
			r.suppressed++
			return
		}
		r.flow.PropagateValue(out)
		r.forwarded++
		if r.sink != nil {
			r.sink.EmitEvent(UserEvent{Widget: ev.Source, Event: ev.Kind, Trigger: trig, Output: out})
		}
	})
	r.watches = append(r.watches, watch{widget: widget, unsubscribe: unsub})
}

func (r *Runtime) matches(trig Trigger, ev ChangeEvent) bool {
	switch trig {
	case TriggerValueChanged:
		return ev.Kind == EventValueChanged
	case TriggerClicked:
		return ev.Kind == EventClicked
	case TriggerPressed:
		return ev.Kind == EventPressed
	case TriggerReleased:
		return ev.Kind == EventReleased
	case TriggerChecked:
		return ev.Kind == EventValueChanged && r.tk.HasState(ev.Source, StateChecked)
	case TriggerUnchecked:
		return ev.Kind == EventValueChanged && !r.tk.HasState(ev.Source, StateChecked)
	}
	return false
}

// pruneWatches unsubscribes and forgets the watches of destroyed widgets.
func (r *Runtime) pruneWatches() {
	live := r.watches[:0]
	for _, w := range r.watches {
		if r.tk.Alive(w.widget) {
			live = append(live, w)
			continue
		}
		w.unsubscribe()
	}
	for i := len(live); i < len(r.watches); i++ {
		r.watches[i] = watch{}
	}
	r.watches = live
}

func (r *Runtime) clearWatches() {
	for _, w := range r.watches {
		w.unsubscribe()
	}
	r.watches = r.watches[:0]
}
