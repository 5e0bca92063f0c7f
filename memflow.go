package flowsync

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/tanema/gween"
)

var (
	errUndefined     = errors.New("undefined property")
	errNotAssignable = errors.New("property is not assignable")
)

// Expr computes a property value from the flow's current state.
type Expr func(f *MemoryFlow) (Value, error)

// propSource is where a property's value comes from: a literal, a named
// variable, or an expression.
type propSource struct {
	literal  Value
	variable string
	expr     Expr
}

// Assignment records a value written into the flow.
type Assignment struct {
	Ref   PropertyRef
	Value Value
}

// DefaultFrameRate is the step rate of a MemoryFlow created with zero rate.
const DefaultFrameRate = 60

// MemoryFlow is an in-memory flow engine and evaluator. Properties resolve to
// literals, variables or expressions; component outputs run connected
// actions on the step after they fire; per-page timeline positions can be set
// directly or played with an easing tween.
type MemoryFlow struct {
	props     map[PropertyRef]propSource
	vars      map[string]Value
	positions map[int]float64
	playing   map[int]*gween.Tween
	actions   map[OutputRef][]func(f *MemoryFlow)
	onStep    []func(f *MemoryFlow)

	fired       []OutputRef
	assignments []Assignment
	pageChanges [][2]int

	frameRate int
	clock     time.Duration
	steps     int
	stopped   bool
}

// NewMemoryFlow creates a flow stepping at frameRate steps per second. A zero
// rate uses DefaultFrameRate.
func NewMemoryFlow(frameRate int) *MemoryFlow {
	if frameRate <= 0 {
		frameRate = DefaultFrameRate
	}
	return &MemoryFlow{
		props:     make(map[PropertyRef]propSource),
		vars:      make(map[string]Value),
		positions: make(map[int]float64),
		playing:   make(map[int]*gween.Tween),
		actions:   make(map[OutputRef][]func(f *MemoryFlow)),
		frameRate: frameRate,
	}
}

// --- Properties and variables ---

// Set makes ref evaluate to a literal value.
func (f *MemoryFlow) Set(ref PropertyRef, v Value) {
	f.props[ref] = propSource{literal: v}
}

// SetExpr makes ref evaluate through an expression. Expression properties are
// not assignable.
func (f *MemoryFlow) SetExpr(ref PropertyRef, e Expr) {
	f.props[ref] = propSource{expr: e}
}

// BindVariable makes ref read and write the named variable.
func (f *MemoryFlow) BindVariable(ref PropertyRef, name string) {
	f.props[ref] = propSource{variable: name}
}

// SetVariable sets a variable value.
func (f *MemoryFlow) SetVariable(name string, v Value) {
	f.vars[name] = v
}

// Variable returns a variable value.
func (f *MemoryFlow) Variable(name string) (Value, bool) {
	v, ok := f.vars[name]
	return v, ok
}

// Value resolves ref without type conversion.
func (f *MemoryFlow) Value(ref PropertyRef) (Value, error) {
	src, ok := f.props[ref]
	if !ok {
		return Value{}, &EvaluationError{Ref: ref, Err: errUndefined}
	}
	var (
		v   Value
		err error
	)
	switch {
	case src.expr != nil:
		v, err = src.expr(f)
	case src.variable != "":
		var found bool
		if v, found = f.vars[src.variable]; !found {
			err = fmt.Errorf("variable %q: %w", src.variable, errUndefined)
		}
	default:
		v = src.literal
	}
	if err != nil {
		return Value{}, &EvaluationError{Ref: ref, Err: err}
	}
	return v, nil
}

// EvaluateText resolves ref as text. Integers and booleans are formatted.
func (f *MemoryFlow) EvaluateText(ref PropertyRef) (string, error) {
	v, err := f.Value(ref)
	if err != nil {
		return "", err
	}
	switch v.Type {
	case TypeText:
		return v.Text, nil
	case TypeInteger:
		return strconv.FormatInt(int64(v.Int), 10), nil
	case TypeBoolean:
		return strconv.FormatBool(v.Bool), nil
	}
	return "", &EvaluationError{Ref: ref, Err: errUndefined}
}

// EvaluateInteger resolves ref as an integer. Text must parse as a decimal
// integer; booleans become 0 or 1.
func (f *MemoryFlow) EvaluateInteger(ref PropertyRef) (int32, error) {
	v, err := f.Value(ref)
	if err != nil {
		return 0, err
	}
	switch v.Type {
	case TypeInteger:
		return v.Int, nil
	case TypeBoolean:
		if v.Bool {
			return 1, nil
		}
		return 0, nil
	case TypeText:
		i, err := strconv.ParseInt(v.Text, 10, 32)
		if err != nil {
			return 0, &EvaluationError{Ref: ref, Err: fmt.Errorf("convert %q to integer: %w", v.Text, err)}
		}
		return int32(i), nil
	}
	return 0, &EvaluationError{Ref: ref, Err: errUndefined}
}

// EvaluateBoolean resolves ref as a boolean. Integers are true when non-zero;
// text must parse with strconv.ParseBool.
func (f *MemoryFlow) EvaluateBoolean(ref PropertyRef) (bool, error) {
	v, err := f.Value(ref)
	if err != nil {
		return false, err
	}
	switch v.Type {
	case TypeBoolean:
		return v.Bool, nil
	case TypeInteger:
		return v.Int != 0, nil
	case TypeText:
		b, err := strconv.ParseBool(v.Text)
		if err != nil {
			return false, &EvaluationError{Ref: ref, Err: fmt.Errorf("convert %q to boolean: %w", v.Text, err)}
		}
		return b, nil
	}
	return false, &EvaluationError{Ref: ref, Err: errUndefined}
}

// AssignText assigns a text value to ref.
func (f *MemoryFlow) AssignText(ref PropertyRef, v string) error {
	return f.assign(ref, TextValue(v))
}

// AssignInteger assigns an integer value to ref.
func (f *MemoryFlow) AssignInteger(ref PropertyRef, v int32) error {
	return f.assign(ref, IntValue(v))
}

// AssignBoolean assigns a boolean value to ref.
func (f *MemoryFlow) AssignBoolean(ref PropertyRef, v bool) error {
	return f.assign(ref, BoolValue(v))
}

func (f *MemoryFlow) assign(ref PropertyRef, v Value) error {
	src, ok := f.props[ref]
	switch {
	case ok && src.expr != nil:
		return &EvaluationError{Ref: ref, Err: errNotAssignable}
	case ok && src.variable != "":
		f.vars[src.variable] = v
	default:
		f.props[ref] = propSource{literal: v}
	}
	f.assignments = append(f.assignments, Assignment{Ref: ref, Value: v})
	return nil
}

// Assignments returns every value assigned so far, in order.
func (f *MemoryFlow) Assignments() []Assignment {
	return f.assignments
}

// --- Outputs ---

// Connect runs action on the step after out fires.
func (f *MemoryFlow) Connect(out OutputRef, action func(f *MemoryFlow)) {
	f.actions[out] = append(f.actions[out], action)
}

// PropagateValue fires out. Connected actions run on the next Step.
func (f *MemoryFlow) PropagateValue(out OutputRef) {
	f.fired = append(f.fired, out)
}

// OnStep registers a function run at the end of every Step.
func (f *MemoryFlow) OnStep(fn func(f *MemoryFlow)) {
	f.onStep = append(f.onStep, fn)
}

// --- Timeline ---

// TimelinePosition returns the page's timeline position, zero if never set.
func (f *MemoryFlow) TimelinePosition(page int) float64 {
	return f.positions[page]
}

// SetTimelinePosition sets the page's timeline position and cancels any
// playback on that page.
func (f *MemoryFlow) SetTimelinePosition(page int, position float64) {
	delete(f.playing, page)
	f.positions[page] = position
}

// PlayTimeline moves the page's timeline position from one value to another
// over duration, shaped by e. The position advances on each Step.
func (f *MemoryFlow) PlayTimeline(page int, from, to float64, duration time.Duration, e Easing) {
	f.positions[page] = from
	f.playing[page] = gween.New(float32(from), float32(to), float32(duration.Seconds()), e.TweenFunc())
}

// Playing reports whether the page's timeline is being played.
func (f *MemoryFlow) Playing(page int) bool {
	_, ok := f.playing[page]
	return ok
}

// --- Engine ---

// Step advances the clock by one frame, advances timeline playback, runs the
// actions of outputs fired since the last step, then the OnStep functions.
func (f *MemoryFlow) Step() {
	if f.stopped {
		return
	}
	dt := time.Second / time.Duration(f.frameRate)
	f.clock += dt
	f.steps++

	for page, tw := range f.playing {
		pos, done := tw.Update(float32(dt.Seconds()))
		f.positions[page] = float64(pos)
		if done {
			delete(f.playing, page)
		}
	}

	fired := f.fired
	f.fired = nil
	for _, out := range fired {
		for _, action := range f.actions[out] {
			action(f)
		}
	}

	for _, fn := range f.onStep {
		fn(f)
	}
}

// Clock returns the time accumulated by Step.
func (f *MemoryFlow) Clock() time.Duration {
	return f.clock
}

// Steps returns the number of steps run.
func (f *MemoryFlow) Steps() int {
	return f.steps
}

// Stop stops the flow. Stopped flows do not step.
func (f *MemoryFlow) Stop() {
	f.stopped = true
}

// Stopped reports whether the flow was stopped.
func (f *MemoryFlow) Stopped() bool {
	return f.stopped
}

// PageChanged records a page switch.
func (f *MemoryFlow) PageChanged(from, to int) {
	f.pageChanges = append(f.pageChanges, [2]int{from, to})
}

// PageChanges returns the recorded page switches as (from, to) pairs.
func (f *MemoryFlow) PageChanges() [][2]int {
	return f.pageChanges
}
