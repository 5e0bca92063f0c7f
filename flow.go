package flowsync

import (
	"errors"
	"fmt"
)

// PropertyRef identifies a flow expression by (page, component, property).
type PropertyRef struct {
	Page      int
	Component int
	Property  int
}

func (r PropertyRef) String() string {
	return fmt.Sprintf("%d/%d/%d", r.Page, r.Component, r.Property)
}

// OutputRef identifies a component output that events propagate into.
type OutputRef struct {
	Page      int
	Component int
	Output    int
}

// Evaluator computes and assigns flow property values.
type Evaluator interface {
	EvaluateText(ref PropertyRef) (string, error)
	EvaluateInteger(ref PropertyRef) (int32, error)
	EvaluateBoolean(ref PropertyRef) (bool, error)

	AssignText(ref PropertyRef, v string) error
	AssignInteger(ref PropertyRef, v int32) error
	AssignBoolean(ref PropertyRef, v bool) error

	// PropagateValue fires a component output, scheduling whatever is
	// connected to it for the next flow step.
	PropagateValue(out OutputRef)
}

// Engine is the flow scheduler that owns timeline positions.
type Engine interface {
	// Step runs one flow tick.
	Step()
	// TimelinePosition returns the authoritative timeline position of a
	// page's flow state.
	TimelinePosition(page int) float64
	Stopped() bool
	// PageChanged is invoked whenever the active page switches. from is
	// NoPage on the first switch.
	PageChanged(from, to int)
}

// NoPage marks the absence of an active page.
const NoPage = -1

// EvaluationError reports a flow expression that failed to evaluate or assign.
type EvaluationError struct {
	Ref PropertyRef
	Err error
}

func (e *EvaluationError) Error() string {
	return fmt.Sprintf("evaluate %s: %v", e.Ref, e.Err)
}

func (e *EvaluationError) Unwrap() error { return e.Err }

var (
	// ErrUnknownIndex is returned by ObjectByIndex when no live widget is
	// registered under the requested index.
	ErrUnknownIndex = errors.New("flowsync: unknown object index")

	// ErrNestedWrite is returned by WriteGuard.Begin when a write is already
	// in progress.
	ErrNestedWrite = errors.New("flowsync: nested guarded write")
)
