package flowsync

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/phanxgames/flowsync/internal/logging"
)

// Flow is a flow engine that also evaluates its own properties.
type Flow interface {
	Engine
	Evaluator
}

// Config configures a Runtime.
type Config struct {
	// Debug logs per-tick statistics at debug level.
	Debug bool
	// Logger overrides the module logger.
	Logger *slog.Logger
}

// PageTransition describes how the toolkit should animate a screen load.
type PageTransition struct {
	AnimType uint32
	Speed    uint32
	Delay    uint32
}

// Runtime reconciles one flow with one widget tree. Each Tick runs the flow
// step, the animation pass and the update-task drain, in that order.
//
// Runtime is single-threaded: Tick, the registration methods and the toolkit's
// event delivery must all happen on the same goroutine.
type Runtime struct {
	tk   Toolkit
	flow Flow

	animator Animator
	queue    *UpdateQueue
	guard    WriteGuard
	watches  []watch
	sink     EventSink

	objects    map[int32]Handle
	page       int
	transition PageTransition

	log   *slog.Logger
	debug bool

	// Counted by change handlers between ticks.
	suppressed int
	forwarded  int
	last       TickStats
}

// NewRuntime creates a runtime driving tk from flow.
func NewRuntime(tk Toolkit, flow Flow, cfg Config) *Runtime {
	log := cfg.Logger
	if log == nil {
		log = logging.WithModule("flowsync")
	}
	return &Runtime{
		tk:      tk,
		flow:    flow,
		queue:   NewUpdateQueue(log),
		objects: make(map[int32]Handle),
		page:    NoPage,
		log:     log,
		debug:   cfg.Debug,
	}
}

// Tick runs one reconciliation pass. It returns false, doing nothing, once
// the flow has stopped.
func (r *Runtime) Tick() bool {
	if r.flow.Stopped() {
		return false
	}

	var stats TickStats
	t0 := time.Now()

	r.flow.Step()
	stats.StepTime = time.Since(t0)

	// A flow step may stop the flow; nothing more runs in that case.
	if r.flow.Stopped() {
		return false
	}

	t0 = time.Now()
	stats.Animated = r.animator.Tick(r.tk, r.flow, r.page)
	stats.AnimateTime = time.Since(t0)

	t0 = time.Now()
	stats.Drain = r.queue.Drain(r.tk, r.flow, &r.guard)
	stats.DrainTime = time.Since(t0)

	r.pruneWatches()

	stats.Suppressed, stats.Forwarded = r.suppressed, r.forwarded
	r.suppressed, r.forwarded = 0, 0
	r.last = stats

	if r.debug {
		r.debugLog(stats)
	}
	return true
}

// Stats returns the statistics of the last completed Tick.
func (r *Runtime) Stats() TickStats {
	return r.last
}

// Guard returns the runtime's write guard.
func (r *Runtime) Guard() *WriteGuard {
	return &r.guard
}

// Animator returns the runtime's animation driver.
func (r *Runtime) Animator() *Animator {
	return &r.animator
}

// Queue returns the runtime's update-task queue.
func (r *Runtime) Queue() *UpdateQueue {
	return r.queue
}

// SetEventSink sets the optional receiver of forwarded user events.
func (r *Runtime) SetEventSink(sink EventSink) {
	r.sink = sink
}

// SetDebugMode enables or disables per-tick statistics logging.
func (r *Runtime) SetDebugMode(enabled bool) {
	r.debug = enabled
}

// --- Registration ---

// AddKeyframe appends a keyframe to the widget's timeline.
func (r *Runtime) AddKeyframe(widget Handle, page int, kf Keyframe) {
	r.animator.AddKeyframe(widget, page, kf)
}

// Bind registers a recurring flow-to-widget binding.
func (r *Runtime) Bind(kind UpdateKind, widget Handle, ref PropertyRef) {
	r.queue.Bind(kind, widget, ref)
}

// Enqueue schedules a one-shot update applied at the end of the next Tick.
func (r *Runtime) Enqueue(kind UpdateKind, widget Handle, ref PropertyRef) {
	r.queue.Enqueue(kind, widget, ref)
}

// Scrub applies position to every registered timeline regardless of page,
// for editor preview. It returns the number of timelines that wrote.
func (r *Runtime) Scrub(position float64) int {
	return r.animator.Scrub(r.tk, position)
}

// --- Pages ---

// CurrentPage returns the active page index, or NoPage.
func (r *Runtime) CurrentPage() int {
	return r.page
}

// Transition returns the transition of the most recent ReplacePage.
func (r *Runtime) Transition() PageTransition {
	return r.transition
}

// ReplacePage makes page active, notifying the engine and retargeting the
// page's timelines.
func (r *Runtime) ReplacePage(page int, tr PageTransition) {
	r.transition = tr
	from := r.page
	r.flow.PageChanged(from, page)
	r.page = page
	r.animator.PageActivated(page)
	r.log.Debug("page replaced", "from", from, "to", page, "anim", tr.AnimType)
}

// PageLoaded records that a page finished loading. The first loaded page
// becomes active when no page is.
func (r *Runtime) PageLoaded(page int) {
	if r.page == NoPage {
		r.page = page
		r.animator.PageActivated(page)
	}
}

// Restart drops every timeline, binding, pending task, watch and object
// index, as needed before reloading a page set.
func (r *Runtime) Restart() {
	r.animator.Clear()
	r.queue.Clear()
	r.clearWatches()
	clear(r.objects)
	r.page = NoPage
}

// --- Object index ---

// SetObjectIndex registers widget under index for flow-side lookups. An
// existing entry is replaced.
func (r *Runtime) SetObjectIndex(widget Handle, index int32) {
	r.objects[index] = widget
}

// ObjectByIndex returns the widget registered under index. It returns an
// error wrapping ErrUnknownIndex when the index is unknown or its widget has
// been destroyed.
func (r *Runtime) ObjectByIndex(index int32) (Handle, error) {
	h, ok := r.objects[index]
	if !ok {
		return 0, fmt.Errorf("object index %d: %w", index, ErrUnknownIndex)
	}
	if !r.tk.Alive(h) {
		delete(r.objects, index)
		return 0, fmt.Errorf("object index %d (destroyed): %w", index, ErrUnknownIndex)
	}
	return h, nil
}
