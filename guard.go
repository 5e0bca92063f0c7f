package flowsync

// WriteGuard marks the UpdateTask whose widget write is in progress. Change
// handlers consult it to tell flow-originated writes, which they must not
// forward, from user interaction, which they must.
//
// The guard is a single non-reentrant slot. Each Runtime owns one and passes
// it by pointer, so independent runtimes never observe each other's writes.
type WriteGuard struct {
	task   UpdateTask
	active bool
}

// Begin marks task as being written. It returns ErrNestedWrite, leaving the
// current task in place, if another write has not ended.
func (g *WriteGuard) Begin(task UpdateTask) error {
	if g.active {
		return ErrNestedWrite
	}
	g.task = task
	g.active = true
	return nil
}

// End clears the slot.
func (g *WriteGuard) End() {
	g.task = UpdateTask{}
	g.active = false
}

// Current returns the task being written, if any.
func (g *WriteGuard) Current() (UpdateTask, bool) {
	return g.task, g.active
}

// Suppresses reports whether an event from widget was caused by the write in
// progress.
func (g *WriteGuard) Suppresses(widget Handle) bool {
	return g.active && g.task.Widget == widget
}
