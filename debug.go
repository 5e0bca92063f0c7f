package flowsync

import "time"

// TickStats holds per-tick timings and counters. Timings are always measured;
// they are only logged in debug mode.
type TickStats struct {
	StepTime    time.Duration
	AnimateTime time.Duration
	DrainTime   time.Duration

	Animated   int // timelines that wrote this tick
	Drain      DrainStats
	Suppressed int // change events swallowed by the write guard
	Forwarded  int // user changes pushed into the flow
}

// Total returns the time spent in the tick.
func (s TickStats) Total() time.Duration {
	return s.StepTime + s.AnimateTime + s.DrainTime
}

// debugLog writes the stats of one tick at debug level.
func (r *Runtime) debugLog(stats TickStats) {
	r.log.Debug("tick",
		"step", stats.StepTime,
		"animate", stats.AnimateTime,
		"drain", stats.DrainTime,
		"total", stats.Total(),
		"animated", stats.Animated,
		"tasks", stats.Drain.Tasks,
		"writes", stats.Drain.Writes,
		"unchanged", stats.Drain.Unchanged,
		"eval_errors", stats.Drain.EvalErrors,
		"stale", stats.Drain.Stale,
		"suppressed", stats.Suppressed,
		"forwarded", stats.Forwarded,
	)
	if stats.Drain.NestedWrite > 0 {
		r.log.Warn("nested guarded writes detected", "count", stats.Drain.NestedWrite)
	}
}
