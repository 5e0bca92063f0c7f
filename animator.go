package flowsync

// Animator drives widget timelines. It owns the registered WidgetTimelines
// but not the timeline position, which belongs to the flow engine.
type Animator struct {
	timelines []*WidgetTimeline
}

// AddKeyframe appends kf to the widget's timeline, registering a new timeline
// on page if the widget has none yet. An existing timeline keeps its page.
func (a *Animator) AddKeyframe(widget Handle, page int, kf Keyframe) *WidgetTimeline {
	for _, tl := range a.timelines {
		if tl.Widget == widget {
			tl.keyframes = append(tl.keyframes, kf)
			return tl
		}
	}
	tl := newWidgetTimeline(widget, page)
	tl.keyframes = append(tl.keyframes, kf)
	a.timelines = append(a.timelines, tl)
	return tl
}

// Timeline returns the widget's timeline, or nil.
func (a *Animator) Timeline(widget Handle) *WidgetTimeline {
	for _, tl := range a.timelines {
		if tl.Widget == widget {
			return tl
		}
	}
	return nil
}

// Len returns the number of registered timelines.
func (a *Animator) Len() int {
	return len(a.timelines)
}

// Clear drops every registered timeline.
func (a *Animator) Clear() {
	for i := range a.timelines {
		a.timelines[i] = nil
	}
	a.timelines = a.timelines[:0]
}

// Tick evaluates every timeline on page at the engine's timeline position for
// that page. It returns the number of timelines that wrote. A page of NoPage
// is a no-op.
func (a *Animator) Tick(tk Toolkit, engine Engine, page int) int {
	if page == NoPage {
		return 0
	}
	position := engine.TimelinePosition(page)
	return a.evaluate(tk, position, func(tl *WidgetTimeline) bool { return tl.Page == page })
}

// Scrub evaluates every timeline at position regardless of page.
func (a *Animator) Scrub(tk Toolkit, position float64) int {
	return a.evaluate(tk, position, nil)
}

// PageActivated invalidates the position cache of the page's timelines so the
// next Tick writes them again. Base values are kept.
func (a *Animator) PageActivated(page int) {
	for _, tl := range a.timelines {
		if tl.Page == page {
			tl.invalidate()
		}
	}
}

// evaluate runs match-selected timelines, dropping those whose widget was
// destroyed.
func (a *Animator) evaluate(tk Toolkit, position float64, match func(*WidgetTimeline) bool) int {
	writes := 0
	live := a.timelines[:0]
	for _, tl := range a.timelines {
		if !tk.Alive(tl.Widget) {
			continue
		}
		live = append(live, tl)
		if match != nil && !match(tl) {
			continue
		}
		if tl.evaluate(tk, position) {
			writes++
		}
	}
	for i := len(live); i < len(a.timelines); i++ {
		a.timelines[i] = nil
	}
	a.timelines = live
	return writes
}
