package flowsync

import "math"

// AnimProp indexes the properties a timeline can animate.
type AnimProp uint8

const (
	PropX AnimProp = iota
	PropY
	PropWidth
	PropHeight
	PropOpacity
	PropScale
	PropRotate

	// NumAnimProps is the number of animatable properties.
	NumAnimProps
)

// PropertyMask selects the properties a keyframe animates. The bit values are
// part of the project format.
type PropertyMask uint32

const (
	MaskX       PropertyMask = 1 << 0
	MaskY       PropertyMask = 1 << 1
	MaskWidth   PropertyMask = 1 << 2
	MaskHeight  PropertyMask = 1 << 3
	MaskOpacity PropertyMask = 1 << 4
	MaskScale   PropertyMask = 1 << 5
	MaskRotate  PropertyMask = 1 << 6
	MaskCP1     PropertyMask = 1 << 7 // first Bezier control point for x/y
	MaskCP2     PropertyMask = 1 << 8 // second Bezier control point for x/y
)

// Has reports whether every bit of m is set.
func (mask PropertyMask) Has(m PropertyMask) bool {
	return mask&m == m
}

// Mask returns the PropertyMask bit of p.
func (p AnimProp) Mask() PropertyMask {
	return 1 << p
}

// animStyle maps each animated property onto the styled property it writes.
var animStyle = [NumAnimProps]StyleProp{
	PropX:       StyleX,
	PropY:       StyleY,
	PropWidth:   StyleWidth,
	PropHeight:  StyleHeight,
	PropOpacity: StyleOpacity,
	PropScale:   StyleScale,
	PropRotate:  StyleRotate,
}

// Keyframe is a transition ending at End on a normalized timeline axis.
// Keyframes are immutable once added to a timeline.
type Keyframe struct {
	Start, End float64

	Enabled PropertyMask

	// Target holds the value each enabled property reaches at End. Opacity
	// is in 0..1; the other properties are in style units.
	Target [NumAnimProps]float64
	// Easing selects a per-property easing function.
	Easing [NumAnimProps]Easing

	CP1X, CP1Y float64
	CP2X, CP2Y float64
}

// Set enables p with the given target and easing and returns the keyframe for
// chaining.
func (k Keyframe) Set(p AnimProp, target float64, e Easing) Keyframe {
	k.Enabled |= p.Mask()
	k.Target[p] = target
	k.Easing[p] = e
	return k
}

// WithCP1 sets the first control point, making x/y quadratic Bezier curves.
func (k Keyframe) WithCP1(x, y float64) Keyframe {
	k.Enabled |= MaskCP1
	k.CP1X, k.CP1Y = x, y
	return k
}

// WithCP2 sets the second control point, making x/y cubic Bezier curves.
func (k Keyframe) WithCP2(x, y float64) Keyframe {
	k.Enabled |= MaskCP2
	k.CP2X, k.CP2Y = x, y
	return k
}

// WidgetTimeline is the authored animation of one widget. Its first
// evaluation always writes, even at position 0; after that a position equal
// to the previous one writes nothing.
type WidgetTimeline struct {
	Widget Handle
	Page   int

	// keyframes are kept in authoring order and never sorted. Overlapping
	// windows resolve by list order.
	keyframes []Keyframe

	base         [NumAnimProps]float64
	initialized  bool
	lastPosition float64
}

func newWidgetTimeline(h Handle, page int) *WidgetTimeline {
	return &WidgetTimeline{Widget: h, Page: page, lastPosition: math.NaN()}
}

// Keyframes returns the keyframes in authoring order. The returned slice MUST
// NOT be mutated by the caller.
func (tl *WidgetTimeline) Keyframes() []Keyframe {
	return tl.keyframes
}

// Base returns the captured pre-animation values and whether they have been
// captured yet.
func (tl *WidgetTimeline) Base() ([NumAnimProps]float64, bool) {
	return tl.base, tl.initialized
}

// invalidate forces the next evaluation to write even if the position has not
// moved. Base values are kept.
func (tl *WidgetTimeline) invalidate() {
	tl.lastPosition = math.NaN()
}

// capture snapshots the widget's current styled values as the base.
func (tl *WidgetTimeline) capture(tk Toolkit) {
	for p := AnimProp(0); p < NumAnimProps; p++ {
		v := float64(tk.StyleProp(tl.Widget, animStyle[p]))
		if p == PropOpacity {
			v /= OpacityCover
		}
		tl.base[p] = v
	}
	tl.initialized = true
}

// evaluate applies the timeline at position to the widget. It reports whether
// anything was written. The widget must be alive.
func (tl *WidgetTimeline) evaluate(tk Toolkit, position float64) bool {
	if !tl.initialized {
		tl.capture(tk)
	}
	if position == tl.lastPosition {
		return false
	}

	v := tl.base

	for i := range tl.keyframes {
		kf := &tl.keyframes[i]

		if position < kf.Start {
			continue
		}

		if position <= kf.End {
			t := 1.0
			if kf.Start != kf.End {
				t = (position - kf.Start) / (kf.End - kf.Start)
			}
			applyActive(kf, &v, t)
			break
		}

		// Elapsed: play it through.
		for p := AnimProp(0); p < NumAnimProps; p++ {
			if kf.Enabled&p.Mask() != 0 {
				v[p] = kf.Target[p]
			}
		}
	}

	for p := AnimProp(0); p < NumAnimProps; p++ {
		x := v[p]
		if p == PropOpacity {
			x *= OpacityCover
		}
		tk.SetStyleProp(tl.Widget, animStyle[p], int32(math.Round(x)))
	}
	tk.UpdateLayout(tl.Widget)

	tl.lastPosition = position
	return true
}

// applyActive blends the working values toward kf's targets at local progress
// t. Scalars move incrementally from the value carried into the keyframe.
func applyActive(kf *Keyframe, v *[NumAnimProps]float64, t float64) {
	if kf.Enabled&MaskX != 0 {
		v[PropX] = curve(kf, v[PropX], kf.CP1X, kf.CP2X, kf.Target[PropX], kf.Easing[PropX].Apply(t))
	}
	if kf.Enabled&MaskY != 0 {
		v[PropY] = curve(kf, v[PropY], kf.CP1Y, kf.CP2Y, kf.Target[PropY], kf.Easing[PropY].Apply(t))
	}
	for p := PropWidth; p < NumAnimProps; p++ {
		if kf.Enabled&p.Mask() != 0 {
			v[p] += kf.Easing[p].Apply(t) * (kf.Target[p] - v[p])
		}
	}
}

// curve interpolates a positional property: cubic Bezier with CP2, quadratic
// with CP1 only, otherwise linear.
func curve(kf *Keyframe, p1, cp1, cp2, target, t float64) float64 {
	u := 1 - t
	switch {
	case kf.Enabled&MaskCP2 != 0:
		return u*u*u*p1 + 3*u*u*t*cp1 + 3*u*t*t*cp2 + t*t*t*target
	case kf.Enabled&MaskCP1 != 0:
		return u*u*p1 + 2*u*t*cp1 + t*t*target
	default:
		return u*p1 + t*target
	}
}
