package flowsync

import "github.com/tanema/gween/ease"

// Easing selects an easing function by its authored id. The numbering is part
// of the project format and must not change.
type Easing uint8

const (
	EaseLinear Easing = iota
	EaseInQuad
	EaseOutQuad
	EaseInOutQuad
	EaseInCubic
	EaseOutCubic
	EaseInOutCubic
	EaseInQuart
	EaseOutQuart
	EaseInOutQuart
	EaseInQuint
	EaseOutQuint
	EaseInOutQuint
	EaseInSine
	EaseOutSine
	EaseInOutSine
	EaseInExpo
	EaseOutExpo
	EaseInOutExpo
	EaseInCirc
	EaseOutCirc
	EaseInOutCirc
	EaseInBack
	EaseOutBack
	EaseInOutBack
	EaseInElastic
	EaseOutElastic
	EaseInOutElastic
	EaseInBounce
	EaseOutBounce
	EaseInOutBounce

	numEasings
)

type easingEntry struct {
	name string
	fn   ease.TweenFunc
}

var easings = [numEasings]easingEntry{
	EaseLinear:       {"linear", ease.Linear},
	EaseInQuad:       {"inQuad", ease.InQuad},
	EaseOutQuad:      {"outQuad", ease.OutQuad},
	EaseInOutQuad:    {"inOutQuad", ease.InOutQuad},
	EaseInCubic:      {"inCubic", ease.InCubic},
	EaseOutCubic:     {"outCubic", ease.OutCubic},
	EaseInOutCubic:   {"inOutCubic", ease.InOutCubic},
	EaseInQuart:      {"inQuart", ease.InQuart},
	EaseOutQuart:     {"outQuart", ease.OutQuart},
	EaseInOutQuart:   {"inOutQuart", ease.InOutQuart},
	EaseInQuint:      {"inQuint", ease.InQuint},
	EaseOutQuint:     {"outQuint", ease.OutQuint},
	EaseInOutQuint:   {"inOutQuint", ease.InOutQuint},
	EaseInSine:       {"inSine", ease.InSine},
	EaseOutSine:      {"outSine", ease.OutSine},
	EaseInOutSine:    {"inOutSine", ease.InOutSine},
	EaseInExpo:       {"inExpo", ease.InExpo},
	EaseOutExpo:      {"outExpo", ease.OutExpo},
	EaseInOutExpo:    {"inOutExpo", ease.InOutExpo},
	EaseInCirc:       {"inCirc", ease.InCirc},
	EaseOutCirc:      {"outCirc", ease.OutCirc},
	EaseInOutCirc:    {"inOutCirc", ease.InOutCirc},
	EaseInBack:       {"inBack", ease.InBack},
	EaseOutBack:      {"outBack", ease.OutBack},
	EaseInOutBack:    {"inOutBack", ease.InOutBack},
	EaseInElastic:    {"inElastic", ease.InElastic},
	EaseOutElastic:   {"outElastic", ease.OutElastic},
	EaseInOutElastic: {"inOutElastic", ease.InOutElastic},
	EaseInBounce:     {"inBounce", ease.InBounce},
	EaseOutBounce:    {"outBounce", ease.OutBounce},
	EaseInOutBounce:  {"inOutBounce", ease.InOutBounce},
}

// Apply maps normalized progress t in [0, 1] to eased progress. Unknown ids
// fall back to linear.
func (e Easing) Apply(t float64) float64 {
	if e >= numEasings {
		return t
	}
	return float64(easings[e].fn(float32(t), 0, 1, 1))
}

// TweenFunc returns the gween easing function for e, for callers driving a
// gween.Tween directly.
func (e Easing) TweenFunc() ease.TweenFunc {
	if e >= numEasings {
		return ease.Linear
	}
	return easings[e].fn
}

func (e Easing) String() string {
	if e >= numEasings {
		return "unknown"
	}
	return easings[e].name
}

// ParseEasing returns the Easing with the given name ("linear", "outQuad", ...).
func ParseEasing(name string) (Easing, bool) {
	for i := range easings {
		if easings[i].name == name {
			return Easing(i), true
		}
	}
	return 0, false
}
