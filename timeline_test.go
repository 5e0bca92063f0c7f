package flowsync

import "testing"

// newAnimated returns a tree with one panel at the given geometry and
// opacity, and an animator to register keyframes on.
func newAnimated(x, y, w, h, opacity int32) (*Tree, Handle, *Animator) {
	tree := NewTree()
	wh := tree.NewWidget(KindPanel, "w", 0)
	tree.SetStyleProp(wh, StyleX, x)
	tree.SetStyleProp(wh, StyleY, y)
	tree.SetStyleProp(wh, StyleWidth, w)
	tree.SetStyleProp(wh, StyleHeight, h)
	tree.SetStyleProp(wh, StyleOpacity, opacity)
	return tree, wh, &Animator{}
}

// --- Opacity fade ---

func TestEvaluateOpacityFade(t *testing.T) {
	tree, h, a := newAnimated(0, 0, 10, 10, 0)
	tl := a.AddKeyframe(h, 0, Keyframe{Start: 0, End: 1}.Set(PropOpacity, 1, EaseLinear))

	tests := []struct {
		pos  float64
		want int32
	}{
		{0, 0},
		{0.5, 128},
		{1.0, 255},
		{1.5, 255},
	}
	for _, tt := range tests {
		tl.evaluate(tree, tt.pos)
		assertStyle(t, tree, h, StyleOpacity, tt.want)
	}
}

func TestEvaluateFirstCallAtZeroWrites(t *testing.T) {
	spy := newSpy()
	h := spy.NewWidget(KindPanel, "w", 0)
	a := &Animator{}
	tl := a.AddKeyframe(h, 0, Keyframe{Start: 0, End: 1}.Set(PropX, 100, EaseLinear))

	if !tl.evaluate(spy, 0) {
		t.Fatal("first evaluate at 0 should write")
	}
	if spy.styleWrites != int(NumAnimProps) {
		t.Errorf("styleWrites = %d, want %d", spy.styleWrites, NumAnimProps)
	}
	if spy.layouts != 1 {
		t.Errorf("layouts = %d, want 1", spy.layouts)
	}
}

// --- Window boundaries ---

func TestEvaluateZeroLengthKeyframe(t *testing.T) {
	tree, h, a := newAnimated(0, 0, 10, 10, 255)
	tl := a.AddKeyframe(h, 0, Keyframe{Start: 0.5, End: 0.5}.Set(PropX, 100, EaseLinear))

	tl.evaluate(tree, 0.4)
	assertStyle(t, tree, h, StyleX, 0)

	tl.evaluate(tree, 0.5)
	assertStyle(t, tree, h, StyleX, 100)

	tl.evaluate(tree, 0.9)
	assertStyle(t, tree, h, StyleX, 100)
}

func TestEvaluateBeforeEveryStartYieldsBase(t *testing.T) {
	tree, h, a := newAnimated(10, 20, 30, 40, 200)
	tl := a.AddKeyframe(h, 0, Keyframe{Start: 0.2, End: 0.6}.
		Set(PropX, 100, EaseLinear).
		Set(PropY, 100, EaseLinear).
		Set(PropOpacity, 0, EaseLinear))
	a.AddKeyframe(h, 0, Keyframe{Start: 0.6, End: 1}.Set(PropWidth, 300, EaseOutQuad))

	// Move the widget, then come back before every start.
	tl.evaluate(tree, 0.8)
	tl.evaluate(tree, 0.1)

	assertStyle(t, tree, h, StyleX, 10)
	assertStyle(t, tree, h, StyleY, 20)
	assertStyle(t, tree, h, StyleWidth, 30)
	assertStyle(t, tree, h, StyleHeight, 40)
	assertStyle(t, tree, h, StyleOpacity, 200)
	assertStyle(t, tree, h, StyleScale, ScaleNone)
	assertStyle(t, tree, h, StyleRotate, 0)
}

func TestEvaluatePastFinalEndYieldsTargets(t *testing.T) {
	tree, h, a := newAnimated(0, 0, 10, 10, 255)
	tl := a.AddKeyframe(h, 0, Keyframe{Start: 0, End: 0.5}.Set(PropX, 100, EaseInOutCubic))
	a.AddKeyframe(h, 0, Keyframe{Start: 0.5, End: 1}.
		Set(PropX, 200, EaseOutBounce).
		Set(PropY, 50, EaseInElastic).
		Set(PropScale, 512, EaseLinear).
		Set(PropRotate, 900, EaseInBack))

	tl.evaluate(tree, 2)

	assertStyle(t, tree, h, StyleX, 200)
	assertStyle(t, tree, h, StyleY, 50)
	assertStyle(t, tree, h, StyleScale, 512)
	assertStyle(t, tree, h, StyleRotate, 900)
	assertStyle(t, tree, h, StyleWidth, 10)
}

// --- Idempotence ---

func TestEvaluateSamePositionWritesOnce(t *testing.T) {
	spy := newSpy()
	h := spy.NewWidget(KindPanel, "w", 0)
	a := &Animator{}
	tl := a.AddKeyframe(h, 0, Keyframe{Start: 0, End: 1}.Set(PropX, 100, EaseLinear))

	if !tl.evaluate(spy, 0.3) {
		t.Fatal("first evaluate should write")
	}
	writes := spy.styleWrites
	if tl.evaluate(spy, 0.3) {
		t.Error("second evaluate at the same position should not write")
	}
	if spy.styleWrites != writes {
		t.Errorf("styleWrites = %d, want %d", spy.styleWrites, writes)
	}
}

func TestEvaluateBaseCapturedOnce(t *testing.T) {
	tree, h, a := newAnimated(10, 0, 10, 10, 255)
	tl := a.AddKeyframe(h, 0, Keyframe{Start: 0.5, End: 1}.Set(PropX, 100, EaseLinear))

	tl.evaluate(tree, 0.75)
	tree.SetStyleProp(h, StyleX, 999)
	tl.evaluate(tree, 0.1)

	base, ok := tl.Base()
	if !ok {
		t.Fatal("base should be captured")
	}
	if base[PropX] != 10 {
		t.Errorf("base x = %v, want 10", base[PropX])
	}
	assertStyle(t, tree, h, StyleX, 10)
}

// --- Curves ---

func TestEvaluateQuadraticBezier(t *testing.T) {
	tree, h, a := newAnimated(0, 0, 10, 10, 255)
	tl := a.AddKeyframe(h, 0, Keyframe{Start: 0, End: 1}.
		Set(PropX, 100, EaseLinear).
		WithCP1(50, 0))

	tl.evaluate(tree, 0.5)
	// 0.25*0 + 0.5*50 + 0.25*100
	assertStyle(t, tree, h, StyleX, 50)
}

func TestEvaluateChainedQuadraticBezier(t *testing.T) {
	tree, h, a := newAnimated(0, 0, 10, 10, 255)
	a.AddKeyframe(h, 0, Keyframe{Start: 0, End: 0.5}.
		Set(PropX, 100, EaseLinear).
		WithCP1(50, 0))
	tl := a.AddKeyframe(h, 0, Keyframe{Start: 0.5, End: 1}.
		Set(PropX, 0, EaseLinear).
		WithCP1(50, 0))

	tests := []struct {
		pos  float64
		want int32
	}{
		{0.25, 50},
		{0.5, 100},
		{0.75, 50},
		{1.5, 0},
	}
	for _, tt := range tests {
		tl.evaluate(tree, tt.pos)
		assertStyle(t, tree, h, StyleX, tt.want)
	}
}

func TestEvaluateCubicBezier(t *testing.T) {
	tree, h, a := newAnimated(0, 0, 10, 10, 255)
	tl := a.AddKeyframe(h, 0, Keyframe{Start: 0, End: 1}.
		Set(PropX, 100, EaseLinear).
		Set(PropY, 100, EaseLinear).
		WithCP1(100, 0).
		WithCP2(100, 0))

	tl.evaluate(tree, 0.5)
	// 0.375*100 + 0.375*100 + 0.125*100 = 87.5
	assertStyle(t, tree, h, StyleX, 88)
	// 0.125*100 = 12.5
	assertStyle(t, tree, h, StyleY, 13)
}

func TestEvaluatePerPropertyEasing(t *testing.T) {
	tree, h, a := newAnimated(0, 0, 0, 0, 255)
	tl := a.AddKeyframe(h, 0, Keyframe{Start: 0, End: 1}.
		Set(PropX, 100, EaseLinear).
		Set(PropWidth, 100, EaseInQuad))

	tl.evaluate(tree, 0.5)
	assertStyle(t, tree, h, StyleX, 50)
	assertStyle(t, tree, h, StyleWidth, 25)
}

func TestEvaluateScalarsBlendFromCarriedValue(t *testing.T) {
	tree, h, a := newAnimated(0, 0, 0, 0, 255)
	tl := a.AddKeyframe(h, 0, Keyframe{Start: 0, End: 0.5}.Set(PropWidth, 100, EaseLinear))
	a.AddKeyframe(h, 0, Keyframe{Start: 0.5, End: 1}.Set(PropWidth, 200, EaseLinear))

	tl.evaluate(tree, 0.75)
	assertStyle(t, tree, h, StyleWidth, 150)
}

// --- Ordering ---

func TestEvaluateOverlapResolvesByAuthoringOrder(t *testing.T) {
	tests := []struct {
		name   string
		first  float64
		second float64
		want   int32
	}{
		{"low first", 100, 300, 50},
		{"high first", 300, 100, 150},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree, h, a := newAnimated(0, 0, 10, 10, 255)
			tl := a.AddKeyframe(h, 0, Keyframe{Start: 0, End: 1}.Set(PropX, tt.first, EaseLinear))
			a.AddKeyframe(h, 0, Keyframe{Start: 0, End: 1}.Set(PropX, tt.second, EaseLinear))

			tl.evaluate(tree, 0.5)
			assertStyle(t, tree, h, StyleX, tt.want)
		})
	}
}

func TestEvaluateSkipsLaterKeyframeWithoutStopping(t *testing.T) {
	tree, h, a := newAnimated(0, 0, 10, 10, 255)
	// Authored out of time order: the first keyframe has not started yet,
	// the second is active.
	tl := a.AddKeyframe(h, 0, Keyframe{Start: 0.5, End: 1}.Set(PropX, 100, EaseLinear))
	a.AddKeyframe(h, 0, Keyframe{Start: 0, End: 0.4}.Set(PropY, 80, EaseLinear))

	tl.evaluate(tree, 0.2)
	assertStyle(t, tree, h, StyleX, 0)
	assertStyle(t, tree, h, StyleY, 40)
}

// --- Allocations ---

func TestEvaluateZeroAllocs(t *testing.T) {
	tree, h, a := newAnimated(0, 0, 10, 10, 255)
	tl := a.AddKeyframe(h, 0, Keyframe{Start: 0, End: 0.5}.
		Set(PropX, 100, EaseOutQuad).
		Set(PropOpacity, 0, EaseLinear).
		WithCP1(50, 50))
	a.AddKeyframe(h, 0, Keyframe{Start: 0.5, End: 1}.Set(PropScale, 512, EaseInOutSine))
	tl.evaluate(tree, 0)

	pos := 0.0
	allocs := testing.AllocsPerRun(100, func() {
		pos += 0.005
		tl.evaluate(tree, pos)
	})
	if allocs > 0 {
		t.Errorf("evaluate allocated %.1f times per run, want 0", allocs)
	}
}
