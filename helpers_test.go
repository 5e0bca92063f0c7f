package flowsync

import (
	"bytes"
	"io"
	"log/slog"
	"math"
	"testing"
)

// spyToolkit wraps a Tree and counts the writes made through the Toolkit
// interface.
type spyToolkit struct {
	*Tree

	styleWrites int
	textWrites  int
	intWrites   int
	stateWrites int
	flagWrites  int
	layouts     int
}

func newSpy() *spyToolkit {
	return &spyToolkit{Tree: NewTree()}
}

func (s *spyToolkit) SetStyleProp(h Handle, p StyleProp, v int32) {
	s.styleWrites++
	s.Tree.SetStyleProp(h, p, v)
}

func (s *spyToolkit) UpdateLayout(h Handle) {
	s.layouts++
	s.Tree.UpdateLayout(h)
}

func (s *spyToolkit) SetText(h Handle, f TextField, v string) {
	s.textWrites++
	s.Tree.SetText(h, f, v)
}

func (s *spyToolkit) SetInt(h Handle, f IntField, v int32) {
	s.intWrites++
	s.Tree.SetInt(h, f, v)
}

func (s *spyToolkit) AddState(h Handle, st State) {
	s.stateWrites++
	s.Tree.AddState(h, st)
}

func (s *spyToolkit) ClearState(h Handle, st State) {
	s.stateWrites++
	s.Tree.ClearState(h, st)
}

func (s *spyToolkit) AddFlag(h Handle, f Flag) {
	s.flagWrites++
	s.Tree.AddFlag(h, f)
}

func (s *spyToolkit) ClearFlag(h Handle, f Flag) {
	s.flagWrites++
	s.Tree.ClearFlag(h, f)
}

// fakeEngine is a minimal Engine with settable timeline positions.
type fakeEngine struct {
	positions map[int]float64
	steps     int
	stopped   bool
}

func newFakeEngine() *fakeEngine {
	return &fakeEngine{positions: make(map[int]float64)}
}

func (e *fakeEngine) Step()                             { e.steps++ }
func (e *fakeEngine) TimelinePosition(page int) float64 { return e.positions[page] }
func (e *fakeEngine) Stopped() bool                     { return e.stopped }
func (e *fakeEngine) PageChanged(from, to int)          {}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func bufferLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

// newTestRuntime returns a runtime over a fresh Tree and MemoryFlow.
func newTestRuntime() (*Runtime, *Tree, *MemoryFlow) {
	tree := NewTree()
	flow := NewMemoryFlow(0)
	rt := NewRuntime(tree, flow, Config{Logger: quietLogger()})
	return rt, tree, flow
}

func assertStyle(t *testing.T, tk Toolkit, h Handle, p StyleProp, want int32) {
	t.Helper()
	if got := tk.StyleProp(h, p); got != want {
		t.Errorf("style %d = %d, want %d", p, got, want)
	}
}

func approxEqual(a, b, eps float64) bool {
	return math.Abs(a-b) < eps
}
