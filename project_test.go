package flowsync

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const testProject = `
frame_rate: 60
variables:
  - name: count
    type: integer
    value: 0
  - name: volume
    type: integer
    value: 25
  - name: muted
    type: boolean
pages:
  - name: main
    timeline:
      duration: 500ms
      easing: outQuad
    widgets:
      - name: title
        kind: label
        text: Hello
        x: 10
        y: 10
        width: 200
        height: 20
        opacity: 0
        keyframes:
          - start: 0
            end: 1
            opacity: {to: 1}
            y: {to: 40, easing: outBack}
      - name: counter
        kind: label
        index: 3
        bindings:
          - kind: label_text
            variable: count
      - name: inc
        kind: button
        x: 0
        y: 100
        width: 50
        height: 30
        triggers:
          - on: clicked
            actions:
              - increment: count
      - name: volume
        kind: slider
        y: 150
        width: 100
        height: 10
        bindings:
          - kind: slider_value
            variable: volume
        watches:
          - kind: slider_value
            variable: volume
      - name: mute
        kind: switch
        watches:
          - kind: checked_state
            variable: muted
        triggers:
          - on: checked
            actions:
              - set: {variable: volume, value: 0}
      - name: next
        kind: button
        triggers:
          - on: clicked
            actions:
              - page: settings
  - name: settings
    widgets:
      - name: back
        kind: button
        triggers:
          - on: clicked
            actions:
              - page: main
      - name: quit
        kind: button
        triggers:
          - on: clicked
            actions:
              - stop: true
`

func buildTestProject(t *testing.T) *Project {
	t.Helper()
	def, err := ParseProject([]byte(testProject))
	if err != nil {
		t.Fatalf("ParseProject: %v", err)
	}
	p, err := Build(def, Config{Logger: quietLogger()})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return p
}

func mustWidget(t *testing.T, p *Project, name string) Handle {
	t.Helper()
	h, ok := p.Widget(name)
	if !ok {
		t.Fatalf("widget %q not built", name)
	}
	return h
}

// --- Build ---

func TestBuildCreatesPages(t *testing.T) {
	p := buildTestProject(t)

	if p.Runtime.CurrentPage() != 0 {
		t.Errorf("CurrentPage = %d, want 0", p.Runtime.CurrentPage())
	}
	if p.Tree.HasFlag(p.PageRoot(0), FlagHidden) {
		t.Error("first page should be visible")
	}
	if !p.Tree.HasFlag(p.PageRoot(1), FlagHidden) {
		t.Error("second page should be hidden")
	}
	if i, ok := p.PageIndex("settings"); !ok || i != 1 {
		t.Errorf("PageIndex(settings) = %d, %v", i, ok)
	}

	title := mustWidget(t, p, "title")
	if got := p.Tree.Text(title, TextLabel); got != "Hello" {
		t.Errorf("title = %q, want Hello", got)
	}
	assertStyle(t, p.Tree, title, StyleOpacity, 0)
	assertStyle(t, p.Tree, title, StyleWidth, 200)

	counter := mustWidget(t, p, "counter")
	if h, err := p.Runtime.ObjectByIndex(3); err != nil || h != counter {
		t.Errorf("ObjectByIndex(3) = %v, %v; want %v", h, err, counter)
	}
}

func TestProjectBindingsApplyOnTick(t *testing.T) {
	p := buildTestProject(t)
	p.Tick()

	if got := p.Tree.Text(mustWidget(t, p, "counter"), TextLabel); got != "0" {
		t.Errorf("counter = %q, want 0", got)
	}
	if got := p.Tree.Int(mustWidget(t, p, "volume"), IntSliderValue); got != 25 {
		t.Errorf("volume slider = %d, want 25", got)
	}
}

func TestProjectButtonIncrementsCounter(t *testing.T) {
	p := buildTestProject(t)
	p.Tick()

	inc := mustWidget(t, p, "inc")
	p.Tree.Click(inc)
	p.Tick()
	p.Tree.Click(inc)
	p.Tick()

	if got := p.Tree.Text(mustWidget(t, p, "counter"), TextLabel); got != "2" {
		t.Errorf("counter = %q, want 2", got)
	}
}

func TestProjectSliderWatch(t *testing.T) {
	p := buildTestProject(t)
	p.Tick()

	slider := mustWidget(t, p, "volume")
	p.Tree.PointerDown(80, 155)
	p.Tree.PointerUp(80, 155)
	p.Tick()

	if v, _ := p.Flow.Variable("volume"); v != IntValue(80) {
		t.Errorf("volume = %v, want 80", v)
	}
	if got := p.Tree.Int(slider, IntSliderValue); got != 80 {
		t.Errorf("slider = %d, want 80", got)
	}
}

func TestProjectSwitchSetsVariable(t *testing.T) {
	p := buildTestProject(t)
	p.Tick()

	p.Tree.Click(mustWidget(t, p, "mute"))
	p.Tick()

	if v, _ := p.Flow.Variable("muted"); v != BoolValue(true) {
		t.Errorf("muted = %v, want true", v)
	}
	if v, _ := p.Flow.Variable("volume"); v != IntValue(0) {
		t.Errorf("volume = %v, want 0", v)
	}
	if got := p.Tree.Int(mustWidget(t, p, "volume"), IntSliderValue); got != 0 {
		t.Errorf("slider = %d, want 0", got)
	}
}

func TestProjectPageTimelinePlays(t *testing.T) {
	p := buildTestProject(t)
	title := mustWidget(t, p, "title")

	for range 40 {
		p.Tick()
	}

	assertStyle(t, p.Tree, title, StyleOpacity, 255)
	assertStyle(t, p.Tree, title, StyleY, 40)
}

func TestProjectPageAction(t *testing.T) {
	p := buildTestProject(t)
	p.Tick()

	p.Tree.Click(mustWidget(t, p, "next"))
	p.Tick()

	if p.Runtime.CurrentPage() != 1 {
		t.Fatalf("CurrentPage = %d, want 1", p.Runtime.CurrentPage())
	}
	if !p.Tree.HasFlag(p.PageRoot(0), FlagHidden) {
		t.Error("first page should be hidden")
	}

	p.Tree.Click(mustWidget(t, p, "back"))
	p.Tick()
	if p.Runtime.CurrentPage() != 0 {
		t.Errorf("CurrentPage = %d, want 0", p.Runtime.CurrentPage())
	}
	if !p.Flow.Playing(0) {
		t.Error("page timeline should replay when the page is shown")
	}
}

func TestProjectStopAction(t *testing.T) {
	p := buildTestProject(t)
	if err := p.ShowPage("settings"); err != nil {
		t.Fatal(err)
	}
	p.Tree.Click(mustWidget(t, p, "quit"))

	if p.Tick() {
		t.Error("Tick should report false once the flow stops")
	}
	if !p.Flow.Stopped() {
		t.Error("flow should be stopped")
	}
}

func TestShowUnknownPage(t *testing.T) {
	p := buildTestProject(t)
	if err := p.ShowPage("nowhere"); err == nil {
		t.Error("expected error")
	}
}

// --- Validation ---

func TestParseProjectErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{
			name: "no pages",
			yaml: `frame_rate: 30`,
			want: "Pages",
		},
		{
			name: "unknown kind",
			yaml: "pages:\n  - name: a\n    widgets:\n      - {name: w, kind: gauge}",
			want: "widgetkind",
		},
		{
			name: "bad easing",
			yaml: "pages:\n  - name: a\n    widgets:\n      - name: w\n        kind: panel\n        keyframes:\n          - {start: 0, end: 1, x: {to: 1, easing: wobble}}",
			want: "easing",
		},
		{
			name: "end before start",
			yaml: "pages:\n  - name: a\n    widgets:\n      - name: w\n        kind: panel\n        keyframes:\n          - {start: 0.5, end: 0.2}",
			want: "gtefield",
		},
		{
			name: "duplicate widget",
			yaml: "pages:\n  - name: a\n    widgets:\n      - {name: w, kind: panel}\n      - {name: w, kind: label}",
			want: `duplicate widget "w"`,
		},
		{
			name: "duplicate page",
			yaml: "pages:\n  - name: a\n  - name: a",
			want: `duplicate page "a"`,
		},
		{
			name: "unknown variable",
			yaml: "pages:\n  - name: a\n    widgets:\n      - name: w\n        kind: label\n        bindings:\n          - {kind: label_text, variable: nope}",
			want: `unknown variable "nope"`,
		},
		{
			name: "watch without variable",
			yaml: "pages:\n  - name: a\n    widgets:\n      - name: w\n        kind: slider\n        watches:\n          - {kind: slider_value}",
			want: "needs a variable",
		},
		{
			name: "bad literal",
			yaml: "pages:\n  - name: a\n    widgets:\n      - name: w\n        kind: slider\n        bindings:\n          - {kind: slider_value, value: loud}",
			want: "cannot use",
		},
		{
			name: "integer out of range",
			yaml: "variables:\n  - {name: n, type: integer, value: 5000000000}\npages:\n  - name: a",
			want: "cannot use 5000000000",
		},
		{
			name: "increment non-integer",
			yaml: "variables:\n  - {name: b, type: boolean}\npages:\n  - name: a\n    widgets:\n      - name: w\n        kind: button\n        triggers:\n          - on: clicked\n            actions:\n              - increment: b",
			want: "integer variable",
		},
		{
			name: "two action fields",
			yaml: "pages:\n  - name: a\n    widgets:\n      - name: w\n        kind: button\n        triggers:\n          - on: clicked\n            actions:\n              - {page: a, stop: true}",
			want: "exactly one",
		},
		{
			name: "unknown page",
			yaml: "pages:\n  - name: a\n    widgets:\n      - name: w\n        kind: button\n        triggers:\n          - on: clicked\n            actions:\n              - page: b",
			want: `unknown page "b"`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseProject([]byte(tt.yaml))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %v, want it to mention %q", err, tt.want)
			}
		})
	}
}

func TestConvertLiteral(t *testing.T) {
	tests := []struct {
		raw  any
		typ  ValueType
		want Value
	}{
		{"hi", TypeText, TextValue("hi")},
		{5, TypeText, TextValue("5")},
		{5, TypeInteger, IntValue(5)},
		{5.0, TypeInteger, IntValue(5)},
		{true, TypeInteger, IntValue(1)},
		{false, TypeBoolean, BoolValue(false)},
	}
	for _, tt := range tests {
		got, err := convertLiteral(tt.raw, tt.typ)
		if err != nil || got != tt.want {
			t.Errorf("convertLiteral(%v, %s) = %v, %v; want %v", tt.raw, tt.typ, got, err, tt.want)
		}
	}
	bad := []any{5.5, 5000000000, -5000000000, 5e9}
	for _, raw := range bad {
		if _, err := convertLiteral(raw, TypeInteger); err == nil {
			t.Errorf("convertLiteral(%v, integer) should fail", raw)
		}
	}
}

func TestLoadProject(t *testing.T) {
	path := filepath.Join(t.TempDir(), "project.yaml")
	if err := os.WriteFile(path, []byte(testProject), 0o644); err != nil {
		t.Fatal(err)
	}
	def, err := LoadProject(path)
	if err != nil {
		t.Fatalf("LoadProject: %v", err)
	}
	if len(def.Pages) != 2 || def.FrameRate != 60 {
		t.Errorf("def = %d pages at %d fps", len(def.Pages), def.FrameRate)
	}

	if _, err := LoadProject(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}
