package flowsync

import (
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/phanxgames/flowsync/internal/logging"
)

// Project is a runtime assembled from a ProjectDef: a Tree holding one root
// panel per page, a MemoryFlow holding the variables, and the Runtime that
// keeps them in sync.
type Project struct {
	Def     *ProjectDef
	Tree    *Tree
	Flow    *MemoryFlow
	Runtime *Runtime

	pages     map[string]int
	pageRoots []Handle
	widgets   map[string]Handle
	log       *slog.Logger
}

// builder carries per-page state while widgets are created.
type builder struct {
	p         *Project
	vars      map[string]ValueType
	page      int
	component int
}

// Build validates def and assembles a Project from it. The first page is
// shown before Build returns.
func Build(def *ProjectDef, cfg Config) (*Project, error) {
	if err := def.Validate(); err != nil {
		return nil, err
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.WithModule("flowsync")
	}

	tree := NewTree()
	flow := NewMemoryFlow(def.FrameRate)
	p := &Project{
		Def:     def,
		Tree:    tree,
		Flow:    flow,
		Runtime: NewRuntime(tree, flow, cfg),
		pages:   make(map[string]int, len(def.Pages)),
		widgets: make(map[string]Handle),
		log:     cfg.Logger,
	}

	vars := make(map[string]ValueType, len(def.Variables))
	for _, v := range def.Variables {
		typ := parseValueType(v.Type)
		vars[v.Name] = typ
		initial := Value{Type: typ}
		if v.Value != nil {
			// Checked by Validate.
			initial, _ = convertLiteral(v.Value, typ)
		}
		flow.SetVariable(v.Name, initial)
	}

	for i, pd := range def.Pages {
		p.pages[pd.Name] = i
		root := tree.NewWidget(KindPanel, pd.Name, 0)
		tree.AddFlag(root, FlagHidden)
		p.pageRoots = append(p.pageRoots, root)

		b := &builder{p: p, vars: vars, page: i}
		for j := range pd.Widgets {
			if err := b.widget(&pd.Widgets[j], root); err != nil {
				return nil, fmt.Errorf("build page %q: %w", pd.Name, err)
			}
		}
	}

	if err := p.ShowPage(def.Pages[0].Name); err != nil {
		return nil, err
	}
	p.log.Info("project built", "pages", len(def.Pages), "widgets", len(p.widgets))
	return p, nil
}

func (b *builder) widget(wd *WidgetDef, parent Handle) error {
	p := b.p
	tree, rt, flow := p.Tree, p.Runtime, p.Flow

	kind, _ := ParseWidgetKind(wd.Kind)
	h := tree.NewWidget(kind, wd.Name, parent)
	p.widgets[wd.Name] = h
	component := b.component
	b.component++

	tree.SetStyleProp(h, StyleX, wd.X)
	tree.SetStyleProp(h, StyleY, wd.Y)
	tree.SetStyleProp(h, StyleWidth, wd.Width)
	tree.SetStyleProp(h, StyleHeight, wd.Height)
	if wd.Opacity != nil {
		tree.SetStyleProp(h, StyleOpacity, int32(math.Round(*wd.Opacity*OpacityCover)))
	}

	w := tree.Widget(h)
	w.Min = wd.Min
	if wd.Max != nil {
		w.Max = *wd.Max
	}
	w.Options = wd.Options
	initialValue(tree, h, kind, wd)
	if wd.Checked {
		tree.AddState(h, StateChecked)
	}
	if wd.Hidden {
		tree.AddFlag(h, FlagHidden)
	}
	if wd.Index != nil {
		rt.SetObjectIndex(h, *wd.Index)
	}

	for _, kd := range wd.Keyframes {
		rt.AddKeyframe(h, b.page, keyframe(kd))
	}

	prop := 0
	for _, bd := range wd.Bindings {
		kind, _ := ParseUpdateKind(bd.Kind)
		ref := PropertyRef{Page: b.page, Component: component, Property: prop}
		prop++
		if bd.Variable != "" {
			flow.BindVariable(ref, bd.Variable)
		} else {
			v, err := convertLiteral(bd.Value, kind.ValueType())
			if err != nil {
				return fmt.Errorf("widget %q: %w", wd.Name, err)
			}
			flow.Set(ref, v)
		}
		rt.Bind(kind, h, ref)
	}
	for _, bd := range wd.Watches {
		kind, _ := ParseUpdateKind(bd.Kind)
		ref := PropertyRef{Page: b.page, Component: component, Property: prop}
		prop++
		flow.BindVariable(ref, bd.Variable)
		rt.Watch(kind, h, ref)
	}

	for n, td := range wd.Triggers {
		trig, _ := ParseTrigger(td.On)
		out := OutputRef{Page: b.page, Component: component, Output: n}
		rt.Trigger(h, trig, out)
		for _, ad := range td.Actions {
			action, err := b.action(ad)
			if err != nil {
				return fmt.Errorf("widget %q: %w", wd.Name, err)
			}
			flow.Connect(out, action)
		}
	}

	for i := range wd.Children {
		if err := b.widget(&wd.Children[i], h); err != nil {
			return err
		}
	}
	return nil
}

// initialValue writes the authored text or value into the field the kind
// displays.
func initialValue(tree *Tree, h Handle, kind WidgetKind, wd *WidgetDef) {
	switch kind {
	case KindLabel, KindButton:
		tree.SetText(h, TextLabel, wd.Text)
	case KindTextarea:
		tree.SetText(h, TextTextarea, wd.Text)
	case KindSlider:
		tree.SetInt(h, IntSliderValue, wd.Value)
	case KindArc:
		tree.SetInt(h, IntArcValue, wd.Value)
	case KindBar:
		tree.SetInt(h, IntBarValue, wd.Value)
	case KindDropdown:
		tree.SetInt(h, IntDropdownSelected, wd.Value)
	case KindRoller:
		tree.SetInt(h, IntRollerSelected, wd.Value)
	}
}

func keyframe(kd KeyframeDef) Keyframe {
	kf := Keyframe{Start: kd.Start, End: kd.End}
	props := [NumAnimProps]*PropDef{
		PropX:       kd.X,
		PropY:       kd.Y,
		PropWidth:   kd.Width,
		PropHeight:  kd.Height,
		PropOpacity: kd.Opacity,
		PropScale:   kd.Scale,
		PropRotate:  kd.Rotate,
	}
	for p, pd := range props {
		if pd == nil {
			continue
		}
		e, _ := ParseEasing(pd.Easing)
		kf = kf.Set(AnimProp(p), pd.To, e)
	}
	if kd.CP1 != nil {
		kf = kf.WithCP1(kd.CP1.X, kd.CP1.Y)
	}
	if kd.CP2 != nil {
		kf = kf.WithCP2(kd.CP2.X, kd.CP2.Y)
	}
	return kf
}

// action turns an ActionDef into a function run by the flow when the
// trigger's output fires.
func (b *builder) action(ad ActionDef) (func(f *MemoryFlow), error) {
	p := b.p
	switch {
	case ad.Increment != "":
		name := ad.Increment
		return func(f *MemoryFlow) {
			v, _ := f.Variable(name)
			f.SetVariable(name, IntValue(v.Int+1))
		}, nil
	case ad.Toggle != "":
		name := ad.Toggle
		return func(f *MemoryFlow) {
			v, _ := f.Variable(name)
			f.SetVariable(name, BoolValue(!v.Bool))
		}, nil
	case ad.Set != nil:
		name := ad.Set.Variable
		v, err := convertLiteral(ad.Set.Value, b.vars[name])
		if err != nil {
			return nil, err
		}
		return func(f *MemoryFlow) { f.SetVariable(name, v) }, nil
	case ad.Page != "":
		name := ad.Page
		return func(*MemoryFlow) {
			if err := p.ShowPage(name); err != nil {
				p.log.Error("page action failed", "page", name, "error", err)
			}
		}, nil
	case ad.Play != nil:
		play := *ad.Play
		e, _ := ParseEasing(play.Easing)
		return func(f *MemoryFlow) {
			if page := p.Runtime.CurrentPage(); page != NoPage {
				f.PlayTimeline(page, play.From, play.To, play.Duration, e)
			}
		}, nil
	case ad.Stop:
		return func(f *MemoryFlow) { f.Stop() }, nil
	}
	return nil, errors.New("empty action")
}

// ShowPage makes the named page active: its root panel is shown, the others
// hidden, and its timeline played when one is configured.
func (p *Project) ShowPage(name string) error {
	idx, ok := p.pages[name]
	if !ok {
		return fmt.Errorf("show page: unknown page %q", name)
	}
	for i, root := range p.pageRoots {
		if i == idx {
			p.Tree.ClearFlag(root, FlagHidden)
		} else {
			p.Tree.AddFlag(root, FlagHidden)
		}
	}
	p.Runtime.ReplacePage(idx, PageTransition{})

	if tl := p.Def.Pages[idx].Timeline; tl != nil {
		e, _ := ParseEasing(tl.Easing)
		p.Flow.PlayTimeline(idx, 0, 1, tl.Duration, e)
	}
	return nil
}

// Tick runs one runtime tick.
func (p *Project) Tick() bool {
	return p.Runtime.Tick()
}

// Widget returns the widget created for the named definition.
func (p *Project) Widget(name string) (Handle, bool) {
	h, ok := p.widgets[name]
	return h, ok
}

// PageIndex returns the index of the named page.
func (p *Project) PageIndex(name string) (int, bool) {
	i, ok := p.pages[name]
	return i, ok
}

// PageRoot returns the root panel of page i.
func (p *Project) PageRoot(i int) Handle {
	if i < 0 || i >= len(p.pageRoots) {
		return 0
	}
	return p.pageRoots[i]
}
