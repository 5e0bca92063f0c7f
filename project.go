package flowsync

import (
	"errors"
	"fmt"
	"math"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// ProjectDef is the declarative description of a page set: widgets, their
// timelines, and the bindings between widgets and flow variables.
type ProjectDef struct {
	FrameRate int           `yaml:"frame_rate" validate:"gte=0"`
	Variables []VariableDef `yaml:"variables" validate:"dive"`
	Pages     []PageDef     `yaml:"pages" validate:"required,min=1,dive"`
}

// VariableDef declares a flow variable and its initial value.
type VariableDef struct {
	Name  string `yaml:"name" validate:"required"`
	Type  string `yaml:"type" validate:"required,oneof=text integer boolean"`
	Value any    `yaml:"value"`
}

// PageDef is one screen.
type PageDef struct {
	Name     string       `yaml:"name" validate:"required"`
	Timeline *PlaybackDef `yaml:"timeline" validate:"omitempty"`
	Widgets  []WidgetDef  `yaml:"widgets" validate:"dive"`
}

// PlaybackDef plays a page timeline from 0 to 1 when the page is shown.
type PlaybackDef struct {
	Duration time.Duration `yaml:"duration" validate:"gt=0"`
	Easing   string        `yaml:"easing" validate:"omitempty,easing"`
}

// WidgetDef describes one widget and its subtree.
type WidgetDef struct {
	Name    string   `yaml:"name" validate:"required"`
	Kind    string   `yaml:"kind" validate:"required,widgetkind"`
	Index   *int32   `yaml:"index"`
	X       int32    `yaml:"x"`
	Y       int32    `yaml:"y"`
	Width   int32    `yaml:"width" validate:"gte=0"`
	Height  int32    `yaml:"height" validate:"gte=0"`
	Opacity *float64 `yaml:"opacity" validate:"omitempty,gte=0,lte=1"`
	Text    string   `yaml:"text"`
	Value   int32    `yaml:"value"`
	Min     int32    `yaml:"min"`
	Max     *int32   `yaml:"max"`
	Options []string `yaml:"options"`
	Checked bool     `yaml:"checked"`
	Hidden  bool     `yaml:"hidden"`

	Keyframes []KeyframeDef `yaml:"keyframes" validate:"dive"`
	Bindings  []BindingDef  `yaml:"bindings" validate:"dive"`
	Watches   []BindingDef  `yaml:"watches" validate:"dive"`
	Triggers  []TriggerDef  `yaml:"triggers" validate:"dive"`
	Children  []WidgetDef   `yaml:"children" validate:"dive"`
}

// KeyframeDef describes one timeline keyframe.
type KeyframeDef struct {
	Start   float64     `yaml:"start" validate:"gte=0"`
	End     float64     `yaml:"end" validate:"gtefield=Start"`
	X       *PropDef    `yaml:"x"`
	Y       *PropDef    `yaml:"y"`
	Width   *PropDef    `yaml:"width"`
	Height  *PropDef    `yaml:"height"`
	Opacity *PropDef    `yaml:"opacity"`
	Scale   *PropDef    `yaml:"scale"`
	Rotate  *PropDef    `yaml:"rotate"`
	CP1     *ControlDef `yaml:"cp1"`
	CP2     *ControlDef `yaml:"cp2"`
}

// PropDef is the target and easing of one animated property.
type PropDef struct {
	To     float64 `yaml:"to"`
	Easing string  `yaml:"easing" validate:"omitempty,easing"`
}

// ControlDef is a Bezier control point.
type ControlDef struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

// BindingDef connects a widget property to a flow variable or literal.
type BindingDef struct {
	Kind     string `yaml:"kind" validate:"required,updatekind"`
	Variable string `yaml:"variable"`
	Value    any    `yaml:"value"`
}

// TriggerDef runs actions when a widget event fires.
type TriggerDef struct {
	On      string      `yaml:"on" validate:"required,trigger"`
	Actions []ActionDef `yaml:"actions" validate:"required,min=1,dive"`
}

// ActionDef is one flow action. Exactly one field should be set.
type ActionDef struct {
	Increment string   `yaml:"increment"`
	Toggle    string   `yaml:"toggle"`
	Set       *SetDef  `yaml:"set"`
	Page      string   `yaml:"page"`
	Play      *PlayDef `yaml:"play"`
	Stop      bool     `yaml:"stop"`
}

// SetDef assigns a literal to a variable.
type SetDef struct {
	Variable string `yaml:"variable" validate:"required"`
	Value    any    `yaml:"value"`
}

// PlayDef plays the current page's timeline.
type PlayDef struct {
	From     float64       `yaml:"from"`
	To       float64       `yaml:"to"`
	Duration time.Duration `yaml:"duration" validate:"gt=0"`
	Easing   string        `yaml:"easing" validate:"omitempty,easing"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("easing", func(fl validator.FieldLevel) bool {
		_, ok := ParseEasing(fl.Field().String())
		return ok
	})
	_ = v.RegisterValidation("widgetkind", func(fl validator.FieldLevel) bool {
		_, ok := ParseWidgetKind(fl.Field().String())
		return ok
	})
	_ = v.RegisterValidation("updatekind", func(fl validator.FieldLevel) bool {
		_, ok := ParseUpdateKind(fl.Field().String())
		return ok
	})
	_ = v.RegisterValidation("trigger", func(fl validator.FieldLevel) bool {
		_, ok := ParseTrigger(fl.Field().String())
		return ok
	})
	return v
}

// ParseProject decodes and validates a YAML (or JSON) project definition.
func ParseProject(data []byte) (*ProjectDef, error) {
	var def ProjectDef
	if err := yaml.Unmarshal(data, &def); err != nil {
		return nil, fmt.Errorf("parse project: %w", err)
	}
	if err := def.Validate(); err != nil {
		return nil, err
	}
	return &def, nil
}

// LoadProject reads and parses a project definition file.
func LoadProject(path string) (*ProjectDef, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read project %s: %w", path, err)
	}
	return ParseProject(data)
}

// Validate checks field constraints and cross references that struct tags
// cannot express.
func (d *ProjectDef) Validate() error {
	if err := validate.Struct(d); err != nil {
		return fmt.Errorf("validate project: %w", err)
	}

	vars := make(map[string]ValueType, len(d.Variables))
	for _, v := range d.Variables {
		if _, dup := vars[v.Name]; dup {
			return fmt.Errorf("validate project: duplicate variable %q", v.Name)
		}
		typ := parseValueType(v.Type)
		if v.Value != nil {
			if _, err := convertLiteral(v.Value, typ); err != nil {
				return fmt.Errorf("validate project: variable %q: %w", v.Name, err)
			}
		}
		vars[v.Name] = typ
	}

	pages := make(map[string]bool, len(d.Pages))
	for _, p := range d.Pages {
		if pages[p.Name] {
			return fmt.Errorf("validate project: duplicate page %q", p.Name)
		}
		pages[p.Name] = true
	}

	var errs []error
	names := make(map[string]bool)
	for _, p := range d.Pages {
		walkWidgets(p.Widgets, func(w *WidgetDef) {
			if names[w.Name] {
				errs = append(errs, fmt.Errorf("duplicate widget %q", w.Name))
			}
			names[w.Name] = true
			for _, b := range w.Bindings {
				errs = append(errs, checkBinding(w.Name, b, vars, false))
			}
			for _, b := range w.Watches {
				errs = append(errs, checkBinding(w.Name, b, vars, true))
			}
			for _, t := range w.Triggers {
				for _, a := range t.Actions {
					errs = append(errs, checkAction(w.Name, a, vars, pages))
				}
			}
		})
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("validate project: %w", err)
	}
	return nil
}

func checkBinding(widget string, b BindingDef, vars map[string]ValueType, watch bool) error {
	kind, _ := ParseUpdateKind(b.Kind)
	switch {
	case b.Variable != "":
		if _, ok := vars[b.Variable]; !ok {
			return fmt.Errorf("widget %q: %s: unknown variable %q", widget, b.Kind, b.Variable)
		}
	case watch:
		return fmt.Errorf("widget %q: watch %s needs a variable", widget, b.Kind)
	case b.Value == nil:
		return fmt.Errorf("widget %q: binding %s needs a variable or a value", widget, b.Kind)
	default:
		if _, err := convertLiteral(b.Value, kind.ValueType()); err != nil {
			return fmt.Errorf("widget %q: binding %s: %w", widget, b.Kind, err)
		}
	}
	return nil
}

func checkAction(widget string, a ActionDef, vars map[string]ValueType, pages map[string]bool) error {
	set := 0
	if a.Increment != "" {
		set++
		if vars[a.Increment] != TypeInteger {
			return fmt.Errorf("widget %q: increment needs an integer variable, got %q", widget, a.Increment)
		}
	}
	if a.Toggle != "" {
		set++
		if vars[a.Toggle] != TypeBoolean {
			return fmt.Errorf("widget %q: toggle needs a boolean variable, got %q", widget, a.Toggle)
		}
	}
	if a.Set != nil {
		set++
		typ, ok := vars[a.Set.Variable]
		if !ok {
			return fmt.Errorf("widget %q: set: unknown variable %q", widget, a.Set.Variable)
		}
		if _, err := convertLiteral(a.Set.Value, typ); err != nil {
			return fmt.Errorf("widget %q: set %s: %w", widget, a.Set.Variable, err)
		}
	}
	if a.Page != "" {
		set++
		if !pages[a.Page] {
			return fmt.Errorf("widget %q: unknown page %q", widget, a.Page)
		}
	}
	if a.Play != nil {
		set++
	}
	if a.Stop {
		set++
	}
	if set != 1 {
		return fmt.Errorf("widget %q: action must set exactly one field, got %d", widget, set)
	}
	return nil
}

func walkWidgets(ws []WidgetDef, fn func(*WidgetDef)) {
	for i := range ws {
		fn(&ws[i])
		walkWidgets(ws[i].Children, fn)
	}
}

func parseValueType(name string) ValueType {
	switch name {
	case "text":
		return TypeText
	case "integer":
		return TypeInteger
	case "boolean":
		return TypeBoolean
	}
	return TypeUndefined
}

// convertLiteral converts a decoded YAML scalar to a Value of type typ.
func convertLiteral(raw any, typ ValueType) (Value, error) {
	switch typ {
	case TypeText:
		switch x := raw.(type) {
		case string:
			return TextValue(x), nil
		case int, float64, bool:
			return TextValue(fmt.Sprint(x)), nil
		}
	case TypeInteger:
		switch x := raw.(type) {
		case int:
			if x >= math.MinInt32 && x <= math.MaxInt32 {
				return IntValue(int32(x)), nil
			}
		case float64:
			if x >= math.MinInt32 && x <= math.MaxInt32 && x == math.Trunc(x) {
				return IntValue(int32(x)), nil
			}
		case bool:
			if x {
				return IntValue(1), nil
			}
			return IntValue(0), nil
		}
	case TypeBoolean:
		if b, ok := raw.(bool); ok {
			return BoolValue(b), nil
		}
	}
	return Value{}, fmt.Errorf("cannot use %v (%T) as %s", raw, raw, typ)
}
