package sio

import (
	"context"
	"fmt"
	"os"

	"github.com/Comcast/wfsm/config"
	"github.com/Comcast/wfsm/core"
	"github.com/Comcast/wfsm/widgets"

	"gopkg.in/yaml.v2"
)

// WidgetConf describes one widget in a Layout.
//
// A widget is either a built-in Kind (see package widgets) or an FSM
// configuration loaded from Config (a file name or an HTTP(S) URL).
type WidgetConf struct {
	Name string `yaml:"name" json:"name"`

	// Kind is "checkbox", "toggle", "button", "radio", or "echo".
	// The main Region of a checkbox, toggle, or button is named
	// after the widget.  A radio option's Region is named by
	// widgets.RadioOptionName(Option).
	Kind string `yaml:"kind,omitempty" json:"kind,omitempty"`

	// Option is the 1-based index of a radio option.
	Option int `yaml:"option,omitempty" json:"option,omitempty"`

	Config string `yaml:"config,omitempty" json:"config,omitempty"`

	// X and Y offset the widget's Regions.
	X float64 `yaml:"x" json:"x"`
	Y float64 `yaml:"y" json:"y"`
}

// Layout is a set of widgets and radio groups.
type Layout struct {
	Widgets []*WidgetConf `yaml:"widgets" json:"widgets"`

	// Groups maps group names to member widget names.
	Groups map[string][]string `yaml:"groups,omitempty" json:"groups,omitempty"`

	// ImageDir, if not empty, is where a FileSizer finds images
	// to determine natural sizes.
	ImageDir string `yaml:"imageDir,omitempty" json:"imageDir,omitempty"`
}

// ParseLayout parses a YAML (or JSON) Layout.
func ParseLayout(src []byte) (*Layout, error) {
	var l Layout
	if err := yaml.UnmarshalStrict(src, &l); err != nil {
		return nil, err
	}
	return &l, nil
}

// ReadLayout reads and parses a Layout file.
func ReadLayout(filename string) (*Layout, error) {
	src, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	l, err := ParseLayout(src)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", filename, err)
	}
	return l, nil
}

// SingleLayout makes a Layout with just one widget at the origin.
func SingleLayout(name, kind, configLoc string) *Layout {
	return &Layout{
		Widgets: []*WidgetConf{
			{
				Name:   name,
				Kind:   kind,
				Config: configLoc,
			},
		},
	}
}

// Make makes the widget's FSM.
func (w *WidgetConf) Make(ctx context.Context, opts ...core.Option) (*core.FSM, error) {
	if w.Config != "" {
		if w.Kind != "" {
			return nil, fmt.Errorf("widget %q has both a kind and a config", w.Name)
		}
		return config.Load(ctx, w.Config, opts...)
	}
	switch w.Kind {
	case "checkbox":
		return widgets.Checkbox(w.Name, 0, 0, opts...), nil
	case "toggle":
		return widgets.ToggleSwitch(w.Name, 0, 0, opts...), nil
	case "button":
		return widgets.Button(w.Name, 0, 0, opts...), nil
	case "radio":
		if w.Option < 1 {
			return nil, fmt.Errorf("radio widget %q needs an option number", w.Name)
		}
		return widgets.RadioOption(w.Option, 0, 0, opts...), nil
	case "":
		return nil, fmt.Errorf("widget %q needs a kind or a config", w.Name)
	default:
		return widgets.Make(w.Kind, opts...)
	}
}

// Build adds the Layout's widgets and groups to the Host.
func (l *Layout) Build(ctx context.Context, h *Host, opts ...core.Option) error {
	var sizer Sizer
	if l.ImageDir != "" {
		sizer = NewFileSizer(l.ImageDir)
	}

	for _, w := range l.Widgets {
		if w == nil {
			continue
		}
		if w.Name == "" {
			return fmt.Errorf("widget without a name")
		}
		m, err := w.Make(ctx, opts...)
		if err != nil {
			return err
		}
		i := NewInteractor(m, w.X, w.Y)
		i.Sizer = sizer
		if err := h.Add(w.Name, i); err != nil {
			return err
		}
	}

	for name, members := range l.Groups {
		if _, err := h.Group(name, members...); err != nil {
			return err
		}
	}

	return nil
}

// Configs maps configuration file names to the names of the widgets
// that use them, in Layout order.  Widgets with URL configurations are
// not included.
func (l *Layout) Configs() map[string][]string {
	acc := make(map[string][]string)
	for _, w := range l.Widgets {
		if w == nil || w.Config == "" || config.IsURL(w.Config) {
			continue
		}
		acc[w.Config] = append(acc[w.Config], w.Name)
	}
	return acc
}
