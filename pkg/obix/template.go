package obix

import "github.com/iotsys/iotsys-go/pkg/model"

// Mode selects how a fragment names itself.
type Mode uint8

const (
	// Standalone fragments are served on their own resource: href="value".
	Standalone Mode = iota
	// Child fragments are nested in an object: href="temp/value".
	Child
)

// String returns the mode name.
func (m Mode) String() string {
	if m == Child {
		return "child"
	}
	return "standalone"
}

// Template is a literal pair surrounding a rendered value or body.
type Template struct {
	Prefix string
	Suffix string
}

// Len returns the rendered length for a body of n bytes.
func (t Template) Len(n int) int {
	return len(t.Prefix) + n + len(t.Suffix)
}

const (
	fragmentSuffix = `"/>`
	objectSuffix   = `</obj>`

	unitsCelsius = "obix:units/celsius"
	unitsPercent = "obix:units/percent"
)

type fragmentKey struct {
	kind  model.Kind
	color model.Color
	mode  Mode
}

// leaf describes one scalar element shape.
type leaf struct {
	kind    model.Kind
	color   model.Color
	element string
	object  string
	href    string
	units   string
}

var leaves = []leaf{
	{kind: model.KindTemperature, element: "real", object: "temp", href: "value", units: unitsCelsius},
	{kind: model.KindButton, element: "bool", object: "button", href: "value"},
	{kind: model.KindAcceleration, element: "bool", object: "acc", href: "active"},
	{kind: model.KindLED, color: model.ColorRed, element: "bool", object: "leds", href: "red"},
	{kind: model.KindLED, color: model.ColorGreen, element: "bool", object: "leds", href: "green"},
	{kind: model.KindLED, color: model.ColorBlue, element: "bool", object: "leds", href: "blue"},
	{kind: model.KindBattery, element: "int", object: "battery", href: "value", units: unitsPercent},
}

var (
	fragmentTemplates = buildFragmentTemplates()
	objectTemplates   = buildObjectTemplates()
)

func buildFragmentTemplates() map[fragmentKey]Template {
	out := make(map[fragmentKey]Template, 2*len(leaves))
	for _, l := range leaves {
		for _, mode := range []Mode{Standalone, Child} {
			href := l.href
			if mode == Child {
				href = l.object + "/" + l.href
			}
			prefix := "<" + l.element + ` href="` + href + `"`
			if l.units != "" {
				prefix += ` units="` + l.units + `"`
			}
			prefix += ` val="`
			out[fragmentKey{kind: l.kind, color: l.color, mode: mode}] = Template{
				Prefix: prefix,
				Suffix: fragmentSuffix,
			}
		}
	}
	return out
}

func buildObjectTemplates() map[model.Kind]Template {
	out := make(map[model.Kind]Template)
	for _, r := range model.Resources() {
		if !r.Object {
			continue
		}
		out[r.Kind] = Template{
			Prefix: `<obj href="` + r.Path + `" is="` + r.Type + `">`,
			Suffix: objectSuffix,
		}
	}
	return out
}

// FragmentTemplate returns the template for one scalar element.
func FragmentTemplate(kind model.Kind, color model.Color, mode Mode) (Template, bool) {
	if kind != model.KindLED {
		color = model.ColorNone
	}
	t, ok := fragmentTemplates[fragmentKey{kind: kind, color: color, mode: mode}]
	return t, ok
}

// ObjectTemplate returns the object wrapper for a kind.
func ObjectTemplate(kind model.Kind) (Template, bool) {
	t, ok := objectTemplates[kind]
	return t, ok
}
