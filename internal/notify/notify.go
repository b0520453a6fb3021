package notify

import (
	"bytes"
	"fmt"
	"text/template"

	"github.com/Masterminds/sprig/v3"
	"github.com/muesli/reflow/wordwrap"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const DefaultWidth = 80

// Notice kinds
const (
	ItemsAdded        = "items.added"
	ItemsRemoved      = "items.removed"
	AttributesAdded   = "attributes.added"
	AttributesRemoved = "attributes.removed"
	Transferred       = "transfer"
)

// DefaultTemplates are used for any kind without a configured template.
var DefaultTemplates = map[string]string{
	ItemsAdded:        `{{ .Holder }} gained {{ entries .Entries }}.`,
	ItemsRemoved:      `{{ .Holder }} lost {{ entries .Entries }}.`,
	AttributesAdded:   `{{ .Holder }} gained {{ entries .Entries }}.`,
	AttributesRemoved: `{{ .Holder }} lost {{ entries .Entries }}.`,
	Transferred:       `{{ .Target }} took {{ entries .Entries }} from {{ .Holder }}.`,
}

// Entry is one line of a notice: a quantity of a named item or currency.
type Entry struct {
	Name     string
	Quantity int
	Img      string
}

// Notice is the data a notification template renders.
type Notice struct {
	Kind    string
	Holder  string
	Target  string
	Entries []Entry
}

// Formatter renders notices into wrapped text.
type Formatter struct {
	width     int
	printer   *message.Printer
	templates map[string]*template.Template
}

type FormatterOpt func(*formatterOptions)

type formatterOptions struct {
	width     int
	lang      language.Tag
	templates map[string]string
}

// WithWidth sets the wrap width. 0 disables wrapping.
func WithWidth(w int) FormatterOpt {
	return func(o *formatterOptions) {
		o.width = w
	}
}

// WithLanguage sets the language quantities are formatted for.
func WithLanguage(tag language.Tag) FormatterOpt {
	return func(o *formatterOptions) {
		o.lang = tag
	}
}

// WithTemplate overrides the template of one notice kind.
func WithTemplate(kind, tmpl string) FormatterOpt {
	return func(o *formatterOptions) {
		o.templates[kind] = tmpl
	}
}

func NewFormatter(opts ...FormatterOpt) (*Formatter, error) {
	o := &formatterOptions{
		width:     DefaultWidth,
		lang:      language.English,
		templates: map[string]string{},
	}
	for k, v := range DefaultTemplates {
		o.templates[k] = v
	}
	for _, opt := range opts {
		opt(o)
	}

	f := &Formatter{
		width:     o.width,
		printer:   message.NewPrinter(o.lang),
		templates: make(map[string]*template.Template, len(o.templates)),
	}

	funcs := sprig.TxtFuncMap()
	funcs["qty"] = f.quantity
	funcs["entries"] = f.entries

	for kind, src := range o.templates {
		tmpl, err := template.New(kind).Funcs(funcs).Parse(src)
		if err != nil {
			return nil, fmt.Errorf("parsing %s template: %w", kind, err)
		}
		f.templates[kind] = tmpl
	}

	return f, nil
}

// Format renders n with the template of its kind.
func (f *Formatter) Format(n Notice) (string, error) {
	tmpl, ok := f.templates[n.Kind]
	if !ok {
		return "", fmt.Errorf("no template for notice kind %q", n.Kind)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, n); err != nil {
		return "", fmt.Errorf("executing %s template: %w", n.Kind, err)
	}

	if f.width <= 0 {
		return buf.String(), nil
	}
	return wordwrap.String(buf.String(), f.width), nil
}

func (f *Formatter) quantity(q int) string {
	return f.printer.Sprintf("%d", q)
}

// entries joins entries as "2 Torch, 1,500 Gold Coins and 1 Rope".
func (f *Formatter) entries(es []Entry) string {
	var buf bytes.Buffer
	for i, e := range es {
		switch {
		case i == 0:
		case i == len(es)-1:
			buf.WriteString(" and ")
		default:
			buf.WriteString(", ")
		}
		buf.WriteString(f.quantity(e.Quantity))
		buf.WriteString(" ")
		buf.WriteString(e.Name)
	}
	if buf.Len() == 0 {
		return "nothing"
	}
	return buf.String()
}
