package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-runewidth"
)

// formField is one labelled input of a Form.
type formField struct {
	label    string
	input    textinput.Model
	required bool
	fallback string // used when the field is left blank
}

// Form is a small multi-field text form. Enter advances to the next field
// and submits on the last one; esc cancels.
type Form struct {
	title  string
	fields []formField
	focus  int
	err    string
	styles *Styles
	keys   InputKeyMap

	// submit receives the trimmed values in field order.
	submit func(values []string) tea.Cmd
}

// fieldSpec describes a field when building a Form.
type fieldSpec struct {
	label       string
	placeholder string
	value       string
	required    bool
	fallback    string
	charLimit   int
}

// newForm builds a form with the first field focused.
func newForm(title string, styles *Styles, keys InputKeyMap, specs []fieldSpec, submit func([]string) tea.Cmd) *Form {
	f := &Form{
		title:  title,
		styles: styles,
		keys:   keys,
		submit: submit,
	}
	for _, spec := range specs {
		ti := textinput.New()
		ti.Placeholder = spec.placeholder
		ti.CharLimit = spec.charLimit
		if ti.CharLimit == 0 {
			ti.CharLimit = 60
		}
		ti.Width = 30
		ti.SetValue(spec.value)
		f.fields = append(f.fields, formField{
			label:    spec.label,
			input:    ti,
			required: spec.required,
			fallback: spec.fallback,
		})
	}
	f.setFocus(0)
	return f
}

// SetWidth resizes the inputs.
func (f *Form) SetWidth(width int) {
	for i := range f.fields {
		f.fields[i].input.Width = max(10, width-16)
	}
}

func (f *Form) setFocus(i int) {
	f.focus = i
	for j := range f.fields {
		if j == i {
			f.fields[j].input.Focus()
		} else {
			f.fields[j].input.Blur()
		}
	}
}

// Values returns the trimmed field values with fallbacks applied.
func (f *Form) Values() []string {
	out := make([]string, len(f.fields))
	for i, field := range f.fields {
		v := strings.TrimSpace(field.input.Value())
		if v == "" {
			v = field.fallback
		}
		out[i] = v
	}
	return out
}

// validate returns the index of the first blank required field, or -1.
func (f *Form) validate(values []string) int {
	for i, field := range f.fields {
		if field.required && values[i] == "" {
			return i
		}
	}
	return -1
}

// Update handles a message while the form is open. done reports that the
// form was submitted or canceled and should be closed.
func (f *Form) Update(msg tea.Msg) (cmd tea.Cmd, done bool) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, f.keys.Cancel):
			return nil, true

		case msg.String() == "tab" || msg.String() == "down":
			f.setFocus((f.focus + 1) % len(f.fields))
			return textinput.Blink, false

		case msg.String() == "shift+tab" || msg.String() == "up":
			f.setFocus((f.focus - 1 + len(f.fields)) % len(f.fields))
			return textinput.Blink, false

		case key.Matches(msg, f.keys.Confirm):
			if f.focus < len(f.fields)-1 {
				f.setFocus(f.focus + 1)
				return textinput.Blink, false
			}
			values := f.Values()
			if missing := f.validate(values); missing >= 0 {
				f.err = f.fields[missing].label + " is required"
				f.setFocus(missing)
				return nil, false
			}
			return f.submit(values), true
		}
	}

	f.fields[f.focus].input, cmd = f.fields[f.focus].input.Update(msg)
	return cmd, false
}

// View renders the form.
func (f *Form) View() string {
	var b strings.Builder
	b.WriteString(f.styles.OverlayTitle.Render(f.title))
	b.WriteString("\n\n")
	for i, field := range f.fields {
		label := field.label
		if field.required {
			label += "*"
		}
		prompt := f.styles.StatLabelStyle.Render(padRight(label, 9))
		if i == f.focus {
			prompt = f.styles.InputPromptStyle.Render(padRight(label, 9))
		}
		b.WriteString(prompt + " " + field.input.View())
		b.WriteString("\n")
	}
	if f.err != "" {
		b.WriteString("\n")
		b.WriteString(f.styles.ErrorStyle.Render(f.err))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(f.styles.RenderHelp(
		f.keys.Confirm.Help().Key, "next/save",
		"tab", "field",
		f.keys.Cancel.Help().Key, "cancel",
	))
	return b.String()
}

// padRight pads s with spaces to width columns.
func padRight(s string, width int) string {
	return runewidth.FillRight(s, width)
}
