package views

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"nestedset/internal/adapters/tui/styles"
)

// InputFormKeyMap defines key bindings for input forms
type InputFormKeyMap struct {
	Submit key.Binding
	Cancel key.Binding
}

// DefaultInputFormKeys returns the default input form key bindings
var DefaultInputFormKeys = InputFormKeyMap{
	Submit: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "submit"),
	),
	Cancel: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "cancel"),
	),
}

// InputField represents a single input field with label and textinput
type InputField struct {
	Label string
	Input textinput.Model
}

// NewInputField creates a new input field with the given label and placeholder
func NewInputField(label, placeholder string, charLimit int) InputField {
	input := textinput.New()
	input.Placeholder = placeholder
	if charLimit > 0 {
		input.CharLimit = charLimit
	}
	return InputField{
		Label: label,
		Input: input,
	}
}

// InputForm wraps a focused text input with its label.
type InputForm struct {
	Field InputField
	Keys  InputFormKeyMap
}

// NewInputForm creates a form around field and focuses it.
func NewInputForm(field InputField) *InputForm {
	field.Input.Focus()
	return &InputForm{
		Field: field,
		Keys:  DefaultInputFormKeys,
	}
}

// Init returns the blink command for the input
func (f *InputForm) Init() tea.Cmd {
	return textinput.Blink
}

// Update forwards msg to the text input.
func (f *InputForm) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	f.Field.Input, cmd = f.Field.Input.Update(msg)
	return cmd
}

// Value returns the trimmed input value.
func (f *InputForm) Value() string {
	return strings.TrimSpace(f.Field.Input.Value())
}

// SetValue replaces the input value and moves the caret to the end.
func (f *InputForm) SetValue(value string) {
	f.Field.Input.SetValue(value)
	f.Field.Input.CursorEnd()
}

// Reset clears the value and refocuses the input.
func (f *InputForm) Reset() {
	f.Field.Input.SetValue("")
	f.Field.Input.Focus()
}

// Render renders the label and the focused input box.
func (f *InputForm) Render() string {
	var b strings.Builder
	b.WriteString(styles.InputLabel.Render(f.Field.Label))
	b.WriteString("\n")
	b.WriteString(styles.InputFocused.Render(f.Field.Input.View()))
	return b.String()
}

// RenderHelp renders the help text for the form
func (f *InputForm) RenderHelp(submitText string) string {
	return strings.Join([]string{
		styles.HelpKey.Render("enter") + " " + styles.HelpDesc.Render(submitText),
		styles.HelpKey.Render("esc") + " " + styles.HelpDesc.Render("cancel"),
	}, "  ")
}
