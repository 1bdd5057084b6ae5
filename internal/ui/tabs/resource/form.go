package resource

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/j-veylop/referral-admin-tui/internal/ui/styles"
)

// Field is one input of a Form.
type Field struct {
	Label       string
	Placeholder string
	Value       string
	Password    bool
}

// FormResult is what a key press did to a form.
type FormResult int

// Form results.
const (
	FormEditing FormResult = iota
	FormSubmitted
	FormCancelled
)

// Form is a small modal form of text inputs. The zero Form is inactive.
type Form struct {
	title  string
	err    string
	inputs []textinput.Model
	labels []string
	focus  int
	active bool
}

// Open activates the form with fields and focuses the first one.
func (f *Form) Open(title string, fields ...Field) tea.Cmd {
	f.title = title
	f.err = ""
	f.focus = 0
	f.active = true
	f.inputs = make([]textinput.Model, len(fields))
	f.labels = make([]string, len(fields))

	width := 0
	for _, field := range fields {
		width = max(width, len(field.Label))
	}

	for i, field := range fields {
		in := textinput.New()
		in.Prompt = field.Label + strings.Repeat(" ", width-len(field.Label)+1)
		in.Placeholder = field.Placeholder
		in.SetValue(field.Value)
		in.CharLimit = 256
		if field.Password {
			in.EchoMode = textinput.EchoPassword
			in.EchoCharacter = '•'
		}
		f.inputs[i] = in
		f.labels[i] = field.Label
	}
	return f.setFocus(0)
}

// Active reports whether the form is shown.
func (f *Form) Active() bool {
	return f.active
}

// Close hides the form.
func (f *Form) Close() {
	f.active = false
	f.err = ""
}

// SetError shows a validation message and keeps the form open.
func (f *Form) SetError(msg string) {
	f.err = msg
}

// Values returns the trimmed input values in field order.
func (f *Form) Values() []string {
	values := make([]string, len(f.inputs))
	for i, in := range f.inputs {
		values[i] = strings.TrimSpace(in.Value())
	}
	return values
}

func (f *Form) setFocus(i int) tea.Cmd {
	if len(f.inputs) == 0 {
		return nil
	}
	f.focus = (i + len(f.inputs)) % len(f.inputs)
	var cmd tea.Cmd
	for j := range f.inputs {
		if j == f.focus {
			cmd = f.inputs[j].Focus()
		} else {
			f.inputs[j].Blur()
		}
	}
	return cmd
}

// Update handles a key. Enter on the last field submits; the form stays
// open until the caller closes it.
func (f *Form) Update(msg tea.KeyMsg) (FormResult, tea.Cmd) {
	switch msg.String() {
	case "esc":
		f.Close()
		return FormCancelled, nil
	case "tab", "down":
		return FormEditing, f.setFocus(f.focus + 1)
	case "shift+tab", "up":
		return FormEditing, f.setFocus(f.focus - 1)
	case "enter":
		if f.focus < len(f.inputs)-1 {
			return FormEditing, f.setFocus(f.focus + 1)
		}
		f.err = ""
		return FormSubmitted, nil
	}

	if len(f.inputs) == 0 {
		return FormEditing, nil
	}
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return FormEditing, cmd
}

// View renders the form as a card.
func (f *Form) View(width int) string {
	lines := []string{styles.CardTitleStyle.Render(f.title), ""}
	for _, in := range f.inputs {
		lines = append(lines, in.View())
	}
	lines = append(lines, "")
	if f.err != "" {
		lines = append(lines, styles.ErrorTextStyle.Render(f.err))
	}
	lines = append(lines, styles.HelpStyle.Render("enter: next/submit · tab: next field · esc: cancel"))

	cardWidth := min(max(width-6, 40), 80)
	return styles.FocusedBorderStyle.Padding(0, 1).Width(cardWidth).Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

// Confirm asks a yes/no question. The zero Confirm is inactive.
type Confirm struct {
	prompt string
	active bool
}

// Ask shows prompt.
func (c *Confirm) Ask(prompt string) {
	c.prompt = prompt
	c.active = true
}

// Active reports whether a question is pending.
func (c *Confirm) Active() bool {
	return c.active
}

// Update answers the question. Only y confirms; any other key cancels.
func (c *Confirm) Update(msg tea.KeyMsg) (yes bool) {
	c.active = false
	return msg.String() == "y" || msg.String() == "Y"
}

// View renders the question.
func (c *Confirm) View() string {
	if !c.active {
		return ""
	}
	return styles.WarningTextStyle.Render(c.prompt + " (y/N)")
}
