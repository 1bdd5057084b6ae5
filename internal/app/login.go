package app

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/j-veylop/referral-admin-tui/internal/ui/styles"
)

const (
	loginEmail = iota
	loginPassword
)

// loginForm is shown instead of the tabs while no session exists.
type loginForm struct {
	err        string
	inputs     []textinput.Model
	focus      int
	submitting bool
}

func newLoginForm() loginForm {
	email := textinput.New()
	email.Placeholder = "admin@example.com"
	email.Prompt = "Email    "
	email.CharLimit = 254
	email.Focus()

	password := textinput.New()
	password.Placeholder = "password"
	password.Prompt = "Password "
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '•'
	password.CharLimit = 128

	return loginForm{inputs: []textinput.Model{email, password}}
}

// values returns the trimmed email and the raw password.
func (f *loginForm) values() (string, string) {
	return strings.TrimSpace(f.inputs[loginEmail].Value()), f.inputs[loginPassword].Value()
}

func (f *loginForm) setFocus(i int) tea.Cmd {
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

// update handles a key. submit reports that the form should be sent.
func (f *loginForm) update(msg tea.KeyMsg) (submit bool, cmd tea.Cmd) {
	if f.submitting {
		return false, nil
	}

	switch msg.String() {
	case "tab", "down":
		return false, f.setFocus(f.focus + 1)
	case "shift+tab", "up":
		return false, f.setFocus(f.focus - 1)
	case "enter":
		email, password := f.values()
		if f.focus == loginEmail && password == "" {
			return false, f.setFocus(loginPassword)
		}
		if email == "" || password == "" {
			f.err = "Email and password are required"
			return false, nil
		}
		f.err = ""
		f.submitting = true
		return true, nil
	}

	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return false, cmd
}

// finish records the login outcome. The password is cleared either way.
func (f *loginForm) finish(errMsg string) {
	f.submitting = false
	f.err = errMsg
	f.inputs[loginPassword].Reset()
	if errMsg != "" {
		f.setFocus(loginPassword)
	}
}

// reset empties the form and shows reason, if any.
func (f *loginForm) reset(reason string) {
	*f = newLoginForm()
	f.err = reason
}

func (f *loginForm) view(width, height int, spinner string) string {
	var b strings.Builder
	b.WriteString(styles.TitleStyle.Render("Referral Admin"))
	b.WriteString("\n")
	b.WriteString(styles.HelpStyle.Render("Sign in with your administrator account"))
	b.WriteString("\n\n")

	for i, in := range f.inputs {
		b.WriteString(in.View())
		if i < len(f.inputs)-1 {
			b.WriteString("\n")
		}
	}
	b.WriteString("\n\n")

	switch {
	case f.submitting:
		b.WriteString(spinner + " Signing in...")
	case f.err != "":
		b.WriteString(styles.ErrorTextStyle.Render(f.err))
	default:
		b.WriteString(styles.HelpStyle.Render("enter: sign in · tab: next field · ctrl+c: quit"))
	}

	card := styles.FocusedBorderStyle.Padding(1, 3).Render(b.String())
	if width <= 0 || height <= 0 {
		return card
	}
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, card)
}
