package main

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/j-veylop/referral-admin-tui/internal/ui/tabs/resource"
)

// passwordPrompt asks for a new password twice with masked inputs.
type passwordPrompt struct {
	focus     tea.Cmd
	form      resource.Form
	submitted bool
}

func newPasswordPrompt() *passwordPrompt {
	p := &passwordPrompt{}
	p.focus = p.form.Open("Choose a password",
		resource.Field{Label: "Password", Password: true},
		resource.Field{Label: "Confirm", Password: true},
	)
	return p
}

func (p *passwordPrompt) Init() tea.Cmd {
	return p.focus
}

func (p *passwordPrompt) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return p, nil
	}
	if keyMsg.Type == tea.KeyCtrlC {
		return p, tea.Quit
	}

	result, cmd := p.form.Update(keyMsg)
	switch result {
	case resource.FormCancelled:
		return p, tea.Quit
	case resource.FormSubmitted:
		values := p.form.Values()
		if values[0] == "" {
			p.form.SetError("Enter a password")
			return p, nil
		}
		p.submitted = true
		return p, tea.Quit
	}
	return p, cmd
}

func (p *passwordPrompt) View() string {
	if p.submitted || !p.form.Active() {
		return ""
	}
	return p.form.View(60) + "\n"
}

// promptPassword runs the prompt inline and returns both entries.
func promptPassword() (password, confirm string, err error) {
	prompt := newPasswordPrompt()
	if _, err := tea.NewProgram(prompt).Run(); err != nil {
		return "", "", err
	}
	if !prompt.submitted {
		return "", "", errCancelled
	}
	values := prompt.form.Values()
	return values[0], values[1], nil
}
