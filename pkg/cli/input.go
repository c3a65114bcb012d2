package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/zdunecki/jobwizard/pkg/wizard"
)

type inputModel struct {
	prompt        wizard.TextPrompt
	input         textinput.Model
	value         string
	validationErr string
	done          bool
	cancelled     bool
}

func newInputModel(p wizard.TextPrompt) inputModel {
	in := textinput.New()
	in.Prompt = stylePrompt.Render("> ")
	in.Placeholder = p.Placeholder
	in.Focus()
	return inputModel{prompt: p, input: in}
}

func (m inputModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m inputModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.input.Width = msg.Width - 4
		return m, nil
	case tea.KeyMsg:
		// q is text here, so only esc and ctrl+c dismiss.
		switch msg.String() {
		case "ctrl+c", "esc":
			m.cancelled = true
			return m, tea.Quit
		case "enter":
			return m.submit()
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m inputModel) submit() (tea.Model, tea.Cmd) {
	value := strings.TrimSpace(m.input.Value())
	m.validationErr = ""
	if m.prompt.Required && value == "" {
		m.validationErr = fmt.Sprintf("%s is required", strings.ToLower(m.prompt.Title))
		return m, nil
	}
	m.value = value
	m.done = true
	return m, tea.Quit
}

func (m inputModel) View() string {
	if m.done || m.cancelled {
		return ""
	}
	return header("", m.validationErr) +
		styleTitle.Render(m.prompt.Title) + "\n" +
		header(m.prompt.Description, "") +
		m.input.View() + "\n\n" + stylePrompt.Render("Press Enter to continue, Esc to quit.")
}
