package cli

import (
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/zdunecki/jobwizard/pkg/wizard"
)

// pickOneModel is a single-choice list.
type pickOneModel struct {
	prompt    wizard.SinglePrompt
	list      list.Model
	chosen    string
	done      bool
	cancelled bool
}

func newPickOneModel(p wizard.SinglePrompt) pickOneModel {
	items := make([]list.Item, 0, len(p.Items))
	for _, it := range p.Items {
		items = append(items, newOptionItem(it))
	}
	m := pickOneModel{prompt: p, list: newList(p.Title, items)}
	if p.Default >= 0 && p.Default < len(items) {
		m.list.Select(p.Default)
	}
	return m
}

func (m pickOneModel) Init() tea.Cmd {
	return nil
}

func (m pickOneModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.list.SetSize(msg.Width, listHeight(msg.Height, m.prompt.Description))
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			m.cancelled = true
			return m, tea.Quit
		case "enter":
			item, ok := m.list.SelectedItem().(optionItem)
			if !ok {
				return m, nil
			}
			m.chosen = item.value
			m.done = true
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m pickOneModel) View() string {
	if m.done || m.cancelled {
		return ""
	}
	var desc string
	if m.prompt.Description != "" {
		desc = styleSummary.Render(m.prompt.Description) + "\n\n"
	}
	return desc + m.list.View() + "\n\n" + stylePrompt.Render("Use ↑/↓ to move, Enter to select, q to quit.")
}

func listHeight(height int, description string) int {
	h := height - 4
	if description != "" {
		h -= strings.Count(description, "\n") + 2
	}
	if h < 4 {
		h = 4
	}
	return h
}
