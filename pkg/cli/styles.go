package cli

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/lipgloss"

	"github.com/zdunecki/jobwizard/pkg/wizard"
)

var (
	styleTitle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
	styleSubtitle  = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	styleError     = lipgloss.NewStyle().Foreground(lipgloss.Color("160")).Bold(true)
	stylePrompt    = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	styleSummary   = lipgloss.NewStyle().Foreground(lipgloss.Color("81"))
	styleHighlight = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
)

type optionItem struct {
	title string
	desc  string
	value string
}

func (i optionItem) Title() string       { return i.title }
func (i optionItem) Description() string { return i.desc }
func (i optionItem) FilterValue() string { return i.title }

func newOptionItem(it wizard.Item) optionItem {
	title := it.Title
	if title == "" {
		title = it.Value
	}
	if it.Decoration != "" {
		title = fmt.Sprintf("%s (%s)", title, it.Decoration)
	}
	return optionItem{title: title, desc: it.Description, value: it.Value}
}

func newList(title string, items []list.Item) list.Model {
	delegate := list.NewDefaultDelegate()
	delegate.ShowDescription = true
	delegate.Styles.NormalTitle = delegate.Styles.NormalTitle.Foreground(lipgloss.Color("252"))
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.Foreground(lipgloss.Color("205")).Bold(true)
	delegate.Styles.NormalDesc = delegate.Styles.NormalDesc.Foreground(lipgloss.Color("244")).Italic(true)
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.Foreground(lipgloss.Color("212")).Italic(true)
	return configureList(list.New(items, delegate, 0, 0), title)
}

func configureList(l list.Model, title string) list.Model {
	l.Title = styleTitle.Render(title)
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetShowPagination(false)
	return l
}

func header(description, validationErr string) string {
	var out string
	if validationErr != "" {
		out += styleError.Render("Validation: "+validationErr) + "\n\n"
	}
	if description != "" {
		out += styleSubtitle.Render(description) + "\n\n"
	}
	return out
}
