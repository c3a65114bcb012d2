package cli

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/zdunecki/jobwizard/pkg/wizard"
)

type checkItem struct {
	optionItem
	checked bool
}

type checkDelegate struct{}

func (d checkDelegate) Height() int                             { return 1 }
func (d checkDelegate) Spacing() int                            { return 0 }
func (d checkDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d checkDelegate) Render(w io.Writer, m list.Model, index int, li list.Item) {
	item, ok := li.(checkItem)
	if !ok {
		return
	}
	box := "[ ]"
	if item.checked {
		box = "[x]"
	}
	line := fmt.Sprintf("%s %s", box, item.title)
	if index == m.Index() {
		line = styleHighlight.Render("> " + line)
	} else {
		line = "  " + line
	}
	if item.desc != "" {
		line += "  " + styleSubtitle.Render(item.desc)
	}
	fmt.Fprint(w, line)
}

// pickManyModel is a multi-select whose visible entries depend on the
// current selection. After every toggle it asks the prompt for the visible
// values again and drops selections that are no longer visible.
type pickManyModel struct {
	prompt    wizard.MultiPrompt
	byValue   map[string]wizard.Item
	visible   []string
	selected  []string
	list      list.Model
	done      bool
	cancelled bool
}

func newPickManyModel(p wizard.MultiPrompt) pickManyModel {
	m := pickManyModel{
		prompt:  p,
		byValue: make(map[string]wizard.Item, len(p.Items)),
	}
	for _, it := range p.Items {
		m.byValue[it.Value] = it
	}
	m.visible = p.Visible(nil)
	m.list = configureList(list.New(m.items(), checkDelegate{}, 0, 0), p.Title)
	return m
}

func (m pickManyModel) items() []list.Item {
	items := make([]list.Item, 0, len(m.visible))
	for _, v := range m.visible {
		items = append(items, checkItem{
			optionItem: newOptionItem(m.byValue[v]),
			checked:    indexOf(m.selected, v) >= 0,
		})
	}
	return items
}

func (m pickManyModel) Init() tea.Cmd {
	return nil
}

func (m pickManyModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.list.SetSize(msg.Width, listHeight(msg.Height, ""))
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeySpace || msg.String() == " " {
			return m, m.toggleCurrent()
		}
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			m.cancelled = true
			return m, tea.Quit
		case "enter":
			m.done = true
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m *pickManyModel) toggleCurrent() tea.Cmd {
	item, ok := m.list.SelectedItem().(checkItem)
	if !ok {
		return nil
	}
	return m.toggle(item.value)
}

// toggle flips value and replaces the displayed list with the new visible
// subset, keeping the cursor on the same entry when it is still shown.
func (m *pickManyModel) toggle(value string) tea.Cmd {
	if i := indexOf(m.selected, value); i >= 0 {
		m.selected = append(m.selected[:i:i], m.selected[i+1:]...)
	} else {
		m.selected = append(m.selected, value)
	}
	m.visible = m.prompt.Visible(m.selected)
	m.selected = wizard.Reconcile(m.selected, m.visible)

	cursor := indexOf(m.visible, value)
	if cursor < 0 {
		cursor = m.list.Index()
	}
	if cursor >= len(m.visible) {
		cursor = len(m.visible) - 1
	}
	cmd := m.list.SetItems(m.items())
	if cursor >= 0 {
		m.list.Select(cursor)
	}
	return cmd
}

func (m pickManyModel) View() string {
	if m.done || m.cancelled {
		return ""
	}
	body := m.list.View()
	if len(m.visible) == 0 {
		body = styleTitle.Render(m.prompt.Title) + "\n\n" + styleSubtitle.Render("Nothing to select.")
	}
	return body + "\n\n" + stylePrompt.Render("Use ↑/↓ to move, Space to toggle, Enter to confirm, q to quit.")
}

func indexOf(values []string, v string) int {
	for i, candidate := range values {
		if candidate == v {
			return i
		}
	}
	return -1
}
