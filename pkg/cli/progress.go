package cli

import (
	"context"
	"errors"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// ErrInterrupted is returned when the user quits while work is in progress.
var ErrInterrupted = errors.New("interrupted")

type progressDoneMsg struct{}

type progressModel struct {
	title       string
	spinner     spinner.Model
	done        bool
	interrupted bool
}

func newProgressModel(title string) progressModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = styleHighlight
	return progressModel{title: title, spinner: s}
}

func (m progressModel) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case progressDoneMsg:
		m.done = true
		return m, tea.Quit
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			m.interrupted = true
			return m, tea.Quit
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.spinner, cmd = m.spinner.Update(msg)
	return m, cmd
}

func (m progressModel) View() string {
	if m.done || m.interrupted {
		return ""
	}
	return m.spinner.View() + " " + styleSubtitle.Render(m.title) + "\n"
}

// WithProgress runs fn while a spinner titled title is shown and returns
// fn's result. Quitting the spinner cancels fn's context and returns
// ErrInterrupted.
func WithProgress[T any](ctx context.Context, title string, fn func(context.Context) (T, error), opts ...tea.ProgramOption) (T, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	type result struct {
		value T
		err   error
	}
	results := make(chan result, 1)

	prog := tea.NewProgram(newProgressModel(title), append([]tea.ProgramOption{tea.WithContext(ctx)}, opts...)...)
	go func() {
		v, err := fn(ctx)
		results <- result{value: v, err: err}
		prog.Send(progressDoneMsg{})
	}()

	final, runErr := prog.Run()
	if m, ok := final.(progressModel); ok && m.interrupted {
		cancel()
		var zero T
		return zero, ErrInterrupted
	}
	if runErr != nil && !errors.Is(runErr, tea.ErrProgramKilled) {
		cancel()
		var zero T
		return zero, runErr
	}

	r := <-results
	return r.value, r.err
}

// Progress adapts WithProgress to the untyped form used by Submit.
func Progress(opts ...tea.ProgramOption) func(ctx context.Context, title string, fn func(context.Context) error) error {
	return func(ctx context.Context, title string, fn func(context.Context) error) error {
		_, err := WithProgress(ctx, title, func(ctx context.Context) (struct{}, error) {
			return struct{}{}, fn(ctx)
		}, opts...)
		return err
	}
}
