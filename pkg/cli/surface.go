package cli

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/zdunecki/jobwizard/pkg/wizard"
)

// Surface shows each prompt as its own bubbletea program.
type Surface struct {
	opts []tea.ProgramOption
}

var _ wizard.Surface = (*Surface)(nil)

// NewSurface returns a terminal surface. opts are passed to every program,
// e.g. tea.WithAltScreen().
func NewSurface(opts ...tea.ProgramOption) *Surface {
	return &Surface{opts: opts}
}

func (s *Surface) PickOne(ctx context.Context, p wizard.SinglePrompt) (string, bool, error) {
	final, err := s.run(ctx, newPickOneModel(p))
	if err != nil {
		return "", false, err
	}
	m, ok := final.(pickOneModel)
	if !ok {
		return "", false, fmt.Errorf("prompt %q failed to return a result", p.Title)
	}
	if m.cancelled || !m.done {
		return "", false, nil
	}
	return m.chosen, true, nil
}

func (s *Surface) PickMany(ctx context.Context, p wizard.MultiPrompt) ([]string, bool, error) {
	final, err := s.run(ctx, newPickManyModel(p))
	if err != nil {
		return nil, false, err
	}
	m, ok := final.(pickManyModel)
	if !ok {
		return nil, false, fmt.Errorf("prompt %q failed to return a result", p.Title)
	}
	if m.cancelled || !m.done {
		return nil, false, nil
	}
	return m.selected, true, nil
}

func (s *Surface) Input(ctx context.Context, p wizard.TextPrompt) (string, bool, error) {
	final, err := s.run(ctx, newInputModel(p))
	if err != nil {
		return "", false, err
	}
	m, ok := final.(inputModel)
	if !ok {
		return "", false, fmt.Errorf("prompt %q failed to return a result", p.Title)
	}
	if m.cancelled || !m.done {
		return "", false, nil
	}
	return m.value, true, nil
}

func (s *Surface) run(ctx context.Context, model tea.Model) (tea.Model, error) {
	opts := append([]tea.ProgramOption{tea.WithContext(ctx)}, s.opts...)
	final, err := tea.NewProgram(model, opts...).Run()
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, err
	}
	return final, nil
}
