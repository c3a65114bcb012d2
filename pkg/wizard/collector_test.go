package wizard

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zdunecki/jobwizard/pkg/options"
)

// scriptedSurface answers prompts from queues and records what it was shown.
type scriptedSurface struct {
	picks  []string
	inputs []string
	// toggles are applied one by one to the multi-select; the accepted
	// selection is whatever is still selected and visible afterwards.
	toggles [][]string
	// cancelAt dismisses the n-th prompt (1-based); 0 never dismisses.
	cancelAt int
	err      error

	prompts     int
	shownSingle []SinglePrompt
	shownMulti  [][]string
}

func (s *scriptedSurface) next() bool {
	s.prompts++
	return s.cancelAt != 0 && s.prompts == s.cancelAt
}

func (s *scriptedSurface) PickOne(_ context.Context, p SinglePrompt) (string, bool, error) {
	if s.err != nil {
		return "", false, s.err
	}
	s.shownSingle = append(s.shownSingle, p)
	if s.next() {
		return "", false, nil
	}
	v := s.picks[0]
	s.picks = s.picks[1:]
	return v, true, nil
}

func (s *scriptedSurface) PickMany(_ context.Context, p MultiPrompt) ([]string, bool, error) {
	if s.err != nil {
		return nil, false, s.err
	}
	visible := p.Visible(nil)
	s.shownMulti = append(s.shownMulti, visible)
	if s.next() {
		return nil, false, nil
	}
	var selected []string
	var steps []string
	if len(s.toggles) > 0 {
		steps = s.toggles[0]
		s.toggles = s.toggles[1:]
	}
	for _, id := range steps {
		if !contains(visible, id) {
			continue
		}
		if contains(selected, id) {
			selected = remove(selected, id)
		} else {
			selected = append(selected, id)
		}
		visible = p.Visible(selected)
		selected = Reconcile(selected, visible)
	}
	return selected, true, nil
}

func (s *scriptedSurface) Input(_ context.Context, p TextPrompt) (string, bool, error) {
	if s.err != nil {
		return "", false, s.err
	}
	if s.next() {
		return "", false, nil
	}
	v := s.inputs[0]
	s.inputs = s.inputs[1:]
	return v, true, nil
}

func remove(values []string, v string) []string {
	out := values[:0:0]
	for _, candidate := range values {
		if candidate != v {
			out = append(out, candidate)
		}
	}
	return out
}

func scenarioSet(t *testing.T) options.OptionSet {
	t.Helper()
	set, err := options.NewSet(
		options.Option{ID: "A", Name: "Alpha", Type: options.TypeCheckbox},
		options.Option{ID: "B", Name: "Beta", Type: options.TypeCheckbox,
			Dependencies: []options.Dependency{{ID: "A", Values: []any{true}}}},
		options.Option{ID: "C", Name: "Gamma", Type: options.TypeDropdown, Choices: []string{"x", "y"}, Tier: options.TierPremium},
	)
	require.NoError(t, err)
	return set
}

func TestRunTogglesDependentCheckbox(t *testing.T) {
	c, err := New(scenarioSet(t))
	require.NoError(t, err)

	surface := &scriptedSurface{
		toggles: [][]string{{"A", "B"}},
		picks:   []string{"y"},
	}
	values, ok, err := c.Run(context.Background(), surface)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, options.UserValues{"A": true, "B": true, "C": "y"}, values)
	assert.Equal(t, StateCompleted, c.State())

	// B is hidden until A is toggled.
	assert.Equal(t, [][]string{{"A"}}, surface.shownMulti)
}

func TestRunHiddenCheckboxConfirmsFalse(t *testing.T) {
	c, err := New(scenarioSet(t))
	require.NoError(t, err)

	surface := &scriptedSurface{
		toggles: [][]string{{"B"}},
		picks:   []string{"x"},
	}
	values, ok, err := c.Run(context.Background(), surface)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, options.UserValues{"A": false, "B": false, "C": "x"}, values)
}

func TestRunUntoggleDropsDependent(t *testing.T) {
	c, err := New(scenarioSet(t))
	require.NoError(t, err)

	surface := &scriptedSurface{
		toggles: [][]string{{"A", "B", "A"}},
		picks:   []string{"x"},
	}
	values, ok, err := c.Run(context.Background(), surface)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, false, values["A"])
	assert.Equal(t, false, values["B"])
}

func TestRunCancelAtDropdown(t *testing.T) {
	c, err := New(scenarioSet(t))
	require.NoError(t, err)

	surface := &scriptedSurface{
		toggles:  [][]string{{"A"}},
		cancelAt: 2,
	}
	values, ok, err := c.Run(context.Background(), surface)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, values)
	assert.Equal(t, StateCancelled, c.State())
}

func TestRunCancelAtCluster(t *testing.T) {
	c, err := New(scenarioSet(t))
	require.NoError(t, err)

	values, ok, err := c.Run(context.Background(), &scriptedSurface{cancelAt: 1})
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, values)
}

func TestRunSurfaceError(t *testing.T) {
	c, err := New(scenarioSet(t))
	require.NoError(t, err)

	boom := errors.New("terminal gone")
	_, ok, err := c.Run(context.Background(), &scriptedSurface{err: boom})
	assert.ErrorIs(t, err, boom)
	assert.False(t, ok)
	assert.Equal(t, StateCancelled, c.State())
}

func TestRunContextCancelled(t *testing.T) {
	c, err := New(scenarioSet(t))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, ok, err := c.Run(ctx, &scriptedSurface{})
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, ok)
}

func TestRunDropdownDecorations(t *testing.T) {
	c, err := New(scenarioSet(t))
	require.NoError(t, err)

	surface := &scriptedSurface{picks: []string{"x"}}
	_, ok, err := c.Run(context.Background(), surface)
	require.NoError(t, err)
	require.True(t, ok)

	require.Len(t, surface.shownSingle, 1)
	prompt := surface.shownSingle[0]
	assert.Equal(t, "Gamma", prompt.Title)
	assert.Equal(t, 0, prompt.Default)
	assert.Equal(t, []Item{
		{Value: "x", Title: "x", Decoration: "default"},
		{Value: "y", Title: "y", Decoration: "premium"},
	}, prompt.Items)
}

func TestRunRejectsUnknownChoice(t *testing.T) {
	c, err := New(scenarioSet(t))
	require.NoError(t, err)

	_, ok, err := c.Run(context.Background(), &scriptedSurface{picks: []string{"z"}})
	assert.ErrorContains(t, err, "not one of its choices")
	assert.False(t, ok)
}

func TestRunSkipsIrrelevantSingletons(t *testing.T) {
	set, err := options.NewSet(
		options.Option{ID: "solver", Type: options.TypeDropdown, Choices: []string{"direct", "iterative"}},
		options.Option{ID: "tolerance", Type: options.TypeText,
			Dependencies: []options.Dependency{{ID: "solver", Values: []any{"iterative"}}}},
		options.Option{ID: "label", Type: options.TypeText},
	)
	require.NoError(t, err)

	c, err := New(set)
	require.NoError(t, err)
	values, ok, err := c.Run(context.Background(), &scriptedSurface{
		picks:  []string{"direct"},
		inputs: []string{"run-1"},
	})
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, options.UserValues{"solver": "direct", "tolerance": "", "label": "run-1"}, values)

	c, err = New(set)
	require.NoError(t, err)
	values, ok, err = c.Run(context.Background(), &scriptedSurface{
		picks:  []string{"iterative"},
		inputs: []string{"1e-6", "run-2"},
	})
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, options.UserValues{"solver": "iterative", "tolerance": "1e-6", "label": "run-2"}, values)
}

func TestRunCoversEveryOrderedID(t *testing.T) {
	set, err := options.LoadFile("../options/testdata/solver.yaml")
	require.NoError(t, err)
	c, err := New(set)
	require.NoError(t, err)

	values, ok, err := c.Run(context.Background(), &scriptedSurface{
		toggles: [][]string{{"mesh_refine"}, {}},
		picks:   []string{"4", "iterative"},
		inputs:  []string{"0.01"},
	})
	require.NoError(t, err)
	require.True(t, ok)
	assert.Len(t, values, len(c.Order()))
	assert.Equal(t, options.UserValues{
		"mesh_refine":  true,
		"refine_depth": "4",
		"solver":       "iterative",
		"tolerance":    "0.01",
		"trace":        false,
	}, values)
}

func TestNewRejectsInvalidSets(t *testing.T) {
	set, err := options.NewSet(options.Option{ID: "a", Type: options.TypeCheckbox,
		Dependencies: []options.Dependency{{ID: "missing", Values: []any{true}}}})
	require.NoError(t, err)

	_, err = New(set)
	assert.ErrorIs(t, err, options.ErrDanglingDependency)
}

func TestSettleChainedDependencies(t *testing.T) {
	set, err := options.NewSet(
		options.Option{ID: "a", Type: options.TypeCheckbox},
		options.Option{ID: "b", Type: options.TypeCheckbox, Dependencies: []options.Dependency{{ID: "a", Values: []any{true}}}},
		options.Option{ID: "c", Type: options.TypeCheckbox, Dependencies: []options.Dependency{{ID: "b", Values: []any{true}}}},
		options.Option{ID: "d", Type: options.TypeCheckbox, Dependencies: []options.Dependency{{ID: "a", Values: []any{false}}}},
	)
	require.NoError(t, err)
	c, err := New(set)
	require.NoError(t, err)
	c.values = options.UserValues{}

	members := make([]options.Option, 0, 4)
	for _, id := range []string{"a", "b", "c", "d"} {
		opt, _ := set.Get(id)
		members = append(members, opt)
	}

	visible, kept := c.settle(members, []string{"a", "b", "c"})
	assert.Equal(t, []string{"a", "b", "c"}, visible)
	assert.Equal(t, []string{"a", "b", "c"}, kept)

	// Dropping a hides b, which hides c; d appears because a is now false.
	visible, kept = c.settle(members, []string{"b", "c"})
	assert.Equal(t, []string{"a", "d"}, visible)
	assert.Empty(t, kept)
}

func TestReconcile(t *testing.T) {
	assert.Equal(t, []string{"a", "c"}, Reconcile([]string{"c", "x", "a"}, []string{"a", "b", "c"}))
	assert.Empty(t, Reconcile(nil, []string{"a"}))
	assert.Empty(t, Reconcile([]string{"a"}, nil))
}

func TestRunSkipsClusterWithNothingVisible(t *testing.T) {
	set, err := options.NewSet(
		options.Option{ID: "mode", Type: options.TypeDropdown, Choices: []string{"basic", "advanced"}},
		options.Option{ID: "extra", Type: options.TypeCheckbox,
			Dependencies: []options.Dependency{{ID: "mode", Values: []any{"advanced"}}}},
	)
	require.NoError(t, err)
	c, err := New(set)
	require.NoError(t, err)

	surface := &scriptedSurface{picks: []string{"basic"}}
	values, ok, err := c.Run(context.Background(), surface)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, options.UserValues{"mode": "basic", "extra": false}, values)
	assert.Empty(t, surface.shownMulti)
}

func TestRunDropdownWithBooleanLikeChoices(t *testing.T) {
	set, err := options.Load([]byte(`options:
  mode:
    type: dropdown
    choices: [true, false]
  note:
    type: text
    dependencies:
      mode: [true]
`))
	require.NoError(t, err)
	c, err := New(set)
	require.NoError(t, err)

	values, ok, err := c.Run(context.Background(), &scriptedSurface{
		picks:  []string{"true"},
		inputs: []string{"hello"},
	})
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, options.UserValues{"mode": "true", "note": "hello"}, values)
}

func TestNewRejectsMistypedDependencyValue(t *testing.T) {
	set, err := options.NewSet(
		options.Option{ID: "gpu", Type: options.TypeCheckbox},
		options.Option{ID: "p", Type: options.TypeDropdown, Choices: []string{"x"},
			Dependencies: []options.Dependency{{ID: "gpu", Values: []any{"on"}}}},
	)
	require.NoError(t, err)

	_, err = New(set)
	assert.ErrorIs(t, err, options.ErrDependencyValue)
}

func TestRunCancelAtText(t *testing.T) {
	set, err := options.NewSet(
		options.Option{ID: "mode", Type: options.TypeDropdown, Choices: []string{"a", "b"}},
		options.Option{ID: "label", Type: options.TypeText},
	)
	require.NoError(t, err)
	c, err := New(set)
	require.NoError(t, err)

	surface := &scriptedSurface{picks: []string{"b"}, cancelAt: 2}
	values, ok, err := c.Run(context.Background(), surface)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, values)
	assert.Equal(t, StateCancelled, c.State())
	assert.Equal(t, 2, surface.prompts)
}
