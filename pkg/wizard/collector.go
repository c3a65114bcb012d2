package wizard

import (
	"context"
	"fmt"

	"github.com/zdunecki/jobwizard/pkg/options"
)

// State is the collector's position in the wizard.
type State int

const (
	StateAwaitingUnit State = iota
	StatePresentingDropdown
	StatePresentingText
	StatePresentingCluster
	StateCompleted
	StateCancelled
)

func (s State) String() string {
	switch s {
	case StateAwaitingUnit:
		return "awaiting-unit"
	case StatePresentingDropdown:
		return "presenting-dropdown"
	case StatePresentingText:
		return "presenting-text"
	case StatePresentingCluster:
		return "presenting-cluster"
	case StateCompleted:
		return "completed"
	case StateCancelled:
		return "cancelled"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Collector walks the presentation units of an option set and records the
// values the user confirms.
type Collector struct {
	set    options.OptionSet
	order  []string
	units  []options.Unit
	state  State
	values options.UserValues
}

// New validates the option set and plans the presentation order.
func New(set options.OptionSet) (*Collector, error) {
	if err := set.Validate(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	order := options.Resolve(set)
	return &Collector{
		set:   set,
		order: order,
		units: options.Segment(order, set),
		state: StateAwaitingUnit,
	}, nil
}

// Order returns the resolved presentation order.
func (c *Collector) Order() []string {
	return append([]string(nil), c.order...)
}

// Units returns the presentation units in order.
func (c *Collector) Units() []options.Unit {
	return append([]options.Unit(nil), c.units...)
}

// State returns the current state.
func (c *Collector) State() State {
	return c.state
}

// Run presents every unit on s. It returns ok=false with a nil error when the
// user dismissed any prompt; nothing collected up to that point is returned.
func (c *Collector) Run(ctx context.Context, s Surface) (options.UserValues, bool, error) {
	c.values = options.UserValues{}
	c.state = StateAwaitingUnit

	for _, unit := range c.units {
		if err := ctx.Err(); err != nil {
			return c.abort(err)
		}

		var ok bool
		var err error
		if unit.Kind == options.UnitCluster {
			ok, err = c.collectCluster(ctx, s, unit.IDs)
		} else {
			ok, err = c.collectSingleton(ctx, s, unit.IDs[0])
		}
		if err != nil || !ok {
			return c.abort(err)
		}
		c.state = StateAwaitingUnit
	}

	c.state = StateCompleted
	values := c.values
	c.values = nil
	return values, true, nil
}

func (c *Collector) abort(err error) (options.UserValues, bool, error) {
	c.state = StateCancelled
	c.values = nil
	return nil, false, err
}

func (c *Collector) collectSingleton(ctx context.Context, s Surface, id string) (bool, error) {
	opt, _ := c.set.Get(id)

	// Irrelevant options are not asked about; they keep their default.
	if !options.IsSatisfied(opt, c.values, nil) {
		c.values[id] = opt.DefaultValue()
		return true, nil
	}

	switch opt.Type {
	case options.TypeText:
		c.state = StatePresentingText
		value, ok, err := s.Input(ctx, TextPrompt{
			Title:       opt.Label(),
			Description: opt.Description,
			Placeholder: opt.Label(),
		})
		if err != nil || !ok {
			return false, err
		}
		c.values[id] = value
	case options.TypeDropdown:
		c.state = StatePresentingDropdown
		value, ok, err := s.PickOne(ctx, dropdownPrompt(opt))
		if err != nil || !ok {
			return false, err
		}
		if !contains(opt.Choices, value) {
			return false, fmt.Errorf("option %s: %q is not one of its choices", id, value)
		}
		c.values[id] = value
	default:
		return false, fmt.Errorf("option %s: %w: %q", id, options.ErrUnknownType, string(opt.Type))
	}
	return true, nil
}

func dropdownPrompt(opt options.Option) SinglePrompt {
	items := make([]Item, 0, len(opt.Choices))
	for i, choice := range opt.Choices {
		decoration := opt.Tier.Decoration()
		if i == 0 {
			decoration = "default"
		}
		items = append(items, Item{Value: choice, Title: choice, Decoration: decoration})
	}
	return SinglePrompt{
		Title:       opt.Label(),
		Description: opt.Description,
		Items:       items,
		Default:     0,
	}
}

func (c *Collector) collectCluster(ctx context.Context, s Surface, ids []string) (bool, error) {
	members := make([]options.Option, 0, len(ids))
	items := make([]Item, 0, len(ids))
	for _, id := range ids {
		opt, _ := c.set.Get(id)
		members = append(members, opt)
		items = append(items, Item{
			Value:       id,
			Title:       opt.Label(),
			Description: opt.Description,
			Decoration:  opt.Tier.Decoration(),
		})
	}

	// Nothing to show until something outside the cluster changes, which
	// cannot happen any more.
	if initial, _ := c.settle(members, nil); len(initial) == 0 {
		for _, opt := range members {
			c.values[opt.ID] = false
		}
		return true, nil
	}

	title := "Select options"
	if len(members) == 1 {
		title = members[0].Label()
	}

	c.state = StatePresentingCluster
	selected, ok, err := s.PickMany(ctx, MultiPrompt{
		Title: title,
		Items: items,
		Visible: func(selected []string) []string {
			visible, _ := c.settle(members, selected)
			return visible
		},
	})
	if err != nil || !ok {
		return false, err
	}

	_, kept := c.settle(members, selected)
	picked := make(map[string]bool, len(kept))
	for _, id := range kept {
		picked[id] = true
	}
	for _, opt := range members {
		c.values[opt.ID] = picked[opt.ID]
	}
	return true, nil
}

// settle recomputes the visible members for a selection and drops selections
// that became invisible, repeating until chained dependencies stop changing.
func (c *Collector) settle(members []options.Option, selected []string) (visible, kept []string) {
	kept = selected
	for {
		tentative := make(map[string]bool, len(members))
		for _, opt := range members {
			tentative[opt.ID] = false
		}
		for _, id := range kept {
			if _, ok := tentative[id]; ok {
				tentative[id] = true
			}
		}

		visible = visible[:0]
		for _, opt := range options.VisibleMembers(members, c.values, tentative) {
			visible = append(visible, opt.ID)
		}

		next := Reconcile(kept, visible)
		if len(next) == len(kept) {
			return visible, next
		}
		kept = next
	}
}

func contains(values []string, v string) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}
