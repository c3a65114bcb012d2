package wizard

import "context"

// Item is one entry of a pick list.
type Item struct {
	Value       string
	Title       string
	Description string
	// Decoration is a short tag rendered next to the title (tier labels, "default").
	Decoration string
}

// SinglePrompt asks for exactly one item.
type SinglePrompt struct {
	Title       string
	Description string
	Items       []Item
	Default     int
}

// MultiPrompt asks for any subset of Items. The surface shows only the items
// whose values Visible returns for the current selection and must call it
// again whenever the selection changes.
type MultiPrompt struct {
	Title   string
	Items   []Item
	Visible func(selected []string) []string
}

// TextPrompt asks for free text.
type TextPrompt struct {
	Title       string
	Description string
	Placeholder string
	// Required keeps the prompt open until a non-blank value is entered.
	Required bool
}

// Surface is the display the collector drives. Each call blocks until the
// user answers; ok is false when the user dismissed the prompt.
type Surface interface {
	PickOne(ctx context.Context, p SinglePrompt) (value string, ok bool, err error)
	PickMany(ctx context.Context, p MultiPrompt) (selected []string, ok bool, err error)
	Input(ctx context.Context, p TextPrompt) (value string, ok bool, err error)
}

// Reconcile keeps the selected values that are still visible, in visible order.
func Reconcile(selected, visible []string) []string {
	picked := make(map[string]bool, len(selected))
	for _, v := range selected {
		picked[v] = true
	}
	out := make([]string, 0, len(selected))
	for _, v := range visible {
		if picked[v] {
			out = append(out, v)
		}
	}
	return out
}
