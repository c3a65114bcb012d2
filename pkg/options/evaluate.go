package options

// IsSatisfied reports whether opt should currently be visible.
//
// Each dependency is checked against the confirmed value of the referenced
// option when there is one, and otherwise against its tentative value (a
// checkbox toggled in the multi-select that is still open). An option that
// has neither is unsatisfied. All dependencies must hold.
func IsSatisfied(opt Option, confirmed UserValues, tentative map[string]bool) bool {
	for _, dep := range opt.Dependencies {
		if v, ok := confirmed[dep.ID]; ok {
			if !dep.Accepts(v) {
				return false
			}
			continue
		}
		if v, ok := tentative[dep.ID]; ok && dep.Accepts(v) {
			continue
		}
		return false
	}
	return true
}

// VisibleMembers filters cluster members down to the satisfied ones, keeping order.
func VisibleMembers(members []Option, confirmed UserValues, tentative map[string]bool) []Option {
	visible := make([]Option, 0, len(members))
	for _, opt := range members {
		if IsSatisfied(opt, confirmed, tentative) {
			visible = append(visible, opt)
		}
	}
	return visible
}
