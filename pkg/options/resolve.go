package options

// Resolve returns the order in which options are presented. Options that gate
// others come before their dependents; linked dropdowns are grouped first and
// the remaining options follow with checkboxes grouped first.
//
// Resolve is total: ids that are not in the set are still emitted, and a
// dependency cycle is cut at the first revisit instead of looping. Use
// Validate to reject both.
func Resolve(set OptionSet) []string {
	var linked []string
	for _, id := range set.order {
		opt := set.byID[id]
		if !opt.HasDependencies() {
			continue
		}
		linked = append(linked, id)
		for _, dep := range opt.Dependencies {
			linked = append(linked, dep.ID)
		}
	}
	linked = partition(linked, func(id string) bool {
		return set.typeOf(id) == TypeDropdown
	})

	visited := make(map[string]bool, len(linked))
	sorted := make([]string, 0, len(linked))
	var visit func(id string)
	visit = func(id string) {
		if visited[id] {
			return
		}
		visited[id] = true
		for _, dep := range set.byID[id].Dependencies {
			visit(dep.ID)
		}
		sorted = append(sorted, id)
	}
	for _, id := range linked {
		visit(id)
	}

	rest := partition(set.IDs(), func(id string) bool {
		return set.typeOf(id) == TypeCheckbox
	})
	return dedupe(append(sorted, rest...))
}

// partition is a stable split: ids matching first keep their order ahead of the rest.
func partition(ids []string, first func(string) bool) []string {
	out := make([]string, 0, len(ids))
	var tail []string
	for _, id := range ids {
		if first(id) {
			out = append(out, id)
		} else {
			tail = append(tail, id)
		}
	}
	return append(out, tail...)
}

func dedupe(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
