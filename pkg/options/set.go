package options

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// OptionSet maps option ids to options and remembers declaration order.
type OptionSet struct {
	order []string
	byID  map[string]Option
}

// NewSet builds a set in the given order. Ids must be non-empty and unique.
func NewSet(opts ...Option) (OptionSet, error) {
	set := OptionSet{byID: make(map[string]Option, len(opts))}
	for _, opt := range opts {
		if err := set.add(opt); err != nil {
			return OptionSet{}, err
		}
	}
	return set, nil
}

func (s *OptionSet) add(opt Option) error {
	opt.ID = strings.TrimSpace(opt.ID)
	if opt.ID == "" {
		return fmt.Errorf("option without id")
	}
	if s.byID == nil {
		s.byID = make(map[string]Option)
	}
	if _, exists := s.byID[opt.ID]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateOption, opt.ID)
	}
	if opt.Tier == "" {
		opt.Tier = TierCustomer
	}
	s.order = append(s.order, opt.ID)
	s.byID[opt.ID] = opt
	return nil
}

// Len returns the number of options.
func (s OptionSet) Len() int {
	return len(s.order)
}

// IDs returns option ids in declaration order.
func (s OptionSet) IDs() []string {
	return append([]string(nil), s.order...)
}

// Get looks up an option by id.
func (s OptionSet) Get(id string) (Option, bool) {
	opt, ok := s.byID[id]
	return opt, ok
}

func (s OptionSet) typeOf(id string) Type {
	return s.byID[id].Type
}

// Validate rejects sets the resolver and wizard cannot work with: unknown
// types, dropdowns without choices, dangling dependencies, dependency values
// the target can never hold and dependency cycles.
func (s OptionSet) Validate() error {
	for _, id := range s.order {
		opt := s.byID[id]
		if !opt.Type.valid() {
			return fmt.Errorf("option %s: %w: %q", id, ErrUnknownType, string(opt.Type))
		}
		if opt.Type == TypeDropdown && len(opt.Choices) == 0 {
			return fmt.Errorf("option %s: %w", id, ErrMissingChoices)
		}
		for _, dep := range opt.Dependencies {
			if _, ok := s.byID[dep.ID]; !ok {
				return fmt.Errorf("option %s: %w: %s", id, ErrDanglingDependency, dep.ID)
			}
			if err := s.checkDependencyValues(dep); err != nil {
				return fmt.Errorf("option %s: %w", id, err)
			}
		}
	}
	return s.detectCycles()
}

// checkDependencyValues requires bools for checkbox targets, one of the
// choices for dropdown targets and strings for text targets.
func (s OptionSet) checkDependencyValues(dep Dependency) error {
	target := s.byID[dep.ID]
	for _, v := range dep.Values {
		switch target.Type {
		case TypeCheckbox:
			if _, ok := v.(bool); !ok {
				return fmt.Errorf("%w: %s is a checkbox, got %#v", ErrDependencyValue, dep.ID, v)
			}
		case TypeDropdown:
			str, ok := v.(string)
			if !ok {
				return fmt.Errorf("%w: %s is a dropdown, got %#v", ErrDependencyValue, dep.ID, v)
			}
			if !containsString(target.Choices, str) {
				return fmt.Errorf("%w: %q is not a choice of %s", ErrDependencyValue, str, dep.ID)
			}
		case TypeText:
			if _, ok := v.(string); !ok {
				return fmt.Errorf("%w: %s is a text option, got %#v", ErrDependencyValue, dep.ID, v)
			}
		}
	}
	return nil
}

// coerceDependencyValues converts decoded dependency values to the type of
// their target: "true"/"false" become bools for checkboxes and bools become
// strings for dropdown and text options. Anything else is left for Validate.
func (s *OptionSet) coerceDependencyValues() {
	for _, id := range s.order {
		opt := s.byID[id]
		if !opt.HasDependencies() {
			continue
		}
		deps := make([]Dependency, 0, len(opt.Dependencies))
		for _, dep := range opt.Dependencies {
			target, ok := s.byID[dep.ID]
			if !ok {
				deps = append(deps, dep)
				continue
			}
			values := make([]any, 0, len(dep.Values))
			for _, v := range dep.Values {
				values = append(values, coerceValue(target.Type, v))
			}
			deps = append(deps, Dependency{ID: dep.ID, Values: values})
		}
		opt.Dependencies = deps
		s.byID[id] = opt
	}
}

func coerceValue(t Type, v any) any {
	switch value := v.(type) {
	case bool:
		if t == TypeDropdown || t == TypeText {
			return strconv.FormatBool(value)
		}
	case string:
		if t == TypeCheckbox {
			switch strings.ToLower(strings.TrimSpace(value)) {
			case "true":
				return true
			case "false":
				return false
			}
		}
	}
	return v
}

func containsString(values []string, v string) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}

// detectCycles runs a DFS with temporary and permanent marks over the dependency edges.
func (s OptionSet) detectCycles() error {
	permanent := make(map[string]bool, len(s.order))
	temporary := make(map[string]bool)

	var visit func(id string) error
	visit = func(id string) error {
		if permanent[id] {
			return nil
		}
		if temporary[id] {
			return fmt.Errorf("%w involving option %s", ErrDependencyCycle, id)
		}
		temporary[id] = true
		for _, dep := range s.byID[id].Dependencies {
			if err := visit(dep.ID); err != nil {
				return err
			}
		}
		delete(temporary, id)
		permanent[id] = true
		return nil
	}

	for _, id := range s.order {
		if err := visit(id); err != nil {
			return err
		}
	}
	return nil
}

type jsonDependency struct {
	Option string `json:"option"`
	Values []any  `json:"values"`
}

type jsonOption struct {
	ID           string           `json:"id"`
	Name         string           `json:"name"`
	Description  string           `json:"description"`
	Tier         Tier             `json:"tier"`
	Type         Type             `json:"type"`
	Choices      []string         `json:"choices,omitempty"`
	Dependencies []jsonDependency `json:"dependencies,omitempty"`
}

// UnmarshalJSON decodes the job service form: an array of options carrying their ids.
func (s *OptionSet) UnmarshalJSON(data []byte) error {
	var raw []jsonOption
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	set := OptionSet{byID: make(map[string]Option, len(raw))}
	for _, r := range raw {
		opt := Option{
			ID:          r.ID,
			Name:        r.Name,
			Description: r.Description,
			Tier:        r.Tier,
			Type:        r.Type,
			Choices:     r.Choices,
		}
		for _, d := range r.Dependencies {
			dep := Dependency{ID: strings.TrimSpace(d.Option)}
			for _, v := range d.Values {
				dep.Values = append(dep.Values, normalizeValue(v))
			}
			opt.Dependencies = append(opt.Dependencies, dep)
		}
		if err := set.add(opt); err != nil {
			return err
		}
	}
	set.coerceDependencyValues()
	*s = set
	return nil
}
