package options

import (
	"fmt"
	"strings"
)

// Type is the input kind of an option.
type Type string

const (
	TypeCheckbox Type = "CHECKBOX"
	TypeDropdown Type = "DROPDOWN"
	TypeText     Type = "TEXT"
)

// ParseType accepts the type names case-insensitively.
func ParseType(s string) (Type, error) {
	t := Type(strings.ToUpper(strings.TrimSpace(s)))
	if !t.valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownType, s)
	}
	return t, nil
}

func (t Type) valid() bool {
	switch t {
	case TypeCheckbox, TypeDropdown, TypeText:
		return true
	}
	return false
}

func (t *Type) UnmarshalText(text []byte) error {
	parsed, err := ParseType(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Tier only affects how an option is decorated in the wizard.
type Tier string

const (
	TierCustomer Tier = "CUSTOMER_ONLY"
	TierPremium  Tier = "PREMIUM_ONLY"
	TierAdmin    Tier = "ADMIN_ONLY"
)

// ParseTier accepts the tier names case-insensitively. An empty string is the customer tier.
func ParseTier(s string) (Tier, error) {
	value := strings.ToUpper(strings.TrimSpace(s))
	if value == "" {
		return TierCustomer, nil
	}
	switch t := Tier(value); t {
	case TierCustomer, TierPremium, TierAdmin:
		return t, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownTier, s)
}

func (t *Tier) UnmarshalText(text []byte) error {
	parsed, err := ParseTier(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Decoration is the label shown next to non-default choices of options in this tier.
func (t Tier) Decoration() string {
	switch t {
	case TierPremium:
		return "premium"
	case TierAdmin:
		return "admin"
	default:
		return ""
	}
}

// Dependency gates an option on another option holding one of Values.
// Values are bools for checkbox targets and strings otherwise.
type Dependency struct {
	ID     string
	Values []any
}

// Accepts reports whether v is one of the dependency's acceptable values.
func (d Dependency) Accepts(v any) bool {
	for _, want := range d.Values {
		if want == v {
			return true
		}
	}
	return false
}

// Option is the static description of one configurable job parameter.
type Option struct {
	ID           string
	Name         string
	Description  string
	Tier         Tier
	Type         Type
	Choices      []string
	Dependencies []Dependency
}

// HasDependencies reports whether the option is gated on any other option.
func (o Option) HasDependencies() bool {
	return len(o.Dependencies) > 0
}

// DefaultValue is the value an option holds before the user confirms anything.
func (o Option) DefaultValue() any {
	switch o.Type {
	case TypeCheckbox:
		return false
	case TypeDropdown:
		if len(o.Choices) > 0 {
			return o.Choices[0]
		}
		return ""
	default:
		return ""
	}
}

// Label is the display name, falling back to the id.
func (o Option) Label() string {
	if name := strings.TrimSpace(o.Name); name != "" {
		return name
	}
	return o.ID
}

// UserValues holds confirmed values keyed by option id: bool for checkboxes, string otherwise.
type UserValues map[string]any

// normalizeValue folds decoded dependency values into the comparable bool/string domain.
func normalizeValue(v any) any {
	switch value := v.(type) {
	case bool:
		return value
	case string:
		return value
	case nil:
		return ""
	default:
		return fmt.Sprint(value)
	}
}
