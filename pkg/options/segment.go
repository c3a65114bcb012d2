package options

// UnitKind tells the wizard which input surface a unit needs.
type UnitKind int

const (
	// UnitSingleton is one dropdown or text option.
	UnitSingleton UnitKind = iota
	// UnitCluster is a run of consecutive checkbox options shown as one multi-select.
	UnitCluster
)

func (k UnitKind) String() string {
	if k == UnitCluster {
		return "cluster"
	}
	return "singleton"
}

// Unit is one presentation step of the wizard.
type Unit struct {
	Kind UnitKind
	IDs  []string
}

// Segment splits a resolved order into presentation units. Maximal runs of
// checkbox ids become clusters; every other id is a singleton.
func Segment(order []string, set OptionSet) []Unit {
	units := make([]Unit, 0, len(order))
	for i := 0; i < len(order); {
		if set.typeOf(order[i]) != TypeCheckbox {
			units = append(units, Unit{Kind: UnitSingleton, IDs: []string{order[i]}})
			i++
			continue
		}
		j := i
		for j < len(order) && set.typeOf(order[j]) == TypeCheckbox {
			j++
		}
		units = append(units, Unit{Kind: UnitCluster, IDs: append([]string(nil), order[i:j]...)})
		i = j
	}
	return units
}
