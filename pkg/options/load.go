package options

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Document is the layout of an option definition file:
//
//	options:
//	  precision:
//	    name: Precision
//	    type: dropdown
//	    choices: [single, double]
//	  verbose:
//	    type: checkbox
//	    dependencies:
//	      precision: [double]
type Document struct {
	Options OptionSet `yaml:"options"`
}

var optionFields = map[string]bool{
	"name":         true,
	"description":  true,
	"tier":         true,
	"type":         true,
	"choices":      true,
	"dependencies": true,
}

type yamlOption struct {
	Name         string    `yaml:"name"`
	Description  string    `yaml:"description"`
	Tier         Tier      `yaml:"tier"`
	Type         Type      `yaml:"type"`
	Choices      []string  `yaml:"choices"`
	Dependencies yaml.Node `yaml:"dependencies"`
}

// UnmarshalYAML reads a mapping of id -> option, keeping the mapping order as declaration order.
func (s *OptionSet) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: options must be a mapping of id to option", node.Line)
	}
	set := OptionSet{byID: make(map[string]Option, len(node.Content)/2)}
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, value := node.Content[i], node.Content[i+1]
		opt, err := decodeOption(key.Value, value)
		if err != nil {
			return err
		}
		if err := set.add(opt); err != nil {
			return fmt.Errorf("line %d: %w", key.Line, err)
		}
	}
	set.coerceDependencyValues()
	*s = set
	return nil
}

func decodeOption(id string, node *yaml.Node) (Option, error) {
	if node.Kind != yaml.MappingNode {
		return Option{}, fmt.Errorf("option %s: line %d: expected a mapping", id, node.Line)
	}
	for i := 0; i < len(node.Content); i += 2 {
		if field := node.Content[i].Value; !optionFields[field] {
			return Option{}, fmt.Errorf("option %s: line %d: field %s not found", id, node.Content[i].Line, field)
		}
	}

	var raw yamlOption
	if err := node.Decode(&raw); err != nil {
		return Option{}, fmt.Errorf("option %s: %w", id, err)
	}
	deps, err := decodeDependencies(raw.Dependencies)
	if err != nil {
		return Option{}, fmt.Errorf("option %s: %w", id, err)
	}
	return Option{
		ID:           id,
		Name:         raw.Name,
		Description:  raw.Description,
		Tier:         raw.Tier,
		Type:         raw.Type,
		Choices:      raw.Choices,
		Dependencies: deps,
	}, nil
}

// decodeDependencies accepts `dep: value` or `dep: [values...]`. Booleans keep
// their type here; the set converts them once every target type is known.
func decodeDependencies(node yaml.Node) ([]Dependency, error) {
	if node.Kind == 0 {
		return nil, nil
	}
	if node.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("line %d: dependencies must be a mapping", node.Line)
	}
	deps := make([]Dependency, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, value := node.Content[i], node.Content[i+1]
		dep := Dependency{ID: strings.TrimSpace(key.Value)}
		items := []*yaml.Node{value}
		if value.Kind == yaml.SequenceNode {
			items = value.Content
		}
		for _, item := range items {
			if item.Kind != yaml.ScalarNode {
				return nil, fmt.Errorf("line %d: dependency %s: values must be scalars", item.Line, dep.ID)
			}
			if item.Tag == "!!bool" {
				var b bool
				if err := item.Decode(&b); err != nil {
					return nil, err
				}
				dep.Values = append(dep.Values, b)
				continue
			}
			dep.Values = append(dep.Values, item.Value)
		}
		deps = append(deps, dep)
	}
	return deps, nil
}

// Load parses an option definition document.
func Load(data []byte) (OptionSet, error) {
	if len(data) == 0 {
		return OptionSet{}, fmt.Errorf("empty option definition")
	}
	var doc Document
	decoder := yaml.NewDecoder(strings.NewReader(string(data)))
	decoder.KnownFields(true)
	if err := decoder.Decode(&doc); err != nil {
		return OptionSet{}, err
	}
	return doc.Options, nil
}

// LoadFile reads and parses an option definition file.
func LoadFile(path string) (OptionSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return OptionSet{}, fmt.Errorf("read %s: %w", path, err)
	}
	set, err := Load(data)
	if err != nil {
		return OptionSet{}, fmt.Errorf("parse %s: %w", path, err)
	}
	return set, nil
}
