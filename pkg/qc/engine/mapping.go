package engine

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// MappingConfig is the parsed mapping configuration: the Sections tree that
// ties logical QC field names to data columns, plus the QC overrides.
// Section and field order is preserved from the document so that the
// last-write-wins field mapping construction is deterministic.
type MappingConfig struct {
	Sections  []Section
	Overrides Overrides
}

// Section is one named group of field definitions.
type Section struct {
	Name   string
	Fields []FieldDef
}

// FieldDef ties one or more logical QC field names to a single source data
// column. Definitions missing either side are kept but contribute nothing
// to the field mapping.
type FieldDef struct {
	// Name is the field key within its section.
	Name string

	// QCNames are the logical names rules may reference (QC.mapping).
	QCNames []string

	// DataColumn is the sample data column supplying the value
	// (data.mapping).
	DataColumn string
}

// UnmarshalYAML decodes the mapping document, walking the node tree
// directly to preserve section and field order.
func (m *MappingConfig) UnmarshalYAML(root *yaml.Node) error {
	if root.Kind != yaml.MappingNode {
		return fmt.Errorf("mapping configuration must be a mapping, got %s", nodeKind(root))
	}

	m.Overrides = make(Overrides)

	for i := 0; i+1 < len(root.Content); i += 2 {
		key := root.Content[i].Value
		val := root.Content[i+1]

		switch key {
		case "Sections":
			sections, err := decodeSections(val)
			if err != nil {
				return err
			}
			m.Sections = sections

		case "QC_overrides":
			overrides, err := decodeOverrides(val)
			if err != nil {
				return err
			}
			m.Overrides = overrides
		}
	}

	return nil
}

func decodeSections(node *yaml.Node) ([]Section, error) {
	if node.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("Sections must be a mapping, got %s", nodeKind(node))
	}

	var sections []Section
	for i := 0; i+1 < len(node.Content); i += 2 {
		name := node.Content[i].Value
		body := node.Content[i+1]

		if body.Kind != yaml.MappingNode {
			return nil, fmt.Errorf("section %q must be a mapping, got %s", name, nodeKind(body))
		}

		section := Section{Name: name}
		for j := 0; j+1 < len(body.Content); j += 2 {
			fieldName := body.Content[j].Value
			fieldBody := body.Content[j+1]

			// Non-mapping field entries carry no QC wiring; skip them.
			if fieldBody.Kind != yaml.MappingNode {
				continue
			}

			def, err := decodeFieldDef(name, fieldName, fieldBody)
			if err != nil {
				return nil, err
			}
			section.Fields = append(section.Fields, def)
		}
		sections = append(sections, section)
	}

	return sections, nil
}

func decodeFieldDef(section, name string, node *yaml.Node) (FieldDef, error) {
	def := FieldDef{Name: name}

	for i := 0; i+1 < len(node.Content); i += 2 {
		key := node.Content[i].Value
		val := node.Content[i+1]

		switch key {
		case "QC":
			if val.Kind != yaml.MappingNode {
				return def, fmt.Errorf("section %q field %q: QC must be a mapping", section, name)
			}
			mapping := childNode(val, "mapping")
			if mapping == nil {
				continue
			}
			names, err := decodeStringOrList(mapping)
			if err != nil {
				return def, fmt.Errorf("section %q field %q: QC.mapping: %w", section, name, err)
			}
			def.QCNames = names

		case "data":
			if val.Kind != yaml.MappingNode {
				return def, fmt.Errorf("section %q field %q: data must be a mapping", section, name)
			}
			mapping := childNode(val, "mapping")
			if mapping == nil {
				continue
			}
			if mapping.Kind != yaml.ScalarNode {
				return def, fmt.Errorf("section %q field %q: data.mapping must be a single column name", section, name)
			}
			def.DataColumn = mapping.Value
		}
	}

	return def, nil
}

func decodeOverrides(node *yaml.Node) (Overrides, error) {
	if node.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("QC_overrides must be a mapping, got %s", nodeKind(node))
	}

	overrides := make(Overrides)
	for i := 0; i+1 < len(node.Content); i += 2 {
		key := node.Content[i].Value
		vals, err := decodeStringOrList(node.Content[i+1])
		if err != nil {
			return nil, fmt.Errorf("QC_overrides.%s: %w", key, err)
		}
		overrides[key] = vals
	}

	return overrides, nil
}

// decodeStringOrList normalizes a scalar to a singleton list.
func decodeStringOrList(node *yaml.Node) ([]string, error) {
	switch node.Kind {
	case yaml.ScalarNode:
		return []string{node.Value}, nil

	case yaml.SequenceNode:
		out := make([]string, 0, len(node.Content))
		for _, item := range node.Content {
			if item.Kind != yaml.ScalarNode {
				return nil, fmt.Errorf("expected scalar list items, got %s", nodeKind(item))
			}
			out = append(out, item.Value)
		}
		return out, nil

	default:
		return nil, fmt.Errorf("expected string or list of strings, got %s", nodeKind(node))
	}
}

func childNode(mapping *yaml.Node, key string) *yaml.Node {
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		if mapping.Content[i].Value == key {
			return mapping.Content[i+1]
		}
	}
	return nil
}

func nodeKind(n *yaml.Node) string {
	switch n.Kind {
	case yaml.ScalarNode:
		return "scalar"
	case yaml.SequenceNode:
		return "sequence"
	case yaml.MappingNode:
		return "mapping"
	case yaml.DocumentNode:
		return "document"
	case yaml.AliasNode:
		return "alias"
	}
	return "unknown"
}
