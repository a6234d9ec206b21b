package table

import (
	"fmt"
	"strconv"
	"strings"
)

// ColumnSpec declares validation constraints for one table column.
type ColumnSpec struct {
	// Name is the column name.
	Name string

	// Required marks the column as mandatory in the header.
	Required bool

	// NonEmpty requires every cell in the column to be non-blank.
	NonEmpty bool

	// Unique requires all non-blank values in the column to be distinct.
	Unique bool

	// Allowed restricts non-blank values to the listed set.
	Allowed []string

	// MinInt, when set, requires values to parse as integers >= *MinInt.
	MinInt *int
}

// Schema is a declarative description of a table's required shape. Columns
// not listed in the schema are allowed and pass through untouched.
type Schema struct {
	// Table is the human-readable table name used in error messages.
	Table string

	// Columns are the constrained columns.
	Columns []ColumnSpec
}

// SchemaError reports all schema violations found in a table.
type SchemaError struct {
	// Table is the table name the schema was validated against.
	Table string

	// Violations are human-readable descriptions of each failure.
	Violations []string
}

// Error returns a message listing every violation.
func (e *SchemaError) Error() string {
	if len(e.Violations) == 1 {
		return fmt.Sprintf("%s table validation failed: %s", e.Table, e.Violations[0])
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s table validation failed with %d errors:", e.Table, len(e.Violations))
	for _, v := range e.Violations {
		sb.WriteString("\n  - ")
		sb.WriteString(v)
	}
	return sb.String()
}

// Validate checks a table against the schema and returns a *SchemaError
// collecting every violation, or nil when the table conforms.
func (s Schema) Validate(t *Table) error {
	var violations []string

	for _, spec := range s.Columns {
		if !t.HasColumn(spec.Name) {
			if spec.Required {
				violations = append(violations, fmt.Sprintf("missing required column %q", spec.Name))
			}
			continue
		}

		seen := make(map[string]int)
		for i, rec := range t.Records {
			val := strings.TrimSpace(rec.Value(spec.Name))

			if val == "" {
				if spec.NonEmpty {
					violations = append(violations,
						fmt.Sprintf("column %q row %d: value must not be empty", spec.Name, i+1))
				}
				continue
			}

			if spec.Unique {
				if prev, dup := seen[val]; dup {
					violations = append(violations,
						fmt.Sprintf("column %q row %d: duplicate value %q (first seen in row %d)",
							spec.Name, i+1, val, prev))
				} else {
					seen[val] = i + 1
				}
			}

			if len(spec.Allowed) > 0 && !contains(spec.Allowed, val) {
				violations = append(violations,
					fmt.Sprintf("column %q row %d: value %q not in allowed set %v",
						spec.Name, i+1, val, spec.Allowed))
			}

			if spec.MinInt != nil {
				n, err := strconv.Atoi(val)
				if err != nil {
					violations = append(violations,
						fmt.Sprintf("column %q row %d: value %q is not an integer", spec.Name, i+1, val))
				} else if n < *spec.MinInt {
					violations = append(violations,
						fmt.Sprintf("column %q row %d: value %d below minimum %d",
							spec.Name, i+1, n, *spec.MinInt))
				}
			}
		}
	}

	if len(violations) > 0 {
		return &SchemaError{Table: s.Table, Violations: violations}
	}
	return nil
}

func contains(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}
