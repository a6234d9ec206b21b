package engine

// FieldMapping translates a rule's logical field name into the data column
// that supplies its value. Built once per run and used read-only.
type FieldMapping map[string]string

// BuildFieldMapping constructs the field mapping from the configuration.
// Every field definition carrying both QC names and a data column registers
// each QC name as a key pointing to that column. When two definitions target
// the same QC name, the later one in document order wins.
func BuildFieldMapping(cfg *MappingConfig) FieldMapping {
	fm := make(FieldMapping)
	if cfg == nil {
		return fm
	}

	for _, section := range cfg.Sections {
		for _, field := range section.Fields {
			if len(field.QCNames) == 0 || field.DataColumn == "" {
				continue
			}
			for _, qcName := range field.QCNames {
				fm[qcName] = field.DataColumn
			}
		}
	}

	return fm
}

// Resolve returns the data column for a logical field name. Unmapped fields
// resolve to themselves; mapped reports which case applied so callers can
// phrase missing-column warnings accordingly.
func (fm FieldMapping) Resolve(field string) (column string, mapped bool) {
	if col, ok := fm[field]; ok {
		return col, true
	}
	return field, false
}
