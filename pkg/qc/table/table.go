package table

// Record is a single row of a Table: an ordered mapping from column name to
// a scalar value. Values are kept as text; missing cells are empty strings.
// The zero value is not usable, use NewRecord.
type Record struct {
	columns []string
	values  map[string]string
}

// NewRecord creates an empty record with the given column order.
// The column slice is copied.
func NewRecord(columns []string) *Record {
	r := &Record{
		columns: make([]string, len(columns)),
		values:  make(map[string]string, len(columns)),
	}
	copy(r.columns, columns)
	return r
}

// Get returns the value for a column and whether the column exists.
func (r *Record) Get(column string) (string, bool) {
	v, ok := r.values[column]
	if !ok {
		// A column can be declared without a stored value (empty cell).
		for _, c := range r.columns {
			if c == column {
				return "", true
			}
		}
		return "", false
	}
	return v, true
}

// Value returns the value for a column, or the empty string when the column
// is absent.
func (r *Record) Value(column string) string {
	v, _ := r.Get(column)
	return v
}

// Has reports whether the record carries the given column.
func (r *Record) Has(column string) bool {
	_, ok := r.Get(column)
	return ok
}

// Set stores a value, appending the column to the record's column order when
// it is new.
func (r *Record) Set(column, value string) {
	if !r.Has(column) {
		r.columns = append(r.columns, column)
	}
	r.values[column] = value
}

// Columns returns the record's column names in order. The returned slice
// must not be modified.
func (r *Record) Columns() []string {
	return r.columns
}

// Clone returns a deep copy of the record. The engine clones each sample
// before appending result columns so the input row is never mutated.
func (r *Record) Clone() *Record {
	c := NewRecord(r.columns)
	for k, v := range r.values {
		c.values[k] = v
	}
	return c
}

// Table is an ordered collection of records sharing one header.
type Table struct {
	Columns []string
	Records []*Record
}

// HasColumn reports whether the table header contains the given column.
func (t *Table) HasColumn(name string) bool {
	for _, c := range t.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// ColumnValues returns the values of one column across all records, in row
// order. Records without the column contribute empty strings.
func (t *Table) ColumnValues(name string) []string {
	out := make([]string, len(t.Records))
	for i, r := range t.Records {
		out[i] = r.Value(name)
	}
	return out
}
