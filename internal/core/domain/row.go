package domain

import "strings"

// Row is one record from the source database: an ordered set of
// column/value pairs. The column order is the order the query produced,
// which keeps canonical serialization deterministic.
//
// A Row is a value copy of the data handed in by the query layer. Once
// built it is never mutated, so a checksum computed from it cannot be
// invalidated by later changes to the source map.
type Row struct {
	columns []string
	values  map[string]any
}

// NewRow builds an immutable Row from an ordered column list and a
// column→value map. Both inputs are copied; []byte values are deep-copied.
func NewRow(columns []string, values map[string]any) Row {
	cols := make([]string, len(columns))
	copy(cols, columns)

	vals := make(map[string]any, len(values))
	for k, v := range values {
		switch b := v.(type) {
		case BytesLob:
			cp := make([]byte, len(b))
			copy(cp, b)
			vals[k] = BytesLob(cp)
		case []byte:
			cp := make([]byte, len(b))
			copy(cp, b)
			vals[k] = cp
		default:
			vals[k] = v
		}
	}
	return Row{columns: cols, values: vals}
}

// Columns returns the column names in row order.
func (r Row) Columns() []string {
	cols := make([]string, len(r.columns))
	copy(cols, r.columns)
	return cols
}

// Len returns the number of columns.
func (r Row) Len() int {
	return len(r.columns)
}

// Value returns the value for a column and whether the column exists.
// The column name must match exactly; use Resolve for configured names.
func (r Row) Value(name string) (any, bool) {
	v, ok := r.values[name]
	return v, ok
}

// Resolve matches a configured column name against the row's columns,
// ignoring case, and returns the actual column name. Database column
// casing varies by driver and quoting, so configuration is matched
// case-insensitively.
func (r Row) Resolve(name string) (string, bool) {
	if _, ok := r.values[name]; ok {
		return name, true
	}
	for _, col := range r.columns {
		if strings.EqualFold(col, name) {
			return col, true
		}
	}
	return "", false
}

// ColumnInList reports whether name matches any entry of list,
// ignoring case.
func ColumnInList(list []string, name string) bool {
	for _, c := range list {
		if strings.EqualFold(c, name) {
			return true
		}
	}
	return false
}
