package row

import "fmt"

// Column is a single (name, value) pair. Column names are case-sensitive;
// duplicate names are permitted, but positional identity is authoritative —
// Find and the by-name accessors always resolve to the first match.
type Column struct {
	Name  string
	Value Value
}

// Row is an ordered sequence of columns. The zero value is an empty row
// ready to use.
//
// Invariants (spec.md §3):
//
//	(I1) insertion preserves order.
//	(I2) SetValueAt never changes column count or order.
//	(I3) Add always appends.
type Row struct {
	columns []Column
}

// New returns an empty row.
func New() *Row {
	return &Row{}
}

// FromColumns builds a row from an ordered list of columns, in the order given.
func FromColumns(cols ...Column) *Row {
	r := &Row{columns: make([]Column, len(cols))}
	copy(r.columns, cols)
	return r
}

// Len returns the number of columns.
func (r *Row) Len() int { return len(r.columns) }

// Columns returns the row's columns in order. The returned slice is owned by
// the caller's view only — mutate the row via its methods, not this slice.
func (r *Row) Columns() []Column {
	return r.columns
}

// Names returns the column names in order.
func (r *Row) Names() []string {
	out := make([]string, len(r.columns))
	for i, c := range r.columns {
		out[i] = c.Name
	}
	return out
}

// Add appends a new column. Always appends, even if name duplicates an
// existing column (I3).
func (r *Row) Add(name string, v Value) {
	r.columns = append(r.columns, Column{Name: name, Value: v})
}

// Find returns the index of the first column named name, or -1 if absent.
func (r *Row) Find(name string) int {
	for i, c := range r.columns {
		if c.Name == name {
			return i
		}
	}
	return -1
}

// GetValue returns the value of the first column named name, and whether it
// was found. A missing column returns the null value and false.
func (r *Row) GetValue(name string) (Value, bool) {
	i := r.Find(name)
	if i < 0 {
		return NullValue(), false
	}
	return r.columns[i].Value, true
}

// GetValueAt returns the value at the given position. Panics if pos is out
// of range: an out-of-range index is a programming error in the caller, per
// spec.md §4.1 ("index out of range is fatal").
func (r *Row) GetValueAt(pos int) Value {
	return r.columns[pos].Value
}

// SetValueAt replaces the value at pos in place, preserving column count and
// order (I2). Panics if pos is out of range.
func (r *Row) SetValueAt(pos int, v Value) {
	r.columns[pos].Value = v
}

// RemoveAt removes the column at pos, shrinking the row. Panics if pos is
// out of range.
func (r *Row) RemoveAt(pos int) {
	r.columns = append(r.columns[:pos], r.columns[pos+1:]...)
}

// Remove removes the first column named name. Returns an error if absent —
// this is a step-level failure, not fatal, because the caller supplies the
// name at runtime.
func (r *Row) Remove(name string) error {
	i := r.Find(name)
	if i < 0 {
		return fmt.Errorf("column %q not found", name)
	}
	r.RemoveAt(i)
	return nil
}

// Swap exchanges the values (not the names) of the columns named a and b.
// Returns an error if either column is missing.
func (r *Row) Swap(a, b string) error {
	ia, ib := r.Find(a), r.Find(b)
	if ia < 0 {
		return fmt.Errorf("column %q not found", a)
	}
	if ib < 0 {
		return fmt.Errorf("column %q not found", b)
	}
	r.columns[ia].Value, r.columns[ib].Value = r.columns[ib].Value, r.columns[ia].Value
	return nil
}

// Rename changes the name of the first column named oldName to newName,
// preserving its position and value. Returns an error if oldName is absent.
func (r *Row) Rename(oldName, newName string) error {
	i := r.Find(oldName)
	if i < 0 {
		return fmt.Errorf("column %q not found", oldName)
	}
	r.columns[i].Name = newName
	return nil
}

// SetNames replaces every column name, in order. len(names) must equal
// r.Len(); returns an error otherwise.
func (r *Row) SetNames(names []string) error {
	if len(names) != len(r.columns) {
		return fmt.Errorf("column count mismatch: row has %d columns, got %d names", len(r.columns), len(names))
	}
	for i, n := range names {
		r.columns[i].Name = n
	}
	return nil
}

// Clone returns a shallow copy of r: the column slice is new, but Value
// payloads are shared. Used by fan-out steps, which must not let mutations
// to one emitted row bleed into its siblings' column lists.
func (r *Row) Clone() *Row {
	cols := make([]Column, len(r.columns))
	copy(cols, r.columns)
	return &Row{columns: cols}
}
