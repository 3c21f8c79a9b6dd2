package domain

// Table is an immutable, in-memory collection of crash records.
type Table struct {
	rows []Crash
}

// NewTable wraps rows in a Table. The slice is copied so later changes by the
// caller do not leak into the table.
func NewTable(rows []Crash) *Table {
	cp := make([]Crash, len(rows))
	copy(cp, rows)
	return &Table{rows: cp}
}

// Len returns the number of records.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.rows)
}

// At returns the i-th record.
func (t *Table) At(i int) Crash {
	return t.rows[i]
}

// Each calls fn for every record in file order.
func (t *Table) Each(fn func(Crash)) {
	if t == nil {
		return
	}
	for i := range t.rows {
		fn(t.rows[i])
	}
}

// Filter returns a new table holding the records for which keep returns true.
func (t *Table) Filter(keep func(Crash) bool) *Table {
	out := &Table{}
	t.Each(func(c Crash) {
		if keep(c) {
			out.rows = append(out.rows, c)
		}
	})
	return out
}

// Strings projects one string field of every record.
func (t *Table) Strings(field func(Crash) string) []string {
	out := make([]string, 0, t.Len())
	t.Each(func(c Crash) {
		out = append(out, field(c))
	})
	return out
}
