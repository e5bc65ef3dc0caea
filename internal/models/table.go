package models

import (
	"fmt"
	"strconv"
	"strings"
)

// Row is one spreadsheet record keyed by column name. Column order lives on
// the owning Table.
type Row map[string]string

// Get returns the trimmed value for column, or "" when absent.
func (r Row) Get(column string) string {
	return strings.TrimSpace(r[column])
}

func (r Row) Clone() Row {
	c := make(Row, len(r))
	for k, v := range r {
		c[k] = v
	}
	return c
}

// Table is a parsed CSV document: a header row followed by data rows.
type Table struct {
	Header []string
	Rows   []Row
}

// NewTable builds a Table from raw CSV records. The first record is the
// header; short rows are padded, extra cells are dropped.
func NewTable(records [][]string) (*Table, error) {
	if len(records) == 0 {
		return nil, fmt.Errorf("no header row")
	}

	t := &Table{Header: append([]string(nil), records[0]...)}
	for _, record := range records[1:] {
		row := make(Row, len(t.Header))
		for i, name := range t.Header {
			if i < len(record) {
				row[name] = record[i]
			} else {
				row[name] = ""
			}
		}
		t.Rows = append(t.Rows, row)
	}

	return t, nil
}

// Column resolves a logical column name against the header. Exact matches win,
// then matches after trimming, then the first header containing name. Sheets
// often carry headers like "Picture Drive Link " with stray whitespace.
func (t *Table) Column(name string) (string, bool) {
	want := strings.TrimSpace(name)
	if want == "" {
		return "", false
	}
	for _, h := range t.Header {
		if h == name {
			return h, true
		}
	}
	for _, h := range t.Header {
		if strings.TrimSpace(h) == want {
			return h, true
		}
	}
	for _, h := range t.Header {
		if strings.Contains(h, want) {
			return h, true
		}
	}
	return "", false
}

// EnsureColumn resolves name, appending it to the header when missing.
func (t *Table) EnsureColumn(name string) string {
	if col, ok := t.Column(name); ok {
		return col
	}
	t.Header = append(t.Header, name)
	return name
}

// Records flattens the table back into CSV records in header order. Fields
// that are not part of the header are dropped.
func (t *Table) Records() [][]string {
	records := make([][]string, 0, len(t.Rows)+1)
	records = append(records, append([]string(nil), t.Header...))
	for _, row := range t.Rows {
		record := make([]string, len(t.Header))
		for i, name := range t.Header {
			record[i] = row[name]
		}
		records = append(records, record)
	}
	return records
}

// IndexBy maps the trimmed value of column to its row position. Later
// duplicates win.
func (t *Table) IndexBy(column string) map[string]int {
	index := make(map[string]int, len(t.Rows))
	for i, row := range t.Rows {
		index[row.Get(column)] = i
	}
	return index
}

// InsertOrdered places row before the first existing row whose numeric key is
// larger, keeping ascending key order. Rows with a non-numeric key are passed
// over; if no larger key exists the row is appended.
func (t *Table) InsertOrdered(keyColumn string, row Row) error {
	key, err := strconv.Atoi(row.Get(keyColumn))
	if err != nil {
		return fmt.Errorf("row key %q is not numeric: %w", row.Get(keyColumn), err)
	}

	for i, existing := range t.Rows {
		existingKey, err := strconv.Atoi(existing.Get(keyColumn))
		if err != nil {
			continue
		}
		if existingKey > key {
			t.Rows = append(t.Rows, nil)
			copy(t.Rows[i+1:], t.Rows[i:])
			t.Rows[i] = row
			return nil
		}
	}

	t.Rows = append(t.Rows, row)
	return nil
}
