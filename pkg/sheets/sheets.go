// Package sheets is the boundary to the shop workbook. The core treats the
// workbook as a row store: read a whole worksheet, append rows, update one
// cell. Everything round-trips as strings; parsing is the callers' job.
package sheets

import (
	"context"
	"strings"
)

// Row is one data row keyed by normalized header name.
type Row map[string]string

// Table is a worksheet snapshot. Headers keep sheet order so callers can
// address cells positionally (UpdateCell wants 1-based coordinates).
type Table struct {
	Headers []string
	Rows    []Row
}

// ColumnIndex returns the 1-based sheet column for a normalized header name,
// or 0 when the worksheet has no such column.
func (t Table) ColumnIndex(name string) int {
	name = NormalizeHeader(name)
	for i, h := range t.Headers {
		if h == name {
			return i + 1
		}
	}
	return 0
}

// SheetRow converts a data-row slice index into the 1-based sheet row number
// (row 1 is the header).
func (t Table) SheetRow(dataIndex int) int {
	return dataIndex + 2
}

// Clone returns a deep copy. Callers can keep iterating a cloned table while
// the source of the copy is mutated.
func (t Table) Clone() Table {
	headers := make([]string, len(t.Headers))
	copy(headers, t.Headers)
	rows := make([]Row, len(t.Rows))
	for i, r := range t.Rows {
		row := make(Row, len(r))
		for k, v := range r {
			row[k] = v
		}
		rows[i] = row
	}
	return Table{Headers: headers, Rows: rows}
}

// Store is the operation set the core relies on. Appends are at-least-once;
// read-after-write is not guaranteed by the remote, which is why the snapshot
// cache mirrors writes (see Cache).
type Store interface {
	ReadAllRows(ctx context.Context, worksheet string) (Table, error)
	AppendRow(ctx context.Context, worksheet string, values []string) error
	AppendRows(ctx context.Context, worksheet string, rows [][]string) error
	UpdateCell(ctx context.Context, worksheet string, row, col int, value string) error
	FindRow(ctx context.Context, worksheet, value string) (int, error)
}

// NormalizeHeader folds a raw header cell to the canonical form used as Row
// keys: trimmed, lower-cased, spaces as underscores. "Harga Jual" and
// "harga_jual" address the same column.
func NormalizeHeader(h string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(h)), " ", "_")
}
