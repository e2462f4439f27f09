package sheets

import (
	"context"
	"fmt"
	"sync"

	pkgerrors "github.com/dmayasari/optikpos-backend/pkg/errors"
)

// Memory is an in-process Store used by tests and the dev server. Worksheets
// are seeded with a header row plus data rows, exactly like the workbook.
type Memory struct {
	mu     sync.Mutex
	sheets map[string]*memSheet

	// Error injection for failure-path tests. When set, the corresponding
	// operations fail with the given error until cleared.
	ReadErr  error
	WriteErr error
}

type memSheet struct {
	headers []string // normalized
	rows    [][]string
}

func NewMemory() *Memory {
	return &Memory{sheets: map[string]*memSheet{}}
}

// Seed installs a worksheet with the given header row and data rows,
// replacing any previous content.
func (m *Memory) Seed(worksheet string, headers []string, rows [][]string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	normalized := make([]string, len(headers))
	for i, h := range headers {
		normalized[i] = NormalizeHeader(h)
	}
	copied := make([][]string, len(rows))
	for i, r := range rows {
		copied[i] = append([]string(nil), r...)
	}
	m.sheets[worksheet] = &memSheet{headers: normalized, rows: copied}
}

// RowCount reports the number of data rows, for assertions.
func (m *Memory) RowCount(worksheet string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.sheets[worksheet]; ok {
		return len(s.rows)
	}
	return 0
}

// RawRows returns a copy of the data rows, for assertions.
func (m *Memory) RawRows(worksheet string) [][]string {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sheets[worksheet]
	if !ok {
		return nil
	}
	out := make([][]string, len(s.rows))
	for i, r := range s.rows {
		out[i] = append([]string(nil), r...)
	}
	return out
}

func (m *Memory) ReadAllRows(ctx context.Context, worksheet string) (Table, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ReadErr != nil {
		return Table{}, pkgerrors.Wrap(pkgerrors.CodeRemoteRead, m.ReadErr, fmt.Sprintf("reading worksheet %q", worksheet))
	}
	s, ok := m.sheets[worksheet]
	if !ok {
		return Table{}, pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("worksheet %q does not exist", worksheet))
	}
	table := Table{Headers: append([]string(nil), s.headers...)}
	for _, raw := range s.rows {
		row := make(Row, len(s.headers))
		for i, h := range s.headers {
			if i < len(raw) {
				row[h] = raw[i]
			} else {
				row[h] = ""
			}
		}
		table.Rows = append(table.Rows, row)
	}
	return table, nil
}

func (m *Memory) AppendRow(ctx context.Context, worksheet string, values []string) error {
	return m.AppendRows(ctx, worksheet, [][]string{values})
}

func (m *Memory) AppendRows(ctx context.Context, worksheet string, rows [][]string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.WriteErr != nil {
		return pkgerrors.Wrap(pkgerrors.CodeRemoteWrite, m.WriteErr, fmt.Sprintf("appending to worksheet %q", worksheet))
	}
	s, ok := m.sheets[worksheet]
	if !ok {
		return pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("worksheet %q does not exist", worksheet))
	}
	for _, r := range rows {
		s.rows = append(s.rows, append([]string(nil), r...))
	}
	return nil
}

func (m *Memory) UpdateCell(ctx context.Context, worksheet string, row, col int, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.WriteErr != nil {
		return pkgerrors.Wrap(pkgerrors.CodeRemoteWrite, m.WriteErr, fmt.Sprintf("updating worksheet %q", worksheet))
	}
	s, ok := m.sheets[worksheet]
	if !ok {
		return pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("worksheet %q does not exist", worksheet))
	}
	dataIndex := row - 2
	if dataIndex < 0 || dataIndex >= len(s.rows) {
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("row %d out of range in %q", row, worksheet))
	}
	for len(s.rows[dataIndex]) < col {
		s.rows[dataIndex] = append(s.rows[dataIndex], "")
	}
	s.rows[dataIndex][col-1] = value
	return nil
}

func (m *Memory) FindRow(ctx context.Context, worksheet, value string) (int, error) {
	table, err := m.ReadAllRows(ctx, worksheet)
	if err != nil {
		return 0, err
	}
	return findInTable(table, value)
}
