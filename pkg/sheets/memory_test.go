package sheets

import (
	"context"
	"errors"
	"testing"

	pkgerrors "github.com/dmayasari/optikpos-backend/pkg/errors"
)

func seedFrames(m *Memory) {
	m.Seed("dframe",
		[]string{"Merk", "Kode", "Distributor", "Harga Modal", "Harga Jual", "Stock"},
		[][]string{
			{"Rodenstock", "RX-01", "PT Sinar", "200000", "450000", "3"},
			{"Levis", "LV-17", "PT Sinar", "100000", "250000", "0"},
		})
}

func TestMemoryReadNormalizesHeaders(t *testing.T) {
	m := NewMemory()
	seedFrames(m)

	table, err := m.ReadAllRows(context.Background(), "dframe")
	if err != nil {
		t.Fatalf("ReadAllRows: %v", err)
	}
	if got := table.ColumnIndex("harga_jual"); got != 5 {
		t.Fatalf("harga_jual column = %d, want 5", got)
	}
	if got := table.Rows[0]["merk"]; got != "Rodenstock" {
		t.Fatalf("merk = %q", got)
	}
	if got := table.Rows[1]["stock"]; got != "0" {
		t.Fatalf("stock = %q", got)
	}
}

func TestMemoryUpdateCellAndShortRows(t *testing.T) {
	m := NewMemory()
	m.Seed("dframe", []string{"Merk", "Kode", "Stock"}, [][]string{{"Levis", "LV-17"}})

	table, _ := m.ReadAllRows(context.Background(), "dframe")
	if got := table.Rows[0]["stock"]; got != "" {
		t.Fatalf("short row should read empty, got %q", got)
	}

	if err := m.UpdateCell(context.Background(), "dframe", 2, 3, "7"); err != nil {
		t.Fatalf("UpdateCell: %v", err)
	}
	table, _ = m.ReadAllRows(context.Background(), "dframe")
	if got := table.Rows[0]["stock"]; got != "7" {
		t.Fatalf("stock after update = %q", got)
	}
}

func TestMemoryFindRow(t *testing.T) {
	m := NewMemory()
	seedFrames(m)

	row, err := m.FindRow(context.Background(), "dframe", "LV-17")
	if err != nil {
		t.Fatalf("FindRow: %v", err)
	}
	if row != 3 {
		t.Fatalf("LV-17 should be sheet row 3, got %d", row)
	}

	_, err = m.FindRow(context.Background(), "dframe", "nope")
	if !pkgerrors.Is(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}
}

func TestMemoryErrorInjection(t *testing.T) {
	m := NewMemory()
	seedFrames(m)

	m.ReadErr = errors.New("offline")
	if _, err := m.ReadAllRows(context.Background(), "dframe"); !pkgerrors.Is(err, pkgerrors.CodeRemoteRead) {
		t.Fatalf("expected REMOTE_READ_FAILURE, got %v", err)
	}
	m.ReadErr = nil

	m.WriteErr = errors.New("offline")
	if err := m.AppendRow(context.Background(), "dframe", []string{"x"}); !pkgerrors.Is(err, pkgerrors.CodeRemoteWrite) {
		t.Fatalf("expected REMOTE_WRITE_FAILURE, got %v", err)
	}
}
