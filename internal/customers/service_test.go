package customers

import (
	"context"
	"fmt"
	"testing"

	pkgerrors "github.com/dmayasari/optikpos-backend/pkg/errors"
	"github.com/dmayasari/optikpos-backend/pkg/sheets"
)

type countingAllocator struct {
	store *sheets.Memory
}

func (a *countingAllocator) NextCustomerID(ctx context.Context, worksheet string) (string, error) {
	return fmt.Sprintf("OM%03d", a.store.RowCount(worksheet)+1), nil
}

func newTestService(t *testing.T) (*Service, *sheets.Memory) {
	t.Helper()
	m := sheets.NewMemory()
	m.Seed("pelanggan", []string{"id_pelanggan", "nama", "no_hp"}, [][]string{
		{"OM001", "Budi Santoso", "081234"},
		{"OM002", "Sari", "081567"},
	})
	svc, err := NewService(m, "pelanggan", &countingAllocator{store: m})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc, m
}

func TestGetOrCreateFindsExisting(t *testing.T) {
	svc, m := newTestService(t)

	c, err := svc.GetOrCreate(context.Background(), "  budi santoso ", "081234")
	if err != nil {
		t.Fatalf("GetOrCreate: %v", err)
	}
	if c.ID != "OM001" {
		t.Fatalf("id = %q, want OM001", c.ID)
	}
	if got := m.RowCount("pelanggan"); got != 2 {
		t.Fatalf("rows = %d, want 2 (no new row)", got)
	}
}

func TestGetOrCreateSameNameDifferentPhoneIsNew(t *testing.T) {
	svc, m := newTestService(t)

	c, err := svc.GetOrCreate(context.Background(), "Budi Santoso", "089999")
	if err != nil {
		t.Fatalf("GetOrCreate: %v", err)
	}
	if c.ID != "OM003" {
		t.Fatalf("id = %q, want OM003", c.ID)
	}
	if got := m.RowCount("pelanggan"); got != 3 {
		t.Fatalf("rows = %d, want 3", got)
	}
}

func TestGetOrCreateRequiresName(t *testing.T) {
	svc, _ := newTestService(t)
	if _, err := svc.GetOrCreate(context.Background(), "   ", "081234"); !pkgerrors.Is(err, pkgerrors.CodeValidation) {
		t.Fatalf("err = %v, want VALIDATION", err)
	}
}

func TestLookup(t *testing.T) {
	svc, _ := newTestService(t)

	c, err := svc.Lookup(context.Background(), "om002")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if c.Name != "Sari" {
		t.Fatalf("name = %q, want Sari", c.Name)
	}

	if _, err := svc.Lookup(context.Background(), "OM099"); !pkgerrors.Is(err, pkgerrors.CodeNotFound) {
		t.Fatalf("err = %v, want NOT_FOUND", err)
	}
}
