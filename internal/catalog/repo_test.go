package catalog

import (
	"context"
	"testing"

	"github.com/dmayasari/optikpos-backend/pkg/sheets"
)

func lensSheet() *sheets.Memory {
	m := sheets.NewMemory()
	m.Seed("dlensa",
		[]string{"Tipe", "Jenis", "Merk", "SPH", "CYL", "Add", "Harga Modal", "Harga Jual", "Harga Reseller", "Stock"},
		[][]string{
			{"Single Vision", "HMC", "Domas", "-2.25", "0.00", "", "40000", "Rp 90.000", "75000", "4"},
			{"Progressive", "Photocromic", "Essilor", "-1.00", "-0.50", "2.00", "250000", "600000", "500000", "junk"},
		})
	return m
}

func TestLensRepositoryParsesRows(t *testing.T) {
	repo := NewLensRepository(lensSheet(), "dlensa")

	items, err := repo.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}

	first := items[0]
	if first.Sphere.String() != "-2.25" || !first.Addition.Absent() {
		t.Fatalf("unexpected powers: sph=%q add absent=%v", first.Sphere.String(), first.Addition.Absent())
	}
	if first.Stock != 4 {
		t.Fatalf("stock = %d", first.Stock)
	}
	if first.SheetRow != 2 || first.StockCol != 10 {
		t.Fatalf("sheet position = (%d,%d)", first.SheetRow, first.StockCol)
	}

	// Malformed stock cells read as zero, never as an error.
	if items[1].Stock != 0 {
		t.Fatalf("junk stock should read 0, got %d", items[1].Stock)
	}
}

func TestLensRepositoryUpdateStockWritesCell(t *testing.T) {
	m := lensSheet()
	repo := NewLensRepository(m, "dlensa")

	items, _ := repo.List(context.Background())
	if err := repo.UpdateStock(context.Background(), items[0], 3); err != nil {
		t.Fatalf("UpdateStock: %v", err)
	}
	if got := m.RawRows("dlensa")[0][9]; got != "3" {
		t.Fatalf("stock cell = %q, want 3", got)
	}
}

func TestRuleRepositoryOpenBounds(t *testing.T) {
	m := sheets.NewMemory()
	m.Seed("lensa_luar_stock",
		[]string{"Status", "Jenis", "Tipe", "Merk", "Nama Lensa", "SPH Min", "SPH Max", "CYL Min", "CYL Max", "Add Min", "Add Max", "Harga Jual", "Harga Reseller"},
		[][]string{
			{"Pesan", "HMC", "Single Vision", "Zeiss", "Zeiss Clarity", "-6.00", "-2.00", "", "", "", "", "100000", "80000"},
			{"Pesan", "HMC", "Single Vision", "Zeiss", "Zeiss Clarity", "-6.00", "-2.00", "-2.00", "0.00", "", "", "150000", "120000"},
		})
	repo := NewRuleRepository(m, "lensa_luar_stock")

	rules, err := repo.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if rules[0].Specificity() != 0 {
		t.Fatalf("open rule specificity = %d, want 0", rules[0].Specificity())
	}
	if rules[1].Specificity() != 1 {
		t.Fatalf("cyl-bounded rule specificity = %d, want 1", rules[1].Specificity())
	}
	if !rules[0].CylinderMin.Absent() {
		t.Fatal("empty cyl_min should parse as open bound")
	}
}

func TestFrameRepositoryParsesRows(t *testing.T) {
	m := sheets.NewMemory()
	m.Seed("dframe",
		[]string{"Merk", "Kode", "Distributor", "Harga Modal", "Harga Jual", "Stock"},
		[][]string{{"Levis", "LV-17", "PT Sinar", "100000", "250.000", "2"}})
	repo := NewFrameRepository(m, "dframe")

	frames, err := repo.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if frames[0].Brand != "Levis" || frames[0].Stock != 2 {
		t.Fatalf("unexpected frame: %+v", frames[0])
	}
	if frames[0].SalePriceCell != "250.000" {
		t.Fatalf("price cell should stay raw, got %q", frames[0].SalePriceCell)
	}
}
