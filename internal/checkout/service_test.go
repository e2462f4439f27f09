package checkout

import (
	"context"
	"testing"
	"time"

	"github.com/dmayasari/optikpos-backend/internal/activitylog"
	"github.com/dmayasari/optikpos-backend/internal/customers"
	"github.com/dmayasari/optikpos-backend/internal/inventory"
	pkgerrors "github.com/dmayasari/optikpos-backend/pkg/errors"
	"github.com/dmayasari/optikpos-backend/pkg/optics"
	"github.com/dmayasari/optikpos-backend/pkg/sheets"
)

var jakarta = time.FixedZone("WIB", 7*3600)

type fakeDirectory struct{}

func (fakeDirectory) GetOrCreate(_ context.Context, name, phone string) (customers.Customer, error) {
	return customers.Customer{ID: "OM007", Name: name, Phone: phone}, nil
}

type fakeIDs struct{}

func (fakeIDs) NextTransactionID(context.Context) (string, error) {
	return "OM/T/006/31-08/2026", nil
}

func (fakeIDs) NextPaymentID(context.Context) (string, error) {
	return "OM/P/004/31-08/2026", nil
}

type fakeLedger struct {
	frames     []inventory.FrameKey
	lenses     []inventory.LensKey
	frameStock int
	lensStock  int
	err        error
}

func (f *fakeLedger) FrameCount(_ context.Context, _ inventory.FrameKey) (int, error) {
	if f.err != nil {
		return 0, f.err
	}
	return f.frameStock, nil
}

func (f *fakeLedger) LensCount(_ context.Context, _ inventory.LensKey) (int, error) {
	if f.err != nil {
		return 0, f.err
	}
	return f.lensStock, nil
}

func (f *fakeLedger) DecrementFrame(_ context.Context, key inventory.FrameKey, _ int) (inventory.Movement, error) {
	if f.err != nil {
		return inventory.Movement{}, f.err
	}
	f.frames = append(f.frames, key)
	return inventory.Movement{Before: 2, After: 1}, nil
}

func (f *fakeLedger) DecrementLens(_ context.Context, key inventory.LensKey, _ int) (inventory.Movement, error) {
	if f.err != nil {
		return inventory.Movement{}, f.err
	}
	f.lenses = append(f.lenses, key)
	return inventory.Movement{Before: 4, After: 3}, nil
}

type fakeJournal struct {
	frames []activitylog.FrameEntry
	lenses []activitylog.LensEntry
}

func (f *fakeJournal) RecordFrame(_ context.Context, e activitylog.FrameEntry) error {
	f.frames = append(f.frames, e)
	return nil
}

func (f *fakeJournal) RecordLens(_ context.Context, e activitylog.LensEntry) error {
	f.lenses = append(f.lenses, e)
	return nil
}

func newTestService(t *testing.T) (*Service, *sheets.Memory, *fakeLedger, *fakeJournal) {
	t.Helper()
	m := sheets.NewMemory()
	m.Seed("transaksi", []string{
		"timestamp", "tanggal", "id_transaksi", "id_pelanggan", "nama",
		"status_frame", "merk_frame", "kode_frame",
		"status_lensa", "jenis_lensa", "tipe_lensa", "merk_lensa", "nama_lensa",
		"sph_r", "cyl_r", "axis_r", "add_r", "sph_l", "cyl_l", "axis_l", "add_l",
		"harga_frame", "harga_lensa", "diskon", "subtotal", "user",
	}, nil)
	m.Seed("pembayaran", []string{
		"timestamp", "id_transaksi", "id_pembayaran", "id_pelanggan", "tanggal",
		"nama", "no_hp", "metode", "via", "total_harga", "nominal_pembayaran",
		"sisa", "status", "ke", "user",
	}, nil)

	ledger := &fakeLedger{frameStock: 2, lensStock: 4}
	jour := &fakeJournal{}
	svc, err := NewService(Config{
		Store:                m,
		TransactionWorksheet: "transaksi",
		PaymentWorksheet:     "pembayaran",
		Customers:            fakeDirectory{},
		IDs:                  fakeIDs{},
		Ledger:               ledger,
		Journal:              jour,
		Location:             jakarta,
	})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	svc.WithClock(func() time.Time {
		return time.Date(2026, 8, 31, 10, 30, 0, 0, jakarta)
	})
	return svc, m, ledger, jour
}

func stockSaleRequest() Request {
	return Request{
		CustomerName: "budi santoso",
		Phone:        "081234",
		Items: []LineItem{
			{
				Frame: FramePart{Status: FrameFromStock, Brand: "Levis", Code: "LV-17", Price: 450000},
				Lens: LensPart{
					Status:   LensFromStock,
					Category: "Clear",
					Type:     "Single Vision",
					Brand:    "Domas",
					Right:    Prescription{Sphere: optics.MustParse("-2.00")},
					Left:     Prescription{Sphere: optics.MustParse("-1.75")},
					Price:    150000,
				},
			},
		},
		Method:   "Full",
		Via:      "Cash",
		Tendered: 600000,
		Operator: "dewi",
	}
}

func TestExecutePersistsSale(t *testing.T) {
	svc, m, ledger, jour := newTestService(t)

	rec, err := svc.Execute(context.Background(), stockSaleRequest())
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if rec.TransactionID != "OM/T/006/31-08/2026" || rec.PaymentID != "OM/P/004/31-08/2026" {
		t.Fatalf("ids = %q / %q", rec.TransactionID, rec.PaymentID)
	}
	if rec.Total != 600000 || rec.Final != 600000 || rec.Adjustment != 0 {
		t.Fatalf("totals = %+v", rec)
	}
	if rec.Status != StatusPaid || rec.Remainder != 0 || rec.PaymentSeq != 1 {
		t.Fatalf("payment = %+v", rec)
	}

	txnRows := m.RawRows("transaksi")
	if len(txnRows) != 1 {
		t.Fatalf("transaction rows = %d, want 1", len(txnRows))
	}
	row := txnRows[0]
	if row[0] != "2026-08-31,10:30:00" || row[1] != "2026-08-31" {
		t.Fatalf("timestamps = %q / %q", row[0], row[1])
	}
	if row[2] != "OM/T/006/31-08/2026" || row[3] != "OM007" {
		t.Fatalf("ids in row = %q / %q", row[2], row[3])
	}
	if row[13] != "-2.00" || row[17] != "-1.75" {
		t.Fatalf("prescription cells = %q / %q", row[13], row[17])
	}
	if row[24] != "600000" {
		t.Fatalf("subtotal cell = %q, want 600000", row[24])
	}

	payRows := m.RawRows("pembayaran")
	if len(payRows) != 1 {
		t.Fatalf("payment rows = %d, want 1", len(payRows))
	}
	pay := payRows[0]
	if pay[9] != "600000" || pay[10] != "600000" || pay[11] != "0" || pay[12] != StatusPaid || pay[13] != "1" {
		t.Fatalf("payment row = %v", pay)
	}

	// One frame movement, one lens movement per eye.
	if len(ledger.frames) != 1 || len(ledger.lenses) != 2 {
		t.Fatalf("movements = %d frames, %d lenses", len(ledger.frames), len(ledger.lenses))
	}
	if len(jour.frames) != 1 || len(jour.lenses) != 2 {
		t.Fatalf("journal entries = %d frames, %d lenses", len(jour.frames), len(jour.lenses))
	}
	if jour.frames[0].TransactionID != rec.TransactionID {
		t.Fatalf("journal txn id = %q", jour.frames[0].TransactionID)
	}
}

func TestExecuteInstallment(t *testing.T) {
	svc, m, _, _ := newTestService(t)

	req := stockSaleRequest()
	req.Method = "Angsuran"
	req.Tendered = 250000
	rec, err := svc.Execute(context.Background(), req)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if rec.Status != StatusUnpaid || rec.Remainder != -350000 {
		t.Fatalf("receipt = %+v", rec)
	}
	pay := m.RawRows("pembayaran")[0]
	if pay[11] != "-350000" || pay[12] != StatusUnpaid {
		t.Fatalf("payment row = %v", pay)
	}
}

func TestExecuteCustomerOwnedPartsMoveNoStock(t *testing.T) {
	svc, _, ledger, jour := newTestService(t)

	req := stockSaleRequest()
	req.Items[0].Frame = FramePart{Status: FrameCustomer}
	req.Items[0].Lens.Status = LensPesan
	req.Items[0].Lens.Name = "MC Blueray"
	if _, err := svc.Execute(context.Background(), req); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if len(ledger.frames) != 0 || len(ledger.lenses) != 0 {
		t.Fatalf("unexpected stock movements: %+v", ledger)
	}
	if len(jour.frames) != 0 || len(jour.lenses) != 0 {
		t.Fatalf("unexpected journal entries")
	}
}

func TestExecuteMissingStockKeyDoesNotBlockSale(t *testing.T) {
	svc, m, ledger, _ := newTestService(t)
	ledger.err = pkgerrors.New(pkgerrors.CodeStockKeyNotFound, "gone")

	if _, err := svc.Execute(context.Background(), stockSaleRequest()); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if got := m.RowCount("pembayaran"); got != 1 {
		t.Fatalf("payment rows = %d, want 1", got)
	}
}

func TestExecuteRejectsZeroStockFrame(t *testing.T) {
	svc, m, ledger, jour := newTestService(t)
	ledger.frameStock = 0

	_, err := svc.Execute(context.Background(), stockSaleRequest())
	if !pkgerrors.Is(err, pkgerrors.CodeConflict) {
		t.Fatalf("err = %v, want CONFLICT", err)
	}
	if got := m.RowCount("transaksi"); got != 0 {
		t.Fatalf("transaction rows = %d, want 0", got)
	}
	if got := m.RowCount("pembayaran"); got != 0 {
		t.Fatalf("payment rows = %d, want 0", got)
	}
	if len(ledger.frames) != 0 || len(ledger.lenses) != 0 || len(jour.frames) != 0 {
		t.Fatalf("unexpected side effects after rejected sale")
	}
}

func TestExecuteRejectsZeroStockLens(t *testing.T) {
	svc, m, ledger, _ := newTestService(t)
	ledger.lensStock = 0

	_, err := svc.Execute(context.Background(), stockSaleRequest())
	if !pkgerrors.Is(err, pkgerrors.CodeConflict) {
		t.Fatalf("err = %v, want CONFLICT", err)
	}
	if got := m.RowCount("transaksi"); got != 0 {
		t.Fatalf("transaction rows = %d, want 0", got)
	}
}

func TestExecuteCountsPriorPayments(t *testing.T) {
	svc, m, _, _ := newTestService(t)
	m.Seed("pembayaran", []string{
		"timestamp", "id_transaksi", "id_pembayaran", "id_pelanggan", "tanggal",
		"nama", "no_hp", "metode", "via", "total_harga", "nominal_pembayaran",
		"sisa", "status", "ke", "user",
	}, [][]string{
		{"x", "OM/T/006/31-08/2026", "OM/P/001/30-08/2026", "OM007", "2026-08-30", "budi", "081234", "Angsuran", "Cash", "600000", "100000", "-500000", StatusUnpaid, "1", "dewi"},
	})

	rec, err := svc.Execute(context.Background(), stockSaleRequest())
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if rec.PaymentSeq != 2 {
		t.Fatalf("seq = %d, want 2", rec.PaymentSeq)
	}
}

func TestExecuteRejectsEmptyCart(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	if _, err := svc.Execute(context.Background(), Request{CustomerName: "budi"}); !pkgerrors.Is(err, pkgerrors.CodeValidation) {
		t.Fatalf("err = %v, want VALIDATION", err)
	}
}
