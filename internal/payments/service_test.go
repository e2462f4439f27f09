package payments

import (
	"context"
	"testing"
	"time"

	pkgerrors "github.com/dmayasari/optikpos-backend/pkg/errors"
	"github.com/dmayasari/optikpos-backend/pkg/sheets"
)

var jakarta = time.FixedZone("WIB", 7*3600)

type fakeIDs struct{ next string }

func (f *fakeIDs) NextPaymentID(context.Context) (string, error) {
	return f.next, nil
}

var paymentHeaders = []string{
	"timestamp", "id_transaksi", "id_pembayaran", "id_pelanggan", "tanggal",
	"nama", "no_hp", "metode", "via", "total_harga", "nominal_pembayaran",
	"sisa", "status", "ke", "user",
}

func newTestService(t *testing.T, rows [][]string) (*Service, *sheets.Memory) {
	t.Helper()
	m := sheets.NewMemory()
	m.Seed("pembayaran", paymentHeaders, rows)
	svc, err := NewService(m, "pembayaran", &fakeIDs{next: "OM/P/009/31-08/2026"}, jakarta, nil)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc.WithClock(func() time.Time {
		return time.Date(2026, 8, 31, 10, 0, 0, 0, jakarta)
	}), m
}

func paymentRow(txnID, payID, total, nominal, sisa, status, ke string) []string {
	return []string{
		"2026-08-30", txnID, payID, "OM007", "2026-08-30",
		"budi", "081234", "Angsuran", "Cash", total, nominal,
		sisa, status, ke, "dewi",
	}
}

func TestListOutstanding(t *testing.T) {
	svc, _ := newTestService(t, [][]string{
		paymentRow("OM/T/001/30-08/2026", "OM/P/001/30-08/2026", "600000", "200000", "-400000", "Belum Lunas", "1"),
		paymentRow("OM/T/001/30-08/2026", "OM/P/002/30-08/2026", "600000", "200000", "-200000", "Belum Lunas", "2"),
		paymentRow("OM/T/002/30-08/2026", "OM/P/003/30-08/2026", "150000", "150000", "0", "Lunas", "1"),
	})

	out, err := svc.ListOutstanding(context.Background())
	if err != nil {
		t.Fatalf("ListOutstanding: %v", err)
	}
	if len(out) != 1 {
		t.Fatalf("outstanding = %d, want 1", len(out))
	}
	o := out[0]
	if o.TransactionID != "OM/T/001/30-08/2026" || o.Remaining != -200000 || o.Total != 600000 || o.LastSeq != 2 {
		t.Fatalf("outstanding = %+v", o)
	}
}

func TestListOutstandingReconstructsTotal(t *testing.T) {
	svc, _ := newTestService(t, [][]string{
		paymentRow("OM/T/003/30-08/2026", "OM/P/004/30-08/2026", "n/a", "100000", "-250000", "Belum Lunas", "1"),
	})

	out, err := svc.ListOutstanding(context.Background())
	if err != nil {
		t.Fatalf("ListOutstanding: %v", err)
	}
	if len(out) != 1 || out[0].Total != 350000 {
		t.Fatalf("outstanding = %+v, want total 350000", out)
	}
}

func TestRecordInstallmentPartial(t *testing.T) {
	svc, m := newTestService(t, [][]string{
		paymentRow("OM/T/001/30-08/2026", "OM/P/001/30-08/2026", "600000", "200000", "-400000", "Belum Lunas", "1"),
	})

	res, err := svc.RecordInstallment(context.Background(), "OM/T/001/30-08/2026", 150000, "TF", "dewi")
	if err != nil {
		t.Fatalf("RecordInstallment: %v", err)
	}
	if res.Paid != 350000 || res.Remaining != -250000 || res.Status != statusUnpaid || res.Seq != 2 {
		t.Fatalf("settlement = %+v", res)
	}

	rows := m.RawRows("pembayaran")
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(rows))
	}
	appended := rows[1]
	if appended[0] != "2026-08-31" || appended[2] != "OM/P/009/31-08/2026" {
		t.Fatalf("appended = %v", appended)
	}
	if appended[8] != "TF" || appended[10] != "150000" || appended[11] != "-250000" || appended[13] != "2" {
		t.Fatalf("appended = %v", appended)
	}
}

func TestRecordInstallmentSettles(t *testing.T) {
	svc, _ := newTestService(t, [][]string{
		paymentRow("OM/T/001/30-08/2026", "OM/P/001/30-08/2026", "600000", "200000", "-400000", "Belum Lunas", "1"),
		paymentRow("OM/T/001/30-08/2026", "OM/P/002/30-08/2026", "600000", "200000", "-200000", "Belum Lunas", "2"),
	})

	res, err := svc.RecordInstallment(context.Background(), "OM/T/001/30-08/2026", 250000, "Cash", "dewi")
	if err != nil {
		t.Fatalf("RecordInstallment: %v", err)
	}
	// Cumulative 650000 against 600000: settled with 50000 change.
	if res.Status != statusPaid || res.Remaining != 50000 || res.Seq != 3 {
		t.Fatalf("settlement = %+v", res)
	}
}

func TestRecordInstallmentGuards(t *testing.T) {
	svc, _ := newTestService(t, [][]string{
		paymentRow("OM/T/002/30-08/2026", "OM/P/003/30-08/2026", "150000", "150000", "0", "Lunas", "1"),
	})

	if _, err := svc.RecordInstallment(context.Background(), "OM/T/002/30-08/2026", 5000, "Cash", "dewi"); !pkgerrors.Is(err, pkgerrors.CodeConflict) {
		t.Fatalf("settled txn: err = %v, want CONFLICT", err)
	}
	if _, err := svc.RecordInstallment(context.Background(), "OM/T/099/30-08/2026", 5000, "Cash", "dewi"); !pkgerrors.Is(err, pkgerrors.CodeNotFound) {
		t.Fatalf("unknown txn: err = %v, want NOT_FOUND", err)
	}
	if _, err := svc.RecordInstallment(context.Background(), "OM/T/002/30-08/2026", 0, "Cash", "dewi"); !pkgerrors.Is(err, pkgerrors.CodeValidation) {
		t.Fatalf("zero amount: err = %v, want VALIDATION", err)
	}
}
