// Package payments settles installments against shop transactions. The
// payment worksheet is append-only; a transaction's state is its latest row
// by sequence number, and each new installment derives fresh cumulative
// numbers from the full history.
package payments

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	pkgerrors "github.com/dmayasari/optikpos-backend/pkg/errors"
	"github.com/dmayasari/optikpos-backend/pkg/logger"
	"github.com/dmayasari/optikpos-backend/pkg/money"
	"github.com/dmayasari/optikpos-backend/pkg/sheets"
)

const (
	statusPaid   = "Lunas"
	statusUnpaid = "Belum Lunas"
)

// Outstanding is one transaction still carrying a balance.
type Outstanding struct {
	TransactionID string
	CustomerID    string
	CustomerName  string
	Phone         string
	Date          string
	Method        string
	Total         int64
	Remaining     int64 // negative while unpaid
	LastSeq       int
}

// Settlement is the state after recording one installment.
type Settlement struct {
	TransactionID string
	PaymentID     string
	Paid          int64 // cumulative
	Remaining     int64
	Status        string
	Seq           int
}

type idAllocator interface {
	NextPaymentID(ctx context.Context) (string, error)
}

type Service struct {
	store     sheets.Store
	worksheet string
	ids       idAllocator
	loc       *time.Location
	logg      *logger.Logger
	now       func() time.Time
}

func NewService(store sheets.Store, worksheet string, ids idAllocator, loc *time.Location, logg *logger.Logger) (*Service, error) {
	if store == nil || ids == nil {
		return nil, fmt.Errorf("store and id allocator required")
	}
	if loc == nil {
		loc = time.Local
	}
	return &Service{store: store, worksheet: worksheet, ids: ids, loc: loc, logg: logg, now: time.Now}, nil
}

// WithClock overrides the time source. Test hook.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// ListOutstanding returns every transaction whose latest payment row is
// still unpaid, ordered by transaction id for a stable cashier view.
func (s *Service) ListOutstanding(ctx context.Context) ([]Outstanding, error) {
	table, err := s.store.ReadAllRows(ctx, s.worksheet)
	if err != nil {
		return nil, err
	}

	latest := map[string]sheets.Row{}
	for _, r := range table.Rows {
		id := r["id_transaksi"]
		if id == "" {
			continue
		}
		if prev, ok := latest[id]; !ok || seqOf(r) >= seqOf(prev) {
			latest[id] = r
		}
	}

	out := make([]Outstanding, 0, len(latest))
	for id, r := range latest {
		if !strings.EqualFold(strings.TrimSpace(r["status"]), statusUnpaid) {
			continue
		}
		remaining := money.ParseOrZero(r["sisa"])
		total, err := money.Parse(r["total_harga"])
		if err != nil {
			// A legacy row without a readable total: reconstruct it from
			// the installment and the balance.
			total = money.ParseOrZero(r["nominal_pembayaran"]) + abs(remaining)
		}
		out = append(out, Outstanding{
			TransactionID: id,
			CustomerID:    r["id_pelanggan"],
			CustomerName:  r["nama"],
			Phone:         r["no_hp"],
			Date:          strings.TrimSpace(r["tanggal"]),
			Method:        r["metode"],
			Total:         total,
			Remaining:     remaining,
			LastSeq:       seqOf(r),
		})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].TransactionID < out[j].TransactionID })
	return out, nil
}

// RecordInstallment appends one payment against the transaction. The new
// remaining balance is cumulative paid minus total; a balance of zero or
// more settles the transaction.
func (s *Service) RecordInstallment(ctx context.Context, txnID string, amount int64, via, operator string) (Settlement, error) {
	if amount <= 0 {
		return Settlement{}, pkgerrors.New(pkgerrors.CodeValidation, "installment amount must be positive")
	}

	table, err := s.store.ReadAllRows(ctx, s.worksheet)
	if err != nil {
		return Settlement{}, err
	}

	var history []sheets.Row
	for _, r := range table.Rows {
		if r["id_transaksi"] == txnID {
			history = append(history, r)
		}
	}
	if len(history) == 0 {
		return Settlement{}, pkgerrors.New(pkgerrors.CodeNotFound, "no payment history for that transaction")
	}

	last := history[0]
	var paidBefore int64
	for _, r := range history {
		paidBefore += money.ParseOrZero(r["nominal_pembayaran"])
		if seqOf(r) >= seqOf(last) {
			last = r
		}
	}
	if strings.EqualFold(strings.TrimSpace(last["status"]), statusPaid) {
		return Settlement{}, pkgerrors.New(pkgerrors.CodeConflict, "transaction is already settled")
	}

	total, err := money.Parse(last["total_harga"])
	if err != nil {
		total = money.ParseOrZero(last["nominal_pembayaran"]) + abs(money.ParseOrZero(last["sisa"]))
	}

	paid := paidBefore + amount
	remaining := paid - total
	status := statusUnpaid
	if remaining >= 0 {
		status = statusPaid
	}

	paymentID, err := s.ids.NextPaymentID(ctx)
	if err != nil {
		return Settlement{}, err
	}
	seq := len(history) + 1
	today := s.now().In(s.loc).Format("2006-01-02")

	row := []string{
		today,
		txnID,
		paymentID,
		last["id_pelanggan"],
		strings.TrimSpace(last["tanggal"]),
		last["nama"],
		last["no_hp"],
		last["metode"],
		via,
		strconv.FormatInt(total, 10),
		strconv.FormatInt(amount, 10),
		strconv.FormatInt(remaining, 10),
		status,
		strconv.Itoa(seq),
		operator,
	}
	if err := s.store.AppendRow(ctx, s.worksheet, row); err != nil {
		return Settlement{}, err
	}

	if s.logg != nil {
		s.logg.Info(s.logg.WithTransactionID(ctx, txnID), fmt.Sprintf("installment %d recorded, status %s", seq, status))
	}

	return Settlement{
		TransactionID: txnID,
		PaymentID:     paymentID,
		Paid:          paid,
		Remaining:     remaining,
		Status:        status,
		Seq:           seq,
	}, nil
}

func seqOf(r sheets.Row) int {
	n, err := strconv.Atoi(strings.TrimSpace(r["ke"]))
	if err != nil {
		return 0
	}
	return n
}

func abs(n int64) int64 {
	if n < 0 {
		return -n
	}
	return n
}
