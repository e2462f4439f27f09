package checkout

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/multierr"

	"github.com/dmayasari/optikpos-backend/internal/activitylog"
	"github.com/dmayasari/optikpos-backend/internal/customers"
	"github.com/dmayasari/optikpos-backend/internal/inventory"
	pkgerrors "github.com/dmayasari/optikpos-backend/pkg/errors"
	"github.com/dmayasari/optikpos-backend/pkg/logger"
	"github.com/dmayasari/optikpos-backend/pkg/metrics"
	"github.com/dmayasari/optikpos-backend/pkg/sheets"
)

// timestampLayout is the first (technical) timestamp column of transaction
// and payment rows.
const timestampLayout = "2006-01-02,15:04:05"

// Request is a complete sale ready to persist.
type Request struct {
	CustomerName string
	Phone        string
	SaleDate     time.Time
	Items        []LineItem
	Method       string // Angsuran or Full
	Via          string // Cash, TF, Qris
	Tendered     int64
	Operator     string
}

// Receipt is what the cashier shows the customer after a successful save.
type Receipt struct {
	TransactionID string
	PaymentID     string
	CustomerID    string
	Total         int64
	Final         int64
	Adjustment    int64
	Status        string
	Remainder     int64
	PaymentSeq    int
}

type customerDirectory interface {
	GetOrCreate(ctx context.Context, name, phone string) (customers.Customer, error)
}

type idAllocator interface {
	NextTransactionID(ctx context.Context) (string, error)
	NextPaymentID(ctx context.Context) (string, error)
}

type stockLedger interface {
	FrameCount(ctx context.Context, key inventory.FrameKey) (int, error)
	LensCount(ctx context.Context, key inventory.LensKey) (int, error)
	DecrementFrame(ctx context.Context, key inventory.FrameKey, by int) (inventory.Movement, error)
	DecrementLens(ctx context.Context, key inventory.LensKey, by int) (inventory.Movement, error)
}

type journal interface {
	RecordFrame(ctx context.Context, e activitylog.FrameEntry) error
	RecordLens(ctx context.Context, e activitylog.LensEntry) error
}

// Service persists checkouts. The write sequence is transaction rows, then
// stock movements and journals, then the payment row. There is no rollback:
// a payment-write failure leaves the transaction rows in place for manual
// reconciliation, which the shop prefers over losing the sale record.
type Service struct {
	store             sheets.Store
	txnWorksheet      string
	paymentWorksheet  string
	customers         customerDirectory
	ids               idAllocator
	ledger            stockLedger
	journal           journal
	loc               *time.Location
	logg              *logger.Logger
	metrics           *metrics.POSMetrics
	now               func() time.Time
}

type Config struct {
	Store                sheets.Store
	TransactionWorksheet string
	PaymentWorksheet     string
	Customers            customerDirectory
	IDs                  idAllocator
	Ledger               stockLedger
	Journal              journal
	Location             *time.Location
	Logger               *logger.Logger
	Metrics              *metrics.POSMetrics
}

func NewService(cfg Config) (*Service, error) {
	if cfg.Store == nil || cfg.Customers == nil || cfg.IDs == nil || cfg.Ledger == nil || cfg.Journal == nil {
		return nil, fmt.Errorf("store, customers, ids, ledger and journal required")
	}
	loc := cfg.Location
	if loc == nil {
		loc = time.Local
	}
	return &Service{
		store:            cfg.Store,
		txnWorksheet:     cfg.TransactionWorksheet,
		paymentWorksheet: cfg.PaymentWorksheet,
		customers:        cfg.Customers,
		ids:              cfg.IDs,
		ledger:           cfg.Ledger,
		journal:          cfg.Journal,
		loc:              loc,
		logg:             cfg.Logger,
		metrics:          cfg.Metrics,
		now:              time.Now,
	}, nil
}

// WithClock overrides the time source. Test hook.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Execute persists the sale. Journal writes and stock movements are best
// effort once the transaction rows are in: their failures are logged and do
// not block the payment row.
func (s *Service) Execute(ctx context.Context, req Request) (Receipt, error) {
	started := s.now()
	rec, err := s.execute(ctx, req)
	if err != nil {
		s.metrics.IncCheckout("failed")
		return Receipt{}, err
	}
	s.metrics.IncCheckout(strings.ToLower(rec.Status))
	s.metrics.ObserveCheckout(s.now().Sub(started))
	return rec, nil
}

func (s *Service) execute(ctx context.Context, req Request) (Receipt, error) {
	if len(req.Items) == 0 {
		return Receipt{}, pkgerrors.New(pkgerrors.CodeValidation, "checkout needs at least one line item")
	}
	for _, it := range req.Items {
		if err := it.validate(); err != nil {
			return Receipt{}, err
		}
	}
	if req.Tendered < 0 {
		return Receipt{}, pkgerrors.New(pkgerrors.CodeValidation, "tendered amount cannot be negative")
	}

	if err := s.checkAvailability(ctx, req.Items); err != nil {
		return Receipt{}, err
	}

	customer, err := s.customers.GetOrCreate(ctx, req.CustomerName, req.Phone)
	if err != nil {
		return Receipt{}, err
	}

	txnID, err := s.ids.NextTransactionID(ctx)
	if err != nil {
		return Receipt{}, err
	}
	paymentID, err := s.ids.NextPaymentID(ctx)
	if err != nil {
		return Receipt{}, err
	}

	ctx = s.logContext(ctx, txnID)

	var total int64
	now := s.now().In(s.loc)
	timestamp := now.Format(timestampLayout)
	saleDate := req.SaleDate
	if saleDate.IsZero() {
		saleDate = now
	}
	dateStr := saleDate.In(s.loc).Format("2006-01-02")

	rows := make([][]string, 0, len(req.Items))
	for _, it := range req.Items {
		total += it.Subtotal()
		rows = append(rows, transactionRow(timestamp, dateStr, txnID, customer, it, req.Operator))
	}
	if err := s.store.AppendRows(ctx, s.txnWorksheet, rows); err != nil {
		s.metrics.IncWriteFailure()
		return Receipt{}, err
	}

	// Past this point the sale exists; side effects must not undo it.
	if err := s.applyStockEffects(ctx, req, customer, txnID); err != nil && s.logg != nil {
		s.logg.Warn(ctx, fmt.Sprintf("post-sale stock effects incomplete: %v", err))
	}

	final, adjustment := RoundTotal(total)
	status, remainder := SettlePayment(final, req.Tendered)

	seq, err := s.nextPaymentSeq(ctx, txnID)
	if err != nil {
		return Receipt{}, err
	}

	paymentRow := []string{
		timestamp,
		txnID,
		paymentID,
		customer.ID,
		dateStr,
		customer.Name,
		customer.Phone,
		req.Method,
		req.Via,
		strconv.FormatInt(final, 10),
		strconv.FormatInt(req.Tendered, 10),
		strconv.FormatInt(remainder, 10),
		status,
		strconv.Itoa(seq),
		req.Operator,
	}
	if err := s.store.AppendRow(ctx, s.paymentWorksheet, paymentRow); err != nil {
		s.metrics.IncWriteFailure()
		return Receipt{}, err
	}

	if s.logg != nil {
		s.logg.Info(s.logg.WithFields(ctx, map[string]any{
			"customer_id": customer.ID,
			"final":       final,
			"status":      status,
		}), "checkout saved")
	}

	return Receipt{
		TransactionID: txnID,
		PaymentID:     paymentID,
		CustomerID:    customer.ID,
		Total:         total,
		Final:         final,
		Adjustment:    adjustment,
		Status:        status,
		Remainder:     remainder,
		PaymentSeq:    seq,
	}, nil
}

// checkAvailability rejects the sale while nothing has been written yet. A
// matched stock row at zero blocks the checkout; a key with no row does not,
// because the sheet may have been pruned by hand since the cart was built and
// the decrement path skips those too.
func (s *Service) checkAvailability(ctx context.Context, items []LineItem) error {
	for _, it := range items {
		if it.Frame.Status == FrameFromStock {
			count, err := s.ledger.FrameCount(ctx, inventory.FrameKey{Brand: it.Frame.Brand, Code: it.Frame.Code})
			if err != nil && !pkgerrors.Is(err, pkgerrors.CodeStockKeyNotFound) {
				return err
			}
			if err == nil && count == 0 {
				return pkgerrors.New(pkgerrors.CodeConflict,
					fmt.Sprintf("frame %s %s is out of stock", it.Frame.Brand, it.Frame.Code))
			}
		}

		if it.Lens.Status == LensFromStock {
			for _, rx := range []Prescription{it.Lens.Right, it.Lens.Left} {
				count, err := s.ledger.LensCount(ctx, inventory.LensKey{
					Type:     it.Lens.Type,
					Category: it.Lens.Category,
					Brand:    it.Lens.Brand,
					Sphere:   rx.Sphere,
					Cylinder: rx.Cylinder,
					Addition: rx.Addition,
				})
				if err != nil && !pkgerrors.Is(err, pkgerrors.CodeStockKeyNotFound) {
					return err
				}
				if err == nil && count == 0 {
					return pkgerrors.New(pkgerrors.CodeConflict,
						fmt.Sprintf("lens %s %s %s is out of stock", it.Lens.Brand, rx.Sphere.String(), rx.Cylinder.String()))
				}
			}
		}
	}
	return nil
}

// applyStockEffects journals and decrements every stock-sourced part.
// Failures are aggregated; a missing stock key is skipped without error
// because the sheet may have been corrected by hand since the cart was
// built.
func (s *Service) applyStockEffects(ctx context.Context, req Request, customer customers.Customer, txnID string) error {
	var errs error
	for _, it := range req.Items {
		if it.Frame.Status == FrameFromStock {
			err := s.journal.RecordFrame(ctx, activitylog.FrameEntry{
				Brand:         it.Frame.Brand,
				Code:          it.Frame.Code,
				Status:        activitylog.StatusSold,
				Description:   activitylog.SoldDescription(txnID, customer.Name),
				TransactionID: txnID,
				Operator:      req.Operator,
			})
			errs = multierr.Append(errs, err)

			_, err = s.ledger.DecrementFrame(ctx, inventory.FrameKey{Brand: it.Frame.Brand, Code: it.Frame.Code}, 1)
			if err != nil && !pkgerrors.Is(err, pkgerrors.CodeStockKeyNotFound) {
				errs = multierr.Append(errs, err)
			}
		}

		if it.Lens.Status == LensFromStock {
			// Stock lenses are tracked per size; a pair sells the right-eye
			// size and the left-eye size independently.
			for _, rx := range []Prescription{it.Lens.Right, it.Lens.Left} {
				err := s.journal.RecordLens(ctx, activitylog.LensEntry{
					Type:          it.Lens.Type,
					Brand:         it.Lens.Brand,
					Category:      it.Lens.Category,
					Sphere:        rx.Sphere,
					Cylinder:      rx.Cylinder,
					Addition:      rx.Addition,
					Status:        activitylog.StatusSold,
					Description:   activitylog.SoldDescription(txnID, customer.Name),
					TransactionID: txnID,
					Operator:      req.Operator,
				})
				errs = multierr.Append(errs, err)

				_, err = s.ledger.DecrementLens(ctx, inventory.LensKey{
					Type:     it.Lens.Type,
					Category: it.Lens.Category,
					Brand:    it.Lens.Brand,
					Sphere:   rx.Sphere,
					Cylinder: rx.Cylinder,
					Addition: rx.Addition,
				}, 1)
				if err != nil && !pkgerrors.Is(err, pkgerrors.CodeStockKeyNotFound) {
					errs = multierr.Append(errs, err)
				}
			}
		}
	}
	return errs
}

// nextPaymentSeq counts prior payment rows for the transaction plus one.
func (s *Service) nextPaymentSeq(ctx context.Context, txnID string) (int, error) {
	table, err := s.store.ReadAllRows(ctx, s.paymentWorksheet)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, r := range table.Rows {
		if r["id_transaksi"] == txnID {
			n++
		}
	}
	return n + 1, nil
}

func (s *Service) logContext(ctx context.Context, txnID string) context.Context {
	if s.logg == nil {
		return ctx
	}
	return s.logg.WithTransactionID(ctx, txnID)
}

func transactionRow(timestamp, date, txnID string, c customers.Customer, it LineItem, operator string) []string {
	return []string{
		timestamp,
		date,
		txnID,
		c.ID,
		c.Name,
		it.Frame.Status,
		it.Frame.Brand,
		it.Frame.Code,
		it.Lens.Status,
		it.Lens.Category,
		it.Lens.Type,
		it.Lens.Brand,
		it.Lens.Name,
		it.Lens.Right.Sphere.String(),
		it.Lens.Right.Cylinder.String(),
		it.Lens.Right.Axis,
		it.Lens.Right.Addition.String(),
		it.Lens.Left.Sphere.String(),
		it.Lens.Left.Cylinder.String(),
		it.Lens.Left.Axis,
		it.Lens.Left.Addition.String(),
		strconv.FormatInt(it.Frame.Price, 10),
		strconv.FormatInt(it.Lens.Price, 10),
		strconv.FormatInt(it.Discount(), 10),
		strconv.FormatInt(it.Subtotal(), 10),
		operator,
	}
}
