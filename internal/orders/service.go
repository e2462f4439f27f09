// Package orders handles out-of-town mail orders: lenses cut in the shop and
// shipped to a partner optician. Orders carry shipping and cutting fees on
// top of the lens price, use OMSKW identifiers keyed to a destination code,
// and settle through their own installment worksheet.
package orders

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/dmayasari/optikpos-backend/internal/pricing"
	pkgerrors "github.com/dmayasari/optikpos-backend/pkg/errors"
	"github.com/dmayasari/optikpos-backend/pkg/logger"
	"github.com/dmayasari/optikpos-backend/pkg/money"
	"github.com/dmayasari/optikpos-backend/pkg/optics"
	"github.com/dmayasari/optikpos-backend/pkg/sheets"
)

const (
	statusPaid   = "Lunas"
	statusUnpaid = "Belum Lunas"

	ShipPending = "Belum Dikirim"
	ShipDone    = "Sudah Dikirim"
)

// ShippingFee is the flat courier charge per item.
const ShippingFee int64 = 25000

// CuttingFees are the accepted lens-cutting charges.
var CuttingFees = []int64{17000, 27000, 32000}

// Prescription is one eye's correction as persisted in the ukuran columns.
type Prescription struct {
	Sphere   optics.Power
	Cylinder optics.Power
	Axis     string
	Addition optics.Power
}

func (p Prescription) cell() string {
	return fmt.Sprintf("SPH: %s, CYL: %s, Axis: %s, Add: %s",
		p.Sphere.String(), p.Cylinder.String(), p.Axis, p.Addition.String())
}

// Item is one lens line in an order.
type Item struct {
	LensStatus string
	Category   string
	Type       string
	Brand      string
	LensName   string
	Right      Prescription
	Left       Prescription
	LensPrice  int64 // zero asks for auto-pricing
	Cutting    int64
	Notes      string
}

// Subtotal is lens price plus both fees.
func (it Item) Subtotal() int64 {
	return it.LensPrice + ShippingFee + it.Cutting
}

// Request is a complete order ready to persist.
type Request struct {
	Destination string // partner name
	PickupDate  time.Time
	Items       []Item
	Tendered    int64 // first installment, may be zero
	Via         string
	Method      string
	Operator    string
}

// Order is what CreateOrder returns.
type Order struct {
	OrderID    string
	PaymentID  string
	Total      int64
	Status     string
	Remaining  int64
	AutoPriced int // items priced by the resolver
}

// Settlement is the state after an installment.
type Settlement struct {
	OrderID   string
	PaymentID string
	Remaining int64
	Status    string
	Seq       int
}

// OutstandingOrder is one unsettled order.
type OutstandingOrder struct {
	OrderID     string
	Destination string
	PickupDate  string
	Total       int64
	Remaining   int64
}

type priceResolver interface {
	ResolveExternalPrice(ctx context.Context, q pricing.ExternalQuery) (int64, error)
}

type idAllocator interface {
	NextOrderID(ctx context.Context, destinationCode string, pickup time.Time) (string, error)
	NextOrderPaymentID(ctx context.Context, destinationCode string) (string, error)
}

type Service struct {
	store            sheets.Store
	orderWorksheet   string
	paymentWorksheet string
	ids              idAllocator
	prices           priceResolver
	destinations     map[string]string // name -> location code
	loc              *time.Location
	logg             *logger.Logger
	now              func() time.Time
}

type Config struct {
	Store            sheets.Store
	OrderWorksheet   string
	PaymentWorksheet string
	IDs              idAllocator
	Prices           priceResolver
	Destinations     map[string]string
	Location         *time.Location
	Logger           *logger.Logger
}

func NewService(cfg Config) (*Service, error) {
	if cfg.Store == nil || cfg.IDs == nil || cfg.Prices == nil {
		return nil, fmt.Errorf("store, ids and price resolver required")
	}
	if len(cfg.Destinations) == 0 {
		return nil, fmt.Errorf("at least one destination required")
	}
	loc := cfg.Location
	if loc == nil {
		loc = time.Local
	}
	destinations := make(map[string]string, len(cfg.Destinations))
	for name, code := range cfg.Destinations {
		destinations[strings.ToLower(strings.TrimSpace(name))] = code
	}
	return &Service{
		store:            cfg.Store,
		orderWorksheet:   cfg.OrderWorksheet,
		paymentWorksheet: cfg.PaymentWorksheet,
		ids:              cfg.IDs,
		prices:           cfg.Prices,
		destinations:     destinations,
		loc:              loc,
		logg:             cfg.Logger,
		now:              time.Now,
	}, nil
}

// WithClock overrides the time source. Test hook.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// CreateOrder persists the order rows and, when money changed hands, the
// first payment row. Items without a price are run through the external
// price resolver; a resolver miss on an unpriced item rejects the order.
func (s *Service) CreateOrder(ctx context.Context, req Request) (Order, error) {
	code, ok := s.destinations[strings.ToLower(strings.TrimSpace(req.Destination))]
	if !ok {
		return Order{}, pkgerrors.New(pkgerrors.CodeValidation, "unknown destination")
	}
	if len(req.Items) == 0 {
		return Order{}, pkgerrors.New(pkgerrors.CodeValidation, "order needs at least one item")
	}

	autoPriced := 0
	var total int64
	for i := range req.Items {
		it := &req.Items[i]
		if it.Cutting > 0 && !validCutting(it.Cutting) {
			return Order{}, pkgerrors.New(pkgerrors.CodeValidation, "unrecognized cutting fee")
		}
		price, err := s.prices.ResolveExternalPrice(ctx, pricing.ExternalQuery{
			Type:     it.Type,
			Category: it.Category,
			LensName: it.LensName,
			Sphere:   it.Right.Sphere,
			Cylinder: it.Right.Cylinder,
			Addition: it.Right.Addition,
		})
		switch {
		case err == nil:
			it.LensPrice = price
			autoPriced++
		case pkgerrors.Is(err, pkgerrors.CodeNotFound), pkgerrors.Is(err, pkgerrors.CodeValidation):
			if it.LensPrice <= 0 {
				return Order{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "item has no price and no band matches")
			}
		default:
			return Order{}, err
		}
		total += it.Subtotal()
	}

	orderID, err := s.ids.NextOrderID(ctx, code, req.PickupDate)
	if err != nil {
		return Order{}, err
	}

	pickup := req.PickupDate.In(s.loc).Format("2006-01-02")
	rows := make([][]string, 0, len(req.Items))
	for _, it := range req.Items {
		rows = append(rows, []string{
			pickup,
			req.Destination,
			orderID,
			it.LensStatus,
			it.Category,
			it.Type,
			it.Brand,
			it.LensName,
			it.Right.cell(),
			it.Left.cell(),
			strconv.FormatInt(it.LensPrice, 10),
			strconv.FormatInt(ShippingFee, 10),
			strconv.FormatInt(it.Cutting, 10),
			it.Notes,
			ShipPending,
			"-",
			strconv.FormatInt(it.Subtotal(), 10),
		})
	}
	if err := s.store.AppendRows(ctx, s.orderWorksheet, rows); err != nil {
		return Order{}, err
	}

	order := Order{OrderID: orderID, Total: total, AutoPriced: autoPriced}
	if req.Tendered > 0 {
		paymentID, err := s.ids.NextOrderPaymentID(ctx, code)
		if err != nil {
			return order, err
		}
		remaining := req.Tendered - total
		status := statusUnpaid
		if remaining >= 0 {
			status = statusPaid
		}
		row := []string{
			s.now().In(s.loc).Format("2006-01-02"),
			orderID,
			paymentID,
			req.Destination,
			pickup,
			req.Method,
			req.Via,
			strconv.FormatInt(total, 10),
			strconv.FormatInt(req.Tendered, 10),
			strconv.FormatInt(remaining, 10),
			status,
			"1",
			req.Operator,
		}
		if err := s.store.AppendRow(ctx, s.paymentWorksheet, row); err != nil {
			return order, err
		}
		order.PaymentID = paymentID
		order.Status = status
		order.Remaining = remaining
	} else {
		order.Status = statusUnpaid
		order.Remaining = -total
	}

	if s.logg != nil {
		s.logg.Info(s.logg.WithTransactionID(ctx, orderID), "out-of-town order saved")
	}
	return order, nil
}

// RecordPayment appends one installment against the order.
func (s *Service) RecordPayment(ctx context.Context, orderID string, amount int64, via, operator string) (Settlement, error) {
	if amount <= 0 {
		return Settlement{}, pkgerrors.New(pkgerrors.CodeValidation, "installment amount must be positive")
	}
	code, err := s.codeFromOrderID(orderID)
	if err != nil {
		return Settlement{}, err
	}

	table, err := s.store.ReadAllRows(ctx, s.paymentWorksheet)
	if err != nil {
		return Settlement{}, err
	}
	var history []sheets.Row
	for _, r := range table.Rows {
		if r["id_transaksi"] == orderID {
			history = append(history, r)
		}
	}
	if len(history) == 0 {
		return Settlement{}, pkgerrors.New(pkgerrors.CodeNotFound, "no payment history for that order")
	}

	last := history[len(history)-1]
	if strings.EqualFold(strings.TrimSpace(last["status"]), statusPaid) {
		return Settlement{}, pkgerrors.New(pkgerrors.CodeConflict, "order is already settled")
	}

	var paidBefore int64
	for _, r := range history {
		paidBefore += money.ParseOrZero(r["nominal"])
	}
	total := money.ParseOrZero(last["total"])
	remaining := paidBefore + amount - total
	status := statusUnpaid
	if remaining >= 0 {
		status = statusPaid
	}

	paymentID, err := s.ids.NextOrderPaymentID(ctx, code)
	if err != nil {
		return Settlement{}, err
	}
	seq := len(history) + 1

	row := []string{
		s.now().In(s.loc).Format("2006-01-02"),
		orderID,
		paymentID,
		last["nama"],
		strings.TrimSpace(last["tanggal_ambil"]),
		last["metode"],
		via,
		strconv.FormatInt(total, 10),
		strconv.FormatInt(amount, 10),
		strconv.FormatInt(remaining, 10),
		status,
		strconv.Itoa(seq),
		operator,
	}
	if err := s.store.AppendRow(ctx, s.paymentWorksheet, row); err != nil {
		return Settlement{}, err
	}

	return Settlement{
		OrderID:   orderID,
		PaymentID: paymentID,
		Remaining: remaining,
		Status:    status,
		Seq:       seq,
	}, nil
}

// ListOutstanding returns orders whose latest payment row is unpaid.
func (s *Service) ListOutstanding(ctx context.Context) ([]OutstandingOrder, error) {
	table, err := s.store.ReadAllRows(ctx, s.paymentWorksheet)
	if err != nil {
		return nil, err
	}

	latest := map[string]sheets.Row{}
	for _, r := range table.Rows {
		if id := r["id_transaksi"]; id != "" {
			latest[id] = r // rows are appended in order; last one wins
		}
	}

	out := make([]OutstandingOrder, 0, len(latest))
	for id, r := range latest {
		if !strings.EqualFold(strings.TrimSpace(r["status"]), statusUnpaid) {
			continue
		}
		out = append(out, OutstandingOrder{
			OrderID:     id,
			Destination: r["nama"],
			PickupDate:  strings.TrimSpace(r["tanggal_ambil"]),
			Total:       money.ParseOrZero(r["total"]),
			Remaining:   money.ParseOrZero(r["sisa"]),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].OrderID < out[j].OrderID })
	return out, nil
}

// MarkShipped flips every row of the order to shipped with the given date.
func (s *Service) MarkShipped(ctx context.Context, orderID string, shipped time.Time) (int, error) {
	table, err := s.store.ReadAllRows(ctx, s.orderWorksheet)
	if err != nil {
		return 0, err
	}
	statusCol := table.ColumnIndex("status_kirim")
	dateCol := table.ColumnIndex("tanggal_kirim")
	if statusCol == 0 || dateCol == 0 {
		return 0, pkgerrors.New(pkgerrors.CodeParseFailure, "order worksheet is missing shipping columns")
	}

	date := shipped.In(s.loc).Format("2006-01-02")
	updated := 0
	for i, r := range table.Rows {
		if r["id_transaksi"] != orderID {
			continue
		}
		row := table.SheetRow(i)
		if err := s.store.UpdateCell(ctx, s.orderWorksheet, row, statusCol, ShipDone); err != nil {
			return updated, err
		}
		if err := s.store.UpdateCell(ctx, s.orderWorksheet, row, dateCol, date); err != nil {
			return updated, err
		}
		updated++
	}
	if updated == 0 {
		return 0, pkgerrors.New(pkgerrors.CodeNotFound, "no order rows with that id")
	}
	return updated, nil
}

// codeFromOrderID recovers the destination code, the second id segment.
func (s *Service) codeFromOrderID(orderID string) (string, error) {
	parts := strings.Split(orderID, "/")
	if len(parts) < 4 {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "malformed order id")
	}
	return parts[1], nil
}

func validCutting(fee int64) bool {
	for _, f := range CuttingFees {
		if f == fee {
			return true
		}
	}
	return false
}
