// Package checkout assembles in-shop sales: a session collects line items,
// totals them with the shop's rounding rule, and Execute persists the
// transaction, moves stock, and records the first payment.
package checkout

import (
	pkgerrors "github.com/dmayasari/optikpos-backend/pkg/errors"
	"github.com/dmayasari/optikpos-backend/pkg/optics"
)

// Frame sourcing statuses. A customer bringing their own frame sells no
// frame stock.
const (
	FrameFromStock = "Stock"
	FrameCustomer  = "Punya Sendiri"
)

// Lens sourcing statuses. Only on-hand stock moves inventory; the other
// three are made to order.
const (
	LensFromStock = "Stock"
	LensInti      = "Inti"
	LensPesan     = "Pesan"
	LensOverlens  = "Overlens"
)

// Prescription is one eye's correction.
type Prescription struct {
	Sphere   optics.Power
	Cylinder optics.Power
	Axis     string
	Addition optics.Power
}

// FramePart is the frame half of a line item.
type FramePart struct {
	Status string
	Brand  string
	Code   string
	Price  int64
}

// LensPart is the lens half of a line item.
type LensPart struct {
	Status   string
	Category string // jenis
	Type     string // tipe
	Brand    string
	Name     string // only for non-stock lenses
	Right    Prescription
	Left     Prescription
	Price    int64
}

// LineItem is one frame-plus-lens pairing with its discount.
type LineItem struct {
	Frame FramePart
	Lens  LensPart

	// Exactly one discount form applies: a percentage of frame+lens, or a
	// flat rupiah cut on the lens.
	DiscountPercent int64
	DiscountFlat    int64
}

// Discount returns the rupiah value of the item's discount.
func (it LineItem) Discount() int64 {
	if it.DiscountPercent > 0 {
		return (it.Frame.Price + it.Lens.Price) * it.DiscountPercent / 100
	}
	return it.DiscountFlat
}

// Subtotal is frame plus lens minus discount.
func (it LineItem) Subtotal() int64 {
	return it.Frame.Price + it.Lens.Price - it.Discount()
}

func (it LineItem) validate() error {
	if it.Frame.Status == FrameFromStock && (it.Frame.Brand == "" || it.Frame.Code == "") {
		return pkgerrors.New(pkgerrors.CodeValidation, "stock frame needs brand and code")
	}
	if it.Lens.Status != LensFromStock && it.Lens.Name == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "made-to-order lens needs a lens name")
	}
	if it.DiscountPercent < 0 || it.DiscountPercent > 100 || it.DiscountFlat < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "discount out of range")
	}
	if it.DiscountPercent > 0 && it.DiscountFlat > 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "choose percent or flat discount, not both")
	}
	return nil
}

// Session is one cashier's in-progress sale. It replaces ambient cart state
// with an explicit aggregate: born empty, ended by Execute.
type Session struct {
	items []LineItem
}

func NewSession() *Session {
	return &Session{}
}

// AddItem validates and appends a line item.
func (s *Session) AddItem(it LineItem) error {
	if err := it.validate(); err != nil {
		return err
	}
	s.items = append(s.items, it)
	return nil
}

// RemoveItem drops the item at index.
func (s *Session) RemoveItem(index int) error {
	if index < 0 || index >= len(s.items) {
		return pkgerrors.New(pkgerrors.CodeValidation, "no line item at that index")
	}
	s.items = append(s.items[:index], s.items[index+1:]...)
	return nil
}

// Items returns a copy of the current line items.
func (s *Session) Items() []LineItem {
	out := make([]LineItem, len(s.items))
	copy(out, s.items)
	return out
}

// Totals sums the subtotals and applies rounding.
func (s *Session) Totals() (total, final, adjustment int64) {
	for _, it := range s.items {
		total += it.Subtotal()
	}
	final, adjustment = RoundTotal(total)
	return total, final, adjustment
}
