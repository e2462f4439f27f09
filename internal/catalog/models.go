// Package catalog loads the stock and price-rule worksheets into typed
// records. All string cleaning happens here, once, at the boundary; the
// resolvers and the ledger work with parsed values. Price cells stay raw
// because a malformed price must read as "no price" (NotFound), not poison a
// whole table load.
package catalog

import (
	"github.com/dmayasari/optikpos-backend/pkg/optics"
)

// LensStockItem is one on-hand lens row. Identity is the six-field key; the
// three powers compare on their fixed two-decimal form.
type LensStockItem struct {
	Type     string // tipe: Single Vision, Progressive, Kryptok, Flattop
	Category string // jenis: coating/material family, e.g. HMC
	Brand    string // merk

	Sphere   optics.Power
	Cylinder optics.Power
	Addition optics.Power

	Stock         int
	SalePriceCell string
	ResellerCell  string
	CostCell      string

	SheetRow int // 1-based row in the worksheet, for cell updates
	StockCol int // 1-based stock column
}

// LensPriceRule is one externally-sourced price band. Sphere bounds are
// mandatory; cylinder and addition bounds may be open (absent), which makes
// the rule a catch-all on that dimension.
type LensPriceRule struct {
	Status   string // Inti, Pesan, Overlens
	Type     string
	Category string
	Brand    string
	LensName string

	SphereMin, SphereMax     optics.Power
	CylinderMin, CylinderMax optics.Power
	AdditionMin, AdditionMax optics.Power

	SalePriceCell string
	ResellerCell  string

	SheetRow int
}

// Specificity counts the bounded dimensions among cylinder and addition.
// Narrower rules outrank catch-alls; sphere bounds are mandatory and do not
// count.
func (r LensPriceRule) Specificity() int {
	score := 0
	if !r.CylinderMin.Absent() && !r.CylinderMax.Absent() {
		score++
	}
	if !r.AdditionMin.Absent() && !r.AdditionMax.Absent() {
		score++
	}
	return score
}

// Frame is one frame row. Identity is (brand, code).
type Frame struct {
	Brand       string
	Code        string
	Distributor string

	Stock         int
	SalePriceCell string
	CostCell      string

	SheetRow int
	StockCol int
}
