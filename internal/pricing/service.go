// Package pricing resolves lens and frame sale prices against the current
// sheet state. Stock lenses match exactly on the six-field identity; external
// lenses match prescription-power bands with a most-specific-rule-wins
// policy.
package pricing

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/dmayasari/optikpos-backend/internal/catalog"
	pkgerrors "github.com/dmayasari/optikpos-backend/pkg/errors"
	"github.com/dmayasari/optikpos-backend/pkg/logger"
	"github.com/dmayasari/optikpos-backend/pkg/metrics"
	"github.com/dmayasari/optikpos-backend/pkg/money"
	"github.com/dmayasari/optikpos-backend/pkg/optics"
)

// StockQuery identifies one on-hand lens.
type StockQuery struct {
	Type     string
	Category string
	Brand    string
	Sphere   optics.Power
	Cylinder optics.Power
	Addition optics.Power
	Reseller bool
}

// ExternalQuery selects a price band for a made-to-order lens. Type and
// Category are optional narrowing filters; LensName is mandatory.
type ExternalQuery struct {
	Type     string
	Category string
	LensName string
	Sphere   optics.Power
	Cylinder optics.Power
	Addition optics.Power
	Reseller bool
}

type lensLister interface {
	List(ctx context.Context) ([]catalog.LensStockItem, error)
}

type ruleLister interface {
	List(ctx context.Context) ([]catalog.LensPriceRule, error)
}

type frameLister interface {
	List(ctx context.Context) ([]catalog.Frame, error)
}

// Service resolves prices. Lookups are pure over whatever the repositories
// return; staleness is bounded by the snapshot cache underneath them.
type Service struct {
	lenses  lensLister
	rules   ruleLister
	frames  frameLister
	logg    *logger.Logger
	metrics *metrics.POSMetrics
}

func NewService(lenses lensLister, rules ruleLister, frames frameLister, logg *logger.Logger, m *metrics.POSMetrics) (*Service, error) {
	if lenses == nil || rules == nil || frames == nil {
		return nil, fmt.Errorf("lens, rule and frame repositories required")
	}
	return &Service{lenses: lenses, rules: rules, frames: frames, logg: logg, metrics: m}, nil
}

// ResolveStockPrice finds the exact stock row for the query and returns its
// price in rupiah. Powers compare on their formatted form, not as floats;
// prescription values live on a 0.25 grid and string identity sidesteps any
// float round-trip.
func (s *Service) ResolveStockPrice(ctx context.Context, q StockQuery) (int64, error) {
	items, err := s.lenses.List(ctx)
	if err != nil {
		return 0, err
	}

	for _, item := range items {
		if !strings.EqualFold(item.Type, q.Type) ||
			!strings.EqualFold(item.Category, q.Category) ||
			!strings.EqualFold(item.Brand, q.Brand) {
			continue
		}
		if item.Sphere.String() != q.Sphere.String() ||
			item.Cylinder.String() != q.Cylinder.String() ||
			item.Addition.String() != q.Addition.String() {
			continue
		}

		price, err := money.Parse(priceCell(item.SalePriceCell, item.ResellerCell, q.Reseller))
		if err != nil {
			s.metrics.IncPriceLookup("stock", false)
			return 0, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "stock row matched but its price cell is unreadable")
		}
		s.metrics.IncPriceLookup("stock", true)
		return price, nil
	}

	s.metrics.IncPriceLookup("stock", false)
	return 0, pkgerrors.New(pkgerrors.CodeNotFound, "no stock lens matches the prescription")
}

// ResolveExternalPrice picks the price band for a made-to-order lens.
// Candidate rules are ordered by specificity (bounded cylinder and addition
// dimensions count, sphere does not); among equally specific rules the first
// sheet row wins, which is how the shop curates overrides today. A rule
// without addition bounds still matches a progressive query; that
// under-constraint is faithful to the price sheets and logged at debug so
// they can be audited.
func (s *Service) ResolveExternalPrice(ctx context.Context, q ExternalQuery) (int64, error) {
	if strings.TrimSpace(q.LensName) == "" {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "lens name required")
	}
	if q.Sphere.Absent() {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "sphere required")
	}

	rules, err := s.rules.List(ctx)
	if err != nil {
		return 0, err
	}

	candidates := make([]catalog.LensPriceRule, 0, 4)
	for _, rule := range rules {
		if !strings.EqualFold(rule.LensName, q.LensName) {
			continue
		}
		if q.Type != "" && !strings.EqualFold(rule.Type, q.Type) {
			continue
		}
		if q.Category != "" && !strings.EqualFold(rule.Category, q.Category) {
			continue
		}
		candidates = append(candidates, rule)
	}

	// Stable: ties keep sheet order.
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Specificity() > candidates[j].Specificity()
	})

	for _, rule := range candidates {
		if !q.Sphere.Between(rule.SphereMin, rule.SphereMax) {
			continue
		}
		if !rule.CylinderMin.Absent() && !rule.CylinderMax.Absent() {
			if q.Cylinder.Absent() || !q.Cylinder.Between(rule.CylinderMin, rule.CylinderMax) {
				continue
			}
		}
		if !q.Addition.Absent() && !rule.AdditionMin.Absent() && !rule.AdditionMax.Absent() {
			if !q.Addition.Between(rule.AdditionMin, rule.AdditionMax) {
				continue
			}
		}

		price, err := money.Parse(priceCell(rule.SalePriceCell, rule.ResellerCell, q.Reseller))
		if err != nil {
			// Unreadable price disables this band only.
			continue
		}

		if !q.Addition.Absent() && (rule.AdditionMin.Absent() || rule.AdditionMax.Absent()) && s.logg != nil {
			s.logg.Debug(s.logg.WithFields(ctx, map[string]any{
				"lens_name": q.LensName,
				"sheet_row": rule.SheetRow,
			}), "price band matched without addition bounds")
		}

		s.metrics.IncPriceLookup("external", true)
		return price, nil
	}

	s.metrics.IncPriceLookup("external", false)
	return 0, pkgerrors.New(pkgerrors.CodeNotFound, "prescription falls outside every price band for this lens")
}

// ResolveFramePrice returns the sale price of one frame by (brand, code).
func (s *Service) ResolveFramePrice(ctx context.Context, brand, code string) (int64, error) {
	frames, err := s.frames.List(ctx)
	if err != nil {
		return 0, err
	}
	for _, f := range frames {
		if strings.EqualFold(f.Brand, brand) && strings.EqualFold(f.Code, code) {
			price, err := money.Parse(f.SalePriceCell)
			if err != nil {
				return 0, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "frame matched but its price cell is unreadable")
			}
			return price, nil
		}
	}
	return 0, pkgerrors.New(pkgerrors.CodeNotFound, "no frame matches brand and code")
}

func priceCell(sale, reseller string, useReseller bool) string {
	if useReseller {
		return reseller
	}
	return sale
}
