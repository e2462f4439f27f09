package pricing

import (
	pricingsvc "github.com/dmayasari/optikpos-backend/internal/pricing"
	pkgerrors "github.com/dmayasari/optikpos-backend/pkg/errors"
	"github.com/dmayasari/optikpos-backend/pkg/optics"
)

// Powers arrive as the two-decimal strings the worksheets use; an empty
// string means the dimension is absent.
type StockQuoteRequest struct {
	Type     string `json:"type" validate:"required"`
	Category string `json:"category" validate:"required"`
	Brand    string `json:"brand" validate:"required"`
	Sphere   string `json:"sphere"`
	Cylinder string `json:"cylinder"`
	Addition string `json:"addition"`
	Reseller bool   `json:"reseller"`
}

func (req StockQuoteRequest) toQuery() (pricingsvc.StockQuery, error) {
	sph, cyl, add, err := parsePowers(req.Sphere, req.Cylinder, req.Addition)
	if err != nil {
		return pricingsvc.StockQuery{}, err
	}
	return pricingsvc.StockQuery{
		Type:     req.Type,
		Category: req.Category,
		Brand:    req.Brand,
		Sphere:   sph,
		Cylinder: cyl,
		Addition: add,
		Reseller: req.Reseller,
	}, nil
}

type ExternalQuoteRequest struct {
	Type     string `json:"type"`
	Category string `json:"category"`
	LensName string `json:"lens_name" validate:"required"`
	Sphere   string `json:"sphere" validate:"required"`
	Cylinder string `json:"cylinder"`
	Addition string `json:"addition"`
	Reseller bool   `json:"reseller"`
}

func (req ExternalQuoteRequest) toQuery() (pricingsvc.ExternalQuery, error) {
	sph, cyl, add, err := parsePowers(req.Sphere, req.Cylinder, req.Addition)
	if err != nil {
		return pricingsvc.ExternalQuery{}, err
	}
	return pricingsvc.ExternalQuery{
		Type:     req.Type,
		Category: req.Category,
		LensName: req.LensName,
		Sphere:   sph,
		Cylinder: cyl,
		Addition: add,
		Reseller: req.Reseller,
	}, nil
}

func parsePowers(sphere, cylinder, addition string) (sph, cyl, add optics.Power, err error) {
	if sph, err = optics.Parse(sphere); err != nil {
		return sph, cyl, add, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "bad sphere")
	}
	if cyl, err = optics.Parse(cylinder); err != nil {
		return sph, cyl, add, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "bad cylinder")
	}
	if add, err = optics.Parse(addition); err != nil {
		return sph, cyl, add, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "bad addition")
	}
	return sph, cyl, add, nil
}
