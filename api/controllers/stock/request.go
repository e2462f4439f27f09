package stock

import (
	"github.com/dmayasari/optikpos-backend/internal/inventory"
	pkgerrors "github.com/dmayasari/optikpos-backend/pkg/errors"
	"github.com/dmayasari/optikpos-backend/pkg/optics"
)

type FrameIntakeRequest struct {
	Brand    string `json:"brand" validate:"required"`
	Code     string `json:"code" validate:"required"`
	Quantity int    `json:"quantity" validate:"required,min=1"`
}

type FrameReviseRequest struct {
	Brand    string `json:"brand" validate:"required"`
	Code     string `json:"code" validate:"required"`
	NewCount int    `json:"new_count" validate:"min=0"`
}

// Powers arrive as the two-decimal strings the worksheets use; an empty
// string means the dimension is absent.
type LensIntakeRequest struct {
	Type     string `json:"type" validate:"required"`
	Category string `json:"category" validate:"required"`
	Brand    string `json:"brand" validate:"required"`
	Sphere   string `json:"sphere"`
	Cylinder string `json:"cylinder"`
	Addition string `json:"addition"`
	Quantity int    `json:"quantity" validate:"required,min=1"`
}

func (req LensIntakeRequest) toKey() (inventory.LensKey, error) {
	return lensKey(req.Type, req.Category, req.Brand, req.Sphere, req.Cylinder, req.Addition)
}

type LensReviseRequest struct {
	Type     string `json:"type" validate:"required"`
	Category string `json:"category" validate:"required"`
	Brand    string `json:"brand" validate:"required"`
	Sphere   string `json:"sphere"`
	Cylinder string `json:"cylinder"`
	Addition string `json:"addition"`
	NewCount int    `json:"new_count" validate:"min=0"`
}

func (req LensReviseRequest) toKey() (inventory.LensKey, error) {
	return lensKey(req.Type, req.Category, req.Brand, req.Sphere, req.Cylinder, req.Addition)
}

func lensKey(typ, category, brand, sphere, cylinder, addition string) (inventory.LensKey, error) {
	sph, err := optics.Parse(sphere)
	if err != nil {
		return inventory.LensKey{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "bad sphere")
	}
	cyl, err := optics.Parse(cylinder)
	if err != nil {
		return inventory.LensKey{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "bad cylinder")
	}
	add, err := optics.Parse(addition)
	if err != nil {
		return inventory.LensKey{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "bad addition")
	}
	return inventory.LensKey{
		Type:     typ,
		Category: category,
		Brand:    brand,
		Sphere:   sph,
		Cylinder: cyl,
		Addition: add,
	}, nil
}
