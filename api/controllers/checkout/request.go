package checkout

import (
	"time"

	checkoutsvc "github.com/dmayasari/optikpos-backend/internal/checkout"
	pkgerrors "github.com/dmayasari/optikpos-backend/pkg/errors"
	"github.com/dmayasari/optikpos-backend/pkg/optics"
)

type PrescriptionPayload struct {
	Sphere   string `json:"sphere"`
	Cylinder string `json:"cylinder"`
	Axis     string `json:"axis"`
	Addition string `json:"addition"`
}

func (p PrescriptionPayload) toPrescription() (checkoutsvc.Prescription, error) {
	sph, err := optics.Parse(p.Sphere)
	if err != nil {
		return checkoutsvc.Prescription{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "bad sphere")
	}
	cyl, err := optics.Parse(p.Cylinder)
	if err != nil {
		return checkoutsvc.Prescription{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "bad cylinder")
	}
	add, err := optics.Parse(p.Addition)
	if err != nil {
		return checkoutsvc.Prescription{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "bad addition")
	}
	return checkoutsvc.Prescription{Sphere: sph, Cylinder: cyl, Axis: p.Axis, Addition: add}, nil
}

type LineItemPayload struct {
	FrameStatus string `json:"frame_status" validate:"required"`
	FrameBrand  string `json:"frame_brand"`
	FrameCode   string `json:"frame_code"`
	FramePrice  int64  `json:"frame_price" validate:"min=0"`

	LensStatus   string              `json:"lens_status" validate:"required"`
	LensCategory string              `json:"lens_category"`
	LensType     string              `json:"lens_type"`
	LensBrand    string              `json:"lens_brand"`
	LensName     string              `json:"lens_name"`
	Right        PrescriptionPayload `json:"right"`
	Left         PrescriptionPayload `json:"left"`
	LensPrice    int64               `json:"lens_price" validate:"min=0"`

	DiscountPercent int64 `json:"discount_percent" validate:"min=0,max=100"`
	DiscountFlat    int64 `json:"discount_flat" validate:"min=0"`
}

type QuoteRequest struct {
	Items []LineItemPayload `json:"items" validate:"required,min=1,dive"`
}

type ExecuteRequest struct {
	CustomerName string            `json:"customer_name" validate:"required"`
	Phone        string            `json:"phone" validate:"required"`
	SaleDate     string            `json:"sale_date"`
	Items        []LineItemPayload `json:"items" validate:"required,min=1,dive"`
	Method       string            `json:"method" validate:"required,oneof=Full Angsuran"`
	Via          string            `json:"via" validate:"required,oneof=Cash TF Qris"`
	Tendered     int64             `json:"tendered" validate:"min=0"`
}

func toLineItems(payloads []LineItemPayload) ([]checkoutsvc.LineItem, error) {
	items := make([]checkoutsvc.LineItem, 0, len(payloads))
	for _, p := range payloads {
		right, err := p.Right.toPrescription()
		if err != nil {
			return nil, err
		}
		left, err := p.Left.toPrescription()
		if err != nil {
			return nil, err
		}
		items = append(items, checkoutsvc.LineItem{
			Frame: checkoutsvc.FramePart{
				Status: p.FrameStatus,
				Brand:  p.FrameBrand,
				Code:   p.FrameCode,
				Price:  p.FramePrice,
			},
			Lens: checkoutsvc.LensPart{
				Status:   p.LensStatus,
				Category: p.LensCategory,
				Type:     p.LensType,
				Brand:    p.LensBrand,
				Name:     p.LensName,
				Right:    right,
				Left:     left,
				Price:    p.LensPrice,
			},
			DiscountPercent: p.DiscountPercent,
			DiscountFlat:    p.DiscountFlat,
		})
	}
	return items, nil
}

func (req ExecuteRequest) toRequest() (checkoutsvc.Request, error) {
	items, err := toLineItems(req.Items)
	if err != nil {
		return checkoutsvc.Request{}, err
	}

	var saleDate time.Time
	if req.SaleDate != "" {
		saleDate, err = time.Parse("2006-01-02", req.SaleDate)
		if err != nil {
			return checkoutsvc.Request{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "sale_date must be YYYY-MM-DD")
		}
	}

	return checkoutsvc.Request{
		CustomerName: req.CustomerName,
		Phone:        req.Phone,
		SaleDate:     saleDate,
		Items:        items,
		Method:       req.Method,
		Via:          req.Via,
		Tendered:     req.Tendered,
	}, nil
}
