package orders

import (
	"time"

	ordersvc "github.com/dmayasari/optikpos-backend/internal/orders"
	pkgerrors "github.com/dmayasari/optikpos-backend/pkg/errors"
	"github.com/dmayasari/optikpos-backend/pkg/optics"
)

const dateLayout = "2006-01-02"

type PrescriptionRequest struct {
	Sphere   string `json:"sphere"`
	Cylinder string `json:"cylinder"`
	Axis     string `json:"axis"`
	Addition string `json:"addition"`
}

func (p PrescriptionRequest) toPrescription() (ordersvc.Prescription, error) {
	sph, err := optics.Parse(p.Sphere)
	if err != nil {
		return ordersvc.Prescription{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "bad sphere")
	}
	cyl, err := optics.Parse(p.Cylinder)
	if err != nil {
		return ordersvc.Prescription{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "bad cylinder")
	}
	add, err := optics.Parse(p.Addition)
	if err != nil {
		return ordersvc.Prescription{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "bad addition")
	}
	return ordersvc.Prescription{Sphere: sph, Cylinder: cyl, Axis: p.Axis, Addition: add}, nil
}

type ItemRequest struct {
	LensStatus string              `json:"lens_status" validate:"required"`
	Category   string              `json:"category"`
	Type       string              `json:"type"`
	Brand      string              `json:"brand"`
	LensName   string              `json:"lens_name" validate:"required"`
	Right      PrescriptionRequest `json:"right"`
	Left       PrescriptionRequest `json:"left"`
	LensPrice  int64               `json:"lens_price" validate:"min=0"`
	Cutting    int64               `json:"cutting" validate:"min=0"`
	Notes      string              `json:"notes"`
}

type CreateRequest struct {
	Destination string        `json:"destination" validate:"required"`
	PickupDate  string        `json:"pickup_date" validate:"required"`
	Items       []ItemRequest `json:"items" validate:"required,min=1,dive"`
	Tendered    int64         `json:"tendered" validate:"min=0"`
	Via         string        `json:"via" validate:"omitempty,oneof=Cash TF Qris"`
	Method      string        `json:"method" validate:"omitempty,oneof=Full Angsuran"`
}

func (req CreateRequest) toRequest(operator string) (ordersvc.Request, error) {
	pickup, err := time.Parse(dateLayout, req.PickupDate)
	if err != nil {
		return ordersvc.Request{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "bad pickup date")
	}

	items := make([]ordersvc.Item, 0, len(req.Items))
	for _, it := range req.Items {
		right, err := it.Right.toPrescription()
		if err != nil {
			return ordersvc.Request{}, err
		}
		left, err := it.Left.toPrescription()
		if err != nil {
			return ordersvc.Request{}, err
		}
		items = append(items, ordersvc.Item{
			LensStatus: it.LensStatus,
			Category:   it.Category,
			Type:       it.Type,
			Brand:      it.Brand,
			LensName:   it.LensName,
			Right:      right,
			Left:       left,
			LensPrice:  it.LensPrice,
			Cutting:    it.Cutting,
			Notes:      it.Notes,
		})
	}

	return ordersvc.Request{
		Destination: req.Destination,
		PickupDate:  pickup,
		Items:       items,
		Tendered:    req.Tendered,
		Via:         req.Via,
		Method:      req.Method,
		Operator:    operator,
	}, nil
}

type PaymentRequest struct {
	OrderID string `json:"order_id" validate:"required"`
	Amount  int64  `json:"amount" validate:"required,min=1"`
	Via     string `json:"via" validate:"required,oneof=Cash TF Qris"`
}

type ShipRequest struct {
	OrderID     string `json:"order_id" validate:"required"`
	ShippedDate string `json:"shipped_date"` // defaults to today
}

func (req ShipRequest) shippedAt() (time.Time, error) {
	if req.ShippedDate == "" {
		return time.Now(), nil
	}
	shipped, err := time.Parse(dateLayout, req.ShippedDate)
	if err != nil {
		return time.Time{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "bad shipped date")
	}
	return shipped, nil
}
