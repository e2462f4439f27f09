package orders

import (
	ordersvc "github.com/dmayasari/optikpos-backend/internal/orders"
	"github.com/dmayasari/optikpos-backend/pkg/money"
)

type OrderResponse struct {
	OrderID      string `json:"order_id"`
	PaymentID    string `json:"payment_id,omitempty"`
	Total        int64  `json:"total"`
	TotalDisplay string `json:"total_display"`
	Status       string `json:"status"`
	Remaining    int64  `json:"remaining"`
	AutoPriced   int    `json:"auto_priced"`
}

func newOrder(o ordersvc.Order) OrderResponse {
	return OrderResponse{
		OrderID:      o.OrderID,
		PaymentID:    o.PaymentID,
		Total:        o.Total,
		TotalDisplay: money.Display(o.Total),
		Status:       o.Status,
		Remaining:    o.Remaining,
		AutoPriced:   o.AutoPriced,
	}
}

type SettlementResponse struct {
	OrderID   string `json:"order_id"`
	PaymentID string `json:"payment_id"`
	Remaining int64  `json:"remaining"`
	Status    string `json:"status"`
	Seq       int    `json:"seq"`
}

func newSettlement(s ordersvc.Settlement) SettlementResponse {
	return SettlementResponse{
		OrderID:   s.OrderID,
		PaymentID: s.PaymentID,
		Remaining: s.Remaining,
		Status:    s.Status,
		Seq:       s.Seq,
	}
}

type OutstandingResponse struct {
	OrderID     string `json:"order_id"`
	Destination string `json:"destination"`
	PickupDate  string `json:"pickup_date"`
	Total       int64  `json:"total"`
	Remaining   int64  `json:"remaining"`
}

func newOutstandingList(items []ordersvc.OutstandingOrder) []OutstandingResponse {
	out := make([]OutstandingResponse, 0, len(items))
	for _, it := range items {
		out = append(out, OutstandingResponse{
			OrderID:     it.OrderID,
			Destination: it.Destination,
			PickupDate:  it.PickupDate,
			Total:       it.Total,
			Remaining:   it.Remaining,
		})
	}
	return out
}

type ShipResponse struct {
	OrderID     string `json:"order_id"`
	RowsUpdated int    `json:"rows_updated"`
}
