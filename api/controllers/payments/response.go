package payments

import (
	paymentsvc "github.com/dmayasari/optikpos-backend/internal/payments"
	"github.com/dmayasari/optikpos-backend/pkg/money"
)

type OutstandingResponse struct {
	TransactionID    string `json:"transaction_id"`
	CustomerID       string `json:"customer_id"`
	CustomerName     string `json:"customer_name"`
	Phone            string `json:"phone"`
	Date             string `json:"date"`
	Method           string `json:"method"`
	Total            int64  `json:"total"`
	Remaining        int64  `json:"remaining"`
	RemainingDisplay string `json:"remaining_display"`
	LastSeq          int    `json:"last_seq"`
}

func newOutstandingList(items []paymentsvc.Outstanding) []OutstandingResponse {
	out := make([]OutstandingResponse, 0, len(items))
	for _, it := range items {
		out = append(out, OutstandingResponse{
			TransactionID:    it.TransactionID,
			CustomerID:       it.CustomerID,
			CustomerName:     it.CustomerName,
			Phone:            it.Phone,
			Date:             it.Date,
			Method:           it.Method,
			Total:            it.Total,
			Remaining:        it.Remaining,
			RemainingDisplay: money.Display(it.Remaining),
			LastSeq:          it.LastSeq,
		})
	}
	return out
}

type SettlementResponse struct {
	TransactionID string `json:"transaction_id"`
	PaymentID     string `json:"payment_id"`
	Paid          int64  `json:"paid"`
	Remaining     int64  `json:"remaining"`
	Status        string `json:"status"`
	Seq           int    `json:"seq"`
}

func newSettlement(s paymentsvc.Settlement) SettlementResponse {
	return SettlementResponse{
		TransactionID: s.TransactionID,
		PaymentID:     s.PaymentID,
		Paid:          s.Paid,
		Remaining:     s.Remaining,
		Status:        s.Status,
		Seq:           s.Seq,
	}
}
