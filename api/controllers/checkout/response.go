package checkout

import (
	checkoutsvc "github.com/dmayasari/optikpos-backend/internal/checkout"
	"github.com/dmayasari/optikpos-backend/pkg/money"
)

type QuoteResponse struct {
	Total        int64  `json:"total"`
	Final        int64  `json:"final"`
	Adjustment   int64  `json:"adjustment"`
	FinalDisplay string `json:"final_display"`
}

func newQuote(total, final, adjustment int64) QuoteResponse {
	return QuoteResponse{
		Total:        total,
		Final:        final,
		Adjustment:   adjustment,
		FinalDisplay: money.Display(final),
	}
}

type ReceiptResponse struct {
	TransactionID string `json:"transaction_id"`
	PaymentID     string `json:"payment_id"`
	CustomerID    string `json:"customer_id"`
	Total         int64  `json:"total"`
	Final         int64  `json:"final"`
	Adjustment    int64  `json:"adjustment"`
	Status        string `json:"status"`
	Remainder     int64  `json:"remainder"`
	PaymentSeq    int    `json:"payment_seq"`
}

func newReceipt(r checkoutsvc.Receipt) ReceiptResponse {
	return ReceiptResponse{
		TransactionID: r.TransactionID,
		PaymentID:     r.PaymentID,
		CustomerID:    r.CustomerID,
		Total:         r.Total,
		Final:         r.Final,
		Adjustment:    r.Adjustment,
		Status:        r.Status,
		Remainder:     r.Remainder,
		PaymentSeq:    r.PaymentSeq,
	}
}
