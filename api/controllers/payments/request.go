package payments

type InstallmentRequest struct {
	TransactionID string `json:"transaction_id" validate:"required"`
	Amount        int64  `json:"amount" validate:"required,min=1"`
	Via           string `json:"via" validate:"required,oneof=Cash TF Qris"`
}
