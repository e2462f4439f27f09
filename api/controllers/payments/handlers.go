// Package payments exposes the installment desk: listing transactions that
// still owe money and taking follow-up payments against them.
package payments

import (
	"net/http"

	"github.com/dmayasari/optikpos-backend/api/middleware"
	"github.com/dmayasari/optikpos-backend/api/responses"
	"github.com/dmayasari/optikpos-backend/api/validators"
	paymentsvc "github.com/dmayasari/optikpos-backend/internal/payments"
	pkgerrors "github.com/dmayasari/optikpos-backend/pkg/errors"
	"github.com/dmayasari/optikpos-backend/pkg/logger"
)

// ListOutstanding returns every in-store transaction whose latest payment
// row is still unpaid.
func ListOutstanding(svc *paymentsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "payments service unavailable"))
			return
		}

		items, err := svc.ListOutstanding(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newOutstandingList(items))
	}
}

// RecordInstallment appends one follow-up payment to a transaction.
func RecordInstallment(svc *paymentsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "payments service unavailable"))
			return
		}

		var payload InstallmentRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		settlement, err := svc.RecordInstallment(r.Context(), payload.TransactionID, payload.Amount, payload.Via, middleware.OperatorFrom(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, newSettlement(settlement))
	}
}
