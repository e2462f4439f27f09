package checkout

import (
	"net/http"

	"github.com/dmayasari/optikpos-backend/api/middleware"
	"github.com/dmayasari/optikpos-backend/api/responses"
	"github.com/dmayasari/optikpos-backend/api/validators"
	checkoutsvc "github.com/dmayasari/optikpos-backend/internal/checkout"
	pkgerrors "github.com/dmayasari/optikpos-backend/pkg/errors"
	"github.com/dmayasari/optikpos-backend/pkg/logger"
)

// Quote totals a cart without persisting anything, so the cashier can show
// the rounded amount before taking money.
func Quote(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload QuoteRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		session := checkoutsvc.NewSession()
		items, err := toLineItems(payload.Items)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		for _, it := range items {
			if err := session.AddItem(it); err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
		}

		total, final, adjustment := session.Totals()
		responses.WriteSuccess(w, newQuote(total, final, adjustment))
	}
}

// Execute persists a sale and returns the receipt.
func Execute(svc *checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		var payload ExecuteRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		req, err := payload.toRequest()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		req.Operator = middleware.OperatorFrom(r.Context())

		receipt, err := svc.Execute(r.Context(), req)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, newReceipt(receipt))
	}
}
