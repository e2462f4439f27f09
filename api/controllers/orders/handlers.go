// Package orders exposes the out-of-town order desk: creating partner
// orders, taking payments against them, and flipping the shipping flag.
package orders

import (
	"net/http"

	"github.com/dmayasari/optikpos-backend/api/middleware"
	"github.com/dmayasari/optikpos-backend/api/responses"
	"github.com/dmayasari/optikpos-backend/api/validators"
	ordersvc "github.com/dmayasari/optikpos-backend/internal/orders"
	pkgerrors "github.com/dmayasari/optikpos-backend/pkg/errors"
	"github.com/dmayasari/optikpos-backend/pkg/logger"
)

// Create builds and persists one out-of-town order.
func Create(svc *ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		var payload CreateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		req, err := payload.toRequest(middleware.OperatorFrom(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.CreateOrder(r.Context(), req)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, newOrder(order))
	}
}

// RecordPayment appends one installment to an order.
func RecordPayment(svc *ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		var payload PaymentRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		settlement, err := svc.RecordPayment(r.Context(), payload.OrderID, payload.Amount, payload.Via, middleware.OperatorFrom(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, newSettlement(settlement))
	}
}

// ListOutstanding returns every order whose latest payment row is unpaid.
func ListOutstanding(svc *ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
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

// MarkShipped stamps every row of an order as sent.
func MarkShipped(svc *ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		var payload ShipRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		shipped, err := payload.shippedAt()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		rows, err := svc.MarkShipped(r.Context(), payload.OrderID, shipped)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, ShipResponse{OrderID: payload.OrderID, RowsUpdated: rows})
	}
}
