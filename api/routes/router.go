package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	checkoutcontrollers "github.com/dmayasari/optikpos-backend/api/controllers/checkout"
	ordercontrollers "github.com/dmayasari/optikpos-backend/api/controllers/orders"
	paymentcontrollers "github.com/dmayasari/optikpos-backend/api/controllers/payments"
	pricingcontrollers "github.com/dmayasari/optikpos-backend/api/controllers/pricing"
	stockcontrollers "github.com/dmayasari/optikpos-backend/api/controllers/stock"
	"github.com/dmayasari/optikpos-backend/api/handlers"
	"github.com/dmayasari/optikpos-backend/api/middleware"
	"github.com/dmayasari/optikpos-backend/internal/activitylog"
	checkoutsvc "github.com/dmayasari/optikpos-backend/internal/checkout"
	"github.com/dmayasari/optikpos-backend/internal/inventory"
	ordersvc "github.com/dmayasari/optikpos-backend/internal/orders"
	paymentsvc "github.com/dmayasari/optikpos-backend/internal/payments"
	pricingsvc "github.com/dmayasari/optikpos-backend/internal/pricing"
	"github.com/dmayasari/optikpos-backend/pkg/config"
	"github.com/dmayasari/optikpos-backend/pkg/logger"
	"github.com/dmayasari/optikpos-backend/pkg/sheets"
)

type Services struct {
	Pricing   *pricingsvc.Service
	Inventory *inventory.Service
	Journal   *activitylog.Service
	Checkout  *checkoutsvc.Service
	Payments  *paymentsvc.Service
	Orders    *ordersvc.Service
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	store sheets.Store,
	svcs Services,
	metricsHandler http.Handler,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
		middleware.Operator(logg),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", handlers.HealthLive(cfg))
		r.Get("/ready", handlers.HealthReady(cfg, logg, store))
	})

	if metricsHandler != nil {
		r.Handle("/metrics", metricsHandler)
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/pricing", func(r chi.Router) {
			r.Post("/stock", pricingcontrollers.StockQuote(svcs.Pricing, logg))
			r.Post("/external", pricingcontrollers.ExternalQuote(svcs.Pricing, logg))
			r.Get("/frames", pricingcontrollers.FrameQuote(svcs.Pricing, logg))
		})

		r.Route("/checkout", func(r chi.Router) {
			r.Post("/quote", checkoutcontrollers.Quote(logg))
			r.Post("/", checkoutcontrollers.Execute(svcs.Checkout, logg))
		})

		r.Route("/stock", func(r chi.Router) {
			r.Post("/frames/intake", stockcontrollers.FrameIntake(svcs.Inventory, svcs.Journal, logg))
			r.Post("/frames/revise", stockcontrollers.FrameRevise(svcs.Inventory, svcs.Journal, logg))
			r.Post("/lenses/intake", stockcontrollers.LensIntake(svcs.Inventory, svcs.Journal, logg))
			r.Post("/lenses/revise", stockcontrollers.LensRevise(svcs.Inventory, svcs.Journal, logg))
		})

		r.Route("/payments", func(r chi.Router) {
			r.Get("/outstanding", paymentcontrollers.ListOutstanding(svcs.Payments, logg))
			r.Post("/installments", paymentcontrollers.RecordInstallment(svcs.Payments, logg))
		})

		r.Route("/orders", func(r chi.Router) {
			r.Post("/", ordercontrollers.Create(svcs.Orders, logg))
			r.Get("/outstanding", ordercontrollers.ListOutstanding(svcs.Orders, logg))
			r.Post("/payments", ordercontrollers.RecordPayment(svcs.Orders, logg))
			r.Post("/ship", ordercontrollers.MarkShipped(svcs.Orders, logg))
		})
	})

	return r
}
