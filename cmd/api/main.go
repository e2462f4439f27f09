package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dmayasari/optikpos-backend/api/routes"
	"github.com/dmayasari/optikpos-backend/internal/activitylog"
	"github.com/dmayasari/optikpos-backend/internal/catalog"
	checkoutsvc "github.com/dmayasari/optikpos-backend/internal/checkout"
	"github.com/dmayasari/optikpos-backend/internal/customers"
	"github.com/dmayasari/optikpos-backend/internal/inventory"
	ordersvc "github.com/dmayasari/optikpos-backend/internal/orders"
	paymentsvc "github.com/dmayasari/optikpos-backend/internal/payments"
	pricingsvc "github.com/dmayasari/optikpos-backend/internal/pricing"
	"github.com/dmayasari/optikpos-backend/internal/sequence"
	"github.com/dmayasari/optikpos-backend/pkg/config"
	"github.com/dmayasari/optikpos-backend/pkg/logger"
	"github.com/dmayasari/optikpos-backend/pkg/metrics"
	"github.com/dmayasari/optikpos-backend/pkg/sheets"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	loc, err := time.LoadLocation(cfg.Shop.Timezone)
	if err != nil {
		logg.Error(context.Background(), "invalid shop timezone", err)
		os.Exit(1)
	}

	sheetsClient, err := sheets.NewClient(context.Background(), cfg.Sheets.SpreadsheetID, cfg.Sheets.CredentialsFile)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap sheets client", err)
		os.Exit(1)
	}
	store := sheets.NewCache(sheetsClient, cfg.Sheets.CacheTTL)

	registry := prometheus.NewRegistry()
	posMetrics := metrics.NewPOSMetrics(registry)

	lensRepo := catalog.NewLensRepository(store, cfg.Sheets.LensStockSheet)
	frameRepo := catalog.NewFrameRepository(store, cfg.Sheets.FramesSheet)
	ruleRepo := catalog.NewRuleRepository(store, cfg.Sheets.LensPriceRulesSheet)

	pricing, err := pricingsvc.NewService(lensRepo, ruleRepo, frameRepo, logg, posMetrics)
	if err != nil {
		logg.Error(context.Background(), "failed to create pricing service", err)
		os.Exit(1)
	}

	inv, err := inventory.NewService(lensRepo, frameRepo, logg, posMetrics)
	if err != nil {
		logg.Error(context.Background(), "failed to create inventory service", err)
		os.Exit(1)
	}

	journal, err := activitylog.NewService(store, cfg.Sheets.FrameLogSheet, cfg.Sheets.LensLogSheet, loc, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create activity log service", err)
		os.Exit(1)
	}

	ids, err := sequence.NewGenerator(store, sequence.Worksheets{
		Transactions:  cfg.Sheets.TransactionsSheet,
		Payments:      cfg.Sheets.PaymentsSheet,
		Orders:        cfg.Sheets.OutOfTownOrdersSheet,
		OrderPayments: cfg.Sheets.OutOfTownPaymentsSheet,
	}, cfg.Shop.Prefix, cfg.Shop.OutOfTownPrefix, loc)
	if err != nil {
		logg.Error(context.Background(), "failed to create id generator", err)
		os.Exit(1)
	}

	directory, err := customers.NewService(store, cfg.Sheets.CustomersSheet, ids)
	if err != nil {
		logg.Error(context.Background(), "failed to create customers service", err)
		os.Exit(1)
	}

	checkout, err := checkoutsvc.NewService(checkoutsvc.Config{
		Store:                store,
		TransactionWorksheet: cfg.Sheets.TransactionsSheet,
		PaymentWorksheet:     cfg.Sheets.PaymentsSheet,
		Customers:            directory,
		IDs:                  ids,
		Ledger:               inv,
		Journal:              journal,
		Location:             loc,
		Logger:               logg,
		Metrics:              posMetrics,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create checkout service", err)
		os.Exit(1)
	}

	payments, err := paymentsvc.NewService(store, cfg.Sheets.PaymentsSheet, ids, loc, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create payments service", err)
		os.Exit(1)
	}

	orders, err := ordersvc.NewService(ordersvc.Config{
		Store:            store,
		OrderWorksheet:   cfg.Sheets.OutOfTownOrdersSheet,
		PaymentWorksheet: cfg.Sheets.OutOfTownPaymentsSheet,
		IDs:              ids,
		Prices:           pricing,
		Destinations:     cfg.Shop.DestinationCodes(),
		Location:         loc,
		Logger:           logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create orders service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	router := routes.NewRouter(cfg, logg, store, routes.Services{
		Pricing:   pricing,
		Inventory: inv,
		Journal:   journal,
		Checkout:  checkout,
		Payments:  payments,
		Orders:    orders,
	}, promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	server := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
