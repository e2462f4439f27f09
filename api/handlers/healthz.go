package handlers

import (
	"net/http"

	"github.com/dmayasari/optikpos-backend/api/responses"
	"github.com/dmayasari/optikpos-backend/pkg/config"
	pkgerrors "github.com/dmayasari/optikpos-backend/pkg/errors"
	"github.com/dmayasari/optikpos-backend/pkg/logger"
	"github.com/dmayasari/optikpos-backend/pkg/sheets"
)

// HealthLive answers as long as the process is up.
func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-OptikPos-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "ok"})
	}
}

// HealthReady additionally proves the workbook is reachable by pulling one
// worksheet. The read goes through the cache, so a healthy instance answers
// without spending Sheets quota on every probe.
func HealthReady(cfg *config.Config, logg *logger.Logger, store sheets.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := logg.WithFields(r.Context(), map[string]any{
			"env":  cfg.App.Env,
			"path": r.URL.Path,
		})

		if store == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "sheet store unavailable"))
			return
		}
		if _, err := store.ReadAllRows(ctx, cfg.Sheets.CustomersSheet); err != nil {
			logg.Warn(ctx, "health.ready workbook unreachable")
			responses.WriteError(ctx, logg, w, err)
			return
		}

		logg.Debug(ctx, "health.ready")
		w.Header().Set("X-OptikPos-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "ready"})
	}
}
