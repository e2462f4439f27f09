// Package stock exposes the intake and revision endpoints the shop uses to
// keep on-hand counts honest. Every accepted movement also lands in the
// matching journal worksheet.
package stock

import (
	"net/http"

	"github.com/dmayasari/optikpos-backend/api/middleware"
	"github.com/dmayasari/optikpos-backend/api/responses"
	"github.com/dmayasari/optikpos-backend/api/validators"
	"github.com/dmayasari/optikpos-backend/internal/activitylog"
	"github.com/dmayasari/optikpos-backend/internal/inventory"
	pkgerrors "github.com/dmayasari/optikpos-backend/pkg/errors"
	"github.com/dmayasari/optikpos-backend/pkg/logger"
)

// FrameIntake adds stock to a frame row.
func FrameIntake(inv *inventory.Service, journal *activitylog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if inv == nil || journal == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "stock services unavailable"))
			return
		}

		var payload FrameIntakeRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		key := inventory.FrameKey{Brand: payload.Brand, Code: payload.Code}
		mv, err := inv.IncrementFrame(r.Context(), key, payload.Quantity)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		logErr := journal.RecordFrame(r.Context(), activitylog.FrameEntry{
			Brand:       payload.Brand,
			Code:        payload.Code,
			Status:      activitylog.StatusIntake,
			Description: activitylog.IntakeDescription(payload.Quantity, mv.Before, mv.After),
			Operator:    middleware.OperatorFrom(r.Context()),
		})
		if logErr != nil && logg != nil {
			logg.Warn(r.Context(), "frame intake saved but journal append failed")
		}

		responses.WriteSuccess(w, newMovement(mv))
	}
}

// FrameRevise sets a frame row to an absolute count.
func FrameRevise(inv *inventory.Service, journal *activitylog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if inv == nil || journal == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "stock services unavailable"))
			return
		}

		var payload FrameReviseRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		key := inventory.FrameKey{Brand: payload.Brand, Code: payload.Code}
		mv, err := inv.ReviseFrame(r.Context(), key, payload.NewCount)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		logErr := journal.RecordFrame(r.Context(), activitylog.FrameEntry{
			Brand:       payload.Brand,
			Code:        payload.Code,
			Status:      activitylog.StatusRevision,
			Description: activitylog.RevisionDescription(mv.Before, mv.After),
			Operator:    middleware.OperatorFrom(r.Context()),
		})
		if logErr != nil && logg != nil {
			logg.Warn(r.Context(), "frame revision saved but journal append failed")
		}

		responses.WriteSuccess(w, newMovement(mv))
	}
}

// LensIntake adds stock to a lens row.
func LensIntake(inv *inventory.Service, journal *activitylog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if inv == nil || journal == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "stock services unavailable"))
			return
		}

		var payload LensIntakeRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		key, err := payload.toKey()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		mv, err := inv.IncrementLens(r.Context(), key, payload.Quantity)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		logErr := journal.RecordLens(r.Context(), activitylog.LensEntry{
			Type:        payload.Type,
			Brand:       payload.Brand,
			Category:    payload.Category,
			Sphere:      key.Sphere,
			Cylinder:    key.Cylinder,
			Addition:    key.Addition,
			Status:      activitylog.StatusIntake,
			Description: activitylog.IntakeDescription(payload.Quantity, mv.Before, mv.After),
			Operator:    middleware.OperatorFrom(r.Context()),
		})
		if logErr != nil && logg != nil {
			logg.Warn(r.Context(), "lens intake saved but journal append failed")
		}

		responses.WriteSuccess(w, newMovement(mv))
	}
}

// LensRevise sets a lens row to an absolute count.
func LensRevise(inv *inventory.Service, journal *activitylog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if inv == nil || journal == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "stock services unavailable"))
			return
		}

		var payload LensReviseRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		key, err := payload.toKey()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		mv, err := inv.ReviseLens(r.Context(), key, payload.NewCount)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		logErr := journal.RecordLens(r.Context(), activitylog.LensEntry{
			Type:        payload.Type,
			Brand:       payload.Brand,
			Category:    payload.Category,
			Sphere:      key.Sphere,
			Cylinder:    key.Cylinder,
			Addition:    key.Addition,
			Status:      activitylog.StatusRevision,
			Description: activitylog.RevisionDescription(mv.Before, mv.After),
			Operator:    middleware.OperatorFrom(r.Context()),
		})
		if logErr != nil && logg != nil {
			logg.Warn(r.Context(), "lens revision saved but journal append failed")
		}

		responses.WriteSuccess(w, newMovement(mv))
	}
}
