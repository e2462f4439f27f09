// Package activitylog appends the shop's movement journals (log_frame,
// log_lensa). Retried writes are the common failure mode with a spreadsheet
// backend, so Record dedupes against recent rows before appending: a sale is
// identified by its transaction id, a stock intake or revision by an
// identical row inside a short window. Anything else always appends.
package activitylog

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dmayasari/optikpos-backend/pkg/logger"
	"github.com/dmayasari/optikpos-backend/pkg/optics"
	"github.com/dmayasari/optikpos-backend/pkg/sheets"
)

// Statuses used in the journals. The sheet is the source of truth for these
// literals; they appear verbatim in the status column.
const (
	StatusSold     = "terjual"
	StatusIntake   = "masuk"
	StatusRevision = "revisi"
)

// TimestampLayout is the journal timestamp format, local shop time.
const TimestampLayout = "02-01-2006 15:04:05"

// dedupWindow bounds how far back an intake or revision row still counts as
// a duplicate.
const dedupWindow = 5 * time.Minute

// FrameEntry is one log_frame row. TransactionID is set for sale rows and
// drives their dedup.
type FrameEntry struct {
	Brand         string
	Code          string
	Status        string
	Description   string
	TransactionID string
	Operator      string
}

// LensEntry is one log_lensa row.
type LensEntry struct {
	Type          string
	Brand         string
	Category      string
	Sphere        optics.Power
	Cylinder      optics.Power
	Addition      optics.Power
	Status        string
	Description   string
	TransactionID string
	Operator      string
}

// Service appends journal rows idempotently.
type Service struct {
	store          sheets.Store
	frameWorksheet string
	lensWorksheet  string
	loc            *time.Location
	logg           *logger.Logger
	now            func() time.Time
}

func NewService(store sheets.Store, frameWorksheet, lensWorksheet string, loc *time.Location, logg *logger.Logger) (*Service, error) {
	if store == nil {
		return nil, fmt.Errorf("store required")
	}
	if loc == nil {
		loc = time.Local
	}
	return &Service{
		store:          store,
		frameWorksheet: frameWorksheet,
		lensWorksheet:  lensWorksheet,
		loc:            loc,
		logg:           logg,
		now:            time.Now,
	}, nil
}

// WithClock overrides the time source. Test hook.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// RecordFrame appends one frame journal row unless an equivalent row is
// already present.
func (s *Service) RecordFrame(ctx context.Context, e FrameEntry) error {
	subject := func(r sheets.Row) bool {
		return strings.EqualFold(r["merk"], e.Brand) && strings.EqualFold(r["kode"], e.Code)
	}
	dup, err := s.isDuplicate(ctx, s.frameWorksheet, subject, e.Status, e.Description, e.TransactionID)
	if err == nil && dup {
		if s.logg != nil {
			s.logg.Debug(s.logg.WithWorksheet(ctx, s.frameWorksheet), "duplicate frame journal row skipped")
		}
		return nil
	}

	row := []string{
		s.timestamp(),
		e.Brand,
		e.Code,
		e.Status,
		e.Description,
		e.Operator,
	}
	return s.store.AppendRow(ctx, s.frameWorksheet, row)
}

// RecordLens appends one lens journal row unless an equivalent row is
// already present.
func (s *Service) RecordLens(ctx context.Context, e LensEntry) error {
	subject := func(r sheets.Row) bool {
		return strings.EqualFold(r["tipe"], e.Type) &&
			strings.EqualFold(r["merk"], e.Brand) &&
			strings.EqualFold(r["jenis"], e.Category) &&
			r["sph"] == e.Sphere.String() &&
			r["cyl"] == e.Cylinder.String() &&
			r["add"] == e.Addition.String()
	}
	dup, err := s.isDuplicate(ctx, s.lensWorksheet, subject, e.Status, e.Description, e.TransactionID)
	if err == nil && dup {
		if s.logg != nil {
			s.logg.Debug(s.logg.WithWorksheet(ctx, s.lensWorksheet), "duplicate lens journal row skipped")
		}
		return nil
	}

	row := []string{
		s.timestamp(),
		e.Type,
		e.Brand,
		e.Category,
		e.Sphere.String(),
		e.Cylinder.String(),
		e.Addition.String(),
		e.Status,
		e.Description,
		e.Operator,
	}
	return s.store.AppendRow(ctx, s.lensWorksheet, row)
}

// isDuplicate applies the per-status policy. The pre-read is best effort: if
// the journal cannot be read the append proceeds, since losing a sale row is
// worse than a rare double entry.
func (s *Service) isDuplicate(ctx context.Context, worksheet string, subject func(sheets.Row) bool, status, description, txnID string) (bool, error) {
	table, err := s.store.ReadAllRows(ctx, worksheet)
	if err != nil {
		return false, err
	}

	switch strings.ToLower(status) {
	case StatusSold:
		if txnID == "" {
			return false, nil
		}
		for _, r := range table.Rows {
			if subject(r) && strings.Contains(r["keterangan"], txnID) {
				return true, nil
			}
		}
	case StatusIntake, StatusRevision:
		cutoff := s.now().In(s.loc).Add(-dedupWindow)
		for _, r := range table.Rows {
			if !subject(r) {
				continue
			}
			if !strings.EqualFold(r["status"], status) || r["keterangan"] != description {
				continue
			}
			ts, err := time.ParseInLocation(TimestampLayout, r["timestamp"], s.loc)
			if err != nil {
				continue
			}
			if !ts.Before(cutoff) {
				return true, nil
			}
		}
	}
	return false, nil
}

func (s *Service) timestamp() string {
	return s.now().In(s.loc).Format(TimestampLayout)
}

// SoldDescription renders a sale row's keterangan. The transaction id inside
// it is what sale dedup matches on, so the format must stay stable against
// rows already in the journal.
func SoldDescription(txnID, customerName string) string {
	return fmt.Sprintf("terjual dalam transaksi: %s, Nama: %s", txnID, customerName)
}

// IntakeDescription renders a stock intake keterangan.
func IntakeDescription(qty, oldCount, newCount int) string {
	return fmt.Sprintf("Tambah stock sebanyak %d, stock lama: %d, stock baru: %d", qty, oldCount, newCount)
}

// RevisionDescription renders a stock revision keterangan.
func RevisionDescription(oldCount, newCount int) string {
	return fmt.Sprintf("ubah dari %d jadi %d", oldCount, newCount)
}
