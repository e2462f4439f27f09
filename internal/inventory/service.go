// Package inventory moves stock counts. Every movement is a read-modify-write
// against one stock cell; decrements clamp at zero so a double sale never
// drives a count negative.
package inventory

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmayasari/optikpos-backend/internal/catalog"
	pkgerrors "github.com/dmayasari/optikpos-backend/pkg/errors"
	"github.com/dmayasari/optikpos-backend/pkg/logger"
	"github.com/dmayasari/optikpos-backend/pkg/metrics"
	"github.com/dmayasari/optikpos-backend/pkg/optics"
)

// LensKey identifies one lens stock row.
type LensKey struct {
	Type     string
	Category string
	Brand    string
	Sphere   optics.Power
	Cylinder optics.Power
	Addition optics.Power
}

// FrameKey identifies one frame stock row.
type FrameKey struct {
	Brand string
	Code  string
}

// Movement reports the outcome of a stock change.
type Movement struct {
	Before int
	After  int
}

type lensStockRepo interface {
	List(ctx context.Context) ([]catalog.LensStockItem, error)
	UpdateStock(ctx context.Context, item catalog.LensStockItem, newCount int) error
}

type frameStockRepo interface {
	List(ctx context.Context) ([]catalog.Frame, error)
	UpdateStock(ctx context.Context, frame catalog.Frame, newCount int) error
}

type Service struct {
	lenses  lensStockRepo
	frames  frameStockRepo
	logg    *logger.Logger
	metrics *metrics.POSMetrics
}

func NewService(lenses lensStockRepo, frames frameStockRepo, logg *logger.Logger, m *metrics.POSMetrics) (*Service, error) {
	if lenses == nil || frames == nil {
		return nil, fmt.Errorf("lens and frame repositories required")
	}
	return &Service{lenses: lenses, frames: frames, logg: logg, metrics: m}, nil
}

// DecrementLens subtracts by from the matched lens row, clamped at zero.
func (s *Service) DecrementLens(ctx context.Context, key LensKey, by int) (Movement, error) {
	return s.moveLens(ctx, key, -by)
}

// IncrementLens adds by to the matched lens row.
func (s *Service) IncrementLens(ctx context.Context, key LensKey, by int) (Movement, error) {
	return s.moveLens(ctx, key, by)
}

func (s *Service) moveLens(ctx context.Context, key LensKey, delta int) (Movement, error) {
	if delta == 0 {
		return Movement{}, pkgerrors.New(pkgerrors.CodeValidation, "stock movement of zero")
	}

	items, err := s.lenses.List(ctx)
	if err != nil {
		return Movement{}, err
	}

	for _, item := range items {
		if !lensMatches(item, key) {
			continue
		}
		after := clamp(item.Stock + delta)
		if err := s.lenses.UpdateStock(ctx, item, after); err != nil {
			s.metrics.IncWriteFailure()
			return Movement{}, err
		}
		s.metrics.IncStockMove("lens", direction(delta))
		if s.logg != nil {
			s.logg.Info(s.logg.WithFields(ctx, map[string]any{
				"brand": item.Brand,
				"from":  item.Stock,
				"to":    after,
			}), "lens stock updated")
		}
		return Movement{Before: item.Stock, After: after}, nil
	}

	return Movement{}, pkgerrors.New(pkgerrors.CodeStockKeyNotFound, "no lens stock row matches the key")
}

// ReviseLens sets the matched lens row to an absolute count.
func (s *Service) ReviseLens(ctx context.Context, key LensKey, newCount int) (Movement, error) {
	if newCount < 0 {
		return Movement{}, pkgerrors.New(pkgerrors.CodeValidation, "stock count cannot be negative")
	}

	items, err := s.lenses.List(ctx)
	if err != nil {
		return Movement{}, err
	}
	for _, item := range items {
		if !lensMatches(item, key) {
			continue
		}
		if err := s.lenses.UpdateStock(ctx, item, newCount); err != nil {
			s.metrics.IncWriteFailure()
			return Movement{}, err
		}
		s.metrics.IncStockMove("lens", "revise")
		return Movement{Before: item.Stock, After: newCount}, nil
	}
	return Movement{}, pkgerrors.New(pkgerrors.CodeStockKeyNotFound, "no lens stock row matches the key")
}

// LensCount reports the on-hand count for the matched lens row.
func (s *Service) LensCount(ctx context.Context, key LensKey) (int, error) {
	items, err := s.lenses.List(ctx)
	if err != nil {
		return 0, err
	}
	for _, item := range items {
		if lensMatches(item, key) {
			return item.Stock, nil
		}
	}
	return 0, pkgerrors.New(pkgerrors.CodeStockKeyNotFound, "no lens stock row matches the key")
}

// FrameCount reports the on-hand count for the matched frame row.
func (s *Service) FrameCount(ctx context.Context, key FrameKey) (int, error) {
	frames, err := s.frames.List(ctx)
	if err != nil {
		return 0, err
	}
	for _, frame := range frames {
		if strings.EqualFold(frame.Brand, key.Brand) && strings.EqualFold(frame.Code, key.Code) {
			return frame.Stock, nil
		}
	}
	return 0, pkgerrors.New(pkgerrors.CodeStockKeyNotFound, "no frame stock row matches the key")
}

// DecrementFrame subtracts by from the matched frame row, clamped at zero.
func (s *Service) DecrementFrame(ctx context.Context, key FrameKey, by int) (Movement, error) {
	return s.moveFrame(ctx, key, -by)
}

// IncrementFrame adds by to the matched frame row.
func (s *Service) IncrementFrame(ctx context.Context, key FrameKey, by int) (Movement, error) {
	return s.moveFrame(ctx, key, by)
}

func (s *Service) moveFrame(ctx context.Context, key FrameKey, delta int) (Movement, error) {
	if delta == 0 {
		return Movement{}, pkgerrors.New(pkgerrors.CodeValidation, "stock movement of zero")
	}

	frames, err := s.frames.List(ctx)
	if err != nil {
		return Movement{}, err
	}

	for _, frame := range frames {
		if !strings.EqualFold(frame.Brand, key.Brand) || !strings.EqualFold(frame.Code, key.Code) {
			continue
		}
		after := clamp(frame.Stock + delta)
		if err := s.frames.UpdateStock(ctx, frame, after); err != nil {
			s.metrics.IncWriteFailure()
			return Movement{}, err
		}
		s.metrics.IncStockMove("frame", direction(delta))
		if s.logg != nil {
			s.logg.Info(s.logg.WithFields(ctx, map[string]any{
				"brand": frame.Brand,
				"code":  frame.Code,
				"from":  frame.Stock,
				"to":    after,
			}), "frame stock updated")
		}
		return Movement{Before: frame.Stock, After: after}, nil
	}

	return Movement{}, pkgerrors.New(pkgerrors.CodeStockKeyNotFound, "no frame stock row matches the key")
}

// ReviseFrame sets the matched frame row to an absolute count.
func (s *Service) ReviseFrame(ctx context.Context, key FrameKey, newCount int) (Movement, error) {
	if newCount < 0 {
		return Movement{}, pkgerrors.New(pkgerrors.CodeValidation, "stock count cannot be negative")
	}

	frames, err := s.frames.List(ctx)
	if err != nil {
		return Movement{}, err
	}
	for _, frame := range frames {
		if !strings.EqualFold(frame.Brand, key.Brand) || !strings.EqualFold(frame.Code, key.Code) {
			continue
		}
		if err := s.frames.UpdateStock(ctx, frame, newCount); err != nil {
			s.metrics.IncWriteFailure()
			return Movement{}, err
		}
		s.metrics.IncStockMove("frame", "revise")
		return Movement{Before: frame.Stock, After: newCount}, nil
	}
	return Movement{}, pkgerrors.New(pkgerrors.CodeStockKeyNotFound, "no frame stock row matches the key")
}

func lensMatches(item catalog.LensStockItem, key LensKey) bool {
	return strings.EqualFold(item.Type, key.Type) &&
		strings.EqualFold(item.Category, key.Category) &&
		strings.EqualFold(item.Brand, key.Brand) &&
		item.Sphere.String() == key.Sphere.String() &&
		item.Cylinder.String() == key.Cylinder.String() &&
		item.Addition.String() == key.Addition.String()
}

func clamp(n int) int {
	if n < 0 {
		return 0
	}
	return n
}

func direction(delta int) string {
	if delta < 0 {
		return "out"
	}
	return "in"
}
