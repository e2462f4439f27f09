package inventory

import (
	"context"
	"errors"
	"testing"

	"github.com/dmayasari/optikpos-backend/internal/catalog"
	pkgerrors "github.com/dmayasari/optikpos-backend/pkg/errors"
	"github.com/dmayasari/optikpos-backend/pkg/optics"
)

type fakeLensRepo struct {
	items    []catalog.LensStockItem
	updateFn func(ctx context.Context, item catalog.LensStockItem, newCount int) error
	updated  []int
}

func (f *fakeLensRepo) List(context.Context) ([]catalog.LensStockItem, error) {
	return f.items, nil
}

func (f *fakeLensRepo) UpdateStock(ctx context.Context, item catalog.LensStockItem, newCount int) error {
	if f.updateFn != nil {
		return f.updateFn(ctx, item, newCount)
	}
	f.updated = append(f.updated, newCount)
	return nil
}

type fakeFrameRepo struct {
	frames  []catalog.Frame
	updated []int
	err     error
}

func (f *fakeFrameRepo) List(context.Context) ([]catalog.Frame, error) {
	return f.frames, nil
}

func (f *fakeFrameRepo) UpdateStock(_ context.Context, _ catalog.Frame, newCount int) error {
	if f.err != nil {
		return f.err
	}
	f.updated = append(f.updated, newCount)
	return nil
}

func testLens(t *testing.T, stock int) catalog.LensStockItem {
	t.Helper()
	return catalog.LensStockItem{
		Type:     "Single Vision",
		Category: "Clear",
		Brand:    "Domas",
		Sphere:   optics.MustParse("-2.00"),
		Stock:    stock,
		SheetRow: 2,
		StockCol: 10,
	}
}

func testKey() LensKey {
	return LensKey{
		Type:     "single vision",
		Category: "clear",
		Brand:    "DOMAS",
		Sphere:   optics.MustParse("-2.00"),
	}
}

func TestDecrementLens(t *testing.T) {
	repo := &fakeLensRepo{items: []catalog.LensStockItem{testLens(t, 4)}}
	frames := &fakeFrameRepo{}
	svc, err := NewService(repo, frames, nil, nil)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	mv, err := svc.DecrementLens(context.Background(), testKey(), 1)
	if err != nil {
		t.Fatalf("DecrementLens: %v", err)
	}
	if mv.Before != 4 || mv.After != 3 {
		t.Fatalf("movement = %+v, want 4 -> 3", mv)
	}
	if len(repo.updated) != 1 || repo.updated[0] != 3 {
		t.Fatalf("updates = %v, want [3]", repo.updated)
	}
}

func TestDecrementLensClampsAtZero(t *testing.T) {
	for _, start := range []int{0, 1} {
		repo := &fakeLensRepo{items: []catalog.LensStockItem{testLens(t, start)}}
		svc, _ := NewService(repo, &fakeFrameRepo{}, nil, nil)

		mv, err := svc.DecrementLens(context.Background(), testKey(), 3)
		if err != nil {
			t.Fatalf("start=%d: DecrementLens: %v", start, err)
		}
		if mv.After != 0 {
			t.Fatalf("start=%d: after = %d, want 0", start, mv.After)
		}
		if repo.updated[0] != 0 {
			t.Fatalf("start=%d: wrote %d, want 0", start, repo.updated[0])
		}
	}
}

func TestMoveLensKeyNotFound(t *testing.T) {
	repo := &fakeLensRepo{items: []catalog.LensStockItem{testLens(t, 4)}}
	svc, _ := NewService(repo, &fakeFrameRepo{}, nil, nil)

	key := testKey()
	key.Sphere = optics.MustParse("-3.00")
	_, err := svc.DecrementLens(context.Background(), key, 1)
	if !pkgerrors.Is(err, pkgerrors.CodeStockKeyNotFound) {
		t.Fatalf("err = %v, want STOCK_KEY_NOT_FOUND", err)
	}
	if len(repo.updated) != 0 {
		t.Fatalf("unexpected writes: %v", repo.updated)
	}
}

func TestMoveLensWriteFailureLeavesNoUpdate(t *testing.T) {
	writeErr := pkgerrors.Wrap(pkgerrors.CodeRemoteWrite, errors.New("quota"), "update stock cell")
	repo := &fakeLensRepo{
		items:    []catalog.LensStockItem{testLens(t, 4)},
		updateFn: func(context.Context, catalog.LensStockItem, int) error { return writeErr },
	}
	svc, _ := NewService(repo, &fakeFrameRepo{}, nil, nil)

	_, err := svc.DecrementLens(context.Background(), testKey(), 1)
	if !pkgerrors.Is(err, pkgerrors.CodeRemoteWrite) {
		t.Fatalf("err = %v, want REMOTE_WRITE_FAILURE", err)
	}
}

func TestIncrementLens(t *testing.T) {
	repo := &fakeLensRepo{items: []catalog.LensStockItem{testLens(t, 4)}}
	svc, _ := NewService(repo, &fakeFrameRepo{}, nil, nil)

	mv, err := svc.IncrementLens(context.Background(), testKey(), 6)
	if err != nil {
		t.Fatalf("IncrementLens: %v", err)
	}
	if mv.After != 10 {
		t.Fatalf("after = %d, want 10", mv.After)
	}
}

func TestZeroMovementRejected(t *testing.T) {
	svc, _ := NewService(&fakeLensRepo{}, &fakeFrameRepo{}, nil, nil)
	if _, err := svc.DecrementLens(context.Background(), testKey(), 0); !pkgerrors.Is(err, pkgerrors.CodeValidation) {
		t.Fatalf("err = %v, want VALIDATION", err)
	}
}

func TestReviseLens(t *testing.T) {
	repo := &fakeLensRepo{items: []catalog.LensStockItem{testLens(t, 4)}}
	svc, _ := NewService(repo, &fakeFrameRepo{}, nil, nil)

	mv, err := svc.ReviseLens(context.Background(), testKey(), 12)
	if err != nil {
		t.Fatalf("ReviseLens: %v", err)
	}
	if mv.Before != 4 || mv.After != 12 {
		t.Fatalf("movement = %+v, want 4 -> 12", mv)
	}

	if _, err := svc.ReviseLens(context.Background(), testKey(), -1); !pkgerrors.Is(err, pkgerrors.CodeValidation) {
		t.Fatalf("negative count: err = %v, want VALIDATION", err)
	}
}

func TestFrameMovements(t *testing.T) {
	frames := &fakeFrameRepo{frames: []catalog.Frame{
		{Brand: "Levis", Code: "LV-17", Stock: 2, SheetRow: 3, StockCol: 6},
	}}
	svc, _ := NewService(&fakeLensRepo{}, frames, nil, nil)

	mv, err := svc.DecrementFrame(context.Background(), FrameKey{Brand: "levis", Code: "lv-17"}, 1)
	if err != nil {
		t.Fatalf("DecrementFrame: %v", err)
	}
	if mv.Before != 2 || mv.After != 1 {
		t.Fatalf("movement = %+v, want 2 -> 1", mv)
	}

	if _, err := svc.DecrementFrame(context.Background(), FrameKey{Brand: "Oakley", Code: "OK-1"}, 1); !pkgerrors.Is(err, pkgerrors.CodeStockKeyNotFound) {
		t.Fatalf("err = %v, want STOCK_KEY_NOT_FOUND", err)
	}
}
