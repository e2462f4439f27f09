package catalog

import (
	"context"
	"fmt"
	"strconv"

	pkgerrors "github.com/dmayasari/optikpos-backend/pkg/errors"
	"github.com/dmayasari/optikpos-backend/pkg/sheets"
)

// FrameRepository reads the frame worksheet and writes stock cells back.
type FrameRepository interface {
	List(ctx context.Context) ([]Frame, error)
	UpdateStock(ctx context.Context, frame Frame, newCount int) error
}

type frameRepository struct {
	store     sheets.Store
	worksheet string
}

func NewFrameRepository(store sheets.Store, worksheet string) FrameRepository {
	return &frameRepository{store: store, worksheet: worksheet}
}

func (r *frameRepository) List(ctx context.Context) ([]Frame, error) {
	table, err := r.store.ReadAllRows(ctx, r.worksheet)
	if err != nil {
		return nil, err
	}
	stockCol := table.ColumnIndex("stock")
	if stockCol == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeParseFailure, fmt.Sprintf("worksheet %q has no stock column", r.worksheet))
	}

	frames := make([]Frame, 0, len(table.Rows))
	for i, row := range table.Rows {
		frames = append(frames, Frame{
			Brand:         row["merk"],
			Code:          row["kode"],
			Distributor:   row["distributor"],
			Stock:         parseCount(row["stock"]),
			SalePriceCell: row["harga_jual"],
			CostCell:      row["harga_modal"],
			SheetRow:      table.SheetRow(i),
			StockCol:      stockCol,
		})
	}
	return frames, nil
}

func (r *frameRepository) UpdateStock(ctx context.Context, frame Frame, newCount int) error {
	if frame.SheetRow < 2 || frame.StockCol < 1 {
		return pkgerrors.New(pkgerrors.CodeValidation, "frame has no sheet position")
	}
	return r.store.UpdateCell(ctx, r.worksheet, frame.SheetRow, frame.StockCol, strconv.Itoa(newCount))
}
