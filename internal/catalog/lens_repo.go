package catalog

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	pkgerrors "github.com/dmayasari/optikpos-backend/pkg/errors"
	"github.com/dmayasari/optikpos-backend/pkg/optics"
	"github.com/dmayasari/optikpos-backend/pkg/sheets"
)

// LensRepository reads the lens stock worksheet and writes stock cells back.
type LensRepository interface {
	List(ctx context.Context) ([]LensStockItem, error)
	UpdateStock(ctx context.Context, item LensStockItem, newCount int) error
}

type lensRepository struct {
	store     sheets.Store
	worksheet string
}

// NewLensRepository binds a lens repository to its worksheet.
func NewLensRepository(store sheets.Store, worksheet string) LensRepository {
	return &lensRepository{store: store, worksheet: worksheet}
}

func (r *lensRepository) List(ctx context.Context) ([]LensStockItem, error) {
	table, err := r.store.ReadAllRows(ctx, r.worksheet)
	if err != nil {
		return nil, err
	}
	stockCol := table.ColumnIndex("stock")
	if stockCol == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeParseFailure, fmt.Sprintf("worksheet %q has no stock column", r.worksheet))
	}

	items := make([]LensStockItem, 0, len(table.Rows))
	for i, row := range table.Rows {
		item := LensStockItem{
			Type:          row["tipe"],
			Category:      row["jenis"],
			Brand:         row["merk"],
			Stock:         parseCount(row["stock"]),
			SalePriceCell: row["harga_jual"],
			ResellerCell:  row["harga_reseller"],
			CostCell:      row["harga_modal"],
			SheetRow:      table.SheetRow(i),
			StockCol:      stockCol,
		}
		// Hand-edited rows with junk powers are kept but with the raw
		// string unparsed they can never match a lookup, matching how
		// the shop treats them: invisible until fixed.
		item.Sphere, _ = optics.Parse(row["sph"])
		item.Cylinder, _ = optics.Parse(row["cyl"])
		item.Addition, _ = optics.Parse(row["add"])
		items = append(items, item)
	}
	return items, nil
}

func (r *lensRepository) UpdateStock(ctx context.Context, item LensStockItem, newCount int) error {
	if item.SheetRow < 2 || item.StockCol < 1 {
		return pkgerrors.New(pkgerrors.CodeValidation, "lens item has no sheet position")
	}
	return r.store.UpdateCell(ctx, r.worksheet, item.SheetRow, item.StockCol, strconv.Itoa(newCount))
}

// parseCount applies the stock-count policy: malformed cells read as zero.
func parseCount(s string) int {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0
	}
	return n
}
