package catalog

import (
	"context"

	"github.com/dmayasari/optikpos-backend/pkg/optics"
	"github.com/dmayasari/optikpos-backend/pkg/sheets"
)

// RuleRepository reads the external lens price-band worksheet.
type RuleRepository interface {
	List(ctx context.Context) ([]LensPriceRule, error)
}

type ruleRepository struct {
	store     sheets.Store
	worksheet string
}

func NewRuleRepository(store sheets.Store, worksheet string) RuleRepository {
	return &ruleRepository{store: store, worksheet: worksheet}
}

func (r *ruleRepository) List(ctx context.Context) ([]LensPriceRule, error) {
	table, err := r.store.ReadAllRows(ctx, r.worksheet)
	if err != nil {
		return nil, err
	}

	rules := make([]LensPriceRule, 0, len(table.Rows))
	for i, row := range table.Rows {
		rule := LensPriceRule{
			Status:        row["status"],
			Type:          row["tipe"],
			Category:      row["jenis"],
			Brand:         row["merk"],
			LensName:      row["nama_lensa"],
			SalePriceCell: row["harga_jual"],
			ResellerCell:  row["harga_reseller"],
			SheetRow:      table.SheetRow(i),
		}
		// Unparseable bounds read as open; the resolver refuses rules
		// whose sphere bounds are open, so a junk sph_min only disables
		// that one rule.
		rule.SphereMin, _ = optics.Parse(row["sph_min"])
		rule.SphereMax, _ = optics.Parse(row["sph_max"])
		rule.CylinderMin, _ = optics.Parse(row["cyl_min"])
		rule.CylinderMax, _ = optics.Parse(row["cyl_max"])
		rule.AdditionMin, _ = optics.Parse(row["add_min"])
		rule.AdditionMax, _ = optics.Parse(row["add_max"])
		rules = append(rules, rule)
	}
	return rules, nil
}
