// Package customers keeps the pelanggan worksheet. Customers are identified
// by the (name, phone) pair so a returning buyer keeps their id across
// visits.
package customers

import (
	"context"
	"fmt"
	"strings"

	pkgerrors "github.com/dmayasari/optikpos-backend/pkg/errors"
	"github.com/dmayasari/optikpos-backend/pkg/sheets"
)

// Customer is one pelanggan row.
type Customer struct {
	ID    string
	Name  string
	Phone string
}

type idAllocator interface {
	NextCustomerID(ctx context.Context, worksheet string) (string, error)
}

type Service struct {
	store     sheets.Store
	worksheet string
	ids       idAllocator
}

func NewService(store sheets.Store, worksheet string, ids idAllocator) (*Service, error) {
	if store == nil || ids == nil {
		return nil, fmt.Errorf("store and id allocator required")
	}
	return &Service{store: store, worksheet: worksheet, ids: ids}, nil
}

// GetOrCreate returns the customer matching (name, phone), creating the row
// when no match exists. Names compare case-insensitively after trimming.
func (s *Service) GetOrCreate(ctx context.Context, name, phone string) (Customer, error) {
	name = strings.TrimSpace(name)
	phone = strings.TrimSpace(phone)
	if name == "" {
		return Customer{}, pkgerrors.New(pkgerrors.CodeValidation, "customer name required")
	}

	table, err := s.store.ReadAllRows(ctx, s.worksheet)
	if err != nil {
		return Customer{}, err
	}
	for _, r := range table.Rows {
		if strings.EqualFold(strings.TrimSpace(r["nama"]), name) && strings.TrimSpace(r["no_hp"]) == phone {
			return Customer{ID: r["id_pelanggan"], Name: r["nama"], Phone: r["no_hp"]}, nil
		}
	}

	id, err := s.ids.NextCustomerID(ctx, s.worksheet)
	if err != nil {
		return Customer{}, err
	}
	if err := s.store.AppendRow(ctx, s.worksheet, []string{id, name, phone}); err != nil {
		return Customer{}, err
	}
	return Customer{ID: id, Name: name, Phone: phone}, nil
}

// Lookup returns the customer with the given id.
func (s *Service) Lookup(ctx context.Context, id string) (Customer, error) {
	table, err := s.store.ReadAllRows(ctx, s.worksheet)
	if err != nil {
		return Customer{}, err
	}
	for _, r := range table.Rows {
		if strings.EqualFold(strings.TrimSpace(r["id_pelanggan"]), id) {
			return Customer{ID: r["id_pelanggan"], Name: r["nama"], Phone: r["no_hp"]}, nil
		}
	}
	return Customer{}, pkgerrors.New(pkgerrors.CodeNotFound, "no customer with that id")
}
