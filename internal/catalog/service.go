package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/MrJamesThe3rd/shoplite/internal/apperr"
	"github.com/MrJamesThe3rd/shoplite/internal/database"
	"github.com/MrJamesThe3rd/shoplite/internal/inventory"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=catalog
type Repository interface {
	Begin(ctx context.Context) (Tx, error)

	ListCategories(ctx context.Context) ([]*Category, error)
	CreateCategory(ctx context.Context, c *Category) error
	CategoryInUse(ctx context.Context, id int64) (bool, error)
	DeleteCategory(ctx context.Context, id int64) error

	ListSuppliers(ctx context.Context) ([]*Supplier, error)
	CreateSupplier(ctx context.Context, s *Supplier) error
	SupplierInUse(ctx context.Context, id int64) (bool, error)
	DeleteSupplier(ctx context.Context, id int64) error

	ListProducts(ctx context.Context, filter ProductFilter) ([]*inventory.Product, error)
	ProductByBarcode(ctx context.Context, barcode string) (*inventory.Product, error)
	SearchProduct(ctx context.Context, fragment string) (*inventory.Product, error)
	DeleteProduct(ctx context.Context, barcode string) error
}

// Tx is a catalog unit of work. Opening stock and stock corrections made
// while editing a product go through the inventory service on the same Tx.
type Tx interface {
	inventory.Tx

	InsertProduct(ctx context.Context, p *inventory.Product) error
	UpdateProductDetails(ctx context.Context, p *inventory.Product) error
}

type Service struct {
	repo  Repository
	stock *inventory.Service
	retry database.RetryPolicy
}

func NewService(repo Repository, stock *inventory.Service, retry database.RetryPolicy) *Service {
	return &Service{repo: repo, stock: stock, retry: retry}
}

func (s *Service) ListCategories(ctx context.Context) ([]*Category, error) {
	return s.repo.ListCategories(ctx)
}

func (s *Service) CreateCategory(ctx context.Context, name string) (*Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperr.Invalid("name", "is required")
	}

	c := &Category{Name: name}
	if err := s.repo.CreateCategory(ctx, c); err != nil {
		if errors.Is(err, apperr.ErrConflict) {
			return nil, fmt.Errorf("category %q already exists: %w", name, apperr.ErrConflict)
		}

		return nil, err
	}

	return c, nil
}

func (s *Service) DeleteCategory(ctx context.Context, id int64) error {
	used, err := s.repo.CategoryInUse(ctx, id)
	if err != nil {
		return err
	}

	if used {
		return fmt.Errorf("category %d still has products: %w", id, apperr.ErrConflict)
	}

	return s.repo.DeleteCategory(ctx, id)
}

func (s *Service) ListSuppliers(ctx context.Context) ([]*Supplier, error) {
	return s.repo.ListSuppliers(ctx)
}

func (s *Service) CreateSupplier(ctx context.Context, params SupplierParams) (*Supplier, error) {
	sup := &Supplier{
		Name:  strings.TrimSpace(params.Name),
		Phone: strings.TrimSpace(params.Phone),
		Email: strings.TrimSpace(params.Email),
	}

	if sup.Name == "" {
		return nil, apperr.Invalid("name", "is required")
	}

	if err := s.repo.CreateSupplier(ctx, sup); err != nil {
		if errors.Is(err, apperr.ErrConflict) {
			return nil, fmt.Errorf("supplier %q already exists: %w", sup.Name, apperr.ErrConflict)
		}

		return nil, err
	}

	return sup, nil
}

func (s *Service) DeleteSupplier(ctx context.Context, id int64) error {
	used, err := s.repo.SupplierInUse(ctx, id)
	if err != nil {
		return err
	}

	if used {
		return fmt.Errorf("supplier %d still has products: %w", id, apperr.ErrConflict)
	}

	return s.repo.DeleteSupplier(ctx, id)
}

func (s *Service) ListProducts(ctx context.Context, filter ProductFilter) ([]*inventory.Product, error) {
	return s.repo.ListProducts(ctx, filter)
}

func (s *Service) GetProduct(ctx context.Context, barcode string) (*inventory.Product, error) {
	return s.repo.ProductByBarcode(ctx, strings.TrimSpace(barcode))
}

// SearchProduct returns the product whose barcode equals fragment or, failing
// that, the first product by name whose barcode contains it.
func (s *Service) SearchProduct(ctx context.Context, fragment string) (*inventory.Product, error) {
	fragment = strings.TrimSpace(fragment)
	if fragment == "" {
		return nil, apperr.Invalid("barcode", "is required")
	}

	return s.repo.SearchProduct(ctx, fragment)
}

// CreateProduct adds a product. A non-zero opening quantity is booked as an
// inbound adjustment so the ledger accounts for every unit on hand.
func (s *Service) CreateProduct(ctx context.Context, params ProductParams) (*inventory.Product, error) {
	params.normalize()

	if err := params.validate(true); err != nil {
		return nil, err
	}

	var created *inventory.Product

	err := s.inTx(ctx, func(ctx context.Context, tx Tx) error {
		p, err := s.create(ctx, tx, params)
		if err != nil {
			return err
		}

		created = p

		return nil
	})
	if err != nil {
		return nil, err
	}

	return created, nil
}

func (s *Service) create(ctx context.Context, tx Tx, params ProductParams) (*inventory.Product, error) {
	p := &inventory.Product{Barcode: params.Barcode}
	params.apply(p)

	if err := tx.InsertProduct(ctx, p); err != nil {
		if errors.Is(err, apperr.ErrConflict) {
			return nil, fmt.Errorf("product %s already exists: %w", params.Barcode, apperr.ErrConflict)
		}

		return nil, err
	}

	if params.Quantity == nil || *params.Quantity == 0 {
		return p, nil
	}

	return s.stock.Apply(ctx, tx, inventory.Change{
		ProductID: p.ID,
		Delta:     *params.Quantity,
		UnitPrice: p.CostPrice,
		Type:      inventory.TypeAdjustmentIn,
		Note:      fmt.Sprintf("Opening stock - %d units", *params.Quantity),
	})
}

// UpdateProduct rewrites the catalog fields of the product. A quantity that
// differs from stock on hand is recorded as a stock count.
func (s *Service) UpdateProduct(ctx context.Context, barcode string, params ProductParams) (*inventory.Product, error) {
	params.normalize()
	params.Barcode = strings.TrimSpace(barcode)

	if err := params.validate(true); err != nil {
		return nil, err
	}

	var updated *inventory.Product

	err := s.inTx(ctx, func(ctx context.Context, tx Tx) error {
		p, err := s.update(ctx, tx, params)
		if err != nil {
			return err
		}

		updated = p

		return nil
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

func (s *Service) update(ctx context.Context, tx Tx, params ProductParams) (*inventory.Product, error) {
	p, err := tx.LockProduct(ctx, params.Barcode)
	if err != nil {
		return nil, err
	}

	params.apply(p)

	if err := tx.UpdateProductDetails(ctx, p); err != nil {
		return nil, err
	}

	if params.Quantity == nil || *params.Quantity == p.Quantity {
		return tx.ProductByBarcode(ctx, params.Barcode)
	}

	return s.stock.ApplyCount(ctx, tx, params.Barcode, *params.Quantity, "Stock count - product edit")
}

func (s *Service) DeleteProduct(ctx context.Context, barcode string) error {
	return s.repo.DeleteProduct(ctx, strings.TrimSpace(barcode))
}

// ImportProducts creates or updates one product per row. Each row is its own
// unit of work; rows that fail are reported and skipped.
func (s *Service) ImportProducts(ctx context.Context, rows []ImportRow) *ImportResult {
	res := &ImportResult{Errors: []RowError{}}

	for _, row := range rows {
		params := row.Product
		params.normalize()

		created, err := s.importRow(ctx, params)
		if err != nil {
			if apperr.KindOf(err) == apperr.KindInternal {
				slog.ErrorContext(ctx, "importing product", "line", row.Line, "barcode", params.Barcode, "error", err)
			}

			res.Errors = append(res.Errors, RowError{Line: row.Line, Barcode: params.Barcode, Message: err.Error()})

			continue
		}

		if created {
			res.Created++
		} else {
			res.Updated++
		}
	}

	slog.InfoContext(ctx, "product import finished",
		"created", res.Created,
		"updated", res.Updated,
		"failed", len(res.Errors),
	)

	return res
}

func (s *Service) importRow(ctx context.Context, params ProductParams) (bool, error) {
	if err := params.validate(true); err != nil {
		return false, err
	}

	var created bool

	err := s.inTx(ctx, func(ctx context.Context, tx Tx) error {
		existing, err := tx.ProductByBarcode(ctx, params.Barcode)
		if errors.Is(err, apperr.ErrNotFound) {
			created = true
			_, err = s.create(ctx, tx, params)

			return err
		}

		if err != nil {
			return err
		}

		created = false
		_, err = s.update(ctx, tx, mergeImport(params, existing))

		return err
	})

	return created, err
}

// mergeImport keeps the stored value of every field a price list row left
// empty. Price lists carry no category, so the stored one always survives.
func mergeImport(params ProductParams, existing *inventory.Product) ProductParams {
	if params.Description == "" {
		params.Description = existing.Description
	}

	if params.CostPrice.IsZero() {
		params.CostPrice = existing.CostPrice
	}

	if params.RetailPrice.IsZero() {
		params.RetailPrice = existing.RetailPrice
	}

	if params.MinStock == nil {
		minStock := existing.MinStock
		params.MinStock = &minStock
	}

	if params.CategoryID == nil {
		params.CategoryID = existing.CategoryID
	}

	if params.SupplierID == nil {
		params.SupplierID = existing.SupplierID
	}

	if params.SupplierCode == "" {
		params.SupplierCode = existing.SupplierCode
	}

	return params
}

func (s *Service) inTx(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error {
	return database.Retry(ctx, s.retry, func(ctx context.Context) error {
		tx, err := s.repo.Begin(ctx)
		if err != nil {
			return fmt.Errorf("begin catalog update: %w", err)
		}
		defer tx.Rollback()

		if err := fn(ctx, tx); err != nil {
			return err
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit catalog update: %w", err)
		}

		return nil
	})
}
