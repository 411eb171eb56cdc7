package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/MrJamesThe3rd/shoplite/internal/apperr"
	"github.com/MrJamesThe3rd/shoplite/internal/catalog"
	"github.com/MrJamesThe3rd/shoplite/internal/database"
	"github.com/MrJamesThe3rd/shoplite/internal/inventory"
	invStore "github.com/MrJamesThe3rd/shoplite/internal/inventory/store"
)

type Store struct {
	db          *sql.DB
	lockTimeout time.Duration
}

func New(db *sql.DB, lockTimeout time.Duration) *Store {
	return &Store{db: db, lockTimeout: lockTimeout}
}

func (s *Store) Begin(ctx context.Context) (catalog.Tx, error) {
	tx, err := database.BeginTx(ctx, s.db, s.lockTimeout)
	if err != nil {
		return nil, err
	}

	return &Tx{Tx: invStore.NewTx(tx)}, nil
}

func (s *Store) ListCategories(ctx context.Context) ([]*catalog.Category, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT id, name, created_at FROM categories ORDER BY name")
	if err != nil {
		return nil, database.Classify(fmt.Errorf("listing categories: %w", err))
	}
	defer rows.Close()

	var categories []*catalog.Category

	for rows.Next() {
		var c catalog.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning category: %w", err)
		}

		categories = append(categories, &c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating categories: %w", err)
	}

	return categories, nil
}

func (s *Store) CreateCategory(ctx context.Context, c *catalog.Category) error {
	err := s.db.QueryRowContext(ctx,
		"INSERT INTO categories (name) VALUES ($1) RETURNING id, created_at",
		c.Name,
	).Scan(&c.ID, &c.CreatedAt)
	if err != nil {
		return database.Classify(fmt.Errorf("creating category: %w", err))
	}

	return nil
}

func (s *Store) CategoryInUse(ctx context.Context, id int64) (bool, error) {
	return s.exists(ctx, "SELECT EXISTS(SELECT 1 FROM products WHERE category_id = $1)", id)
}

func (s *Store) DeleteCategory(ctx context.Context, id int64) error {
	return s.deleteOne(ctx, "category", "DELETE FROM categories WHERE id = $1", id)
}

func (s *Store) ListSuppliers(ctx context.Context) ([]*catalog.Supplier, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, COALESCE(phone, ''), COALESCE(email, ''), created_at
		FROM suppliers
		ORDER BY name
	`)
	if err != nil {
		return nil, database.Classify(fmt.Errorf("listing suppliers: %w", err))
	}
	defer rows.Close()

	var suppliers []*catalog.Supplier

	for rows.Next() {
		var sup catalog.Supplier
		if err := rows.Scan(&sup.ID, &sup.Name, &sup.Phone, &sup.Email, &sup.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning supplier: %w", err)
		}

		suppliers = append(suppliers, &sup)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating suppliers: %w", err)
	}

	return suppliers, nil
}

func (s *Store) CreateSupplier(ctx context.Context, sup *catalog.Supplier) error {
	err := s.db.QueryRowContext(ctx,
		"INSERT INTO suppliers (name, phone, email) VALUES ($1, NULLIF($2, ''), NULLIF($3, '')) RETURNING id, created_at",
		sup.Name, sup.Phone, sup.Email,
	).Scan(&sup.ID, &sup.CreatedAt)
	if err != nil {
		return database.Classify(fmt.Errorf("creating supplier: %w", err))
	}

	return nil
}

func (s *Store) SupplierInUse(ctx context.Context, id int64) (bool, error) {
	return s.exists(ctx, "SELECT EXISTS(SELECT 1 FROM products WHERE supplier_id = $1)", id)
}

func (s *Store) DeleteSupplier(ctx context.Context, id int64) error {
	return s.deleteOne(ctx, "supplier", "DELETE FROM suppliers WHERE id = $1", id)
}

func (s *Store) ListProducts(ctx context.Context, filter catalog.ProductFilter) ([]*inventory.Product, error) {
	query := `SELECT ` + invStore.ProductColumns + invStore.ProductFrom + ` WHERE 1 = 1`

	var args []any

	if filter.SupplierID != nil {
		query += " AND p.supplier_id = $1"

		args = append(args, *filter.SupplierID)
	}

	query += " ORDER BY p.name"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, database.Classify(fmt.Errorf("listing products: %w", err))
	}
	defer rows.Close()

	var products []*inventory.Product

	for rows.Next() {
		p, err := invStore.ScanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning product: %w", err)
		}

		products = append(products, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating products: %w", err)
	}

	return products, nil
}

func (s *Store) ProductByBarcode(ctx context.Context, barcode string) (*inventory.Product, error) {
	return invStore.QueryProduct(ctx, s.db, "p.barcode = $1", barcode)
}

// SearchProduct prefers an exact barcode match over a partial one.
func (s *Store) SearchProduct(ctx context.Context, fragment string) (*inventory.Product, error) {
	return invStore.QueryProduct(ctx, s.db,
		`p.barcode = $1 OR p.barcode LIKE '%' || $1 || '%'
		ORDER BY (p.barcode = $1) DESC, p.name
		LIMIT 1`,
		fragment,
	)
}

func (s *Store) DeleteProduct(ctx context.Context, barcode string) error {
	return s.deleteOne(ctx, "product", "DELETE FROM products WHERE barcode = $1", barcode)
}

func (s *Store) exists(ctx context.Context, query string, args ...any) (bool, error) {
	var ok bool
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&ok); err != nil {
		return false, database.Classify(fmt.Errorf("checking references: %w", err))
	}

	return ok, nil
}

func (s *Store) deleteOne(ctx context.Context, what, query string, arg any) error {
	res, err := s.db.ExecContext(ctx, query, arg)
	if err != nil {
		return database.Classify(fmt.Errorf("deleting %s: %w", what, err))
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking deleted rows: %w", err)
	}

	if n == 0 {
		return fmt.Errorf("%s %v: %w", what, arg, apperr.ErrNotFound)
	}

	return nil
}

// Tx implements catalog.Tx on top of the inventory unit of work.
type Tx struct {
	*invStore.Tx
}

// InsertProduct stores p with zero stock; opening stock is booked separately.
func (t *Tx) InsertProduct(ctx context.Context, p *inventory.Product) error {
	query := `
		INSERT INTO products (
			barcode, name, description, quantity, cost_price, retail_price,
			min_stock, category_id, supplier_id, supplier_code
		)
		VALUES ($1, $2, $3, 0, $4, $5, $6, $7, $8, $9)
		RETURNING id, quantity, created_at
	`

	err := t.SQL().QueryRowContext(ctx, query,
		p.Barcode,
		p.Name,
		p.Description,
		p.CostPrice,
		p.RetailPrice,
		p.MinStock,
		p.CategoryID,
		p.SupplierID,
		p.SupplierCode,
	).Scan(&p.ID, &p.Quantity, &p.CreatedAt)
	if err != nil {
		return database.Classify(fmt.Errorf("creating product: %w", err))
	}

	return nil
}

// UpdateProductDetails never writes quantity.
func (t *Tx) UpdateProductDetails(ctx context.Context, p *inventory.Product) error {
	query := `
		UPDATE products
		SET name = $2,
			description = $3,
			cost_price = $4,
			retail_price = $5,
			min_stock = $6,
			category_id = $7,
			supplier_id = $8,
			supplier_code = $9
		WHERE id = $1
	`

	res, err := t.SQL().ExecContext(ctx, query,
		p.ID,
		p.Name,
		p.Description,
		p.CostPrice,
		p.RetailPrice,
		p.MinStock,
		p.CategoryID,
		p.SupplierID,
		p.SupplierCode,
	)
	if err != nil {
		return database.Classify(fmt.Errorf("updating product: %w", err))
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking updated rows: %w", err)
	}

	if n == 0 {
		return fmt.Errorf("product %s: %w", p.Barcode, apperr.ErrNotFound)
	}

	return nil
}
