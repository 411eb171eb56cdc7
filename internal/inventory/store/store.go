package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/MrJamesThe3rd/shoplite/internal/apperr"
	"github.com/MrJamesThe3rd/shoplite/internal/database"
	"github.com/MrJamesThe3rd/shoplite/internal/inventory"
)

type Store struct {
	db          *sql.DB
	lockTimeout time.Duration
}

func New(db *sql.DB, lockTimeout time.Duration) *Store {
	return &Store{db: db, lockTimeout: lockTimeout}
}

// Queryer is satisfied by both *sql.DB and *sql.Tx.
type Queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// ProductColumns is the column list ScanProduct expects, for a query over
// products aliased p joined to categories c and suppliers s.
const ProductColumns = `
	p.id, p.barcode, p.name, p.description, p.quantity, p.cost_price, p.retail_price,
	p.min_stock, p.category_id, p.supplier_id, p.supplier_code, p.created_at,
	COALESCE(c.name, ''), COALESCE(s.name, '')
`

// ProductFrom joins the lookup tables ProductColumns reads from.
const ProductFrom = `
	FROM products p
	LEFT JOIN categories c ON c.id = p.category_id
	LEFT JOIN suppliers s ON s.id = p.supplier_id
`

func ScanProduct(s scanner) (*inventory.Product, error) {
	var p inventory.Product

	if err := s.Scan(
		&p.ID, &p.Barcode, &p.Name, &p.Description, &p.Quantity, &p.CostPrice, &p.RetailPrice,
		&p.MinStock, &p.CategoryID, &p.SupplierID, &p.SupplierCode, &p.CreatedAt,
		&p.CategoryName, &p.SupplierName,
	); err != nil {
		return nil, err
	}

	return &p, nil
}

// QueryProduct returns the single product matched by where, or
// apperr.ErrNotFound.
func QueryProduct(ctx context.Context, q Queryer, where string, args ...any) (*inventory.Product, error) {
	query := `SELECT ` + ProductColumns + ProductFrom + ` WHERE ` + where

	p, err := ScanProduct(q.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("product: %w", apperr.ErrNotFound)
	}

	if err != nil {
		return nil, database.Classify(fmt.Errorf("getting product: %w", err))
	}

	return p, nil
}

func (s *Store) Begin(ctx context.Context) (inventory.Tx, error) {
	tx, err := database.BeginTx(ctx, s.db, s.lockTimeout)
	if err != nil {
		return nil, err
	}

	return NewTx(tx), nil
}

func (s *Store) ProductByBarcode(ctx context.Context, barcode string) (*inventory.Product, error) {
	return QueryProduct(ctx, s.db, "p.barcode = $1", barcode)
}

func (s *Store) ListEntries(ctx context.Context, filter inventory.EntryFilter) ([]*inventory.Entry, error) {
	query := `
		SELECT t.id, t.product_id, t.barcode, t.transaction_type, t.quantity, t.price,
			t.total_value, t.timestamp, t.notes, COALESCE(p.name, '')
		FROM transactions t
		LEFT JOIN products p ON p.id = t.product_id
		WHERE 1 = 1`

	var args []any

	argIdx := 1

	if filter.Type != nil {
		query += fmt.Sprintf(" AND t.transaction_type = $%d", argIdx)

		args = append(args, *filter.Type)
		argIdx++
	}

	if filter.Barcode != "" {
		query += fmt.Sprintf(" AND t.barcode = $%d", argIdx)

		args = append(args, filter.Barcode)
		argIdx++
	}

	if filter.From != nil {
		query += fmt.Sprintf(" AND t.timestamp >= $%d", argIdx)

		args = append(args, *filter.From)
		argIdx++
	}

	if filter.To != nil {
		query += fmt.Sprintf(" AND t.timestamp <= $%d", argIdx)

		args = append(args, *filter.To)
		argIdx++
	}

	query += fmt.Sprintf(" ORDER BY t.timestamp DESC, t.id DESC LIMIT $%d", argIdx)
	args = append(args, filter.Limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, database.Classify(fmt.Errorf("listing ledger entries: %w", err))
	}
	defer rows.Close()

	var entries []*inventory.Entry

	for rows.Next() {
		var e inventory.Entry

		var typ string

		if err := rows.Scan(
			&e.ID, &e.ProductID, &e.Barcode, &typ, &e.Quantity, &e.Price,
			&e.TotalValue, &e.Timestamp, &e.Notes, &e.ProductName,
		); err != nil {
			return nil, fmt.Errorf("scanning ledger entry: %w", err)
		}

		e.Type = inventory.EventType(typ)
		entries = append(entries, &e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating ledger entries: %w", err)
	}

	return entries, nil
}

// Tx implements inventory.Tx. Stores of other packages embed it so their
// own units of work can be handed to the inventory service.
type Tx struct {
	tx *sql.Tx
}

func NewTx(tx *sql.Tx) *Tx {
	return &Tx{tx: tx}
}

// SQL exposes the underlying transaction to embedding stores.
func (t *Tx) SQL() *sql.Tx { return t.tx }

func (t *Tx) Commit() error {
	return database.Classify(t.tx.Commit())
}

func (t *Tx) Rollback() error { return t.tx.Rollback() }

func (t *Tx) ProductByID(ctx context.Context, id int64) (*inventory.Product, error) {
	return QueryProduct(ctx, t.tx, "p.id = $1", id)
}

func (t *Tx) ProductByBarcode(ctx context.Context, barcode string) (*inventory.Product, error) {
	return QueryProduct(ctx, t.tx, "p.barcode = $1", barcode)
}

func (t *Tx) LockProduct(ctx context.Context, barcode string) (*inventory.Product, error) {
	return QueryProduct(ctx, t.tx, "p.barcode = $1 FOR UPDATE OF p", barcode)
}

// AdjustQuantity checks and updates in one statement. Under READ COMMITTED
// a competing writer's change is seen once its row lock is released, so the
// predicate is evaluated against the latest committed quantity.
func (t *Tx) AdjustQuantity(ctx context.Context, id int64, delta int) (*inventory.Product, error) {
	query := `
		WITH p AS (
			UPDATE products
			SET quantity = quantity + $2
			WHERE id = $1 AND quantity + $2 >= 0
			RETURNING *
		)
		SELECT ` + ProductColumns + `
		FROM p
		LEFT JOIN categories c ON c.id = p.category_id
		LEFT JOIN suppliers s ON s.id = p.supplier_id`

	p, err := ScanProduct(t.tx.QueryRowContext(ctx, query, id, delta))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.ErrInsufficientStock
	}

	if err != nil {
		return nil, database.Classify(fmt.Errorf("updating quantity: %w", err))
	}

	return p, nil
}

func (t *Tx) CreateEntry(ctx context.Context, e *inventory.Entry) error {
	query := `
		INSERT INTO transactions (product_id, barcode, transaction_type, quantity, price, total_value, notes, timestamp)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
		RETURNING id, timestamp
	`

	err := t.tx.QueryRowContext(ctx, query,
		e.ProductID,
		e.Barcode,
		e.Type,
		e.Quantity,
		e.Price,
		e.TotalValue,
		e.Notes,
	).Scan(&e.ID, &e.Timestamp)
	if err != nil {
		return database.Classify(fmt.Errorf("creating ledger entry: %w", err))
	}

	return nil
}
