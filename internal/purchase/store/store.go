package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/shoplite/internal/apperr"
	"github.com/MrJamesThe3rd/shoplite/internal/database"
	invStore "github.com/MrJamesThe3rd/shoplite/internal/inventory/store"
	"github.com/MrJamesThe3rd/shoplite/internal/purchase"
)

type Store struct {
	db          *sql.DB
	lockTimeout time.Duration
}

func New(db *sql.DB, lockTimeout time.Duration) *Store {
	return &Store{db: db, lockTimeout: lockTimeout}
}

const orderColumns = `
	po.id, po.supplier_id, po.order_number, po.order_date, po.expected_date, po.status,
	po.total_amount, po.invoice_number, po.invoice_date, po.date_received, po.notes,
	COALESCE(s.name, ''), COALESCE(s.phone, ''), COALESCE(s.email, '')
`

type scanner interface {
	Scan(dest ...any) error
}

func scanOrder(s scanner) (*purchase.Order, error) {
	var (
		o      purchase.Order
		status string
	)

	if err := s.Scan(
		&o.ID, &o.SupplierID, &o.OrderNumber, &o.OrderDate, &o.ExpectedDate, &status,
		&o.TotalAmount, &o.InvoiceNumber, &o.InvoiceDate, &o.DateReceived, &o.Notes,
		&o.SupplierName, &o.SupplierPhone, &o.SupplierEmail,
	); err != nil {
		return nil, err
	}

	o.Status = purchase.Status(status)

	return &o, nil
}

func queryOrder(ctx context.Context, q invStore.Queryer, suffix string, id int64) (*purchase.Order, error) {
	query := `
		SELECT ` + orderColumns + `
		FROM purchase_orders po
		LEFT JOIN suppliers s ON s.id = po.supplier_id
		WHERE po.id = $1 ` + suffix

	o, err := scanOrder(q.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("purchase order %d: %w", id, apperr.ErrNotFound)
	}

	if err != nil {
		return nil, database.Classify(fmt.Errorf("getting purchase order: %w", err))
	}

	return o, nil
}

func queryItems(ctx context.Context, q invStore.Queryer, orderID int64) ([]*purchase.Item, error) {
	query := `
		SELECT poi.id, poi.order_id, poi.product_id, poi.barcode, poi.product_name, poi.supplier_code,
			poi.quantity_ordered, poi.quantity_received, poi.unit_cost, poi.total_cost, p.quantity
		FROM purchase_order_items poi
		LEFT JOIN products p ON p.id = poi.product_id
		WHERE poi.order_id = $1
		ORDER BY poi.id
	`

	rows, err := q.QueryContext(ctx, query, orderID)
	if err != nil {
		return nil, database.Classify(fmt.Errorf("listing purchase order items: %w", err))
	}
	defer rows.Close()

	var items []*purchase.Item

	for rows.Next() {
		var item purchase.Item

		if err := rows.Scan(
			&item.ID, &item.OrderID, &item.ProductID, &item.Barcode, &item.ProductName, &item.SupplierCode,
			&item.QuantityOrdered, &item.QuantityReceived, &item.UnitCost, &item.TotalCost, &item.CurrentStock,
		); err != nil {
			return nil, fmt.Errorf("scanning purchase order item: %w", err)
		}

		items = append(items, &item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating purchase order items: %w", err)
	}

	return items, nil
}

func (s *Store) Begin(ctx context.Context) (purchase.Tx, error) {
	tx, err := database.BeginTx(ctx, s.db, s.lockTimeout)
	if err != nil {
		return nil, err
	}

	return &Tx{Tx: invStore.NewTx(tx)}, nil
}

func (s *Store) GetOrder(ctx context.Context, id int64) (*purchase.Order, error) {
	o, err := queryOrder(ctx, s.db, "", id)
	if err != nil {
		return nil, err
	}

	o.Items, err = queryItems(ctx, s.db, id)
	if err != nil {
		return nil, err
	}

	return o, nil
}

func (s *Store) ListOrders(ctx context.Context, filter purchase.ListFilter) ([]*purchase.Order, error) {
	query := `
		SELECT ` + orderColumns + `
		FROM purchase_orders po
		LEFT JOIN suppliers s ON s.id = po.supplier_id
		WHERE 1 = 1`

	var args []any

	argIdx := 1

	if filter.Status != nil {
		query += fmt.Sprintf(" AND po.status = $%d", argIdx)

		args = append(args, *filter.Status)
		argIdx++
	}

	if filter.SupplierID != nil {
		query += fmt.Sprintf(" AND po.supplier_id = $%d", argIdx)

		args = append(args, *filter.SupplierID)
	}

	query += " ORDER BY po.order_date DESC, po.id DESC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, database.Classify(fmt.Errorf("listing purchase orders: %w", err))
	}
	defer rows.Close()

	var orders []*purchase.Order

	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning purchase order: %w", err)
		}

		orders = append(orders, o)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating purchase orders: %w", err)
	}

	return orders, nil
}

// Tx implements purchase.Tx on top of the inventory unit of work.
type Tx struct {
	*invStore.Tx
}

func (t *Tx) SupplierExists(ctx context.Context, id int64) (bool, error) {
	var ok bool

	err := t.SQL().QueryRowContext(ctx, "SELECT EXISTS(SELECT 1 FROM suppliers WHERE id = $1)", id).Scan(&ok)
	if err != nil {
		return false, database.Classify(fmt.Errorf("checking supplier: %w", err))
	}

	return ok, nil
}

func (t *Tx) CreateOrder(ctx context.Context, o *purchase.Order) error {
	query := `
		INSERT INTO purchase_orders (supplier_id, order_number, expected_date, status, total_amount, notes, order_date)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
		RETURNING id, order_date
	`

	err := t.SQL().QueryRowContext(ctx, query,
		o.SupplierID,
		o.OrderNumber,
		o.ExpectedDate,
		o.Status,
		o.TotalAmount,
		o.Notes,
	).Scan(&o.ID, &o.OrderDate)
	if err != nil {
		return database.Classify(fmt.Errorf("creating purchase order: %w", err))
	}

	return nil
}

func (t *Tx) CreateItem(ctx context.Context, item *purchase.Item) error {
	query := `
		INSERT INTO purchase_order_items (
			order_id, product_id, barcode, product_name, supplier_code,
			quantity_ordered, unit_cost, total_cost
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`

	err := t.SQL().QueryRowContext(ctx, query,
		item.OrderID,
		item.ProductID,
		item.Barcode,
		item.ProductName,
		item.SupplierCode,
		item.QuantityOrdered,
		item.UnitCost,
		item.TotalCost,
	).Scan(&item.ID)
	if err != nil {
		return database.Classify(fmt.Errorf("creating purchase order item: %w", err))
	}

	return nil
}

// LockOrder holds the order row until the unit of work ends, so concurrent
// receivings of the same order queue behind each other.
func (t *Tx) LockOrder(ctx context.Context, id int64) (*purchase.Order, error) {
	return queryOrder(ctx, t.SQL(), "FOR UPDATE OF po", id)
}

func (t *Tx) OrderItems(ctx context.Context, orderID int64) ([]*purchase.Item, error) {
	return queryItems(ctx, t.SQL(), orderID)
}

func (t *Tx) UpdateItemCost(ctx context.Context, id int64, unitCost, totalCost decimal.Decimal) error {
	_, err := t.SQL().ExecContext(ctx,
		"UPDATE purchase_order_items SET unit_cost = $2, total_cost = $3 WHERE id = $1",
		id, unitCost, totalCost,
	)
	if err != nil {
		return database.Classify(fmt.Errorf("updating item cost: %w", err))
	}

	return nil
}

func (t *Tx) MarkItemReceived(ctx context.Context, id int64, qty int) error {
	_, err := t.SQL().ExecContext(ctx,
		"UPDATE purchase_order_items SET quantity_received = $2 WHERE id = $1",
		id, qty,
	)
	if err != nil {
		return database.Classify(fmt.Errorf("marking item received: %w", err))
	}

	return nil
}

func (t *Tx) SetCostPrice(ctx context.Context, productID int64, cost decimal.Decimal) error {
	_, err := t.SQL().ExecContext(ctx, "UPDATE products SET cost_price = $2 WHERE id = $1", productID, cost)
	if err != nil {
		return database.Classify(fmt.Errorf("updating cost price: %w", err))
	}

	return nil
}

func (t *Tx) SaveReceipt(ctx context.Context, o *purchase.Order) error {
	query := `
		UPDATE purchase_orders
		SET status = $2,
			invoice_number = $3,
			invoice_date = $4,
			date_received = $5,
			expected_date = $6,
			total_amount = $7
		WHERE id = $1
	`

	_, err := t.SQL().ExecContext(ctx, query,
		o.ID,
		o.Status,
		o.InvoiceNumber,
		o.InvoiceDate,
		o.DateReceived,
		o.ExpectedDate,
		o.TotalAmount,
	)
	if err != nil {
		return database.Classify(fmt.Errorf("saving purchase order receipt: %w", err))
	}

	return nil
}

func (t *Tx) SetStatus(ctx context.Context, id int64, status purchase.Status, expected *time.Time) error {
	_, err := t.SQL().ExecContext(ctx,
		"UPDATE purchase_orders SET status = $2, expected_date = $3 WHERE id = $1",
		id, status, expected,
	)
	if err != nil {
		return database.Classify(fmt.Errorf("updating purchase order status: %w", err))
	}

	return nil
}

// DeleteOrder relies on ON DELETE CASCADE for the items.
func (t *Tx) DeleteOrder(ctx context.Context, id int64) error {
	res, err := t.SQL().ExecContext(ctx, "DELETE FROM purchase_orders WHERE id = $1", id)
	if err != nil {
		return database.Classify(fmt.Errorf("deleting purchase order: %w", err))
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking deleted rows: %w", err)
	}

	if n == 0 {
		return fmt.Errorf("purchase order %d: %w", id, apperr.ErrNotFound)
	}

	return nil
}
