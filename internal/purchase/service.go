package purchase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/shoplite/internal/apperr"
	"github.com/MrJamesThe3rd/shoplite/internal/database"
	"github.com/MrJamesThe3rd/shoplite/internal/inventory"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=purchase
type Repository interface {
	Begin(ctx context.Context) (Tx, error)
	GetOrder(ctx context.Context, id int64) (*Order, error)
	ListOrders(ctx context.Context, filter ListFilter) ([]*Order, error)
}

// Tx is a unit of work over purchase orders. It is also an inventory.Tx so
// that receiving and the stock it books commit together. LockOrder returns
// apperr.ErrNotFound for unknown orders.
type Tx interface {
	inventory.Tx

	SupplierExists(ctx context.Context, id int64) (bool, error)
	CreateOrder(ctx context.Context, o *Order) error
	CreateItem(ctx context.Context, item *Item) error
	LockOrder(ctx context.Context, id int64) (*Order, error)
	OrderItems(ctx context.Context, orderID int64) ([]*Item, error)
	UpdateItemCost(ctx context.Context, id int64, unitCost, totalCost decimal.Decimal) error
	MarkItemReceived(ctx context.Context, id int64, qty int) error
	SetCostPrice(ctx context.Context, productID int64, cost decimal.Decimal) error
	SaveReceipt(ctx context.Context, o *Order) error
	SetStatus(ctx context.Context, id int64, status Status, expected *time.Time) error
	DeleteOrder(ctx context.Context, id int64) error
}

type Service struct {
	repo  Repository
	stock *inventory.Service
	retry database.RetryPolicy
	now   func() time.Time
}

func NewService(repo Repository, stock *inventory.Service, retry database.RetryPolicy) *Service {
	return &Service{
		repo:  repo,
		stock: stock,
		retry: retry,
		now:   time.Now,
	}
}

// CreateOrder stores a pending order. Its total is fixed here and only
// changes again when receiving overrides line costs.
func (s *Service) CreateOrder(ctx context.Context, params CreateParams) (*Order, error) {
	if err := params.validate(); err != nil {
		return nil, err
	}

	var created *Order

	err := s.inTx(ctx, func(ctx context.Context, tx Tx) error {
		ok, err := tx.SupplierExists(ctx, params.SupplierID)
		if err != nil {
			return err
		}

		if !ok {
			return fmt.Errorf("supplier %d: %w", params.SupplierID, apperr.ErrNotFound)
		}

		items := make([]*Item, 0, len(params.Items))
		total := decimal.Zero

		for i, p := range params.Items {
			item, err := s.newItem(ctx, tx, i, p)
			if err != nil {
				return err
			}

			items = append(items, item)
			total = total.Add(item.TotalCost)
		}

		supplierID := params.SupplierID
		o := &Order{
			SupplierID:   &supplierID,
			OrderNumber:  fmt.Sprintf("PO%d", s.now().UnixNano()),
			ExpectedDate: params.ExpectedDate,
			Status:       StatusPending,
			TotalAmount:  total,
			Notes:        strings.TrimSpace(params.Notes),
		}

		if err := tx.CreateOrder(ctx, o); err != nil {
			return err
		}

		for _, item := range items {
			item.OrderID = o.ID
			if err := tx.CreateItem(ctx, item); err != nil {
				return err
			}
		}

		o.Items = items
		created = o

		return nil
	})
	if err != nil {
		return nil, err
	}

	return created, nil
}

// newItem builds a line, filling blank snapshot fields from the catalog.
func (s *Service) newItem(ctx context.Context, tx Tx, idx int, p ItemParams) (*Item, error) {
	item := &Item{
		ProductID:       p.ProductID,
		Barcode:         strings.TrimSpace(p.Barcode),
		ProductName:     strings.TrimSpace(p.ProductName),
		SupplierCode:    strings.TrimSpace(p.SupplierCode),
		QuantityOrdered: p.QuantityOrdered,
		UnitCost:        p.UnitCost,
		TotalCost:       lineTotal(p.QuantityOrdered, p.UnitCost),
	}

	if p.ProductID == nil {
		return item, nil
	}

	product, err := tx.ProductByID(ctx, *p.ProductID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", itemField(idx, "product_id"), err)
	}

	if item.ProductName == "" {
		item.ProductName = product.Name
	}

	if item.Barcode == "" {
		item.Barcode = product.Barcode
	}

	if item.SupplierCode == "" {
		item.SupplierCode = product.SupplierCode
	}

	return item, nil
}

// UpdateStatus moves an order to params.Status. Receiving books every line
// into stock in the same unit of work as the status change.
func (s *Service) UpdateStatus(ctx context.Context, id int64, params StatusParams) error {
	if err := params.validate(); err != nil {
		return err
	}

	var received *Order

	err := s.inTx(ctx, func(ctx context.Context, tx Tx) error {
		o, err := tx.LockOrder(ctx, id)
		if err != nil {
			return err
		}

		if o.Status.Terminal() {
			return fmt.Errorf("order %s is %s: %w", o.OrderNumber, o.Status, apperr.ErrOrderLocked)
		}

		if params.Status != StatusReceived {
			return tx.SetStatus(ctx, id, params.Status, params.ExpectedDate)
		}

		if err := s.receive(ctx, tx, o, params); err != nil {
			return err
		}

		received = o

		return nil
	})
	if err != nil {
		return err
	}

	if received != nil {
		slog.InfoContext(ctx, "purchase order received",
			"order_id", received.ID,
			"order_number", received.OrderNumber,
			"lines", len(received.Items),
			"total", received.TotalAmount.StringFixed(2),
		)
	}

	return nil
}

func (s *Service) receive(ctx context.Context, tx Tx, o *Order, params StatusParams) error {
	items, err := tx.OrderItems(ctx, o.ID)
	if err != nil {
		return err
	}

	note := fmt.Sprintf("Purchase order receiving #%s", o.OrderNumber)
	overridden := false

	for _, item := range items {
		if item.ProductID == nil {
			continue
		}

		cost := item.UnitCost
		if override, ok := params.CostOverrides[*item.ProductID]; ok {
			cost = override
			item.UnitCost = cost
			item.TotalCost = lineTotal(item.QuantityOrdered, cost)
			overridden = true

			if err := tx.UpdateItemCost(ctx, item.ID, item.UnitCost, item.TotalCost); err != nil {
				return err
			}
		}

		if item.QuantityOrdered > 0 {
			if _, err := s.stock.Apply(ctx, tx, inventory.Change{
				ProductID: *item.ProductID,
				Delta:     item.QuantityOrdered,
				UnitPrice: cost,
				Type:      inventory.TypeReceiving,
				Note:      note,
			}); err != nil {
				return fmt.Errorf("receiving %s: %w", item.ProductName, err)
			}

			if err := tx.MarkItemReceived(ctx, item.ID, item.QuantityOrdered); err != nil {
				return err
			}

			item.QuantityReceived = item.QuantityOrdered
		}

		if params.UpdateCostPrice {
			if err := tx.SetCostPrice(ctx, *item.ProductID, cost); err != nil {
				return err
			}
		}
	}

	if overridden {
		total := decimal.Zero
		for _, item := range items {
			total = total.Add(item.TotalCost)
		}

		o.TotalAmount = total
	}

	today := s.now()

	o.Status = StatusReceived
	o.InvoiceNumber = nil
	if params.InvoiceNumber != nil && strings.TrimSpace(*params.InvoiceNumber) != "" {
		o.InvoiceNumber = new(strings.TrimSpace(*params.InvoiceNumber))
	}
	o.InvoiceDate = params.InvoiceDate
	o.DateReceived = &today
	o.ExpectedDate = params.ExpectedDate
	o.Items = items

	return tx.SaveReceipt(ctx, o)
}

// DeleteOrder removes an order and its lines. Received orders are kept as
// the record of the stock they booked.
func (s *Service) DeleteOrder(ctx context.Context, id int64) error {
	return s.inTx(ctx, func(ctx context.Context, tx Tx) error {
		o, err := tx.LockOrder(ctx, id)
		if err != nil {
			return err
		}

		if o.Status == StatusReceived {
			return fmt.Errorf("order %s is received: %w", o.OrderNumber, apperr.ErrOrderLocked)
		}

		return tx.DeleteOrder(ctx, id)
	})
}

func (s *Service) GetOrder(ctx context.Context, id int64) (*Order, error) {
	return s.repo.GetOrder(ctx, id)
}

func (s *Service) ListOrders(ctx context.Context, filter ListFilter) ([]*Order, error) {
	return s.repo.ListOrders(ctx, filter)
}

func (s *Service) inTx(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error {
	return database.Retry(ctx, s.retry, func(ctx context.Context) error {
		tx, err := s.repo.Begin(ctx)
		if err != nil {
			return fmt.Errorf("begin purchase order update: %w", err)
		}
		defer tx.Rollback()

		if err := fn(ctx, tx); err != nil {
			return err
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit purchase order update: %w", err)
		}

		return nil
	})
}

func itemField(idx int, name string) string {
	return fmt.Sprintf("items[%d].%s", idx, name)
}
