package purchase

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/shoplite/internal/apperr"
	"github.com/MrJamesThe3rd/shoplite/internal/inventory"
)

// Status is the lifecycle state of a purchase order.
type Status string

const (
	StatusPending   Status = "pending"
	StatusOrdered   Status = "ordered"
	StatusReceived  Status = "received"
	StatusCancelled Status = "cancelled"
)

// statusAliases maps the spellings the shell sends to canonical states.
var statusAliases = map[string]Status{
	"pending":      StatusPending,
	"ordered":      StatusOrdered,
	"received":     StatusReceived,
	"cancelled":    StatusCancelled,
	"canceled":     StatusCancelled,
	"ολοκληρωμένη": StatusReceived,
	"σε εξέλιξη":   StatusOrdered,
}

// ParseStatus resolves s, case-insensitively, to a canonical status.
func ParseStatus(s string) (Status, error) {
	if st, ok := statusAliases[strings.ToLower(strings.TrimSpace(s))]; ok {
		return st, nil
	}

	return "", apperr.ErrInvalidStatus
}

// Terminal reports whether an order in this state can no longer change.
func (s Status) Terminal() bool {
	return s == StatusReceived || s == StatusCancelled
}

// Order is a purchase order header. Items is only populated by GetOrder.
type Order struct {
	ID            int64           `json:"id"`
	SupplierID    *int64          `json:"supplier_id"`
	OrderNumber   string          `json:"order_number"`
	OrderDate     time.Time       `json:"order_date"`
	ExpectedDate  *time.Time      `json:"expected_date"`
	Status        Status          `json:"status"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	InvoiceNumber *string         `json:"invoice_number"`
	InvoiceDate   *time.Time      `json:"invoice_date"`
	DateReceived  *time.Time      `json:"date_received"`
	Notes         string          `json:"notes"`

	// Loaded via JOIN
	SupplierName  string `json:"supplier_name,omitempty"`
	SupplierPhone string `json:"supplier_phone,omitempty"`
	SupplierEmail string `json:"supplier_email,omitempty"`

	Items []*Item `json:"items,omitempty"`
}

// Item is one line of a purchase order. The product snapshot fields keep
// the line readable after the product itself is deleted.
type Item struct {
	ID               int64           `json:"id"`
	OrderID          int64           `json:"order_id"`
	ProductID        *int64          `json:"product_id"`
	Barcode          string          `json:"barcode"`
	ProductName      string          `json:"product_name"`
	SupplierCode     string          `json:"supplier_code"`
	QuantityOrdered  int             `json:"quantity_ordered"`
	QuantityReceived int             `json:"quantity_received"`
	UnitCost         decimal.Decimal `json:"unit_cost"`
	TotalCost        decimal.Decimal `json:"total_cost"`

	// Loaded via JOIN; nil once the product is gone.
	CurrentStock *int `json:"current_stock,omitempty"`
}

func lineTotal(qty int, cost decimal.Decimal) decimal.Decimal {
	return cost.Mul(decimal.NewFromInt(int64(qty)))
}

type ItemParams struct {
	ProductID       *int64
	Barcode         string
	ProductName     string
	SupplierCode    string
	QuantityOrdered int
	UnitCost        decimal.Decimal
}

type CreateParams struct {
	SupplierID   int64
	Items        []ItemParams
	Notes        string
	ExpectedDate *time.Time
}

func (p CreateParams) validate() error {
	if p.SupplierID == 0 {
		return apperr.Invalid("supplier_id", "is required")
	}

	if len(p.Items) == 0 {
		return apperr.Invalid("items", "order has no lines")
	}

	for i, item := range p.Items {
		if item.QuantityOrdered < 0 {
			return apperr.Invalid(itemField(i, "quantity_ordered"), "must not be negative")
		}

		if err := inventory.CheckQuantity(itemField(i, "quantity_ordered"), item.QuantityOrdered); err != nil {
			return err
		}

		if err := inventory.CheckAmount(itemField(i, "unit_cost"), item.UnitCost); err != nil {
			return err
		}

		if item.ProductID == nil && strings.TrimSpace(item.ProductName) == "" {
			return apperr.Invalid(itemField(i, "product_name"), "is required")
		}
	}

	return nil
}

// StatusParams carries a status change. The invoice fields and cost
// overrides only matter when the order is being received.
type StatusParams struct {
	Status          Status
	InvoiceNumber   *string
	InvoiceDate     *time.Time
	ExpectedDate    *time.Time
	UpdateCostPrice bool
	// CostOverrides replaces the unit cost of the lines for a product id.
	CostOverrides map[int64]decimal.Decimal
}

func (p StatusParams) validate() error {
	switch p.Status {
	case StatusPending, StatusOrdered, StatusReceived, StatusCancelled:
	default:
		return apperr.ErrInvalidStatus
	}

	for id, cost := range p.CostOverrides {
		if err := inventory.CheckAmount("items", cost); err != nil {
			return fmt.Errorf("new cost for product %d: %w", id, err)
		}
	}

	return nil
}

type ListFilter struct {
	Status     *Status
	SupplierID *int64
}
