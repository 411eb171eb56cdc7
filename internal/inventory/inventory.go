package inventory

import (
	"math"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/shoplite/internal/apperr"
)

// MaxQuantity is the largest stock figure a product or ledger row holds.
const MaxQuantity = math.MaxInt32

// moneyPlaces is the scale prices and totals are stored with.
const moneyPlaces = 2

// CheckAmount rejects negative amounts and amounts finer than a cent. A
// stored row must keep total = quantity x price without rounding.
func CheckAmount(field string, d decimal.Decimal) error {
	if d.IsNegative() {
		return apperr.Invalid(field, "must not be negative")
	}

	if !d.Equal(d.Truncate(moneyPlaces)) {
		return apperr.Invalid(field, "must have at most %d decimal places", moneyPlaces)
	}

	return nil
}

// CheckQuantity rejects quantities beyond MaxQuantity in either direction.
func CheckQuantity(field string, n int) error {
	if n > MaxQuantity || n < -MaxQuantity {
		return apperr.Invalid(field, "must be between %d and %d", -MaxQuantity, MaxQuantity)
	}

	return nil
}

// EventType is the kind of stock movement a ledger entry records.
type EventType string

const (
	TypeSale          EventType = "sale"
	TypeReceiving     EventType = "receiving"
	TypeAdjustmentIn  EventType = "adjustment_in"
	TypeAdjustmentOut EventType = "adjustment_out"
)

// ParseEventType accepts the canonical type names in any case.
func ParseEventType(s string) (EventType, error) {
	t := EventType(strings.ToLower(strings.TrimSpace(s)))
	switch t {
	case TypeSale, TypeReceiving, TypeAdjustmentIn, TypeAdjustmentOut:
		return t, nil
	}

	return "", apperr.Invalid("type", "unknown stock event type %q", s)
}

// Inbound reports whether the event adds units to stock.
func (t EventType) Inbound() bool {
	return t == TypeReceiving || t == TypeAdjustmentIn
}

// Product is a catalog item together with its on-hand quantity.
type Product struct {
	ID           int64           `json:"id"`
	Barcode      string          `json:"barcode"`
	Name         string          `json:"name"`
	Description  string          `json:"description"`
	Quantity     int             `json:"quantity"`
	CostPrice    decimal.Decimal `json:"cost_price"`
	RetailPrice  decimal.Decimal `json:"retail_price"`
	MinStock     int             `json:"min_stock"`
	CategoryID   *int64          `json:"category_id"`
	SupplierID   *int64          `json:"supplier_id"`
	SupplierCode string          `json:"supplier_code"`
	CreatedAt    time.Time       `json:"created_at"`

	// Loaded via JOIN
	CategoryName string `json:"category_name,omitempty"`
	SupplierName string `json:"supplier_name,omitempty"`
}

// LowStock reports whether the product is at or below its reorder level.
func (p *Product) LowStock() bool {
	return p.Quantity <= p.MinStock
}

// Entry is one immutable ledger row. Quantity is a magnitude; the direction
// follows from Type.
type Entry struct {
	ID         int64           `json:"id"`
	ProductID  *int64          `json:"product_id"`
	Barcode    string          `json:"barcode"`
	Type       EventType       `json:"transaction_type"`
	Quantity   int             `json:"quantity"`
	Price      decimal.Decimal `json:"price"`
	TotalValue decimal.Decimal `json:"total_value"`
	Timestamp  time.Time       `json:"timestamp"`
	Notes      string          `json:"notes"`

	// Loaded via JOIN
	ProductName string `json:"product_name,omitempty"`
}

// Change describes a single stock mutation. Exactly one of Barcode and
// ProductID identifies the product; ProductID wins when both are set.
type Change struct {
	Barcode   string
	ProductID int64
	Delta     int
	UnitPrice decimal.Decimal
	Type      EventType
	Note      string
}

func (c Change) validate() error {
	if c.Barcode == "" && c.ProductID == 0 {
		return apperr.Invalid("barcode", "is required")
	}

	switch c.Type {
	case TypeSale, TypeReceiving, TypeAdjustmentIn, TypeAdjustmentOut:
	default:
		return apperr.Invalid("type", "unknown stock event type %q", c.Type)
	}

	if c.Delta == 0 {
		return apperr.Invalid("delta", "must not be zero")
	}

	if err := CheckQuantity("delta", c.Delta); err != nil {
		return err
	}

	if c.Type.Inbound() != (c.Delta > 0) {
		return apperr.Invalid("delta", "sign does not match %s", c.Type)
	}

	return CheckAmount("unit_price", c.UnitPrice)
}

func (c Change) magnitude() int {
	if c.Delta < 0 {
		return -c.Delta
	}

	return c.Delta
}

// EntryFilter narrows ledger listings. Zero values mean no restriction.
type EntryFilter struct {
	Type    *EventType
	Barcode string
	From    *time.Time
	To      *time.Time
	Limit   int
}
