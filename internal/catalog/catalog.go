package catalog

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/shoplite/internal/apperr"
	"github.com/MrJamesThe3rd/shoplite/internal/inventory"
)

const defaultMinStock = 1

type Category struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

type Supplier struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

type SupplierParams struct {
	Name  string
	Phone string
	Email string
}

// ProductParams describes a product as entered in the catalog. Quantity is
// nil when the caller does not want to touch stock.
type ProductParams struct {
	Barcode      string
	Name         string
	Description  string
	Quantity     *int
	CostPrice    decimal.Decimal
	RetailPrice  decimal.Decimal
	MinStock     *int
	CategoryID   *int64
	SupplierID   *int64
	SupplierCode string
}

func (p *ProductParams) normalize() {
	p.Barcode = strings.TrimSpace(p.Barcode)
	p.Name = strings.TrimSpace(p.Name)
	p.Description = strings.TrimSpace(p.Description)
	p.SupplierCode = strings.TrimSpace(p.SupplierCode)
}

func (p ProductParams) validate(requireBarcode bool) error {
	if requireBarcode && p.Barcode == "" {
		return apperr.Invalid("barcode", "is required")
	}

	if p.Name == "" {
		return apperr.Invalid("name", "is required")
	}

	if p.Quantity != nil {
		if *p.Quantity < 0 {
			return apperr.Invalid("quantity", "must not be negative")
		}

		if err := inventory.CheckQuantity("quantity", *p.Quantity); err != nil {
			return err
		}
	}

	if err := inventory.CheckAmount("cost_price", p.CostPrice); err != nil {
		return err
	}

	if err := inventory.CheckAmount("retail_price", p.RetailPrice); err != nil {
		return err
	}

	if p.MinStock != nil {
		if *p.MinStock < 0 {
			return apperr.Invalid("min_stock", "must not be negative")
		}

		if err := inventory.CheckQuantity("min_stock", *p.MinStock); err != nil {
			return err
		}
	}

	return nil
}

// apply copies the catalog fields onto p. Quantity is left alone.
func (p ProductParams) apply(dst *inventory.Product) {
	dst.Name = p.Name
	dst.Description = p.Description
	dst.CostPrice = p.CostPrice
	dst.RetailPrice = p.RetailPrice
	dst.MinStock = defaultMinStock

	if p.MinStock != nil {
		dst.MinStock = *p.MinStock
	}

	dst.CategoryID = p.CategoryID
	dst.SupplierID = p.SupplierID
	dst.SupplierCode = p.SupplierCode
}

type ProductFilter struct {
	SupplierID *int64
}

// ImportRow is one product line of a price list, with its line number in
// the source file.
type ImportRow struct {
	Line    int
	Product ProductParams
}

type RowError struct {
	Line    int    `json:"line"`
	Barcode string `json:"barcode,omitempty"`
	Message string `json:"message"`
}

type ImportResult struct {
	Created int        `json:"created"`
	Updated int        `json:"updated"`
	Errors  []RowError `json:"errors"`
}
