package export

import (
	"archive/zip"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/shoplite/internal/catalog"
	"github.com/MrJamesThe3rd/shoplite/internal/inventory"
	"github.com/MrJamesThe3rd/shoplite/internal/purchase"
)

type ProductLister interface {
	ListProducts(ctx context.Context, filter catalog.ProductFilter) ([]*inventory.Product, error)
}

type LowStockLister interface {
	LowStock(ctx context.Context) ([]*inventory.Product, error)
}

type OrderReader interface {
	GetOrder(ctx context.Context, id int64) (*purchase.Order, error)
	ListOrders(ctx context.Context, filter purchase.ListFilter) ([]*purchase.Order, error)
}

// Service writes catalog and purchase order exports as CSV.
type Service struct {
	products ProductLister
	lowStock LowStockLister
	orders   OrderReader
}

func NewService(products ProductLister, lowStock LowStockLister, orders OrderReader) *Service {
	return &Service{
		products: products,
		lowStock: lowStock,
		orders:   orders,
	}
}

var productHeader = []string{
	"Barcode", "Name", "Description", "Category", "Supplier", "Supplier Code",
	"Quantity", "Min Stock", "Cost Price", "Retail Price",
}

func productRecord(p *inventory.Product) []string {
	return []string{
		p.Barcode,
		p.Name,
		p.Description,
		p.CategoryName,
		p.SupplierName,
		p.SupplierCode,
		strconv.Itoa(p.Quantity),
		strconv.Itoa(p.MinStock),
		money(p.CostPrice),
		money(p.RetailPrice),
	}
}

// Products writes the catalog, optionally restricted to one supplier.
func (s *Service) Products(ctx context.Context, w io.Writer, filter catalog.ProductFilter) error {
	products, err := s.products.ListProducts(ctx, filter)
	if err != nil {
		return fmt.Errorf("listing products: %w", err)
	}

	cw := csv.NewWriter(w)

	if err := cw.Write(productHeader); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for _, p := range products {
		if err := cw.Write(productRecord(p)); err != nil {
			return fmt.Errorf("writing product %s: %w", p.Barcode, err)
		}
	}

	cw.Flush()

	return cw.Error()
}

// LowStock writes the reorder list. Products out of stock are CRITICAL.
func (s *Service) LowStock(ctx context.Context, w io.Writer) error {
	products, err := s.lowStock.LowStock(ctx)
	if err != nil {
		return fmt.Errorf("listing low stock: %w", err)
	}

	cw := csv.NewWriter(w)

	if err := cw.Write(append([]string{"Supplier ID"}, append(productHeader, "Status")...)); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for _, p := range products {
		supplierID := ""
		if p.SupplierID != nil {
			supplierID = strconv.FormatInt(*p.SupplierID, 10)
		}

		status := "LOW"
		if p.Quantity == 0 {
			status = "CRITICAL"
		}

		record := append([]string{supplierID}, append(productRecord(p), status)...)
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("writing product %s: %w", p.Barcode, err)
		}
	}

	cw.Flush()

	return cw.Error()
}

// Order writes one purchase order with its lines.
func (s *Service) Order(ctx context.Context, w io.Writer, id int64) (*purchase.Order, error) {
	o, err := s.orders.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := writeOrder(w, o); err != nil {
		return nil, err
	}

	return o, nil
}

// Orders writes a zip archive holding a summary of the matching orders, and
// per order its lines as CSV and a plain text sheet for the supplier.
func (s *Service) Orders(ctx context.Context, w io.Writer, filter purchase.ListFilter) error {
	orders, err := s.orders.ListOrders(ctx, filter)
	if err != nil {
		return fmt.Errorf("listing orders: %w", err)
	}

	zw := zip.NewWriter(w)

	summary, err := zw.Create("orders.csv")
	if err != nil {
		return fmt.Errorf("creating summary: %w", err)
	}

	if err := writeSummary(summary, orders); err != nil {
		return err
	}

	for _, listed := range orders {
		o, err := s.orders.GetOrder(ctx, listed.ID)
		if err != nil {
			return fmt.Errorf("loading order %d: %w", listed.ID, err)
		}

		f, err := zw.Create(o.OrderNumber + ".csv")
		if err != nil {
			return fmt.Errorf("creating %s.csv: %w", o.OrderNumber, err)
		}

		if err := writeOrder(f, o); err != nil {
			return err
		}

		sheet, err := zw.Create(o.OrderNumber + ".txt")
		if err != nil {
			return fmt.Errorf("creating %s.txt: %w", o.OrderNumber, err)
		}

		if _, err := io.WriteString(sheet, OrderSheet(o)); err != nil {
			return fmt.Errorf("writing %s.txt: %w", o.OrderNumber, err)
		}
	}

	return zw.Close()
}

func writeSummary(w io.Writer, orders []*purchase.Order) error {
	cw := csv.NewWriter(w)

	if err := cw.Write([]string{"Order Number", "Supplier", "Status", "Order Date", "Expected Date", "Total", "Invoice Number"}); err != nil {
		return fmt.Errorf("writing summary header: %w", err)
	}

	for _, o := range orders {
		invoice := ""
		if o.InvoiceNumber != nil {
			invoice = *o.InvoiceNumber
		}

		if err := cw.Write([]string{
			o.OrderNumber,
			o.SupplierName,
			string(o.Status),
			o.OrderDate.Format(time.DateOnly),
			date(o.ExpectedDate),
			money(o.TotalAmount),
			invoice,
		}); err != nil {
			return fmt.Errorf("writing order %s: %w", o.OrderNumber, err)
		}
	}

	cw.Flush()

	return cw.Error()
}

func writeOrder(w io.Writer, o *purchase.Order) error {
	cw := csv.NewWriter(w)

	records := [][]string{
		{"Order Number", o.OrderNumber},
		{"Supplier", o.SupplierName},
		{"Status", string(o.Status)},
		{"Order Date", o.OrderDate.Format(time.DateOnly)},
		{"Expected Date", date(o.ExpectedDate)},
		{},
		{"Barcode", "Supplier Code", "Product", "Ordered", "Received", "Unit Cost", "Total Cost"},
	}

	for _, item := range o.Items {
		records = append(records, []string{
			item.Barcode,
			item.SupplierCode,
			item.ProductName,
			strconv.Itoa(item.QuantityOrdered),
			strconv.Itoa(item.QuantityReceived),
			money(item.UnitCost),
			money(item.TotalCost),
		})
	}

	records = append(records, []string{"", "", "", "", "", "Total", money(o.TotalAmount)})

	if err := cw.WriteAll(records); err != nil {
		return fmt.Errorf("writing order %s: %w", o.OrderNumber, err)
	}

	return nil
}

// OrderSheet formats an order as text to paste into a message to the
// supplier.
func OrderSheet(o *purchase.Order) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Order %s (%s)\n", o.OrderNumber, o.OrderDate.Format(time.DateOnly))

	if o.SupplierName != "" {
		fmt.Fprintf(&sb, "Supplier: %s\n", o.SupplierName)
	}

	if o.ExpectedDate != nil {
		fmt.Fprintf(&sb, "Expected: %s\n", o.ExpectedDate.Format(time.DateOnly))
	}

	sb.WriteString("\n")

	for _, item := range o.Items {
		code := item.SupplierCode
		if code == "" {
			code = item.Barcode
		}

		fmt.Fprintf(&sb, "* %s | %s | %d x %s € = %s €\n",
			code, item.ProductName, item.QuantityOrdered, money(item.UnitCost), money(item.TotalCost))
	}

	fmt.Fprintf(&sb, "\nTotal: %s €\n", money(o.TotalAmount))

	if o.Notes != "" {
		fmt.Fprintf(&sb, "Notes: %s\n", o.Notes)
	}

	return sb.String()
}

func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func date(t *time.Time) string {
	if t == nil {
		return ""
	}

	return t.Format(time.DateOnly)
}
