package export

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/csv"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/shoplite/internal/apperr"
	"github.com/MrJamesThe3rd/shoplite/internal/catalog"
	"github.com/MrJamesThe3rd/shoplite/internal/inventory"
	"github.com/MrJamesThe3rd/shoplite/internal/purchase"
)

type mockSources struct {
	listProductsFunc func(ctx context.Context, filter catalog.ProductFilter) ([]*inventory.Product, error)
	lowStock         []*inventory.Product
	orders           map[int64]*purchase.Order
}

func (m *mockSources) ListProducts(ctx context.Context, filter catalog.ProductFilter) ([]*inventory.Product, error) {
	if m.listProductsFunc != nil {
		return m.listProductsFunc(ctx, filter)
	}

	return nil, nil
}

func (m *mockSources) LowStock(context.Context) ([]*inventory.Product, error) {
	return m.lowStock, nil
}

func (m *mockSources) GetOrder(_ context.Context, id int64) (*purchase.Order, error) {
	o, ok := m.orders[id]
	if !ok {
		return nil, apperr.ErrNotFound
	}

	return o, nil
}

func (m *mockSources) ListOrders(context.Context, purchase.ListFilter) ([]*purchase.Order, error) {
	var out []*purchase.Order
	for _, id := range []int64{1, 2} {
		if o, ok := m.orders[id]; ok {
			out = append(out, &purchase.Order{ID: o.ID, OrderNumber: o.OrderNumber, Status: o.Status, TotalAmount: o.TotalAmount})
		}
	}

	return out, nil
}

func newTestService(m *mockSources) *Service {
	return NewService(m, m, m)
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func readCSV(t *testing.T, r io.Reader) [][]string {
	t.Helper()

	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	records, err := cr.ReadAll()
	require.NoError(t, err)

	return records
}

func testOrder() *purchase.Order {
	return &purchase.Order{
		ID:           1,
		OrderNumber:  "PO1760000000",
		OrderDate:    time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC),
		Status:       purchase.StatusOrdered,
		TotalAmount:  dec("35"),
		SupplierName: "Dairy Co",
		Items: []*purchase.Item{
			{Barcode: "111", ProductName: "Milk", SupplierCode: "M-1", QuantityOrdered: 10, UnitCost: dec("2"), TotalCost: dec("20")},
			{Barcode: "222", ProductName: "Feta", QuantityOrdered: 5, UnitCost: dec("3"), TotalCost: dec("15")},
		},
	}
}

func TestExportService_Products(t *testing.T) {
	supplierID := int64(4)

	var gotFilter catalog.ProductFilter

	m := &mockSources{
		listProductsFunc: func(_ context.Context, filter catalog.ProductFilter) ([]*inventory.Product, error) {
			gotFilter = filter

			return []*inventory.Product{
				{Barcode: "111", Name: "Milk, 1L", Quantity: 12, MinStock: 3, CostPrice: dec("0.8"), RetailPrice: dec("1.2")},
			}, nil
		},
	}

	var buf bytes.Buffer
	require.NoError(t, newTestService(m).Products(context.Background(), &buf, catalog.ProductFilter{SupplierID: &supplierID}))

	assert.Equal(t, &supplierID, gotFilter.SupplierID)

	records := readCSV(t, &buf)
	require.Len(t, records, 2)
	assert.Equal(t, "Barcode", records[0][0])
	assert.Equal(t, []string{"111", "Milk, 1L", "", "", "", "", "12", "3", "0.80", "1.20"}, records[1])
}

func TestExportService_LowStock(t *testing.T) {
	supplierID := int64(9)
	m := &mockSources{
		lowStock: []*inventory.Product{
			{Barcode: "111", Name: "Milk", Quantity: 0, MinStock: 2, SupplierID: &supplierID},
			{Barcode: "222", Name: "Feta", Quantity: 1, MinStock: 2},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, newTestService(m).LowStock(context.Background(), &buf))

	records := readCSV(t, &buf)
	require.Len(t, records, 3)
	assert.Equal(t, "Supplier ID", records[0][0])
	assert.Equal(t, "Status", records[0][len(records[0])-1])
	assert.Equal(t, "9", records[1][0])
	assert.Equal(t, "CRITICAL", records[1][len(records[1])-1])
	assert.Equal(t, "", records[2][0])
	assert.Equal(t, "LOW", records[2][len(records[2])-1])
}

func TestExportService_Order(t *testing.T) {
	m := &mockSources{orders: map[int64]*purchase.Order{1: testOrder()}}

	var buf bytes.Buffer
	o, err := newTestService(m).Order(context.Background(), &buf, 1)
	require.NoError(t, err)
	assert.Equal(t, "PO1760000000", o.OrderNumber)

	records := readCSV(t, &buf)
	assert.Equal(t, []string{"Order Number", "PO1760000000"}, records[0])
	assert.Equal(t, []string{"111", "M-1", "Milk", "10", "0", "2.00", "20.00"}, records[len(records)-3])
	assert.Equal(t, "35.00", records[len(records)-1][6])
}

func TestExportService_Order_NotFound(t *testing.T) {
	_, err := newTestService(&mockSources{}).Order(context.Background(), io.Discard, 42)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestExportService_Orders(t *testing.T) {
	second := testOrder()
	second.ID = 2
	second.OrderNumber = "PO1760000001"

	m := &mockSources{orders: map[int64]*purchase.Order{1: testOrder(), 2: second}}

	var buf bytes.Buffer
	require.NoError(t, newTestService(m).Orders(context.Background(), &buf, purchase.ListFilter{}))

	zr, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.NoError(t, err)

	var names []string
	for _, f := range zr.File {
		names = append(names, f.Name)
	}

	assert.Equal(t, []string{
		"orders.csv",
		"PO1760000000.csv", "PO1760000000.txt",
		"PO1760000001.csv", "PO1760000001.txt",
	}, names)

	f, err := zr.Open("orders.csv")
	require.NoError(t, err)
	defer f.Close()

	records := readCSV(t, f)
	require.Len(t, records, 3)
	assert.Equal(t, "PO1760000001", records[2][0])
}

func TestOrderSheet(t *testing.T) {
	sheet := OrderSheet(testOrder())

	assert.True(t, strings.HasPrefix(sheet, "Order PO1760000000 (2026-10-01)\n"))
	assert.Contains(t, sheet, "Supplier: Dairy Co\n")
	assert.Contains(t, sheet, "* M-1 | Milk | 10 x 2.00 € = 20.00 €\n")
	assert.Contains(t, sheet, "* 222 | Feta | 5 x 3.00 € = 15.00 €\n")
	assert.Contains(t, sheet, "Total: 35.00 €\n")
}
