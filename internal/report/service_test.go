package report_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/shoplite/internal/inventory"
	"github.com/MrJamesThe3rd/shoplite/internal/report"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

var now = time.Date(2026, time.October, 15, 14, 30, 0, 0, time.UTC)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestService_Stats(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := report.NewMockRepository(ctrl)

	repo.EXPECT().Totals(gomock.Any()).Return(&report.Totals{
		Products:    3,
		Units:       40,
		LowStock:    1,
		CostValue:   dec("55.00"),
		RetailValue: dec("80.50"),
	}, nil)
	repo.EXPECT().
		CountEntries(gomock.Any(), inventory.TypeSale, report.Period{From: day(2026, 10, 15), To: day(2026, 10, 16)}).
		Return(4, nil)

	stats, err := report.NewService(repo).Stats(context.Background(), now)
	require.NoError(t, err)

	assert.Equal(t, 3, stats.TotalProducts)
	assert.Equal(t, int64(40), stats.TotalStock)
	assert.Equal(t, 1, stats.LowStock)
	assert.Equal(t, "25.50", stats.TotalProfit.StringFixed(2))
	assert.Equal(t, 4, stats.TodayTransactions)
}

func TestService_Stats_RepositoryError(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := report.NewMockRepository(ctrl)

	boom := errors.New("boom")
	repo.EXPECT().Totals(gomock.Any()).Return(nil, boom)

	_, err := report.NewService(repo).Stats(context.Background(), now)
	assert.ErrorIs(t, err, boom)
}

func TestService_SalesOverview(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := report.NewMockRepository(ctrl)

	thisYear := report.Period{From: day(2026, 1, 1), To: day(2027, 1, 1)}
	lastYear := report.Period{From: day(2025, 1, 1), To: day(2026, 1, 1)}

	repo.EXPECT().MonthlySales(gomock.Any(), thisYear).Return([]report.MonthSales{
		{Month: 1, Sales: dec("10.00"), Entries: 2},
		{Month: 10, Sales: dec("42.50"), Entries: 7},
	}, nil)
	repo.EXPECT().MonthlySales(gomock.Any(), lastYear).Return([]report.MonthSales{
		{Month: 12, Sales: dec("99.90"), Entries: 11},
	}, nil)
	repo.EXPECT().TopProducts(gomock.Any(), thisYear, 10).Return(nil, nil)
	repo.EXPECT().SalesByCategory(gomock.Any(), thisYear).Return([]report.CategorySales{
		{CategoryName: "Dairy", TotalSales: dec("30.00"), Entries: 5},
		{CategoryName: "", TotalSales: dec("22.50"), Entries: 4},
	}, nil)
	repo.EXPECT().
		DailySales(gomock.Any(), report.Period{From: day(2026, 9, 15), To: day(2026, 10, 16)}).
		Return(nil, nil)

	got, err := report.NewService(repo).SalesOverview(context.Background(), now)
	require.NoError(t, err)

	cmp := got.SalesComparison
	assert.Equal(t, "Jan", cmp.Labels[0])
	assert.Equal(t, "Dec", cmp.Labels[11])
	assert.Equal(t, "10.00", cmp.ThisYear[0].StringFixed(2))
	assert.Equal(t, "42.50", cmp.ThisYear[9].StringFixed(2))
	assert.True(t, cmp.ThisYear[5].IsZero())
	assert.Equal(t, 7, cmp.ThisYearTx[9])
	assert.Equal(t, "99.90", cmp.LastYear[11].StringFixed(2))

	assert.Equal(t, "Uncategorized", got.SalesByCategory[1].CategoryName)
	assert.NotNil(t, got.TopProducts)
	assert.NotNil(t, got.DailySales)
	assert.Equal(t, 2026, got.CurrentYear)
	assert.Equal(t, 2025, got.LastYear)
}

func TestService_InventoryMetrics(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := report.NewMockRepository(ctrl)

	repo.EXPECT().Totals(gomock.Any()).Return(&report.Totals{Products: 2, Units: 15}, nil)
	repo.EXPECT().InventoryByCategory(gomock.Any()).Return([]report.CategoryInventory{
		{CategoryName: "", ProductCount: 2, TotalUnits: 15},
	}, nil)
	repo.EXPECT().
		Turnover(gomock.Any(), report.Period{From: day(2026, 9, 15), To: day(2026, 10, 16)}, 15).
		Return([]report.Turnover{{Barcode: "111", UnitsSold: 6, Quantity: 3, TurnoverRatio: dec("2")}}, nil)

	got, err := report.NewService(repo).InventoryMetrics(context.Background(), now)
	require.NoError(t, err)

	assert.Equal(t, int64(15), got.InventoryValue.Units)
	assert.Equal(t, "Uncategorized", got.InventoryByCategory[0].CategoryName)
	require.Len(t, got.ProductTurnover, 1)
	assert.Equal(t, "111", got.ProductTurnover[0].Barcode)
}

func TestService_ProfitAnalysis(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := report.NewMockRepository(ctrl)

	repo.EXPECT().
		ProfitByMonth(gomock.Any(), report.Period{From: day(2025, 10, 15), To: day(2026, 10, 16)}).
		Return([]report.Profit{{Month: "2026-09", Revenue: dec("150.00"), Cost: dec("100.00")}}, nil)

	halfYear := report.Period{From: day(2026, 4, 15), To: day(2026, 10, 16)}

	repo.EXPECT().ProfitByCategory(gomock.Any(), halfYear).Return([]report.Profit{
		{Name: "Bakery", Revenue: dec("20.00"), Cost: dec("15.00")},
		{Name: "", Revenue: dec("50.00"), Cost: dec("0")},
		{Name: "Empty", Revenue: dec("0"), Cost: dec("0")},
	}, nil)
	repo.EXPECT().ProfitByProduct(gomock.Any(), halfYear).Return([]report.Profit{
		{Barcode: "1", Revenue: dec("10.00"), Cost: dec("12.00")},
		{Barcode: "2", Revenue: dec("30.00"), Cost: dec("20.00")},
		{Barcode: "3", Revenue: dec("45.00"), Cost: dec("15.00")},
	}, nil)

	got, err := report.NewService(repo).ProfitAnalysis(context.Background(), now)
	require.NoError(t, err)

	require.Len(t, got.MonthlyProfits, 1)
	assert.Equal(t, "50.00", got.MonthlyProfits[0].Profit.StringFixed(2))
	assert.Equal(t, "50.00", got.MonthlyProfits[0].Margin.StringFixed(2))

	require.Len(t, got.ProfitByCategory, 2)
	assert.Equal(t, "Uncategorized", got.ProfitByCategory[0].Name)
	assert.True(t, got.ProfitByCategory[0].Margin.IsZero())
	assert.Equal(t, "Bakery", got.ProfitByCategory[1].Name)
	assert.Equal(t, "33.33", got.ProfitByCategory[1].Margin.StringFixed(2))

	require.Len(t, got.TopProfitableProducts, 2)
	assert.Equal(t, "3", got.TopProfitableProducts[0].Barcode)
	assert.Equal(t, "200.00", got.TopProfitableProducts[0].Margin.StringFixed(2))
	assert.Equal(t, "2", got.TopProfitableProducts[1].Barcode)
}

func TestService_LowStock_EmptyIsNotNil(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := report.NewMockRepository(ctrl)

	repo.EXPECT().LowStock(gomock.Any()).Return(nil, nil)

	got, err := report.NewService(repo).LowStock(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}
