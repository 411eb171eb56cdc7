package report

import (
	"time"

	"github.com/shopspring/decimal"
)

const uncategorized = "Uncategorized"

var monthLabels = [12]string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}

// Totals aggregates the products table.
type Totals struct {
	Products    int             `json:"total_products"`
	Units       int64           `json:"total_units"`
	LowStock    int             `json:"low_stock"`
	CostValue   decimal.Decimal `json:"total_cost_value"`
	RetailValue decimal.Decimal `json:"total_retail_value"`
}

type Stats struct {
	TotalProducts     int             `json:"total_products"`
	TotalStock        int64           `json:"total_stock"`
	LowStock          int             `json:"low_stock"`
	TotalCost         decimal.Decimal `json:"total_cost"`
	TotalRetail       decimal.Decimal `json:"total_retail"`
	TotalProfit       decimal.Decimal `json:"total_profit"`
	TodayTransactions int             `json:"today_transactions"`
}

// MonthSales is one calendar month of sale entries. Month is 1-12.
type MonthSales struct {
	Month   int
	Sales   decimal.Decimal
	Entries int
}

type SalesComparison struct {
	Labels     [12]string          `json:"labels"`
	ThisYear   [12]decimal.Decimal `json:"this_year"`
	LastYear   [12]decimal.Decimal `json:"last_year"`
	ThisYearTx [12]int             `json:"this_year_tx"`
}

type ProductSales struct {
	Name         string          `json:"name"`
	Barcode      string          `json:"barcode"`
	TotalSold    int64           `json:"total_sold"`
	TotalRevenue decimal.Decimal `json:"total_revenue"`
	TotalProfit  decimal.Decimal `json:"total_profit"`
}

type CategorySales struct {
	CategoryName string          `json:"category_name"`
	TotalSales   decimal.Decimal `json:"total_sales"`
	Entries      int             `json:"transactions_count"`
}

type DaySales struct {
	Date    time.Time       `json:"date"`
	Sales   decimal.Decimal `json:"daily_sales"`
	Entries int             `json:"daily_transactions"`
}

type SalesOverview struct {
	SalesComparison SalesComparison `json:"sales_comparison"`
	TopProducts     []ProductSales  `json:"top_products"`
	SalesByCategory []CategorySales `json:"sales_by_category"`
	DailySales      []DaySales      `json:"daily_sales"`
	CurrentYear     int             `json:"current_year"`
	LastYear        int             `json:"last_year"`
}

type CategoryInventory struct {
	CategoryName string          `json:"category_name"`
	ProductCount int             `json:"product_count"`
	TotalUnits   int64           `json:"total_units"`
	CostValue    decimal.Decimal `json:"cost_value"`
	RetailValue  decimal.Decimal `json:"retail_value"`
}

type Turnover struct {
	Name          string          `json:"name"`
	Barcode       string          `json:"barcode"`
	Quantity      int             `json:"quantity"`
	UnitsSold     int64           `json:"units_sold"`
	UnitsReceived int64           `json:"units_received"`
	TurnoverRatio decimal.Decimal `json:"turnover_ratio"`
}

type InventoryMetrics struct {
	InventoryValue      Totals              `json:"inventory_value"`
	InventoryByCategory []CategoryInventory `json:"inventory_by_category"`
	ProductTurnover     []Turnover          `json:"product_turnover"`
}

// Profit is revenue against cost for one bucket of sales: a month
// ("2026-03"), a category (Name) or a product (Barcode and Name).
type Profit struct {
	Month     string          `json:"month,omitempty"`
	Barcode   string          `json:"barcode,omitempty"`
	Name      string          `json:"name,omitempty"`
	UnitsSold int64           `json:"units_sold,omitempty"`
	Revenue   decimal.Decimal `json:"revenue"`
	Cost      decimal.Decimal `json:"cost"`
	Profit    decimal.Decimal `json:"profit"`
	Margin    decimal.Decimal `json:"profit_margin"`
}

// complete fills Profit and Margin from Revenue and Cost. Margin is
// expressed on cost and is zero when nothing was spent.
func (p *Profit) complete() {
	p.Profit = p.Revenue.Sub(p.Cost)
	p.Margin = decimal.Zero

	if p.Cost.IsPositive() {
		p.Margin = p.Profit.Div(p.Cost).Mul(decimal.NewFromInt(100)).Round(2)
	}
}

type ProfitAnalysis struct {
	MonthlyProfits        []Profit `json:"monthly_profits"`
	ProfitByCategory      []Profit `json:"profit_by_category"`
	TopProfitableProducts []Profit `json:"top_profitable_products"`
}

// Period is a half-open time range [From, To).
type Period struct {
	From time.Time
	To   time.Time
}
