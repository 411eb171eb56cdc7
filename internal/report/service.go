package report

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/MrJamesThe3rd/shoplite/internal/inventory"
)

const (
	topProductsLimit   = 10
	turnoverLimit      = 15
	topProfitableLimit = 15
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=report
type Repository interface {
	Totals(ctx context.Context) (*Totals, error)
	CountEntries(ctx context.Context, t inventory.EventType, p Period) (int, error)
	MonthlySales(ctx context.Context, p Period) ([]MonthSales, error)
	TopProducts(ctx context.Context, p Period, limit int) ([]ProductSales, error)
	SalesByCategory(ctx context.Context, p Period) ([]CategorySales, error)
	DailySales(ctx context.Context, p Period) ([]DaySales, error)
	InventoryByCategory(ctx context.Context) ([]CategoryInventory, error)
	Turnover(ctx context.Context, p Period, limit int) ([]Turnover, error)
	ProfitByMonth(ctx context.Context, p Period) ([]Profit, error)
	ProfitByCategory(ctx context.Context, p Period) ([]Profit, error)
	ProfitByProduct(ctx context.Context, p Period) ([]Profit, error)
	LowStock(ctx context.Context) ([]*inventory.Product, error)
}

// Service computes read-only dashboards over the catalog and the ledger.
// Every method takes the reference time explicitly; periods are computed in
// its location.
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Stats(ctx context.Context, now time.Time) (*Stats, error) {
	totals, err := s.repo.Totals(ctx)
	if err != nil {
		return nil, fmt.Errorf("product totals: %w", err)
	}

	today := startOfDay(now)

	sales, err := s.repo.CountEntries(ctx, inventory.TypeSale, Period{From: today, To: today.AddDate(0, 0, 1)})
	if err != nil {
		return nil, fmt.Errorf("counting today's sales: %w", err)
	}

	return &Stats{
		TotalProducts:     totals.Products,
		TotalStock:        totals.Units,
		LowStock:          totals.LowStock,
		TotalCost:         totals.CostValue,
		TotalRetail:       totals.RetailValue,
		TotalProfit:       totals.RetailValue.Sub(totals.CostValue),
		TodayTransactions: sales,
	}, nil
}

func (s *Service) SalesOverview(ctx context.Context, now time.Time) (*SalesOverview, error) {
	thisYear := yearPeriod(now.Year(), now.Location())
	lastYear := yearPeriod(now.Year()-1, now.Location())

	current, err := s.repo.MonthlySales(ctx, thisYear)
	if err != nil {
		return nil, fmt.Errorf("monthly sales: %w", err)
	}

	previous, err := s.repo.MonthlySales(ctx, lastYear)
	if err != nil {
		return nil, fmt.Errorf("monthly sales last year: %w", err)
	}

	top, err := s.repo.TopProducts(ctx, thisYear, topProductsLimit)
	if err != nil {
		return nil, fmt.Errorf("top products: %w", err)
	}

	byCategory, err := s.repo.SalesByCategory(ctx, thisYear)
	if err != nil {
		return nil, fmt.Errorf("sales by category: %w", err)
	}

	for i := range byCategory {
		if byCategory[i].CategoryName == "" {
			byCategory[i].CategoryName = uncategorized
		}
	}

	daily, err := s.repo.DailySales(ctx, lastDays(now, 30))
	if err != nil {
		return nil, fmt.Errorf("daily sales: %w", err)
	}

	cmp := SalesComparison{Labels: monthLabels}

	for _, m := range current {
		if m.Month < 1 || m.Month > 12 {
			continue
		}

		cmp.ThisYear[m.Month-1] = m.Sales
		cmp.ThisYearTx[m.Month-1] = m.Entries
	}

	for _, m := range previous {
		if m.Month < 1 || m.Month > 12 {
			continue
		}

		cmp.LastYear[m.Month-1] = m.Sales
	}

	return &SalesOverview{
		SalesComparison: cmp,
		TopProducts:     nonNil(top),
		SalesByCategory: nonNil(byCategory),
		DailySales:      nonNil(daily),
		CurrentYear:     now.Year(),
		LastYear:        now.Year() - 1,
	}, nil
}

func (s *Service) InventoryMetrics(ctx context.Context, now time.Time) (*InventoryMetrics, error) {
	totals, err := s.repo.Totals(ctx)
	if err != nil {
		return nil, fmt.Errorf("product totals: %w", err)
	}

	byCategory, err := s.repo.InventoryByCategory(ctx)
	if err != nil {
		return nil, fmt.Errorf("inventory by category: %w", err)
	}

	for i := range byCategory {
		if byCategory[i].CategoryName == "" {
			byCategory[i].CategoryName = uncategorized
		}
	}

	turnover, err := s.repo.Turnover(ctx, lastDays(now, 30), turnoverLimit)
	if err != nil {
		return nil, fmt.Errorf("turnover: %w", err)
	}

	return &InventoryMetrics{
		InventoryValue:      *totals,
		InventoryByCategory: nonNil(byCategory),
		ProductTurnover:     nonNil(turnover),
	}, nil
}

// ProfitAnalysis values sold units at the current cost price of each
// product.
func (s *Service) ProfitAnalysis(ctx context.Context, now time.Time) (*ProfitAnalysis, error) {
	monthly, err := s.repo.ProfitByMonth(ctx, lastMonths(now, 12))
	if err != nil {
		return nil, fmt.Errorf("monthly profit: %w", err)
	}

	for i := range monthly {
		monthly[i].complete()
	}

	halfYear := lastMonths(now, 6)

	categories, err := s.repo.ProfitByCategory(ctx, halfYear)
	if err != nil {
		return nil, fmt.Errorf("profit by category: %w", err)
	}

	byCategory := make([]Profit, 0, len(categories))

	for _, c := range categories {
		if !c.Revenue.IsPositive() {
			continue
		}

		if c.Name == "" {
			c.Name = uncategorized
		}

		c.complete()
		byCategory = append(byCategory, c)
	}

	sortByProfit(byCategory)

	products, err := s.repo.ProfitByProduct(ctx, halfYear)
	if err != nil {
		return nil, fmt.Errorf("profit by product: %w", err)
	}

	top := make([]Profit, 0, min(len(products), topProfitableLimit))

	for _, p := range products {
		p.complete()

		if p.Profit.IsPositive() {
			top = append(top, p)
		}
	}

	sortByProfit(top)

	if len(top) > topProfitableLimit {
		top = top[:topProfitableLimit]
	}

	return &ProfitAnalysis{
		MonthlyProfits:        nonNil(monthly),
		ProfitByCategory:      byCategory,
		TopProfitableProducts: top,
	}, nil
}

// LowStock lists products at or below their reorder level, emptiest first.
func (s *Service) LowStock(ctx context.Context) ([]*inventory.Product, error) {
	products, err := s.repo.LowStock(ctx)
	if err != nil {
		return nil, fmt.Errorf("low stock: %w", err)
	}

	return nonNil(products), nil
}

func sortByProfit(rows []Profit) {
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Profit.GreaterThan(rows[j].Profit)
	})
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func yearPeriod(year int, loc *time.Location) Period {
	from := time.Date(year, time.January, 1, 0, 0, 0, 0, loc)
	return Period{From: from, To: from.AddDate(1, 0, 0)}
}

// lastDays covers the n days before today and today itself.
func lastDays(now time.Time, n int) Period {
	today := startOfDay(now)
	return Period{From: today.AddDate(0, 0, -n), To: today.AddDate(0, 0, 1)}
}

func lastMonths(now time.Time, n int) Period {
	today := startOfDay(now)
	return Period{From: today.AddDate(0, -n, 0), To: today.AddDate(0, 0, 1)}
}

// nonNil keeps empty lists as [] in JSON.
func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}

	return s
}
