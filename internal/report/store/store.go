package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/MrJamesThe3rd/shoplite/internal/database"
	"github.com/MrJamesThe3rd/shoplite/internal/inventory"
	invStore "github.com/MrJamesThe3rd/shoplite/internal/inventory/store"
	"github.com/MrJamesThe3rd/shoplite/internal/report"
)

// Store runs the read-only dashboard queries. Sold units are valued at the
// product's current cost price.
type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

const salesIn = `t.transaction_type = 'sale' AND t.timestamp >= $1 AND t.timestamp < $2`

func (s *Store) Totals(ctx context.Context) (*report.Totals, error) {
	query := `
		SELECT
			COUNT(*),
			COALESCE(SUM(quantity), 0),
			COUNT(*) FILTER (WHERE quantity <= min_stock),
			COALESCE(SUM(quantity * cost_price), 0),
			COALESCE(SUM(quantity * retail_price), 0)
		FROM products
	`

	var t report.Totals
	if err := s.db.QueryRowContext(ctx, query).Scan(&t.Products, &t.Units, &t.LowStock, &t.CostValue, &t.RetailValue); err != nil {
		return nil, database.Classify(fmt.Errorf("querying product totals: %w", err))
	}

	return &t, nil
}

func (s *Store) CountEntries(ctx context.Context, typ inventory.EventType, p report.Period) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM transactions
		WHERE transaction_type = $1 AND timestamp >= $2 AND timestamp < $3
	`

	var n int
	if err := s.db.QueryRowContext(ctx, query, typ, p.From, p.To).Scan(&n); err != nil {
		return 0, database.Classify(fmt.Errorf("counting ledger entries: %w", err))
	}

	return n, nil
}

func (s *Store) MonthlySales(ctx context.Context, p report.Period) ([]report.MonthSales, error) {
	query := `
		SELECT EXTRACT(MONTH FROM t.timestamp)::int, SUM(t.total_value), COUNT(*)
		FROM transactions t
		WHERE ` + salesIn + `
		GROUP BY 1
		ORDER BY 1
	`

	return queryAll(ctx, s.db, "monthly sales", func(rows *sql.Rows) (report.MonthSales, error) {
		var m report.MonthSales
		err := rows.Scan(&m.Month, &m.Sales, &m.Entries)

		return m, err
	}, query, p.From, p.To)
}

func (s *Store) TopProducts(ctx context.Context, p report.Period, limit int) ([]report.ProductSales, error) {
	query := `
		SELECT
			p.name,
			p.barcode,
			SUM(t.quantity),
			SUM(t.total_value),
			(p.retail_price - p.cost_price) * SUM(t.quantity)
		FROM transactions t
		JOIN products p ON p.id = t.product_id
		WHERE ` + salesIn + `
		GROUP BY p.id
		ORDER BY 3 DESC, p.name
		LIMIT $3
	`

	return queryAll(ctx, s.db, "top products", func(rows *sql.Rows) (report.ProductSales, error) {
		var ps report.ProductSales
		err := rows.Scan(&ps.Name, &ps.Barcode, &ps.TotalSold, &ps.TotalRevenue, &ps.TotalProfit)

		return ps, err
	}, query, p.From, p.To, limit)
}

func (s *Store) SalesByCategory(ctx context.Context, p report.Period) ([]report.CategorySales, error) {
	query := `
		SELECT COALESCE(c.name, ''), SUM(t.total_value), COUNT(*)
		FROM transactions t
		JOIN products p ON p.id = t.product_id
		LEFT JOIN categories c ON c.id = p.category_id
		WHERE ` + salesIn + `
		GROUP BY c.id, c.name
		ORDER BY 2 DESC
	`

	return queryAll(ctx, s.db, "sales by category", func(rows *sql.Rows) (report.CategorySales, error) {
		var cs report.CategorySales
		err := rows.Scan(&cs.CategoryName, &cs.TotalSales, &cs.Entries)

		return cs, err
	}, query, p.From, p.To)
}

func (s *Store) DailySales(ctx context.Context, p report.Period) ([]report.DaySales, error) {
	query := `
		SELECT t.timestamp::date, SUM(t.total_value), COUNT(*)
		FROM transactions t
		WHERE ` + salesIn + `
		GROUP BY 1
		ORDER BY 1
	`

	return queryAll(ctx, s.db, "daily sales", func(rows *sql.Rows) (report.DaySales, error) {
		var d report.DaySales
		err := rows.Scan(&d.Date, &d.Sales, &d.Entries)

		return d, err
	}, query, p.From, p.To)
}

func (s *Store) InventoryByCategory(ctx context.Context) ([]report.CategoryInventory, error) {
	query := `
		SELECT
			COALESCE(c.name, ''),
			COUNT(p.id),
			COALESCE(SUM(p.quantity), 0),
			COALESCE(SUM(p.quantity * p.cost_price), 0),
			COALESCE(SUM(p.quantity * p.retail_price), 0)
		FROM products p
		LEFT JOIN categories c ON c.id = p.category_id
		GROUP BY c.id, c.name
		ORDER BY 4 DESC
	`

	return queryAll(ctx, s.db, "inventory by category", func(rows *sql.Rows) (report.CategoryInventory, error) {
		var ci report.CategoryInventory
		err := rows.Scan(&ci.CategoryName, &ci.ProductCount, &ci.TotalUnits, &ci.CostValue, &ci.RetailValue)

		return ci, err
	}, query)
}

func (s *Store) Turnover(ctx context.Context, p report.Period, limit int) ([]report.Turnover, error) {
	query := `
		SELECT
			p.name,
			p.barcode,
			p.quantity,
			COALESCE(SUM(t.quantity) FILTER (WHERE t.transaction_type = 'sale'), 0) AS units_sold,
			COALESCE(SUM(t.quantity) FILTER (WHERE t.transaction_type = 'receiving'), 0),
			CASE
				WHEN p.quantity > 0 THEN ROUND(
					COALESCE(SUM(t.quantity) FILTER (WHERE t.transaction_type = 'sale'), 0)::numeric / p.quantity, 2)
				ELSE 0
			END
		FROM products p
		LEFT JOIN transactions t ON t.product_id = p.id
			AND t.timestamp >= $1 AND t.timestamp < $2
		GROUP BY p.id
		HAVING COALESCE(SUM(t.quantity) FILTER (WHERE t.transaction_type = 'sale'), 0) > 0
		ORDER BY 6 DESC, p.name
		LIMIT $3
	`

	return queryAll(ctx, s.db, "turnover", func(rows *sql.Rows) (report.Turnover, error) {
		var tr report.Turnover
		err := rows.Scan(&tr.Name, &tr.Barcode, &tr.Quantity, &tr.UnitsSold, &tr.UnitsReceived, &tr.TurnoverRatio)

		return tr, err
	}, query, p.From, p.To, limit)
}

func (s *Store) ProfitByMonth(ctx context.Context, p report.Period) ([]report.Profit, error) {
	query := `
		SELECT
			to_char(date_trunc('month', t.timestamp), 'YYYY-MM'),
			SUM(t.total_value),
			COALESCE(SUM(t.quantity * p.cost_price), 0)
		FROM transactions t
		LEFT JOIN products p ON p.id = t.product_id
		WHERE ` + salesIn + `
		GROUP BY 1
		ORDER BY 1
	`

	return queryAll(ctx, s.db, "profit by month", func(rows *sql.Rows) (report.Profit, error) {
		var pr report.Profit
		err := rows.Scan(&pr.Month, &pr.Revenue, &pr.Cost)

		return pr, err
	}, query, p.From, p.To)
}

func (s *Store) ProfitByCategory(ctx context.Context, p report.Period) ([]report.Profit, error) {
	query := `
		SELECT COALESCE(c.name, ''), SUM(t.total_value), SUM(t.quantity * p.cost_price)
		FROM transactions t
		JOIN products p ON p.id = t.product_id
		LEFT JOIN categories c ON c.id = p.category_id
		WHERE ` + salesIn + `
		GROUP BY c.id, c.name
	`

	return queryAll(ctx, s.db, "profit by category", func(rows *sql.Rows) (report.Profit, error) {
		var pr report.Profit
		err := rows.Scan(&pr.Name, &pr.Revenue, &pr.Cost)

		return pr, err
	}, query, p.From, p.To)
}

func (s *Store) ProfitByProduct(ctx context.Context, p report.Period) ([]report.Profit, error) {
	query := `
		SELECT p.barcode, p.name, SUM(t.quantity), SUM(t.total_value), SUM(t.quantity * p.cost_price)
		FROM transactions t
		JOIN products p ON p.id = t.product_id
		WHERE ` + salesIn + `
		GROUP BY p.id
	`

	return queryAll(ctx, s.db, "profit by product", func(rows *sql.Rows) (report.Profit, error) {
		var pr report.Profit
		err := rows.Scan(&pr.Barcode, &pr.Name, &pr.UnitsSold, &pr.Revenue, &pr.Cost)

		return pr, err
	}, query, p.From, p.To)
}

func (s *Store) LowStock(ctx context.Context) ([]*inventory.Product, error) {
	query := `SELECT ` + invStore.ProductColumns + invStore.ProductFrom + `
		WHERE p.quantity <= p.min_stock
		ORDER BY p.quantity, p.name
	`

	return queryAll(ctx, s.db, "low stock", func(rows *sql.Rows) (*inventory.Product, error) {
		return invStore.ScanProduct(rows)
	}, query)
}

func queryAll[T any](ctx context.Context, db *sql.DB, what string, scan func(*sql.Rows) (T, error), query string, args ...any) ([]T, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, database.Classify(fmt.Errorf("querying %s: %w", what, err))
	}
	defer rows.Close()

	var out []T

	for rows.Next() {
		v, err := scan(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning %s: %w", what, err)
		}

		out = append(out, v)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating %s: %w", what, err)
	}

	return out, nil
}
