package http

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/MrJamesThe3rd/shoplite/internal/http/auth"
	"github.com/MrJamesThe3rd/shoplite/internal/http/catalog"
	"github.com/MrJamesThe3rd/shoplite/internal/http/export"
	"github.com/MrJamesThe3rd/shoplite/internal/http/importcsv"
	"github.com/MrJamesThe3rd/shoplite/internal/http/purchase"
	"github.com/MrJamesThe3rd/shoplite/internal/http/report"
	"github.com/MrJamesThe3rd/shoplite/internal/http/respond"
	"github.com/MrJamesThe3rd/shoplite/internal/http/stock"
	"github.com/MrJamesThe3rd/shoplite/internal/http/transaction"
)

type Options struct {
	AllowedOrigins []string
	AuthSecret     []byte
	Timeout        time.Duration
}

type Handlers struct {
	Stock        *stock.Handler
	Transactions *transaction.Handler
	Purchase     *purchase.Handler
	Catalog      *catalog.Handler
	Report       *report.Handler
	Import       *importcsv.Handler
	Export       *export.Handler
}

// Pinger reports database liveness.
type Pinger interface {
	PingContext(ctx context.Context) error
}

var _ Pinger = (*sql.DB)(nil)

func New(h Handlers, db Pinger, opts Options) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: opts.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Request-Id"},
		ExposedHeaders: []string{"Content-Disposition", "Retry-After"},
		MaxAge:         300,
	}))

	if opts.Timeout > 0 {
		router.Use(middleware.Timeout(opts.Timeout))
	}

	router.Get("/healthz", health(db))

	router.Route("/api/v1", func(r chi.Router) {
		r.Use(auth.Middleware(opts.AuthSecret))

		r.Group(func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))

			r.Route("/stock", h.Stock.Routes)
			r.Route("/sales", h.Stock.SaleRoutes)
			r.Route("/purchase-orders", h.Purchase.Routes)
			r.Route("/products", h.Catalog.ProductRoutes)
			r.Route("/categories", h.Catalog.CategoryRoutes)
			r.Route("/suppliers", h.Catalog.SupplierRoutes)
		})

		r.Route("/transactions", h.Transactions.Routes)
		r.Route("/reports", h.Report.Routes)
		r.Route("/import", h.Import.Routes)
		r.Route("/export", h.Export.Routes)
	})

	return router
}

func health(db Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := db.PingContext(ctx); err != nil {
			respond.JSON(w, http.StatusServiceUnavailable, map[string]any{
				"success":  false,
				"status":   "unavailable",
				"database": err.Error(),
			})

			return
		}

		respond.OK(w, http.StatusOK, respond.Fields{"status": "ok"})
	}
}
