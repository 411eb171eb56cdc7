package export

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/shoplite/internal/apperr"
	"github.com/MrJamesThe3rd/shoplite/internal/catalog"
	"github.com/MrJamesThe3rd/shoplite/internal/export"
	"github.com/MrJamesThe3rd/shoplite/internal/http/respond"
	"github.com/MrJamesThe3rd/shoplite/internal/purchase"
)

type Handler struct {
	svc *export.Service
}

func NewHandler(svc *export.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/products", h.products)
	r.Get("/low-stock", h.lowStock)
	r.Get("/purchase-orders", h.orders)
	r.Get("/purchase-orders/{id}", h.order)
}

func (h *Handler) products(w http.ResponseWriter, r *http.Request) {
	var filter catalog.ProductFilter

	supplierID, err := optionalID(r, "supplier_id")
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	filter.SupplierID = supplierID

	var buf bytes.Buffer
	if err := h.svc.Products(r.Context(), &buf, filter); err != nil {
		respond.Error(w, r, err)
		return
	}

	attach(w, "text/csv; charset=utf-8", dated("products", "csv"), buf.Bytes())
}

func (h *Handler) lowStock(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := h.svc.LowStock(r.Context(), &buf); err != nil {
		respond.Error(w, r, err)
		return
	}

	attach(w, "text/csv; charset=utf-8", dated("low_stock_products", "csv"), buf.Bytes())
}

func (h *Handler) orders(w http.ResponseWriter, r *http.Request) {
	var filter purchase.ListFilter

	if s := r.URL.Query().Get("status"); s != "" {
		status, err := purchase.ParseStatus(s)
		if err != nil {
			respond.Error(w, r, err)
			return
		}

		filter.Status = new(status)
	}

	supplierID, err := optionalID(r, "supplier_id")
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	filter.SupplierID = supplierID

	var buf bytes.Buffer
	if err := h.svc.Orders(r.Context(), &buf, filter); err != nil {
		respond.Error(w, r, err)
		return
	}

	attach(w, "application/zip", dated("purchase_orders", "zip"), buf.Bytes())
}

func (h *Handler) order(w http.ResponseWriter, r *http.Request) {
	id, err := respond.IDParam(r, "id")
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	var buf bytes.Buffer

	o, err := h.svc.Order(r.Context(), &buf, id)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	attach(w, "text/csv; charset=utf-8", fmt.Sprintf("purchase_order_%s.csv", o.OrderNumber), buf.Bytes())
}

// attach sends an export that was rendered in full before any header.
func attach(w http.ResponseWriter, contentType, filename string, body []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(http.StatusOK)

	if _, err := w.Write(body); err != nil {
		slog.Error("failed to write export", "file", filename, "error", err)
	}
}

func dated(name, ext string) string {
	return fmt.Sprintf("%s_%s.%s", name, time.Now().Format("20060102"), ext)
}

func optionalID(r *http.Request, name string) (*int64, error) {
	s := r.URL.Query().Get(name)
	if s == "" {
		return nil, nil
	}

	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return nil, apperr.Invalid(name, "must be an integer")
	}

	return &id, nil
}
