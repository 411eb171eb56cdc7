package report

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/shoplite/internal/http/respond"
	"github.com/MrJamesThe3rd/shoplite/internal/report"
)

type Handler struct {
	svc *report.Service
	now func() time.Time
}

func NewHandler(svc *report.Service) *Handler {
	return &Handler{svc: svc, now: time.Now}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/stats", h.stats)
	r.Get("/sales-overview", h.salesOverview)
	r.Get("/inventory-metrics", h.inventoryMetrics)
	r.Get("/profit-analysis", h.profitAnalysis)
	r.Get("/low-stock", h.lowStock)
}

func (h *Handler) stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.svc.Stats(r.Context(), h.now())
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.OK(w, http.StatusOK, respond.Fields{"stats": stats})
}

func (h *Handler) salesOverview(w http.ResponseWriter, r *http.Request) {
	overview, err := h.svc.SalesOverview(r.Context(), h.now())
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.OK(w, http.StatusOK, respond.Fields{"overview": overview})
}

func (h *Handler) inventoryMetrics(w http.ResponseWriter, r *http.Request) {
	metrics, err := h.svc.InventoryMetrics(r.Context(), h.now())
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.OK(w, http.StatusOK, respond.Fields{"metrics": metrics})
}

func (h *Handler) profitAnalysis(w http.ResponseWriter, r *http.Request) {
	analysis, err := h.svc.ProfitAnalysis(r.Context(), h.now())
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.OK(w, http.StatusOK, respond.Fields{"analysis": analysis})
}

func (h *Handler) lowStock(w http.ResponseWriter, r *http.Request) {
	products, err := h.svc.LowStock(r.Context())
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.OK(w, http.StatusOK, respond.Fields{
		"count":    len(products),
		"products": products,
	})
}
