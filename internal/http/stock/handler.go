package stock

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/shoplite/internal/http/respond"
	"github.com/MrJamesThe3rd/shoplite/internal/inventory"
)

type Handler struct {
	svc *inventory.Service
}

func NewHandler(svc *inventory.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/receive", h.receive)
	r.Post("/remove", h.remove)
	r.Post("/check", h.check)
	r.Post("/count", h.count)
	r.Post("/changes", h.change)
}

// SaleRoutes mounts the checkout endpoint.
func (h *Handler) SaleRoutes(r chi.Router) {
	r.Post("/", h.sale)
}

type scanRequest struct {
	Barcode  string `json:"barcode" validate:"required"`
	Quantity int    `json:"quantity" validate:"gt=0"`
}

func (h *Handler) receive(w http.ResponseWriter, r *http.Request) {
	var req scanRequest
	if err := respond.Decode(w, r, &req); err != nil {
		respond.Error(w, r, err)
		return
	}

	p, err := h.svc.QuickReceive(r.Context(), req.Barcode, req.Quantity)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.OK(w, http.StatusOK, respond.Fields{
		"message": fmt.Sprintf("Received %d units of %s", req.Quantity, p.Name),
		"product": p,
	})
}

func (h *Handler) remove(w http.ResponseWriter, r *http.Request) {
	var req scanRequest
	if err := respond.Decode(w, r, &req); err != nil {
		respond.Error(w, r, err)
		return
	}

	p, err := h.svc.RemoveStock(r.Context(), req.Barcode, req.Quantity)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.OK(w, http.StatusOK, respond.Fields{
		"message": fmt.Sprintf("Removed %d units of %s", req.Quantity, p.Name),
		"product": p,
	})
}

func (h *Handler) check(w http.ResponseWriter, r *http.Request) {
	var req scanRequest
	if err := respond.Decode(w, r, &req); err != nil {
		respond.Error(w, r, err)
		return
	}

	p, err := h.svc.CheckAvailability(r.Context(), req.Barcode, req.Quantity)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.OK(w, http.StatusOK, respond.Fields{
		"available": true,
		"product":   p,
	})
}

type countRequest struct {
	Barcode         string `json:"barcode" validate:"required"`
	CountedQuantity *int   `json:"counted_quantity" validate:"required,gte=0"`
	Note            string `json:"note"`
}

func (h *Handler) count(w http.ResponseWriter, r *http.Request) {
	var req countRequest
	if err := respond.Decode(w, r, &req); err != nil {
		respond.Error(w, r, err)
		return
	}

	p, err := h.svc.Recount(r.Context(), req.Barcode, *req.CountedQuantity, req.Note)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.OK(w, http.StatusOK, respond.Fields{
		"message": fmt.Sprintf("Stock of %s set to %d", p.Name, p.Quantity),
		"product": p,
	})
}

type changeRequest struct {
	Barcode   string          `json:"barcode" validate:"required"`
	Delta     int             `json:"delta" validate:"required"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Type      string          `json:"type" validate:"required"`
	Note      string          `json:"note"`
}

func (h *Handler) change(w http.ResponseWriter, r *http.Request) {
	var req changeRequest
	if err := respond.Decode(w, r, &req); err != nil {
		respond.Error(w, r, err)
		return
	}

	typ, err := inventory.ParseEventType(req.Type)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	p, err := h.svc.ApplyStockChange(r.Context(), inventory.Change{
		Barcode:   req.Barcode,
		Delta:     req.Delta,
		UnitPrice: req.UnitPrice,
		Type:      typ,
		Note:      req.Note,
	})
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.OK(w, http.StatusOK, respond.Fields{"product": p})
}

type saleItemRequest struct {
	Barcode  string `json:"barcode" validate:"required"`
	Quantity int    `json:"quantity" validate:"gt=0"`
}

type saleRequest struct {
	Items         []saleItemRequest `json:"items" validate:"required,min=1,dive"`
	PaymentMethod string            `json:"payment_method"`
	TotalAmount   decimal.Decimal   `json:"total_amount"`
	PaymentAmount *decimal.Decimal  `json:"payment_amount"`
}

func (h *Handler) sale(w http.ResponseWriter, r *http.Request) {
	var req saleRequest
	if err := respond.Decode(w, r, &req); err != nil {
		respond.Error(w, r, err)
		return
	}

	items := make([]inventory.SaleItem, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, inventory.SaleItem{Barcode: it.Barcode, Quantity: it.Quantity})
	}

	receipt, err := h.svc.ApplyCartSale(r.Context(), inventory.SaleParams{
		Items:         items,
		PaymentMethod: req.PaymentMethod,
		TotalAmount:   req.TotalAmount,
		PaymentAmount: req.PaymentAmount,
	})
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.OK(w, http.StatusCreated, respond.Fields{
		"message": "Sale completed",
		"receipt": receipt,
	})
}
