package purchase

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/shoplite/internal/apperr"
	"github.com/MrJamesThe3rd/shoplite/internal/http/respond"
	"github.com/MrJamesThe3rd/shoplite/internal/purchase"
)

type Handler struct {
	svc *purchase.Service
}

func NewHandler(svc *purchase.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Get("/{id}", h.get)
	r.Delete("/{id}", h.delete)
	r.Put("/{id}/status", h.updateStatus)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	var filter purchase.ListFilter

	if s := r.URL.Query().Get("status"); s != "" {
		status, err := purchase.ParseStatus(s)
		if err != nil {
			respond.Error(w, r, err)
			return
		}

		filter.Status = new(status)
	}

	if s := r.URL.Query().Get("supplier_id"); s != "" {
		id, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			respond.Error(w, r, apperr.Invalid("supplier_id", "must be an integer"))
			return
		}

		filter.SupplierID = new(id)
	}

	orders, err := h.svc.ListOrders(r.Context(), filter)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	if orders == nil {
		orders = []*purchase.Order{}
	}

	respond.OK(w, http.StatusOK, respond.Fields{"orders": orders})
}

type orderItemRequest struct {
	ProductID       *int64          `json:"product_id"`
	Barcode         string          `json:"barcode"`
	ProductName     string          `json:"product_name"`
	SupplierCode    string          `json:"supplier_code"`
	QuantityOrdered int             `json:"quantity_ordered" validate:"gte=0"`
	UnitCost        decimal.Decimal `json:"unit_cost"`
}

type createOrderRequest struct {
	SupplierID   int64              `json:"supplier_id" validate:"required"`
	Items        []orderItemRequest `json:"items" validate:"required,min=1,dive"`
	Notes        string             `json:"notes"`
	ExpectedDate string             `json:"expected_date"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createOrderRequest
	if err := respond.Decode(w, r, &req); err != nil {
		respond.Error(w, r, err)
		return
	}

	expected, err := parseDate("expected_date", req.ExpectedDate)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	items := make([]purchase.ItemParams, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, purchase.ItemParams{
			ProductID:       it.ProductID,
			Barcode:         it.Barcode,
			ProductName:     it.ProductName,
			SupplierCode:    it.SupplierCode,
			QuantityOrdered: it.QuantityOrdered,
			UnitCost:        it.UnitCost,
		})
	}

	order, err := h.svc.CreateOrder(r.Context(), purchase.CreateParams{
		SupplierID:   req.SupplierID,
		Items:        items,
		Notes:        req.Notes,
		ExpectedDate: expected,
	})
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.OK(w, http.StatusCreated, respond.Fields{
		"message":      "Purchase order created",
		"order_id":     order.ID,
		"order_number": order.OrderNumber,
		"order":        order,
	})
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := respond.IDParam(r, "id")
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	order, err := h.svc.GetOrder(r.Context(), id)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.OK(w, http.StatusOK, respond.Fields{"order": order})
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := respond.IDParam(r, "id")
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	if err := h.svc.DeleteOrder(r.Context(), id); err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.OK(w, http.StatusOK, respond.Fields{"message": "Purchase order deleted"})
}

type costOverrideRequest struct {
	ProductID int64           `json:"product_id" validate:"required"`
	NewCost   decimal.Decimal `json:"new_cost"`
}

type updateStatusRequest struct {
	Status         string                `json:"status" validate:"required"`
	InvoiceNumber  *string               `json:"invoice_number"`
	InvoiceDate    string                `json:"invoice_date"`
	ExpectedDate   string                `json:"expected_date"`
	UpdateBuyPrice bool                  `json:"update_buy_price"`
	Items          []costOverrideRequest `json:"items" validate:"dive"`
}

func (h *Handler) updateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := respond.IDParam(r, "id")
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	var req updateStatusRequest
	if err := respond.Decode(w, r, &req); err != nil {
		respond.Error(w, r, err)
		return
	}

	status, err := purchase.ParseStatus(req.Status)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	invoiceDate, err := parseDate("invoice_date", req.InvoiceDate)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	expected, err := parseDate("expected_date", req.ExpectedDate)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	params := purchase.StatusParams{
		Status:          status,
		InvoiceNumber:   req.InvoiceNumber,
		InvoiceDate:     invoiceDate,
		ExpectedDate:    expected,
		UpdateCostPrice: req.UpdateBuyPrice,
	}

	if len(req.Items) > 0 {
		params.CostOverrides = make(map[int64]decimal.Decimal, len(req.Items))
		for _, it := range req.Items {
			params.CostOverrides[it.ProductID] = it.NewCost
		}
	}

	if err := h.svc.UpdateStatus(r.Context(), id, params); err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.OK(w, http.StatusOK, respond.Fields{
		"message": "Order status updated",
		"status":  status,
	})
}

func parseDate(field, s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}

	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return nil, apperr.Invalid(field, "must be a date (YYYY-MM-DD)")
	}

	return &t, nil
}
