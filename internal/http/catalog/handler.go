package catalog

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/shoplite/internal/apperr"
	"github.com/MrJamesThe3rd/shoplite/internal/catalog"
	"github.com/MrJamesThe3rd/shoplite/internal/http/respond"
	"github.com/MrJamesThe3rd/shoplite/internal/inventory"
)

type Handler struct {
	svc *catalog.Service
}

func NewHandler(svc *catalog.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) ProductRoutes(r chi.Router) {
	r.Get("/", h.listProducts)
	r.Post("/", h.createProduct)
	r.Get("/search/{fragment}", h.searchProduct)
	r.Get("/{barcode}", h.getProduct)
	r.Put("/{barcode}", h.updateProduct)
	r.Delete("/{barcode}", h.deleteProduct)
}

func (h *Handler) CategoryRoutes(r chi.Router) {
	r.Get("/", h.listCategories)
	r.Post("/", h.createCategory)
	r.Delete("/{id}", h.deleteCategory)
}

func (h *Handler) SupplierRoutes(r chi.Router) {
	r.Get("/", h.listSuppliers)
	r.Post("/", h.createSupplier)
	r.Delete("/{id}", h.deleteSupplier)
}

type productRequest struct {
	Barcode      string          `json:"barcode"`
	Name         string          `json:"name" validate:"required"`
	Description  string          `json:"description"`
	Quantity     *int            `json:"quantity" validate:"omitempty,gte=0"`
	CostPrice    decimal.Decimal `json:"cost_price"`
	RetailPrice  decimal.Decimal `json:"retail_price"`
	MinStock     *int            `json:"min_stock" validate:"omitempty,gte=0"`
	CategoryID   *int64          `json:"category_id"`
	SupplierID   *int64          `json:"supplier_id"`
	SupplierCode string          `json:"supplier_code"`
}

func (req productRequest) params() catalog.ProductParams {
	return catalog.ProductParams{
		Barcode:      req.Barcode,
		Name:         req.Name,
		Description:  req.Description,
		Quantity:     req.Quantity,
		CostPrice:    req.CostPrice,
		RetailPrice:  req.RetailPrice,
		MinStock:     req.MinStock,
		CategoryID:   req.CategoryID,
		SupplierID:   req.SupplierID,
		SupplierCode: req.SupplierCode,
	}
}

func (h *Handler) listProducts(w http.ResponseWriter, r *http.Request) {
	var filter catalog.ProductFilter

	if s := r.URL.Query().Get("supplier_id"); s != "" {
		id, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			respond.Error(w, r, apperr.Invalid("supplier_id", "must be an integer"))
			return
		}

		filter.SupplierID = new(id)
	}

	products, err := h.svc.ListProducts(r.Context(), filter)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	if products == nil {
		products = []*inventory.Product{}
	}

	respond.OK(w, http.StatusOK, respond.Fields{"products": products})
}

func (h *Handler) createProduct(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if err := respond.Decode(w, r, &req); err != nil {
		respond.Error(w, r, err)
		return
	}

	p, err := h.svc.CreateProduct(r.Context(), req.params())
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.OK(w, http.StatusCreated, respond.Fields{
		"message": "Product added",
		"product": p,
	})
}

func (h *Handler) getProduct(w http.ResponseWriter, r *http.Request) {
	p, err := h.svc.GetProduct(r.Context(), chi.URLParam(r, "barcode"))
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.OK(w, http.StatusOK, respond.Fields{"product": p})
}

func (h *Handler) searchProduct(w http.ResponseWriter, r *http.Request) {
	p, err := h.svc.SearchProduct(r.Context(), chi.URLParam(r, "fragment"))
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.OK(w, http.StatusOK, respond.Fields{"product": p})
}

func (h *Handler) updateProduct(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if err := respond.Decode(w, r, &req); err != nil {
		respond.Error(w, r, err)
		return
	}

	p, err := h.svc.UpdateProduct(r.Context(), chi.URLParam(r, "barcode"), req.params())
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.OK(w, http.StatusOK, respond.Fields{
		"message": "Product updated",
		"product": p,
	})
}

func (h *Handler) deleteProduct(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteProduct(r.Context(), chi.URLParam(r, "barcode")); err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.OK(w, http.StatusOK, respond.Fields{"message": "Product deleted"})
}

func (h *Handler) listCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.svc.ListCategories(r.Context())
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	if categories == nil {
		categories = []*catalog.Category{}
	}

	respond.OK(w, http.StatusOK, respond.Fields{"categories": categories})
}

type categoryRequest struct {
	Name string `json:"name" validate:"required"`
}

func (h *Handler) createCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := respond.Decode(w, r, &req); err != nil {
		respond.Error(w, r, err)
		return
	}

	c, err := h.svc.CreateCategory(r.Context(), req.Name)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.OK(w, http.StatusCreated, respond.Fields{
		"message":  "Category added",
		"category": c,
	})
}

func (h *Handler) deleteCategory(w http.ResponseWriter, r *http.Request) {
	id, err := respond.IDParam(r, "id")
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	if err := h.svc.DeleteCategory(r.Context(), id); err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.OK(w, http.StatusOK, respond.Fields{"message": "Category deleted"})
}

func (h *Handler) listSuppliers(w http.ResponseWriter, r *http.Request) {
	suppliers, err := h.svc.ListSuppliers(r.Context())
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	if suppliers == nil {
		suppliers = []*catalog.Supplier{}
	}

	respond.OK(w, http.StatusOK, respond.Fields{"suppliers": suppliers})
}

type supplierRequest struct {
	Name  string `json:"name" validate:"required"`
	Phone string `json:"phone"`
	Email string `json:"email" validate:"omitempty,email"`
}

func (h *Handler) createSupplier(w http.ResponseWriter, r *http.Request) {
	var req supplierRequest
	if err := respond.Decode(w, r, &req); err != nil {
		respond.Error(w, r, err)
		return
	}

	s, err := h.svc.CreateSupplier(r.Context(), catalog.SupplierParams{
		Name:  req.Name,
		Phone: req.Phone,
		Email: req.Email,
	})
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.OK(w, http.StatusCreated, respond.Fields{
		"message":  "Supplier added",
		"supplier": s,
	})
}

func (h *Handler) deleteSupplier(w http.ResponseWriter, r *http.Request) {
	id, err := respond.IDParam(r, "id")
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	if err := h.svc.DeleteSupplier(r.Context(), id); err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.OK(w, http.StatusOK, respond.Fields{"message": "Supplier deleted"})
}
