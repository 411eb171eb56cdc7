package importcsv

import (
	"fmt"
	"net/http"
	"slices"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/shoplite/internal/apperr"
	"github.com/MrJamesThe3rd/shoplite/internal/catalog"
	"github.com/MrJamesThe3rd/shoplite/internal/http/respond"
	"github.com/MrJamesThe3rd/shoplite/internal/importer"
)

const maxUpload = 10 << 20

type Handler struct {
	importSvc  *importer.Service
	catalogSvc *catalog.Service
}

func NewHandler(importSvc *importer.Service, catalogSvc *catalog.Service) *Handler {
	return &Handler{
		importSvc:  importSvc,
		catalogSvc: catalogSvc,
	}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/products", h.importProducts)
	r.Post("/products/preview", h.preview)
}

type rowDTO struct {
	Line         int             `json:"line"`
	Barcode      string          `json:"barcode"`
	Name         string          `json:"name"`
	Description  string          `json:"description,omitempty"`
	Quantity     *int            `json:"quantity,omitempty"`
	CostPrice    decimal.Decimal `json:"cost_price"`
	RetailPrice  decimal.Decimal `json:"retail_price"`
	MinStock     *int            `json:"min_stock,omitempty"`
	SupplierID   *int64          `json:"supplier_id,omitempty"`
	SupplierCode string          `json:"supplier_code,omitempty"`
}

func (h *Handler) importProducts(w http.ResponseWriter, r *http.Request) {
	rows, rowErrs, err := h.parseUpload(w, r)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	result := h.catalogSvc.ImportProducts(r.Context(), rows)

	result.Errors = append(result.Errors, rowErrs...)
	slices.SortStableFunc(result.Errors, func(a, b catalog.RowError) int { return a.Line - b.Line })

	respond.OK(w, http.StatusOK, respond.Fields{
		"message": fmt.Sprintf("Import finished: %d created, %d updated, %d failed",
			result.Created, result.Updated, len(result.Errors)),
		"created": result.Created,
		"updated": result.Updated,
		"errors":  result.Errors,
	})
}

// preview parses the upload without touching the catalog.
func (h *Handler) preview(w http.ResponseWriter, r *http.Request) {
	rows, rowErrs, err := h.parseUpload(w, r)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	dtos := make([]rowDTO, 0, len(rows))
	for _, row := range rows {
		dtos = append(dtos, toRowDTO(row))
	}

	if rowErrs == nil {
		rowErrs = []catalog.RowError{}
	}

	respond.OK(w, http.StatusOK, respond.Fields{
		"rows":   dtos,
		"errors": rowErrs,
	})
}

func (h *Handler) parseUpload(w http.ResponseWriter, r *http.Request) ([]catalog.ImportRow, []catalog.RowError, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUpload)

	if err := r.ParseMultipartForm(maxUpload); err != nil {
		return nil, nil, apperr.Invalid("file", "failed to parse form: %v", err)
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		return nil, nil, apperr.Invalid("file", "is required")
	}
	defer file.Close()

	opts := importer.Options{Charset: r.FormValue("charset")}

	if s := r.FormValue("supplier_id"); s != "" {
		id, err := strconv.ParseInt(s, 10, 64)
		if err != nil || id <= 0 {
			return nil, nil, apperr.Invalid("supplier_id", "must be a positive integer")
		}

		opts.SupplierID = &id
	}

	format := importer.Format(r.FormValue("format"))

	rows, rowErrs, err := h.importSvc.Import(format, file, opts)
	if err != nil {
		if apperr.KindOf(err) == apperr.KindInternal {
			return nil, nil, apperr.Invalid("file", "%v", err)
		}

		return nil, nil, err
	}

	return rows, rowErrs, nil
}

func toRowDTO(row catalog.ImportRow) rowDTO {
	p := row.Product

	return rowDTO{
		Line:         row.Line,
		Barcode:      p.Barcode,
		Name:         p.Name,
		Description:  p.Description,
		Quantity:     p.Quantity,
		CostPrice:    p.CostPrice,
		RetailPrice:  p.RetailPrice,
		MinStock:     p.MinStock,
		SupplierID:   p.SupplierID,
		SupplierCode: p.SupplierCode,
	}
}
