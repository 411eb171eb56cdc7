package transaction

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/shoplite/internal/apperr"
	"github.com/MrJamesThe3rd/shoplite/internal/http/respond"
	"github.com/MrJamesThe3rd/shoplite/internal/inventory"
)

// Handler serves the stock ledger.
type Handler struct {
	svc *inventory.Service
}

func NewHandler(svc *inventory.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFilter(r)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	entries, err := h.svc.ListEntries(r.Context(), filter)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.OK(w, http.StatusOK, respond.Fields{"transactions": toResponseList(entries)})
}

func parseFilter(r *http.Request) (inventory.EntryFilter, error) {
	q := r.URL.Query()
	filter := inventory.EntryFilter{Barcode: q.Get("barcode")}

	if s := q.Get("type"); s != "" {
		t, err := inventory.ParseEventType(s)
		if err != nil {
			return filter, err
		}

		filter.Type = new(t)
	}

	if s := q.Get("from"); s != "" {
		t, err := parseTime(s, false)
		if err != nil {
			return filter, apperr.Invalid("from", "must be a date (YYYY-MM-DD) or RFC 3339 time")
		}

		filter.From = new(t)
	}

	if s := q.Get("to"); s != "" {
		t, err := parseTime(s, true)
		if err != nil {
			return filter, apperr.Invalid("to", "must be a date (YYYY-MM-DD) or RFC 3339 time")
		}

		filter.To = new(t)
	}

	if s := q.Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			return filter, apperr.Invalid("limit", "must be an integer")
		}

		filter.Limit = n
	}

	return filter, nil
}

// parseTime accepts a bare date; as an upper bound it covers the whole day.
func parseTime(s string, endOfDay bool) (time.Time, error) {
	if t, err := time.ParseInLocation(time.DateOnly, s, time.Local); err == nil {
		if endOfDay {
			t = t.AddDate(0, 0, 1).Add(-time.Nanosecond)
		}

		return t, nil
	}

	return time.Parse(time.RFC3339, s)
}
