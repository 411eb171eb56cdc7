package transaction

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/shoplite/internal/inventory"
)

type entryResponse struct {
	ID          int64               `json:"id"`
	ProductID   *int64              `json:"product_id"`
	Barcode     string              `json:"barcode"`
	ProductName string              `json:"product_name,omitempty"`
	Type        inventory.EventType `json:"transaction_type"`
	Quantity    int                 `json:"quantity"`
	Delta       int                 `json:"delta"`
	Price       decimal.Decimal     `json:"price"`
	TotalValue  decimal.Decimal     `json:"total_value"`
	Timestamp   time.Time           `json:"timestamp"`
	Notes       string              `json:"notes"`
}

func toResponse(e *inventory.Entry) entryResponse {
	delta := e.Quantity
	if !e.Type.Inbound() {
		delta = -delta
	}

	return entryResponse{
		ID:          e.ID,
		ProductID:   e.ProductID,
		Barcode:     e.Barcode,
		ProductName: e.ProductName,
		Type:        e.Type,
		Quantity:    e.Quantity,
		Delta:       delta,
		Price:       e.Price,
		TotalValue:  e.TotalValue,
		Timestamp:   e.Timestamp,
		Notes:       e.Notes,
	}
}

func toResponseList(entries []*inventory.Entry) []entryResponse {
	resp := make([]entryResponse, len(entries))
	for i, e := range entries {
		resp[i] = toResponse(e)
	}

	return resp
}
