package stock_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/shoplite/internal/apperr"
	"github.com/MrJamesThe3rd/shoplite/internal/database"
	"github.com/MrJamesThe3rd/shoplite/internal/http/stock"
	"github.com/MrJamesThe3rd/shoplite/internal/inventory"
)

func milk(qty int) *inventory.Product {
	return &inventory.Product{
		ID:          1,
		Barcode:     "5201",
		Name:        "Milk 1L",
		Quantity:    qty,
		CostPrice:   decimal.RequireFromString("0.80"),
		RetailPrice: decimal.RequireFromString("1.20"),
	}
}

func newRouter(repo inventory.Repository) http.Handler {
	h := stock.NewHandler(inventory.NewService(repo, database.RetryPolicy{}))

	r := chi.NewRouter()
	r.Route("/stock", h.Routes)
	r.Route("/sales", h.SaleRoutes)

	return r
}

func TestHandler(t *testing.T) {
	type testCase struct {
		name       string
		path       string
		body       string
		setupMock  func(repo *inventory.MockRepository, tx *inventory.MockTx)
		wantStatus int
		check      func(t *testing.T, body map[string]any)
	}

	tests := []testCase{
		{
			name: "Receive",
			path: "/stock/receive",
			body: `{"barcode":"5201","quantity":4}`,
			setupMock: func(repo *inventory.MockRepository, tx *inventory.MockTx) {
				repo.EXPECT().Begin(gomock.Any()).Return(tx, nil)
				tx.EXPECT().ProductByBarcode(gomock.Any(), "5201").Return(milk(2), nil)
				tx.EXPECT().AdjustQuantity(gomock.Any(), int64(1), 4).Return(milk(6), nil)
				tx.EXPECT().CreateEntry(gomock.Any(), gomock.Any()).Return(nil)
				tx.EXPECT().Commit().Return(nil)
				tx.EXPECT().Rollback().Return(nil)
			},
			wantStatus: http.StatusOK,
			check: func(t *testing.T, body map[string]any) {
				assert.Equal(t, true, body["success"])
				assert.Equal(t, "Received 4 units of Milk 1L", body["message"])

				product, ok := body["product"].(map[string]any)
				require.True(t, ok)
				assert.EqualValues(t, 6, product["quantity"])
			},
		},
		{
			name:       "ReceiveZeroQuantity",
			path:       "/stock/receive",
			body:       `{"barcode":"5201","quantity":0}`,
			wantStatus: http.StatusBadRequest,
			check: func(t *testing.T, body map[string]any) {
				assert.Equal(t, string(apperr.KindValidation), body["kind"])
				assert.Equal(t, "quantity", body["field"])
			},
		},
		{
			name: "RemoveMoreThanOnHand",
			path: "/stock/remove",
			body: `{"barcode":"5201","quantity":3}`,
			setupMock: func(repo *inventory.MockRepository, tx *inventory.MockTx) {
				repo.EXPECT().Begin(gomock.Any()).Return(tx, nil)
				tx.EXPECT().ProductByBarcode(gomock.Any(), "5201").Return(milk(2), nil)
				tx.EXPECT().AdjustQuantity(gomock.Any(), int64(1), -3).Return(nil, apperr.ErrInsufficientStock)
				tx.EXPECT().ProductByID(gomock.Any(), int64(1)).Return(milk(2), nil)
				tx.EXPECT().Rollback().Return(nil)
			},
			wantStatus: http.StatusConflict,
			check: func(t *testing.T, body map[string]any) {
				assert.Equal(t, string(apperr.KindInsufficientStock), body["kind"])

				product, ok := body["product"].(map[string]any)
				require.True(t, ok)
				assert.EqualValues(t, 2, product["available"])
				assert.EqualValues(t, 3, product["requested"])
			},
		},
		{
			name: "CheckUnknownBarcode",
			path: "/stock/check",
			body: `{"barcode":"404","quantity":1}`,
			setupMock: func(repo *inventory.MockRepository, _ *inventory.MockTx) {
				repo.EXPECT().ProductByBarcode(gomock.Any(), "404").Return(nil, apperr.ErrNotFound)
			},
			wantStatus: http.StatusNotFound,
			check: func(t *testing.T, body map[string]any) {
				assert.Equal(t, string(apperr.KindNotFound), body["kind"])
			},
		},
		{
			name:       "CountRequiresQuantity",
			path:       "/stock/count",
			body:       `{"barcode":"5201"}`,
			wantStatus: http.StatusBadRequest,
			check: func(t *testing.T, body map[string]any) {
				assert.Equal(t, "counted_quantity", body["field"])
			},
		},
		{
			name:       "DeltaBeyondColumn",
			path:       "/stock/changes",
			body:       `{"barcode":"5201","delta":3000000000,"type":"receiving"}`,
			wantStatus: http.StatusBadRequest,
			check: func(t *testing.T, body map[string]any) {
				assert.Equal(t, string(apperr.KindValidation), body["kind"])
				assert.Equal(t, "delta", body["field"])
			},
		},
		{
			name:       "SubCentUnitPrice",
			path:       "/stock/changes",
			body:       `{"barcode":"5201","delta":3,"unit_price":"0.125","type":"receiving"}`,
			wantStatus: http.StatusBadRequest,
			check: func(t *testing.T, body map[string]any) {
				assert.Equal(t, "unit_price", body["field"])
			},
		},
		{
			name: "CashSale",
			path: "/sales",
			body: `{"items":[{"barcode":"5201","quantity":2}],"payment_method":"CASH","payment_amount":"5.00"}`,
			setupMock: func(repo *inventory.MockRepository, tx *inventory.MockTx) {
				repo.EXPECT().Begin(gomock.Any()).Return(tx, nil)
				tx.EXPECT().ProductByBarcode(gomock.Any(), "5201").Return(milk(5), nil)
				tx.EXPECT().AdjustQuantity(gomock.Any(), int64(1), -2).Return(milk(3), nil)
				tx.EXPECT().CreateEntry(gomock.Any(), gomock.Any()).Return(nil)
				tx.EXPECT().Commit().Return(nil)
				tx.EXPECT().Rollback().Return(nil)
			},
			wantStatus: http.StatusCreated,
			check: func(t *testing.T, body map[string]any) {
				receipt, ok := body["receipt"].(map[string]any)
				require.True(t, ok)
				assert.Equal(t, "2.4", receipt["total_amount"])
				assert.Equal(t, "2.6", receipt["change"])
				assert.NotEmpty(t, receipt["receipt_id"])

				lines, ok := receipt["lines"].([]any)
				require.True(t, ok)
				require.Len(t, lines, 1)
				assert.EqualValues(t, 3, lines[0].(map[string]any)["remaining"])
			},
		},
		{
			name:       "EmptyCart",
			path:       "/sales",
			body:       `{"items":[]}`,
			wantStatus: http.StatusBadRequest,
			check: func(t *testing.T, body map[string]any) {
				assert.Equal(t, "items", body["field"])
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			repo := inventory.NewMockRepository(ctrl)
			tx := inventory.NewMockTx(ctrl)

			if tt.setupMock != nil {
				tt.setupMock(repo, tx)
			}

			req := httptest.NewRequest(http.MethodPost, tt.path, strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")

			rec := httptest.NewRecorder()
			newRouter(repo).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)

			var body map[string]any
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))

			tt.check(t, body)
		})
	}
}
