package purchase_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/shoplite/internal/apperr"
	"github.com/MrJamesThe3rd/shoplite/internal/database"
	"github.com/MrJamesThe3rd/shoplite/internal/inventory"
	"github.com/MrJamesThe3rd/shoplite/internal/purchase"
)

func newService(ctrl *gomock.Controller, repo purchase.Repository) *purchase.Service {
	stock := inventory.NewService(inventory.NewMockRepository(ctrl), database.RetryPolicy{})
	return purchase.NewService(repo, stock, database.RetryPolicy{})
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func product(id int64, qty int) *inventory.Product {
	return &inventory.Product{
		ID:           id,
		Barcode:      "52000" + string(rune('0'+id)),
		Name:         "Product " + string(rune('A'+id-1)),
		Quantity:     qty,
		CostPrice:    dec("1.00"),
		SupplierCode: "SUP-" + string(rune('0'+id)),
	}
}

func pendingOrder() *purchase.Order {
	return &purchase.Order{ID: 7, OrderNumber: "PO1", Status: purchase.StatusPending, TotalAmount: dec("35.00")}
}

func orderLines() []*purchase.Item {
	return []*purchase.Item{
		{ID: 70, OrderID: 7, ProductID: new(int64(1)), ProductName: "Product A", QuantityOrdered: 10, UnitCost: dec("2.00"), TotalCost: dec("20.00")},
		{ID: 71, OrderID: 7, ProductID: new(int64(2)), ProductName: "Product B", QuantityOrdered: 5, UnitCost: dec("3.00"), TotalCost: dec("15.00")},
	}
}

func TestService_CreateOrder(t *testing.T) {
	type testCase struct {
		name      string
		params    purchase.CreateParams
		setupMock func(repo *purchase.MockRepository, tx *purchase.MockTx)
		wantTotal string
		wantErr   error
	}

	tests := []testCase{
		{
			name: "Success",
			params: purchase.CreateParams{
				SupplierID: 3,
				Items: []purchase.ItemParams{
					{ProductName: "Flour 1kg", QuantityOrdered: 10, UnitCost: dec("2.00")},
					{ProductName: "Sugar 1kg", QuantityOrdered: 5, UnitCost: dec("3.00")},
				},
				Notes: " weekly ",
			},
			setupMock: func(repo *purchase.MockRepository, tx *purchase.MockTx) {
				repo.EXPECT().Begin(gomock.Any()).Return(tx, nil)
				tx.EXPECT().SupplierExists(gomock.Any(), int64(3)).Return(true, nil)
				tx.EXPECT().CreateOrder(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, o *purchase.Order) error {
						assert.Equal(t, purchase.StatusPending, o.Status)
						assert.Equal(t, "weekly", o.Notes)
						assert.Regexp(t, `^PO\d+$`, o.OrderNumber)
						o.ID = 7

						return nil
					})
				tx.EXPECT().CreateItem(gomock.Any(), gomock.Any()).Times(2).
					DoAndReturn(func(_ context.Context, item *purchase.Item) error {
						assert.Equal(t, int64(7), item.OrderID)
						return nil
					})
				tx.EXPECT().Commit().Return(nil)
				tx.EXPECT().Rollback().Return(nil)
			},
			wantTotal: "35.00",
		},
		{
			name: "UnknownSupplier",
			params: purchase.CreateParams{
				SupplierID: 9,
				Items:      []purchase.ItemParams{{ProductName: "Flour", QuantityOrdered: 1}},
			},
			setupMock: func(repo *purchase.MockRepository, tx *purchase.MockTx) {
				repo.EXPECT().Begin(gomock.Any()).Return(tx, nil)
				tx.EXPECT().SupplierExists(gomock.Any(), int64(9)).Return(false, nil)
				tx.EXPECT().Rollback().Return(nil)
			},
			wantErr: apperr.ErrNotFound,
		},
		{
			name:    "MissingSupplier",
			params:  purchase.CreateParams{Items: []purchase.ItemParams{{ProductName: "Flour"}}},
			wantErr: apperr.ErrValidation,
		},
		{
			name:    "NoLines",
			params:  purchase.CreateParams{SupplierID: 3},
			wantErr: apperr.ErrValidation,
		},
		{
			name: "NegativeCost",
			params: purchase.CreateParams{
				SupplierID: 3,
				Items:      []purchase.ItemParams{{ProductName: "Flour", QuantityOrdered: 1, UnitCost: dec("-1")}},
			},
			wantErr: apperr.ErrValidation,
		},
		{
			name: "NegativeQuantity",
			params: purchase.CreateParams{
				SupplierID: 3,
				Items:      []purchase.ItemParams{{ProductName: "Flour", QuantityOrdered: -1}},
			},
			wantErr: apperr.ErrValidation,
		},
		{
			name: "SubCentCost",
			params: purchase.CreateParams{
				SupplierID: 3,
				Items:      []purchase.ItemParams{{ProductName: "Flour", QuantityOrdered: 3, UnitCost: dec("0.125")}},
			},
			wantErr: apperr.ErrValidation,
		},
		{
			name: "QuantityBeyondColumn",
			params: purchase.CreateParams{
				SupplierID: 3,
				Items:      []purchase.ItemParams{{ProductName: "Flour", QuantityOrdered: inventory.MaxQuantity + 1}},
			},
			wantErr: apperr.ErrValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := purchase.NewMockRepository(ctrl)
			tx := purchase.NewMockTx(ctrl)

			if tt.setupMock != nil {
				tt.setupMock(repo, tx)
			}

			got, err := newService(ctrl, repo).CreateOrder(context.Background(), tt.params)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, int64(7), got.ID)
			assert.Equal(t, tt.wantTotal, got.TotalAmount.StringFixed(2))
			assert.Len(t, got.Items, len(tt.params.Items))
		})
	}
}

func TestService_CreateOrder_SnapshotsProduct(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := purchase.NewMockRepository(ctrl)
	tx := purchase.NewMockTx(ctrl)

	repo.EXPECT().Begin(gomock.Any()).Return(tx, nil)
	tx.EXPECT().SupplierExists(gomock.Any(), int64(3)).Return(true, nil)
	tx.EXPECT().ProductByID(gomock.Any(), int64(1)).Return(product(1, 4), nil)
	tx.EXPECT().CreateOrder(gomock.Any(), gomock.Any()).Return(nil)
	tx.EXPECT().CreateItem(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, item *purchase.Item) error {
			assert.Equal(t, "Product A", item.ProductName)
			assert.Equal(t, "520001", item.Barcode)
			assert.Equal(t, "SUP-1", item.SupplierCode)

			return nil
		})
	tx.EXPECT().Commit().Return(nil)
	tx.EXPECT().Rollback().Return(nil)

	_, err := newService(ctrl, repo).CreateOrder(context.Background(), purchase.CreateParams{
		SupplierID: 3,
		Items:      []purchase.ItemParams{{ProductID: new(int64(1)), QuantityOrdered: 2, UnitCost: dec("1.10")}},
	})

	require.NoError(t, err)
}

// expectReceiving sets up the stock side of receiving one line.
func expectReceiving(t *testing.T, tx *purchase.MockTx, id int64, before, qty int, price string) {
	t.Helper()

	tx.EXPECT().ProductByID(gomock.Any(), id).Return(product(id, before), nil)
	tx.EXPECT().AdjustQuantity(gomock.Any(), id, qty).Return(product(id, before+qty), nil)
	tx.EXPECT().CreateEntry(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, e *inventory.Entry) error {
			assert.Equal(t, inventory.TypeReceiving, e.Type)
			assert.Equal(t, qty, e.Quantity)
			assert.True(t, dec(price).Equal(e.Price), "price %s, want %s", e.Price, price)
			assert.Equal(t, "Purchase order receiving #PO1", e.Notes)

			return nil
		})
}

func TestService_UpdateStatus_Receive(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := purchase.NewMockRepository(ctrl)
	tx := purchase.NewMockTx(ctrl)

	repo.EXPECT().Begin(gomock.Any()).Return(tx, nil)
	tx.EXPECT().LockOrder(gomock.Any(), int64(7)).Return(pendingOrder(), nil)
	tx.EXPECT().OrderItems(gomock.Any(), int64(7)).Return(orderLines(), nil)
	expectReceiving(t, tx, 1, 0, 10, "2.00")
	expectReceiving(t, tx, 2, 3, 5, "3.00")
	tx.EXPECT().MarkItemReceived(gomock.Any(), int64(70), 10).Return(nil)
	tx.EXPECT().MarkItemReceived(gomock.Any(), int64(71), 5).Return(nil)
	tx.EXPECT().SaveReceipt(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, o *purchase.Order) error {
			assert.Equal(t, purchase.StatusReceived, o.Status)
			assert.Equal(t, "35.00", o.TotalAmount.StringFixed(2))
			require.NotNil(t, o.InvoiceNumber)
			assert.Equal(t, "INV-9", *o.InvoiceNumber)
			assert.NotNil(t, o.DateReceived)

			return nil
		})
	tx.EXPECT().Commit().Return(nil)
	tx.EXPECT().Rollback().Return(nil)

	err := newService(ctrl, repo).UpdateStatus(context.Background(), 7, purchase.StatusParams{
		Status:        purchase.StatusReceived,
		InvoiceNumber: new("INV-9"),
	})

	require.NoError(t, err)
}

func TestService_UpdateStatus_BlankInvoiceNumberIsNull(t *testing.T) {
	for name, invoice := range map[string]*string{"Empty": new(""), "Spaces": new("   "), "Absent": nil} {
		t.Run(name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := purchase.NewMockRepository(ctrl)
			tx := purchase.NewMockTx(ctrl)

			repo.EXPECT().Begin(gomock.Any()).Return(tx, nil)
			tx.EXPECT().LockOrder(gomock.Any(), int64(7)).Return(pendingOrder(), nil)
			tx.EXPECT().OrderItems(gomock.Any(), int64(7)).Return(orderLines(), nil)
			expectReceiving(t, tx, 1, 0, 10, "2.00")
			expectReceiving(t, tx, 2, 3, 5, "3.00")
			tx.EXPECT().MarkItemReceived(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).Times(2)
			tx.EXPECT().SaveReceipt(gomock.Any(), gomock.Any()).
				DoAndReturn(func(_ context.Context, o *purchase.Order) error {
					assert.Nil(t, o.InvoiceNumber)

					return nil
				})
			tx.EXPECT().Commit().Return(nil)
			tx.EXPECT().Rollback().Return(nil)

			err := newService(ctrl, repo).UpdateStatus(context.Background(), 7, purchase.StatusParams{
				Status:        purchase.StatusReceived,
				InvoiceNumber: invoice,
			})

			require.NoError(t, err)
		})
	}
}

func TestService_UpdateStatus_CostOverride(t *testing.T) {
	tests := []struct {
		name            string
		updateCostPrice bool
	}{
		{name: "UpdatesProductCost", updateCostPrice: true},
		{name: "KeepsProductCost"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := purchase.NewMockRepository(ctrl)
			tx := purchase.NewMockTx(ctrl)

			repo.EXPECT().Begin(gomock.Any()).Return(tx, nil)
			tx.EXPECT().LockOrder(gomock.Any(), int64(7)).Return(pendingOrder(), nil)
			tx.EXPECT().OrderItems(gomock.Any(), int64(7)).Return(orderLines(), nil)
			tx.EXPECT().UpdateItemCost(gomock.Any(), int64(70), gomock.Any(), gomock.Any()).
				DoAndReturn(func(_ context.Context, _ int64, unit, total decimal.Decimal) error {
					assert.Equal(t, "1.25", unit.StringFixed(2))
					assert.Equal(t, "12.50", total.StringFixed(2))

					return nil
				})
			expectReceiving(t, tx, 1, 0, 10, "1.25")
			expectReceiving(t, tx, 2, 0, 5, "3.00")
			tx.EXPECT().MarkItemReceived(gomock.Any(), gomock.Any(), gomock.Any()).Times(2).Return(nil)

			if tt.updateCostPrice {
				tx.EXPECT().SetCostPrice(gomock.Any(), int64(1), gomock.Any()).
					DoAndReturn(func(_ context.Context, _ int64, cost decimal.Decimal) error {
						assert.Equal(t, "1.25", cost.StringFixed(2))
						return nil
					})
				tx.EXPECT().SetCostPrice(gomock.Any(), int64(2), gomock.Any()).Return(nil)
			}

			tx.EXPECT().SaveReceipt(gomock.Any(), gomock.Any()).
				DoAndReturn(func(_ context.Context, o *purchase.Order) error {
					assert.Equal(t, "27.50", o.TotalAmount.StringFixed(2))
					assert.Equal(t, "1.25", o.Items[0].UnitCost.StringFixed(2))

					return nil
				})
			tx.EXPECT().Commit().Return(nil)
			tx.EXPECT().Rollback().Return(nil)

			err := newService(ctrl, repo).UpdateStatus(context.Background(), 7, purchase.StatusParams{
				Status:          purchase.StatusReceived,
				UpdateCostPrice: tt.updateCostPrice,
				CostOverrides:   map[int64]decimal.Decimal{1: dec("1.25")},
			})

			require.NoError(t, err)
		})
	}
}

func TestService_UpdateStatus_FailureMidwayRollsBack(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := purchase.NewMockRepository(ctrl)
	tx := purchase.NewMockTx(ctrl)

	repo.EXPECT().Begin(gomock.Any()).Return(tx, nil)
	tx.EXPECT().LockOrder(gomock.Any(), int64(7)).Return(pendingOrder(), nil)
	tx.EXPECT().OrderItems(gomock.Any(), int64(7)).Return(orderLines(), nil)
	expectReceiving(t, tx, 1, 0, 10, "2.00")
	tx.EXPECT().MarkItemReceived(gomock.Any(), int64(70), 10).Return(nil)
	tx.EXPECT().ProductByID(gomock.Any(), int64(2)).Return(nil, apperr.ErrBusy)
	// No Commit and no SaveReceipt: the first line's stock goes with the rollback.
	tx.EXPECT().Rollback().Return(nil)

	err := newService(ctrl, repo).UpdateStatus(context.Background(), 7, purchase.StatusParams{
		Status: purchase.StatusReceived,
	})

	assert.ErrorIs(t, err, apperr.ErrBusy)
}

func TestService_UpdateStatus_NonReceiving(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := purchase.NewMockRepository(ctrl)
	tx := purchase.NewMockTx(ctrl)

	expected := time.Date(2026, 10, 20, 0, 0, 0, 0, time.UTC)

	repo.EXPECT().Begin(gomock.Any()).Return(tx, nil)
	tx.EXPECT().LockOrder(gomock.Any(), int64(7)).Return(pendingOrder(), nil)
	tx.EXPECT().SetStatus(gomock.Any(), int64(7), purchase.StatusOrdered, &expected).Return(nil)
	tx.EXPECT().Commit().Return(nil)
	tx.EXPECT().Rollback().Return(nil)

	err := newService(ctrl, repo).UpdateStatus(context.Background(), 7, purchase.StatusParams{
		Status:       purchase.StatusOrdered,
		ExpectedDate: &expected,
	})

	require.NoError(t, err)
}

func TestService_UpdateStatus_Errors(t *testing.T) {
	tests := []struct {
		name      string
		params    purchase.StatusParams
		setupMock func(repo *purchase.MockRepository, tx *purchase.MockTx)
		wantErr   error
	}{
		{
			name:    "InvalidStatus",
			params:  purchase.StatusParams{Status: "shipped"},
			wantErr: apperr.ErrInvalidStatus,
		},
		{
			name:   "NotFound",
			params: purchase.StatusParams{Status: purchase.StatusOrdered},
			setupMock: func(repo *purchase.MockRepository, tx *purchase.MockTx) {
				repo.EXPECT().Begin(gomock.Any()).Return(tx, nil)
				tx.EXPECT().LockOrder(gomock.Any(), int64(7)).Return(nil, apperr.ErrNotFound)
				tx.EXPECT().Rollback().Return(nil)
			},
			wantErr: apperr.ErrNotFound,
		},
		{
			name:   "AlreadyReceived",
			params: purchase.StatusParams{Status: purchase.StatusReceived},
			setupMock: func(repo *purchase.MockRepository, tx *purchase.MockTx) {
				o := pendingOrder()
				o.Status = purchase.StatusReceived

				repo.EXPECT().Begin(gomock.Any()).Return(tx, nil)
				tx.EXPECT().LockOrder(gomock.Any(), int64(7)).Return(o, nil)
				tx.EXPECT().Rollback().Return(nil)
			},
			wantErr: apperr.ErrOrderLocked,
		},
		{
			name:   "Cancelled",
			params: purchase.StatusParams{Status: purchase.StatusPending},
			setupMock: func(repo *purchase.MockRepository, tx *purchase.MockTx) {
				o := pendingOrder()
				o.Status = purchase.StatusCancelled

				repo.EXPECT().Begin(gomock.Any()).Return(tx, nil)
				tx.EXPECT().LockOrder(gomock.Any(), int64(7)).Return(o, nil)
				tx.EXPECT().Rollback().Return(nil)
			},
			wantErr: apperr.ErrOrderLocked,
		},
		{
			name: "NegativeOverride",
			params: purchase.StatusParams{
				Status:        purchase.StatusReceived,
				CostOverrides: map[int64]decimal.Decimal{1: dec("-0.01")},
			},
			wantErr: apperr.ErrValidation,
		},
		{
			name: "SubCentOverride",
			params: purchase.StatusParams{
				Status:        purchase.StatusReceived,
				CostOverrides: map[int64]decimal.Decimal{1: dec("1.255")},
			},
			wantErr: apperr.ErrValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := purchase.NewMockRepository(ctrl)
			tx := purchase.NewMockTx(ctrl)

			if tt.setupMock != nil {
				tt.setupMock(repo, tx)
			}

			err := newService(ctrl, repo).UpdateStatus(context.Background(), 7, tt.params)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestService_DeleteOrder(t *testing.T) {
	tests := []struct {
		name      string
		status    purchase.Status
		lockErr   error
		wantErr   error
		wantsGone bool
	}{
		{name: "Pending", status: purchase.StatusPending, wantsGone: true},
		{name: "Cancelled", status: purchase.StatusCancelled, wantsGone: true},
		{name: "Received", status: purchase.StatusReceived, wantErr: apperr.ErrOrderLocked},
		{name: "AlreadyDeleted", lockErr: apperr.ErrNotFound, wantErr: apperr.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := purchase.NewMockRepository(ctrl)
			tx := purchase.NewMockTx(ctrl)

			repo.EXPECT().Begin(gomock.Any()).Return(tx, nil)

			if tt.lockErr != nil {
				tx.EXPECT().LockOrder(gomock.Any(), int64(7)).Return(nil, tt.lockErr)
			} else {
				o := pendingOrder()
				o.Status = tt.status
				tx.EXPECT().LockOrder(gomock.Any(), int64(7)).Return(o, nil)
			}

			if tt.wantsGone {
				tx.EXPECT().DeleteOrder(gomock.Any(), int64(7)).Return(nil)
				tx.EXPECT().Commit().Return(nil)
			}

			tx.EXPECT().Rollback().Return(nil)

			err := newService(ctrl, repo).DeleteOrder(context.Background(), 7)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			assert.NoError(t, err)
		})
	}
}

func TestParseStatus(t *testing.T) {
	tests := []struct {
		in      string
		want    purchase.Status
		wantErr bool
	}{
		{in: "received", want: purchase.StatusReceived},
		{in: " Ordered ", want: purchase.StatusOrdered},
		{in: "ΟΛΟΚΛΗΡΩΜΈΝΗ", want: purchase.StatusReceived},
		{in: "ολοκληρωμένη", want: purchase.StatusReceived},
		{in: "σε εξέλιξη", want: purchase.StatusOrdered},
		{in: "cancelled", want: purchase.StatusCancelled},
		{in: "shipped", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := purchase.ParseStatus(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, apperr.ErrInvalidStatus)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
