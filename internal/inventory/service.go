package inventory

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/shoplite/internal/apperr"
	"github.com/MrJamesThe3rd/shoplite/internal/database"
)

const (
	defaultEntryLimit = 100
	maxEntryLimit     = 1000
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=inventory
type Repository interface {
	Begin(ctx context.Context) (Tx, error)
	ProductByBarcode(ctx context.Context, barcode string) (*Product, error)
	ListEntries(ctx context.Context, filter EntryFilter) ([]*Entry, error)
}

// Tx is a unit of work over products and the ledger. Lookups return
// apperr.ErrNotFound for unknown products. AdjustQuantity returns
// apperr.ErrInsufficientStock when the change would take quantity below zero.
type Tx interface {
	ProductByID(ctx context.Context, id int64) (*Product, error)
	ProductByBarcode(ctx context.Context, barcode string) (*Product, error)
	LockProduct(ctx context.Context, barcode string) (*Product, error)
	AdjustQuantity(ctx context.Context, id int64, delta int) (*Product, error)
	CreateEntry(ctx context.Context, e *Entry) error
	Commit() error
	Rollback() error
}

// Service is the only writer of product quantities and ledger entries.
type Service struct {
	repo  Repository
	retry database.RetryPolicy
}

func NewService(repo Repository, retry database.RetryPolicy) *Service {
	return &Service{repo: repo, retry: retry}
}

// ApplyStockChange applies c in its own unit of work.
func (s *Service) ApplyStockChange(ctx context.Context, c Change) (*Product, error) {
	if err := c.validate(); err != nil {
		return nil, err
	}

	var updated *Product

	err := s.inTx(ctx, func(ctx context.Context, tx Tx) error {
		p, err := s.Apply(ctx, tx, c)
		if err != nil {
			return err
		}

		updated = p

		return nil
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

// Apply applies c on a unit of work owned by the caller. Nothing is
// committed or rolled back here.
func (s *Service) Apply(ctx context.Context, tx Tx, c Change) (*Product, error) {
	if err := c.validate(); err != nil {
		return nil, err
	}

	var (
		p   *Product
		err error
	)

	if c.ProductID != 0 {
		p, err = tx.ProductByID(ctx, c.ProductID)
	} else {
		p, err = tx.ProductByBarcode(ctx, c.Barcode)
	}

	if err != nil {
		return nil, err
	}

	return s.adjust(ctx, tx, p, c)
}

func (s *Service) adjust(ctx context.Context, tx Tx, p *Product, c Change) (*Product, error) {
	updated, err := tx.AdjustQuantity(ctx, p.ID, c.Delta)
	if errors.Is(err, apperr.ErrInsufficientStock) {
		current, err := tx.ProductByID(ctx, p.ID)
		if err != nil {
			return nil, err
		}

		return nil, &apperr.InsufficientStockError{
			Barcode:   current.Barcode,
			Name:      current.Name,
			Available: current.Quantity,
			Requested: c.magnitude(),
		}
	}

	if err != nil {
		return nil, fmt.Errorf("adjusting stock of %s: %w", p.Barcode, err)
	}

	qty := c.magnitude()
	id := updated.ID
	entry := &Entry{
		ProductID:  &id,
		Barcode:    updated.Barcode,
		Type:       c.Type,
		Quantity:   qty,
		Price:      c.UnitPrice,
		TotalValue: c.UnitPrice.Mul(decimal.NewFromInt(int64(qty))),
		Notes:      c.Note,
	}

	if err := tx.CreateEntry(ctx, entry); err != nil {
		return nil, fmt.Errorf("recording %s of %s: %w", c.Type, p.Barcode, err)
	}

	return updated, nil
}

// QuickReceive books qty units in at the product's cost price.
func (s *Service) QuickReceive(ctx context.Context, barcode string, qty int) (*Product, error) {
	if err := validateScan(barcode, qty); err != nil {
		return nil, err
	}

	return s.scan(ctx, barcode, func(p *Product) Change {
		return Change{
			ProductID: p.ID,
			Delta:     qty,
			UnitPrice: p.CostPrice,
			Type:      TypeReceiving,
			Note:      fmt.Sprintf("Quick receiving - %d units", qty),
		}
	})
}

// RemoveStock books qty units out as a sale at the product's retail price.
func (s *Service) RemoveStock(ctx context.Context, barcode string, qty int) (*Product, error) {
	if err := validateScan(barcode, qty); err != nil {
		return nil, err
	}

	return s.scan(ctx, barcode, func(p *Product) Change {
		return Change{
			ProductID: p.ID,
			Delta:     -qty,
			UnitPrice: p.RetailPrice,
			Type:      TypeSale,
			Note:      fmt.Sprintf("Stock removal - %d units", qty),
		}
	})
}

func (s *Service) scan(ctx context.Context, barcode string, change func(p *Product) Change) (*Product, error) {
	var updated *Product

	err := s.inTx(ctx, func(ctx context.Context, tx Tx) error {
		p, err := tx.ProductByBarcode(ctx, barcode)
		if err != nil {
			return err
		}

		updated, err = s.adjust(ctx, tx, p, change(p))

		return err
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

// CheckAvailability reports whether qty units of the product can be sold
// right now. It does not reserve anything.
func (s *Service) CheckAvailability(ctx context.Context, barcode string, qty int) (*Product, error) {
	if err := validateScan(barcode, qty); err != nil {
		return nil, err
	}

	p, err := s.repo.ProductByBarcode(ctx, barcode)
	if err != nil {
		return nil, err
	}

	if p.Quantity < qty {
		return nil, &apperr.InsufficientStockError{
			Barcode:   p.Barcode,
			Name:      p.Name,
			Available: p.Quantity,
			Requested: qty,
		}
	}

	return p, nil
}

// Recount sets the on-hand quantity to the counted figure, recording the
// difference as an adjustment at cost price.
func (s *Service) Recount(ctx context.Context, barcode string, counted int, note string) (*Product, error) {
	if err := validateCount(barcode, counted); err != nil {
		return nil, err
	}

	var updated *Product

	err := s.inTx(ctx, func(ctx context.Context, tx Tx) error {
		p, err := s.ApplyCount(ctx, tx, barcode, counted, note)
		if err != nil {
			return err
		}

		updated = p

		return nil
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

// ApplyCount is Recount on a unit of work owned by the caller. The product
// row stays locked until that unit of work ends.
func (s *Service) ApplyCount(ctx context.Context, tx Tx, barcode string, counted int, note string) (*Product, error) {
	if err := validateCount(barcode, counted); err != nil {
		return nil, err
	}

	p, err := tx.LockProduct(ctx, barcode)
	if err != nil {
		return nil, err
	}

	delta := counted - p.Quantity
	if delta == 0 {
		return p, nil
	}

	typ := TypeAdjustmentIn
	if delta < 0 {
		typ = TypeAdjustmentOut
	}

	if note == "" {
		note = fmt.Sprintf("Stock count - %d to %d units", p.Quantity, counted)
	}

	return s.adjust(ctx, tx, p, Change{
		ProductID: p.ID,
		Delta:     delta,
		UnitPrice: p.CostPrice,
		Type:      typ,
		Note:      note,
	})
}

func (s *Service) ListEntries(ctx context.Context, filter EntryFilter) ([]*Entry, error) {
	switch {
	case filter.Limit <= 0:
		filter.Limit = defaultEntryLimit
	case filter.Limit > maxEntryLimit:
		filter.Limit = maxEntryLimit
	}

	if filter.From != nil && filter.To != nil && filter.To.Before(*filter.From) {
		return nil, apperr.Invalid("to", "must not be before from")
	}

	return s.repo.ListEntries(ctx, filter)
}

type SaleItem struct {
	Barcode  string
	Quantity int
}

type SaleParams struct {
	Items         []SaleItem
	PaymentMethod string
	// TotalAmount is what the customer is charged. Zero means the sum of
	// the priced lines.
	TotalAmount decimal.Decimal
	// PaymentAmount is what the customer handed over. Nil means TotalAmount.
	PaymentAmount *decimal.Decimal
}

type ReceiptLine struct {
	Barcode   string          `json:"barcode"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	LineTotal decimal.Decimal `json:"line_total"`
	Remaining int             `json:"remaining"`
}

type Receipt struct {
	ReceiptID     uuid.UUID       `json:"receipt_id"`
	PaymentMethod string          `json:"payment_method"`
	Lines         []ReceiptLine   `json:"lines"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	PaymentAmount decimal.Decimal `json:"payment_amount"`
	Change        decimal.Decimal `json:"change"`
}

const paymentCash = "CASH"

// ApplyCartSale sells every known line of the cart in one unit of work.
// Unknown barcodes are skipped, so a cart of unknown barcodes yields a
// receipt without lines. A line without enough stock fails the sale.
func (s *Service) ApplyCartSale(ctx context.Context, params SaleParams) (*Receipt, error) {
	if err := validateSale(params); err != nil {
		return nil, err
	}

	method := strings.TrimSpace(params.PaymentMethod)
	if method == "" {
		method = paymentCash
	}

	cash := isCash(method)

	receiptID, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("generating receipt id: %w", err)
	}

	note := fmt.Sprintf("POS Sale - Receipt: %s - %s", receiptID, method)

	var receipt *Receipt

	err = s.inTx(ctx, func(ctx context.Context, tx Tx) error {
		r := &Receipt{ReceiptID: receiptID, PaymentMethod: method, Lines: []ReceiptLine{}}

		for _, item := range params.Items {
			p, err := tx.ProductByBarcode(ctx, item.Barcode)
			if errors.Is(err, apperr.ErrNotFound) {
				continue
			}

			if err != nil {
				return err
			}

			updated, err := s.adjust(ctx, tx, p, Change{
				ProductID: p.ID,
				Delta:     -item.Quantity,
				UnitPrice: p.RetailPrice,
				Type:      TypeSale,
				Note:      note,
			})
			if err != nil {
				return err
			}

			line := ReceiptLine{
				Barcode:   p.Barcode,
				Name:      p.Name,
				Quantity:  item.Quantity,
				UnitPrice: p.RetailPrice,
				LineTotal: p.RetailPrice.Mul(decimal.NewFromInt(int64(item.Quantity))),
				Remaining: updated.Quantity,
			}
			r.Lines = append(r.Lines, line)
			r.Subtotal = r.Subtotal.Add(line.LineTotal)
		}

		r.TotalAmount = params.TotalAmount
		if r.TotalAmount.IsZero() {
			r.TotalAmount = r.Subtotal
		}

		r.PaymentAmount = r.TotalAmount
		if params.PaymentAmount != nil {
			r.PaymentAmount = *params.PaymentAmount
		}

		if cash {
			if r.PaymentAmount.LessThan(r.TotalAmount) {
				return apperr.Invalid("payment_amount", "cash payment %s is less than total %s", r.PaymentAmount, r.TotalAmount)
			}

			r.Change = r.PaymentAmount.Sub(r.TotalAmount)
		}

		receipt = r

		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "sale completed",
		"receipt_id", receipt.ReceiptID,
		"lines", len(receipt.Lines),
		"total", receipt.TotalAmount.StringFixed(2),
		"payment_method", receipt.PaymentMethod,
	)

	return receipt, nil
}

func (s *Service) inTx(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error {
	return database.Retry(ctx, s.retry, func(ctx context.Context) error {
		tx, err := s.repo.Begin(ctx)
		if err != nil {
			return fmt.Errorf("begin stock update: %w", err)
		}
		defer tx.Rollback()

		if err := fn(ctx, tx); err != nil {
			return err
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit stock update: %w", err)
		}

		return nil
	})
}

func validateScan(barcode string, qty int) error {
	if strings.TrimSpace(barcode) == "" {
		return apperr.Invalid("barcode", "is required")
	}

	if qty < 1 {
		return apperr.Invalid("quantity", "must be at least 1")
	}

	return CheckQuantity("quantity", qty)
}

func validateCount(barcode string, counted int) error {
	if strings.TrimSpace(barcode) == "" {
		return apperr.Invalid("barcode", "is required")
	}

	if counted < 0 {
		return apperr.Invalid("counted", "must not be negative")
	}

	return CheckQuantity("counted", counted)
}

func validateSale(params SaleParams) error {
	if len(params.Items) == 0 {
		return apperr.Invalid("items", "cart is empty")
	}

	for i, item := range params.Items {
		if strings.TrimSpace(item.Barcode) == "" {
			return apperr.Invalid(fmt.Sprintf("items[%d].barcode", i), "is required")
		}

		if item.Quantity < 1 {
			return apperr.Invalid(fmt.Sprintf("items[%d].quantity", i), "must be at least 1")
		}

		if err := CheckQuantity(fmt.Sprintf("items[%d].quantity", i), item.Quantity); err != nil {
			return err
		}
	}

	if err := CheckAmount("total_amount", params.TotalAmount); err != nil {
		return err
	}

	if params.PaymentAmount != nil {
		if err := CheckAmount("payment_amount", *params.PaymentAmount); err != nil {
			return err
		}
	}

	if params.PaymentAmount != nil && !params.TotalAmount.IsZero() &&
		isCash(params.PaymentMethod) && params.PaymentAmount.LessThan(params.TotalAmount) {
		return apperr.Invalid("payment_amount", "cash payment %s is less than total %s", params.PaymentAmount, params.TotalAmount)
	}

	return nil
}

// isCash treats a missing payment method as cash.
func isCash(method string) bool {
	method = strings.TrimSpace(method)
	return method == "" || strings.EqualFold(method, paymentCash)
}
