package order

import (
	"strings"
	"time"

	"github.com/Zhima-Mochi/storefront/internal/pkg/apperr"
	"github.com/shopspring/decimal"
)

var (
	ErrNotFound        = apperr.New(apperr.KindNotFound, "order: not found")
	ErrEmptyCart       = apperr.New(apperr.KindValidation, "order: cart must contain at least one line")
	ErrInvalidQuantity = apperr.New(apperr.KindValidation, "order: quantity must be at least one")
	ErrMissingProduct  = apperr.New(apperr.KindValidation, "order: every line needs a product id")
	ErrMissingCustomer = apperr.New(apperr.KindValidation, "order: customer id is required")
	ErrConflict        = apperr.New(apperr.KindConflict, "order: already exists")
)

// CartLine is one requested (product, quantity) pair that has not been persisted yet.
type CartLine struct {
	ProductID string
	Quantity  int
}

type Cart []CartLine

func (c Cart) Validate() error {
	if len(c) == 0 {
		return ErrEmptyCart
	}
	for _, l := range c {
		if strings.TrimSpace(l.ProductID) == "" {
			return ErrMissingProduct
		}
		if l.Quantity < 1 {
			return ErrInvalidQuantity
		}
	}
	return nil
}

// ProductIDs returns the distinct product ids in first-seen order.
func (c Cart) ProductIDs() []string {
	seen := make(map[string]struct{}, len(c))
	ids := make([]string, 0, len(c))
	for _, l := range c {
		if _, ok := seen[l.ProductID]; ok {
			continue
		}
		seen[l.ProductID] = struct{}{}
		ids = append(ids, l.ProductID)
	}
	return ids
}

// Line is a persisted order line. UnitPrice is the price snapshot taken at placement.
type Line struct {
	ProductID string
	Quantity  int
	UnitPrice decimal.Decimal
}

func (l Line) Subtotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

type Order struct {
	ID         string
	CustomerID string
	Status     Status
	Total      decimal.Decimal
	Lines      []Line
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// New builds a Processing order whose total is the sum of its line subtotals.
func New(id, customerID string, lines []Line) (*Order, error) {
	if customerID == "" {
		return nil, ErrMissingCustomer
	}
	if len(lines) == 0 {
		return nil, ErrEmptyCart
	}
	total := decimal.Zero
	for _, l := range lines {
		if l.Quantity < 1 {
			return nil, ErrInvalidQuantity
		}
		total = total.Add(l.Subtotal())
	}

	now := time.Now().UTC()
	return &Order{
		ID:         id,
		CustomerID: customerID,
		Status:     StatusProcessing,
		Total:      total,
		Lines:      append([]Line(nil), lines...),
		CreatedAt:  now,
		UpdatedAt:  now,
	}, nil
}

// SetStatus moves the order to s. Any status may follow any other.
func (o *Order) SetStatus(s Status) {
	o.Status = s
	o.touch()
}

func (o *Order) Clone() *Order {
	if o == nil {
		return nil
	}
	c := *o
	c.Lines = append([]Line(nil), o.Lines...)
	return &c
}

func (o *Order) touch() {
	o.UpdatedAt = time.Now().UTC()
}
