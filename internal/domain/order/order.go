// Package order implements the order aggregate: its lines, payment,
// discount, status machine, and the service orchestrating every mutation
// behind the ownership and terminal-status gates.
package order

import (
	"context"
	"fmt"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/orderdesk/api/internal/domain/coupon"
)

var (
	// ErrNotFound is returned when a requested order does not exist.
	ErrNotFound = errors.New("order not found")
	// ErrAccessDenied is returned when the actor is neither an admin nor
	// the order's owner.
	ErrAccessDenied = errors.New("access denied")
	// ErrStatusConflict is returned for any mutation of a PAID or CANCELED
	// order. There is no admin bypass.
	ErrStatusConflict = errors.New("order is PAID or CANCELED and cannot be modified")
	// ErrIntegrity is returned when the storage layer refuses a write or
	// delete because dependent rows still reference the order.
	ErrIntegrity = errors.New("cannot complete, dependent data exists")
)

// CouponAlreadyAppliedError indicates a coupon was re-applied to an order
// that already carries that exact coupon. Replacing with a different coupon
// is allowed; re-applying the same one is not.
type CouponAlreadyAppliedError struct {
	CouponID string
}

func (e *CouponAlreadyAppliedError) Error() string {
	return fmt.Sprintf("coupon %s is already applied to this order", e.CouponID)
}

// Line is a single order line. UnitPrice is captured from the catalog when
// the line is added and is not live-linked to the product.
type Line struct {
	ProductID string
	Quantity  int
	UnitPrice decimal.Decimal
}

// Subtotal returns UnitPrice multiplied by Quantity.
func (l Line) Subtotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Payment records the single payment attached to an order.
type Payment struct {
	ID      string
	OrderID string
	PaidAt  time.Time
	Method  PaymentMethod
}

// Order is the aggregate root. Items are unique by product id, Discount and
// Payment are at most one each, and once Status is terminal the whole
// aggregate is frozen.
type Order struct {
	ID       string
	PlacedAt time.Time
	Status   Status
	OwnerID  string
	Items    []Line
	Discount *coupon.Coupon
	Payment  *Payment
}

// AssertMutable fails with ErrStatusConflict when the order is in a
// terminal status. Every mutating operation calls this after the access
// check; re-setting the same value is no exception.
func (o *Order) AssertMutable() error {
	if o.Status.Terminal() {
		return ErrStatusConflict
	}
	return nil
}

// AttachPayment wires the payment into the aggregate and, when the payment
// carries a method, transitions the order to PAID in the same step. The
// caller must already have verified the order is mutable.
func (o *Order) AttachPayment(p *Payment) {
	p.OrderID = o.ID
	o.Payment = p
	if p.Method != 0 {
		o.Status = StatusPaid
	}
}

// Filter narrows an order listing. Zero values mean "no constraint".
type Filter struct {
	OwnerID string
	Status  *Status
}

// Repository defines persistence operations for the order aggregate.
// Save persists the aggregate as a whole, including lines, discount
// reference, and payment, in one transaction.
type Repository interface {
	FindByID(ctx context.Context, id string) (*Order, error)
	FindAll(ctx context.Context, f Filter) ([]Order, error)
	Save(ctx context.Context, o *Order) error
	DeleteByID(ctx context.Context, id string) error
}
