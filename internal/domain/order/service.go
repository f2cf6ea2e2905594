package order

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/orderdesk/api/internal/domain/actor"
	"github.com/orderdesk/api/internal/domain/coupon"
	"github.com/orderdesk/api/internal/domain/product"
	"github.com/orderdesk/api/internal/domain/user"
)

// Service orchestrates every order operation. Each mutating entry point
// follows the same pipeline: load the aggregate, check access, check the
// order is not terminal, apply the domain operation, persist, return the
// updated aggregate.
type Service struct {
	orders   Repository
	products product.Repository
	coupons  coupon.Repository
	users    user.Repository
	now      func() time.Time
}

// NewService creates an order Service with the required collaborators.
func NewService(
	orders Repository,
	products product.Repository,
	coupons coupon.Repository,
	users user.Repository,
) *Service {
	return &Service{
		orders:   orders,
		products: products,
		coupons:  coupons,
		users:    users,
		now:      time.Now,
	}
}

// priceLookup adapts the product repository to the line-merge contract,
// normalizing the repository's not-found into ProductNotFoundError.
func (s *Service) priceLookup(ctx context.Context, productID string) (decimal.Decimal, error) {
	p, err := s.products.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, product.ErrNotFound) {
			return decimal.Zero, &ProductNotFoundError{ProductID: productID}
		}
		return decimal.Zero, errors.Wrap(err, "find product")
	}
	return p.Price, nil
}

// CreateRequest holds the input for placing a new order.
type CreateRequest struct {
	Items    []LineInput
	CouponID string
	PlacedAt time.Time
}

// Create places a new order owned by the calling actor. Lines resolve their
// products and capture catalog prices; an optional coupon is attached by
// reference. The aggregate is persisted in one shot, so an order is never
// visible without its lines.
func (s *Service) Create(ctx context.Context, act actor.Actor, req CreateRequest) (*Order, error) {
	o := &Order{
		ID:       uuid.New().String(),
		PlacedAt: req.PlacedAt,
		Status:   StatusWaitingPayment,
		OwnerID:  act.ID,
	}
	if o.PlacedAt.IsZero() {
		o.PlacedAt = s.now()
	}

	if req.CouponID != "" {
		c, err := s.coupons.FindByID(ctx, req.CouponID)
		if err != nil {
			return nil, err
		}
		o.Discount = c
	}

	if err := o.MergeLines(ctx, req.Items, s.priceLookup); err != nil {
		return nil, err
	}

	if err := s.orders.Save(ctx, o); err != nil {
		return nil, errors.Wrap(err, "save order")
	}
	return o, nil
}

// Get returns a single order. Admins see everything, other actors only
// their own orders.
func (s *Service) Get(ctx context.Context, act actor.Actor, id string) (*Order, error) {
	o, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := MustAccess(act, o); err != nil {
		return nil, err
	}
	return o, nil
}

// ListRequest holds the raw list filter. Status accepts a name or a code;
// an unrecognized value applies no status constraint.
type ListRequest struct {
	OwnerID string
	Status  string
}

// List returns orders matching the filter, scoped to the actor's own
// orders for non-admins.
func (s *Service) List(ctx context.Context, act actor.Actor, req ListRequest) ([]Order, error) {
	f := Filter{OwnerID: req.OwnerID}
	if req.Status != "" {
		if st, err := ParseStatus(req.Status); err == nil {
			f.Status = &st
		}
	}
	return s.orders.FindAll(ctx, ScopeFilter(act, f))
}

// UpdateRequest carries the core-field deltas for an order update. An
// empty CouponID clears the discount; this mirrors the full-replace
// semantics of the update operation rather than patch semantics.
type UpdateRequest struct {
	Status   string
	OwnerID  string
	CouponID string
}

// Update rewrites the order's core fields: status, owner, and discount.
// Reassigning the owner is an admin-only operation.
func (s *Service) Update(ctx context.Context, act actor.Actor, id string, req UpdateRequest) (*Order, error) {
	o, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := MustAccess(act, o); err != nil {
		return nil, err
	}
	if err := o.AssertMutable(); err != nil {
		return nil, err
	}

	if req.Status != "" {
		st, err := ParseStatus(req.Status)
		if err != nil {
			return nil, err
		}
		o.Status = st
	}
	if req.OwnerID != "" && req.OwnerID != o.OwnerID {
		if !act.IsAdmin() {
			return nil, ErrAccessDenied
		}
		u, err := s.users.FindByID(ctx, req.OwnerID)
		if err != nil {
			return nil, err
		}
		o.OwnerID = u.ID
	}
	if req.CouponID != "" {
		c, err := s.coupons.FindByID(ctx, req.CouponID)
		if err != nil {
			return nil, err
		}
		o.Discount = c
	} else {
		o.Discount = nil
	}

	if err := s.orders.Save(ctx, o); err != nil {
		return nil, errors.Wrap(err, "save order")
	}
	return o, nil
}

// UpdateItems merges the proposed lines into the order. The merge is
// additive by product id; see Order.MergeLines.
func (s *Service) UpdateItems(ctx context.Context, act actor.Actor, id string, items []LineInput) (*Order, error) {
	o, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := MustAccess(act, o); err != nil {
		return nil, err
	}
	if err := o.AssertMutable(); err != nil {
		return nil, err
	}

	if err := o.MergeLines(ctx, items, s.priceLookup); err != nil {
		return nil, err
	}

	if err := s.orders.Save(ctx, o); err != nil {
		return nil, errors.Wrap(err, "save order")
	}
	return o, nil
}

// RemoveItem deletes the line referencing the given product.
func (s *Service) RemoveItem(ctx context.Context, act actor.Actor, id, productID string) (*Order, error) {
	o, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := MustAccess(act, o); err != nil {
		return nil, err
	}
	if err := o.AssertMutable(); err != nil {
		return nil, err
	}

	if err := o.RemoveLine(productID); err != nil {
		return nil, err
	}

	if err := s.orders.Save(ctx, o); err != nil {
		return nil, errors.Wrap(err, "save order")
	}
	return o, nil
}

// SetCoupon applies or clears the order's discount. An empty couponID
// clears unconditionally and is idempotent. Re-applying the coupon the
// order already carries fails with CouponAlreadyAppliedError; applying a
// different coupon replaces the current one in a single call.
func (s *Service) SetCoupon(ctx context.Context, act actor.Actor, id, couponID string) (*Order, error) {
	o, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := MustAccess(act, o); err != nil {
		return nil, err
	}
	if err := o.AssertMutable(); err != nil {
		return nil, err
	}

	if couponID == "" {
		o.Discount = nil
	} else {
		c, err := s.coupons.FindByID(ctx, couponID)
		if err != nil {
			return nil, err
		}
		if o.Discount != nil && o.Discount.ID == couponID {
			return nil, &CouponAlreadyAppliedError{CouponID: couponID}
		}
		o.Discount = c
	}

	if err := s.orders.Save(ctx, o); err != nil {
		return nil, errors.Wrap(err, "save order")
	}
	return o, nil
}

// PaymentRequest holds the input for attaching a payment.
type PaymentRequest struct {
	Method string
	PaidAt time.Time
}

// SetPayment attaches a payment to the order. When the payment carries a
// method, the order transitions to PAID as part of the same operation;
// creating the payment and the transition are one atomic effect.
func (s *Service) SetPayment(ctx context.Context, act actor.Actor, id string, req PaymentRequest) (*Order, error) {
	o, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := MustAccess(act, o); err != nil {
		return nil, err
	}
	if err := o.AssertMutable(); err != nil {
		return nil, err
	}
	if !o.Status.Valid() {
		return nil, &InvalidStatusError{Value: o.Status.String()}
	}

	method, err := ParsePaymentMethod(req.Method)
	if err != nil {
		return nil, err
	}

	p := &Payment{
		ID:     uuid.New().String(),
		PaidAt: req.PaidAt,
		Method: method,
	}
	if p.PaidAt.IsZero() {
		p.PaidAt = s.now()
	}
	o.AttachPayment(p)

	if err := s.orders.Save(ctx, o); err != nil {
		return nil, errors.Wrap(err, "save order")
	}
	return o, nil
}

// SetStatus writes the order status directly. The value is validated
// against the recognized set; the terminal guard still applies, so a PAID
// or CANCELED order cannot be re-set, not even to the same value.
func (s *Service) SetStatus(ctx context.Context, act actor.Actor, id, status string) (*Order, error) {
	o, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := MustAccess(act, o); err != nil {
		return nil, err
	}
	if err := o.AssertMutable(); err != nil {
		return nil, err
	}

	st, err := ParseStatus(status)
	if err != nil {
		return nil, err
	}
	o.Status = st

	if err := s.orders.Save(ctx, o); err != nil {
		return nil, errors.Wrap(err, "save order")
	}
	return o, nil
}

// Delete removes an order. Dependent data (payment, discount, items) is
// detached first, then the emptied aggregate is persisted and the row
// deleted. Nothing relies on hidden cascade rules.
func (s *Service) Delete(ctx context.Context, act actor.Actor, id string) error {
	o, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := MustAccess(act, o); err != nil {
		return err
	}

	o.Payment = nil
	o.Discount = nil
	o.Items = nil
	if err := s.orders.Save(ctx, o); err != nil {
		return errors.Wrap(err, "detach order dependents")
	}
	return s.orders.DeleteByID(ctx, id)
}
