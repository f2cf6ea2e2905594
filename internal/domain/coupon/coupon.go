// Package coupon holds the discount coupon entity and its CRUD service.
package coupon

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	// ErrNotFound is returned when a requested coupon does not exist.
	ErrNotFound = errors.New("coupon not found")
	// ErrInUse is returned when a coupon cannot be deleted because orders
	// still reference it.
	ErrInUse = errors.New("coupon is referenced by existing orders")
	// ErrCodeTaken is returned when a coupon code is already registered.
	ErrCodeTaken = errors.New("coupon code already exists")
	// ErrInvalidPercentage is returned when a discount percentage falls
	// outside the 1-100 range.
	ErrInvalidPercentage = errors.New("discount percentage must be between 1 and 100")
)

// Coupon is a percentage discount applicable to at most one order slot.
// Orders hold a reference, not a copy: total recalculation always reads the
// coupon's current percentage.
type Coupon struct {
	ID                 string
	Code               string
	DiscountPercentage decimal.Decimal
}

// Repository defines persistence operations for coupons.
type Repository interface {
	FindByID(ctx context.Context, id string) (*Coupon, error)
	FindByCode(ctx context.Context, code string) (*Coupon, error)
	FindAll(ctx context.Context) ([]Coupon, error)
	Save(ctx context.Context, c *Coupon) error
	DeleteByID(ctx context.Context, id string) error
}

// ValidatePercentage checks the 1-100 discount range.
func ValidatePercentage(pct decimal.Decimal) error {
	one := decimal.NewFromInt(1)
	hundred := decimal.NewFromInt(100)
	if pct.LessThan(one) || pct.GreaterThan(hundred) {
		return ErrInvalidPercentage
	}
	return nil
}

// Service provides coupon CRUD on top of a Repository.
type Service struct {
	coupons Repository
}

// NewService creates a coupon Service.
func NewService(coupons Repository) *Service {
	return &Service{coupons: coupons}
}

// Create validates and persists a new coupon.
func (s *Service) Create(ctx context.Context, code string, pct decimal.Decimal) (*Coupon, error) {
	if code == "" {
		return nil, errors.New("coupon code required")
	}
	if err := ValidatePercentage(pct); err != nil {
		return nil, err
	}
	c := &Coupon{ID: uuid.New().String(), Code: code, DiscountPercentage: pct}
	if err := s.coupons.Save(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// Get returns the coupon with the given id.
func (s *Service) Get(ctx context.Context, id string) (*Coupon, error) {
	return s.coupons.FindByID(ctx, id)
}

// List returns all coupons.
func (s *Service) List(ctx context.Context) ([]Coupon, error) {
	return s.coupons.FindAll(ctx)
}

// Update applies the non-zero fields to an existing coupon.
func (s *Service) Update(ctx context.Context, id string, code string, pct decimal.Decimal) (*Coupon, error) {
	c, err := s.coupons.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if code != "" {
		c.Code = code
	}
	if !pct.IsZero() {
		if err := ValidatePercentage(pct); err != nil {
			return nil, err
		}
		c.DiscountPercentage = pct
	}
	if err := s.coupons.Save(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// Delete removes a coupon. Deleting a coupon applied to orders fails with
// ErrInUse.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.coupons.DeleteByID(ctx, id)
}
