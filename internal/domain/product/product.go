// Package product holds the catalog product entity and its CRUD service.
package product

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/orderdesk/api/internal/domain/category"
)

var (
	// ErrNotFound is returned when a requested product does not exist.
	ErrNotFound = errors.New("product not found")
	// ErrInUse is returned when a product cannot be deleted because order
	// lines still reference it.
	ErrInUse = errors.New("product is referenced by existing orders")
	// ErrInvalidPrice is returned when a product price is zero or negative.
	ErrInvalidPrice = errors.New("product price must be positive")
)

// Product is a catalog item available for purchase. Order lines capture the
// price at the time they are added; later price changes do not ripple into
// existing orders.
type Product struct {
	ID          string
	Name        string
	Description string
	Price       decimal.Decimal
	Categories  []category.Category
}

// Repository defines persistence operations for products.
type Repository interface {
	FindByID(ctx context.Context, id string) (*Product, error)
	FindAll(ctx context.Context) ([]Product, error)
	Save(ctx context.Context, p *Product, categoryIDs []string) error
	DeleteByID(ctx context.Context, id string) error
}

// CreateRequest holds the input for creating or updating a product.
type CreateRequest struct {
	Name        string
	Description string
	Price       decimal.Decimal
	CategoryIDs []string
}

// Service provides product CRUD on top of a Repository.
type Service struct {
	products   Repository
	categories category.Repository
}

// NewService creates a product Service.
func NewService(products Repository, categories category.Repository) *Service {
	return &Service{products: products, categories: categories}
}

// Create validates and persists a new product.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*Product, error) {
	if req.Name == "" {
		return nil, errors.New("product name required")
	}
	if !req.Price.IsPositive() {
		return nil, ErrInvalidPrice
	}
	cats, err := s.resolveCategories(ctx, req.CategoryIDs)
	if err != nil {
		return nil, err
	}

	p := &Product{
		ID:          uuid.New().String(),
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Categories:  cats,
	}
	if err := s.products.Save(ctx, p, req.CategoryIDs); err != nil {
		return nil, errors.Wrap(err, "save product")
	}
	return p, nil
}

// Get returns the product with the given id.
func (s *Service) Get(ctx context.Context, id string) (*Product, error) {
	return s.products.FindByID(ctx, id)
}

// List returns the full catalog.
func (s *Service) List(ctx context.Context) ([]Product, error) {
	return s.products.FindAll(ctx)
}

// Update applies the non-zero fields of req to an existing product.
func (s *Service) Update(ctx context.Context, id string, req CreateRequest) (*Product, error) {
	p, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Name != "" {
		p.Name = req.Name
	}
	if req.Description != "" {
		p.Description = req.Description
	}
	if !req.Price.IsZero() {
		if !req.Price.IsPositive() {
			return nil, ErrInvalidPrice
		}
		p.Price = req.Price
	}
	catIDs := categoryIDs(p.Categories)
	if req.CategoryIDs != nil {
		cats, err := s.resolveCategories(ctx, req.CategoryIDs)
		if err != nil {
			return nil, err
		}
		p.Categories = cats
		catIDs = req.CategoryIDs
	}
	if err := s.products.Save(ctx, p, catIDs); err != nil {
		return nil, errors.Wrap(err, "save product")
	}
	return p, nil
}

// Delete removes a product. Deleting a product referenced by order lines
// fails with ErrInUse.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.products.DeleteByID(ctx, id)
}

func (s *Service) resolveCategories(ctx context.Context, ids []string) ([]category.Category, error) {
	cats := make([]category.Category, 0, len(ids))
	for _, id := range ids {
		c, err := s.categories.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		cats = append(cats, *c)
	}
	return cats, nil
}

func categoryIDs(cats []category.Category) []string {
	ids := make([]string, len(cats))
	for i, c := range cats {
		ids[i] = c.ID
	}
	return ids
}
