// Package category holds the product category entity and its CRUD service.
package category

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
)

var (
	// ErrNotFound is returned when a requested category does not exist.
	ErrNotFound = errors.New("category not found")
	// ErrInUse is returned when a category cannot be deleted because
	// products still reference it.
	ErrInUse = errors.New("category is referenced by existing products")
)

// Category groups products in the catalog.
type Category struct {
	ID   string
	Name string
}

// Repository defines persistence operations for categories.
type Repository interface {
	FindByID(ctx context.Context, id string) (*Category, error)
	FindAll(ctx context.Context) ([]Category, error)
	Save(ctx context.Context, c *Category) error
	DeleteByID(ctx context.Context, id string) error
}

// Service provides category CRUD on top of a Repository.
type Service struct {
	categories Repository
}

// NewService creates a category Service.
func NewService(categories Repository) *Service {
	return &Service{categories: categories}
}

// Create persists a new category with a generated id.
func (s *Service) Create(ctx context.Context, name string) (*Category, error) {
	if name == "" {
		return nil, errors.New("category name required")
	}
	c := &Category{ID: uuid.New().String(), Name: name}
	if err := s.categories.Save(ctx, c); err != nil {
		return nil, errors.Wrap(err, "save category")
	}
	return c, nil
}

// Get returns the category with the given id.
func (s *Service) Get(ctx context.Context, id string) (*Category, error) {
	return s.categories.FindByID(ctx, id)
}

// List returns all categories.
func (s *Service) List(ctx context.Context) ([]Category, error) {
	return s.categories.FindAll(ctx)
}

// Update renames an existing category.
func (s *Service) Update(ctx context.Context, id, name string) (*Category, error) {
	c, err := s.categories.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if name != "" {
		c.Name = name
	}
	if err := s.categories.Save(ctx, c); err != nil {
		return nil, errors.Wrap(err, "save category")
	}
	return c, nil
}

// Delete removes a category. Deleting a category still referenced by
// products fails with ErrInUse.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.categories.DeleteByID(ctx, id)
}
