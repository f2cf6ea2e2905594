package postgres

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/orderdesk/api/internal/domain/category"
)

const (
	getCategoryByIDSQL = `SELECT id, name FROM categories WHERE id = $1`

	listCategoriesSQL = `SELECT id, name FROM categories ORDER BY name`

	upsertCategorySQL = `INSERT INTO categories (id, name)
		VALUES ($1, $2)
		ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name`

	deleteCategorySQL = `DELETE FROM categories WHERE id = $1`
)

var _ category.Repository = (*CategoryRepository)(nil)

// CategoryRepository implements category.Repository backed by PostgreSQL.
type CategoryRepository struct {
	pool *pgxpool.Pool
}

// NewCategoryRepository returns a CategoryRepository that uses the given pool.
func NewCategoryRepository(pool *pgxpool.Pool) *CategoryRepository {
	return &CategoryRepository{pool: pool}
}

// FindByID returns the category with the given id, or category.ErrNotFound.
func (r *CategoryRepository) FindByID(ctx context.Context, id string) (*category.Category, error) {
	rows, err := r.pool.Query(ctx, getCategoryByIDSQL, id)
	if err != nil {
		return nil, fmt.Errorf("finding category %q: %w", id, err)
	}

	c, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByPos[category.Category])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, category.ErrNotFound
		}
		return nil, fmt.Errorf("finding category %q: %w", id, err)
	}
	return &c, nil
}

// FindAll returns every category ordered by name.
func (r *CategoryRepository) FindAll(ctx context.Context) ([]category.Category, error) {
	rows, err := r.pool.Query(ctx, listCategoriesSQL)
	if err != nil {
		return nil, fmt.Errorf("listing categories: %w", err)
	}

	cats, err := pgx.CollectRows(rows, pgx.RowToStructByPos[category.Category])
	if err != nil {
		return nil, fmt.Errorf("listing categories: %w", err)
	}
	return cats, nil
}

// Save upserts the category.
func (r *CategoryRepository) Save(ctx context.Context, c *category.Category) error {
	_, err := r.pool.Exec(ctx, upsertCategorySQL, c.ID, c.Name)
	if err != nil {
		return fmt.Errorf("saving category %q: %w", c.ID, err)
	}
	return nil
}

// DeleteByID removes the category. A foreign-key violation (products still
// reference it) maps to category.ErrInUse.
func (r *CategoryRepository) DeleteByID(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, deleteCategorySQL, id)
	if err != nil {
		if pgErrCode(err) == pgForeignKeyViolation {
			return category.ErrInUse
		}
		return fmt.Errorf("deleting category %q: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return category.ErrNotFound
	}
	return nil
}
