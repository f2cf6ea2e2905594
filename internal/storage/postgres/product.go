package postgres

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/orderdesk/api/internal/domain/category"
	"github.com/orderdesk/api/internal/domain/product"
)

const (
	getProductByIDSQL = `SELECT id, name, description, price
		FROM products WHERE id = $1`

	listProductsSQL = `SELECT id, name, description, price
		FROM products ORDER BY name`

	getProductCategoriesSQL = `SELECT c.id, c.name
		FROM categories c
		JOIN product_categories pc ON pc.category_id = c.id
		WHERE pc.product_id = $1
		ORDER BY c.name`

	upsertProductSQL = `INSERT INTO products (id, name, description, price)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			description = EXCLUDED.description,
			price = EXCLUDED.price`

	clearProductCategoriesSQL = `DELETE FROM product_categories WHERE product_id = $1`

	insertProductCategorySQL = `INSERT INTO product_categories (product_id, category_id)
		VALUES ($1, $2)`

	deleteProductSQL = `DELETE FROM products WHERE id = $1`
)

var _ product.Repository = (*ProductRepository)(nil)

// ProductRepository implements product.Repository backed by PostgreSQL.
type ProductRepository struct {
	pool *pgxpool.Pool
}

// NewProductRepository returns a ProductRepository that uses the given pool.
func NewProductRepository(pool *pgxpool.Pool) *ProductRepository {
	return &ProductRepository{pool: pool}
}

// FindByID returns the product with its categories, or product.ErrNotFound.
func (r *ProductRepository) FindByID(ctx context.Context, id string) (*product.Product, error) {
	rows, err := r.pool.Query(ctx, getProductByIDSQL, id)
	if err != nil {
		return nil, fmt.Errorf("finding product %q: %w", id, err)
	}

	p, err := pgx.CollectExactlyOneRow(rows, scanProduct)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, product.ErrNotFound
		}
		return nil, fmt.Errorf("finding product %q: %w", id, err)
	}

	p.Categories, err = r.categoriesOf(ctx, id)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// FindAll returns the catalog ordered by name, categories included.
func (r *ProductRepository) FindAll(ctx context.Context) ([]product.Product, error) {
	rows, err := r.pool.Query(ctx, listProductsSQL)
	if err != nil {
		return nil, fmt.Errorf("listing products: %w", err)
	}

	products, err := pgx.CollectRows(rows, scanProduct)
	if err != nil {
		return nil, fmt.Errorf("listing products: %w", err)
	}

	for i := range products {
		products[i].Categories, err = r.categoriesOf(ctx, products[i].ID)
		if err != nil {
			return nil, err
		}
	}
	return products, nil
}

// Save upserts the product and rewrites its category links in one
// transaction.
func (r *ProductRepository) Save(ctx context.Context, p *product.Product, categoryIDs []string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	if _, err := tx.Exec(ctx, upsertProductSQL, p.ID, p.Name, p.Description, p.Price); err != nil {
		return fmt.Errorf("saving product %q: %w", p.ID, err)
	}
	if _, err := tx.Exec(ctx, clearProductCategoriesSQL, p.ID); err != nil {
		return fmt.Errorf("clearing categories of product %q: %w", p.ID, err)
	}
	for _, catID := range categoryIDs {
		if _, err := tx.Exec(ctx, insertProductCategorySQL, p.ID, catID); err != nil {
			if pgErrCode(err) == pgForeignKeyViolation {
				return category.ErrNotFound
			}
			return fmt.Errorf("linking product %q to category %q: %w", p.ID, catID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing product %q: %w", p.ID, err)
	}
	return nil
}

// DeleteByID removes the product and its category links. A foreign-key
// violation from order lines maps to product.ErrInUse.
func (r *ProductRepository) DeleteByID(ctx context.Context, id string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	if _, err := tx.Exec(ctx, clearProductCategoriesSQL, id); err != nil {
		return fmt.Errorf("clearing categories of product %q: %w", id, err)
	}
	tag, err := tx.Exec(ctx, deleteProductSQL, id)
	if err != nil {
		if pgErrCode(err) == pgForeignKeyViolation {
			return product.ErrInUse
		}
		return fmt.Errorf("deleting product %q: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return product.ErrNotFound
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing delete of product %q: %w", id, err)
	}
	return nil
}

func (r *ProductRepository) categoriesOf(ctx context.Context, productID string) ([]category.Category, error) {
	rows, err := r.pool.Query(ctx, getProductCategoriesSQL, productID)
	if err != nil {
		return nil, fmt.Errorf("listing categories of product %q: %w", productID, err)
	}

	cats, err := pgx.CollectRows(rows, pgx.RowToStructByPos[category.Category])
	if err != nil {
		return nil, fmt.Errorf("listing categories of product %q: %w", productID, err)
	}
	return cats, nil
}

func scanProduct(row pgx.CollectableRow) (product.Product, error) {
	var p product.Product
	err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Price)
	return p, err
}
