package postgres

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/orderdesk/api/internal/domain/coupon"
)

const (
	getCouponByIDSQL = `SELECT id, code, discount_percentage
		FROM coupons WHERE id = $1`

	getCouponByCodeSQL = `SELECT id, code, discount_percentage
		FROM coupons WHERE UPPER(code) = UPPER($1)`

	listCouponsSQL = `SELECT id, code, discount_percentage
		FROM coupons ORDER BY code`

	upsertCouponSQL = `INSERT INTO coupons (id, code, discount_percentage)
		VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE SET
			code = EXCLUDED.code,
			discount_percentage = EXCLUDED.discount_percentage`

	deleteCouponSQL = `DELETE FROM coupons WHERE id = $1`
)

var _ coupon.Repository = (*CouponRepository)(nil)

// CouponRepository implements coupon.Repository backed by PostgreSQL.
type CouponRepository struct {
	pool *pgxpool.Pool
}

// NewCouponRepository returns a CouponRepository that uses the given pool.
func NewCouponRepository(pool *pgxpool.Pool) *CouponRepository {
	return &CouponRepository{pool: pool}
}

// FindByID returns the coupon with the given id, or coupon.ErrNotFound.
func (r *CouponRepository) FindByID(ctx context.Context, id string) (*coupon.Coupon, error) {
	rows, err := r.pool.Query(ctx, getCouponByIDSQL, id)
	if err != nil {
		return nil, fmt.Errorf("finding coupon %q: %w", id, err)
	}

	c, err := pgx.CollectExactlyOneRow(rows, scanCoupon)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, coupon.ErrNotFound
		}
		return nil, fmt.Errorf("finding coupon %q: %w", id, err)
	}
	return &c, nil
}

// FindByCode looks up a coupon by its code (case-insensitive).
func (r *CouponRepository) FindByCode(ctx context.Context, code string) (*coupon.Coupon, error) {
	rows, err := r.pool.Query(ctx, getCouponByCodeSQL, code)
	if err != nil {
		return nil, fmt.Errorf("finding coupon by code %q: %w", code, err)
	}

	c, err := pgx.CollectExactlyOneRow(rows, scanCoupon)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, coupon.ErrNotFound
		}
		return nil, fmt.Errorf("finding coupon by code %q: %w", code, err)
	}
	return &c, nil
}

// FindAll returns every coupon ordered by code.
func (r *CouponRepository) FindAll(ctx context.Context) ([]coupon.Coupon, error) {
	rows, err := r.pool.Query(ctx, listCouponsSQL)
	if err != nil {
		return nil, fmt.Errorf("listing coupons: %w", err)
	}

	coupons, err := pgx.CollectRows(rows, scanCoupon)
	if err != nil {
		return nil, fmt.Errorf("listing coupons: %w", err)
	}
	return coupons, nil
}

// Save upserts the coupon. A duplicate code maps to coupon.ErrCodeTaken.
func (r *CouponRepository) Save(ctx context.Context, c *coupon.Coupon) error {
	_, err := r.pool.Exec(ctx, upsertCouponSQL, c.ID, c.Code, c.DiscountPercentage)
	if err != nil {
		if pgErrCode(err) == pgUniqueViolation {
			return coupon.ErrCodeTaken
		}
		return fmt.Errorf("saving coupon %q: %w", c.ID, err)
	}
	return nil
}

// DeleteByID removes the coupon. A foreign-key violation (orders still
// reference it) maps to coupon.ErrInUse.
func (r *CouponRepository) DeleteByID(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, deleteCouponSQL, id)
	if err != nil {
		if pgErrCode(err) == pgForeignKeyViolation {
			return coupon.ErrInUse
		}
		return fmt.Errorf("deleting coupon %q: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return coupon.ErrNotFound
	}
	return nil
}

func scanCoupon(row pgx.CollectableRow) (coupon.Coupon, error) {
	var c coupon.Coupon
	err := row.Scan(&c.ID, &c.Code, &c.DiscountPercentage)
	return c, err
}
