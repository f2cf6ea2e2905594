package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/orderdesk/api/internal/domain/coupon"
	"github.com/orderdesk/api/internal/domain/order"
)

const (
	getOrderByIDSQL = `SELECT o.id, o.placed_at, o.status, o.owner_id,
			c.id, c.code, c.discount_percentage
		FROM orders o
		LEFT JOIN coupons c ON c.id = o.coupon_id
		WHERE o.id = $1`

	listOrdersSQL = `SELECT o.id, o.placed_at, o.status, o.owner_id,
			c.id, c.code, c.discount_percentage
		FROM orders o
		LEFT JOIN coupons c ON c.id = o.coupon_id`

	getOrderItemsSQL = `SELECT product_id, quantity, unit_price
		FROM order_items WHERE order_id = $1`

	getOrderPaymentSQL = `SELECT id, order_id, paid_at, method
		FROM payments WHERE order_id = $1`

	upsertOrderSQL = `INSERT INTO orders (id, placed_at, status, owner_id, coupon_id)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE SET
			placed_at = EXCLUDED.placed_at,
			status = EXCLUDED.status,
			owner_id = EXCLUDED.owner_id,
			coupon_id = EXCLUDED.coupon_id`

	clearOrderItemsSQL = `DELETE FROM order_items WHERE order_id = $1`

	insertOrderItemSQL = `INSERT INTO order_items (order_id, product_id, quantity, unit_price)
		VALUES ($1, $2, $3, $4)`

	upsertPaymentSQL = `INSERT INTO payments (id, order_id, paid_at, method)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (order_id) DO UPDATE SET
			paid_at = EXCLUDED.paid_at,
			method = EXCLUDED.method`

	clearOrderPaymentSQL = `DELETE FROM payments WHERE order_id = $1`

	deleteOrderSQL = `DELETE FROM orders WHERE id = $1`
)

var _ order.Repository = (*OrderRepository)(nil)

// OrderRepository implements order.Repository backed by PostgreSQL. The
// aggregate spans three tables (orders, order_items, payments) plus the
// coupon reference; Save rewrites all of them in one transaction.
type OrderRepository struct {
	pool *pgxpool.Pool
}

// NewOrderRepository returns an OrderRepository that uses the given pool.
func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{pool: pool}
}

// FindByID loads the full aggregate, or order.ErrNotFound.
func (r *OrderRepository) FindByID(ctx context.Context, id string) (*order.Order, error) {
	rows, err := r.pool.Query(ctx, getOrderByIDSQL, id)
	if err != nil {
		return nil, fmt.Errorf("finding order %q: %w", id, err)
	}

	o, err := pgx.CollectExactlyOneRow(rows, scanOrder)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, order.ErrNotFound
		}
		return nil, fmt.Errorf("finding order %q: %w", id, err)
	}

	if err := r.loadDependents(ctx, &o); err != nil {
		return nil, err
	}
	return &o, nil
}

// FindAll returns the aggregates matching the filter, newest first.
func (r *OrderRepository) FindAll(ctx context.Context, f order.Filter) ([]order.Order, error) {
	query := listOrdersSQL
	args := make([]any, 0, 2)
	if f.OwnerID != "" {
		args = append(args, f.OwnerID)
		query += fmt.Sprintf(" WHERE o.owner_id = $%d", len(args))
	}
	if f.Status != nil {
		args = append(args, int(*f.Status))
		clause := " WHERE"
		if len(args) > 1 {
			clause = " AND"
		}
		query += fmt.Sprintf("%s o.status = $%d", clause, len(args))
	}
	query += " ORDER BY o.placed_at DESC"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing orders: %w", err)
	}

	orders, err := pgx.CollectRows(rows, scanOrder)
	if err != nil {
		return nil, fmt.Errorf("listing orders: %w", err)
	}

	for i := range orders {
		if err := r.loadDependents(ctx, &orders[i]); err != nil {
			return nil, err
		}
	}
	return orders, nil
}

// Save persists the whole aggregate in one transaction: the order row, a
// full rewrite of its lines, and the payment (upserted when present,
// deleted when absent).
func (r *OrderRepository) Save(ctx context.Context, o *order.Order) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	var couponID *string
	if o.Discount != nil {
		couponID = &o.Discount.ID
	}
	if _, err := tx.Exec(ctx, upsertOrderSQL,
		o.ID, o.PlacedAt, int(o.Status), o.OwnerID, couponID,
	); err != nil {
		return fmt.Errorf("saving order %q: %w", o.ID, err)
	}

	if _, err := tx.Exec(ctx, clearOrderItemsSQL, o.ID); err != nil {
		return fmt.Errorf("clearing items of order %q: %w", o.ID, err)
	}
	for _, line := range o.Items {
		if _, err := tx.Exec(ctx, insertOrderItemSQL,
			o.ID, line.ProductID, line.Quantity, line.UnitPrice,
		); err != nil {
			return fmt.Errorf("saving item %q of order %q: %w", line.ProductID, o.ID, err)
		}
	}

	if o.Payment != nil {
		if _, err := tx.Exec(ctx, upsertPaymentSQL,
			o.Payment.ID, o.ID, o.Payment.PaidAt, int(o.Payment.Method),
		); err != nil {
			return fmt.Errorf("saving payment of order %q: %w", o.ID, err)
		}
	} else {
		if _, err := tx.Exec(ctx, clearOrderPaymentSQL, o.ID); err != nil {
			return fmt.Errorf("clearing payment of order %q: %w", o.ID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing order %q: %w", o.ID, err)
	}
	return nil
}

// DeleteByID removes the order row. Dependents are expected to be detached
// beforehand; a remaining foreign-key reference maps to order.ErrIntegrity.
func (r *OrderRepository) DeleteByID(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, deleteOrderSQL, id)
	if err != nil {
		if pgErrCode(err) == pgForeignKeyViolation {
			return order.ErrIntegrity
		}
		return fmt.Errorf("deleting order %q: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return order.ErrNotFound
	}
	return nil
}

func (r *OrderRepository) loadDependents(ctx context.Context, o *order.Order) error {
	rows, err := r.pool.Query(ctx, getOrderItemsSQL, o.ID)
	if err != nil {
		return fmt.Errorf("loading items of order %q: %w", o.ID, err)
	}
	o.Items, err = pgx.CollectRows(rows, scanLine)
	if err != nil {
		return fmt.Errorf("loading items of order %q: %w", o.ID, err)
	}

	rows, err = r.pool.Query(ctx, getOrderPaymentSQL, o.ID)
	if err != nil {
		return fmt.Errorf("loading payment of order %q: %w", o.ID, err)
	}
	p, err := pgx.CollectExactlyOneRow(rows, scanPayment)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil
		}
		return fmt.Errorf("loading payment of order %q: %w", o.ID, err)
	}
	o.Payment = &p
	return nil
}

func scanOrder(row pgx.CollectableRow) (order.Order, error) {
	var (
		o          order.Order
		placedAt   time.Time
		status     int
		couponID   *string
		couponCode *string
		couponPct  *decimal.Decimal
	)
	err := row.Scan(
		&o.ID, &placedAt, &status, &o.OwnerID,
		&couponID, &couponCode, &couponPct,
	)
	o.PlacedAt = placedAt
	o.Status = order.Status(status)
	if couponID != nil {
		o.Discount = &coupon.Coupon{
			ID:                 *couponID,
			Code:               *couponCode,
			DiscountPercentage: *couponPct,
		}
	}
	return o, err
}

func scanLine(row pgx.CollectableRow) (order.Line, error) {
	var l order.Line
	err := row.Scan(&l.ProductID, &l.Quantity, &l.UnitPrice)
	return l, err
}

func scanPayment(row pgx.CollectableRow) (order.Payment, error) {
	var (
		p      order.Payment
		method int
	)
	err := row.Scan(&p.ID, &p.OrderID, &p.PaidAt, &method)
	p.Method = order.PaymentMethod(method)
	return p, err
}
