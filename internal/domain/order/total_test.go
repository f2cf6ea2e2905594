package order

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/orderdesk/api/internal/domain/coupon"
)

func line(productID string, qty int, price string) Line {
	return Line{ProductID: productID, Quantity: qty, UnitPrice: decimal.RequireFromString(price)}
}

func TestTotal_NoItems(t *testing.T) {
	o := &Order{}
	assert.True(t, o.Total().IsZero())
}

func TestTotal_SumsLineSubtotals(t *testing.T) {
	o := &Order{Items: []Line{
		line("p1", 2, "10.50"),
		line("p2", 1, "5.25"),
	}}
	assert.Equal(t, "26.25", o.Total().StringFixed(2))
}

func TestTotal_PercentageDiscountTruncates(t *testing.T) {
	// 1431.00 minus 10% is 1287.900; the total is truncated, not rounded.
	o := &Order{
		Items:    []Line{line("p1", 1, "1431.00")},
		Discount: &coupon.Coupon{ID: "c1", DiscountPercentage: decimal.NewFromInt(10)},
	}
	assert.Equal(t, "1287.90", o.Total().StringFixed(2))
}

func TestTotal_TruncationNeverRoundsUp(t *testing.T) {
	// 10.00 minus 3% = 9.70; 9.99 minus 3% = 9.6903 -> 9.69, even though
	// rounding would also give 9.69; 0.10 minus 15% = 0.085 -> 0.08 where
	// rounding would give 0.09.
	o := &Order{
		Items:    []Line{line("p1", 1, "0.10")},
		Discount: &coupon.Coupon{ID: "c1", DiscountPercentage: decimal.NewFromInt(15)},
	}
	assert.Equal(t, "0.08", o.Total().StringFixed(2))
}

func TestTotal_FullDiscount(t *testing.T) {
	o := &Order{
		Items:    []Line{line("p1", 3, "19.99")},
		Discount: &coupon.Coupon{ID: "c1", DiscountPercentage: decimal.NewFromInt(100)},
	}
	assert.True(t, o.Total().IsZero())
}
