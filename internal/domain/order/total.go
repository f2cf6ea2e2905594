package order

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// Total derives the order's monetary total: the sum of line subtotals,
// minus the percentage discount when a coupon is applied. The result is
// truncated to two decimal places, not rounded, so 1287.909 becomes
// 1287.90.
func (o *Order) Total() decimal.Decimal {
	total := decimal.Zero
	for _, line := range o.Items {
		total = total.Add(line.Subtotal())
	}
	if o.Discount != nil {
		total = total.Sub(total.Mul(o.Discount.DiscountPercentage).Div(hundred))
	}
	return total.Truncate(2)
}
