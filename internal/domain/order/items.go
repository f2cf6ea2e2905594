package order

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
)

// ProductNotFoundError indicates a referenced product does not exist in the
// catalog, or is not present on the order when removing a line.
type ProductNotFoundError struct {
	ProductID string
}

func (e *ProductNotFoundError) Error() string {
	return fmt.Sprintf("product %s not found", e.ProductID)
}

// InvalidQuantityError indicates a proposed line has a non-positive
// quantity.
type InvalidQuantityError struct {
	ProductID string
}

func (e *InvalidQuantityError) Error() string {
	return fmt.Sprintf("quantity must be greater than 0 for product %s", e.ProductID)
}

// LineInput is a proposed order-line change.
type LineInput struct {
	ProductID string
	Quantity  int
}

// PriceLookup resolves a product's current catalog price. It fails with
// ProductNotFoundError when the product does not exist.
type PriceLookup func(ctx context.Context, productID string) (decimal.Decimal, error)

// MergeLines folds the proposed lines into the order's items, keyed by
// product id. An existing line gains the proposed quantity and keeps its
// captured unit price; a new line captures the catalog price at merge time.
// The merge is additive: callers wanting "set quantity to N" must remove
// the line first.
func (o *Order) MergeLines(ctx context.Context, proposed []LineInput, lookup PriceLookup) error {
	byProduct := make(map[string]int, len(o.Items))
	for i, line := range o.Items {
		byProduct[line.ProductID] = i
	}

	for _, in := range proposed {
		if in.Quantity <= 0 {
			return &InvalidQuantityError{ProductID: in.ProductID}
		}
		if i, ok := byProduct[in.ProductID]; ok {
			o.Items[i].Quantity += in.Quantity
			continue
		}
		price, err := lookup(ctx, in.ProductID)
		if err != nil {
			return err
		}
		o.Items = append(o.Items, Line{
			ProductID: in.ProductID,
			Quantity:  in.Quantity,
			UnitPrice: price,
		})
		byProduct[in.ProductID] = len(o.Items) - 1
	}
	return nil
}

// RemoveLine deletes the line for the given product. It fails with
// ProductNotFoundError when no line references the product.
func (o *Order) RemoveLine(productID string) error {
	for i, line := range o.Items {
		if line.ProductID == productID {
			o.Items = append(o.Items[:i], o.Items[i+1:]...)
			return nil
		}
	}
	return &ProductNotFoundError{ProductID: productID}
}
