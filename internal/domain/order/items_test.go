package order

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedPrices(prices map[string]string) PriceLookup {
	return func(_ context.Context, productID string) (decimal.Decimal, error) {
		p, ok := prices[productID]
		if !ok {
			return decimal.Zero, &ProductNotFoundError{ProductID: productID}
		}
		return decimal.RequireFromString(p), nil
	}
}

func TestMergeLines_AddsNewLine(t *testing.T) {
	o := &Order{}
	err := o.MergeLines(context.Background(), []LineInput{
		{ProductID: "p1", Quantity: 2},
	}, fixedPrices(map[string]string{"p1": "10.00"}))
	require.NoError(t, err)

	require.Len(t, o.Items, 1)
	assert.Equal(t, 2, o.Items[0].Quantity)
	assert.Equal(t, "10.00", o.Items[0].UnitPrice.StringFixed(2))
}

func TestMergeLines_Additive(t *testing.T) {
	o := &Order{Items: []Line{line("p1", 3, "10.00")}}

	err := o.MergeLines(context.Background(), []LineInput{
		{ProductID: "p1", Quantity: 2},
	}, fixedPrices(map[string]string{"p1": "12.00"}))
	require.NoError(t, err)

	require.Len(t, o.Items, 1)
	assert.Equal(t, 5, o.Items[0].Quantity)
	// Existing lines keep their captured price; the lookup is not consulted.
	assert.Equal(t, "10.00", o.Items[0].UnitPrice.StringFixed(2))
}

func TestMergeLines_MultipleProposalsForSameProduct(t *testing.T) {
	o := &Order{}
	err := o.MergeLines(context.Background(), []LineInput{
		{ProductID: "p1", Quantity: 1},
		{ProductID: "p1", Quantity: 4},
	}, fixedPrices(map[string]string{"p1": "10.00"}))
	require.NoError(t, err)

	require.Len(t, o.Items, 1)
	assert.Equal(t, 5, o.Items[0].Quantity)
}

func TestMergeLines_RejectsNonPositiveQuantity(t *testing.T) {
	for _, qty := range []int{0, -1} {
		o := &Order{}
		err := o.MergeLines(context.Background(), []LineInput{
			{ProductID: "p1", Quantity: qty},
		}, fixedPrices(map[string]string{"p1": "10.00"}))

		var iq *InvalidQuantityError
		require.ErrorAs(t, err, &iq, "quantity %d", qty)
		assert.Equal(t, "p1", iq.ProductID)
	}
}

func TestMergeLines_UnknownProduct(t *testing.T) {
	o := &Order{}
	err := o.MergeLines(context.Background(), []LineInput{
		{ProductID: "ghost", Quantity: 1},
	}, fixedPrices(nil))

	var pnf *ProductNotFoundError
	require.ErrorAs(t, err, &pnf)
	assert.Equal(t, "ghost", pnf.ProductID)
}

func TestRemoveLine(t *testing.T) {
	o := &Order{Items: []Line{line("p1", 1, "10.00"), line("p2", 2, "5.00")}}

	require.NoError(t, o.RemoveLine("p1"))
	require.Len(t, o.Items, 1)
	assert.Equal(t, "p2", o.Items[0].ProductID)

	var pnf *ProductNotFoundError
	require.ErrorAs(t, o.RemoveLine("p1"), &pnf)
}
