package order

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Axel-LeBlanc/Eatmands/internal/models"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestAggregateLines(t *testing.T) {
	tests := []struct {
		name string
		in   []LineRequest
		want []LineRequest
	}{
		{
			name: "same product same note merges",
			in: []LineRequest{
				{ProductID: 1, Quantity: 3},
				{ProductID: 1, Quantity: 3},
			},
			want: []LineRequest{{ProductID: 1, Quantity: 6}},
		},
		{
			name: "different notes stay distinct",
			in: []LineRequest{
				{ProductID: 1, Quantity: 2, Note: "no onion"},
				{ProductID: 1, Quantity: 1},
			},
			want: []LineRequest{
				{ProductID: 1, Quantity: 2, Note: "no onion"},
				{ProductID: 1, Quantity: 1},
			},
		},
		{
			name: "different products stay distinct",
			in: []LineRequest{
				{ProductID: 1, Quantity: 1},
				{ProductID: 2, Quantity: 1},
				{ProductID: 1, Quantity: 4},
			},
			want: []LineRequest{
				{ProductID: 1, Quantity: 5},
				{ProductID: 2, Quantity: 1},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := aggregateLines(tt.in)
			require.NoError(t, err)
			require.Len(t, got, len(tt.want))
			for i := range tt.want {
				assert.Equal(t, tt.want[i].ProductID, got[i].ProductID)
				assert.Equal(t, tt.want[i].Quantity, got[i].Quantity)
				assert.Equal(t, tt.want[i].Note, got[i].Note)
			}
		})
	}
}

func TestAggregateLinesRejectsBadInput(t *testing.T) {
	var vErr *ValidationError

	_, err := aggregateLines([]LineRequest{{ProductID: 1, Quantity: 0}})
	require.ErrorAs(t, err, &vErr)

	_, err = aggregateLines([]LineRequest{{ProductID: 0, Quantity: 1}})
	require.ErrorAs(t, err, &vErr)

	_, err = aggregateLines([]LineRequest{{ProductID: 1, Quantity: 1, Discount: dec("-1")}})
	require.ErrorAs(t, err, &vErr)
}

func TestPriceLines(t *testing.T) {
	products := map[uint]models.Product{
		1: {ID: 1, Name: "A", Price: dec("10.00")},
		2: {ID: 2, Name: "B", Price: dec("5.00")},
	}

	lines, sum, err := priceLines(products, []LineRequest{
		{ProductID: 1, Quantity: 2},
		{ProductID: 2, Quantity: 1, Discount: dec("1.50")},
	})
	require.NoError(t, err)
	require.Len(t, lines, 2)

	assert.True(t, lines[0].UnitPrice.Equal(dec("10.00")))
	assert.True(t, lines[1].Subtotal().Equal(dec("3.50")))
	assert.True(t, sum.Equal(dec("23.50")), "sum = %s", sum)
}

func TestPriceLinesUnknownProductFailsWholeRequest(t *testing.T) {
	products := map[uint]models.Product{1: {ID: 1, Price: dec("10.00")}}

	var vErr *ValidationError
	_, _, err := priceLines(products, []LineRequest{
		{ProductID: 1, Quantity: 1},
		{ProductID: 99, Quantity: 1},
	})
	require.ErrorAs(t, err, &vErr)
}

func TestPriceLinesRejectsDiscountAbovePrice(t *testing.T) {
	products := map[uint]models.Product{1: {ID: 1, Price: dec("3.00")}}

	var vErr *ValidationError
	_, _, err := priceLines(products, []LineRequest{
		{ProductID: 1, Quantity: 1, Discount: dec("3.01")},
	})
	require.ErrorAs(t, err, &vErr)
}

func TestCheckStock(t *testing.T) {
	products := map[uint]models.Product{
		1: {ID: 1, Name: "Paella", Stock: 5},
	}

	require.NoError(t, checkStock(products, []LineRequest{{ProductID: 1, Quantity: 5}}))

	var stockErr *InsufficientStockError
	err := checkStock(products, []LineRequest{{ProductID: 1, Quantity: 6}})
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, uint(1), stockErr.ProductID)
	assert.Equal(t, 6, stockErr.Requested)
	assert.Equal(t, 5, stockErr.Available)
}
