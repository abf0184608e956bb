package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mvolkov/storefront/internal/models"
)

func testPolicy() Policy {
	return Policy{
		SGSTBps:         500,
		CGSTBps:         500,
		FreeShippingMin: 50000,
		ShippingFlatFee: 10000,
	}
}

func TestCalculate_EmptyCartIsZero(t *testing.T) {
	t.Parallel()

	got := Calculate(nil, testPolicy())
	assert.Equal(t, Totals{}, got)
	assert.Equal(t, int64(0), got.Total)
}

func TestCalculate_SingleDiscountedLine(t *testing.T) {
	t.Parallel()

	// price 100.00, struck-through 120.00, quantity 2
	items := []models.CartItem{
		{Price: 10000, CuttedPrice: 12000, Quantity: 2},
	}

	p := testPolicy()
	p.FreeShippingMin = 20000 // free shipping from 200.00

	got := Calculate(items, p)
	assert.Equal(t, int64(24000), got.Subtotal)
	assert.Equal(t, int64(4000), got.Discount)
	assert.Equal(t, int64(2000), got.Tax) // 10% of 200.00
	assert.Equal(t, int64(0), got.Shipping)
	assert.Equal(t, int64(22000), got.Total)
}

func TestCalculate_FlatFeeBelowThreshold(t *testing.T) {
	t.Parallel()

	// subtotal 50.00, well below the 500.00 free-shipping mark
	items := []models.CartItem{
		{Price: 5000, CuttedPrice: 5000, Quantity: 1},
	}

	got := Calculate(items, testPolicy())
	assert.Equal(t, int64(5000), got.Subtotal)
	assert.Equal(t, int64(0), got.Discount)
	assert.Equal(t, int64(10000), got.Shipping)
}

func TestCalculate_DiscountOnlyWhenCuttedAbovePrice(t *testing.T) {
	t.Parallel()

	items := []models.CartItem{
		{Price: 10000, CuttedPrice: 8000, Quantity: 1}, // malformed: cutted below price
	}

	got := Calculate(items, testPolicy())
	assert.Equal(t, int64(10000), got.Subtotal)
	assert.Equal(t, int64(0), got.Discount)
}

func TestCalculate_TotalIdentity(t *testing.T) {
	t.Parallel()

	carts := [][]models.CartItem{
		{{Price: 9999, CuttedPrice: 12345, Quantity: 3}},
		{
			{Price: 100, CuttedPrice: 150, Quantity: 7},
			{Price: 25000, CuttedPrice: 25000, Quantity: 2},
			{Price: 1, CuttedPrice: 3, Quantity: 999},
		},
		{{Price: 50000, CuttedPrice: 60000, Quantity: 1}},
	}

	for _, items := range carts {
		got := Calculate(items, testPolicy())
		assert.Equal(t, got.Total, got.Subtotal-got.Discount+got.Tax+got.Shipping)
	}
}

func TestCalculate_FreeShippingAtExactThreshold(t *testing.T) {
	t.Parallel()

	items := []models.CartItem{
		{Price: 50000, CuttedPrice: 50000, Quantity: 1},
	}

	got := Calculate(items, testPolicy())
	assert.Equal(t, int64(0), got.Shipping)
}

func TestCalculate_TaxRoundsHalfUp(t *testing.T) {
	t.Parallel()

	// base 5 paise at 10% -> 0.5 paise -> rounds to 1
	items := []models.CartItem{
		{Price: 5, CuttedPrice: 5, Quantity: 1},
	}

	got := Calculate(items, testPolicy())
	assert.Equal(t, int64(1), got.Tax)
}
