package pricing

import (
	"github.com/mvolkov/storefront/internal/config"
	"github.com/mvolkov/storefront/internal/models"
)

// Policy is the canonical tax/shipping policy. Rates are basis points,
// amounts paise.
type Policy struct {
	SGSTBps         int64
	CGSTBps         int64
	FreeShippingMin int64
	ShippingFlatFee int64
}

func PolicyFromConfig(c config.PricingConfig) Policy {
	return Policy{
		SGSTBps:         c.SGSTBps,
		CGSTBps:         c.CGSTBps,
		FreeShippingMin: c.FreeShippingMin,
		ShippingFlatFee: c.ShippingFlatFee,
	}
}

// Totals is derived from the current cart lines on every read, never stored.
type Totals struct {
	Subtotal int64 `json:"subtotal"`
	Discount int64 `json:"discount"`
	Tax      int64 `json:"tax"`
	Shipping int64 `json:"shipping"`
	Total    int64 `json:"total"`
}

// Calculate computes cart totals over the given lines.
//
//	subtotal = Σ cutted_price × qty
//	discount = Σ (cutted_price − price) × qty, where cutted_price > price
//	tax      = (subtotal − discount) × (SGST + CGST), half-up
//	shipping = 0 if subtotal − discount ≥ FreeShippingMin, else flat fee
//	total    = subtotal − discount + tax + shipping
func Calculate(items []models.CartItem, p Policy) Totals {
	if len(items) == 0 {
		return Totals{}
	}

	var t Totals
	for _, it := range items {
		unitPrice := it.CuttedPrice
		if unitPrice < it.Price {
			unitPrice = it.Price
		}
		t.Subtotal += unitPrice * it.Quantity
		if it.CuttedPrice > it.Price {
			t.Discount += (it.CuttedPrice - it.Price) * it.Quantity
		}
	}

	base := t.Subtotal - t.Discount
	t.Tax = applyBps(base, p.SGSTBps+p.CGSTBps)
	if base < p.FreeShippingMin {
		t.Shipping = p.ShippingFlatFee
	}
	t.Total = base + t.Tax + t.Shipping
	return t
}

// applyBps multiplies by a basis-point rate with half-up rounding.
func applyBps(amount, bps int64) int64 {
	return (amount*bps + 5000) / 10000
}
