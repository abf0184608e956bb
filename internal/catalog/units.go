package catalog

import (
	"github.com/mvolkov/storefront/internal/models"
)

// FallbackUnit synthesizes the unit applied to products that define no unit
// variants at all, so a cart add never fails for lack of unit configuration.
func FallbackUnit(p *models.Product) models.UnitVariant {
	return models.UnitVariant{
		ProductID:   p.ID,
		Name:        "unit",
		Price:       p.Price,
		CuttedPrice: p.CuttedPrice,
		MinQty:      1,
		Increment:   1,
	}
}

// FindUnit looks a variant up by name in the product's current unit list.
func FindUnit(p *models.Product, name string) (models.UnitVariant, bool) {
	for _, u := range p.Units {
		if u.Name == name {
			return u, true
		}
	}
	return models.UnitVariant{}, false
}

// ResolveUnit picks the unit variant that applies to a cart line.
// Precedence: explicit selection, then the unit already chosen on the
// existing line re-resolved against fresh product data, then the variant
// flagged default, then the first declared variant, then the synthesized
// fallback.
func ResolveUnit(p *models.Product, selected *models.UnitVariant, existing *models.CartItem) models.UnitVariant {
	if selected != nil {
		return *selected
	}

	if existing != nil && existing.UnitName != "" {
		if u, ok := FindUnit(p, existing.UnitName); ok {
			return u
		}
	}

	for _, u := range p.Units {
		if u.IsDefault {
			return u
		}
	}
	if len(p.Units) > 0 {
		return p.Units[0]
	}

	return FallbackUnit(p)
}
