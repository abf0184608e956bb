package cart

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/mvolkov/storefront/internal/catalog"
	"github.com/mvolkov/storefront/internal/models"
	"github.com/mvolkov/storefront/internal/pricing"
)

var (
	ErrValidation = pricing.ErrValidation
	ErrNotFound   = pricing.ErrNotFound
)

// Service owns the per-user cart. Persistence is an explicit side effect of
// every mutation, performed through the repo.
type Service struct {
	Repo    *GormRepo
	Catalog *catalog.Service
	Policy  pricing.Policy
}

func (s *Service) Get(ctx context.Context, userID uint) ([]models.CartItem, error) {
	return s.Repo.GetCart(ctx, userID)
}

func (s *Service) Totals(ctx context.Context, userID uint) (pricing.Totals, error) {
	items, err := s.Repo.GetCart(ctx, userID)
	if err != nil {
		return pricing.Totals{}, err
	}
	return pricing.Calculate(items, s.Policy), nil
}

// Add puts a product into the cart. The product is fetched fresh so the line
// snapshot never carries stale pricing; re-adding an existing product updates
// that line in place.
func (s *Service) Add(ctx context.Context, userID, productID uint, quantity int64, unitName string) (*models.CartItem, error) {
	p, err := s.Catalog.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	var selected *models.UnitVariant
	if unitName != "" {
		u, ok := catalog.FindUnit(p, unitName)
		if !ok {
			return nil, fmt.Errorf("%w: product %d has no unit %q", ErrValidation, productID, unitName)
		}
		selected = &u
	}

	existing, err := s.Repo.GetLine(ctx, userID, productID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	unit := catalog.ResolveUnit(p, selected, existing)

	if quantity < 1 {
		quantity = 1
	}
	validated, err := pricing.ValidateQuantity(quantity, unit)
	if err != nil {
		return nil, err
	}

	item := BuildLine(userID, p, unit, validated)
	if err := s.Repo.SaveLine(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// UpdateQuantity changes the quantity of an existing line, snapping to the
// unit's increment grid.
func (s *Service) UpdateQuantity(ctx context.Context, userID, productID uint, quantity int64) (*models.CartItem, error) {
	existing, err := s.Repo.GetLine(ctx, userID, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("cart line for product %d: %w", productID, ErrNotFound)
		}
		return nil, err
	}

	p, err := s.Catalog.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	unit := catalog.ResolveUnit(p, nil, existing)
	validated, err := pricing.SnapQuantity(quantity, unit)
	if err != nil {
		return nil, err
	}

	item := BuildLine(userID, p, unit, validated)
	if err := s.Repo.SaveLine(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *Service) Remove(ctx context.Context, userID, productID uint) error {
	n, err := s.Repo.DeleteLine(ctx, userID, productID)
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("cart line for product %d: %w", productID, ErrNotFound)
	}
	return nil
}

func (s *Service) Empty(ctx context.Context, userID uint) error {
	return s.Repo.DeleteAll(ctx, userID)
}

// BuildLine combines fresh product data, the resolved unit and a validated
// quantity into the persisted cart line shape.
func BuildLine(userID uint, p *models.Product, unit models.UnitVariant, quantity int64) *models.CartItem {
	return &models.CartItem{
		UserID:    userID,
		ProductID: p.ID,
		Quantity:  quantity,

		Name:        p.Name,
		Seller:      p.Seller,
		Image:       p.Image,
		Price:       unit.Price,
		CuttedPrice: unit.CuttedPrice,
		Stock:       p.Stock,

		UnitName:      unit.Name,
		UnitMinQty:    unit.MinQty,
		UnitMaxQty:    unit.MaxQty,
		UnitIncrement: unit.Increment,
		UnitIsDefault: unit.IsDefault,
	}
}
