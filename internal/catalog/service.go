package catalog

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/mvolkov/storefront/internal/models"
	"github.com/mvolkov/storefront/internal/pricing"
)

type Service struct {
	Repo *GormRepo
}

func (s *Service) GetProduct(ctx context.Context, id uint) (*models.Product, error) {
	p, err := s.Repo.GetProduct(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("product %d: %w", id, pricing.ErrNotFound)
	}
	return p, err
}

func (s *Service) ListProducts(ctx context.Context, offset, limit int) ([]models.Product, int64, error) {
	return s.Repo.ListProducts(ctx, offset, limit)
}

func (s *Service) CreateProduct(ctx context.Context, p *models.Product) error {
	if err := validateProduct(p); err != nil {
		return err
	}
	return s.Repo.CreateProduct(ctx, p)
}

func (s *Service) UpdateProduct(ctx context.Context, p *models.Product) error {
	if err := validateProduct(p); err != nil {
		return err
	}
	if _, err := s.GetProduct(ctx, p.ID); err != nil {
		return err
	}
	return s.Repo.UpdateProduct(ctx, p)
}

func (s *Service) DeleteProduct(ctx context.Context, id uint) error {
	return s.Repo.DeleteProduct(ctx, id)
}

func validateProduct(p *models.Product) error {
	if p.Name == "" {
		return fmt.Errorf("%w: name required", pricing.ErrValidation)
	}
	if p.Price < 0 {
		return fmt.Errorf("%w: price must be >= 0", pricing.ErrValidation)
	}

	defaults := 0
	for i := range p.Units {
		u := &p.Units[i]
		if u.Name == "" {
			return fmt.Errorf("%w: unit name required", pricing.ErrValidation)
		}
		if u.Price < 0 {
			return fmt.Errorf("%w: unit %q price must be >= 0", pricing.ErrValidation, u.Name)
		}
		if u.MinQty < 1 {
			u.MinQty = 1
		}
		if u.Increment < 1 {
			u.Increment = 1
		}
		if u.MaxQty > 0 && u.MaxQty < u.MinQty {
			return fmt.Errorf("%w: unit %q max_qty %d below min_qty %d", pricing.ErrValidation, u.Name, u.MaxQty, u.MinQty)
		}
		if u.IsDefault {
			defaults++
		}
	}
	if defaults > 1 {
		return fmt.Errorf("%w: at most one default unit allowed", pricing.ErrValidation)
	}
	return nil
}
