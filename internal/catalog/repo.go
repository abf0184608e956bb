package catalog

import (
	"context"

	"gorm.io/gorm"

	"github.com/mvolkov/storefront/internal/models"
)

type GormRepo struct {
	DB *gorm.DB
}

func (r *GormRepo) GetProduct(ctx context.Context, id uint) (*models.Product, error) {
	var p models.Product
	if err := r.DB.WithContext(ctx).Preload("Units").First(&p, id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *GormRepo) ListProducts(ctx context.Context, offset, limit int) ([]models.Product, int64, error) {
	var total int64
	if err := r.DB.WithContext(ctx).Model(&models.Product{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var items []models.Product
	if err := r.DB.WithContext(ctx).
		Preload("Units").
		Order("id ASC").
		Offset(offset).
		Limit(limit).
		Find(&items).Error; err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *GormRepo) CreateProduct(ctx context.Context, p *models.Product) error {
	return r.DB.WithContext(ctx).Create(p).Error
}

func (r *GormRepo) UpdateProduct(ctx context.Context, p *models.Product) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("product_id = ?", p.ID).Delete(&models.UnitVariant{}).Error; err != nil {
			return err
		}
		return tx.Session(&gorm.Session{FullSaveAssociations: true}).Save(p).Error
	})
}

func (r *GormRepo) DeleteProduct(ctx context.Context, id uint) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("product_id = ?", id).Delete(&models.UnitVariant{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Product{}, id).Error
	})
}
