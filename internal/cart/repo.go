package cart

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/mvolkov/storefront/internal/models"
)

type GormRepo struct {
	DB *gorm.DB
}

func (r *GormRepo) GetCart(ctx context.Context, userID uint) ([]models.CartItem, error) {
	var items []models.CartItem
	if err := r.DB.WithContext(ctx).Where("user_id = ?", userID).Order("id ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *GormRepo) GetLine(ctx context.Context, userID, productID uint) (*models.CartItem, error) {
	var item models.CartItem
	if err := r.DB.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		First(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// SaveLine upserts a line keyed by (user_id, product_id). The existing row is
// updated in place so re-adding never duplicates a line.
func (r *GormRepo) SaveLine(ctx context.Context, item *models.CartItem) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.CartItem
		err := tx.Where("user_id = ? AND product_id = ?", item.UserID, item.ProductID).
			First(&existing).Error
		if err == nil {
			item.ID = existing.ID
			return tx.Save(item).Error
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		return tx.Create(item).Error
	})
}

func (r *GormRepo) DeleteLine(ctx context.Context, userID, productID uint) (int64, error) {
	res := r.DB.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Delete(&models.CartItem{})
	return res.RowsAffected, res.Error
}

func (r *GormRepo) DeleteAll(ctx context.Context, userID uint) error {
	return r.DB.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.CartItem{}).Error
}
