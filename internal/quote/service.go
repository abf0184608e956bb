package quote

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mvolkov/storefront/internal/models"
	"github.com/mvolkov/storefront/internal/pricing"
)

var (
	ErrValidation = pricing.ErrValidation
	ErrNotFound   = pricing.ErrNotFound
	ErrConflict   = pricing.ErrConflict
)

type SubmitItem struct {
	ProductID uint   `json:"product_id"`
	UnitName  string `json:"unit_name"`
	Quantity  int64  `json:"quantity"`
}

type SubmitRequest struct {
	Items   []SubmitItem `json:"items"`
	Message string       `json:"message"`
}

type ReviewItem struct {
	ProductID   uint  `json:"product_id"`
	QuotedPrice int64 `json:"quoted_price"`
}

type ReviewRequest struct {
	Status string       `json:"status"`
	Note   string       `json:"note"`
	Items  []ReviewItem `json:"items"`
}

type Service struct {
	DB *gorm.DB
}

func (s *Service) Submit(ctx context.Context, userID uint, req SubmitRequest) (*models.Quote, error) {
	if len(req.Items) == 0 {
		return nil, fmt.Errorf("%w: items required", ErrValidation)
	}

	items := make([]models.QuoteItem, 0, len(req.Items))
	for _, it := range req.Items {
		if it.ProductID == 0 {
			return nil, fmt.Errorf("%w: product_id required", ErrValidation)
		}
		if it.Quantity < 1 {
			return nil, fmt.Errorf("%w: quantity must be > 0", ErrValidation)
		}
		items = append(items, models.QuoteItem{
			ProductID: it.ProductID,
			UnitName:  it.UnitName,
			Quantity:  it.Quantity,
		})
	}

	q := &models.Quote{
		Reference: uuid.NewString(),
		UserID:    userID,
		Status:    models.QuoteStatusPending,
		Message:   req.Message,
		CreatedAt: time.Now().Unix(),
		Items:     items,
	}
	if err := s.DB.WithContext(ctx).Create(q).Error; err != nil {
		return nil, err
	}
	return q, nil
}

func (s *Service) ListForUser(ctx context.Context, userID uint) ([]models.Quote, error) {
	var quotes []models.Quote
	if err := s.DB.WithContext(ctx).
		Preload("Items").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&quotes).Error; err != nil {
		return nil, err
	}
	return quotes, nil
}

func (s *Service) ListPending(ctx context.Context) ([]models.Quote, error) {
	var quotes []models.Quote
	if err := s.DB.WithContext(ctx).
		Preload("Items").
		Where("status = ?", models.QuoteStatusPending).
		Order("created_at ASC").
		Find(&quotes).Error; err != nil {
		return nil, err
	}
	return quotes, nil
}

// Review resolves a pending quote. Approval may carry quoted prices per item.
func (s *Service) Review(ctx context.Context, quoteID uint, req ReviewRequest) (*models.Quote, error) {
	if req.Status != models.QuoteStatusApproved && req.Status != models.QuoteStatusRejected {
		return nil, fmt.Errorf("%w: status must be %q or %q", ErrValidation, models.QuoteStatusApproved, models.QuoteStatusRejected)
	}

	var q models.Quote
	err := s.DB.WithContext(ctx).Preload("Items").First(&q, quoteID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("quote %d: %w", quoteID, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}

	if q.Status != models.QuoteStatusPending {
		return nil, fmt.Errorf("%w: quote already %s", ErrConflict, q.Status)
	}

	quoted := make(map[uint]int64, len(req.Items))
	for _, it := range req.Items {
		quoted[it.ProductID] = it.QuotedPrice
	}

	txErr := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		q.Status = req.Status
		q.ReviewNote = req.Note
		if err := tx.Save(&q).Error; err != nil {
			return err
		}
		for i := range q.Items {
			if price, ok := quoted[q.Items[i].ProductID]; ok {
				q.Items[i].QuotedPrice = price
				if err := tx.Save(&q.Items[i]).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}
	return &q, nil
}
