package order

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/mvolkov/storefront/internal/models"
	"github.com/mvolkov/storefront/internal/pricing"
)

var (
	ErrValidation = pricing.ErrValidation
	ErrNotFound   = pricing.ErrNotFound
	ErrConflict   = pricing.ErrConflict
)

const (
	PaymentMethodCOD     = "cod"
	PaymentMethodGateway = "gateway"
)

type ShippingInfo struct {
	Address string `json:"address"`
	City    string `json:"city"`
	State   string `json:"state"`
	Country string `json:"country"`
	Pincode string `json:"pincode"`
	Phone   string `json:"phone"`
}

type CheckoutRequest struct {
	ShippingInfo  ShippingInfo `json:"shipping_info"`
	PaymentMethod string       `json:"payment_method"`
	PaymentID     string       `json:"payment_id"`
}

type Service struct {
	DB     *gorm.DB
	Policy pricing.Policy
}

// CreateOrder assembles the order from the current cart lines in a single
// transaction: order row, order items, cart cleared. Any failure rolls back
// and leaves the cart untouched.
func (s *Service) CreateOrder(ctx context.Context, userID uint, req CheckoutRequest) (*models.Order, error) {
	if req.ShippingInfo.Address == "" || req.ShippingInfo.Pincode == "" {
		return nil, fmt.Errorf("%w: shipping address required", ErrValidation)
	}

	paymentID, paymentStatus, err := resolvePayment(req)
	if err != nil {
		return nil, err
	}

	var order models.Order

	txErr := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var items []models.CartItem
		if err := tx.Where("user_id = ?", userID).Order("id ASC").Find(&items).Error; err != nil {
			return err
		}
		if len(items) == 0 {
			return fmt.Errorf("%w: no items in cart", ErrValidation)
		}

		totals := pricing.Calculate(items, s.Policy)

		order = models.Order{
			UserID:    userID,
			Status:    models.OrderStatusProcessing,
			CreatedAt: time.Now().Unix(),

			Address: req.ShippingInfo.Address,
			City:    req.ShippingInfo.City,
			State:   req.ShippingInfo.State,
			Country: req.ShippingInfo.Country,
			Pincode: req.ShippingInfo.Pincode,
			Phone:   req.ShippingInfo.Phone,

			PaymentID:     paymentID,
			PaymentStatus: paymentStatus,

			ItemsPrice:    totals.Subtotal,
			Discount:      totals.Discount,
			TaxPrice:      totals.Tax,
			ShippingPrice: totals.Shipping,
			TotalPrice:    totals.Total,
		}
		if err := tx.Create(&order).Error; err != nil {
			return err
		}

		orderItems := make([]models.OrderItem, 0, len(items))
		for _, it := range items {
			unitPrice := it.CuttedPrice
			if unitPrice < it.Price {
				unitPrice = it.Price
			}
			orderItems = append(orderItems, models.OrderItem{
				OrderID:     order.ID,
				UserID:      userID,
				ProductID:   it.ProductID,
				Name:        it.Name,
				Image:       it.Image,
				UnitName:    it.UnitName,
				Quantity:    it.Quantity,
				UnitPrice:   it.Price,
				CuttedPrice: it.CuttedPrice,
				LineTotal:   unitPrice * it.Quantity,
			})
		}
		if err := tx.Create(&orderItems).Error; err != nil {
			return err
		}
		order.Items = orderItems

		return tx.Where("user_id = ?", userID).Delete(&models.CartItem{}).Error
	})
	if txErr != nil {
		return nil, txErr
	}

	return &order, nil
}

func resolvePayment(req CheckoutRequest) (id, status string, err error) {
	switch req.PaymentMethod {
	case PaymentMethodCOD, "":
		return fmt.Sprintf("COD-%d", time.Now().Unix()), "Processing", nil
	case PaymentMethodGateway:
		if req.PaymentID == "" {
			return "", "", fmt.Errorf("%w: payment_id required for gateway payment", ErrValidation)
		}
		return req.PaymentID, "Paid", nil
	default:
		return "", "", fmt.Errorf("%w: unknown payment method %q", ErrValidation, req.PaymentMethod)
	}
}

func (s *Service) ListOrders(ctx context.Context, userID uint, offset, limit int) ([]models.Order, error) {
	var orders []models.Order
	if err := s.DB.WithContext(ctx).
		Preload("Items").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

func (s *Service) GetOrder(ctx context.Context, userID, orderID uint) (*models.Order, error) {
	var order models.Order
	err := s.DB.WithContext(ctx).
		Preload("Items").
		Where("id = ? AND user_id = ?", orderID, userID).
		First(&order).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("order %d: %w", orderID, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// UpdateStatus advances an order along Processing -> Shipped -> Delivered.
func (s *Service) UpdateStatus(ctx context.Context, orderID uint, status string) (*models.Order, error) {
	var order models.Order
	err := s.DB.WithContext(ctx).First(&order, orderID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("order %d: %w", orderID, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}

	if !validTransition(order.Status, status) {
		return nil, fmt.Errorf("%w: cannot move order from %s to %s", ErrConflict, order.Status, status)
	}

	order.Status = status
	if err := s.DB.WithContext(ctx).Save(&order).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func validTransition(from, to string) bool {
	switch from {
	case models.OrderStatusProcessing:
		return to == models.OrderStatusShipped
	case models.OrderStatusShipped:
		return to == models.OrderStatusDelivered
	default:
		return false
	}
}
