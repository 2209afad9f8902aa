package repositories

import (
	"errors"
	"fmt"
	"time"

	"storefront/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GORMOrderRepository is a GORM implementation of OrderRepository.
type GORMOrderRepository struct {
	db *gorm.DB
}

func NewGORMOrderRepository(db *gorm.DB) *GORMOrderRepository {
	return &GORMOrderRepository{db: db}
}

func (r *GORMOrderRepository) GetByUserID(userID int) ([]models.Order, error) {
	var orders []models.Order
	if err := r.db.Preload("Items").Where("user_id = ?", userID).Order("id").Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("failed to get orders of user %d: %w", userID, err)
	}
	return orders, nil
}

func (r *GORMOrderRepository) GetByID(id int) (*models.Order, error) {
	var order models.Order
	if err := r.db.Preload("Items").First(&order, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("order with ID %d not found: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get order %d: %w", id, err)
	}
	return &order, nil
}

func (r *GORMOrderRepository) PlaceFromCart(order *models.Order, lines []models.CartItem) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		ids := make([]int, 0, len(lines))
		for _, line := range lines {
			var current models.CartItem
			err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&current, "id = ?", line.ID).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("cart item %d: %w", line.ID, ErrCartChanged)
			}
			if err != nil {
				return err
			}
			if !sameLine(current, line) {
				return fmt.Errorf("cart item %d: %w", line.ID, ErrCartChanged)
			}
			ids = append(ids, line.ID)
		}

		for _, it := range order.Items {
			var product models.Product
			if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&product, "id = ?", it.ProductID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return fmt.Errorf("product with ID %d not found: %w", it.ProductID, ErrNotFound)
				}
				return err
			}
			if !product.HasStock(it.Quantity) {
				return fmt.Errorf("product %s: %w", product.Name, ErrInsufficientStock)
			}
			if product.StockQuantity == nil {
				continue
			}
			if err := tx.Model(&models.Product{}).Where("id = ?", product.ID).
				Update("stock_quantity", gorm.Expr("stock_quantity - ?", it.Quantity)).Error; err != nil {
				return err
			}
		}

		order.ID = 0
		for i := range order.Items {
			order.Items[i].ID = 0
		}
		if err := tx.Create(order).Error; err != nil {
			return fmt.Errorf("failed to create order: %w", err)
		}
		if len(ids) > 0 {
			if err := tx.Where("id IN ?", ids).Delete(&models.CartItem{}).Error; err != nil {
				return fmt.Errorf("failed to remove ordered cart items: %w", err)
			}
		}
		return nil
	})
}

func (r *GORMOrderRepository) UpdateStatus(id int, status models.OrderStatus) (*models.Order, error) {
	res := r.db.Model(&models.Order{}).Where("id = ?", id).
		Updates(map[string]any{"status": status, "updated_at": time.Now().UTC()})
	if res.Error != nil {
		return nil, fmt.Errorf("failed to update order status: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, fmt.Errorf("order with ID %d not found for status update: %w", id, ErrNotFound)
	}
	return r.GetByID(id)
}
