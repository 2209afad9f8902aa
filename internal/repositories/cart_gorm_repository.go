package repositories

import (
	"errors"
	"fmt"

	"storefront/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GORMCartRepository is a GORM implementation of CartRepository.
type GORMCartRepository struct {
	db *gorm.DB
}

func NewGORMCartRepository(db *gorm.DB) *GORMCartRepository {
	return &GORMCartRepository{db: db}
}

func (r *GORMCartRepository) GetByUserID(userID int) (*models.ShoppingCart, error) {
	var cart models.ShoppingCart
	err := r.db.Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		First(&cart, "user_id = ?", userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("cart of user %d not found: %w", userID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get cart of user %d: %w", userID, err)
	}
	if cart.Items == nil {
		cart.Items = []models.CartItem{}
	}
	return &cart, nil
}

func (r *GORMCartRepository) GetOrCreate(userID int) (*models.ShoppingCart, error) {
	cart := models.ShoppingCart{UserID: userID}
	err := r.db.Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "user_id"}}, DoNothing: true}).
		Omit("Items").Create(&cart).Error
	if err != nil {
		return nil, fmt.Errorf("failed to create cart for user %d: %w", userID, err)
	}
	return r.GetByUserID(userID)
}

func (r *GORMCartRepository) GetItem(itemID int) (*models.CartItem, error) {
	var item models.CartItem
	if err := r.db.First(&item, "id = ?", itemID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("cart item with ID %d not found: %w", itemID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get cart item %d: %w", itemID, err)
	}
	return &item, nil
}

func (r *GORMCartRepository) AddItem(item *models.CartItem) error {
	var count int64
	if err := r.db.Model(&models.ShoppingCart{}).Where("id = ?", item.CartID).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check cart %d: %w", item.CartID, err)
	}
	if count == 0 {
		return fmt.Errorf("cart with ID %d not found: %w", item.CartID, ErrNotFound)
	}
	item.ID = 0
	if err := r.db.Create(item).Error; err != nil {
		return fmt.Errorf("failed to add cart item: %w", err)
	}
	return nil
}

func (r *GORMCartRepository) UpdateItemQuantity(itemID, quantity int) (*models.CartItem, error) {
	res := r.db.Model(&models.CartItem{}).Where("id = ?", itemID).Update("quantity", quantity)
	if res.Error != nil {
		return nil, fmt.Errorf("failed to update cart item: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, fmt.Errorf("cart item with ID %d not found for update: %w", itemID, ErrNotFound)
	}
	return r.GetItem(itemID)
}

func (r *GORMCartRepository) DeleteItem(itemID int) error {
	res := r.db.Delete(&models.CartItem{}, "id = ?", itemID)
	if res.Error != nil {
		return fmt.Errorf("failed to delete cart item: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("cart item with ID %d not found for deletion: %w", itemID, ErrNotFound)
	}
	return nil
}

func (r *GORMCartRepository) ClearItems(cartID int) (int, error) {
	res := r.db.Where("cart_id = ?", cartID).Delete(&models.CartItem{})
	if res.Error != nil {
		return 0, fmt.Errorf("failed to clear cart %d: %w", cartID, res.Error)
	}
	return int(res.RowsAffected), nil
}
