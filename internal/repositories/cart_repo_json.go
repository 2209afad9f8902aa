package repositories

import (
	"fmt"
	"time"

	"storefront/internal/models"
	"storefront/internal/store"
)

// cartRecord is the stored form of a cart; items live in their own collection.
type cartRecord struct {
	ID        int       `json:"id"`
	UserID    int       `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

// JSONCartRepository keeps carts and cart items in the JSON store.
type JSONCartRepository struct {
	store *store.Store
}

func NewJSONCartRepository(s *store.Store) *JSONCartRepository {
	return &JSONCartRepository{store: s}
}

func (r *JSONCartRepository) GetByUserID(userID int) (*models.ShoppingCart, error) {
	var cart *models.ShoppingCart
	err := r.store.View(func(tx *store.Tx) error {
		var err error
		cart, err = loadCart(tx, userID)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get cart of user %d: %w", userID, err)
	}
	if cart == nil {
		return nil, fmt.Errorf("cart of user %d not found: %w", userID, ErrNotFound)
	}
	return cart, nil
}

func (r *JSONCartRepository) GetOrCreate(userID int) (*models.ShoppingCart, error) {
	if cart, err := r.GetByUserID(userID); err == nil {
		return cart, nil
	}

	var cart *models.ShoppingCart
	err := r.store.Update(func(tx *store.Tx) error {
		// Re-check under the write lock; another request may have created it.
		existing, err := loadCart(tx, userID)
		if err != nil || existing != nil {
			cart = existing
			return err
		}
		rec, err := store.Insert(tx, cartsCollection, cartRecord{UserID: userID, CreatedAt: time.Now().UTC()})
		if err != nil {
			return err
		}
		cart = &models.ShoppingCart{ID: rec.ID, UserID: rec.UserID, CreatedAt: rec.CreatedAt, Items: []models.CartItem{}}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create cart for user %d: %w", userID, err)
	}
	return cart, nil
}

func (r *JSONCartRepository) GetItem(itemID int) (*models.CartItem, error) {
	var item models.CartItem
	err := r.store.View(func(tx *store.Tx) error {
		var err error
		item, err = store.Get[models.CartItem](tx, cartItemsCollection, itemID)
		return err
	})
	if err != nil {
		return nil, notFoundOr(err, "cart item with ID %d not found", itemID)
	}
	return &item, nil
}

func (r *JSONCartRepository) AddItem(item *models.CartItem) error {
	err := r.store.Update(func(tx *store.Tx) error {
		if _, err := store.Get[cartRecord](tx, cartsCollection, item.CartID); err != nil {
			return err
		}
		stored := *item
		stored.Product = nil
		created, err := store.Insert(tx, cartItemsCollection, stored)
		if err != nil {
			return err
		}
		item.ID = created.ID
		return nil
	})
	if err != nil {
		return notFoundOr(err, "cart with ID %d not found", item.CartID)
	}
	return nil
}

func (r *JSONCartRepository) UpdateItemQuantity(itemID, quantity int) (*models.CartItem, error) {
	var item models.CartItem
	err := r.store.Update(func(tx *store.Tx) error {
		var err error
		item, err = store.Patch[models.CartItem](tx, cartItemsCollection, itemID, map[string]any{"quantity": quantity})
		return err
	})
	if err != nil {
		return nil, notFoundOr(err, "cart item with ID %d not found for update", itemID)
	}
	return &item, nil
}

func (r *JSONCartRepository) DeleteItem(itemID int) error {
	err := r.store.Update(func(tx *store.Tx) error {
		return store.Delete(tx, cartItemsCollection, itemID)
	})
	if err != nil {
		return notFoundOr(err, "cart item with ID %d not found for deletion", itemID)
	}
	return nil
}

func (r *JSONCartRepository) ClearItems(cartID int) (int, error) {
	var removed int
	err := r.store.Update(func(tx *store.Tx) error {
		var err error
		removed, err = store.DeleteWhere(tx, cartItemsCollection, func(it models.CartItem) bool {
			return it.CartID == cartID
		})
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("failed to clear cart %d: %w", cartID, err)
	}
	return removed, nil
}

// loadCart returns nil without error when the user has no cart yet.
func loadCart(tx *store.Tx, userID int) (*models.ShoppingCart, error) {
	rec, found, err := store.Find(tx, cartsCollection, func(c cartRecord) bool { return c.UserID == userID })
	if err != nil || !found {
		return nil, err
	}
	items, err := store.Filter(tx, cartItemsCollection, func(it models.CartItem) bool { return it.CartID == rec.ID })
	if err != nil {
		return nil, err
	}
	return &models.ShoppingCart{ID: rec.ID, UserID: rec.UserID, CreatedAt: rec.CreatedAt, Items: items}, nil
}
