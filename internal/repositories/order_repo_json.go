package repositories

import (
	"errors"
	"fmt"
	"time"

	"storefront/internal/models"
	"storefront/internal/store"
)

// orderRecord is the stored form of an order; items live in their own collection.
type orderRecord struct {
	ID                int                  `json:"id"`
	OrderNumber       string               `json:"order_number"`
	UserID            int                  `json:"user_id"`
	Status            models.OrderStatus   `json:"status"`
	PaymentStatus     models.PaymentStatus `json:"payment_status"`
	Subtotal          int64                `json:"subtotal"`
	TotalAmount       int64                `json:"total_amount"`
	ShippingAddressID int                  `json:"shipping_address_id"`
	CreatedAt         time.Time            `json:"created_at"`
	UpdatedAt         time.Time            `json:"updated_at"`
}

func (o orderRecord) withItems(items []models.OrderItem) models.Order {
	return models.Order{
		ID:                o.ID,
		OrderNumber:       o.OrderNumber,
		UserID:            o.UserID,
		Status:            o.Status,
		PaymentStatus:     o.PaymentStatus,
		Subtotal:          o.Subtotal,
		TotalAmount:       o.TotalAmount,
		ShippingAddressID: o.ShippingAddressID,
		Items:             items,
		CreatedAt:         o.CreatedAt,
		UpdatedAt:         o.UpdatedAt,
	}
}

// JSONOrderRepository keeps orders and order items in the JSON store.
type JSONOrderRepository struct {
	store *store.Store
}

// NewJSONOrderRepository creates a new instance of JSONOrderRepository.
func NewJSONOrderRepository(s *store.Store) *JSONOrderRepository {
	return &JSONOrderRepository{store: s}
}

// GetByUserID returns the orders of a user, oldest first.
func (r *JSONOrderRepository) GetByUserID(userID int) ([]models.Order, error) {
	var orders []models.Order
	err := r.store.View(func(tx *store.Tx) error {
		recs, err := store.Filter(tx, ordersCollection, func(o orderRecord) bool { return o.UserID == userID })
		if err != nil {
			return err
		}
		orders = make([]models.Order, 0, len(recs))
		for _, rec := range recs {
			items, err := orderItems(tx, rec.ID)
			if err != nil {
				return err
			}
			orders = append(orders, rec.withItems(items))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get orders of user %d: %w", userID, err)
	}
	return orders, nil
}

// GetByID returns an order by its ID.
func (r *JSONOrderRepository) GetByID(id int) (*models.Order, error) {
	var order models.Order
	err := r.store.View(func(tx *store.Tx) error {
		rec, err := store.Get[orderRecord](tx, ordersCollection, id)
		if err != nil {
			return err
		}
		items, err := orderItems(tx, id)
		if err != nil {
			return err
		}
		order = rec.withItems(items)
		return nil
	})
	if err != nil {
		return nil, notFoundOr(err, "order with ID %d not found", id)
	}
	return &order, nil
}

// PlaceFromCart writes the order, its items, the stock decrements and the
// removal of the ordered cart lines in a single store transaction.
func (r *JSONOrderRepository) PlaceFromCart(order *models.Order, lines []models.CartItem) error {
	return r.store.Update(func(tx *store.Tx) error {
		for _, line := range lines {
			current, err := store.Get[models.CartItem](tx, cartItemsCollection, line.ID)
			if errors.Is(err, store.ErrNotFound) {
				return fmt.Errorf("cart item %d: %w", line.ID, ErrCartChanged)
			}
			if err != nil {
				return err
			}
			if !sameLine(current, line) {
				return fmt.Errorf("cart item %d: %w", line.ID, ErrCartChanged)
			}
		}

		for _, it := range order.Items {
			product, err := store.Get[models.Product](tx, productsCollection, it.ProductID)
			if err != nil {
				return notFoundOr(err, "product with ID %d not found", it.ProductID)
			}
			if !product.HasStock(it.Quantity) {
				return fmt.Errorf("product %s: %w", product.Name, ErrInsufficientStock)
			}
			if product.StockQuantity == nil {
				continue
			}
			left := *product.StockQuantity - it.Quantity
			if _, err := store.Patch[models.Product](tx, productsCollection, product.ID, map[string]any{"stock_quantity": left}); err != nil {
				return err
			}
		}

		rec, err := store.Insert(tx, ordersCollection, orderRecord{
			OrderNumber:       order.OrderNumber,
			UserID:            order.UserID,
			Status:            order.Status,
			PaymentStatus:     order.PaymentStatus,
			Subtotal:          order.Subtotal,
			TotalAmount:       order.TotalAmount,
			ShippingAddressID: order.ShippingAddressID,
			CreatedAt:         order.CreatedAt,
			UpdatedAt:         order.UpdatedAt,
		})
		if err != nil {
			return fmt.Errorf("failed to create order: %w", err)
		}

		items := make([]models.OrderItem, 0, len(order.Items))
		for _, it := range order.Items {
			it.OrderID = rec.ID
			created, err := store.Insert(tx, orderItemsCollection, it)
			if err != nil {
				return fmt.Errorf("failed to create order item: %w", err)
			}
			items = append(items, created)
		}

		for _, line := range lines {
			if err := store.Delete(tx, cartItemsCollection, line.ID); err != nil {
				return fmt.Errorf("failed to remove cart item %d: %w", line.ID, err)
			}
		}

		*order = rec.withItems(items)
		return nil
	})
}

// UpdateStatus updates the status of an order.
func (r *JSONOrderRepository) UpdateStatus(id int, status models.OrderStatus) (*models.Order, error) {
	var order models.Order
	err := r.store.Update(func(tx *store.Tx) error {
		rec, err := store.Patch[orderRecord](tx, ordersCollection, id, map[string]any{
			"status":     status,
			"updated_at": time.Now().UTC(),
		})
		if err != nil {
			return err
		}
		items, err := orderItems(tx, id)
		if err != nil {
			return err
		}
		order = rec.withItems(items)
		return nil
	})
	if err != nil {
		return nil, notFoundOr(err, "order with ID %d not found for status update", id)
	}
	return &order, nil
}

func orderItems(tx *store.Tx, orderID int) ([]models.OrderItem, error) {
	return store.Filter(tx, orderItemsCollection, func(it models.OrderItem) bool { return it.OrderID == orderID })
}

// sameLine reports whether a stored cart line still matches the one an order was built from.
func sameLine(current, ordered models.CartItem) bool {
	return current.CartID == ordered.CartID &&
		current.ProductID == ordered.ProductID &&
		current.Quantity == ordered.Quantity &&
		current.UnitPrice == ordered.UnitPrice
}
