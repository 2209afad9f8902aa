package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"storefront/internal/events"
	"storefront/internal/models"
	"storefront/internal/repositories"

	"github.com/google/uuid"
)

// PlaceOrderInput is a checkout request. Subtotal and TotalAmount are
// optional; when given they must equal the cart subtotal.
type PlaceOrderInput struct {
	ShippingAddressID int
	Subtotal          *int64
	TotalAmount       *int64
}

// OrderService handles business logic related to orders.
type OrderService struct {
	orderRepo   repositories.OrderRepository
	cartRepo    repositories.CartRepository
	productRepo repositories.ProductRepository
	addressRepo repositories.AddressRepository
	publisher   events.Publisher
}

// NewOrderService creates a new OrderService.
func NewOrderService(
	orderRepo repositories.OrderRepository,
	cartRepo repositories.CartRepository,
	productRepo repositories.ProductRepository,
	addressRepo repositories.AddressRepository,
	publisher events.Publisher,
) *OrderService {
	return &OrderService{
		orderRepo:   orderRepo,
		cartRepo:    cartRepo,
		productRepo: productRepo,
		addressRepo: addressRepo,
		publisher:   publisher,
	}
}

// GetOrders retrieves the orders of a user.
func (s *OrderService) GetOrders(userID int) ([]models.Order, error) {
	return s.orderRepo.GetByUserID(userID)
}

// GetOrder retrieves one of the user's orders. Orders of other users are
// reported as missing.
func (s *OrderService) GetOrder(userID, id int) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(id)
	if err != nil {
		return nil, fromRepo(err, "Order")
	}
	if order.UserID != userID {
		return nil, newError(ErrNotFound, "Order not found")
	}
	return order, nil
}

// PlaceOrder turns the user's cart into an order. Lines are copied with the
// price they were added at; tracked stock is decremented and exactly the
// ordered lines leave the cart in the same write.
func (s *OrderService) PlaceOrder(ctx context.Context, userID int, in PlaceOrderInput) (*models.Order, error) {
	if in.ShippingAddressID <= 0 {
		return nil, ValidationError("Invalid order", map[string]string{"shipping_address_id": "Shipping address is required"})
	}
	address, err := s.addressRepo.GetByID(in.ShippingAddressID)
	if err != nil {
		return nil, fromRepo(err, "Address")
	}
	if address.UserID != userID {
		return nil, newError(ErrNotFound, "Address not found")
	}

	cart, err := s.cartRepo.GetOrCreate(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}
	if len(cart.Items) == 0 {
		return nil, newError(ErrValidation, "Cart is empty")
	}

	items := make([]models.OrderItem, 0, len(cart.Items))
	for _, line := range cart.Items {
		product, err := s.productRepo.GetByID(line.ProductID)
		if err != nil {
			return nil, fromRepo(err, "Product")
		}
		items = append(items, models.OrderItem{
			ProductID:    line.ProductID,
			ProductName:  product.Name,
			ProductPrice: line.UnitPrice,
			Quantity:     line.Quantity,
			TotalPrice:   line.LineTotal(),
		})
	}

	subtotal := cart.Subtotal()
	if (in.Subtotal != nil && *in.Subtotal != subtotal) || (in.TotalAmount != nil && *in.TotalAmount != subtotal) {
		return nil, newError(ErrValidation, "Order total does not match the cart total of %d", subtotal)
	}

	now := time.Now().UTC()
	order := &models.Order{
		OrderNumber:       newOrderNumber(),
		UserID:            userID,
		Status:            models.OrderStatusPending,
		PaymentStatus:     models.PaymentStatusPending,
		Subtotal:          subtotal,
		TotalAmount:       subtotal,
		ShippingAddressID: address.ID,
		Items:             items,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := s.orderRepo.PlaceFromCart(order, cart.Items); err != nil {
		if errors.Is(err, repositories.ErrCartChanged) {
			return nil, newError(ErrConflict, "Cart changed while placing the order, please review it")
		}
		if errors.Is(err, repositories.ErrInsufficientStock) || errors.Is(err, repositories.ErrNotFound) {
			return nil, fromRepo(err, "Product")
		}
		return nil, fmt.Errorf("failed to place order: %w", err)
	}

	if err := s.publisher.Publish(ctx, events.OrderPlaced(*order)); err != nil {
		log.Printf("Failed to publish order %s: %v", order.OrderNumber, err)
	}
	return order, nil
}

// UpdateStatus lets the owner of an order cancel it. Every other move is
// made by the store through AdvanceStatus.
func (s *OrderService) UpdateStatus(ctx context.Context, userID, id int, status string) (*models.Order, error) {
	next, err := parseStatus(status)
	if err != nil {
		return nil, err
	}
	order, err := s.GetOrder(userID, id)
	if err != nil {
		return nil, err
	}
	if next != models.OrderStatusCancelled {
		return nil, newError(ErrForbidden, "Customers can only cancel an order")
	}
	return s.transition(ctx, order, next)
}

// AdvanceStatus moves any order along the status machine on behalf of the store.
func (s *OrderService) AdvanceStatus(ctx context.Context, id int, status string) (*models.Order, error) {
	next, err := parseStatus(status)
	if err != nil {
		return nil, err
	}
	order, err := s.orderRepo.GetByID(id)
	if err != nil {
		return nil, fromRepo(err, "Order")
	}
	return s.transition(ctx, order, next)
}

func parseStatus(status string) (models.OrderStatus, error) {
	next := models.OrderStatus(strings.ToLower(strings.TrimSpace(status)))
	if !next.Valid() {
		return "", ValidationError("Invalid order status", map[string]string{"status": fmt.Sprintf("Unknown status %q", status)})
	}
	return next, nil
}

func (s *OrderService) transition(ctx context.Context, order *models.Order, next models.OrderStatus) (*models.Order, error) {
	if !order.Status.CanTransition(next) {
		return nil, newError(ErrConflict, "Order cannot move from %s to %s", order.Status, next)
	}

	updated, err := s.orderRepo.UpdateStatus(order.ID, next)
	if err != nil {
		return nil, fromRepo(err, "Order")
	}

	if err := s.publisher.Publish(ctx, events.OrderStatusChanged(*updated)); err != nil {
		log.Printf("Failed to publish status of order %s: %v", updated.OrderNumber, err)
	}
	return updated, nil
}

func newOrderNumber() string {
	return "ORD-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
}
