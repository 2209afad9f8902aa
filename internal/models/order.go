package models

import "time"

type OrderStatus string
type PaymentStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusConfirmed  OrderStatus = "confirmed"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"

	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusFailed   PaymentStatus = "failed"
	PaymentStatusRefunded PaymentStatus = "refunded"
)

// next lists the forward step of each non-terminal status. Cancellation is
// handled separately because it is reachable from every non-terminal status.
var next = map[OrderStatus]OrderStatus{
	OrderStatusPending:    OrderStatusConfirmed,
	OrderStatusConfirmed:  OrderStatusProcessing,
	OrderStatusProcessing: OrderStatusShipped,
	OrderStatusShipped:    OrderStatusDelivered,
}

// Valid reports whether s is one of the known order statuses.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusProcessing,
		OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// Terminal reports whether no transition leaves s.
func (s OrderStatus) Terminal() bool {
	return s == OrderStatusDelivered || s == OrderStatusCancelled
}

// CanTransition reports whether an order may move from s to to.
func (s OrderStatus) CanTransition(to OrderStatus) bool {
	if s.Terminal() {
		return false
	}
	if to == OrderStatusCancelled {
		return true
	}
	return next[s] == to
}

// OrderItem is a snapshot of a cart line at purchase time.
type OrderItem struct {
	ID           int    `json:"id" gorm:"primaryKey;autoIncrement"`
	OrderID      int    `json:"order_id" gorm:"index"`
	ProductID    int    `json:"product_id"`
	ProductName  string `json:"product_name"`
	ProductPrice int64  `json:"product_price"`
	Quantity     int    `json:"quantity"`
	TotalPrice   int64  `json:"total_price"`
}

// Order represents a placed customer order.
type Order struct {
	ID                int           `json:"id" gorm:"primaryKey;autoIncrement"`
	OrderNumber       string        `json:"order_number" gorm:"uniqueIndex;type:varchar(32)"`
	UserID            int           `json:"user_id" gorm:"index"`
	Status            OrderStatus   `json:"status" gorm:"type:varchar(20);default:'pending'"`
	PaymentStatus     PaymentStatus `json:"payment_status" gorm:"type:varchar(20);default:'pending'"`
	Subtotal          int64         `json:"subtotal"`
	TotalAmount       int64         `json:"total_amount"`
	ShippingAddressID int           `json:"shipping_address_id"`
	Items             []OrderItem   `json:"items" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt         time.Time     `json:"created_at"`
	UpdatedAt         time.Time     `json:"updated_at"`
}
