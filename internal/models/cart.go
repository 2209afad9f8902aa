package models

import "time"

// ShoppingCart is the single cart owned by a user.
type ShoppingCart struct {
	ID        int        `json:"id" gorm:"primaryKey;autoIncrement"`
	UserID    int        `json:"user_id" gorm:"uniqueIndex"`
	Items     []CartItem `json:"items" gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time  `json:"created_at"`
}

// CartItem is one line of a cart. UnitPrice is the product price captured
// when the line was added and is never refreshed from the catalog.
type CartItem struct {
	ID        int      `json:"id" gorm:"primaryKey;autoIncrement"`
	CartID    int      `json:"cart_id" gorm:"index"`
	ProductID int      `json:"product_id"`
	Quantity  int      `json:"quantity"`
	UnitPrice int64    `json:"unit_price"`
	Product   *Product `json:"product,omitempty" gorm:"-"`
}

// LineTotal is UnitPrice * Quantity in minor units.
func (i CartItem) LineTotal() int64 {
	return i.UnitPrice * int64(i.Quantity)
}

// ItemCount is the sum of the quantities of all lines.
func (c ShoppingCart) ItemCount() int {
	n := 0
	for _, it := range c.Items {
		n += it.Quantity
	}
	return n
}

// Subtotal is the sum of all line totals in minor units.
func (c ShoppingCart) Subtotal() int64 {
	var total int64
	for _, it := range c.Items {
		total += it.LineTotal()
	}
	return total
}
